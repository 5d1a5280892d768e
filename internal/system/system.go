package system

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/mem"
	log "github.com/sirupsen/logrus"
)

// ImageExtensions are the file types accepted as transition endpoints
var ImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

func InitResourceLimits() {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Warnf("[!] Unable to read the open file limit: %v", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	err = syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Warnf("[!] Unable to raise the open file limit: %v", err)
	} else {
		log.Debugf("[*] Open file limit raised to %d", rLimit.Cur)
	}
}

// EnsureDirs creates every directory in dirs. Failures are logged as
// warnings; the last one is returned.
func EnsureDirs(dirs ...string) error {
	var lastErr error
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0755); err != nil {
			log.Warnf("[!] Unable to create %s: %v", d, err)
			lastErr = err
		}
	}
	return lastErr
}

// IsImageFile reports whether name has one of ImageExtensions
func IsImageFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range ImageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// FindLatestImages returns the n most recently modified images in dir,
// oldest first, so they read as (image1, image2).
func FindLatestImages(dir string, n int) ([]string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	type candidate struct {
		path string
		mod  int64
	}
	var found []candidate

	for _, f := range files {
		if f.IsDir() || !IsImageFile(f.Name()) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		found = append(found, candidate{filepath.Join(dir, f.Name()), info.ModTime().UnixNano()})
	}

	if len(found) < n {
		return nil, fmt.Errorf("found %d images in %s, need %d", len(found), dir, n)
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].mod == found[j].mod {
			return found[i].path < found[j].path
		}
		return found[i].mod < found[j].mod
	})

	latest := found[len(found)-n:]
	paths := make([]string, 0, n)
	for _, c := range latest {
		paths = append(paths, c.path)
	}
	return paths, nil
}

func GetBestH264Encoder() (string, string) {
	// Priority:
	// 1. macOS (VideoToolbox)
	// 2. NVIDIA (NVENC)
	// 3. Software (libx264)

	encoders := []struct {
		name string
		args string
	}{
		{"h264_videotoolbox", ""},
		{"h264_nvenc", ""},
	}

	out, err := exec.Command("ffmpeg", "-encoders").CombinedOutput()
	if err != nil {
		return "libx264", ""
	}
	for _, enc := range encoders {
		if strings.Contains(string(out), enc.name) {
			return enc.name, enc.args
		}
	}

	return "libx264", ""
}

// DefaultQuality picks a quality value suited to the encoder
func DefaultQuality(encoderName string) int {
	switch encoderName {
	case "h264_videotoolbox":
		return 75 // bitrate = Q*100 kbit/s
	case "h264_nvenc":
		return 28 // roughly CRF-equivalent for NVENC
	default:
		return 23 // x264 CRF
	}
}

// CheckMemory warns when a buffer of need bytes would not fit into the
// memory currently available. It only fails when the probe itself fails.
func CheckMemory(ctx context.Context, need uint64) (bool, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return false, fmt.Errorf("unable to read memory stats: %w", err)
	}

	if need > vm.Available {
		log.WithFields(log.Fields{
			"need":      humanize.Bytes(need),
			"available": humanize.Bytes(vm.Available),
		}).Warn("[!] Frame batch may not fit into available memory")
		return false, nil
	}
	return true, nil
}
