package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/ivlev/wipeframes/internal/config"
	"github.com/ivlev/wipeframes/internal/director"
	"github.com/ivlev/wipeframes/internal/engine"
	"github.com/ivlev/wipeframes/internal/system"
	"github.com/ivlev/wipeframes/internal/video"
)

var buildVersion = "dev"

func main() {
	configPtr := flag.String("config", "", "YAML config file (WIPE_* environment variables override it)")
	image1Ptr := flag.String("image1", "", "First image: file, directory, deck.pdf#N or qr:TEXT (default: older of the two latest in input/images/)")
	image2Ptr := flag.String("image2", "", "Second image (default: newest in input/images/)")
	outputPtr := flag.String("output", "", "Output .mp4/.mov/.mkv or a directory for PNG frames (default: timestamped video in output/)")
	modePtr := flag.String("mode", "hard", "Wipe mode: hard, soft")
	framesPtr := flag.Int("frames", 24, "Number of frames, 2..240")
	directionPtr := flag.String("direction", "left_to_right", "left_to_right, right_to_left, top_to_bottom, bottom_to_top")
	fpsPtr := flag.Float64("fps", 24, "Frame rate, 1..60 (truncated to an integer)")
	widthPtr := flag.Float64("width", 0.2, "Soft mode transition band, 0.01..1")
	channelsPtr := flag.Int("channels", 3, "Channels per pixel: 1, 3 or 4")
	workersPtr := flag.Int("workers", 0, "Frames rendered in parallel (0 - one per CPU)")
	qualityPtr := flag.Int("quality", 0, "Video quality (0 - auto, x264: CRF 1-51, VideoToolbox: bitrate = Q*100 kbit/s)")
	dpiPtr := flag.Int("dpi", 150, "DPI for PDF endpoints")
	statsPtr := flag.Bool("stats", false, "Print a performance report")
	logPathPtr := flag.String("log-path", "logs", "Directory for the rotating JSON log (empty - terminal only)")
	planPtr := flag.String("plan", "", "Render every transition of a YAML plan ('latest' - newest in plans/)")
	writePlanPtr := flag.String("write-plan", "", "Write the resolved transition as a YAML plan and exit ('auto' - timestamped in plans/)")
	verbosePtr := flag.BoolP("verbose", "v", false, "Show debug output")

	flag.Parse()

	cfg, err := config.Load(*configPtr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[-] Config error: %v\n", err)
		os.Exit(1)
	}

	// Flags given explicitly win over file and environment.
	if flag.CommandLine.Changed("image1") {
		cfg.Image1 = *image1Ptr
	}
	if flag.CommandLine.Changed("image2") {
		cfg.Image2 = *image2Ptr
	}
	if flag.CommandLine.Changed("output") {
		cfg.Output = *outputPtr
	}
	if flag.CommandLine.Changed("mode") {
		cfg.Mode = *modePtr
	}
	if flag.CommandLine.Changed("frames") {
		cfg.Frames = *framesPtr
	}
	if flag.CommandLine.Changed("direction") {
		cfg.Direction = *directionPtr
	}
	if flag.CommandLine.Changed("fps") {
		cfg.FPS = *fpsPtr
	}
	if flag.CommandLine.Changed("width") {
		cfg.TransitionWidth = *widthPtr
	}
	if flag.CommandLine.Changed("channels") {
		cfg.Channels = *channelsPtr
	}
	if flag.CommandLine.Changed("workers") {
		cfg.Workers = *workersPtr
	}
	if flag.CommandLine.Changed("quality") {
		cfg.Quality = *qualityPtr
	}
	if flag.CommandLine.Changed("dpi") {
		cfg.DPI = *dpiPtr
	}
	if flag.CommandLine.Changed("stats") {
		cfg.ShowStats = *statsPtr
	}
	if flag.CommandLine.Changed("log-path") {
		cfg.LogPath = *logPathPtr
	}
	if flag.CommandLine.Changed("verbose") {
		cfg.Verbose = *verbosePtr
	}
	cfg.BuildVersion = buildVersion

	if err := config.Verify(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "[-] Config error: %v\n", err)
		os.Exit(1)
	}

	system.SetupLogger(cfg.LogPath, cfg.Verbose)
	system.InitResourceLimits()

	system.EnsureDirs("input/images", "output")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, &cfg, *planPtr, *writePlanPtr); err != nil {
		stop()
		if errors.Is(err, context.Canceled) {
			log.Warn("[!] Interrupted")
			os.Exit(130)
		}
		log.Errorf("[-] %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, planPath, writePlan string) error {
	encoderName, _ := system.GetBestH264Encoder()
	if encoderName != "libx264" {
		log.Infof("[*] Hardware acceleration detected: %s", encoderName)
	}
	cfg.VideoEncoder = encoderName
	if cfg.Quality == 0 {
		cfg.Quality = system.DefaultQuality(encoderName)
	}

	if planPath != "" {
		if planPath == "latest" {
			latest, err := director.FindLatestPlan("plans")
			if err != nil {
				return err
			}
			planPath = latest
		}
		plan, err := director.ReadPlan(planPath)
		if err != nil {
			return fmt.Errorf("read plan: %w", err)
		}
		log.Infof("[*] Plan %s: %d transitions", planPath, len(plan.Transitions))
		if err := engine.RunPlan(ctx, *cfg, plan); err != nil {
			return err
		}
		log.Infof("[+++] Success! Plan %s finished", planPath)
		return nil
	}

	if err := resolveInputs(cfg); err != nil {
		return err
	}

	if writePlan != "" {
		if writePlan == "auto" {
			if err := system.EnsureDirs("plans"); err != nil {
				return fmt.Errorf("write plan: %w", err)
			}
			writePlan = director.GeneratePlanPath("plans")
		}
		if err := director.WritePlan(director.FromConfig(*cfg), writePlan); err != nil {
			return fmt.Errorf("write plan: %w", err)
		}
		log.Infof("[+++] Plan written: %s", writePlan)
		return nil
	}

	w := video.NewWriter(cfg.Output, cfg.VideoEncoder, cfg.Quality)
	if _, err := engine.NewTransitionProject(cfg, w).Run(ctx); err != nil {
		return err
	}

	log.Infof("[+++] Success! Result: %s", cfg.Output)
	return nil
}

// resolveInputs fills missing endpoints from input/images and names the
// output after the second image.
func resolveInputs(cfg *config.Config) error {
	if cfg.Image1 == "" || cfg.Image2 == "" {
		latest, err := system.FindLatestImages("input/images", 2)
		if err != nil {
			return fmt.Errorf("%w. Put two images into input/images/", err)
		}
		if cfg.Image1 == "" {
			cfg.Image1 = latest[0]
		}
		if cfg.Image2 == "" {
			cfg.Image2 = latest[1]
		}
		log.Infof("[*] Selected images: %s, %s", cfg.Image1, cfg.Image2)
	}

	if cfg.Output == "" {
		baseName := filepath.Base(strings.TrimPrefix(cfg.Image2, "qr:"))
		nameOnly := strings.TrimSuffix(baseName, filepath.Ext(baseName))
		cleanName := strings.ReplaceAll(nameOnly, " ", "_")
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		cfg.Output = filepath.Join("output", fmt.Sprintf("%s_%s_%s.mp4", cleanName, cfg.Mode, timestamp))
	}
	return nil
}
