package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/ivlev/wipeframes/internal/frame"
	"github.com/ivlev/wipeframes/internal/system"
)

// FrameWriter stores a rendered batch at path
type FrameWriter interface {
	WriteBatch(ctx context.Context, batch frame.Batch, fps int, path string) error
}

// NewWriter picks a writer from the output path: video containers go through
// ffmpeg, anything else is treated as a directory of PNG frames.
func NewWriter(path, encoderName string, quality int) FrameWriter {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".mov", ".mkv":
		return &FFmpegEncoder{EncoderName: encoderName, Quality: quality}
	default:
		return &PNGSequenceWriter{}
	}
}

type FFmpegEncoder struct {
	EncoderName string
	Quality     int
}

// WriteBatch streams the frames as raw RGBA into ffmpeg
func (e *FFmpegEncoder) WriteBatch(ctx context.Context, batch frame.Batch, fps int, videoPath string) error {
	if len(batch) == 0 {
		return fmt.Errorf("nothing to encode")
	}
	if dir := filepath.Dir(videoPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	shape := batch.Shape()
	args := e.buildFFmpegArgs(shape.Width, shape.Height, fps, videoPath)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe error: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg start error: %w", err)
	}

	for i, img := range batch {
		if err := e.writeRawRGBA(stdin, img); err != nil {
			stdin.Close()
			cmd.Wait()
			return fmt.Errorf("write raw frame %d: %w", i, err)
		}
	}
	stdin.Close()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w, output: %s", err, out.String())
	}

	return nil
}

func (e *FFmpegEncoder) buildFFmpegArgs(width, height, fps int, videoPath string) []string {
	encoderName := e.EncoderName
	if encoderName == "" {
		encoderName = "libx264"
	}

	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", width, height),
		"-framerate", fmt.Sprintf("%d", fps),
		"-i", "-",
		// yuv420p needs even dimensions
		"-vf", "pad=ceil(iw/2)*2:ceil(ih/2)*2",
		"-pix_fmt", "yuv420p",
		"-c:v", encoderName,
	}

	switch encoderName {
	case "h264_videotoolbox":
		bitrate := e.Quality * 100
		args = append(args, "-b:v", fmt.Sprintf("%dk", bitrate))
	case "h264_nvenc":
		args = append(args, "-cq", fmt.Sprintf("%d", e.Quality))
	default: // libx264
		args = append(args, "-crf", fmt.Sprintf("%d", e.Quality), "-preset", "medium")
	}

	args = append(args, videoPath)
	return args
}

func (e *FFmpegEncoder) writeRawRGBA(w io.Writer, img *frame.Image) error {
	rgba := system.GetImage(image.Rect(0, 0, img.Width, img.Height))
	defer system.PutImage(rgba)

	if err := frame.ToRGBA(rgba, img); err != nil {
		return err
	}
	_, err := w.Write(rgba.Pix)
	return err
}

// PNGSequenceWriter stores frames as frame_0000.png, frame_0001.png, ...
// inside a directory.
type PNGSequenceWriter struct{}

func (s *PNGSequenceWriter) WriteBatch(ctx context.Context, batch frame.Batch, fps int, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for i, img := range batch {
		if err := ctx.Err(); err != nil {
			return err
		}
		rgba := system.GetImage(image.Rect(0, 0, img.Width, img.Height))
		err := frame.ToRGBA(rgba, img)
		if err == nil {
			err = imgio.Save(FramePath(dir, i), rgba, imgio.PNGEncoder())
		}
		system.PutImage(rgba)
		if err != nil {
			return fmt.Errorf("write frame %d: %w", i, err)
		}
	}
	return nil
}

// FramePath is the file name of frame index inside a PNG sequence directory
func FramePath(dir string, index int) string {
	return filepath.Join(dir, fmt.Sprintf("frame_%04d.png", index))
}
