package video

import (
	"context"
	"image/color"
	"testing"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/google/go-cmp/cmp"

	"github.com/ivlev/wipeframes/internal/frame"
)

func TestNewWriter(t *testing.T) {
	if _, ok := NewWriter("out/clip.MP4", "libx264", 23).(*FFmpegEncoder); !ok {
		t.Error("Expected FFmpegEncoder for .mp4")
	}
	if _, ok := NewWriter("out/frames", "libx264", 23).(*PNGSequenceWriter); !ok {
		t.Error("Expected PNGSequenceWriter for a directory")
	}
}

func TestBuildFFmpegArgs(t *testing.T) {
	tests := []struct {
		encoder string
		quality int
		want    []string
	}{
		{"libx264", 23, []string{"-crf", "23", "-preset", "medium"}},
		{"", 23, []string{"-crf", "23", "-preset", "medium"}},
		{"h264_nvenc", 28, []string{"-cq", "28"}},
		{"h264_videotoolbox", 75, []string{"-b:v", "7500k"}},
	}

	for _, tt := range tests {
		t.Run(tt.encoder, func(t *testing.T) {
			e := &FFmpegEncoder{EncoderName: tt.encoder, Quality: tt.quality}
			args := e.buildFFmpegArgs(64, 32, 24, "out.mp4")

			if args[len(args)-1] != "out.mp4" {
				t.Errorf("Output path should be last: %v", args)
			}
			tail := args[len(args)-1-len(tt.want) : len(args)-1]
			if diff := cmp.Diff(tt.want, tail); diff != "" {
				t.Errorf("Quality args mismatch (-want +got):\n%s", diff)
			}
			if !containsPair(args, "-video_size", "64x32") || !containsPair(args, "-framerate", "24") {
				t.Errorf("Missing input geometry: %v", args)
			}
		})
	}
}

func containsPair(args []string, key, value string) bool {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == key && args[i+1] == value {
			return true
		}
	}
	return false
}

func TestPNGSequenceWriter(t *testing.T) {
	dir := t.TempDir()
	batch := frame.Batch{
		frame.Filled(3, 4, 3, 0),
		frame.Filled(3, 4, 3, 1),
	}

	w := &PNGSequenceWriter{}
	if err := w.WriteBatch(context.Background(), batch, 24, dir); err != nil {
		t.Fatalf("WriteBatch failed: %v", err)
	}

	for i, want := range []color.NRGBA{{A: 255}, {R: 255, G: 255, B: 255, A: 255}} {
		img, err := imgio.Open(FramePath(dir, i))
		if err != nil {
			t.Fatalf("Frame %d: %v", i, err)
		}
		if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
			t.Errorf("Frame %d: unexpected bounds %v", i, img.Bounds())
		}
		got := color.NRGBAModel.Convert(img.At(1, 1)).(color.NRGBA)
		if got != want {
			t.Errorf("Frame %d: expected %v, got %v", i, want, got)
		}
	}
}

func TestPNGSequenceWriterCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := &PNGSequenceWriter{}
	if err := w.WriteBatch(ctx, frame.Batch{frame.New(1, 1, 3)}, 24, t.TempDir()); err == nil {
		t.Error("Expected error for cancelled context")
	}
}
