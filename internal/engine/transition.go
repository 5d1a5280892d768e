package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/wipeframes/internal/effects"
	"github.com/ivlev/wipeframes/internal/frame"
	"github.com/ivlev/wipeframes/internal/renderer"
	"github.com/ivlev/wipeframes/internal/system"
)

// ErrInvalidArgument marks requests rejected before any frame is generated
var ErrInvalidArgument = errors.New("invalid argument")

// Parameter bounds accepted by the generators
const (
	MinFrames = 2
	MaxFrames = 240
	MinFPS    = 1.0
	MaxFPS    = 60.0
	MinWidth  = 0.01
	MaxWidth  = 1.0
)

// Request is one transition between two images
type Request struct {
	Image1 *frame.Image
	Image2 *frame.Image
	Frames int
	FPS    float64
}

// Assemble renders req.Frames frames with effect and returns them in index
// order together with the truncated frame rate. Image2 is normalized to
// Image1's size first. Frames are computed on up to workers goroutines;
// the result does not depend on the worker count.
//
// Assemble assumes a valid request (Frames >= 2, equal channel counts).
func Assemble(ctx context.Context, req Request, effect effects.Effect, workers int, progress func(done, total int)) (frame.Batch, int, error) {
	img1 := req.Image1
	img2 := frame.Normalize(img1, req.Image2)
	h, w := img1.Height, img1.Width

	if workers <= 0 {
		workers = 1
	}

	batch := make(frame.Batch, req.Frames)
	done := atomic.NewInt64(0)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < req.Frames; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			buf := system.GetMaskBuffer(h * w)
			defer system.PutMaskBuffer(buf)

			mask := effects.MaskFromBuffer(*buf, h, w)
			effect.Fill(mask, i, req.Frames)

			out, err := renderer.Composite(img1, img2, mask)
			if err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			batch[i] = out

			n := done.Inc()
			if progress != nil {
				progress(int(n), req.Frames)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return batch, int(req.FPS), nil
}

// Generator validates transition parameters and runs the assembler
type Generator struct {
	// Workers bounds concurrent frame rendering; zero means one per CPU.
	Workers int
	// Progress, if set, is called after each finished frame. It may be
	// called concurrently.
	Progress func(done, total int)
}

// Hard renders a sharp wipe from image1 to image2. Only the first image of
// each input batch is used.
func (g *Generator) Hard(ctx context.Context, image1, image2 frame.Batch, frames int, direction effects.Direction, fps float64) (frame.Batch, int, error) {
	return g.Generate(ctx, image1, image2, frames, fps, &effects.HardWipe{Direction: direction})
}

// Soft renders a sigmoid wipe with a transition band of width (normalized).
func (g *Generator) Soft(ctx context.Context, image1, image2 frame.Batch, frames int, width float64, direction effects.Direction, fps float64) (frame.Batch, int, error) {
	return g.Generate(ctx, image1, image2, frames, fps, &effects.SoftWipe{Direction: direction, Width: width})
}

// Generate validates the request and the wipe parameters of effect, then
// renders the transition.
func (g *Generator) Generate(ctx context.Context, image1, image2 frame.Batch, frames int, fps float64, effect effects.Effect) (frame.Batch, int, error) {
	if err := checkEffect(effect); err != nil {
		return nil, 0, err
	}
	req, err := newRequest(image1, image2, frames, fps)
	if err != nil {
		return nil, 0, err
	}

	workers := g.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return Assemble(ctx, req, effect, workers, g.Progress)
}

func checkEffect(effect effects.Effect) error {
	switch e := effect.(type) {
	case *effects.HardWipe:
		if !e.Direction.Valid() {
			return fmt.Errorf("%w: unknown direction %v", ErrInvalidArgument, e.Direction)
		}
	case *effects.SoftWipe:
		if !e.Direction.Valid() {
			return fmt.Errorf("%w: unknown direction %v", ErrInvalidArgument, e.Direction)
		}
		if math.IsNaN(e.Width) || e.Width < MinWidth || e.Width > MaxWidth {
			return fmt.Errorf("%w: transition width %v outside [%.2f, %.1f]", ErrInvalidArgument, e.Width, MinWidth, MaxWidth)
		}
	case nil:
		return fmt.Errorf("%w: no effect", ErrInvalidArgument)
	}
	return nil
}

func newRequest(image1, image2 frame.Batch, frames int, fps float64) (Request, error) {
	if frames < MinFrames || frames > MaxFrames {
		return Request{}, fmt.Errorf("%w: frame count %d outside [%d, %d]", ErrInvalidArgument, frames, MinFrames, MaxFrames)
	}
	if math.IsNaN(fps) || fps < MinFPS || fps > MaxFPS {
		return Request{}, fmt.Errorf("%w: fps %v outside [%.1f, %.1f]", ErrInvalidArgument, fps, MinFPS, MaxFPS)
	}
	if err := image1.Validate(); err != nil {
		return Request{}, fmt.Errorf("%w: image1: %v", ErrInvalidArgument, err)
	}
	if err := image2.Validate(); err != nil {
		return Request{}, fmt.Errorf("%w: image2: %v", ErrInvalidArgument, err)
	}

	img1, img2 := image1[0], image2[0]
	if img1.Height == 0 || img1.Width == 0 || img2.Height == 0 || img2.Width == 0 {
		return Request{}, fmt.Errorf("%w: empty image (%v, %v)", ErrInvalidArgument, img1.Shape(), img2.Shape())
	}
	if img1.Channels != img2.Channels {
		return Request{}, fmt.Errorf("%w: channel count mismatch: %d vs %d", ErrInvalidArgument, img1.Channels, img2.Channels)
	}

	return Request{Image1: img1, Image2: img2, Frames: frames, FPS: fps}, nil
}

// GenerateHardTransition renders a sharp wipe with one worker per CPU
func GenerateHardTransition(ctx context.Context, image1, image2 frame.Batch, frames int, direction effects.Direction, fps float64) (frame.Batch, int, error) {
	var g Generator
	return g.Hard(ctx, image1, image2, frames, direction, fps)
}

// GenerateSoftTransition renders a sigmoid wipe with one worker per CPU
func GenerateSoftTransition(ctx context.Context, image1, image2 frame.Batch, frames int, width float64, direction effects.Direction, fps float64) (frame.Batch, int, error) {
	var g Generator
	return g.Soft(ctx, image1, image2, frames, width, direction, fps)
}
