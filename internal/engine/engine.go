package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ivlev/wipeframes/internal/config"
	"github.com/ivlev/wipeframes/internal/director"
	"github.com/ivlev/wipeframes/internal/effects"
	"github.com/ivlev/wipeframes/internal/frame"
	"github.com/ivlev/wipeframes/internal/source"
	"github.com/ivlev/wipeframes/internal/system"
	"github.com/ivlev/wipeframes/internal/video"
)

// TransitionProject loads both endpoints of one configured transition,
// renders the frames and hands them to a writer.
type TransitionProject struct {
	Config *config.Config
	Writer video.FrameWriter
	runID  string
}

func NewTransitionProject(cfg *config.Config, w video.FrameWriter) *TransitionProject {
	return &TransitionProject{
		Config: cfg,
		Writer: w,
		runID:  uuid.NewString(),
	}
}

// Stats describes a finished run
type Stats struct {
	Frames     int
	FPS        int
	Shape      frame.Shape
	Bytes      uint64
	LoadTime   time.Duration
	RenderTime time.Duration
	WriteTime  time.Duration
	TotalTime  time.Duration
}

func (p *TransitionProject) Run(ctx context.Context) (*Stats, error) {
	cfg := p.Config
	startTime := time.Now()
	logger := log.WithFields(log.Fields{"run": p.runID, "output": cfg.Output})

	if cfg.Output == "" {
		return nil, fmt.Errorf("%w: no output path", ErrInvalidArgument)
	}
	direction, err := effects.ParseDirection(cfg.Direction)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	// Frames take image1's size, so its header is enough to size the batch.
	if need, err := p.memoryBudget(); err != nil {
		logger.Debugf("[!] Skipping memory check: %v", err)
	} else if _, err := system.CheckMemory(ctx, need); err != nil {
		logger.Warnf("[!] %v", err)
	}

	img1, err := p.loadEndpoint(cfg.Image1)
	if err != nil {
		return nil, err
	}
	img2, err := p.loadEndpoint(cfg.Image2)
	if err != nil {
		return nil, err
	}
	loadEnd := time.Now()

	logger.WithFields(log.Fields{
		"image1": cfg.Image1,
		"image2": cfg.Image2,
		"shape1": img1.Shape().String(),
		"shape2": img2.Shape().String(),
	}).Infof("[*] Transition %s: %d frames @ %.1f FPS, %s", cfg.Mode, cfg.Frames, cfg.FPS, direction)

	gen := Generator{
		Workers: cfg.Workers,
		Progress: func(done, total int) {
			logger.Debugf("[>] Ready: %d/%d", done, total)
		},
	}

	effect, err := effects.NewEffect(cfg.Mode, direction, cfg.TransitionWidth)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	batch, fps, err := gen.Generate(ctx, frame.Batch{img1}, frame.Batch{img2}, cfg.Frames, cfg.FPS, effect)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", effect.Name(), err)
	}
	renderEnd := time.Now()

	if err := p.Writer.WriteBatch(ctx, batch, fps, cfg.Output); err != nil {
		return nil, fmt.Errorf("write %s: %w", cfg.Output, err)
	}

	stats := &Stats{
		Frames:     len(batch),
		FPS:        fps,
		Shape:      batch.Shape(),
		Bytes:      batch.Bytes(),
		LoadTime:   loadEnd.Sub(startTime),
		RenderTime: renderEnd.Sub(loadEnd),
		WriteTime:  time.Since(renderEnd),
		TotalTime:  time.Since(startTime),
	}

	if cfg.ShowStats {
		p.report(logger, stats)
	}
	return stats, nil
}

// memoryBudget estimates the bytes held by the rendered batch
func (p *TransitionProject) memoryBudget() (uint64, error) {
	w, h, err := source.Dimensions(p.Config.Image1, p.Config.DPI)
	if err != nil {
		return 0, err
	}
	return uint64(p.Config.Frames) * uint64(w) * uint64(h) * uint64(p.Config.Channels) * 8, nil
}

func (p *TransitionProject) loadEndpoint(ref string) (*frame.Image, error) {
	img, err := source.Load(ref, p.Config.DPI)
	if err != nil {
		return nil, err
	}
	out, err := frame.FromImage(img, p.Config.Channels)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", ref, err)
	}
	return out, nil
}

func (p *TransitionProject) report(logger *log.Entry, s *Stats) {
	rate := 0.0
	if s.RenderTime > 0 {
		rate = float64(s.Frames) / s.RenderTime.Seconds()
	}

	fmt.Printf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Frames: %d (%s) @ %d FPS\n"+
			"Batch size: %s\n"+
			"Total Time: %.2fs\n"+
			"Loading: %.2fs\n"+
			"Rendering: %.2fs\n"+
			"Writing: %.2fs\n"+
			"Effective FPS: %.2f\n"+
			"----------------------------\n",
		p.Config.BuildVersion, s.Frames, s.Shape, s.FPS, humanize.Bytes(s.Bytes),
		s.TotalTime.Seconds(), s.LoadTime.Seconds(), s.RenderTime.Seconds(), s.WriteTime.Seconds(), rate,
	)

	logger.WithFields(log.Fields{
		"build":   p.Config.BuildVersion,
		"frames":  s.Frames,
		"bytes":   s.Bytes,
		"total":   s.TotalTime.Seconds(),
		"render":  s.RenderTime.Seconds(),
		"write":   s.WriteTime.Seconds(),
		"rate":    rate,
		"workers": p.Config.Workers,
	}).Debug("benchmark")
}

// RunPlan renders every transition of plan in order, each on top of base.
// It stops at the first failure.
func RunPlan(ctx context.Context, base config.Config, plan *director.Plan) error {
	for i, t := range plan.Transitions {
		if err := ctx.Err(); err != nil {
			return err
		}

		cfg := t.Apply(base)
		if err := config.Verify(&cfg); err != nil {
			return fmt.Errorf("transition %d: %w", t.ID, err)
		}

		log.Infof("[*] Plan step %d/%d (id %d): %s -> %s", i+1, len(plan.Transitions), t.ID, cfg.Image1, cfg.Image2)
		w := video.NewWriter(cfg.Output, cfg.VideoEncoder, cfg.Quality)
		if _, err := NewTransitionProject(&cfg, w).Run(ctx); err != nil {
			return fmt.Errorf("transition %d: %w", t.ID, err)
		}
	}
	return nil
}
