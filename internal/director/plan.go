package director

import "github.com/ivlev/wipeframes/internal/config"

// Plan lists independent transitions rendered one after another
type Plan struct {
	Version     string       `yaml:"version"`
	Transitions []Transition `yaml:"transitions"`
}

// Transition overrides the base configuration for one rendered sequence.
// Zero values inherit from the base.
type Transition struct {
	ID              int     `yaml:"id"`
	Image1          string  `yaml:"image1"`
	Image2          string  `yaml:"image2"`
	Output          string  `yaml:"output"`
	Mode            string  `yaml:"mode,omitempty"`
	Frames          int     `yaml:"frames,omitempty"`
	Direction       string  `yaml:"direction,omitempty"`
	FPS             float64 `yaml:"fps,omitempty"`
	TransitionWidth float64 `yaml:"transitionWidth,omitempty"`
}

// Apply returns base with the transition's non-zero fields applied
func (t Transition) Apply(base config.Config) config.Config {
	cfg := base
	if t.Image1 != "" {
		cfg.Image1 = t.Image1
	}
	if t.Image2 != "" {
		cfg.Image2 = t.Image2
	}
	if t.Output != "" {
		cfg.Output = t.Output
	}
	if t.Mode != "" {
		cfg.Mode = t.Mode
	}
	if t.Frames != 0 {
		cfg.Frames = t.Frames
	}
	if t.Direction != "" {
		cfg.Direction = t.Direction
	}
	if t.FPS != 0 {
		cfg.FPS = t.FPS
	}
	if t.TransitionWidth != 0 {
		cfg.TransitionWidth = t.TransitionWidth
	}
	return cfg
}

// FromConfig captures the transition fields of cfg as a single-entry plan
func FromConfig(cfg config.Config) *Plan {
	return &Plan{
		Version: "1.0",
		Transitions: []Transition{{
			ID:              1,
			Image1:          cfg.Image1,
			Image2:          cfg.Image2,
			Output:          cfg.Output,
			Mode:            cfg.Mode,
			Frames:          cfg.Frames,
			Direction:       cfg.Direction,
			FPS:             cfg.FPS,
			TransitionWidth: cfg.TransitionWidth,
		}},
	}
}
