package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/wipeframes/internal/effects"
)

// EnvPrefix prefixes every environment override, e.g. WIPE_FRAMES=48
const EnvPrefix = "WIPE"

type Config struct {
	Image1          string  `yaml:"image1"`
	Image2          string  `yaml:"image2"`
	Output          string  `yaml:"output"`
	Mode            string  `yaml:"mode"`
	Frames          int     `yaml:"frames"`
	Direction       string  `yaml:"direction"`
	FPS             float64 `yaml:"fps"`
	TransitionWidth float64 `yaml:"transitionWidth" split_words:"true"`
	Channels        int     `yaml:"channels"`
	Workers         int     `yaml:"workers"`
	DPI             int     `yaml:"dpi"`
	VideoEncoder    string  `yaml:"videoEncoder" split_words:"true"`
	Quality         int     `yaml:"quality"`
	LogPath         string  `yaml:"logPath" split_words:"true"`
	ShowStats       bool    `yaml:"showStats" split_words:"true"`
	Verbose         bool    `yaml:"verbose"`
	BuildVersion    string  `yaml:"-" ignored:"true"`
}

// Default returns the configuration used when nothing else is specified
func Default() Config {
	return Config{
		Mode:            "hard",
		Frames:          24,
		Direction:       effects.LeftToRight.String(),
		FPS:             24.0,
		TransitionWidth: 0.2,
		Channels:        3,
		Workers:         runtime.NumCPU(),
		DPI:             150,
		LogPath:         "logs",
	}
}

// LoadFile overlays the YAML file at path onto cfg. Keys missing from the
// file keep their current values.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg with WIPE_* environment variables that are set
func ApplyEnv(cfg *Config) error {
	return envconfig.Process(EnvPrefix, cfg)
}

// Load builds a configuration from defaults, an optional YAML file and the
// environment, then verifies it.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := Verify(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Verify config and set defaults. Numeric transition bounds are checked by
// the engine when the transition is generated.
func Verify(cfg *Config) error {
	if cfg == nil {
		return errors.New("cannot verify config, config is nil")
	}

	switch cfg.Mode {
	case "":
		cfg.Mode = "hard"
	case "hard", "linear", "soft", "gradient":
	default:
		return fmt.Errorf("unknown mode %q (expected hard or soft)", cfg.Mode)
	}

	if cfg.Direction == "" {
		cfg.Direction = effects.LeftToRight.String()
	}
	if _, err := effects.ParseDirection(cfg.Direction); err != nil {
		return err
	}

	if cfg.Channels == 0 {
		cfg.Channels = 3
	}
	if cfg.Channels != 1 && cfg.Channels != 3 && cfg.Channels != 4 {
		return fmt.Errorf("channels must be 1, 3 or 4, got %d", cfg.Channels)
	}

	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}

	if cfg.DPI <= 0 {
		cfg.DPI = 150
	}

	return nil
}
