// Package config loads the caretfloat configuration file (YAML or TOML)
// and watches it for live changes.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"caretfloat/pkg/placement"
	"caretfloat/pkg/track"
)

var ErrInvalid = errors.New("config: invalid")

type File struct {
	Tracking track.Config `yaml:"tracking" toml:"tracking"`
	Viewport Viewport     `yaml:"viewport" toml:"viewport"`
	FPS      int          `yaml:"fps" toml:"fps"`
	// Page is an HTML file or URL to load instead of the bundled demo.
	Page string `yaml:"page,omitempty" toml:"page,omitempty"`
	// Measurer is "face" (gofont metrics) or "fixed" (every glyph 1em).
	Measurer string `yaml:"measurer" toml:"measurer"`
	Log      Log    `yaml:"log" toml:"log"`
}

type Viewport struct {
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
}

type Log struct {
	Level       string `yaml:"level" toml:"level"`
	Development bool   `yaml:"development" toml:"development"`
}

// Default is what an empty file means.
func Default() File {
	return File{
		Tracking: track.DefaultConfig(),
		Viewport: Viewport{Width: 800, Height: 600},
		FPS:      60,
		Measurer: "face",
		Log:      Log{Level: "info"},
	}
}

func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read config file %q: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes data on top of Default. The format follows the source
// file extension: .toml is TOML, everything else YAML.
func Parse(data []byte, source string) (File, error) {
	cfg := Default()
	switch strings.ToLower(filepath.Ext(source)) {
	case ".toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return cfg, fmt.Errorf("parse TOML in %q: %w", source, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return cfg, fmt.Errorf("parse TOML in %q: unknown keys %v", source, undecoded)
		}
	default:
		if len(bytes.TrimSpace(data)) > 0 {
			dec := yaml.NewDecoder(bytes.NewReader(data))
			dec.KnownFields(true)
			if err := dec.Decode(&cfg); err != nil {
				return cfg, fmt.Errorf("parse YAML in %q: %w", source, err)
			}
		}
	}
	cfg.Tracking.Placement = placement.Placement(strings.ToLower(string(cfg.Tracking.Placement)))

	if errs := cfg.Validate(); len(errs) > 0 {
		return cfg, fmt.Errorf("%w: %q: %s", ErrInvalid, source, strings.Join(errs, "; "))
	}
	return cfg, nil
}

func (cfg File) Validate() []string {
	var errs []string
	if err := cfg.Tracking.Validate(); err != nil {
		errs = append(errs, "tracking: "+err.Error())
	}
	if cfg.Viewport.Width <= 0 || cfg.Viewport.Height <= 0 {
		errs = append(errs, fmt.Sprintf("viewport must be positive, got %vx%v", cfg.Viewport.Width, cfg.Viewport.Height))
	}
	if cfg.FPS <= 0 || cfg.FPS > 240 {
		errs = append(errs, fmt.Sprintf("fps must be in 1..240, got %d", cfg.FPS))
	}
	if !slices.Contains([]string{"face", "fixed"}, cfg.Measurer) {
		errs = append(errs, fmt.Sprintf("measurer must be one of face,fixed, got %q", cfg.Measurer))
	}
	if _, err := zap.ParseAtomicLevel(cfg.Log.Level); err != nil {
		errs = append(errs, fmt.Sprintf("log.level: %v", err))
	}
	return errs
}

// Logger builds the logger the log section describes.
func (l Log) Logger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(l.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zc := zap.NewProductionConfig()
	if l.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	return zc.Build()
}
