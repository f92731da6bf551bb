// Package track keeps a floating element attached to its anchor. A
// Scheduler owns one Session at a time and re-runs placement on a cadence
// chosen by the session's mode.
package track

import (
	"errors"
	"fmt"

	"caretfloat/pkg/placement"
)

var ErrInvalidMode = errors.New("track: invalid mode")

// Mode selects what the overlay follows.
type Mode string

const (
	// ModeDefault anchors to the element box, placed once per change.
	ModeDefault Mode = "default"
	// ModeCaret anchors to the caret and follows it every frame.
	ModeCaret Mode = "caret"
)

// Config is the snapshot a session runs with.
type Config struct {
	Mode      Mode                `yaml:"mode" toml:"mode" json:"mode"`
	Placement placement.Placement `yaml:"placement" toml:"placement" json:"placement"`
	Offset    float64             `yaml:"offset" toml:"offset" json:"offset"`
}

// DefaultConfig is default mode, top placement, 8px offset.
func DefaultConfig() Config {
	return Config{Mode: ModeDefault, Placement: placement.Top, Offset: 8}
}

func (c Config) Validate() error {
	switch c.Mode {
	case ModeDefault, ModeCaret:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMode, c.Mode)
	}
	if !c.Placement.Valid() {
		return fmt.Errorf("%w: %q", placement.ErrInvalidPlacement, c.Placement)
	}
	if c.Offset < 0 {
		return fmt.Errorf("%w: %v", placement.ErrInvalidOffset, c.Offset)
	}
	return nil
}
