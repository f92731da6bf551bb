// Package placement positions a floating element against an anchor
// rectangle on one of twelve sides/alignments, pushed outward by an
// offset.
package placement

import (
	"errors"
	"fmt"
	"strings"

	"caretfloat/pkg/anchor"
	"caretfloat/pkg/geom"
)

var (
	ErrInvalidPlacement       = errors.New("placement: invalid placement")
	ErrInvalidOffset          = errors.New("placement: offset must not be negative")
	ErrInvalidStrategy        = errors.New("placement: invalid strategy")
	ErrDetachedFloatingTarget = errors.New("placement: floating element is detached")
)

type Placement string

const (
	Top         Placement = "top"
	TopStart    Placement = "top-start"
	TopEnd      Placement = "top-end"
	Bottom      Placement = "bottom"
	BottomStart Placement = "bottom-start"
	BottomEnd   Placement = "bottom-end"
	Left        Placement = "left"
	LeftStart   Placement = "left-start"
	LeftEnd     Placement = "left-end"
	Right       Placement = "right"
	RightStart  Placement = "right-start"
	RightEnd    Placement = "right-end"
)

// All lists every placement.
var All = []Placement{
	Top, TopStart, TopEnd,
	Bottom, BottomStart, BottomEnd,
	Left, LeftStart, LeftEnd,
	Right, RightStart, RightEnd,
}

// Side is the anchor edge the floating element sits against.
type Side string

const (
	SideTop    Side = "top"
	SideBottom Side = "bottom"
	SideLeft   Side = "left"
	SideRight  Side = "right"
)

// Alignment positions the floating element along the anchor edge.
type Alignment string

const (
	AlignCenter Alignment = ""
	AlignStart  Alignment = "start"
	AlignEnd    Alignment = "end"
)

func (p Placement) Valid() bool {
	for _, v := range All {
		if p == v {
			return true
		}
	}
	return false
}

// Side returns the side part of the placement.
func (p Placement) Side() Side {
	side, _, _ := strings.Cut(string(p), "-")
	return Side(side)
}

// Alignment returns the alignment part of the placement.
func (p Placement) Alignment() Alignment {
	_, align, _ := strings.Cut(string(p), "-")
	return Alignment(align)
}

// Parse validates a placement name.
func Parse(s string) (Placement, error) {
	p := Placement(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPlacement, s)
	}
	return p, nil
}

// Strategy is the CSS position the result is expressed for.
type Strategy string

const (
	Absolute Strategy = "absolute"
	Fixed    Strategy = "fixed"
)

// Request is one placement computation.
type Request struct {
	Anchor    anchor.Boundable
	Floating  geom.Size
	Placement Placement
	Offset    float64
	// Strategy defaults to Absolute.
	Strategy Strategy
	// Scroll is the viewport scroll offset. Absolute results are
	// translated by it into document coordinates.
	Scroll geom.Point
}

// Validate checks everything but the anchor.
func (r Request) Validate() error {
	if !r.Placement.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPlacement, r.Placement)
	}
	if r.Offset < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidOffset, r.Offset)
	}
	switch r.Strategy {
	case "", Absolute, Fixed:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStrategy, r.Strategy)
	}
	return nil
}

// Result is where the floating element's border box goes.
type Result struct {
	X, Y      float64
	Placement Placement
	Strategy  Strategy
}

// Compute places the floating element. It does not flip or shift the
// element to keep it inside the viewport.
func Compute(req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}
	ref, err := anchor.Resolve(req.Anchor)
	if err != nil {
		return Result{}, err
	}
	strategy := req.Strategy
	if strategy == "" {
		strategy = Absolute
	}

	fw, fh := req.Floating.Width, req.Floating.Height
	var x, y float64
	switch req.Placement.Side() {
	case SideTop:
		x = ref.X + ref.Width/2 - fw/2
		y = ref.Y - fh - req.Offset
	case SideBottom:
		x = ref.X + ref.Width/2 - fw/2
		y = ref.Y + ref.Height + req.Offset
	case SideLeft:
		x = ref.X - fw - req.Offset
		y = ref.Y + ref.Height/2 - fh/2
	case SideRight:
		x = ref.X + ref.Width + req.Offset
		y = ref.Y + ref.Height/2 - fh/2
	}

	vertical := req.Placement.Side() == SideTop || req.Placement.Side() == SideBottom
	switch req.Placement.Alignment() {
	case AlignStart:
		if vertical {
			x = ref.X
		} else {
			y = ref.Y
		}
	case AlignEnd:
		if vertical {
			x = ref.X + ref.Width - fw
		} else {
			y = ref.Y + ref.Height - fh
		}
	}

	if strategy == Absolute {
		x += req.Scroll.X
		y += req.Scroll.Y
	}
	return Result{X: x, Y: y, Placement: req.Placement, Strategy: strategy}, nil
}
