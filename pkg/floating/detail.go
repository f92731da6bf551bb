package floating

import (
	"fmt"

	"caretfloat/pkg/geom"
	"caretfloat/pkg/html"
	"caretfloat/pkg/placement"
	"caretfloat/pkg/track"
)

// Event names on the event anchor (show, hide, update) and the window
// (config).
const (
	EventShow   = "floating:show"
	EventHide   = "floating:hide"
	EventUpdate = "floating:update"
	EventConfig = "form:config"
)

// UpdateDetail is the detail of floating:update. Element, when set, is
// tracked live; Rect is the captured rectangle used otherwise.
type UpdateDetail struct {
	Rect    geom.Rect
	Element *html.Node
}

// parseUpdate accepts an UpdateDetail, a bare rectangle or the object a
// script dispatches: {rect: {x, y, width, height}, element}.
func parseUpdate(detail any) (track.AnchorRef, error) {
	switch d := detail.(type) {
	case UpdateDetail:
		return refFor(d.Rect, d.Element), nil
	case *UpdateDetail:
		if d != nil {
			return refFor(d.Rect, d.Element), nil
		}
	case geom.Rect:
		return refFor(d, nil), nil
	case map[string]any:
		el, _ := d["element"].(*html.Node)
		r, ok := parseRect(d["rect"])
		if !ok && el == nil {
			return track.AnchorRef{}, fmt.Errorf("floating:update detail has no rect")
		}
		ref := track.AnchorRef{Element: el}
		if ok {
			ref.Rect = &r
		}
		return ref, nil
	}
	return track.AnchorRef{}, fmt.Errorf("floating:update detail of type %T", detail)
}

func refFor(r geom.Rect, el *html.Node) track.AnchorRef {
	return track.AnchorRef{Element: el, Rect: &r}
}

func parseRect(v any) (geom.Rect, bool) {
	switch r := v.(type) {
	case geom.Rect:
		return r, true
	case map[string]any:
		x, okX := number(r["x"])
		y, okY := number(r["y"])
		w, okW := number(r["width"])
		h, okH := number(r["height"])
		if okX && okY && okW && okH {
			return geom.Rect{X: x, Y: y, Width: w, Height: h}, true
		}
	}
	return geom.Rect{}, false
}

// parseConfig accepts a track.Config or {mode, placement, offset}.
// Missing keys keep their current values.
func parseConfig(detail any, current track.Config) (track.Config, error) {
	var cfg track.Config
	switch d := detail.(type) {
	case track.Config:
		cfg = d
	case *track.Config:
		if d == nil {
			return current, fmt.Errorf("form:config detail is nil")
		}
		cfg = *d
	case map[string]any:
		cfg = current
		if v, ok := d["mode"].(string); ok {
			cfg.Mode = track.Mode(v)
		}
		if v, ok := d["placement"].(string); ok {
			p, err := placement.Parse(v)
			if err != nil {
				return current, err
			}
			cfg.Placement = p
		}
		if v, ok := number(d["offset"]); ok {
			cfg.Offset = v
		}
	default:
		return current, fmt.Errorf("form:config detail of type %T", detail)
	}
	if err := cfg.Validate(); err != nil {
		return current, err
	}
	return cfg, nil
}

// number converts the numeric types a script value exports to.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}
