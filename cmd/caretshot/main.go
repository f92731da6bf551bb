// Command caretshot renders the demo headlessly to a PNG after replaying
// a scripted interaction, optionally comparing it with a reference image.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"caretfloat/pkg/app"
	"caretfloat/pkg/config"
	"caretfloat/pkg/html"
	"caretfloat/pkg/page"
	"caretfloat/pkg/placement"
	"caretfloat/pkg/track"
	"caretfloat/pkg/visualtest"
)

var errMismatch = errors.New("snapshot differs from reference")

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "caretshot: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	config    string
	page      string
	output    string
	width     float64
	height    float64
	element   string
	hover     bool
	focus     string
	typed     string
	caret     int
	logLevel  string
	mode      string
	placement string
	frames    int
	compare   string
	diff      string
	tolerance int
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("caretshot", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.config, "config", "", "YAML or TOML configuration file")
	fs.StringVar(&o.page, "page", "", "HTML file or URL to load instead of the bundled demo")
	fs.StringVar(&o.output, "o", "caretshot.png", "output PNG file path")
	fs.Float64Var(&o.width, "w", 0, "viewport width in pixels (default from config)")
	fs.Float64Var(&o.height, "h", 0, "viewport height in pixels (default from config)")
	fs.StringVar(&o.element, "element", "", "demo preview element to select: button, input or textarea")
	fs.BoolVar(&o.hover, "hover", false, "move the pointer over the preview button")
	fs.StringVar(&o.focus, "focus", "", "id of an element to click before typing")
	fs.StringVar(&o.typed, "type", "", "text to type into the focused element")
	fs.IntVar(&o.caret, "caret", -1, "caret offset in runes to set after typing (-1 keeps it)")
	fs.StringVar(&o.logLevel, "log", "", "log level (default from config)")
	fs.StringVar(&o.mode, "mode", "", "tracking mode: default or caret")
	fs.StringVar(&o.placement, "placement", "", "overlay placement, e.g. bottom-start")
	fs.IntVar(&o.frames, "frames", 2, "animation frames to run before the snapshot")
	fs.StringVar(&o.compare, "compare", "", "reference PNG to compare the snapshot with")
	fs.StringVar(&o.diff, "diff", "", "where to write the diff image when the comparison fails")
	fs.IntVar(&o.tolerance, "tolerance", 2, "per-channel tolerance for -compare")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: caretshot [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return o, fmt.Errorf("unexpected arguments %v", fs.Args())
	}
	return o, nil
}

func (o options) load() (config.File, error) {
	cfg := config.Default()
	if o.config != "" {
		var err error
		if cfg, err = config.Load(o.config); err != nil {
			return cfg, err
		}
	}
	if o.page != "" {
		cfg.Page = o.page
	}
	if o.width > 0 {
		cfg.Viewport.Width = o.width
	}
	if o.height > 0 {
		cfg.Viewport.Height = o.height
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.mode != "" {
		cfg.Tracking.Mode = track.Mode(o.mode)
	}
	if o.placement != "" {
		cfg.Tracking.Placement = placement.Placement(o.placement)
	}
	if problems := cfg.Validate(); len(problems) > 0 {
		return cfg, fmt.Errorf("%w: %v", config.ErrInvalid, problems)
	}
	return cfg, nil
}

func run(args []string, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	cfg, err := o.load()
	if err != nil {
		return err
	}
	log, err := cfg.Log.Logger()
	if err != nil {
		return err
	}
	defer log.Sync()

	a, err := app.New(context.Background(), cfg, log)
	if err != nil {
		return err
	}
	if err := a.Start(); err != nil {
		return err
	}
	if err := replay(a, o); err != nil {
		return err
	}
	for i := 0; i < o.frames; i++ {
		a.Loop.RunFrame(time.Now())
	}

	img, err := a.Snapshot()
	if err != nil {
		return err
	}
	if err := visualtest.SavePNG(img, o.output); err != nil {
		return err
	}
	log.Info("snapshot saved", zap.String("path", o.output), zap.Bool("overlay", a.Controller.IsOpen()))

	if o.compare == "" {
		return nil
	}
	opts := visualtest.DefaultOptions()
	opts.Tolerance = o.tolerance
	result, err := visualtest.CompareFile(img, o.compare, o.diff, opts)
	if err != nil {
		return err
	}
	if !result.Match {
		return fmt.Errorf("%w: %d of %d pixels, max difference %d",
			errMismatch, result.DifferentPixels, result.TotalPixels, result.MaxDifference)
	}
	return nil
}

// replay performs the requested interaction on the loop's goroutine,
// which is this one until Run is called.
func replay(a *app.App, o options) error {
	p := a.Page
	if o.element != "" {
		b := findByAttr(p.Root(), "data-element", o.element)
		if b == nil {
			return fmt.Errorf("no preview element %q", o.element)
		}
		if err := click(p, b); err != nil {
			return err
		}
	}
	if o.hover {
		btn := p.Document().GetElementByID(page.PreviewButtonID)
		r, ok := p.BoundingClientRect(btn)
		if !ok {
			return fmt.Errorf("#%s is not displayed", page.PreviewButtonID)
		}
		p.PointerMove(r.Center())
	}
	if o.focus != "" {
		n := p.Document().GetElementByID(o.focus)
		if n == nil {
			return fmt.Errorf("no element #%s", o.focus)
		}
		if err := click(p, n); err != nil {
			return err
		}
	}
	for _, r := range o.typed {
		p.TypeRune(r)
	}
	if o.caret >= 0 {
		active := p.ActiveElement()
		if !active.IsTextControl() {
			return fmt.Errorf("-caret needs a focused text control")
		}
		p.SetSelection(active, o.caret, o.caret)
	}
	a.Loop.Drain()
	return nil
}

func click(p *page.Page, n *html.Node) error {
	r, ok := p.BoundingClientRect(n)
	if !ok {
		return fmt.Errorf("<%s> is not displayed", n.TagName)
	}
	p.Click(r.Center())
	return nil
}

func findByAttr(n *html.Node, name, value string) *html.Node {
	if v, ok := n.GetAttribute(name); ok && v == value {
		return n
	}
	for _, c := range n.Children {
		if found := findByAttr(c, name, value); found != nil {
			return found
		}
	}
	return nil
}
