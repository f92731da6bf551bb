// Package app wires the page, host loop, script engine, placement engine,
// tracking scheduler and overlay controller into one running demo.
package app

import (
	"context"
	"fmt"
	"image"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"caretfloat/pkg/config"
	"caretfloat/pkg/floating"
	"caretfloat/pkg/frame"
	"caretfloat/pkg/js"
	"caretfloat/pkg/page"
	"caretfloat/pkg/placement"
	"caretfloat/pkg/render"
	"caretfloat/pkg/resource"
	"caretfloat/pkg/text"
	"caretfloat/pkg/track"
)

// App owns every component of one window. Except for Run, its methods
// and its components must be used from the loop goroutine.
type App struct {
	Page       *page.Page
	Loop       *frame.Loop
	Scripts    *js.Engine
	Placement  *placement.Engine
	Scheduler  *track.Scheduler
	Controller *floating.Controller

	faces *text.FaceMeasurer
	cfg   config.File
	log   *zap.Logger
}

// New builds the application from cfg. The page is cfg.Page (a file path
// or URL) when set, otherwise the bundled demo. Scripts do not run until
// Start.
func New(ctx context.Context, cfg config.File, log *zap.Logger) (*App, error) {
	faces, err := text.NewFaceMeasurer()
	if err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}
	var measurer text.Measurer = text.FixedMeasurer{}
	if cfg.Measurer == "face" {
		measurer = faces
	}

	opts := []page.Option{
		page.WithLogger(log.Named("page")),
		page.WithMeasurer(measurer),
		page.WithViewport(cfg.Viewport.Width, cfg.Viewport.Height),
	}
	var p *page.Page
	if cfg.Page != "" {
		src, err := resource.NewFetcher("").FetchHTML(ctx, cfg.Page)
		if err != nil {
			return nil, fmt.Errorf("fetch page: %w", err)
		}
		p, err = page.Load(src, opts...)
		if err != nil {
			return nil, fmt.Errorf("load page %q: %w", cfg.Page, err)
		}
	} else {
		p, err = page.LoadDemo(opts...)
		if err != nil {
			return nil, fmt.Errorf("load demo: %w", err)
		}
	}

	loop := frame.New(frame.WithFPS(cfg.FPS), frame.WithLogger(log.Named("loop")))
	engine := placement.NewEngine(p, loop, placement.WithLogger(log.Named("placement")))
	sched := track.NewScheduler(p, loop, engine, track.WithLogger(log.Named("track")))
	ctrl := floating.New(p, sched,
		floating.WithLogger(log.Named("floating")),
		floating.WithConfig(cfg.Tracking))
	if err := ctrl.Attach(p.Document().GetElementByID(page.EventAnchorID)); err != nil {
		return nil, err
	}

	return &App{
		Page:       p,
		Loop:       loop,
		Scripts:    js.New(p, loop, js.WithLogger(log)),
		Placement:  engine,
		Scheduler:  sched,
		Controller: ctrl,
		faces:      faces,
		cfg:        cfg,
		log:        log,
	}, nil
}

// Start runs the page scripts and then applies the configured tracking
// settings over whatever the scripts announced.
func (a *App) Start() error {
	if err := a.Scripts.Execute(); err != nil {
		return err
	}
	a.Loop.Drain()
	if err := a.Controller.SetConfig(a.cfg.Tracking); err != nil {
		return fmt.Errorf("apply tracking config: %w", err)
	}
	a.log.Info("page started",
		zap.Int("scripts", len(a.Page.Document().Scripts)),
		zap.String("mode", string(a.cfg.Tracking.Mode)))
	return nil
}

// ApplyConfig applies a reloaded configuration. Only the tracking
// settings and the viewport take effect while running.
func (a *App) ApplyConfig(cfg config.File) {
	if err := a.Controller.SetConfig(cfg.Tracking); err != nil {
		a.log.Warn("tracking config rejected", zap.Error(err))
		return
	}
	a.Page.Resize(cfg.Viewport.Width, cfg.Viewport.Height)
	a.cfg = cfg
}

// Run drives the host loop until ctx is done. When configPath is set the
// file is watched and every valid change is applied on the loop.
func (a *App) Run(ctx context.Context, configPath string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.Loop.Run(ctx)
	})
	if configPath != "" {
		g.Go(func() error {
			return config.Watch(ctx, configPath, a.log.Named("config"), func(cfg config.File) {
				a.Loop.Post(func() { a.ApplyConfig(cfg) })
			})
		})
	}
	return g.Wait()
}

// Snapshot paints the current frame.
func (a *App) Snapshot() (image.Image, error) {
	return render.Snapshot(a.Page, a.faces)
}
