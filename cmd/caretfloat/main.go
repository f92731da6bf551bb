package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"caretfloat/pkg/app"
	"caretfloat/pkg/config"
)

func main() {
	configPath := flag.String("config", "", "YAML or TOML configuration file, watched for changes")
	logLevel := flag.String("log", "", "log level (default from config)")
	pagePath := flag.String("page", "", "HTML file or URL to load instead of the bundled demo")
	flag.Parse()

	if err := run(*configPath, *pagePath, *logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "caretfloat: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, pagePath, logLevel string) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}
	if pagePath != "" {
		cfg.Page = pagePath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	log, err := cfg.Log.Logger()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	if err := a.Start(); err != nil {
		return err
	}

	fa := fyneapp.New()
	w := fa.NewWindow("caretfloat")
	status := widget.NewLabel("Hover the button or type into a field")
	v := newView(a, w.Canvas(), cfg.Viewport.Width, cfg.Viewport.Height)
	w.SetContent(container.NewBorder(nil, status, nil, nil, container.NewCenter(v)))
	w.Resize(fyne.NewSize(float32(cfg.Viewport.Width), float32(cfg.Viewport.Height)+40))
	w.Canvas().Focus(v)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.Run(ctx, configPath)
	})
	g.Go(func() error {
		return repaint(ctx, a, v, status, cfg.FPS, log)
	})

	w.ShowAndRun()
	cancel()
	return g.Wait()
}

// repaint snapshots the page on the loop goroutine at fps and hands the
// image to the UI goroutine.
func repaint(ctx context.Context, a *app.App, v *view, status *widget.Label, fps int, log *zap.Logger) error {
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			a.Loop.Post(func() {
				img, err := a.Snapshot()
				if err != nil {
					log.Warn("snapshot failed", zap.Error(err))
					return
				}
				text := "overlay hidden"
				if a.Controller.IsOpen() {
					cfg := a.Controller.Config()
					text = fmt.Sprintf("overlay %s, %s, offset %g", cfg.Mode, cfg.Placement, cfg.Offset)
				}
				fyne.Do(func() {
					v.show(img)
					status.SetText(text)
				})
			})
		}
	}
}
