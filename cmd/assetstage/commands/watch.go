package commands

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/assetstage/internal/build"
	"git.home.luguber.info/inful/assetstage/internal/logfields"
	"git.home.luguber.info/inful/assetstage/internal/metrics"
	"git.home.luguber.info/inful/assetstage/internal/notify"
	"git.home.luguber.info/inful/assetstage/internal/runstore"
	"git.home.luguber.info/inful/assetstage/internal/watch"
)

// WatchCmd implements the 'watch' command: continuous staging.
type WatchCmd struct {
	SiteDir         string        `name:"site-dir" short:"s" help:"Site output directory the assets are staged into"`
	Source          string        `name:"source" help:"Prebuilt asset directory (default pkg)"`
	BaseDir         string        `name:"base-dir" help:"Root for resolving a relative source (default current directory)"`
	DestSubdir      string        `name:"dest-subdir" help:"Subdirectory of the site output to stage into (default dist)"`
	OnMissingSource string        `name:"on-missing-source" help:"Policy when the source is absent: fail or skip"`
	Debounce        time.Duration `name:"debounce" help:"Quiet period before re-staging after a change (overrides config)"`
	ResyncInterval  time.Duration `name:"resync-interval" help:"Periodic full resync interval, 0 disables (overrides config)"`
	MetricsListen   string        `name:"metrics-listen" help:"Address for the Prometheus /metrics endpoint (overrides config)"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := ResolveConfig(root, w.SiteDir)
	if err != nil {
		return err
	}
	if err := applyStageOverrides(cfg, w.SiteDir, w.Source, w.BaseDir, w.DestSubdir, w.OnMissingSource); err != nil {
		return err
	}
	if w.Debounce > 0 {
		cfg.Watch.Debounce = w.Debounce.String()
	}
	if w.ResyncInterval > 0 {
		cfg.Watch.ResyncInterval = w.ResyncInterval.String()
	}
	if w.MetricsListen != "" {
		cfg.Watch.MetricsListen = w.MetricsListen
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Metrics
	recorder := metrics.Recorder(metrics.NoopRecorder{})
	if cfg.Watch.MetricsListen != "" {
		reg := prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)

		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.HTTPHandler(reg))
		srv := &http.Server{Addr: cfg.Watch.MetricsListen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			slog.Info("Serving metrics", slog.String("addr", cfg.Watch.MetricsListen))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("Metrics server failed", logfields.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	// Run history
	opts := []build.Option{build.WithRecorder(recorder)}
	if cfg.History.Path != "" {
		store, err := runstore.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			slog.Warn("Run history disabled", logfields.Error(err))
		} else {
			defer func() { _ = store.Close() }()
			opts = append(opts, build.WithStore(store))
		}
	}

	// Notifications
	if cfg.Notify.URL != "" {
		publisher, err := notify.NewPublisher(cfg.Notify)
		if err != nil {
			return err
		}
		defer publisher.Close()
		opts = append(opts, build.WithPublisher(publisher))
	}

	runner, err := build.NewRunner(cfg, opts...)
	if err != nil {
		return err
	}

	restage := func() {
		if _, err := runner.RunPostBuild(ctx); err != nil {
			slog.Error("Staging run failed", logfields.Error(err))
		}
	}

	// Initial run so the destination reflects the current source before any event.
	fmt.Println("Starting asset watch")
	restage()

	sourceDir := cfg.Source
	if !filepath.IsAbs(sourceDir) {
		sourceDir = filepath.Join(cfg.BaseDir, sourceDir)
	}

	watcher, err := watch.NewWatcher(sourceDir, cfg.Watch.DebounceDuration(), recorder, restage)
	if err != nil {
		return err
	}
	if err := watcher.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = watcher.Stop() }()

	if interval := cfg.Watch.ResyncIntervalDuration(); interval > 0 {
		scheduler, err := watch.NewScheduler()
		if err != nil {
			return err
		}
		if _, err := scheduler.ScheduleResync(interval, restage); err != nil {
			return err
		}
		scheduler.Start(ctx)
		defer func() { _ = scheduler.Stop(ctx) }()
	}

	<-ctx.Done()
	fmt.Println("Watch stopped")
	return nil
}
