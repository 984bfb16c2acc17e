// Package build provides the canonical staging execution path for assetstage.
// All entry points (CLI one-shot, watch mode, scheduled resync) route through
// Runner so run accounting, history and notifications stay consistent.
package build

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/assetstage/internal/config"
	"git.home.luguber.info/inful/assetstage/internal/gitinfo"
	"git.home.luguber.info/inful/assetstage/internal/hooks"
	"git.home.luguber.info/inful/assetstage/internal/hooks/staging"
	"git.home.luguber.info/inful/assetstage/internal/logfields"
	"git.home.luguber.info/inful/assetstage/internal/metrics"
	"git.home.luguber.info/inful/assetstage/internal/notify"
	"git.home.luguber.info/inful/assetstage/internal/runstore"
)

// RunReport contains the outcome of one post-build run.
type RunReport struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Outcome   runstore.Outcome
	Result    staging.Result
	Commit    string
}

// Runner executes the post-build hook phase against a resolved configuration.
type Runner struct {
	cfg       *config.Config
	registry  *hooks.Registry
	recorder  metrics.Recorder
	store     runstore.Store    // optional; nil disables run history
	publisher *notify.Publisher // optional; nil disables notifications
	logger    *slog.Logger
}

// Option configures optional Runner collaborators.
type Option func(*Runner)

// WithStore attaches a run-history store.
func WithStore(store runstore.Store) Option {
	return func(r *Runner) { r.store = store }
}

// WithPublisher attaches a NATS run-event publisher.
func WithPublisher(p *notify.Publisher) Option {
	return func(r *Runner) { r.publisher = p }
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(r *Runner) { r.recorder = rec }
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// NewRunner creates a runner with the staging hook registered.
func NewRunner(cfg *config.Config, opts ...Option) (*Runner, error) {
	registry := hooks.NewRegistry()
	if err := registry.Register(staging.NewHook(cfg)); err != nil {
		return nil, err
	}

	r := &Runner{
		cfg:      cfg,
		registry: registry,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Registry exposes the hook registry, e.g. for registering additional hooks.
func (r *Runner) Registry() *hooks.Registry {
	return r.registry
}

// RunPostBuild executes every post-build hook once. The returned report is
// non-nil even on failure so callers can still inspect partial results. Any
// hook error aborts the phase and propagates to the caller; history recording
// and notification are best-effort and never mask the hook error.
func (r *Runner) RunPostBuild(ctx context.Context) (*RunReport, error) {
	report := &RunReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}

	hctx := hooks.NewContext(report.RunID, r.cfg.BaseDir, r.cfg.SiteDir, r.logger, r.recorder)

	var runErr error
	for _, hook := range r.registry.ListByPhase(hooks.PhasePostBuild) {
		if err := hook.Execute(ctx, hctx); err != nil {
			runErr = err
			break
		}
	}
	report.Duration = time.Since(report.StartedAt)

	if result, ok := hctx.GetValue(staging.ResultKey).(staging.Result); ok {
		report.Result = result
	}

	switch {
	case runErr != nil:
		report.Outcome = runstore.OutcomeFailed
	case report.Result.Skipped:
		report.Outcome = runstore.OutcomeSkipped
	default:
		report.Outcome = runstore.OutcomeSuccess
	}

	report.Commit = gitinfo.ResolveCommit(r.cfg.BaseDir)

	r.record(ctx, report, runErr)
	r.publish(report, runErr)

	return report, runErr
}

func (r *Runner) record(ctx context.Context, report *RunReport, runErr error) {
	if r.store == nil {
		return
	}

	run := runstore.Run{
		RunID:     report.RunID,
		StartedAt: report.StartedAt,
		Duration:  report.Duration,
		Outcome:   report.Outcome,
		Source:    report.Result.Source,
		Dest:      report.Result.Dest,
		Files:     report.Result.Files,
		Bytes:     report.Result.Bytes,
		Commit:    report.Commit,
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}

	if err := r.store.Append(ctx, run); err != nil {
		r.logger.Warn("Failed to record run history",
			logfields.RunID(report.RunID),
			logfields.Error(err))
	}
}

func (r *Runner) publish(report *RunReport, runErr error) {
	if r.publisher == nil {
		return
	}

	event := notify.RunEvent{
		RunID:     report.RunID,
		Outcome:   string(report.Outcome),
		Source:    report.Result.Source,
		Dest:      report.Result.Dest,
		Files:     report.Result.Files,
		Bytes:     report.Result.Bytes,
		Commit:    report.Commit,
		Timestamp: report.StartedAt,
	}
	if runErr != nil {
		event.Error = runErr.Error()
	}

	if err := r.publisher.Publish(event); err != nil {
		r.logger.Warn("Failed to publish run event",
			logfields.RunID(report.RunID),
			logfields.Error(err))
	}
}
