// Package staging implements the post-build asset staging hook: merge-copy a
// prebuilt asset directory (typically pkg/) into a dist/ subdirectory of the
// site output, overwriting same-path files.
package staging

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/assetstage/internal/config"
	stageerrors "git.home.luguber.info/inful/assetstage/internal/errors"
	"git.home.luguber.info/inful/assetstage/internal/fsops"
	"git.home.luguber.info/inful/assetstage/internal/hooks"
	"git.home.luguber.info/inful/assetstage/internal/logfields"
	"git.home.luguber.info/inful/assetstage/internal/metrics"
)

// HookName is the registry name of the staging hook.
const HookName = "stage-assets"

// ResultKey is the hook-context data key the staging result is stored under.
const ResultKey = "staging.result"

// Options are the explicit inputs of one staging run.
type Options struct {
	// BaseDir is the root against which a relative Source resolves.
	BaseDir string
	// Source is the prebuilt asset directory.
	Source string
	// SiteDir is the generator's output directory.
	SiteDir string
	// DestSubdir is the subdirectory of SiteDir assets land in.
	DestSubdir string
	// OnMissingSource selects the policy when Source does not exist.
	OnMissingSource config.MissingSourcePolicy
}

// Result describes a completed (or skipped) staging run.
type Result struct {
	Source  string
	Dest    string
	Files   int
	Bytes   int64
	Skipped bool
}

// resolve expands Options into absolute source and destination paths.
func (o Options) resolve() (src, dst string) {
	src = o.Source
	if src == "" {
		src = "pkg"
	}
	if !filepath.IsAbs(src) && o.BaseDir != "" {
		src = filepath.Join(o.BaseDir, src)
	}
	sub := o.DestSubdir
	if sub == "" {
		sub = "dist"
	}
	return src, filepath.Join(o.SiteDir, sub)
}

// Stage performs one staging run: merge-copy the source directory into
// <SiteDir>/<DestSubdir>. The destination is created if absent; same-path
// files are overwritten; destination files with no source counterpart are
// preserved. A missing source either fails (default) or skips per the
// configured policy; on failure nothing is created at the destination.
//
// Stage is deliberately a plain function so it can be called without the hook
// registry, e.g. from tests or another build driver.
func Stage(opts Options) (Result, error) {
	src, dst := opts.resolve()
	result := Result{Source: src, Dest: dst}

	stats, err := fsops.CopyDir(src, dst)
	if err != nil {
		if os.IsNotExist(err) && opts.OnMissingSource == config.MissingSourceSkip {
			result.Skipped = true
			return result, nil
		}
		return result, stageerrors.FileSystemError(err, "staging copy failed").
			WithContext("source", src).
			WithContext("dest", dst)
	}

	result.Files = stats.Files
	result.Bytes = stats.Bytes
	return result, nil
}

// Hook adapts Stage to the build-hook contract.
type Hook struct {
	opts Options
}

// NewHook creates the staging hook from resolved configuration.
func NewHook(cfg *config.Config) *Hook {
	return &Hook{opts: Options{
		BaseDir:         cfg.BaseDir,
		Source:          cfg.Source,
		SiteDir:         cfg.SiteDir,
		DestSubdir:      cfg.DestSubdir,
		OnMissingSource: cfg.OnMissingSource,
	}}
}

// Metadata implements hooks.Hook.
func (h *Hook) Metadata() hooks.Metadata {
	return hooks.Metadata{
		Name:        HookName,
		Version:     "v1.0.0",
		Phase:       hooks.PhasePostBuild,
		Description: "Merge-copies prebuilt package assets into the site output",
	}
}

// Validate implements hooks.Hook. Settings may override Source and DestSubdir.
func (h *Hook) Validate(settings map[string]any) error {
	for key := range settings {
		switch key {
		case "source", "dest_subdir":
		default:
			return stageerrors.ValidationError("unknown staging setting").WithContext("key", key)
		}
	}
	return nil
}

// Execute implements hooks.Hook. The hook context supplies the site and base
// directories; Options fields left empty at construction fall back to them.
func (h *Hook) Execute(ctx context.Context, hctx *hooks.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	opts := h.opts
	if opts.BaseDir == "" {
		opts.BaseDir = hctx.BaseDir
	}
	if opts.SiteDir == "" {
		opts.SiteDir = hctx.SiteDir
	}

	start := time.Now()
	result, err := Stage(opts)
	elapsed := time.Since(start)

	hctx.SetValue(ResultKey, result)
	hctx.Recorder.ObserveRunDuration(elapsed)
	if err != nil {
		hctx.Recorder.IncRunOutcome(metrics.OutcomeFailed)
		return hooks.NewHookError(HookName, "stage", err)
	}

	if result.Skipped {
		hctx.Recorder.IncRunOutcome(metrics.OutcomeSkipped)
		hctx.Logger.Warn("Asset source missing, staging skipped",
			logfields.RunID(hctx.RunID),
			logfields.Source(result.Source))
		return nil
	}

	hctx.Recorder.IncRunOutcome(metrics.OutcomeSuccess)
	hctx.Recorder.AddFilesStaged(result.Files)
	hctx.Recorder.AddBytesStaged(result.Bytes)
	hctx.Logger.Info("Assets staged",
		logfields.RunID(hctx.RunID),
		logfields.Source(result.Source),
		logfields.Dest(result.Dest),
		logfields.Files(result.Files),
		logfields.Bytes(result.Bytes),
		logfields.DurationMS(float64(elapsed.Milliseconds())))
	return nil
}

var _ hooks.Hook = (*Hook)(nil)
