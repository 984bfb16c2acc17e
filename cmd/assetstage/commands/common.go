// Package commands implements the assetstage CLI subcommands.
package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/assetstage/internal/config"
	stageerrors "git.home.luguber.info/inful/assetstage/internal/errors"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"assetstage.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Stage   StageCmd   `cmd:"" help:"Stage prebuilt assets into the site output once (post-build hook)"`
	Watch   WatchCmd   `cmd:"" help:"Watch the asset source and re-stage on change"`
	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file"`
	History HistoryCmd `cmd:"" help:"Show recent staging runs from the history store"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// ResolveConfig loads the configuration file if present. When the file is
// absent but siteDir is given on the command line, a flag-only configuration
// is built instead so CI pipelines can run without a config file.
func ResolveConfig(root *CLI, siteDir string) (*config.Config, error) {
	if _, err := os.Stat(root.Config); err == nil {
		return config.Load(root.Config)
	}

	if siteDir == "" {
		return nil, stageerrors.ConfigError(
			fmt.Sprintf("configuration file not found: %s (pass --site-dir to run without one)", root.Config))
	}

	cfg := &config.Config{SiteDir: siteDir}
	cfg.ApplyDefaults()
	return cfg, nil
}

// applyStageOverrides applies shared staging flag overrides onto a loaded config.
func applyStageOverrides(cfg *config.Config, siteDir, source, baseDir, destSubdir, onMissing string) error {
	if siteDir != "" {
		cfg.SiteDir = siteDir
	}
	if source != "" {
		cfg.Source = source
	}
	if baseDir != "" {
		cfg.BaseDir = baseDir
	}
	if destSubdir != "" {
		cfg.DestSubdir = destSubdir
	}
	if onMissing != "" {
		policy := config.NormalizeMissingSourcePolicy(onMissing)
		if policy == "" {
			return stageerrors.ValidationError(
				fmt.Sprintf("invalid --on-missing-source value: %q (expected fail or skip)", onMissing))
		}
		cfg.OnMissingSource = policy
	}
	return cfg.Validate()
}
