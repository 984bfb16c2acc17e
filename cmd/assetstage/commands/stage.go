package commands

import (
	"context"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/assetstage/internal/build"
	"git.home.luguber.info/inful/assetstage/internal/logfields"
	"git.home.luguber.info/inful/assetstage/internal/runstore"
)

// StageCmd implements the 'stage' command: one post-build staging run.
type StageCmd struct {
	SiteDir         string `name:"site-dir" short:"s" help:"Site output directory the assets are staged into"`
	Source          string `name:"source" help:"Prebuilt asset directory (default pkg)"`
	BaseDir         string `name:"base-dir" help:"Root for resolving a relative source (default current directory)"`
	DestSubdir      string `name:"dest-subdir" help:"Subdirectory of the site output to stage into (default dist)"`
	OnMissingSource string `name:"on-missing-source" help:"Policy when the source is absent: fail or skip"`
	NoHistory       bool   `name:"no-history" help:"Skip recording this run in the history store"`
}

func (s *StageCmd) Run(_ *Global, root *CLI) error {
	cfg, err := ResolveConfig(root, s.SiteDir)
	if err != nil {
		return err
	}
	if err := applyStageOverrides(cfg, s.SiteDir, s.Source, s.BaseDir, s.DestSubdir, s.OnMissingSource); err != nil {
		return err
	}

	fmt.Println("Starting asset staging")

	opts := []build.Option{}
	if cfg.History.Path != "" && !s.NoHistory {
		store, err := runstore.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			slog.Warn("Run history disabled", logfields.Error(err))
		} else {
			defer func() { _ = store.Close() }()
			opts = append(opts, build.WithStore(store))
		}
	}

	runner, err := build.NewRunner(cfg, opts...)
	if err != nil {
		return err
	}

	report, err := runner.RunPostBuild(context.Background())
	if err != nil {
		return err
	}

	if report.Result.Skipped {
		fmt.Println("Asset source missing, nothing staged")
		return nil
	}

	fmt.Printf("Staged %d files (%d bytes) into %s\n", report.Result.Files, report.Result.Bytes, report.Result.Dest)
	return nil
}
