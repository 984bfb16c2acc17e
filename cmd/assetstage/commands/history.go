package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	stageerrors "git.home.luguber.info/inful/assetstage/internal/errors"
	"git.home.luguber.info/inful/assetstage/internal/runstore"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int `short:"n" help:"Number of runs to show" default:"20"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := ResolveConfig(root, "")
	if err != nil {
		return err
	}

	if cfg.History.Path == "" {
		return stageerrors.ConfigError("run history is not configured (set history.path)")
	}
	if _, err := os.Stat(cfg.History.Path); os.IsNotExist(err) {
		fmt.Println("No runs recorded yet")
		return nil
	}

	store, err := runstore.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		return stageerrors.Wrap(err, stageerrors.CategoryStore, stageerrors.SeverityError, "failed to open history store")
	}
	defer func() { _ = store.Close() }()

	runs, err := store.Recent(context.Background(), h.Limit)
	if err != nil {
		return stageerrors.Wrap(err, stageerrors.CategoryStore, stageerrors.SeverityError, "failed to query history store")
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tOUTCOME\tFILES\tBYTES\tDURATION\tCOMMIT\tRUN ID")
	for _, run := range runs {
		commit := run.Commit
		if len(commit) > 8 {
			commit = commit[:8]
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\t%s\n",
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.Outcome, run.Files, run.Bytes, run.Duration, commit, run.RunID)
	}
	return w.Flush()
}
