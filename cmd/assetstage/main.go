package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/assetstage/cmd/assetstage/commands"
	stageerrors "git.home.luguber.info/inful/assetstage/internal/errors"
	"git.home.luguber.info/inful/assetstage/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("assetstage"),
		kong.Description("Stages prebuilt package assets into a documentation site's output after a build."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)

	global := &commands.Global{Logger: slog.Default()}
	err := ctx.Run(global, &cli)

	adapter := stageerrors.NewCLIErrorAdapter(cli.Verbose, slog.Default())
	adapter.HandleError(err)
}
