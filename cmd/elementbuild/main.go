package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/elementbuild/cmd/elementbuild/commands"
	"git.home.luguber.info/inful/elementbuild/internal/config"
	ferrors "git.home.luguber.info/inful/elementbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/elementbuild/internal/version"
)

func main() {
	if loaded, err := config.LoadDotEnv("."); err != nil {
		slog.Warn("Failed to load .env file", "error", err)
	} else if len(loaded) > 0 {
		slog.Debug("Loaded environment files", "files", loaded)
	}

	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("elementbuild"),
		kong.Description("Build web component sources: Sass, scripts and inlined HTML documents."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	global := &commands.Global{Logger: slog.Default()}
	if err := parser.Run(global, cli); err != nil {
		ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
