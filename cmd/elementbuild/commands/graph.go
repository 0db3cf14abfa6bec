package commands

import (
	"fmt"
	"log/slog"
	"os"

	ferrors "git.home.luguber.info/inful/elementbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/elementbuild/internal/runner"
)

// GraphCmd implements the 'graph' command.
type GraphCmd struct {
	Format string `short:"f" help:"Output format: text, mermaid, dot, json" default:"text" enum:"text,mermaid,dot,json"`
	Output string `short:"o" help:"Output file path (optional, prints to stdout if not specified)"`
}

func (cmd *GraphCmd) Run(g *Global, root *CLI) error {
	s, err := root.newSession(loggerOf(g), nil)
	if err != nil {
		return err
	}
	defer s.Close()

	output, err := s.runner.Visualize(runner.VisualizationFormat(cmd.Format))
	if err != nil {
		return err
	}

	if cmd.Output != "" {
		if err := os.WriteFile(cmd.Output, []byte(output), 0o644); err != nil {
			return ferrors.FileSystemError("failed to write graph").WithCause(err).WithContext("path", cmd.Output).Build()
		}
		slog.Info("Task graph written", "file", cmd.Output, "format", cmd.Format)
		return nil
	}
	fmt.Print(output)
	return nil
}
