package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"git.home.luguber.info/inful/elementbuild/internal/runner"
)

// ListCmd implements the 'list' command.
type ListCmd struct{}

func (l *ListCmd) Run(g *Global, root *CLI) error {
	s, err := root.newSession(loggerOf(g), nil)
	if err != nil {
		return err
	}
	defer s.Close()
	return listTasks(os.Stdout, s.runner)
}

func listTasks(w io.Writer, r *runner.Runner) error {
	plan, err := r.Plan()
	if err != nil {
		return err
	}
	deps := make(map[string][]string)
	for _, t := range r.Tasks() {
		deps[t.Name] = t.Deps
	}
	for _, name := range plan {
		if d := deps[name]; len(d) > 0 {
			_, _ = fmt.Fprintf(w, "%s (after %s)\n", name, strings.Join(d, ", "))
			continue
		}
		_, _ = fmt.Fprintln(w, name)
	}
	return nil
}
