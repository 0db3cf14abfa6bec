package commands

import (
	"context"
	"fmt"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"git.home.luguber.info/inful/elementbuild/internal/runner"
	"git.home.luguber.info/inful/elementbuild/internal/tasks"
	"git.home.luguber.info/inful/elementbuild/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Tasks    []string      `arg:"" optional:"" help:"Tasks to build and watch (all when none given)"`
	Debounce time.Duration `help:"Quiet period before a rebuild" default:"300ms"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := loggerOf(g)
	s, err := root.newSession(logger, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	plan, err := s.runner.Plan(w.Tasks...)
	if err != nil {
		return err
	}
	report, err := s.runner.Run(ctx, plan...)
	if err != nil {
		return err
	}
	fmt.Print(report.String())

	watcher, err := watch.New(s.runner, watchTargets(tasks.Definitions(s.cfg, s.opts...), plan))
	if err != nil {
		return err
	}
	watcher.WithDebounce(w.Debounce).
		WithLogger(logger).
		OnReport(func(r *runner.Report) { fmt.Print(r.String()) })
	return watcher.Watch(ctx)
}

// watchTargets keeps the definitions of the planned tasks.
func watchTargets(defs []tasks.Definition, plan []string) []watch.Target {
	var out []watch.Target
	for _, d := range defs {
		if slices.Contains(plan, d.Name) {
			out = append(out, watch.Target{Name: d.Name, Patterns: d.Sources, Dest: d.Dest})
		}
	}
	return out
}
