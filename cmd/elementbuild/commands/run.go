package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	ferrors "git.home.luguber.info/inful/elementbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/elementbuild/internal/metrics"
	"git.home.luguber.info/inful/elementbuild/internal/runner"
)

// RunCmd implements the 'run' command.
type RunCmd struct {
	Tasks       []string `arg:"" optional:"" help:"Tasks to run with their dependencies"`
	MetricsFile string   `name:"metrics-file" help:"Write Prometheus metrics in textfile format to this path"`
	Report      string   `help:"Write the JSON run report to this path"`
}

func (r *RunCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var (
		reg *prom.Registry
		rec metrics.Recorder = metrics.NoopRecorder{}
	)
	if r.MetricsFile != "" {
		reg = prom.NewRegistry()
		rec = metrics.NewPrometheusRecorder(reg)
	}

	s, err := root.newSession(loggerOf(g), rec)
	if err != nil {
		return err
	}
	defer s.Close()

	report, err := s.runner.Run(ctx, r.Tasks...)
	if err != nil {
		return err
	}
	fmt.Print(report.String())

	return r.finish(report, reg)
}

// finish writes the requested artifacts and turns task failures into an error.
func (r *RunCmd) finish(report *runner.Report, reg *prom.Registry) error {
	if r.Report != "" {
		if err := report.Persist(r.Report); err != nil {
			return ferrors.FileSystemError("failed to write run report").WithCause(err).WithContext("path", r.Report).Build()
		}
	}
	if reg != nil {
		if err := metrics.WriteTextfile(r.MetricsFile, reg); err != nil {
			return ferrors.FileSystemError("failed to write metrics").WithCause(err).WithContext("path", r.MetricsFile).Build()
		}
	}
	if report.Failed() {
		return ferrors.NewError(ferrors.CategoryBuild, "one or more tasks failed").
			WithContext("run_id", report.RunID).
			Build()
	}
	return nil
}
