package runner

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	ferrors "git.home.luguber.info/inful/elementbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/elementbuild/internal/logfields"
	"git.home.luguber.info/inful/elementbuild/internal/metrics"
)

// Run executes the plan for names sequentially, each task at most once. A
// failed task does not prevent its dependents from running. When ctx ends,
// the remaining tasks are marked skipped. The error is non-nil only when
// the plan cannot be built.
func (r *Runner) Run(ctx context.Context, names ...string) (*Report, error) {
	plan, err := r.Plan(names...)
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID: uuid.NewString(),
		Start: time.Now(),
		Plan:  plan,
	}
	log := r.logger.With(logfields.RunID(report.RunID))
	log.Info("Run started", logfields.Count(len(plan)))

	for _, name := range plan {
		if ctx.Err() != nil {
			report.Tasks = append(report.Tasks, TaskResult{Name: name, Outcome: OutcomeSkipped})
			r.recorder.IncTaskOutcome(name, metrics.OutcomeSkipped)
			log.Info("Task skipped", logfields.Task(name), logfields.Outcome(string(OutcomeSkipped)))
			continue
		}
		report.Tasks = append(report.Tasks, r.runTask(ctx, log, r.tasks[name]))
	}

	report.End = time.Now()
	r.recorder.ObserveRunDuration(report.End.Sub(report.Start))
	log.Info("Run finished", slog.String("summary", report.Summary()))
	return report, nil
}

func (r *Runner) runTask(ctx context.Context, log *slog.Logger, t *Task) TaskResult {
	log.Info("Task started", logfields.Task(t.Name))
	start := time.Now()
	stats, err := t.fn(ctx)
	d := time.Since(start)

	res := TaskResult{Name: t.Name, Outcome: OutcomeSuccess, Duration: d, Files: stats}
	switch {
	case err != nil && ctx.Err() != nil:
		res.Outcome = OutcomeSkipped
		res.Error = err.Error()
	case err != nil:
		res.Outcome = OutcomeFailed
		res.Error = err.Error()
	}

	r.recorder.ObserveTaskDuration(t.Name, d)
	r.recorder.IncTaskOutcome(t.Name, metrics.OutcomeLabel(res.Outcome))
	r.recorder.AddFiles(t.Name, metrics.FilesWritten, stats.Written)
	r.recorder.AddFiles(t.Name, metrics.FilesUpToDate, stats.UpToDate)
	r.recorder.AddFiles(t.Name, metrics.FilesFailed, stats.Failed)

	attrs := []any{
		logfields.Task(t.Name),
		logfields.Outcome(string(res.Outcome)),
		logfields.DurationMS(float64(d.Microseconds()) / 1000),
		slog.Int("written", stats.Written),
		slog.Int("up_to_date", stats.UpToDate),
		slog.Int("failed", stats.Failed),
	}
	if err != nil {
		attrs = append(attrs, logfields.Error(err))
		if ce, ok := ferrors.AsClassified(err); ok {
			attrs = append(attrs, slog.String("category", string(ce.Category())))
		}
		if res.Outcome == OutcomeSkipped {
			log.Warn("Task canceled", attrs...)
			return res
		}
		log.Error("Task failed", attrs...)
		return res
	}
	log.Info("Task finished", attrs...)
	return res
}
