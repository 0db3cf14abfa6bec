// Package runner executes named tasks in dependency order.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	ferrors "git.home.luguber.info/inful/elementbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/elementbuild/internal/metrics"
)

// Stats counts the files a task handled.
type Stats struct {
	Written  int `json:"written"`
	UpToDate int `json:"up_to_date"`
	Failed   int `json:"failed"`
}

// TaskFunc is the body of a task. A returned error fails the task but
// never stops the run.
type TaskFunc func(ctx context.Context) (Stats, error)

// Task is a registered node of the dependency graph.
type Task struct {
	Name string
	Deps []string
	fn   TaskFunc
}

// Runner holds the task graph as explicit node and edge lists.
type Runner struct {
	tasks    map[string]*Task
	order    []string
	logger   *slog.Logger
	recorder metrics.Recorder
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(r *Runner) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// New creates an empty runner.
func New(opts ...Option) *Runner {
	r := &Runner{
		tasks:    make(map[string]*Task),
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a task. Dependencies may be registered later; they are
// checked by Validate and Plan.
func (r *Runner) Register(name string, deps []string, fn TaskFunc) error {
	if name == "" {
		return ferrors.ValidationError("task name cannot be empty").Build()
	}
	if fn == nil {
		return ferrors.ValidationError(fmt.Sprintf("task %q has no body", name)).WithContext("task", name).Build()
	}
	if _, exists := r.tasks[name]; exists {
		return ferrors.ValidationError(fmt.Sprintf("duplicate task name: %q", name)).WithContext("task", name).Build()
	}
	for _, d := range deps {
		if d == name {
			return ferrors.ValidationError(fmt.Sprintf("task %q depends on itself", name)).WithContext("task", name).Build()
		}
	}
	r.tasks[name] = &Task{Name: name, Deps: append([]string(nil), deps...), fn: fn}
	r.order = append(r.order, name)
	return nil
}

// Tasks returns the registered tasks sorted by name.
func (r *Runner) Tasks() []Task {
	out := make([]Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, Task{Name: t.Name, Deps: append([]string(nil), t.Deps...)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Validate checks that every dependency exists and the graph has no cycle.
func (r *Runner) Validate() error {
	_, err := r.Plan()
	return err
}

// Dependents returns names plus every task that transitively depends on
// one of them, sorted by name.
func (r *Runner) Dependents(names ...string) []string {
	reverse := make(map[string][]string)
	for _, t := range r.tasks {
		for _, d := range t.Deps {
			reverse[d] = append(reverse[d], t.Name)
		}
	}

	seen := make(map[string]bool)
	work := append([]string(nil), names...)
	for len(work) > 0 {
		n := work[len(work)-1]
		work = work[:len(work)-1]
		if seen[n] {
			continue
		}
		if _, ok := r.tasks[n]; !ok {
			continue
		}
		seen[n] = true
		work = append(work, reverse[n]...)
	}

	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
