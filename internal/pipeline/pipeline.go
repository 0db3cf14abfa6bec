package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	ferrors "git.home.luguber.info/inful/elementbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/elementbuild/internal/logfields"
)

// Pipeline runs files through stages and writes the survivors to Dest.
type Pipeline struct {
	task        string
	dest        string
	concurrency int
	logger      *slog.Logger
}

// New creates a pipeline writing below dest. task names the owner in logs.
func New(task, dest string) *Pipeline {
	return &Pipeline{
		task:        task,
		dest:        dest,
		concurrency: runtime.NumCPU(),
		logger:      slog.Default(),
	}
}

// WithLogger sets a custom logger.
func (p *Pipeline) WithLogger(logger *slog.Logger) *Pipeline {
	p.logger = logger
	return p
}

// WithConcurrency bounds how many files are transformed at once.
func (p *Pipeline) WithConcurrency(n int) *Pipeline {
	if n > 0 {
		p.concurrency = n
	}
	return p
}

// Result counts what happened to the files of one run.
type Result struct {
	Written  []string
	UpToDate int
	Failed   int
	Canceled int
}

type fileOutcome int

const (
	outcomePending fileOutcome = iota
	outcomeReady
	outcomeUpToDate
	outcomeFailed
	outcomeCanceled
)

// Run pushes files through stages, then writes the survivors in input
// order. Files that share an output path overwrite each other, the last
// input winning. Per-file failures are logged and counted; the returned
// error is non-nil only when ctx ends the run early.
func (p *Pipeline) Run(ctx context.Context, files []*File, stages ...Stage) (Result, error) {
	outcomes := make([]fileOutcome, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, f := range files {
		if gctx.Err() != nil {
			outcomes[i] = outcomeCanceled
			continue
		}
		g.Go(func() error {
			outcomes[i] = p.process(gctx, f, stages)
			return nil
		})
	}
	_ = g.Wait()

	var res Result
	owners := make(map[string]string)
	for i, f := range files {
		switch outcomes[i] {
		case outcomeUpToDate:
			res.UpToDate++
			continue
		case outcomeFailed:
			res.Failed++
			continue
		case outcomeCanceled, outcomePending:
			res.Canceled++
			continue
		}
		if ctx.Err() != nil {
			res.Canceled++
			continue
		}

		target := filepath.Join(p.dest, f.Relative)
		if prev, ok := owners[target]; ok {
			p.logger.Warn("Output collision, last input wins",
				logfields.Task(p.task), logfields.File(f.Path), logfields.Dest(target), slog.String("overwrites", prev))
		}
		owners[target] = f.Path

		if err := write(target, f.Contents); err != nil {
			res.Failed++
			p.logFailure(f, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write output").
				WithContext("dest", target).
				Build())
			continue
		}
		res.Written = append(res.Written, target)
		p.logger.Debug("Wrote output", logfields.Task(p.task), logfields.File(f.Path), logfields.Dest(target))
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}

func (p *Pipeline) process(ctx context.Context, f *File, stages []Stage) fileOutcome {
	for _, s := range stages {
		if ctx.Err() != nil {
			return outcomeCanceled
		}
		err := s(ctx, f)
		switch {
		case err == nil:
			continue
		case errors.Is(err, ErrUpToDate):
			p.logger.Debug("Up to date", logfields.Task(p.task), logfields.File(f.Path))
			return outcomeUpToDate
		case ctx.Err() != nil:
			return outcomeCanceled
		default:
			p.logFailure(f, err)
			return outcomeFailed
		}
	}
	return outcomeReady
}

func (p *Pipeline) logFailure(f *File, err error) {
	if !ferrors.IsClassified(err) {
		err = ferrors.WrapError(err, ferrors.CategoryBuild, "file failed").Warning().Build()
	}
	p.logger.Warn("File failed", logfields.Task(p.task), logfields.File(f.Path), logfields.Error(err))
}

func write(target string, contents []byte) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	return os.WriteFile(target, contents, 0o644)
}
