package tasks

import (
	"context"

	"git.home.luguber.info/inful/elementbuild/internal/config"
	"git.home.luguber.info/inful/elementbuild/internal/pipeline"
	"git.home.luguber.info/inful/elementbuild/internal/runner"
	"git.home.luguber.info/inful/elementbuild/internal/staleness"
	"git.home.luguber.info/inful/elementbuild/internal/toolchain"
)

// HTMLOptions configures one inlining run.
type HTMLOptions struct {
	Src               []string
	Dest              string
	ChangeBeforeWrite bool
	// ChangeFunction rewrites the inlined document. Nil leaves it unchanged.
	ChangeFunction config.ChangeFunc
}

// HTMLTask inlines marked scripts and stylesheets into composite documents.
type HTMLTask struct {
	Base
	Inliner toolchain.Inliner
	Checker *staleness.Checker
}

// Run inlines every document whose output is older than it or than one of
// its inlined references.
func (h *HTMLTask) Run(ctx context.Context, opts HTMLOptions) (runner.Stats, error) {
	files, err := h.prepare(opts.Dest, opts.Src)
	if err != nil {
		return runner.Stats{}, err
	}

	checker := h.Checker
	if checker == nil {
		checker = staleness.NewChecker(".").WithLogger(h.logger())
	}

	inline := pipeline.Transform(func(_ context.Context, _ *pipeline.File, b []byte) ([]byte, error) {
		return h.Inliner.Inline(b)
	})
	change := pipeline.Transform(func(_ context.Context, _ *pipeline.File, b []byte) ([]byte, error) {
		if opts.ChangeFunction == nil {
			return b, nil
		}
		out, err := opts.ChangeFunction(string(b))
		if err != nil {
			return nil, err
		}
		return []byte(out), nil
	})

	res, err := h.pipeline(opts.Dest).Run(ctx, files,
		checker.Filter(opts.Dest),
		inline,
		pipeline.Flatten(),
		pipeline.When(opts.ChangeBeforeWrite, change),
	)
	return stats(res), err
}
