package tasks

import (
	"context"

	"git.home.luguber.info/inful/elementbuild/internal/pipeline"
	"git.home.luguber.info/inful/elementbuild/internal/runner"
	"git.home.luguber.info/inful/elementbuild/internal/toolchain"
)

// ScriptOptions configures one script compilation run.
type ScriptOptions struct {
	Src         []string
	Dest        string
	AddCoverage bool
	Minify      bool
	// Flatten writes outputs by basename and keys the newer check the same way.
	Flatten bool
}

// ScriptTask transpiles, optionally instruments and minifies scripts.
type ScriptTask struct {
	Base
	Transpiler toolchain.ScriptTranspiler
	Minifier   toolchain.ScriptMinifier
	Coverage   toolchain.CoverageInstrumenter
}

// outputKey maps a source to its output path below Dest.
func (o ScriptOptions) outputKey() pipeline.KeyFunc {
	if o.Flatten {
		return pipeline.BaseName
	}
	return pipeline.RelativePath
}

// Run compiles every source newer than its output in opts.Dest.
func (s *ScriptTask) Run(ctx context.Context, opts ScriptOptions) (runner.Stats, error) {
	files, err := s.prepare(opts.Dest, opts.Src)
	if err != nil {
		return runner.Stats{}, err
	}

	transpile := pipeline.Transform(func(_ context.Context, f *pipeline.File, b []byte) ([]byte, error) {
		return s.Transpiler.Transpile(b, f.Path, opts.Minify)
	})
	instrument := pipeline.Transform(func(ctx context.Context, f *pipeline.File, b []byte) ([]byte, error) {
		return s.Coverage.Instrument(ctx, f.Path, b)
	})
	minify := pipeline.Transform(func(_ context.Context, _ *pipeline.File, b []byte) ([]byte, error) {
		return s.Minifier.MinifyJS(b)
	})

	res, err := s.pipeline(opts.Dest).Run(ctx, files,
		pipeline.Newer(opts.Dest, opts.outputKey()),
		transpile,
		pipeline.When(opts.AddCoverage, instrument),
		pipeline.When(opts.Minify, minify),
		pipeline.When(opts.Flatten, pipeline.Flatten()),
	)
	return stats(res), err
}
