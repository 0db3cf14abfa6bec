package tasks

import (
	"context"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/elementbuild/internal/pipeline"
	"git.home.luguber.info/inful/elementbuild/internal/runner"
	"git.home.luguber.info/inful/elementbuild/internal/toolchain"
)

// StyleOptions configures one style compilation run.
type StyleOptions struct {
	Src          []string
	Dest         string
	IncludePaths []string
	Minify       bool
}

// StyleTask compiles Sass sources to flattened CSS files.
type StyleTask struct {
	Base
	Compiler  toolchain.StyleCompiler
	Processor toolchain.StyleProcessor
}

// isPartial reports whether a Sass source only exists to be imported.
func isPartial(f *pipeline.File) bool {
	return strings.HasPrefix(filepath.Base(f.Path), "_")
}

// Run compiles every source newer than its output in opts.Dest.
func (s *StyleTask) Run(ctx context.Context, opts StyleOptions) (runner.Stats, error) {
	files, err := s.prepare(opts.Dest, opts.Src)
	if err != nil {
		return runner.Stats{}, err
	}

	sources := files[:0]
	for _, f := range files {
		if !isPartial(f) {
			sources = append(sources, f)
		}
	}

	compile := pipeline.Transform(func(ctx context.Context, f *pipeline.File, b []byte) ([]byte, error) {
		css, err := s.Compiler.CompileStyle(ctx, f.Path, b, opts.IncludePaths)
		if err != nil {
			return nil, err
		}
		f.SetExt(".css")
		return css, nil
	})
	prefix := pipeline.Transform(func(_ context.Context, f *pipeline.File, b []byte) ([]byte, error) {
		return s.Processor.Prefix(b, f.Path)
	})
	minify := pipeline.Transform(func(_ context.Context, f *pipeline.File, b []byte) ([]byte, error) {
		return s.Processor.MinifyCSS(b, f.Path)
	})

	res, err := s.pipeline(opts.Dest).Run(ctx, sources,
		pipeline.Newer(opts.Dest, pipeline.WithExt(pipeline.BaseName, ".css")),
		compile,
		prefix,
		pipeline.When(opts.Minify, minify),
		pipeline.Flatten(),
	)
	return stats(res), err
}
