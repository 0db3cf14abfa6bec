// Package tasks registers the element build tasks on a runner.
package tasks

import (
	"log/slog"
	"os"

	ferrors "git.home.luguber.info/inful/elementbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/elementbuild/internal/pipeline"
	"git.home.luguber.info/inful/elementbuild/internal/runner"
)

// Task names.
const (
	SassStyles        = "sass:styles"
	SassElements      = "sass:elements"
	CompileJSScripts  = "compileJS:scripts"
	CompileJSElements = "compileJS:elements"
	CompileJSTests    = "compileJS:tests"
	InlineElements    = "inline:elements"
	InlineTests       = "inline:tests"
)

// Base holds what every task needs besides its options.
type Base struct {
	Name        string
	Logger      *slog.Logger
	Concurrency int
}

func (b Base) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.Default()
	}
	return b.Logger
}

func (b Base) pipeline(dest string) *pipeline.Pipeline {
	return pipeline.New(b.Name, dest).WithLogger(b.logger()).WithConcurrency(b.Concurrency)
}

// prepare ensures dest exists and resolves the source globs.
func (b Base) prepare(dest string, src []string) ([]*pipeline.File, error) {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create destination").
			WithContext("task", b.Name).
			WithContext("dest", dest).
			Build()
	}
	files, err := pipeline.Sources(src)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryValidation, "failed to resolve sources").
			WithContext("task", b.Name).
			WithContext("sources", src).
			Build()
	}
	return files, nil
}

func stats(res pipeline.Result) runner.Stats {
	return runner.Stats{Written: len(res.Written), UpToDate: res.UpToDate, Failed: res.Failed}
}
