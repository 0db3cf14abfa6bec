package tasks

import (
	"context"
	"log/slog"
	"path"
	"path/filepath"

	"git.home.luguber.info/inful/elementbuild/internal/config"
	"git.home.luguber.info/inful/elementbuild/internal/runner"
	"git.home.luguber.info/inful/elementbuild/internal/staleness"
	"git.home.luguber.info/inful/elementbuild/internal/toolchain"
)

// Registry accepts named tasks. *runner.Runner satisfies it.
type Registry interface {
	Register(name string, deps []string, fn runner.TaskFunc) error
}

// Definition describes one registered task.
type Definition struct {
	Name    string
	Deps    []string
	Sources []string
	Dest    string
	Run     runner.TaskFunc
}

type options struct {
	tools       *toolchain.Toolchain
	logger      *slog.Logger
	concurrency int
}

// Option configures Attach.
type Option func(*options)

// WithToolchain sets the tools the tasks delegate to. Without it a default
// toolchain is created that lives as long as the process.
func WithToolchain(t *toolchain.Toolchain) Option {
	return func(o *options) { o.tools = t }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithConcurrency bounds per-task file parallelism.
func WithConcurrency(n int) Option {
	return func(o *options) { o.concurrency = n }
}

// Attach builds the configuration from override and registers the build
// tasks on r.
func Attach(r Registry, override map[string]any, opts ...Option) error {
	cfg, err := config.New(override)
	if err != nil {
		return err
	}
	return AttachConfig(r, cfg, opts...)
}

// AttachConfig registers the build tasks for an already built configuration.
// When r can validate itself, dependency and cycle errors are reported here.
func AttachConfig(r Registry, cfg *config.Config, opts ...Option) error {
	for _, d := range Definitions(cfg, opts...) {
		if err := r.Register(d.Name, d.Deps, d.Run); err != nil {
			return err
		}
	}
	if v, ok := r.(interface{ Validate() error }); ok {
		return v.Validate()
	}
	return nil
}

// Definitions returns the build tasks for cfg. Source globs are expanded
// when a task runs.
func Definitions(cfg *config.Config, opts ...Option) []Definition {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.tools == nil {
		o.tools = toolchain.Default(cfg.JS.CoverageCommand)
	}
	base := func(name string) Base {
		return Base{Name: name, Logger: o.logger, Concurrency: o.concurrency}
	}
	loc := cfg.Locations

	style := func(name string, src []string) Definition {
		t := &StyleTask{Base: base(name), Compiler: o.tools.Sass, Processor: o.tools.CSS}
		so := StyleOptions{Src: src, Dest: cfg.Sass.Dest, IncludePaths: cfg.Sass.IncludePaths, Minify: cfg.Sass.Minify}
		return Definition{Name: name, Sources: src, Dest: so.Dest, Run: func(ctx context.Context) (runner.Stats, error) {
			return t.Run(ctx, so)
		}}
	}
	script := func(name string, src []string, sub string, flatten bool) Definition {
		t := &ScriptTask{Base: base(name), Transpiler: o.tools.Transpiler, Minifier: o.tools.Minifier, Coverage: o.tools.Coverage}
		so := ScriptOptions{
			Src:         src,
			Dest:        filepath.Join(cfg.JS.Dest, sub),
			AddCoverage: cfg.JS.AddCoverage,
			Minify:      cfg.JS.Minify,
			Flatten:     flatten,
		}
		return Definition{Name: name, Sources: src, Dest: so.Dest, Run: func(ctx context.Context) (runner.Stats, error) {
			return t.Run(ctx, so)
		}}
	}

	htmlTask := func(name string) *HTMLTask {
		return &HTMLTask{
			Base:    base(name),
			Inliner: o.tools.Inliner,
			Checker: staleness.NewChecker(".").WithLogger(o.logger),
		}
	}

	elementsHTML := prefer(cfg.HTML.Src, globs(loc.Elements, "*.html"))
	elements := htmlTask(InlineElements)
	elementsOpts := HTMLOptions{
		Src:               elementsHTML,
		Dest:              cfg.HTML.Dest,
		ChangeBeforeWrite: cfg.HTML.ChangeBeforeWrite,
		ChangeFunction:    cfg.HTML.ChangeFunction,
	}

	testsHTML := globs(loc.Tests, "*.test.html")
	tests := htmlTask(InlineTests)
	testCfg := cfg.Test

	return []Definition{
		style(SassStyles, globs(loc.GlobalCSS, "*.scss")),
		style(SassElements, prefer(cfg.Sass.Src, globs(loc.Elements, "*.scss"))),
		script(CompileJSScripts, globs(loc.GlobalJS, "*.js"), "global", false),
		script(CompileJSElements, prefer(cfg.JS.Src, globs(loc.Elements, "*.js")), "element", true),
		script(CompileJSTests, globs(loc.Tests, "*.test.js"), "test", true),
		{
			Name:    InlineElements,
			Deps:    []string{SassElements, CompileJSElements},
			Sources: elementsHTML,
			Dest:    elementsOpts.Dest,
			Run: func(ctx context.Context) (runner.Stats, error) {
				return elements.Run(ctx, elementsOpts)
			},
		},
		{
			Name:    InlineTests,
			Deps:    []string{CompileJSTests},
			Sources: testsHTML,
			Dest:    testCfg.Dest,
			Run: func(ctx context.Context) (runner.Stats, error) {
				doc := LoadTestDocument(testCfg.Index, testCfg.Template, o.logger)
				return tests.Run(ctx, HTMLOptions{
					Src:               testsHTML,
					Dest:              testCfg.Dest,
					ChangeBeforeWrite: true,
					ChangeFunction:    doc.Change,
				})
			},
		},
	}
}

// globs joins each directory with a recursive match of pattern.
func globs(dirs []string, pattern string) []string {
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		out = append(out, path.Join(filepath.ToSlash(d), "**", pattern))
	}
	return out
}

func prefer(override, fallback []string) []string {
	if len(override) > 0 {
		return override
	}
	return fallback
}
