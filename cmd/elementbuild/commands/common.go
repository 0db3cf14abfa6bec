// Package commands implements the elementbuild subcommands.
package commands

import (
	"errors"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/elementbuild/internal/config"
	"git.home.luguber.info/inful/elementbuild/internal/metrics"
	"git.home.luguber.info/inful/elementbuild/internal/runner"
	"git.home.luguber.info/inful/elementbuild/internal/tasks"
	"git.home.luguber.info/inful/elementbuild/internal/toolchain"
)

// Global carries state shared by all subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config     string           `short:"c" help:"Settings override file (optional)" default:"elementbuild.yaml" type:"path"`
	Verbose    bool             `short:"v" help:"Enable verbose logging"`
	Production bool             `help:"Minify styles and scripts (also enabled by PRODUCTION=true)"`
	Coverage   bool             `help:"Instrument scripts for coverage (also enabled by COVERAGE=true)"`
	Version    kong.VersionFlag `name:"version" help:"Show version and exit"`

	Run   RunCmd   `cmd:"" help:"Run build tasks (all when none given)"`
	List  ListCmd  `cmd:"" help:"List tasks in run order"`
	Graph GraphCmd `cmd:"" help:"Visualize the task graph (text, mermaid, dot, json)"`
	Watch WatchCmd `cmd:"" help:"Build, then rebuild affected tasks on change"`
	Init  InitCmd  `cmd:"" help:"Write a settings file with the defaults"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// LoadConfig builds the configuration from the defaults, the settings file
// and the flags. A missing settings file is not an error.
func (c *CLI) LoadConfig() (*config.Config, error) {
	var overrides []map[string]any
	if c.Config != "" {
		tree, err := config.ReadFile(c.Config)
		switch {
		case errors.Is(err, os.ErrNotExist):
			slog.Debug("No settings file, using defaults", "path", c.Config)
		case err != nil:
			return nil, err
		default:
			overrides = append(overrides, tree)
		}
	}

	cfg, err := config.New(overrides...)
	if err != nil {
		return nil, err
	}
	if c.Production {
		cfg.Sass.Minify = true
		cfg.JS.Minify = true
	}
	if c.Coverage {
		cfg.JS.AddCoverage = true
	}
	return cfg, nil
}

// session is a runner with the build tasks attached.
type session struct {
	cfg    *config.Config
	tools  *toolchain.Toolchain
	runner *runner.Runner
	opts   []tasks.Option
}

func (c *CLI) newSession(logger *slog.Logger, rec metrics.Recorder) (*session, error) {
	cfg, err := c.LoadConfig()
	if err != nil {
		return nil, err
	}
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}

	tools := toolchain.Default(cfg.JS.CoverageCommand)
	s := &session{
		cfg:    cfg,
		tools:  tools,
		runner: runner.New(runner.WithLogger(logger), runner.WithRecorder(rec)),
		opts:   []tasks.Option{tasks.WithToolchain(tools), tasks.WithLogger(logger)},
	}
	if err := tasks.AttachConfig(s.runner, cfg, s.opts...); err != nil {
		_ = tools.Close()
		return nil, err
	}
	return s, nil
}

func (s *session) Close() {
	if err := s.tools.Close(); err != nil {
		slog.Warn("Failed to stop toolchain", "error", err)
	}
}

func loggerOf(g *Global) *slog.Logger {
	if g == nil || g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}
