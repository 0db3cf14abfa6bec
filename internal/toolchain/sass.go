package toolchain

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/bep/godartsass/v2"

	ferrors "git.home.luguber.info/inful/elementbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/elementbuild/internal/logfields"
)

// DartSass compiles SCSS through the Dart Sass embedded protocol. The sass
// binary is started on first use and shared by concurrent compilations.
type DartSass struct {
	binary  string
	timeout time.Duration
	logger  *slog.Logger

	mu         sync.Mutex
	transpiler *godartsass.Transpiler
}

// NewDartSass uses the sass binary found on PATH.
func NewDartSass() *DartSass {
	return &DartSass{timeout: 30 * time.Second, logger: slog.Default()}
}

// WithBinary sets the path of the Dart Sass executable.
func (d *DartSass) WithBinary(path string) *DartSass {
	d.binary = path
	return d
}

// WithLogger sets a custom logger.
func (d *DartSass) WithLogger(logger *slog.Logger) *DartSass {
	d.logger = logger
	return d
}

func (d *DartSass) start() (*godartsass.Transpiler, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.transpiler != nil {
		return d.transpiler, nil
	}

	t, err := godartsass.Start(godartsass.Options{
		DartSassEmbeddedFilename: d.binary,
		Timeout:                  d.timeout,
		LogEventHandler: func(e godartsass.LogEvent) {
			switch e.Type {
			case godartsass.LogEventTypeDebug:
				d.logger.Debug("Sass: " + e.Message)
			case godartsass.LogEventTypeDeprecated:
				d.logger.Debug("Sass deprecation: "+e.Message, slog.String("deprecation", e.DeprecationType))
			default:
				d.logger.Warn("Sass: " + e.Message)
			}
		},
	})
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryToolchain, "failed to start dart sass").
			WithContext("binary", d.binary).
			Build()
	}
	d.transpiler = t
	return t, nil
}

// CompileStyle implements StyleCompiler.
func (d *DartSass) CompileStyle(ctx context.Context, path string, source []byte, includePaths []string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, err := d.start()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	res, err := t.Execute(godartsass.Args{
		Source:       string(source),
		URL:          "file://" + filepath.ToSlash(abs),
		SourceSyntax: godartsass.SourceSyntaxSCSS,
		OutputStyle:  godartsass.OutputStyleExpanded,
		IncludePaths: includePaths,
	})
	if err != nil {
		d.logger.Debug("Sass compile failed", logfields.File(path), logfields.Error(err))
		return nil, ferrors.WrapError(err, ferrors.CategoryBuild, "sass compilation failed").
			Warning().
			WithContext("file", path).
			Build()
	}
	return []byte(res.CSS), nil
}

// Close stops the sass process if it was started.
func (d *DartSass) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.transpiler == nil {
		return nil
	}
	err := d.transpiler.Close()
	d.transpiler = nil
	return err
}
