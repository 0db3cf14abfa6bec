// Package toolchain adapts the external compilers, transpilers and minifiers
// the build tasks delegate to.
package toolchain

import "context"

// StyleCompiler compiles one Sass source to CSS with expanded output.
type StyleCompiler interface {
	CompileStyle(ctx context.Context, path string, source []byte, includePaths []string) ([]byte, error)
}

// StyleProcessor post-processes compiled CSS.
type StyleProcessor interface {
	// Prefix adds vendor prefixes for the configured browser targets.
	Prefix(css []byte, file string) ([]byte, error)
	// MinifyCSS strips all comments, legal ones included.
	MinifyCSS(css []byte, file string) ([]byte, error)
}

// ScriptTranspiler lowers modern JavaScript to the ES2015 target.
type ScriptTranspiler interface {
	Transpile(src []byte, file string, compact bool) ([]byte, error)
}

// ScriptMinifier runs the separate minification pass.
type ScriptMinifier interface {
	MinifyJS(src []byte) ([]byte, error)
}

// CoverageInstrumenter injects coverage counters into transpiled code.
type CoverageInstrumenter interface {
	Instrument(ctx context.Context, file string, code []byte) ([]byte, error)
}

// Inliner replaces inlining markers with the referenced file contents.
type Inliner interface {
	Inline(doc []byte) ([]byte, error)
}

// Toolchain bundles the collaborators the tasks need.
type Toolchain struct {
	Sass       StyleCompiler
	CSS        StyleProcessor
	Transpiler ScriptTranspiler
	Minifier   ScriptMinifier
	Coverage   CoverageInstrumenter
	Inliner    Inliner
}

// Default returns the production toolchain. coverageCommand is the
// instrumenter command line; the file to instrument is appended to it.
// Close releases the Sass compiler process.
func Default(coverageCommand []string) *Toolchain {
	es := NewESBuild()
	return &Toolchain{
		Sass:       NewDartSass(),
		CSS:        es,
		Transpiler: es,
		Minifier:   NewJSMinifier(),
		Coverage:   NewExecInstrumenter(coverageCommand),
		Inliner:    NewHTMLInliner("."),
	}
}

// Close stops any long-lived tool processes.
func (t *Toolchain) Close() error {
	if c, ok := t.Sass.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
