package toolchain

import (
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	ferrors "git.home.luguber.info/inful/elementbuild/internal/foundation/errors"
)

// DefaultEngines are the browser targets used for stylesheet prefixing and
// minification. Scripts are lowered by language target alone.
var DefaultEngines = []api.Engine{
	{Name: api.EngineChrome, Version: "58"},
	{Name: api.EngineEdge, Version: "16"},
	{Name: api.EngineFirefox, Version: "57"},
	{Name: api.EngineSafari, Version: "11"},
	{Name: api.EngineIOS, Version: "11"},
}

// ESBuild transpiles scripts and prefixes and minifies stylesheets.
type ESBuild struct {
	target  api.Target
	engines []api.Engine
}

// NewESBuild targets ES2015 and DefaultEngines.
func NewESBuild() *ESBuild {
	return &ESBuild{target: api.ES2015, engines: DefaultEngines}
}

// WithEngines overrides the browser targets.
func (e *ESBuild) WithEngines(engines ...api.Engine) *ESBuild {
	e.engines = engines
	return e
}

// Transpile implements ScriptTranspiler. compact drops insignificant whitespace.
// Only the language target applies to scripts.
func (e *ESBuild) Transpile(src []byte, file string, compact bool) ([]byte, error) {
	res := api.Transform(string(src), api.TransformOptions{
		Loader:           api.LoaderJS,
		Target:           e.target,
		Sourcefile:       file,
		MinifyWhitespace: compact,
	})
	if len(res.Errors) > 0 {
		return nil, buildFailure("transpilation failed", file, res.Errors)
	}
	return res.Code, nil
}

// Prefix implements StyleProcessor.
func (e *ESBuild) Prefix(css []byte, file string) ([]byte, error) {
	res := api.Transform(string(css), api.TransformOptions{
		Loader:     api.LoaderCSS,
		Engines:    e.engines,
		Sourcefile: file,
	})
	if len(res.Errors) > 0 {
		return nil, buildFailure("prefixing failed", file, res.Errors)
	}
	return res.Code, nil
}

// MinifyCSS implements StyleProcessor. Property values such as z-index are
// never rewritten.
func (e *ESBuild) MinifyCSS(css []byte, file string) ([]byte, error) {
	res := api.Transform(string(css), api.TransformOptions{
		Loader:           api.LoaderCSS,
		Engines:          e.engines,
		Sourcefile:       file,
		MinifyWhitespace: true,
		MinifySyntax:     true,
		LegalComments:    api.LegalCommentsNone,
	})
	if len(res.Errors) > 0 {
		return nil, buildFailure("minification failed", file, res.Errors)
	}
	return res.Code, nil
}

func buildFailure(msg, file string, messages []api.Message) error {
	details := make([]string, 0, len(messages))
	for _, m := range messages {
		if m.Location != nil {
			details = append(details, fmt.Sprintf("%s:%d:%d: %s", m.Location.File, m.Location.Line, m.Location.Column, m.Text))
			continue
		}
		details = append(details, m.Text)
	}
	return ferrors.BuildError(msg).
		WithContext("file", file).
		WithCause(fmt.Errorf("%s", strings.Join(details, "; "))).
		Build()
}
