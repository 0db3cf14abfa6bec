package toolchain

import (
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/js"

	ferrors "git.home.luguber.info/inful/elementbuild/internal/foundation/errors"
)

const jsMediaType = "application/javascript"

// JSMinifier is the separate script minification pass.
type JSMinifier struct {
	m *minify.M
}

// NewJSMinifier creates a minifier for JavaScript.
func NewJSMinifier() *JSMinifier {
	m := minify.New()
	m.AddFunc(jsMediaType, js.Minify)
	return &JSMinifier{m: m}
}

// MinifyJS implements ScriptMinifier.
func (j *JSMinifier) MinifyJS(src []byte) ([]byte, error) {
	out, err := j.m.Bytes(jsMediaType, src)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryBuild, "script minification failed").Warning().Build()
	}
	return out, nil
}
