package toolchain

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/elementbuild/internal/foundation/errors"
)

func TestESBuildTranspile(t *testing.T) {
	es := NewESBuild()

	out, err := es.Transpile([]byte("const v = a ?? b;\n"), "a.js", false)
	require.NoError(t, err)
	require.NotContains(t, string(out), "??")

	compact, err := es.Transpile([]byte("function f ( a ) {\n  return a + 1;\n}\n"), "f.js", true)
	require.NoError(t, err)
	require.NotContains(t, string(compact), "\n  ")
}

func TestESBuildTranspileDestructuring(t *testing.T) {
	es := NewESBuild()

	for _, src := range []string{
		"let [a, ...b] = c;\n",
		"const {x, ...y} = r;\n",
		"function f({a, ...rest}) { return [a, rest]; }\n",
	} {
		out, err := es.Transpile([]byte(src), "d.js", false)
		require.NoError(t, err, src)
		require.NotEmpty(t, out)
	}

	out, err := es.Transpile([]byte("const {x, ...y} = r;\n"), "d.js", false)
	require.NoError(t, err)
	require.NotContains(t, string(out), "...y")
}

func TestESBuildTranspileError(t *testing.T) {
	_, err := NewESBuild().Transpile([]byte("let = ;"), "broken.js", false)
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryBuild))
	require.Contains(t, err.Error(), "broken.js")
}

func TestESBuildMinifyCSS(t *testing.T) {
	es := NewESBuild()
	out, err := es.MinifyCSS([]byte("/*! legal */\n.a {\n  z-index: 10;\n  color: red;\n}\n/* plain */\n"), "a.css")
	require.NoError(t, err)
	css := string(out)
	require.NotContains(t, css, "legal")
	require.NotContains(t, css, "plain")
	require.Contains(t, css, "z-index:10")
}

func TestESBuildPrefix(t *testing.T) {
	out, err := NewESBuild().Prefix([]byte(".a { user-select: none; }"), "a.css")
	require.NoError(t, err)
	require.Contains(t, string(out), "user-select: none")
}

func TestJSMinifier(t *testing.T) {
	src := "function add ( first , second ) {\n  return first + second ;\n}\n"
	out, err := NewJSMinifier().MinifyJS([]byte(src))
	require.NoError(t, err)
	require.Less(t, len(out), len(src))
}

func TestExecInstrumenter(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available")
	}
	out, err := NewExecInstrumenter([]string{"cat"}).Instrument(context.Background(), "dir/a.js", []byte("x();"))
	require.NoError(t, err)
	require.Equal(t, "x();", string(out))
}

func TestExecInstrumenterFailure(t *testing.T) {
	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false not available")
	}
	_, err := NewExecInstrumenter([]string{"false"}).Instrument(context.Background(), "a.js", []byte("x();"))
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryBuild))

	_, err = NewExecInstrumenter(nil).Instrument(context.Background(), "a.js", nil)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryToolchain))
}

func TestDartSass(t *testing.T) {
	if _, err := exec.LookPath("sass"); err != nil {
		t.Skip("dart sass not installed")
	}
	d := NewDartSass()
	t.Cleanup(func() { _ = d.Close() })

	css, err := d.CompileStyle(context.Background(), "a.scss", []byte("$c: red;\n.a { .b { color: $c; } }\n"), nil)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(css), ".a .b"))

	_, err = d.CompileStyle(context.Background(), "bad.scss", []byte(".a { color: $missing; }"), nil)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryBuild))
}

func TestToolchainCloseWithoutStart(t *testing.T) {
	tc := Default([]string{"npx", "nyc", "instrument"})
	require.NoError(t, tc.Close())
}
