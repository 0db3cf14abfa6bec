package tasks

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/elementbuild/internal/testutil"
	"git.home.luguber.info/inful/elementbuild/internal/toolchain"
)

func htmlFixture(t *testing.T) *HTMLTask {
	t.Helper()
	t.Chdir(t.TempDir())
	testutil.WriteFile(t, "build/js/element/x.js", "console.log(1)", past)
	testutil.WriteFile(t, "build/sass/x.css", ":host{}", past)
	testutil.WriteFile(t, "app/elements/x/x.html",
		`<dom-module><link rel="stylesheet" inline href="/build/sass/x.css"><script inline src="/build/js/element/x.js"></script></dom-module>`, past)
	return &HTMLTask{Base: Base{Name: InlineElements, Logger: quiet()}, Inliner: toolchain.NewHTMLInliner(".")}
}

func TestHTMLTaskInlines(t *testing.T) {
	task := htmlFixture(t)
	opts := HTMLOptions{Src: []string{"app/elements/**/*.html"}, Dest: "build/inline"}

	st, err := task.Run(context.Background(), opts)
	require.NoError(t, err)
	require.Equal(t, 1, st.Written)
	require.Equal(t, `<dom-module><style>:host{}</style><script>console.log(1)</script></dom-module>`,
		testutil.ReadFile(t, "build/inline/x.html"))

	st, err = task.Run(context.Background(), opts)
	require.NoError(t, err)
	require.Equal(t, 1, st.UpToDate)

	testutil.WriteFile(t, "build/js/element/x.js", "console.log(2)", past)
	testutil.Touch(t, "build/js/element/x.js", time.Now().Add(time.Hour))
	st, err = task.Run(context.Background(), opts)
	require.NoError(t, err)
	require.Equal(t, 1, st.Written)
	require.Contains(t, testutil.ReadFile(t, "build/inline/x.html"), "console.log(2)")
}

func TestHTMLTaskChangeBeforeWrite(t *testing.T) {
	task := htmlFixture(t)

	_, err := task.Run(context.Background(), HTMLOptions{
		Src:               []string{"app/elements/**/*.html"},
		Dest:              "upper",
		ChangeBeforeWrite: true,
		ChangeFunction:    func(s string) (string, error) { return strings.ToUpper(s), nil },
	})
	require.NoError(t, err)
	require.Contains(t, testutil.ReadFile(t, "upper/x.html"), "CONSOLE.LOG(1)")

	// Without a function the document passes through unchanged.
	_, err = task.Run(context.Background(), HTMLOptions{
		Src:               []string{"app/elements/**/*.html"},
		Dest:              "same",
		ChangeBeforeWrite: true,
	})
	require.NoError(t, err)
	require.Contains(t, testutil.ReadFile(t, "same/x.html"), "console.log(1)")
}

func TestHTMLTaskMissingReferenceDropsDocument(t *testing.T) {
	task := htmlFixture(t)
	testutil.WriteFile(t, "app/elements/y/y.html", `<script inline src="/build/js/element/missing.js"></script>`, past)

	st, err := task.Run(context.Background(), HTMLOptions{Src: []string{"app/elements/**/*.html"}, Dest: "out"})
	require.NoError(t, err)
	require.Equal(t, 1, st.Written)
	require.Equal(t, 1, st.Failed)
	require.NoFileExists(t, "out/y.html")
}
