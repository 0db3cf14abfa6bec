package tasks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/elementbuild/internal/config"
	"git.home.luguber.info/inful/elementbuild/internal/runner"
	"git.home.luguber.info/inful/elementbuild/internal/testutil"
)

func clearEnvFlags(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvProduction, "")
	t.Setenv(config.EnvCoverage, "")
}

func TestDefinitions(t *testing.T) {
	clearEnvFlags(t)
	cfg, err := config.New(map[string]any{
		"js": map[string]any{"src": []any{"custom/**/*.js"}},
	})
	require.NoError(t, err)

	defs := Definitions(cfg, WithToolchain(fakeToolchain(&fakeTools{})), WithLogger(quiet()))
	byName := make(map[string]Definition)
	for _, d := range defs {
		byName[d.Name] = d
	}
	require.Len(t, byName, 7)

	require.Equal(t, []string{"app/css/**/*.scss"}, byName[SassStyles].Sources)
	require.Equal(t, "build/sass", byName[SassStyles].Dest)
	require.Equal(t, []string{
		"app/elements/**/*.scss",
		"app/pages/**/*.scss",
		"app/behaviors/**/*.scss",
		"app/dependency-imports/**/*.scss",
	}, byName[SassElements].Sources)
	require.Equal(t, []string{"app/js/**/*.js"}, byName[CompileJSScripts].Sources)
	require.Equal(t, "build/js/global", byName[CompileJSScripts].Dest)
	require.Equal(t, []string{"custom/**/*.js"}, byName[CompileJSElements].Sources)
	require.Equal(t, "build/js/element", byName[CompileJSElements].Dest)
	require.Equal(t, []string{"test/**/*.test.js"}, byName[CompileJSTests].Sources)
	require.Equal(t, "build/js/test", byName[CompileJSTests].Dest)
	require.Equal(t, "build/inline", byName[InlineElements].Dest)
	require.Equal(t, []string{SassElements, CompileJSElements}, byName[InlineElements].Deps)
	require.Equal(t, []string{"test/**/*.test.html"}, byName[InlineTests].Sources)
	require.Equal(t, "build/test", byName[InlineTests].Dest)
	require.Equal(t, []string{CompileJSTests}, byName[InlineTests].Deps)
}

func TestAttachRegistersTasks(t *testing.T) {
	clearEnvFlags(t)
	r := runner.New(runner.WithLogger(quiet()))
	require.NoError(t, Attach(r, nil, WithToolchain(fakeToolchain(&fakeTools{})), WithLogger(quiet())))
	require.Len(t, r.Tasks(), 7)

	plan, err := r.Plan(InlineElements)
	require.NoError(t, err)
	require.Equal(t, []string{CompileJSElements, SassElements, InlineElements}, plan)
}

func TestAttachTwiceFails(t *testing.T) {
	clearEnvFlags(t)
	r := runner.New(runner.WithLogger(quiet()))
	opts := []Option{WithToolchain(fakeToolchain(&fakeTools{})), WithLogger(quiet())}
	require.NoError(t, Attach(r, nil, opts...))
	require.Error(t, Attach(r, nil, opts...))
}

func TestAttachRejectsInvalidConfig(t *testing.T) {
	clearEnvFlags(t)
	r := runner.New(runner.WithLogger(quiet()))
	err := Attach(r, map[string]any{"sass": map[string]any{"dest": ""}}, WithToolchain(fakeToolchain(&fakeTools{})))
	require.Error(t, err)
	require.Empty(t, r.Tasks())
}

func TestAttachEndToEnd(t *testing.T) {
	clearEnvFlags(t)
	t.Chdir(t.TempDir())
	testutil.WriteFile(t, "app/css/global.scss", "global", past)
	testutil.WriteFile(t, "app/js/site.js", "site", past)
	testutil.WriteFile(t, "app/elements/x-foo/x-foo.scss", "foo", past)
	testutil.WriteFile(t, "app/elements/x-foo/x-foo.js", "foo", past)
	testutil.WriteFile(t, "app/elements/x-foo/x-foo.html",
		`<link inline href="/build/sass/x-foo.css"><script inline src="/build/js/element/x-foo.js"></script>`, past)
	testutil.WriteFile(t, "test/x-foo.test.js", "suite", past)
	testutil.WriteFile(t, "test/x-foo.test.html", `<script inline src="build/js/test/x-foo.test.js"></script>`, past)
	testutil.WriteFile(t, "app/unit-test-template.html", "<body><content-goes-here></content-goes-here></body>", past)

	r := runner.New(runner.WithLogger(quiet()))
	require.NoError(t, Attach(r, map[string]any{
		"test": map[string]any{"index": "app/absent.html"},
	}, WithToolchain(fakeToolchain(&fakeTools{})), WithLogger(quiet())))

	report, err := r.Run(context.Background())
	require.NoError(t, err)
	require.False(t, report.Failed())

	require.Equal(t, "prefixed(css(global))", testutil.ReadFile(t, "build/sass/global.css"))
	require.Equal(t, "es5(site)", testutil.ReadFile(t, "build/js/global/site.js"))
	require.Equal(t, `<style>prefixed(css(foo))</style><script>es5(foo)</script>`,
		testutil.ReadFile(t, "build/inline/x-foo.html"))
	require.Equal(t,
		`<!DOCTYPE html><html lang="en"><head><meta charset="UTF-8" /><title>Unit Test</title></head><body><script>es5(suite)</script></body></html>`,
		testutil.ReadFile(t, "build/test/x-foo.test.html"))
}
