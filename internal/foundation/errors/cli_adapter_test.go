package errors

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation", err: ValidationError("unknown task").Build(), expected: 2},
		{name: "config", err: ConfigError("bad config").Build(), expected: 7},
		{name: "toolchain", err: ToolchainError("sass not found").Build(), expected: 8},
		{name: "build", err: BuildError("compile failed").Build(), expected: 11},
		{name: "filesystem", err: FileSystemError("write failed").Build(), expected: 11},
		{name: "runtime", err: NewError(CategoryRuntime, "watch failed").Build(), expected: 12},
		{name: "internal", err: InternalError("boom").Build(), expected: 10},
		{name: "wrapped classified", err: fmt.Errorf("outer: %w", ConfigError("inner").Build()), expected: 7},
		{name: "unclassified", err: &customError{msg: "unknown error"}, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, slog.Default())
	verbose := NewCLIErrorAdapter(true, slog.Default())

	require.Empty(t, quiet.FormatError(nil))
	require.Equal(t, "Error: bad yaml", quiet.FormatError(ConfigError("bad yaml").Build()))
	require.Equal(t, "Internal error occurred (use -v for details)", quiet.FormatError(InternalError("x").Build()))
	require.Equal(t, "Error: write failed: disk full",
		quiet.FormatError(WrapError(&customError{msg: "disk full"}, CategoryFileSystem, "write failed").Build()))
	require.Equal(t, "Error: plain", quiet.FormatError(&customError{msg: "plain"}))

	require.Contains(t, verbose.FormatError(InternalError("x").Build()), "[internal:fatal] x")
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	adapter := NewCLIErrorAdapter(false, logger)

	var out bytes.Buffer
	code := -1
	adapter.out = &out
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(ConfigError("missing file").WithContext("path", "elementbuild.yaml").Build())

	require.Equal(t, 7, code)
	require.Equal(t, "Error: missing file\n", out.String())
	require.Contains(t, logs.String(), "category=config")
	require.Contains(t, logs.String(), "path=elementbuild.yaml")
}

func TestCLIErrorAdapter_HandleNil(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(io.Discard, nil)))
	called := false
	adapter.exit = func(int) { called = true }
	adapter.HandleError(nil)
	require.False(t, called)
}

type customError struct {
	msg string
}

func (e *customError) Error() string {
	return e.msg
}
