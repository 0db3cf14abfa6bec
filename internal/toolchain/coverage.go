package toolchain

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/elementbuild/internal/foundation/errors"
)

// ExecInstrumenter runs an external coverage instrumenter. The code to
// instrument is written to a scratch file whose path is appended to the
// command; the instrumented code is read from stdout.
type ExecInstrumenter struct {
	command []string
}

// NewExecInstrumenter creates an instrumenter for command, e.g.
// ["npx", "nyc", "instrument"].
func NewExecInstrumenter(command []string) *ExecInstrumenter {
	return &ExecInstrumenter{command: append([]string(nil), command...)}
}

// Instrument implements CoverageInstrumenter.
func (e *ExecInstrumenter) Instrument(ctx context.Context, file string, code []byte) ([]byte, error) {
	if len(e.command) == 0 {
		return nil, ferrors.ToolchainError("no coverage command configured").Build()
	}

	dir, err := os.MkdirTemp("", "elementbuild-coverage-")
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create scratch directory").Build()
	}
	defer func() { _ = os.RemoveAll(dir) }()

	scratch := filepath.Join(dir, filepath.Base(file))
	if err := os.WriteFile(scratch, code, 0o600); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write scratch file").Build()
	}

	args := append(append([]string(nil), e.command[1:]...), scratch)
	cmd := exec.CommandContext(ctx, e.command[0], args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		b := ferrors.WrapError(err, ferrors.CategoryBuild, "coverage instrumentation failed").
			Warning().
			WithContext("file", file).
			WithContext("command", strings.Join(e.command, " "))
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			b = b.WithContext("stderr", msg)
		}
		return nil, b.Build()
	}
	return stdout.Bytes(), nil
}
