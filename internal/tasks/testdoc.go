package tasks

import (
	"log/slog"
	"os"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/elementbuild/internal/logfields"
	"git.home.luguber.info/inful/elementbuild/internal/staleness"
)

// Built-in test document parts.
const (
	DefaultShell    = `<!DOCTYPE html><html lang="en"><head><meta charset="UTF-8" /><title>Unit Test</title></head><body></body></html>`
	DefaultTemplate = `<content-goes-here></content-goes-here>`
	contentMarker   = `<content-goes-here></content-goes-here>`
)

var bodyPattern = regexp.MustCompile(`<body[\s\S]+/body>`)

// TestDocument wraps inlined test content in a template and a page shell.
type TestDocument struct {
	Shell    string
	Template string
}

// LoadTestDocument reads the shell and template overrides. An empty path
// keeps the default; an unreadable file is logged and keeps it too.
func LoadTestDocument(shellPath, templatePath string, logger *slog.Logger) TestDocument {
	if logger == nil {
		logger = slog.Default()
	}
	return TestDocument{
		Shell:    readOverride(shellPath, DefaultShell, logger),
		Template: readOverride(templatePath, DefaultTemplate, logger),
	}
}

func readOverride(path, fallback string, logger *slog.Logger) string {
	if path == "" {
		return fallback
	}
	b, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Test document override unreadable, using default", logfields.Path(path), logfields.Error(err))
		return fallback
	}
	return staleness.DecodeText(b)
}

// Compose places content at the template marker, then replaces the shell's
// body element with the result.
func (d TestDocument) Compose(content string) string {
	page := strings.Replace(d.Template, contentMarker, content, 1)
	loc := bodyPattern.FindStringIndex(d.Shell)
	if loc == nil {
		return d.Shell
	}
	return d.Shell[:loc[0]] + page + d.Shell[loc[1]:]
}

// Change adapts Compose to a change function.
func (d TestDocument) Change(content string) (string, error) {
	return d.Compose(content), nil
}
