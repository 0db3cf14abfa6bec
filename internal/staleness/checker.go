package staleness

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/elementbuild/internal/logfields"
)

// Checker compares candidate documents against their prior outputs.
type Checker struct {
	root   string
	logger *slog.Logger
}

// NewChecker creates a checker resolving references below root. An empty
// root means the working directory.
func NewChecker(root string) *Checker {
	if root == "" {
		root = "."
	}
	return &Checker{root: root, logger: slog.Default()}
}

// WithLogger sets a custom logger.
func (c *Checker) WithLogger(logger *slog.Logger) *Checker {
	c.logger = logger
	return c
}

// NeedsRebuild reports whether the document at candidatePath, last modified
// at modTime and holding contents, must be rebuilt into outputDir.
func (c *Checker) NeedsRebuild(candidatePath string, modTime time.Time, contents []byte, outputDir string) bool {
	prior := filepath.Join(outputDir, filepath.Base(candidatePath))
	info, err := os.Stat(prior)
	if err != nil {
		return true
	}
	built := info.ModTime()

	if modTime.After(built) {
		c.logger.Debug("Document changed since last build", logfields.File(candidatePath), logfields.Dest(prior))
		return true
	}

	for _, ref := range ExtractReferences(DecodeText(contents)) {
		path := ResolveRef(c.root, ref)
		refInfo, err := os.Stat(path)
		if err != nil {
			continue
		}
		if refInfo.ModTime().After(built) {
			c.logger.Debug("Inlined asset changed since last build",
				logfields.File(candidatePath), logfields.Path(path), logfields.Dest(prior))
			return true
		}
	}
	return false
}

// NeedsRebuild checks a candidate against outputDir with references
// resolved relative to the working directory.
func NeedsRebuild(candidatePath string, modTime time.Time, contents []byte, outputDir string) bool {
	return NewChecker(".").NeedsRebuild(candidatePath, modTime, contents, outputDir)
}
