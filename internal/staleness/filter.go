package staleness

import (
	"context"

	"git.home.luguber.info/inful/elementbuild/internal/pipeline"
)

// Filter forwards documents that need rebuilding into outputDir and drops
// the rest as up to date.
func (c *Checker) Filter(outputDir string) pipeline.Stage {
	return func(_ context.Context, f *pipeline.File) error {
		if c.NeedsRebuild(f.Path, f.ModTime, f.Contents, outputDir) {
			return nil
		}
		return pipeline.ErrUpToDate
	}
}

// Filter is Checker.Filter with references resolved against the working directory.
func Filter(outputDir string) pipeline.Stage {
	return NewChecker(".").Filter(outputDir)
}
