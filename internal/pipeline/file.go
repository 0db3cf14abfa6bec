// Package pipeline moves source files through per-file stages into a
// destination directory.
package pipeline

import (
	"path/filepath"
	"strings"
	"time"
)

// File is a source file travelling through a pipeline. Stages may rewrite
// Contents and rename Relative; Path and Base always describe the source.
type File struct {
	// Path is the absolute source path.
	Path string
	// Base is the glob base the file was matched below.
	Base string
	// Relative is the output path below the destination directory.
	Relative string
	Contents []byte
	ModTime  time.Time
}

// Name returns the output basename.
func (f *File) Name() string {
	return filepath.Base(f.Relative)
}

// SetExt replaces the extension of the output path.
func (f *File) SetExt(ext string) {
	f.Relative = strings.TrimSuffix(f.Relative, filepath.Ext(f.Relative)) + ext
}
