package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Sources resolves glob patterns to files, in pattern order and without
// duplicates. Patterns starting with "!" exclude matches of the remaining
// patterns. A pattern that matches nothing contributes nothing.
func Sources(patterns []string) ([]*File, error) {
	var include, exclude []string
	for _, p := range patterns {
		p = filepath.ToSlash(p)
		if !doublestar.ValidatePattern(strings.TrimPrefix(p, "!")) {
			return nil, fmt.Errorf("invalid glob %q: %w", p, doublestar.ErrBadPattern)
		}
		if rest, ok := strings.CutPrefix(p, "!"); ok {
			exclude = append(exclude, rest)
			continue
		}
		include = append(include, p)
	}

	seen := make(map[string]struct{})
	var files []*File
	for _, pattern := range include {
		base, _ := doublestar.SplitPattern(pattern)
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			if excluded(m, exclude) {
				continue
			}
			abs, err := filepath.Abs(m)
			if err != nil {
				return nil, err
			}
			if _, dup := seen[abs]; dup {
				continue
			}
			seen[abs] = struct{}{}

			f, err := load(abs, base, m)
			if err != nil {
				return nil, err
			}
			files = append(files, f)
		}
	}
	return files, nil
}

func excluded(match string, exclude []string) bool {
	slashed := filepath.ToSlash(match)
	for _, p := range exclude {
		if ok, _ := doublestar.Match(p, slashed); ok {
			return true
		}
	}
	return false
}

func load(abs, base, match string) (*File, error) {
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	contents, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}

	absBase, err := filepath.Abs(filepath.FromSlash(base))
	if err != nil {
		return nil, err
	}
	rel, err := filepath.Rel(absBase, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(match)
	}
	return &File{
		Path:     abs,
		Base:     absBase,
		Relative: rel,
		Contents: contents,
		ModTime:  info.ModTime(),
	}, nil
}
