package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
)

// ErrUpToDate is returned by a stage to drop a file that needs no rebuild.
var ErrUpToDate = errors.New("up to date")

// Stage processes one file. Returning ErrUpToDate drops the file silently;
// any other error drops it as failed.
type Stage func(ctx context.Context, f *File) error

// KeyFunc maps a file to its output path below a destination directory.
type KeyFunc func(f *File) string

// BaseName keys a file by its basename.
func BaseName(f *File) string { return filepath.Base(f.Relative) }

// RelativePath keys a file by its path below the glob base.
func RelativePath(f *File) string { return f.Relative }

// WithExt rewrites the extension of the key computed by k.
func WithExt(k KeyFunc, ext string) KeyFunc {
	return func(f *File) string {
		key := k(f)
		return key[:len(key)-len(filepath.Ext(key))] + ext
	}
}

// Newer drops files whose output dest/key(f) was modified at or after the
// source. A missing output never drops the file.
func Newer(dest string, key KeyFunc) Stage {
	return func(_ context.Context, f *File) error {
		info, err := os.Stat(filepath.Join(dest, key(f)))
		if err != nil {
			return nil
		}
		if f.ModTime.After(info.ModTime()) {
			return nil
		}
		return ErrUpToDate
	}
}

// Flatten drops the directory part of the output path.
func Flatten() Stage {
	return func(_ context.Context, f *File) error {
		f.Relative = filepath.Base(f.Relative)
		return nil
	}
}

// When applies s only when cond is set.
func When(cond bool, s Stage) Stage {
	if cond {
		return s
	}
	return func(context.Context, *File) error { return nil }
}

// Transform rewrites file contents.
func Transform(fn func(ctx context.Context, f *File, contents []byte) ([]byte, error)) Stage {
	return func(ctx context.Context, f *File) error {
		out, err := fn(ctx, f, f.Contents)
		if err != nil {
			return err
		}
		f.Contents = out
		return nil
	}
}
