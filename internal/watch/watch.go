// Package watch reruns build tasks when their sources change.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	ferrors "git.home.luguber.info/inful/elementbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/elementbuild/internal/logfields"
	"git.home.luguber.info/inful/elementbuild/internal/runner"
)

// DefaultDebounce is how long a burst of events must stay quiet before a rebuild.
const DefaultDebounce = 300 * time.Millisecond

// Target is a task and the globs its inputs come from. Events below Dest
// never trigger a rebuild.
type Target struct {
	Name     string
	Patterns []string
	Dest     string
}

// Runner runs tasks by name.
type Runner interface {
	Run(ctx context.Context, names ...string) (*runner.Report, error)
	Dependents(names ...string) []string
}

type root struct {
	dir  string
	task string
}

// Watcher maps filesystem events to task reruns.
type Watcher struct {
	run      Runner
	roots    []root
	ignore   []string
	debounce time.Duration
	logger   *slog.Logger
	onReport func(*runner.Report)
}

// New creates a watcher for targets. Relative patterns are resolved
// against the working directory.
func New(r Runner, targets []Target) (*Watcher, error) {
	w := &Watcher{run: r, debounce: DefaultDebounce, logger: slog.Default()}
	for _, t := range targets {
		for _, p := range t.Patterns {
			if strings.HasPrefix(p, "!") {
				continue
			}
			base, _ := doublestar.SplitPattern(filepath.ToSlash(p))
			dir, err := filepath.Abs(filepath.FromSlash(base))
			if err != nil {
				return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to resolve watch root").
					WithContext("pattern", p).
					Build()
			}
			w.roots = append(w.roots, root{dir: dir, task: t.Name})
		}
		if t.Dest != "" {
			dest, err := filepath.Abs(t.Dest)
			if err == nil {
				w.ignore = append(w.ignore, dest)
			}
		}
	}
	return w, nil
}

// WithDebounce sets the quiet period.
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	if d > 0 {
		w.debounce = d
	}
	return w
}

// WithLogger sets a custom logger.
func (w *Watcher) WithLogger(logger *slog.Logger) *Watcher {
	w.logger = logger
	return w
}

// OnReport registers a callback receiving every rebuild report.
func (w *Watcher) OnReport(fn func(*runner.Report)) *Watcher {
	w.onReport = fn
	return w
}

// Roots returns the distinct directories to watch, sorted.
func (w *Watcher) Roots() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range w.roots {
		if !seen[r.dir] {
			seen[r.dir] = true
			out = append(out, r.dir)
		}
	}
	sort.Strings(out)
	return out
}

// Affected returns the sorted tasks whose source roots contain path.
func (w *Watcher) Affected(path string) []string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil
	}
	for _, d := range w.ignore {
		if within(abs, d) {
			return nil
		}
	}
	seen := make(map[string]bool)
	var out []string
	for _, r := range w.roots {
		if within(abs, r.dir) && !seen[r.task] {
			seen[r.task] = true
			out = append(out, r.task)
		}
	}
	sort.Strings(out)
	return out
}

func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// Watch blocks until ctx is done, rebuilding the affected tasks and their
// dependents after every burst of changes.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to create file watcher").Build()
	}
	defer func() { _ = fw.Close() }()

	for _, dir := range w.Roots() {
		if _, err := os.Stat(dir); err != nil {
			w.logger.Debug("Watch root missing", logfields.Path(dir))
			continue
		}
		w.addDirsRecursive(fw, dir)
	}
	w.logger.Info("Watching for changes", logfields.Count(len(fw.WatchList())))

	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if shouldIgnoreEvent(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					w.addDirsRecursive(fw, ev.Name)
				}
			}
			affected := w.Affected(ev.Name)
			if len(affected) == 0 {
				continue
			}
			w.logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			for _, name := range affected {
				pending[name] = true
			}
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", logfields.Error(err))
		case <-timer.C:
			w.rebuild(ctx, pending)
			clear(pending)
		}
	}
}

func (w *Watcher) rebuild(ctx context.Context, pending map[string]bool) {
	names := make([]string, 0, len(pending))
	for name := range pending {
		names = append(names, name)
	}
	tasks := w.run.Dependents(names...)
	w.logger.Info("Rebuilding", slog.Any("tasks", tasks))

	report, err := w.run.Run(ctx, tasks...)
	if err != nil {
		w.logger.Error("Rebuild failed", logfields.Error(err))
		return
	}
	w.logger.Info("Rebuild finished", slog.String("summary", report.Summary()))
	if w.onReport != nil {
		w.onReport(report)
	}
}

func (w *Watcher) addDirsRecursive(fw *fsnotify.Watcher, dir string) {
	_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := fw.Add(path); err != nil {
				w.logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent reports editor scratch files and hidden files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	}
	return false
}
