// Package watch re-analyzes source files as they change on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yaklabco/ifdeflens/internal/logging"
	"github.com/yaklabco/ifdeflens/pkg/config"
	"github.com/yaklabco/ifdeflens/pkg/directive"
	"github.com/yaklabco/ifdeflens/pkg/filetype"
	"github.com/yaklabco/ifdeflens/pkg/fsutil"
	"github.com/yaklabco/ifdeflens/pkg/runner"
)

// Event is delivered to the Handler for every analysis the watcher makes.
type Event struct {
	// Outcome is the analysis of the file. Outcome.Path is always set.
	Outcome runner.FileOutcome

	// Initial is true for the scan made when watching starts.
	Initial bool

	// Removed is true when the file was deleted or renamed away.
	// Outcome carries only the path.
	Removed bool
}

// Handler receives events. Calls are serialized.
type Handler func(ctx context.Context, event Event)

// Options controls what is watched and how changes are coalesced.
type Options struct {
	// Scan selects the files and directories to watch.
	Scan runner.Options

	// Debounce is the quiet period after the last change to a file before
	// it is re-analyzed. Zero means config.DefaultDebounce.
	Debounce time.Duration

	// Immediate analyzes the first change to a quiet file at once; only
	// changes arriving while a timer is pending are coalesced.
	Immediate bool
}

// Watcher watches paths and reports re-analyzed files to a Handler.
type Watcher struct {
	opts    Options
	runner  *runner.Runner
	handler Handler

	fired chan string

	mu    sync.Mutex
	infos map[string]*fsutil.FileInfo
}

// New creates a Watcher. The runner's cache is shared with the watcher, so
// unchanged content is not parsed again.
func New(r *runner.Runner, opts Options, handler Handler) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = config.DefaultDebounce
	}
	if opts.Scan.Resolver == nil {
		opts.Scan.Resolver = filetype.Default()
	}
	if opts.Scan.WorkingDir == "" {
		if wd, err := os.Getwd(); err == nil {
			opts.Scan.WorkingDir = wd
		}
	}
	return &Watcher{
		opts:    opts,
		runner:  r,
		handler: handler,
		fired:   make(chan string),
		infos:   make(map[string]*fsutil.FileInfo),
	}
}

// Run analyzes every matching file once, then reports changes until ctx
// is cancelled. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	logger := logging.FromContext(ctx)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	dirs, err := w.directories(ctx)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	logger.Debug("watching", logging.FieldPaths, len(dirs), logging.FieldDebounce, w.opts.Debounce)

	if err := w.initial(ctx); err != nil {
		return err
	}

	stop := make(chan struct{})
	defer close(stop)

	debouncer := NewDebouncer(w.opts.Debounce, func(path string) {
		select {
		case w.fired <- path:
		case <-stop:
		}
	})
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case path := <-w.fired:
			w.analyze(ctx, path)

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleFSEvent(ctx, fsw, debouncer, event)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				logger.Warn("file events were dropped; rescanning")
				if err := w.initial(ctx); err != nil {
					return err
				}
				continue
			}
			logger.Error("watch error", logging.FieldError, err)
		}
	}
}

func (w *Watcher) handleFSEvent(ctx context.Context, fsw *fsnotify.Watcher, debouncer *Debouncer, event fsnotify.Event) {
	path := event.Name
	logging.FromContext(ctx).Debug("file event",
		logging.FieldPath, path,
		logging.FieldEvent, event.Op.String(),
		logging.FieldPending, debouncer.Pending(),
	)

	if event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename) {
		debouncer.Cancel(path)
		if w.forget(path) {
			w.handler(ctx, Event{Outcome: runner.FileOutcome{Path: path}, Removed: true})
		}
		return
	}

	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
		return
	}

	if event.Op.Has(fsnotify.Create) && w.isWatchableDir(path) {
		if err := fsw.Add(path); err != nil {
			logging.FromContext(ctx).Warn("cannot watch new directory", logging.FieldPath, path, logging.FieldError, err)
		}
		return
	}

	// Timestamps can be too coarse to tell rewrites apart; the revision
	// check in analyze filters unchanged content.
	if !w.matches(path) {
		return
	}

	if debouncer.Trigger(path, w.opts.Immediate) {
		w.analyze(ctx, path)
	}
}

// initial analyzes every matching file and reports each outcome.
func (w *Watcher) initial(ctx context.Context) error {
	result, err := w.runner.Run(ctx, w.opts.Scan)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("initial scan: %w", err)
	}

	for _, outcome := range result.Files {
		w.remember(outcome.Path)
		w.handler(ctx, Event{Outcome: outcome, Initial: true})
	}
	return nil
}

// analyze re-reads path and reports it unless its content is unchanged.
func (w *Watcher) analyze(ctx context.Context, path string) {
	ctx = logging.WithPath(ctx, path)
	logger := logging.FromContext(ctx)

	families := w.resolve(path)
	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		if errors.Is(err, fsutil.ErrNotFound) {
			if w.forget(path) {
				w.handler(ctx, Event{Outcome: runner.FileOutcome{Path: path}, Removed: true})
			}
			return
		}
		w.handler(ctx, Event{Outcome: runner.FileOutcome{Path: path, Families: families, Error: err}})
		return
	}

	w.mu.Lock()
	w.infos[path] = info
	w.mu.Unlock()

	outcome := w.runner.AnalyzeContent(ctx, path, content, families)
	if outcome.Cached {
		logger.Debug("content unchanged")
		return
	}
	logger.Debug("re-analyzed",
		logging.FieldBlocks, len(outcome.Blocks),
		logging.FieldSize, info.Size,
	)
	w.handler(ctx, Event{Outcome: outcome})
}

func (w *Watcher) resolve(path string) directive.Families {
	return w.opts.Scan.Resolver.Resolve(path)
}

func (w *Watcher) remember(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.infos[path]; !ok {
		w.infos[path] = nil
	}
}

// forget drops path from the watcher and the cache. It reports whether
// the path was known.
func (w *Watcher) forget(path string) bool {
	w.mu.Lock()
	_, known := w.infos[path]
	delete(w.infos, path)
	w.mu.Unlock()

	w.runner.Cache.Remove(path)
	return known
}

func (w *Watcher) matches(path string) bool {
	if w.resolve(path) == 0 {
		return false
	}
	return !w.excluded(path)
}

func (w *Watcher) excluded(path string) bool {
	rel := path
	if wd := w.opts.Scan.WorkingDir; wd != "" {
		if r, err := filepath.Rel(wd, path); err == nil {
			rel = r
		}
	}
	return runner.Excluded(rel, w.opts.Scan.ExcludeGlobs)
}

func (w *Watcher) isWatchableDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}
	return !strings.HasPrefix(filepath.Base(path), ".") && !w.excluded(path)
}

// directories lists the directories to register with fsnotify: every
// non-hidden, non-excluded directory under the scan paths, and the parent
// of each file path.
func (w *Watcher) directories(ctx context.Context) ([]string, error) {
	workDir := w.opts.Scan.WorkingDir
	paths := w.opts.Scan.Paths
	if len(paths) == 0 {
		paths = []string{"."}
	}

	seen := make(map[string]struct{})
	var dirs []string
	add := func(dir string) {
		if _, ok := seen[dir]; !ok {
			seen[dir] = struct{}{}
			dirs = append(dirs, dir)
		}
	}

	for _, p := range paths {
		abs := p
		if !filepath.IsAbs(p) {
			abs = filepath.Join(workDir, p)
		}
		abs, err := filepath.Abs(abs)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}

		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			add(filepath.Dir(abs))
			continue
		}

		err = filepath.WalkDir(abs, func(path string, entry fs.DirEntry, walkErr error) error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if walkErr != nil {
				return nil //nolint:nilerr // unreadable directories are not watched
			}
			if !entry.IsDir() {
				return nil
			}
			if path != abs && (strings.HasPrefix(entry.Name(), ".") || w.excluded(path)) {
				return filepath.SkipDir
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", p, err)
		}
	}

	return dirs, nil
}
