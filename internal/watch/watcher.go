// SPDX-License-Identifier: MPL-2.0

// Package watch rebuilds a package when its inputs change.
//
// A Watcher tracks an explicit set of files (a definition and the payload
// sources it names) plus any files matching doublestar include globs under
// a root directory. Parent directories are registered with fsnotify so
// editors that save by rename are still seen. Events are debounced and the
// callback runs on the event loop, so it is never invoked concurrently
// with itself.
package watch

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"slices"
	"time"

	"github.com/winpkg/winpkg/internal/logging"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when Config.Debounce is not positive.
const DefaultDebounce = 300 * time.Millisecond

// ErrAlreadyRunning is returned by a second call to Run.
var ErrAlreadyRunning = errors.New("watch: Run called more than once")

// defaultIgnores match editor scratch files next to tracked inputs.
var defaultIgnores = []string{
	"*.swp",
	"*.swo",
	"*~",
	".#*",
	"4913",
}

type (
	// ChangeFunc is called with the tracked files that changed. It returns
	// the files to track from then on; a nil slice keeps the current set.
	ChangeFunc func(ctx context.Context, changed []string) ([]string, error)

	// Config holds the parameters for a Watcher.
	Config struct {
		// Files are the paths to track. Relative paths are made absolute.
		Files []string
		// Root anchors Include and Ignore patterns. Empty means the working
		// directory.
		Root string
		// Include are doublestar globs relative to Root, e.g. "assets/**/*.ico".
		// Matching files trigger OnChange like tracked files. Directories
		// created under a glob are picked up after the next callback.
		Include []string
		// Ignore are doublestar patterns matched against both the base name
		// and the Root-relative path, on top of the built-in editor
		// scratch patterns. They apply to tracked files too.
		Ignore   []string
		Debounce time.Duration
		OnChange ChangeFunc
	}

	// Watcher fires OnChange after tracked files change.
	Watcher struct {
		cfg      Config
		root     string
		fsw      *fsnotify.Watcher
		ignores  []string
		debounce time.Duration
		files    map[string]bool
		dirs     map[string]bool
		started  bool
	}
)

// New validates cfg and starts watching the directories of cfg.Files.
func New(cfg Config) (*Watcher, error) {
	for _, pat := range cfg.Ignore {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("watch: invalid ignore pattern %q", pat)
		}
	}
	for _, pat := range cfg.Include {
		if !doublestar.ValidatePattern(pat) || strings.HasPrefix(pat, "/") || filepath.IsAbs(pat) {
			return nil, fmt.Errorf("watch: invalid include pattern %q", pat)
		}
	}
	root, err := filepath.Abs(cmp.Or(cfg.Root, "."))
	if err != nil {
		return nil, fmt.Errorf("watch: resolve root %q: %w", cfg.Root, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		cfg:      cfg,
		root:     root,
		fsw:      fsw,
		ignores:  append(slices.Clone(defaultIgnores), cfg.Ignore...),
		debounce: debounce,
		files:    map[string]bool{},
		dirs:     map[string]bool{},
	}
	if err := w.track(cfg.Files); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Files returns the tracked paths, sorted.
func (w *Watcher) Files() []string {
	out := make([]string, 0, len(w.files))
	for f := range w.files {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// track replaces the tracked set and adjusts the directory watches.
func (w *Watcher) track(files []string) error {
	nextFiles := make(map[string]bool, len(files))
	nextDirs := map[string]bool{}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("watch: resolve %q: %w", f, err)
		}
		nextFiles[abs] = true
		nextDirs[filepath.Dir(abs)] = true
	}
	for _, dir := range w.includeDirs() {
		nextDirs[dir] = true
	}

	for dir := range nextDirs {
		if w.dirs[dir] {
			continue
		}
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("watch: add directory %q: %w", dir, err)
		}
	}
	for dir := range w.dirs {
		if !nextDirs[dir] {
			_ = w.fsw.Remove(dir)
		}
	}

	w.files = nextFiles
	w.dirs = nextDirs
	return nil
}

// Run processes events until ctx is done. It returns nil on cancellation
// and an error when the underlying watcher breaks.
func (w *Watcher) Run(ctx context.Context) error {
	if w.started {
		return ErrAlreadyRunning
	}
	w.started = true
	defer w.fsw.Close()

	logger := logging.FromContext(ctx)
	pending := map[string]bool{}

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: event channel closed")
			}
			if !w.relevant(evt) {
				continue
			}
			logger.Debug("input changed", "path", evt.Name, "op", evt.Op.String())
			pending[evt.Name] = true
			timer.Reset(w.debounce)

		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			clear(pending)
			slices.Sort(changed)
			if len(changed) == 0 || w.cfg.OnChange == nil {
				continue
			}

			next, err := w.cfg.OnChange(ctx, changed)
			if err != nil {
				logger.Warn("rebuild failed", "err", err)
			}
			if next != nil {
				if err := w.track(next); err != nil {
					logger.Warn("updating watched files", "err", err)
				}
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: error channel closed")
			}
			if isFatal(err) {
				return fmt.Errorf("watch: %w", err)
			}
			logger.Warn("watch error", "err", err)
		}
	}
}

// includeDirs returns the directories that must be watched for Include:
// each glob's static base plus the directory of every current match.
func (w *Watcher) includeDirs() []string {
	var dirs []string
	fsys := os.DirFS(w.root)
	for _, pat := range w.cfg.Include {
		base, _ := doublestar.SplitPattern(pat)
		if info, err := os.Stat(filepath.Join(w.root, filepath.FromSlash(base))); err == nil && info.IsDir() {
			dirs = append(dirs, filepath.Join(w.root, filepath.FromSlash(base)))
		}
		matches, err := doublestar.Glob(fsys, pat, doublestar.WithFilesOnly())
		if err != nil {
			continue
		}
		for _, m := range matches {
			dirs = append(dirs, filepath.Dir(filepath.Join(w.root, filepath.FromSlash(m))))
		}
	}
	return dirs
}

func (w *Watcher) relevant(evt fsnotify.Event) bool {
	if evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Write) {
		return false
	}
	rel, inRoot := w.relative(evt.Name)
	if w.ignored(filepath.Base(evt.Name), rel, inRoot) {
		return false
	}
	if w.files[evt.Name] {
		return true
	}
	if !inRoot {
		return false
	}
	for _, pat := range w.cfg.Include {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}
	return false
}

func (w *Watcher) ignored(base, rel string, inRoot bool) bool {
	for _, pat := range w.ignores {
		if ok, _ := doublestar.Match(pat, base); ok {
			return true
		}
		if inRoot {
			if ok, _ := doublestar.Match(pat, rel); ok {
				return true
			}
		}
	}
	return false
}

// relative returns name relative to the root in slash form, and whether
// name lies under the root at all.
func (w *Watcher) relative(name string) (string, bool) {
	rel, err := filepath.Rel(w.root, name)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	return rel, true
}

