// Package watcher triggers dataset reloads when files behind the configured
// dataset patterns change.
package watcher

import (
	"context"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses editor save bursts into one reload
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches the files matched by a set of dataset patterns
type Watcher struct {
	patterns []string
	onChange func()
	debounce time.Duration
}

// New creates a watcher. Patterns are file paths or doublestar globs; a new
// file that starts matching a glob counts as a change.
func New(patterns []string, onChange func()) *Watcher {
	abs := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if a, err := filepath.Abs(p); err == nil {
			p = a
		}
		abs = append(abs, filepath.ToSlash(p))
	}
	return &Watcher{
		patterns: abs,
		onChange: onChange,
		debounce: DefaultDebounce,
	}
}

// WithDebounce sets the debounce duration
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	if d > 0 {
		w.debounce = d
	}
	return w
}

// Matches reports whether path is covered by one of the patterns
func (w *Watcher) Matches(path string) bool {
	path = filepath.ToSlash(path)
	for _, p := range w.patterns {
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
	}
	return false
}

// Dirs returns the directories to subscribe to. Directories rather than files
// are watched so that editors replacing a file are seen. A "**" pattern adds
// every existing subdirectory of its base.
func (w *Watcher) Dirs() []string {
	seen := make(map[string]bool)
	var dirs []string
	add := func(d string) {
		d = filepath.Clean(filepath.FromSlash(d))
		if !seen[d] {
			seen[d] = true
			dirs = append(dirs, d)
		}
	}

	for _, p := range w.patterns {
		base, rest := doublestar.SplitPattern(p)
		if rest == "" || !strings.ContainsAny(rest, "*?[{") {
			add(filepath.Dir(p))
			continue
		}
		add(base)
		if !strings.Contains(rest, "**") {
			// single-level globs may still span directories, e.g. "*/x.yaml"
			for _, d := range globDirs(base, rest) {
				add(d)
			}
			continue
		}
		_ = filepath.WalkDir(filepath.FromSlash(base), func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				add(path)
			}
			return nil
		})
	}
	return dirs
}

// globDirs returns the existing directories matched by the directory part of
// a pattern relative to base
func globDirs(base, rest string) []string {
	dirPart := filepath.ToSlash(filepath.Dir(filepath.FromSlash(rest)))
	if dirPart == "." {
		return nil
	}
	matches, err := doublestar.Glob(os.DirFS(filepath.FromSlash(base)), dirPart)
	if err != nil {
		return nil
	}
	var out []string
	for _, m := range matches {
		if d := base + "/" + m; isDir(d) {
			out = append(out, d)
		}
	}
	return out
}

func isDir(path string) bool {
	info, err := os.Stat(filepath.FromSlash(path))
	return err == nil && info.IsDir()
}

// Watch starts watching for changes.
// It blocks until the context is cancelled or an error occurs
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	watched := 0
	for _, dir := range w.Dirs() {
		if err := fw.Add(dir); err != nil {
			log.Printf("Failed to watch directory %s: %v", dir, err)
			continue
		}
		watched++
	}
	log.Printf("Watching %d directories for %v", watched, w.patterns)

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	stop := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}

	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}

			if event.Op.Has(fsnotify.Create) {
				// new directories under a "**" base start being watched
				if isDir(event.Name) && w.coversDir(event.Name) {
					if err := fw.Add(event.Name); err == nil {
						log.Printf("Watching new directory %s", event.Name)
					}
					continue
				}
			}

			if !w.Matches(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			name := event.Name
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				if ctx.Err() != nil {
					return
				}
				log.Printf("Dataset changed: %s", name)
				w.onChange()
			})
			mu.Unlock()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Printf("Watcher error: %v", err)

		case <-ctx.Done():
			stop()
			return ctx.Err()
		}
	}
}

// coversDir reports whether dir lies under the base of a "**" pattern
func (w *Watcher) coversDir(dir string) bool {
	dir = filepath.ToSlash(dir)
	for _, p := range w.patterns {
		base, rest := doublestar.SplitPattern(p)
		if strings.Contains(rest, "**") && (dir == base || strings.HasPrefix(dir, base+"/")) {
			return true
		}
	}
	return false
}
