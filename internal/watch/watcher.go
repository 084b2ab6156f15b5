// Package watch turns file-system activity in the vault into change
// notifications for the panel.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Change kinds passed to Callback.
const (
	KindCreated = "created"
	KindUpdated = "updated"
	KindDeleted = "deleted"
)

// DefaultDebounce coalesces bursts such as an atomic temp-file rename.
const DefaultDebounce = 100 * time.Millisecond

// Callback receives a vault-relative, slash-separated path after changes
// to it have settled.
type Callback func(kind, path string)

// Options configure Watch.
type Options struct {
	// Ignore hides vault-relative paths (files and folders) from the watcher.
	Ignore func(rel string) bool
	// Debounce is the quiet period before pending changes are delivered.
	Debounce time.Duration
	Logger   *slog.Logger
}

// Watch starts an fsnotify watcher on the vault root and reports changes
// until ctx is cancelled. Directories created at runtime are added to the
// watch list. Changes are coalesced per path and delivered in path order.
func Watch(ctx context.Context, vaultRoot string, opts Options, cb Callback) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	ignored := func(rel string) bool {
		return opts.Ignore != nil && opts.Ignore(rel)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, vaultRoot, ignored); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", vaultRoot))

	pending := make(map[string]string)
	var flushTimer *time.Timer
	var flushCh <-chan time.Time

	schedule := func(kind, rel string) {
		// A create followed by writes is still a create.
		if prev, ok := pending[rel]; !ok || prev != KindCreated || kind == KindDeleted {
			pending[rel] = kind
		}
		if flushTimer == nil {
			flushTimer = time.NewTimer(debounce)
			flushCh = flushTimer.C
		} else {
			flushTimer.Reset(debounce)
		}
	}

	flush := func() {
		paths := make([]string, 0, len(pending))
		for p := range pending {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		for _, p := range paths {
			kind := pending[p]
			delete(pending, p)
			logger.Debug("watcher: changed", slog.String("path", p), slog.String("op", kind))
			if cb != nil {
				cb(kind, p)
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			if flushTimer != nil {
				flushTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-flushCh:
			flush()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			rel, relErr := filepath.Rel(vaultRoot, ev.Name)
			if relErr != nil || rel == "." {
				continue
			}
			rel = filepath.ToSlash(rel)
			if ignored(rel) {
				continue
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name, func(r string) bool {
						return ignored(filepath.ToSlash(filepath.Join(rel, r)))
					}); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", rel),
							slog.String("error", addErr.Error()))
					}
					// Files that landed before the watch was added.
					reportExisting(ev.Name, vaultRoot, ignored, schedule)
					continue
				}
			}

			switch {
			case ev.Op&fsnotify.Create != 0:
				schedule(KindCreated, rel)
			case ev.Op&fsnotify.Write != 0:
				schedule(KindUpdated, rel)
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				// fsnotify reports Rename on the old path; the new path
				// arrives as a separate Create.
				schedule(KindDeleted, rel)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// reportExisting schedules every file already present under dir.
func reportExisting(dir, vaultRoot string, ignored func(string) bool, schedule func(kind, rel string)) {
	_ = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(vaultRoot, p)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if !ignored(rel) {
			schedule(KindCreated, rel)
		}
		return nil
	})
}

// addDirsRecursive adds root and all its non-ignored subdirectories to the
// watcher. ignored receives paths relative to root.
func addDirsRecursive(w *fsnotify.Watcher, root string, ignored func(string) bool) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if rel, relErr := filepath.Rel(root, p); relErr == nil && rel != "." && ignored(filepath.ToSlash(rel)) {
			return filepath.SkipDir
		}
		return w.Add(p)
	})
}
