package dev

import (
	"context"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ChangeKind classifies a detected file change.
type ChangeKind int

const (
	ChangeGo ChangeKind = iota
	ChangeCSS
	ChangeHTML
	ChangeAsset
)

// Change is one observed filesystem event.
type Change struct {
	Path string
	Kind ChangeKind
}

// WatcherConfig controls what gets watched and how often.
type WatcherConfig struct {
	// Paths are the files or directories to watch.
	Paths []string

	// Ignore patterns to skip. Plain names match any path segment,
	// globs match the base name, patterns with "/" match the full path.
	Ignore []string

	// Interval is the polling interval.
	Interval time.Duration
}

// DefaultIgnore applies when WatcherConfig.Ignore is empty.
var DefaultIgnore = []string{
	"*_test.go",
	".git",
	"node_modules",
	"dist",
	"*.tmp",
	"*.swp",
	"*~",
}

// stamp records the last observed state of a watched file.
type stamp struct {
	modTime time.Time
	size    int64
}

// Watcher monitors files for changes by polling modification times.
type Watcher struct {
	config   WatcherConfig
	onChange func(Change)

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	stamps  map[string]stamp
}

// NewWatcher builds a polling watcher over cfg.Paths.
func NewWatcher(cfg WatcherConfig) *Watcher {
	if cfg.Interval == 0 {
		cfg.Interval = 100 * time.Millisecond
	}
	if len(cfg.Ignore) == 0 {
		cfg.Ignore = DefaultIgnore
	}

	return &Watcher{
		config: cfg,
		stamps: make(map[string]stamp),
	}
}

// OnChange registers the function invoked for each reported change.
func (w *Watcher) OnChange(fn func(Change)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start begins watching for file changes. It blocks until the context is
// cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.mu.Unlock()

	// Baseline scan, nothing is reported yet.
	w.scan(false)

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			return nil
		case <-ticker.C:
			w.scan(true)
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		close(w.stopCh)
		w.running = false
	}
}

// IsRunning reports whether Start has been called and not yet stopped.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// scan walks the watch paths and records file states. When report is true,
// new and modified files are emitted through the OnChange callback, one
// change per kind per scan.
func (w *Watcher) scan(report bool) {
	w.mu.Lock()
	callback := w.onChange
	w.mu.Unlock()

	seen := make(map[string]struct{})
	var changes []Change

	for _, root := range w.config.Paths {
		filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				if p != root && w.ignored(p) {
					return filepath.SkipDir
				}
				return nil
			}
			if w.ignored(p) {
				return nil
			}

			info, err := d.Info()
			if err != nil {
				return nil
			}
			seen[p] = struct{}{}

			cur := stamp{modTime: info.ModTime(), size: info.Size()}

			w.mu.Lock()
			prev, known := w.stamps[p]
			w.stamps[p] = cur
			w.mu.Unlock()

			if !known || cur != prev {
				changes = append(changes, Change{Path: p, Kind: classify(p)})
			}
			return nil
		})
	}

	// Deleted files are changes too.
	w.mu.Lock()
	for p := range w.stamps {
		if _, ok := seen[p]; !ok {
			delete(w.stamps, p)
			changes = append(changes, Change{Path: p, Kind: classify(p)})
		}
	}
	w.mu.Unlock()

	if !report || callback == nil {
		return
	}

	reported := make(map[ChangeKind]bool)
	for _, c := range changes {
		if !reported[c.Kind] {
			reported[c.Kind] = true
			callback(c)
		}
	}
}

// ignored checks a path against the ignore patterns.
func (w *Watcher) ignored(fullPath string) bool {
	base := filepath.Base(fullPath)
	slashed := filepath.ToSlash(fullPath)

	for _, raw := range w.config.Ignore {
		pattern := strings.TrimSpace(raw)
		if pattern == "" {
			continue
		}

		if strings.Contains(pattern, "/") {
			if ok, _ := path.Match(filepath.ToSlash(pattern), slashed); ok {
				return true
			}
			continue
		}

		if strings.ContainsAny(pattern, "*?[") {
			if ok, _ := filepath.Match(pattern, base); ok {
				return true
			}
			continue
		}

		if hasSegment(slashed, pattern) {
			return true
		}
	}

	return false
}

// hasSegment reports whether any path segment equals name exactly.
func hasSegment(slashed, name string) bool {
	for _, part := range strings.Split(slashed, "/") {
		if part == name {
			return true
		}
	}
	return false
}

// classify determines the change kind from the file extension.
func classify(path string) ChangeKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return ChangeGo
	case ".css", ".scss", ".sass", ".less":
		return ChangeCSS
	case ".html", ".htm":
		return ChangeHTML
	default:
		return ChangeAsset
	}
}
