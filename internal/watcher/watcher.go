// Package watcher provides file watching and automatic revalidation for vaults.
//
// It backs `vaultlint watch`: changed Markdown files are revalidated after a
// debounce delay and the results handed to a callback.
package watcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vaultlint/vaultlint/internal/check"
	"github.com/vaultlint/vaultlint/internal/settings"
)

// Watcher monitors a vault directory for changes and revalidates files.
type Watcher struct {
	vaultPath string
	settings  *settings.Settings

	debounceDelay time.Duration

	fsWatcher *fsnotify.Watcher
	pending   map[string]time.Time
	mu        sync.Mutex

	onValidate func(relPath string, issues *check.Issues)
}

// Config holds configuration options for the Watcher.
type Config struct {
	VaultPath     string
	Settings      *settings.Settings
	DebounceDelay time.Duration // Default: 100ms

	// OnValidate receives the vault-relative path and the issues found each
	// time a changed file is revalidated.
	OnValidate func(relPath string, issues *check.Issues)
}

// New creates a new Watcher with the given configuration.
func New(cfg Config) (*Watcher, error) {
	if cfg.VaultPath == "" {
		return nil, fmt.Errorf("vault path is required")
	}
	if cfg.Settings == nil {
		return nil, fmt.Errorf("settings are required")
	}

	debounce := cfg.DebounceDelay
	if debounce == 0 {
		debounce = 100 * time.Millisecond
	}

	return &Watcher{
		vaultPath:     cfg.VaultPath,
		settings:      cfg.Settings,
		debounceDelay: debounce,
		pending:       make(map[string]time.Time),
		onValidate:    cfg.OnValidate,
	}, nil
}

// Start begins watching the vault for file changes.
// It blocks until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	var err error
	w.fsWatcher, err = fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer w.fsWatcher.Close()

	// Add vault directory and subdirectories
	if err := w.addWatchRecursive(w.vaultPath); err != nil {
		return fmt.Errorf("failed to watch vault: %w", err)
	}

	slog.Debug("watching vault", "path", w.vaultPath)

	// Start debounce processor
	go w.processDebounced(ctx)

	// Event loop
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			slog.Debug("watcher error", "err", err)
		}
	}
}

// ValidateFile revalidates a single file and returns the issues found.
// This can be called directly without starting the watcher. A nil result
// means the file was skipped (not markdown, excluded, or gone).
func (w *Watcher) ValidateFile(path string) *check.Issues {
	if !filepath.IsAbs(path) {
		path = filepath.Join(w.vaultPath, path)
	}

	if !strings.HasSuffix(path, ".md") {
		return nil
	}
	if w.shouldIgnore(path) {
		return nil
	}

	// The file may be gone by the time the debounce fires.
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	rel, err := filepath.Rel(w.vaultPath, path)
	if err != nil {
		return nil
	}
	relSlash := filepath.ToSlash(rel)

	issues := check.NewIssues()
	detector := check.NewDetector(w.vaultPath, w.settings, issues)
	detector.ErrWriter = io.Discard
	detector.ValidateFile(relSlash)
	return issues
}

// handleEvent processes a single filesystem event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	// Skip non-markdown files
	if !strings.HasSuffix(path, ".md") {
		// But watch new directories
		if event.Op&fsnotify.Create != 0 {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				w.addWatchRecursive(path)
			}
		}
		return
	}

	// Skip ignored paths
	if w.shouldIgnore(path) {
		return
	}

	slog.Debug("event", "op", event.Op.String(), "path", path)

	if event.Op&fsnotify.Write != 0 || event.Op&fsnotify.Create != 0 {
		w.scheduleValidate(path)
	}
}

// scheduleValidate adds a file to the pending queue with debouncing.
func (w *Watcher) scheduleValidate(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[path] = time.Now()
}

// processDebounced processes pending validation requests after debounce delay.
func (w *Watcher) processDebounced(ctx context.Context) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.processPending()
		}
	}
}

// processPending checks for files ready to validate (past debounce delay).
func (w *Watcher) processPending() {
	w.mu.Lock()
	now := time.Now()
	ready := make([]string, 0)

	for path, scheduledAt := range w.pending {
		if now.Sub(scheduledAt) >= w.debounceDelay {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range ready {
		issues := w.ValidateFile(path)
		if issues == nil {
			continue
		}
		rel, err := filepath.Rel(w.vaultPath, path)
		if err != nil {
			continue
		}
		if w.onValidate != nil {
			w.onValidate(filepath.ToSlash(rel), issues)
		}
	}
}

// addWatchRecursive adds a directory and all subdirectories to the watcher.
func (w *Watcher) addWatchRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if info.IsDir() {
			if w.shouldIgnoreDir(path) {
				return filepath.SkipDir
			}
			if err := w.fsWatcher.Add(path); err != nil {
				slog.Debug("failed to watch directory", "path", path, "err", err)
			}
		}
		return nil
	})
}

// shouldIgnore returns true if the path should be ignored.
func (w *Watcher) shouldIgnore(path string) bool {
	rel, err := filepath.Rel(w.vaultPath, path)
	if err != nil {
		return false
	}

	parts := strings.Split(rel, string(filepath.Separator))
	for _, part := range parts {
		if ignoredDir(part) {
			return true
		}
	}
	return w.settings.ShouldExclude(filepath.ToSlash(rel))
}

// shouldIgnoreDir returns true if the directory should not be watched.
func (w *Watcher) shouldIgnoreDir(path string) bool {
	return ignoredDir(filepath.Base(path))
}

// ignoredDir mirrors the scanner's skip list.
func ignoredDir(name string) bool {
	switch name {
	case settings.StateDir, ".obsidian", ".git", ".trash":
		return true
	}
	return false
}
