package autosync

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"edsync/internal/paths"
	"edsync/internal/reader"
	"edsync/pkg/logging"
)

const subsystem = "AutoSync"

// WatcherConfig configures a Watcher.
type WatcherConfig struct {
	// UserDataDir is the editor directory to watch.
	UserDataDir string
	// Delay is the debounce delay. Zero means DefaultDelay.
	Delay time.Duration
	// Push runs after changes settle.
	Push func(ctx context.Context) error
	// OnReady, if set, is called once the watches are in place.
	OnReady func()
}

// Watcher watches the default profile's settings, keybindings and snippets
// and pushes after each burst of changes.
type Watcher struct {
	config WatcherConfig
	layout paths.Layout
}

// NewWatcher creates a Watcher.
func NewWatcher(config WatcherConfig) *Watcher {
	return &Watcher{config: config, layout: paths.Layout{UserDataDir: config.UserDataDir}}
}

// Run watches until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	if w.config.Push == nil {
		return errors.New("autosync: no push function configured")
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsWatcher.Close()

	if err := fsWatcher.Add(w.layout.UserDataDir); err != nil {
		return err
	}
	w.watchSnippets(fsWatcher)
	if w.config.OnReady != nil {
		w.config.OnReady()
	}

	debouncer := NewDebouncer(w.config.Delay, func() {
		logging.Info(subsystem, "Changes settled, pushing")
		if err := w.config.Push(ctx); err != nil {
			logging.Error(subsystem, err, "Auto-sync push failed")
		}
	})
	defer debouncer.Stop()

	logging.Info(subsystem, "Watching %s", w.layout.UserDataDir)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}
			if event.Name == w.layout.Snippets() && event.Op&fsnotify.Create != 0 {
				w.watchSnippets(fsWatcher)
			}
			if w.isRelevant(event) {
				logging.Debug(subsystem, "Change detected: %s", event)
				debouncer.Trigger()
			}

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			logging.Error(subsystem, err, "fsnotify error")
		}
	}
}

func (w *Watcher) watchSnippets(fsWatcher *fsnotify.Watcher) {
	dir := w.layout.Snippets()
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return
	}
	if err := fsWatcher.Add(dir); err != nil {
		logging.Warn(subsystem, "Failed to watch %s: %v", dir, err)
	}
}

func (w *Watcher) isRelevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	switch {
	case event.Name == w.layout.Settings(), event.Name == w.layout.Keybindings():
		return true
	case filepath.Dir(event.Name) == w.layout.Snippets():
		return reader.IsSnippetFile(filepath.Base(event.Name))
	default:
		return false
	}
}
