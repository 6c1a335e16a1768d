package config

import (
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// SettingsWatcher watches ~/.ollamatray/ for settings.yaml changes so the
// tray daemon can hot-reload the poll interval without a restart.
type SettingsWatcher struct {
	fsWatcher  *fsnotify.Watcher
	eventsChan chan struct{}
	done       chan struct{}

	debounceMu sync.Mutex
	debounce   *time.Timer
}

// WatchSettings creates and starts a settings watcher.
func WatchSettings() (*SettingsWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	globalDir, err := GlobalDir()
	if err != nil {
		_ = fsWatcher.Close()
		return nil, err
	}
	if err := fsWatcher.Add(globalDir); err != nil {
		_ = fsWatcher.Close()
		return nil, err
	}

	w := &SettingsWatcher{
		fsWatcher:  fsWatcher,
		eventsChan: make(chan struct{}, 1),
		done:       make(chan struct{}),
	}

	go w.processEvents()

	return w, nil
}

// Events returns the channel that fires after settings.yaml changes.
func (w *SettingsWatcher) Events() <-chan struct{} {
	return w.eventsChan
}

// Stop stops the watcher.
func (w *SettingsWatcher) Stop() {
	close(w.done)
	_ = w.fsWatcher.Close()
}

// processEvents filters file system events down to settings.yaml changes.
func (w *SettingsWatcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Printf("[watcher] error: %v", err)
		}
	}
}

// handleEvent processes a single file system event.
func (w *SettingsWatcher) handleEvent(event fsnotify.Event) {
	// Accept write, create, and rename events. Rename matters: atomic
	// writes (write tmp → rename to target) produce Rename events on the
	// target file, the standard pattern used by editors.
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}
	if filepath.Base(event.Name) != SettingsFileName {
		return
	}

	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(100*time.Millisecond, func() {
		select {
		case w.eventsChan <- struct{}{}:
		default:
			// A reload is already pending
		}
	})
}
