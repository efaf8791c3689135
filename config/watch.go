package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"more-shortcuts/log"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to the state file made by other processes.
// Changes is buffered with capacity one; bursts of file events collapse into
// a single pending notification.
type Watcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	fileName string
	changes  chan struct{}
}

// NewWatcher watches the directory holding the state file. The directory is
// watched rather than the file so atomic renames are observed.
func NewWatcher(state *State) (*Watcher, error) {
	dir := state.Dir()
	if dir == "" {
		return nil, fmt.Errorf("state has no directory to watch")
	}

	// Make sure the config directory exists before watching it
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to add config directory to watcher: %w", err)
	}

	log.InfoLog.Printf("watching config directory for changes: %s", dir)
	return &Watcher{
		watcher:  watcher,
		dir:      dir,
		fileName: StateFileName,
		changes:  make(chan struct{}, 1),
	}, nil
}

// Changes receives a value whenever the state file was written or replaced.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Run forwards relevant file events until ctx is done or the watcher closes.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			select {
			case w.changes <- struct{}{}:
			default:
				// A notification is already pending
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.ErrorLog.Printf("watcher error: %v", err)

		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Base(event.Name) != w.fileName {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
