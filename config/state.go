package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"more-shortcuts/log"

	"github.com/gofrs/flock"
)

const (
	StateFileName = "state.json"
)

const (
	// DefaultLockTimeout is the default timeout for acquiring locks
	DefaultLockTimeout = 5 * time.Second
	// LockFileName is the name of the lock file
	LockFileName = "state.lock"
)

// ValueStore persists named string values, one per installation.
type ValueStore interface {
	// Get returns the stored value and whether it exists
	Get(key string) (string, bool)
	// Set stores a value, replacing any previous one
	Set(key, value string) error
	// Delete removes a value. Deleting a missing key is not an error.
	Delete(key string) error
}

// State is the on-disk store of named values. Every mutation re-reads the
// file under an exclusive lock so values written by other processes survive.
type State struct {
	// Values maps setting names to their serialized value
	Values map[string]string `json:"values"`

	dir         string
	mu          sync.Mutex
	lockFile    *flock.Flock
	lockTimeout time.Duration
}

// NewState creates a state rooted at dir without touching the disk.
func NewState(dir string) *State {
	return &State{
		Values:      make(map[string]string),
		dir:         dir,
		lockFile:    flock.New(filepath.Join(dir, LockFileName)),
		lockTimeout: DefaultLockTimeout,
	}
}

// DefaultState returns an empty state in the configuration directory
func DefaultState() *State {
	configDir, err := GetConfigDir()
	if err != nil {
		log.ErrorLog.Printf("failed to get config directory: %v", err)
		// Return a minimal state without locking if we can't get the config dir
		return &State{Values: make(map[string]string)}
	}
	return NewState(configDir)
}

// LoadState loads the state from disk with locking. If it cannot be done, we return the default state.
func LoadState() *State {
	state := DefaultState()
	if err := state.RefreshState(); err != nil {
		log.WarningLog.Printf("failed to load state from disk: %v", err)
	}
	return state
}

// LoadStateFrom loads the state rooted at dir.
func LoadStateFrom(dir string) *State {
	state := NewState(dir)
	if err := state.RefreshState(); err != nil {
		log.WarningLog.Printf("failed to load state from disk: %v", err)
	}
	return state
}

// Path returns the state file path, empty if the state has no directory.
func (s *State) Path() string {
	if s.dir == "" {
		return ""
	}
	return filepath.Join(s.dir, StateFileName)
}

// Dir returns the directory holding the state file.
func (s *State) Dir() string {
	return s.dir
}

// RefreshState reloads state from disk to pick up changes made by other processes
func (s *State) RefreshState() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dir == "" {
		return nil
	}

	unlock, err := s.acquire(false)
	if err != nil {
		return err
	}
	defer unlock()

	values, err := s.readValues()
	if err != nil {
		return err
	}
	s.Values = values
	return nil
}

// Get returns the named value after refreshing from disk.
func (s *State) Get(key string) (string, bool) {
	if err := s.RefreshState(); err != nil {
		log.WarningLog.Printf("failed to refresh state: %v", err)
		// Continue with current state
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.Values[key]
	return value, ok
}

// Set stores the named value and writes the state to disk.
func (s *State) Set(key, value string) error {
	return s.update(func(values map[string]string) {
		values[key] = value
	})
}

// Delete removes the named value and writes the state to disk.
func (s *State) Delete(key string) error {
	return s.update(func(values map[string]string) {
		delete(values, key)
	})
}

// update applies fn to the freshest on-disk values under an exclusive lock
// and writes the result back.
func (s *State) update(fn func(values map[string]string)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dir == "" {
		fn(s.Values)
		return fmt.Errorf("state has no directory, change kept in memory only")
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	unlock, err := s.acquire(true)
	if err != nil {
		return err
	}
	defer unlock()

	values, err := s.readValues()
	if err != nil {
		log.WarningLog.Printf("discarding unreadable state file: %v", err)
		values = make(map[string]string)
	}
	fn(values)

	if err := s.writeValues(values); err != nil {
		return err
	}
	s.Values = values
	return nil
}

// acquire takes the file lock, shared for reads and exclusive for writes.
func (s *State) acquire(exclusive bool) (func(), error) {
	if s.lockFile == nil {
		log.WarningLog.Printf("lock file not initialized, accessing state without locking")
		return func() {}, nil
	}
	// Locking a file inside a missing directory fails; nothing to guard yet.
	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		return func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.lockTimeout)
	defer cancel()

	var locked bool
	var err error
	if exclusive {
		locked, err = s.lockFile.TryLockContext(ctx, 100*time.Millisecond)
	} else {
		locked, err = s.lockFile.TryRLockContext(ctx, 100*time.Millisecond)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("could not acquire lock within timeout")
	}
	return func() {
		if err := s.lockFile.Unlock(); err != nil {
			log.WarningLog.Printf("failed to release state lock: %v", err)
		}
	}, nil
}

func (s *State) readValues() (map[string]string, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist yet - nothing stored
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var onDisk struct {
		Values map[string]string `json:"values"`
	}
	if err := json.Unmarshal(data, &onDisk); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}
	if onDisk.Values == nil {
		onDisk.Values = make(map[string]string)
	}
	return onDisk.Values, nil
}

// writeValues writes to a temporary file and renames it over the state file
func (s *State) writeValues(values map[string]string) error {
	statePath := s.Path()
	data, err := json.MarshalIndent(struct {
		Values map[string]string `json:"values"`
	}{values}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	tmpPath := statePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary state file: %w", err)
	}

	if err := os.Rename(tmpPath, statePath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to atomically update state file: %w", err)
	}

	return nil
}

// Close releases any locks held by this state
func (s *State) Close() error {
	if s.lockFile != nil {
		return s.lockFile.Unlock()
	}
	return nil
}
