package shortcut

import (
	"fmt"
	"strconv"
	"strings"

	"more-shortcuts/chord"
	"more-shortcuts/log"
	"more-shortcuts/widget"
)

// StoreKey is the name the shortcut list is persisted under.
const StoreKey = "shortcuts"

// Store holds named string values. config.State implements it.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// Registry owns the shortcut list. It is not safe for concurrent use; the
// host drives it from a single goroutine.
type Registry struct {
	store     Store
	shortcuts []*Shortcut
	// lastBlob is the blob most recently loaded or saved, used to skip
	// reloads triggered by our own writes.
	lastBlob string
}

// NewRegistry creates an empty registry backed by store. Call Load to read
// the persisted list.
func NewRegistry(store Store) *Registry {
	return &Registry{store: store}
}

// Load replaces the in-memory list with the persisted one. A missing, empty
// or malformed blob yields an empty registry.
func (r *Registry) Load() {
	r.shortcuts = nil
	r.lastBlob = ""
	if r.store == nil {
		return
	}

	blob, ok := r.store.Get(StoreKey)
	if !ok || strings.TrimSpace(blob) == "" {
		return
	}
	r.lastBlob = blob

	shortcuts, err := Decode(blob)
	if err != nil {
		log.WarningLog.Printf("could not load shortcuts, starting empty: %v", err)
		return
	}
	r.shortcuts = shortcuts
	log.InfoLog.Printf("loaded %d shortcuts", len(shortcuts))
}

// Reload reads the persisted blob again and loads it if it differs from the
// one this registry last loaded or saved. Returns whether the list changed.
func (r *Registry) Reload() bool {
	if r.store == nil {
		return false
	}
	blob, _ := r.store.Get(StoreKey)
	if blob == r.lastBlob {
		return false
	}
	r.Load()
	return true
}

// Save persists the list. An empty list removes the stored value.
func (r *Registry) Save() error {
	if r.store == nil {
		return nil
	}

	if len(r.shortcuts) == 0 {
		r.lastBlob = ""
		if err := r.store.Delete(StoreKey); err != nil {
			log.ErrorLog.Printf("failed to delete shortcuts: %v", err)
			return fmt.Errorf("failed to delete shortcuts: %w", err)
		}
		return nil
	}

	blob, err := Encode(r.shortcuts)
	if err != nil {
		log.ErrorLog.Printf("failed to encode shortcuts: %v", err)
		return err
	}
	if err := r.store.Set(StoreKey, blob); err != nil {
		log.ErrorLog.Printf("failed to save shortcuts: %v", err)
		return fmt.Errorf("failed to save shortcuts: %w", err)
	}
	r.lastBlob = blob
	return nil
}

// Add appends s under a unique name. Adding an instance already in the
// registry does nothing. Add does not persist.
func (r *Registry) Add(s *Shortcut) {
	if s == nil || r.contains(s) {
		return
	}
	s.Name = r.UniqueName(s.Name)
	r.shortcuts = append(r.shortcuts, s)
}

// Remove drops s from the registry. Removing an absent shortcut does nothing.
func (r *Registry) Remove(s *Shortcut) {
	for i, existing := range r.shortcuts {
		if existing == s {
			r.shortcuts = append(r.shortcuts[:i], r.shortcuts[i+1:]...)
			return
		}
	}
}

func (r *Registry) contains(s *Shortcut) bool {
	for _, existing := range r.shortcuts {
		if existing == s {
			return true
		}
	}
	return false
}

// Contains reports whether s is registered.
func (r *Registry) Contains(s *Shortcut) bool {
	return r.contains(s)
}

// FindByName returns the first shortcut with the given name.
func (r *Registry) FindByName(name string) *Shortcut {
	for _, s := range r.shortcuts {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// FindByWidget returns the shortcut created for the widget with this name
// and path. The path always has to match, whatever UsePath says.
func (r *Registry) FindByWidget(widgetName string, widgetPath []string) *Shortcut {
	joined := widget.JoinPath(widgetPath)
	for _, s := range r.shortcuts {
		if s.Component == widgetName && s.JoinedPath() == joined {
			return s
		}
	}
	return nil
}

// UniqueName returns base, or base followed by the smallest positive integer
// that no registered shortcut uses as its name.
func (r *Registry) UniqueName(base string) string {
	name := base
	for count := 1; r.FindByName(name) != nil; count++ {
		name = base + strconv.Itoa(count)
	}
	return name
}

// Shortcuts returns a snapshot of the list in registration order.
func (r *Registry) Shortcuts() []*Shortcut {
	out := make([]*Shortcut, len(r.shortcuts))
	copy(out, r.shortcuts)
	return out
}

// Len returns the number of registered shortcuts.
func (r *Registry) Len() int {
	return len(r.shortcuts)
}

// Conflicts returns the shortcuts other than target bound to c. A shortcut
// sharing target's name counts as target, so an editor's working copy does
// not conflict with the shortcut it was cloned from. Unbound chords never
// conflict.
func (r *Registry) Conflicts(target *Shortcut, c chord.Chord) []*Shortcut {
	if c == chord.None {
		return nil
	}
	var out []*Shortcut
	for _, s := range r.shortcuts {
		if s != target && s.Name != target.Name && s.InputKey == c {
			out = append(out, s)
		}
	}
	return out
}

// Rename gives s a new name, made unique unless it is unchanged.
func (r *Registry) Rename(s *Shortcut, name string) {
	if name == s.Name {
		return
	}
	s.Name = r.UniqueName(name)
}

// Commit applies the editor's working copy to target, registers target if
// needed and persists the list.
func (r *Registry) Commit(target, working *Shortcut) error {
	if target == nil || working == nil {
		return fmt.Errorf("nothing to commit")
	}
	if strings.TrimSpace(working.Name) == "" {
		return fmt.Errorf("shortcut name cannot be empty")
	}
	if err := CheckText("name", working.Name); err != nil {
		return err
	}

	r.Rename(target, working.Name)
	target.UsePath = working.UsePath
	target.OnlyVisible = working.OnlyVisible
	target.InputKey = working.InputKey

	r.Add(target)
	return r.Save()
}

// Clear removes every shortcut without persisting.
func (r *Registry) Clear() {
	r.shortcuts = nil
}
