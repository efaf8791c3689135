package shortcut

import (
	"strings"

	"more-shortcuts/chord"
	"more-shortcuts/widget"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Shortcut binds a chord to a named widget. Name is the durable identity;
// Component and Path identify the widget it fires.
type Shortcut struct {
	// Name is unique within a Registry and is what the user sees.
	Name string
	// Component is the name of the widget to activate.
	Component string
	// Path is the widget's resolved path at creation time, root to leaf.
	Path []string
	// InputKey is the packed chord. chord.None means unbound.
	InputKey chord.Chord
	// UsePath requires a live widget's path to equal Path when firing.
	UsePath bool
	// OnlyVisible requires the live widget to be visible when firing.
	OnlyVisible bool
}

// Clone returns a deep copy. The editor works on clones and commits them.
func (s *Shortcut) Clone() *Shortcut {
	c := *s
	if s.Path != nil {
		c.Path = append([]string(nil), s.Path...)
	}
	return &c
}

// JoinedPath is Path rendered with the path separator.
func (s *Shortcut) JoinedPath() string {
	return widget.JoinPath(s.Path)
}

// Binding is the human-readable chord.
func (s *Shortcut) Binding() string {
	return s.InputKey.String()
}

// MatchesWidget reports whether w is the widget this shortcut was created
// for: same name and same resolved path, regardless of UsePath.
func (s *Shortcut) MatchesWidget(w widget.Widget) bool {
	if w == nil || s.Component != w.Name() {
		return false
	}
	return s.JoinedPath() == widget.JoinPath(widget.ResolvePath(w))
}

var titleCaser = cases.Title(language.Und)

// FromWidget builds an unregistered shortcut for w. The name comes from the
// widget's caption (title-cased) or its name, made unique within reg. The
// addressing mode depends on which other widgets share w's name: a sibling
// duplicate selects UsePath, otherwise a duplicate anywhere in live selects
// OnlyVisible.
func FromWidget(w widget.Widget, reg *Registry, live widget.Query) *Shortcut {
	base := w.Name()
	if text := strings.TrimSpace(w.Text()); text != "" {
		base = titleCaser.String(strings.ToLower(text))
	}

	s := &Shortcut{
		Component: w.Name(),
		Path:      widget.ResolvePath(w),
	}
	if reg != nil {
		s.Name = reg.UniqueName(base)
	} else {
		s.Name = base
	}

	if widget.HasSiblingNamed(w) {
		s.UsePath = true
		return s
	}

	if live != nil {
		for _, other := range live.Widgets() {
			if other != w && other.Name() == w.Name() {
				s.OnlyVisible = true
				break
			}
		}
	}
	return s
}
