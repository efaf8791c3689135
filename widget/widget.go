// Package widget models the host's on-screen controls as far as shortcuts
// care about them: a name, a kind, visibility, enabled state and a position
// in the widget tree.
package widget

import (
	"strconv"
	"strings"
)

// Kind is the concrete type of a widget.
type Kind int

const (
	KindPanel Kind = iota
	KindLabel
	KindTextField
	KindButton
	KindMultiStateButton
	KindCheckBox
)

func (k Kind) String() string {
	switch k {
	case KindPanel:
		return "panel"
	case KindLabel:
		return "label"
	case KindTextField:
		return "text field"
	case KindButton:
		return "button"
	case KindMultiStateButton:
		return "multi-state button"
	case KindCheckBox:
		return "check box"
	}
	return "unknown"
}

// Activatable reports whether widgets of this kind can be triggered by a shortcut.
func (k Kind) Activatable() bool {
	return k == KindButton || k == KindMultiStateButton || k == KindCheckBox
}

// Widget is a live on-screen control.
type Widget interface {
	Name() string
	// Text is the caption shown to the user, empty for widgets without one.
	Text() string
	Kind() Kind
	// Visible reports effective visibility: the widget and all its ancestors are shown.
	Visible() bool
	Enabled() bool
	Parent() Widget
	Children() []Widget
}

// Activatable is implemented by widgets that can be clicked programmatically.
type Activatable interface {
	// Activate runs the full press, click, release sequence.
	Activate()
	// ActivateDisabled delivers the click a disabled widget receives, so the
	// host can give its usual rejection feedback.
	ActivateDisabled()
}

// Rooted is implemented by root widgets that know the other roots of their
// host. Roots without it are only compared with themselves.
type Rooted interface {
	RootSiblings() []Widget
}

// siblings returns w's parent's children, or the host roots for a root.
func siblings(w Widget) []Widget {
	if parent := w.Parent(); parent != nil {
		return parent.Children()
	}
	if r, ok := w.(Rooted); ok {
		return r.RootSiblings()
	}
	return nil
}

// Query enumerates every widget currently instantiated by the host.
type Query interface {
	Widgets() []Widget
}

// PathSeparator joins path segments for display and comparison.
const PathSeparator = ">"

// ResolvePath returns the root-to-leaf path of w. Each segment is
// "<index>:<name>" where index counts earlier siblings with the same name.
func ResolvePath(w Widget) []string {
	if w == nil {
		return nil
	}

	var path []string
	for cur := w; cur != nil; cur = cur.Parent() {
		path = append(path, strconv.Itoa(siblingIndex(cur))+":"+cur.Name())
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func siblingIndex(w Widget) int {
	count := 0
	for _, child := range siblings(w) {
		if child == w {
			return count
		}
		if child.Name() == w.Name() {
			count++
		}
	}
	return 0
}

// JoinPath renders a path as a single string.
func JoinPath(path []string) string {
	return strings.Join(path, PathSeparator)
}

// PathEqual compares two paths element-wise.
func PathEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// SegmentName returns the name part of a "<index>:<name>" path segment.
func SegmentName(segment string) string {
	if _, name, ok := strings.Cut(segment, ":"); ok {
		return name
	}
	return segment
}

// HasSiblingNamed reports whether another child of w's parent, or another
// root of its host, shares its name.
func HasSiblingNamed(w Widget) bool {
	for _, child := range siblings(w) {
		if child != w && child.Name() == w.Name() {
			return true
		}
	}
	return false
}

// NearestActivatable walks up from w and returns the first widget whose kind
// can be activated, or nil.
func NearestActivatable(w Widget) Widget {
	for cur := w; cur != nil; cur = cur.Parent() {
		if cur.Kind().Activatable() {
			return cur
		}
	}
	return nil
}
