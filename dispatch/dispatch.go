// Package dispatch turns input events into widget activations.
package dispatch

import (
	"time"

	"more-shortcuts/chord"
	"more-shortcuts/log"
	"more-shortcuts/shortcut"
	"more-shortcuts/widget"
)

// EventType classifies an input event.
type EventType int

const (
	KeyDown EventType = iota
	KeyUp
	MouseDown
)

// Event is one normalized input event. The host marks it used once a
// shortcut fires so nothing else handles it.
type Event struct {
	Type  EventType
	Key   chord.KeyCode
	Ctrl  bool
	Shift bool
	Alt   bool

	used bool
}

// NewKeyDown returns a key-down event for a chord press.
func NewKeyDown(p chord.Press) *Event {
	return &Event{Type: KeyDown, Key: p.Key, Ctrl: p.Ctrl, Shift: p.Shift, Alt: p.Alt}
}

// Use marks the event as consumed.
func (e *Event) Use() { e.used = true }

// Used reports whether a handler consumed the event.
func (e *Event) Used() bool { return e.used }

// Focus reports where keyboard focus is.
type Focus interface {
	// Focused returns the focused widget, or nil.
	Focused() widget.Widget
	// IsCaptureControl reports whether w is a binding control.
	IsCaptureControl(w widget.Widget) bool
}

// CaptureState is the part of the capture session the dispatcher needs.
type CaptureState interface {
	Capturing() bool
}

// Dispatcher fires registered shortcuts against the live widget set.
type Dispatcher struct {
	registry *shortcut.Registry
	live     widget.Query
	capture  CaptureState
	focus    Focus
	// editorOpen suppresses dispatch while the shortcut editor is shown.
	editorOpen func() bool

	warnEvery *log.Every
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithFocus sets the focus collaborator.
func WithFocus(f Focus) Option {
	return func(d *Dispatcher) { d.focus = f }
}

// WithEditorOpen sets the check for an open editor.
func WithEditorOpen(fn func() bool) Option {
	return func(d *Dispatcher) { d.editorOpen = fn }
}

// New creates a dispatcher over registry and live. capture may be nil when
// the host has no capture session.
func New(registry *shortcut.Registry, live widget.Query, capture CaptureState, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry:  registry,
		live:      live,
		capture:   capture,
		warnEvery: log.NewEvery(time.Minute),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch handles one event and returns the widgets it activated.
func (d *Dispatcher) Dispatch(ev *Event) []widget.Widget {
	if ev == nil || d.suppressed(ev) {
		return nil
	}

	var toTrigger []*shortcut.Shortcut
	for _, s := range d.registry.Shortcuts() {
		if s.InputKey.Matches(ev.Key, ev.Ctrl, ev.Shift, ev.Alt) {
			toTrigger = append(toTrigger, s)
		}
	}
	if len(toTrigger) == 0 {
		return nil
	}

	var fired []widget.Widget
	for _, w := range d.live.Widgets() {
		for _, s := range toTrigger {
			if !Eligible(s, w) {
				continue
			}
			if !activate(w) {
				if d.warnEvery.ShouldLog() {
					log.WarningLog.Printf("widget %s cannot be activated", w.Name())
				}
				continue
			}
			fired = append(fired, w)
			ev.Use()
		}
	}
	return fired
}

func (d *Dispatcher) suppressed(ev *Event) bool {
	if ev.Type != KeyDown {
		return true
	}
	if d.capture != nil && d.capture.Capturing() {
		return true
	}
	if d.editorOpen != nil && d.editorOpen() {
		return true
	}
	if d.focus != nil {
		if focused := d.focus.Focused(); focused != nil {
			if focused.Kind() == widget.KindTextField && focused.Enabled() {
				return true
			}
			if d.focus.IsCaptureControl(focused) {
				return true
			}
		}
	}
	return false
}

// Eligible reports whether w may fire for s: an activatable kind with the
// shortcut's component name, visible if required, on the recorded path if
// required.
func Eligible(s *shortcut.Shortcut, w widget.Widget) bool {
	if !w.Kind().Activatable() || w.Name() != s.Component {
		return false
	}
	if s.OnlyVisible && !w.Visible() {
		return false
	}
	if s.UsePath && !widget.PathEqual(widget.ResolvePath(w), s.Path) {
		return false
	}
	return true
}

func activate(w widget.Widget) bool {
	a, ok := w.(widget.Activatable)
	if !ok {
		return false
	}
	if w.Enabled() {
		a.Activate()
	} else {
		a.ActivateDisabled()
	}
	return true
}
