// Package capture drives rebinding a shortcut's chord: a binding control grabs
// input, the next key or mouse button becomes the new chord, and collisions
// with other shortcuts are confirmed by the user before anything changes.
package capture

import (
	"fmt"

	"more-shortcuts/chord"
	"more-shortcuts/log"
	"more-shortcuts/shortcut"
)

const (
	// PromptLabel is shown on a control while it waits for input.
	PromptLabel = "Press any key"
	// RebindTitle titles the confirmation shown on a collision.
	RebindTitle = "Rebind key"
	// multipleLabel names the holders of a chord when there is more than one.
	multipleLabel = "multiple shortcuts"
)

// State is the capture lifecycle state.
type State int

const (
	Idle State = iota
	Capturing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Capturing:
		return "capturing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Confirmer asks the user a yes/no question. onResult may run before
// RequestConfirmation returns or at any later time.
type Confirmer interface {
	RequestConfirmation(title, message string, onResult func(bool))
}

// Notifier is told when committed bindings changed so labels can refresh.
type Notifier interface {
	BindingsChanged()
}

// Control is the binding control being captured.
type Control interface {
	// Grab routes all key and mouse input to the control.
	Grab()
	// Release ends the grab.
	Release()
	// SetLabel replaces the control's caption.
	SetLabel(label string)
	// Target is the shortcut whose chord the control edits.
	Target() *shortcut.Shortcut
}

// Session is the single capture session of a host. At most one control
// captures at a time.
type Session struct {
	registry  *shortcut.Registry
	confirmer Confirmer
	notifier  Notifier

	control  Control
	previous chord.Chord
	// pending is set while a collision waits for the user's answer.
	pending bool
	// generation invalidates confirmation callbacks of earlier captures.
	generation int
}

// NewSession creates an idle session. notifier may be nil.
func NewSession(registry *shortcut.Registry, confirmer Confirmer, notifier Notifier) *Session {
	return &Session{
		registry:  registry,
		confirmer: confirmer,
		notifier:  notifier,
	}
}

// State returns Idle or Capturing.
func (s *Session) State() State {
	if s.control == nil {
		return Idle
	}
	return Capturing
}

// Capturing reports whether a capture is in progress, including one waiting
// for a confirmation.
func (s *Session) Capturing() bool {
	return s.control != nil
}

// AwaitingConfirmation reports whether a collision prompt is open.
func (s *Session) AwaitingConfirmation() bool {
	return s.pending
}

// Control returns the capturing control, or nil when idle.
func (s *Session) Control() Control {
	return s.control
}

// Target returns the shortcut being captured, or nil when idle.
func (s *Session) Target() *shortcut.Shortcut {
	if s.control == nil {
		return nil
	}
	return s.control.Target()
}

// BeginCapture starts capturing for ctrl. A capture already running on
// another control is cancelled first; beginning again on the same control
// does nothing.
func (s *Session) BeginCapture(ctrl Control) {
	if ctrl == nil || ctrl.Target() == nil {
		return
	}
	if s.control != nil {
		if s.control == ctrl {
			return
		}
		s.Cancel()
	}

	s.generation++
	s.control = ctrl
	s.previous = ctrl.Target().InputKey
	ctrl.Grab()
	ctrl.SetLabel(PromptLabel)
}

// Cancel ends the capture and restores the target's previous chord.
func (s *Session) Cancel() {
	if s.control == nil {
		return
	}
	target := s.control.Target()
	target.InputKey = s.previous
	s.finish(target)
}

// ReceiveKey feeds a key press to the capture. Bare modifiers are ignored,
// Escape cancels and Backspace unbinds. Returns whether the press was
// consumed.
func (s *Session) ReceiveKey(key chord.KeyCode, ctrl, shift, alt bool) bool {
	if s.control == nil || s.pending {
		return false
	}
	switch {
	case key == chord.KeyNone:
		return false
	case chord.IsModifier(key):
		return true
	case key == chord.KeyEscape:
		s.Cancel()
		return true
	case key == chord.KeyBackspace:
		s.apply(chord.None)
		return true
	default:
		s.apply(chord.Encode(key, ctrl, shift, alt))
		return true
	}
}

// ReceiveMouse feeds a mouse button to the capture. Left and right buttons
// are rejected and the capture continues.
func (s *Session) ReceiveMouse(button chord.MouseButton, ctrl, shift, alt bool) bool {
	if s.control == nil || s.pending {
		return false
	}
	if chord.IsUnbindable(button) {
		return false
	}
	key := chord.ButtonToKeyCode(button)
	if key == chord.KeyNone {
		return false
	}
	s.apply(chord.Encode(key, ctrl, shift, alt))
	return true
}

func (s *Session) apply(c chord.Chord) {
	target := s.control.Target()
	conflicts := s.registry.Conflicts(target, c)
	if len(conflicts) == 0 {
		changed := target.InputKey != c
		target.InputKey = c
		if changed {
			s.persist(s.registry.Contains(target))
		}
		s.finish(target)
		return
	}

	if s.confirmer == nil {
		log.WarningLog.Printf("%s is already bound and no confirmation is available, keeping %s", c, target.InputKey)
		s.finish(target)
		return
	}

	holder := multipleLabel
	if len(conflicts) == 1 {
		holder = conflicts[0].Name
	}
	message := fmt.Sprintf("%s is already bound to %s. Rebind?", c, holder)

	s.pending = true
	generation := s.generation
	s.confirmer.RequestConfirmation(RebindTitle, message, func(accepted bool) {
		if s.generation != generation || s.control == nil {
			return
		}
		s.pending = false
		if accepted {
			for _, other := range conflicts {
				other.InputKey = chord.None
			}
			target.InputKey = c
			s.persist(true)
		}
		s.finish(target)
	})
}

// persist saves the registry when a registered shortcut changed. A working
// copy that is not registered yet is saved by whoever commits it.
func (s *Session) persist(save bool) {
	if save {
		if err := s.registry.Save(); err != nil {
			log.ErrorLog.Printf("failed to persist rebinding: %v", err)
		}
	}
	if s.notifier != nil {
		s.notifier.BindingsChanged()
	}
}

func (s *Session) finish(target *shortcut.Shortcut) {
	ctrl := s.control
	s.control = nil
	s.pending = false
	s.generation++
	ctrl.SetLabel(target.InputKey.String())
	ctrl.Release()
}
