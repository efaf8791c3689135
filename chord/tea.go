package chord

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Press is a normalized key press: one key code plus the modifiers held.
type Press struct {
	Key   KeyCode
	Ctrl  bool
	Shift bool
	Alt   bool
}

// Chord encodes the press.
func (p Press) Chord() Chord {
	return Encode(p.Key, p.Ctrl, p.Shift, p.Alt)
}

// FromKeyMsg translates a bubbletea key message into a press. ok is false for
// messages that carry no single key, such as pastes.
func FromKeyMsg(msg tea.KeyMsg) (p Press, ok bool) {
	p.Alt = msg.Alt
	if msg.Paste {
		return p, false
	}

	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return p, false
		}
		r := msg.Runes[0]
		if r >= 'A' && r <= 'Z' {
			p.Shift = true
		}
		if l := Letter(r); l != KeyNone {
			p.Key = l
		} else if r > ' ' && r < 127 {
			p.Key = KeyCode(r)
		} else {
			return p, false
		}
		return p, true
	case tea.KeySpace:
		p.Key = KeySpace
	case tea.KeyEnter:
		p.Key = KeyReturn
	case tea.KeyTab:
		p.Key = KeyTab
	case tea.KeyShiftTab:
		p.Key, p.Shift = KeyTab, true
	case tea.KeyBackspace:
		p.Key = KeyBackspace
	case tea.KeyEscape:
		p.Key = KeyEscape
	case tea.KeyDelete:
		p.Key = KeyDelete
	case tea.KeyInsert:
		p.Key = KeyInsert
	case tea.KeyHome:
		p.Key = KeyHome
	case tea.KeyEnd:
		p.Key = KeyEnd
	case tea.KeyPgUp:
		p.Key = KeyPageUp
	case tea.KeyPgDown:
		p.Key = KeyPageDown
	case tea.KeyUp:
		p.Key = KeyUpArrow
	case tea.KeyDown:
		p.Key = KeyDownArrow
	case tea.KeyLeft:
		p.Key = KeyLeftArrow
	case tea.KeyRight:
		p.Key = KeyRightArrow
	case tea.KeyShiftUp:
		p.Key, p.Shift = KeyUpArrow, true
	case tea.KeyShiftDown:
		p.Key, p.Shift = KeyDownArrow, true
	case tea.KeyShiftLeft:
		p.Key, p.Shift = KeyLeftArrow, true
	case tea.KeyShiftRight:
		p.Key, p.Shift = KeyRightArrow, true
	case tea.KeyCtrlUp:
		p.Key, p.Ctrl = KeyUpArrow, true
	case tea.KeyCtrlDown:
		p.Key, p.Ctrl = KeyDownArrow, true
	case tea.KeyCtrlLeft:
		p.Key, p.Ctrl = KeyLeftArrow, true
	case tea.KeyCtrlRight:
		p.Key, p.Ctrl = KeyRightArrow, true
	case tea.KeyCtrlShiftUp:
		p.Key, p.Ctrl, p.Shift = KeyUpArrow, true, true
	case tea.KeyCtrlShiftDown:
		p.Key, p.Ctrl, p.Shift = KeyDownArrow, true, true
	case tea.KeyCtrlShiftLeft:
		p.Key, p.Ctrl, p.Shift = KeyLeftArrow, true, true
	case tea.KeyCtrlShiftRight:
		p.Key, p.Ctrl, p.Shift = KeyRightArrow, true, true
	case tea.KeyF1, tea.KeyF2, tea.KeyF3, tea.KeyF4, tea.KeyF5,
		tea.KeyF6, tea.KeyF7, tea.KeyF8, tea.KeyF9, tea.KeyF10,
		tea.KeyF11, tea.KeyF12, tea.KeyF13, tea.KeyF14, tea.KeyF15:
		p.Key = FunctionKey(int(tea.KeyF1-msg.Type) + 1)
	default:
		// Remaining C0 control codes are Ctrl+letter.
		if msg.Type >= tea.KeyCtrlA && msg.Type <= tea.KeyCtrlZ {
			p.Key = KeyCode('a' + int(msg.Type-tea.KeyCtrlA))
			p.Ctrl = true
			return p, true
		}
		return p, false
	}
	return p, true
}

// FromMouseMsg maps a bubbletea mouse press onto a mouse button. Wheel events,
// releases and motion report ok=false.
func FromMouseMsg(msg tea.MouseMsg) (b MouseButton, ok bool) {
	if msg.Action != tea.MouseActionPress {
		return 0, false
	}
	switch msg.Button {
	case tea.MouseButtonLeft:
		return MouseLeft, true
	case tea.MouseButtonRight:
		return MouseRight, true
	case tea.MouseButtonMiddle:
		return MouseMiddle, true
	case tea.MouseButtonBackward:
		return MouseSpecial0, true
	case tea.MouseButtonForward:
		return MouseSpecial1, true
	case tea.MouseButton10:
		return MouseSpecial2, true
	case tea.MouseButton11:
		return MouseSpecial3, true
	}
	return 0, false
}
