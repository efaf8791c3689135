// Package chord packs a key (or auxiliary mouse button) and its modifier
// state into a single integer so bindings can be stored, compared and
// persisted as plain numbers.
package chord

// Chord is a packed key combination. The zero value means "unbound".
type Chord int32

const (
	// KeyMask selects the key code bits of a chord.
	KeyMask Chord = 0x0FFFFFFF
	// AltBit is set when Alt is part of the chord.
	AltBit Chord = 0x10000000
	// ShiftBit is set when Shift is part of the chord.
	ShiftBit Chord = 0x20000000
	// CtrlBit is set when Ctrl is part of the chord.
	CtrlBit Chord = 0x40000000
)

// None is the unbound chord.
const None Chord = 0

// Encode packs a key code and modifier state into a chord.
func Encode(key KeyCode, ctrl, shift, alt bool) Chord {
	c := Chord(key) & KeyMask
	if ctrl {
		c |= CtrlBit
	}
	if shift {
		c |= ShiftBit
	}
	if alt {
		c |= AltBit
	}
	return c
}

// Decode unpacks a chord into its key code and modifier state.
func Decode(c Chord) (key KeyCode, ctrl, shift, alt bool) {
	return c.Key(), c.Ctrl(), c.Shift(), c.Alt()
}

// Key returns the key code part of the chord.
func (c Chord) Key() KeyCode { return KeyCode(c & KeyMask) }

// Ctrl reports whether the chord requires Ctrl.
func (c Chord) Ctrl() bool { return c&CtrlBit != 0 }

// Shift reports whether the chord requires Shift.
func (c Chord) Shift() bool { return c&ShiftBit != 0 }

// Alt reports whether the chord requires Alt.
func (c Chord) Alt() bool { return c&AltBit != 0 }

// IsBound reports whether the chord can ever match a key press.
func (c Chord) IsBound() bool { return c.Key() != KeyNone }

// Matches reports whether a key press with the given modifier state triggers
// the chord. Modifiers must agree both when held and when released.
func (c Chord) Matches(key KeyCode, ctrl, shift, alt bool) bool {
	return c.IsBound() && c.Key() == key && c.Ctrl() == ctrl && c.Shift() == shift && c.Alt() == alt
}
