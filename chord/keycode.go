package chord

// KeyCode identifies a physical key or a synthetic mouse button key.
// Printable keys use their lowercase ASCII value.
type KeyCode int32

const (
	KeyNone      KeyCode = 0
	KeyBackspace KeyCode = 8
	KeyTab       KeyCode = 9
	KeyReturn    KeyCode = 13
	KeyPause     KeyCode = 19
	KeyEscape    KeyCode = 27
	KeySpace     KeyCode = 32
	KeyDelete    KeyCode = 127

	KeyKeypad0        KeyCode = 256
	KeyKeypadPeriod   KeyCode = 266
	KeyKeypadDivide   KeyCode = 267
	KeyKeypadMultiply KeyCode = 268
	KeyKeypadMinus    KeyCode = 269
	KeyKeypadPlus     KeyCode = 270
	KeyKeypadEnter    KeyCode = 271
	KeyKeypadEquals   KeyCode = 272

	KeyUpArrow    KeyCode = 273
	KeyDownArrow  KeyCode = 274
	KeyRightArrow KeyCode = 275
	KeyLeftArrow  KeyCode = 276
	KeyInsert     KeyCode = 277
	KeyHome       KeyCode = 278
	KeyEnd        KeyCode = 279
	KeyPageUp     KeyCode = 280
	KeyPageDown   KeyCode = 281

	KeyF1  KeyCode = 282
	KeyF15 KeyCode = 296

	KeyNumlock      KeyCode = 300
	KeyCapsLock     KeyCode = 301
	KeyScrollLock   KeyCode = 302
	KeyRightShift   KeyCode = 303
	KeyLeftShift    KeyCode = 304
	KeyRightControl KeyCode = 305
	KeyLeftControl  KeyCode = 306
	KeyRightAlt     KeyCode = 307
	KeyLeftAlt      KeyCode = 308

	KeyPrint KeyCode = 316
	KeyMenu  KeyCode = 319

	// Mouse buttons share the key code space so they pack like keys.
	KeyMouse0 KeyCode = 323
	KeyMouse1 KeyCode = 324
	KeyMouse2 KeyCode = 325
	KeyMouse3 KeyCode = 326
	KeyMouse4 KeyCode = 327
	KeyMouse5 KeyCode = 328
	KeyMouse6 KeyCode = 329
)

// FunctionKey returns the key code of Fn, n in 1..15.
func FunctionKey(n int) KeyCode {
	if n < 1 || n > 15 {
		return KeyNone
	}
	return KeyF1 + KeyCode(n-1)
}

// Letter returns the key code for an ASCII letter, either case.
func Letter(r rune) KeyCode {
	switch {
	case r >= 'a' && r <= 'z':
		return KeyCode(r)
	case r >= 'A' && r <= 'Z':
		return KeyCode(r - 'A' + 'a')
	}
	return KeyNone
}

// IsModifier reports whether the key is a bare Ctrl, Shift or Alt key.
func IsModifier(k KeyCode) bool {
	switch k {
	case KeyLeftControl, KeyRightControl, KeyLeftShift, KeyRightShift, KeyLeftAlt, KeyRightAlt:
		return true
	}
	return false
}

// MouseButton is a pointer button as reported by the host.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
	MouseSpecial0
	MouseSpecial1
	MouseSpecial2
	MouseSpecial3
)

// IsUnbindable reports whether the button is reserved for normal UI use and
// can never be bound to a shortcut.
func IsUnbindable(b MouseButton) bool {
	return b == MouseLeft || b == MouseRight
}

// ButtonToKeyCode maps a mouse button onto its synthetic key code.
func ButtonToKeyCode(b MouseButton) KeyCode {
	switch b {
	case MouseLeft:
		return KeyMouse0
	case MouseRight:
		return KeyMouse1
	case MouseMiddle:
		return KeyMouse2
	case MouseSpecial0:
		return KeyMouse3
	case MouseSpecial1:
		return KeyMouse4
	case MouseSpecial2:
		return KeyMouse5
	case MouseSpecial3:
		return KeyMouse6
	}
	return KeyNone
}
