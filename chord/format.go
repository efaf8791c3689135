package chord

import (
	"fmt"
	"strconv"
	"strings"
)

var keyNames = map[KeyCode]string{
	KeyBackspace: "Backspace",
	KeyTab:       "Tab",
	KeyReturn:    "Enter",
	KeyPause:     "Pause",
	KeyEscape:    "Escape",
	KeySpace:     "Space",
	KeyDelete:    "Delete",

	KeyKeypadPeriod:   "Num Dot",
	KeyKeypadDivide:   "Num Slash",
	KeyKeypadMultiply: "Num Star",
	KeyKeypadMinus:    "Num Minus",
	KeyKeypadPlus:     "Num Plus",
	KeyKeypadEnter:    "Num Enter",
	KeyKeypadEquals:   "Num Equals",

	KeyUpArrow:    "Up",
	KeyDownArrow:  "Down",
	KeyRightArrow: "Right",
	KeyLeftArrow:  "Left",
	KeyInsert:     "Insert",
	KeyHome:       "Home",
	KeyEnd:        "End",
	KeyPageUp:     "Page Up",
	KeyPageDown:   "Page Down",

	KeyNumlock:      "Num Lock",
	KeyCapsLock:     "Caps Lock",
	KeyScrollLock:   "Scroll Lock",
	KeyRightShift:   "Right Shift",
	KeyLeftShift:    "Left Shift",
	KeyRightControl: "Right Control",
	KeyLeftControl:  "Left Control",
	KeyRightAlt:     "Right Alt",
	KeyLeftAlt:      "Left Alt",
	KeyPrint:        "Print Screen",
	KeyMenu:         "Menu",

	KeyMouse0: "Left Mouse",
	KeyMouse1: "Right Mouse",
	KeyMouse2: "Middle Mouse",
	KeyMouse3: "Mouse 4",
	KeyMouse4: "Mouse 5",
	KeyMouse5: "Mouse 6",
	KeyMouse6: "Mouse 7",
}

// keysByName is the reverse of keyNames plus a few aliases, keyed by the
// lowercased name with spaces removed.
var keysByName = func() map[string]KeyCode {
	m := make(map[string]KeyCode, len(keyNames)+32)
	for code, name := range keyNames {
		m[normalizeName(name)] = code
	}
	for i := 0; i <= 9; i++ {
		m[normalizeName(fmt.Sprintf("Num %d", i))] = KeyKeypad0 + KeyCode(i)
	}
	for n := 1; n <= 15; n++ {
		m["f"+strconv.Itoa(n)] = FunctionKey(n)
	}
	m["esc"] = KeyEscape
	m["return"] = KeyReturn
	m["del"] = KeyDelete
	m["pgup"] = KeyPageUp
	m["pgdown"] = KeyPageDown
	m["uparrow"] = KeyUpArrow
	m["downarrow"] = KeyDownArrow
	m["leftarrow"] = KeyLeftArrow
	m["rightarrow"] = KeyRightArrow
	return m
}()

func normalizeName(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
}

// KeyName returns the display name of a key code.
func KeyName(k KeyCode) string {
	if k == KeyNone {
		return "None"
	}
	if name, ok := keyNames[k]; ok {
		return name
	}
	if k >= KeyKeypad0 && k <= KeyKeypad0+9 {
		return fmt.Sprintf("Num %d", k-KeyKeypad0)
	}
	if k >= KeyF1 && k <= KeyF15 {
		return fmt.Sprintf("F%d", k-KeyF1+1)
	}
	if k > KeySpace && k < KeyDelete {
		return strings.ToUpper(string(rune(k)))
	}
	return fmt.Sprintf("Key %d", int32(k))
}

// String renders the chord the way binding labels show it, e.g. "Ctrl+Shift+K".
func (c Chord) String() string {
	if !c.IsBound() {
		return "None"
	}
	var parts []string
	if c.Ctrl() {
		parts = append(parts, "Ctrl")
	}
	if c.Shift() {
		parts = append(parts, "Shift")
	}
	if c.Alt() {
		parts = append(parts, "Alt")
	}
	parts = append(parts, KeyName(c.Key()))
	return strings.Join(parts, "+")
}

// Parse reads a chord in the form produced by String. "None" and the empty
// string parse to the unbound chord.
func Parse(spec string) (Chord, error) {
	raw := strings.TrimSpace(spec)
	if raw == "" || strings.EqualFold(raw, "none") {
		return None, nil
	}

	// A trailing "+" is the plus key itself, e.g. "Ctrl++".
	var tokens []string
	if strings.HasSuffix(raw, "++") {
		tokens = append(strings.Split(strings.TrimSuffix(raw, "++"), "+"), "+")
	} else if raw == "+" {
		tokens = []string{"+"}
	} else {
		tokens = strings.Split(raw, "+")
	}

	var ctrl, shift, alt bool
	for _, token := range tokens[:len(tokens)-1] {
		switch normalizeName(token) {
		case "ctrl", "control":
			ctrl = true
		case "shift":
			shift = true
		case "alt", "option":
			alt = true
		default:
			return None, fmt.Errorf("unknown modifier %q in chord %q", token, raw)
		}
	}

	key, err := parseKey(tokens[len(tokens)-1])
	if err != nil {
		return None, fmt.Errorf("failed to parse chord %q: %w", raw, err)
	}
	return Encode(key, ctrl, shift, alt), nil
}

func parseKey(token string) (KeyCode, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		if token == " " {
			return KeySpace, nil
		}
		return KeyNone, fmt.Errorf("missing key")
	}
	if code, ok := keysByName[normalizeName(trimmed)]; ok {
		return code, nil
	}
	if len(trimmed) == 1 {
		r := rune(trimmed[0])
		if l := Letter(r); l != KeyNone {
			return l, nil
		}
		if r > ' ' && r < 127 {
			return KeyCode(r), nil
		}
	}
	if rest, ok := strings.CutPrefix(normalizeName(trimmed), "key"); ok {
		n, err := strconv.ParseInt(rest, 10, 32)
		if err == nil && n > 0 && Chord(n)&^KeyMask == 0 {
			return KeyCode(n), nil
		}
	}
	return KeyNone, fmt.Errorf("unknown key %q", token)
}
