package keys

import (
	"sort"
	"strings"
	"unicode"

	"more-shortcuts/chord"

	"github.com/charmbracelet/bubbles/key"
)

type KeyName int

const (
	KeyUp KeyName = iota
	KeyDown
	KeyEnter // Enter clicks the widget under the cursor or opens the selected shortcut.
	KeyQuit
	KeyHelp
	KeyEsc

	KeyHighlight // Highlight toggles the add-a-shortcut affordance.
	KeyTab       // Tab switches between the scene and the shortcut list.
	KeyNew       // New opens the editor for the widget under the cursor.
	KeyDelete
	KeyReload
	KeySearch
	KeyRebind // Rebind captures a new chord for the selected shortcut in place.
	KeyEditYAML

	// Editor keybindings
	KeyNextField
	KeyPrevField
	KeyCopyPath
)

// DefaultHighlightKey is used when the config names no highlight key.
const DefaultHighlightKey = "ctrl+a"

// GlobalKeyStringsMap maps a bubbletea key string to its host key.
var GlobalKeyStringsMap = map[string]KeyName{
	"up":     KeyUp,
	"k":      KeyUp,
	"down":   KeyDown,
	"j":      KeyDown,
	"enter":  KeyEnter,
	" ":      KeyEnter,
	"q":      KeyQuit,
	"?":      KeyHelp,
	"esc":    KeyEsc,
	"ctrl+a": KeyHighlight,
	"tab":    KeyTab,
	"n":      KeyNew,
	"D":      KeyDelete,
	"r":      KeyReload,
	"/":      KeySearch,
	"b":      KeyRebind,
	"e":      KeyEditYAML,
}

// EditorKeyStringsMap maps key strings inside the shortcut editor.
var EditorKeyStringsMap = map[string]KeyName{
	"tab":       KeyNextField,
	"down":      KeyNextField,
	"shift+tab": KeyPrevField,
	"up":        KeyPrevField,
	"enter":     KeyEnter,
	" ":         KeyEnter,
	"esc":       KeyEsc,
	"ctrl+y":    KeyCopyPath,
}

// GlobalkeyBindings maps each host key to its binding and help text.
var GlobalkeyBindings = map[KeyName]key.Binding{
	KeyUp: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	KeyDown: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	KeyEnter: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("↵/space", "click"),
	),
	KeyQuit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	KeyHelp: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	KeyEsc: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	KeyHighlight: key.NewBinding(
		key.WithKeys(DefaultHighlightKey),
		key.WithHelp(DefaultHighlightKey, "highlight"),
	),
	KeyTab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "shortcuts"),
	),
	KeyNew: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new shortcut"),
	),
	KeyDelete: key.NewBinding(
		key.WithKeys("D"),
		key.WithHelp("D", "delete"),
	),
	KeyReload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	KeySearch: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	KeyRebind: key.NewBinding(
		key.WithKeys("b"),
		key.WithHelp("b", "rebind"),
	),
	KeyEditYAML: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit yaml"),
	),

	// -- Editor keybindings --

	KeyNextField: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab", "next field"),
	),
	KeyPrevField: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("shift+tab", "previous field"),
	),
	KeyCopyPath: key.NewBinding(
		key.WithKeys("ctrl+y"),
		key.WithHelp("ctrl+y", "copy path"),
	),
}

// SetHighlightKey rebinds the highlight toggle. It must run before the
// program starts. An empty string restores the default.
func SetHighlightKey(k string) {
	k = strings.TrimSpace(k)
	if k == "" {
		k = DefaultHighlightKey
	}
	for s, name := range GlobalKeyStringsMap {
		if name == KeyHighlight {
			delete(GlobalKeyStringsMap, s)
		}
	}
	GlobalKeyStringsMap[k] = KeyHighlight
	GlobalkeyBindings[KeyHighlight] = key.NewBinding(
		key.WithKeys(k),
		key.WithHelp(k, "highlight"),
	)
}

// HighlightKey returns the key string currently bound to the highlight toggle.
func HighlightKey() string {
	return GlobalkeyBindings[KeyHighlight].Keys()[0]
}

// Shadowed returns the host keys that press the same chord as c. Shortcuts
// run before host keys, so a shortcut on one of these hides it.
func Shadowed(c chord.Chord) []KeyName {
	if !c.IsBound() {
		return nil
	}
	var names []KeyName
	seen := make(map[KeyName]bool)
	for s, name := range GlobalKeyStringsMap {
		if seen[name] {
			continue
		}
		if hc, ok := hostChord(s); ok && hc == c {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// hostChord converts a bubbletea key string into a chord. A lone uppercase
// letter carries an implicit shift.
func hostChord(s string) (chord.Chord, bool) {
	if s == " " {
		return chord.Encode(chord.KeySpace, false, false, false), true
	}
	if r := []rune(s); len(r) == 1 && unicode.IsUpper(r[0]) {
		return chord.Encode(chord.Letter(r[0]), false, true, false), true
	}
	c, err := chord.Parse(s)
	if err != nil {
		return chord.None, false
	}
	return c, true
}
