package ui

import (
	"more-shortcuts/keys"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// MenuState selects which host keys the footer lists.
type MenuState int

const (
	MenuScene MenuState = iota
	MenuHighlight
	MenuTextField
	MenuList
	MenuEditor
	MenuCapture
)

var menuStyle = lipgloss.NewStyle().Padding(0, 1)

// Menu is the key help footer.
type Menu struct {
	help  help.Model
	state MenuState
	width int
}

func NewMenu() *Menu {
	return &Menu{help: help.New()}
}

// SetState switches the set of keys shown.
func (m *Menu) SetState(state MenuState) {
	m.state = state
}

// State returns the current menu state.
func (m *Menu) State() MenuState {
	return m.state
}

func (m *Menu) SetSize(width, height int) {
	m.width = width
	m.help.Width = width - 2
}

func bindings(names ...keys.KeyName) []key.Binding {
	out := make([]key.Binding, 0, len(names))
	for _, n := range names {
		out = append(out, keys.GlobalkeyBindings[n])
	}
	return out
}

// ShortHelp lists the keys of the current state. It makes Menu a help.KeyMap.
func (m *Menu) ShortHelp() []key.Binding {
	switch m.state {
	case MenuHighlight:
		enter := key.NewBinding(key.WithKeys("enter"), key.WithHelp("↵", "add shortcut"))
		return append([]key.Binding{enter}, bindings(keys.KeyUp, keys.KeyDown, keys.KeyHighlight, keys.KeyEsc)...)
	case MenuTextField:
		done := key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("↵/esc", "done"))
		return []key.Binding{done}
	case MenuList:
		edit := key.NewBinding(key.WithKeys("enter"), key.WithHelp("↵", "edit"))
		return append([]key.Binding{edit}, bindings(keys.KeyRebind, keys.KeyDelete, keys.KeySearch, keys.KeyReload, keys.KeyTab, keys.KeyHelp, keys.KeyQuit)...)
	case MenuEditor:
		return bindings(keys.KeyNextField, keys.KeyPrevField, keys.KeyCopyPath, keys.KeyEsc)
	case MenuCapture:
		cancel := key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel"))
		unbind := key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "unbind"))
		return []key.Binding{cancel, unbind}
	default:
		return bindings(keys.KeyUp, keys.KeyDown, keys.KeyEnter, keys.KeyHighlight, keys.KeyNew, keys.KeyTab, keys.KeyHelp, keys.KeyQuit)
	}
}

// FullHelp is ShortHelp on one line.
func (m *Menu) FullHelp() [][]key.Binding {
	return [][]key.Binding{m.ShortHelp()}
}

func (m *Menu) String() string {
	return menuStyle.Render(m.help.View(m))
}
