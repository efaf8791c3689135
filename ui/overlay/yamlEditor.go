package overlay

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	yamlFrameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)
	yamlTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	yamlHintStyle  = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#9C9C9C", Dark: "#777777"})
	yamlErrStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	yamlButtonStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	yamlButtonFocus = yamlButtonStyle.
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("0"))
)

// yamlEditorChrome is the number of lines around the text area: frame,
// padding, title, status line and button row.
const yamlEditorChrome = 9

// YAMLEditorOverlay edits the exported shortcut document in place. Enter
// inserts a newline; ctrl+s or enter on the Save button submits. A submit
// that Validate rejects keeps the editor open with the error shown.
type YAMLEditorOverlay struct {
	area  textarea.Model
	Title string
	// Validate checks the text before submitting. Nil accepts anything.
	Validate  func(value string) error
	Submitted bool
	Canceled  bool

	onSave bool
	err    error
	width  int
}

func NewYAMLEditorOverlay(title, doc string) *YAMLEditorOverlay {
	area := textarea.New()
	area.ShowLineNumbers = true
	area.Prompt = ""
	area.FocusedStyle.CursorLine = lipgloss.NewStyle()
	area.CharLimit = 0
	area.MaxHeight = 0
	area.SetValue(doc)
	area.Focus()
	return &YAMLEditorOverlay{area: area, Title: title}
}

func (e *YAMLEditorOverlay) SetSize(width, height int) {
	e.width = width
	e.area.SetWidth(max(width-6, 10))
	e.area.SetHeight(max(height-yamlEditorChrome, 3))
}

// HandleKeyPress returns true when the editor should close.
func (e *YAMLEditorOverlay) HandleKeyPress(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyEsc:
		e.Canceled = true
		return true
	case tea.KeyCtrlS:
		return e.submit()
	case tea.KeyTab, tea.KeyShiftTab:
		e.onSave = !e.onSave
		if e.onSave {
			e.area.Blur()
		} else {
			e.area.Focus()
		}
		return false
	case tea.KeyEnter:
		if e.onSave {
			return e.submit()
		}
	}
	if !e.onSave {
		e.area, _ = e.area.Update(msg)
	}
	return false
}

func (e *YAMLEditorOverlay) submit() bool {
	if e.Validate != nil {
		if err := e.Validate(e.Value()); err != nil {
			e.err = err
			return false
		}
	}
	e.err = nil
	e.Submitted = true
	return true
}

// Value returns the edited document.
func (e *YAMLEditorOverlay) Value() string {
	return e.area.Value()
}

// Err is the last validation failure, nil once the text was accepted.
func (e *YAMLEditorOverlay) Err() error {
	return e.err
}

func (e *YAMLEditorOverlay) Render() string {
	status := yamlHintStyle.Render("tab switch focus · ctrl+s save · esc cancel")
	if e.err != nil {
		status = yamlErrStyle.Width(max(e.width-6, 10)).Render(e.err.Error())
	}
	button := yamlButtonStyle.Render(" Save ")
	if e.onSave {
		button = yamlButtonFocus.Render(" Save ")
	}
	return yamlFrameStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		yamlTitleStyle.Render(e.Title),
		"",
		e.area.View(),
		status,
		"",
		button,
	))
}
