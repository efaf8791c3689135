package overlay

import (
	"strings"

	"more-shortcuts/capture"
	"more-shortcuts/keys"
	"more-shortcuts/shortcut"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
)

const (
	usePathLabel     = "Use button's full path"
	onlyVisibleLabel = "Trigger only if visible"

	usePathHelp     = "If checked, the full path to the button is used rather than the name alone.\nThis ensure the button is unique."
	onlyVisibleHelp = "If checked, the button is only triggered if visible.\nUseful for buttons with the same name but only one visible at a time."
)

// BindingControl shows a shortcut's chord and takes input while a capture
// runs on it.
type BindingControl struct {
	target  *shortcut.Shortcut
	label   string
	grabbed bool
}

var _ capture.Control = (*BindingControl)(nil)

// NewBindingControl creates a control editing target's chord.
func NewBindingControl(target *shortcut.Shortcut) *BindingControl {
	return &BindingControl{target: target, label: target.Binding()}
}

func (b *BindingControl) Grab()                      { b.grabbed = true }
func (b *BindingControl) Release()                   { b.grabbed = false }
func (b *BindingControl) SetLabel(label string)      { b.label = label }
func (b *BindingControl) Target() *shortcut.Shortcut { return b.target }

// Label returns the caption: the chord, or the capture prompt.
func (b *BindingControl) Label() string { return b.label }

// Grabbed reports whether the control is capturing input.
func (b *BindingControl) Grabbed() bool { return b.grabbed }

// EditorField is a focusable row of the shortcut editor.
type EditorField int

const (
	FieldName EditorField = iota
	FieldBinding
	FieldUsePath
	FieldOnlyVisible
	FieldOK
	FieldCancel
	fieldCount
)

// EditorAction is what the host must do after a key press in the editor.
type EditorAction int

const (
	EditorNone EditorAction = iota
	// EditorCapture asks the host to start capturing on the binding control.
	EditorCapture
	// EditorCommit asks the host to commit the working copy.
	EditorCommit
	EditorCancel
	EditorCopyPath
)

// ShortcutEditor is the modal that edits one shortcut. It works on a copy;
// the target only changes when the host commits.
type ShortcutEditor struct {
	target  *shortcut.Shortcut
	working *shortcut.Shortcut

	name    textinput.Model
	binding *BindingControl
	focus   EditorField
	width   int
}

// NewShortcutEditor opens the editor on target, which may or may not be
// registered yet. Focus starts on the binding control.
func NewShortcutEditor(target *shortcut.Shortcut) *ShortcutEditor {
	working := target.Clone()

	ti := textinput.New()
	ti.SetValue(working.Name)
	ti.Prompt = ""
	ti.CharLimit = 64
	ti.Blur()

	return &ShortcutEditor{
		target:  target,
		working: working,
		name:    ti,
		binding: NewBindingControl(working),
		focus:   FieldBinding,
		width:   60,
	}
}

// Target returns the shortcut being edited.
func (e *ShortcutEditor) Target() *shortcut.Shortcut { return e.target }

// Working returns the working copy with the user's edits.
func (e *ShortcutEditor) Working() *shortcut.Shortcut {
	e.working.Name = strings.TrimSpace(e.name.Value())
	return e.working
}

// Binding returns the binding control of the working copy.
func (e *ShortcutEditor) Binding() *BindingControl { return e.binding }

// Path returns the widget path of the shortcut joined for display.
func (e *ShortcutEditor) Path() string { return e.working.JoinedPath() }

// Focused returns the focused field.
func (e *ShortcutEditor) Focused() EditorField { return e.focus }

func (e *ShortcutEditor) SetWidth(width int) {
	e.width = width
}

// HandleKeyPress handles a key press and returns the action the host must
// take. Keys never reach the editor while its binding control is grabbed.
func (e *ShortcutEditor) HandleKeyPress(msg tea.KeyMsg) EditorAction {
	name, ok := keys.EditorKeyStringsMap[msg.String()]
	if e.focus == FieldName && (!ok || msg.String() == " ") {
		e.name, _ = e.name.Update(msg)
		return EditorNone
	}
	if !ok {
		return EditorNone
	}

	switch name {
	case keys.KeyNextField:
		e.setFocus((e.focus + 1) % fieldCount)
	case keys.KeyPrevField:
		e.setFocus((e.focus + fieldCount - 1) % fieldCount)
	case keys.KeyEsc:
		return EditorCancel
	case keys.KeyCopyPath:
		return EditorCopyPath
	case keys.KeyEnter:
		return e.activate()
	}
	return EditorNone
}

func (e *ShortcutEditor) activate() EditorAction {
	switch e.focus {
	case FieldName, FieldOK:
		return EditorCommit
	case FieldBinding:
		return EditorCapture
	case FieldUsePath:
		e.working.UsePath = !e.working.UsePath
	case FieldOnlyVisible:
		e.working.OnlyVisible = !e.working.OnlyVisible
	case FieldCancel:
		return EditorCancel
	}
	return EditorNone
}

func (e *ShortcutEditor) setFocus(f EditorField) {
	e.focus = f
	if f == FieldName {
		e.name.Focus()
	} else {
		e.name.Blur()
	}
}

var (
	editorStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(1, 2)
	editorTitleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true).MarginBottom(1)
	fieldLabelStyle    = lipgloss.NewStyle().Width(12).Foreground(lipgloss.AdaptiveColor{Light: "#1a1a1a", Dark: "#dddddd"})
	faintStyle         = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#9C9C9C", Dark: "#777777"})
	buttonStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	focusedButtonStyle = buttonStyle.Background(lipgloss.Color("62")).Foreground(lipgloss.Color("0"))
	capturingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#de613e")).Bold(true)
)

func (e *ShortcutEditor) button(f EditorField, text string) string {
	if e.focus == f {
		return focusedButtonStyle.Render(text)
	}
	return buttonStyle.Render(text)
}

func (e *ShortcutEditor) toggle(f EditorField, checked bool, label string) string {
	box := "[ ] "
	if checked {
		box = "[x] "
	}
	return e.button(f, box+label)
}

// Render renders the editor modal.
func (e *ShortcutEditor) Render() string {
	// Border and padding take six columns.
	inner := max(e.width-6, 20)
	valueWidth := inner - fieldLabelStyle.GetWidth()
	e.name.Width = valueWidth - 1

	var b strings.Builder
	b.WriteString(editorTitleStyle.Render("Shortcut"))
	b.WriteString("\n")

	nameValue := e.name.View()
	if e.focus == FieldName {
		nameValue = focusedButtonStyle.Render(" ") + nameValue
	} else {
		nameValue = " " + nameValue
	}
	b.WriteString(fieldLabelStyle.Render("Name") + nameValue + "\n")

	b.WriteString(fieldLabelStyle.Render("Component") + " " + runewidth.Truncate(e.working.Component, valueWidth-1, "…") + "\n")
	if path := e.Path(); path != "" {
		b.WriteString(fieldLabelStyle.Render("") + " " + faintStyle.Render(runewidth.Truncate(path, valueWidth-1, "…")) + "\n")
	}

	binding := "[ " + e.binding.Label() + " ]"
	if e.binding.Grabbed() {
		binding = capturingStyle.Render(binding)
	} else {
		binding = e.button(FieldBinding, binding)
	}
	b.WriteString(fieldLabelStyle.Render("Binding") + " " + binding + "\n\n")

	b.WriteString(e.toggle(FieldUsePath, e.working.UsePath, usePathLabel) + "\n")
	b.WriteString(e.toggle(FieldOnlyVisible, e.working.OnlyVisible, onlyVisibleLabel) + "\n")
	switch e.focus {
	case FieldUsePath:
		b.WriteString(faintStyle.Render(wordwrap.String(usePathHelp, inner)) + "\n")
	case FieldOnlyVisible:
		b.WriteString(faintStyle.Render(wordwrap.String(onlyVisibleHelp, inner)) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(e.button(FieldOK, " OK ") + "  " + e.button(FieldCancel, " Cancel "))

	return editorStyle.Width(e.width - 2).Render(b.String())
}
