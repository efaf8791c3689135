package overlay

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TextOverlay shows read-only content until any key is pressed.
type TextOverlay struct {
	Dismissed bool
	OnDismiss func()

	content string
	width   int
}

func NewTextOverlay(content string) *TextOverlay {
	return &TextOverlay{content: content, width: 60}
}

// HandleKeyPress dismisses the overlay. It always returns true.
func (t *TextOverlay) HandleKeyPress(msg tea.KeyMsg) bool {
	t.Dismissed = true
	if t.OnDismiss != nil {
		t.OnDismiss()
	}
	return true
}

func (t *TextOverlay) SetWidth(width int) {
	t.width = width
}

func (t *TextOverlay) Render() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(t.width - 2)
	return style.Render(t.content)
}
