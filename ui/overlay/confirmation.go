package overlay

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

// ConfirmationOverlay is a yes/no modal.
type ConfirmationOverlay struct {
	// Dismissed is set once the user answered.
	Dismissed bool
	Title     string
	message   string
	width     int

	OnConfirm func()
	OnCancel  func()

	// ConfirmKey and CancelKey are the key strings that answer the prompt.
	ConfirmKey string
	CancelKey  string
}

// NewConfirmationOverlay creates a confirmation modal with the given title and message.
func NewConfirmationOverlay(title, message string) *ConfirmationOverlay {
	return &ConfirmationOverlay{
		Title:      title,
		message:    message,
		width:      50,
		ConfirmKey: "y",
		CancelKey:  "n",
	}
}

// Message returns the question shown to the user.
func (c *ConfirmationOverlay) Message() string {
	return c.message
}

// HandleKeyPress answers the prompt. Returns true once the overlay should close.
func (c *ConfirmationOverlay) HandleKeyPress(msg tea.KeyMsg) bool {
	switch msg.String() {
	case c.ConfirmKey, "enter":
		c.Dismissed = true
		if c.OnConfirm != nil {
			c.OnConfirm()
		}
		return true
	case c.CancelKey, "esc":
		c.Dismissed = true
		if c.OnCancel != nil {
			c.OnCancel()
		}
		return true
	default:
		return false
	}
}

// SetWidth sets the outer width of the modal, border included.
func (c *ConfirmationOverlay) SetWidth(width int) {
	c.width = width
}

// Render renders the modal.
func (c *ConfirmationOverlay) Render() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#de613e")).
		Padding(1, 2).
		Width(c.width - 2)

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#de613e")).
		Bold(true).
		MarginBottom(1)

	hintStyle := lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#9C9C9C", Dark: "#777777"})

	// Border and padding take six columns.
	inner := max(c.width-6, 10)
	body := wordwrap.String(c.message, inner)

	var b strings.Builder
	if c.Title != "" {
		b.WriteString(titleStyle.Render(c.Title))
		b.WriteString("\n")
	}
	b.WriteString(body)
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("Press " + c.ConfirmKey + " to confirm, " + c.CancelKey + " or esc to cancel"))

	return style.Render(b.String())
}
