package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var errStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF0000", Dark: "#FF0000"})

var infoStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#51bd73", Dark: "#51bd73"})

// ErrBox is the one-line status bar above the menu. It shows the last error
// or an informational message.
type ErrBox struct {
	height, width int
	err           error
	info          string
}

func NewErrBox() *ErrBox {
	return &ErrBox{}
}

func (e *ErrBox) SetError(err error) {
	e.err = err
	e.info = ""
}

// SetInfo shows a non-error message.
func (e *ErrBox) SetInfo(msg string) {
	e.err = nil
	e.info = msg
}

func (e *ErrBox) Clear() {
	e.err = nil
	e.info = ""
}

func (e *ErrBox) SetSize(width, height int) {
	e.width = width
	e.height = height
}

func (e *ErrBox) String() string {
	var msg string
	style := infoStyle
	switch {
	case e.err != nil:
		msg = e.err.Error()
		style = errStyle
	case e.info != "":
		msg = e.info
	}
	// Only the first line fits.
	msg, _, _ = strings.Cut(msg, "\n")
	if e.width > 0 {
		msg = runewidth.Truncate(msg, e.width-2, "…")
	}
	return lipgloss.Place(e.width, e.height, lipgloss.Center, lipgloss.Top, style.Render(msg))
}
