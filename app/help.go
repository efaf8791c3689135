package app

import (
	"strconv"
	"strings"

	"more-shortcuts/keys"
	"more-shortcuts/log"
	"more-shortcuts/ui/overlay"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// helpSeenKey is the state value holding the bit mask of help screens seen.
const helpSeenKey = "ui.help_seen"

type helpText interface {
	// toContent returns the help UI content.
	toContent() string
	// mask returns the bit mask for this help text. These are used to track which help screens
	// have been seen in the app state.
	mask() uint32
}

type helpTypeGeneral struct{}

type helpTypeWelcome struct{}

type helpTypeHighlight struct{}

func (h helpTypeGeneral) toContent() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("More Shortcuts"),
		"",
		"Bind any key to any button of the scene. Pressing the key clicks the button.",
		"",
	)

	for _, category := range keys.GetAllCategories() {
		content = lipgloss.JoinVertical(lipgloss.Left,
			content,
			headerStyle.Render(string(category)+":"),
		)
		for _, keyName := range keys.GetKeysInCategory(category) {
			keyText := keys.GlobalkeyBindings[keyName].Help().Key
			padding := strings.Repeat(" ", max(12-len(keyText), 1))
			keyLine := keyStyle.Render(keyText) + padding + descStyle.Render("- "+keys.GetKeyHelp(keyName).Description)
			content = lipgloss.JoinVertical(lipgloss.Left, content, keyLine)
		}
		content = lipgloss.JoinVertical(lipgloss.Left, content, "")
	}
	return content
}

func (h helpTypeWelcome) toContent() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Welcome"),
		"",
		descStyle.Render("The left pane is a sample scene of buttons. To add a shortcut:"),
		"",
		keyStyle.Render(keys.HighlightKey())+descStyle.Render("  - highlight the button under the cursor"),
		keyStyle.Render("↵")+descStyle.Render("       - open the shortcut editor and press the key to bind"),
		keyStyle.Render("tab")+descStyle.Render("     - manage every shortcut in the list"),
		"",
		descStyle.Render("Press ")+keyStyle.Render("?")+descStyle.Render(" at any time for every key."),
	)
}

func (h helpTypeHighlight) toContent() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Highlight Mode"),
		"",
		descStyle.Render("Move the cursor onto a button. Press enter or click it to add a shortcut."),
		descStyle.Render("Labels and panels pass the click on to the nearest button above them."),
		"",
		keyStyle.Render("esc")+descStyle.Render(" - leave highlight mode"),
	)
}

func (h helpTypeGeneral) mask() uint32 {
	return 1
}

func (h helpTypeWelcome) mask() uint32 {
	return 1 << 1
}

func (h helpTypeHighlight) mask() uint32 {
	return 1 << 2
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("#7D56F4"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#36CFC9"))
	keyStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFCC00"))
	descStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
)

func (m *home) helpScreensSeen() uint32 {
	if m.appState == nil {
		return 0
	}
	v, ok := m.appState.Get(helpSeenKey)
	if !ok {
		return 0
	}
	seen, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		log.WarningLog.Printf("ignoring malformed %s value %q", helpSeenKey, v)
		return 0
	}
	return uint32(seen)
}

// showHelpScreen displays the help screen overlay if it hasn't been shown before
func (m *home) showHelpScreen(helpType helpText) tea.Cmd {
	_, alwaysShow := helpType.(helpTypeGeneral)

	flag := helpType.mask()
	seen := m.helpScreensSeen()
	if !alwaysShow && seen&flag != 0 {
		return nil
	}

	if m.appState != nil {
		if err := m.appState.Set(helpSeenKey, strconv.FormatUint(uint64(seen|flag), 10)); err != nil {
			log.WarningLog.Printf("failed to save help screen state: %v", err)
		}
	}

	m.textOverlay = overlay.NewTextOverlay(helpType.toContent())
	m.helpReturn = m.state
	m.state = stateHelp
	m.sizeOverlays()
	return nil
}

// handleHelpState handles key events when in help state
func (m *home) handleHelpState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key press will close the help overlay
	if m.textOverlay == nil || m.textOverlay.HandleKeyPress(msg) {
		m.textOverlay = nil
		m.state = m.helpReturn
	}
	return m, nil
}
