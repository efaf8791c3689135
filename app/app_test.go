package app

import (
	"context"
	"errors"
	"testing"

	"more-shortcuts/chord"
	"more-shortcuts/config"
	"more-shortcuts/shortcut"
	"more-shortcuts/widget"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var namedKeys = map[string]tea.KeyType{
	"enter":  tea.KeyEnter,
	"esc":    tea.KeyEsc,
	"tab":    tea.KeyTab,
	"down":   tea.KeyDown,
	"ctrl+a": tea.KeyCtrlA,
	"ctrl+b": tea.KeyCtrlB,
	"ctrl+e": tea.KeyCtrlE,
	"ctrl+s": tea.KeyCtrlS,
}

func press(m *home, keys ...string) {
	for _, k := range keys {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		if t, ok := namedKeys[k]; ok {
			msg = tea.KeyMsg{Type: t}
		}
		m.Update(msg)
	}
}

// testScene is a toolbar with two buttons, a hidden panel and a text field:
//
//	Toolbar
//	  Bulldozer
//	  Roads
//	  RoadsPanel (hidden)
//	    Build
//	  Search
func testScene() *widget.Tree {
	panel := widget.NewNode(widget.KindPanel, "RoadsPanel").SetVisible(false).Add(
		widget.NewNode(widget.KindButton, "Build"),
	)
	toolbar := widget.NewNode(widget.KindPanel, "Toolbar").Add(
		widget.NewNode(widget.KindButton, "Bulldozer"),
		widget.NewNode(widget.KindButton, "Roads").OnClick(func(*widget.Node) {
			panel.SetVisible(!panel.Shown())
		}),
		panel,
		widget.NewNode(widget.KindTextField, "Search"),
	)
	return widget.NewTree(toolbar)
}

func newTestHome(t *testing.T, cfg *config.Config) (*home, *config.State) {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	st := config.NewState(t.TempDir())
	t.Cleanup(func() { st.Close() })

	h := newHome(context.Background(), cfg, st, testScene())
	t.Cleanup(h.list.FlushState)
	h.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return h, st
}

func bind(t *testing.T, h *home, widgetName string, c chord.Chord) *shortcut.Shortcut {
	t.Helper()
	w := h.tree.Find(widgetName)
	require.NotNil(t, w)
	s := shortcut.FromWidget(w, h.registry, h.tree)
	s.InputKey = c
	h.registry.Add(s)
	require.NoError(t, h.registry.Save())
	h.list.Refresh()
	return s
}

func ctrl(r rune) chord.Chord {
	return chord.Encode(chord.Letter(r), true, false, false)
}

func TestHighlightCreatesShortcutThatFires(t *testing.T) {
	h, st := newTestHome(t, nil)
	bulldozer := h.tree.Find("Bulldozer")

	press(h, "down", "ctrl+a")
	// First use of highlight mode explains it
	require.Equal(t, stateHelp, h.state)
	press(h, "x")
	require.Equal(t, stateDefault, h.state)
	require.True(t, h.scene.Highlighting())

	press(h, "enter")
	require.Equal(t, stateEditor, h.state)
	require.True(t, h.capture.Capturing(), "the binding is captured as soon as the editor opens")
	assert.False(t, h.scene.Highlighting())

	press(h, "ctrl+b")
	assert.False(t, h.capture.Capturing())
	assert.Equal(t, 0, h.registry.Len(), "the working copy is not registered before OK")

	// Binding -> UsePath -> OnlyVisible -> OK
	press(h, "tab", "tab", "tab", "enter")
	require.Equal(t, stateDefault, h.state)
	require.Equal(t, 1, h.registry.Len())
	s := h.registry.Shortcuts()[0]
	assert.Equal(t, "Bulldozer", s.Name)
	assert.Equal(t, ctrl('b'), s.InputKey)

	blob, ok := st.Get(shortcut.StoreKey)
	require.True(t, ok)
	assert.Contains(t, blob, "Bulldozer")

	press(h, "ctrl+b")
	assert.Equal(t, 1, bulldozer.Clicks())
}

func TestFocusedTextFieldSuppressesShortcuts(t *testing.T) {
	h, _ := newTestHome(t, nil)
	bind(t, h, "Bulldozer", chord.Encode(chord.Letter('x'), false, false, false))
	bulldozer := h.tree.Find("Bulldozer")
	search := h.tree.Find("Search")

	// Toolbar, Bulldozer, Roads, Search: the hidden panel has no row
	press(h, "down", "down", "down", "enter")
	require.True(t, h.scene.Editing())

	press(h, "x")
	assert.Equal(t, "x", search.Text())
	assert.Equal(t, 0, bulldozer.Clicks())

	press(h, "esc", "x")
	assert.False(t, h.scene.Editing())
	assert.Equal(t, 1, bulldozer.Clicks())
}

func TestShortcutShadowsHostKey(t *testing.T) {
	h, _ := newTestHome(t, nil)
	bind(t, h, "Roads", chord.Encode(chord.Letter('q'), false, false, false))

	press(h, "q")
	assert.Equal(t, 1, h.tree.Find("Roads").Clicks())
	assert.True(t, h.tree.Find("RoadsPanel").Shown())
}

func TestRebindConflictFromList(t *testing.T) {
	h, st := newTestHome(t, nil)
	first := bind(t, h, "Bulldozer", ctrl('b'))
	second := bind(t, h, "Roads", ctrl('e'))

	press(h, "tab")
	require.Equal(t, stateList, h.state)
	require.Equal(t, first, h.list.GetSelected())

	press(h, "b")
	require.True(t, h.capture.Capturing())

	press(h, "ctrl+e")
	require.Equal(t, stateConfirm, h.state)
	assert.Contains(t, h.confirmationOverlay.Message(), "is already bound to "+second.Name)
	// Keys do not reach the capture while the prompt is open
	assert.Equal(t, ctrl('b'), first.InputKey)

	press(h, "y")
	assert.Equal(t, stateList, h.state)
	assert.False(t, h.capture.Capturing())
	assert.Equal(t, ctrl('e'), first.InputKey)
	assert.Equal(t, chord.None, second.InputKey)

	reloaded := shortcut.NewRegistry(st)
	reloaded.Load()
	require.Equal(t, 2, reloaded.Len())
	assert.Equal(t, ctrl('e'), reloaded.FindByName(first.Name).InputKey)
	assert.Equal(t, chord.None, reloaded.FindByName(second.Name).InputKey)
}

func TestRebindDeclineKeepsBoth(t *testing.T) {
	h, _ := newTestHome(t, nil)
	first := bind(t, h, "Bulldozer", ctrl('b'))
	second := bind(t, h, "Roads", ctrl('e'))

	press(h, "tab", "b", "ctrl+e", "n")
	assert.Equal(t, stateList, h.state)
	assert.False(t, h.capture.Capturing())
	assert.Equal(t, ctrl('b'), first.InputKey)
	assert.Equal(t, ctrl('e'), second.InputKey)
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	h, _ := newTestHome(t, nil)
	bind(t, h, "Bulldozer", ctrl('b'))

	press(h, "tab", "D")
	require.Equal(t, stateConfirm, h.state)
	assert.Equal(t, "Delete Shortcut", h.confirmationOverlay.Title)
	assert.Equal(t, "Are you sure you want to delete the [Bulldozer] shortcut?", h.confirmationOverlay.Message())

	press(h, "n")
	assert.Equal(t, stateList, h.state)
	assert.Equal(t, 1, h.registry.Len())

	press(h, "D", "y")
	assert.Equal(t, stateList, h.state)
	assert.Equal(t, 0, h.registry.Len())
	assert.Nil(t, h.list.GetSelected())
}

func TestEditorCancelDiscardsWorkingCopy(t *testing.T) {
	h, _ := newTestHome(t, nil)

	press(h, "down", "n")
	require.Equal(t, stateEditor, h.state)
	press(h, "ctrl+b", "esc")

	assert.Equal(t, stateDefault, h.state)
	assert.Nil(t, h.editor)
	assert.Equal(t, 0, h.registry.Len())
}

func TestEditorEditsExistingShortcut(t *testing.T) {
	h, _ := newTestHome(t, nil)
	s := bind(t, h, "Bulldozer", ctrl('b'))

	press(h, "tab", "enter")
	require.Equal(t, stateEditor, h.state)
	assert.Same(t, s, h.editor.Target())
	assert.False(t, h.capture.Capturing(), "opening from the list does not start a capture")

	// Binding -> UsePath, toggle it, then OK
	press(h, "tab", "enter", "tab", "tab", "enter")
	assert.Equal(t, stateList, h.state)
	assert.Equal(t, 1, h.registry.Len())
	assert.True(t, s.UsePath)
}

func TestDisableCapture(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DisableCapture = true
	h, _ := newTestHome(t, cfg)

	press(h, "ctrl+a")
	assert.False(t, h.scene.Highlighting())
	assert.Equal(t, stateDefault, h.state)

	press(h, "down", "n")
	assert.Nil(t, h.editor)
}

func TestExternalChangeReloadsOnlyWhenIdle(t *testing.T) {
	h, st := newTestHome(t, nil)

	other := shortcut.NewRegistry(st)
	other.Load()
	other.Add(&shortcut.Shortcut{Name: "Build", Component: "Build", InputKey: ctrl('b')})
	require.NoError(t, other.Save())

	h.Update(stateChangedMsg{})
	assert.Equal(t, 1, h.registry.Len())

	other.Add(&shortcut.Shortcut{Name: "Roads", Component: "Roads", InputKey: ctrl('e')})
	require.NoError(t, other.Save())

	press(h, "down", "n")
	require.Equal(t, stateEditor, h.state)
	h.Update(stateChangedMsg{})
	assert.Equal(t, 1, h.registry.Len(), "no reload under an open editor")
	assert.True(t, h.pendingReload)

	press(h, "esc", "esc")
	assert.Equal(t, stateDefault, h.state)
	assert.Equal(t, 2, h.registry.Len())
	assert.False(t, h.pendingReload)
}

func TestYAMLEditor(t *testing.T) {
	h, _ := newTestHome(t, nil)
	bind(t, h, "Bulldozer", ctrl('b'))

	press(h, "tab", "e")
	require.Equal(t, stateYAML, h.state)
	assert.Contains(t, h.yamlEditor.Value(), "Bulldozer")

	press(h, "ctrl+s")
	assert.Equal(t, stateList, h.state)
	require.Equal(t, 1, h.registry.Len())
	assert.Equal(t, ctrl('b'), h.registry.Shortcuts()[0].InputKey)
}

func TestYAMLEditorKeepsInvalidText(t *testing.T) {
	h, _ := newTestHome(t, nil)
	bind(t, h, "Bulldozer", ctrl('b'))

	press(h, "tab", "e", "[", "ctrl+s")
	require.Equal(t, stateYAML, h.state, "a document that does not parse stays in the editor")
	require.NotNil(t, h.yamlEditor)
	assert.Error(t, h.yamlEditor.Err())
	assert.Equal(t, 1, h.registry.Len())

	press(h, "esc")
	assert.Equal(t, stateList, h.state)
	assert.Equal(t, ctrl('b'), h.registry.Shortcuts()[0].InputKey)
}

func TestHelpScreens(t *testing.T) {
	h, st := newTestHome(t, nil)

	h.Init()
	require.Equal(t, stateHelp, h.state, "the welcome screen shows on first run")
	press(h, "x")
	assert.Equal(t, stateDefault, h.state)

	h2 := newHome(context.Background(), config.DefaultConfig(), st, testScene())
	h2.Init()
	assert.Equal(t, stateDefault, h2.state, "the welcome screen shows once")

	press(h, "?")
	assert.Equal(t, stateHelp, h.state)
	assert.Contains(t, h.textOverlay.Render(), "Shortcuts:")
}

func TestErrorsShowInStatusBar(t *testing.T) {
	h, _ := newTestHome(t, nil)

	h.Update(errors.New("clipboard unavailable"))
	assert.Contains(t, h.errBox.String(), "clipboard unavailable")

	h.Update(hideErrMsg{})
	assert.NotContains(t, h.errBox.String(), "clipboard unavailable")
}

func TestView(t *testing.T) {
	h, _ := newTestHome(t, nil)
	bind(t, h, "Bulldozer", ctrl('b'))

	view := h.View()
	assert.Contains(t, view, "Scene")
	assert.Contains(t, view, "Shortcuts")
	assert.Contains(t, view, "Bulldozer")

	press(h, "tab", "D")
	assert.Contains(t, h.View(), "Delete Shortcut")
}
