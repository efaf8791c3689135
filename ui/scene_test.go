package ui

import (
	"strings"
	"testing"

	"more-shortcuts/chord"
	"more-shortcuts/shortcut"
	"more-shortcuts/widget"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScene(t *testing.T) (*Scene, *widget.Tree, *shortcut.Registry) {
	t.Helper()
	tree := DemoScene()
	reg, _ := newTestRegistry(t)
	s := NewScene(tree, reg)
	s.SetSize(60, 40)
	return s, tree, reg
}

func rowNames(s *Scene) []string {
	names := make([]string, len(s.rows))
	for i, n := range s.rows {
		names[i] = n.Name()
	}
	return names
}

func moveTo(t *testing.T, s *Scene, name string) {
	t.Helper()
	for i, n := range s.rows {
		if n.Name() == name {
			s.cursor = i
			return
		}
	}
	t.Fatalf("no row for %s", name)
}

func TestSceneRowsSkipHiddenPanels(t *testing.T) {
	s, tree, _ := newTestScene(t)

	assert.Equal(t, []string{
		"MainToolbar", "Roads", "Zoning", "Bulldozer", "Unlock",
		"Controls", "SpeedLabel", "Speed", "Pause", "ShowGrid", "Search",
	}, rowNames(s))

	moveTo(t, s, "Roads")
	clicked := s.Click()
	require.NotNil(t, clicked)
	assert.Equal(t, 1, tree.Find("Roads").Clicks())
	assert.Contains(t, rowNames(s), "RoadsPanel")
	assert.Equal(t, "Roads", s.Selected().Name(), "the cursor stays on the clicked widget")

	// The panel's Close button hides it again
	moveTo(t, s, "Close")
	s.Click()
	assert.NotContains(t, rowNames(s), "RoadsPanel")
	assert.NotContains(t, rowNames(s), "Close")
}

func TestSceneNavigation(t *testing.T) {
	s, _, _ := newTestScene(t)

	s.Up()
	assert.Equal(t, "MainToolbar", s.Selected().Name())
	s.Down()
	assert.Equal(t, "Roads", s.Selected().Name())
	for range 20 {
		s.Down()
	}
	assert.Equal(t, "Search", s.Selected().Name())

	assert.False(t, s.SelectRow(0), "header lines hold no widget")
	assert.True(t, s.SelectRow(sceneHeaderLines+3))
	assert.Equal(t, "Bulldozer", s.Selected().Name())
	assert.False(t, s.SelectRow(sceneHeaderLines+100))
	assert.Equal(t, "Bulldozer", s.Selected().Name())
}

func TestSceneClick(t *testing.T) {
	tests := []struct {
		name    string
		row     string
		clicked string
		check   func(t *testing.T, tree *widget.Tree)
	}{
		{
			name:    "button",
			row:     "Bulldozer",
			clicked: "Bulldozer",
			check: func(t *testing.T, tree *widget.Tree) {
				assert.Equal(t, 1, tree.Find("Bulldozer").Clicks())
			},
		},
		{
			name:    "check box toggles",
			row:     "ShowGrid",
			clicked: "ShowGrid",
			check: func(t *testing.T, tree *widget.Tree) {
				assert.True(t, tree.Find("ShowGrid").Checked())
			},
		},
		{
			name:    "multi-state button cycles",
			row:     "Speed",
			clicked: "Speed",
			check: func(t *testing.T, tree *widget.Tree) {
				assert.Equal(t, 1, tree.Find("Speed").State())
			},
		},
		{
			name:    "disabled button",
			row:     "Unlock",
			clicked: "Unlock",
			check: func(t *testing.T, tree *widget.Tree) {
				assert.Equal(t, 0, tree.Find("Unlock").Clicks())
				assert.Equal(t, 1, tree.Find("Unlock").DisabledClicks())
			},
		},
		{
			name: "label without activatable ancestor",
			row:  "SpeedLabel",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, tree, _ := newTestScene(t)
			moveTo(t, s, tt.row)
			got := s.Click()
			if tt.clicked == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.clicked, got.Name())
			tt.check(t, tree)
		})
	}
}

func TestSceneTextField(t *testing.T) {
	s, tree, _ := newTestScene(t)
	search := tree.Find("Search")

	assert.False(t, s.HandleTextKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}))
	assert.Nil(t, s.Focused())

	moveTo(t, s, "Search")
	assert.Equal(t, widget.Widget(search), s.Click())
	require.True(t, s.Editing())
	assert.Equal(t, widget.Widget(search), s.Focused())

	s.HandleTextKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ro")})
	s.HandleTextKey(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	s.HandleTextKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	s.HandleTextKey(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "ro ", search.Text())
	assert.Contains(t, ansi.Strip(s.String()), "Search: [ro ")

	assert.True(t, s.HandleTextKey(tea.KeyMsg{Type: tea.KeyEsc}))
	assert.False(t, s.Editing())

	search.SetEnabled(false)
	s.Click()
	assert.False(t, s.Editing(), "a disabled text field takes no focus")
}

func TestSceneHighlight(t *testing.T) {
	s, _, _ := newTestScene(t)
	moveTo(t, s, "Bulldozer")

	assert.Nil(t, s.Highlighted())
	assert.Empty(t, s.Tooltip())

	s.ToggleHighlight()
	require.True(t, s.Highlighting())
	require.NotNil(t, s.Highlighted())
	assert.Equal(t, "Bulldozer", s.Highlighted().Name())
	assert.Equal(t, TooltipPrefix+"Bulldozer", s.Tooltip())
	out := ansi.Strip(s.String())
	assert.Contains(t, out, "HIGHLIGHT")
	assert.Contains(t, out, "Click to add a shortcut to")

	// Labels and panels have nothing to highlight
	moveTo(t, s, "SpeedLabel")
	assert.Nil(t, s.Highlighted())
	assert.Empty(t, s.Tooltip())

	s.ToggleHighlight()
	assert.False(t, s.Highlighting())

	t.Run("disabled capture", func(t *testing.T) {
		s, _, _ := newTestScene(t)
		s.ToggleHighlight()
		s.SetCaptureEnabled(false)
		assert.False(t, s.Highlighting())
		assert.False(t, s.CaptureEnabled())

		s.ToggleHighlight()
		assert.False(t, s.Highlighting())
		assert.Nil(t, s.Highlighted())
	})
}

func TestSceneShowsBindingsAndFired(t *testing.T) {
	s, tree, reg := newTestScene(t)
	bulldozer := tree.Find("Bulldozer")

	sc := shortcut.FromWidget(bulldozer, reg, tree)
	sc.InputKey = chord.Encode(chord.Letter('b'), true, false, false)
	reg.Add(sc)
	require.NoError(t, reg.Save())

	out := ansi.Strip(s.String())
	assert.Contains(t, out, "[ Bulldozer ]  Ctrl+B")

	s.MarkFired([]widget.Widget{bulldozer})
	assert.Contains(t, ansi.Strip(s.String()), "[ Bulldozer ] ✓")

	s.ClearFired()
	assert.NotContains(t, ansi.Strip(s.String()), "✓")
}

func TestSceneFitsWidth(t *testing.T) {
	s, _, _ := newTestScene(t)
	s.SetSize(12, 40)
	for _, line := range strings.Split(s.String(), "\n") {
		assert.LessOrEqual(t, ansi.StringWidth(line), 12)
	}
}

func TestErrBox(t *testing.T) {
	e := NewErrBox()
	e.SetSize(20, 1)

	e.SetInfo("Saved shortcut")
	assert.Contains(t, ansi.Strip(e.String()), "Saved shortcut")

	e.SetError(assert.AnError)
	out := ansi.Strip(e.String())
	assert.NotContains(t, out, "Saved shortcut")
	assert.Contains(t, out, "…", "long messages are cut to the width")
	assert.LessOrEqual(t, ansi.StringWidth(out), 20)

	e.SetInfo("first\nsecond")
	assert.NotContains(t, ansi.Strip(e.String()), "second")

	e.Clear()
	assert.Empty(t, strings.TrimSpace(ansi.Strip(e.String())))
}

func TestMenuFollowsState(t *testing.T) {
	m := NewMenu()
	m.SetSize(200, 1)

	assert.Contains(t, ansi.Strip(m.String()), "highlight")

	m.SetState(MenuList)
	assert.Equal(t, MenuList, m.State())
	out := ansi.Strip(m.String())
	assert.Contains(t, out, "rebind")
	assert.Contains(t, out, "delete")

	m.SetState(MenuCapture)
	out = ansi.Strip(m.String())
	assert.Contains(t, out, "unbind")
	assert.NotContains(t, out, "rebind")
}
