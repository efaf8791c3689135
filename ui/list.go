package ui

import (
	"fmt"
	"strings"
	"time"

	"more-shortcuts/config"
	"more-shortcuts/keys"
	"more-shortcuts/log"
	"more-shortcuts/shortcut"
	"more-shortcuts/ui/debounce"
	"more-shortcuts/ui/fuzzy"
	"more-shortcuts/ui/overlay"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// SelectedKey is the state value remembering the selected shortcut by name.
const SelectedKey = "ui.selected_shortcut"

// selectionSaveDelay batches selection writes while the user scrolls.
const selectionSaveDelay = 300 * time.Millisecond

var titleStyle = lipgloss.NewStyle().
	Padding(1, 1, 0, 1).
	Foreground(lipgloss.AdaptiveColor{Light: "#1a1a1a", Dark: "#dddddd"})

var listDescStyle = lipgloss.NewStyle().
	Padding(0, 1, 1, 1).
	Foreground(lipgloss.AdaptiveColor{Light: "#A49FA5", Dark: "#777777"})

var selectedTitleStyle = lipgloss.NewStyle().
	Padding(1, 1, 0, 1).
	Background(lipgloss.Color("#dde4f0")).
	Foreground(lipgloss.AdaptiveColor{Light: "#1a1a1a", Dark: "#1a1a1a"})

var selectedDescStyle = lipgloss.NewStyle().
	Padding(0, 1, 1, 1).
	Background(lipgloss.Color("#dde4f0")).
	Foreground(lipgloss.AdaptiveColor{Light: "#1a1a1a", Dark: "#1a1a1a"})

var mainTitle = lipgloss.NewStyle().
	Background(lipgloss.Color("62")).
	Foreground(lipgloss.Color("230"))

var unboundStyle = lipgloss.NewStyle().
	Foreground(lipgloss.AdaptiveColor{Light: "#888888", Dark: "#888888"})

var shadowWarningStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#ffaa00"))

// shortcutItem adapts a shortcut to the fuzzy filter.
type shortcutItem struct{ s *shortcut.Shortcut }

func (i shortcutItem) GetSearchText() string { return i.s.Name }
func (i shortcutItem) GetID() string         { return i.s.Name }

// List is the settings page: one row per registered shortcut.
type List struct {
	registry *shortcut.Registry
	state    config.ValueStore
	saver    *debounce.Debouncer

	items         []*shortcut.Shortcut
	selectedIdx   int
	scrollOffset  int
	height, width int

	searchMode  bool
	searchQuery string

	// rebind is the binding control of the row being captured, if any.
	rebind *overlay.BindingControl
}

// NewList creates the list. state may be nil, in which case the selection is
// not remembered across runs.
func NewList(registry *shortcut.Registry, state config.ValueStore) *List {
	l := &List{registry: registry, state: state, saver: debounce.New(selectionSaveDelay)}
	l.Refresh()
	l.loadUIState()
	return l
}

// SetSize sets the height and width of the list.
func (l *List) SetSize(width, height int) {
	l.width = width
	l.height = height
}

// Refresh rebuilds the rows from the registry, keeping the selection on the
// same shortcut when it still exists.
func (l *List) Refresh() {
	selected := l.GetSelected()

	all := l.registry.Shortcuts()
	if l.searchQuery == "" {
		l.items = all
	} else {
		searchItems := make([]fuzzy.SearchItem, len(all))
		for i, s := range all {
			searchItems[i] = shortcutItem{s}
		}
		results := fuzzy.Search(l.searchQuery, searchItems, fuzzy.DefaultConfig())
		l.items = make([]*shortcut.Shortcut, len(results))
		for i, r := range results {
			l.items[i] = r.Item.(shortcutItem).s
		}
	}

	l.selectedIdx = 0
	for i, s := range l.items {
		if s == selected {
			l.selectedIdx = i
			break
		}
	}
	l.ensureSelectedVisible()
}

// NumShortcuts returns the number of rows shown.
func (l *List) NumShortcuts() int {
	return len(l.items)
}

// GetSelected returns the selected shortcut, or nil when the list is empty.
func (l *List) GetSelected() *shortcut.Shortcut {
	if l.selectedIdx < 0 || l.selectedIdx >= len(l.items) {
		return nil
	}
	return l.items[l.selectedIdx]
}

// Up selects the previous row.
func (l *List) Up() {
	if l.selectedIdx > 0 {
		l.selectedIdx--
		l.saveUIState()
	}
	l.ensureSelectedVisible()
}

// Down selects the next row.
func (l *List) Down() {
	if l.selectedIdx < len(l.items)-1 {
		l.selectedIdx++
		l.saveUIState()
	}
	l.ensureSelectedVisible()
}

// RebindSelected returns a binding control for the selected, registered
// shortcut. A capture on it changes and saves the shortcut directly.
func (l *List) RebindSelected() *overlay.BindingControl {
	s := l.GetSelected()
	if s == nil {
		return nil
	}
	l.rebind = overlay.NewBindingControl(s)
	return l.rebind
}

// EnterSearchMode starts filtering rows by name.
func (l *List) EnterSearchMode() {
	l.searchMode = true
}

// ExitSearchMode stops filtering and shows every row again.
func (l *List) ExitSearchMode() {
	l.searchMode = false
	l.searchQuery = ""
	l.Refresh()
}

// IsInSearchMode reports whether the search prompt is open.
func (l *List) IsInSearchMode() bool {
	return l.searchMode
}

// SetSearchQuery filters the rows.
func (l *List) SetSearchQuery(query string) {
	l.searchQuery = query
	l.Refresh()
}

// HandleSearchKeyPress edits the filter while the search prompt is open.
// Enter keeps the filter and closes the prompt; esc clears it. Returns
// whether the key was handled.
func (l *List) HandleSearchKeyPress(msg tea.KeyMsg) bool {
	if !l.searchMode {
		return false
	}
	switch msg.Type {
	case tea.KeyEsc:
		l.ExitSearchMode()
	case tea.KeyEnter:
		l.searchMode = false
	case tea.KeyBackspace:
		if r := []rune(l.searchQuery); len(r) > 0 {
			l.SetSearchQuery(string(r[:len(r)-1]))
		}
	case tea.KeyRunes, tea.KeySpace:
		l.SetSearchQuery(l.searchQuery + string(msg.Runes))
	}
	return true
}

// SearchQuery returns the current filter.
func (l *List) SearchQuery() string {
	return l.searchQuery
}

func (l *List) loadUIState() {
	if l.state == nil {
		return
	}
	name, ok := l.state.Get(SelectedKey)
	if !ok {
		return
	}
	for i, s := range l.items {
		if s.Name == name {
			l.selectedIdx = i
			return
		}
	}
}

func (l *List) saveUIState() {
	if l.state == nil {
		return
	}
	s := l.GetSelected()
	if s == nil {
		return
	}
	name := s.Name
	l.saver.Trigger(func() {
		if err := l.state.Set(SelectedKey, name); err != nil {
			log.WarningLog.Printf("failed to save list selection: %v", err)
		}
	})
}

// FlushState writes a selection change that is still waiting to be saved.
func (l *List) FlushState() {
	l.saver.Flush()
}

func (l *List) calculateMaxVisibleItems() int {
	// Title area takes four lines, each row three.
	return max((l.height-4)/3, 1)
}

func (l *List) ensureSelectedVisible() {
	maxVisible := l.calculateMaxVisibleItems()
	if l.selectedIdx < l.scrollOffset {
		l.scrollOffset = l.selectedIdx
	}
	if l.selectedIdx >= l.scrollOffset+maxVisible {
		l.scrollOffset = l.selectedIdx - maxVisible + 1
	}
	l.scrollOffset = max(min(l.scrollOffset, len(l.items)-1), 0)
}

func (l *List) getScrollIndicator() string {
	total := l.registry.Len()
	maxVisible := l.calculateMaxVisibleItems()
	if l.searchQuery != "" && len(l.items) <= maxVisible {
		return fmt.Sprintf(" [%d/%d]", len(l.items), total)
	}
	if len(l.items) <= maxVisible {
		return ""
	}
	end := min(l.scrollOffset+maxVisible, len(l.items))
	return fmt.Sprintf(" [%d-%d/%d]", l.scrollOffset+1, end, len(l.items))
}

// bindingLabel is the label shown for s: the capture prompt while its row is
// being rebound, the chord otherwise.
func (l *List) bindingLabel(s *shortcut.Shortcut) string {
	if l.rebind != nil && l.rebind.Target() == s && l.rebind.Grabbed() {
		return l.rebind.Label()
	}
	return s.Binding()
}

func (l *List) renderItem(s *shortcut.Shortcut, selected bool) string {
	ts, ds := titleStyle, listDescStyle
	if selected {
		ts, ds = selectedTitleStyle, selectedDescStyle
	}
	inner := max(l.width-2, 10)

	binding := l.bindingLabel(s)
	if !s.InputKey.IsBound() && !selected {
		binding = unboundStyle.Render(binding)
	}
	bindingWidth := lipgloss.Width(binding)
	name := runewidth.Truncate(s.Name, max(inner-bindingWidth-1, 1), "…")
	gap := max(inner-runewidth.StringWidth(name)-bindingWidth, 1)
	title := name + strings.Repeat(" ", gap) + binding

	var flags []string
	if s.UsePath {
		flags = append(flags, "path")
	}
	if s.OnlyVisible {
		flags = append(flags, "visible")
	}
	desc := s.Component
	if len(flags) > 0 {
		desc += " (" + strings.Join(flags, ", ") + ")"
	}
	var warning string
	if shadowed := keys.Shadowed(s.InputKey); len(shadowed) > 0 {
		warning = " ⚠ hides " + keys.GlobalkeyBindings[shadowed[0]].Help().Key
	}
	desc = runewidth.Truncate(desc, max(inner-runewidth.StringWidth(warning), 1), "…")
	if warning != "" {
		desc += shadowWarningStyle.Render(warning)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		ts.Width(l.width).Render(title),
		ds.Width(l.width).Render(desc),
	)
}

func (l *List) String() string {
	l.ensureSelectedVisible()

	titleText := " Shortcuts"
	if l.searchMode || l.searchQuery != "" {
		titleText += fmt.Sprintf(" (/%s)", l.searchQuery)
	}
	titleText += l.getScrollIndicator() + " "

	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(lipgloss.Place(l.width, 1, lipgloss.Left, lipgloss.Bottom, mainTitle.Render(titleText)))
	b.WriteString("\n\n")

	if len(l.items) == 0 {
		msg := "No shortcuts yet. Press " + keys.HighlightKey() + " in the scene to add one."
		if l.searchQuery != "" {
			msg = "No shortcut matches the filter."
		}
		b.WriteString(listDescStyle.Render(msg))
		return lipgloss.Place(l.width, l.height, lipgloss.Left, lipgloss.Top, b.String())
	}

	end := min(l.scrollOffset+l.calculateMaxVisibleItems(), len(l.items))
	for i := l.scrollOffset; i < end; i++ {
		b.WriteString(l.renderItem(l.items[i], i == l.selectedIdx))
		b.WriteString("\n")
	}
	return lipgloss.Place(l.width, l.height, lipgloss.Left, lipgloss.Top, b.String())
}
