package ui

import (
	"strings"

	"more-shortcuts/dispatch"
	"more-shortcuts/shortcut"
	"more-shortcuts/widget"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// TooltipPrefix starts the tooltip shown over a highlighted widget.
const TooltipPrefix = "Click to add a shortcut to\n"

// sceneHeaderLines is the number of lines above the first widget row.
const sceneHeaderLines = 2

var (
	sceneTitle      = lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230"))
	panelStyle      = lipgloss.NewStyle().Bold(true)
	disabledStyle   = lipgloss.NewStyle().Faint(true)
	cursorStyle     = lipgloss.NewStyle().Background(lipgloss.Color("#dde4f0")).Foreground(lipgloss.Color("#1a1a1a"))
	highlightStyle  = lipgloss.NewStyle().Background(lipgloss.Color("#de613e")).Foreground(lipgloss.Color("230")).Bold(true)
	firedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#51bd73")).Bold(true)
	bindingStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#A49FA5", Dark: "#777777"})
	tooltipStyle    = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("#de613e")).Padding(0, 1)
	editingCursor   = lipgloss.NewStyle().Reverse(true)
	highlightBanner = lipgloss.NewStyle().Foreground(lipgloss.Color("#de613e")).Bold(true)
)

// Scene renders the host's widget tree and moves a cursor over it. It also
// tracks keyboard focus for the dispatcher: a focused text field swallows
// typing.
type Scene struct {
	tree     *widget.Tree
	registry *shortcut.Registry

	rows         []*widget.Node
	cursor       int
	scrollOffset int

	highlight      bool
	captureEnabled bool
	editing        *widget.Node
	fired          map[widget.Widget]bool

	width, height int
}

var _ dispatch.Focus = (*Scene)(nil)

// NewScene creates a scene over tree. registry supplies the binding labels.
func NewScene(tree *widget.Tree, registry *shortcut.Registry) *Scene {
	s := &Scene{
		tree:           tree,
		registry:       registry,
		captureEnabled: true,
		fired:          make(map[widget.Widget]bool),
	}
	s.refreshRows()
	return s
}

// SetSize sets the height and width of the scene.
func (s *Scene) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.ensureCursorVisible()
}

// SetCaptureEnabled turns the highlight affordance on or off. Turning it off
// also leaves highlight mode.
func (s *Scene) SetCaptureEnabled(enabled bool) {
	s.captureEnabled = enabled
	if !enabled {
		s.highlight = false
	}
}

// CaptureEnabled reports whether shortcuts may be added from the scene.
func (s *Scene) CaptureEnabled() bool {
	return s.captureEnabled
}

// refreshRows collects the visible widgets in tree order. Hidden subtrees
// are skipped.
func (s *Scene) refreshRows() {
	current := s.Selected()
	s.rows = s.rows[:0]
	s.tree.Walk(func(n *widget.Node, _ int) bool {
		if !n.Shown() {
			return false
		}
		s.rows = append(s.rows, n)
		return true
	})
	s.cursor = 0
	for i, n := range s.rows {
		if n == current {
			s.cursor = i
			break
		}
	}
	if s.editing != nil && !s.editing.Visible() {
		s.editing = nil
	}
	s.ensureCursorVisible()
}

// Selected returns the widget under the cursor, or nil.
func (s *Scene) Selected() *widget.Node {
	if s.cursor < 0 || s.cursor >= len(s.rows) {
		return nil
	}
	return s.rows[s.cursor]
}

// Up moves the cursor to the previous row.
func (s *Scene) Up() {
	if s.cursor > 0 {
		s.cursor--
	}
	s.ensureCursorVisible()
}

// Down moves the cursor to the next row.
func (s *Scene) Down() {
	if s.cursor < len(s.rows)-1 {
		s.cursor++
	}
	s.ensureCursorVisible()
}

// SelectRow moves the cursor to the widget drawn on screen line y. Returns
// false when no widget is drawn there.
func (s *Scene) SelectRow(y int) bool {
	idx := y - sceneHeaderLines + s.scrollOffset
	if idx < 0 || idx >= len(s.rows) || y < sceneHeaderLines {
		return false
	}
	s.cursor = idx
	return true
}

// Click clicks the widget under the cursor like a left mouse button would:
// an enabled text field takes focus, anything else clicks its nearest
// activatable ancestor. Returns the widget that received the click.
func (s *Scene) Click() widget.Widget {
	n := s.Selected()
	if n == nil {
		return nil
	}
	if n.Kind() == widget.KindTextField && n.Enabled() {
		s.editing = n
		return n
	}
	target := widget.NearestActivatable(n)
	a, ok := target.(widget.Activatable)
	if !ok {
		return nil
	}
	if target.Enabled() {
		a.Activate()
	} else {
		a.ActivateDisabled()
	}
	s.refreshRows()
	return target
}

// ToggleHighlight enters or leaves highlight mode. It does nothing while the
// affordance is disabled.
func (s *Scene) ToggleHighlight() {
	if !s.captureEnabled {
		return
	}
	s.highlight = !s.highlight
}

// Highlighting reports whether highlight mode is on.
func (s *Scene) Highlighting() bool {
	return s.highlight
}

// Highlighted returns the activatable widget a shortcut would be added to,
// or nil when highlight mode is off or nothing under the cursor qualifies.
func (s *Scene) Highlighted() widget.Widget {
	if !s.highlight || !s.captureEnabled {
		return nil
	}
	n := s.Selected()
	if n == nil {
		return nil
	}
	return widget.NearestActivatable(n)
}

// Tooltip returns the highlight tooltip text, or "" when nothing is highlighted.
func (s *Scene) Tooltip() string {
	w := s.Highlighted()
	if w == nil {
		return ""
	}
	return TooltipPrefix + w.Name()
}

// Focused returns the text field being edited.
func (s *Scene) Focused() widget.Widget {
	if s.editing == nil {
		return nil
	}
	return s.editing
}

// IsCaptureControl is always false: binding controls live in overlays and
// the shortcut list, never in the scene.
func (s *Scene) IsCaptureControl(widget.Widget) bool {
	return false
}

// Editing reports whether a text field has focus.
func (s *Scene) Editing() bool {
	return s.editing != nil
}

// HandleTextKey edits the focused text field. Enter and esc give focus back.
// Returns false when no field has focus.
func (s *Scene) HandleTextKey(msg tea.KeyMsg) bool {
	if s.editing == nil {
		return false
	}
	text := []rune(s.editing.Text())
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		s.editing = nil
	case tea.KeyBackspace:
		if len(text) > 0 {
			s.editing.SetText(string(text[:len(text)-1]))
		}
	case tea.KeyRunes, tea.KeySpace:
		s.editing.SetText(string(text) + string(msg.Runes))
	}
	return true
}

// MarkFired remembers the widgets a shortcut just activated so the next
// render shows them. Widgets may have changed visibility, so rows refresh.
func (s *Scene) MarkFired(fired []widget.Widget) {
	clear(s.fired)
	for _, w := range fired {
		s.fired[w] = true
	}
	s.refreshRows()
}

// ClearFired forgets the last activation.
func (s *Scene) ClearFired() {
	clear(s.fired)
}

// Refresh re-reads the widget tree after outside changes.
func (s *Scene) Refresh() {
	s.refreshRows()
}

func (s *Scene) maxVisibleRows() int {
	return max(s.height-sceneHeaderLines-1, 1)
}

func (s *Scene) ensureCursorVisible() {
	maxRows := s.maxVisibleRows()
	if s.cursor < s.scrollOffset {
		s.scrollOffset = s.cursor
	}
	if s.cursor >= s.scrollOffset+maxRows {
		s.scrollOffset = s.cursor - maxRows + 1
	}
	s.scrollOffset = max(min(s.scrollOffset, len(s.rows)-1), 0)
}

// bindings returns the chords of the shortcuts that would fire n now.
func (s *Scene) bindings(n *widget.Node) []string {
	if s.registry == nil || !n.Kind().Activatable() {
		return nil
	}
	var out []string
	for _, sc := range s.registry.Shortcuts() {
		if sc.InputKey.IsBound() && dispatch.Eligible(sc, n) {
			out = append(out, sc.Binding())
		}
	}
	return out
}

// caption draws one widget without cursor styling.
func (s *Scene) caption(n *widget.Node) string {
	text := n.Text()
	if text == "" {
		text = n.Name()
	}
	switch n.Kind() {
	case widget.KindPanel:
		return panelStyle.Render("▾ " + text)
	case widget.KindTextField:
		value := n.Text()
		if n == s.editing {
			value += editingCursor.Render(" ")
		}
		return n.Name() + ": [" + value + "]"
	case widget.KindButton:
		return "[ " + text + " ]"
	case widget.KindMultiStateButton:
		return "< " + text + " >"
	case widget.KindCheckBox:
		box := "[ ] "
		if n.Checked() {
			box = "[x] "
		}
		return box + text
	default:
		return text
	}
}

func (s *Scene) renderRow(n *widget.Node, depth int, selected bool) string {
	line := s.caption(n)
	if !n.Enabled() {
		line = disabledStyle.Render(line)
	}
	highlighted := s.Highlighted()
	switch {
	case highlighted != nil && widget.Widget(n) == highlighted:
		line = highlightStyle.Render(line)
	case s.fired[n]:
		line = firedStyle.Render(line + " ✓")
	}
	if b := s.bindings(n); len(b) > 0 {
		line += "  " + bindingStyle.Render(strings.Join(b, ", "))
	}

	prefix := strings.Repeat("  ", depth)
	if selected {
		return cursorStyle.Render("›") + " " + prefix + line
	}
	return "  " + prefix + line
}

func (s *Scene) String() string {
	s.ensureCursorVisible()

	var b strings.Builder
	title := " Scene "
	if s.highlight {
		title += highlightBanner.Render(" HIGHLIGHT ")
	}
	b.WriteString(sceneTitle.Render(title))
	b.WriteString("\n\n")

	depths := make(map[*widget.Node]int, len(s.rows))
	s.tree.Walk(func(n *widget.Node, depth int) bool {
		depths[n] = depth
		return n.Shown()
	})

	end := min(s.scrollOffset+s.maxVisibleRows(), len(s.rows))
	for i := s.scrollOffset; i < end; i++ {
		n := s.rows[i]
		b.WriteString(s.renderRow(n, depths[n], i == s.cursor))
		b.WriteString("\n")
	}

	if tip := s.Tooltip(); tip != "" {
		b.WriteString(tooltipStyle.Render(tip))
	}

	out := b.String()
	if s.width > 0 {
		lines := strings.Split(out, "\n")
		for i, l := range lines {
			if lipgloss.Width(l) > s.width {
				lines[i] = truncate.String(l, uint(s.width))
			}
		}
		out = strings.Join(lines, "\n")
	}
	return out
}
