package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"more-shortcuts/capture"
	"more-shortcuts/chord"
	"more-shortcuts/config"
	"more-shortcuts/dispatch"
	"more-shortcuts/keys"
	"more-shortcuts/log"
	"more-shortcuts/shortcut"
	"more-shortcuts/ui"
	"more-shortcuts/ui/overlay"
	"more-shortcuts/widget"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Options are the command line switches of the host.
type Options struct {
	// DisableCapture turns the highlight affordance off for this run,
	// whatever the config says.
	DisableCapture bool
}

// Run is the main entrypoint into the application.
func Run(ctx context.Context, opts Options) error {
	appConfig := config.LoadConfig()
	keys.SetHighlightKey(appConfig.HighlightKey)

	// Load application state with built-in locking
	appState := config.LoadState()
	defer func() {
		if err := appState.Close(); err != nil {
			log.WarningLog.Printf("failed to close state: %v", err)
		}
	}()

	h := newHome(ctx, appConfig, appState, ui.DemoScene())
	if opts.DisableCapture {
		h.scene.SetCaptureEnabled(false)
	}

	watcher, err := config.NewWatcher(appState)
	if err != nil {
		// Reloading on external changes is optional; the host still works.
		log.WarningLog.Printf("not watching for shortcut changes: %v", err)
	} else {
		defer watcher.Close()
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go watcher.Run(watchCtx)
		h.watcher = watcher
	}

	p := tea.NewProgram(
		h,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err = p.Run()
	return err
}

type state int

const (
	// stateDefault is the scene with keyboard focus.
	stateDefault state = iota
	// stateList is the shortcut list with keyboard focus.
	stateList
	// stateEditor is the state when the shortcut editor modal is displayed.
	stateEditor
	// stateConfirm is the state when a confirmation modal is displayed.
	stateConfirm
	// stateHelp is the state when a help screen is displayed.
	stateHelp
	// stateYAML is the state when every shortcut is edited as YAML.
	stateYAML
)

type home struct {
	ctx context.Context

	// -- Storage and Configuration --

	appConfig *config.Config
	// appState is the on-disk store the registry and the UI persist to
	appState config.ValueStore
	// watcher reports writes to the state file by other processes. nil in tests.
	watcher *config.Watcher

	// -- Shortcut core --

	tree       *widget.Tree
	registry   *shortcut.Registry
	capture    *capture.Session
	dispatcher *dispatch.Dispatcher

	// -- State --

	state state
	// editorReturn is the state to go back to when the editor closes.
	editorReturn state
	// helpReturn is the state to go back to when help is dismissed.
	helpReturn state
	// pendingReload is set when the state file changed while busy.
	pendingReload bool
	// pendingErr is an error raised inside an overlay callback.
	pendingErr error
	// firedSeq identifies the latest activation so only its highlight clears.
	firedSeq int

	width, height int
	sceneWidth    int

	// -- UI Components --

	scene  *ui.Scene
	list   *ui.List
	menu   *ui.Menu
	errBox *ui.ErrBox

	editor              *overlay.ShortcutEditor
	confirmationOverlay *overlay.ConfirmationOverlay
	textOverlay         *overlay.TextOverlay
	yamlEditor          *overlay.YAMLEditorOverlay
}

var (
	_ capture.Confirmer = (*home)(nil)
	_ capture.Notifier  = (*home)(nil)
)

func newHome(ctx context.Context, appConfig *config.Config, appState config.ValueStore, tree *widget.Tree) *home {
	h := &home{
		ctx:       ctx,
		appConfig: appConfig,
		appState:  appState,
		tree:      tree,
		menu:      ui.NewMenu(),
		errBox:    ui.NewErrBox(),
		state:     stateDefault,
	}

	h.registry = shortcut.NewRegistry(appState)
	h.registry.Load()

	h.capture = capture.NewSession(h.registry, h, h)
	h.scene = ui.NewScene(tree, h.registry)
	h.scene.SetCaptureEnabled(!appConfig.DisableCapture)
	h.list = ui.NewList(h.registry, appState)
	h.dispatcher = dispatch.New(h.registry, tree, h.capture,
		dispatch.WithFocus(h.scene),
		dispatch.WithEditorOpen(func() bool { return h.editor != nil }),
	)
	return h
}

// RequestConfirmation shows a yes/no modal. The answer restores the state
// the modal opened over before onResult runs.
func (m *home) RequestConfirmation(title, message string, onResult func(bool)) {
	prev := m.state
	m.confirmationOverlay = overlay.NewConfirmationOverlay(title, message)
	m.confirmationOverlay.OnConfirm = func() {
		m.state = prev
		onResult(true)
	}
	m.confirmationOverlay.OnCancel = func() {
		m.state = prev
		onResult(false)
	}
	m.state = stateConfirm
	m.syncMenu()
}

// BindingsChanged refreshes the binding labels after a capture.
func (m *home) BindingsChanged() {
	m.list.Refresh()
}

// updateHandleWindowSizeEvent sets the sizes of the components.
// The components will try to render inside their bounds.
func (m *home) updateHandleWindowSizeEvent(msg tea.WindowSizeMsg) {
	m.width, m.height = msg.Width, msg.Height

	// Scene takes 55% of width, the list the rest
	m.sceneWidth = int(float32(msg.Width) * 0.55)
	listWidth := msg.Width - m.sceneWidth

	// Menu takes 10% of height, scene and list take 90%
	contentHeight := int(float32(msg.Height) * 0.9)
	menuHeight := msg.Height - contentHeight - 1     // minus 1 for error box
	m.errBox.SetSize(int(float32(msg.Width)*0.9), 1) // error box takes 1 row

	m.scene.SetSize(m.sceneWidth, contentHeight)
	m.list.SetSize(listWidth, contentHeight)
	m.menu.SetSize(msg.Width, menuHeight)
	m.sizeOverlays()
}

func (m *home) sizeOverlays() {
	if m.width == 0 {
		return
	}
	if m.editor != nil {
		m.editor.SetWidth(min(int(float32(m.width)*0.6), 72))
	}
	if m.textOverlay != nil {
		m.textOverlay.SetWidth(int(float32(m.width) * 0.6))
	}
	if m.yamlEditor != nil {
		m.yamlEditor.SetSize(int(float32(m.width)*0.7), int(float32(m.height)*0.8))
	}
}

func (m *home) Init() tea.Cmd {
	cmds := []tea.Cmd{m.showHelpScreen(helpTypeWelcome{})}
	if m.watcher != nil {
		cmds = append(cmds, m.waitForStateChange())
	}
	return tea.Batch(cmds...)
}

func (m *home) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.update(msg)
	if m.pendingReload && m.idle() {
		m.pendingReload = false
		cmd = tea.Batch(cmd, m.reloadShortcuts(false))
	}
	m.syncMenu()
	return model, cmd
}

func (m *home) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case hideErrMsg:
		m.errBox.Clear()
	case clearFiredMsg:
		if msg.seq == m.firedSeq {
			m.scene.ClearFired()
		}
	case stateChangedMsg:
		// Never swap the registry under an open editor or a running capture.
		if m.idle() {
			return m, tea.Batch(m.reloadShortcuts(false), m.waitForStateChange())
		}
		m.pendingReload = true
		return m, m.waitForStateChange()
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.updateHandleWindowSizeEvent(msg)
		return m, nil
	case infoMsg:
		return m, m.showInfo(string(msg))
	case error:
		return m, m.handleError(msg)
	}
	return m, nil
}

// idle reports whether nothing modal is in progress.
func (m *home) idle() bool {
	return !m.capture.Capturing() && (m.state == stateDefault || m.state == stateList)
}

func (m *home) syncMenu() {
	switch {
	case m.capture.Capturing() && !m.capture.AwaitingConfirmation():
		m.menu.SetState(ui.MenuCapture)
	case m.state == stateEditor:
		m.menu.SetState(ui.MenuEditor)
	case m.state == stateList:
		m.menu.SetState(ui.MenuList)
	case m.scene.Editing():
		m.menu.SetState(ui.MenuTextField)
	case m.scene.Highlighting():
		m.menu.SetState(ui.MenuHighlight)
	default:
		m.menu.SetState(ui.MenuScene)
	}
}

func (m *home) handleQuit() (tea.Model, tea.Cmd) {
	if m.capture.Capturing() {
		m.capture.Cancel()
	}
	m.list.FlushState()
	return m, tea.Quit
}

func (m *home) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.handleQuit()
	}

	// A grabbed binding control takes every key before anything else.
	if m.capture.Capturing() && !m.capture.AwaitingConfirmation() {
		if p, ok := chord.FromKeyMsg(msg); ok {
			m.capture.ReceiveKey(p.Key, p.Ctrl, p.Shift, p.Alt)
		}
		return m, nil
	}

	switch m.state {
	case stateConfirm:
		return m.handleConfirmState(msg)
	case stateHelp:
		return m.handleHelpState(msg)
	case stateYAML:
		return m.handleYAMLState(msg)
	case stateEditor:
		return m.handleEditorState(msg)
	case stateList:
		if m.list.IsInSearchMode() {
			m.list.HandleSearchKeyPress(msg)
			return m, nil
		}
		if fired, cmd := m.dispatchKey(msg); fired {
			return m, cmd
		}
		return m.handleListKey(msg)
	default:
		// Shortcuts fire before host keys. A focused text field suppresses
		// them and takes the key itself.
		if fired, cmd := m.dispatchKey(msg); fired {
			return m, cmd
		}
		if m.scene.HandleTextKey(msg) {
			return m, nil
		}
		return m.handleSceneKey(msg)
	}
}

// dispatchKey offers the key to the registered shortcuts.
func (m *home) dispatchKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	p, ok := chord.FromKeyMsg(msg)
	if !ok {
		return false, nil
	}
	ev := dispatch.NewKeyDown(p)
	fired := m.dispatcher.Dispatch(ev)
	if !ev.Used() {
		return false, nil
	}
	log.InfoLog.Printf("%s activated %d widget(s)", p.Chord(), len(fired))
	m.scene.MarkFired(fired)
	m.firedSeq++
	seq := m.firedSeq
	return true, tea.Tick(time.Second, func(time.Time) tea.Msg {
		return clearFiredMsg{seq: seq}
	})
}

func (m *home) handleSceneKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	name, ok := keys.GlobalKeyStringsMap[msg.String()]
	if !ok {
		return m, nil
	}
	switch name {
	case keys.KeyUp:
		m.scene.Up()
	case keys.KeyDown:
		m.scene.Down()
	case keys.KeyEnter:
		if m.scene.Highlighting() {
			return m, m.openEditorForWidget(m.scene.Highlighted())
		}
		m.scene.Click()
	case keys.KeyHighlight:
		if !m.scene.CaptureEnabled() {
			return m, m.handleError(fmt.Errorf("adding shortcuts is disabled"))
		}
		m.scene.ToggleHighlight()
		if m.scene.Highlighting() {
			return m, m.showHelpScreen(helpTypeHighlight{})
		}
	case keys.KeyNew:
		if !m.scene.CaptureEnabled() {
			return m, m.handleError(fmt.Errorf("adding shortcuts is disabled"))
		}
		sel := m.scene.Selected()
		if sel == nil {
			return m, nil
		}
		return m, m.openEditorForWidget(widget.NearestActivatable(sel))
	case keys.KeyEsc:
		if m.scene.Highlighting() {
			m.scene.ToggleHighlight()
		}
	case keys.KeyTab:
		m.state = stateList
		m.list.Refresh()
	case keys.KeyReload:
		return m, m.reloadShortcuts(true)
	case keys.KeyHelp:
		return m, m.showHelpScreen(helpTypeGeneral{})
	case keys.KeyQuit:
		return m.handleQuit()
	}
	return m, nil
}

func (m *home) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	name, ok := keys.GlobalKeyStringsMap[msg.String()]
	if !ok {
		return m, nil
	}
	switch name {
	case keys.KeyUp:
		m.list.Up()
	case keys.KeyDown:
		m.list.Down()
	case keys.KeyEnter:
		if s := m.list.GetSelected(); s != nil {
			m.openEditor(s)
		}
	case keys.KeyRebind:
		if ctrl := m.list.RebindSelected(); ctrl != nil {
			m.capture.BeginCapture(ctrl)
		}
	case keys.KeyDelete:
		if s := m.list.GetSelected(); s != nil {
			m.confirmDelete(s)
		}
	case keys.KeySearch:
		m.list.EnterSearchMode()
	case keys.KeyEditYAML:
		return m, m.openYAMLEditor()
	case keys.KeyEsc:
		if m.list.SearchQuery() != "" {
			m.list.ExitSearchMode()
		}
	case keys.KeyTab:
		m.state = stateDefault
	case keys.KeyReload:
		return m, m.reloadShortcuts(true)
	case keys.KeyHelp:
		return m, m.showHelpScreen(helpTypeGeneral{})
	case keys.KeyQuit:
		return m.handleQuit()
	}
	return m, nil
}

func (m *home) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.capture.Capturing() && !m.capture.AwaitingConfirmation() {
		if b, ok := chord.FromMouseMsg(msg); ok {
			m.capture.ReceiveMouse(b, msg.Ctrl, msg.Shift, msg.Alt)
		}
		return m, nil
	}
	if m.state != stateDefault && m.state != stateList {
		return m, nil
	}
	if msg.X >= m.sceneWidth {
		return m, nil
	}
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scene.Up()
	case tea.MouseButtonWheelDown:
		m.scene.Down()
	case tea.MouseButtonLeft:
		m.state = stateDefault
		if !m.scene.SelectRow(msg.Y) {
			return m, nil
		}
		if m.scene.Highlighting() {
			return m, m.openEditorForWidget(m.scene.Highlighted())
		}
		m.scene.Click()
	}
	return m, nil
}

// openEditorForWidget opens the editor on w's shortcut, or on a new one
// derived from w, and starts capturing its binding right away.
func (m *home) openEditorForWidget(w widget.Widget) tea.Cmd {
	if w == nil {
		return m.handleError(fmt.Errorf("nothing under the cursor can be clicked"))
	}
	target := m.registry.FindByWidget(w.Name(), widget.ResolvePath(w))
	if target == nil {
		target = shortcut.FromWidget(w, m.registry, m.tree)
	}
	m.openEditor(target)
	m.capture.BeginCapture(m.editor.Binding())
	return nil
}

func (m *home) openEditor(target *shortcut.Shortcut) {
	if m.scene.Highlighting() {
		m.scene.ToggleHighlight()
	}
	m.editorReturn = m.state
	m.editor = overlay.NewShortcutEditor(target)
	m.state = stateEditor
	m.sizeOverlays()
}

func (m *home) closeEditor() {
	if m.capture.Capturing() {
		m.capture.Cancel()
	}
	m.editor = nil
	m.state = m.editorReturn
}

func (m *home) handleEditorState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editor == nil {
		m.state = stateDefault
		return m, nil
	}

	switch m.editor.HandleKeyPress(msg) {
	case overlay.EditorCapture:
		m.capture.BeginCapture(m.editor.Binding())
	case overlay.EditorCommit:
		working := m.editor.Working()
		if err := m.registry.Commit(m.editor.Target(), working); err != nil {
			return m, m.handleError(err)
		}
		name := m.editor.Target().Name
		m.closeEditor()
		m.list.Refresh()
		return m, m.showInfo(fmt.Sprintf("Saved shortcut %s", name))
	case overlay.EditorCancel:
		m.closeEditor()
	case overlay.EditorCopyPath:
		return m, copyToClipboard(m.editor.Path())
	}
	return m, nil
}

func (m *home) confirmDelete(s *shortcut.Shortcut) {
	message := fmt.Sprintf("Are you sure you want to delete the [%s] shortcut?", s.Name)
	m.RequestConfirmation("Delete Shortcut", message, func(confirmed bool) {
		if !confirmed {
			return
		}
		m.registry.Remove(s)
		if err := m.registry.Save(); err != nil {
			m.pendingErr = err
		}
		m.list.Refresh()
	})
}

func (m *home) handleConfirmState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmationOverlay == nil {
		m.state = stateDefault
		return m, nil
	}
	if !m.confirmationOverlay.HandleKeyPress(msg) {
		return m, nil
	}
	if m.state != stateConfirm {
		m.confirmationOverlay = nil
	}
	if err := m.pendingErr; err != nil {
		m.pendingErr = nil
		return m, m.handleError(err)
	}
	return m, nil
}

func (m *home) openYAMLEditor() tea.Cmd {
	var b strings.Builder
	if err := m.registry.ExportYAML(&b); err != nil {
		return m.handleError(err)
	}
	m.yamlEditor = overlay.NewYAMLEditorOverlay("Edit shortcuts", b.String())
	m.yamlEditor.Validate = func(doc string) error {
		_, err := shortcut.ParseYAML(strings.NewReader(doc))
		return err
	}
	m.state = stateYAML
	m.sizeOverlays()
	return nil
}

func (m *home) handleYAMLState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.yamlEditor == nil {
		m.state = stateList
		return m, nil
	}
	if !m.yamlEditor.HandleKeyPress(msg) {
		return m, nil
	}

	editor := m.yamlEditor
	m.yamlEditor = nil
	m.state = stateList
	if !editor.Submitted {
		return m, nil
	}

	n, err := m.registry.ImportYAML(strings.NewReader(editor.Value()), true)
	if err != nil {
		return m, m.handleError(err)
	}
	if err := m.registry.Save(); err != nil {
		return m, m.handleError(err)
	}
	m.list.Refresh()
	return m, m.showInfo(fmt.Sprintf("Saved %d shortcuts", n))
}

// reloadShortcuts re-reads the registry from disk. verbose reports the
// outcome even when nothing changed.
func (m *home) reloadShortcuts(verbose bool) tea.Cmd {
	if !m.registry.Reload() {
		if verbose {
			return m.showInfo("Shortcuts are up to date")
		}
		return nil
	}
	m.list.Refresh()
	m.scene.Refresh()
	log.InfoLog.Printf("reloaded %d shortcuts from disk", m.registry.Len())
	return m.showInfo(fmt.Sprintf("Reloaded %d shortcuts", m.registry.Len()))
}

// waitForStateChange blocks until the watcher reports a write to the state
// file.
func (m *home) waitForStateChange() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	changes := m.watcher.Changes()
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return nil
		case <-changes:
			return stateChangedMsg{}
		}
	}
}

func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		return infoMsg("Copied " + text)
	}
}

// hideErrMsg implements tea.Msg and clears the error text from the screen.
type hideErrMsg struct{}

// clearFiredMsg removes the activation marks of dispatch number seq.
type clearFiredMsg struct{ seq int }

// stateChangedMsg is sent when another process rewrote the state file.
type stateChangedMsg struct{}

// infoMsg is a status line message that is not an error.
type infoMsg string

// handleError handles all errors which get bubbled up to the app. sets the error message. We return a callback tea.Cmd that returns a hideErrMsg message
// which clears the error message after 3 seconds.
func (m *home) handleError(err error) tea.Cmd {
	log.ErrorLog.Printf("%v", err)
	m.errBox.SetError(err)
	return m.hideStatusAfter(3 * time.Second)
}

func (m *home) showInfo(msg string) tea.Cmd {
	m.errBox.SetInfo(msg)
	return m.hideStatusAfter(2 * time.Second)
}

func (m *home) hideStatusAfter(d time.Duration) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
		case <-time.After(d):
		}
		return hideErrMsg{}
	}
}

func (m *home) View() string {
	sceneView := lipgloss.Place(m.sceneWidth, max(m.height-m.height/10, 1), lipgloss.Left, lipgloss.Top, m.scene.String())
	listView := m.list.String()
	sceneAndList := lipgloss.JoinHorizontal(lipgloss.Top, sceneView, listView)

	mainView := lipgloss.JoinVertical(
		lipgloss.Center,
		sceneAndList,
		m.menu.String(),
		m.errBox.String(),
	)

	switch m.state {
	case stateEditor:
		if m.editor == nil {
			log.ErrorLog.Printf("shortcut editor is nil")
			return mainView
		}
		return overlay.PlaceOverlay(0, 0, m.editor.Render(), mainView, true, true)
	case stateConfirm:
		if m.confirmationOverlay == nil {
			log.ErrorLog.Printf("confirmation overlay is nil")
			return mainView
		}
		// The editor stays visible under a rebind prompt.
		if m.editor != nil {
			mainView = overlay.PlaceOverlay(0, 0, m.editor.Render(), mainView, true, true)
		}
		return overlay.PlaceOverlay(0, 0, m.confirmationOverlay.Render(), mainView, true, true)
	case stateHelp:
		if m.textOverlay == nil {
			log.ErrorLog.Printf("text overlay is nil")
			return mainView
		}
		return overlay.PlaceOverlay(0, 0, m.textOverlay.Render(), mainView, true, true)
	case stateYAML:
		if m.yamlEditor == nil {
			log.ErrorLog.Printf("text input overlay is nil")
			return mainView
		}
		return overlay.PlaceOverlay(0, 0, m.yamlEditor.Render(), mainView, true, true)
	}
	return mainView
}
