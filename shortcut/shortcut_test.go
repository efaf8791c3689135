package shortcut

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"more-shortcuts/chord"
	"more-shortcuts/widget"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	values  map[string]string
	deletes int
	failSet bool
}

func newMemStore() *memStore {
	return &memStore{values: make(map[string]string)}
}

func (m *memStore) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *memStore) Set(key, value string) error {
	if m.failSet {
		return errors.New("disk full")
	}
	m.values[key] = value
	return nil
}

func (m *memStore) Delete(key string) error {
	m.deletes++
	delete(m.values, key)
	return nil
}

func ctrlK() chord.Chord {
	return chord.Encode(chord.Letter('k'), true, false, false)
}

func TestUniqueName(t *testing.T) {
	reg := NewRegistry(newMemStore())
	assert.Equal(t, "Foo", reg.UniqueName("Foo"))

	reg.Add(&Shortcut{Name: "Foo"})
	reg.Add(&Shortcut{Name: "Foo1"})
	assert.Equal(t, "Foo2", reg.UniqueName("Foo"))
	assert.Equal(t, "Bar", reg.UniqueName("Bar"))
}

func TestAddRenamesOnCollision(t *testing.T) {
	reg := NewRegistry(newMemStore())
	original := &Shortcut{Name: "Build", Component: "Build"}
	reg.Add(original)

	dup := &Shortcut{Name: "Build", Component: "Other"}
	reg.Add(dup)

	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, "Build", original.Name)
	assert.Equal(t, "Build1", dup.Name)
	assert.Same(t, original, reg.FindByName("Build"))
	assert.Same(t, dup, reg.FindByName("Build1"))
}

func TestAddSameInstanceIsNoop(t *testing.T) {
	reg := NewRegistry(newMemStore())
	s := &Shortcut{Name: "Build"}
	reg.Add(s)
	reg.Add(s)
	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, "Build", s.Name)
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	reg := NewRegistry(newMemStore())
	a := &Shortcut{Name: "A"}
	reg.Add(a)

	reg.Remove(&Shortcut{Name: "A"})
	assert.Equal(t, 1, reg.Len())
	assert.Same(t, a, reg.Shortcuts()[0])

	reg.Remove(a)
	assert.Equal(t, 0, reg.Len())
	assert.Nil(t, reg.FindByName("A"))
}

func TestFindByWidgetAlwaysComparesPath(t *testing.T) {
	reg := NewRegistry(newMemStore())
	s := &Shortcut{Name: "Build", Component: "Build", Path: []string{"0:Panel", "2:Build"}}
	reg.Add(s)

	assert.Same(t, s, reg.FindByWidget("Build", []string{"0:Panel", "2:Build"}))
	assert.Nil(t, reg.FindByWidget("Build", []string{"0:Panel", "3:Build"}))
	assert.Nil(t, reg.FindByWidget("Other", []string{"0:Panel", "2:Build"}))
}

func TestShortcutsIsSnapshot(t *testing.T) {
	reg := NewRegistry(newMemStore())
	reg.Add(&Shortcut{Name: "A"})
	snap := reg.Shortcuts()
	reg.Add(&Shortcut{Name: "B"})
	assert.Len(t, snap, 1)
	assert.Equal(t, 2, reg.Len())
}

func TestSaveEmptyRemovesValue(t *testing.T) {
	store := newMemStore()
	reg := NewRegistry(store)
	reg.Add(&Shortcut{Name: "A", Component: "A"})
	require.NoError(t, reg.Save())
	_, ok := store.Get(StoreKey)
	require.True(t, ok)

	reg.Remove(reg.FindByName("A"))
	require.NoError(t, reg.Save())
	_, ok = store.Get(StoreKey)
	assert.False(t, ok)

	loaded := NewRegistry(store)
	loaded.Load()
	assert.Equal(t, 0, loaded.Len())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newMemStore()
	reg := NewRegistry(store)
	want := []*Shortcut{
		{Name: "Build", Component: "Build", Path: []string{"0:Panel", "2:Build"}, InputKey: ctrlK(), UsePath: true},
		{Name: "Pause", Component: "Pause", Path: []string{"0:Bar", "0:Pause"}, InputKey: chord.Encode(chord.KeySpace, false, false, false), OnlyVisible: true},
		{Name: "Unbound", Component: "Zoom"},
		{Name: "Mouse", Component: "Zoom", Path: []string{}, InputKey: chord.Encode(chord.KeyMouse3, false, true, true)},
	}
	for _, s := range want {
		reg.Add(s.Clone())
	}
	require.NoError(t, reg.Save())

	loaded := NewRegistry(store)
	loaded.Load()
	got := loaded.Shortcuts()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i], got[i])
	}
}

func TestEncodeOmitsDefaults(t *testing.T) {
	blob, err := Encode([]*Shortcut{{Name: "A", Component: "B"}})
	require.NoError(t, err)
	assert.Contains(t, blob, `<Shortcut name="A">`)
	assert.Contains(t, blob, "<UIComponent>B</UIComponent>")
	assert.NotContains(t, blob, "usePath")
	assert.NotContains(t, blob, "onlyVisible")
	assert.NotContains(t, blob, "inputKey")
	assert.NotContains(t, blob, "<Path>")
}

func TestEncodeRejectsUnstorableText(t *testing.T) {
	tests := []struct {
		name    string
		s       *Shortcut
		wantErr string
	}{
		{"control character in name", &Shortcut{Name: "a\x01b", Component: "B"}, "U+0001"},
		{"control character in component", &Shortcut{Name: "A", Component: "B\x1f"}, "component"},
		{"control character in path", &Shortcut{Name: "A", Component: "B", Path: []string{"0:\x00"}}, "path segment"},
		{"invalid utf-8", &Shortcut{Name: "a\xffb", Component: "B"}, "not valid UTF-8"},
		{"non-character", &Shortcut{Name: "a\uFFFEb", Component: "B"}, "U+FFFE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode([]*Shortcut{tt.s})
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}

	reg := NewRegistry(newMemStore())
	reg.Add(&Shortcut{Name: "a\x01b", Component: "B"})
	assert.Error(t, reg.Save())
}

func TestSaveLoadRoundTripKeepsAllowedWhitespace(t *testing.T) {
	store := newMemStore()
	reg := NewRegistry(store)
	want := &Shortcut{Name: "Tab\there\nnext\rline", Component: "Ünïcode 🚀", Path: []string{"0:Panel\tA"}}
	reg.Add(want.Clone())
	require.NoError(t, reg.Save())

	loaded := NewRegistry(store)
	loaded.Load()
	require.Equal(t, 1, loaded.Len())
	assert.Equal(t, want, loaded.Shortcuts()[0])
}

func TestLoadMalformedIsEmpty(t *testing.T) {
	store := newMemStore()
	store.values[StoreKey] = "<Shortcuts><Shortcut"
	reg := NewRegistry(store)
	reg.Add(&Shortcut{Name: "stale"})

	reg.Load()
	assert.Equal(t, 0, reg.Len())
}

func TestLoadAcceptsUTF16Header(t *testing.T) {
	blob := `<?xml version="1.0" encoding="utf-16"?>
<Shortcuts xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns:xsd="http://www.w3.org/2001/XMLSchema">
  <Shortcut name="Bulldoze" onlyVisible="true">
    <UIComponent>BulldozerButton</UIComponent>
    <Path>
      <Item>0:TSBar</Item>
      <Item>0:BulldozerButton</Item>
    </Path>
    <inputKey>1073741922</inputKey>
  </Shortcut>
</Shortcuts>`
	store := newMemStore()
	store.values[StoreKey] = blob

	reg := NewRegistry(store)
	reg.Load()
	require.Equal(t, 1, reg.Len())
	s := reg.FindByName("Bulldoze")
	require.NotNil(t, s)
	assert.Equal(t, "BulldozerButton", s.Component)
	assert.True(t, s.OnlyVisible)
	assert.False(t, s.UsePath)
	assert.Equal(t, []string{"0:TSBar", "0:BulldozerButton"}, s.Path)
	assert.Equal(t, chord.Encode(chord.Letter('b'), true, false, false), s.InputKey)
}

func TestSaveErrorIsReturned(t *testing.T) {
	store := newMemStore()
	store.failSet = true
	reg := NewRegistry(store)
	reg.Add(&Shortcut{Name: "A"})
	assert.Error(t, reg.Save())
}

func TestReloadSkipsOwnWrites(t *testing.T) {
	store := newMemStore()
	reg := NewRegistry(store)
	reg.Add(&Shortcut{Name: "A", Component: "A"})
	require.NoError(t, reg.Save())
	a := reg.FindByName("A")

	assert.False(t, reg.Reload())
	assert.Same(t, a, reg.FindByName("A"))

	other := NewRegistry(store)
	other.Load()
	other.Add(&Shortcut{Name: "B", Component: "B"})
	require.NoError(t, other.Save())

	assert.True(t, reg.Reload())
	assert.Equal(t, 2, reg.Len())
}

func TestConflicts(t *testing.T) {
	reg := NewRegistry(newMemStore())
	a := &Shortcut{Name: "A", InputKey: ctrlK()}
	b := &Shortcut{Name: "B", InputKey: ctrlK()}
	c := &Shortcut{Name: "C"}
	reg.Add(a)
	reg.Add(b)
	reg.Add(c)

	assert.Equal(t, []*Shortcut{b}, reg.Conflicts(a, ctrlK()))
	assert.Equal(t, []*Shortcut{a, b}, reg.Conflicts(c, ctrlK()))
	assert.Empty(t, reg.Conflicts(c, chord.None))
}

func TestRenameAndCommit(t *testing.T) {
	store := newMemStore()
	reg := NewRegistry(store)
	existing := &Shortcut{Name: "Build"}
	reg.Add(existing)

	target := &Shortcut{Name: "Zoom", Component: "Zoom", Path: []string{"0:Zoom"}}
	working := target.Clone()
	working.Name = "Build"
	working.UsePath = true
	working.InputKey = ctrlK()

	require.NoError(t, reg.Commit(target, working))
	assert.Equal(t, "Build1", target.Name)
	assert.True(t, target.UsePath)
	assert.Equal(t, ctrlK(), target.InputKey)
	assert.True(t, reg.Contains(target))
	_, ok := store.Get(StoreKey)
	assert.True(t, ok)

	// Committing again with the same name keeps it
	again := target.Clone()
	require.NoError(t, reg.Commit(target, again))
	assert.Equal(t, "Build1", target.Name)
	assert.Equal(t, 2, reg.Len())

	blank := target.Clone()
	blank.Name = "  "
	assert.Error(t, reg.Commit(target, blank))

	control := target.Clone()
	control.Name = "a\x01b"
	assert.ErrorContains(t, reg.Commit(target, control), "cannot be stored")
	assert.Equal(t, "Build1", target.Name)
}

func TestCloneIsDeep(t *testing.T) {
	s := &Shortcut{Name: "A", Path: []string{"0:A"}}
	c := s.Clone()
	c.Path[0] = "1:A"
	c.Name = "B"
	assert.Equal(t, "0:A", s.Path[0])
	assert.Equal(t, "A", s.Name)

	assert.Nil(t, (&Shortcut{}).Clone().Path)
}

func TestFromWidget(t *testing.T) {
	panel := widget.NewNode(widget.KindPanel, "Panel")
	twinA := widget.NewNode(widget.KindButton, "Build").SetText("BUILD ROADS")
	twinB := widget.NewNode(widget.KindButton, "Build")
	single := widget.NewNode(widget.KindButton, "Pause")
	otherPanel := widget.NewNode(widget.KindPanel, "Other")
	shared := widget.NewNode(widget.KindButton, "Close")
	sharedElsewhere := widget.NewNode(widget.KindButton, "Close")
	panel.Add(twinA, twinB, single, shared)
	otherPanel.Add(sharedElsewhere)
	popupA := widget.NewNode(widget.KindButton, "Popup")
	popupB := widget.NewNode(widget.KindButton, "Popup")
	tree := widget.NewTree(panel, otherPanel, popupA, popupB)

	reg := NewRegistry(newMemStore())

	tests := []struct {
		name        string
		w           *widget.Node
		wantName    string
		usePath     bool
		onlyVisible bool
	}{
		{"sibling duplicate uses path", twinA, "Build Roads", true, false},
		{"global duplicate only visible", shared, "Close", false, true},
		{"unique widget uses neither", single, "Pause", false, false},
		{"duplicate root uses path", popupB, "Popup", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := FromWidget(tt.w, reg, tree)
			assert.Equal(t, tt.wantName, s.Name)
			assert.Equal(t, tt.w.Name(), s.Component)
			assert.Equal(t, widget.ResolvePath(tt.w), s.Path)
			assert.Equal(t, tt.usePath, s.UsePath)
			assert.Equal(t, tt.onlyVisible, s.OnlyVisible)
			assert.Equal(t, chord.None, s.InputKey)
			assert.True(t, s.MatchesWidget(tt.w))
		})
	}

	reg.Add(&Shortcut{Name: "Pause"})
	assert.Equal(t, "Pause1", FromWidget(single, reg, tree).Name)
}

func TestExportImportYAML(t *testing.T) {
	reg := NewRegistry(newMemStore())
	reg.Add(&Shortcut{Name: "Build", Component: "Build", Path: []string{"0:Panel", "2:Build"}, InputKey: ctrlK(), UsePath: true})
	reg.Add(&Shortcut{Name: "Zoom", Component: "Zoom"})

	var buf bytes.Buffer
	require.NoError(t, reg.ExportYAML(&buf))
	out := buf.String()
	assert.Contains(t, out, "binding: Ctrl+K")
	assert.Contains(t, out, "binding: None")

	into := NewRegistry(newMemStore())
	into.Add(&Shortcut{Name: "Build"})
	n, err := into.ImportYAML(strings.NewReader(out), false)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 3, into.Len())
	imported := into.FindByName("Build1")
	require.NotNil(t, imported)
	assert.Equal(t, ctrlK(), imported.InputKey)
	assert.True(t, imported.UsePath)

	replaced := NewRegistry(newMemStore())
	replaced.Add(&Shortcut{Name: "Old"})
	_, err = replaced.ImportYAML(strings.NewReader(out), true)
	require.NoError(t, err)
	assert.Equal(t, 2, replaced.Len())
	assert.Nil(t, replaced.FindByName("Old"))
}

func TestImportYAMLRejectsBadBinding(t *testing.T) {
	reg := NewRegistry(newMemStore())
	doc := "shortcuts:\n  - name: A\n    component: A\n    binding: Hyper+Q\n"
	_, err := reg.ImportYAML(strings.NewReader(doc), false)
	assert.Error(t, err)
	assert.Equal(t, 0, reg.Len())
}

func TestParseYAML(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		want    int
		wantErr string
	}{
		{name: "empty", doc: "", want: 0},
		{name: "valid", doc: "shortcuts:\n  - name: A\n    component: A\n    binding: F5\n", want: 1},
		{name: "missing name", doc: "shortcuts:\n  - component: A\n    binding: F5\n", wantErr: "has no name"},
		{name: "missing component", doc: "shortcuts:\n  - name: A\n    binding: F5\n", wantErr: "has no component"},
		{name: "not yaml", doc: "shortcuts: [", wantErr: "failed to parse"},
		{name: "control character", doc: "shortcuts:\n  - name: \"a\\x01b\"\n    component: A\n    binding: F5\n", wantErr: "cannot be stored"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseYAML(strings.NewReader(tt.doc))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}
