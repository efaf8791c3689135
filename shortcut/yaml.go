package shortcut

import (
	"fmt"
	"io"

	"more-shortcuts/chord"

	"gopkg.in/yaml.v3"
)

type yamlDocument struct {
	Shortcuts []yamlShortcut `yaml:"shortcuts"`
}

type yamlShortcut struct {
	Name        string   `yaml:"name"`
	Component   string   `yaml:"component"`
	Path        []string `yaml:"path,omitempty"`
	Binding     string   `yaml:"binding"`
	UsePath     bool     `yaml:"use_path,omitempty"`
	OnlyVisible bool     `yaml:"only_visible,omitempty"`
}

// ExportYAML writes the registry in a hand-editable form with readable
// bindings.
func (r *Registry) ExportYAML(w io.Writer) error {
	doc := yamlDocument{Shortcuts: make([]yamlShortcut, 0, len(r.shortcuts))}
	for _, s := range r.shortcuts {
		doc.Shortcuts = append(doc.Shortcuts, yamlShortcut{
			Name:        s.Name,
			Component:   s.Component,
			Path:        s.Path,
			Binding:     s.InputKey.String(),
			UsePath:     s.UsePath,
			OnlyVisible: s.OnlyVisible,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode shortcuts: %w", err)
	}
	return enc.Close()
}

// ParseYAML decodes a document written by ExportYAML without touching any
// registry. An empty document yields no shortcuts.
func ParseYAML(rd io.Reader) ([]*Shortcut, error) {
	var doc yamlDocument
	if err := yaml.NewDecoder(rd).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse shortcuts: %w", err)
	}

	parsed := make([]*Shortcut, 0, len(doc.Shortcuts))
	for i, item := range doc.Shortcuts {
		if item.Name == "" {
			return nil, fmt.Errorf("shortcut %d has no name", i+1)
		}
		if item.Component == "" {
			return nil, fmt.Errorf("shortcut %q has no component", item.Name)
		}
		c, err := chord.Parse(item.Binding)
		if err != nil {
			return nil, fmt.Errorf("shortcut %q: %w", item.Name, err)
		}
		s := &Shortcut{
			Name:        item.Name,
			Component:   item.Component,
			Path:        item.Path,
			InputKey:    c,
			UsePath:     item.UsePath,
			OnlyVisible: item.OnlyVisible,
		}
		if err := checkShortcut(s); err != nil {
			return nil, fmt.Errorf("shortcut %d: %w", i+1, err)
		}
		parsed = append(parsed, s)
	}
	return parsed, nil
}

// ImportYAML reads shortcuts written by ExportYAML and adds them, renaming
// on collision. With replace set the registry is cleared first. Nothing is
// added when any entry is invalid. The caller persists.
func (r *Registry) ImportYAML(rd io.Reader, replace bool) (int, error) {
	imported, err := ParseYAML(rd)
	if err != nil {
		return 0, err
	}
	if replace {
		r.Clear()
	}
	for _, s := range imported {
		r.Add(s)
	}
	return len(imported), nil
}
