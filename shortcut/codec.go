package shortcut

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"more-shortcuts/chord"
)

type xmlShortcutList struct {
	XMLName xml.Name      `xml:"Shortcuts"`
	Items   []xmlShortcut `xml:"Shortcut"`
}

type xmlShortcut struct {
	Name        string   `xml:"name,attr"`
	UsePath     bool     `xml:"usePath,attr,omitempty"`
	OnlyVisible bool     `xml:"onlyVisible,attr,omitempty"`
	Component   string   `xml:"UIComponent"`
	Path        *xmlPath `xml:"Path"`
	InputKey    int32    `xml:"inputKey,omitempty"`
}

type xmlPath struct {
	Items []string `xml:"Item"`
}

// isXMLChar reports whether r may appear in an XML 1.0 document.
func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}

// CheckText rejects text the persisted form cannot hold unchanged: invalid
// UTF-8 and characters XML forbids, such as most control characters.
func CheckText(field, text string) error {
	if !utf8.ValidString(text) {
		return fmt.Errorf("%s %q is not valid UTF-8", field, text)
	}
	for _, r := range text {
		if !isXMLChar(r) {
			return fmt.Errorf("%s %q contains the character %U, which cannot be stored", field, text, r)
		}
	}
	return nil
}

// checkShortcut runs CheckText over every stored string of s.
func checkShortcut(s *Shortcut) error {
	if err := CheckText("name", s.Name); err != nil {
		return err
	}
	if err := CheckText("component", s.Component); err != nil {
		return err
	}
	for _, seg := range s.Path {
		if err := CheckText("path segment", seg); err != nil {
			return err
		}
	}
	return nil
}

// Encode serializes shortcuts to the persisted XML form. Fields holding
// their default value are omitted, and so is a nil Path. Text that would not
// decode back to the same value is an error.
func Encode(shortcuts []*Shortcut) (string, error) {
	list := xmlShortcutList{Items: make([]xmlShortcut, 0, len(shortcuts))}
	for _, s := range shortcuts {
		if err := checkShortcut(s); err != nil {
			return "", err
		}
		item := xmlShortcut{
			Name:        s.Name,
			UsePath:     s.UsePath,
			OnlyVisible: s.OnlyVisible,
			Component:   s.Component,
			InputKey:    int32(s.InputKey),
		}
		if s.Path != nil {
			item.Path = &xmlPath{Items: append([]string(nil), s.Path...)}
		}
		list.Items = append(list.Items, item)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(list); err != nil {
		return "", fmt.Errorf("failed to encode shortcuts: %w", err)
	}
	return buf.String(), nil
}

// Decode parses the persisted XML form.
func Decode(blob string) ([]*Shortcut, error) {
	dec := xml.NewDecoder(strings.NewReader(blob))
	// The blob is already a decoded string; whatever encoding the header
	// declares does not apply any more.
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var list xmlShortcutList
	if err := dec.Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to parse shortcuts: %w", err)
	}

	shortcuts := make([]*Shortcut, 0, len(list.Items))
	for _, item := range list.Items {
		s := &Shortcut{
			Name:        item.Name,
			Component:   item.Component,
			InputKey:    chord.Chord(item.InputKey),
			UsePath:     item.UsePath,
			OnlyVisible: item.OnlyVisible,
		}
		if item.Path != nil {
			s.Path = append([]string{}, item.Path.Items...)
		}
		shortcuts = append(shortcuts, s)
	}
	return shortcuts, nil
}
