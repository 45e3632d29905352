// Package jsonview turns arbitrary JSON into the two synchronized views the
// inspector shows: canonical indented text (the copy source) and a
// collapsible tree.
package jsonview

import (
	"bytes"
	"encoding/json"
	"strings"
)

// DefaultPreviewCount is how many elements/fields a collapsed container
// previews inline.
const DefaultPreviewCount = 20

// Placeholder is shown when no document is loaded.
const Placeholder = "Click a session to load its raw JSON here."

// Document is a JSON value rendered both as text and as a tree.
type Document struct {
	Text string // 2-space indented, key order as received, scalars re-encoded
	Root *Node
}

// New builds a Document from raw JSON. Empty input and a literal null yield a
// nil document, which renderers show as the placeholder.
func New(raw []byte) (*Document, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	root, err := parseTree(raw)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	writeText(&b, root, 0)
	return &Document{Text: b.String(), Root: root}, nil
}

// writeText renders n with two spaces per level. Empty containers stay on
// one line.
func writeText(b *strings.Builder, n *Node, depth int) {
	if !n.IsContainer() {
		b.WriteString(n.Literal)
		return
	}
	open, closing := "{", "}"
	if n.Kind == KindArray {
		open, closing = "[", "]"
	}
	if len(n.Children) == 0 {
		b.WriteString(open + closing)
		return
	}

	b.WriteString(open)
	for i, c := range n.Children {
		b.WriteByte('\n')
		b.WriteString(strings.Repeat("  ", depth+1))
		if n.Kind == KindObject {
			b.WriteString(quote(c.Key))
			b.WriteString(": ")
		}
		writeText(b, c, depth+1)
		if i < len(n.Children)-1 {
			b.WriteByte(',')
		}
	}
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(closing)
}

// FromValue marshals v (struct field order is kept) and builds a Document.
func FromValue(v any) (*Document, error) {
	raw, err := marshal(v)
	if err != nil {
		return nil, err
	}
	return New(raw)
}

// Lines flattens the tree for display. A nil document has no lines.
func (d *Document) Lines(previewCount int) []Line {
	if d == nil || d.Root == nil {
		return nil
	}
	return Lines(d.Root, previewCount)
}

// CopyText returns the text placed on the clipboard ("" when empty).
func (d *Document) CopyText() string {
	if d == nil {
		return ""
	}
	return d.Text
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
