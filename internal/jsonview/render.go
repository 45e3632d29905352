package jsonview

import (
	"fmt"
	"strings"
)

// Line is one row of the flattened tree
type Line struct {
	Depth int
	Text  string
	Node  *Node // node the row belongs to; closing brackets carry their container
}

// Preview renders a one-line summary of n, listing at most limit
// elements/fields before truncating with "…".
func (n *Node) Preview(limit int) string {
	if limit <= 0 {
		limit = DefaultPreviewCount
	}
	switch n.Kind {
	case KindObject:
		parts := make([]string, 0, min(limit, len(n.Children)))
		for i, c := range n.Children {
			if i == limit {
				parts = append(parts, "…")
				break
			}
			parts = append(parts, c.Key+": "+c.short())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindArray:
		parts := make([]string, 0, min(limit, len(n.Children)))
		for i, c := range n.Children {
			if i == limit {
				parts = append(parts, "…")
				break
			}
			parts = append(parts, c.short())
		}
		return fmt.Sprintf("Array[%d] [%s]", len(n.Children), strings.Join(parts, ", "))
	default:
		return n.Literal
	}
}

// short is the nested form used inside previews
func (n *Node) short() string {
	switch n.Kind {
	case KindObject:
		return "{…}"
	case KindArray:
		return fmt.Sprintf("Array[%d]", len(n.Children))
	default:
		return n.Literal
	}
}

// Lines flattens root into display rows. Collapsed containers occupy a
// single row carrying their preview.
func Lines(root *Node, previewCount int) []Line {
	var out []Line
	appendLines(&out, root, 0, previewCount, true)
	return out
}

func appendLines(out *[]Line, n *Node, depth, previewCount int, last bool) {
	label := ""
	if depth > 0 && n.Index < 0 {
		label = quote(n.Key) + ": "
	}
	comma := ""
	if !last {
		comma = ","
	}

	if !n.IsContainer() {
		*out = append(*out, Line{Depth: depth, Text: "  " + label + n.Literal + comma, Node: n})
		return
	}

	open, closing := "{", "}"
	if n.Kind == KindArray {
		open, closing = "[", "]"
	}

	if !n.Expanded || len(n.Children) == 0 {
		text := label + n.Preview(previewCount)
		if len(n.Children) == 0 {
			text = label + open + closing
		}
		marker := "▸ "
		if len(n.Children) == 0 {
			marker = "  "
		}
		*out = append(*out, Line{Depth: depth, Text: marker + text + comma, Node: n})
		return
	}

	*out = append(*out, Line{Depth: depth, Text: "▾ " + label + open, Node: n})
	for i, c := range n.Children {
		appendLines(out, c, depth+1, previewCount, i == len(n.Children)-1)
	}
	*out = append(*out, Line{Depth: depth, Text: "  " + closing + comma, Node: n})
}

// Render joins lines with two spaces of indentation per depth level.
func Render(lines []Line) string {
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Repeat("  ", l.Depth))
		b.WriteString(l.Text)
	}
	return b.String()
}

func quote(s string) string {
	lit, err := marshal(s)
	if err != nil {
		return `"` + s + `"`
	}
	return string(lit)
}
