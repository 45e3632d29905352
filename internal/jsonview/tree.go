package jsonview

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Kind is the JSON type of a tree node
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// Node is one value in the tree. Containers keep their children in the
// order they appeared in the source.
type Node struct {
	Key      string // field name when the parent is an object
	Index    int    // position when the parent is an array, else -1
	Kind     Kind
	Literal  string // JSON literal for scalars
	Children []*Node
	Expanded bool
}

// IsContainer reports whether the node is an object or array
func (n *Node) IsContainer() bool {
	return n.Kind == KindObject || n.Kind == KindArray
}

// Toggle flips a container between expanded and collapsed
func (n *Node) Toggle() {
	if n.IsContainer() {
		n.Expanded = !n.Expanded
	}
}

// SetExpanded expands or collapses n and every container below it
func (n *Node) SetExpanded(expanded bool) {
	if !n.IsContainer() {
		return
	}
	n.Expanded = expanded
	for _, c := range n.Children {
		c.SetExpanded(expanded)
	}
}

// CollapseBelow collapses every container nested deeper than depth, where
// the root is depth 0. Shallower containers are expanded.
func (n *Node) CollapseBelow(depth int) {
	n.collapseBelow(0, depth)
}

func (n *Node) collapseBelow(at, depth int) {
	if !n.IsContainer() {
		return
	}
	n.Expanded = at < depth
	for _, c := range n.Children {
		c.collapseBelow(at+1, depth)
	}
}

// parseTree decodes raw JSON into nodes, preserving key order. Every
// container starts expanded.
func parseTree(raw []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	root, err := parseValue(dec, "", -1)
	if err != nil {
		return nil, fmt.Errorf("parse json tree: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("parse json tree: trailing data")
	}
	return root, nil
}

func parseValue(dec *json.Decoder, key string, index int) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	n := &Node{Key: key, Index: index}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			n.Kind = KindObject
			n.Expanded = true
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				k, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", kt)
				}
				child, err := parseValue(dec, k, -1)
				if err != nil {
					return nil, err
				}
				n.Children = append(n.Children, child)
			}
		case '[':
			n.Kind = KindArray
			n.Expanded = true
			for i := 0; dec.More(); i++ {
				child, err := parseValue(dec, "", i)
				if err != nil {
					return nil, err
				}
				n.Children = append(n.Children, child)
			}
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", t)
		}
		// consume the closing delimiter
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
	case string:
		n.Kind = KindString
		lit, err := marshal(t)
		if err != nil {
			return nil, err
		}
		n.Literal = string(lit)
	case json.Number:
		n.Kind = KindNumber
		n.Literal = canonicalNumber(t.String())
	case bool:
		n.Kind = KindBool
		n.Literal = fmt.Sprint(t)
	case nil:
		n.Kind = KindNull
		n.Literal = "null"
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
	return n, nil
}

// canonicalNumber rewrites a number literal in its shortest form: 1.0 is 1,
// 1e2 is 100, 1e-7 stays 1e-7. Integer literals keep every digit; values out
// of float64 range are left as received.
func canonicalNumber(lit string) string {
	if !strings.ContainsAny(lit, ".eE") {
		if lit == "-0" {
			return "0"
		}
		return lit
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return lit
	}
	if f == 0 {
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	mant, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
	return mant + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
}
