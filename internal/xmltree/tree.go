package xmltree

import (
	"fmt"

	"github.com/clbanning/mxj/v2"
)

// Node is the dynamically-shaped tree produced by parsing an XML document.
// Every value is one of: string (leaf), map[string]any (element), or []any
// (repeated element). A repeated element with exactly one occurrence is
// indistinguishable from a singleton, so callers must go through List at
// every point the schema declares repetition.
type Node map[string]any

// Parse converts raw XML bytes into a Node. Attributes and child elements
// are merged into one flat mapping per element.
func Parse(raw []byte) (Node, error) {
	m, err := mxj.NewMapXml(raw)
	if err != nil {
		return nil, fmt.Errorf("Failed to parse XML: %w", err)
	}
	return Node(m), nil
}

// Child returns the nested mapping under key, or nil when the key is absent
// or holds a leaf value.
func (n Node) Child(key string) Node {
	if n == nil {
		return nil
	}
	if m, ok := n[key].(map[string]any); ok {
		return Node(m)
	}
	return nil
}

// Str returns the string leaf under key, or "" when absent or non-leaf.
func (n Node) Str(key string) string {
	if n == nil {
		return ""
	}
	if s, ok := n[key].(string); ok {
		return s
	}
	return ""
}

// Has reports whether key is present at all.
func (n Node) Has(key string) bool {
	if n == nil {
		return false
	}
	_, ok := n[key]
	return ok
}

// List normalizes the singleton-vs-sequence ambiguity under key: a single
// mapping becomes a one-element slice, a sequence yields its mapping
// elements in order, and anything else yields nil.
func (n Node) List(key string) []Node {
	if n == nil {
		return nil
	}
	switch v := n[key].(type) {
	case map[string]any:
		return []Node{Node(v)}
	case []any:
		out := make([]Node, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				out = append(out, Node(m))
			}
		}
		return out
	default:
		return nil
	}
}
