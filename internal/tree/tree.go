// Package tree holds the typed theme tree: a nested mapping whose leaves are
// strings or ordered sequences of strings.
package tree

import (
	"fmt"
	"strings"
)

// Kind tags the variant a Node holds.
type Kind int

const (
	Scalar Kind = iota
	Sequence
	Mapping
)

func (k Kind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case Sequence:
		return "sequence"
	case Mapping:
		return "mapping"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Node is one position in a theme tree.
// Value is set for Scalar nodes, Items for Sequence nodes, and the ordered
// children for Mapping nodes. Keys keep their insertion order.
type Node struct {
	Kind  Kind
	Value string
	Items []string

	keys     []string
	children map[string]*Node
}

// NewMapping returns an empty mapping node.
func NewMapping() *Node {
	return &Node{Kind: Mapping, children: make(map[string]*Node)}
}

// NewScalar returns a scalar leaf.
func NewScalar(v string) *Node {
	return &Node{Kind: Scalar, Value: v}
}

// NewSequence returns a sequence leaf holding a copy of items.
func NewSequence(items ...string) *Node {
	return &Node{Kind: Sequence, Items: append([]string(nil), items...)}
}

// IsLeaf reports whether the node is a scalar or a sequence.
func (n *Node) IsLeaf() bool {
	return n.Kind != Mapping
}

// Keys returns the mapping keys in insertion order.
func (n *Node) Keys() []string {
	if n.Kind != Mapping {
		return nil
	}
	return append([]string(nil), n.keys...)
}

// Len returns the number of children, items, or 1 for scalars.
func (n *Node) Len() int {
	switch n.Kind {
	case Mapping:
		return len(n.keys)
	case Sequence:
		return len(n.Items)
	default:
		return 1
	}
}

// Get returns the child stored under key.
func (n *Node) Get(key string) (*Node, bool) {
	if n == nil || n.Kind != Mapping {
		return nil, false
	}
	child, ok := n.children[key]
	return child, ok
}

// Set stores child under key. Replacing an existing key keeps its position.
func (n *Node) Set(key string, child *Node) {
	if n.Kind != Mapping {
		panic(fmt.Sprintf("tree: Set on %s node", n.Kind))
	}
	if _, ok := n.children[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.children[key] = child
}

// Child returns the mapping stored under key, creating it when absent.
// An existing leaf under key is replaced.
func (n *Node) Child(key string) *Node {
	if child, ok := n.Get(key); ok && child.Kind == Mapping {
		return child
	}
	child := NewMapping()
	n.Set(key, child)
	return child
}

// Lookup walks path from n and returns the node found there.
func (n *Node) Lookup(path []string) (*Node, bool) {
	current := n
	for _, part := range path {
		child, ok := current.Get(part)
		if !ok {
			return nil, false
		}
		current = child
	}
	return current, current != nil
}

// Leaf resolves path to a string leaf. When index is non-negative the node at
// path must be a sequence and the element at index is returned.
func (n *Node) Leaf(path []string, index int) (string, bool) {
	node, ok := n.Lookup(path)
	if !ok {
		return "", false
	}
	if index >= 0 {
		if node.Kind != Sequence || index >= len(node.Items) {
			return "", false
		}
		return node.Items[index], true
	}
	if node.Kind != Scalar {
		return "", false
	}
	return node.Value, true
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case Scalar:
		return NewScalar(n.Value)
	case Sequence:
		return NewSequence(n.Items...)
	}
	out := NewMapping()
	for _, k := range n.keys {
		out.Set(k, n.children[k].Clone())
	}
	return out
}

// Walk visits every leaf in key order, depth first.
func (n *Node) Walk(fn func(path []string, leaf *Node)) {
	n.walk(nil, fn)
}

func (n *Node) walk(path []string, fn func([]string, *Node)) {
	if n.IsLeaf() {
		fn(path, n)
		return
	}
	for _, k := range n.keys {
		next := append(append([]string(nil), path...), k)
		n.children[k].walk(next, fn)
	}
}

// String renders the tree in a compact, deterministic form for debugging.
func (n *Node) String() string {
	var sb strings.Builder
	n.format(&sb)
	return sb.String()
}

func (n *Node) format(sb *strings.Builder) {
	switch n.Kind {
	case Scalar:
		fmt.Fprintf(sb, "%q", n.Value)
	case Sequence:
		sb.WriteString("[")
		for i, item := range n.Items {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(sb, "%q", item)
		}
		sb.WriteString("]")
	case Mapping:
		sb.WriteString("{")
		for i, k := range n.keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(k)
			sb.WriteString(": ")
			n.children[k].format(sb)
		}
		sb.WriteString("}")
	}
}
