package preset

import (
	"fmt"
	"strconv"
	"strings"
)

// KeyPath locates a leaf in a theme tree. Indexed paths point at one element
// of a sequence leaf.
type KeyPath struct {
	Segments []string
	Index    int
	Indexed  bool
}

// Category is the first path segment, e.g. "colors".
func (p KeyPath) Category() string {
	if len(p.Segments) == 0 {
		return ""
	}
	return p.Segments[0]
}

// Name is the path below the category joined with "-", including the index
// for sequence elements.
func (p KeyPath) Name() string {
	var parts []string
	if len(p.Segments) > 1 {
		parts = append(parts, p.Segments[1:]...)
	}
	if p.Indexed {
		parts = append(parts, strconv.Itoa(p.Index))
	}
	return strings.Join(parts, "-")
}

// LeafIndex returns the sequence index, or -1 for scalar leaves.
func (p KeyPath) LeafIndex() int {
	if !p.Indexed {
		return -1
	}
	return p.Index
}

func (p KeyPath) String() string {
	s := strings.Join(p.Segments, ".")
	if p.Indexed {
		s += "[" + strconv.Itoa(p.Index) + "]"
	}
	return s
}

func (p KeyPath) child(key string) KeyPath {
	segments := make([]string, len(p.Segments), len(p.Segments)+1)
	copy(segments, p.Segments)
	return KeyPath{Segments: append(segments, key)}
}

func (p KeyPath) element(i int) KeyPath {
	return KeyPath{Segments: p.Segments, Index: i, Indexed: true}
}

// VariableName derives the custom property name for a path:
// prefix, every segment and the index joined with "-". Segment characters
// that cannot appear in a CSS identifier are escaped, so "0.5" becomes "0\.5".
func VariableName(prefix string, p KeyPath) string {
	var sb strings.Builder
	sb.WriteString(prefix)
	for _, s := range p.Segments {
		sb.WriteString("-")
		writeEscaped(&sb, s)
	}
	if p.Indexed {
		sb.WriteString("-")
		sb.WriteString(strconv.Itoa(p.Index))
	}
	return sb.String()
}

// writeEscaped writes s, escaping ASCII characters outside [A-Za-z0-9_-].
// Non-ASCII passes through. Control characters use the hex form with its
// terminating space.
func writeEscaped(sb *strings.Builder, s string) {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_', r >= 0x80:
			sb.WriteRune(r)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(sb, "\\%x ", r)
		default:
			sb.WriteByte('\\')
			sb.WriteRune(r)
		}
	}
}

// Reference wraps a variable name in var(). The name is expected to come
// from VariableName and is already escaped.
func Reference(name string) string {
	return "var(" + name + ")"
}
