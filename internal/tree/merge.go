package tree

// Merge deep-merges the given mappings into a new tree. Later trees override
// earlier ones for conflicting leaves. When a leaf meets a mapping under the
// same key the leaf wins, whichever side it came from. Nil trees and non
// mapping roots are skipped. The inputs are never modified.
func Merge(trees ...*Node) *Node {
	out := NewMapping()
	for _, t := range trees {
		if t == nil || t.Kind != Mapping {
			continue
		}
		mergeInto(out, t)
	}
	return out
}

func mergeInto(dst, src *Node) {
	for _, k := range src.keys {
		incoming := src.children[k]
		existing, ok := dst.children[k]
		switch {
		case !ok:
			dst.Set(k, incoming.Clone())
		case existing.Kind == Mapping && incoming.Kind == Mapping:
			mergeInto(existing, incoming)
		case existing.IsLeaf() && incoming.Kind == Mapping:
			// keep the leaf
		default:
			dst.Set(k, incoming.Clone())
		}
	}
}
