package ast

type CopyStyle uint8

const (
	WithLocations CopyStyle = iota
	WithoutLocations
)

// Copy deep-clones the subtree rooted at id into a fresh Building tree whose
// root is the clone. The source may be frozen.
func (t *Tree) Copy(id NodeID, style CopyStyle) *Tree {
	dst := NewTree()
	root := t.copyInto(dst, id, style)
	dst.root = root
	return dst
}

// CopyInto clones the subtree rooted at id as a new parentless node of dst.
func (t *Tree) CopyInto(dst *Tree, id NodeID, style CopyStyle) NodeID {
	return t.copyInto(dst, id, style)
}

func (t *Tree) copyInto(dst *Tree, id NodeID, style CopyStyle) NodeID {
	src := *t.rec(id)
	clone := dst.NewNode(src.kind, src.attrs)
	if style == WithLocations && src.hasExtent {
		ext := src.extent
		ext.Derived = true
		dst.nodes[clone].extent = ext
		dst.nodes[clone].hasExtent = true
	}
	// src may alias dst, re-read children by index
	for i := 0; i < len(t.nodes[id].children); i++ {
		c := t.nodes[id].children[i]
		role := t.nodes[c].role
		cc := t.copyInto(dst, c, style)
		dst.nodes[clone].children = append(dst.nodes[clone].children, cc)
		dst.nodes[cc].parent = clone
		dst.nodes[cc].role = role
	}
	return clone
}
