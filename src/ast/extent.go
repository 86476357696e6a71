package ast

// Extent is a half-open byte range in the source. Derived is set on nodes
// produced by copying, their extent was borrowed from the original.
type Extent struct {
	Offset  int
	Length  int
	Derived bool
}

func (e Extent) End() int { return e.Offset + e.Length }

func (e Extent) Contains(offset int) bool {
	return offset >= e.Offset && offset < e.End()
}

// ExtentBounds returns the smallest extent covering id and every descendant
// that has one. ok is false when nothing in the subtree carries an extent.
func (t *Tree) ExtentBounds(id NodeID) (bounds Extent, ok bool) {
	min, max := 0, 0
	t.walk(id, func(n NodeID) bool {
		r := &t.nodes[n]
		if !r.hasExtent {
			return true
		}
		if !ok {
			min, max = r.extent.Offset, r.extent.End()
			bounds.Derived = r.extent.Derived
			ok = true
			return true
		}
		if r.extent.Offset < min {
			min = r.extent.Offset
		}
		if r.extent.End() > max {
			max = r.extent.End()
		}
		return true
	})
	bounds.Offset = min
	bounds.Length = max - min
	return bounds, ok
}

// NodeAt returns the innermost node reachable from the root whose extent contains offset.
func (t *Tree) NodeAt(offset int) NodeID {
	if t.root == NoNode {
		return NoNode
	}
	found := NoNode
	var visit func(NodeID)
	visit = func(n NodeID) {
		if ext, has := t.Extent(n); has && !ext.Contains(offset) {
			return
		} else if has {
			found = n
		}
		if t.nodes[n].kind.IsAmbiguous() {
			return
		}
		for _, c := range t.nodes[n].children {
			visit(c)
		}
	}
	visit(t.root)
	return found
}
