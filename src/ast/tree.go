package ast

import (
	"fmt"
	"slices"
)

type NodeID int32

const NoNode NodeID = -1

type Lifecycle uint8

const (
	Building Lifecycle = iota
	Frozen
)

func (l Lifecycle) String() string {
	if l == Frozen {
		return "frozen"
	}
	return "building"
}

type record struct {
	kind      Kind
	role      Role
	parent    NodeID
	state     Lifecycle
	extent    Extent
	hasExtent bool
	attrs     Attrs
	children  []NodeID
}

// Tree is an arena of nodes. Nodes detached by Replace stay in the arena but are
// no longer reachable from their former parent.
type Tree struct {
	nodes []record
	root  NodeID
}

func NewTree() *Tree {
	return &Tree{root: NoNode}
}

func (t *Tree) rec(id NodeID) *record {
	if id < 0 || int(id) >= len(t.nodes) {
		panic(fmt.Sprintf("node %d does not belong to this tree", id))
	}
	return &t.nodes[id]
}

// NewNode allocates a parentless Building node.
func (t *Tree) NewNode(kind Kind, attrs Attrs) NodeID {
	if kind == KindInvalid || kind >= kindCount {
		panic("cannot allocate a node of invalid kind")
	}
	t.nodes = append(t.nodes, record{
		kind:   kind,
		role:   RoleNone,
		parent: NoNode,
		attrs:  attrs,
	})
	return NodeID(len(t.nodes) - 1)
}

func (t *Tree) Len() int { return len(t.nodes) }

func (t *Tree) Root() NodeID { return t.root }

func (t *Tree) SetRoot(id NodeID) error {
	if t.root != NoNode && t.rec(t.root).state == Frozen {
		return &FrozenTreeError{Node: t.root, Op: "SetRoot"}
	}
	if t.rec(id).parent != NoNode {
		panic("root must not have a parent")
	}
	t.root = id
	return nil
}

func (t *Tree) Node(id NodeID) Node { return Node{tree: t, id: id} }

func (t *Tree) Kind(id NodeID) Kind { return t.rec(id).kind }

func (t *Tree) Role(id NodeID) Role { return t.rec(id).role }

func (t *Tree) Parent(id NodeID) NodeID { return t.rec(id).parent }

func (t *Tree) State(id NodeID) Lifecycle { return t.rec(id).state }

func (t *Tree) IsFrozen(id NodeID) bool { return t.rec(id).state == Frozen }

func (t *Tree) Attrs(id NodeID) Attrs { return t.rec(id).attrs }

func (t *Tree) Text(id NodeID) string { return t.rec(id).attrs.Text }

func (t *Tree) Op(id NodeID) string { return t.rec(id).attrs.Op }

func (t *Tree) Extent(id NodeID) (Extent, bool) {
	r := t.rec(id)
	return r.extent, r.hasExtent
}

// Children returns the children of id in slot order. The slice is a copy.
func (t *Tree) Children(id NodeID) []NodeID {
	return slices.Clone(t.rec(id).children)
}

func (t *Tree) NumChildren(id NodeID) int { return len(t.rec(id).children) }

// Child returns the first child holding role, or NoNode.
func (t *Tree) Child(id NodeID, role Role) NodeID {
	for _, c := range t.rec(id).children {
		if t.nodes[c].role == role {
			return c
		}
	}
	return NoNode
}

func (t *Tree) ChildrenWithRole(id NodeID, role Role) []NodeID {
	res := []NodeID{}
	for _, c := range t.rec(id).children {
		if t.nodes[c].role == role {
			res = append(res, c)
		}
	}
	return res
}

// IndexInParent returns the position of id among its parent's children, -1 for roots.
func (t *Tree) IndexInParent(id NodeID) int {
	p := t.rec(id).parent
	if p == NoNode {
		return -1
	}
	return slices.Index(t.nodes[p].children, id)
}

// Ancestor returns the closest strict ancestor of id matching pred, or NoNode.
func (t *Tree) Ancestor(id NodeID, pred func(NodeID) bool) NodeID {
	for p := t.rec(id).parent; p != NoNode; p = t.nodes[p].parent {
		if pred(p) {
			return p
		}
	}
	return NoNode
}

func (t *Tree) checkBuilding(id NodeID, op string) error {
	if t.rec(id).state == Frozen {
		return &FrozenTreeError{Node: id, Op: op}
	}
	return nil
}

func (t *Tree) SetAttrs(id NodeID, attrs Attrs) error {
	if err := t.checkBuilding(id, "SetAttrs"); err != nil {
		return err
	}
	t.nodes[id].attrs = attrs
	return nil
}

func (t *Tree) SetExtent(id NodeID, ext Extent) error {
	if err := t.checkBuilding(id, "SetExtent"); err != nil {
		return err
	}
	t.nodes[id].extent = ext
	t.nodes[id].hasExtent = true
	return nil
}

// AddChild appends child to parent under role, keeping children in slot order.
// Both nodes must be Building and child must be parentless.
func (t *Tree) AddChild(parent NodeID, role Role, child NodeID) error {
	if err := t.checkBuilding(parent, "AddChild"); err != nil {
		return err
	}
	if err := t.checkBuilding(child, "AddChild"); err != nil {
		return err
	}
	if t.nodes[child].parent != NoNode {
		panic(fmt.Sprintf("node %d already has parent %d", child, t.nodes[child].parent))
	}
	if parent == child {
		panic("node cannot be its own child")
	}
	t.attach(parent, role, child)
	return nil
}

func (t *Tree) attach(parent NodeID, role Role, child NodeID) {
	pk := t.nodes[parent].kind
	idx := pk.slotIndex(role)
	if idx < 0 {
		panic(fmt.Sprintf("%s has no %s slot", pk, role))
	}
	if !pk.isListSlot(role) && t.Child(parent, role) != NoNode {
		panic(fmt.Sprintf("%s slot %s is already occupied", pk, role))
	}
	children := t.nodes[parent].children
	pos := len(children)
	for i, c := range children {
		if pk.slotIndex(t.nodes[c].role) > idx {
			pos = i
			break
		}
	}
	t.nodes[parent].children = slices.Insert(children, pos, child)
	t.nodes[child].parent = parent
	t.nodes[child].role = role
}

func (t *Tree) detach(child NodeID) {
	p := t.nodes[child].parent
	if p == NoNode {
		return
	}
	t.nodes[p].children = slices.DeleteFunc(t.nodes[p].children, func(c NodeID) bool { return c == child })
	t.nodes[child].parent = NoNode
	t.nodes[child].role = RoleNone
}

// SetParent moves n under p keeping its current role. p may be NoNode to detach n.
func (t *Tree) SetParent(n, p NodeID) error {
	if err := t.checkBuilding(n, "SetParent"); err != nil {
		return err
	}
	if p != NoNode {
		if err := t.checkBuilding(p, "SetParent"); err != nil {
			return err
		}
	}
	if old := t.nodes[n].parent; old != NoNode {
		if err := t.checkBuilding(old, "SetParent"); err != nil {
			return err
		}
	}
	role := t.nodes[n].role
	t.detach(n)
	if p != NoNode {
		t.attach(p, role, n)
	} else {
		t.nodes[n].role = role
	}
	return nil
}

// SetRole changes the slot n occupies in its parent.
func (t *Tree) SetRole(n NodeID, r Role) error {
	if err := t.checkBuilding(n, "SetRole"); err != nil {
		return err
	}
	p := t.nodes[n].parent
	if p == NoNode {
		t.nodes[n].role = r
		return nil
	}
	if err := t.checkBuilding(p, "SetRole"); err != nil {
		return err
	}
	t.detach(n)
	t.attach(p, r, n)
	return nil
}

// Replace puts repl in old's place under parent, with old's role. old is detached.
// Calling it with an old that is not a child of parent is a programming error.
func (t *Tree) Replace(parent, old, repl NodeID) error {
	idx := slices.Index(t.rec(parent).children, old)
	if idx < 0 || t.rec(old).parent != parent {
		panic(fmt.Sprintf("node %d is not a child of %d", old, parent))
	}
	if len(t.nodes[parent].kind.info().slots) == 0 {
		panic(fmt.Sprintf("%s cannot hold an ambiguity", t.nodes[parent].kind))
	}
	if err := t.checkBuilding(parent, "Replace"); err != nil {
		return err
	}
	if err := t.checkBuilding(repl, "Replace"); err != nil {
		return err
	}
	if old == repl {
		return nil
	}
	if rp := t.nodes[repl].parent; rp != NoNode {
		if err := t.checkBuilding(rp, "Replace"); err != nil {
			return err
		}
		t.detach(repl)
		// detaching repl from parent itself shifts old
		idx = slices.Index(t.nodes[parent].children, old)
	}
	role := t.nodes[old].role
	t.nodes[parent].children[idx] = repl
	t.nodes[repl].parent = parent
	t.nodes[repl].role = role
	t.nodes[old].parent = NoNode
	t.nodes[old].role = RoleNone
	return nil
}

// Freeze makes id and all of its descendants immutable. It fails without
// freezing anything if the subtree still holds an ambiguous node.
func (t *Tree) Freeze(id NodeID) error {
	var blocked NodeID = NoNode
	t.walk(id, func(n NodeID) bool {
		if t.nodes[n].kind.IsAmbiguous() {
			blocked = n
			return false
		}
		return true
	})
	if blocked != NoNode {
		return &AmbiguityError{Node: blocked, Kind: t.nodes[blocked].kind}
	}
	t.walk(id, func(n NodeID) bool {
		t.nodes[n].state = Frozen
		return true
	})
	return nil
}

func (t *Tree) FreezeAll() error {
	if t.root == NoNode {
		return nil
	}
	return t.Freeze(t.root)
}

// walk is a raw pre-order walk that also enters ambiguous candidates.
func (t *Tree) walk(id NodeID, f func(NodeID) bool) bool {
	if !f(id) {
		return false
	}
	for _, c := range t.nodes[id].children {
		if !t.walk(c, f) {
			return false
		}
	}
	return true
}

// Preorder numbers the nodes under id in pre-order, ambiguous candidates
// included. The result is indexed by NodeID, nodes outside the subtree get -1.
func (t *Tree) Preorder(id NodeID) []int32 {
	res := make([]int32, len(t.nodes))
	for i := range res {
		res[i] = -1
	}
	var next int32
	t.walk(id, func(n NodeID) bool {
		res[n] = next
		next++
		return true
	})
	return res
}

// Validate checks parent/child consistency and slot membership for every node
// reachable from the root.
func (t *Tree) Validate() error {
	if t.root == NoNode {
		return nil
	}
	if t.nodes[t.root].parent != NoNode {
		return fmt.Errorf("root %d has parent %d", t.root, t.nodes[t.root].parent)
	}
	var err error
	t.walk(t.root, func(n NodeID) bool {
		r := &t.nodes[n]
		last := -1
		seen := map[Role]bool{}
		for _, c := range r.children {
			cr := &t.nodes[c]
			switch {
			case cr.parent != n:
				err = fmt.Errorf("child %d of %d reports parent %d", c, n, cr.parent)
			case !r.kind.HasSlot(cr.role):
				err = fmt.Errorf("child %d has role %s which %s does not have", c, cr.role, r.kind)
			case r.kind.slotIndex(cr.role) < last:
				err = fmt.Errorf("children of %d are out of slot order", n)
			case seen[cr.role] && !r.kind.isListSlot(cr.role):
				err = fmt.Errorf("slot %s of %d is occupied twice", cr.role, n)
			case r.state == Frozen && cr.state != Frozen:
				err = fmt.Errorf("frozen node %d has building child %d", n, c)
			}
			if err != nil {
				return false
			}
			last = r.kind.slotIndex(cr.role)
			seen[cr.role] = true
		}
		return true
	})
	return err
}
