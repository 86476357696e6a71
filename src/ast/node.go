package ast

// Node is a lightweight handle on a node of a Tree.
type Node struct {
	tree *Tree
	id   NodeID
}

func (n Node) ID() NodeID  { return n.id }
func (n Node) Tree() *Tree { return n.tree }

// Valid is false for the zero Node and for handles on NoNode.
func (n Node) Valid() bool { return n.tree != nil && n.id != NoNode }

func (n Node) Kind() Kind        { return n.tree.Kind(n.id) }
func (n Node) Role() Role        { return n.tree.Role(n.id) }
func (n Node) Text() string      { return n.tree.Text(n.id) }
func (n Node) Op() string        { return n.tree.Op(n.id) }
func (n Node) Attrs() Attrs      { return n.tree.Attrs(n.id) }
func (n Node) IsFrozen() bool    { return n.tree.IsFrozen(n.id) }
func (n Node) Is(c Category) bool { return n.Kind().Is(c) }

func (n Node) Parent() Node { return n.tree.Node(n.tree.Parent(n.id)) }

func (n Node) Child(role Role) Node { return n.tree.Node(n.tree.Child(n.id, role)) }

func (n Node) Children() []Node {
	ids := n.tree.Children(n.id)
	res := make([]Node, len(ids))
	for i, id := range ids {
		res[i] = n.tree.Node(id)
	}
	return res
}

func (n Node) ChildrenWithRole(role Role) []Node {
	ids := n.tree.ChildrenWithRole(n.id, role)
	res := make([]Node, len(ids))
	for i, id := range ids {
		res[i] = n.tree.Node(id)
	}
	return res
}

func (n Node) Extent() (Extent, bool) { return n.tree.Extent(n.id) }

func (n Node) Accept(v Visitor) bool { return n.tree.Accept(n.id, v) }

func (n Node) String() string {
	if !n.Valid() {
		return "<no node>"
	}
	return n.tree.Dump(n.id)
}
