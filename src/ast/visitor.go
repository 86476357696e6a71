package ast

type Action uint8

const (
	Continue Action = iota
	Skip            // do not enter the children of this node
	Abort           // stop the whole traversal
)

// Visitor receives Visit before and Leave after the children of every node
// whose kind falls in Categories. Ambiguous nodes are reported only to
// visitors that include CategoryAmbiguous, and their candidates are never
// traversed: such a visitor owns the ambiguous node.
type Visitor interface {
	Categories() Category
	Visit(n Node) Action
	Leave(n Node) Action
}

// BaseVisitor continues everywhere. Embed it and override what you need.
type BaseVisitor struct {
	Want Category
}

func (b BaseVisitor) Categories() Category { return b.Want }
func (BaseVisitor) Visit(Node) Action     { return Continue }
func (BaseVisitor) Leave(Node) Action     { return Continue }

// Accept traverses the subtree rooted at id in pre-order, children in slot
// order. It returns false when the visitor aborted.
func (t *Tree) Accept(id NodeID, v Visitor) bool {
	kind := t.rec(id).kind
	want := v.Categories()
	if kind.IsAmbiguous() {
		if want&CategoryAmbiguous == 0 {
			return true
		}
		return v.Visit(t.Node(id)) != Abort
	}
	interested := want&kind.Category() != 0
	if interested {
		switch v.Visit(t.Node(id)) {
		case Abort:
			return false
		case Skip:
			return true
		}
	}
	// the visitor may replace the child it is visiting, index the live slice
	for i := 0; i < len(t.nodes[id].children); i++ {
		if !t.Accept(t.nodes[id].children[i], v) {
			return false
		}
	}
	if interested {
		return v.Leave(t.Node(id)) != Abort
	}
	return true
}

type inspector struct {
	f func(Node) bool
}

func (inspector) Categories() Category { return CategoryAll }

func (i inspector) Visit(n Node) Action {
	if i.f(n) {
		return Continue
	}
	return Skip
}

func (inspector) Leave(Node) Action { return Continue }

// Inspect calls f for every non-ambiguous node in pre-order. Returning false
// from f skips the children of that node.
func Inspect(t *Tree, id NodeID, f func(Node) bool) {
	t.Accept(id, inspector{f: f})
}
