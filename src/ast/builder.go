package ast

import (
	"github.com/eclipse-cdt/cdt-sub043/src/utils"
)

// Builder is the parser-facing way of constructing a tree. Constructors take
// already built children (NoNode for an absent optional child) and return the
// new node. A shift-reduce parser can instead Push finished nodes and call the
// Reduce* methods, which pop their operands in reverse order.
type Builder struct {
	tree           *Tree
	reductionStack *utils.Stack[NodeID]
	pending        *Extent
}

func NewBuilder() *Builder {
	return NewBuilderFor(NewTree())
}

func NewBuilderFor(t *Tree) *Builder {
	return &Builder{
		tree:           t,
		reductionStack: utils.NewStack[NodeID](),
	}
}

func (b *Builder) Tree() *Tree { return b.tree }

// At sets the extent of the next node built.
func (b *Builder) At(offset, length int) *Builder {
	b.pending = &Extent{Offset: offset, Length: length}
	return b
}

// Span sets the extent of an already built node.
func (b *Builder) Span(id NodeID, offset, length int) NodeID {
	must(b.tree.SetExtent(id, Extent{Offset: offset, Length: length}))
	return id
}

func (b *Builder) node(kind Kind, attrs Attrs) NodeID {
	id := b.tree.NewNode(kind, attrs)
	if b.pending != nil {
		must(b.tree.SetExtent(id, *b.pending))
		b.pending = nil
	}
	return id
}

func (b *Builder) attach(parent NodeID, role Role, children ...NodeID) {
	for _, c := range children {
		if c == NoNode {
			continue
		}
		must(b.tree.AddChild(parent, role, c))
	}
}

func (b *Builder) Push(id NodeID) { b.reductionStack.Push(id) }

func (b *Builder) Pop() NodeID { return b.reductionStack.Pop() }

func (b *Builder) Pending() int { return b.reductionStack.Size() }

func (b *Builder) popN(n int) []NodeID {
	res := make([]NodeID, n)
	for i := n - 1; i >= 0; i-- {
		res[i] = b.reductionStack.Pop()
	}
	return res
}

// Ambiguous wraps alternative parses of the same source range. Candidates
// keep their order, the first one is the parser's preferred reading.
func (b *Builder) Ambiguous(kind Kind, candidates ...NodeID) NodeID {
	if !kind.IsAmbiguous() {
		panic(kind.String() + " is not an ambiguous kind")
	}
	id := b.node(kind, Attrs{})
	b.attach(id, RoleCandidate, candidates...)
	return id
}

// ReduceAmbiguous pops n candidates.
func (b *Builder) ReduceAmbiguous(kind Kind, n int) {
	b.Push(b.Ambiguous(kind, b.popN(n)...))
}

// TranslationUnit builds the root of the tree.
func (b *Builder) TranslationUnit(decls ...NodeID) NodeID {
	id := b.node(KindTranslationUnit, Attrs{})
	b.attach(id, RoleDeclaration, decls...)
	must(b.tree.SetRoot(id))
	return id
}

// ReduceTranslationUnit consumes everything left on the stack.
func (b *Builder) ReduceTranslationUnit() NodeID {
	return b.TranslationUnit(b.popN(b.reductionStack.Size())...)
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
