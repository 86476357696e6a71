package ast

import (
	"errors"
	"reflect"
	"testing"

	"github.com/sirkon/deepequal"
)

// int a[3], *p = 0;
func buildDeclaration(b *Builder) NodeID {
	arr := b.ArrayDeclarator("a", b.ArrayModifier(0, b.Int("3")))
	ptr := b.Init(b.Declarator("p", b.Pointer(0)), b.Equals(b.Int("0")))
	decl := b.Declaration(b.Basic(DeclSpec{Type: BasicInt}, 0, StorageNone), arr, ptr)
	return b.TranslationUnit(decl)
}

func roles(t *Tree, id NodeID) []Role {
	res := []Role{}
	for _, c := range t.Children(id) {
		res = append(res, t.Role(c))
	}
	return res
}

func TestParentChildConsistency(t *testing.T) {
	b := NewBuilder()
	root := buildDeclaration(b)
	tree := b.Tree()

	if err := tree.Validate(); err != nil {
		t.Fatal(err)
	}
	Inspect(tree, root, func(n Node) bool {
		for _, c := range n.Children() {
			if c.Parent().ID() != n.ID() {
				t.Errorf("child %d of %s reports parent %d", c.ID(), n.Kind(), c.Parent().ID())
			}
			if !n.Kind().HasSlot(c.Role()) {
				t.Errorf("%s holds a child in foreign slot %s", n.Kind(), c.Role())
			}
		}
		return true
	})
}

func TestChildrenFollowSlotOrder(t *testing.T) {
	b := NewBuilder()
	tree := b.Tree()
	d := b.ArrayDeclarator("")
	m1 := b.ArrayModifier(0, NoNode)
	m2 := b.ArrayModifier(QualConst, NoNode)

	must(tree.AddChild(d, RoleInitializer, b.Equals(b.Int("1"))))
	must(tree.AddChild(d, RoleArrayModifier, m1))
	must(tree.AddChild(d, RoleNestedDeclarator, b.Declarator("a")))
	must(tree.AddChild(d, RolePointerOperator, b.Pointer(0)))
	must(tree.AddChild(d, RoleArrayModifier, m2))

	want := []Role{RolePointerOperator, RoleArrayModifier, RoleArrayModifier, RoleNestedDeclarator, RoleInitializer}
	if got := roles(tree, d); !reflect.DeepEqual(want, got) {
		deepequal.SideBySide(t, "roles", want, got)
	}
	if mods := tree.ChildrenWithRole(d, RoleArrayModifier); !reflect.DeepEqual([]NodeID{m1, m2}, mods) {
		t.Errorf("array modifiers out of insertion order: %v", mods)
	}
}

func TestSetRoleMovesChildToNewSlot(t *testing.T) {
	b := NewBuilder()
	tree := b.Tree()
	lhs, rhs := b.Id("a"), b.Id("b")
	bin := b.Binary("+", NoNode, lhs)
	must(tree.SetRole(lhs, RoleOperand1))
	must(tree.AddChild(bin, RoleOperand2, rhs))

	want := []NodeID{lhs, rhs}
	if got := tree.Children(bin); !reflect.DeepEqual(want, got) {
		deepequal.SideBySide(t, "children", want, got)
	}
	if tree.Role(lhs) != RoleOperand1 {
		t.Errorf("role is %s", tree.Role(lhs))
	}
}

func TestSetParentReattaches(t *testing.T) {
	b := NewBuilder()
	tree := b.Tree()
	x := b.Id("x")
	s1 := b.ExprStmt(x)
	s2 := b.ExprStmt(NoNode)
	b.TranslationUnit()

	must(tree.SetParent(x, s2))
	if tree.Parent(x) != s2 || tree.Child(s2, RoleExpression) != x {
		t.Fatal("x was not moved under s2")
	}
	if tree.NumChildren(s1) != 0 {
		t.Error("x is still listed under s1")
	}
	if tree.Role(x) != RoleExpression {
		t.Errorf("role changed to %s", tree.Role(x))
	}
}

func TestFreezeIsIrreversible(t *testing.T) {
	b := NewBuilder()
	root := buildDeclaration(b)
	tree := b.Tree()
	if err := tree.FreezeAll(); err != nil {
		t.Fatal(err)
	}

	decl := tree.Child(root, RoleDeclaration)
	d := tree.Child(decl, RoleDeclarator)
	orphan := b.Id("y")

	checks := map[string]error{
		"SetRole":   tree.SetRole(d, RoleDeclSpecifier),
		"SetParent": tree.SetParent(d, NoNode),
		"AddChild":  tree.AddChild(decl, RoleDeclarator, orphan),
		"Replace":   tree.Replace(decl, d, orphan),
		"SetExtent": tree.SetExtent(d, Extent{}),
	}
	for op, err := range checks {
		if !errors.Is(err, ErrFrozenTree) {
			t.Errorf("%s: expected ErrFrozenTree, got %v", op, err)
			continue
		}
		var fe *FrozenTreeError
		if !errors.As(err, &fe) {
			t.Errorf("%s: error is not a *FrozenTreeError", op)
		}
	}
	if tree.Parent(orphan) != NoNode || tree.Parent(d) != decl {
		t.Error("frozen tree was modified")
	}
	if err := tree.Validate(); err != nil {
		t.Error(err)
	}
}

func TestFreezeRejectsAmbiguity(t *testing.T) {
	b := NewBuilder()
	amb := b.Ambiguous(KindAmbiguousExpression, b.Id("a"), b.Id("b"))
	b.TranslationUnit(b.FunctionDef(
		b.Basic(DeclSpec{Type: BasicVoid}, 0, StorageNone),
		b.FunctionDeclarator("f"),
		b.Compound(b.ExprStmt(amb)),
	))
	tree := b.Tree()

	err := tree.FreezeAll()
	if !errors.Is(err, ErrAmbiguityInFrozenTree) {
		t.Fatalf("expected ErrAmbiguityInFrozenTree, got %v", err)
	}
	if tree.IsFrozen(tree.Root()) {
		t.Error("failed freeze froze the root")
	}
}

func TestReplacePreservesRole(t *testing.T) {
	b := NewBuilder()
	tree := b.Tree()
	cast := b.Cast(b.TypeID(b.Named("T", 0, StorageNone), b.Declarator("")), b.Unary(OpMinus, b.Id("x")))
	bin := b.Binary("-", b.Bracketed(b.Id("T")), b.Id("x"))
	amb := b.Ambiguous(KindAmbiguousBinaryVsCast, bin, cast)
	call := b.Call(b.Id("f"), b.Int("1"), amb)
	b.TranslationUnit(b.Declaration(b.Basic(DeclSpec{Type: BasicInt}, 0, StorageNone),
		b.Init(b.Declarator("v"), b.Equals(call))))

	if err := tree.Replace(call, amb, cast); err != nil {
		t.Fatal(err)
	}
	if tree.Parent(cast) != call || tree.Role(cast) != RoleArgument {
		t.Errorf("cast is %s under %d", tree.Role(cast), tree.Parent(cast))
	}
	if tree.Parent(amb) != NoNode || tree.Role(amb) != RoleNone {
		t.Error("ambiguous node still attached")
	}
	if got := tree.ChildrenWithRole(call, RoleArgument); len(got) != 2 || got[1] != cast {
		t.Errorf("unexpected arguments %v", got)
	}
	if err := tree.Validate(); err != nil {
		t.Error(err)
	}
	if err := tree.FreezeAll(); err != nil {
		t.Error(err)
	}
}

func TestReplaceNonChildPanics(t *testing.T) {
	b := NewBuilder()
	bin := b.Binary("+", b.Id("a"), b.Id("b"))
	stray := b.Id("c")
	defer func() {
		if recover() == nil {
			t.Error("Replace with a non-child did not panic")
		}
	}()
	_ = b.Tree().Replace(bin, stray, b.Id("d"))
}

func TestAddChildToOccupiedSlotPanics(t *testing.T) {
	b := NewBuilder()
	ret := b.Return(b.Id("a"))
	defer func() {
		if recover() == nil {
			t.Error("second return value was accepted")
		}
	}()
	_ = b.Tree().AddChild(ret, RoleReturnValue, b.Id("b"))
}

func TestDump(t *testing.T) {
	b := NewBuilder()
	e := b.Binary("-", b.Id("x"), b.Int("1"))
	want := `(BinaryExpression op="-" (IdExpression "x") (LiteralExpression int "1"))`
	if got := b.Tree().Dump(e); got != want {
		deepequal.SideBySide(t, "dump", want, got)
	}
}

func TestReduceStack(t *testing.T) {
	b := NewBuilder()
	// a * (b + c)
	b.Push(b.Id("a"))
	b.Push(b.Id("b"))
	b.Push(b.Id("c"))
	b.ReduceBinary("+")
	b.ReduceUnary(OpBracketed)
	b.ReduceBinary("*")
	if b.Pending() != 1 {
		t.Fatalf("%d nodes left on the stack", b.Pending())
	}
	want := `(BinaryExpression op="*" (IdExpression "a") (UnaryExpression op="()" (BinaryExpression op="+" (IdExpression "b") (IdExpression "c"))))`
	if got := b.Tree().Dump(b.Pop()); got != want {
		deepequal.SideBySide(t, "dump", want, got)
	}
}

func TestDeclaratorHelpers(t *testing.T) {
	b := NewBuilder()
	tree := b.Tree()
	// int (*fp)(int);
	inner := b.Declarator("fp", b.Pointer(0))
	fn := b.Nest(b.FunctionDeclarator("", b.Param(b.Basic(DeclSpec{Type: BasicInt}, 0, StorageNone), b.Declarator(""))), inner)
	spec := b.Basic(DeclSpec{Type: BasicInt}, 0, StorageTypedef)
	b.Declaration(spec, fn)

	if got := tree.DeclaratorName(fn); got != "fp" {
		t.Errorf("name = %q", got)
	}
	if got := tree.OutermostDeclarator(inner); got != fn {
		t.Errorf("outermost = %d, want %d", got, fn)
	}
	if got := tree.DeclSpecifierOf(inner); got != spec {
		t.Errorf("spec = %d, want %d", got, spec)
	}
	if !tree.IsTypedef(spec) {
		t.Error("typedef storage class lost")
	}
}
