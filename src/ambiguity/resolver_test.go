package ambiguity

import (
	"io"
	"log/slog"
	"testing"

	"github.com/sirkon/deepequal"

	"github.com/eclipse-cdt/cdt-sub043/src/ast"
	"github.com/eclipse-cdt/cdt-sub043/src/semantics"
)

func intSpec(b *ast.Builder) ast.NodeID {
	return b.Basic(ast.DeclSpec{Type: ast.BasicInt}, 0, ast.StorageNone)
}

// typedef int name;
func typedefInt(b *ast.Builder, name string) ast.NodeID {
	return b.Declaration(b.Basic(ast.DeclSpec{Type: ast.BasicInt}, 0, ast.StorageTypedef), b.Declarator(name))
}

// int name;
func intVar(b *ast.Builder, name string) ast.NodeID {
	return b.Declaration(intSpec(b), b.Declarator(name))
}

// unit puts decls at file scope, followed by void f(void) { stmts }.
func unit(b *ast.Builder, decls []ast.NodeID, stmts ...ast.NodeID) ast.NodeID {
	void := b.Basic(ast.DeclSpec{Type: ast.BasicVoid}, 0, ast.StorageNone)
	fd := b.FunctionDeclarator("f", b.Param(b.Basic(ast.DeclSpec{Type: ast.BasicVoid}, 0, ast.StorageNone), ast.NoNode))
	return b.TranslationUnit(append(decls, b.FunctionDef(void, fd, b.Compound(stmts...)))...)
}

func newResolver(b *ast.Builder) (*Resolver, *semantics.Index) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	idx := semantics.NewIndex(b.Tree(), semantics.Config{Logger: logger})
	return NewResolver(idx, semantics.NewErrorTracker(b.Tree(), logger)), idx
}

// (name) - x, as a binary expression and as a cast of -x
func binaryVsCast(b *ast.Builder, name string) (amb, binary, cast ast.NodeID) {
	binary = b.Binary("-", b.Bracketed(b.Id(name)), b.Id("x"))
	cast = b.Cast(b.TypeID(b.Named(name, 0, ast.StorageNone), ast.NoNode), b.Unary(ast.OpMinus, b.Id("x")))
	return b.Ambiguous(ast.KindAmbiguousBinaryVsCast, binary, cast), binary, cast
}

// (name)(x), as a cast of (x) and as a call of name
func castVsCall(b *ast.Builder, name string) (amb, cast, call ast.NodeID) {
	cast = b.Cast(b.TypeID(b.Named(name, 0, ast.StorageNone), ast.NoNode), b.Bracketed(b.Id("x")))
	call = b.Call(b.Bracketed(b.Id(name)), b.Id("x"))
	return b.Ambiguous(ast.KindAmbiguousCastVsCall, cast, call), cast, call
}

func TestBinaryVsCast(t *testing.T) {
	tests := []struct {
		name     string
		decl     func(b *ast.Builder) ast.NodeID
		wantCast bool
	}{
		{"typedef", func(b *ast.Builder) ast.NodeID { return typedefInt(b, "T") }, true},
		{"variable", func(b *ast.Builder) ast.NodeID { return intVar(b, "T") }, false},
		{"struct tag is not an ordinary name", func(b *ast.Builder) ast.NodeID {
			return b.Declaration(b.Composite(ast.KeyStruct, "T", b.Declaration(intSpec(b), b.Declarator("m"))), b.Declarator("T"))
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ast.NewBuilder()
			amb, binary, cast := binaryVsCast(b, "T")
			stmt := b.ExprStmt(amb)
			unit(b, []ast.NodeID{tt.decl(b), intVar(b, "x")}, stmt)
			r, _ := newResolver(b)

			report := r.Resolve(b.Tree().Root())
			want := binary
			if tt.wantCast {
				want = cast
			}
			if got := b.Tree().Child(stmt, ast.RoleExpression); got != want {
				t.Errorf("chose %s", b.Tree().Kind(got))
			}
			if b.Tree().Role(want) != ast.RoleExpression || b.Tree().Parent(want) != stmt {
				t.Error("winner must take over the slot of the ambiguity")
			}
			if report.Resolved != 1 || report.Failed != 0 || len(report.Diagnostics) != 0 {
				t.Errorf("report %+v", report)
			}
			if r.State(amb) != Resolved {
				t.Errorf("state %s", r.State(amb))
			}
		})
	}
}

func TestUnresolvedCastFallsBackToBinary(t *testing.T) {
	// (Point)x with Point declared nowhere
	b := ast.NewBuilder()
	binary := b.Binary("-", b.Bracketed(b.Id("Point")), b.At(8, 1).Id("x"))
	cast := b.Cast(b.TypeID(b.At(1, 5).Named("Point", 0, ast.StorageNone), ast.NoNode), b.Unary(ast.OpMinus, b.Id("x")))
	amb := b.Ambiguous(ast.KindAmbiguousBinaryVsCast, binary, cast)
	stmt := b.ExprStmt(amb)
	unit(b, []ast.NodeID{intVar(b, "x")}, stmt)
	r, _ := newResolver(b)

	report := r.Resolve(b.Tree().Root())
	if got := b.Tree().Child(stmt, ast.RoleExpression); got != binary {
		t.Fatalf("chose %s", b.Tree().Kind(got))
	}
	if r.State(amb) != Failed || report.Failed != 1 || report.Resolved != 0 {
		t.Errorf("state %s, report %+v", r.State(amb), report)
	}
	if len(report.Diagnostics) != 1 {
		t.Fatalf("diagnostics %v", report.Diagnostics)
	}
	d := report.Diagnostics[0]
	want := semantics.Diagnostic{
		ID:        semantics.NameNotFound,
		Severity:  semantics.SeverityWarning,
		Node:      binary,
		Message:   "AmbiguousBinaryVsCast: name not found: Point",
		Extent:    ast.Extent{Offset: 8, Length: 1},
		HasExtent: true,
	}
	if d != want {
		deepequal.SideBySide(t, "diagnostic", want, d)
		t.Error("unexpected diagnostic")
	}
	if err := b.Tree().FreezeAll(); err != nil {
		t.Errorf("best guess must leave a freezable tree: %s", err)
	}
}

func TestCastVsCall(t *testing.T) {
	tests := []struct {
		name     string
		decl     func(b *ast.Builder) ast.NodeID
		wantCast bool
		failed   int
	}{
		{"typedef", func(b *ast.Builder) ast.NodeID { return typedefInt(b, "g") }, true, 0},
		{"function", func(b *ast.Builder) ast.NodeID {
			return b.Declaration(intSpec(b), b.FunctionDeclarator("g", b.Param(intSpec(b), ast.NoNode)))
		}, false, 0},
		{"unknown", func(b *ast.Builder) ast.NodeID { return intVar(b, "unrelated") }, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ast.NewBuilder()
			amb, cast, call := castVsCall(b, "g")
			stmt := b.ExprStmt(amb)
			unit(b, []ast.NodeID{tt.decl(b), intVar(b, "x")}, stmt)
			r, _ := newResolver(b)

			report := r.Resolve(b.Tree().Root())
			want := call
			if tt.wantCast {
				want = cast
			}
			if got, _ := r.Chosen(amb); got != want {
				t.Errorf("chose %s", b.Tree().Kind(got))
			}
			if report.Failed != tt.failed {
				t.Errorf("report %+v", report)
			}
		})
	}
}

func TestGenericPicksFirstCleanCandidate(t *testing.T) {
	tests := []struct {
		name   string
		build  func(b *ast.Builder) []ast.NodeID
		want   int
		failed bool
	}{
		{"first clean", func(b *ast.Builder) []ast.NodeID {
			return []ast.NodeID{b.Id("x"), b.Binary("+", b.Id("x"), b.Int("1"))}
		}, 0, false},
		{"skips undeclared names", func(b *ast.Builder) []ast.NodeID {
			return []ast.NodeID{b.Id("y"), b.Id("x")}
		}, 1, false},
		{"skips type errors", func(b *ast.Builder) []ast.NodeID {
			return []ast.NodeID{b.Unary(ast.OpStar, b.Id("x")), b.Unary(ast.OpAmper, b.Id("x"))}
		}, 1, false},
		{"none clean keeps the first", func(b *ast.Builder) []ast.NodeID {
			return []ast.NodeID{b.Id("y"), b.Id("z")}
		}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ast.NewBuilder()
			candidates := tt.build(b)
			amb := b.Ambiguous(ast.KindAmbiguousExpression, candidates...)
			unit(b, []ast.NodeID{intVar(b, "x")}, b.ExprStmt(amb))
			r, _ := newResolver(b)

			report := r.Resolve(b.Tree().Root())
			if got, _ := r.Chosen(amb); got != candidates[tt.want] {
				t.Errorf("chose candidate %d", got)
			}
			if failed := r.State(amb) == Failed; failed != tt.failed {
				t.Errorf("state %s", r.State(amb))
			}
			if tt.failed && (len(report.Diagnostics) != 1 || report.Diagnostics[0].ID != semantics.UnresolvedAmbiguity) {
				t.Errorf("diagnostics %v", report.Diagnostics)
			}
		})
	}
}

func TestAlignment(t *testing.T) {
	tests := []struct {
		name       string
		decl       func(b *ast.Builder) ast.NodeID
		wantTypeID bool
	}{
		{"type", func(b *ast.Builder) ast.NodeID { return typedefInt(b, "A") }, true},
		{"value", func(b *ast.Builder) ast.NodeID { return intVar(b, "A") }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// _Alignas(A) int v;
			b := ast.NewBuilder()
			byType := b.Alignment(b.TypeID(b.Named("A", 0, ast.StorageNone), ast.NoNode))
			byExpr := b.Alignment(b.Id("A"))
			amb := b.Ambiguous(ast.KindAmbiguousAlignmentSpecifier, byExpr, byType)
			spec := b.AlignAs(intSpec(b), amb)
			unit(b, []ast.NodeID{tt.decl(b)}, b.DeclStmt(b.Declaration(spec, b.Declarator("v"))))
			r, _ := newResolver(b)

			report := r.Resolve(b.Tree().Root())
			want := byExpr
			if tt.wantTypeID {
				want = byType
			}
			if got := b.Tree().Child(spec, ast.RoleAlignmentSpecifier); got != want {
				t.Errorf("chose %d, want %d", got, want)
			}
			if report.Resolved != 1 {
				t.Errorf("report %+v", report)
			}
		})
	}
}

func TestStatement(t *testing.T) {
	tests := []struct {
		name     string
		decl     func(b *ast.Builder) ast.NodeID
		wantDecl bool
	}{
		{"typedef", func(b *ast.Builder) ast.NodeID { return typedefInt(b, "T") }, true},
		{"variable", func(b *ast.Builder) ast.NodeID { return intVar(b, "T") }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// T * x; x;
			b := ast.NewBuilder()
			xDecl := b.Declarator("x", b.Pointer(0))
			declStmt := b.DeclStmt(b.Declaration(b.Named("T", 0, ast.StorageNone), xDecl))
			exprStmt := b.ExprStmt(b.Binary("*", b.Id("T"), b.Id("x")))
			amb := b.Ambiguous(ast.KindAmbiguousStatement, declStmt, exprStmt)
			use := b.Id("x")
			unit(b, []ast.NodeID{tt.decl(b), intVar(b, "x")}, amb, b.ExprStmt(use))
			r, idx := newResolver(b)

			r.Resolve(b.Tree().Root())
			got, _ := r.Chosen(amb)
			if (got == declStmt) != tt.wantDecl {
				t.Fatalf("chose %s", b.Tree().Kind(got))
			}
			if tt.wantDecl {
				if bnd := idx.ResolveName(use); bnd != idx.BindingOf(xDecl) {
					t.Errorf("x after the declaration resolved to %v", bnd)
				}
				if typ := idx.Types().TypeOf(use).HumanReadableName(); typ != "T *" {
					t.Errorf("x has type %s", typ)
				}
			} else if idx.Types().TypeOf(use).HumanReadableName() != "int" {
				t.Error("x must keep referring to the global")
			}
		})
	}
}

func TestNestedAmbiguitiesResolveInnermostFirst(t *testing.T) {
	// (T) - <y | x>, with the operand ambiguous in both interpretations
	b := ast.NewBuilder()
	inner1 := b.Ambiguous(ast.KindAmbiguousExpression, b.Id("y"), b.Id("x"))
	inner2 := b.Ambiguous(ast.KindAmbiguousExpression, b.Id("y"), b.Id("x"))
	binary := b.Binary("-", b.Bracketed(b.Id("T")), inner1)
	cast := b.Cast(b.TypeID(b.Named("T", 0, ast.StorageNone), ast.NoNode), b.Unary(ast.OpMinus, inner2))
	outer := b.Ambiguous(ast.KindAmbiguousBinaryVsCast, binary, cast)
	stmt := b.ExprStmt(outer)
	unit(b, []ast.NodeID{typedefInt(b, "T"), intVar(b, "x")}, stmt)
	r, idx := newResolver(b)

	report := r.Resolve(b.Tree().Root())
	if report.Resolved != 3 || report.Failed != 0 {
		t.Errorf("report %+v", report)
	}
	for _, n := range []ast.NodeID{inner1, inner2, outer} {
		if r.State(n) != Resolved {
			t.Errorf("node %d is %s", n, r.State(n))
		}
	}
	if got := b.Tree().Child(stmt, ast.RoleExpression); got != cast {
		t.Fatalf("chose %s", b.Tree().Kind(got))
	}
	if got := idx.Types().TypeOf(cast).HumanReadableName(); got != "T" {
		t.Errorf("cast has type %s", got)
	}
	if idx.Types().HasProblems(cast) {
		t.Error("resolved cast still has problems")
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	b := ast.NewBuilder()
	amb, _, _ := binaryVsCast(b, "T")
	root := unit(b, []ast.NodeID{typedefInt(b, "T"), intVar(b, "x")}, b.ExprStmt(amb))
	r, _ := newResolver(b)

	r.Resolve(root)
	before := b.Tree().Dump(root)
	again := r.Resolve(root)
	if again.Resolved != 0 || again.Failed != 0 || len(again.Diagnostics) != 0 {
		t.Errorf("second pass did work: %+v", again)
	}
	if after := b.Tree().Dump(root); after != before {
		deepequal.SideBySide(t, "dump", before, after)
		t.Error("second pass changed the tree")
	}
	if err := b.Tree().FreezeAll(); err != nil {
		t.Error(err)
	}

	plain := ast.NewBuilder()
	proot := unit(plain, []ast.NodeID{intVar(plain, "x")}, plain.ExprStmt(plain.Id("x")))
	pr, _ := newResolver(plain)
	if rep := pr.Resolve(proot); rep.Resolved != 0 || rep.Failed != 0 {
		t.Errorf("tree without ambiguities: %+v", rep)
	}
}

func TestMalformedAmbiguityDoesNotPanic(t *testing.T) {
	b := ast.NewBuilder()
	empty := b.Ambiguous(ast.KindAmbiguousExpression)
	oneSided := b.Ambiguous(ast.KindAmbiguousBinaryVsCast, b.Id("x"))
	unit(b, []ast.NodeID{intVar(b, "x")}, b.ExprStmt(empty), b.ExprStmt(oneSided))
	r, _ := newResolver(b)

	report := r.Resolve(b.Tree().Root())
	if r.State(empty) != Failed {
		t.Errorf("empty ambiguity is %s", r.State(empty))
	}
	if r.State(oneSided) != Resolved {
		t.Errorf("single candidate ambiguity is %s", r.State(oneSided))
	}
	if report.Failed != 1 || report.Resolved != 1 {
		t.Errorf("report %+v", report)
	}
}

func TestIncompleteCandidateLoses(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *ast.Builder) (amb, want ast.NodeID)
	}{
		{"cast without type-id", func(b *ast.Builder) (ast.NodeID, ast.NodeID) {
			binary := b.Binary("-", b.Bracketed(b.Id("x")), b.Id("x"))
			cast := b.Cast(ast.NoNode, b.Unary(ast.OpMinus, b.Id("x")))
			return b.Ambiguous(ast.KindAmbiguousBinaryVsCast, binary, cast), binary
		}},
		{"cast without type-id before call", func(b *ast.Builder) (ast.NodeID, ast.NodeID) {
			cast := b.Cast(ast.NoNode, b.Bracketed(b.Id("x")))
			call := b.Call(b.Id("f"), b.Id("x"))
			return b.Ambiguous(ast.KindAmbiguousCastVsCall, cast, call), call
		}},
		{"declaration statement without declaration", func(b *ast.Builder) (ast.NodeID, ast.NodeID) {
			exprStmt := b.ExprStmt(b.Id("x"))
			return b.Ambiguous(ast.KindAmbiguousStatement, b.DeclStmt(ast.NoNode), exprStmt), exprStmt
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ast.NewBuilder()
			amb, want := tt.build(b)
			holder := amb
			if b.Tree().Kind(amb) != ast.KindAmbiguousStatement {
				holder = b.ExprStmt(amb)
			}
			unit(b, []ast.NodeID{intVar(b, "x")}, holder)
			r, _ := newResolver(b)

			report := r.Resolve(b.Tree().Root())
			if got, _ := r.Chosen(amb); got != want {
				t.Errorf("chose %s", b.Tree().Kind(got))
			}
			if r.State(amb) != Resolved || report.Resolved != 1 || report.Failed != 0 {
				t.Errorf("state %s, report %+v", r.State(amb), report)
			}
			if err := b.Tree().FreezeAll(); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestAmbiguousRoot(t *testing.T) {
	b := ast.NewBuilder()
	first := b.Int("1")
	amb := b.Ambiguous(ast.KindAmbiguousExpression, first, b.Int("2"))
	if err := b.Tree().SetRoot(amb); err != nil {
		t.Fatal(err)
	}
	r, _ := newResolver(b)

	report := r.Resolve(amb)
	if r.State(amb) != Resolved || report.Resolved != 1 {
		t.Fatalf("state %s, report %+v", r.State(amb), report)
	}
	tree := b.Tree()
	if tree.Root() != first || tree.Parent(first) != ast.NoNode || tree.Role(first) != ast.RoleNone {
		t.Errorf("root %d, parent %d, role %s", tree.Root(), tree.Parent(first), tree.Role(first))
	}
	if err := tree.FreezeAll(); err != nil {
		t.Fatal(err)
	}
}
