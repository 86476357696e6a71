package semantics

import (
	"testing"

	"github.com/eclipse-cdt/cdt-sub043/src/ast"
	types "github.com/eclipse-cdt/cdt-sub043/src/typesystem"
)

func TestTypeOfDeclarator(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *ast.Builder) (spec, decl ast.NodeID)
		want  string
	}{
		{
			name: "int *a[3]",
			build: func(b *ast.Builder) (ast.NodeID, ast.NodeID) {
				d := b.WithPointers(b.ArrayDeclarator("a", b.ArrayModifier(0, b.Int("3"))), b.Pointer(0))
				return intSpec(b), d
			},
			want: "int * [3]",
		},
		{
			name: "int (*p)[3]",
			build: func(b *ast.Builder) (ast.NodeID, ast.NodeID) {
				outer := b.ArrayDeclarator("", b.ArrayModifier(0, b.Int("3")))
				return intSpec(b), b.Nest(outer, b.Declarator("p", b.Pointer(0)))
			},
			want: "int [3] *",
		},
		{
			name: "int m[2][3]",
			build: func(b *ast.Builder) (ast.NodeID, ast.NodeID) {
				return intSpec(b), b.ArrayDeclarator("m", b.ArrayModifier(0, b.Int("2")), b.ArrayModifier(0, b.Int("3")))
			},
			want: "int [2][3]",
		},
		{
			name: "int (*fp)(char, ...)",
			build: func(b *ast.Builder) (ast.NodeID, ast.NodeID) {
				outer := b.Varargs(b.FunctionDeclarator("", b.Param(charSpec(b), ast.NoNode)))
				return intSpec(b), b.Nest(outer, b.Declarator("fp", b.Pointer(0)))
			},
			want: "int (char, ...) *",
		},
		{
			name: "const char *const s",
			build: func(b *ast.Builder) (ast.NodeID, ast.NodeID) {
				spec := b.Basic(ast.DeclSpec{Type: ast.BasicChar}, ast.QualConst, ast.StorageNone)
				return spec, b.Declarator("s", b.Pointer(ast.QualConst))
			},
			want: "const char *const",
		},
		{
			name: "unsigned long n",
			build: func(b *ast.Builder) (ast.NodeID, ast.NodeID) {
				spec := b.Basic(ast.DeclSpec{Type: ast.BasicInt, Modifiers: ast.ModUnsigned | ast.ModLong}, 0, ast.StorageNone)
				return spec, b.Declarator("n")
			},
			want: "unsigned long int",
		},
		{
			name: "long f()",
			build: func(b *ast.Builder) (ast.NodeID, ast.NodeID) {
				spec := b.Basic(ast.DeclSpec{Modifiers: ast.ModLong}, 0, ast.StorageNone)
				return spec, b.FunctionDeclarator("f")
			},
			want: "long int ()",
		},
		{
			name: "double *(*g)(int [4])",
			build: func(b *ast.Builder) (ast.NodeID, ast.NodeID) {
				param := b.Param(intSpec(b), b.ArrayDeclarator("", b.ArrayModifier(0, b.Int("4"))))
				outer := b.WithPointers(b.FunctionDeclarator("", param), b.Pointer(0))
				spec := b.Basic(ast.DeclSpec{Type: ast.BasicDouble}, 0, ast.StorageNone)
				return spec, b.Nest(outer, b.Declarator("g", b.Pointer(0)))
			},
			want: "double * (int *) *",
		},
		{
			name: "struct { int x; } anon",
			build: func(b *ast.Builder) (ast.NodeID, ast.NodeID) {
				spec := b.Composite(ast.KeyStruct, "", b.Declaration(intSpec(b), b.Declarator("x")))
				return spec, b.Declarator("anon")
			},
			want: "struct <anonymous>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ast.NewBuilder()
			spec, decl := tt.build(b)
			b.TranslationUnit(b.Declaration(spec, decl))
			idx := newTestIndex(b, false)

			got := idx.Types().TypeOfDeclarator(decl)
			if got.HumanReadableName() != tt.want {
				t.Errorf("type = %s, want %s", got.HumanReadableName(), tt.want)
			}
			inner := b.Tree().InnermostDeclarator(decl)
			if again := idx.Types().TypeOfDeclarator(inner); again.HumanReadableName() != tt.want {
				t.Errorf("innermost declarator typed %s", again.HumanReadableName())
			}
		})
	}
}

type exprFixture struct {
	b   *ast.Builder
	idx *Index
}

// newExprFixture declares
//
//	int x; double d; int m[2][3]; int (*fp)(char, ...); char *s;
//	struct { int x; } anon;
//
// and puts every expression built by add into the body of a function.
func newExprFixture(gnu bool, add func(b *ast.Builder) []ast.NodeID) exprFixture {
	b := ast.NewBuilder()
	decls := []ast.NodeID{
		b.Declaration(intSpec(b), b.Declarator("x")),
		b.Declaration(b.Basic(ast.DeclSpec{Type: ast.BasicDouble}, 0, ast.StorageNone), b.Declarator("d")),
		b.Declaration(intSpec(b), b.ArrayDeclarator("m", b.ArrayModifier(0, b.Int("2")), b.ArrayModifier(0, b.Int("3")))),
		b.Declaration(intSpec(b), b.Nest(
			b.Varargs(b.FunctionDeclarator("", b.Param(charSpec(b), ast.NoNode))),
			b.Declarator("fp", b.Pointer(0)))),
		b.Declaration(charSpec(b), b.Declarator("s", b.Pointer(0))),
		b.Declaration(b.Composite(ast.KeyStruct, "", b.Declaration(intSpec(b), b.Declarator("x"))), b.Declarator("anon")),
	}
	stmts := []ast.NodeID{}
	for _, e := range add(b) {
		stmts = append(stmts, b.ExprStmt(e))
	}
	fn := b.FunctionDef(voidSpec(b), b.FunctionDeclarator("f", voidParams(b)), b.Compound(stmts...))
	b.TranslationUnit(append(decls, fn)...)
	return exprFixture{b: b, idx: newTestIndex(b, gnu)}
}

func TestTypeOfExpression(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *ast.Builder) ast.NodeID
		want  string
	}{
		{"x", func(b *ast.Builder) ast.NodeID { return b.Id("x") }, "int"},
		{"1 + 2.0", func(b *ast.Builder) ast.NodeID {
			return b.Binary("+", b.Int("1"), b.Literal(ast.LiteralFloat, "2.0"))
		}, "double"},
		{"x + d", func(b *ast.Builder) ast.NodeID { return b.Binary("+", b.Id("x"), b.Id("d")) }, "double"},
		{"string literal", func(b *ast.Builder) ast.NodeID { return b.Literal(ast.LiteralString, `"abc"`) }, "char [4]"},
		{"char constant", func(b *ast.Builder) ast.NodeID { return b.Literal(ast.LiteralChar, "'a'") }, "int"},
		{"&x", func(b *ast.Builder) ast.NodeID { return b.Unary(ast.OpAmper, b.Id("x")) }, "int *"},
		{"*s", func(b *ast.Builder) ast.NodeID { return b.Unary(ast.OpStar, b.Id("s")) }, "char"},
		{"s + 1", func(b *ast.Builder) ast.NodeID { return b.Binary("+", b.Id("s"), b.Int("1")) }, "char *"},
		{"sizeof x", func(b *ast.Builder) ast.NodeID { return b.Unary(ast.OpSizeof, b.Id("x")) }, "unsigned long int"},
		{"sizeof(char)", func(b *ast.Builder) ast.NodeID {
			return b.TypeIdExpr(ast.OpSizeof, b.TypeID(charSpec(b), ast.NoNode))
		}, "unsigned long int"},
		{"(char)x", func(b *ast.Builder) ast.NodeID {
			return b.Cast(b.TypeID(charSpec(b), ast.NoNode), b.Id("x"))
		}, "char"},
		{"m[1]", func(b *ast.Builder) ast.NodeID { return b.Subscript(b.Id("m"), b.Int("1")) }, "int [3]"},
		{"m[1][2]", func(b *ast.Builder) ast.NodeID {
			return b.Subscript(b.Subscript(b.Id("m"), b.Int("1")), b.Int("2"))
		}, "int"},
		{"fp('a')", func(b *ast.Builder) ast.NodeID {
			return b.Call(b.Id("fp"), b.Literal(ast.LiteralChar, "'a'"))
		}, "int"},
		{"x ? 1 : 2L", func(b *ast.Builder) ast.NodeID {
			return b.Conditional(b.Id("x"), b.Int("1"), b.Int("2L"))
		}, "long int"},
		{"x ? s : 0", func(b *ast.Builder) ast.NodeID {
			return b.Conditional(b.Id("x"), b.Id("s"), b.Int("0"))
		}, "char *"},
		{"anon.x", func(b *ast.Builder) ast.NodeID { return b.FieldRef(b.Id("anon"), "x", false) }, "int"},
		{"(x, d)", func(b *ast.Builder) ast.NodeID { return b.ExprList(b.Id("x"), b.Id("d")) }, "double"},
		{"(x)", func(b *ast.Builder) ast.NodeID { return b.Bracketed(b.Id("x")) }, "int"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var expr ast.NodeID
			fx := newExprFixture(false, func(b *ast.Builder) []ast.NodeID {
				expr = tt.build(b)
				return []ast.NodeID{expr}
			})
			got := fx.idx.Types().TypeOf(expr)
			if got.HumanReadableName() != tt.want {
				t.Errorf("TypeOf = %s, want %s", got.HumanReadableName(), tt.want)
			}
			if fx.idx.Types().HasProblems(expr) {
				t.Error("well formed expression reported as a problem")
			}
		})
	}
}

func TestTypeOfAnonymousFieldResolvesToBinding(t *testing.T) {
	var ref ast.NodeID
	fx := newExprFixture(false, func(b *ast.Builder) []ast.NodeID {
		ref = b.FieldRef(b.Id("anon"), "x", false)
		return []ast.NodeID{ref}
	})
	f, ok := fx.idx.ResolveName(ref).(*Field)
	if !ok {
		t.Fatalf("anon.x resolved to %v", fx.idx.ResolveName(ref))
	}
	if f.Owner == nil || f.Owner.Name() != "" || !f.Owner.IsComplete() {
		t.Errorf("anonymous owner %v", f.Owner)
	}
}

func TestHasProblems(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *ast.Builder) ast.NodeID
		want  bool
	}{
		{"undeclared name", func(b *ast.Builder) ast.NodeID { return b.Binary("+", b.Id("y"), b.Int("1")) }, true},
		{"pointer times int", func(b *ast.Builder) ast.NodeID { return b.Binary("*", b.Id("s"), b.Int("2")) }, true},
		{"missing member", func(b *ast.Builder) ast.NodeID { return b.FieldRef(b.Id("anon"), "y", false) }, true},
		{"member of int", func(b *ast.Builder) ast.NodeID { return b.FieldRef(b.Id("x"), "y", false) }, true},
		{"call of int", func(b *ast.Builder) ast.NodeID { return b.Call(b.Id("x")) }, true},
		{"problem node", func(b *ast.Builder) ast.NodeID { return b.Binary("+", b.Id("x"), b.ProblemExpr("?")) }, true},
		{"ambiguity", func(b *ast.Builder) ast.NodeID {
			return b.Ambiguous(ast.KindAmbiguousExpression, b.Id("x"), b.Id("d"))
		}, true},
		{"implicit function call", func(b *ast.Builder) ast.NodeID { return b.Call(b.Id("g"), b.Id("x")) }, false},
		{"plain", func(b *ast.Builder) ast.NodeID { return b.Binary("*", b.Id("x"), b.Int("2")) }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var expr ast.NodeID
			fx := newExprFixture(false, func(b *ast.Builder) []ast.NodeID {
				expr = tt.build(b)
				return []ast.NodeID{expr}
			})
			if got := fx.idx.Types().HasProblems(expr); got != tt.want {
				t.Errorf("HasProblems = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProblemTypesAreNotCached(t *testing.T) {
	var use ast.NodeID
	fx := newExprFixture(false, func(b *ast.Builder) []ast.NodeID {
		use = b.Binary("+", b.Id("x"), b.ProblemExpr("?"))
		return []ast.NodeID{use}
	})
	tree := fx.b.Tree()
	if !types.IsProblem(fx.idx.Types().TypeOf(use)) {
		t.Fatal("x + <problem> must not type")
	}
	bad := tree.Child(use, ast.RoleOperand2)
	if err := tree.Replace(use, bad, fx.b.Int("1")); err != nil {
		t.Fatal(err)
	}
	if got := fx.idx.Types().TypeOf(use).HumanReadableName(); got != "int" {
		t.Errorf("after the fix TypeOf = %s", got)
	}
}

func TestRecursiveStruct(t *testing.T) {
	// struct node { int v; struct node *next; } n;
	b := ast.NewBuilder()
	spec := b.Composite(ast.KeyStruct, "node",
		b.Declaration(intSpec(b), b.Declarator("v")),
		b.Declaration(b.Elaborated(ast.KeyStruct, "node"), b.Declarator("next", b.Pointer(0))),
	)
	n := b.Declarator("n")
	b.TranslationUnit(b.Declaration(spec, n))
	idx := newTestIndex(b, false)

	ct, ok := idx.Types().TypeOfDeclarator(n).(types.CompositeCtype)
	if !ok {
		t.Fatalf("n has type %s", idx.Types().TypeOfDeclarator(n).HumanReadableName())
	}
	want := []string{"v", "next"}
	if len(ct.FieldNames) != len(want) || ct.FieldNames[0] != want[0] || ct.FieldNames[1] != want[1] {
		t.Errorf("fields %v, want %v", ct.FieldNames, want)
	}
	next, _ := ct.MaybeField("next")
	if next.HumanReadableName() != "struct node *" {
		t.Errorf("next has type %s", next.HumanReadableName())
	}
}

func TestChecks(t *testing.T) {
	var cond, sw, ret ast.NodeID
	fx := newExprFixture(false, func(b *ast.Builder) []ast.NodeID {
		cond, sw, ret = b.Id("anon"), b.Id("d"), b.Id("anon")
		return []ast.NodeID{cond, sw, ret}
	})
	e := fx.idx.Types()
	if err := e.checkCondition(cond); err == nil {
		t.Error("a struct is not a condition")
	}
	if err := e.checkSwitchExpressionType(e.TypeOf(sw)); err == nil {
		t.Error("switch on a double")
	}
	if err := e.checkReturnExpression(ret, types.INT_TYPE); err == nil {
		t.Error("returning a struct from int function")
	}
	if err := e.checkReturnExpression(ast.NoNode, types.VOID_TYPE); err != nil {
		t.Errorf("bare return in void function: %s", err)
	}
	if err := e.checkReturnExpression(ast.NoNode, types.INT_TYPE); err == nil {
		t.Error("bare return in int function")
	}
}
