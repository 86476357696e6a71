package ambiguity

import (
	"github.com/eclipse-cdt/cdt-sub043/src/ast"
	"github.com/eclipse-cdt/cdt-sub043/src/semantics"
)

// verdict is the outcome of a selection policy. A problem other than
// ProblemNone turns the winner into a best guess.
type verdict struct {
	winner  ast.NodeID
	problem semantics.ProblemID
	message string
}

func chose(winner ast.NodeID) verdict { return verdict{winner: winner} }

type nameClass uint8

const (
	nameIsType nameClass = iota
	nameIsValue
	nameUnknown
)

// classify tells how the decl specifier of a type-id resolves. Keywords and
// tagged types are always types.
func (r *Resolver) classify(typeID ast.NodeID) (nameClass, string) {
	spec := r.tree.Child(typeID, ast.RoleDeclSpecifier)
	if spec == ast.NoNode || r.tree.Kind(spec) != ast.KindNamedTypeSpecifier {
		return nameIsType, ""
	}
	name := r.tree.Text(spec)
	p, isProblem := r.index.ResolveName(spec).(*semantics.Problem)
	switch {
	case !isProblem:
		return nameIsType, name
	case p.ID == semantics.NameNotFound:
		return nameUnknown, name
	}
	return nameIsValue, name
}

func (r *Resolver) findKind(candidates []ast.NodeID, kind ast.Kind) ast.NodeID {
	for _, c := range candidates {
		if r.tree.Kind(c) == kind {
			return c
		}
	}
	return ast.NoNode
}

// binaryVsCast settles "(a) - b": a cast when a names a type, a binary
// expression otherwise.
func (r *Resolver) binaryVsCast(candidates []ast.NodeID) verdict {
	binary := r.findKind(candidates, ast.KindBinaryExpression)
	cast := r.findKind(candidates, ast.KindCastExpression)
	if binary == ast.NoNode || cast == ast.NoNode {
		return r.generic(candidates)
	}
	return r.byTypeName(candidates, cast, binary)
}

// castVsCall settles "(a)(b)": a cast of "(b)" when a names a type, a call
// of a otherwise.
func (r *Resolver) castVsCall(candidates []ast.NodeID) verdict {
	cast := r.findKind(candidates, ast.KindCastExpression)
	call := r.findKind(candidates, ast.KindFunctionCallExpression)
	if cast == ast.NoNode || call == ast.NoNode {
		return r.generic(candidates)
	}
	return r.byTypeName(candidates, cast, call)
}

func (r *Resolver) byTypeName(candidates []ast.NodeID, cast, other ast.NodeID) verdict {
	typeID := r.tree.Child(cast, ast.RoleTypeID)
	if typeID == ast.NoNode {
		return r.generic(without(candidates, cast))
	}
	class, name := r.classify(typeID)
	switch class {
	case nameIsType:
		return chose(cast)
	case nameUnknown:
		return verdict{winner: other, problem: semantics.NameNotFound, message: semantics.NameNotFound.Message(name)}
	}
	return chose(other)
}

// alignment prefers _Alignas(type-id) whenever the type-id names a type.
func (r *Resolver) alignment(candidates []ast.NodeID) verdict {
	var typeID, expr ast.NodeID = ast.NoNode, ast.NoNode
	for _, c := range candidates {
		switch {
		case r.tree.Child(c, ast.RoleAlignmentTypeID) != ast.NoNode && typeID == ast.NoNode:
			typeID = c
		case r.tree.Child(c, ast.RoleAlignmentExpression) != ast.NoNode && expr == ast.NoNode:
			expr = c
		}
	}
	if typeID != ast.NoNode && !r.index.Types().HasProblems(typeID) {
		return chose(typeID)
	}
	if expr == ast.NoNode {
		return r.generic(candidates)
	}
	if r.index.Types().HasProblems(expr) {
		return verdict{winner: expr, problem: semantics.UnresolvedAmbiguity, message: "neither a type nor an expression"}
	}
	return chose(expr)
}

// statement settles "T * x;" and "f(x);": a declaration when its decl
// specifier names a type, an expression otherwise.
func (r *Resolver) statement(candidates []ast.NodeID) verdict {
	declStmt := r.findKind(candidates, ast.KindDeclarationStatement)
	exprStmt := r.findKind(candidates, ast.KindExpressionStatement)
	if declStmt == ast.NoNode || exprStmt == ast.NoNode {
		return r.generic(candidates)
	}
	decl := r.tree.Child(declStmt, ast.RoleDeclaration)
	if decl == ast.NoNode {
		return r.generic(without(candidates, declStmt))
	}
	spec := r.tree.Child(decl, ast.RoleDeclSpecifier)
	if spec == ast.NoNode || r.tree.Kind(spec) != ast.KindNamedTypeSpecifier {
		return r.generic(candidates)
	}
	b := r.index.ResolveName(spec)
	if !semantics.IsProblem(b) {
		return chose(declStmt)
	}
	if p := b.(*semantics.Problem); p.ID == semantics.NameNotFound && r.index.Types().HasProblems(exprStmt) {
		return verdict{winner: exprStmt, problem: semantics.NameNotFound, message: p.Message()}
	}
	return chose(exprStmt)
}

// without drops a candidate that cannot be a winner.
func without(candidates []ast.NodeID, n ast.NodeID) []ast.NodeID {
	rest := make([]ast.NodeID, 0, len(candidates))
	for _, c := range candidates {
		if c != n {
			rest = append(rest, c)
		}
	}
	return rest
}

// generic keeps the first candidate without problems. When every candidate
// has one the first is kept as a best guess.
func (r *Resolver) generic(candidates []ast.NodeID) verdict {
	for _, c := range candidates {
		if !r.index.Types().HasProblems(c) {
			return chose(c)
		}
	}
	return verdict{winner: candidates[0], problem: semantics.UnresolvedAmbiguity, message: "no candidate is free of problems"}
}
