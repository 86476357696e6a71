package semantics

import (
	"github.com/eclipse-cdt/cdt-sub043/src/ast"
	"github.com/eclipse-cdt/cdt-sub043/src/symtab"
	types "github.com/eclipse-cdt/cdt-sub043/src/typesystem"
)

// collector fills the table of one scope from the declarations its owner
// holds directly. Nested scopes are left to their own collectors, except for
// tags and enumerators declared inside struct bodies.
type collector struct {
	index *Index
	scope *Scope
}

func (c collector) tree() *ast.Tree { return c.index.tree }

func (c collector) collect() {
	t := c.tree()
	owner := c.scope.owner
	switch c.scope.kind {
	case FileScope:
		if t.Kind(owner) == ast.KindTranslationUnit {
			for _, d := range t.ChildrenWithRole(owner, ast.RoleDeclaration) {
				c.declaration(d)
			}
		} else if t.Kind(owner).Is(ast.CategoryDeclaration) {
			c.declaration(owner)
		}
	case FunctionScope:
		if fd := c.index.functionDeclarator(owner); fd != ast.NoNode {
			c.parameters(fd)
		}
		c.labels(t.Child(owner, ast.RoleFunctionBody))
	case BlockScope:
		if t.Kind(owner) == ast.KindForStatement {
			c.statement(t.Child(owner, ast.RoleForInit))
			return
		}
		for _, st := range t.ChildrenWithRole(owner, ast.RoleStatement) {
			c.statement(st)
		}
	case CompositeScope:
		for _, m := range t.ChildrenWithRole(owner, ast.RoleMember) {
			c.fields(m)
		}
	case PrototypeScope:
		c.parameters(owner)
	}
}

func (c collector) statement(st ast.NodeID) {
	if st == ast.NoNode {
		return
	}
	if c.tree().Kind(st) == ast.KindDeclarationStatement {
		c.declaration(c.tree().Child(st, ast.RoleDeclaration))
	}
}

func (c collector) declaration(d ast.NodeID) {
	if d == ast.NoNode {
		return
	}
	t := c.tree()
	switch t.Kind(d) {
	case ast.KindSimpleDeclaration, ast.KindFunctionDefinition:
	default:
		return
	}
	spec := t.Child(d, ast.RoleDeclSpecifier)
	decls := t.ChildrenWithRole(d, ast.RoleDeclarator)
	c.specifier(spec, len(decls) == 0)
	isTypedef := t.IsTypedef(spec)
	isDefinition := t.Kind(d) == ast.KindFunctionDefinition
	for _, decl := range decls {
		c.declarator(decl, isTypedef, isDefinition)
	}
}

// specifier declares the tags and enumerators introduced by a decl specifier.
// standalone is set for "struct S;" which declares S even when an outer S
// is visible.
func (c collector) specifier(spec ast.NodeID, standalone bool) {
	if spec == ast.NoNode {
		return
	}
	t := c.tree()
	name := t.Text(spec)
	switch t.Kind(spec) {
	case ast.KindCompositeTypeSpecifier:
		if name != "" {
			c.tag(spec, name, true)
		}
		for _, m := range t.ChildrenWithRole(spec, ast.RoleMember) {
			if t.Kind(m) == ast.KindSimpleDeclaration {
				c.specifier(t.Child(m, ast.RoleDeclSpecifier), false)
			}
		}
	case ast.KindElaboratedTypeSpecifier:
		if standalone {
			c.tag(spec, name, false)
		}
	case ast.KindEnumerationSpecifier:
		if name != "" {
			c.tag(spec, name, true)
		}
		for _, e := range t.ChildrenWithRole(spec, ast.RoleEnumerator) {
			b := &Enumerator{binding: newBinding(c.index, t.Text(e), c.scope), Enumeration: spec}
			b.addDeclaration(e, true)
			c.define(symtab.Ordinary, e, b)
		}
	}
}

func (c collector) tag(spec ast.NodeID, name string, isDefinition bool) {
	t := c.tree()
	if prev, ok := c.scope.table.Lookup(symtab.Tag, name); ok && sameTagKind(prev, t.Attrs(spec).Key) {
		prev.(interface{ addDeclaration(ast.NodeID, bool) }).addDeclaration(spec, isDefinition)
		c.index.bindings[spec] = prev
		return
	}
	var b Binding
	if key := t.Attrs(spec).Key; key == ast.KeyEnum {
		e := &Enumeration{binding: newBinding(c.index, name, c.scope)}
		e.addDeclaration(spec, isDefinition)
		b = e
	} else {
		comp := &Composite{binding: newBinding(c.index, name, c.scope), Key: compositeKey(key)}
		comp.addDeclaration(spec, isDefinition)
		b = comp
	}
	c.define(symtab.Tag, spec, b)
}

func sameTagKind(b Binding, key ast.TagKey) bool {
	switch tb := b.(type) {
	case *Composite:
		return key != ast.KeyEnum && tb.Key == compositeKey(key)
	case *Enumeration:
		return key == ast.KeyEnum
	}
	return false
}

func compositeKey(key ast.TagKey) types.CompositeKey {
	if key == ast.KeyUnion {
		return types.UNION
	}
	return types.STRUCT
}

func (c collector) declarator(decl ast.NodeID, isTypedef, isDefinition bool) {
	t := c.tree()
	inner := t.InnermostDeclarator(decl)
	name := t.Text(inner)
	if name == "" {
		return
	}
	base := newBinding(c.index, name, c.scope)
	var b interface {
		Binding
		addDeclaration(ast.NodeID, bool)
	}
	switch {
	case isTypedef:
		b = &Typedef{binding: base}
		isDefinition = true
	case isDefinition || c.index.declaresFunction(decl):
		b = &Function{binding: base}
	default:
		b = &Variable{binding: base}
		storage := t.Attrs(t.DeclSpecifierOf(decl)).Storage
		isDefinition = storage != ast.StorageExtern || t.Child(decl, ast.RoleInitializer) != ast.NoNode
	}
	if prev, ok := c.scope.table.Lookup(symtab.Ordinary, name); ok && prev.Kind() == b.Kind() {
		prev.(interface{ addDeclaration(ast.NodeID, bool) }).addDeclaration(inner, isDefinition)
		c.index.bindings[inner] = prev
		return
	}
	b.addDeclaration(inner, isDefinition)
	c.define(symtab.Ordinary, inner, b)
}

func (c collector) fields(member ast.NodeID) {
	t := c.tree()
	if t.Kind(member) != ast.KindSimpleDeclaration {
		return
	}
	owner, _ := c.index.BindingOf(c.scope.owner).(*Composite)
	for _, decl := range t.ChildrenWithRole(member, ast.RoleDeclarator) {
		inner := t.InnermostDeclarator(decl)
		if t.Text(inner) == "" {
			continue
		}
		f := &Field{binding: newBinding(c.index, t.Text(inner), c.scope), Owner: owner}
		f.addDeclaration(inner, true)
		c.define(symtab.Ordinary, inner, f)
	}
}

func (c collector) parameters(fd ast.NodeID) {
	t := c.tree()
	for _, p := range t.ChildrenWithRole(fd, ast.RoleParameter) {
		c.specifier(t.Child(p, ast.RoleDeclSpecifier), false)
		decl := t.Child(p, ast.RoleDeclarator)
		if decl == ast.NoNode {
			continue
		}
		inner := t.InnermostDeclarator(decl)
		if t.Text(inner) == "" {
			continue
		}
		b := &Parameter{binding: newBinding(c.index, t.Text(inner), c.scope)}
		b.addDeclaration(inner, true)
		c.define(symtab.Ordinary, inner, b)
	}
}

// labels collects every label of a function body, labels have function scope.
func (c collector) labels(body ast.NodeID) {
	if body == ast.NoNode {
		return
	}
	t := c.tree()
	ast.Inspect(t, body, func(n ast.Node) bool {
		if n.Kind() == ast.KindLabelStatement {
			b := &Label{binding: newBinding(c.index, n.Text(), c.scope)}
			b.addDeclaration(n.ID(), true)
			c.define(symtab.Label, n.ID(), b)
		}
		return n.Is(ast.CategoryStatement)
	})
}

// define keeps the first binding of a name. A conflicting later one is still
// cached on its declaring node so the analyzer can report it.
func (c collector) define(ns symtab.Namespace, decl ast.NodeID, b Binding) {
	c.index.bindings[decl] = b
	c.scope.table.DefineIfAbsent(ns, b.Name(), b)
}
