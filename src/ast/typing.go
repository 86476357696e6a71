package ast

// Basic builds a simple decl specifier such as "static const unsigned long".
func (b *Builder) Basic(spec DeclSpec, qual Qualifiers, storage StorageClass) NodeID {
	return b.node(KindSimpleDeclSpecifier, Attrs{Spec: spec, Qual: qual, Storage: storage})
}

func (b *Builder) Named(name string, qual Qualifiers, storage StorageClass) NodeID {
	return b.node(KindNamedTypeSpecifier, Attrs{Text: name, Qual: qual, Storage: storage})
}

// Composite is a struct or union specifier with a body. name may be empty.
func (b *Builder) Composite(key TagKey, name string, members ...NodeID) NodeID {
	id := b.node(KindCompositeTypeSpecifier, Attrs{Text: name, Key: key})
	b.attach(id, RoleMember, members...)
	return id
}

func (b *Builder) Elaborated(key TagKey, name string) NodeID {
	return b.node(KindElaboratedTypeSpecifier, Attrs{Text: name, Key: key})
}

func (b *Builder) Enum(name string, enumerators ...NodeID) NodeID {
	id := b.node(KindEnumerationSpecifier, Attrs{Text: name, Key: KeyEnum})
	b.attach(id, RoleEnumerator, enumerators...)
	return id
}

func (b *Builder) Enumerator(name string, value NodeID) NodeID {
	id := b.node(KindEnumerator, Attrs{Text: name})
	b.attach(id, RoleEnumeratorValue, value)
	return id
}

// WithStorage sets qualifiers and storage class on any decl specifier.
func (b *Builder) WithStorage(spec NodeID, qual Qualifiers, storage StorageClass) NodeID {
	attrs := b.tree.Attrs(spec)
	attrs.Qual |= qual
	attrs.Storage = storage
	must(b.tree.SetAttrs(spec, attrs))
	return spec
}

func (b *Builder) AlignAs(spec, alignment NodeID) NodeID {
	b.attach(spec, RoleAlignmentSpecifier, alignment)
	return spec
}

// Alignment builds _Alignas(x), x being either a type-id or an expression.
func (b *Builder) Alignment(x NodeID) NodeID {
	id := b.node(KindAlignmentSpecifier, Attrs{})
	if b.tree.Kind(x) == KindTypeID {
		b.attach(id, RoleAlignmentTypeID, x)
	} else {
		b.attach(id, RoleAlignmentExpression, x)
	}
	return id
}

func (b *Builder) Pointer(qual Qualifiers) NodeID {
	return b.node(KindPointer, Attrs{Qual: qual})
}

// Declarator names a variable, typedef or parameter. ptrs are pointer operators
// applied left to right. name is empty for abstract declarators.
func (b *Builder) Declarator(name string, ptrs ...NodeID) NodeID {
	id := b.node(KindDeclarator, Attrs{Text: name})
	b.attach(id, RolePointerOperator, ptrs...)
	return id
}

func (b *Builder) ArrayModifier(qual Qualifiers, size NodeID) NodeID {
	id := b.node(KindArrayModifier, Attrs{Qual: qual})
	b.attach(id, RoleArraySize, size)
	return id
}

func (b *Builder) ArrayDeclarator(name string, mods ...NodeID) NodeID {
	id := b.node(KindArrayDeclarator, Attrs{Text: name})
	b.attach(id, RoleArrayModifier, mods...)
	return id
}

func (b *Builder) FunctionDeclarator(name string, params ...NodeID) NodeID {
	id := b.node(KindFunctionDeclarator, Attrs{Text: name})
	b.attach(id, RoleParameter, params...)
	return id
}

func (b *Builder) FieldDeclarator(name string, bitSize NodeID) NodeID {
	id := b.node(KindFieldDeclarator, Attrs{Text: name})
	b.attach(id, RoleBitFieldSize, bitSize)
	return id
}

func (b *Builder) Varargs(decl NodeID) NodeID {
	attrs := b.tree.Attrs(decl)
	attrs.Flags |= FlagVarargs
	must(b.tree.SetAttrs(decl, attrs))
	return decl
}

// WithPointers adds pointer operators to any declarator.
func (b *Builder) WithPointers(decl NodeID, ptrs ...NodeID) NodeID {
	b.attach(decl, RolePointerOperator, ptrs...)
	return decl
}

// Nest makes inner the nested declarator of outer, as in (*fp)(int).
func (b *Builder) Nest(outer, inner NodeID) NodeID {
	b.attach(outer, RoleNestedDeclarator, inner)
	return outer
}

func (b *Builder) Init(decl, initializer NodeID) NodeID {
	b.attach(decl, RoleInitializer, initializer)
	return decl
}

func (b *Builder) Equals(clause NodeID) NodeID {
	id := b.node(KindEqualsInitializer, Attrs{})
	b.attach(id, RoleInitializerClause, clause)
	return id
}

func (b *Builder) InitList(clauses ...NodeID) NodeID {
	id := b.node(KindInitializerList, Attrs{})
	b.attach(id, RoleInitializerClause, clauses...)
	return id
}

func (b *Builder) Designated(clause NodeID, designators ...NodeID) NodeID {
	id := b.node(KindDesignatedInitializer, Attrs{})
	b.attach(id, RoleDesignator, designators...)
	b.attach(id, RoleInitializerClause, clause)
	return id
}

func (b *Builder) FieldDesignator(name string) NodeID {
	return b.node(KindFieldDesignator, Attrs{Text: name})
}

func (b *Builder) ArrayDesignator(sub NodeID) NodeID {
	id := b.node(KindArrayDesignator, Attrs{})
	b.attach(id, RoleSubscript, sub)
	return id
}

func (b *Builder) RangeDesignator(floor, ceiling NodeID) NodeID {
	id := b.node(KindArrayRangeDesignator, Attrs{})
	b.attach(id, RoleRangeFloor, floor)
	b.attach(id, RoleRangeCeiling, ceiling)
	return id
}

func (b *Builder) Param(spec, decl NodeID) NodeID {
	id := b.node(KindParameterDeclaration, Attrs{})
	b.attach(id, RoleDeclSpecifier, spec)
	b.attach(id, RoleDeclarator, decl)
	return id
}

func (b *Builder) TypeID(spec, decl NodeID) NodeID {
	id := b.node(KindTypeID, Attrs{})
	b.attach(id, RoleDeclSpecifier, spec)
	b.attach(id, RoleDeclarator, decl)
	return id
}

func (b *Builder) Declaration(spec NodeID, decls ...NodeID) NodeID {
	id := b.node(KindSimpleDeclaration, Attrs{})
	b.attach(id, RoleDeclSpecifier, spec)
	b.attach(id, RoleDeclarator, decls...)
	return id
}

func (b *Builder) FunctionDef(spec, decl, body NodeID) NodeID {
	id := b.node(KindFunctionDefinition, Attrs{})
	b.attach(id, RoleDeclSpecifier, spec)
	b.attach(id, RoleDeclarator, decl)
	b.attach(id, RoleFunctionBody, body)
	return id
}

func (b *Builder) ProblemDecl(text string) NodeID {
	return b.node(KindProblemDeclaration, Attrs{Text: text})
}

// ReduceDeclaration pops nDecls declarators then the decl specifier.
func (b *Builder) ReduceDeclaration(nDecls int) {
	decls := b.popN(nDecls)
	b.Push(b.Declaration(b.Pop(), decls...))
}
