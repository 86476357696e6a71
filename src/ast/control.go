package ast

func (b *Builder) Compound(stmts ...NodeID) NodeID {
	id := b.node(KindCompoundStatement, Attrs{})
	b.attach(id, RoleStatement, stmts...)
	return id
}

func (b *Builder) DeclStmt(decl NodeID) NodeID {
	id := b.node(KindDeclarationStatement, Attrs{})
	b.attach(id, RoleDeclaration, decl)
	return id
}

func (b *Builder) ExprStmt(expr NodeID) NodeID {
	id := b.node(KindExpressionStatement, Attrs{})
	b.attach(id, RoleExpression, expr)
	return id
}

func (b *Builder) Return(value NodeID) NodeID {
	id := b.node(KindReturnStatement, Attrs{})
	b.attach(id, RoleReturnValue, value)
	return id
}

func (b *Builder) If(cond, then, els NodeID) NodeID {
	id := b.node(KindIfStatement, Attrs{})
	b.attach(id, RoleCondition, cond)
	b.attach(id, RoleThen, then)
	b.attach(id, RoleElse, els)
	return id
}

func (b *Builder) While(cond, body NodeID) NodeID {
	id := b.node(KindWhileStatement, Attrs{})
	b.attach(id, RoleCondition, cond)
	b.attach(id, RoleBody, body)
	return id
}

func (b *Builder) Do(body, cond NodeID) NodeID {
	id := b.node(KindDoStatement, Attrs{})
	b.attach(id, RoleBody, body)
	b.attach(id, RoleCondition, cond)
	return id
}

// For takes a statement as init, either a declaration or an expression statement.
func (b *Builder) For(init, cond, iter, body NodeID) NodeID {
	id := b.node(KindForStatement, Attrs{})
	b.attach(id, RoleForInit, init)
	b.attach(id, RoleCondition, cond)
	b.attach(id, RoleForIteration, iter)
	b.attach(id, RoleBody, body)
	return id
}

func (b *Builder) Switch(cond, body NodeID) NodeID {
	id := b.node(KindSwitchStatement, Attrs{})
	b.attach(id, RoleCondition, cond)
	b.attach(id, RoleBody, body)
	return id
}

func (b *Builder) Case(value NodeID) NodeID {
	id := b.node(KindCaseStatement, Attrs{})
	b.attach(id, RoleCaseValue, value)
	return id
}

func (b *Builder) Default() NodeID { return b.node(KindDefaultStatement, Attrs{}) }

func (b *Builder) Label(name string, stmt NodeID) NodeID {
	id := b.node(KindLabelStatement, Attrs{Text: name})
	b.attach(id, RoleNestedStatement, stmt)
	return id
}

func (b *Builder) Goto(label string) NodeID {
	return b.node(KindGotoStatement, Attrs{Text: label})
}

func (b *Builder) Break() NodeID    { return b.node(KindBreakStatement, Attrs{}) }
func (b *Builder) Continue() NodeID { return b.node(KindContinueStatement, Attrs{}) }
func (b *Builder) Null() NodeID     { return b.node(KindNullStatement, Attrs{}) }

func (b *Builder) ProblemStmt(text string) NodeID {
	return b.node(KindProblemStatement, Attrs{Text: text})
}

// ReduceCompound pops n block items.
func (b *Builder) ReduceCompound(n int) {
	b.Push(b.Compound(b.popN(n)...))
}
