package ast

func (b *Builder) Id(name string) NodeID {
	return b.node(KindIdExpression, Attrs{Text: name})
}

func (b *Builder) Literal(kind LiteralKind, text string) NodeID {
	return b.node(KindLiteralExpression, Attrs{Text: text, Literal: kind})
}

func (b *Builder) Int(text string) NodeID { return b.Literal(LiteralInteger, text) }

func (b *Builder) Binary(op string, lhs, rhs NodeID) NodeID {
	id := b.node(KindBinaryExpression, Attrs{Op: op})
	b.attach(id, RoleOperand1, lhs)
	b.attach(id, RoleOperand2, rhs)
	return id
}

func (b *Builder) Unary(op string, operand NodeID) NodeID {
	id := b.node(KindUnaryExpression, Attrs{Op: op})
	b.attach(id, RoleOperand, operand)
	return id
}

func (b *Builder) Bracketed(operand NodeID) NodeID { return b.Unary(OpBracketed, operand) }

func (b *Builder) Cast(typeID, operand NodeID) NodeID {
	id := b.node(KindCastExpression, Attrs{})
	b.attach(id, RoleTypeID, typeID)
	b.attach(id, RoleCastOperand, operand)
	return id
}

func (b *Builder) Call(fn NodeID, args ...NodeID) NodeID {
	id := b.node(KindFunctionCallExpression, Attrs{})
	b.attach(id, RoleFunctionName, fn)
	b.attach(id, RoleArgument, args...)
	return id
}

func (b *Builder) Subscript(array, sub NodeID) NodeID {
	id := b.node(KindArraySubscriptExpression, Attrs{})
	b.attach(id, RoleArray, array)
	b.attach(id, RoleSubscriptExpression, sub)
	return id
}

func (b *Builder) FieldRef(owner NodeID, field string, deref bool) NodeID {
	attrs := Attrs{Text: field}
	if deref {
		attrs.Flags = FlagPointerDeref
	}
	id := b.node(KindFieldReference, attrs)
	b.attach(id, RoleFieldOwner, owner)
	return id
}

func (b *Builder) Conditional(cond, pos, neg NodeID) NodeID {
	id := b.node(KindConditionalExpression, Attrs{})
	b.attach(id, RoleLogicalCondition, cond)
	b.attach(id, RolePositiveResult, pos)
	b.attach(id, RoleNegativeResult, neg)
	return id
}

func (b *Builder) ExprList(exprs ...NodeID) NodeID {
	id := b.node(KindExpressionList, Attrs{})
	b.attach(id, RoleNestedExpression, exprs...)
	return id
}

// TypeIdExpr is sizeof(type) or _Alignof(type).
func (b *Builder) TypeIdExpr(op string, typeID NodeID) NodeID {
	id := b.node(KindTypeIdExpression, Attrs{Op: op})
	b.attach(id, RoleTypeID, typeID)
	return id
}

func (b *Builder) ProblemExpr(text string) NodeID {
	return b.node(KindProblemExpression, Attrs{Text: text})
}

// ReduceBinary pops rhs then lhs.
func (b *Builder) ReduceBinary(op string) {
	rhs := b.Pop()
	lhs := b.Pop()
	b.Push(b.Binary(op, lhs, rhs))
}

func (b *Builder) ReduceUnary(op string) {
	b.Push(b.Unary(op, b.Pop()))
}

// ReduceCast pops the operand then the type-id.
func (b *Builder) ReduceCast() {
	operand := b.Pop()
	typeID := b.Pop()
	b.Push(b.Cast(typeID, operand))
}

// ReduceCall pops nArgs arguments then the function name.
func (b *Builder) ReduceCall(nArgs int) {
	args := b.popN(nArgs)
	b.Push(b.Call(b.Pop(), args...))
}
