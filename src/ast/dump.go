package ast

import (
	"fmt"
	"strings"
)

// Dump renders the subtree as an s-expression, one node per parenthesised
// group. Ambiguous candidates are included.
func (t *Tree) Dump(id NodeID) string {
	sb := &strings.Builder{}
	t.dump(sb, id)
	return sb.String()
}

func (t *Tree) dump(sb *strings.Builder, id NodeID) {
	r := t.rec(id)
	sb.WriteString("(")
	sb.WriteString(r.kind.String())
	for _, part := range t.describe(r) {
		sb.WriteString(" ")
		sb.WriteString(part)
	}
	for _, c := range r.children {
		sb.WriteString(" ")
		t.dump(sb, c)
	}
	sb.WriteString(")")
}

func (t *Tree) describe(r *record) []string {
	res := []string{}
	a := r.attrs
	switch r.kind {
	case KindCompositeTypeSpecifier, KindElaboratedTypeSpecifier:
		res = append(res, a.Key.String())
	case KindLiteralExpression:
		res = append(res, a.Literal.String())
	}
	if a.Storage != StorageNone {
		res = append(res, a.Storage.String())
	}
	if a.Qual != 0 {
		res = append(res, a.Qual.String())
	}
	if s := a.Spec.String(); s != "" {
		res = append(res, s)
	}
	if a.Op != "" {
		res = append(res, fmt.Sprintf("op=%q", a.Op))
	}
	if a.Text != "" {
		res = append(res, fmt.Sprintf("%q", a.Text))
	}
	if a.Flags&FlagPointerDeref != 0 {
		res = append(res, "->")
	}
	if a.Flags&FlagVarargs != 0 {
		res = append(res, "...")
	}
	if a.Flags&FlagStatic != 0 {
		res = append(res, "static")
	}
	if a.Flags&FlagVariableLength != 0 {
		res = append(res, "*")
	}
	if a.Flags&FlagInline != 0 {
		res = append(res, "inline")
	}
	return res
}
