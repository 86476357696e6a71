package semantics

import (
	"slices"

	"github.com/eclipse-cdt/cdt-sub043/src/ast"
	types "github.com/eclipse-cdt/cdt-sub043/src/typesystem"
)

// StructMapper maps composite types that were built outside this tree, for
// example from the builtin table or another translation unit, to the
// composite with the same shape declared in this tree.
type StructMapper struct {
	index  *Index
	specs  map[string]ast.NodeID
	passes int
}

func structKey(key types.CompositeKey, name string) string {
	return key.String() + " " + name
}

type compositeSpecs struct {
	ast.BaseVisitor
	specs map[string]ast.NodeID
}

func (v *compositeSpecs) Visit(n ast.Node) ast.Action {
	if n.Kind() == ast.KindCompositeTypeSpecifier && n.Text() != "" {
		key := structKey(compositeKey(n.Attrs().Key), n.Text())
		if _, seen := v.specs[key]; !seen {
			v.specs[key] = n.ID()
		}
	}
	return ast.Continue
}

// build runs the single pass over the tree, the map is not refreshed later.
func (m *StructMapper) build() {
	if m.specs != nil {
		return
	}
	m.passes++
	v := &compositeSpecs{
		BaseVisitor: ast.BaseVisitor{Want: ast.CategoryDeclSpecifier},
		specs:       map[string]ast.NodeID{},
	}
	if root := m.index.tree.Root(); root != ast.NoNode {
		m.index.tree.Accept(root, v)
	}
	m.specs = v.specs
}

// MapToAST returns the local composite matching t by key, name and fields.
// Pointers, arrays, qualifiers and typedefs are mapped through. Types without
// a local counterpart come back unchanged.
func (m *StructMapper) MapToAST(t types.Ctype) types.Ctype {
	switch ct := t.(type) {
	case types.PointerCtype:
		ct.Target = m.MapToAST(ct.Target)
		return ct
	case types.ArrayCtype:
		ct.Element = m.MapToAST(ct.Element)
		return ct
	case types.QualifierCtype:
		ct.Target = m.MapToAST(ct.Target)
		return ct
	case types.TypedefCtype:
		return types.NewTypedef(ct.Name(), m.MapToAST(ct.Target))
	case types.CompositeCtype:
		if ct.Name() == types.ANONYMOUS {
			return t
		}
		m.build()
		spec, ok := m.specs[structKey(ct.Key, ct.Name())]
		if !ok {
			return t
		}
		local, ok := types.Unqualified(m.index.Types().TypeOfDeclSpecifier(spec)).(types.CompositeCtype)
		if !ok || !m.sameShape(local, ct) {
			return t
		}
		return local
	}
	return t
}

// sameShape accepts an incomplete external type for any local body. A
// complete one needs the same field names and types in the same order.
func (m *StructMapper) sameShape(local, external types.CompositeCtype) bool {
	if local.Key != external.Key || local.Name() != external.Name() {
		return false
	}
	if len(external.FieldNames) == 0 {
		return true
	}
	if !slices.Equal(local.FieldNames, external.FieldNames) {
		return false
	}
	for i, ft := range external.FieldTypes {
		if !m.index.Rules().IsSameType(local.FieldTypes[i], ft) {
			return false
		}
	}
	return true
}
