package ast

// InnermostDeclarator follows nested declarators down to the one carrying the name.
func (t *Tree) InnermostDeclarator(decl NodeID) NodeID {
	for {
		nested := t.Child(decl, RoleNestedDeclarator)
		if nested == NoNode {
			return decl
		}
		decl = nested
	}
}

// OutermostDeclarator walks up through enclosing declarators.
func (t *Tree) OutermostDeclarator(decl NodeID) NodeID {
	for t.Role(decl) == RoleNestedDeclarator {
		decl = t.Parent(decl)
	}
	return decl
}

func (t *Tree) DeclaratorName(decl NodeID) string {
	return t.Text(t.InnermostDeclarator(decl))
}

// DeclSpecifierOf returns the decl specifier governing a declarator, or NoNode.
func (t *Tree) DeclSpecifierOf(decl NodeID) NodeID {
	owner := t.Parent(t.OutermostDeclarator(decl))
	if owner == NoNode {
		return NoNode
	}
	return t.Child(owner, RoleDeclSpecifier)
}

// IsTypedef reports whether a decl specifier carries the typedef storage class.
func (t *Tree) IsTypedef(spec NodeID) bool {
	return spec != NoNode && t.Attrs(spec).Storage == StorageTypedef
}
