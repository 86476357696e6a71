package semantics

import (
	"github.com/eclipse-cdt/cdt-sub043/src/ast"
	"github.com/eclipse-cdt/cdt-sub043/src/symtab"
)

type ScopeKind uint8

const (
	FileScope ScopeKind = iota
	FunctionScope
	BlockScope
	CompositeScope
	PrototypeScope
)

var scopeKindNames = [...]string{"file", "function", "block", "composite", "prototype"}

func (k ScopeKind) String() string { return scopeKindNames[k] }

// Scope is owned by a node: the translation unit, a function definition, a
// compound or for statement, a struct body or a function declarator that is
// not part of a definition. Its table is filled on first use and from then
// on only grows through declarations added by the ambiguity resolver.
type Scope struct {
	kind      ScopeKind
	owner     ast.NodeID
	parent    *Scope
	index     *Index
	table     *symtab.SymtabScope[Binding]
	populated bool
}

func (s *Scope) Kind() ScopeKind   { return s.kind }
func (s *Scope) Owner() ast.NodeID { return s.owner }
func (s *Scope) Parent() *Scope    { return s.parent }

// GetBinding looks name up in this scope only.
func (s *Scope) GetBinding(ns symtab.Namespace, name string) (Binding, bool) {
	s.populate()
	return s.table.Lookup(ns, name)
}

// Bindings lists the bindings of ns in declaration order.
func (s *Scope) Bindings(ns symtab.Namespace) []Binding {
	s.populate()
	syms := s.table.GetAll(ns)
	res := make([]Binding, 0, len(syms))
	for _, sym := range syms {
		res = append(res, sym.Info)
	}
	return res
}

func (s *Scope) populate() {
	if s.populated {
		return
	}
	s.populated = true
	c := collector{index: s.index, scope: s}
	c.collect()
}

// nonComposite skips struct bodies, tags and enumerators declared inside
// them belong to the enclosing scope.
func (s *Scope) nonComposite() *Scope {
	for s.kind == CompositeScope && s.parent != nil {
		s = s.parent
	}
	return s
}
