package semantics

import (
	"slices"

	"github.com/eclipse-cdt/cdt-sub043/src/ast"
	types "github.com/eclipse-cdt/cdt-sub043/src/typesystem"
)

type BindingKind uint8

const (
	KindTypedef BindingKind = iota
	KindVariable
	KindParameter
	KindFunction
	KindField
	KindLabel
	KindComposite
	KindEnumeration
	KindEnumerator
	KindExternalFunction
	KindImplicitFunction
	KindImplicitTypedef
	KindImplicitVariable
	KindProblem
	bindingKindCount
)

var bindingKindNames = [...]string{
	"typedef", "variable", "parameter", "function", "field", "label",
	"composite", "enumeration", "enumerator", "external function",
	"implicit function", "implicit typedef", "implicit variable", "problem",
}

var _ = [1]struct{}{}[len(bindingKindNames)-int(bindingKindCount)]

func (k BindingKind) String() string { return bindingKindNames[k] }

// Binding is the semantic entity a name resolves to.
type Binding interface {
	Name() string
	Kind() BindingKind
	Scope() *Scope
	// Declarations lists the declaring name nodes, the definition included.
	Declarations() []ast.NodeID
	Definition() (ast.NodeID, bool)
}

// TypedBinding is implemented by every binding that has a type: values,
// functions and the type names themselves.
type TypedBinding interface {
	Binding
	Type() types.Ctype
}

// IsType reports whether b names a type rather than a value.
func IsType(b Binding) bool {
	switch b.Kind() {
	case KindTypedef, KindImplicitTypedef, KindComposite, KindEnumeration:
		return true
	}
	return false
}

// TypeOf returns the type of b, or a problem type for untyped bindings.
func TypeOf(b Binding) types.Ctype {
	if tb, ok := b.(TypedBinding); ok {
		return tb.Type()
	}
	return types.ProblemCtype{Reason: b.Name() + " has no type"}
}

type binding struct {
	index *Index
	name  string
	scope *Scope
	decls []ast.NodeID
	def   ast.NodeID
}

func newBinding(idx *Index, name string, scope *Scope) binding {
	return binding{index: idx, name: name, scope: scope, def: ast.NoNode}
}

func (b *binding) Name() string  { return b.name }
func (b *binding) Scope() *Scope { return b.scope }

func (b *binding) Declarations() []ast.NodeID { return slices.Clone(b.decls) }

func (b *binding) Definition() (ast.NodeID, bool) { return b.def, b.def != ast.NoNode }

func (b *binding) addDeclaration(decl ast.NodeID, isDefinition bool) {
	if !slices.Contains(b.decls, decl) {
		b.decls = append(b.decls, decl)
	}
	if isDefinition && b.def == ast.NoNode {
		b.def = decl
	}
}

// firstDeclaration prefers the definition.
func (b *binding) firstDeclaration() ast.NodeID {
	if b.def != ast.NoNode {
		return b.def
	}
	if len(b.decls) == 0 {
		return ast.NoNode
	}
	return b.decls[0]
}

func (b *binding) declaratorType() types.Ctype {
	decl := b.firstDeclaration()
	if decl == ast.NoNode {
		return types.ProblemCtype{Reason: b.name + " is not declared"}
	}
	return b.index.Types().TypeOfDeclarator(decl)
}

type Typedef struct{ binding }

func (*Typedef) Kind() BindingKind { return KindTypedef }

func (t *Typedef) Type() types.Ctype {
	return types.NewTypedef(t.name, t.declaratorType())
}

type Variable struct{ binding }

func (*Variable) Kind() BindingKind   { return KindVariable }
func (v *Variable) Type() types.Ctype { return v.declaratorType() }

// Storage returns the storage class written on the first declaration.
func (v *Variable) Storage() ast.StorageClass {
	tree := v.index.Tree()
	spec := tree.DeclSpecifierOf(v.firstDeclaration())
	if spec == ast.NoNode {
		return ast.StorageNone
	}
	return tree.Attrs(spec).Storage
}

// Parameter types are adjusted: arrays and functions decay to pointers.
type Parameter struct{ binding }

func (*Parameter) Kind() BindingKind   { return KindParameter }
func (p *Parameter) Type() types.Ctype { return types.Decay(p.declaratorType()) }

type Function struct{ binding }

func (*Function) Kind() BindingKind   { return KindFunction }
func (f *Function) Type() types.Ctype { return f.declaratorType() }

type Field struct {
	binding
	Owner *Composite
}

func (*Field) Kind() BindingKind   { return KindField }
func (f *Field) Type() types.Ctype { return f.declaratorType() }

// Label is defined by a label statement; goto statements only reference it.
type Label struct{ binding }

func (*Label) Kind() BindingKind { return KindLabel }

// Composite is a struct or union tag. It stays incomplete until a specifier
// with a body is seen.
type Composite struct {
	binding
	Key types.CompositeKey
}

func (*Composite) Kind() BindingKind { return KindComposite }

func (c *Composite) Type() types.Ctype {
	if c.def == ast.NoNode {
		return types.NewComposite(c.Key, c.name, nil, nil)
	}
	return c.index.Types().TypeOfDeclSpecifier(c.def)
}

// IsComplete reports whether the members are known.
func (c *Composite) IsComplete() bool { return c.def != ast.NoNode }

// Members returns the composite scope holding the fields, nil when incomplete.
func (c *Composite) Members() *Scope {
	if c.def == ast.NoNode {
		return nil
	}
	return c.index.scopeFor(c.def)
}

type Enumeration struct{ binding }

func (*Enumeration) Kind() BindingKind { return KindEnumeration }

func (e *Enumeration) Type() types.Ctype {
	if e.def == ast.NoNode {
		return types.NewEnum(e.name)
	}
	return e.index.Types().TypeOfDeclSpecifier(e.def)
}

type Enumerator struct {
	binding
	Enumeration ast.NodeID // the enumeration specifier
}

func (*Enumerator) Kind() BindingKind   { return KindEnumerator }
func (e *Enumerator) Type() types.Ctype { return types.INT_TYPE }

// ExternalFunction stands for a function called without a visible
// declaration. It has the implicit int (...) type.
type ExternalFunction struct {
	binding
	CallSite ast.NodeID
}

func (*ExternalFunction) Kind() BindingKind { return KindExternalFunction }

func (*ExternalFunction) Type() types.Ctype {
	return types.FunctionCtype{ReturnType: types.INT_TYPE, NoPrototype: true}
}

type ImplicitFunction struct {
	binding
	ftype types.FunctionCtype
}

func (*ImplicitFunction) Kind() BindingKind   { return KindImplicitFunction }
func (f *ImplicitFunction) Type() types.Ctype { return f.ftype }

type ImplicitTypedef struct {
	binding
	target types.Ctype
}

func (*ImplicitTypedef) Kind() BindingKind { return KindImplicitTypedef }

func (t *ImplicitTypedef) Type() types.Ctype { return types.NewTypedef(t.name, t.target) }

type ImplicitVariable struct {
	binding
	vtype types.Ctype
}

func (*ImplicitVariable) Kind() BindingKind   { return KindImplicitVariable }
func (v *ImplicitVariable) Type() types.Ctype { return v.vtype }

// Problem is returned instead of nil when a name cannot be resolved.
type Problem struct {
	binding
	ID   ProblemID
	Node ast.NodeID // the unresolved reference
}

func (*Problem) Kind() BindingKind { return KindProblem }

func (p *Problem) Message() string { return p.ID.Message(p.name) }

func IsProblem(b Binding) bool {
	return b == nil || b.Kind() == KindProblem
}

func newProblem(idx *Index, id ProblemID, name string, node ast.NodeID) *Problem {
	return &Problem{binding: newBinding(idx, name, nil), ID: id, Node: node}
}
