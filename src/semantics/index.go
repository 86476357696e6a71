package semantics

import (
	"log/slog"

	"github.com/eclipse-cdt/cdt-sub043/src/ast"
	"github.com/eclipse-cdt/cdt-sub043/src/symtab"
	types "github.com/eclipse-cdt/cdt-sub043/src/typesystem"
)

type Config struct {
	Platform      types.Platform
	GNUExtensions bool
	Logger        *slog.Logger
	// Builtins replaces the embedded GCC builtin table when set.
	Builtins *Builtins
}

// Index answers name and type queries about one tree. Scopes, bindings and
// types are computed on demand and cached, none of it is synchronized: an
// Index belongs to the goroutine working on its tree.
type Index struct {
	tree     *ast.Tree
	cfg      Config
	logger   *slog.Logger
	rules    *types.TypeRulesManager
	builtins *Builtins

	files    map[ast.NodeID]*Scope
	scopes   map[ast.NodeID]*Scope
	bindings map[ast.NodeID]Binding
	order    []int32

	engine *TypeEngine
	mapper *StructMapper
}

func NewIndex(tree *ast.Tree, cfg Config) *Index {
	if cfg.Platform.Name == "" {
		cfg.Platform = types.LP64
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	idx := &Index{
		tree:     tree,
		cfg:      cfg,
		logger:   cfg.Logger,
		rules:    types.NewTypeRulesManager(cfg.Platform),
		builtins: cfg.Builtins,
		files:    map[ast.NodeID]*Scope{},
		scopes:   map[ast.NodeID]*Scope{},
		bindings: map[ast.NodeID]Binding{},
	}
	if idx.builtins == nil && cfg.GNUExtensions {
		b, err := DefaultBuiltins()
		if err != nil {
			idx.logger.Error("builtin table unusable", slog.Any("err", err))
		}
		idx.builtins = b
	}
	idx.engine = newTypeEngine(idx)
	idx.mapper = &StructMapper{index: idx}
	return idx
}

func (idx *Index) Tree() *ast.Tree                { return idx.tree }
func (idx *Index) Rules() *types.TypeRulesManager { return idx.rules }
func (idx *Index) Types() *TypeEngine             { return idx.engine }
func (idx *Index) StructMapper() *StructMapper    { return idx.mapper }
func (idx *Index) Logger() *slog.Logger           { return idx.logger }
func (idx *Index) GNUExtensions() bool            { return idx.cfg.GNUExtensions }
func (idx *Index) Platform() *types.Platform      { return idx.rules.Platform() }

// FileScope returns the scope of the tree's root.
func (idx *Index) FileScope() *Scope {
	return idx.fileScope(idx.tree.Root())
}

func (idx *Index) fileScope(top ast.NodeID) *Scope {
	if s, ok := idx.files[top]; ok {
		return s
	}
	s := &Scope{kind: FileScope, owner: top, index: idx, table: symtab.NewScope[Binding]()}
	idx.files[top] = s
	return s
}

// ScopeOf returns the innermost scope enclosing n. A declarator belongs to
// the scope it declares its name in, so the declarator of a function
// definition is in the file scope while its parameters are not.
func (idx *Index) ScopeOf(n ast.NodeID) *Scope {
	t := idx.tree
	child := n
	for p := t.Parent(n); p != ast.NoNode; child, p = p, t.Parent(p) {
		if t.Kind(p) == ast.KindTranslationUnit {
			return idx.fileScope(p)
		}
		if owner, ok := idx.scopeOwner(p, child); ok {
			return idx.scopeFor(owner)
		}
	}
	return idx.fileScope(child)
}

func (idx *Index) scopeOwner(p, child ast.NodeID) (ast.NodeID, bool) {
	t := idx.tree
	role := t.Role(child)
	switch t.Kind(p) {
	case ast.KindCompoundStatement, ast.KindForStatement:
		return p, true
	case ast.KindFunctionDefinition:
		return p, role == ast.RoleFunctionBody
	case ast.KindFunctionDeclarator:
		if role != ast.RoleParameter {
			return ast.NoNode, false
		}
		if def := idx.definitionOf(p); def != ast.NoNode {
			return def, true
		}
		return p, true
	case ast.KindCompositeTypeSpecifier:
		return p, role == ast.RoleMember
	}
	return ast.NoNode, false
}

func (idx *Index) scopeFor(owner ast.NodeID) *Scope {
	if s, ok := idx.scopes[owner]; ok {
		return s
	}
	var kind ScopeKind
	switch idx.tree.Kind(owner) {
	case ast.KindFunctionDefinition:
		kind = FunctionScope
	case ast.KindCompositeTypeSpecifier:
		kind = CompositeScope
	case ast.KindFunctionDeclarator:
		kind = PrototypeScope
	default:
		kind = BlockScope
	}
	s := &Scope{
		kind:   kind,
		owner:  owner,
		parent: idx.ScopeOf(owner),
		index:  idx,
		table:  symtab.NewScope[Binding](),
	}
	idx.scopes[owner] = s
	return s
}

// functionDeclarator finds the declarator of a function definition that
// carries its parameters: the function declarator closest to the name.
func (idx *Index) functionDeclarator(def ast.NodeID) ast.NodeID {
	t := idx.tree
	decl := t.Child(def, ast.RoleDeclarator)
	if decl == ast.NoNode {
		return ast.NoNode
	}
	for d := t.InnermostDeclarator(decl); d != ast.NoNode; d = t.Parent(d) {
		if t.Kind(d) == ast.KindFunctionDeclarator {
			return d
		}
		if t.Role(d) != ast.RoleNestedDeclarator {
			break
		}
	}
	return ast.NoNode
}

// definitionOf returns the function definition whose parameters fd declares.
func (idx *Index) definitionOf(fd ast.NodeID) ast.NodeID {
	t := idx.tree
	outer := t.OutermostDeclarator(fd)
	def := t.Parent(outer)
	if def == ast.NoNode || t.Kind(def) != ast.KindFunctionDefinition || t.Role(outer) != ast.RoleDeclarator {
		return ast.NoNode
	}
	if idx.functionDeclarator(def) != fd {
		return ast.NoNode
	}
	return def
}

// declaresFunction tells "int f(int)" and "int (f)(int)" from "int (*fp)(int)".
func (idx *Index) declaresFunction(decl ast.NodeID) bool {
	t := idx.tree
	for d := t.InnermostDeclarator(decl); d != ast.NoNode; d = t.Parent(d) {
		switch {
		case t.Kind(d) == ast.KindFunctionDeclarator:
			return true
		case t.Kind(d) == ast.KindArrayDeclarator, len(t.ChildrenWithRole(d, ast.RolePointerOperator)) > 0:
			return false
		case t.Role(d) != ast.RoleNestedDeclarator:
			return false
		}
	}
	return false
}

// enclosingFunction returns the function definition whose body holds n.
func (idx *Index) enclosingFunction(n ast.NodeID) ast.NodeID {
	t := idx.tree
	child := n
	for p := t.Parent(n); p != ast.NoNode; child, p = p, t.Parent(p) {
		if t.Kind(p) == ast.KindFunctionDefinition && t.Role(child) == ast.RoleFunctionBody {
			return p
		}
	}
	return ast.NoNode
}

func (idx *Index) position(n ast.NodeID) int32 {
	if len(idx.order) != idx.tree.Len() {
		idx.order = idx.tree.Preorder(idx.tree.Root())
	}
	if int(n) >= len(idx.order) {
		return -1
	}
	return idx.order[n]
}

// precedes is the declaration-before-use test. Nodes outside the root are
// treated as visible.
func (idx *Index) precedes(decl, use ast.NodeID) bool {
	pd, pu := idx.position(decl), idx.position(use)
	if pd < 0 || pu < 0 {
		return true
	}
	return pd < pu
}

func (idx *Index) visibleAt(s *Scope, b Binding, from ast.NodeID) bool {
	if s.kind == FileScope {
		return true
	}
	decls := b.Declarations()
	if len(decls) == 0 {
		return true
	}
	for _, d := range decls {
		if idx.precedes(d, from) {
			return true
		}
	}
	return false
}

// Lookup finds the binding name refers to at node from. Struct bodies are
// skipped: members are only reachable through field references. In block
// scopes a name must be declared before from to be visible; labels are
// visible in the whole function.
func (idx *Index) Lookup(from ast.NodeID, ns symtab.Namespace, name string) (Binding, bool) {
	if ns == symtab.Label {
		def := idx.enclosingFunction(from)
		if def == ast.NoNode {
			return nil, false
		}
		return idx.scopeFor(def).GetBinding(symtab.Label, name)
	}
	var last *Scope
	for s := idx.ScopeOf(from); s != nil; s = s.parent {
		last = s
		if s.kind == CompositeScope {
			continue
		}
		if b, ok := s.GetBinding(ns, name); ok && idx.visibleAt(s, b, from) {
			return b, true
		}
	}
	if ns != symtab.Ordinary || last == nil {
		return nil, false
	}
	return idx.implicitBinding(last, name, from)
}

// implicitBinding injects __func__ into the enclosing function and, with GNU
// extensions on, the builtin symbols into the file scope.
func (idx *Index) implicitBinding(fs *Scope, name string, from ast.NodeID) (Binding, bool) {
	if name == "__func__" {
		def := idx.enclosingFunction(from)
		if def == ast.NoNode {
			return nil, false
		}
		s := idx.scopeFor(def)
		s.populate()
		b := &ImplicitVariable{
			binding: newBinding(idx, name, s),
			vtype:   types.ArrayOf(types.Qualify(types.CHAR_TYPE, types.Qualifiers{Const: true}), types.UNSPECIFIED_ARR_SIZE),
		}
		res, _ := s.table.DefineIfAbsent(symtab.Ordinary, name, b)
		return res, true
	}
	if !idx.cfg.GNUExtensions || idx.builtins == nil {
		return nil, false
	}
	var b Binding
	if ft, ok := idx.builtins.Function(name); ok {
		b = &ImplicitFunction{binding: newBinding(idx, name, fs), ftype: ft}
	} else if target, ok := idx.builtins.Typedef(name); ok {
		b = &ImplicitTypedef{binding: newBinding(idx, name, fs), target: target}
	} else {
		return nil, false
	}
	res, _ := fs.table.DefineIfAbsent(symtab.Ordinary, name, b)
	return res, true
}

// ResolveName resolves the name used by an id expression, a named type
// specifier, an elaborated type specifier, a goto statement or a field
// reference. It never returns nil: failures yield a *Problem. Bindings are
// cached on ref, problems are not, so a later DeclarationAdded can fix them.
func (idx *Index) ResolveName(ref ast.NodeID) Binding {
	if b, ok := idx.bindings[ref]; ok {
		return b
	}
	b := idx.resolve(ref)
	if !IsProblem(b) {
		idx.bindings[ref] = b
	}
	return b
}

func (idx *Index) resolve(ref ast.NodeID) Binding {
	t := idx.tree
	name := t.Text(ref)
	switch t.Kind(ref) {
	case ast.KindIdExpression:
		if b, ok := idx.Lookup(ref, symtab.Ordinary, name); ok {
			return b
		}
		if t.Role(ref) == ast.RoleFunctionName {
			return idx.externalFunction(ref, name)
		}
		return newProblem(idx, NameNotFound, name, ref)
	case ast.KindNamedTypeSpecifier:
		b, ok := idx.Lookup(ref, symtab.Ordinary, name)
		if !ok {
			return newProblem(idx, NameNotFound, name, ref)
		}
		if !IsType(b) {
			return newProblem(idx, InvalidType, name, ref)
		}
		return b
	case ast.KindElaboratedTypeSpecifier:
		return idx.resolveTag(ref, name)
	case ast.KindGotoStatement:
		if b, ok := idx.Lookup(ref, symtab.Label, name); ok {
			return b
		}
		return newProblem(idx, LabelStatementNotFound, name, ref)
	case ast.KindFieldReference:
		return idx.resolveField(ref, name)
	}
	if b := idx.BindingOf(ref); b != nil {
		return b
	}
	return newProblem(idx, NameNotFound, name, ref)
}

// externalFunction declares an implicitly declared function in the file
// scope, later calls find it there.
func (idx *Index) externalFunction(ref ast.NodeID, name string) Binding {
	fs := idx.ScopeOf(ref)
	for fs.parent != nil {
		fs = fs.parent
	}
	fs.populate()
	b := &ExternalFunction{binding: newBinding(idx, name, fs), CallSite: ref}
	res, _ := fs.table.DefineIfAbsent(symtab.Ordinary, name, b)
	idx.logger.Debug("implicit function declaration", slog.String("name", name))
	return res
}

// resolveTag finds the struct, union or enum an elaborated specifier names.
// An unknown tag declares an incomplete type in the enclosing scope.
func (idx *Index) resolveTag(ref ast.NodeID, name string) Binding {
	t := idx.tree
	key := t.Attrs(ref).Key
	if b, ok := idx.Lookup(ref, symtab.Tag, name); ok {
		if !sameTagKind(b, key) {
			return newProblem(idx, InvalidType, name, ref)
		}
		return b
	}
	s := idx.ScopeOf(ref).nonComposite()
	s.populate()
	var b Binding
	if key == ast.KeyEnum {
		e := &Enumeration{binding: newBinding(idx, name, s)}
		e.addDeclaration(ref, false)
		b = e
	} else {
		c := &Composite{binding: newBinding(idx, name, s), Key: compositeKey(key)}
		c.addDeclaration(ref, false)
		b = c
	}
	res, _ := s.table.DefineIfAbsent(symtab.Tag, name, b)
	return res
}

func (idx *Index) resolveField(ref ast.NodeID, name string) Binding {
	t := idx.tree
	owner := idx.engine.TypeOf(t.Child(ref, ast.RoleFieldOwner))
	if t.Attrs(ref).Flags&ast.FlagPointerDeref != 0 {
		p, ok := types.AsPointer(types.Decay(owner))
		if !ok {
			return newProblem(idx, TypeMismatch, name, ref)
		}
		owner = p.Target
	}
	ct, ok := types.Unqualified(owner).(types.CompositeCtype)
	if !ok {
		return newProblem(idx, TypeMismatch, name, ref)
	}
	comp := idx.engine.compositeBinding(ref, ct)
	if comp == nil || comp.Members() == nil {
		return newProblem(idx, NameNotFound, name, ref)
	}
	if b, ok := comp.Members().GetBinding(symtab.Ordinary, name); ok {
		return b
	}
	return newProblem(idx, NameNotFound, name, ref)
}

// BindingOf returns the binding declared by decl: a declarator, a tag
// specifier, an enumerator or a label statement. It returns nil for nodes
// that declare nothing, like abstract declarators.
func (idx *Index) BindingOf(decl ast.NodeID) Binding {
	t := idx.tree
	if decl == ast.NoNode {
		return nil
	}
	if t.Kind(decl).IsDeclarator() {
		decl = t.InnermostDeclarator(decl)
	}
	if b, ok := idx.bindings[decl]; ok {
		return b
	}
	switch t.Kind(decl) {
	case ast.KindLabelStatement:
		if def := idx.enclosingFunction(decl); def != ast.NoNode {
			idx.scopeFor(def).populate()
		}
	case ast.KindCompositeTypeSpecifier, ast.KindEnumerationSpecifier, ast.KindEnumerator:
		idx.ScopeOf(decl).nonComposite().populate()
	default:
		idx.ScopeOf(decl).populate()
	}
	if b, ok := idx.bindings[decl]; ok {
		return b
	}
	// anonymous struct and enum bodies still need a binding for their members
	switch t.Kind(decl) {
	case ast.KindCompositeTypeSpecifier:
		c := &Composite{binding: newBinding(idx, "", idx.ScopeOf(decl).nonComposite()), Key: compositeKey(t.Attrs(decl).Key)}
		c.addDeclaration(decl, true)
		idx.bindings[decl] = c
		return c
	case ast.KindEnumerationSpecifier:
		e := &Enumeration{binding: newBinding(idx, "", idx.ScopeOf(decl).nonComposite())}
		e.addDeclaration(decl, true)
		idx.bindings[decl] = e
		return e
	}
	return nil
}

// DeclarationAdded makes a declaration that replaced an ambiguous statement
// visible to scopes that were already populated. n is the declaration or
// the declaration statement holding it.
func (idx *Index) DeclarationAdded(n ast.NodeID) {
	t := idx.tree
	if t.Kind(n) == ast.KindDeclarationStatement {
		n = t.Child(n, ast.RoleDeclaration)
	}
	if n == ast.NoNode {
		return
	}
	s := idx.ScopeOf(n)
	if !s.populated {
		return
	}
	collector{index: idx, scope: s}.declaration(n)
}
