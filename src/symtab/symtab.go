package symtab

import "github.com/eclipse-cdt/cdt-sub043/src/utils"

// Namespace separates names that may coexist in one scope, like a variable
// and a struct tag of the same name.
type Namespace uint8

const (
	Ordinary Namespace = iota
	Tag
	Label
	namespaceCount
)

func (ns Namespace) String() string {
	switch ns {
	case Tag:
		return "tag"
	case Label:
		return "label"
	}
	return "ordinary"
}

type Symbol[T any] struct {
	Name string
	Info T
}

type SymtabScope[T any] struct {
	tabs  [namespaceCount]map[string]T
	order [namespaceCount][]string
}

func NewScope[T any]() *SymtabScope[T] {
	ss := &SymtabScope[T]{}
	for i := range ss.tabs {
		ss.tabs[i] = make(map[string]T)
	}
	return ss
}

func (ss *SymtabScope[T]) Lookup(ns Namespace, symname string) (T, bool) {
	res, ok := ss.tabs[ns][symname]
	return res, ok
}

// Define binds symname, replacing and returning an earlier definition.
func (ss *SymtabScope[T]) Define(ns Namespace, symname string, info T) (prev T, redefined bool) {
	prev, redefined = ss.tabs[ns][symname]
	if !redefined {
		ss.order[ns] = append(ss.order[ns], symname)
	}
	ss.tabs[ns][symname] = info
	return prev, redefined
}

// DefineIfAbsent keeps the first definition of symname.
func (ss *SymtabScope[T]) DefineIfAbsent(ns Namespace, symname string, info T) (T, bool) {
	if prev, ok := ss.tabs[ns][symname]; ok {
		return prev, false
	}
	ss.Define(ns, symname, info)
	return info, true
}

// GetAll lists the symbols of ns in definition order.
func (ss *SymtabScope[T]) GetAll(ns Namespace) []Symbol[T] {
	res := make([]Symbol[T], 0, len(ss.order[ns]))
	for _, name := range ss.order[ns] {
		res = append(res, Symbol[T]{
			Name: name,
			Info: ss.tabs[ns][name],
		})
	}
	return res
}

func (ss *SymtabScope[T]) Len(ns Namespace) int {
	return len(ss.tabs[ns])
}

// Symtab is a stack of scopes for passes that walk the tree in source order.
type Symtab[T any] struct {
	scopeStack *utils.Stack[*SymtabScope[T]]
}

func NewSymtab[T any]() *Symtab[T] {
	return &Symtab[T]{
		scopeStack: utils.NewStack[*SymtabScope[T]](),
	}
}

// Lookup searches from the innermost scope outwards.
func (s *Symtab[T]) Lookup(ns Namespace, symname string) (res T, ok bool) {
	for i := 0; i < s.scopeStack.Size(); i++ {
		if res, ok := s.scopeStack.GetNthLifo(i).Lookup(ns, symname); ok {
			return res, true
		}
	}
	return res, false
}

func (s *Symtab[T]) LookupLocal(ns Namespace, symname string) (T, bool) {
	return s.scopeStack.Peek().Lookup(ns, symname)
}

func (s *Symtab[T]) Define(ns Namespace, symname string, info T) (prev T, redefined bool) {
	return s.scopeStack.Peek().Define(ns, symname, info)
}

// DefineGlobal defines in the outermost scope, used for implicit declarations.
func (s *Symtab[T]) DefineGlobal(ns Namespace, symname string, info T) {
	s.scopeStack.GetNthFifo(0).Define(ns, symname, info)
}

func (s *Symtab[T]) EnterScope() {
	s.scopeStack.Push(NewScope[T]())
}

func (s *Symtab[T]) LeaveScope() *SymtabScope[T] {
	return s.scopeStack.Pop()
}

func (s *Symtab[T]) Depth() int {
	return s.scopeStack.Size()
}
