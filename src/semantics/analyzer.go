package semantics

import (
	"fmt"

	"github.com/eclipse-cdt/cdt-sub043/src/ast"
	"github.com/eclipse-cdt/cdt-sub043/src/symtab"
	types "github.com/eclipse-cdt/cdt-sub043/src/typesystem"
	"github.com/eclipse-cdt/cdt-sub043/src/utils"
)

// SemanticAnalyzer checks a resolved tree: unresolved names, redeclarations,
// misplaced jumps and labels, and expression types. Findings go to the
// error tracker, the tree is never modified.
type SemanticAnalyzer struct {
	index            *Index
	tree             *ast.Tree
	errorTracker     *ErrorTracker
	typeEngine       *TypeEngine
	symtab           *symtab.Symtab[ast.NodeID]
	funcGotoLabels   *utils.Set[string]
	funcGotosToCheck []ast.NodeID
}

func NewAnalyzer(idx *Index, et *ErrorTracker) *SemanticAnalyzer {
	return &SemanticAnalyzer{
		index:        idx,
		tree:         idx.tree,
		errorTracker: et,
		typeEngine:   idx.engine,
		symtab:       symtab.NewSymtab[ast.NodeID](),
	}
}

func (s *SemanticAnalyzer) Analyze(root ast.NodeID) {
	s.symtab.EnterScope()
	defer s.symtab.LeaveScope()
	for _, dec := range s.tree.ChildrenWithRole(root, ast.RoleDeclaration) {
		switch s.tree.Kind(dec) {
		case ast.KindFunctionDefinition:
			s.handleFunctionDefinition(dec)
		case ast.KindSimpleDeclaration:
			s.handleDeclaration(dec)
		default:
			s.checkNode(dec)
		}
	}
}

// checkNode reports problem nodes and leftover ambiguities.
func (s *SemanticAnalyzer) checkNode(n ast.NodeID) bool {
	kind := s.tree.Kind(n)
	switch {
	case kind.IsProblem():
		s.errorTracker.registerSemanticError(InvalidType, "syntax error: "+s.tree.Text(n), n)
		return false
	case kind.IsAmbiguous():
		s.errorTracker.registerSemanticError(UnresolvedAmbiguity, "unresolved "+kind.String(), n)
		return false
	}
	return true
}

func (s *SemanticAnalyzer) handleDeclaration(dec ast.NodeID) {
	if !s.checkNode(dec) {
		return
	}
	s.checkSpecifier(s.tree.Child(dec, ast.RoleDeclSpecifier))
	for _, decl := range s.tree.ChildrenWithRole(dec, ast.RoleDeclarator) {
		s.defineSymbol(decl)
		s.checkDeclarator(decl)
	}
}

func (s *SemanticAnalyzer) checkSpecifier(spec ast.NodeID) {
	if spec == ast.NoNode {
		return
	}
	switch s.tree.Kind(spec) {
	case ast.KindNamedTypeSpecifier, ast.KindElaboratedTypeSpecifier:
		if p, ok := s.index.ResolveName(spec).(*Problem); ok {
			s.errorTracker.registerSemanticError(p.ID, p.Message(), spec)
		}
	case ast.KindCompositeTypeSpecifier:
		if s.tree.Text(spec) != "" {
			s.checkRedefinition(s.index.BindingOf(spec), spec)
		}
		for _, m := range s.tree.ChildrenWithRole(spec, ast.RoleMember) {
			if s.checkNode(m) {
				s.checkSpecifier(s.tree.Child(m, ast.RoleDeclSpecifier))
			}
		}
	case ast.KindEnumerationSpecifier:
		if s.tree.Text(spec) != "" {
			s.checkRedefinition(s.index.BindingOf(spec), spec)
		}
		for _, en := range s.tree.ChildrenWithRole(spec, ast.RoleEnumerator) {
			if value := s.tree.Child(en, ast.RoleEnumeratorValue); value != ast.NoNode {
				s.checkExpression(value)
			}
		}
	}
}

func (s *SemanticAnalyzer) checkRedefinition(b Binding, decl ast.NodeID) {
	if b == nil {
		return
	}
	if def, ok := b.Definition(); ok && def != decl {
		s.errorTracker.registerSemanticError(InvalidRedefinition, "redefinition of "+b.Name(), decl)
	}
}

// defineSymbol tracks the names declared in the current block so that a
// second declaration of a name without linkage is reported.
func (s *SemanticAnalyzer) defineSymbol(decl ast.NodeID) {
	inner := s.tree.InnermostDeclarator(decl)
	name := s.tree.Text(inner)
	if name == "" {
		return
	}
	b := s.index.BindingOf(inner)
	if b == nil {
		return
	}
	if visible, ok := b.Scope().GetBinding(symtab.Ordinary, name); ok && visible != b {
		s.errorTracker.registerSemanticError(InvalidRedeclaration,
			fmt.Sprintf("%s redeclared as a different kind of symbol, previously a %s", name, visible.Kind()), inner)
		return
	}
	prev, declared := s.symtab.LookupLocal(symtab.Ordinary, name)
	s.symtab.Define(symtab.Ordinary, name, inner)
	if !declared {
		return
	}
	switch b.Kind() {
	case KindFunction:
		if s.isDefinition(inner) && s.isDefinition(prev) {
			s.errorTracker.registerSemanticError(InvalidRedefinition, "redefinition of function "+name, inner)
		}
	case KindVariable:
		if s.symtab.Depth() > 1 && b.(*Variable).Storage() != ast.StorageExtern {
			s.errorTracker.registerSemanticError(InvalidRedefinition, "redefinition of "+name, inner)
		}
	case KindParameter, KindTypedef:
		s.errorTracker.registerSemanticError(InvalidRedefinition, "redefinition of "+name, inner)
	}
}

func (s *SemanticAnalyzer) isDefinition(decl ast.NodeID) bool {
	outer := s.tree.OutermostDeclarator(decl)
	parent := s.tree.Parent(outer)
	return parent != ast.NoNode && s.tree.Kind(parent) == ast.KindFunctionDefinition
}

func (s *SemanticAnalyzer) checkDeclarator(decl ast.NodeID) {
	t := s.typeEngine.TypeOfDeclarator(decl)
	if err := asError(t); err != nil {
		s.errorTracker.registerTypeError(err.Error(), decl)
		return
	}
	if _, isFunction := types.Unqualified(t).(types.FunctionCtype); !isFunction && types.IsVoid(t) {
		if !s.tree.IsTypedef(s.tree.DeclSpecifierOf(decl)) {
			s.errorTracker.registerTypeError("variable "+s.tree.DeclaratorName(decl)+" declared void", decl)
		}
	}
	for d := decl; d != ast.NoNode; d = s.tree.Child(d, ast.RoleNestedDeclarator) {
		for _, mod := range s.tree.ChildrenWithRole(d, ast.RoleArrayModifier) {
			if size := s.tree.Child(mod, ast.RoleArraySize); size != ast.NoNode {
				s.checkExpression(size)
			}
		}
	}
	if init := s.tree.Child(decl, ast.RoleInitializer); init != ast.NoNode {
		s.checkInitializer(init, t)
	}
}

func (s *SemanticAnalyzer) checkInitializer(init ast.NodeID, target types.Ctype) {
	switch s.tree.Kind(init) {
	case ast.KindEqualsInitializer:
		s.checkInitializer(s.tree.Child(init, ast.RoleInitializerClause), target)
	case ast.KindInitializerList:
		for _, clause := range s.tree.ChildrenWithRole(init, ast.RoleInitializerClause) {
			s.checkInitializer(clause, nil)
		}
	case ast.KindDesignatedInitializer:
		s.checkInitializer(s.tree.Child(init, ast.RoleInitializerClause), nil)
	default:
		if !s.checkExpression(init) || target == nil {
			return
		}
		valueT := types.Decay(s.typeEngine.TypeOf(init))
		if _, isArray := types.Unqualified(target).(types.ArrayCtype); isArray {
			return
		}
		if !s.index.rules.IsAutomaticallyCastable(valueT, target) {
			s.errorTracker.registerTypeError(fmt.Sprintf("cannot initialize %s with %s",
				target.HumanReadableName(), valueT.HumanReadableName()), init)
		}
	}
}

// checkExpression reports unresolved names first, a type error only when
// every name resolved. It returns false when something was reported.
func (s *SemanticAnalyzer) checkExpression(expr ast.NodeID) bool {
	ok := true
	s.tree.Accept(expr, &expressionChecker{analyzer: s, ok: &ok})
	if !ok {
		return false
	}
	if err := asError(s.typeEngine.TypeOf(expr)); err != nil {
		s.errorTracker.registerTypeError(err.Error(), expr)
		return false
	}
	return true
}

type expressionChecker struct {
	analyzer *SemanticAnalyzer
	ok       *bool
}

func (*expressionChecker) Categories() ast.Category {
	return ast.CategoryExpression | ast.CategoryDeclSpecifier | ast.CategoryProblem | ast.CategoryAmbiguous
}

func (c *expressionChecker) Visit(n ast.Node) ast.Action {
	s := c.analyzer
	if !s.checkNode(n.ID()) {
		*c.ok = false
		return ast.Skip
	}
	switch n.Kind() {
	case ast.KindIdExpression, ast.KindNamedTypeSpecifier, ast.KindElaboratedTypeSpecifier:
		b := s.index.ResolveName(n.ID())
		if p, isProblem := b.(*Problem); isProblem {
			s.errorTracker.registerSemanticError(p.ID, p.Message(), n.ID())
			*c.ok = false
		} else if n.Kind() == ast.KindIdExpression && IsType(b) {
			s.errorTracker.registerSemanticError(InvalidType, "type name "+b.Name()+" used as a value", n.ID())
			*c.ok = false
		}
	}
	return ast.Continue
}

func (*expressionChecker) Leave(ast.Node) ast.Action { return ast.Continue }

func (s *SemanticAnalyzer) handleFunctionDefinition(fun ast.NodeID) {
	s.funcGotoLabels = utils.NewSet[string]()
	s.funcGotosToCheck = nil

	s.checkSpecifier(s.tree.Child(fun, ast.RoleDeclSpecifier))
	decl := s.tree.Child(fun, ast.RoleDeclarator)
	s.defineSymbol(decl)

	ft, isFunction := types.Unqualified(s.typeEngine.TypeOfDeclarator(decl)).(types.FunctionCtype)
	if !isFunction {
		s.errorTracker.registerTypeError("function definition without a function declarator", decl)
		return
	}

	s.symtab.EnterScope()
	defer s.symtab.LeaveScope()
	if fd := s.index.functionDeclarator(fun); fd != ast.NoNode {
		for _, p := range s.tree.ChildrenWithRole(fd, ast.RoleParameter) {
			pdecl := s.tree.Child(p, ast.RoleDeclarator)
			if pdecl == ast.NoNode || s.tree.DeclaratorName(pdecl) == "" {
				if len(ft.ParamTypes) > 0 {
					s.errorTracker.registerSemanticError(MisplacedStatement, "parameter name omitted", p)
				}
				continue
			}
			s.defineSymbol(pdecl)
		}
	}

	// the body shares the scope of the parameters
	body := s.tree.Child(fun, ast.RoleFunctionBody)
	s.handleCompoundStatement(body, StatementContext{RequiredReturnType: ft.ReturnType})

	for _, g := range s.funcGotosToCheck {
		if p, ok := s.index.ResolveName(g).(*Problem); ok {
			s.errorTracker.registerSemanticError(p.ID, p.Message(), g)
		}
	}
}

func (s *SemanticAnalyzer) handleCompoundStatement(cs ast.NodeID, ctx StatementContext) {
	for _, stmnt := range s.tree.ChildrenWithRole(cs, ast.RoleStatement) {
		s.handleStatement(stmnt, ctx)
	}
}

func (s *SemanticAnalyzer) checkSwitchSemantics(switchStmnt ast.NodeID) {
	body := s.tree.Child(switchStmnt, ast.RoleBody)
	if s.tree.Kind(body) != ast.KindCompoundStatement {
		return
	}
	foundDefault := false
	for _, stmnt := range s.tree.ChildrenWithRole(body, ast.RoleStatement) {
		if s.tree.Kind(stmnt) == ast.KindDefaultStatement {
			if foundDefault {
				s.errorTracker.registerSemanticError(MisplacedStatement, "multiple default labels in one switch", stmnt)
			}
			foundDefault = true
		}
	}
}

func (s *SemanticAnalyzer) handleStatement(stmnt ast.NodeID, ctx StatementContext) {
	if stmnt == ast.NoNode || !s.checkNode(stmnt) {
		return
	}
	switch s.tree.Kind(stmnt) {
	case ast.KindCompoundStatement:
		s.symtab.EnterScope()
		defer s.symtab.LeaveScope()
		s.handleCompoundStatement(stmnt, ctx)
	case ast.KindDeclarationStatement:
		s.handleDeclaration(s.tree.Child(stmnt, ast.RoleDeclaration))
	case ast.KindExpressionStatement:
		if expr := s.tree.Child(stmnt, ast.RoleExpression); expr != ast.NoNode {
			s.checkExpression(expr)
		}
	case ast.KindCaseStatement:
		value := s.tree.Child(stmnt, ast.RoleCaseValue)
		if !ctx.ExpectsCase {
			s.errorTracker.registerSemanticError(MisplacedStatement, "case label not within a switch statement", stmnt)
		} else if s.checkExpression(value) {
			if err := s.typeEngine.checkCaseExpression(value, ctx.CaseExpressionType); err != nil {
				s.errorTracker.registerTypeError(err.Error(), stmnt)
			}
		}
	case ast.KindDefaultStatement:
		if !ctx.ExpectsCase {
			s.errorTracker.registerSemanticError(MisplacedStatement, "default label not within a switch statement", stmnt)
		}
	case ast.KindLabelStatement:
		label := s.tree.Text(stmnt)
		if s.funcGotoLabels.Has(label) {
			s.errorTracker.registerSemanticError(InvalidRedefinition, "duplicate label "+label, stmnt)
		} else {
			s.funcGotoLabels.Add(label)
		}
		s.handleStatement(s.tree.Child(stmnt, ast.RoleNestedStatement), ctx)
	case ast.KindGotoStatement:
		s.funcGotosToCheck = append(s.funcGotosToCheck, stmnt)
	case ast.KindIfStatement:
		s.checkCondition(s.tree.Child(stmnt, ast.RoleCondition))
		s.handleStatement(s.tree.Child(stmnt, ast.RoleThen), ctx)
		s.handleStatement(s.tree.Child(stmnt, ast.RoleElse), ctx)
	case ast.KindSwitchStatement:
		cond := s.tree.Child(stmnt, ast.RoleCondition)
		if !s.checkExpression(cond) {
			return
		}
		condT := s.typeEngine.TypeOf(cond)
		if err := s.typeEngine.checkSwitchExpressionType(condT); err != nil {
			s.errorTracker.registerTypeError(err.Error(), stmnt)
			return
		}
		s.checkSwitchSemantics(stmnt)
		s.handleStatement(s.tree.Child(stmnt, ast.RoleBody), ctx.WithExpectedCase(s.index.rules.IntegerPromotion(condT)).And().WithAllowedBreak())
	case ast.KindWhileStatement:
		s.checkCondition(s.tree.Child(stmnt, ast.RoleCondition))
		s.handleStatement(s.tree.Child(stmnt, ast.RoleBody), ctx.WithAllowedBreak().And().WithAllowedContinue())
	case ast.KindDoStatement:
		s.handleStatement(s.tree.Child(stmnt, ast.RoleBody), ctx.WithAllowedBreak().And().WithAllowedContinue())
		s.checkCondition(s.tree.Child(stmnt, ast.RoleCondition))
	case ast.KindForStatement:
		s.symtab.EnterScope()
		defer s.symtab.LeaveScope()
		s.handleStatement(s.tree.Child(stmnt, ast.RoleForInit), ctx)
		if cond := s.tree.Child(stmnt, ast.RoleCondition); cond != ast.NoNode {
			s.checkCondition(cond)
		}
		if iter := s.tree.Child(stmnt, ast.RoleForIteration); iter != ast.NoNode {
			s.checkExpression(iter)
		}
		s.handleStatement(s.tree.Child(stmnt, ast.RoleBody), ctx.WithAllowedBreak().And().WithAllowedContinue())
	case ast.KindBreakStatement:
		if !ctx.CanUseBreak {
			s.errorTracker.registerSemanticError(MisplacedStatement, "break statement not within loop or switch", stmnt)
		}
	case ast.KindContinueStatement:
		if !ctx.CanUseContinue {
			s.errorTracker.registerSemanticError(MisplacedStatement, "continue statement not within a loop", stmnt)
		}
	case ast.KindReturnStatement:
		value := s.tree.Child(stmnt, ast.RoleReturnValue)
		if value != ast.NoNode && !s.checkExpression(value) {
			return
		}
		if err := s.typeEngine.checkReturnExpression(value, ctx.RequiredReturnType); err != nil {
			s.errorTracker.registerTypeError(err.Error(), stmnt)
		}
	}
}

func (s *SemanticAnalyzer) checkCondition(cond ast.NodeID) {
	if !s.checkExpression(cond) {
		return
	}
	if err := s.typeEngine.checkCondition(cond); err != nil {
		s.errorTracker.registerTypeError(err.Error(), cond)
	}
}
