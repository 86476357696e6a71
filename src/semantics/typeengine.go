package semantics

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/eclipse-cdt/cdt-sub043/src/ast"
	"github.com/eclipse-cdt/cdt-sub043/src/symtab"
	types "github.com/eclipse-cdt/cdt-sub043/src/typesystem"
)

// TypeEngine computes the types of expressions, declarators and type-ids.
// It never fails: what cannot be typed gets a types.ProblemCtype.
type TypeEngine struct {
	index            *Index
	tree             *ast.Tree
	typeRulesManager *types.TypeRulesManager

	specTypes map[ast.NodeID]types.Ctype
	declTypes map[ast.NodeID]types.Ctype
	exprTypes map[ast.NodeID]types.Ctype
	anonymous []anonymousComposite
}

type anonymousComposite struct {
	spec ast.NodeID
	t    types.CompositeCtype
}

func newTypeEngine(idx *Index) *TypeEngine {
	return &TypeEngine{
		index:            idx,
		tree:             idx.tree,
		typeRulesManager: idx.rules,
		specTypes:        map[ast.NodeID]types.Ctype{},
		declTypes:        map[ast.NodeID]types.Ctype{},
		exprTypes:        map[ast.NodeID]types.Ctype{},
	}
}

func problem(format string, args ...any) types.ProblemCtype {
	return types.ProblemCtype{Reason: fmt.Sprintf(format, args...)}
}

func builtinOf(spec ast.DeclSpec) types.BuiltinCtype {
	var b types.Builtin
	switch spec.Type {
	case ast.BasicVoid:
		b = types.VOID
	case ast.BasicChar:
		b = types.CHAR
	case ast.BasicInt:
		b = types.INT
	case ast.BasicFloat:
		b = types.FLOAT
	case ast.BasicDouble:
		b = types.DOUBLE
	case ast.BasicBool:
		b = types.BOOL
	}
	var mods types.Modifier
	for _, m := range []struct {
		from ast.SpecModifiers
		to   types.Modifier
	}{
		{ast.ModSigned, types.SIGNED}, {ast.ModUnsigned, types.UNSIGNED},
		{ast.ModShort, types.SHORT}, {ast.ModLong, types.LONG}, {ast.ModLongLong, types.LONG_LONG},
		{ast.ModComplex, types.COMPLEX}, {ast.ModImaginary, types.IMAGINARY},
	} {
		if spec.Has(m.from) {
			mods |= m.to
		}
	}
	return types.BuiltinFrom(b, mods)
}

func qualifiersOf(q ast.Qualifiers) types.Qualifiers {
	return types.Qualifiers{
		Const:    q.Has(ast.QualConst),
		Volatile: q.Has(ast.QualVolatile),
		Restrict: q.Has(ast.QualRestrict),
	}
}

// TypeOfDeclSpecifier types a decl specifier, qualifiers included.
func (e *TypeEngine) TypeOfDeclSpecifier(spec ast.NodeID) types.Ctype {
	if spec == ast.NoNode {
		return problem("missing decl specifier")
	}
	if t, ok := e.specTypes[spec]; ok {
		return t
	}
	var t types.Ctype
	switch e.tree.Kind(spec) {
	case ast.KindSimpleDeclSpecifier:
		t = builtinOf(e.tree.Attrs(spec).Spec)
	case ast.KindNamedTypeSpecifier, ast.KindElaboratedTypeSpecifier:
		b := e.index.ResolveName(spec)
		if p, isProblem := b.(*Problem); isProblem {
			t = problem("%s", p.Message())
		} else {
			t = TypeOf(b)
		}
	case ast.KindCompositeTypeSpecifier:
		t = e.compositeOf(spec)
	case ast.KindEnumerationSpecifier:
		names := []string{}
		for _, en := range e.tree.ChildrenWithRole(spec, ast.RoleEnumerator) {
			names = append(names, e.tree.Text(en))
		}
		t = types.NewEnum(e.tree.Text(spec), names...)
	default:
		return problem("%s is not a decl specifier", e.tree.Kind(spec))
	}
	if types.IsProblem(t) {
		return t
	}
	t = types.Qualify(t, qualifiersOf(e.tree.Attrs(spec).Qual))
	e.specTypes[spec] = t
	return t
}

// compositeOf builds the type of a struct or union body. The incomplete type
// is published first so that members pointing back at it terminate.
func (e *TypeEngine) compositeOf(spec ast.NodeID) types.Ctype {
	name := e.tree.Text(spec)
	key := compositeKey(e.tree.Attrs(spec).Key)
	e.specTypes[spec] = types.NewComposite(key, name, nil, nil)

	fieldTypes := []types.Ctype{}
	fieldNames := []string{}
	for _, m := range e.tree.ChildrenWithRole(spec, ast.RoleMember) {
		if e.tree.Kind(m) != ast.KindSimpleDeclaration {
			continue
		}
		decls := e.tree.ChildrenWithRole(m, ast.RoleDeclarator)
		if len(decls) == 0 {
			// anonymous struct or union member, its fields are promoted
			inner, ok := types.Unqualified(e.TypeOfDeclSpecifier(e.tree.Child(m, ast.RoleDeclSpecifier))).(types.CompositeCtype)
			if ok && inner.Name() == types.ANONYMOUS {
				fieldTypes = append(fieldTypes, inner.FieldTypes...)
				fieldNames = append(fieldNames, inner.FieldNames...)
			}
			continue
		}
		for _, d := range decls {
			fieldTypes = append(fieldTypes, e.TypeOfDeclarator(d))
			fieldNames = append(fieldNames, e.tree.DeclaratorName(d))
		}
	}
	ct := types.NewComposite(key, name, fieldTypes, fieldNames)
	if name == types.ANONYMOUS {
		e.anonymous = append(e.anonymous, anonymousComposite{spec: spec, t: ct})
	}
	return ct
}

// compositeBinding finds the binding of the struct a composite type came from.
func (e *TypeEngine) compositeBinding(from ast.NodeID, ct types.CompositeCtype) *Composite {
	if ct.Name() != types.ANONYMOUS {
		b, ok := e.index.Lookup(from, symtab.Tag, ct.Name())
		if !ok {
			return nil
		}
		res, _ := b.(*Composite)
		return res
	}
	for _, a := range e.anonymous {
		if e.typeRulesManager.IsSameType(a.t, ct) {
			res, _ := e.index.BindingOf(a.spec).(*Composite)
			return res
		}
	}
	return nil
}

// TypeOfDeclarator returns the type of the entity a declarator names. Any
// declarator of a nested chain gives the same answer. Like expression types,
// problems are not cached.
func (e *TypeEngine) TypeOfDeclarator(decl ast.NodeID) types.Ctype {
	outer := e.tree.OutermostDeclarator(decl)
	if t, ok := e.declTypes[outer]; ok {
		return t
	}
	base := e.TypeOfDeclSpecifier(e.tree.DeclSpecifierOf(outer))
	t := e.applyDeclarator(outer, base)
	if !types.IsProblem(t) {
		e.declTypes[outer] = t
	}
	return t
}

// applyDeclarator wraps t the way C reads declarators: pointer operators
// first, then the array or function suffix, then the nested declarator.
func (e *TypeEngine) applyDeclarator(decl ast.NodeID, t types.Ctype) types.Ctype {
	for _, p := range e.tree.ChildrenWithRole(decl, ast.RolePointerOperator) {
		t = types.PointerCtype{Target: t, Qualifiers: qualifiersOf(e.tree.Attrs(p).Qual)}
	}
	switch e.tree.Kind(decl) {
	case ast.KindArrayDeclarator:
		mods := e.tree.ChildrenWithRole(decl, ast.RoleArrayModifier)
		for i := len(mods) - 1; i >= 0; i-- {
			t = e.arrayOf(mods[i], t)
		}
	case ast.KindFunctionDeclarator:
		t = e.functionOf(decl, t)
	}
	if nested := e.tree.Child(decl, ast.RoleNestedDeclarator); nested != ast.NoNode {
		return e.applyDeclarator(nested, t)
	}
	return t
}

func (e *TypeEngine) arrayOf(mod ast.NodeID, elem types.Ctype) types.ArrayCtype {
	attrs := e.tree.Attrs(mod)
	arr := types.ArrayOf(elem, types.UNSPECIFIED_ARR_SIZE)
	arr.Qualifiers = qualifiersOf(attrs.Qual)
	arr.Static = attrs.Flags&ast.FlagStatic != 0
	arr.VariableLength = attrs.Flags&ast.FlagVariableLength != 0
	size := e.tree.Child(mod, ast.RoleArraySize)
	if size != ast.NoNode && e.tree.Kind(size) == ast.KindLiteralExpression && e.tree.Attrs(size).Literal == ast.LiteralInteger {
		if n, err := parseIntegerLiteral(e.tree.Text(size)); err == nil {
			arr.Size = int(n)
		}
	}
	return arr
}

func parseIntegerLiteral(text string) (int64, error) {
	return strconv.ParseInt(strings.TrimRight(strings.ToLower(text), "ul"), 0, 64)
}

func (e *TypeEngine) functionOf(fd ast.NodeID, ret types.Ctype) types.FunctionCtype {
	ft := types.FunctionCtype{
		ReturnType: ret,
		Varargs:    e.tree.Attrs(fd).Flags&ast.FlagVarargs != 0,
	}
	params := e.tree.ChildrenWithRole(fd, ast.RoleParameter)
	if len(params) == 0 {
		ft.NoPrototype = !ft.Varargs
		return ft
	}
	if len(params) == 1 && e.isVoidParameter(params[0]) {
		return ft
	}
	for _, p := range params {
		ft.ParamTypes = append(ft.ParamTypes, types.Decay(e.typeOfParameter(p)))
		name := ""
		if decl := e.tree.Child(p, ast.RoleDeclarator); decl != ast.NoNode {
			name = e.tree.DeclaratorName(decl)
		}
		ft.ParamNames = append(ft.ParamNames, name)
	}
	return ft
}

func (e *TypeEngine) typeOfParameter(p ast.NodeID) types.Ctype {
	if decl := e.tree.Child(p, ast.RoleDeclarator); decl != ast.NoNode {
		return e.TypeOfDeclarator(decl)
	}
	return e.TypeOfDeclSpecifier(e.tree.Child(p, ast.RoleDeclSpecifier))
}

// isVoidParameter recognizes the (void) parameter list.
func (e *TypeEngine) isVoidParameter(p ast.NodeID) bool {
	decl := e.tree.Child(p, ast.RoleDeclarator)
	if decl != ast.NoNode && (e.tree.Kind(decl) != ast.KindDeclarator || e.tree.NumChildren(decl) > 0 || e.tree.Text(decl) != "") {
		return false
	}
	return types.IsVoid(e.TypeOfDeclSpecifier(e.tree.Child(p, ast.RoleDeclSpecifier)))
}

// TypeOfTypeID types the type name of a cast, sizeof or alignment specifier.
func (e *TypeEngine) TypeOfTypeID(typeID ast.NodeID) types.Ctype {
	if typeID == ast.NoNode || e.tree.Kind(typeID) != ast.KindTypeID {
		return problem("not a type-id")
	}
	return e.typeOfParameter(typeID)
}

// TypeOf types an expression. Problems are not cached, a later resolution
// of an enclosed ambiguity may fix them.
func (e *TypeEngine) TypeOf(expr ast.NodeID) types.Ctype {
	if expr == ast.NoNode {
		return problem("missing expression")
	}
	if t, ok := e.exprTypes[expr]; ok {
		return t
	}
	t := e.typeOf(expr)
	if !types.IsProblem(t) {
		e.exprTypes[expr] = t
	}
	return t
}

func (e *TypeEngine) typeOf(expr ast.NodeID) types.Ctype {
	tree := e.tree
	kind := tree.Kind(expr)
	switch kind {
	case ast.KindIdExpression:
		b := e.index.ResolveName(expr)
		if p, ok := b.(*Problem); ok {
			return problem("%s", p.Message())
		}
		if IsType(b) {
			return problem("%s names a type", b.Name())
		}
		return TypeOf(b)
	case ast.KindLiteralExpression:
		return e.literalType(expr)
	case ast.KindBinaryExpression:
		l := e.TypeOf(tree.Child(expr, ast.RoleOperand1))
		r := e.TypeOf(tree.Child(expr, ast.RoleOperand2))
		if types.IsProblem(l) {
			return l
		}
		if types.IsProblem(r) {
			return r
		}
		return e.fromRule(e.typeRulesManager.BinaryOpType(tree.Op(expr), l, r))
	case ast.KindUnaryExpression:
		op := tree.Op(expr)
		operand := e.TypeOf(tree.Child(expr, ast.RoleOperand))
		if op == ast.OpSizeof || op == ast.OpAlignof {
			return e.index.Platform().SizeType()
		}
		if types.IsProblem(operand) {
			return operand
		}
		return e.fromRule(e.typeRulesManager.UnaryOpType(op, operand))
	case ast.KindCastExpression:
		return e.TypeOfTypeID(tree.Child(expr, ast.RoleTypeID))
	case ast.KindFunctionCallExpression:
		return e.callType(expr)
	case ast.KindArraySubscriptExpression:
		a := e.TypeOf(tree.Child(expr, ast.RoleArray))
		i := e.TypeOf(tree.Child(expr, ast.RoleSubscriptExpression))
		if types.IsProblem(a) {
			return a
		}
		if types.IsProblem(i) {
			return i
		}
		sum, err := e.typeRulesManager.BinaryOpType("+", a, i)
		if err != nil {
			return problem("%s", err)
		}
		return e.fromRule(e.typeRulesManager.UnaryOpType("*", sum))
	case ast.KindFieldReference:
		return e.fieldType(expr)
	case ast.KindConditionalExpression:
		return e.conditionalType(expr)
	case ast.KindExpressionList:
		nested := tree.ChildrenWithRole(expr, ast.RoleNestedExpression)
		if len(nested) == 0 {
			return problem("empty expression list")
		}
		return e.TypeOf(nested[len(nested)-1])
	case ast.KindTypeIdExpression:
		return e.index.Platform().SizeType()
	case ast.KindProblemExpression:
		return problem("syntax error: %s", tree.Text(expr))
	}
	if kind.IsAmbiguous() {
		return problem("unresolved %s", kind)
	}
	return problem("%s is not an expression", kind)
}

func (e *TypeEngine) fromRule(t types.Ctype, err error) types.Ctype {
	if err != nil {
		return problem("%s", err)
	}
	return t
}

func (e *TypeEngine) literalType(expr ast.NodeID) types.Ctype {
	attrs := e.tree.Attrs(expr)
	if attrs.Literal != ast.LiteralString {
		return e.typeRulesManager.TypeOfConstant(attrs.Text)
	}
	text := strings.TrimLeft(attrs.Text, "LuU8")
	size := types.UNSPECIFIED_ARR_SIZE
	if s, err := strconv.Unquote(text); err == nil {
		size = len(s) + 1
	}
	return types.ArrayOf(types.CHAR_TYPE, size)
}

func (e *TypeEngine) callType(expr ast.NodeID) types.Ctype {
	callee := e.TypeOf(e.tree.Child(expr, ast.RoleFunctionName))
	if types.IsProblem(callee) {
		return callee
	}
	ft, ok := types.Unqualified(callee).(types.FunctionCtype)
	if !ok {
		if p, isPtr := types.AsPointer(callee); isPtr {
			ft, ok = types.Unqualified(p.Target).(types.FunctionCtype)
		}
	}
	if !ok {
		return problem("called object of type %s is not a function", callee.HumanReadableName())
	}
	return ft.ReturnType
}

func (e *TypeEngine) fieldType(expr ast.NodeID) types.Ctype {
	owner := e.TypeOf(e.tree.Child(expr, ast.RoleFieldOwner))
	if types.IsProblem(owner) {
		return owner
	}
	name := e.tree.Text(expr)
	if e.tree.Attrs(expr).Flags&ast.FlagPointerDeref != 0 {
		p, ok := types.AsPointer(types.Decay(owner))
		if !ok {
			return problem("-> applied to %s", owner.HumanReadableName())
		}
		owner = p.Target
	}
	ct, ok := types.Unqualified(owner).(types.CompositeCtype)
	if !ok {
		return problem("request for member %s in %s", name, owner.HumanReadableName())
	}
	if len(ct.FieldNames) == 0 && ct.Name() != types.ANONYMOUS {
		// pointers to a struct taken while its body was being typed
		if comp := e.compositeBinding(expr, ct); comp != nil {
			if full, isComposite := types.Unqualified(comp.Type()).(types.CompositeCtype); isComposite {
				ct = full
			}
		}
	}
	ft, ok := ct.MaybeField(name)
	if !ok {
		return problem("%s has no member named %s", ct.HumanReadableName(), name)
	}
	return types.Qualify(ft, types.QualifiersOf(owner))
}

func (e *TypeEngine) conditionalType(expr ast.NodeID) types.Ctype {
	tm := e.typeRulesManager
	cond := e.TypeOf(e.tree.Child(expr, ast.RoleLogicalCondition))
	if types.IsProblem(cond) {
		return cond
	}
	pos := e.TypeOf(e.tree.Child(expr, ast.RolePositiveResult))
	neg := e.TypeOf(e.tree.Child(expr, ast.RoleNegativeResult))
	switch {
	case types.IsProblem(pos):
		return pos
	case types.IsProblem(neg):
		return neg
	case tm.IsArithmeticType(pos) && tm.IsArithmeticType(neg):
		return e.fromRule(tm.UsualArithmeticConversion("?:", pos, neg))
	case tm.IsSameType(pos, neg):
		return pos
	}
	pos, neg = types.Decay(pos), types.Decay(neg)
	if _, isPtr := types.AsPointer(pos); isPtr && tm.IsIntegralType(neg) {
		return pos
	}
	if _, isPtr := types.AsPointer(neg); isPtr && tm.IsIntegralType(pos) {
		return neg
	}
	if tm.IsAutomaticallyCastable(neg, pos) {
		return pos
	}
	return problem("type mismatch in conditional expression: %s and %s", pos.HumanReadableName(), neg.HumanReadableName())
}

// HasProblems reports whether n or anything below it fails to resolve: a
// problem node, a name without a binding, a type name used as a value or the
// other way round, an unresolved ambiguity or an expression with a problem
// type.
func (e *TypeEngine) HasProblems(n ast.NodeID) bool {
	v := &problemFinder{index: e.index}
	e.tree.Accept(n, v)
	if v.found {
		return true
	}
	if e.tree.Kind(n).Is(ast.CategoryExpression) && !e.tree.Kind(n).IsAmbiguous() {
		return types.IsProblem(e.TypeOf(n))
	}
	return false
}

type problemFinder struct {
	index *Index
	found bool
}

func (*problemFinder) Categories() ast.Category { return ast.CategoryAll | ast.CategoryAmbiguous }

func (f *problemFinder) Visit(n ast.Node) ast.Action {
	switch {
	case n.Kind().IsProblem(), n.Kind().IsAmbiguous():
		f.found = true
	case n.Kind() == ast.KindIdExpression:
		b := f.index.ResolveName(n.ID())
		f.found = IsProblem(b) || IsType(b)
	case n.Kind() == ast.KindNamedTypeSpecifier, n.Kind() == ast.KindElaboratedTypeSpecifier:
		f.found = IsProblem(f.index.ResolveName(n.ID()))
	}
	if f.found {
		return ast.Abort
	}
	return ast.Continue
}

func (*problemFinder) Leave(ast.Node) ast.Action { return ast.Continue }

var (
	errNotBool        = errors.New("condition doesn't have a scalar type")
	errSwitchType     = errors.New("switch expression doesn't have an integral type")
	errReturnExpected = errors.New("expected a return value")
	errReturnInVoid   = errors.New("void function returns a value")
)

// asError turns a problem type into an error, nil for usable types.
func asError(t types.Ctype) error {
	switch pt := t.(type) {
	case nil:
		return errors.New("missing type")
	case types.ProblemCtype:
		return errors.New(pt.Reason)
	}
	if types.IsProblem(t) {
		return fmt.Errorf("invalid type %s", t.HumanReadableName())
	}
	return nil
}

func (e *TypeEngine) checkCondition(expr ast.NodeID) error {
	condType := e.TypeOf(expr)
	if err := asError(condType); err != nil {
		return err
	}
	if !e.typeRulesManager.CanBeUsedAsBool(condType) {
		return fmt.Errorf("%w: %s", errNotBool, condType.HumanReadableName())
	}
	return nil
}

func (e *TypeEngine) checkSwitchExpressionType(t types.Ctype) error {
	if !e.typeRulesManager.IsIntegralType(t) {
		return fmt.Errorf("%w: %s", errSwitchType, t.HumanReadableName())
	}
	return nil
}

func (e *TypeEngine) checkCaseExpression(expr ast.NodeID, expectedType types.Ctype) error {
	exprT := e.TypeOf(expr)
	if err := asError(exprT); err != nil {
		return err
	}
	if !e.typeRulesManager.IsIntegralType(exprT) || !e.typeRulesManager.IsAutomaticallyCastable(exprT, expectedType) {
		return fmt.Errorf("invalid type of case expression: %s", exprT.HumanReadableName())
	}
	return nil
}

func (e *TypeEngine) checkReturnExpression(expr ast.NodeID, expectedType types.Ctype) error {
	if expr == ast.NoNode {
		if expectedType != nil && !types.IsVoid(expectedType) {
			return errReturnExpected
		}
		return nil
	}
	exprT := e.TypeOf(expr)
	if err := asError(exprT); err != nil {
		return err
	}
	if expectedType == nil {
		return nil
	}
	if types.IsVoid(expectedType) {
		return errReturnInVoid
	}
	if !e.typeRulesManager.IsAutomaticallyCastable(types.Decay(exprT), expectedType) {
		return fmt.Errorf("incompatible return type: %s, expected %s", exprT.HumanReadableName(), expectedType.HumanReadableName())
	}
	return nil
}
