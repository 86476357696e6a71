package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eclipse-cdt/cdt-sub043/src/utils"
)

var (
	ErrNotArithmetic     = errors.New("operand is not of arithmetic type")
	ErrNotIntegral       = errors.New("operand is not of integral type")
	ErrNotScalar         = errors.New("operand is not of scalar type")
	ErrIncompatibleTypes = errors.New("incompatible types")
	ErrNotLValue         = errors.New("not an l-value")
	ErrUnknownOperator   = errors.New("unknown operator")
)

type RankClass string

const (
	RANK_BOOL        RankClass = "_Bool"
	RANK_CHAR        RankClass = "char"
	RANK_SHORT       RankClass = "short"
	RANK_INT         RankClass = "int"
	RANK_LONG        RankClass = "long"
	RANK_LONG_LONG   RankClass = "long long"
	RANK_FLOAT       RankClass = "float"
	RANK_DOUBLE      RankClass = "double"
	RANK_LONG_DOUBLE RankClass = "long double"
)

var rankClasses = []RankClass{RANK_BOOL, RANK_CHAR, RANK_SHORT, RANK_INT, RANK_LONG,
	RANK_LONG_LONG, RANK_FLOAT, RANK_DOUBLE, RANK_LONG_DOUBLE}

type RankGreaterRule struct {
	greater RankClass
	lower   RankClass
}

// must define strict partial order in the rank classes set
var _RANK_RULES = []RankGreaterRule{
	{RANK_LONG_DOUBLE, RANK_DOUBLE},
	{RANK_DOUBLE, RANK_FLOAT},
	{RANK_FLOAT, RANK_LONG_LONG},
	{RANK_LONG_LONG, RANK_LONG},
	{RANK_LONG, RANK_INT},
	{RANK_INT, RANK_SHORT},
	{RANK_SHORT, RANK_CHAR},
	{RANK_CHAR, RANK_BOOL},
}

// graph containing transitive closure of the relation above
// if there exits an edge from node1 to node2 then node1 > node2 wrt the relation above
type RankRulesGraph map[RankClass]*utils.Set[RankClass]

func buildTopologicalOrder(G RankRulesGraph, cur RankClass, visited map[RankClass]bool, order []RankClass, lastIdx int) int {
	visited[cur] = true
	if neighs, ok := G[cur]; ok {
		for _, neigh := range neighs.GetAll() {
			if !visited[neigh] {
				lastIdx = buildTopologicalOrder(G, neigh, visited, order, lastIdx)
			}
		}
	}
	order[lastIdx+1] = cur
	return lastIdx + 1
}

func buildRankRulesGraph() RankRulesGraph {
	G := make(RankRulesGraph)
	for _, rule := range _RANK_RULES {
		if neighs, ok := G[rule.greater]; ok {
			neighs.Add(rule.lower)
		} else {
			G[rule.greater] = utils.SetOf(rule.lower)
		}
	}
	visited := map[RankClass]bool{}
	topologicalOrder := make([]RankClass, len(rankClasses))
	idx := -1
	for _, rc := range rankClasses {
		if !visited[rc] {
			idx = buildTopologicalOrder(G, rc, visited, topologicalOrder, idx)
		}
	}
	// lower classes come first, their closure is complete when v is processed
	for _, v := range topologicalOrder {
		if vNeighs, ok := G[v]; ok {
			for _, neigh := range vNeighs.GetAll() {
				if neighsOfNeigh, ok := G[neigh]; ok {
					vNeighs.AddAll(neighsOfNeigh.GetAll())
				}
			}
		}
	}
	return G
}

type TypeRulesManager struct {
	rankRulesGraph RankRulesGraph
	platform       Platform
}

func NewTypeRulesManager(platform Platform) *TypeRulesManager {
	return &TypeRulesManager{
		rankRulesGraph: buildRankRulesGraph(),
		platform:       platform,
	}
}

func (tm *TypeRulesManager) Platform() *Platform { return &tm.platform }

func (tm *TypeRulesManager) rankGreater(a, b RankClass) bool {
	n, ok := tm.rankRulesGraph[a]
	return ok && n.Has(b)
}

func RankOf(bt BuiltinCtype) RankClass {
	switch bt.Builtin {
	case BOOL:
		return RANK_BOOL
	case CHAR:
		return RANK_CHAR
	case FLOAT:
		return RANK_FLOAT
	case DOUBLE:
		if bt.Has(LONG) {
			return RANK_LONG_DOUBLE
		}
		return RANK_DOUBLE
	}
	switch {
	case bt.Has(SHORT):
		return RANK_SHORT
	case bt.Has(LONG_LONG):
		return RANK_LONG_LONG
	case bt.Has(LONG):
		return RANK_LONG
	}
	return RANK_INT
}

// IsSameType compares structurally, typedefs are unwrapped.
func (tm *TypeRulesManager) IsSameType(t1 Ctype, t2 Ctype) bool {
	t1, t2 = Unwrap(t1), Unwrap(t2)
	switch ct1 := t1.(type) {
	case BuiltinCtype:
		ct2, ok := t2.(BuiltinCtype)
		return ok && BuiltinFrom(ct1.Builtin, ct1.Modifiers) == BuiltinFrom(ct2.Builtin, ct2.Modifiers)
	case QualifierCtype:
		ct2, ok := t2.(QualifierCtype)
		return ok && ct1.Qualifiers == ct2.Qualifiers && tm.IsSameType(ct1.Target, ct2.Target)
	case PointerCtype, QualifiedPointerCtype:
		p1, _ := AsPointer(ct1)
		p2, ok := t2.(PointerCtype)
		if qp, isQp := t2.(QualifiedPointerCtype); isQp {
			p2, ok = qp.PointerCtype, true
		}
		return ok && p1.Qualifiers == p2.Qualifiers && tm.IsSameType(p1.Target, p2.Target)
	case ArrayCtype:
		ct2, ok := t2.(ArrayCtype)
		return ok && ct1.Size == ct2.Size && ct1.Qualifiers == ct2.Qualifiers &&
			ct1.VariableLength == ct2.VariableLength && tm.IsSameType(ct1.Element, ct2.Element)
	case FunctionCtype:
		ct2, ok := t2.(FunctionCtype)
		if !ok || ct1.Varargs != ct2.Varargs || len(ct1.ParamTypes) != len(ct2.ParamTypes) {
			return false
		}
		if !tm.IsSameType(ct1.ReturnType, ct2.ReturnType) {
			return false
		}
		for i := range ct1.ParamTypes {
			if !tm.IsSameType(ct1.ParamTypes[i], ct2.ParamTypes[i]) {
				return false
			}
		}
		return true
	case CompositeCtype:
		ct2, ok := t2.(CompositeCtype)
		if !ok || ct1.Key != ct2.Key || ct1.name != ct2.name {
			return false
		}
		if ct1.name != ANONYMOUS {
			return true
		}
		if len(ct1.FieldNames) != len(ct2.FieldNames) {
			return false
		}
		for i := range ct1.FieldNames {
			if ct1.FieldNames[i] != ct2.FieldNames[i] || !tm.IsSameType(ct1.FieldTypes[i], ct2.FieldTypes[i]) {
				return false
			}
		}
		return true
	case EnumCtype:
		ct2, ok := t2.(EnumCtype)
		return ok && ct1.name == ct2.name
	}
	return false
}

func (tm *TypeRulesManager) IsIntegralType(t Ctype) bool {
	switch ct := Unqualified(t).(type) {
	case BuiltinCtype:
		return ct.Builtin == BOOL || ct.Builtin == CHAR || ct.Builtin == INT
	case EnumCtype:
		return true
	}
	return false
}

func (tm *TypeRulesManager) IsFloatingType(t Ctype) bool {
	bt, ok := Unqualified(t).(BuiltinCtype)
	return ok && (bt.Builtin == FLOAT || bt.Builtin == DOUBLE)
}

func (tm *TypeRulesManager) IsArithmeticType(t Ctype) bool {
	return tm.IsIntegralType(t) || tm.IsFloatingType(t)
}

func (tm *TypeRulesManager) IsScalarType(t Ctype) bool {
	return tm.IsArithmeticType(t) || isPointerLike(t)
}

func (tm *TypeRulesManager) IsSigned(bt BuiltinCtype) bool {
	switch {
	case bt.Builtin == BOOL, bt.Has(UNSIGNED):
		return false
	case bt.Builtin == CHAR && !bt.Has(SIGNED):
		return tm.platform.CharIsSigned
	}
	return true
}

// canRepresent reports whether every value of source fits in target.
func (tm *TypeRulesManager) canRepresent(target, source BuiltinCtype) bool {
	ts, ss := tm.platform.SizeOf(target), tm.platform.SizeOf(source)
	if source.Builtin == BOOL {
		return true
	}
	switch tSigned, sSigned := tm.IsSigned(target), tm.IsSigned(source); {
	case tSigned == sSigned:
		return ts >= ss
	case tSigned:
		return ts > ss
	}
	return false
}

func UnsignedOf(bt BuiltinCtype) BuiltinCtype {
	return BuiltinFrom(bt.Builtin, bt.Modifiers&^SIGNED|UNSIGNED)
}

// IntegerPromotion converts integer types of lower rank than int to int, or to
// unsigned int when int cannot hold every value of the source.
func (tm *TypeRulesManager) IntegerPromotion(t Ctype) Ctype {
	switch ct := Unqualified(t).(type) {
	case EnumCtype:
		return INT_TYPE
	case BuiltinCtype:
		if !tm.IsIntegralType(ct) || !tm.rankGreater(RANK_INT, RankOf(ct)) {
			return ct
		}
		if tm.canRepresent(INT_TYPE, ct) {
			return INT_TYPE
		}
		return UNSIGNED_TYPE
	}
	return t
}

func (tm *TypeRulesManager) arithmetic(t Ctype) (BuiltinCtype, bool) {
	switch ct := Unqualified(t).(type) {
	case BuiltinCtype:
		if ct.Builtin != VOID {
			return ct, true
		}
	case EnumCtype:
		return INT_TYPE, true
	}
	return BuiltinCtype{}, false
}

// UsualArithmeticConversion computes the common type of the operands of op.
// Shift operators only promote, their result has the type of the left operand.
func (tm *TypeRulesManager) UsualArithmeticConversion(op string, t1 Ctype, t2 Ctype) (Ctype, error) {
	b1, ok1 := tm.arithmetic(t1)
	b2, ok2 := tm.arithmetic(t2)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("%w: %s %s %s", ErrNotArithmetic, humanName(t1), op, humanName(t2))
	}
	if op == "<<" || op == ">>" {
		return tm.IntegerPromotion(b1), nil
	}

	if fl1, fl2 := tm.IsFloatingType(b1), tm.IsFloatingType(b2); fl1 || fl2 {
		res := b1
		switch {
		case !fl1:
			res = b2
		case fl2 && tm.rankGreater(RankOf(b2), RankOf(b1)):
			res = b2
		}
		mods := res.Modifiers &^ (COMPLEX | IMAGINARY)
		if b1.Has(COMPLEX) || b2.Has(COMPLEX) {
			mods |= COMPLEX
		}
		return BuiltinFrom(res.Builtin, mods), nil
	}

	p1 := tm.IntegerPromotion(b1).(BuiltinCtype)
	p2 := tm.IntegerPromotion(b2).(BuiltinCtype)
	if tm.IsSameType(p1, p2) {
		return p1, nil
	}
	s1, s2 := tm.IsSigned(p1), tm.IsSigned(p2)
	r1, r2 := RankOf(p1), RankOf(p2)
	if s1 == s2 {
		if tm.rankGreater(r2, r1) {
			return p2, nil
		}
		return p1, nil
	}
	unsigned, signed := p1, p2
	if s1 {
		unsigned, signed = p2, p1
	}
	if !tm.rankGreater(RankOf(signed), RankOf(unsigned)) {
		return unsigned, nil
	}
	if tm.canRepresent(signed, unsigned) {
		return signed, nil
	}
	return UnsignedOf(signed), nil
}

func humanName(t Ctype) string {
	if t == nil {
		return "<nil>"
	}
	return t.HumanReadableName()
}

func (tm *TypeRulesManager) BinaryOpType(op string, t1 Ctype, t2 Ctype) (Ctype, error) {
	if strings.HasSuffix(op, "=") && op != "==" && op != "!=" && op != "<=" && op != ">=" {
		return tm.AssignmentOpType(op, t1, t2)
	}
	t1, t2 = Decay(t1), Decay(t2)
	switch op {
	case ",":
		return t2, nil
	case "&&", "||":
		if !tm.IsScalarType(t1) || !tm.IsScalarType(t2) {
			return nil, fmt.Errorf("%w: %s %s %s", ErrNotScalar, humanName(t1), op, humanName(t2))
		}
		return COMPARISON_TYPE, nil
	case "==", "!=", "<=", ">=", ">", "<":
		if !tm.IsScalarType(t1) || !tm.IsScalarType(t2) {
			return nil, fmt.Errorf("%w: %s %s %s", ErrNotScalar, humanName(t1), op, humanName(t2))
		}
		if !tm.IsAutomaticallyCastable(t1, t2) && !tm.IsAutomaticallyCastable(t2, t1) {
			return nil, fmt.Errorf("%w: %s %s %s", ErrIncompatibleTypes, humanName(t1), op, humanName(t2))
		}
		return COMPARISON_TYPE, nil
	case "<<", ">>", "|", "^", "&", "%":
		if !tm.IsIntegralType(t1) || !tm.IsIntegralType(t2) {
			return nil, fmt.Errorf("%w: %s %s %s", ErrNotIntegral, humanName(t1), op, humanName(t2))
		}
		return tm.UsualArithmeticConversion(op, t1, t2)
	case "+":
		if isPointer(t1) && tm.IsIntegralType(t2) {
			return t1, nil
		}
		if isPointer(t2) && tm.IsIntegralType(t1) {
			return t2, nil
		}
		return tm.UsualArithmeticConversion(op, t1, t2)
	case "-":
		if isPointer(t1) {
			if tm.IsIntegralType(t2) {
				return t1, nil
			}
			if isPointer(t2) {
				return tm.platform.PtrDiffType(), nil
			}
			return nil, fmt.Errorf("%w: %s - %s", ErrIncompatibleTypes, humanName(t1), humanName(t2))
		}
		return tm.UsualArithmeticConversion(op, t1, t2)
	case "*", "/":
		return tm.UsualArithmeticConversion(op, t1, t2)
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownOperator, op)
}

func (tm *TypeRulesManager) canBeLValue(t Ctype) bool {
	switch Unqualified(t).(type) {
	case ArrayCtype, FunctionCtype:
		return false
	}
	return !QualifiersOf(t).Const
}

// AssignmentOpType types "=" and the compound assignments, the result has the
// type of the left operand.
func (tm *TypeRulesManager) AssignmentOpType(op string, lhsType Ctype, rhsType Ctype) (Ctype, error) {
	if !tm.canBeLValue(lhsType) {
		return nil, fmt.Errorf("%w: %s", ErrNotLValue, humanName(lhsType))
	}
	if op == "=" {
		if tm.IsAutomaticallyCastable(Decay(rhsType), lhsType) {
			return lhsType, nil
		}
		return nil, fmt.Errorf("%w: cannot assign %s to %s", ErrIncompatibleTypes, humanName(rhsType), humanName(lhsType))
	}
	arith := strings.TrimSuffix(op, "=")
	switch arith {
	case "*", "/", "%", "+", "-", "<<", ">>", "&", "^", "|":
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownOperator, op)
	}
	if _, err := tm.BinaryOpType(arith, lhsType, rhsType); err != nil {
		return nil, err
	}
	return lhsType, nil
}

func (tm *TypeRulesManager) UnaryOpType(op string, t Ctype) (Ctype, error) {
	switch op {
	case "()":
		return t, nil
	case "&":
		return PointerTo(t), nil
	case "*":
		switch ct := Unqualified(t).(type) {
		case PointerCtype:
			return ct.Target, nil
		case QualifiedPointerCtype:
			return ct.Target, nil
		case ArrayCtype:
			return ct.Element, nil
		case FunctionCtype:
			return ct, nil
		}
		return nil, fmt.Errorf("%w: %s can't be dereferenced", ErrIncompatibleTypes, humanName(t))
	case "+", "-":
		if !tm.IsArithmeticType(t) {
			return nil, fmt.Errorf("%w: %s%s", ErrNotArithmetic, op, humanName(t))
		}
		return tm.IntegerPromotion(t), nil
	case "~":
		if !tm.IsIntegralType(t) {
			return nil, fmt.Errorf("%w: ~%s", ErrNotIntegral, humanName(t))
		}
		return tm.IntegerPromotion(t), nil
	case "!":
		if !tm.IsScalarType(t) {
			return nil, fmt.Errorf("%w: !%s", ErrNotScalar, humanName(t))
		}
		return COMPARISON_TYPE, nil
	case "++x", "--x", "x++", "x--":
		if !tm.IsScalarType(t) || isArray(t) || isFunction(t) {
			return nil, fmt.Errorf("%w: %s", ErrNotScalar, humanName(t))
		}
		return Unqualified(t), nil
	case "sizeof", "_Alignof":
		return tm.platform.SizeType(), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownOperator, op)
}

func (tm *TypeRulesManager) CanBeUsedAsBool(t Ctype) bool {
	return tm.IsScalarType(t)
}

func (tm *TypeRulesManager) IsAutomaticallyCastable(from Ctype, to Ctype) bool {
	if tm.IsSameType(from, to) {
		return true
	}
	from, to = Unqualified(from), Unqualified(to)
	switch {
	case isVoid(from) || isVoid(to):
		return isVoid(from) && isVoid(to)
	case tm.IsArithmeticType(from):
		return tm.IsArithmeticType(to) || (isPointerLike(to) && tm.IsIntegralType(from))
	case isPointerLike(from):
		if tm.IsIntegralType(to) {
			return true
		}
		return isPointerLike(to)
	}
	switch ct := from.(type) {
	case CompositeCtype:
		return tm.IsSameType(ct, to)
	}
	return false
}

// GetGreaterOrEqualType picks the operand type of higher conversion rank.
func (tm *TypeRulesManager) GetGreaterOrEqualType(t1 Ctype, t2 Ctype) Ctype {
	b1, ok1 := tm.arithmetic(t1)
	b2, ok2 := tm.arithmetic(t2)
	if ok1 && ok2 && tm.rankGreater(RankOf(b2), RankOf(b1)) {
		return t2
	}
	return t1
}

// TypeOfConstant types a numeric or character constant from its spelling.
func (tm *TypeRulesManager) TypeOfConstant(val string) BuiltinCtype {
	if strings.HasPrefix(val, "'") {
		return INT_TYPE // character constants have type int in C
	}
	lower := strings.ToLower(val)
	isHex := strings.HasPrefix(lower, "0x")
	if !isHex && (strings.ContainsAny(lower, ".e") || strings.HasSuffix(lower, "f")) {
		switch {
		case strings.HasSuffix(lower, "f"):
			return BuiltinFrom(FLOAT, 0)
		case strings.HasSuffix(lower, "l"):
			return BuiltinFrom(DOUBLE, LONG)
		}
		return DOUBLE_TYPE
	}
	suffix := strings.TrimLeft(lower, "0123456789abcdefx")
	if isHex {
		suffix = strings.TrimLeft(lower[2:], "0123456789abcdef")
	}
	var mods Modifier
	if strings.Contains(suffix, "u") {
		mods |= UNSIGNED
	}
	switch {
	case strings.Contains(suffix, "ll"):
		mods |= LONG_LONG
	case strings.Contains(suffix, "l"):
		mods |= LONG
	}
	return BuiltinFrom(INT, mods)
}
