package ast

// Role identifies the slot a child occupies in its parent.
type Role uint8

const (
	RoleNone Role = iota

	RoleDeclaration
	RoleDeclSpecifier
	RoleDeclarator
	RoleFunctionBody
	RoleAlignmentSpecifier

	RolePointerOperator
	RoleArrayModifier
	RoleNestedDeclarator
	RoleInitializer
	RoleParameter
	RoleBitFieldSize
	RoleArraySize

	RoleMember
	RoleEnumerator
	RoleEnumeratorValue
	RoleTypeID
	RoleAlignmentExpression
	RoleAlignmentTypeID

	RoleInitializerClause
	RoleDesignator
	RoleSubscript // subscript expression of an array designator
	RoleRangeFloor
	RoleRangeCeiling

	RoleStatement
	RoleExpression
	RoleReturnValue
	RoleCondition
	RoleThen
	RoleElse
	RoleBody
	RoleForInit
	RoleForIteration
	RoleCaseValue
	RoleNestedStatement

	RoleOperand1
	RoleOperand2
	RoleOperand
	RoleCastOperand
	RoleFunctionName
	RoleArgument
	RoleArray
	RoleSubscriptExpression
	RoleFieldOwner
	RoleLogicalCondition
	RolePositiveResult
	RoleNegativeResult
	RoleNestedExpression

	RoleCandidate

	roleCount
)

var roleNames = [...]string{
	RoleNone:                "none",
	RoleDeclaration:         "declaration",
	RoleDeclSpecifier:       "decl-specifier",
	RoleDeclarator:          "declarator",
	RoleFunctionBody:        "function-body",
	RoleAlignmentSpecifier:  "alignment-specifier",
	RolePointerOperator:     "pointer-operator",
	RoleArrayModifier:       "array-modifier",
	RoleNestedDeclarator:    "nested-declarator",
	RoleInitializer:         "initializer",
	RoleParameter:           "parameter",
	RoleBitFieldSize:        "bit-field-size",
	RoleArraySize:           "array-size",
	RoleMember:              "member",
	RoleEnumerator:          "enumerator",
	RoleEnumeratorValue:     "enumerator-value",
	RoleTypeID:              "type-id",
	RoleAlignmentExpression: "alignment-expression",
	RoleAlignmentTypeID:     "alignment-type-id",
	RoleInitializerClause:   "initializer-clause",
	RoleDesignator:          "designator",
	RoleSubscript:           "designator-subscript",
	RoleRangeFloor:          "range-floor",
	RoleRangeCeiling:        "range-ceiling",
	RoleStatement:           "statement",
	RoleExpression:          "expression",
	RoleReturnValue:         "return-value",
	RoleCondition:           "condition",
	RoleThen:                "then",
	RoleElse:                "else",
	RoleBody:                "body",
	RoleForInit:             "for-init",
	RoleForIteration:        "for-iteration",
	RoleCaseValue:           "case-value",
	RoleNestedStatement:     "nested-statement",
	RoleOperand1:            "operand1",
	RoleOperand2:            "operand2",
	RoleOperand:             "operand",
	RoleCastOperand:         "cast-operand",
	RoleFunctionName:        "function-name",
	RoleArgument:            "argument",
	RoleArray:               "array",
	RoleSubscriptExpression: "subscript",
	RoleFieldOwner:          "field-owner",
	RoleLogicalCondition:    "logical-condition",
	RolePositiveResult:      "positive-result",
	RoleNegativeResult:      "negative-result",
	RoleNestedExpression:    "nested-expression",
	RoleCandidate:           "candidate",
}

var _ = [1]struct{}{}[len(roleNames)-int(roleCount)]

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return "invalid-role"
}
