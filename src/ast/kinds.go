package ast

// Kind is the closed set of node kinds.
type Kind uint8

const (
	KindInvalid Kind = iota

	KindTranslationUnit

	KindSimpleDeclaration
	KindFunctionDefinition
	KindProblemDeclaration

	KindSimpleDeclSpecifier
	KindNamedTypeSpecifier
	KindCompositeTypeSpecifier
	KindElaboratedTypeSpecifier
	KindEnumerationSpecifier
	KindEnumerator

	KindDeclarator
	KindArrayDeclarator
	KindFunctionDeclarator
	KindFieldDeclarator

	KindPointer
	KindArrayModifier
	KindParameterDeclaration
	KindTypeID
	KindAlignmentSpecifier

	KindEqualsInitializer
	KindInitializerList
	KindDesignatedInitializer

	KindFieldDesignator
	KindArrayDesignator
	KindArrayRangeDesignator

	KindCompoundStatement
	KindDeclarationStatement
	KindExpressionStatement
	KindReturnStatement
	KindIfStatement
	KindWhileStatement
	KindDoStatement
	KindForStatement
	KindSwitchStatement
	KindCaseStatement
	KindDefaultStatement
	KindLabelStatement
	KindGotoStatement
	KindBreakStatement
	KindContinueStatement
	KindNullStatement
	KindProblemStatement

	KindIdExpression
	KindLiteralExpression
	KindBinaryExpression
	KindUnaryExpression
	KindCastExpression
	KindFunctionCallExpression
	KindArraySubscriptExpression
	KindFieldReference
	KindConditionalExpression
	KindExpressionList
	KindTypeIdExpression
	KindProblemExpression

	KindAmbiguousBinaryVsCast
	KindAmbiguousCastVsCall
	KindAmbiguousExpression
	KindAmbiguousAlignmentSpecifier
	KindAmbiguousStatement

	kindCount
)

// Category is a bitset used by visitors to select the nodes they want.
type Category uint32

const (
	CategoryTranslationUnit Category = 1 << iota
	CategoryDeclaration
	CategoryDeclSpecifier
	CategoryDeclarator
	CategoryStatement
	CategoryExpression
	CategoryInitializer
	CategoryDesignator
	CategoryPointerOperator
	CategoryArrayModifier
	CategoryParameter
	CategoryTypeID
	CategoryEnumerator
	CategoryAlignment
	CategoryAmbiguous
	CategoryProblem

	// CategoryAll does not include CategoryAmbiguous, visiting those must be explicit.
	CategoryAll = CategoryAmbiguous - 1 | CategoryProblem
)

type slot struct {
	role Role
	list bool
}

type kindInfo struct {
	name     string
	category Category
	slots    []slot
}

func one(r Role) slot  { return slot{role: r} }
func many(r Role) slot { return slot{role: r, list: true} }

var (
	specSlots       = []slot{many(RoleAlignmentSpecifier)}
	candidateSlots  = []slot{many(RoleCandidate)}
	declaratorSlots = []slot{many(RolePointerOperator), one(RoleNestedDeclarator), one(RoleInitializer)}
)

var kindInfos = [...]kindInfo{
	KindInvalid:         {"Invalid", 0, nil},
	KindTranslationUnit: {"TranslationUnit", CategoryTranslationUnit, []slot{many(RoleDeclaration)}},

	KindSimpleDeclaration:  {"SimpleDeclaration", CategoryDeclaration, []slot{one(RoleDeclSpecifier), many(RoleDeclarator)}},
	KindFunctionDefinition: {"FunctionDefinition", CategoryDeclaration, []slot{one(RoleDeclSpecifier), one(RoleDeclarator), one(RoleFunctionBody)}},
	KindProblemDeclaration: {"ProblemDeclaration", CategoryDeclaration | CategoryProblem, nil},

	KindSimpleDeclSpecifier:     {"SimpleDeclSpecifier", CategoryDeclSpecifier, specSlots},
	KindNamedTypeSpecifier:      {"NamedTypeSpecifier", CategoryDeclSpecifier, specSlots},
	KindCompositeTypeSpecifier:  {"CompositeTypeSpecifier", CategoryDeclSpecifier, []slot{many(RoleAlignmentSpecifier), many(RoleMember)}},
	KindElaboratedTypeSpecifier: {"ElaboratedTypeSpecifier", CategoryDeclSpecifier, specSlots},
	KindEnumerationSpecifier:    {"EnumerationSpecifier", CategoryDeclSpecifier, []slot{many(RoleAlignmentSpecifier), many(RoleEnumerator)}},
	KindEnumerator:              {"Enumerator", CategoryEnumerator, []slot{one(RoleEnumeratorValue)}},

	KindDeclarator:         {"Declarator", CategoryDeclarator, declaratorSlots},
	KindArrayDeclarator:    {"ArrayDeclarator", CategoryDeclarator, []slot{many(RolePointerOperator), many(RoleArrayModifier), one(RoleNestedDeclarator), one(RoleInitializer)}},
	KindFunctionDeclarator: {"FunctionDeclarator", CategoryDeclarator, []slot{many(RolePointerOperator), one(RoleNestedDeclarator), many(RoleParameter), one(RoleInitializer)}},
	KindFieldDeclarator:    {"FieldDeclarator", CategoryDeclarator, []slot{many(RolePointerOperator), one(RoleNestedDeclarator), one(RoleBitFieldSize), one(RoleInitializer)}},

	KindPointer:              {"Pointer", CategoryPointerOperator, nil},
	KindArrayModifier:        {"ArrayModifier", CategoryArrayModifier, []slot{one(RoleArraySize)}},
	KindParameterDeclaration: {"ParameterDeclaration", CategoryParameter, []slot{one(RoleDeclSpecifier), one(RoleDeclarator)}},
	KindTypeID:               {"TypeID", CategoryTypeID, []slot{one(RoleDeclSpecifier), one(RoleDeclarator)}},
	KindAlignmentSpecifier:   {"AlignmentSpecifier", CategoryAlignment, []slot{one(RoleAlignmentExpression), one(RoleAlignmentTypeID)}},

	KindEqualsInitializer:     {"EqualsInitializer", CategoryInitializer, []slot{one(RoleInitializerClause)}},
	KindInitializerList:       {"InitializerList", CategoryInitializer, []slot{many(RoleInitializerClause)}},
	KindDesignatedInitializer: {"DesignatedInitializer", CategoryInitializer, []slot{many(RoleDesignator), one(RoleInitializerClause)}},

	KindFieldDesignator:      {"FieldDesignator", CategoryDesignator, nil},
	KindArrayDesignator:      {"ArrayDesignator", CategoryDesignator, []slot{one(RoleSubscript)}},
	KindArrayRangeDesignator: {"ArrayRangeDesignator", CategoryDesignator, []slot{one(RoleRangeFloor), one(RoleRangeCeiling)}},

	KindCompoundStatement:    {"CompoundStatement", CategoryStatement, []slot{many(RoleStatement)}},
	KindDeclarationStatement: {"DeclarationStatement", CategoryStatement, []slot{one(RoleDeclaration)}},
	KindExpressionStatement:  {"ExpressionStatement", CategoryStatement, []slot{one(RoleExpression)}},
	KindReturnStatement:      {"ReturnStatement", CategoryStatement, []slot{one(RoleReturnValue)}},
	KindIfStatement:          {"IfStatement", CategoryStatement, []slot{one(RoleCondition), one(RoleThen), one(RoleElse)}},
	KindWhileStatement:       {"WhileStatement", CategoryStatement, []slot{one(RoleCondition), one(RoleBody)}},
	KindDoStatement:          {"DoStatement", CategoryStatement, []slot{one(RoleBody), one(RoleCondition)}},
	KindForStatement:         {"ForStatement", CategoryStatement, []slot{one(RoleForInit), one(RoleCondition), one(RoleForIteration), one(RoleBody)}},
	KindSwitchStatement:      {"SwitchStatement", CategoryStatement, []slot{one(RoleCondition), one(RoleBody)}},
	KindCaseStatement:        {"CaseStatement", CategoryStatement, []slot{one(RoleCaseValue)}},
	KindDefaultStatement:     {"DefaultStatement", CategoryStatement, nil},
	KindLabelStatement:       {"LabelStatement", CategoryStatement, []slot{one(RoleNestedStatement)}},
	KindGotoStatement:        {"GotoStatement", CategoryStatement, nil},
	KindBreakStatement:       {"BreakStatement", CategoryStatement, nil},
	KindContinueStatement:    {"ContinueStatement", CategoryStatement, nil},
	KindNullStatement:        {"NullStatement", CategoryStatement, nil},
	KindProblemStatement:     {"ProblemStatement", CategoryStatement | CategoryProblem, nil},

	KindIdExpression:             {"IdExpression", CategoryExpression, nil},
	KindLiteralExpression:        {"LiteralExpression", CategoryExpression, nil},
	KindBinaryExpression:         {"BinaryExpression", CategoryExpression, []slot{one(RoleOperand1), one(RoleOperand2)}},
	KindUnaryExpression:          {"UnaryExpression", CategoryExpression, []slot{one(RoleOperand)}},
	KindCastExpression:           {"CastExpression", CategoryExpression, []slot{one(RoleTypeID), one(RoleCastOperand)}},
	KindFunctionCallExpression:   {"FunctionCallExpression", CategoryExpression, []slot{one(RoleFunctionName), many(RoleArgument)}},
	KindArraySubscriptExpression: {"ArraySubscriptExpression", CategoryExpression, []slot{one(RoleArray), one(RoleSubscriptExpression)}},
	KindFieldReference:           {"FieldReference", CategoryExpression, []slot{one(RoleFieldOwner)}},
	KindConditionalExpression:    {"ConditionalExpression", CategoryExpression, []slot{one(RoleLogicalCondition), one(RolePositiveResult), one(RoleNegativeResult)}},
	KindExpressionList:           {"ExpressionList", CategoryExpression, []slot{many(RoleNestedExpression)}},
	KindTypeIdExpression:         {"TypeIdExpression", CategoryExpression, []slot{one(RoleTypeID)}},
	KindProblemExpression:        {"ProblemExpression", CategoryExpression | CategoryProblem, nil},

	KindAmbiguousBinaryVsCast:       {"AmbiguousBinaryVsCast", CategoryAmbiguous | CategoryExpression, candidateSlots},
	KindAmbiguousCastVsCall:         {"AmbiguousCastVsCall", CategoryAmbiguous | CategoryExpression, candidateSlots},
	KindAmbiguousExpression:         {"AmbiguousExpression", CategoryAmbiguous | CategoryExpression, candidateSlots},
	KindAmbiguousAlignmentSpecifier: {"AmbiguousAlignmentSpecifier", CategoryAmbiguous | CategoryAlignment, candidateSlots},
	KindAmbiguousStatement:          {"AmbiguousStatement", CategoryAmbiguous | CategoryStatement, candidateSlots},
}

// adding a kind without a table entry fails to compile
var _ = [1]struct{}{}[len(kindInfos)-int(kindCount)]

func (k Kind) info() *kindInfo {
	if k >= kindCount {
		panic("invalid node kind")
	}
	return &kindInfos[k]
}

func (k Kind) String() string {
	if k >= kindCount {
		return "InvalidKind"
	}
	return kindInfos[k].name
}

func (k Kind) Category() Category { return k.info().category }

func (k Kind) Is(c Category) bool { return k.info().category&c != 0 }

func (k Kind) IsAmbiguous() bool { return k.Is(CategoryAmbiguous) }

func (k Kind) IsProblem() bool { return k.Is(CategoryProblem) }

// IsDeclarator reports whether k is one of the declarator kinds.
func (k Kind) IsDeclarator() bool { return k.Is(CategoryDeclarator) }

// Slots lists the child roles of k in traversal order.
func (k Kind) Slots() []Role {
	info := k.info()
	res := make([]Role, len(info.slots))
	for i, s := range info.slots {
		res[i] = s.role
	}
	return res
}

// HasSlot reports whether a child of a k node may hold role r.
func (k Kind) HasSlot(r Role) bool {
	return k.slotIndex(r) >= 0
}

func (k Kind) slotIndex(r Role) int {
	for i, s := range k.info().slots {
		if s.role == r {
			return i
		}
	}
	return -1
}

func (k Kind) isListSlot(r Role) bool {
	i := k.slotIndex(r)
	return i >= 0 && k.info().slots[i].list
}
