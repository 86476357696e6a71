package semantics

import types "github.com/eclipse-cdt/cdt-sub043/src/typesystem"

type StatementContext struct {
	CanUseBreak        bool
	CanUseContinue     bool
	ExpectsCase        bool
	CaseExpressionType types.Ctype
	RequiredReturnType types.Ctype
}

func (sc StatementContext) WithAllowedBreak() StatementContext {
	sc.CanUseBreak = true
	return sc
}

func (sc StatementContext) WithAllowedContinue() StatementContext {
	sc.CanUseContinue = true
	return sc
}

func (sc StatementContext) WithExpectedCase(caseExprType types.Ctype) StatementContext {
	sc.ExpectsCase = true
	sc.CaseExpressionType = caseExprType
	return sc
}

func (sc StatementContext) WithDisallowedCase() StatementContext {
	sc.ExpectsCase = false
	sc.CaseExpressionType = nil
	return sc
}

func (sc StatementContext) And() StatementContext {
	return sc
}
