package semantics

import "fmt"

// ProblemID classifies why a name or a construct could not be resolved.
type ProblemID uint8

const (
	ProblemNone ProblemID = iota
	NameNotFound
	LabelStatementNotFound
	InvalidType
	InvalidRedeclaration
	InvalidRedefinition
	UnresolvedAmbiguity
	TypeMismatch
	MisplacedStatement
	problemCount
)

var problemNames = [...]string{
	"",
	"name not found",
	"label statement not found",
	"invalid type",
	"invalid redeclaration",
	"invalid redefinition",
	"unresolved ambiguity",
	"type mismatch",
	"misplaced statement",
}

var _ = [1]struct{}{}[len(problemNames)-int(problemCount)]

func (id ProblemID) String() string {
	if int(id) < len(problemNames) {
		return problemNames[id]
	}
	return fmt.Sprintf("problem(%d)", uint8(id))
}

// Message renders id together with the offending name.
func (id ProblemID) Message(arg string) string {
	if arg == "" {
		return id.String()
	}
	return fmt.Sprintf("%s: %s", id, arg)
}
