package ast

// Unary operator spellings stored in Attrs.Op. Binary operators use their C
// spelling directly ("+", "<<=", "&&", ...).
const (
	OpPrefixIncr  = "++x"
	OpPrefixDecr  = "--x"
	OpPostfixIncr = "x++"
	OpPostfixDecr = "x--"
	OpPlus        = "+"
	OpMinus       = "-"
	OpNot         = "!"
	OpTilde       = "~"
	OpStar        = "*"
	OpAmper       = "&"
	OpSizeof      = "sizeof"
	OpAlignof     = "_Alignof"
	OpBracketed   = "()"
)

var assignmentOps = map[string]bool{
	"=": true, "*=": true, "/=": true, "%=": true, "+=": true, "-=": true,
	"<<=": true, ">>=": true, "&=": true, "^=": true, "|=": true,
}

var relationalOps = map[string]bool{
	"<": true, ">": true, "<=": true, ">=": true, "==": true, "!=": true,
}

func IsAssignmentOp(op string) bool { return assignmentOps[op] }

func IsRelationalOp(op string) bool { return relationalOps[op] }

func IsLogicalOp(op string) bool { return op == "&&" || op == "||" }

func IsShiftOp(op string) bool { return op == "<<" || op == ">>" || op == "<<=" || op == ">>=" }

// ArithmeticOf strips the assignment from a compound assignment operator, "+=" -> "+".
func ArithmeticOf(op string) string {
	if op != "=" && assignmentOps[op] {
		return op[:len(op)-1]
	}
	return op
}
