package types

import (
	"fmt"
	"strings"
)

type Ctype interface {
	// Name is the declared name of typedefs, tags and enums, ANONYMOUS otherwise.
	Name() string
	HumanReadableName() string
}

const ANONYMOUS = ""

type BuiltinCtype struct {
	Builtin   Builtin
	Modifiers Modifier
}

// BuiltinFrom builds a canonical builtin: "signed int" is "int", "long" is "long int".
func BuiltinFrom(b Builtin, mods Modifier) BuiltinCtype {
	if b == UNSPECIFIED {
		b = INT
	}
	if b == INT && mods&SIGNED != 0 {
		mods &^= SIGNED
	}
	if mods&LONG_LONG != 0 {
		mods &^= LONG
	}
	return BuiltinCtype{Builtin: b, Modifiers: mods}
}

func (bc BuiltinCtype) Name() string { return ANONYMOUS }

func (bc BuiltinCtype) Has(m Modifier) bool { return bc.Modifiers&m == m }

func (bc BuiltinCtype) HumanReadableName() string {
	parts := []string{}
	for _, m := range []struct {
		mod  Modifier
		name string
	}{{SIGNED, "signed"}, {UNSIGNED, "unsigned"}, {SHORT, "short"}, {LONG, "long"}, {LONG_LONG, "long long"}} {
		if bc.Has(m.mod) {
			parts = append(parts, m.name)
		}
	}
	parts = append(parts, builtinNames[bc.Builtin])
	if bc.Has(COMPLEX) {
		parts = append(parts, "_Complex")
	}
	if bc.Has(IMAGINARY) {
		parts = append(parts, "_Imaginary")
	}
	return strings.Join(parts, " ")
}

type Qualifiers struct {
	Const    bool
	Volatile bool
	Restrict bool
}

func (q Qualifiers) union(other Qualifiers) Qualifiers {
	return Qualifiers{
		Const:    q.Const || other.Const,
		Volatile: q.Volatile || other.Volatile,
		Restrict: q.Restrict || other.Restrict,
	}
}

func (q Qualifiers) Empty() bool { return !q.Const && !q.Volatile && !q.Restrict }

func (q Qualifiers) String() string {
	parts := []string{}
	if q.Const {
		parts = append(parts, "const")
	}
	if q.Volatile {
		parts = append(parts, "volatile")
	}
	if q.Restrict {
		parts = append(parts, "restrict")
	}
	return strings.Join(parts, " ")
}

// QualifierCtype is a cv-qualified non-pointer type, such as "const int".
type QualifierCtype struct {
	Target Ctype
	Qualifiers
}

func (qc QualifierCtype) Name() string { return qc.Target.Name() }

func (qc QualifierCtype) HumanReadableName() string {
	return qc.Qualifiers.String() + " " + qc.Target.HumanReadableName()
}

type PointerCtype struct {
	Target Ctype
	Qualifiers
}

func PointerTo(target Ctype) PointerCtype { return PointerCtype{Target: target} }

func (pc PointerCtype) Name() string { return ANONYMOUS }

func (pc PointerCtype) IsConst() bool    { return pc.Const }
func (pc PointerCtype) IsVolatile() bool { return pc.Volatile }
func (pc PointerCtype) IsRestrict() bool { return pc.Restrict }

func (pc PointerCtype) HumanReadableName() string {
	res := pc.Target.HumanReadableName() + " *"
	if !pc.Qualifiers.Empty() {
		res += pc.Qualifiers.String()
	}
	return res
}

// QualifiedPointerCtype is the pointer an array decays to. Its qualifiers come
// from the array modifier, as in "void f(int a[const])".
type QualifiedPointerCtype struct {
	PointerCtype
	Origin ArrayCtype
}

func (qp QualifiedPointerCtype) AsPointer() PointerCtype { return qp.PointerCtype }

type ArrayCtype struct {
	Element        Ctype
	Size           int
	Qualifiers     // from the array modifier
	Static         bool
	VariableLength bool
}

func ArrayOf(elem Ctype, size int) ArrayCtype {
	return ArrayCtype{Element: elem, Size: size}
}

func (ac ArrayCtype) Name() string { return ANONYMOUS }

func (ac ArrayCtype) HumanReadableName() string {
	dims := ""
	var elem Ctype = ac
	for {
		arr, ok := elem.(ArrayCtype)
		if !ok {
			break
		}
		inner := ""
		if !arr.Qualifiers.Empty() {
			inner = arr.Qualifiers.String()
		}
		switch {
		case arr.VariableLength:
			inner = strings.TrimSpace(inner + " *")
		case arr.Size != UNSPECIFIED_ARR_SIZE:
			inner = strings.TrimSpace(fmt.Sprintf("%s %d", inner, arr.Size))
		}
		dims += "[" + inner + "]"
		elem = arr.Element
	}
	return elem.HumanReadableName() + " " + dims
}

type FunctionCtype struct {
	ReturnType  Ctype
	ParamTypes  []Ctype
	ParamNames  []string
	Varargs     bool
	NoPrototype bool // int f();
}

func (fc FunctionCtype) Name() string { return ANONYMOUS }

func (fc FunctionCtype) HumanReadableName() string {
	params := make([]string, 0, len(fc.ParamTypes)+1)
	for _, p := range fc.ParamTypes {
		params = append(params, p.HumanReadableName())
	}
	if fc.Varargs {
		params = append(params, "...")
	}
	if len(params) == 0 && !fc.NoPrototype {
		params = append(params, "void")
	}
	return fmt.Sprintf("%s (%s)", fc.ReturnType.HumanReadableName(), strings.Join(params, ", "))
}

type CompositeKey uint8

const (
	STRUCT CompositeKey = iota
	UNION
)

func (k CompositeKey) String() string {
	if k == UNION {
		return "union"
	}
	return "struct"
}

type CompositeCtype struct {
	Key        CompositeKey
	name       string
	FieldTypes []Ctype
	FieldNames []string
}

func NewComposite(key CompositeKey, name string, fieldTypes []Ctype, fieldNames []string) CompositeCtype {
	if len(fieldTypes) != len(fieldNames) {
		panic("composite field types and names differ in length")
	}
	return CompositeCtype{
		Key:        key,
		name:       name,
		FieldTypes: fieldTypes,
		FieldNames: fieldNames,
	}
}

func (cc CompositeCtype) Name() string { return cc.name }

func (cc CompositeCtype) HumanReadableName() string {
	if cc.name == ANONYMOUS {
		return cc.Key.String() + " <anonymous>"
	}
	return cc.Key.String() + " " + cc.name
}

func (cc CompositeCtype) MaybeField(name string) (Ctype, bool) {
	for idx, fname := range cc.FieldNames {
		if fname == name {
			return cc.FieldTypes[idx], true
		}
	}
	return nil, false
}

type EnumCtype struct {
	name        string
	Enumerators []string
}

func NewEnum(name string, enumerators ...string) EnumCtype {
	return EnumCtype{name: name, Enumerators: enumerators}
}

func (ec EnumCtype) Name() string { return ec.name }

func (ec EnumCtype) HumanReadableName() string {
	if ec.name == ANONYMOUS {
		return "enum <anonymous>"
	}
	return "enum " + ec.name
}

// TypedefCtype is transparent for every comparison and conversion.
type TypedefCtype struct {
	name   string
	Target Ctype
}

func NewTypedef(name string, target Ctype) TypedefCtype {
	return TypedefCtype{name: name, Target: target}
}

func (tc TypedefCtype) Name() string              { return tc.name }
func (tc TypedefCtype) HumanReadableName() string { return tc.name }

// ProblemCtype stands for a type that could not be computed.
type ProblemCtype struct {
	Reason string
}

func (pc ProblemCtype) Name() string              { return ANONYMOUS }
func (pc ProblemCtype) HumanReadableName() string { return "<problem: " + pc.Reason + ">" }

var (
	VOID_TYPE       = BuiltinFrom(VOID, 0)
	CHAR_TYPE       = BuiltinFrom(CHAR, 0)
	INT_TYPE        = BuiltinFrom(INT, 0)
	UNSIGNED_TYPE   = BuiltinFrom(INT, UNSIGNED)
	LONG_TYPE       = BuiltinFrom(INT, LONG)
	DOUBLE_TYPE     = BuiltinFrom(DOUBLE, 0)
	VOID_POINTER    = PointerTo(VOID_TYPE)
	COMPARISON_TYPE = INT_TYPE
)
