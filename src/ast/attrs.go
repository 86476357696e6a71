package ast

import "strings"

// Qualifiers is a set of cv-qualifiers.
type Qualifiers uint8

const (
	QualConst Qualifiers = 1 << iota
	QualVolatile
	QualRestrict
	QualAtomic
)

func (q Qualifiers) Has(other Qualifiers) bool { return q&other == other }

func (q Qualifiers) String() string {
	parts := []string{}
	if q.Has(QualConst) {
		parts = append(parts, "const")
	}
	if q.Has(QualVolatile) {
		parts = append(parts, "volatile")
	}
	if q.Has(QualRestrict) {
		parts = append(parts, "restrict")
	}
	if q.Has(QualAtomic) {
		parts = append(parts, "_Atomic")
	}
	return strings.Join(parts, " ")
}

type StorageClass uint8

const (
	StorageNone StorageClass = iota
	StorageTypedef
	StorageExtern
	StorageStatic
	StorageAuto
	StorageRegister
)

var storageNames = [...]string{"", "typedef", "extern", "static", "auto", "register"}

func (s StorageClass) String() string { return storageNames[s] }

// BasicType is the keyword part of a simple decl specifier.
type BasicType uint8

const (
	BasicUnspecified BasicType = iota
	BasicVoid
	BasicChar
	BasicInt
	BasicFloat
	BasicDouble
	BasicBool
)

var basicNames = [...]string{"", "void", "char", "int", "float", "double", "_Bool"}

func (b BasicType) String() string { return basicNames[b] }

type SpecModifiers uint8

const (
	ModSigned SpecModifiers = 1 << iota
	ModUnsigned
	ModShort
	ModLong
	ModLongLong
	ModComplex
	ModImaginary
)

// DeclSpec is the payload of a SimpleDeclSpecifier.
type DeclSpec struct {
	Type      BasicType
	Modifiers SpecModifiers
}

func (d DeclSpec) Has(m SpecModifiers) bool { return d.Modifiers&m == m }

func (d DeclSpec) String() string {
	parts := []string{}
	for _, m := range []struct {
		bit  SpecModifiers
		name string
	}{
		{ModSigned, "signed"}, {ModUnsigned, "unsigned"}, {ModShort, "short"},
		{ModLong, "long"}, {ModLongLong, "long long"},
		{ModComplex, "_Complex"}, {ModImaginary, "_Imaginary"},
	} {
		if d.Has(m.bit) {
			parts = append(parts, m.name)
		}
	}
	if d.Type != BasicUnspecified {
		parts = append(parts, d.Type.String())
	}
	return strings.Join(parts, " ")
}

type LiteralKind uint8

const (
	LiteralInteger LiteralKind = iota
	LiteralFloat
	LiteralChar
	LiteralString
)

var literalNames = [...]string{"int", "float", "char", "string"}

func (l LiteralKind) String() string { return literalNames[l] }

// TagKey distinguishes struct, union and enum specifiers.
type TagKey uint8

const (
	KeyStruct TagKey = iota
	KeyUnion
	KeyEnum
)

var keyNames = [...]string{"struct", "union", "enum"}

func (k TagKey) String() string { return keyNames[k] }

type Flags uint8

const (
	FlagPointerDeref Flags = 1 << iota // a->b
	FlagVarargs
	FlagStatic // array modifier with static
	FlagVariableLength
	FlagInline
)

// Attrs holds the payload of a node. Which fields are meaningful depends on the kind.
type Attrs struct {
	Text    string
	Op      string
	Spec    DeclSpec
	Qual    Qualifiers
	Storage StorageClass
	Literal LiteralKind
	Key     TagKey
	Flags   Flags
}
