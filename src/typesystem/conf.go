package types

type Builtin uint8

const (
	UNSPECIFIED Builtin = iota
	VOID
	BOOL
	CHAR
	INT
	FLOAT
	DOUBLE
)

var builtinNames = [...]string{"", "void", "_Bool", "char", "int", "float", "double"}

type Modifier uint8

const (
	SIGNED Modifier = 1 << iota
	UNSIGNED
	SHORT
	LONG
	LONG_LONG
	COMPLEX
	IMAGINARY
)

const UNSPECIFIED_ARR_SIZE = -1

// Platform describes the data model of the compilation target, sizes in bytes.
type Platform struct {
	Name           string `yaml:"name" toml:"name"`
	CharSize       int    `yaml:"char" toml:"char"`
	ShortSize      int    `yaml:"short" toml:"short"`
	IntSize        int    `yaml:"int" toml:"int"`
	LongSize       int    `yaml:"long" toml:"long"`
	LongLongSize   int    `yaml:"long_long" toml:"long_long"`
	FloatSize      int    `yaml:"float" toml:"float"`
	DoubleSize     int    `yaml:"double" toml:"double"`
	LongDoubleSize int    `yaml:"long_double" toml:"long_double"`
	PointerSize    int    `yaml:"pointer" toml:"pointer"`
	CharIsSigned   bool   `yaml:"char_is_signed" toml:"char_is_signed"`
}

var LP64 = Platform{
	Name:           "lp64",
	CharSize:       1,
	ShortSize:      2,
	IntSize:        4,
	LongSize:       8,
	LongLongSize:   8,
	FloatSize:      4,
	DoubleSize:     8,
	LongDoubleSize: 16,
	PointerSize:    8,
	CharIsSigned:   true,
}

var ILP32 = Platform{
	Name:           "ilp32",
	CharSize:       1,
	ShortSize:      2,
	IntSize:        4,
	LongSize:       4,
	LongLongSize:   8,
	FloatSize:      4,
	DoubleSize:     8,
	LongDoubleSize: 12,
	PointerSize:    4,
	CharIsSigned:   true,
}

var LLP64 = Platform{
	Name:           "llp64",
	CharSize:       1,
	ShortSize:      2,
	IntSize:        4,
	LongSize:       4,
	LongLongSize:   8,
	FloatSize:      4,
	DoubleSize:     8,
	LongDoubleSize: 8,
	PointerSize:    8,
	CharIsSigned:   true,
}

var platforms = map[string]Platform{
	LP64.Name:  LP64,
	ILP32.Name: ILP32,
	LLP64.Name: LLP64,
}

// PlatformByName returns one of the predefined data models.
func PlatformByName(name string) (Platform, bool) {
	p, ok := platforms[name]
	return p, ok
}

func PlatformNames() []string {
	return []string{LP64.Name, ILP32.Name, LLP64.Name}
}

// SizeOf returns the size of t in bytes, -1 when t is incomplete.
func (p *Platform) SizeOf(t Ctype) int {
	switch ct := Unqualified(t).(type) {
	case BuiltinCtype:
		return p.builtinSize(ct)
	case PointerCtype, QualifiedPointerCtype:
		return p.PointerSize
	case EnumCtype:
		return p.IntSize
	case ArrayCtype:
		if ct.Size == UNSPECIFIED_ARR_SIZE || ct.VariableLength {
			return -1
		}
		elem := p.SizeOf(ct.Element)
		if elem < 0 {
			return -1
		}
		return elem * ct.Size
	case CompositeCtype:
		size, _ := p.Layout(ct)
		return size
	}
	return -1
}

func (p *Platform) AlignOf(t Ctype) int {
	switch ct := Unqualified(t).(type) {
	case ArrayCtype:
		return p.AlignOf(ct.Element)
	case CompositeCtype:
		res := 1
		for _, f := range ct.FieldTypes {
			if a := p.AlignOf(f); a > res {
				res = a
			}
		}
		return res
	case BuiltinCtype:
		if ct.Modifiers&COMPLEX != 0 {
			return p.builtinSize(ct) / 2
		}
	}
	if s := p.SizeOf(t); s > 0 {
		return s
	}
	return 1
}

// Layout computes field offsets of a struct (all zero for unions) and its padded size.
func (p *Platform) Layout(c CompositeCtype) (size int, offsets []int) {
	offsets = make([]int, len(c.FieldTypes))
	maxAlign := 1
	for i, f := range c.FieldTypes {
		fsize := p.SizeOf(f)
		if fsize < 0 {
			return -1, nil
		}
		align := p.AlignOf(f)
		if align > maxAlign {
			maxAlign = align
		}
		if c.Key == UNION {
			if fsize > size {
				size = fsize
			}
			continue
		}
		if rem := size % align; rem != 0 {
			size += align - rem
		}
		offsets[i] = size
		size += fsize
	}
	if rem := size % maxAlign; rem != 0 {
		size += maxAlign - rem
	}
	return size, offsets
}

func (p *Platform) builtinSize(bt BuiltinCtype) int {
	var size int
	switch bt.Builtin {
	case VOID:
		return 1 // gcc extension, sizeof(void) == 1
	case BOOL, CHAR:
		size = p.CharSize
	case FLOAT:
		size = p.FloatSize
	case DOUBLE:
		size = p.DoubleSize
		if bt.Modifiers&LONG != 0 {
			size = p.LongDoubleSize
		}
	default:
		switch {
		case bt.Modifiers&SHORT != 0:
			size = p.ShortSize
		case bt.Modifiers&LONG_LONG != 0:
			size = p.LongLongSize
		case bt.Modifiers&LONG != 0:
			size = p.LongSize
		default:
			size = p.IntSize
		}
	}
	if bt.Modifiers&COMPLEX != 0 {
		size *= 2
	}
	return size
}

// SizeType is the type of sizeof expressions.
func (p *Platform) SizeType() BuiltinCtype {
	if p.LongSize == p.PointerSize {
		return BuiltinFrom(INT, UNSIGNED|LONG)
	}
	return BuiltinFrom(INT, UNSIGNED|LONG_LONG)
}

// PtrDiffType is the type of the difference of two pointers.
func (p *Platform) PtrDiffType() BuiltinCtype {
	if p.LongSize == p.PointerSize {
		return BuiltinFrom(INT, LONG)
	}
	return BuiltinFrom(INT, LONG_LONG)
}
