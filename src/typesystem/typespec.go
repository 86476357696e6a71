package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var ErrBadTypeSpec = errors.New("malformed type name")

func tokenizeTypeSpec(spec string) []string {
	res := []string{}
	cur := strings.Builder{}
	flush := func() {
		if cur.Len() > 0 {
			res = append(res, cur.String())
			cur.Reset()
		}
	}
	for _, r := range spec {
		switch {
		case unicode.IsSpace(r):
			flush()
		case r == '*' || r == '[' || r == ']':
			flush()
			res = append(res, string(r))
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return res
}

// ParseTypeSpec parses a declarator-free C type name such as
// "const unsigned long *", "struct stat *" or "char [16]".
// Identifiers that are not keywords are looked up in typedefs.
func ParseTypeSpec(spec string, typedefs map[string]Ctype) (Ctype, error) {
	tokens := tokenizeTypeSpec(spec)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrBadTypeSpec)
	}
	var (
		base     Builtin
		mods     Modifier
		quals    Qualifiers
		named    Ctype
		longs    int
		i        int
		sawBasic bool
	)
	for ; i < len(tokens); i++ {
		tok := tokens[i]
		if tok == "*" || tok == "[" {
			break
		}
		switch tok {
		case "const":
			quals.Const = true
		case "volatile":
			quals.Volatile = true
		case "restrict":
			quals.Restrict = true
		case "void":
			base = VOID
		case "_Bool":
			base = BOOL
		case "char":
			base = CHAR
		case "int":
			base = INT
		case "float":
			base = FLOAT
		case "double":
			base = DOUBLE
		case "signed":
			mods |= SIGNED
		case "unsigned":
			mods |= UNSIGNED
		case "short":
			mods |= SHORT
		case "long":
			longs++
		case "_Complex":
			mods |= COMPLEX
		case "_Imaginary":
			mods |= IMAGINARY
		case "struct", "union", "enum":
			if i+1 >= len(tokens) {
				return nil, fmt.Errorf("%w: %s without a name in %q", ErrBadTypeSpec, tok, spec)
			}
			i++
			switch tok {
			case "struct":
				named = NewComposite(STRUCT, tokens[i], nil, nil)
			case "union":
				named = NewComposite(UNION, tokens[i], nil, nil)
			default:
				named = NewEnum(tokens[i])
			}
			continue
		default:
			t, ok := typedefs[tok]
			if !ok {
				return nil, fmt.Errorf("%w: unknown type %q in %q", ErrBadTypeSpec, tok, spec)
			}
			named = NewTypedef(tok, t)
			continue
		}
		if tok != "const" && tok != "volatile" && tok != "restrict" {
			sawBasic = true
		}
	}
	switch longs {
	case 0:
	case 1:
		mods |= LONG
	case 2:
		mods |= LONG_LONG
	default:
		return nil, fmt.Errorf("%w: too many longs in %q", ErrBadTypeSpec, spec)
	}

	var res Ctype
	switch {
	case named != nil && sawBasic:
		return nil, fmt.Errorf("%w: %q mixes a named type with basic type keywords", ErrBadTypeSpec, spec)
	case named != nil:
		res = named
	case sawBasic:
		res = BuiltinFrom(base, mods)
	default:
		return nil, fmt.Errorf("%w: no type in %q", ErrBadTypeSpec, spec)
	}
	res = Qualify(res, quals)

	dims := []int{}
	for ; i < len(tokens); i++ {
		switch tokens[i] {
		case "*":
			if len(dims) > 0 {
				return nil, fmt.Errorf("%w: pointer after array in %q", ErrBadTypeSpec, spec)
			}
			ptr := PointerTo(res)
		qualifiers:
			for i+1 < len(tokens) {
				switch tokens[i+1] {
				case "const":
					ptr.Const = true
				case "volatile":
					ptr.Volatile = true
				case "restrict":
					ptr.Restrict = true
				default:
					break qualifiers
				}
				i++
			}
			res = ptr
		case "[":
			size := UNSPECIFIED_ARR_SIZE
			if i+1 < len(tokens) && tokens[i+1] != "]" {
				n, err := strconv.Atoi(tokens[i+1])
				if err != nil {
					return nil, fmt.Errorf("%w: array size %q in %q", ErrBadTypeSpec, tokens[i+1], spec)
				}
				size = n
				i++
			}
			if i+1 >= len(tokens) || tokens[i+1] != "]" {
				return nil, fmt.Errorf("%w: unterminated array in %q", ErrBadTypeSpec, spec)
			}
			i++
			dims = append(dims, size)
		default:
			return nil, fmt.Errorf("%w: unexpected %q in %q", ErrBadTypeSpec, tokens[i], spec)
		}
	}
	// int [2][3] is an array of 2 arrays of 3 ints
	for d := len(dims) - 1; d >= 0; d-- {
		res = ArrayOf(res, dims[d])
	}
	return res, nil
}
