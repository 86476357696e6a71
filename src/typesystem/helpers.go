package types

// Unwrap strips typedefs.
func Unwrap(t Ctype) Ctype {
	for {
		td, ok := t.(TypedefCtype)
		if !ok {
			return t
		}
		t = td.Target
	}
}

// Unqualified strips typedefs and cv-qualifiers of non-pointer types.
func Unqualified(t Ctype) Ctype {
	for {
		switch ct := t.(type) {
		case TypedefCtype:
			t = ct.Target
		case QualifierCtype:
			t = ct.Target
		default:
			return t
		}
	}
}

// QualifiersOf returns the top level qualifiers of t.
func QualifiersOf(t Ctype) Qualifiers {
	res := Qualifiers{}
	for {
		switch ct := t.(type) {
		case TypedefCtype:
			t = ct.Target
		case QualifierCtype:
			res = res.union(ct.Qualifiers)
			t = ct.Target
		case PointerCtype:
			return res.union(ct.Qualifiers)
		case QualifiedPointerCtype:
			return res.union(ct.Qualifiers)
		default:
			return res
		}
	}
}

// Qualify adds top level qualifiers to t.
func Qualify(t Ctype, q Qualifiers) Ctype {
	if q.Empty() {
		return t
	}
	switch ct := t.(type) {
	case PointerCtype:
		ct.Qualifiers = ct.Qualifiers.union(q)
		return ct
	case QualifiedPointerCtype:
		ct.Qualifiers = ct.Qualifiers.union(q)
		return ct
	case QualifierCtype:
		ct.Qualifiers = ct.Qualifiers.union(q)
		return ct
	}
	return QualifierCtype{Target: t, Qualifiers: Qualifiers{Const: q.Const, Volatile: q.Volatile}}
}

// AsPointer views both plain and decayed pointers as a PointerCtype.
func AsPointer(t Ctype) (PointerCtype, bool) {
	switch ct := Unqualified(t).(type) {
	case PointerCtype:
		return ct, true
	case QualifiedPointerCtype:
		return ct.PointerCtype, true
	}
	return PointerCtype{}, false
}

func isBuiltinType(t Ctype) bool {
	_, ok := Unqualified(t).(BuiltinCtype)
	return ok
}

func isVoid(t Ctype) bool {
	bt, ok := Unqualified(t).(BuiltinCtype)
	return ok && bt.Builtin == VOID
}

func IsVoid(t Ctype) bool { return isVoid(t) }

func isPointer(t Ctype) bool {
	_, ok := AsPointer(t)
	return ok
}

func isArray(t Ctype) bool {
	_, ok := Unqualified(t).(ArrayCtype)
	return ok
}

func isFunction(t Ctype) bool {
	_, ok := Unqualified(t).(FunctionCtype)
	return ok
}

func isPointerLike(t Ctype) bool {
	return isPointer(t) || isArray(t) || isFunction(t)
}

// IsProblem reports whether t or anything it is built from is a ProblemCtype.
func IsProblem(t Ctype) bool {
	switch ct := t.(type) {
	case nil:
		return true
	case ProblemCtype:
		return true
	case TypedefCtype:
		return IsProblem(ct.Target)
	case QualifierCtype:
		return IsProblem(ct.Target)
	case PointerCtype:
		return IsProblem(ct.Target)
	case QualifiedPointerCtype:
		return IsProblem(ct.Target)
	case ArrayCtype:
		return IsProblem(ct.Element)
	case FunctionCtype:
		if IsProblem(ct.ReturnType) {
			return true
		}
		for _, p := range ct.ParamTypes {
			if IsProblem(p) {
				return true
			}
		}
	}
	return false
}

// DecayArray converts an array to a pointer to its element carrying the
// qualifiers of the array modifier.
func DecayArray(a ArrayCtype) QualifiedPointerCtype {
	return QualifiedPointerCtype{
		PointerCtype: PointerCtype{Target: a.Element, Qualifiers: a.Qualifiers},
		Origin:       a,
	}
}

// Decay applies array-to-pointer and function-to-pointer conversion.
func Decay(t Ctype) Ctype {
	switch ct := Unqualified(t).(type) {
	case ArrayCtype:
		return DecayArray(ct)
	case FunctionCtype:
		return PointerTo(ct)
	}
	return t
}
