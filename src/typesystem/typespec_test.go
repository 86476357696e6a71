package types

import (
	"errors"
	"testing"
)

func TestParseTypeSpec(t *testing.T) {
	typedefs := map[string]Ctype{"size_t": BuiltinFrom(INT, UNSIGNED|LONG)}
	tests := []struct {
		in   string
		want string
	}{
		{"int", "int"},
		{"const char *", "const char *"},
		{"char * const", "char *const"},
		{"unsigned", "unsigned int"},
		{"long unsigned long", "unsigned long long int"},
		{"long double", "long double"},
		{"void **", "void * *"},
		{"struct stat *", "struct stat *"},
		{"union u", "union u"},
		{"enum color", "enum color"},
		{"size_t", "size_t"},
		{"char [2][3]", "char [2][3]"},
		{"int []", "int []"},
		{"double _Complex", "double _Complex"},
	}
	for _, tt := range tests {
		got, err := ParseTypeSpec(tt.in, typedefs)
		if err != nil {
			t.Errorf("%q: %s", tt.in, err)
			continue
		}
		if got.HumanReadableName() != tt.want {
			t.Errorf("%q parsed as %q, want %q", tt.in, got.HumanReadableName(), tt.want)
		}
	}
}

func TestParseTypeSpecNesting(t *testing.T) {
	ct, err := ParseTypeSpec("int [2][3]", nil)
	if err != nil {
		t.Fatal(err)
	}
	outer := ct.(ArrayCtype)
	inner, ok := outer.Element.(ArrayCtype)
	if outer.Size != 2 || !ok || inner.Size != 3 {
		t.Errorf("unexpected nesting %+v", ct)
	}
	if size := LP64.SizeOf(ct); size != 24 {
		t.Errorf("sizeof = %d", size)
	}
}

func TestParseTypeSpecErrors(t *testing.T) {
	for _, in := range []string{"", "foo", "struct", "long long long", "int [x]", "int [3", "struct s int", "const"} {
		if _, err := ParseTypeSpec(in, nil); !errors.Is(err, ErrBadTypeSpec) {
			t.Errorf("%q: expected ErrBadTypeSpec, got %v", in, err)
		}
	}
}
