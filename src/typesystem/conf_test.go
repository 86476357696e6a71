package types

import (
	"reflect"
	"testing"

	"github.com/sirkon/deepequal"
)

func TestLayout(t *testing.T) {
	s := NewComposite(STRUCT, "S", []Ctype{CHAR_TYPE, INT_TYPE, CHAR_TYPE}, []string{"a", "b", "c"})
	size, offsets := LP64.Layout(s)
	if size != 12 {
		t.Errorf("sizeof(struct S) = %d", size)
	}
	if want := []int{0, 4, 8}; !reflect.DeepEqual(want, offsets) {
		deepequal.SideBySide(t, "offsets", want, offsets)
	}

	u := NewComposite(UNION, "U", []Ctype{CHAR_TYPE, DOUBLE_TYPE}, []string{"c", "d"})
	if size := LP64.SizeOf(u); size != 8 {
		t.Errorf("sizeof(union U) = %d", size)
	}
	incomplete := NewComposite(STRUCT, "I", []Ctype{ArrayOf(INT_TYPE, UNSPECIFIED_ARR_SIZE)}, []string{"x"})
	if size := LP64.SizeOf(incomplete); size != -1 {
		t.Errorf("incomplete struct has size %d", size)
	}
}

func TestPlatformSizes(t *testing.T) {
	tests := []struct {
		platform Platform
		spec     string
		want     int
	}{
		{LP64, "long", 8},
		{ILP32, "long", 4},
		{LLP64, "long", 4},
		{LLP64, "char *", 8},
		{ILP32, "double _Complex", 16},
		{LP64, "enum e", 4},
		{LP64, "const short", 2},
	}
	for _, tt := range tests {
		ct, err := ParseTypeSpec(tt.spec, nil)
		if err != nil {
			t.Fatal(err)
		}
		if got := tt.platform.SizeOf(ct); got != tt.want {
			t.Errorf("%s: sizeof(%s) = %d, want %d", tt.platform.Name, tt.spec, got, tt.want)
		}
	}
	if got := LLP64.SizeType().HumanReadableName(); got != "unsigned long long int" {
		t.Errorf("llp64 size_t is %s", got)
	}
}

func TestPlatformByName(t *testing.T) {
	for _, name := range PlatformNames() {
		p, ok := PlatformByName(name)
		if !ok || p.Name != name {
			t.Errorf("platform %s not found", name)
		}
	}
	if _, ok := PlatformByName("pdp11"); ok {
		t.Error("unknown platform found")
	}
}
