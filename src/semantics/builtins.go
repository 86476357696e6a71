package semantics

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	types "github.com/eclipse-cdt/cdt-sub043/src/typesystem"
)

//go:embed builtins.yaml
var builtinsYAML []byte

type builtinTypedef struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type builtinFunction struct {
	Name    string   `yaml:"name"`
	Returns string   `yaml:"returns"`
	Params  []string `yaml:"params"`
	Varargs bool     `yaml:"varargs"`
}

type builtinTable struct {
	Typedefs  []builtinTypedef  `yaml:"typedefs"`
	Functions []builtinFunction `yaml:"functions"`
}

// Builtins is the table of compiler provided symbols. Names keep the order
// of the table, typedefs first.
type Builtins struct {
	names     []string
	typedefs  map[string]types.Ctype
	functions map[string]types.FunctionCtype
}

var DefaultBuiltins = sync.OnceValues(func() (*Builtins, error) {
	return LoadBuiltins(builtinsYAML)
})

// LoadBuiltins decodes a builtin table. Types are C type names; typedefs may
// be used by the entries that follow them.
func LoadBuiltins(data []byte) (*Builtins, error) {
	var table builtinTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("decoding builtin table: %w", err)
	}
	b := &Builtins{
		typedefs:  map[string]types.Ctype{},
		functions: map[string]types.FunctionCtype{},
	}
	for _, td := range table.Typedefs {
		t, err := types.ParseTypeSpec(td.Type, b.typedefs)
		if err != nil {
			return nil, fmt.Errorf("builtin typedef %s: %w", td.Name, err)
		}
		if err := b.add(td.Name); err != nil {
			return nil, err
		}
		b.typedefs[td.Name] = t
	}
	for _, f := range table.Functions {
		ft, err := b.functionType(f)
		if err != nil {
			return nil, fmt.Errorf("builtin function %s: %w", f.Name, err)
		}
		if err := b.add(f.Name); err != nil {
			return nil, err
		}
		b.functions[f.Name] = ft
	}
	return b, nil
}

func (b *Builtins) add(name string) error {
	if _, ok := b.typedefs[name]; ok {
		return fmt.Errorf("builtin %s defined twice", name)
	}
	if _, ok := b.functions[name]; ok {
		return fmt.Errorf("builtin %s defined twice", name)
	}
	b.names = append(b.names, name)
	return nil
}

func (b *Builtins) functionType(f builtinFunction) (types.FunctionCtype, error) {
	ret, err := types.ParseTypeSpec(f.Returns, b.typedefs)
	if err != nil {
		return types.FunctionCtype{}, err
	}
	ft := types.FunctionCtype{ReturnType: ret, Varargs: f.Varargs}
	for _, p := range f.Params {
		pt, err := types.ParseTypeSpec(p, b.typedefs)
		if err != nil {
			return types.FunctionCtype{}, err
		}
		ft.ParamTypes = append(ft.ParamTypes, types.Decay(pt))
		ft.ParamNames = append(ft.ParamNames, "")
	}
	return ft, nil
}

func (b *Builtins) Names() []string {
	res := make([]string, len(b.names))
	copy(res, b.names)
	return res
}

func (b *Builtins) Len() int { return len(b.names) }

func (b *Builtins) Function(name string) (types.FunctionCtype, bool) {
	ft, ok := b.functions[name]
	return ft, ok
}

// Typedef returns the type a builtin typedef stands for.
func (b *Builtins) Typedef(name string) (types.Ctype, bool) {
	t, ok := b.typedefs[name]
	return t, ok
}
