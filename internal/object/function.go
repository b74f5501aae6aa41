package object

import "github.com/xpodev/miniz/internal/miniscope"

// Function is the object model's callable unit (spec.md §3 Function).
// Construction creates the skeleton (name, generic parameters,
// parameter shells); definition fills in parameter/return types and
// compiles the body (spec.md §4.4).
type Function struct {
	Name            string
	Generics        []*GenericParameter
	Positional      []*Parameter
	NamedParams     []*Parameter
	VariadicPos     *Parameter // nil if the signature has no variadic positional tail
	VariadicNamed   *Parameter // nil if the signature has no variadic named tail
	ReturnType      Type       // Any until inferred/defined; never nil after Define
	Body            *Body
	SignatureScope  *miniscope.Scope // generics + parameter names, visible to types
	BodyScope       *miniscope.Scope // wraps SignatureScope, visible to the body
	Defined         bool
	instances       *InstanceCache // for generic functions, nil otherwise

	// Native, when set, is invoked directly by the VM instead of
	// running Body — the host escape hatch for functions with no
	// bytecode representation: builtin operators (no arithmetic opcode
	// exists, spec.md §4.6's instruction set is closed) and the
	// `module:core` intrinsics (spec.md §6). Body is nil for a native
	// function.
	Native func(args []Object) (Object, error)
}

func NewFunction(name string) *Function {
	return &Function{Name: name, ReturnType: Any}
}

func (f *Function) RuntimeType() Type { return f.Signature() }

// Signature returns this function's FunctionType, computed from its
// current parameter/return types (valid once Defined, but callable
// earlier too — during construct, parameter types default to Any).
func (f *Function) Signature() *FunctionType {
	ft := &FunctionType{Return: f.ReturnType}
	for _, p := range f.Positional {
		ft.Positional = append(ft.Positional, p.Type)
	}
	if len(f.NamedParams) > 0 {
		ft.Named = make(map[string]Type, len(f.NamedParams))
		for _, p := range f.NamedParams {
			ft.Named[p.Name] = p.Type
		}
	}
	if f.VariadicPos != nil {
		ft.Variadic = f.VariadicPos.Type
	}
	if f.VariadicNamed != nil {
		ft.NamedVariadic = f.VariadicNamed.Type
	}
	return ft
}

// IsGeneric reports whether f has generic parameters.
func (f *Function) IsGeneric() bool { return len(f.Generics) > 0 }

// Instances returns (creating if necessary) this function's generic
// instantiation cache.
func (f *Function) Instances() *InstanceCache {
	if f.instances == nil {
		f.instances = NewInstanceCache()
	}
	return f.instances
}

// Method is a Function owned by a Class, with an instance binding
// (spec.md §3 Method).
type Method struct {
	Function
	Owner        *Class
	Binding      Binding
	IsConstructor bool
}

func NewMethod(name string, owner *Class) *Method {
	return &Method{Function: *NewFunction(name), Owner: owner}
}
