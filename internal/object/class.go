package object

import "github.com/xpodev/miniz/internal/miniscope"

// Class is the object model's nominal type declaration (spec.md §3
// Class). Construction creates the shell (name, generics, member
// lists); definition evaluates base/specification expressions and
// field types (spec.md §4.4 Class compiler).
type Class struct {
	Name           string
	Generics       []*GenericParameter
	Base           *Class   // optional; the first base expression that resolves to a class
	Specifications []Type   // interfaces/typeclasses/structures from the remaining base expressions
	Fields         []*Field
	Methods        []*Method
	Constructors   []*Method // methods named "new"
	Nested         []*Class
	SignatureScope *miniscope.Scope // wraps the body scope; holds generics (spec.md §4.2)
	BodyScope      *miniscope.Scope
	Defined        bool

	// Statics holds the current value of every StaticBinding field,
	// keyed by name; evaluated once when the class is defined.
	Statics map[string]Object

	typ       *ClassType
	instances *InstanceCache
}

func NewClass(name string) *Class {
	return &Class{Name: name}
}

func (c *Class) RuntimeType() Type { return TypeKindInstance }

// Type returns the ClassType wrapping c, creating it on first use so
// every caller observes the identical Type value for a given Class
// (needed for AssignableFrom's pointer-identity ancestor walk).
func (c *Class) Type() Type {
	if c.typ == nil {
		c.typ = &ClassType{Class: c}
	}
	return c.typ
}

// IsGeneric reports whether c has generic parameters.
func (c *Class) IsGeneric() bool { return len(c.Generics) > 0 }

// Instances returns (creating if necessary) this class's generic
// instantiation cache (glossary: "Generic instance").
func (c *Class) Instances() *InstanceCache {
	if c.instances == nil {
		c.instances = NewInstanceCache()
	}
	return c.instances
}

// FindField looks up a field by name, walking the base chain. The
// second result is false if no field by that name exists anywhere in
// the chain.
func (c *Class) FindField(name string) (*Field, bool) {
	for cls := c; cls != nil; cls = cls.Base {
		for _, f := range cls.Fields {
			if f.Name == name {
				return f, true
			}
		}
	}
	return nil, false
}

// FindMethodGroup collects the methods named name by a linear scan of
// Methods, walking the base chain and stopping at the first class
// that declares any; methods of that name further up the chain are
// not included.
func (c *Class) FindMethodGroup(name string) ([]*Method, bool) {
	var out []*Method
	for cls := c; cls != nil; cls = cls.Base {
		for _, m := range cls.Methods {
			if m.Name == name {
				out = append(out, m)
			}
		}
		if len(out) > 0 {
			return out, true
		}
	}
	return nil, false
}

// GenericInstance is a Class or Function specialized with concrete
// type arguments (glossary). It forwards calls to its Origin with the
// Subst bound, and is itself cached by (Origin, Args) in the Origin's
// InstanceCache.
type GenericInstance struct {
	Origin any // *Class or *Function
	Args   []Type
	Subst  Subst
}

func (g *GenericInstance) RuntimeType() Type { return TypeKindInstance }

func (g *GenericInstance) Name() string {
	switch o := g.Origin.(type) {
	case *Class:
		return o.Name + "[" + ArgTypesString(g.Args) + "]"
	case *Function:
		return o.Name + "[" + ArgTypesString(g.Args) + "]"
	default:
		return "<generic instance>"
	}
}

// AssignableFrom makes GenericInstance satisfy Type. Instances are
// cached per (Origin, Args) in the origin's InstanceCache, so pointer
// identity is sufficient: two instantiations with the same arguments
// are the same *GenericInstance.
func (g *GenericInstance) AssignableFrom(src Type) bool {
	o, ok := src.(*GenericInstance)
	return ok && o == g
}

// FieldType returns f's type with g's substitution applied, so a field
// declared with a generic parameter's type reports the concrete type
// at a given instantiation (spec.md §8 "its field type is Int32").
func (g *GenericInstance) FieldType(f *Field) Type {
	if s, ok := f.Type.(Substitutable); ok {
		return s.Substitute(g.Subst)
	}
	return f.Type
}
