package object

import "strings"

// GenericParameter is a named type-level binding that participates in
// matching via substitution (spec.md §3). It is itself a Type so it
// can appear directly inside a signature before substitution.
type GenericParameter struct {
	ParamName  string
	Constraint Type // optional upper bound (e.g. a typeclass), nil if unconstrained
}

func (g *GenericParameter) Name() string      { return g.ParamName }
func (g *GenericParameter) String() string    { return g.ParamName }
func (g *GenericParameter) RuntimeType() Type { return TypeKindInstance }

func (g *GenericParameter) AssignableFrom(src Type) bool {
	if o, ok := src.(*GenericParameter); ok && o == g {
		return true
	}
	if g.Constraint != nil {
		return g.Constraint.AssignableFrom(src)
	}
	return false
}

// Substitute replaces g with its substitution, if present, else
// returns g unchanged.
func (g *GenericParameter) Substitute(s Subst) Type {
	if t, ok := s[g]; ok {
		return t
	}
	return g
}

func (g *GenericParameter) FreeGenericParameters() []*GenericParameter {
	return []*GenericParameter{g}
}

// GenericKey is the cache key for a generic instantiation: the origin
// (a *Class or *Function) plus the ordered tuple of concrete type
// arguments (glossary: "Generic instance").
type GenericKey struct {
	Origin any
	Args   string // joined type names, stable because Args is ordered
}

// NewGenericKey builds a GenericKey from an origin and concrete
// argument types, in the order the origin's generic parameters were
// declared.
func NewGenericKey(origin any, args []Type) GenericKey {
	names := make([]string, len(args))
	for i, a := range args {
		names[i] = a.Name()
	}
	return GenericKey{Origin: origin, Args: strings.Join(names, ",")}
}

// InstanceCache memoizes generic instantiations so that the same
// origin+argument tuple always produces the identical cached object
// (spec.md §8 scenario: "instantiation at the use site produces a
// distinct, cached generic instance").
type InstanceCache struct {
	entries map[GenericKey]any
}

func NewInstanceCache() *InstanceCache {
	return &InstanceCache{entries: make(map[GenericKey]any)}
}

// Get returns the cached instance for key, if any.
func (c *InstanceCache) Get(key GenericKey) (any, bool) {
	v, ok := c.entries[key]
	return v, ok
}

// Put records the instance for key.
func (c *InstanceCache) Put(key GenericKey, value any) {
	c.entries[key] = value
}
