package object

// Callable is the minimal shape the overload matcher (internal/overload)
// needs from anything that can appear in an OverloadGroup: a call
// signature to match arguments against. Function and Method satisfy
// it directly via Signature(); Class and GenericInstance satisfy the
// fuller curvy_call/square_call protocol defined in internal/overload
// instead, since constructor dispatch and generic instantiation need
// more context than a bare signature.
type Callable interface {
	Object
	Signature() *FunctionType
}

var (
	_ Callable = (*Function)(nil)
)

// OverloadGroup is the ordered set of callables sharing a name in one
// scope, with a parent link for inherited overloads (spec.md §3).
// Membership order is declaration order — overload determinism
// (spec.md §8 property 3) depends on candidates being tried in a
// fixed, reproducible order during the strict pass.
type OverloadGroup struct {
	Name      string
	Parent    *OverloadGroup
	Overloads []Callable
}

func NewOverloadGroup(name string, parent *OverloadGroup) *OverloadGroup {
	return &OverloadGroup{Name: name, Parent: parent}
}

func (g *OverloadGroup) RuntimeType() Type { return Any }

// Append adds a callable to the end of the group (declaration order).
func (g *OverloadGroup) Append(c Callable) {
	g.Overloads = append(g.Overloads, c)
}

// All returns this group's own overloads followed by the parent
// group's (recursively), own overloads first so a closer redeclaration
// is preferred when walking candidates in order.
func (g *OverloadGroup) All() []Callable {
	if g.Parent == nil {
		return g.Overloads
	}
	out := make([]Callable, 0, len(g.Overloads))
	out = append(out, g.Overloads...)
	out = append(out, g.Parent.All()...)
	return out
}
