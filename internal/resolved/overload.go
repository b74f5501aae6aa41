package resolved

import "github.com/xpodev/miniz/internal/miniscope"

// OverloadGroup has no ast.Node of its own: the registry pass
// synthesizes or extends one per function name per scope (spec.md §4
// "Function declarations automatically synthesize or extend an
// overload group in the current scope"). Parent links to the
// enclosing scope's group of the same name, if any, giving overload
// inheritance across nested modules/classes.
type OverloadGroup struct {
	base
	Name      string
	Parent    *OverloadGroup
	Overloads []*Function

	Object any // *object.OverloadGroup once constructed
}

func NewOverloadGroup(scope *miniscope.Scope, name string, parent *OverloadGroup) *OverloadGroup {
	return &OverloadGroup{base: newBase(nil, scope), Name: name, Parent: parent}
}

func (g *OverloadGroup) DeclaredName() string { return g.Name }

func (g *OverloadGroup) Append(f *Function) { g.Overloads = append(g.Overloads, f) }
