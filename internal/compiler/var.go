package compiler

import (
	"github.com/xpodev/miniz/internal/ast"
	"github.com/xpodev/miniz/internal/object"
	"github.com/xpodev/miniz/internal/resolved"
)

// GlobalVar is the constructed object for a module-level `var`: since
// this toolchain's VM only evaluates at compile time (spec.md §1 "no
// runtime separate from the compile-time VM"), a module-level variable
// is really a named compile-time constant — its Init expression runs
// once, during define, and Value is what every reference to it loads.
type GlobalVar struct {
	Name  string
	Type  object.Type
	Value object.Object
}

func (g *GlobalVar) RuntimeType() object.Type { return g.Type }

// constructVar allocates a Field shell (class/instance member) or a
// GlobalVar shell (module-level), deferring type resolution and
// initializer evaluation to defineVar.
func (c *Context) constructVar(rv *resolved.Var) any {
	astVar := rv.AST().(*ast.Var)
	if owningClass := c.currentClass(); owningClass != nil {
		cls := c.Construct(owningClass).(*object.Class)
		f := &object.Field{Name: rv.Name, Type: object.Any, Owner: cls}
		if astVar.Static {
			f.Binding = object.StaticBinding
		} else {
			f.Binding = object.InstanceBinding
			for _, existing := range cls.Fields {
				if existing.Binding == object.InstanceBinding && existing.Slot >= f.Slot {
					f.Slot = existing.Slot + 1
				}
			}
		}
		cls.Fields = append(cls.Fields, f)
		rv.Object = f
		return f
	}
	gv := &GlobalVar{Name: rv.Name, Type: object.Any}
	rv.Object = gv
	return gv
}

func (c *Context) defineVar(rv *resolved.Var, obj any) {
	astVar := rv.AST().(*ast.Var)

	switch v := obj.(type) {
	case *object.Field:
		if astVar.Type != nil {
			v.Type = c.ResolveType(astVar.Type)
		} else if astVar.Init != nil {
			v.Type = c.inferExprType(astVar.Init, v.Owner)
		}
		if astVar.Init != nil {
			v.Init = c.compileConstantBody(astVar.Init, v.Owner)
		}
		if v.Binding == object.StaticBinding && v.Init != nil {
			val, err := c.Machine.Run(v.Init, nil, nil)
			if err == nil {
				if v.Owner.Statics == nil {
					v.Owner.Statics = map[string]object.Object{}
				}
				v.Owner.Statics[v.Name] = val
			}
		}
	case *GlobalVar:
		if astVar.Type != nil {
			v.Type = c.ResolveType(astVar.Type)
		}
		if astVar.Init != nil {
			body := c.compileConstantBody(astVar.Init, nil)
			val, err := c.Machine.Run(body, nil, nil)
			if err == nil {
				v.Value = val
				if astVar.Type == nil {
					v.Type = val.RuntimeType()
				}
			}
		}
		if v.Value == nil {
			v.Value = object.UnitValue
		}
	}
}
