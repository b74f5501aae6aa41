package compiler

import (
	"github.com/xpodev/miniz/internal/ast"
	"github.com/xpodev/miniz/internal/config"
	"github.com/xpodev/miniz/internal/object"
	"github.com/xpodev/miniz/internal/resolved"
)

// constructClass allocates the Class shell, its generic parameters,
// and every member's own shell — fields and methods alike — so the
// class's public shape (what FindField/FindMethodGroup can see) is
// available to any dependent before this class's own define stage
// runs (spec.md §4.4 "Class: like Module, but also builds the field
// layout and constructor list").
func (c *Context) constructClass(rc *resolved.Class) *object.Class {
	cls := object.NewClass(rc.Name)
	cls.BodyScope = rc.Scope()
	cls.SignatureScope = rc.Scope()
	if mod := c.currentModule(); mod != nil {
		mod.Types = append(mod.Types, cls)
	}

	for _, rg := range rc.Generics {
		cls.Generics = append(cls.Generics, c.Construct(rg).(*object.GenericParameter))
	}

	c.classStack = append(c.classStack, rc)
	for _, item := range rc.Items {
		c.Construct(item)
	}
	c.classStack = c.classStack[:len(c.classStack)-1]

	return cls
}

// defineClass resolves the base list, requires the definition of every
// member, and synthesizes a default zero-argument constructor if the
// class declared none (vm.machine's createInstance relies on
// Constructors never being empty).
func (c *Context) defineClass(rc *resolved.Class, cls *object.Class) {
	astCls := rc.AST().(*ast.Class)
	for _, baseExpr := range astCls.Bases {
		ty := c.ResolveType(baseExpr)
		if cls.Base == nil {
			if ct, ok := ty.(*object.ClassType); ok {
				cls.Base = ct.Class
				continue
			}
		}
		cls.Specifications = append(cls.Specifications, ty)
	}

	c.classStack = append(c.classStack, rc)
	for _, item := range rc.Items {
		c.RequireDefinition(item)
	}
	c.classStack = c.classStack[:len(c.classStack)-1]

	if len(cls.Constructors) == 0 {
		ctor := object.NewMethod(config.ConstructorName, cls)
		ctor.Body = &object.Body{}
		ctor.IsConstructor = true
		ctor.Binding = object.InstanceBinding
		cls.Constructors = append(cls.Constructors, ctor)
	}

	cls.Defined = true
}
