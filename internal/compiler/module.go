package compiler

import (
	"github.com/xpodev/miniz/internal/object"
	"github.com/xpodev/miniz/internal/resolved"
)

// constructModule allocates the object.Module shell and recursively
// constructs every item it declares, so a module's Types/Functions/
// Submodules lists are populated immediately (spec.md §4.4 "Module:
// constructs its submodules, classes and functions").
func (c *Context) constructModule(rm *resolved.Module) *object.Module {
	om := object.NewModule(rm.Name, rm.Scope())
	if rm.Parent == nil && c.Root == nil {
		c.Root = om
	}
	if rm.Parent != nil {
		if parentObj, ok := c.Construct(rm.Parent).(*object.Module); ok {
			parentObj.Submodules = append(parentObj.Submodules, om)
		}
	}

	c.moduleStack = append(c.moduleStack, om)
	for _, item := range rm.Items {
		c.Construct(item)
	}
	c.moduleStack = c.moduleStack[:len(c.moduleStack)-1]

	return om
}

// defineModule requires the definition of everything the module
// declares. Unlike an IDE-style lazy compiler, the toolchain driver
// compiles whole programs (spec.md §4.8), so nothing is left
// undefined once the entry module is defined.
func (c *Context) defineModule(rm *resolved.Module, om *object.Module) {
	for _, item := range rm.Items {
		c.RequireDefinition(item)
	}
	om.Defined = true
}

func (c *Context) currentModule() *object.Module {
	if len(c.moduleStack) == 0 {
		return nil
	}
	return c.moduleStack[len(c.moduleStack)-1]
}
