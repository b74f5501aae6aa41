package compiler

import (
	"github.com/xpodev/miniz/internal/ast"
	"github.com/xpodev/miniz/internal/config"
	"github.com/xpodev/miniz/internal/object"
	"github.com/xpodev/miniz/internal/resolved"
	"github.com/xpodev/miniz/internal/vm"
)

// constructFunction allocates the Function shell (or a Method shell,
// when this declaration sits inside a class) and its parameter
// shells, and registers it with its owning Module or Class (spec.md
// §4.4 "Function: allocates the callable, its parameters"). Slot
// numbers are assigned here, in declaration order within each
// parameter kind, since they never change again.
func (c *Context) constructFunction(rf *resolved.Function) any {
	astFn := rf.AST().(*ast.Function)
	owningClass := c.currentClass()

	var fn *object.Function
	var method *object.Method
	if owningClass != nil {
		ownerCls := c.Construct(owningClass).(*object.Class)
		method = object.NewMethod(rf.Name, ownerCls)
		method.IsConstructor = rf.Name == config.ConstructorName
		if astFn.Static {
			method.Binding = object.StaticBinding
		} else {
			method.Binding = object.InstanceBinding
		}
		fn = &method.Function
	} else {
		fn = object.NewFunction(rf.Name)
	}
	fn.SignatureScope = rf.SignatureScope
	fn.BodyScope = rf.Scope()

	for _, rg := range rf.Generics {
		fn.Generics = append(fn.Generics, c.Construct(rg).(*object.GenericParameter))
	}

	posSlot, namedSlot := 0, 0
	for i, rp := range rf.Params {
		astParam := astFn.Params[i]
		p := &object.Parameter{Name: rp.Name, Kind: object.ParamKind(astParam.Kind), Type: object.Any}
		c.params[rp] = p
		switch p.Kind {
		case object.Positional:
			p.Slot = posSlot
			posSlot++
			fn.Positional = append(fn.Positional, p)
		case object.Named:
			p.Slot = namedSlot
			namedSlot++
			fn.NamedParams = append(fn.NamedParams, p)
		case object.VariadicPositional:
			p.Slot = posSlot
			fn.VariadicPos = p
		case object.VariadicNamed:
			p.Slot = namedSlot
			fn.VariadicNamed = p
		}
	}

	if owningClass != nil {
		if method.IsConstructor {
			method.Owner.Constructors = append(method.Owner.Constructors, method)
		} else {
			method.Owner.Methods = append(method.Owner.Methods, method)
		}
		rf.Object = method
		return method
	}
	if mod := c.currentModule(); mod != nil {
		mod.Functions = append(mod.Functions, fn)
	}
	rf.Object = fn
	return fn
}

// defineFunction resolves parameter/return types and, if the
// declaration has a body, lowers it to bytecode. Return-type inference
// (no annotation) runs vm.ReturnTypes over the freshly compiled body,
// per spec.md §4.4 "Return-type inference: run the return-type
// analyzer over the compiled body".
func (c *Context) defineFunction(rf *resolved.Function, obj any) {
	astFn := rf.AST().(*ast.Function)
	fn := underlyingFunction(obj)

	for i, rp := range rf.Params {
		astParam := astFn.Params[i]
		p := c.params[rp]
		if astParam.Type != nil {
			p.Type = c.ResolveType(astParam.Type)
		} else {
			p.Type = object.Any
		}
		if astParam.Default != nil {
			p.Default = c.compileConstantBody(astParam.Default, nil)
		}
	}

	if astFn.ReturnType != nil {
		fn.ReturnType = c.ResolveType(astFn.ReturnType)
	}

	if astFn.Body == nil {
		// Forward declaration: no body to compile. A later pass (or a
		// native installer, for `module:core` intrinsics) fills Body
		// in directly on the object.
		fn.Defined = true
		return
	}

	var ownerCls *object.Class
	if m, ok := obj.(*object.Method); ok {
		ownerCls = m.Owner
	}

	c.Linker.LinkFunctionBody(rf)
	body := c.compileFunctionBody(rf, fn, ownerCls)
	fn.Body = body

	if astFn.ReturnType == nil {
		paramTypes := make([]object.Type, len(fn.Positional))
		for i, p := range fn.Positional {
			paramTypes[i] = p.Type
		}
		seen, err := vm.ReturnTypes(body, paramTypes)
		if err == nil {
			switch len(seen) {
			case 0:
				fn.ReturnType = object.Unit
			case 1:
				fn.ReturnType = seen[0]
			default:
				fn.ReturnType = object.Any
			}
		}
	}

	fn.Defined = true
}

// underlyingFunction returns obj's embedded *object.Function whether
// obj is a bare Function or a Method, mirroring
// internal/overload/matcher.go's own underlying() helper.
func underlyingFunction(obj any) *object.Function {
	switch f := obj.(type) {
	case *object.Function:
		return f
	case *object.Method:
		return &f.Function
	default:
		return nil
	}
}

func (c *Context) constructGenericParameter(rg *resolved.GenericParameter) *object.GenericParameter {
	return &object.GenericParameter{ParamName: rg.Name}
}

func (c *Context) constructOverloadGroup(rg *resolved.OverloadGroup) *object.OverloadGroup {
	var parent *object.OverloadGroup
	if rg.Parent != nil {
		parent = c.Construct(rg.Parent).(*object.OverloadGroup)
	}
	og := object.NewOverloadGroup(rg.Name, parent)
	for _, member := range rg.Overloads {
		if callable, ok := c.Construct(member).(object.Callable); ok {
			og.Append(callable)
		}
	}
	rg.Object = og
	return og
}
