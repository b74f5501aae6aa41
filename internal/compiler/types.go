package compiler

import (
	"github.com/xpodev/miniz/internal/ast"
	"github.com/xpodev/miniz/internal/diagnostics"
	"github.com/xpodev/miniz/internal/object"
	"github.com/xpodev/miniz/internal/resolved"
)

// ResolveType evaluates a type expression to its object.Type, handling
// plain names (bound either to a primitive via NewPreludeScope or to a
// user Class/GenericParameter through the linker's Refs) and generic
// instantiation in type position (`Box[Int32]`, spec.md §8 scenario
// "class Box[T] ... Box[Int32] used as a field type"). It does not run
// a function's/class's define stage beyond what Construct already
// needs, matching spec.md §4.4: "define-stage only needs the
// declaration of its dependencies".
func (c *Context) ResolveType(t ast.TypeExpression) object.Type {
	switch e := t.(type) {
	case *ast.Identifier:
		return c.resolveIdentifierType(e)
	case *ast.Call:
		return c.resolveGenericInstanceType(e)
	case *ast.Literal:
		// Only `unit` appears as a type expression literal in practice
		// (the zero-value return-type annotation); other literal kinds
		// are not valid in type position and fall through to Any so a
		// bad program still gets a constructed (if imprecise) type
		// rather than a nil panic deeper in the compiler.
		if e.Kind == ast.LitUnit {
			return object.Unit
		}
		return object.Any
	case *ast.GenericParameter:
		return c.resolveGenericParamType(e)
	default:
		// *ast.MemberAccess (qualified type names) is not produced by
		// any of the core scenarios; treated as Any until a real
		// namespaced-type program exercises it.
		return object.Any
	}
}

func (c *Context) resolveIdentifierType(id *ast.Identifier) object.Type {
	ref, ok := c.Linker.Refs[id.ID()]
	if !ok || !ref.Bound {
		c.State.Errorf(diagnostics.PhaseCompile, diagnostics.CodeNameNotFound, id, "unresolved type name %q", id.Name)
		return object.Any
	}
	if ref.Node == nil {
		if ty, ok := ref.Object.(object.Type); ok {
			return ty
		}
		return object.Any
	}
	switch n := ref.Node.(type) {
	case *resolved.Class:
		cls := c.Construct(n).(*object.Class)
		return cls.Type()
	case *resolved.GenericParameter:
		return c.Construct(n).(*object.GenericParameter)
	default:
		return object.Any
	}
}

func (c *Context) resolveGenericParamType(gp *ast.GenericParameter) object.Type {
	ref, ok := c.Linker.Refs[gp.ID()]
	if !ok || !ref.Bound || ref.Node == nil {
		return object.Any
	}
	if rn, ok := ref.Node.(*resolved.GenericParameter); ok {
		return c.Construct(rn).(*object.GenericParameter)
	}
	return object.Any
}

// resolveGenericInstanceType handles a `Name[Arg, ...]` type
// expression: Name must resolve to a generic Class (any other callee,
// including a generic Function, yields Any), and each Arg is itself
// resolved as a type. Instantiations are cached on
// the origin's InstanceCache so repeated uses of the identical
// arguments share one *object.GenericInstance (spec.md §8 "distinct,
// cached generic instance").
func (c *Context) resolveGenericInstanceType(call *ast.Call) object.Type {
	calleeID, ok := call.Callee.(*ast.Identifier)
	if !ok {
		return object.Any
	}
	ref, ok := c.Linker.Refs[calleeID.ID()]
	if !ok || !ref.Bound || ref.Node == nil {
		return object.Any
	}
	classNode, ok := ref.Node.(*resolved.Class)
	if !ok {
		return object.Any
	}
	cls := c.Construct(classNode).(*object.Class)

	args := make([]object.Type, len(call.Args))
	for i, a := range call.Args {
		te, _ := a.Value.(ast.TypeExpression)
		if te == nil {
			args[i] = object.Any
			continue
		}
		args[i] = c.ResolveType(te)
	}

	key := object.NewGenericKey(cls, args)
	if existing, ok := cls.Instances().Get(key); ok {
		return existing.(*object.GenericInstance)
	}

	subst := object.Subst{}
	for i, g := range cls.Generics {
		if i < len(args) {
			subst[g] = args[i]
		}
	}
	inst := &object.GenericInstance{Origin: cls, Args: args, Subst: subst}
	cls.Instances().Put(key, inst)
	return inst
}
