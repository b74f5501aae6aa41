package overload

import (
	"github.com/xpodev/miniz/internal/diagnostics"
	"github.com/xpodev/miniz/internal/object"
)

// Resolve implements spec.md §4.5's curvy_call (`()`) dispatch over
// whatever callee the compiler produced for a call expression:
// Function/Method match directly; OverloadGroup runs the two-pass
// Match above; Class dispatches to its constructor group; a
// GenericInstance forwards to its Origin with Args already bound (the
// instance's own type parameters are resolved, so matching proceeds
// against the origin's declared signature exactly as for a
// non-generic callable — spec.md §4.5 "forwards to the origin with
// the instantiation context bound").
func Resolve(state *diagnostics.State, origin diagnostics.Origin, callee object.Object, args []Argument) object.Callable {
	switch c := callee.(type) {
	case *object.OverloadGroup:
		return Match(state, origin, c, args)
	case *object.Function:
		return matchSingle(state, origin, c, args)
	case *object.Method:
		return matchSingle(state, origin, c, args)
	case *object.Class:
		return curvyCallClass(state, origin, c, args)
	case *object.GenericInstance:
		return Resolve(state, origin, asObject(c.Origin), args)
	default:
		state.Errorf(diagnostics.PhaseOverload, diagnostics.CodeNotCallable, origin,
			"value of type %T does not implement curvy_call", callee)
		return nil
	}
}

// matchSingle handles the degenerate one-candidate "group" of a bare
// Function/Method reference (e.g. a local holding a function value,
// not looked up through its declaring OverloadGroup).
func matchSingle(state *diagnostics.State, origin diagnostics.Origin, c object.Callable, args []Argument) object.Callable {
	fn := underlying(c)
	if _, ok := matchSignature(fn, args, true); ok {
		return c
	}
	if _, ok := matchSignature(fn, args, false); ok {
		return c
	}
	reportNoMatch(state, origin, fn.Name, args)
	return nil
}

// curvyCallClass implements Class-as-callable: invoke its constructor
// overload set (spec.md §4.5 "curvy_call invokes its constructor
// overload set"). Constructors share the class's name for diagnostics
// even though they are not stored in a real OverloadGroup (a class's
// constructors are never inherited the way instance methods are).
func curvyCallClass(state *diagnostics.State, origin diagnostics.Origin, cls *object.Class, args []Argument) object.Callable {
	group := object.NewOverloadGroup(cls.Name, nil)
	for _, ctor := range cls.Constructors {
		group.Append(ctor)
	}
	return Match(state, origin, group, args)
}

// SquareCall implements spec.md §4.5's `[]` protocol: for a generic
// Class or Function whose generic count matches len(typeArgs) it
// returns the GenericKey identifying that instantiation; it does not
// build the instance itself. typeArgs are the concrete type arguments,
// not value types — the caller is responsible for distinguishing
// square_call sites (type arguments) from curvy_call sites (value
// arguments).
func SquareCall(cls any, typeArgs []object.Type) (object.GenericKey, bool) {
	switch c := cls.(type) {
	case *object.Class:
		if !c.IsGeneric() || len(typeArgs) != len(c.Generics) {
			return object.GenericKey{}, false
		}
		return object.NewGenericKey(c, typeArgs), true
	case *object.Function:
		if !c.IsGeneric() || len(typeArgs) != len(c.Generics) {
			return object.GenericKey{}, false
		}
		return object.NewGenericKey(c, typeArgs), true
	default:
		return object.GenericKey{}, false
	}
}

func asObject(v any) object.Object {
	if o, ok := v.(object.Object); ok {
		return o
	}
	return nil
}
