// Package overload implements spec.md §4.5's callable protocol: given
// a callee and a set of positional/named arguments with static types,
// find the unique matching signature or report a diagnostic.
package overload

import (
	"strings"

	"github.com/xpodev/miniz/internal/diagnostics"
	"github.com/xpodev/miniz/internal/object"
)

// Argument is one call-site argument: its static type plus an empty
// Name for positional, or the parameter name it targets for named.
type Argument struct {
	Name string
	Type object.Type
}

// Candidate is a Callable together with the generic substitution the
// match would require, so the caller can finish generic instantiation
// without re-deriving it.
type Candidate struct {
	Callable object.Callable
	Subst    object.Subst
}

// Match resolves group against args following spec.md §4.5: a strict
// pass (exact/reflexive types, no widening) over the group's own
// overloads first, falling back to a permissive pass (AssignableFrom,
// recursing into parent groups via group.All()) only if the strict
// pass found nothing. Exactly one candidate must match; zero or
// several is reported through state and a nil Callable is returned.
func Match(state *diagnostics.State, origin diagnostics.Origin, group *object.OverloadGroup, args []Argument) object.Callable {
	candidates := group.All()

	if m := matchPass(group.Overloads, args, true); len(m) == 1 {
		return m[0].Callable
	} else if len(m) > 1 {
		reportAmbiguous(state, origin, group.Name, args, m)
		return nil
	}

	m := matchPass(candidates, args, false)
	switch len(m) {
	case 1:
		return m[0].Callable
	case 0:
		reportNoMatch(state, origin, group.Name, args)
		return nil
	default:
		reportAmbiguous(state, origin, group.Name, args, m)
		return nil
	}
}

func matchPass(candidates []object.Callable, args []Argument, strict bool) []Candidate {
	var out []Candidate
	for _, c := range candidates {
		fn := underlying(c)
		if fn == nil {
			continue
		}
		if subst, ok := matchSignature(fn, args, strict); ok {
			out = append(out, Candidate{Callable: c, Subst: subst})
		}
	}
	return out
}

// underlying returns the *object.Function backing a Callable, so the
// matcher can see parameter kinds/defaults that the bare Signature()
// summary drops. Method embeds Function, so this also covers methods
// (the receiver is not a positional argument here — spec.md §4.5 says
// Method "prepends the receiver... before matching", which is the
// caller's job when building args, not the matcher's).
func underlying(c object.Callable) *object.Function {
	switch f := c.(type) {
	case *object.Function:
		return f
	case *object.Method:
		return &f.Function
	default:
		return nil
	}
}

// matchSignature checks args against fn's parameter list per spec.md
// §4.5's rules: positional-by-position then variadic-positional
// collects the remainder; named-by-name then variadic-named collects
// the remainder; unfilled parameters with a Default are satisfied;
// generic parameter occurrences must unify consistently across all
// occurrences (tracked in the returned Subst).
func matchSignature(fn *object.Function, args []Argument, strict bool) (object.Subst, bool) {
	var positional []Argument
	named := map[string]Argument{}
	for _, a := range args {
		if a.Name == "" {
			positional = append(positional, a)
		} else {
			named[a.Name] = a
		}
	}

	subst := object.Subst{}

	for i, p := range fn.Positional {
		if i < len(positional) {
			if !unify(p.Type, positional[i].Type, subst, strict) {
				return nil, false
			}
			continue
		}
		if p.Default == nil {
			return nil, false
		}
	}
	if extra := positional[min(len(positional), len(fn.Positional)):]; len(extra) > 0 {
		if fn.VariadicPos == nil {
			return nil, false
		}
		for _, a := range extra {
			if !unify(fn.VariadicPos.Type, a.Type, subst, strict) {
				return nil, false
			}
		}
	}

	seen := map[string]bool{}
	for _, p := range fn.NamedParams {
		a, ok := named[p.Name]
		if !ok {
			if p.Default == nil {
				return nil, false
			}
			continue
		}
		seen[p.Name] = true
		if !unify(p.Type, a.Type, subst, strict) {
			return nil, false
		}
	}
	for name, a := range named {
		if seen[name] {
			continue
		}
		if fn.VariadicNamed == nil {
			return nil, false
		}
		if !unify(fn.VariadicNamed.Type, a.Type, subst, strict) {
			return nil, false
		}
	}

	return subst, true
}

// unify checks a single parameter/argument type pair, binding or
// checking a generic parameter's substitution where the parameter
// type is (or contains, for the cases this matcher handles) a
// GenericParameter. Strict matching requires pointer-identical types
// (our Type singletons make this exact, per spec.md "exact type or
// subtyping with no implicit widening"); permissive matching uses the
// type's own AssignableFrom.
func unify(param, arg object.Type, subst object.Subst, strict bool) bool {
	if gp, ok := param.(*object.GenericParameter); ok {
		if bound, ok := subst[gp]; ok {
			if strict {
				return bound == arg
			}
			return bound.AssignableFrom(arg)
		}
		if gp.Constraint != nil && !gp.Constraint.AssignableFrom(arg) {
			return false
		}
		subst[gp] = arg
		return true
	}
	if strict {
		return param == arg
	}
	return param.AssignableFrom(arg)
}

func argTypeString(args []Argument) string {
	names := make([]string, len(args))
	for i, a := range args {
		if a.Name != "" {
			names[i] = a.Name + ": " + a.Type.Name()
		} else {
			names[i] = a.Type.Name()
		}
	}
	return strings.Join(names, ", ")
}

func reportNoMatch(state *diagnostics.State, origin diagnostics.Origin, group string, args []Argument) {
	state.Errorf(diagnostics.PhaseOverload, diagnostics.CodeOverloadNoMatch, origin,
		"no overload of %q matches argument types (%s)", group, argTypeString(args))
}

func reportAmbiguous(state *diagnostics.State, origin diagnostics.Origin, group string, args []Argument, matches []Candidate) {
	state.Errorf(diagnostics.PhaseOverload, diagnostics.CodeOverloadAmbiguous, origin,
		"%d overloads of %q match argument types (%s)", len(matches), group, argTypeString(args))
}
