// Package resolver implements the two sub-phases of spec.md §4.2: the
// registry pass (creates resolved nodes, populates scopes, wires
// overload groups) and the name-linker pass (binds every AST
// identifier to the resolved node or value it refers to).
package resolver

import (
	"github.com/xpodev/miniz/internal/ast"
	"github.com/xpodev/miniz/internal/diagnostics"
	"github.com/xpodev/miniz/internal/miniscope"
	"github.com/xpodev/miniz/internal/resolved"
)

// Registry runs the registry pass over one document's AST.
type Registry struct {
	state *diagnostics.State
	// groups holds, per scope, the overload group currently open for
	// each function name declared directly in that scope — the
	// registry extends rather than replaces a group on a repeated
	// `fun` declaration with the same name (spec.md §4.2).
	groups map[*miniscope.Scope]map[string]*resolved.OverloadGroup
}

func NewRegistry(state *diagnostics.State) *Registry {
	return &Registry{state: state, groups: map[*miniscope.Scope]map[string]*resolved.OverloadGroup{}}
}

// Run registers prog's declarations into a new child of parent (or a
// fresh root scope if parent is nil) and returns the resolved tree's
// root.
func (r *Registry) Run(prog *ast.Program, parent *miniscope.Scope) *resolved.Program {
	var scope *miniscope.Scope
	if parent == nil {
		scope = miniscope.New(prog.Document)
	} else {
		scope = parent.NewChild(prog.Document)
	}
	top := r.registerModule(nil, prog.Document, prog.Statements, scope)
	return resolved.NewProgram(prog, scope, top)
}

// registerModule creates a resolved.Module for an (explicit or
// implicit) module declaration and registers every item inside it. n
// is nil for the implicit top-level module of a document.
func (r *Registry) registerModule(n *ast.Module, name string, items []ast.Statement, scope *miniscope.Scope) *resolved.Module {
	m := resolved.NewModule(n, name, scope, nil)
	for _, stmt := range items {
		if node := r.register(stmt, scope, m); node != nil {
			m.Items = append(m.Items, node)
		}
	}
	return m
}

// register dispatches on the concrete declaration kind. Every
// variant spec.md §3 lists for the object model is represented here;
// non-declaration statements (expression statements, control flow)
// are not registered — they are only visited lazily once a
// function's body is linked (spec.md §4.2 "Name-linker pass").
func (r *Registry) register(stmt ast.Statement, scope *miniscope.Scope, owner resolved.Node) resolved.Node {
	switch s := stmt.(type) {
	case *ast.Module:
		child := scope.NewChild(s.DeclaredName())
		sub := r.registerModule(s, s.DeclaredName(), s.Items, child)
		if parentModule, ok := owner.(*resolved.Module); ok {
			sub.Parent = parentModule
		}
		r.bind(scope, s.DeclaredName(), sub, s)
		return sub

	case *ast.Class:
		return r.registerClass(s, scope)

	case *ast.Typeclass:
		return r.registerTypeclass(s, scope)

	case *ast.TypeclassImpl:
		// Anonymous: not bound into scope, just registered so the
		// compiler can find and define it.
		child := scope.NewChild("impl")
		impl := resolved.NewTypeclassImpl(s, child)
		for _, fn := range s.Methods {
			impl.Methods = append(impl.Methods, r.registerFunction(fn, child))
		}
		return impl

	case *ast.Function:
		return r.registerFunction(s, scope)

	case *ast.Var:
		v := resolved.NewVar(s, scope)
		r.bind(scope, s.DeclaredName(), v, s)
		return v

	case *ast.GenericParameter:
		g := resolved.NewGenericParameter(s, scope)
		r.bind(scope, s.DeclaredName(), g, s)
		return g

	case *ast.Import:
		return r.registerImport(s, scope)

	case *ast.Export:
		// Exports are not registered, and the name-linker does not
		// process them either.
		return nil

	default:
		// Non-declaration statement at declaration position: not an
		// error here, just nothing to register (e.g. a bare
		// expression statement at module scope is unusual but not the
		// registry's concern).
		return nil
	}
}

func (r *Registry) registerClass(s *ast.Class, scope *miniscope.Scope) *resolved.Class {
	child := scope.NewChild(s.Name.Name)
	c := resolved.NewClass(s, child)
	c.Bases = s.Bases
	for _, g := range s.Generics {
		rg := resolved.NewGenericParameter(g, child)
		c.Generics = append(c.Generics, rg)
		r.bind(child, g.DeclaredName(), rg, g)
	}
	for _, item := range s.Items {
		if node := r.register(item, child, c); node != nil {
			c.Items = append(c.Items, node)
		}
	}
	r.bind(scope, s.Name.Name, c, s)
	return c
}

func (r *Registry) registerTypeclass(s *ast.Typeclass, scope *miniscope.Scope) *resolved.Typeclass {
	child := scope.NewChild(s.Name.Name)
	t := resolved.NewTypeclass(s, child)
	for _, g := range s.Generics {
		rg := resolved.NewGenericParameter(g, child)
		t.Generics = append(t.Generics, rg)
		r.bind(child, g.DeclaredName(), rg, g)
	}
	for _, sig := range s.Signatures {
		t.Signatures = append(t.Signatures, r.registerFunction(sig, child))
	}
	r.bind(scope, s.Name.Name, t, s)
	return t
}

// registerFunction creates the function's resolved node plus its
// signature scope (generics + parameters) and body scope, synthesizes
// or extends its overload group, and registers parameters.
func (r *Registry) registerFunction(s *ast.Function, scope *miniscope.Scope) *resolved.Function {
	sigScope := scope.NewChild(s.Name.Name + "#sig")
	bodyScope := sigScope.NewChild(s.Name.Name + "#body")
	f := resolved.NewFunction(s, bodyScope, sigScope)

	for _, g := range s.Generics {
		rg := resolved.NewGenericParameter(g, sigScope)
		f.Generics = append(f.Generics, rg)
		r.bind(sigScope, g.DeclaredName(), rg, g)
	}
	for _, p := range s.Params {
		rp := resolved.NewParameter(p, sigScope)
		f.Params = append(f.Params, rp)
		r.bind(sigScope, p.DeclaredName(), rp, p)
	}

	r.extendOverloadGroup(scope, s.Name.Name, f, s)
	return f
}

// extendOverloadGroup implements spec.md §4.2's "Function declarations
// automatically synthesize or extend an overload group in the current
// scope: if no group exists, create one parented to the enclosing
// scope; append this function to the group's overloads."
func (r *Registry) extendOverloadGroup(scope *miniscope.Scope, name string, f *resolved.Function, origin diagnostics.Origin) {
	byName, ok := r.groups[scope]
	if !ok {
		byName = map[string]*resolved.OverloadGroup{}
		r.groups[scope] = byName
	}
	g, ok := byName[name]
	if !ok {
		var parent *resolved.OverloadGroup
		if p := scope.Parent(); p != nil {
			if pg, ok := r.groups[p][name]; ok {
				parent = pg
			}
		}
		g = resolved.NewOverloadGroup(scope, name, parent)
		byName[name] = g
		r.bind(scope, name, g, origin)
	}
	g.Append(f)
}

func (r *Registry) registerImport(s *ast.Import, scope *miniscope.Scope) resolved.Node {
	// Imports create an ImportedName per symbol and refer (not
	// define) it into the current scope, so it is visible but not
	// re-exported by a subsequent bare `export *` (spec.md §4.2).
	for _, sym := range s.Symbols {
		local := sym.Name.Name
		if sym.Alias != nil {
			local = sym.Alias.Name
		}
		in := resolved.NewImportedName(scope, local, sym.Name.Name, s.Source)
		if err := scope.Refer(local, in); err != nil {
			r.state.Errorf(diagnostics.PhaseResolve, diagnostics.CodeNameAlreadyBound, s,
				"import %q: %v", local, err)
		}
	}
	return nil
}

func (r *Registry) bind(scope *miniscope.Scope, name string, node resolved.Node, origin diagnostics.Origin) {
	if name == "" {
		return
	}
	if err := scope.Create(name, node); err != nil {
		r.state.Errorf(diagnostics.PhaseResolve, diagnostics.CodeNameAlreadyBound, origin,
			"%q: %v", name, err)
	}
}
