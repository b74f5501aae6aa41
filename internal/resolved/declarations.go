package resolved

import (
	"github.com/xpodev/miniz/internal/ast"
	"github.com/xpodev/miniz/internal/miniscope"
)

// Module mirrors ast.Module. Created by the registry pass for every
// `module { ... }` block and for the implicit top-level module of a
// document; Items are the resolved nodes for each of the module's
// top-level statements, in source order.
type Module struct {
	base
	Name   string
	Parent *Module // nil for the top-level module of a document
	Items  []Node

	// Object is filled in by the compiler's construct stage
	// (*object.Module); kept as `any` to avoid a resolved<->object
	// import cycle.
	Object any
}

func NewModule(n *ast.Module, name string, scope *miniscope.Scope, parent *Module) *Module {
	return &Module{base: newBase(n, scope), Name: name, Parent: parent}
}

func (m *Module) DeclaredName() string { return m.Name }

// Class mirrors ast.Class.
type Class struct {
	base
	Name     string
	Generics []*GenericParameter
	Bases    []ast.TypeExpression // linked by the name-linker's LinkProgram against Scope
	Items    []Node

	Object any // *object.Class once constructed
}

func NewClass(n *ast.Class, scope *miniscope.Scope) *Class {
	return &Class{base: newBase(n, scope), Name: n.Name.Name}
}

func (c *Class) DeclaredName() string { return c.Name }

// Typeclass mirrors ast.Typeclass: a set of required (and optionally
// defaulted) method signatures, never itself instantiated.
type Typeclass struct {
	base
	Name       string
	Generics   []*GenericParameter
	Signatures []*Function
}

func NewTypeclass(n *ast.Typeclass, scope *miniscope.Scope) *Typeclass {
	return &Typeclass{base: newBase(n, scope), Name: n.Name.Name}
}

func (t *Typeclass) DeclaredName() string { return t.Name }

// TypeclassImpl mirrors ast.TypeclassImpl: an `impl Trait for Target`
// block, resolved against both the typeclass's required signatures
// and the target type's own scope so the compiler can verify every
// required method is covered (spec.md §1).
type TypeclassImpl struct {
	base
	Typeclass ast.TypeExpression
	Target    ast.TypeExpression
	Methods   []*Function
}

func NewTypeclassImpl(n *ast.TypeclassImpl, scope *miniscope.Scope) *TypeclassImpl {
	return &TypeclassImpl{base: newBase(n, scope), Typeclass: n.Typeclass, Target: n.Target}
}

func (t *TypeclassImpl) DeclaredName() string { return "" }

// Function mirrors ast.Function. SignatureScope holds the function's
// generics and parameters; BodyScope (== Scope) wraps it and is
// visited lazily by the name-linker only once the function's body is
// actually needed (spec.md §4 "Name-linker pass").
type Function struct {
	base
	Name           string
	Generics       []*GenericParameter
	Params         []*Parameter
	SignatureScope *miniscope.Scope
	BodyVisited    bool

	Object any // *object.Function or *object.Method once constructed
}

func NewFunction(n *ast.Function, bodyScope, sigScope *miniscope.Scope) *Function {
	return &Function{base: newBase(n, bodyScope), Name: n.Name.Name, SignatureScope: sigScope}
}

func (f *Function) DeclaredName() string { return f.Name }

// Parameter mirrors ast.Parameter. It has no scope of its own; its
// type expression is resolved against the owning function/class's
// SignatureScope.
type Parameter struct {
	base
	Name string
}

func NewParameter(n *ast.Parameter, scope *miniscope.Scope) *Parameter {
	return &Parameter{base: newBase(n, scope), Name: n.Name.Name}
}

func (p *Parameter) DeclaredName() string { return p.Name }

// GenericParameter mirrors ast.GenericParameter. Resolved as both a
// declared name (in the signature scope) and a type (it implements
// ast.TypeExpression so it can appear wherever a type is expected).
type GenericParameter struct {
	base
	Name string
}

func NewGenericParameter(n *ast.GenericParameter, scope *miniscope.Scope) *GenericParameter {
	return &GenericParameter{base: newBase(n, scope), Name: n.Name.Name}
}

func (g *GenericParameter) DeclaredName() string { return g.Name }

// Var mirrors ast.Var: a local, field, or module-level binding
// depending on where it's registered. Locals are registered lazily
// by the body compiler (spec.md §4 "they were not registered in the
// registry pass since they only exist at body scope").
type Var struct {
	base
	Name string

	Object any // *object.Local or *object.Field once constructed
}

func NewVar(n *ast.Var, scope *miniscope.Scope) *Var {
	return &Var{base: newBase(n, scope), Name: n.Name.Name}
}

func (v *Var) DeclaredName() string { return v.Name }

// ImportedName has no ast.Node of its own: the registry pass creates
// one per symbol in an `import { a, b as c } from "..."` statement
// and refers it into the current scope without marking it defined,
// so it is visible but not re-exported (spec.md §4 "Registry pass").
type ImportedName struct {
	base
	LocalName  string // the alias, or the original name if unaliased
	SourceName string // the name as exported by the source module
	Source     string // the Import's Source string
	Target     Ref    // resolved once the source document's pipeline reaches Objects
}

func NewImportedName(scope *miniscope.Scope, local, source, from string) *ImportedName {
	return &ImportedName{base: newBase(nil, scope), LocalName: local, SourceName: source, Source: from}
}

func (i *ImportedName) DeclaredName() string { return i.LocalName }
