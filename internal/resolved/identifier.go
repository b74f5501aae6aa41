package resolved

import (
	"github.com/xpodev/miniz/internal/ast"
	"github.com/xpodev/miniz/internal/miniscope"
)

// Identifier is the resolved counterpart of an ast.Identifier: the
// name-linker pass replaces every identifier reference with one of
// these, binding Target via a scope lookup (spec.md §4 "Any AST
// identifier encountered is replaced by a lookup in the current
// scope"). It is not Named — an Identifier use-site doesn't introduce
// a binding of its own.
type Identifier struct {
	base
	Name   string
	Target Ref
}

func NewIdentifier(n *ast.Identifier, scope *miniscope.Scope) *Identifier {
	return &Identifier{base: newBase(n, scope), Name: n.Name}
}

// Bind resolves the identifier to target; called exactly once, by the
// name-linker, and memoized there via the "resolved" set (spec.md §4
// "Resolving nodes is idempotent and memoized").
func (id *Identifier) Bind(target Ref) {
	id.Target = target
	id.MarkDefined()
}

// FunctionBody wraps a function's *ast.Block with no additional scope
// of its own (it shares BodyScope with the owning resolved.Function);
// it exists so the dependency finder and compiler have a resolved
// node to key the compiled instruction Body on, separate from the
// Function declaration itself (spec.md §3 "function-body wrapper").
type FunctionBody struct {
	base
	Owner *Function
}

func NewFunctionBody(owner *Function) *FunctionBody {
	return &FunctionBody{base: newBase(owner.AST(), owner.Scope()), Owner: owner}
}
