// Package resolved implements the resolved-node model of spec.md §3
// "Resolved AST": a second tree that mirrors the parsed ast.Node tree
// one-to-one for declarations, plus a handful of nodes with no AST
// counterpart (ImportedName, OverloadGroup, FunctionBody). Every node
// retains a link back to the ast.Node it was built from (nil for the
// synthetic ones) and carries the semantic scope the resolver
// populates.
//
// Resolved nodes are mutable while the resolver and compiler work on
// them; MarkDefined freezes a node, after which the compiler must not
// mutate its shape again (spec.md §3 "Resolved node").
package resolved

import (
	"sync/atomic"

	"github.com/xpodev/miniz/internal/ast"
	"github.com/xpodev/miniz/internal/miniscope"
)

// Node is the base interface every resolved node implements.
type Node interface {
	ID() uint64
	// AST returns the syntax node this resolved node was built from,
	// or nil for nodes synthesized by the resolver or compiler
	// (e.g. a function's auto-created OverloadGroup).
	AST() ast.Node
	// Scope is the scope owned by this node (its body/member scope);
	// for nodes that don't introduce one (Parameter, Var) it is the
	// scope they were declared in.
	Scope() *miniscope.Scope
	Defined() bool
	MarkDefined()
}

// Named is implemented by resolved nodes that were pushed into a
// scope under a declared name (everything but bare expressions).
type Named interface {
	Node
	DeclaredName() string
}

var idGen uint64

func nextID() uint64 { return atomic.AddUint64(&idGen, 1) }

type base struct {
	id      uint64
	astNode ast.Node
	scope   *miniscope.Scope
	defined bool
}

func newBase(n ast.Node, scope *miniscope.Scope) base {
	return base{id: nextID(), astNode: n, scope: scope}
}

func (b *base) ID() uint64                  { return b.id }
func (b *base) AST() ast.Node                { return b.astNode }
func (b *base) Scope() *miniscope.Scope      { return b.scope }
func (b *base) Defined() bool                { return b.defined }
func (b *base) MarkDefined()                 { b.defined = true }

// Ref is what an identifier resolves to: either another resolved
// node defined in the same compilation unit, or a VM-level object
// imported from elsewhere (spec.md §3 "Identifier nodes are resolved
// to either another resolved node ... or a resolved-object wrapper").
// Exactly one of Node/Object is non-nil once Bound is true.
type Ref struct {
	Bound  bool
	Node   Node
	Object any // object.Object; kept as `any` to avoid an object<->resolved import cycle
}

func RefToNode(n Node) Ref   { return Ref{Bound: true, Node: n} }
func RefToObject(o any) Ref  { return Ref{Bound: true, Object: o} }
