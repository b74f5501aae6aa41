// Package ast defines the untyped syntax tree produced by the Z#
// parser (an external collaborator, see SPEC_FULL.md §6). Nodes are
// pure data: tagged variants carrying child nodes and span
// information. The AST is immutable after parsing — every later pass
// builds a parallel resolved.Node tree instead of mutating these.
package ast

import (
	"sync/atomic"

	"github.com/xpodev/miniz/internal/token"
)

// Node is the base interface implemented by every AST node.
type Node interface {
	// ID is a stable numeric identifier assigned at construction,
	// used to key caches by AST identity instead of by pointer or by
	// hashing content (see spec.md §9).
	ID() uint64

	TokenLiteral() string
	Pos() token.Span

	// Accept dispatches to the matching Visit method, giving
	// exhaustive static dispatch over the node kinds instead of a
	// kind-tagged switch scattered through every pass.
	Accept(v Visitor)
}

// Expression is a Node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is a Node that performs an action.
type Statement interface {
	Node
	statementNode()
}

// Declaration is a Statement that introduces a name into its
// enclosing scope (function, class, typeclass, typeclass impl,
// module, var, import, export). Every Declaration is also a
// Statement so it can appear in a module or block body.
type Declaration interface {
	Statement
	declarationNode()
	DeclaredName() string
}

// idGen assigns stable IDs to nodes as they are constructed.
var idGen uint64

// NextID returns a fresh, process-wide unique AST node identifier.
// The parser calls this once per node it constructs; it is exported
// so that synthetic nodes created by the resolver (e.g. a synthesized
// overload group) can participate in the same identity space.
func NextID() uint64 {
	return atomic.AddUint64(&idGen, 1)
}

type base struct {
	id   uint64
	span token.Span
}

func newBase(span token.Span) base {
	return base{id: NextID(), span: span}
}

func (b base) ID() uint64        { return b.id }
func (b base) Pos() token.Span   { return b.span }

// Program is the root node: the ordered list of top-level statements
// parsed from one document.
type Program struct {
	base
	Document   string
	Statements []Statement
}

func NewProgram(document string, span token.Span, stmts []Statement) *Program {
	p := &Program{base: newBase(span), Document: document, Statements: stmts}
	return p
}

func (p *Program) Accept(v Visitor)        { v.VisitProgram(p) }
func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}
