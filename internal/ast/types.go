package ast

import "github.com/xpodev/miniz/internal/token"

// TypeExpression is the subset of Expression used in type position
// (after a `:`). Most type expressions are ordinary Identifier or
// MemberAccess nodes; this marker exists so the dependency finder
// (spec.md §4.3) can recognize "a direct identifier reference to a
// type" without re-deriving it from the expression shape.
type TypeExpression interface {
	Expression
	typeExpressionNode()
}

func (*Identifier) typeExpressionNode()   {}
func (*MemberAccess) typeExpressionNode() {}
func (*Call) typeExpressionNode()         {} // e.g. `Box[Int32]` generic instantiation in type position

// LiteralKind distinguishes the decoded form of a Literal node.
type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitFloat
	LitString
	LitBool
	LitNull
	LitUnit
)

// Literal is a literal value as written in source. Text decoding
// (integer suffixes, escape sequences) happens in the resolver
// name-linker pass (spec.md §4.2), not here — the AST retains the raw
// text so re-decoding is idempotent and so span round-trips hold.
type Literal struct {
	base
	Tok    token.Token
	Kind   LiteralKind
	Text   string // raw lexeme, suffix included
}

func NewLiteral(tok token.Token, kind LiteralKind) *Literal {
	return &Literal{base: newBase(tok.Span), Tok: tok, Kind: kind, Text: tok.Lexeme}
}

func (l *Literal) Accept(v Visitor)        { v.VisitLiteral(l) }
func (l *Literal) TokenLiteral() string    { return l.Tok.Lexeme }
func (l *Literal) expressionNode()         {}
func (l *Literal) typeExpressionNode()     {}
