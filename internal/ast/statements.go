package ast

import "github.com/xpodev/miniz/internal/token"

// ExpressionStatement wraps an Expression so it can appear where a
// Statement is expected (spec.md §3 "expression-statement").
type ExpressionStatement struct {
	base
	Expr Expression
}

func NewExpressionStatement(expr Expression) *ExpressionStatement {
	return &ExpressionStatement{base: newBase(expr.Pos()), Expr: expr}
}

func (e *ExpressionStatement) Accept(v Visitor)     { v.VisitExpressionStatement(e) }
func (e *ExpressionStatement) TokenLiteral() string { return e.Expr.TokenLiteral() }
func (e *ExpressionStatement) statementNode()       {}

// Break is `break [label]`.
type Break struct {
	base
	Tok   token.Token
	Label string
}

func NewBreak(tok token.Token, label string) *Break {
	return &Break{base: newBase(tok.Span), Tok: tok, Label: label}
}

func (b *Break) Accept(v Visitor)     { v.VisitBreak(b) }
func (b *Break) TokenLiteral() string { return b.Tok.Lexeme }
func (b *Break) statementNode()       {}

// Continue is `continue [label]`.
type Continue struct {
	base
	Tok   token.Token
	Label string
}

func NewContinue(tok token.Token, label string) *Continue {
	return &Continue{base: newBase(tok.Span), Tok: tok, Label: label}
}

func (c *Continue) Accept(v Visitor)     { v.VisitContinue(c) }
func (c *Continue) TokenLiteral() string { return c.Tok.Lexeme }
func (c *Continue) statementNode()       {}

// Return is `return [Value]`. Value is nil for a bare `return`.
type Return struct {
	base
	Tok   token.Token
	Value Expression
}

func NewReturn(tok token.Token, value Expression) *Return {
	return &Return{base: newBase(tok.Span), Tok: tok, Value: value}
}

func (r *Return) Accept(v Visitor)     { v.VisitReturn(r) }
func (r *Return) TokenLiteral() string { return r.Tok.Lexeme }
func (r *Return) statementNode()       {}

// Var is a `var Name[: Type][= Init]` declaration. At module/class
// scope it is registered by the resolver registry pass; inside a
// function body it is registered lazily when the body compiler first
// visits it (spec.md §4.2).
type Var struct {
	base
	Tok    token.Token
	Name   *Identifier
	Type   TypeExpression // nil if not annotated
	Init   Expression     // nil if not initialized
	Static bool           // true for a class field declared `static`
}

func NewVar(tok token.Token, name *Identifier, typ TypeExpression, init Expression) *Var {
	return &Var{base: newBase(tok.Span), Tok: tok, Name: name, Type: typ, Init: init}
}

func (vr *Var) Accept(v Visitor)       { v.VisitVar(vr) }
func (vr *Var) TokenLiteral() string   { return vr.Tok.Lexeme }
func (vr *Var) statementNode()         {}
func (vr *Var) declarationNode()       {}
func (vr *Var) DeclaredName() string   { return vr.Name.Name }
