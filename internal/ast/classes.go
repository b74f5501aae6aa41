package ast

import "github.com/xpodev/miniz/internal/token"

// Class is `class Name[Generics] [: Base, Specs...] { Items }`. Items
// holds a mix of *Var (fields), *Function (methods, with a method
// named "new" treated as a constructor by the compiler per spec.md
// §4.4), and nested *Class/*Typeclass declarations.
type Class struct {
	base
	Tok      token.Token
	Name     *Identifier
	Generics []*GenericParameter
	Bases    []TypeExpression // first base that resolves to a class is THE base; rest must be specifications
	Items    []Statement
}

func NewClass(tok token.Token, name *Identifier, generics []*GenericParameter, bases []TypeExpression, items []Statement) *Class {
	return &Class{base: newBase(tok.Span), Tok: tok, Name: name, Generics: generics, Bases: bases, Items: items}
}

func (c *Class) Accept(v Visitor)     { v.VisitClass(c) }
func (c *Class) TokenLiteral() string { return c.Tok.Lexeme }
func (c *Class) statementNode()       {}
func (c *Class) declarationNode()     {}
func (c *Class) DeclaredName() string { return c.Name.Name }

// Typeclass is `typeclass Name[Generics] { Signatures }`. Signatures
// are *Function nodes with nil Body (the required method shapes) or
// non-nil Body (default implementations, recorded for later use by
// implementations that don't override them).
type Typeclass struct {
	base
	Tok       token.Token
	Name      *Identifier
	Generics  []*GenericParameter
	Signatures []*Function
}

func NewTypeclass(tok token.Token, name *Identifier, generics []*GenericParameter, sigs []*Function) *Typeclass {
	return &Typeclass{base: newBase(tok.Span), Tok: tok, Name: name, Generics: generics, Signatures: sigs}
}

func (t *Typeclass) Accept(v Visitor)     { v.VisitTypeclass(t) }
func (t *Typeclass) TokenLiteral() string { return t.Tok.Lexeme }
func (t *Typeclass) statementNode()       {}
func (t *Typeclass) declarationNode()     {}
func (t *Typeclass) DeclaredName() string { return t.Name.Name }

// TypeclassImpl is `impl TypeclassName for TargetType { Methods }` —
// an explicit implementation of a typeclass for a concrete type
// (spec.md §1: "typeclasses (traits with explicit implementations)").
type TypeclassImpl struct {
	base
	Tok       token.Token
	Typeclass TypeExpression
	Target    TypeExpression
	Methods   []*Function
}

func NewTypeclassImpl(tok token.Token, typeclass, target TypeExpression, methods []*Function) *TypeclassImpl {
	return &TypeclassImpl{base: newBase(tok.Span), Tok: tok, Typeclass: typeclass, Target: target, Methods: methods}
}

func (t *TypeclassImpl) Accept(v Visitor)     { v.VisitTypeclassImpl(t) }
func (t *TypeclassImpl) TokenLiteral() string { return t.Tok.Lexeme }
func (t *TypeclassImpl) statementNode()       {}
func (t *TypeclassImpl) declarationNode()     {}
func (t *TypeclassImpl) DeclaredName() string { return "" }
