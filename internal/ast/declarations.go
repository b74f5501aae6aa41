package ast

import "github.com/xpodev/miniz/internal/token"

// ParameterKind distinguishes the four parameter forms a Function
// signature may declare (spec.md §3 Function: "positional parameters,
// named parameters, variadic positional, variadic named").
type ParameterKind int

const (
	Positional ParameterKind = iota
	Named
	VariadicPositional
	VariadicNamed
)

// Parameter is one entry of a Function signature.
type Parameter struct {
	base
	Name    *Identifier
	Type    TypeExpression // nil means untyped -> Any
	Kind    ParameterKind
	Default Expression // nil if no default value
}

func NewParameter(span token.Span, name *Identifier, typ TypeExpression, kind ParameterKind, def Expression) *Parameter {
	return &Parameter{base: newBase(span), Name: name, Type: typ, Kind: kind, Default: def}
}

func (p *Parameter) Accept(v Visitor)     { v.VisitParameter(p) }
func (p *Parameter) TokenLiteral() string { return p.Name.Name }
func (p *Parameter) statementNode()       {}
func (p *Parameter) declarationNode()     {}
func (p *Parameter) DeclaredName() string { return p.Name.Name }

// GenericParameter is a named type-level binding participating in a
// generic signature (class or function).
type GenericParameter struct {
	base
	Name       *Identifier
	Constraint TypeExpression // optional upper bound / typeclass requirement
}

func NewGenericParameter(span token.Span, name *Identifier, constraint TypeExpression) *GenericParameter {
	return &GenericParameter{base: newBase(span), Name: name, Constraint: constraint}
}

func (g *GenericParameter) Accept(v Visitor)     { v.VisitGenericParameter(g) }
func (g *GenericParameter) TokenLiteral() string { return g.Name.Name }
func (g *GenericParameter) statementNode()       {}
func (g *GenericParameter) declarationNode()     {}
func (g *GenericParameter) DeclaredName() string { return g.Name.Name }
func (g *GenericParameter) typeExpressionNode()  {}
func (g *GenericParameter) expressionNode()      {}

// Function is `fun Name[GenericParams](Params)[: Return] Body`. Body
// is nil for an external/forward declaration.
type Function struct {
	base
	Tok        token.Token
	Name       *Identifier
	Generics   []*GenericParameter
	Params     []*Parameter
	ReturnType TypeExpression // nil means infer (spec.md §4.4)
	Body       *Block         // nil for forward/external declarations
	Overload   bool           // explicit `overload` directive present
	Static     bool           // true for a class method declared `static`
}

func NewFunction(tok token.Token, name *Identifier, generics []*GenericParameter, params []*Parameter, ret TypeExpression, body *Block) *Function {
	return &Function{base: newBase(tok.Span), Tok: tok, Name: name, Generics: generics, Params: params, ReturnType: ret, Body: body}
}

func (f *Function) Accept(v Visitor)     { v.VisitFunction(f) }
func (f *Function) TokenLiteral() string { return f.Tok.Lexeme }
func (f *Function) statementNode()       {}
func (f *Function) declarationNode()     {}
func (f *Function) DeclaredName() string { return f.Name.Name }

// Module is a `module Name { Items }` declaration. The top-level
// Program of a document is implicitly wrapped in an unnamed module by
// the resolver if it contains no explicit module statement.
type Module struct {
	base
	Tok   token.Token
	Name  *Identifier // nil for the implicit top-level module
	Items []Statement
}

func NewModule(tok token.Token, name *Identifier, items []Statement) *Module {
	return &Module{base: newBase(tok.Span), Tok: tok, Name: name, Items: items}
}

func (m *Module) Accept(v Visitor)     { v.VisitModule(m) }
func (m *Module) TokenLiteral() string { return m.Tok.Lexeme }
func (m *Module) statementNode()       {}
func (m *Module) declarationNode()     {}
func (m *Module) DeclaredName() string {
	if m.Name == nil {
		return ""
	}
	return m.Name.Name
}

// ImportedSymbol is one `{ Name [as Alias] }` entry of an Import.
type ImportedSymbol struct {
	Name  *Identifier
	Alias *Identifier // nil if not aliased
}

// Import is `import { Symbols } from "Source"`. Source is either a
// `scheme:rest` string or a filesystem-resolvable path (spec.md §6).
type Import struct {
	base
	Tok     token.Token
	Symbols []ImportedSymbol
	Source  string
}

func NewImport(tok token.Token, symbols []ImportedSymbol, source string) *Import {
	return &Import{base: newBase(tok.Span), Tok: tok, Symbols: symbols, Source: source}
}

func (i *Import) Accept(v Visitor)     { v.VisitImport(i) }
func (i *Import) TokenLiteral() string { return i.Tok.Lexeme }
func (i *Import) statementNode()       {}
func (i *Import) declarationNode()     {}
func (i *Import) DeclaredName() string { return "" }

// Export is `export *|{ Names } [from "Source"]`. Star is true for
// `export *`; per spec.md §9 Open Questions, `*` without a Source
// means "copy all defined names from the current module", and `*`
// combined with an alias on any entry is rejected by the resolver.
type Export struct {
	base
	Tok    token.Token
	Star   bool
	Names  []ImportedSymbol
	Source string // "" if re-exporting from the current module
}

func NewExport(tok token.Token, star bool, names []ImportedSymbol, source string) *Export {
	return &Export{base: newBase(tok.Span), Tok: tok, Star: star, Names: names, Source: source}
}

func (e *Export) Accept(v Visitor)     { v.VisitExport(e) }
func (e *Export) TokenLiteral() string { return e.Tok.Lexeme }
func (e *Export) statementNode()       {}
func (e *Export) declarationNode()     {}
func (e *Export) DeclaredName() string { return "" }
