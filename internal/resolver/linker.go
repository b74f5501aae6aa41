package resolver

import (
	"github.com/xpodev/miniz/internal/ast"
	"github.com/xpodev/miniz/internal/diagnostics"
	"github.com/xpodev/miniz/internal/miniscope"
	"github.com/xpodev/miniz/internal/object"
	"github.com/xpodev/miniz/internal/resolved"
)

// Linker runs the name-linker pass (spec.md §4.2): it walks the
// resolved tree the Registry built, replacing every AST identifier
// reference with a lookup in the scope it is used from. Resolution of
// a given identifier is idempotent and memoized in `bound`, keyed by
// the ast.Identifier's node ID.
type Linker struct {
	state *diagnostics.State
	bound map[uint64]bool
	// Literals holds the decoded value of every literal the linker
	// has visited, keyed by the ast.Literal's node ID (spec.md §3:
	// literal decoding happens here, not in the parser).
	Literals map[uint64]object.Object
	// Refs holds what every resolved ast.Identifier use-site is bound
	// to, keyed by the identifier's node ID. The compiler reads this
	// when it compiles an Identifier expression.
	Refs map[uint64]resolved.Ref
}

func NewLinker(state *diagnostics.State) *Linker {
	return &Linker{
		state:    state,
		bound:    map[uint64]bool{},
		Literals: map[uint64]object.Object{},
		Refs:     map[uint64]resolved.Ref{},
	}
}

// LinkProgram resolves every eagerly-resolvable reference in prog:
// class bases/generic constraints, function/method signatures, field
// and module-level var types and initializers. Function and method
// bodies are left unvisited until LinkFunctionBody is called on them
// (spec.md §4.2 "descends into function bodies lazily").
func (l *Linker) LinkProgram(prog *resolved.Program) {
	l.linkModule(prog.Top)
}

func (l *Linker) linkModule(m *resolved.Module) {
	for _, item := range m.Items {
		l.linkItem(item)
	}
}

func (l *Linker) linkItem(n resolved.Node) {
	switch it := n.(type) {
	case *resolved.Module:
		l.linkModule(it)
	case *resolved.Class:
		l.linkClass(it)
	case *resolved.Typeclass:
		for _, f := range it.Signatures {
			l.linkFunctionSignature(f)
		}
	case *resolved.TypeclassImpl:
		l.linkTypeExpr(it.Typeclass, it.Scope())
		l.linkTypeExpr(it.Target, it.Scope())
		for _, f := range it.Methods {
			l.linkFunctionSignature(f)
		}
	case *resolved.Function:
		l.linkFunctionSignature(it)
	case *resolved.Var:
		l.linkVar(it)
	case *resolved.GenericParameter:
		l.linkGenericParameter(it)
	}
}

func (l *Linker) linkClass(c *resolved.Class) {
	for _, g := range c.Generics {
		l.linkGenericParameter(g)
	}
	for _, b := range c.Bases {
		l.linkTypeExpr(b, c.Scope())
	}
	for _, item := range c.Items {
		l.linkItem(item)
	}
}

func (l *Linker) linkGenericParameter(g *resolved.GenericParameter) {
	astG, ok := g.AST().(*ast.GenericParameter)
	if !ok || astG.Constraint == nil {
		return
	}
	l.linkTypeExpr(astG.Constraint, g.Scope())
}

func (l *Linker) linkVar(v *resolved.Var) {
	astVar, ok := v.AST().(*ast.Var)
	if !ok {
		return
	}
	if astVar.Type != nil {
		l.linkTypeExpr(astVar.Type, v.Scope())
	}
	if astVar.Init != nil {
		l.linkExpr(astVar.Init, v.Scope())
	}
}

func (l *Linker) linkFunctionSignature(f *resolved.Function) {
	astFn, ok := f.AST().(*ast.Function)
	if !ok {
		return
	}
	for _, p := range f.Params {
		astParam, ok := p.AST().(*ast.Parameter)
		if !ok {
			continue
		}
		if astParam.Type != nil {
			l.linkTypeExpr(astParam.Type, f.SignatureScope)
		}
		if astParam.Default != nil {
			l.linkExpr(astParam.Default, f.SignatureScope)
		}
	}
	if astFn.ReturnType != nil {
		l.linkTypeExpr(astFn.ReturnType, f.SignatureScope)
	}
}

// LinkFunctionBody links f's body on first use; later calls are a
// no-op (spec.md §4.2 idempotence).
func (l *Linker) LinkFunctionBody(f *resolved.Function) {
	if f.BodyVisited {
		return
	}
	f.BodyVisited = true
	astFn, ok := f.AST().(*ast.Function)
	if !ok || astFn.Body == nil {
		return
	}
	l.linkBlock(astFn.Body, f.Scope())
}

// linkTypeExpr resolves the identifier(s) inside a type-position
// expression the same way as any other expression; TypeExpression is
// a marker over Expression (spec.md ast/types.go), so this is just
// linkExpr with a clearer name at call sites.
func (l *Linker) linkTypeExpr(t ast.TypeExpression, scope *miniscope.Scope) {
	l.linkExpr(t, scope)
}

func (l *Linker) linkExpr(e ast.Expression, scope *miniscope.Scope) {
	if e == nil {
		return
	}
	e.Accept(&exprLinker{l: l, scope: scope})
}

// linkBlock creates a child scope for the block's locals and links
// every statement in it, returning the new scope (no caller keeps it).
func (l *Linker) linkBlock(b *ast.Block, scope *miniscope.Scope) *miniscope.Scope {
	child := scope.NewChild("block")
	for _, stmt := range b.Statements {
		l.linkStatement(stmt, child)
	}
	return child
}

func (l *Linker) linkStatement(stmt ast.Statement, scope *miniscope.Scope) {
	switch s := stmt.(type) {
	case *ast.Var:
		if s.Type != nil {
			l.linkTypeExpr(s.Type, scope)
		}
		if s.Init != nil {
			l.linkExpr(s.Init, scope)
		}
		v := resolved.NewVar(s, scope)
		if err := scope.Create(s.DeclaredName(), v); err != nil {
			l.state.Errorf(diagnostics.PhaseResolve, diagnostics.CodeNameAlreadyBound, s,
				"%q: %v", s.DeclaredName(), err)
		}
	case *ast.ExpressionStatement:
		l.linkExpr(s.Expr, scope)
	case *ast.Return:
		if s.Value != nil {
			l.linkExpr(s.Value, scope)
		}
	case *ast.Break, *ast.Continue:
		// Labels are bare strings resolved against enclosing loop
		// labels by the code compiler, not against the name scope.
	}
}

// bindIdentifier resolves id against scope, memoizing the result into
// l.Refs (spec.md §4.2 "Resolving nodes is idempotent and memoized via
// a 'resolved' set"). An ImportedName target defers to whatever the
// import was ultimately bound to once the source document's own
// pipeline reaches Objects; until then it resolves to the
// ImportedName node itself.
func (l *Linker) bindIdentifier(id *ast.Identifier, scope *miniscope.Scope) {
	if l.bound[id.ID()] {
		return
	}
	l.bound[id.ID()] = true

	v, err := scope.Lookup(id.Name)
	if err != nil {
		l.state.Errorf(diagnostics.PhaseResolve, diagnostics.CodeNameNotFound, id,
			"%q: %v", id.Name, err)
		return
	}
	if in, ok := v.(*resolved.ImportedName); ok && in.Target.Bound {
		l.Refs[id.ID()] = in.Target
		return
	}
	if n, ok := v.(resolved.Node); ok {
		l.Refs[id.ID()] = resolved.RefToNode(n)
		return
	}
	l.Refs[id.ID()] = resolved.RefToObject(v)
}

// exprLinker implements ast.Visitor to drive linkExpr's recursive
// descent (spec.md Design Notes: exhaustive static dispatch over node
// kinds rather than a hash-keyed switch).
type exprLinker struct {
	ast.BaseVisitor
	l     *Linker
	scope *miniscope.Scope
}

func (v *exprLinker) VisitLiteral(lit *ast.Literal) {
	if _, ok := v.l.Literals[lit.ID()]; ok {
		return
	}
	val, err := decodeLiteral(lit)
	if err != nil {
		v.l.state.Errorf(diagnostics.PhaseResolve, diagnostics.CodeUnexpectedToken, lit,
			"%v", err)
		return
	}
	v.l.Literals[lit.ID()] = val
}

func (v *exprLinker) VisitIdentifier(id *ast.Identifier) {
	v.l.bindIdentifier(id, v.scope)
}

func (v *exprLinker) VisitMemberAccess(m *ast.MemberAccess) {
	v.l.linkExpr(m.Target, v.scope)
	// m.Member is resolved against the target's static type's member
	// set by the compiler (spec.md §4.4), not against a name scope
	// here — the linker only has untyped scopes to search.
}

func (v *exprLinker) VisitCall(c *ast.Call) {
	v.l.linkExpr(c.Callee, v.scope)
	for _, a := range c.Args {
		v.l.linkExpr(a.Value, v.scope)
	}
}

func (v *exprLinker) VisitAssign(a *ast.Assign) {
	v.l.linkExpr(a.Target, v.scope)
	v.l.linkExpr(a.Value, v.scope)
}

func (v *exprLinker) VisitBinary(b *ast.Binary) {
	v.l.linkExpr(b.Left, v.scope)
	v.l.linkExpr(b.Right, v.scope)
}

func (v *exprLinker) VisitUnary(u *ast.Unary) {
	v.l.linkExpr(u.Operand, v.scope)
}

func (v *exprLinker) VisitBlock(b *ast.Block) {
	v.l.linkBlock(b, v.scope)
}

func (v *exprLinker) VisitIf(i *ast.If) {
	v.l.linkExpr(i.Cond, v.scope)
	v.l.linkExpr(i.Then, v.scope)
	if i.Else != nil {
		v.l.linkExpr(i.Else, v.scope)
	}
}

func (v *exprLinker) VisitWhile(w *ast.While) {
	v.l.linkExpr(w.Cond, v.scope)
	v.l.linkExpr(w.Body, v.scope)
	if w.Else != nil {
		v.l.linkExpr(w.Else, v.scope)
	}
}

func (v *exprLinker) VisitWhen(w *ast.When) {
	v.l.linkExpr(w.Subject, v.scope)
	for _, c := range w.Cases {
		for _, val := range c.Values {
			v.l.linkExpr(val, v.scope)
		}
		v.l.linkExpr(c.Body, v.scope)
	}
}
