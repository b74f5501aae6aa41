package depend

import (
	"github.com/xpodev/miniz/internal/ast"
	"github.com/xpodev/miniz/internal/resolved"
)

// Collect walks prog's resolved tree and builds the dependency graph
// of spec.md §4.3, using refs (the name-linker's identifier bindings)
// to turn a type expression or constant expression into edges.
func Collect(prog *resolved.Program, refs map[uint64]resolved.Ref) *Graph {
	c := &collector{refs: refs, g: NewGraph()}
	c.module(prog.Top)
	return c.g
}

type collector struct {
	refs map[uint64]resolved.Ref
	g    *Graph
}

func (c *collector) module(m *resolved.Module) {
	for _, item := range m.Items {
		c.item(item)
	}
}

func (c *collector) item(n resolved.Node) {
	c.g.AddNode(n)
	switch it := n.(type) {
	case *resolved.Module:
		c.module(it)
	case *resolved.Class:
		c.class(it)
	case *resolved.Typeclass:
		for _, f := range it.Signatures {
			c.function(f)
		}
	case *resolved.TypeclassImpl:
		c.typingEdge(it, it.Typeclass)
		c.typingEdge(it, it.Target)
		for _, f := range it.Methods {
			c.function(f)
		}
	case *resolved.Function:
		c.function(it)
	case *resolved.Var:
		c.variable(it)
	case *resolved.GenericParameter:
		astG, ok := it.AST().(*ast.GenericParameter)
		if ok && astG.Constraint != nil {
			c.typingEdge(it, astG.Constraint)
		}
	}
}

func (c *collector) class(cl *resolved.Class) {
	for _, b := range cl.Bases {
		c.typingEdge(cl, b)
	}
	for _, g := range cl.Generics {
		c.item(g)
	}
	for _, item := range cl.Items {
		c.g.AddNode(item)
		c.item(item)
	}
}

func (c *collector) function(f *resolved.Function) {
	astFn, ok := f.AST().(*ast.Function)
	if !ok {
		return
	}
	for _, astParam := range astFn.Params {
		if astParam.Type != nil {
			c.typingEdge(f, astParam.Type)
		}
		if astParam.Default != nil {
			// A default value is a constant expression the compiler
			// must evaluate; spec.md §4.3 CT-dependency.
			for _, dep := range c.constRefs(astParam.Default) {
				c.g.AddEdge(f, dep, CompileTimeEdge)
			}
		}
	}
	if astFn.ReturnType != nil {
		c.typingEdge(f, astFn.ReturnType)
	}
}

func (c *collector) variable(v *resolved.Var) {
	astVar, ok := v.AST().(*ast.Var)
	if !ok {
		return
	}
	if astVar.Type != nil {
		c.typingEdge(v, astVar.Type)
	}
	if astVar.Init != nil {
		for _, dep := range c.constRefs(astVar.Init) {
			c.g.AddEdge(v, dep, CompileTimeEdge)
		}
	}
}

// typingEdge implements spec.md §4.3's typing variant: a direct
// identifier reference to a type needs only that type's declaration
// (RuntimeEdge); anything else (member access, generic instantiation
// call) falls back to CompileTimeEdge over its transitive references,
// since evaluating it requires more than just the referenced
// declaration existing.
func (c *collector) typingEdge(from resolved.Node, t ast.TypeExpression) {
	if id, ok := t.(*ast.Identifier); ok {
		if ref, ok := c.refs[id.ID()]; ok && ref.Bound && ref.Node != nil {
			c.g.AddEdge(from, ref.Node, RuntimeEdge)
		}
		return
	}
	for _, dep := range c.constRefs(t) {
		c.g.AddEdge(from, dep, CompileTimeEdge)
	}
}

// constRefs gathers every resolved node a constant expression
// transitively references, by walking its identifiers through refs.
func (c *collector) constRefs(e ast.Expression) []resolved.Node {
	if e == nil {
		return nil
	}
	g := &refGatherer{refs: c.refs, seen: map[resolved.Node]bool{}}
	e.Accept(g)
	return g.out
}

// refGatherer implements ast.Visitor to collect every resolved.Node an
// expression's identifiers are bound to (spec.md Design Notes:
// exhaustive static dispatch, not a hash-keyed switch).
type refGatherer struct {
	ast.BaseVisitor
	refs map[uint64]resolved.Ref
	seen map[resolved.Node]bool
	out  []resolved.Node
}

func (g *refGatherer) VisitIdentifier(id *ast.Identifier) {
	ref, ok := g.refs[id.ID()]
	if !ok || !ref.Bound || ref.Node == nil || g.seen[ref.Node] {
		return
	}
	g.seen[ref.Node] = true
	g.out = append(g.out, ref.Node)
}

func (g *refGatherer) VisitMemberAccess(m *ast.MemberAccess) { m.Target.Accept(g) }
func (g *refGatherer) VisitCall(call *ast.Call) {
	call.Callee.Accept(g)
	for _, a := range call.Args {
		a.Value.Accept(g)
	}
}
func (g *refGatherer) VisitAssign(a *ast.Assign) { a.Target.Accept(g); a.Value.Accept(g) }
func (g *refGatherer) VisitBinary(b *ast.Binary) { b.Left.Accept(g); b.Right.Accept(g) }
func (g *refGatherer) VisitUnary(u *ast.Unary)   { u.Operand.Accept(g) }
func (g *refGatherer) VisitBlock(b *ast.Block) {
	for _, s := range b.Statements {
		if es, ok := s.(*ast.ExpressionStatement); ok {
			es.Expr.Accept(g)
		}
	}
}
func (g *refGatherer) VisitIf(i *ast.If) {
	i.Cond.Accept(g)
	i.Then.Accept(g)
	if i.Else != nil {
		i.Else.Accept(g)
	}
}
