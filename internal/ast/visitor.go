package ast

// Visitor is implemented by AST consumers that dispatch over node
// kinds through Accept (the name linker's expression walker and the
// dependency finder's reference gatherer, both via BaseVisitor); the
// resolver registry pass and the code compiler use type switches
// instead.
type Visitor interface {
	VisitProgram(*Program)

	VisitLiteral(*Literal)
	VisitIdentifier(*Identifier)
	VisitMemberAccess(*MemberAccess)
	VisitCall(*Call)
	VisitAssign(*Assign)
	VisitBinary(*Binary)
	VisitUnary(*Unary)
	VisitBlock(*Block)
	VisitIf(*If)
	VisitWhile(*While)
	VisitWhen(*When)

	VisitBreak(*Break)
	VisitContinue(*Continue)
	VisitReturn(*Return)
	VisitVar(*Var)
	VisitParameter(*Parameter)
	VisitFunction(*Function)
	VisitClass(*Class)
	VisitTypeclass(*Typeclass)
	VisitTypeclassImpl(*TypeclassImpl)
	VisitModule(*Module)
	VisitImport(*Import)
	VisitExport(*Export)
	VisitExpressionStatement(*ExpressionStatement)
	VisitGenericParameter(*GenericParameter)
}

// BaseVisitor implements Visitor with no-op methods. Embedding it lets
// a pass override only the node kinds it cares about.
type BaseVisitor struct{}

func (BaseVisitor) VisitProgram(*Program)                       {}
func (BaseVisitor) VisitLiteral(*Literal)                       {}
func (BaseVisitor) VisitIdentifier(*Identifier)                 {}
func (BaseVisitor) VisitMemberAccess(*MemberAccess)             {}
func (BaseVisitor) VisitCall(*Call)                             {}
func (BaseVisitor) VisitAssign(*Assign)                         {}
func (BaseVisitor) VisitBinary(*Binary)                         {}
func (BaseVisitor) VisitUnary(*Unary)                           {}
func (BaseVisitor) VisitBlock(*Block)                           {}
func (BaseVisitor) VisitIf(*If)                                 {}
func (BaseVisitor) VisitWhile(*While)                           {}
func (BaseVisitor) VisitWhen(*When)                             {}
func (BaseVisitor) VisitBreak(*Break)                           {}
func (BaseVisitor) VisitContinue(*Continue)                     {}
func (BaseVisitor) VisitReturn(*Return)                         {}
func (BaseVisitor) VisitVar(*Var)                               {}
func (BaseVisitor) VisitParameter(*Parameter)                   {}
func (BaseVisitor) VisitFunction(*Function)                     {}
func (BaseVisitor) VisitClass(*Class)                           {}
func (BaseVisitor) VisitTypeclass(*Typeclass)                   {}
func (BaseVisitor) VisitTypeclassImpl(*TypeclassImpl)           {}
func (BaseVisitor) VisitModule(*Module)                         {}
func (BaseVisitor) VisitImport(*Import)                         {}
func (BaseVisitor) VisitExport(*Export)                         {}
func (BaseVisitor) VisitExpressionStatement(*ExpressionStatement) {}
func (BaseVisitor) VisitGenericParameter(*GenericParameter)     {}
