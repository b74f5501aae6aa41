package resolved

import (
	"github.com/xpodev/miniz/internal/ast"
	"github.com/xpodev/miniz/internal/miniscope"
)

// Program is the root of one document's resolved tree: the implicit
// top-level Module plus the scope it was resolved in (its parent is
// the import system's shared prelude scope, if any).
type Program struct {
	base
	Document string
	Top      *Module
}

func NewProgram(n *ast.Program, scope *miniscope.Scope, top *Module) *Program {
	return &Program{base: newBase(n, scope), Document: n.Document, Top: top}
}
