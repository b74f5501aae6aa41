// Package driver implements the toolchain driver of spec.md §4.8: a
// per-document pipeline from parsed AST through to a fully-defined
// object.Module, memoized per absolute path so re-entering the same
// document (directly or through an import) is a cache hit, and the
// compilation context of spec.md §11 that ties scopes, modules,
// document caches and the active import system together. Grounded on
// the teacher's internal/pipeline/pipeline.go (a linear list of
// Processor stages threaded through one Context, each Process call
// returning a possibly-updated Context) but specialized to the five
// named stages of spec.md §4.8 (AST, ResolvedAST, BuildOrder,
// Objects, DocumentContext) instead of a generic processor list,
// since this core's stage sequence is fixed, not configurable.
package driver

import (
	"fmt"
	"path/filepath"

	"github.com/xpodev/miniz/internal/ast"
	"github.com/xpodev/miniz/internal/compiler"
	"github.com/xpodev/miniz/internal/depend"
	"github.com/xpodev/miniz/internal/diagnostics"
	"github.com/xpodev/miniz/internal/imports"
	"github.com/xpodev/miniz/internal/miniscope"
	"github.com/xpodev/miniz/internal/object"
	"github.com/xpodev/miniz/internal/resolved"
	"github.com/xpodev/miniz/internal/resolver"
)

// ParseFunc turns a document's source text into an AST (spec.md §6:
// the lexer and parser are external collaborators; the driver only
// needs something that satisfies this shape — internal/parser's
// stub, or a hand-written fixture in a test).
type ParseFunc func(document, source string) (*ast.Program, error)

// DocumentContext is one document's full pipeline state, the
// "DocumentContext" stage of spec.md §4.8 and the unit the driver's
// cache memoizes on. Each stage's result is nil until that stage has
// run; the unexported stage field records how far a context has
// gotten.
type DocumentContext struct {
	Path    string
	Dir     string
	Source  string
	Program *ast.Program
	Resolved *resolved.Program
	Order   []depend.Class
	Module  *object.Module
	State   *diagnostics.State
	Context *compiler.Context

	stage stageKind
}

type stageKind int

const (
	stageNone stageKind = iota
	stageAST
	stageResolvedAST
	stageBuildOrder
	stageObjects
)

// Scope returns d's top-level module scope as an imports.Scope, once
// Objects has run — the value an importing document's ImportedName
// resolves against.
func (d *DocumentContext) Scope() imports.Scope {
	return moduleScope{d.Module}
}

// moduleScope adapts an *object.Module's resolved-node scope to
// imports.Scope, looking up a non-recursive (this module's own) name
// and returning whatever resolved.Node or value it is bound to —
// exactly what resolved.RefToNode/RefToObject downstream expects.
type moduleScope struct{ mod *object.Module }

func (m moduleScope) GetName(name string) (any, bool) {
	if m.mod == nil || m.mod.Scope == nil {
		return nil, false
	}
	v, err := m.mod.Scope.Lookup(name, miniscope.NonRecursive())
	if err != nil {
		return nil, false
	}
	return v, true
}

func (m moduleScope) All() []string {
	if m.mod == nil || m.mod.Scope == nil {
		return nil
	}
	return m.mod.Scope.Defined()
}

// Pipeline runs documents through AST→ResolvedAST→BuildOrder→Objects,
// owning the shared prelude scope, the import system every document
// sees, and a cache of DocumentContext keyed by absolute path (spec.md
// §5 "Shared resources ... the import cache is per import system").
type Pipeline struct {
	Prelude *miniscope.Scope
	Imports *imports.System
	Parse   ParseFunc

	docs map[string]*DocumentContext
}

// New creates a Pipeline with a fresh prelude scope and an import
// system rooted at a ModuleScheme registered under the `module:`
// scheme (spec.md §6 "Built-in schemes: module"). parse supplies
// AST for filesystem-resolved documents; pass nil to disable
// filesystem imports (e.g. in a unit test that only exercises
// `module:core`).
func New(parse ParseFunc) *Pipeline {
	root := imports.NewSystem(nil)
	root.RegisterScheme("module", imports.NewModuleScheme())

	p := &Pipeline{
		Prelude: compiler.NewPreludeScope(),
		Imports: imports.NewSystem(root),
		Parse:   parse,
		docs:    map[string]*DocumentContext{},
	}
	if parse != nil {
		p.Imports.SetFileImporter(imports.NewFileImporter(p.compileForImport))
	}
	return p
}

// compileForImport adapts CompileDocument to imports.CompileFunc,
// reading the file at absPath and running it through the whole
// pipeline, returning its top-level Scope (spec.md §4.7 "an import
// fully completes the imported document's pipeline through Objects
// before returning").
func (p *Pipeline) compileForImport(absPath string) (imports.Scope, error) {
	src, err := readSource(absPath)
	if err != nil {
		return nil, err
	}
	dc, err := p.CompileDocument(absPath, src)
	if err != nil {
		return nil, err
	}
	return dc.Scope(), nil
}

// CompileDocument runs path through every stage, returning the cached
// result if path was already compiled (spec.md §8.6 "Idempotent
// import: importing the same path twice returns object-identical
// scopes").
func (p *Pipeline) CompileDocument(path, source string) (*DocumentContext, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if dc, ok := p.docs[abs]; ok {
		return dc, nil
	}

	dc := &DocumentContext{Path: abs, Dir: filepath.Dir(abs), Source: source, State: diagnostics.NewState()}
	p.docs[abs] = dc

	if err := p.runAST(dc); err != nil {
		return dc, err
	}
	p.runResolvedAST(dc)
	p.runBuildOrder(dc)
	p.runObjects(dc)

	if dc.State.HasErrors() {
		return dc, fmt.Errorf("%s: %s", abs, dc.State.String())
	}
	return dc, nil
}

func (p *Pipeline) runAST(dc *DocumentContext) error {
	if dc.stage >= stageAST {
		return nil
	}
	if p.Parse == nil {
		return fmt.Errorf("driver: no ParseFunc configured for %s", dc.Path)
	}
	prog, err := p.Parse(dc.Path, dc.Source)
	if err != nil {
		return err
	}
	dc.Program = prog
	dc.stage = stageAST
	return nil
}

func (p *Pipeline) runResolvedAST(dc *DocumentContext) {
	if dc.stage >= stageResolvedAST {
		return
	}
	registry := resolver.NewRegistry(dc.State)
	dc.Resolved = registry.Run(dc.Program, p.Prelude)

	linker := resolver.NewLinker(dc.State)
	linker.LinkProgram(dc.Resolved)

	resolveImports(dc, p.Imports, dc.State)

	dc.Context = compiler.NewContext(dc.State, linker, p.Imports)
	dc.stage = stageResolvedAST
}

func (p *Pipeline) runBuildOrder(dc *DocumentContext) {
	if dc.stage >= stageBuildOrder {
		return
	}
	graph := depend.Collect(dc.Resolved, dc.Context.Linker.Refs)
	order, err := depend.Order(graph)
	if err != nil {
		dc.State.Errorf(diagnostics.PhaseDepend, diagnostics.CodeDependencyCycle, dc.Program, "%v", err)
	}
	dc.Order = order
	dc.stage = stageBuildOrder
}

func (p *Pipeline) runObjects(dc *DocumentContext) {
	if dc.stage >= stageObjects {
		return
	}
	dc.Context.RequireDefinition(dc.Resolved.Top)
	dc.Module = dc.Context.Root
	dc.stage = stageObjects
}
