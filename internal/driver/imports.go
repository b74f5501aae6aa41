package driver

import (
	"os"

	"github.com/xpodev/miniz/internal/ast"
	"github.com/xpodev/miniz/internal/diagnostics"
	"github.com/xpodev/miniz/internal/imports"
	"github.com/xpodev/miniz/internal/miniscope"
	"github.com/xpodev/miniz/internal/resolved"
)

// resolveImports walks dc's top-level `import` statements, resolves
// each Source through sys, and binds every resulting
// resolved.ImportedName's Target (spec.md §4.11 "ties scopes,
// modules, document caches, and the active import system together").
// This must run after the Registry has registered names (which puts
// each ImportedName in the document's top scope). LinkProgram runs
// before it and links signatures and var initializers eagerly; those
// references stay bound to the ImportedName node, whose Target this
// pass fills in. Function bodies are linked lazily, via
// LinkFunctionBody, strictly later than this pass.
func resolveImports(dc *DocumentContext, sys *imports.System, state *diagnostics.State) {
	if dc.Resolved == nil || dc.Program == nil {
		return
	}
	scope := dc.Resolved.Scope()
	for _, stmt := range dc.Program.Statements {
		imp, ok := stmt.(*ast.Import)
		if !ok {
			continue
		}
		resolveOneImport(imp, scope, sys, dc.Dir, state)
	}
}

func resolveOneImport(imp *ast.Import, scope *miniscope.Scope, sys *imports.System, fromDir string, state *diagnostics.State) {
	if sys == nil {
		state.Errorf(diagnostics.PhaseImport, diagnostics.CodeImportNotResolvable, imp,
			"no import system configured for %q", imp.Source)
		return
	}
	src, err := sys.Resolve(imp.Source, fromDir)
	if err != nil {
		state.Errorf(diagnostics.PhaseImport, diagnostics.CodeImportNotResolvable, imp,
			"%v", err)
		return
	}

	for _, sym := range imp.Symbols {
		local := sym.Name.Name
		if sym.Alias != nil {
			local = sym.Alias.Name
		}
		v, err := scope.Lookup(local, miniscope.NonRecursive())
		if err != nil {
			continue
		}
		in, ok := v.(*resolved.ImportedName)
		if !ok {
			continue
		}
		val, found := src.GetName(in.SourceName)
		if !found {
			state.Errorf(diagnostics.PhaseImport, diagnostics.CodeImportNotResolvable, imp,
				"%q has no export named %q", imp.Source, in.SourceName)
			continue
		}
		in.Target = refFromExport(val)
	}
}

// refFromExport builds a resolved.Ref from whatever an Importer's
// Scope.GetName returned: a resolved.Node for a filesystem-imported
// document's exports (internal/compiler/module.go's object.Module.Scope
// holds resolved nodes), or a raw runtime value for a built-in module
// scheme like `module:core` (internal/imports.ModuleScheme), which has
// no resolved tree of its own.
func refFromExport(val any) resolved.Ref {
	if n, ok := val.(resolved.Node); ok {
		return resolved.RefToNode(n)
	}
	return resolved.RefToObject(val)
}

func readSource(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
