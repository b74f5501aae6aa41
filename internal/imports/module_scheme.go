package imports

import (
	"fmt"

	"github.com/xpodev/miniz/internal/config"
	"github.com/xpodev/miniz/internal/object"
)

// ModuleScheme is the built-in `module:` scheme (spec.md §6 "Built-in
// schemes: module"): a flat registry of pre-built in-process Scopes
// keyed by name. It generalizes the teacher's virtual packages
// (internal/modules/virtual_init.go's InitVirtualPackages /
// RegisterVirtualPackage) from type-signature-only stubs — Funxy's
// evaluator is a separate tree-walker — to fully runnable
// object-model values, since this core's VM is the only runtime
// there is (spec.md §1 "no runtime separate from the compile-time
// VM").
type ModuleScheme struct {
	modules map[string]Scope
}

// NewModuleScheme builds the scheme with the well-known `core` module
// pre-registered, exposing `print` (spec.md §8 end-to-end scenario
// "import { print } from \"module:core\"").
func NewModuleScheme() *ModuleScheme {
	ms := &ModuleScheme{modules: map[string]Scope{}}
	ms.Register(config.CoreModuleName, coreModule())
	return ms
}

// Register installs a built-in module scope under name, so additional
// `module:` targets beyond `core` can be added without touching the
// scheme's dispatch logic (mirrors RegisterVirtualPackage's role).
func (ms *ModuleScheme) Register(name string, sc Scope) { ms.modules[name] = sc }

// Import implements Importer; rest is the module name after
// `module:`.
func (ms *ModuleScheme) Import(rest, _ string) (Scope, error) {
	if sc, ok := ms.modules[rest]; ok {
		return sc, nil
	}
	return nil, fmt.Errorf("%w: module %q", ErrNotResolvable, rest)
}

// coreModule builds the `core` module's single export: a `print`
// function whose Native closure writes its argument to stdout via
// object.Display and returns Unit.
func coreModule() Scope {
	print := object.NewFunction(config.PrintFuncName)
	print.Positional = []*object.Parameter{{Name: "value", Type: object.Any, Slot: 0}}
	print.ReturnType = object.Unit
	print.Defined = true
	print.Native = func(args []object.Object) (object.Object, error) {
		if len(args) == 0 {
			fmt.Println()
			return object.UnitValue, nil
		}
		fmt.Println(object.Display(args[0]))
		return object.UnitValue, nil
	}
	return mapScope{config.PrintFuncName: print}
}
