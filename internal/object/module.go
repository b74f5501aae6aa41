package object

import "github.com/xpodev/miniz/internal/miniscope"

// Module is a named container of types, functions and nested modules
// (spec.md §3 Module). A document's top-level program evaluates into
// one Module.
type Module struct {
	Name        string
	Types       []*Class
	Functions   []*Function
	Submodules  []*Module
	Scope       *miniscope.Scope
	Defined     bool
}

func NewModule(name string, scope *miniscope.Scope) *Module {
	return &Module{Name: name, Scope: scope}
}

func (m *Module) RuntimeType() Type { return Any }

// FindType returns the class by name declared directly in m (no
// submodule descent).
func (m *Module) FindType(name string) (*Class, bool) {
	for _, c := range m.Types {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// FindSubmodule returns the directly-nested submodule by name.
func (m *Module) FindSubmodule(name string) (*Module, bool) {
	for _, s := range m.Submodules {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}
