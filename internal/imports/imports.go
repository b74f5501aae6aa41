// Package imports implements spec.md §4.7: the import system that
// routes a source string — `scheme:rest` or a filesystem path —
// through a chain of importers, handing back a Scope the resolver's
// name-linker binds an ImportedName's Target against. Grounded on the
// teacher's internal/modules/loader.go (filesystem resolution,
// detectPackageExtension/hasSourceFiles) and
// internal/modules/virtual_init.go (a flat built-in-package registry,
// generalized here into the `module:` scheme), with the generic
// routing/caching pulled out into its own System/Importer/Scope
// protocol instead of one concrete Loader doing everything.
package imports

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrSchemeNotRegistered is returned when a `scheme:rest` source
// names a scheme no importer has been registered for (spec.md §7
// "Import errors: ... scheme not registered").
var ErrSchemeNotRegistered = errors.New("import scheme not registered")

// ErrNotResolvable is returned when a source cannot be turned into a
// Scope by any importer in the chain (spec.md §7 "source not
// resolvable").
var ErrNotResolvable = errors.New("import source not resolvable")

// ErrCyclicImport is returned by a filesystem importer when resolving
// a path would re-enter a document still being loaded (spec.md §7
// "cyclic import").
var ErrCyclicImport = errors.New("cyclic import")

// Scope is the minimal read-only export surface an Importer returns
// (spec.md §4.7 "Each importer returns a scope-like object that
// exposes get_name(name) and all()").
type Scope interface {
	GetName(name string) (any, bool)
	All() []string
}

// Importer resolves one source string to a Scope. fromDir is the
// importing document's directory, used to resolve relative
// filesystem paths (spec.md §4.7 "resolved against (a) the current
// document's directory").
type Importer interface {
	Import(rest, fromDir string) (Scope, error)
}

var schemePattern = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_]*):(.+)$`)

// System is one compilation unit's view of the import world: its own
// scheme registry and filesystem importer, plus an optional parent
// system consulted when this system can't resolve a scheme or path
// itself (spec.md §4.7 "A parent import system may be chained for
// built-in modules, e.g. module:core"). A fresh System is typically
// created per toolchain driver and chained to one shared root System
// that holds the `module:` scheme, so every document sees the same
// built-ins without re-registering them.
type System struct {
	parent  *System
	schemes map[string]Importer
	fs      Importer
}

// NewSystem creates a System chained to parent (nil for a root
// system).
func NewSystem(parent *System) *System {
	return &System{parent: parent, schemes: map[string]Importer{}}
}

// RegisterScheme installs imp as the importer for `name:` sources.
func (s *System) RegisterScheme(name string, imp Importer) {
	s.schemes[name] = imp
}

// SetFileImporter installs imp as the importer for sources that are
// not `scheme:rest` (spec.md §4.7 "Otherwise interprets it as a
// filesystem path").
func (s *System) SetFileImporter(imp Importer) {
	s.fs = imp
}

// Resolve imports source relative to fromDir, routing by scheme or
// falling back to the filesystem importer, then the parent chain if
// this system can't handle it itself. Each Importer is responsible
// for its own result caching (FileImporter and ModuleScheme both do),
// so a second Resolve of the same source is cheap without System
// needing a cache of its own (spec.md §8.6 "Idempotent import").
func (s *System) Resolve(source, fromDir string) (Scope, error) {
	if m := schemePattern.FindStringSubmatch(source); m != nil {
		return s.resolveScheme(m[1], m[2], source, fromDir)
	}
	return s.resolveFile(source, fromDir)
}

func (s *System) resolveScheme(scheme, rest, source, fromDir string) (Scope, error) {
	if imp, ok := s.schemes[scheme]; ok {
		sc, err := imp.Import(rest, fromDir)
		if err != nil {
			return nil, fmt.Errorf("import %q: %w", source, err)
		}
		return sc, nil
	}
	if s.parent != nil {
		return s.parent.Resolve(source, fromDir)
	}
	return nil, fmt.Errorf("%w: %q", ErrSchemeNotRegistered, scheme)
}

func (s *System) resolveFile(source, fromDir string) (Scope, error) {
	if s.fs != nil {
		sc, err := s.fs.Import(source, fromDir)
		if err == nil {
			return sc, nil
		}
		if s.parent == nil {
			return nil, err
		}
	}
	if s.parent != nil {
		return s.parent.Resolve(source, fromDir)
	}
	return nil, fmt.Errorf("%w: %q", ErrNotResolvable, source)
}

// mapScope is the simplest Scope: a fixed name->value map, used by
// built-in modules. FileImporter does not use it; it takes its Scope
// from the CompileFunc.
type mapScope map[string]any

func (m mapScope) GetName(name string) (any, bool) { v, ok := m[name]; return v, ok }

func (m mapScope) All() []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	return names
}
