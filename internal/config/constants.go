// Package config holds compile-time constants shared across the
// toolchain: default numeric widths, the core module's well-known
// name, and recognized source file extensions. Grounded on the
// teacher's internal/config/constants.go (a flat file of exported
// vars/consts, no behavior).
package config

// Version is the current Z# compiler version, embedded into the
// cache key CLI sidecars stamp (SPEC_FULL.md §4.12).
var Version = "0.1.0"

// SourceFileExt is the canonical Z# source extension.
const SourceFileExt = ".zs"

// SourceFileExtensions are all extensions internal/imports'
// FileImporter recognizes as Z# source, mirroring the teacher's
// config.SourceFileExtensions / modules.detectPackageExtension split
// between a canonical extension and a recognized set.
var SourceFileExtensions = []string{".zs"}

// HasSourceExt reports whether path ends in a recognized source
// extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// ManifestFileName is the project manifest `zsc init`/`zsc new`
// scaffold (SPEC_FULL.md §4.12).
const ManifestFileName = "zs.yaml"

// DefaultSourceRoot is the manifest's default source directory.
const DefaultSourceRoot = "src"

// CoreModuleName is the well-known `module:core` scheme target
// (spec.md §6 "Built-in schemes: module").
const CoreModuleName = "core"

// PrintFuncName is the one function the core module scheme exposes
// (spec.md §8 end-to-end scenario: `import { print } from
// "module:core"`).
const PrintFuncName = "print"

// DefaultIntWidthName/DefaultFloatWidthName select the numeric kind an
// unsuffixed literal decodes to (spec.md §4.2).
const (
	DefaultIntWidthName   = "i32"
	DefaultFloatWidthName = "f32"
)

// ConstructorName is the method name the class compiler treats as a
// constructor (spec.md §4.4 "Members named `new` become
// constructors").
const ConstructorName = "new"

// OperatorGroupPrefix names the synthesized overload group a binary
// or unary operator is looked up under in the compiler's operator
// registry (spec.md §4.4 "look up `_op_` overload group").
const OperatorGroupPrefix = "_op_"
