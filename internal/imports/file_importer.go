package imports

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/xpodev/miniz/internal/config"
)

// CompileFunc compiles the document at absPath through the toolchain
// driver's full pipeline (Tokens→...→Objects, spec.md §4.8) and
// returns its top-level module's Scope. Injected by internal/driver
// so this package never imports the driver (which imports this
// package), mirroring the teacher's own inline lexer/parser
// construction in loadDir rather than a dependency on a higher-level
// package.
type CompileFunc func(absPath string) (Scope, error)

// FileImporter resolves filesystem-path sources: a single source file
// by extension, or a directory containing one package's worth of
// source files (spec.md §4.7 "(added) imports.FileImporter for
// filesystem paths, dispatched by extension, mirroring
// internal/modules/loader.go's detectPackageExtension/
// hasSourceFiles logic"). SearchPath entries are consulted after the
// importing document's own directory and before the process's
// working directory (spec.md §4.7 resolution order).
type FileImporter struct {
	Compile    CompileFunc
	SearchPath []string
	cache      *Cache
}

// NewFileImporter creates a FileImporter that compiles resolved
// documents via compile.
func NewFileImporter(compile CompileFunc) *FileImporter {
	return &FileImporter{Compile: compile, cache: NewCache()}
}

// Import resolves rest against fromDir, the search path, and the
// working directory (in that order), then compiles it, caching by
// absolute path and detecting re-entry as a cyclic import.
func (fi *FileImporter) Import(rest, fromDir string) (Scope, error) {
	abs, err := fi.locate(rest, fromDir)
	if err != nil {
		return nil, err
	}
	if sc, ok := fi.cache.Get(abs); ok {
		return sc, nil
	}
	if !fi.cache.Enter(abs) {
		return nil, fmt.Errorf("%w: %s", ErrCyclicImport, abs)
	}
	defer fi.cache.Leave(abs)

	sc, err := fi.Compile(abs)
	if err != nil {
		return nil, err
	}
	fi.cache.Put(abs, sc)
	return sc, nil
}

// locate finds the file or package directory rest names, trying
// fromDir, then each SearchPath entry, then the working directory
// (spec.md §4.7 "resolved against (a) the current document's
// directory, (b) a configured search path, (c) the current working
// directory").
func (fi *FileImporter) locate(rest, fromDir string) (string, error) {
	var candidates []string
	if filepath.IsAbs(rest) {
		candidates = append(candidates, rest)
	}
	if fromDir != "" {
		candidates = append(candidates, filepath.Join(fromDir, rest))
	}
	for _, dir := range fi.SearchPath {
		candidates = append(candidates, filepath.Join(dir, rest))
	}
	if wd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(wd, rest))
	}

	for _, cand := range candidates {
		if path, ok := resolveCandidate(cand); ok {
			abs, err := filepath.Abs(path)
			if err != nil {
				return "", err
			}
			return abs, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrNotResolvable, rest)
}

// resolveCandidate accepts cand as-is if it names a source file,
// tries it with the canonical extension appended if not, or (when
// cand is a directory) applies the package-entry rule below.
func resolveCandidate(cand string) (string, bool) {
	if info, err := os.Stat(cand); err == nil {
		if info.IsDir() {
			return detectPackageEntry(cand)
		}
		if config.HasSourceExt(cand) {
			return cand, true
		}
		return "", false
	}
	withExt := cand + config.SourceFileExt
	if info, err := os.Stat(withExt); err == nil && !info.IsDir() {
		return withExt, true
	}
	return "", false
}

// detectPackageEntry mirrors the teacher's detectPackageExtension/
// entry-file rule, specialized to this core's single recognized
// extension: a directory's entry file is <dirname>.zs if present,
// else the lexicographically first .zs file in the directory.
func detectPackageEntry(dir string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	mainFile := filepath.Base(dir) + config.SourceFileExt
	var sources []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if e.Name() == mainFile {
			return filepath.Join(dir, mainFile), true
		}
		if config.HasSourceExt(e.Name()) {
			sources = append(sources, e.Name())
		}
	}
	if len(sources) == 0 {
		return "", false
	}
	sort.Strings(sources)
	return filepath.Join(dir, sources[0]), true
}
