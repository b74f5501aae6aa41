// Command zsc is the Z# toolchain driver's command-line front end
// (SPEC_FULL.md §4.12, §6, §7). It parses os.Args by hand, the
// teacher's own style (cmd/funxy/main.go has no flag-parsing
// framework), and wires internal/driver's pipeline to a file or a
// `-e` one-liner.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/xpodev/miniz/internal/cache"
	"github.com/xpodev/miniz/internal/config"
	"github.com/xpodev/miniz/internal/diagnostics"
	"github.com/xpodev/miniz/internal/driver"
	"github.com/xpodev/miniz/internal/object"
	"github.com/xpodev/miniz/internal/parser"
	"github.com/xpodev/miniz/internal/vm"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		usage()
		return 2
	}
	switch args[0] {
	case "c", "compile":
		return runCompile(args[1:])
	case "init":
		return runInit(args[1:])
	case "new":
		return runNew(args[1:])
	case "-help", "--help", "help":
		usage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "zsc: unknown command %q\n", args[0])
		usage()
		return 2
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  zsc c [path] [-e expr] [-o output] [--validate] [--cache-dir dir]
  zsc init [module-name]
  zsc new <project-dir> [module-name]`)
}

// runCompile implements `zsc c`: compile a source file or a `-e`
// inline expression through the full driver pipeline, reporting
// diagnostics, an optional disassembly/manifest sidecar, and
// compile-time statistics.
func runCompile(args []string) int {
	var (
		path     string
		inline   string
		output   string
		cacheDir string
		validate bool
	)
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-e":
			i++
			if i >= len(args) {
				fmt.Fprintln(os.Stderr, "zsc c: -e requires an argument")
				return 2
			}
			inline = args[i]
		case "-o":
			i++
			if i >= len(args) {
				fmt.Fprintln(os.Stderr, "zsc c: -o requires an argument")
				return 2
			}
			output = args[i]
		case "--validate":
			validate = true
		case "--cache-dir":
			i++
			if i >= len(args) {
				fmt.Fprintln(os.Stderr, "zsc c: --cache-dir requires an argument")
				return 2
			}
			cacheDir = args[i]
		default:
			if strings.HasPrefix(args[i], "-") {
				fmt.Fprintf(os.Stderr, "zsc c: unknown flag %q\n", args[i])
				return 2
			}
			path = args[i]
		}
	}
	if path == "" && inline == "" {
		fmt.Fprintln(os.Stderr, "zsc c: a source path or -e expression is required")
		return 2
	}

	var source, document string
	if inline != "" {
		source, document = inline, "<expr>"
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "zsc c: %v\n", err)
			return 1
		}
		source, document = string(data), path
	}

	var store *cache.Cache
	var key string
	if cacheDir != "" {
		var err error
		store, err = cache.Open(cacheDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "zsc c: %v\n", err)
			return 1
		}
		defer store.Close()

		key = cache.Key(source)
		if entry, ok := store.Lookup(key); ok {
			fmt.Printf("zsc: cache hit (%s), reusing %s\n", key[:8], entry.OutputPath)
			return 0
		}
	}

	start := time.Now()
	p := driver.New(parser.Parse)
	dc, err := p.CompileDocument(document, source)
	elapsed := time.Since(start)

	if dc != nil && dc.State != nil {
		printDiagnostics(dc.State.All())
		if dc.State.HasErrors() {
			return 1
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "zsc c: %v\n", err)
		return 1
	}

	decls := countDeclarations(dc.Module)
	fmt.Printf("zsc: compiled %s declaration(s) in %s\n", humanize.Comma(int64(decls)), elapsed)

	if validate {
		fmt.Print(disassembleModule(dc.Module))
	}

	if output != "" {
		if err := os.WriteFile(output, []byte(disassembleModule(dc.Module)), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "zsc c: %v\n", err)
			return 1
		}
		if store != nil {
			if err := store.Store(key, document, output); err != nil {
				fmt.Fprintf(os.Stderr, "zsc c: %v\n", err)
				return 1
			}
		}
	}

	return 0
}

func countDeclarations(mod *object.Module) int {
	if mod == nil {
		return 0
	}
	n := len(mod.Functions) + len(mod.Types)
	for _, sub := range mod.Submodules {
		n += countDeclarations(sub)
	}
	return n
}

func disassembleModule(mod *object.Module) string {
	if mod == nil {
		return ""
	}
	var b strings.Builder
	for _, fn := range mod.Functions {
		if fn.Body != nil {
			b.WriteString(vm.Disassemble(mod.Name+"."+fn.Name, fn.Body))
		}
	}
	for _, sub := range mod.Submodules {
		b.WriteString(disassembleModule(sub))
	}
	return b.String()
}

// printDiagnostics renders each diagnostic to stderr, color-gating
// the severity label when stderr is a real terminal (SPEC_FULL.md
// §4.12, grounded on the teacher's isatty-gated terminal output in
// internal/evaluator/builtins_term.go).
func printDiagnostics(diags []diagnostics.Diag) {
	for _, d := range diags {
		fmt.Fprintln(os.Stderr, formatDiag(d))
	}
}

func formatDiag(d diagnostics.Diag) string {
	sev := d.Severity.String()
	if stderrIsTTY {
		code := "33"
		if d.Severity == diagnostics.Error {
			code = "31"
		}
		sev = fmt.Sprintf("\x1b[%sm%s\x1b[0m", code, sev)
	}
	origin := "?"
	if d.Origin != nil {
		origin = d.Origin.Pos().String()
	}
	return fmt.Sprintf("[%s] [%s] %s -> %s", d.Phase, sev, origin, d.Message)
}

// runInit scaffolds a project manifest in the current directory.
func runInit(args []string) int {
	name := filepath.Base(mustGetwd())
	if len(args) > 0 {
		name = args[0]
	}
	manifestPath := filepath.Join(".", config.ManifestFileName)
	if _, err := os.Stat(manifestPath); err == nil {
		fmt.Fprintf(os.Stderr, "zsc init: %s already exists\n", manifestPath)
		return 1
	}
	m := config.NewManifest(name)
	if err := m.Save(manifestPath); err != nil {
		fmt.Fprintf(os.Stderr, "zsc init: %v\n", err)
		return 1
	}
	if err := os.MkdirAll(m.SourceRoot, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "zsc init: %v\n", err)
		return 1
	}
	fmt.Printf("zsc: wrote %s (module %q)\n", manifestPath, name)
	return 0
}

// runNew scaffolds a new project directory with a manifest and an
// empty source root.
func runNew(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "zsc new: a project directory is required")
		return 2
	}
	dir := args[0]
	name := filepath.Base(dir)
	if len(args) > 1 {
		name = args[1]
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "zsc new: %v\n", err)
		return 1
	}
	m := config.NewManifest(name)
	manifestPath := filepath.Join(dir, config.ManifestFileName)
	if err := m.Save(manifestPath); err != nil {
		fmt.Fprintf(os.Stderr, "zsc new: %v\n", err)
		return 1
	}
	if err := os.MkdirAll(filepath.Join(dir, m.SourceRoot), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "zsc new: %v\n", err)
		return 1
	}
	fmt.Printf("zsc: created %s (module %q)\n", dir, name)
	return 0
}

func mustGetwd() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

var stderrIsTTY = isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
