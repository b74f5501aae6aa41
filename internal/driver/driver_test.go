package driver_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xpodev/miniz/internal/driver"
	"github.com/xpodev/miniz/internal/object"
	"github.com/xpodev/miniz/internal/parser"
	"github.com/xpodev/miniz/internal/vm"
)

func findFunction(mod *object.Module, name string) *object.Function {
	for _, fn := range mod.Functions {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

// TestAddOneAndTwoReturnsThree exercises spec.md §8's `add(1,2) -> 3`
// scenario end to end: source text through the parser, resolver,
// dependency order and compiler, then the resulting bytecode body
// through the VM.
func TestAddOneAndTwoReturnsThree(t *testing.T) {
	p := driver.New(parser.Parse)
	dc, err := p.CompileDocument("add.zs", `
fun add(a: Int32, b: Int32): Int32 { return a + b }
`)
	require.NoError(t, err)
	require.False(t, dc.State.HasErrors())

	fn := findFunction(dc.Module, "add")
	require.NotNil(t, fn)
	require.NotNil(t, fn.Body)

	m := vm.New()
	result, err := m.Run(fn.Body, []object.Object{
		object.IntValue{Width: object.Int32, Value: 1},
		object.IntValue{Width: object.Int32, Value: 2},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, object.IntValue{Width: object.Int32, Value: 3}, result)
}

// TestVarReassignment exercises `var x = 1; x = 2`: the code compiler
// must treat `x`'s second statement as an assignment to the already-
// declared local, not a second declaration.
func TestVarReassignment(t *testing.T) {
	p := driver.New(parser.Parse)
	dc, err := p.CompileDocument("var.zs", `
fun run(): Int32 {
  var x = 1
  x = 2
  return x
}
`)
	require.NoError(t, err)
	require.False(t, dc.State.HasErrors())

	fn := findFunction(dc.Module, "run")
	require.NotNil(t, fn)

	m := vm.New()
	result, err := m.Run(fn.Body, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, object.IntValue{Width: object.Int32, Value: 2}, result)
}

// TestImportCoreModulePrint exercises the `import { print } from
// "module:core"` scenario: the imported name binds to a native
// object.Function with no resolved.Node, and calling it through the
// VM runs the Native closure.
func TestImportCoreModulePrint(t *testing.T) {
	p := driver.New(parser.Parse)
	dc, err := p.CompileDocument("greet.zs", `
import { print } from "module:core"
fun greet(): Unit { return print("hello") }
`)
	require.NoError(t, err)
	require.False(t, dc.State.HasErrors())

	fn := findFunction(dc.Module, "greet")
	require.NotNil(t, fn)

	m := vm.New()
	_, err = m.Run(fn.Body, nil, nil)
	require.NoError(t, err)
}

// TestIdempotentImport exercises spec.md §8.6: importing the same
// filesystem path twice (directly, then via a second document) must
// return the same underlying Scope and must not recompile it.
func TestIdempotentImport(t *testing.T) {
	dir := t.TempDir()
	libPath := filepath.Join(dir, "lib.zs")
	require.NoError(t, os.WriteFile(libPath, []byte(`
fun double(a: Int32): Int32 { return a + a }
`), 0o644))

	mainA := filepath.Join(dir, "a.zs")
	mainB := filepath.Join(dir, "b.zs")
	src := `import { double } from "lib.zs"
fun run(): Int32 { return double(21) }
`
	require.NoError(t, os.WriteFile(mainA, []byte(src), 0o644))
	require.NoError(t, os.WriteFile(mainB, []byte(src), 0o644))

	p := driver.New(parser.Parse)
	dcA, err := p.CompileDocument(mainA, src)
	require.NoError(t, err)
	require.False(t, dcA.State.HasErrors())

	dcB, err := p.CompileDocument(mainB, src)
	require.NoError(t, err)
	require.False(t, dcB.State.HasErrors())

	runA := findFunction(dcA.Module, "run")
	runB := findFunction(dcB.Module, "run")
	require.NotNil(t, runA)
	require.NotNil(t, runB)

	m := vm.New()
	resultA, err := m.Run(runA.Body, nil, nil)
	require.NoError(t, err)
	resultB, err := m.Run(runB.Body, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, resultA, resultB)
	assert.Equal(t, object.IntValue{Width: object.Int32, Value: 42}, resultA)

	// Re-importing the same lib.zs path through the shared file
	// importer must hand back a Scope exposing the identical
	// resolved.Node value, not one from a freshly recompiled document.
	lib1, err := p.Imports.Resolve("lib.zs", dir)
	require.NoError(t, err)
	lib2, err := p.Imports.Resolve("lib.zs", dir)
	require.NoError(t, err)
	v1, ok := lib1.GetName("double")
	require.True(t, ok)
	v2, ok := lib2.GetName("double")
	require.True(t, ok)
	assert.Same(t, v1, v2)
}
