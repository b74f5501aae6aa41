package driver_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/xpodev/miniz/internal/driver"
	"github.com/xpodev/miniz/internal/object"
	"github.com/xpodev/miniz/internal/parser"
	"github.com/xpodev/miniz/internal/vm"
)

// multiDocumentImportFixture encodes a two-document import scenario —
// an importing document and the library it imports — as a single
// txtar archive (SPEC_FULL.md §8 "Multi-document import scenarios use
// golang.org/x/tools/txtar fixtures", grounded on cue-lang/cue's
// internal/cuetxtar use of txtar for multi-file compiler fixtures).
const multiDocumentImportFixture = `
-- lib.zs --
fun triple(a: Int32): Int32 { return a + a + a }
-- main.zs --
import { triple } from "lib.zs"
fun run(): Int32 { return triple(10) }
`

func TestTxtarMultiDocumentImport(t *testing.T) {
	arc := txtar.Parse([]byte(multiDocumentImportFixture))
	require.Len(t, arc.Files, 2)

	dir := t.TempDir()
	var mainSrc string
	for _, f := range arc.Files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f.Name), f.Data, 0o644))
		if f.Name == "main.zs" {
			mainSrc = string(f.Data)
		}
	}
	require.NotEmpty(t, mainSrc)

	p := driver.New(parser.Parse)
	dc, err := p.CompileDocument(filepath.Join(dir, "main.zs"), mainSrc)
	require.NoError(t, err)
	require.False(t, dc.State.HasErrors())

	var run *object.Function
	for _, fn := range dc.Module.Functions {
		if fn.Name == "run" {
			run = fn
		}
	}
	require.NotNil(t, run)

	m := vm.New()
	result, err := m.Run(run.Body, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, object.IntValue{Width: object.Int32, Value: 30}, result)
}
