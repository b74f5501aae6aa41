package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xpodev/miniz/internal/ast"
	"github.com/xpodev/miniz/internal/parser"
)

func TestParseFunctionCall(t *testing.T) {
	prog, err := parser.Parse("t.zs", `
fun add(a: Int32, b: Int32): Int32 { return a + b }
add(1, 2)
`)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 2)

	fn, ok := prog.Statements[0].(*ast.Function)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name.Name)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "a", fn.Params[0].Name.Name)
	require.NotNil(t, fn.Body)
	require.Len(t, fn.Body.Statements, 1)
	ret, ok := fn.Body.Statements[0].(*ast.Return)
	require.True(t, ok)
	bin, ok := ret.Value.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Op.Lexeme)

	stmt, ok := prog.Statements[1].(*ast.ExpressionStatement)
	require.True(t, ok)
	call, ok := stmt.Expr.(*ast.Call)
	require.True(t, ok)
	assert.Equal(t, ast.CurvyCall, call.Bracket)
	require.Len(t, call.Args, 2)
}

func TestParseVarAssignment(t *testing.T) {
	prog, err := parser.Parse("t.zs", `var x = 1; x = 2`)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 2)

	v, ok := prog.Statements[0].(*ast.Var)
	require.True(t, ok)
	assert.Equal(t, "x", v.Name.Name)
	lit, ok := v.Init.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, "1", lit.Text)

	stmt, ok := prog.Statements[1].(*ast.ExpressionStatement)
	require.True(t, ok)
	assign, ok := stmt.Expr.(*ast.Assign)
	require.True(t, ok)
	target, ok := assign.Target.(*ast.Identifier)
	require.True(t, ok)
	assert.Equal(t, "x", target.Name)
}

func TestParseGenericCallInTypePosition(t *testing.T) {
	prog, err := parser.Parse("t.zs", `var b: Box[Int32]`)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)

	v := prog.Statements[0].(*ast.Var)
	call, ok := v.Type.(*ast.Call)
	require.True(t, ok)
	assert.Equal(t, ast.SquareCall, call.Bracket)
	callee := call.Callee.(*ast.Identifier)
	assert.Equal(t, "Box", callee.Name)
	require.Len(t, call.Args, 1)
}

func TestParseOverloadedFunctionsSameName(t *testing.T) {
	prog, err := parser.Parse("t.zs", `
fun f(a: Int32): Int32 { return a }
fun f(a: String): String { return a }
f("hi")
`)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 3)
	f1 := prog.Statements[0].(*ast.Function)
	f2 := prog.Statements[1].(*ast.Function)
	assert.Equal(t, "f", f1.Name.Name)
	assert.Equal(t, "f", f2.Name.Name)
}

func TestParseImportFromModuleScheme(t *testing.T) {
	prog, err := parser.Parse("t.zs", `import { print } from "module:core"`)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)

	imp, ok := prog.Statements[0].(*ast.Import)
	require.True(t, ok)
	assert.Equal(t, "module:core", imp.Source)
	require.Len(t, imp.Symbols, 1)
	assert.Equal(t, "print", imp.Symbols[0].Name.Name)
	assert.Nil(t, imp.Symbols[0].Alias)
}

func TestParseImportWithAlias(t *testing.T) {
	prog, err := parser.Parse("t.zs", `import { print as show } from "module:core"`)
	require.NoError(t, err)
	imp := prog.Statements[0].(*ast.Import)
	assert.Equal(t, "show", imp.Symbols[0].Alias.Name)
}

func TestParseIfWhileClass(t *testing.T) {
	prog, err := parser.Parse("t.zs", `
class Box[T] {
  var value: T
  fun get(): T { return value }
}
if (true) 1 else 2
while (false) 1
`)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 3)
	cls, ok := prog.Statements[0].(*ast.Class)
	require.True(t, ok)
	assert.Equal(t, "Box", cls.Name.Name)
	require.Len(t, cls.Generics, 1)
	require.Len(t, cls.Items, 2)
}

func TestParseBinaryPrecedence(t *testing.T) {
	prog, err := parser.Parse("t.zs", `1 + 2 * 3`)
	require.NoError(t, err)
	stmt := prog.Statements[0].(*ast.ExpressionStatement)
	top, ok := stmt.Expr.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "+", top.Op.Lexeme)
	_, litOk := top.Left.(*ast.Literal)
	assert.True(t, litOk)
	rhs, ok := top.Right.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "*", rhs.Op.Lexeme)
}
