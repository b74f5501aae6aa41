package overload_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xpodev/miniz/internal/diagnostics"
	"github.com/xpodev/miniz/internal/object"
	"github.com/xpodev/miniz/internal/overload"
)

func makeFn(name string, paramType object.Type) *object.Function {
	f := object.NewFunction(name)
	f.ReturnType = paramType
	f.Positional = []*object.Parameter{{Name: "x", Type: paramType, Kind: object.Positional}}
	return f
}

// spec.md §8 scenario: two overloads of f, one over Int32 and one
// over String; f("hi") must pick the String overload.
func TestMatchPicksStrictOverload(t *testing.T) {
	state := diagnostics.NewState()
	intF := makeFn("f", object.IntTypes[object.Int32])
	strF := makeFn("f", object.String)
	group := object.NewOverloadGroup("f", nil)
	group.Append(intF)
	group.Append(strF)

	got := overload.Match(state, nil, group, []overload.Argument{{Type: object.String}})
	require.False(t, state.HasErrors())
	assert.Same(t, strF, got)
}

func TestMatchReportsNoMatch(t *testing.T) {
	state := diagnostics.NewState()
	intF := makeFn("f", object.IntTypes[object.Int32])
	group := object.NewOverloadGroup("f", nil)
	group.Append(intF)

	got := overload.Match(state, nil, group, []overload.Argument{{Type: object.Bool}})
	assert.Nil(t, got)
	assert.True(t, state.HasErrors())
}

func TestMatchReportsAmbiguous(t *testing.T) {
	state := diagnostics.NewState()
	group := object.NewOverloadGroup("f", nil)
	group.Append(makeFn("f", object.Any))
	group.Append(makeFn("f", object.Any))

	got := overload.Match(state, nil, group, []overload.Argument{{Type: object.String}})
	assert.Nil(t, got)
	assert.True(t, state.HasErrors())
}

func TestMatchDefaultSatisfiesMissingArgument(t *testing.T) {
	state := diagnostics.NewState()
	f := object.NewFunction("greet")
	f.Positional = []*object.Parameter{
		{Name: "name", Type: object.String, Kind: object.Positional},
		{Name: "loud", Type: object.Bool, Kind: object.Positional, Default: &object.Body{}},
	}
	group := object.NewOverloadGroup("greet", nil)
	group.Append(f)

	got := overload.Match(state, nil, group, []overload.Argument{{Type: object.String}})
	require.False(t, state.HasErrors())
	assert.Same(t, f, got)
}

func TestResolveClassCurvyCallPicksConstructorByArity(t *testing.T) {
	state := diagnostics.NewState()
	cls := object.NewClass("Point")
	zeroArg := object.NewMethod("new", cls)
	oneArg := object.NewMethod("new", cls)
	oneArg.Positional = []*object.Parameter{{Name: "x", Type: object.IntTypes[object.Int32], Kind: object.Positional}}
	cls.Constructors = []*object.Method{zeroArg, oneArg}

	got := overload.Resolve(state, nil, cls, []overload.Argument{{Type: object.IntTypes[object.Int32]}})
	require.False(t, state.HasErrors())
	assert.Same(t, oneArg, got)
}
