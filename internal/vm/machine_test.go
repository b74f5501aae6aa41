package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xpodev/miniz/internal/object"
	"github.com/xpodev/miniz/internal/vm"
)

func TestRunArithmeticlessConstantReturn(t *testing.T) {
	body := &object.Body{
		Instructions: []object.Instruction{
			{Op: object.OpLoadObject, Value: object.IntValue{Width: object.Int32, Value: 42}},
			{Op: object.OpReturn},
		},
	}
	m := vm.New()
	result, err := m.Run(body, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, object.IntValue{Width: object.Int32, Value: 42}, result)
}

func TestRunLocalsAndJump(t *testing.T) {
	// var x = true; if x return 1 else return 0 — compiled directly to
	// instructions rather than going through the resolver/compiler.
	body := &object.Body{
		Locals: []*object.Local{{Name: "x", Type: object.Bool, Slot: 0}},
		Instructions: []object.Instruction{
			{Op: object.OpLoadObject, Value: object.BoolValue(true)},
			{Op: object.OpSetLocal, Index: 0},
			{Op: object.OpLoadLocal, Index: 0},
			{Op: object.OpJumpIfFalse, Index: 6},
			{Op: object.OpLoadObject, Value: object.IntValue{Width: object.Int32, Value: 1}},
			{Op: object.OpJump, Index: 7},
			{Op: object.OpLoadObject, Value: object.IntValue{Width: object.Int32, Value: 0}},
			{Op: object.OpReturn},
		},
	}
	m := vm.New()
	result, err := m.Run(body, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, object.IntValue{Width: object.Int32, Value: 1}, result)
}

func TestRunFallsOffEndReturnsUnit(t *testing.T) {
	body := &object.Body{Instructions: []object.Instruction{{Op: object.OpNoOperation}}}
	m := vm.New()
	result, err := m.Run(body, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, object.UnitValue, result)
}

func TestRunArgumentOutOfRangeErrors(t *testing.T) {
	body := &object.Body{
		Instructions: []object.Instruction{
			{Op: object.OpLoadArgument, Index: 0},
			{Op: object.OpReturn},
		},
	}
	m := vm.New()
	_, err := m.Run(body, nil, nil)
	assert.Error(t, err)
}

func TestCreateInstanceRunsFieldInitializerAndConstructor(t *testing.T) {
	cls := object.NewClass("Point")
	field := &object.Field{
		Name:    "x",
		Type:    object.IntTypes[object.Int32],
		Binding: object.InstanceBinding,
		Owner:   cls,
		Slot:    0,
		Init: &object.Body{Instructions: []object.Instruction{
			{Op: object.OpLoadObject, Value: object.IntValue{Width: object.Int32, Value: 7}},
			{Op: object.OpReturn},
		}},
	}
	cls.Fields = []*object.Field{field}

	ctor := object.NewMethod("new", cls)
	ctor.IsConstructor = true
	ctor.Body = &object.Body{Instructions: []object.Instruction{{Op: object.OpNoOperation}}}
	cls.Constructors = []*object.Method{ctor}

	body := &object.Body{
		Instructions: []object.Instruction{
			{Op: object.OpCreateInstance, Value: cls, Index: 0},
			{Op: object.OpReturn},
		},
	}
	m := vm.New()
	result, err := m.Run(body, nil, nil)
	require.NoError(t, err)
	inst, ok := result.(*object.Instance)
	require.True(t, ok)
	assert.Equal(t, object.IntValue{Width: object.Int32, Value: 7}, inst.Fields[0])
}

func TestDisassembleDoesNotPanic(t *testing.T) {
	body := &object.Body{
		Instructions: []object.Instruction{
			{Op: object.OpLoadObject, Value: object.IntValue{Width: object.Int32, Value: 1}},
			{Op: object.OpReturn},
		},
	}
	out := vm.Disassemble("main", body)
	assert.Contains(t, out, "LoadObject")
	assert.Contains(t, out, "Return")
}
