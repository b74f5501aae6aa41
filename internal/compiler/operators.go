package compiler

import (
	"fmt"

	"github.com/xpodev/miniz/internal/config"
	"github.com/xpodev/miniz/internal/object"
)

// OperatorRegistry holds the `_op_`-prefixed OverloadGroups spec.md
// §4.4 says binary/unary codegen looks operators up under ("look up
// `_op_` overload group"). Builtin numeric/string/bool operators are
// registered as native object.Function values (object/function.go's
// Native field) since there is no arithmetic opcode in the VM's
// closed instruction set (spec.md §4.6) — this mirrors how a host
// language typically implements its own primitive operators as
// intrinsics rather than user-level bytecode.
type OperatorRegistry struct {
	binary map[string]*object.OverloadGroup
	unary  map[string]*object.OverloadGroup
}

// GroupName returns the operator registry key for a binary/unary
// operator lexeme, e.g. "+" -> "_op_+".
func GroupName(lexeme string) string { return config.OperatorGroupPrefix + lexeme }

func NewOperatorRegistry() *OperatorRegistry {
	r := &OperatorRegistry{
		binary: map[string]*object.OverloadGroup{},
		unary:  map[string]*object.OverloadGroup{},
	}
	r.registerBuiltins()
	return r
}

// Binary returns the overload group for binary operator op, creating
// an empty one if no builtin or user overload has registered it yet
// (a class's own `operator +` method extends this same group under
// its defining scope, per spec.md §4.4).
func (r *OperatorRegistry) Binary(op string) *object.OverloadGroup {
	g, ok := r.binary[op]
	if !ok {
		g = object.NewOverloadGroup(GroupName(op), nil)
		r.binary[op] = g
	}
	return g
}

// Unary returns the overload group for unary operator op.
func (r *OperatorRegistry) Unary(op string) *object.OverloadGroup {
	g, ok := r.unary[op]
	if !ok {
		g = object.NewOverloadGroup(GroupName(op), nil)
		r.unary[op] = g
	}
	return g
}

func native(name string, params []object.Type, ret object.Type, fn func(args []object.Object) (object.Object, error)) *object.Function {
	f := object.NewFunction(name)
	f.ReturnType = ret
	f.Native = fn
	for i, t := range params {
		f.Positional = append(f.Positional, &object.Parameter{Name: fmt.Sprintf("a%d", i), Type: t, Kind: object.Positional, Slot: i})
	}
	return f
}

func (r *OperatorRegistry) add(op string, f *object.Function) { r.Binary(op).Append(f) }

func (r *OperatorRegistry) addUnary(op string, f *object.Function) { r.Unary(op).Append(f) }

// registerBuiltins wires the arithmetic/comparison/logical operators
// over every fixed-width integer type (Int8 through UInt64), Float32,
// Float64, String and Bool — covering the concrete types the §8
// end-to-end scenarios (`add(1, 2)`) exercise.
func (r *OperatorRegistry) registerBuiltins() {
	i32 := object.IntTypes[object.Int32]
	i64 := object.IntTypes[object.Int64]
	f32 := object.FloatTypes[object.Float32]
	f64 := object.FloatTypes[object.Float64]

	intOp := func(op string, width object.IntWidth, fn func(a, b int64) int64) {
		t := object.IntTypes[width]
		r.add(op, native(op, []object.Type{t, t}, t, func(args []object.Object) (object.Object, error) {
			a, b, err := twoInts(args)
			if err != nil {
				return nil, err
			}
			return object.IntValue{Width: width, Value: fn(a, b)}, nil
		}))
	}
	intCmp := func(op string, width object.IntWidth, fn func(a, b int64) bool) {
		t := object.IntTypes[width]
		r.add(op, native(op, []object.Type{t, t}, object.Bool, func(args []object.Object) (object.Object, error) {
			a, b, err := twoInts(args)
			if err != nil {
				return nil, err
			}
			return object.BoolValue(fn(a, b)), nil
		}))
	}
	floatOp := func(op string, width object.FloatWidth, fn func(a, b float64) float64) {
		t := object.FloatTypes[width]
		r.add(op, native(op, []object.Type{t, t}, t, func(args []object.Object) (object.Object, error) {
			a, b, err := twoFloats(args)
			if err != nil {
				return nil, err
			}
			return object.FloatValue{Width: width, Value: fn(a, b)}, nil
		}))
	}
	floatCmp := func(op string, width object.FloatWidth, fn func(a, b float64) bool) {
		t := object.FloatTypes[width]
		r.add(op, native(op, []object.Type{t, t}, object.Bool, func(args []object.Object) (object.Object, error) {
			a, b, err := twoFloats(args)
			if err != nil {
				return nil, err
			}
			return object.BoolValue(fn(a, b)), nil
		}))
	}

	for _, width := range []object.IntWidth{object.Int8, object.Int16, object.Int32, object.Int64, object.UInt8, object.UInt16, object.UInt32, object.UInt64} {
		intOp("+", width, func(a, b int64) int64 { return a + b })
		intOp("-", width, func(a, b int64) int64 { return a - b })
		intOp("*", width, func(a, b int64) int64 { return a * b })
		intOp("/", width, func(a, b int64) int64 {
			if b == 0 {
				return 0
			}
			return a / b
		})
		intCmp("==", width, func(a, b int64) bool { return a == b })
		intCmp("!=", width, func(a, b int64) bool { return a != b })
		intCmp("<", width, func(a, b int64) bool { return a < b })
		intCmp("<=", width, func(a, b int64) bool { return a <= b })
		intCmp(">", width, func(a, b int64) bool { return a > b })
		intCmp(">=", width, func(a, b int64) bool { return a >= b })
	}
	_ = i32
	_ = i64

	for _, width := range []object.FloatWidth{object.Float32, object.Float64} {
		floatOp("+", width, func(a, b float64) float64 { return a + b })
		floatOp("-", width, func(a, b float64) float64 { return a - b })
		floatOp("*", width, func(a, b float64) float64 { return a * b })
		floatOp("/", width, func(a, b float64) float64 {
			if b == 0 {
				return 0
			}
			return a / b
		})
		floatCmp("==", width, func(a, b float64) bool { return a == b })
		floatCmp("<", width, func(a, b float64) bool { return a < b })
		floatCmp(">", width, func(a, b float64) bool { return a > b })
	}
	_ = f32
	_ = f64

	r.add("+", native("+", []object.Type{object.String, object.String}, object.String, func(args []object.Object) (object.Object, error) {
		a, ok1 := args[0].(object.StringValue)
		b, ok2 := args[1].(object.StringValue)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("compiler: string + expects two strings")
		}
		return a + b, nil
	}))
	r.add("==", native("==", []object.Type{object.String, object.String}, object.Bool, func(args []object.Object) (object.Object, error) {
		a, _ := args[0].(object.StringValue)
		b, _ := args[1].(object.StringValue)
		return object.BoolValue(a == b), nil
	}))

	r.add("&&", native("&&", []object.Type{object.Bool, object.Bool}, object.Bool, func(args []object.Object) (object.Object, error) {
		a, _ := args[0].(object.BoolValue)
		b, _ := args[1].(object.BoolValue)
		return object.BoolValue(bool(a) && bool(b)), nil
	}))
	r.add("||", native("||", []object.Type{object.Bool, object.Bool}, object.Bool, func(args []object.Object) (object.Object, error) {
		a, _ := args[0].(object.BoolValue)
		b, _ := args[1].(object.BoolValue)
		return object.BoolValue(bool(a) || bool(b)), nil
	}))

	for _, width := range []object.IntWidth{object.Int8, object.Int16, object.Int32, object.Int64} {
		t := object.IntTypes[width]
		r.addUnary("-", native("-", []object.Type{t}, t, func(args []object.Object) (object.Object, error) {
			v, ok := args[0].(object.IntValue)
			if !ok {
				return nil, fmt.Errorf("compiler: unary - expects an int")
			}
			return object.IntValue{Width: width, Value: -v.Value}, nil
		}))
	}
	r.addUnary("!", native("!", []object.Type{object.Bool}, object.Bool, func(args []object.Object) (object.Object, error) {
		v, _ := args[0].(object.BoolValue)
		return object.BoolValue(!bool(v)), nil
	}))
}

func twoInts(args []object.Object) (int64, int64, error) {
	a, ok1 := args[0].(object.IntValue)
	b, ok2 := args[1].(object.IntValue)
	if !ok1 || !ok2 {
		return 0, 0, fmt.Errorf("compiler: operator expects two integers")
	}
	return a.Value, b.Value, nil
}

func twoFloats(args []object.Object) (float64, float64, error) {
	a, ok1 := args[0].(object.FloatValue)
	b, ok2 := args[1].(object.FloatValue)
	if !ok1 || !ok2 {
		return 0, 0, fmt.Errorf("compiler: operator expects two floats")
	}
	return a.Value, b.Value, nil
}
