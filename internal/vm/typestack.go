package vm

import "github.com/xpodev/miniz/internal/object"

// TypeStack mirrors the operand stack's shape at compile time, one
// object.Type per value the real Machine would hold (spec.md §4.6:
// "A parallel type stack is maintained at compile time ... this lets
// code-gen typecheck without a separate pass"). The code compiler
// uses it only through ReturnTypes below, which replays a finished
// body; it is not pushed or popped during instruction emission.
type TypeStack struct {
	types []object.Type
}

func NewTypeStack() *TypeStack { return &TypeStack{} }

func (t *TypeStack) Push(ty object.Type) { t.types = append(t.types, ty) }

func (t *TypeStack) Pop() (object.Type, bool) {
	if len(t.types) == 0 {
		return nil, false
	}
	ty := t.types[len(t.types)-1]
	t.types = t.types[:len(t.types)-1]
	return ty, true
}

func (t *TypeStack) Top() (object.Type, bool) {
	if len(t.types) == 0 {
		return nil, false
	}
	return t.types[len(t.types)-1], true
}

func (t *TypeStack) Len() int { return len(t.types) }

// ReturnTypes implements spec.md §4.4's return-type analyzer: "walks
// the instruction list collecting every Return's stack-top type".
// It replays body's instructions against a fresh TypeStack (types
// only, no values) and returns every distinct type observed at an
// OpReturn, in first-seen order. This is a linear, single-pass
// replay — it does not fork the stack at a Jump/JumpIfFalse, so it
// assumes (as every body the code compiler emits does) that every
// control-flow path leaves the stack at the same depth at each
// instruction index; that invariant is property 4 of spec.md §8.
func ReturnTypes(body *object.Body, paramTypes []object.Type) ([]object.Type, error) {
	ts := NewTypeStack()
	localTypes := make([]object.Type, len(body.Locals))
	for i, l := range body.Locals {
		localTypes[i] = l.Type
	}

	var seen []object.Type
	sawType := func(ty object.Type) bool {
		for _, s := range seen {
			if s == ty {
				return true
			}
		}
		return false
	}

	for _, instr := range body.Instructions {
		switch instr.Op {
		case object.OpLoadObject:
			if instr.Value == nil {
				ts.Push(object.Any)
			} else {
				ts.Push(instr.Value.RuntimeType())
			}
		case object.OpLoadArgument:
			if instr.Index == -1 {
				ts.Push(object.Any) // receiver type isn't threaded through here
			} else if instr.Index >= 0 && instr.Index < len(paramTypes) {
				ts.Push(paramTypes[instr.Index])
			} else {
				ts.Push(object.Any)
			}
		case object.OpLoadLocal:
			if instr.Index >= 0 && instr.Index < len(localTypes) {
				ts.Push(localTypes[instr.Index])
			} else {
				ts.Push(object.Any)
			}
		case object.OpSetLocal:
			if _, ok := ts.Pop(); !ok {
				return nil, ErrStackUnderflow
			}
		case object.OpLoadField:
			if _, ok := ts.Pop(); !ok {
				return nil, ErrStackUnderflow
			}
			if fld, ok := instr.Value.(*object.Field); ok {
				ts.Push(fld.Type)
			} else {
				ts.Push(object.Any)
			}
		case object.OpCall:
			for i := 0; i < instr.Index; i++ {
				if _, ok := ts.Pop(); !ok {
					return nil, ErrStackUnderflow
				}
			}
			if instr.Value == nil {
				if _, ok := ts.Pop(); !ok {
					return nil, ErrStackUnderflow
				}
				ts.Push(object.Any)
				continue
			}
			if callable, ok := instr.Value.(object.Callable); ok && callable.Signature().Return != nil {
				ts.Push(callable.Signature().Return)
			} else {
				ts.Push(object.Any)
			}
		case object.OpCreateInstance:
			for i := 0; i < instr.Index; i++ {
				if _, ok := ts.Pop(); !ok {
					return nil, ErrStackUnderflow
				}
			}
			if cls, ok := instr.Value.(*object.Class); ok {
				ts.Push(cls.Type())
			} else {
				ts.Push(object.Any)
			}
		case object.OpReturn:
			ty, ok := ts.Pop()
			if !ok {
				ty = object.Unit
			}
			if !sawType(ty) {
				seen = append(seen, ty)
			}
		case object.OpJumpIfFalse:
			if _, ok := ts.Pop(); !ok {
				return nil, ErrStackUnderflow
			}
		case object.OpPop:
			if _, ok := ts.Pop(); !ok {
				return nil, ErrStackUnderflow
			}
		}
	}
	return seen, nil
}
