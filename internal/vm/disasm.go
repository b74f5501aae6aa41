package vm

import (
	"fmt"
	"strings"

	"github.com/xpodev/miniz/internal/object"
)

// Disassemble renders body as one opcode per line, used by `zsc c
// --validate` (spec.md §2.7) to inspect generated code without
// executing it.
func Disassemble(name string, body *object.Body) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", name)
	for i, instr := range body.Instructions {
		fmt.Fprintf(&b, "% 4d  %-14s", i, instr.Op)
		switch instr.Op {
		case object.OpLoadArgument, object.OpLoadLocal, object.OpSetLocal,
			object.OpLoadField, object.OpJump, object.OpJumpIfFalse:
			fmt.Fprintf(&b, " %d", instr.Index)
		case object.OpCall, object.OpCreateInstance:
			fmt.Fprintf(&b, " argc=%d", instr.Index)
			if instr.Value != nil {
				fmt.Fprintf(&b, " %s", describe(instr.Value))
			}
		case object.OpLoadObject:
			fmt.Fprintf(&b, " %s", describe(instr.Value))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func describe(v object.Object) string {
	switch o := v.(type) {
	case *object.Class:
		return o.Name
	case *object.Function:
		return o.Name
	case *object.Method:
		return o.Owner.Name + "." + o.Name
	case *object.Field:
		return o.Name
	case object.StringValue:
		return fmt.Sprintf("%q", string(o))
	case object.IntValue:
		if o.Width.Arbitrary() {
			return o.Big
		}
		return fmt.Sprintf("%d", o.Value)
	case object.BoolValue:
		return fmt.Sprintf("%t", bool(o))
	default:
		return fmt.Sprintf("%v", v)
	}
}
