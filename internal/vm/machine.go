// Package vm implements the small stack machine of spec.md §4.6: the
// closed instruction set defined in internal/object is executed here
// (kept in object, not vm, to avoid an import cycle — see
// internal/object/instruction.go). The machine is also the compiler's
// own evaluation engine for constant folding, generic instantiation
// and signature computation (spec.md §1).
package vm

import (
	"errors"
	"fmt"

	"github.com/xpodev/miniz/internal/object"
)

// ErrStackUnderflow is returned when an instruction needs more values
// than the operand stack currently holds.
var ErrStackUnderflow = errors.New("vm: stack underflow")

// ErrCallStackOverflow guards against runaway recursion in
// compile-time evaluation, which has no external timeout (spec.md §5
// "Timeouts are not supported").
var ErrCallStackOverflow = errors.New("vm: call stack overflow")

// MaxFrameDepth bounds recursive Run calls.
const MaxFrameDepth = 4096

// frame is one in-flight call's register file: its arguments, its
// locals (sized from the compiled Body), and an optional receiver for
// method bodies.
type frame struct {
	args     []object.Object
	locals   []object.Object
	receiver object.Object
}

// Machine is one execution context: an operand stack plus a frame
// stack for nested calls. Not safe for concurrent use (spec.md §5: the
// compiler pipeline is single-threaded throughout).
type Machine struct {
	stack  []object.Object
	frames []*frame
}

func New() *Machine {
	return &Machine{stack: make([]object.Object, 0, 64)}
}

func (m *Machine) push(v object.Object) { m.stack = append(m.stack, v) }

func (m *Machine) pop() (object.Object, error) {
	if len(m.stack) == 0 {
		return nil, ErrStackUnderflow
	}
	v := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return v, nil
}

func (m *Machine) popN(n int) ([]object.Object, error) {
	if len(m.stack) < n {
		return nil, ErrStackUnderflow
	}
	out := make([]object.Object, n)
	copy(out, m.stack[len(m.stack)-n:])
	m.stack = m.stack[:len(m.stack)-n]
	return out, nil
}

// Run executes body's instructions in a fresh frame and returns the
// value OpReturn pops (Unit if the operand stack is empty there), or
// Unit if execution falls off the end of the body (an implicit
// Unit-returning body, spec.md §3 Function).
func (m *Machine) Run(body *object.Body, args []object.Object, receiver object.Object) (object.Object, error) {
	if len(m.frames) >= MaxFrameDepth {
		return nil, ErrCallStackOverflow
	}
	f := &frame{args: args, locals: make([]object.Object, len(body.Locals)), receiver: receiver}
	m.frames = append(m.frames, f)
	defer func() { m.frames = m.frames[:len(m.frames)-1] }()

	base := len(m.stack)
	ip := 0
	for ip < len(body.Instructions) {
		instr := body.Instructions[ip]
		next, result, returning, err := m.step(f, instr, ip)
		if err != nil {
			return nil, err
		}
		if returning {
			m.stack = m.stack[:base]
			return result, nil
		}
		ip = next
	}
	return object.UnitValue, nil
}

// Pop returns the top of the operand stack, or def if it is empty —
// used by callers that evaluate an expression purely for its value
// (e.g. constant folding) and want a default rather than an error when
// the expression was Void/Unit-producing.
func (m *Machine) Pop(def object.Object) object.Object {
	v, err := m.pop()
	if err != nil {
		return def
	}
	return v
}

// step executes one instruction, returning the next instruction
// pointer, and — only when returning is true — the value the frame
// returns.
func (m *Machine) step(f *frame, instr object.Instruction, ip int) (next int, result object.Object, returning bool, err error) {
	switch instr.Op {
	case object.OpNoOperation:

	case object.OpLoadObject:
		m.push(instr.Value)

	case object.OpLoadArgument:
		// Index -1 is reserved for `this`: a method body loads its
		// receiver (held separately on the frame, not in args) this
		// way rather than through a dedicated opcode.
		if instr.Index == -1 {
			if f.receiver == nil {
				m.push(object.UnitValue)
			} else {
				m.push(f.receiver)
			}
			break
		}
		if instr.Index < 0 || instr.Index >= len(f.args) {
			return 0, nil, false, fmt.Errorf("vm: argument index %d out of range (have %d)", instr.Index, len(f.args))
		}
		m.push(f.args[instr.Index])

	case object.OpLoadLocal:
		if instr.Index < 0 || instr.Index >= len(f.locals) {
			return 0, nil, false, fmt.Errorf("vm: local index %d out of range (have %d)", instr.Index, len(f.locals))
		}
		m.push(f.locals[instr.Index])

	case object.OpSetLocal:
		v, err := m.pop()
		if err != nil {
			return 0, nil, false, err
		}
		if instr.Index < 0 || instr.Index >= len(f.locals) {
			return 0, nil, false, fmt.Errorf("vm: local index %d out of range (have %d)", instr.Index, len(f.locals))
		}
		f.locals[instr.Index] = v

	case object.OpLoadField:
		recv, err := m.pop()
		if err != nil {
			return 0, nil, false, err
		}
		v, err := m.loadField(recv, instr)
		if err != nil {
			return 0, nil, false, err
		}
		m.push(v)

	case object.OpCall:
		args, err := m.popN(instr.Index)
		if err != nil {
			return 0, nil, false, err
		}
		callee := instr.Value
		if callee == nil {
			// Dynamic call: the callee itself was pushed ahead of its
			// arguments (e.g. a variable holding a Function value).
			if callee, err = m.pop(); err != nil {
				return 0, nil, false, err
			}
		}
		v, err := m.call(callee, args)
		if err != nil {
			return 0, nil, false, err
		}
		m.push(v)

	case object.OpCreateInstance:
		args, err := m.popN(instr.Index)
		if err != nil {
			return 0, nil, false, err
		}
		v, err := m.createInstance(instr.Value, args)
		if err != nil {
			return 0, nil, false, err
		}
		m.push(v)

	case object.OpReturn:
		v := m.Pop(object.UnitValue)
		return 0, v, true, nil

	case object.OpJump:
		return instr.Index, nil, false, nil

	case object.OpJumpIfFalse:
		cond, err := m.pop()
		if err != nil {
			return 0, nil, false, err
		}
		b, ok := cond.(object.BoolValue)
		if !ok {
			return 0, nil, false, fmt.Errorf("vm: jump condition is %T, not bool", cond)
		}
		if !bool(b) {
			return instr.Index, nil, false, nil
		}

	case object.OpPop:
		if _, err := m.pop(); err != nil {
			return 0, nil, false, err
		}

	default:
		return 0, nil, false, fmt.Errorf("vm: unhandled opcode %v", instr.Op)
	}
	return ip + 1, nil, false, nil
}

// call implements the runtime half of the callable protocol: the
// overload matcher already picked the exact Function/Method at
// compile time (spec.md §4.5), so the VM only needs to know how to
// invoke whatever concrete callable codegen embedded in the
// instruction.
func (m *Machine) call(callee object.Object, args []object.Object) (object.Object, error) {
	switch c := callee.(type) {
	case *object.Function:
		if c.Native != nil {
			return c.Native(args)
		}
		return m.Run(c.Body, args, nil)
	case *object.Method:
		var recv object.Object
		if len(args) > 0 {
			recv, args = args[0], args[1:]
		}
		return m.Run(c.Body, args, recv)
	default:
		return nil, fmt.Errorf("vm: value of type %T is not callable", callee)
	}
}

// createInstance allocates a new Instance of the class carried by
// instr.Value, runs its instance field initializers, then invokes the
// matching constructor (overload resolution already happened at
// compile time, spec.md §4.5 — the arity match here is a sanity check,
// not a search).
func (m *Machine) createInstance(classValue object.Object, args []object.Object) (object.Object, error) {
	cls, ok := classValue.(*object.Class)
	if !ok {
		return nil, fmt.Errorf("vm: %T is not a class", classValue)
	}
	ctor, err := findConstructor(cls, len(args))
	if err != nil {
		return nil, err
	}
	slots := 0
	for _, fld := range cls.Fields {
		if fld.Binding == object.InstanceBinding && fld.Slot >= slots {
			slots = fld.Slot + 1
		}
	}
	inst := object.NewInstance(cls, slots)
	for _, fld := range cls.Fields {
		if fld.Binding != object.InstanceBinding || fld.Init == nil {
			continue
		}
		v, err := m.Run(fld.Init, nil, inst)
		if err != nil {
			return nil, fmt.Errorf("vm: field %s initializer: %w", fld.Name, err)
		}
		inst.Fields[fld.Slot] = v
	}
	if _, err := m.Run(ctor.Body, args, inst); err != nil {
		return nil, err
	}
	return inst, nil
}

// findConstructor picks cls's constructor whose positional parameter
// count matches argc. A zero-argument default is synthesized by the
// class compiler when no constructor is declared (spec.md §4.4), so
// Constructors is never empty by the time codegen emits OpCreateInstance.
func findConstructor(cls *object.Class, argc int) (*object.Method, error) {
	for _, ctor := range cls.Constructors {
		if len(ctor.Positional) == argc {
			return ctor, nil
		}
	}
	if len(cls.Constructors) == 1 {
		return cls.Constructors[0], nil
	}
	return nil, fmt.Errorf("vm: class %s has no constructor accepting %d argument(s)", cls.Name, argc)
}

// loadField implements OpLoadField. Index is the instance-layout slot
// used for the common case (field codegen already knows it, spec.md
// §4.4); Value only carries the *object.Field when the access is
// static/class-bound, since those live on the Class rather than at a
// stack-popped instance's slot.
func (m *Machine) loadField(recv object.Object, instr object.Instruction) (object.Object, error) {
	if fld, ok := instr.Value.(*object.Field); ok && (fld.Binding == object.StaticBinding || fld.Binding == object.ClassBinding) {
		if fld.Owner == nil || fld.Owner.Statics == nil {
			return object.UnitValue, nil
		}
		if v, ok := fld.Owner.Statics[fld.Name]; ok {
			return v, nil
		}
		return object.UnitValue, nil
	}
	inst, ok := recv.(*object.Instance)
	if !ok {
		return nil, fmt.Errorf("vm: field receiver is %T, not an instance", recv)
	}
	if instr.Index < 0 || instr.Index >= len(inst.Fields) {
		return nil, fmt.Errorf("vm: field slot %d out of range (have %d)", instr.Index, len(inst.Fields))
	}
	return inst.Fields[instr.Index], nil
}
