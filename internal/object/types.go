// Package object implements the Miniz object model of spec.md §3:
// Module, Class, Field, Method, Function, Parameter, Local,
// OverloadGroup, GenericParameter, and the type-system primitives.
// Objects are constructed as skeletons and then defined in place
// (spec.md §4.4); once Defined is true an object must not be mutated
// further.
package object

import (
	"strings"
)

// Type is implemented by every Miniz type value, runtime or
// compile-time. It mirrors the teacher's typesystem.Type interface
// (String/Apply/FreeTypeVariables/Kind) but trades full
// Hindley-Milner unification for the simpler nominal assignability
// relation spec.md §3 and §4.5 describe; generic instantiation still
// goes through Substitute, which plays the role of the teacher's
// typesystem.Subst.Apply.
type Type interface {
	Object
	// Name is the type's display name, used in diagnostics and in
	// the OverloadMatch error's argument-type string (spec.md §7).
	Name() string
	// AssignableFrom reports whether a value of type src may flow
	// into a location of this type (spec.md §3 "Assignability").
	AssignableFrom(src Type) bool
}

// Substitutable is implemented by types that may contain
// GenericParameter references and so participate in generic
// instantiation.
type Substitutable interface {
	Substitute(Subst) Type
	FreeGenericParameters() []*GenericParameter
}

// Subst maps a GenericParameter to a concrete Type.
type Subst map[*GenericParameter]Type

// Object is the base interface for every runtime-visible Miniz value
// (instances, types themselves via TypeKind, functions, etc).
type Object interface {
	RuntimeType() Type
}

// --- Primitive singleton types -------------------------------------------------

type primitive struct {
	name string
}

func (p *primitive) Name() string        { return p.name }
func (p *primitive) RuntimeType() Type   { return TypeKindInstance }
func (p *primitive) String() string      { return p.name }

// voidType: no values.
type voidType struct{ primitive }

func (voidType) AssignableFrom(Type) bool { return false }

// Void is the type with no instances; a function declared to return
// Void must not have a value-producing Return (spec.md §3 invariants).
var Void Type = &voidType{primitive{"void"}}

// unitType: exactly one value.
type unitType struct{ primitive }

func (unitType) AssignableFrom(src Type) bool { return src == Unit }

// Unit is the one-instance type, the value of `()`.
var Unit Type = &unitType{primitive{"unit"}}

// UnitValue is the sole instance of Unit.
var UnitValue Object = unitInstance{}

type unitInstance struct{}

func (unitInstance) RuntimeType() Type { return Unit }

// boolType.
type boolType struct{ primitive }

func (boolType) AssignableFrom(src Type) bool { return src == Bool }

var Bool Type = &boolType{primitive{"bool"}}

// Bool instance values.
type BoolValue bool

func (b BoolValue) RuntimeType() Type { return Bool }

// nullType: the type of the null literal, assignable to any
// Nullable-wrapped reference type (spec.md §3).
type nullType struct{ primitive }

func (nullType) AssignableFrom(src Type) bool { return src == Null }

var Null Type = &nullType{primitive{"null"}}

// anyType: the lattice top.
type anyType struct{ primitive }

func (anyType) AssignableFrom(Type) bool { return true }

// Any is the top type: every type is assignable to it (spec.md §3).
var Any Type = &anyType{primitive{"any"}}

// typeKind: the "kind of types" meta-type.
type typeKind struct{ primitive }

func (t *typeKind) AssignableFrom(src Type) bool { return src == TypeKindInstance }
func (t *typeKind) RuntimeType() Type            { return t }

// TypeKindInstance is the type of type values themselves.
var TypeKindInstance Type = &typeKind{primitive{"type"}}

// stringType.
type stringType struct{ primitive }

func (stringType) AssignableFrom(src Type) bool { return src == String }

var String Type = &stringType{primitive{"string"}}

type StringValue string

func (StringValue) RuntimeType() Type { return String }

// --- Numeric kinds --------------------------------------------------------

// IntWidth enumerates the integer widths/signedness spec.md §3 lists.
type IntWidth int

const (
	Int8 IntWidth = iota
	Int16
	Int32
	Int64
	UInt8
	UInt16
	UInt32
	UInt64
	BigInt  // arbitrary precision, signed ("I" suffix)
	UBigInt // arbitrary precision, unsigned ("U" suffix)
)

var intWidthNames = map[IntWidth]string{
	Int8: "i8", Int16: "i16", Int32: "i32", Int64: "i64",
	UInt8: "u8", UInt16: "u16", UInt32: "u32", UInt64: "u64",
	BigInt: "I", UBigInt: "U",
}

// Bits returns the bit width of w, or 0 for BigInt (unbounded).
func (w IntWidth) Bits() int {
	switch w {
	case Int8, UInt8:
		return 8
	case Int16, UInt16:
		return 16
	case Int32, UInt32:
		return 32
	case Int64, UInt64:
		return 64
	default:
		return 0
	}
}

// Signed reports whether w is a signed width.
func (w IntWidth) Signed() bool {
	switch w {
	case Int8, Int16, Int32, Int64, BigInt:
		return true
	default:
		return false
	}
}

// Arbitrary reports whether w has unbounded precision (BigInt/UBigInt).
func (w IntWidth) Arbitrary() bool { return w == BigInt || w == UBigInt }

type intType struct {
	primitive
	width IntWidth
}

func (t *intType) AssignableFrom(src Type) bool {
	o, ok := src.(*intType)
	return ok && o.width == t.width
}

// IntTypes holds the singleton Type for each IntWidth.
var IntTypes = func() map[IntWidth]Type {
	m := make(map[IntWidth]Type, len(intWidthNames))
	for w, n := range intWidthNames {
		m[w] = &intType{primitive{n}, w}
	}
	return m
}()

// IntValue is a Miniz integer value of a specific width.
type IntValue struct {
	Width IntWidth
	Value int64  // used for all fixed widths (sign-extended/truncated on creation)
	Big   string // decimal text, used only when Width.Arbitrary() (BigInt or UBigInt)
}

func (v IntValue) RuntimeType() Type { return IntTypes[v.Width] }

// FloatWidth enumerates the float widths spec.md §3 lists.
type FloatWidth int

const (
	Float32 FloatWidth = iota
	Float64
)

type floatType struct {
	primitive
	width FloatWidth
}

func (t *floatType) AssignableFrom(src Type) bool {
	o, ok := src.(*floatType)
	return ok && o.width == t.width
}

var FloatTypes = map[FloatWidth]Type{
	Float32: &floatType{primitive{"f32"}, Float32},
	Float64: &floatType{primitive{"f64"}, Float64},
}

type FloatValue struct {
	Width FloatWidth
	Value float64
}

func (v FloatValue) RuntimeType() Type { return FloatTypes[v.Width] }

// --- Function/class type shapes -------------------------------------------

// FunctionType is the structural type of a callable signature.
type FunctionType struct {
	Positional []Type
	Named      map[string]Type
	Variadic   Type // element type of the variadic positional tail, nil if none
	NamedVariadic Type
	Return     Type
}

func (f *FunctionType) Name() string { return f.String() }
func (f *FunctionType) RuntimeType() Type { return TypeKindInstance }

func (f *FunctionType) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, p := range f.Positional {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name())
	}
	b.WriteString(") -> ")
	if f.Return != nil {
		b.WriteString(f.Return.Name())
	} else {
		b.WriteString("any")
	}
	return b.String()
}

func (f *FunctionType) AssignableFrom(src Type) bool {
	o, ok := src.(*FunctionType)
	if !ok || len(o.Positional) != len(f.Positional) {
		return false
	}
	for i, p := range f.Positional {
		if !p.AssignableFrom(o.Positional[i]) {
			return false
		}
	}
	return f.Return.AssignableFrom(o.Return)
}

// ClassType is the Type view of a Class object: a class is both a
// Declaration (object.Class) and a Type (any instance of it is
// assignable to a variable of this type, and to any ancestor's type).
type ClassType struct {
	Class *Class
}

func (c *ClassType) Name() string      { return c.Class.Name }
func (c *ClassType) String() string    { return c.Class.Name }
func (c *ClassType) RuntimeType() Type { return TypeKindInstance }

func (c *ClassType) AssignableFrom(src Type) bool {
	o, ok := src.(*ClassType)
	if !ok {
		return false
	}
	for cls := o.Class; cls != nil; cls = cls.Base {
		if cls == c.Class {
			return true
		}
	}
	return false
}

// fmtArgTypes renders a comma-separated argument-type string for
// overload diagnostics (spec.md §7).
func fmtArgTypes(types []Type) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.Name()
	}
	return strings.Join(names, ", ")
}

// ArgTypesString is exported for use by the overload matcher's error
// formatting.
func ArgTypesString(types []Type) string { return fmtArgTypes(types) }
