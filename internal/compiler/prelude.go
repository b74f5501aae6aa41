package compiler

import (
	"github.com/xpodev/miniz/internal/miniscope"
	"github.com/xpodev/miniz/internal/object"
)

// NewPreludeScope builds the root scope every document's top-level
// module scope chains under: the primitive type names (spec.md §3)
// bound directly to their object.Type singleton, with no resolved
// node wrapping them (internal/resolver's bindIdentifier falls back
// to Ref.Object for exactly this case). Names are Refer'd, not
// Create'd, since the prelude is not "this document's own" output
// (spec.md §4.1 defined-vs-referred split, mirrored on an imported
// name).
func NewPreludeScope() *miniscope.Scope {
	s := miniscope.New("prelude")
	put := func(name string, v any) { _ = s.Refer(name, v) }

	put("Void", object.Void)
	put("Unit", object.Unit)
	put("Bool", object.Bool)
	put("Null", object.Null)
	put("Any", object.Any)
	put("String", object.String)
	put("Type", object.TypeKindInstance)

	put("Int8", object.IntTypes[object.Int8])
	put("Int16", object.IntTypes[object.Int16])
	put("Int32", object.IntTypes[object.Int32])
	put("Int64", object.IntTypes[object.Int64])
	put("UInt8", object.IntTypes[object.UInt8])
	put("UInt16", object.IntTypes[object.UInt16])
	put("UInt32", object.IntTypes[object.UInt32])
	put("UInt64", object.IntTypes[object.UInt64])
	put("BigInt", object.IntTypes[object.BigInt])
	put("UBigInt", object.IntTypes[object.UBigInt])

	put("Float32", object.FloatTypes[object.Float32])
	put("Float64", object.FloatTypes[object.Float64])

	put("true", object.BoolValue(true))
	put("false", object.BoolValue(false))
	put("null", object.UnitValue)

	return s
}
