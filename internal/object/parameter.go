package object

// ParamKind mirrors ast.ParameterKind, redeclared here so the object
// model does not depend on the (higher-level) ast package.
type ParamKind int

const (
	Positional ParamKind = iota
	Named
	VariadicPositional
	VariadicNamed
)

// Parameter is a Function/Method signature entry (spec.md §3).
type Parameter struct {
	Name    string
	Type    Type
	Kind    ParamKind
	Default *Body // compiled default-value instructions, nil if none (spec.md §4.5 "fixed instructions stored on the parameter")
	Slot    int   // argument slot index assigned during construct
}

// Local is created from a `var` statement inside a function body
// (spec.md §3 Local).
type Local struct {
	Name string
	Type Type
	Slot int
}
