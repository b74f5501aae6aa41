// Package diagnostics implements the Error/state component of
// spec.md §7: a shared, append-only collector of errors and warnings
// with originating nodes, and the closed error taxonomy the rest of
// the compiler reports through it.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/xpodev/miniz/internal/token"
)

// Severity distinguishes a hard error from a warning. Only errors
// make the toolchain driver's exit code non-zero (spec.md §7).
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Phase names the pipeline stage that raised a diagnostic, used in
// the "[phase] [severity] origin -> message" rendering.
type Phase string

const (
	PhaseParse    Phase = "parse"
	PhaseResolve  Phase = "resolve"
	PhaseDepend   Phase = "depend"
	PhaseCompile  Phase = "compile"
	PhaseOverload Phase = "overload"
	PhaseImport   Phase = "import"
)

// Code is a closed enumeration of diagnostic kinds, one per error
// category named in spec.md §7.
type Code string

const (
	// Parse errors.
	CodeUnexpectedToken      Code = "unexpected-token"
	CodeUnterminatedConstruct Code = "unterminated-construct"

	// Name errors.
	CodeNameNotFound     Code = "name-not-found"
	CodeNameAlreadyBound Code = "name-already-bound"

	// Type errors.
	CodeNotCallable        Code = "not-callable"
	CodeOperatorNotDefined Code = "operator-not-defined"
	CodeReturnTypeMismatch Code = "return-type-mismatch"
	CodeNotAssignable      Code = "not-assignable"

	// Overload errors.
	CodeOverloadNoMatch   Code = "overload-no-match"
	CodeOverloadAmbiguous Code = "overload-ambiguous"

	// Import errors.
	CodeImportNotResolvable Code = "import-not-resolvable"
	CodeSchemeNotRegistered Code = "scheme-not-registered"
	CodeCyclicImport        Code = "cyclic-import"

	// Code-compilation errors.
	CodeInvalidCallOperator Code = "invalid-call-operator"
	CodeVarMissingTypeOrInit Code = "var-missing-type-or-init"
	CodeAmbiguousReturnPaths Code = "ambiguous-return-paths"
	CodeIfWithoutElseInValue Code = "if-without-else-in-value"

	// Dependency errors.
	CodeDependencyCycle Code = "dependency-cycle"
)

// Origin identifies where a diagnostic was raised: either a span
// directly, or an ast.Node (any type satisfying this tiny interface —
// kept minimal here so diagnostics does not import ast, avoiding an
// import cycle with packages ast depends on transitively).
type Origin interface {
	Pos() token.Span
}

// Diag is a single diagnostic.
type Diag struct {
	Severity Severity
	Phase    Phase
	Code     Code
	Message  string
	Origin   Origin
}

// String renders a Diag as "[phase] [severity] origin -> message".
func (d Diag) String() string {
	origin := "?"
	if d.Origin != nil {
		origin = d.Origin.Pos().String()
	}
	return fmt.Sprintf("[%s] [%s] %s -> %s", d.Phase, d.Severity, origin, d.Message)
}

// State is the shared collector every pass appends to. The first
// error in a subtree aborts that subtree (callers simply stop
// recursing once they've called Add with Severity Error); sibling
// subtrees continue (spec.md §7).
type State struct {
	diags []Diag
}

// NewState creates an empty diagnostic collector.
func NewState() *State { return &State{} }

// Add appends a diagnostic.
func (s *State) Add(d Diag) { s.diags = append(s.diags, d) }

// Errorf is a convenience for Add with Severity Error.
func (s *State) Errorf(phase Phase, code Code, origin Origin, format string, args ...any) {
	s.Add(Diag{Severity: Error, Phase: phase, Code: code, Message: fmt.Sprintf(format, args...), Origin: origin})
}

// Warnf is a convenience for Add with Severity Warning.
func (s *State) Warnf(phase Phase, code Code, origin Origin, format string, args ...any) {
	s.Add(Diag{Severity: Warning, Phase: phase, Code: code, Message: fmt.Sprintf(format, args...), Origin: origin})
}

// HasErrors reports whether any Severity Error diagnostic was
// recorded. The toolchain driver's exit code is derived from this.
func (s *State) HasErrors() bool {
	for _, d := range s.diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// All returns every recorded diagnostic, in recording order.
func (s *State) All() []Diag { return s.diags }

// String renders every diagnostic, one per line.
func (s *State) String() string {
	var b strings.Builder
	for _, d := range s.diags {
		b.WriteString(d.String())
		b.WriteByte('\n')
	}
	return b.String()
}
