package vm

import "github.com/xpodev/miniz/internal/token"

// DebugInfo maps an emitted instruction's index within its Body to
// the source span recorded for it (spec.md §11 "Debug/span
// tracking"). It is a standalone table: compiler.Context holds one,
// but the code compiler does not record into it, and neither
// Disassemble nor diagnostics formatting reads it.
type DebugInfo struct {
	spans map[int]token.Span
}

func NewDebugInfo() *DebugInfo {
	return &DebugInfo{spans: map[int]token.Span{}}
}

// Record associates instruction index idx with span.
func (d *DebugInfo) Record(idx int, span token.Span) {
	d.spans[idx] = span
}

// Span returns the span recorded for idx, or the zero Span if none
// was recorded.
func (d *DebugInfo) Span(idx int) token.Span {
	return d.spans[idx]
}
