// Package depend implements the dependency finder of spec.md §4.3:
// two dependency relations over resolved nodes (runtime and
// compile-time), reduced to a topological order of equivalence
// classes for the compiler's construct/define stages to walk.
package depend

import "github.com/xpodev/miniz/internal/resolved"

// EdgeKind distinguishes the two relations spec.md §4.3 defines.
type EdgeKind int

const (
	// RuntimeEdge: the target must exist as a declaration (construct
	// stage complete) before the source can be constructed. Two nodes
	// connected only by runtime edges may be mutually recursive — the
	// compiler breaks the cycle by constructing both before defining
	// either (spec.md §4.4).
	RuntimeEdge EdgeKind = iota
	// CompileTimeEdge: the target must be fully defined before the
	// source can be built at all, because building the source
	// requires evaluating an expression that transitively reads the
	// target. Unlike RuntimeEdge, a cycle through even one
	// CompileTimeEdge cannot be broken by declaration/definition
	// splitting.
	CompileTimeEdge
)

type edge struct {
	to   resolved.Node
	kind EdgeKind
}

// Graph is the dependency graph over a document's declarations.
type Graph struct {
	order []resolved.Node
	seen  map[resolved.Node]bool
	edges map[resolved.Node][]edge
}

func NewGraph() *Graph {
	return &Graph{seen: map[resolved.Node]bool{}, edges: map[resolved.Node][]edge{}}
}

// AddNode registers n so it appears in the output even if it has no
// edges (an isolated declaration is its own equivalence class).
func (g *Graph) AddNode(n resolved.Node) {
	if n == nil || g.seen[n] {
		return
	}
	g.seen[n] = true
	g.order = append(g.order, n)
}

// AddEdge records that from depends on to via kind. Self-edges
// (a node referencing itself, e.g. a field of its own class type) are
// dropped: a single node is its own trivial SCC either way, and Order
// only reports cycles among two or more nodes.
func (g *Graph) AddEdge(from, to resolved.Node, kind EdgeKind) {
	if from == nil || to == nil || from == to {
		return
	}
	g.AddNode(from)
	g.AddNode(to)
	g.edges[from] = append(g.edges[from], edge{to: to, kind: kind})
}
