package depend

import (
	"fmt"
	"strings"

	"github.com/xpodev/miniz/internal/resolved"
)

// Class is one equivalence class of mutually-recursive declarations,
// in the order the compiler should construct (and, if singleton,
// define) them.
type Class struct {
	Nodes []resolved.Node
}

// CycleError reports an unbreakable cycle: one containing at least
// one CompileTimeEdge, which cannot be resolved by the compiler's
// declaration/definition split (spec.md §4.3 "Cycles that cannot be
// broken are reported as errors with the full cycle").
type CycleError struct {
	Nodes []resolved.Node
}

func (e *CycleError) Error() string {
	var names []string
	for _, n := range e.Nodes {
		if named, ok := n.(resolved.Named); ok {
			names = append(names, named.DeclaredName())
		} else {
			names = append(names, "<anonymous>")
		}
	}
	return fmt.Sprintf("dependency cycle: %s", strings.Join(names, " -> "))
}

// Order runs Tarjan's SCC algorithm over g and returns the resulting
// equivalence classes in reverse-topological-finish order reversed to
// forward dependency order (a class's dependencies all appear in
// classes before it). Returns a *CycleError for the first SCC found
// that contains a CompileTimeEdge among its own members — such a
// cycle cannot be broken by construct/define splitting.
func Order(g *Graph) ([]Class, error) {
	t := &tarjan{
		g:       g,
		index:   map[resolved.Node]int{},
		lowlink: map[resolved.Node]int{},
		onStack: map[resolved.Node]bool{},
	}
	for _, n := range g.order {
		if _, visited := t.index[n]; !visited {
			t.strongconnect(n)
		}
	}
	if t.err != nil {
		return nil, t.err
	}

	// t.classes was built in reverse order of finish time (Tarjan
	// emits an SCC once it is fully closed, which happens in reverse
	// topological order relative to the edges we recorded — a node's
	// dependencies finish, and hence get their SCC, before the node
	// itself). Reverse once more so dependencies precede dependents.
	classes := make([]Class, len(t.classes))
	for i, c := range t.classes {
		classes[len(t.classes)-1-i] = c
	}
	return classes, nil
}

type tarjan struct {
	g        *Graph
	index    map[resolved.Node]int
	lowlink  map[resolved.Node]int
	onStack  map[resolved.Node]bool
	stack    []resolved.Node
	counter  int
	classes  []Class
	err      error
}

func (t *tarjan) strongconnect(v resolved.Node) {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, e := range t.g.edges[v] {
		w := e.to
		if _, visited := t.index[w]; !visited {
			t.strongconnect(w)
			if t.err != nil {
				return
			}
			if t.lowlink[w] < t.lowlink[v] {
				t.lowlink[v] = t.lowlink[w]
			}
		} else if t.onStack[w] {
			if t.index[w] < t.lowlink[v] {
				t.lowlink[v] = t.index[w]
			}
		}
	}

	if t.lowlink[v] != t.index[v] {
		return
	}

	var comp []resolved.Node
	for {
		n := len(t.stack) - 1
		w := t.stack[n]
		t.stack = t.stack[:n]
		t.onStack[w] = false
		comp = append(comp, w)
		if w == v {
			break
		}
	}

	if len(comp) > 1 && t.hasInternalCompileTimeEdge(comp) {
		t.err = &CycleError{Nodes: comp}
		return
	}
	t.classes = append(t.classes, Class{Nodes: comp})
}

// hasInternalCompileTimeEdge reports whether any CompileTimeEdge in
// the graph connects two members of comp.
func (t *tarjan) hasInternalCompileTimeEdge(comp []resolved.Node) bool {
	members := make(map[resolved.Node]bool, len(comp))
	for _, n := range comp {
		members[n] = true
	}
	for _, n := range comp {
		for _, e := range t.g.edges[n] {
			if e.kind == CompileTimeEdge && members[e.to] {
				return true
			}
		}
	}
	return false
}
