// Package dag provides a small directed-acyclic-graph container.
//
// The graph stores vertices of any comparable type and rejects edges that
// would close a cycle, so a successfully built Graph is acyclic by
// construction. Vertices and edges are enumerated in insertion order, which
// keeps traversals over the same graph deterministic across runs.
package dag

import (
	"fmt"

	"github.com/hunchworks/hunch/pkg/hunch/internalerr"
)

// Graph is a directed acyclic graph over vertices of type V.
//
// The zero value is not usable; construct with New. Graph is not safe for
// concurrent mutation.
type Graph[V comparable] struct {
	order []V
	index map[V]int
	succ  map[V][]V
	pred  map[V][]V
	edges int
}

// New returns an empty graph.
func New[V comparable]() *Graph[V] {
	return &Graph[V]{
		index: make(map[V]int),
		succ:  make(map[V][]V),
		pred:  make(map[V][]V),
	}
}

// AddVertex adds the given vertices. Vertices already present are skipped.
func (g *Graph[V]) AddVertex(vs ...V) {
	for _, v := range vs {
		if _, ok := g.index[v]; ok {
			continue
		}
		g.index[v] = len(g.order)
		g.order = append(g.order, v)
	}
}

// HasVertex reports whether v is a vertex of the graph.
func (g *Graph[V]) HasVertex(v V) bool {
	_, ok := g.index[v]
	return ok
}

// AddEdge adds an edge from one vertex to each of the given targets. All
// endpoints must already be vertices of the graph, otherwise
// internalerr.ErrNotFound is reported. An edge that would close a cycle is
// rejected with internalerr.ErrCycle. Duplicate edges are skipped. Edges are
// added in order and adding stops at the first error.
func (g *Graph[V]) AddEdge(from V, tos ...V) error {
	if err := g.validate(from); err != nil {
		return err
	}
	for _, to := range tos {
		if err := g.validate(to); err != nil {
			return err
		}
	}
	for _, to := range tos {
		if g.hasEdge(from, to) {
			continue
		}
		if g.hasPath(to, from) {
			return fmt.Errorf("dag: edge %v -> %v: %w", from, to, internalerr.ErrCycle)
		}
		g.succ[from] = append(g.succ[from], to)
		g.pred[to] = append(g.pred[to], from)
		g.edges++
	}
	return nil
}

// RemoveEdge removes the edge between the two vertices. A missing endpoint or
// a missing edge is reported as internalerr.ErrNotFound.
func (g *Graph[V]) RemoveEdge(from, to V) error {
	if err := g.validate(from); err != nil {
		return err
	}
	if err := g.validate(to); err != nil {
		return err
	}
	if !g.hasEdge(from, to) {
		return fmt.Errorf("dag: edge %v -> %v: %w", from, to, internalerr.ErrNotFound)
	}
	g.succ[from] = remove(g.succ[from], to)
	g.pred[to] = remove(g.pred[to], from)
	g.edges--
	return nil
}

// Vertices returns all vertices in insertion order.
func (g *Graph[V]) Vertices() []V {
	out := make([]V, len(g.order))
	copy(out, g.order)
	return out
}

// Successors returns the direct successors of v in edge-insertion order.
// An unknown vertex has no successors.
func (g *Graph[V]) Successors(v V) []V {
	return copied(g.succ[v])
}

// Predecessors returns the direct predecessors of v in edge-insertion order.
// An unknown vertex has no predecessors.
func (g *Graph[V]) Predecessors(v V) []V {
	return copied(g.pred[v])
}

// InDegree returns the number of incoming edges of v.
func (g *Graph[V]) InDegree(v V) int {
	return len(g.pred[v])
}

// OutDegree returns the number of outgoing edges of v.
func (g *Graph[V]) OutDegree(v V) int {
	return len(g.succ[v])
}

// Starts returns the vertices with no incoming edges, in insertion order.
func (g *Graph[V]) Starts() []V {
	return g.endpoints(g.InDegree)
}

// Terminals returns the vertices with no outgoing edges, in insertion order.
func (g *Graph[V]) Terminals() []V {
	return g.endpoints(g.OutDegree)
}

// VertexCount returns the number of vertices.
func (g *Graph[V]) VertexCount() int {
	return len(g.order)
}

// EdgeCount returns the number of edges.
func (g *Graph[V]) EdgeCount() int {
	return g.edges
}

// Equal reports whether the two graphs have the same vertex set and the same
// edge set. Insertion order does not matter.
func (g *Graph[V]) Equal(other *Graph[V]) bool {
	if other == nil {
		return false
	}
	if len(g.order) != len(other.order) || g.edges != other.edges {
		return false
	}
	for _, v := range g.order {
		if !other.HasVertex(v) {
			return false
		}
		if len(g.succ[v]) != len(other.succ[v]) {
			return false
		}
		for _, s := range g.succ[v] {
			if !other.hasEdge(v, s) {
				return false
			}
		}
	}
	return true
}

func (g *Graph[V]) validate(v V) error {
	if _, ok := g.index[v]; !ok {
		return fmt.Errorf("dag: vertex %v: %w", v, internalerr.ErrNotFound)
	}
	return nil
}

func (g *Graph[V]) hasEdge(from, to V) bool {
	for _, s := range g.succ[from] {
		if s == to {
			return true
		}
	}
	return false
}

// hasPath reports whether to is reachable from from, following edges forward.
func (g *Graph[V]) hasPath(from, to V) bool {
	if from == to {
		return true
	}
	seen := map[V]bool{from: true}
	stack := []V{from}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, s := range g.succ[v] {
			if s == to {
				return true
			}
			if !seen[s] {
				seen[s] = true
				stack = append(stack, s)
			}
		}
	}
	return false
}

func (g *Graph[V]) endpoints(degree func(V) int) []V {
	var out []V
	for _, v := range g.order {
		if degree(v) == 0 {
			out = append(out, v)
		}
	}
	return out
}

func copied[V any](vs []V) []V {
	if len(vs) == 0 {
		return nil
	}
	out := make([]V, len(vs))
	copy(out, vs)
	return out
}

func remove[V comparable](vs []V, v V) []V {
	for i := range vs {
		if vs[i] == v {
			return append(vs[:i], vs[i+1:]...)
		}
	}
	return vs
}
