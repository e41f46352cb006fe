package goaltree

import (
	"fmt"
	"sort"

	"github.com/hunchworks/hunch/pkg/hunch/dag"
	"github.com/hunchworks/hunch/pkg/hunch/internalerr"
	"github.com/hunchworks/hunch/pkg/hunch/rules"
	"github.com/hunchworks/hunch/pkg/hunch/truth"
)

// deriver holds everything about a rule set that does not change between
// derivations: the graph shape and the traversal orders over it. One deriver
// is shared by a goal tree and all trees derived from it; it is never
// mutated after construction.
type deriver struct {
	rules  rules.Rules
	groups rules.Groups

	// shape is the initial graph: every node Unknown and unpruned. Node
	// values in shape double as memo keys during derivation.
	shape *dag.Graph[Node]

	// downward visits every node after its predecessors, upward is the
	// reverse: every node after its successors.
	downward []Node
	upward   []Node

	roots  []string // hypothesis facts, sorted
	leaves []string // basic facts, sorted
}

func newDeriver(r rules.Rules, gs rules.Groups) (*deriver, error) {
	shape, err := buildShape(r)
	if err != nil {
		return nil, err
	}

	down := topological(shape)
	up := make([]Node, len(down))
	for i, n := range down {
		up[len(down)-1-i] = n
	}

	d := &deriver{
		rules:    r,
		groups:   gs,
		shape:    shape,
		downward: down,
		upward:   up,
	}
	for _, n := range shape.Starts() {
		d.roots = append(d.roots, n.(FactNode).Fact)
	}
	for _, n := range shape.Terminals() {
		d.leaves = append(d.leaves, n.(FactNode).Fact)
	}
	sort.Strings(d.roots)
	sort.Strings(d.leaves)
	return d, nil
}

// buildShape turns the rule set into the initial graph. Each distinct fact
// name maps to exactly one FactNode; each clause becomes one AndNode between
// the concluded fact and the clause members.
func buildShape(r rules.Rules) (*dag.Graph[Node], error) {
	g := dag.New[Node]()

	keys := make([]string, 0, len(r))
	for fact := range r {
		keys = append(keys, fact)
	}
	sort.Strings(keys)

	for _, fact := range keys {
		g.AddVertex(FactNode{Fact: fact})
		for i, clause := range r[fact] {
			and := AndNode{Parent: fact, Index: i}
			g.AddVertex(and)
			if err := g.AddEdge(FactNode{Fact: fact}, and); err != nil {
				return nil, err
			}
			for _, m := range clause.Facts() {
				g.AddVertex(FactNode{Fact: m})
				if err := g.AddEdge(and, FactNode{Fact: m}); err != nil {
					return nil, err
				}
			}
		}
	}
	return g, nil
}

// topological orders the vertices so that every vertex appears after all of
// its predecessors. Ties keep graph insertion order, so the result is
// deterministic for a given rule set.
func topological(g *dag.Graph[Node]) []Node {
	indegree := make(map[Node]int, g.VertexCount())
	var queue []Node
	for _, v := range g.Vertices() {
		d := g.InDegree(v)
		indegree[v] = d
		if d == 0 {
			queue = append(queue, v)
		}
	}

	order := make([]Node, 0, g.VertexCount())
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		order = append(order, v)
		for _, s := range g.Successors(v) {
			indegree[s]--
			if indegree[s] == 0 {
				queue = append(queue, s)
			}
		}
	}
	return order
}

// derived is one immutable propagation result.
type derived struct {
	graph *dag.Graph[Node]
	facts map[string]FactNode
}

// derive runs the full pipeline for one assertion map: exclusive-group
// propagation to a fixed point, then the pruning pass, then assembly of the
// final graph snapshot. The assertion map is read, never written.
func (d *deriver) derive(asserts map[string]bool) (*derived, error) {
	truths, _, err := d.exclusive(asserts)
	if err != nil {
		return nil, err
	}
	pruned := d.prune(truths)
	return d.finalize(truths, pruned)
}

// chain is the forward-chaining pass: one bottom-up sweep computing every
// node's truth. The upward order guarantees children are decided before
// their parents, so each node is computed exactly once.
func (d *deriver) chain(asserts map[string]bool) map[Node]truth.Value {
	truths := make(map[Node]truth.Value, len(d.upward))
	for _, n := range d.upward {
		switch n := n.(type) {
		case AndNode:
			vs := make([]truth.Value, 0, d.shape.OutDegree(n))
			for _, c := range d.shape.Successors(n) {
				vs = append(vs, truths[c])
			}
			truths[n] = truth.And(vs...)
		case FactNode:
			// An assertion overrides whatever the clauses compute,
			// for interior facts as much as for leaves.
			if v, ok := asserts[n.Fact]; ok {
				truths[n] = truth.FromBool(v)
				continue
			}
			children := d.shape.Successors(n)
			if len(children) == 0 {
				truths[n] = truth.Unknown
				continue
			}
			vs := make([]truth.Value, 0, len(children))
			for _, c := range children {
				vs = append(vs, truths[c])
			}
			truths[n] = truth.Or(vs...)
		default:
			panic(fmt.Sprintf("goaltree: unknown node kind %T", n))
		}
	}
	return truths
}

// exclusive runs forward chaining and exclusive-group propagation to a fixed
// point. Whenever a group has exactly one True member the others are pinned
// False in a working copy of the assertions, and chaining runs again; more
// than one True member is a contradiction. It returns the final truths and
// the working assertion map (callers treat the pins as derived, they are not
// folded into the goal tree's own assertions).
func (d *deriver) exclusive(asserts map[string]bool) (map[Node]truth.Value, map[string]bool, error) {
	work := make(map[string]bool, len(asserts))
	for k, v := range asserts {
		work[k] = v
	}

	for {
		truths := d.chain(work)
		added := false
		for _, g := range d.groups {
			var holds []string
			for _, m := range g.Facts() {
				if truths[FactNode{Fact: m}] == truth.True {
					holds = append(holds, m)
				}
			}
			if len(holds) > 1 {
				return nil, nil, fmt.Errorf("goaltree: exclusive group [%s] has %d true members: %w",
					g, len(holds), internalerr.ErrContradiction)
			}
			if len(holds) != 1 {
				continue
			}
			for _, m := range g.Facts() {
				if m == holds[0] {
					continue
				}
				if _, pinned := work[m]; pinned {
					continue
				}
				work[m] = false
				added = true
			}
		}
		if !added {
			return truths, work, nil
		}
	}
}

// prune computes the pruned flag for every node. A node is pruned when its
// truth is Unknown but no resolution of it could change any ancestor: every
// direct parent is already decided or itself pruned. Roots are never pruned.
// The downward order guarantees parents are finalized before their children.
func (d *deriver) prune(truths map[Node]truth.Value) map[Node]bool {
	pruned := make(map[Node]bool, len(d.downward))
	for _, n := range d.downward {
		if truths[n].Known() || d.shape.InDegree(n) == 0 {
			continue
		}
		dead := true
		for _, p := range d.shape.Predecessors(n) {
			if !truths[p].Known() && !pruned[p] {
				dead = false
				break
			}
		}
		pruned[n] = dead
	}
	return pruned
}

// finalize assembles the result graph: the shape with every node's Truth and
// Pruned fields filled in.
func (d *deriver) finalize(truths map[Node]truth.Value, pruned map[Node]bool) (*derived, error) {
	fill := func(n Node) Node {
		switch n := n.(type) {
		case FactNode:
			return FactNode{Fact: n.Fact, Truth: truths[n], Pruned: pruned[n]}
		case AndNode:
			return AndNode{Parent: n.Parent, Index: n.Index, Truth: truths[n], Pruned: pruned[n]}
		default:
			panic(fmt.Sprintf("goaltree: unknown node kind %T", n))
		}
	}

	g := dag.New[Node]()
	facts := make(map[string]FactNode)
	for _, v := range d.shape.Vertices() {
		n := fill(v)
		g.AddVertex(n)
		if fn, ok := n.(FactNode); ok {
			facts[fn.Fact] = fn
		}
	}
	for _, v := range d.shape.Vertices() {
		for _, s := range d.shape.Successors(v) {
			if err := g.AddEdge(fill(v), fill(s)); err != nil {
				return nil, err
			}
		}
	}
	return &derived{graph: g, facts: facts}, nil
}

// guaranteed finds the leaf facts whose value is forced by the assumption
// that exactly one hypothesis ultimately holds. Each unasserted leaf is
// hypothetically pinned True and, separately, False; a branch is infeasible
// when it contradicts an exclusive group or leaves no hypothesis possibly
// true. One infeasible branch guarantees the other value; two is a
// contradiction in the rule set itself.
//
// Cost is two full propagations per leaf, so this runs on demand, not on
// every assertion change.
func (d *deriver) guaranteed(asserts map[string]bool) (map[string]bool, error) {
	found := make(map[string]bool)
	for _, leaf := range d.leaves {
		if _, ok := asserts[leaf]; ok {
			continue
		}
		canBeTrue := d.feasible(asserts, leaf, true)
		canBeFalse := d.feasible(asserts, leaf, false)
		switch {
		case !canBeTrue && !canBeFalse:
			return nil, fmt.Errorf("goaltree: fact %q can be neither true nor false: %w",
				leaf, internalerr.ErrContradiction)
		case !canBeFalse:
			found[leaf] = true
		case !canBeTrue:
			found[leaf] = false
		}
	}
	return found, nil
}

// feasible reports whether pinning the fact to the given value still leaves
// some hypothesis possibly true.
func (d *deriver) feasible(asserts map[string]bool, fact string, value bool) bool {
	work := make(map[string]bool, len(asserts)+1)
	for k, v := range asserts {
		work[k] = v
	}
	work[fact] = value

	truths, _, err := d.exclusive(work)
	if err != nil {
		return false
	}
	for _, root := range d.roots {
		if truths[FactNode{Fact: root}] != truth.False {
			return true
		}
	}
	return false
}
