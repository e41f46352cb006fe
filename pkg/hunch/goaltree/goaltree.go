// Package goaltree derives what is known about a rule set's facts from a
// partial set of yes/no assertions.
//
// A GoalTree is a pure value over {rules, exclusive groups, assertions} plus
// the graph derived from them: an AND/OR dag whose nodes carry a tri-state
// truth and a pruned flag. Answering a question produces a new GoalTree via
// WithAssertions; the old one stays valid, so callers can hold and compare
// snapshots freely, one per session, without locking.
//
// Derivation is deterministic. The same rules, groups and assertions always
// produce the same graph, node for node.
package goaltree

import (
	"fmt"
	"strings"

	"github.com/hunchworks/hunch/pkg/hunch/dag"
	"github.com/hunchworks/hunch/pkg/hunch/internalerr"
	"github.com/hunchworks/hunch/pkg/hunch/rules"
	"github.com/hunchworks/hunch/pkg/hunch/truth"
)

// GoalTree is an immutable inference state: the rule set, the exclusive
// groups, the assertions made so far, and the graph derived from them.
type GoalTree struct {
	d          *deriver
	assertions map[string]bool
	graph      *dag.Graph[Node]
	facts      map[string]FactNode
}

// Option configures Build.
type Option func(*buildOptions)

type buildOptions struct {
	groups     rules.Groups
	assertions map[string]bool
	guaranteed bool
}

// WithGroups declares the exclusive groups for the rule set.
func WithGroups(gs rules.Groups) Option {
	return func(o *buildOptions) { o.groups = gs }
}

// WithAssertions supplies initial assertions.
func WithAssertions(m map[string]bool) Option {
	return func(o *buildOptions) { o.assertions = m }
}

// WithGuaranteed enables guaranteed-fact derivation at build time: leaf facts
// whose value is forced by the one-true-hypothesis assumption are asserted
// up front. Expensive for large rule sets, see the deriver documentation.
func WithGuaranteed() Option {
	return func(o *buildOptions) { o.guaranteed = true }
}

// Build validates the rule set and groups, derives the initial graph and
// returns the goal tree. Assertions that contradict an exclusive group are
// reported as internalerr.ErrContradiction. Inputs are copied; the caller
// may keep mutating them.
func Build(r rules.Rules, opts ...Option) (*GoalTree, error) {
	var cfg buildOptions
	for _, o := range opts {
		o(&cfg)
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.groups.Validate(r); err != nil {
		return nil, err
	}

	d, err := newDeriver(copyRules(r), copyGroups(cfg.groups))
	if err != nil {
		return nil, err
	}

	asserts := copyAssertions(cfg.assertions)
	res, err := d.derive(asserts)
	if err != nil {
		return nil, err
	}

	if cfg.guaranteed {
		extra, err := d.guaranteed(asserts)
		if err != nil {
			return nil, err
		}
		if len(extra) > 0 {
			for fact, value := range extra {
				asserts[fact] = value
			}
			if res, err = d.derive(asserts); err != nil {
				return nil, err
			}
		}
	}

	return &GoalTree{d: d, assertions: asserts, graph: res.graph, facts: res.facts}, nil
}

// WithAssertions returns a new goal tree with the given assertions merged in.
// New values win on conflict. The graph is re-derived from the original rule
// set and the merged assertions; the receiver is not changed. Guaranteed-fact
// derivation is not repeated, it is a build-time step.
func (t *GoalTree) WithAssertions(m map[string]bool) (*GoalTree, error) {
	merged := copyAssertions(t.assertions)
	for fact, value := range m {
		merged[fact] = value
	}

	res, err := t.d.derive(merged)
	if err != nil {
		return nil, err
	}
	return &GoalTree{d: t.d, assertions: merged, graph: res.graph, facts: res.facts}, nil
}

// TruthOf returns the derived truth of the fact. Facts outside the graph are
// reported as internalerr.ErrNotFound.
func (t *GoalTree) TruthOf(fact string) (truth.Value, error) {
	n, ok := t.facts[fact]
	if !ok {
		return truth.Unknown, fmt.Errorf("goaltree: fact %q: %w", fact, internalerr.ErrNotFound)
	}
	return n.Truth, nil
}

// IsPruned reports whether asking about the fact has become pointless: its
// truth is unknown but no answer could change any hypothesis.
func (t *GoalTree) IsPruned(fact string) (bool, error) {
	n, ok := t.facts[fact]
	if !ok {
		return false, fmt.Errorf("goaltree: fact %q: %w", fact, internalerr.ErrNotFound)
	}
	return n.Pruned, nil
}

// Roots returns the hypothesis facts in sorted order.
func (t *GoalTree) Roots() []string {
	return append([]string(nil), t.d.roots...)
}

// Leaves returns the basic facts in sorted order.
func (t *GoalTree) Leaves() []string {
	return append([]string(nil), t.d.leaves...)
}

// AskableLeaves returns the leaves still worth asking about: truth Unknown
// and not pruned, in sorted order.
func (t *GoalTree) AskableLeaves() []string {
	var out []string
	for _, leaf := range t.d.leaves {
		n := t.facts[leaf]
		if n.Truth == truth.Unknown && !n.Pruned {
			out = append(out, leaf)
		}
	}
	return out
}

// Solution reports the unique hypothesis that holds. found is false while the
// answer is still open (no hypothesis true yet, at least one undecided).
// Every hypothesis false is internalerr.ErrNoSolution; more than one true is
// internalerr.ErrAmbiguousSolution and means the exclusive groups are
// incomplete for this rule set.
func (t *GoalTree) Solution() (string, bool, error) {
	var holds []string
	undecided := 0
	for _, root := range t.d.roots {
		switch t.facts[root].Truth {
		case truth.True:
			holds = append(holds, root)
		case truth.Unknown:
			undecided++
		}
	}

	switch {
	case len(holds) == 1:
		return holds[0], true, nil
	case len(holds) > 1:
		return "", false, fmt.Errorf("goaltree: hypotheses %s all hold: %w",
			strings.Join(holds, ", "), internalerr.ErrAmbiguousSolution)
	case undecided > 0:
		return "", false, nil
	default:
		return "", false, fmt.Errorf("goaltree: every hypothesis is false: %w",
			internalerr.ErrNoSolution)
	}
}

// Assertions returns a copy of the assertions the tree was derived from:
// the caller's own plus any guaranteed facts folded in at build time.
// Exclusions pinned by group propagation are derived state and not included.
func (t *GoalTree) Assertions() map[string]bool {
	return copyAssertions(t.assertions)
}

// Rules returns a copy of the rule set.
func (t *GoalTree) Rules() rules.Rules {
	return copyRules(t.d.rules)
}

// Groups returns a copy of the exclusive groups.
func (t *GoalTree) Groups() rules.Groups {
	return copyGroups(t.d.groups)
}

// Graph returns the derived graph snapshot. The graph is shared with the
// goal tree; callers must treat it as read-only.
func (t *GoalTree) Graph() *dag.Graph[Node] {
	return t.graph
}

func copyAssertions(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyRules(r rules.Rules) rules.Rules {
	out := make(rules.Rules, len(r))
	for fact, clauses := range r {
		out[fact] = append([]rules.Clause(nil), clauses...)
	}
	return out
}

func copyGroups(gs rules.Groups) rules.Groups {
	return append(rules.Groups(nil), gs...)
}
