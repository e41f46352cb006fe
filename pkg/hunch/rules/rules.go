// Package rules defines the rule model the goal-tree engine runs on.
//
// A rule set maps a conclusion fact to the alternative ways of establishing
// it. Each alternative is a Clause, a conjunction of other facts. A fact that
// never appears as a conclusion is basic: it cannot be derived and has to be
// asserted from outside, typically by asking the user. Conclusions that no
// clause mentions are the hypotheses the engine tries to decide between.
package rules

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/hunchworks/hunch/pkg/hunch/internalerr"
)

// Clause is a conjunction of fact names. The member set is canonical: sorted
// and free of duplicates, so clauses built from the same facts in any order
// compare the same way.
type Clause struct {
	facts []string
}

// NewClause builds a clause from the given fact names. Fact names are opaque
// strings; they are deduplicated and sorted but otherwise kept as given.
func NewClause(facts ...string) Clause {
	return Clause{facts: canonical(facts)}
}

// Facts returns the member facts in sorted order.
func (c Clause) Facts() []string {
	out := make([]string, len(c.facts))
	copy(out, c.facts)
	return out
}

// Has reports whether the clause mentions the fact.
func (c Clause) Has(fact string) bool {
	i := sort.SearchStrings(c.facts, fact)
	return i < len(c.facts) && c.facts[i] == fact
}

// Len returns the number of member facts.
func (c Clause) Len() int {
	return len(c.facts)
}

// String renders the clause as "a AND b AND c".
func (c Clause) String() string {
	return strings.Join(c.facts, " AND ")
}

// Equal reports whether the two clauses have the same member facts.
func (c Clause) Equal(o Clause) bool {
	return slices.Equal(c.facts, o.facts)
}

// Rules maps each conclusion fact to its clauses. A conclusion holds when any
// one of its clauses holds; a clause holds when all of its members hold.
// Clause order is preserved, it is the order alternatives were declared in.
type Rules map[string][]Clause

// Facts returns every fact the rule set mentions, conclusions and clause
// members alike, in sorted order.
func (r Rules) Facts() []string {
	seen := make(map[string]bool)
	for fact, clauses := range r {
		seen[fact] = true
		for _, c := range clauses {
			for _, m := range c.facts {
				seen[m] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for fact := range seen {
		out = append(out, fact)
	}
	sort.Strings(out)
	return out
}

// Basic reports whether the fact has no rule concluding it. Basic facts are
// the askable evidence of a rule set.
func (r Rules) Basic(fact string) bool {
	_, ok := r[fact]
	return !ok
}

// Hypotheses returns the conclusions that appear in no clause, in sorted
// order. These are the top-level alternatives the engine decides between.
func (r Rules) Hypotheses() []string {
	member := make(map[string]bool)
	for _, clauses := range r {
		for _, c := range clauses {
			for _, m := range c.facts {
				member[m] = true
			}
		}
	}
	var out []string
	for fact := range r {
		if !member[fact] {
			out = append(out, fact)
		}
	}
	sort.Strings(out)
	return out
}

// Validate checks the rule set for structural problems: an empty rule set,
// a conclusion with no clauses, an empty clause, or a dependency cycle among
// conclusions. Problems are reported as internalerr.ErrInvalidRules.
func (r Rules) Validate() error {
	if len(r) == 0 {
		return fmt.Errorf("rules: empty rule set: %w", internalerr.ErrInvalidRules)
	}

	keys := make([]string, 0, len(r))
	for fact := range r {
		keys = append(keys, fact)
	}
	sort.Strings(keys)

	for _, fact := range keys {
		clauses := r[fact]
		if len(clauses) == 0 {
			return fmt.Errorf("rules: fact %q has no clauses: %w", fact, internalerr.ErrInvalidRules)
		}
		for i, c := range clauses {
			if c.Len() == 0 {
				return fmt.Errorf("rules: fact %q clause %d is empty: %w", fact, i, internalerr.ErrInvalidRules)
			}
		}
	}

	// A conclusion must not depend on itself, directly or through other
	// conclusions. Basic facts cannot take part in a cycle.
	done := make(map[string]bool)
	onStack := make(map[string]bool)
	var visit func(fact string) error
	visit = func(fact string) error {
		if done[fact] {
			return nil
		}
		if onStack[fact] {
			return fmt.Errorf("rules: dependency cycle through %q: %w", fact, internalerr.ErrInvalidRules)
		}
		onStack[fact] = true
		for _, c := range r[fact] {
			for _, m := range c.facts {
				if r.Basic(m) {
					continue
				}
				if err := visit(m); err != nil {
					return err
				}
			}
		}
		onStack[fact] = false
		done[fact] = true
		return nil
	}
	for _, fact := range keys {
		if err := visit(fact); err != nil {
			return err
		}
	}
	return nil
}

// Group is a set of mutually exclusive facts: at most one of its members can
// be true at the same time. The member set is canonical like a Clause.
type Group struct {
	facts []string
}

// NewGroup builds a group from the given fact names, deduplicated and sorted.
func NewGroup(facts ...string) Group {
	return Group{facts: canonical(facts)}
}

// Facts returns the member facts in sorted order.
func (g Group) Facts() []string {
	out := make([]string, len(g.facts))
	copy(out, g.facts)
	return out
}

// Has reports whether the group contains the fact.
func (g Group) Has(fact string) bool {
	i := sort.SearchStrings(g.facts, fact)
	return i < len(g.facts) && g.facts[i] == fact
}

// Len returns the number of member facts.
func (g Group) Len() int {
	return len(g.facts)
}

// String renders the group as "a | b | c".
func (g Group) String() string {
	return strings.Join(g.facts, " | ")
}

// Equal reports whether the two groups have the same member facts.
func (g Group) Equal(o Group) bool {
	return slices.Equal(g.facts, o.facts)
}

// Groups is the exclusive groups declared for a rule set.
type Groups []Group

// Validate checks every group against the rule set: a group needs at least
// two distinct members, and each member must be a fact the rule set mentions.
// Problems are reported as internalerr.ErrInvalidRules.
func (gs Groups) Validate(r Rules) error {
	universe := make(map[string]bool)
	for _, fact := range r.Facts() {
		universe[fact] = true
	}
	for i, g := range gs {
		if g.Len() < 2 {
			return fmt.Errorf("rules: exclusive group %d needs at least two members, has %d: %w",
				i, g.Len(), internalerr.ErrInvalidRules)
		}
		for _, fact := range g.facts {
			if !universe[fact] {
				return fmt.Errorf("rules: exclusive group %d names unknown fact %q: %w",
					i, fact, internalerr.ErrInvalidRules)
			}
		}
	}
	return nil
}

func canonical(facts []string) []string {
	out := make([]string, 0, len(facts))
	seen := make(map[string]bool, len(facts))
	for _, f := range facts {
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
