// Package explain produces the definition listing for a fact: the chain of
// rules a reader would follow to justify it.
//
// The listing is structural. It reads the rule set only and never consults
// truth values, so the same fact always explains the same way regardless of
// what has been asserted.
package explain

import "github.com/hunchworks/hunch/pkg/hunch/rules"

// Entry is one fact's definition: its clauses exactly as declared.
type Entry struct {
	Fact    string
	Clauses []rules.Clause
}

// Definition lists the definition of fact followed by the definitions of
// every derived fact it depends on, each emitted once, in breadth-first
// discovery order. A basic fact has no definition and yields an empty
// listing.
func Definition(r rules.Rules, fact string) []Entry {
	var out []Entry
	seen := map[string]bool{fact: true}
	queue := []string{fact}

	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]

		clauses, ok := r[f]
		if !ok {
			continue
		}
		out = append(out, Entry{
			Fact:    f,
			Clauses: append([]rules.Clause(nil), clauses...),
		})
		for _, c := range clauses {
			for _, m := range c.Facts() {
				if seen[m] {
					continue
				}
				seen[m] = true
				queue = append(queue, m)
			}
		}
	}
	return out
}
