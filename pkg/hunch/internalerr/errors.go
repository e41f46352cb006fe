package internalerr

import "errors"

// Sentinel errors for common cases
var (
	// ErrNotFound reports a query for a fact that is absent from the graph
	// (or a vertex absent from a DAG, or a session absent from a store).
	ErrNotFound = errors.New("not found")

	// ErrContradiction reports that the current assertions are jointly
	// unsatisfiable: an exclusive group ended up with more than one true
	// member, or a fact turned out infeasible in both directions.
	ErrContradiction = errors.New("contradiction")

	// ErrNoSolution reports that every hypothesis has been ruled out.
	ErrNoSolution = errors.New("no solution")

	// ErrAmbiguousSolution reports that more than one hypothesis is true at
	// once, which signals an incomplete exclusive-group configuration.
	ErrAmbiguousSolution = errors.New("ambiguous solution")

	// ErrCycle reports an edge that would make a graph cyclic.
	ErrCycle = errors.New("cycle")

	// ErrInvalidRules reports a malformed rule set (empty clauses, facts
	// depending on themselves, groups over unknown facts).
	ErrInvalidRules = errors.New("invalid rules")

	// ErrInvalidConfig reports a malformed ruleset file.
	ErrInvalidConfig = errors.New("invalid configuration")
)
