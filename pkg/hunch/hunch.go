// Package hunch is a rule-based guessing game engine: it deduces which one of
// several mutually exclusive hypotheses holds by asking yes/no questions.
package hunch

import (
	"github.com/hunchworks/hunch/pkg/hunch/explain"
	"github.com/hunchworks/hunch/pkg/hunch/goaltree"
	"github.com/hunchworks/hunch/pkg/hunch/rank"
	"github.com/hunchworks/hunch/pkg/hunch/rules"
)

// Game is the main inference facade. A Game is an immutable snapshot of one
// guessing session; Answer returns the next snapshot and leaves the receiver
// untouched, so callers keep one Game value per session and replace it as
// answers come in.
type Game struct {
	tree   *goaltree.GoalTree
	scorer *rank.Scorer
}

// Options configures a Game
type Options struct {
	// Rules maps every derivable fact to its clauses.
	Rules rules.Rules
	// Groups are the mutually exclusive fact sets of the domain.
	Groups rules.Groups
	// Assertions seeds the game with already-answered facts, for resuming
	// a stored session.
	Assertions map[string]bool
	// Weights tunes question ranking. The zero value means rank.DefaultWeights.
	Weights rank.Weights
	// CheckGuaranteed derives facts forced by the one-true-hypothesis
	// assumption up front. Expensive on large rule sets.
	CheckGuaranteed bool
}

// New creates a Game from the given rule set and options.
func New(opts Options) (*Game, error) {
	var treeOpts []goaltree.Option
	if len(opts.Groups) > 0 {
		treeOpts = append(treeOpts, goaltree.WithGroups(opts.Groups))
	}
	if len(opts.Assertions) > 0 {
		treeOpts = append(treeOpts, goaltree.WithAssertions(opts.Assertions))
	}
	if opts.CheckGuaranteed {
		treeOpts = append(treeOpts, goaltree.WithGuaranteed())
	}

	tree, err := goaltree.Build(opts.Rules, treeOpts...)
	if err != nil {
		return nil, err
	}

	weights := opts.Weights
	if weights == (rank.Weights{}) {
		weights = rank.DefaultWeights()
	}
	return &Game{tree: tree, scorer: rank.NewScorer(weights)}, nil
}

// Answer records a yes/no answer for a fact and returns the resulting game
// state. Answering against an exclusive group reports
// internalerr.ErrContradiction and leaves the receiver usable.
func (g *Game) Answer(fact string, yes bool) (*Game, error) {
	tree, err := g.tree.WithAssertions(map[string]bool{fact: yes})
	if err != nil {
		return nil, err
	}
	return &Game{tree: tree, scorer: g.scorer}, nil
}

// Resume merges a saved answer map into the game, for restoring a session
// from storage in one step.
func (g *Game) Resume(answers map[string]bool) (*Game, error) {
	tree, err := g.tree.WithAssertions(answers)
	if err != nil {
		return nil, err
	}
	return &Game{tree: tree, scorer: g.scorer}, nil
}

// NextQuestion returns the most informative fact to ask about next. ok is
// false when the game is finished or nothing askable remains.
func (g *Game) NextQuestion() (fact string, ok bool, err error) {
	if g.Finished() {
		return "", false, nil
	}
	ranked, err := g.scorer.Rank(g.tree)
	if err != nil {
		return "", false, err
	}
	if len(ranked) == 0 {
		return "", false, nil
	}
	return ranked[0].Fact, true, nil
}

// Candidates returns every askable fact with its ranking breakdown, best
// first.
func (g *Game) Candidates() ([]rank.Candidate, error) {
	return g.scorer.Rank(g.tree)
}

// Solution reports the unique hypothesis that holds, once one does. See
// goaltree.GoalTree.Solution for the error cases.
func (g *Game) Solution() (string, bool, error) {
	return g.tree.Solution()
}

// Finished reports whether the game is over: a hypothesis has been proven,
// the answers have ruled every hypothesis out, or no askable question is
// left.
func (g *Game) Finished() bool {
	if _, found, err := g.tree.Solution(); found || err != nil {
		return true
	}
	return len(g.tree.AskableLeaves()) == 0
}

// Explain lists the definition chain for a fact: its clauses, then the
// clauses of every derived fact they mention.
func (g *Game) Explain(fact string) []explain.Entry {
	return explain.Definition(g.tree.Rules(), fact)
}

// Assertions returns the answers recorded so far, including any guaranteed
// facts derived at build time.
func (g *Game) Assertions() map[string]bool {
	return g.tree.Assertions()
}

// Tree exposes the underlying goal tree snapshot for rendering and
// inspection.
func (g *Game) Tree() *goaltree.GoalTree {
	return g.tree
}
