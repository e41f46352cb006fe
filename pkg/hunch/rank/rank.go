// Package rank scores the open questions of a goal tree by how much an
// answer would advance the game.
package rank

import (
	"errors"
	"math"
	"sort"

	"github.com/hunchworks/hunch/pkg/hunch/goaltree"
	"github.com/hunchworks/hunch/pkg/hunch/internalerr"
	"github.com/hunchworks/hunch/pkg/hunch/truth"
)

// Scorer calculates question scores over a goal tree.
type Scorer struct {
	weights Weights
}

// Weights defines the scoring weights
type Weights struct {
	Hypotheses float64 // hypotheses eliminated
	Pruning    float64 // follow-up questions pruned
}

// DefaultWeights favors cutting hypotheses over pruning questions three to
// one.
func DefaultWeights() Weights {
	return Weights{Hypotheses: 3, Pruning: 1}
}

// NewScorer creates a new scorer with the given weights
func NewScorer(w Weights) *Scorer {
	return &Scorer{weights: w}
}

// Candidate is one askable fact with its score breakdown.
type Candidate struct {
	Fact      string
	Breakdown Breakdown
}

// Breakdown provides detailed scoring information
type Breakdown struct {
	RootsCutIfYes     int // hypotheses newly false when answered yes
	RootsCutIfNo      int // hypotheses newly false when answered no
	LeavesPrunedIfYes int // leaf questions newly pruned when answered yes
	LeavesPrunedIfNo  int // leaf questions newly pruned when answered no
	HypothesisScore   float64
	PruningScore      float64
	Total             float64
}

// Rank scores every askable leaf of the tree and returns the candidates in
// descending score order, ties broken by fact name. Each candidate costs two
// full derivations (one per possible answer), so cache the result per tree
// rather than calling Rank repeatedly.
//
//	total = hw·√((rootsCutIfNo+1)·(rootsCutIfYes+1)) + pw·√((leavesPrunedIfNo+1)·(leavesPrunedIfYes+1))
//
// The geometric mean rewards questions that are informative for both answers
// over questions that only matter one way; the +1 offsets keep a one-sided
// question from collapsing to zero.
func (s *Scorer) Rank(gt *goaltree.GoalTree) ([]Candidate, error) {
	askable := gt.AskableLeaves()
	base := measure(gt)

	out := make([]Candidate, 0, len(askable))
	for _, fact := range askable {
		cutYes, prunedYes, err := s.hypothetical(gt, base, fact, true, len(askable))
		if err != nil {
			return nil, err
		}
		cutNo, prunedNo, err := s.hypothetical(gt, base, fact, false, len(askable))
		if err != nil {
			return nil, err
		}

		b := Breakdown{
			RootsCutIfYes:     cutYes,
			RootsCutIfNo:      cutNo,
			LeavesPrunedIfYes: prunedYes,
			LeavesPrunedIfNo:  prunedNo,
			HypothesisScore:   s.weights.Hypotheses * geometricMean(cutNo+1, cutYes+1),
			PruningScore:      s.weights.Pruning * geometricMean(prunedNo+1, prunedYes+1),
		}
		b.Total = b.HypothesisScore + b.PruningScore
		out = append(out, Candidate{Fact: fact, Breakdown: b})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Breakdown.Total != out[j].Breakdown.Total {
			return out[i].Breakdown.Total > out[j].Breakdown.Total
		}
		return out[i].Fact < out[j].Fact
	})
	return out, nil
}

// counts of the tree as it stands: roots already false, leaves already
// pruned.
type counts struct {
	falseRoots   int
	prunedLeaves int
}

func measure(gt *goaltree.GoalTree) counts {
	var c counts
	for _, root := range gt.Roots() {
		if v, err := gt.TruthOf(root); err == nil && v == truth.False {
			c.falseRoots++
		}
	}
	for _, leaf := range gt.Leaves() {
		if p, err := gt.IsPruned(leaf); err == nil && p {
			c.prunedLeaves++
		}
	}
	return c
}

// hypothetical derives the tree with fact pinned to the given answer and
// reports how many roots and leaves that settles beyond the current state.
// An answer that contradicts an exclusive group would end the game outright,
// so it counts as settling every remaining root and every other open leaf.
func (s *Scorer) hypothetical(gt *goaltree.GoalTree, base counts, fact string, answer bool, askable int) (rootsCut, leavesPruned int, err error) {
	hyp, err := gt.WithAssertions(map[string]bool{fact: answer})
	if errors.Is(err, internalerr.ErrContradiction) {
		return len(gt.Roots()) - base.falseRoots, askable - 1, nil
	}
	if err != nil {
		return 0, 0, err
	}

	c := measure(hyp)
	return c.falseRoots - base.falseRoots, c.prunedLeaves - base.prunedLeaves, nil
}

func geometricMean(a, b int) float64 {
	return math.Sqrt(float64(a) * float64(b))
}
