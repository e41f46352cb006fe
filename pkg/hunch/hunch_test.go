package hunch

import (
	"errors"
	"testing"

	"github.com/hunchworks/hunch/pkg/hunch/internalerr"
	"github.com/hunchworks/hunch/pkg/hunch/rank"
	"github.com/hunchworks/hunch/pkg/hunch/rules"
	"github.com/hunchworks/hunch/pkg/hunch/truth"
)

func birdRules() rules.Rules {
	return rules.Rules{
		"penguin":   {rules.NewClause("bird", "swims")},
		"bird":      {rules.NewClause("feathers"), rules.NewClause("flies")},
		"albatross": {rules.NewClause("bird", "good flyer")},
	}
}

func mustNew(t *testing.T, opts Options) *Game {
	t.Helper()
	g, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func mustAnswer(t *testing.T, g *Game, fact string, yes bool) *Game {
	t.Helper()
	next, err := g.Answer(fact, yes)
	if err != nil {
		t.Fatalf("Answer(%q, %v): %v", fact, yes, err)
	}
	return next
}

func TestNewValidatesRules(t *testing.T) {
	if _, err := New(Options{}); !errors.Is(err, internalerr.ErrInvalidRules) {
		t.Errorf("New with no rules: err = %v, want ErrInvalidRules", err)
	}
}

func TestAnswerLeavesReceiverUntouched(t *testing.T) {
	g := mustNew(t, Options{Rules: birdRules()})
	g2 := mustAnswer(t, g, "feathers", true)

	if len(g.Assertions()) != 0 {
		t.Errorf("old game gained assertions: %v", g.Assertions())
	}
	if v := g2.Assertions()["feathers"]; !v {
		t.Errorf("new game assertions = %v, want feathers true", g2.Assertions())
	}
}

func TestAnswerContradictionKeepsGamePlayable(t *testing.T) {
	g := mustNew(t, Options{
		Rules:  birdRules(),
		Groups: rules.Groups{rules.NewGroup("penguin", "albatross")},
	})
	g = mustAnswer(t, g, "penguin", true)

	if _, err := g.Answer("albatross", true); !errors.Is(err, internalerr.ErrContradiction) {
		t.Fatalf("contradicting answer: err = %v, want ErrContradiction", err)
	}

	// The failed answer must not have poisoned the snapshot.
	g2 := mustAnswer(t, g, "swims", true)
	if fact, found, err := g2.Solution(); err != nil || !found || fact != "penguin" {
		t.Errorf("Solution() = (%q, %v, %v), want (penguin, true, nil)", fact, found, err)
	}
}

func TestNextQuestionPicksDiscriminatingFact(t *testing.T) {
	g := mustNew(t, Options{Rules: birdRules()})

	fact, ok, err := g.NextQuestion()
	if err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}
	// A "no" on good flyer or swims eliminates a hypothesis outright;
	// good flyer wins the tie alphabetically.
	if !ok || fact != "good flyer" {
		t.Errorf("NextQuestion() = (%q, %v), want (good flyer, true)", fact, ok)
	}
}

func TestNextQuestionEndsWithGame(t *testing.T) {
	g := mustNew(t, Options{Rules: birdRules(), Assertions: map[string]bool{
		"feathers": true,
		"swims":    true,
	}})

	if !g.Finished() {
		t.Fatal("game with a proven hypothesis should be finished")
	}
	if fact, ok, err := g.NextQuestion(); err != nil || ok {
		t.Errorf("NextQuestion() = (%q, %v, %v), want not ok", fact, ok, err)
	}
}

func TestFinishedStates(t *testing.T) {
	fresh := mustNew(t, Options{Rules: birdRules()})
	if fresh.Finished() {
		t.Error("fresh game should not be finished")
	}

	ruledOut := mustNew(t, Options{Rules: birdRules(), Assertions: map[string]bool{
		"feathers": false,
		"flies":    false,
	}})
	if !ruledOut.Finished() {
		t.Error("game with every hypothesis false should be finished")
	}
	if _, _, err := ruledOut.Solution(); !errors.Is(err, internalerr.ErrNoSolution) {
		t.Errorf("Solution() err = %v, want ErrNoSolution", err)
	}
}

func TestResumeRestoresSession(t *testing.T) {
	saved := map[string]bool{"good flyer": false, "swims": true}

	g := mustNew(t, Options{Rules: birdRules()})
	resumed, err := g.Resume(saved)
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}

	direct := mustNew(t, Options{Rules: birdRules(), Assertions: saved})
	if !resumed.Tree().Graph().Equal(direct.Tree().Graph()) {
		t.Error("resumed game differs from a game built with the same answers")
	}
}

func TestCandidatesUsesConfiguredWeights(t *testing.T) {
	g := mustNew(t, Options{
		Rules:   birdRules(),
		Weights: rank.Weights{Hypotheses: 0, Pruning: 1},
	})

	ranked, err := g.Candidates()
	if err != nil {
		t.Fatalf("Candidates: %v", err)
	}
	// With only the pruning weight active, feathers and flies lead.
	if ranked[0].Fact != "feathers" {
		t.Errorf("top candidate = %q, want feathers", ranked[0].Fact)
	}
}

func TestExplainDelegatesToRules(t *testing.T) {
	g := mustNew(t, Options{Rules: birdRules()})

	entries := g.Explain("penguin")
	if len(entries) != 2 || entries[0].Fact != "penguin" || entries[1].Fact != "bird" {
		t.Errorf("Explain(penguin) = %v, want penguin then bird", entries)
	}
	if len(g.Explain("swims")) != 0 {
		t.Error("Explain of a basic fact should be empty")
	}
}

func TestGuaranteedFoldsIntoAssertions(t *testing.T) {
	g := mustNew(t, Options{
		Rules: rules.Rules{
			"penguin":   {rules.NewClause("bird", "swims")},
			"albatross": {rules.NewClause("bird", "good flyer")},
		},
		CheckGuaranteed: true,
	})

	if v, err := g.Tree().TruthOf("bird"); err != nil || v != truth.True {
		t.Errorf("TruthOf(bird) = (%v, %v), want True", v, err)
	}
	if fact, ok, err := g.NextQuestion(); err != nil || !ok || fact == "bird" {
		t.Errorf("NextQuestion() = (%q, %v, %v); bird is already settled", fact, ok, err)
	}
}
