package rules

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hunchworks/hunch/pkg/hunch/internalerr"
)

func birdRules() Rules {
	return Rules{
		"penguin":   {NewClause("bird", "swims", "doesn't fly")},
		"albatross": {NewClause("bird", "good flyer")},
		"bird":      {NewClause("feathers"), NewClause("flies", "lays eggs")},
	}
}

func TestNewClauseCanonical(t *testing.T) {
	c := NewClause("swims", "bird", "swims", "doesn't fly")

	want := []string{"bird", "doesn't fly", "swims"}
	if diff := cmp.Diff(want, c.Facts()); diff != "" {
		t.Errorf("Facts() mismatch (-want +got):\n%s", diff)
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
}

func TestClauseFactsReturnsCopy(t *testing.T) {
	c := NewClause("a", "b")
	c.Facts()[0] = "mutated"

	if got := c.Facts()[0]; got != "a" {
		t.Errorf("clause changed to %q through returned slice", got)
	}
}

func TestClauseHas(t *testing.T) {
	c := NewClause("bird", "swims")

	if !c.Has("bird") {
		t.Error("Has(bird) should be true")
	}
	if c.Has("penguin") {
		t.Error("Has(penguin) should be false")
	}
}

func TestClauseString(t *testing.T) {
	c := NewClause("good flyer", "bird")

	if got, want := c.String(), "bird AND good flyer"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestRulesFacts(t *testing.T) {
	got := birdRules().Facts()
	want := []string{
		"albatross", "bird", "doesn't fly", "feathers", "flies",
		"good flyer", "lays eggs", "penguin", "swims",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Facts() mismatch (-want +got):\n%s", diff)
	}
}

func TestRulesBasic(t *testing.T) {
	r := birdRules()

	for _, fact := range []string{"feathers", "flies", "swims", "good flyer"} {
		if !r.Basic(fact) {
			t.Errorf("Basic(%q) should be true", fact)
		}
	}
	for _, fact := range []string{"bird", "penguin", "albatross"} {
		if r.Basic(fact) {
			t.Errorf("Basic(%q) should be false", fact)
		}
	}
}

func TestRulesHypotheses(t *testing.T) {
	got := birdRules().Hypotheses()
	want := []string{"albatross", "penguin"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Hypotheses() mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateOK(t *testing.T) {
	if err := birdRules().Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestValidateEmptyRuleSet(t *testing.T) {
	if err := (Rules{}).Validate(); !errors.Is(err, internalerr.ErrInvalidRules) {
		t.Errorf("Validate() = %v, want ErrInvalidRules", err)
	}
}

func TestValidateNoClauses(t *testing.T) {
	r := Rules{"bird": nil}
	if err := r.Validate(); !errors.Is(err, internalerr.ErrInvalidRules) {
		t.Errorf("Validate() = %v, want ErrInvalidRules", err)
	}
}

func TestValidateEmptyClause(t *testing.T) {
	r := Rules{"bird": {NewClause()}}
	if err := r.Validate(); !errors.Is(err, internalerr.ErrInvalidRules) {
		t.Errorf("Validate() = %v, want ErrInvalidRules", err)
	}
}

func TestValidateSelfCycle(t *testing.T) {
	r := Rules{"bird": {NewClause("bird", "feathers")}}
	if err := r.Validate(); !errors.Is(err, internalerr.ErrInvalidRules) {
		t.Errorf("Validate() = %v, want ErrInvalidRules", err)
	}
}

func TestValidateTransitiveCycle(t *testing.T) {
	r := Rules{
		"a": {NewClause("b")},
		"b": {NewClause("c")},
		"c": {NewClause("a")},
	}
	if err := r.Validate(); !errors.Is(err, internalerr.ErrInvalidRules) {
		t.Errorf("Validate() = %v, want ErrInvalidRules", err)
	}
}

func TestNewGroupCanonical(t *testing.T) {
	g := NewGroup("penguin", "albatross", "penguin")

	want := []string{"albatross", "penguin"}
	if diff := cmp.Diff(want, g.Facts()); diff != "" {
		t.Errorf("Facts() mismatch (-want +got):\n%s", diff)
	}
	if !g.Has("penguin") || g.Has("bird") {
		t.Error("Has() gave wrong membership")
	}
	if got, want := g.String(), "albatross | penguin"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestGroupsValidate(t *testing.T) {
	r := birdRules()

	ok := Groups{NewGroup("penguin", "albatross")}
	if err := ok.Validate(r); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	small := Groups{NewGroup("penguin", "penguin")}
	if err := small.Validate(r); !errors.Is(err, internalerr.ErrInvalidRules) {
		t.Errorf("single-member group: Validate() = %v, want ErrInvalidRules", err)
	}

	unknown := Groups{NewGroup("penguin", "walrus")}
	if err := unknown.Validate(r); !errors.Is(err, internalerr.ErrInvalidRules) {
		t.Errorf("unknown member: Validate() = %v, want ErrInvalidRules", err)
	}
}
