package dot

import (
	"strings"
	"testing"

	"github.com/hunchworks/hunch/pkg/hunch/goaltree"
	"github.com/hunchworks/hunch/pkg/hunch/rules"
)

func buildTree(t *testing.T, r rules.Rules, asserts map[string]bool) *goaltree.GoalTree {
	t.Helper()
	tree, err := goaltree.Build(r, goaltree.WithAssertions(asserts))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tree
}

func TestMarshalSmallTree(t *testing.T) {
	tree := buildTree(t, rules.Rules{
		"bird": {rules.NewClause("feathers"), rules.NewClause("flies")},
	}, map[string]bool{"flies": false})

	want := `strict digraph {
	rankdir=RL
	"bird" [color=gold penwidth=2]
	"bird/0" [label="" xlabel="AND" shape=circle width=0.3]
	"feathers"
	"bird/0" -> "feathers"
	"bird" -> "bird/0"
	"bird/1" [label="" xlabel="AND" shape=circle width=0.3 style=filled fillcolor=lightpink1]
	"flies" [style=filled fillcolor=lightpink1]
	"bird/1" -> "flies"
	"bird" -> "bird/1"
}
`

	if got := string(Marshal(tree)); got != want {
		t.Errorf("Marshal mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestMarshalIsDeterministic(t *testing.T) {
	r := rules.Rules{
		"penguin":   {rules.NewClause("bird", "swims")},
		"bird":      {rules.NewClause("feathers"), rules.NewClause("flies")},
		"albatross": {rules.NewClause("bird", "good flyer")},
	}

	first := string(Marshal(buildTree(t, r, nil)))
	for i := 0; i < 5; i++ {
		if got := string(Marshal(buildTree(t, r, nil))); got != first {
			t.Fatal("output varies across identical builds")
		}
	}
}

func TestMarshalSharedSubtreeOnce(t *testing.T) {
	tree := buildTree(t, rules.Rules{
		"penguin":   {rules.NewClause("bird", "swims")},
		"bird":      {rules.NewClause("feathers")},
		"albatross": {rules.NewClause("bird", "good flyer")},
	}, nil)

	out := string(Marshal(tree))
	if n := strings.Count(out, "\t\"bird\"\n"); n != 1 {
		t.Errorf("bird drawn %d times, want once", n)
	}
	// Both hypotheses link to the shared subtree.
	for _, edge := range []string{`"penguin/0" -> "bird"`, `"albatross/0" -> "bird"`} {
		if !strings.Contains(out, edge) {
			t.Errorf("missing edge %s", edge)
		}
	}
}

func TestMarshalStates(t *testing.T) {
	tree := buildTree(t, rules.Rules{
		"penguin":   {rules.NewClause("bird", "swims")},
		"bird":      {rules.NewClause("feathers"), rules.NewClause("flies")},
		"albatross": {rules.NewClause("bird", "good flyer")},
	}, map[string]bool{"feathers": true, "swims": true})

	out := string(Marshal(tree))

	// penguin proved, flies pruned, roots outlined.
	if !strings.Contains(out, `"penguin" [color=gold penwidth=2 style=filled fillcolor=palegreen2]`) {
		t.Error("proven root should be gold and green")
	}
	if !strings.Contains(out, `"flies" [style=dotted]`) {
		t.Error("pruned leaf should be dotted")
	}
	if !strings.Contains(out, `"albatross" [color=gold penwidth=2]`) {
		t.Error("open root should be gold only")
	}
}
