package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hunchworks/hunch/internal/dot"
	"github.com/hunchworks/hunch/pkg/hunch"
	"github.com/hunchworks/hunch/pkg/hunch/config"
	"github.com/hunchworks/hunch/pkg/hunch/explain"
	"github.com/hunchworks/hunch/pkg/hunch/rules"
)

var (
	nextAsserts []string
	nextTop     int

	graphAsserts []string
	graphOut     string
)

// loadRuleset reads and compiles one rule set file.
func loadRuleset(path string) (*config.Ruleset, rules.Rules, rules.Groups, error) {
	rs, err := config.Load(path)
	if err != nil {
		return nil, nil, nil, err
	}
	r, groups, err := rs.Compile()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return rs, r, groups, nil
}

// parseAsserts turns repeated --assert "fact=yes" flags into an answer map.
// The fact name may itself contain "=", so the flag splits on the last one.
func parseAsserts(asserts []string) (map[string]bool, error) {
	if len(asserts) == 0 {
		return nil, nil
	}
	answers := make(map[string]bool, len(asserts))
	for _, a := range asserts {
		eq := strings.LastIndex(a, "=")
		if eq <= 0 {
			return nil, fmt.Errorf("invalid assertion %q: want \"fact=yes\" or \"fact=no\"", a)
		}
		fact := strings.TrimSpace(a[:eq])
		switch strings.ToLower(strings.TrimSpace(a[eq+1:])) {
		case "yes", "y", "true", "1":
			answers[fact] = true
		case "no", "n", "false", "0":
			answers[fact] = false
		default:
			return nil, fmt.Errorf("invalid assertion %q: want \"fact=yes\" or \"fact=no\"", a)
		}
	}
	return answers, nil
}

func runNext(cmd *cobra.Command, args []string) error {
	_, r, groups, err := loadRuleset(args[0])
	if err != nil {
		return err
	}
	answers, err := parseAsserts(nextAsserts)
	if err != nil {
		return err
	}

	game, err := hunch.New(hunch.Options{Rules: r, Groups: groups, Assertions: answers})
	if err != nil {
		return err
	}
	cands, err := game.Candidates()
	if err != nil {
		return err
	}
	if len(cands) == 0 {
		fmt.Println("No askable facts left.")
		return nil
	}
	if nextTop > 0 && len(cands) > nextTop {
		cands = cands[:nextTop]
	}

	fmt.Printf("%-30s %8s %8s %8s %11s %13s\n",
		"FACT", "TOTAL", "HYP", "PRUNE", "CUT YES/NO", "PRUNE YES/NO")
	for _, c := range cands {
		b := c.Breakdown
		fmt.Printf("%-30s %8.3f %8.3f %8.3f %5d/%-5d %7d/%-5d\n",
			c.Fact, b.Total, b.HypothesisScore, b.PruningScore,
			b.RootsCutIfYes, b.RootsCutIfNo,
			b.LeavesPrunedIfYes, b.LeavesPrunedIfNo)
	}
	return nil
}

func runExplain(cmd *cobra.Command, args []string) error {
	_, r, _, err := loadRuleset(args[0])
	if err != nil {
		return err
	}
	fact := args[1]

	entries := explain.Definition(r, fact)
	if len(entries) == 0 {
		fmt.Printf("%s is a basic fact; no rule concludes it.\n", fact)
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s is proven by:\n", e.Fact)
		for _, c := range e.Clauses {
			fmt.Printf("  - %s\n", c)
		}
	}
	return nil
}

func runGraph(cmd *cobra.Command, args []string) error {
	_, r, groups, err := loadRuleset(args[0])
	if err != nil {
		return err
	}
	answers, err := parseAsserts(graphAsserts)
	if err != nil {
		return err
	}

	game, err := hunch.New(hunch.Options{Rules: r, Groups: groups, Assertions: answers})
	if err != nil {
		return err
	}

	out := dot.Marshal(game.Tree())
	if graphOut == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	if err := os.WriteFile(graphOut, out, 0o644); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", graphOut)
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	for _, path := range args {
		rs, r, groups, err := loadRuleset(path)
		if err != nil {
			return err
		}
		game, err := hunch.New(hunch.Options{Rules: r, Groups: groups})
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		tree := game.Tree()
		title := rs.Title
		if title == "" {
			title = "untitled"
		}
		fmt.Printf("%s: ok - %s (%d rules, %d hypotheses, %d questions, %d exclusive groups)\n",
			path, title, len(r), len(tree.Roots()), len(tree.Leaves()), len(groups))
	}
	return nil
}
