package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hunchworks/hunch/internal/phrasing"
	"github.com/hunchworks/hunch/pkg/hunch"
	"github.com/hunchworks/hunch/pkg/hunch/internalerr"
	"github.com/hunchworks/hunch/pkg/hunch/truth"
)

var playGuaranteed bool

// runPlay drives the interactive game loop: ask the best question, read an
// answer, repeat until the tree settles on a verdict.
func runPlay(cmd *cobra.Command, args []string) error {
	rs, r, groups, err := loadRuleset(args[0])
	if err != nil {
		return err
	}

	game, err := hunch.New(hunch.Options{
		Rules:           r,
		Groups:          groups,
		CheckGuaranteed: playGuaranteed,
	})
	if err != nil {
		return err
	}

	title := rs.Title
	if title == "" {
		title = args[0]
	}
	fmt.Println("===========================================")
	fmt.Printf("  %s\n", title)
	fmt.Println("===========================================")
	fmt.Println("Answer y, n, skip, why or quit (Ctrl+D to exit):")

	scanner := bufio.NewScanner(os.Stdin)
	skipped := make(map[string]bool)

	for !game.Finished() {
		fact, ok, err := nextAskable(game, skipped)
		if err != nil {
			return err
		}
		if !ok {
			break
		}

		fmt.Printf("\n%s\n", phrasing.QuestionAbout(rs.Subject, fact))
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "":
			continue
		case "y", "yes":
			game = applyAnswer(game, fact, true, skipped)
		case "n", "no":
			game = applyAnswer(game, fact, false, skipped)
		case "skip", "s":
			skipped[fact] = true
		case "why", "w":
			printImpact(game, fact)
		case "quit", "q":
			fmt.Println("Goodbye!")
			return nil
		default:
			fmt.Println(`Please answer "y", "n", "skip", "why" or "quit".`)
		}
	}

	printVerdict(game, rs.Subject)
	fmt.Println("\nGoodbye!")
	return nil
}

// nextAskable returns the best-ranked fact the player has not skipped.
func nextAskable(game *hunch.Game, skipped map[string]bool) (string, bool, error) {
	cands, err := game.Candidates()
	if err != nil {
		return "", false, err
	}
	for _, c := range cands {
		if !skipped[c.Fact] {
			return c.Fact, true, nil
		}
	}
	return "", false, nil
}

// applyAnswer records an answer, keeping the old game when the answer
// conflicts with an exclusive group.
func applyAnswer(game *hunch.Game, fact string, yes bool, skipped map[string]bool) *hunch.Game {
	next, err := game.Answer(fact, yes)
	if err != nil {
		if errors.Is(err, internalerr.ErrContradiction) {
			fmt.Printf("That conflicts with your earlier answers (%v); skipping it.\n", err)
			skipped[fact] = true
			return game
		}
		fmt.Printf("Error: %v\n", err)
		return game
	}
	return next
}

// printImpact shows what each answer to the pending question would eliminate.
func printImpact(game *hunch.Game, fact string) {
	cands, err := game.Candidates()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	for _, c := range cands {
		if c.Fact != fact {
			continue
		}
		b := c.Breakdown
		fmt.Printf("yes: rules out %d hypotheses and prunes %d follow-up questions\n",
			b.RootsCutIfYes, b.LeavesPrunedIfYes)
		fmt.Printf("no:  rules out %d hypotheses and prunes %d follow-up questions\n",
			b.RootsCutIfNo, b.LeavesPrunedIfNo)
		return
	}
}

func printVerdict(game *hunch.Game, subject string) {
	if subject == "" {
		subject = "it"
	}
	fact, found, err := game.Solution()
	switch {
	case found:
		fmt.Printf("\nGot it: %s is %s.\n", subject, fact)
	case errors.Is(err, internalerr.ErrNoSolution):
		fmt.Println("\nNo hypothesis matches your answers; I give up.")
	case errors.Is(err, internalerr.ErrAmbiguousSolution):
		fmt.Printf("\nMore than one hypothesis matches: %s.\n",
			strings.Join(rootsAt(game, truth.True), ", "))
	default:
		open := rootsAt(game, truth.Unknown)
		if len(open) == 0 {
			fmt.Println("\nI ran out of questions without reaching a verdict.")
			return
		}
		fmt.Printf("\nI ran out of questions. Still possible: %s.\n",
			strings.Join(open, ", "))
	}
}

// rootsAt lists the hypotheses currently at the given truth value.
func rootsAt(game *hunch.Game, v truth.Value) []string {
	var out []string
	tree := game.Tree()
	for _, root := range tree.Roots() {
		if got, err := tree.TruthOf(root); err == nil && got == v {
			out = append(out, root)
		}
	}
	return out
}
