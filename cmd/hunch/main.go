package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose bool

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "hunch",
	Short: "hunch - rule-based guessing game engine",
	Long: `hunch plays twenty-questions style guessing games from YAML rule sets.

A rule set declares hypotheses (the things to guess), the rules that prove
them from yes/no facts, and optional groups of mutually exclusive facts.
hunch always asks the question that eliminates the most hypotheses per
answer, can explain how any conclusion is reached, and serves whole games
over HTTP.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip logger init for the interactive game (it owns the terminal)
		if cmd.Name() == "play" {
			return nil
		}

		// Initialize logger
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// playCmd runs an interactive question-and-answer game
var playCmd = &cobra.Command{
	Use:   "play [ruleset.yaml]",
	Short: "Play a guessing game interactively",
	Long: `Loads a rule set and interrogates you until one hypothesis is proven,
all of them are ruled out, or the questions run dry.

Each question accepts:
  y / yes    the fact holds
  n / no     the fact does not hold
  skip       don't know; ask something else
  why        show what each answer to this question would eliminate
  quit       stop playing`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

// nextCmd prints the ranked question table for a position
var nextCmd = &cobra.Command{
	Use:   "next [ruleset.yaml]",
	Short: "Show the ranked list of questions worth asking",
	Long: `Scores every askable fact against the current answers and prints them
best first, with the per-answer breakdown behind each score.

Example:
  hunch next rulesets/birds.yaml --assert "doesn't fly=yes"`,
	Args: cobra.ExactArgs(1),
	RunE: runNext,
}

// explainCmd prints the definition chain for a fact
var explainCmd = &cobra.Command{
	Use:   "explain [ruleset.yaml] [fact]",
	Short: "Show the rules that prove a fact",
	Long: `Lists the clauses defining a fact, then the definitions of every
derived fact those clauses mention. Basic facts have no definition.

Example:
  hunch explain rulesets/birds.yaml penguin`,
	Args: cobra.ExactArgs(2),
	RunE: runExplain,
}

// graphCmd renders the goal tree as Graphviz DOT
var graphCmd = &cobra.Command{
	Use:   "graph [ruleset.yaml]",
	Short: "Render the goal tree in Graphviz DOT format",
	Long: `Builds the goal tree, applies any --assert answers, and writes the
DOT rendering. Proven facts come out green, disproven ones pink, pruned
questions dotted.

Example:
  hunch graph rulesets/birds.yaml --assert "has feathers=yes" -o birds.dot`,
	Args: cobra.ExactArgs(1),
	RunE: runGraph,
}

// checkCmd validates rule set files
var checkCmd = &cobra.Command{
	Use:   "check [ruleset.yaml...]",
	Short: "Validate rule set files",
	Long: `Parses and compiles each file, rejecting empty clauses, cyclic
definitions, and exclusive groups naming unknown facts.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

// serveCmd runs the HTTP game server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve guessing games over HTTP",
	Long: `Loads every rule set in the rulesets directory and serves the game
API. Sessions live in memory unless a SQLite path is given.

Configuration comes from HUNCH_ADDR, HUNCH_DB, HUNCH_RULESETS and
HUNCH_CACHE_SIZE; flags override the environment.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	// Play flags
	playCmd.Flags().BoolVar(&playGuaranteed, "guaranteed", false, "Derive facts every surviving hypothesis agrees on")

	// Inspection flags
	nextCmd.Flags().StringArrayVar(&nextAsserts, "assert", nil, `Answer to apply first, as "fact=yes" or "fact=no" (repeatable)`)
	nextCmd.Flags().IntVar(&nextTop, "top", 0, "Show only the N best questions (0 = all)")
	graphCmd.Flags().StringArrayVar(&graphAsserts, "assert", nil, `Answer to apply first, as "fact=yes" or "fact=no" (repeatable)`)
	graphCmd.Flags().StringVarP(&graphOut, "out", "o", "", "Write DOT to this file instead of stdout")

	// Serve flags
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides HUNCH_ADDR)")
	serveCmd.Flags().StringVar(&serveRulesets, "rulesets", "", "Rule set directory (overrides HUNCH_RULESETS)")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "SQLite session database path (overrides HUNCH_DB)")
	serveCmd.Flags().IntVar(&serveCacheSize, "cache-size", 0, "Ranking cache entries (overrides HUNCH_CACHE_SIZE)")

	// Add commands to root
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
