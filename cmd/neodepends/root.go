package main

import (
	"github.com/spf13/cobra"
)

// rootCmd is the base command: neodepends takes one or more COMMIT
// selectors, optionally followed by "-- PATTERNS" restricting which files
// are considered.
var rootCmd = &cobra.Command{
	Use:   "neodepends COMMIT... [-- PATTERNS...]",
	Short: "Extract entities, dependencies, and change history from a source tree.",
	Long: `neodepends walks one or more commits of a project, extracts syntactic
entities via tree-sitter tag queries, resolves dependencies between them,
attributes historical changes, and serializes the result as CSVs, JSON
lines, a SQLite database, or a design-structure matrix.`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func init() {
	flags := rootCmd.Flags()

	flags.String("input", ".", "project root to analyze")
	flags.String("output", "", "output file or directory (required)")
	flags.Bool("force", false, "overwrite an existing output path")
	flags.String("format", "jsonl", "output format: csvs, jsonl, sqlite, dsm-v1, dsm-v2")
	flags.Bool("file-level", false, "collapse every file to a single entity, skipping tag extraction")
	flags.StringArray("structure", nil, "a COMMIT to extract entities/deps/contents from (repeatable); defaults to the first positional COMMIT")
	flags.String("langs", "", "comma-separated list of languages to restrict extraction to")
	flags.Bool("stackgraphs", false, "enable the built-in name-resolution graph resolver")
	flags.Bool("depends", false, "enable the external Depends JVM resolver")
	flags.String("depends-jar", "", "path to depends.jar (defaults to depends.jar next to this executable)")
	flags.String("java", "", "path to the java binary used to run Depends")
	flags.String("java-heap", "", "-Xmx value passed to the Depends JVM, e.g. \"2g\"")
	flags.Int("concurrency", 0, "bounded worker-pool size (0 selects a default)")
	flags.String("metrics-addr", "", "if set, serve Prometheus metrics on this address while running")
	flags.BoolP("quiet", "q", false, "suppress informational logging")

	_ = rootCmd.MarkFlagRequired("output")
}

// Execute runs the CLI, returning any error for main to report and turn
// into a non-zero exit code.
func Execute() error {
	return rootCmd.Execute()
}
