// Package cli implements fplctl, an offline front end to the classifier,
// ranking, view and swing engines. Inputs are JSON files holding arrays of
// records; output is indented JSON on stdout.
package cli

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the fplctl command tree writing results to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "fplctl",
		Short: "Classify, rank and slice fantasy football analytics offline",
		Long: `fplctl runs the dashboard engines against local JSON files.

Examples:
  fplctl rulesets
  fplctl classify fixture_difficulty 4.2
  fplctl rank --file teams.json --dims attack_rank,defense_rank
  fplctl view --file players.json --sort form --dir desc --top 10
  fplctl swing 62 48 --dead-zone 1.5`,
		SilenceUsage: true,
	}
	root.SetOut(out)

	root.AddCommand(
		newRuleSetsCommand(),
		newClassifyCommand(),
		newRankCommand(),
		newViewCommand(),
		newSwingCommand(),
	)
	return root
}

// Execute runs fplctl against os.Args.
func Execute() {
	err := NewRootCommand(os.Stdout).Execute()
	if err != nil {
		os.Exit(1)
	}
}

func printJSON(cmd *cobra.Command, v any) (err error) {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	err = enc.Encode(v)
	if err != nil {
		err = errors.Wrap(err, "failed to write output")
		return err
	}
	return err
}
