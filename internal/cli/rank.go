package cli

import (
	"github.com/okian/fplboard/internal/domain/metric"
	"github.com/okian/fplboard/internal/domain/ranking"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newRankCommand() *cobra.Command {
	var (
		file     string
		envelope string
		dims     []string
	)
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank records by the sum of rank fields",
		Long: `Rank records by the sum of one or more rank fields. Lower sums rank
higher; ties are broken by name.

Example:
  fplctl rank --file teams.json --dims attack_rank,defense_rank`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			var records []metric.Record
			records, err = readRecords(file, envelope, cmd.InOrStdin())
			if err != nil {
				return err
			}

			var ranked []ranking.Ranked
			ranked, err = ranking.Aggregate(records, dims...)
			if err != nil {
				err = errors.Wrap(err, "failed to rank records")
				return err
			}
			err = printJSON(cmd, ranked)
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", stdinPath, "JSON file of records, - for stdin")
	cmd.Flags().StringVar(&envelope, "envelope", "", "Key holding the record array when the file is an object")
	cmd.Flags().StringSliceVar(&dims, "dims", []string{metric.FieldAttackRank, metric.FieldDefenseRank}, "Rank fields to combine")
	return cmd
}

