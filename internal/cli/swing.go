package cli

import (
	"strconv"

	"github.com/okian/fplboard/internal/domain/swing"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newSwingCommand() *cobra.Command {
	var deadZone float64
	cmd := &cobra.Command{
		Use:   "swing <near> <medium>",
		Short: "Compare a near-term rating with a medium-term rating",
		Long: `Compute the fixture swing from a near-term rating to a medium-term
rating. Changes inside the dead zone are reported as steady.

Example:
  fplctl swing 62 48 --dead-zone 1.5`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if deadZone < 0 {
				err = errors.New("dead zone must not be negative")
				return err
			}
			var near, medium float64
			near, err = strconv.ParseFloat(args[0], 64)
			if err != nil {
				err = errors.Wrapf(err, "invalid near-term rating %q", args[0])
				return err
			}
			medium, err = strconv.ParseFloat(args[1], 64)
			if err != nil {
				err = errors.Wrapf(err, "invalid medium-term rating %q", args[1])
				return err
			}

			calc := swing.New(swing.WithDeadZone(deadZone))
			err = printJSON(cmd, swing.Record{
				NearTerm:   near,
				MediumTerm: medium,
				Result:     calc.Compute(near, medium),
			})
			return err
		},
	}
	cmd.Flags().Float64Var(&deadZone, "dead-zone", swing.DefaultDeadZone, "Changes within this band are steady")
	return cmd
}
