package cli

import (
	"strconv"
	"strings"

	"github.com/okian/fplboard/internal/domain/classify"
	"github.com/okian/fplboard/internal/domain/metric"
	"github.com/okian/fplboard/internal/domain/swing"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// registry returns the built-in rule sets plus the swing direction table.
func registry(deadZone float64) *classify.Registry {
	return classify.Builtin().With(swing.New(swing.WithDeadZone(deadZone)).RuleSet())
}

func newRuleSetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rulesets",
		Short: "List the registered rule sets and their labels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			reg := registry(swing.DefaultDeadZone)
			type entry struct {
				ID     classify.ID       `json:"id"`
				Labels []classify.Result `json:"labels"`
			}
			var out []entry
			for _, id := range reg.IDs() {
				rs, _ := reg.Lookup(id)
				out = append(out, entry{ID: id, Labels: rs.Results()})
			}
			err = printJSON(cmd, out)
			return err
		},
	}
}

type classifyFlags struct {
	text     string
	against  float64
	category string
	fields   []string
}

func newClassifyCommand() *cobra.Command {
	var f classifyFlags
	cmd := &cobra.Command{
		Use:   "classify <ruleset> [value]",
		Short: "Classify one value with a rule set",
		Long: `Classify a value with a named rule set.

Band rule sets read the numeric value, categorical ones read --text,
favourability compares the value against --against, and composite rule sets
read record fields given with --field name=value.

Examples:
  fplctl classify fixture_difficulty 4.2
  fplctl classify difficulty_level --text "very easy"
  fplctl classify favourability 5 --against 12
  fplctl classify quick_pick --field points_per_game=6.1 --field form=7`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd, args, f)
		},
	}
	cmd.Flags().StringVar(&f.text, "text", "", "Category text for exact-match rule sets")
	cmd.Flags().Float64Var(&f.against, "against", 0, "Opposing value for pairwise rule sets")
	cmd.Flags().StringVar(&f.category, "category", "", "Record category (position) for role-aware rule sets")
	cmd.Flags().StringArrayVar(&f.fields, "field", nil, "Record field as name=value (repeatable)")
	return cmd
}

func runClassify(cmd *cobra.Command, args []string, f classifyFlags) (err error) {
	id := classify.ID(args[0])
	reg := registry(swing.DefaultDeadZone)
	if !reg.Has(id) {
		err = errors.Errorf("unknown rule set %q", id)
		return err
	}

	subject := classify.Subject{Text: f.text, Against: f.against}
	if len(args) == 2 {
		subject.Value, err = strconv.ParseFloat(args[1], 64)
		if err != nil {
			err = errors.Wrapf(err, "invalid value %q", args[1])
			return err
		}
	}

	values := make(map[string]float64, len(f.fields))
	for _, kv := range f.fields {
		name, raw, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			err = errors.Errorf("invalid field %q, want name=value", kv)
			return err
		}
		values[name], err = strconv.ParseFloat(raw, 64)
		if err != nil {
			err = errors.Wrapf(err, "invalid field %q", kv)
			return err
		}
	}
	subject.Record = metric.NewRecord("", "", "", f.category, values)

	res := reg.Classify(id, subject)
	err = printJSON(cmd, struct {
		RuleSet classify.ID `json:"ruleset"`
		classify.Result
	}{RuleSet: id, Result: res})
	return err
}
