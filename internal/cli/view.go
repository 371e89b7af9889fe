package cli

import (
	"github.com/okian/fplboard/internal/domain/metric"
	"github.com/okian/fplboard/internal/domain/view"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type viewFlags struct {
	file        string
	envelope    string
	sort        string
	dir         string
	search      string
	members     []string
	memberField string
	top         int
	bottom      int
}

func newViewCommand() *cobra.Command {
	var f viewFlags
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Search, filter, sort and slice records",
		Long: `Run the table pipeline over a file of records: search, membership
filter, stable sort and top or bottom N, in that order.

Sort keys are name, code, category and every numeric field in the file.

Examples:
  fplctl view --file players.json --sort form --dir desc --top 10
  fplctl view --file players.json --members ARS,LIV --member-field code
  fplctl view --file teams.json --q city`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runView(cmd, f)
		},
	}
	cmd.Flags().StringVarP(&f.file, "file", "f", stdinPath, "JSON file of records, - for stdin")
	cmd.Flags().StringVar(&f.envelope, "envelope", "", "Key holding the record array when the file is an object")
	cmd.Flags().StringVar(&f.sort, "sort", "", "Sort key; empty keeps input order")
	cmd.Flags().StringVar(&f.dir, "dir", "asc", "Sort direction: asc or desc")
	cmd.Flags().StringVar(&f.search, "q", "", "Case-insensitive substring search")
	cmd.Flags().StringSliceVar(&f.members, "members", nil, "Allowed values of --member-field")
	cmd.Flags().StringVar(&f.memberField, "member-field", view.ColumnCode, "Field matched by --members: name, code or category")
	cmd.Flags().IntVar(&f.top, "top", 0, "Keep the first N rows")
	cmd.Flags().IntVar(&f.bottom, "bottom", 0, "Keep the last N rows")
	return cmd
}

func runView(cmd *cobra.Command, f viewFlags) (err error) {
	if f.top < 0 || f.bottom < 0 {
		err = errors.New("top and bottom must not be negative")
		return err
	}
	if f.top > 0 && f.bottom > 0 {
		err = errors.New("top and bottom are exclusive")
		return err
	}

	var records []metric.Record
	records, err = readRecords(f.file, f.envelope, cmd.InOrStdin())
	if err != nil {
		return err
	}

	var fields []string
	if len(records) > 0 {
		fields = records[0].Fields()
	}
	catalog := view.RecordCatalog(fields...)

	opts := view.Options[metric.Record]{
		Name:     view.RecordName,
		Search:   f.search,
		SearchIn: view.RecordSearch,
		Limit:    view.All(),
	}
	opts.Sort, err = catalog.Lookup(f.sort)
	if err != nil {
		err = errors.Wrapf(err, "available keys: %v", catalog.Names())
		return err
	}
	opts.Direction, err = view.ParseDirection(f.dir, view.Ascending)
	if err != nil {
		err = errors.Wrap(err, "invalid --dir")
		return err
	}

	if len(f.members) > 0 {
		var of func(metric.Record) string
		of, err = memberAccessor(f.memberField)
		if err != nil {
			return err
		}
		opts.Members = []view.Membership[metric.Record]{{Of: of, Allow: f.members}}
	}

	switch {
	case f.top > 0:
		opts.Limit = view.Top(f.top)
	case f.bottom > 0:
		opts.Limit = view.Bottom(f.bottom)
	}

	err = printJSON(cmd, view.Apply(records, opts))
	return err
}

func memberAccessor(field string) (func(metric.Record) string, error) {
	switch field {
	case view.ColumnName:
		return view.RecordName, nil
	case view.ColumnCode:
		return view.RecordCode, nil
	case view.ColumnCategory:
		return view.RecordCategory, nil
	default:
		return nil, errors.Errorf("invalid --member-field %q, want name, code or category", field)
	}
}
