package cli

import (
	"io"
	"os"
	"sort"

	"github.com/okian/fplboard/internal/adapters/upstream"
	"github.com/okian/fplboard/internal/domain/metric"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// stdinPath reads records from standard input.
const stdinPath = "-"

// readRecords loads a JSON array of records, optionally nested under
// envelope, and normalizes every numeric attribute found in it.
func readRecords(path, envelope string, stdin io.Reader) (records []metric.Record, err error) {
	var body []byte
	if path == stdinPath {
		body, err = io.ReadAll(stdin)
	} else {
		body, err = os.ReadFile(path)
	}
	if err != nil {
		err = errors.Wrapf(err, "failed to read records: %s", path)
		return records, err
	}

	var raws []metric.Raw
	raws, err = upstream.Decode(body, envelope)
	if err != nil {
		err = errors.Wrapf(err, "failed to decode records: %s", path)
		return records, err
	}

	fields := numericFields(body, envelope)
	records = metric.NewNormalizer(fields).NormalizeAll(raws)
	return records, err
}

// numericFields lists the top-level keys that hold a number in at least one
// element, in lexical order.
func numericFields(body []byte, envelope string) []string {
	list := gjson.ParseBytes(body)
	if !list.IsArray() && envelope != "" {
		list = list.Get(envelope)
	}

	seen := make(map[string]bool)
	list.ForEach(func(_, item gjson.Result) bool {
		item.ForEach(func(key, value gjson.Result) bool {
			if value.Type == gjson.Number {
				seen[key.String()] = true
			}
			return true
		})
		return true
	})

	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
