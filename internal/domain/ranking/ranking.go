// Package ranking combines per-dimension ranks into a single overall order.
package ranking

import (
	"fmt"
	"sort"

	"github.com/okian/fplboard/internal/domain/metric"
)

// Ranked is a subject's position in a composite ranking. Lower Combined is
// better; Overall is the 1-based position after tie-breaking.
type Ranked struct {
	ID       string             `json:"id,omitempty"`
	Name     string             `json:"name"`
	Code     string             `json:"code,omitempty"`
	Ranks    map[string]float64 `json:"ranks"`
	Combined float64            `json:"combined"`
	Overall  int                `json:"overall"`
	Record   metric.Record      `json:"-"`
}

// Aggregate ranks records by the sum of the given rank fields. With a single
// dimension the combined score is that rank. Ties are broken by name, then
// code, then id, ascending. records is not modified.
func Aggregate(records []metric.Record, dims ...string) ([]Ranked, error) {
	if len(dims) == 0 {
		return nil, fmt.Errorf("aggregate %d records: %w", len(records), ErrNoDimensions)
	}
	out := make([]Ranked, len(records))
	for i, r := range records {
		ranks := make(map[string]float64, len(dims))
		var combined float64
		if len(dims) == 1 {
			combined = r.Value(dims[0])
			ranks[dims[0]] = combined
		} else {
			for _, d := range dims {
				v := r.Value(d)
				ranks[d] = v
				combined += v
			}
		}
		out[i] = Ranked{
			ID:       r.ID,
			Name:     r.Name,
			Code:     r.Code,
			Ranks:    ranks,
			Combined: combined,
			Record:   r,
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	for i := range out {
		out[i].Overall = i + 1
	}
	return out, nil
}

func less(a, b Ranked) bool {
	if a.Combined != b.Combined {
		return a.Combined < b.Combined
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	if a.Code != b.Code {
		return a.Code < b.Code
	}
	return a.ID < b.ID
}
