package classify

import (
	"fmt"
	"sort"
	"strings"
)

// Band is one threshold row of a numeric table.
type Band struct {
	Bound float64
	Label string
	Style string
}

// AtLeast builds lower-bound bands: the first band whose Bound is <= value
// wins. Bounds must be strictly descending.
func AtLeast(id ID, bands []Band, fallback Result) RuleSet {
	checkOrder(id, bands, func(prev, next float64) bool { return next < prev })
	rules := make([]Rule, 0, len(bands)+1)
	for _, b := range bands {
		bound := b.Bound
		rules = append(rules, When(func(s Subject) bool { return s.Value >= bound }, b.Label, b.Style))
	}
	return New(id, append(rules, Otherwise(fallback.Label, fallback.Style))...)
}

// AtMost builds upper-bound bands: the first band whose Bound is >= value
// wins. Bounds must be strictly ascending.
func AtMost(id ID, bands []Band, fallback Result) RuleSet {
	checkOrder(id, bands, func(prev, next float64) bool { return next > prev })
	rules := make([]Rule, 0, len(bands)+1)
	for _, b := range bands {
		bound := b.Bound
		rules = append(rules, When(func(s Subject) bool { return s.Value <= bound }, b.Label, b.Style))
	}
	return New(id, append(rules, Otherwise(fallback.Label, fallback.Style))...)
}

// Below is AtMost with exclusive bounds.
func Below(id ID, bands []Band, fallback Result) RuleSet {
	checkOrder(id, bands, func(prev, next float64) bool { return next > prev })
	rules := make([]Rule, 0, len(bands)+1)
	for _, b := range bands {
		bound := b.Bound
		rules = append(rules, When(func(s Subject) bool { return s.Value < bound }, b.Label, b.Style))
	}
	return New(id, append(rules, Otherwise(fallback.Label, fallback.Style))...)
}

// Exact builds a categorical table. Keys match trimmed and case-insensitively.
func Exact(id ID, cases map[string]Result, fallback Result) RuleSet {
	keys := make([]string, 0, len(cases))
	seen := make(map[string]bool, len(cases))
	for k := range cases {
		norm := foldKey(k)
		if seen[norm] {
			panic(fmt.Sprintf("classify: rule set %q has duplicate key %q", id, k))
		}
		seen[norm] = true
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rules := make([]Rule, 0, len(keys)+1)
	for _, k := range keys {
		want := foldKey(k)
		res := cases[k]
		rules = append(rules, When(func(s Subject) bool { return foldKey(s.Text) == want }, res.Label, res.Style))
	}
	return New(id, append(rules, Otherwise(fallback.Label, fallback.Style))...)
}

// Pairwise compares Value against Against. The result is decisive only when
// the two differ by more than margin.
func Pairwise(id ID, margin float64, ahead, level, behind Result) RuleSet {
	if margin < 0 {
		panic(fmt.Sprintf("classify: rule set %q has negative margin", id))
	}
	return New(id,
		When(func(s Subject) bool { return s.Value-s.Against > margin }, ahead.Label, ahead.Style),
		When(func(s Subject) bool { return s.Against-s.Value > margin }, behind.Label, behind.Style),
		Otherwise(level.Label, level.Style),
	)
}

// Composite builds a multi-signal rule set; rules are evaluated in order.
func Composite(id ID, rules ...Rule) RuleSet {
	return New(id, rules...)
}

func checkOrder(id ID, bands []Band, ok func(prev, next float64) bool) {
	for i := 1; i < len(bands); i++ {
		if !ok(bands[i-1].Bound, bands[i].Bound) {
			panic(fmt.Sprintf("classify: rule set %q band %d is out of order", id, i))
		}
	}
}

func foldKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
