// Package classify maps numeric or categorical values onto display labels
// using ordered, first-match-wins rule sets.
package classify

import (
	"fmt"
	"sort"

	"github.com/okian/fplboard/internal/domain/metric"
)

// ID names a rule set.
type ID string

// Result is the outcome of a classification.
type Result struct {
	Label string `json:"label"`
	Style string `json:"style"`
}

// Subject is what a rule inspects. Band rules read Value, categorical rules
// read Text, pairwise rules compare Value against Against, and composite
// rules read Record.
type Subject struct {
	Value   float64
	Text    string
	Against float64
	Record  metric.Record
}

// Number wraps a numeric value.
func Number(v float64) Subject { return Subject{Value: v} }

// Category wraps a categorical value.
func Category(s string) Subject { return Subject{Text: s} }

// Versus wraps a value and the quantity it is compared against.
func Versus(v, against float64) Subject { return Subject{Value: v, Against: against} }

// ForRecord wraps a whole record for multi-signal rules.
func ForRecord(r metric.Record) Subject { return Subject{Record: r} }

// Predicate decides whether a rule matches.
type Predicate func(Subject) bool

// Rule pairs a predicate with the result it yields.
type Rule struct {
	Result
	when     Predicate
	fallback bool
}

// When builds a conditional rule.
func When(p Predicate, label, style string) Rule {
	return Rule{Result: Result{Label: label, Style: style}, when: p}
}

// Otherwise builds the fallback rule that always matches.
func Otherwise(label, style string) Rule {
	return Rule{Result: Result{Label: label, Style: style}, fallback: true}
}

func (r Rule) matches(s Subject) bool {
	return r.fallback || r.when(s)
}

// RuleSet is an ordered list of rules ending in a fallback.
type RuleSet struct {
	id    ID
	rules []Rule
}

// New builds a rule set. It panics when the set is empty, when a non-final
// rule is a fallback or lacks a predicate, or when the final rule is not a
// fallback: rule tables are static, so these are programming errors.
func New(id ID, rules ...Rule) RuleSet {
	if id == "" {
		panic("classify: rule set id must not be empty")
	}
	if len(rules) == 0 {
		panic(fmt.Sprintf("classify: rule set %q has no rules", id))
	}
	last := len(rules) - 1
	for i, r := range rules {
		switch {
		case i == last && !r.fallback:
			panic(fmt.Sprintf("classify: rule set %q must end with a fallback", id))
		case i < last && r.fallback:
			panic(fmt.Sprintf("classify: rule set %q has a fallback at position %d", id, i))
		case i < last && r.when == nil:
			panic(fmt.Sprintf("classify: rule set %q rule %d has no predicate", id, i))
		}
	}
	return RuleSet{id: id, rules: append([]Rule(nil), rules...)}
}

// ID returns the rule set identifier.
func (rs RuleSet) ID() ID { return rs.id }

// Apply returns the result of the first matching rule.
func (rs RuleSet) Apply(s Subject) Result {
	for _, r := range rs.rules {
		if r.matches(s) {
			return r.Result
		}
	}
	// unreachable for sets built with New
	return Result{}
}

// Results lists every possible outcome in evaluation order.
func (rs RuleSet) Results() []Result {
	out := make([]Result, len(rs.rules))
	for i, r := range rs.rules {
		out[i] = r.Result
	}
	return out
}

// Registry holds rule sets by id. It is immutable once built and safe for
// concurrent use.
type Registry struct {
	sets map[ID]RuleSet
}

// NewRegistry builds a registry. Duplicate ids panic.
func NewRegistry(sets ...RuleSet) *Registry {
	r := &Registry{sets: make(map[ID]RuleSet, len(sets))}
	for _, rs := range sets {
		r.add(rs)
	}
	return r
}

func (r *Registry) add(rs RuleSet) {
	if rs.id == "" {
		panic("classify: registering a zero rule set")
	}
	if _, dup := r.sets[rs.id]; dup {
		panic(fmt.Sprintf("classify: duplicate rule set %q", rs.id))
	}
	r.sets[rs.id] = rs
}

// With returns a new registry holding r's sets plus the given ones.
func (r *Registry) With(sets ...RuleSet) *Registry {
	out := &Registry{sets: make(map[ID]RuleSet, len(r.sets)+len(sets))}
	for id, rs := range r.sets {
		out.sets[id] = rs
	}
	for _, rs := range sets {
		out.add(rs)
	}
	return out
}

// Lookup returns the rule set with the given id.
func (r *Registry) Lookup(id ID) (RuleSet, bool) {
	rs, ok := r.sets[id]
	return rs, ok
}

// Has reports whether id is registered.
func (r *Registry) Has(id ID) bool {
	_, ok := r.sets[id]
	return ok
}

// IDs lists registered ids in lexical order.
func (r *Registry) IDs() []ID {
	ids := make([]ID, 0, len(r.sets))
	for id := range r.sets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Classify applies the rule set id to s. An unknown id panics.
func (r *Registry) Classify(id ID, s Subject) Result {
	rs, ok := r.sets[id]
	if !ok {
		panic(fmt.Sprintf("classify: unknown rule set %q", id))
	}
	return rs.Apply(s)
}
