// Package view implements the search, filter, sort and slice pipeline used
// by every table.
package view

import (
	"sort"
	"strings"
)

type limitMode int

const (
	limitAll limitMode = iota
	limitTop
	limitBottom
)

// Limit restricts the final output to its head or tail.
type Limit struct {
	mode limitMode
	n    int
}

// All keeps every row.
func All() Limit { return Limit{} }

// Top keeps the first n rows.
func Top(n int) Limit { return Limit{mode: limitTop, n: n} }

// Bottom keeps the last n rows in their existing order.
func Bottom(n int) Limit { return Limit{mode: limitBottom, n: n} }

// Membership keeps rows whose Of value is in Allow. An empty Allow keeps
// everything. Matching is case-insensitive.
type Membership[T any] struct {
	Of    func(T) string
	Allow []string
}

// Options describes one pass of the pipeline.
type Options[T any] struct {
	// Name is the display name used to break sort ties.
	Name      func(T) string
	Sort      Key[T]
	Direction Direction
	// Search is matched as a case-insensitive substring of any SearchIn field.
	Search   string
	SearchIn []func(T) string
	Members  []Membership[T]
	Limit    Limit
}

// Apply runs search, membership filtering, a stable sort and slicing over
// records, in that order. records is never modified; the result is always a
// new slice.
func Apply[T any](records []T, opts Options[T]) []T {
	out := make([]T, 0, len(records))
	term := strings.ToLower(strings.TrimSpace(opts.Search))
	allow := make([]map[string]bool, len(opts.Members))
	for i, m := range opts.Members {
		allow[i] = toSet(m.Allow)
	}
	for _, r := range records {
		if term != "" && !matchesSearch(r, term, opts.SearchIn) {
			continue
		}
		if !matchesMembers(r, opts.Members, allow) {
			continue
		}
		out = append(out, r)
	}
	if !opts.Sort.IsZero() {
		sort.SliceStable(out, func(i, j int) bool {
			c := opts.Sort.compare(out[i], out[j])
			if opts.Direction == Descending {
				c = -c
			}
			if c != 0 {
				return c < 0
			}
			if opts.Name == nil {
				return false
			}
			return compareText(opts.Name(out[i]), opts.Name(out[j])) < 0
		})
	}
	return limit(out, opts.Limit)
}

func limit[T any](rows []T, l Limit) []T {
	if l.mode == limitAll || l.n <= 0 || l.n >= len(rows) {
		return rows
	}
	if l.mode == limitTop {
		return rows[:l.n:l.n]
	}
	return rows[len(rows)-l.n:]
}

func matchesSearch[T any](r T, term string, fields []func(T) string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f(r)), term) {
			return true
		}
	}
	return false
}

func matchesMembers[T any](r T, members []Membership[T], allow []map[string]bool) bool {
	for i, m := range members {
		if len(allow[i]) == 0 || m.Of == nil {
			continue
		}
		if !allow[i][strings.ToLower(strings.TrimSpace(m.Of(r)))] {
			return false
		}
	}
	return true
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			set[v] = true
		}
	}
	return set
}
