package view

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Direction is a sort direction.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// ParseDirection parses "asc" or "desc" case-insensitively. An empty string
// yields def.
func ParseDirection(s string, def Direction) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return def, nil
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return def, fmt.Errorf("%q: %w", s, ErrInvalidDirection)
	}
}

// Toggle returns the opposite direction.
func (d Direction) Toggle() Direction {
	if d == Descending {
		return Ascending
	}
	return Descending
}

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// Key is a typed sort accessor over T, either numeric or textual.
type Key[T any] struct {
	name   string
	number func(T) float64
	text   func(T) string
}

// NumberKey sorts by a numeric accessor.
func NumberKey[T any](name string, fn func(T) float64) Key[T] {
	return Key[T]{name: name, number: fn}
}

// TextKey sorts by a string accessor, case-insensitively.
func TextKey[T any](name string, fn func(T) string) Key[T] {
	return Key[T]{name: name, text: fn}
}

// Name returns the column name.
func (k Key[T]) Name() string { return k.name }

// IsZero reports whether k sorts nothing.
func (k Key[T]) IsZero() bool { return k.number == nil && k.text == nil }

func (k Key[T]) compare(a, b T) int {
	switch {
	case k.number != nil:
		return compareFloat(k.number(a), k.number(b))
	case k.text != nil:
		return compareText(k.text(a), k.text(b))
	default:
		return 0
	}
}

// compareFloat orders NaN before every number so the ordering stays total.
func compareFloat(a, b float64) int {
	an, bn := math.IsNaN(a), math.IsNaN(b)
	switch {
	case an && bn:
		return 0
	case an:
		return -1
	case bn:
		return 1
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareText(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// Catalog is the set of sortable columns for T.
type Catalog[T any] struct {
	keys map[string]Key[T]
}

// NewCatalog builds a catalog. Later keys replace earlier keys of the same name.
func NewCatalog[T any](keys ...Key[T]) Catalog[T] {
	c := Catalog[T]{keys: make(map[string]Key[T], len(keys))}
	for _, k := range keys {
		c.keys[strings.ToLower(k.name)] = k
	}
	return c
}

// Lookup resolves a column name case-insensitively. An empty name yields the
// zero Key, which keeps input order.
func (c Catalog[T]) Lookup(name string) (Key[T], error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Key[T]{}, nil
	}
	k, ok := c.keys[name]
	if !ok {
		return Key[T]{}, fmt.Errorf("%q: %w", name, ErrUnknownKey)
	}
	return k, nil
}

// Names lists the column names in lexical order.
func (c Catalog[T]) Names() []string {
	out := make([]string, 0, len(c.keys))
	for n := range c.keys {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
