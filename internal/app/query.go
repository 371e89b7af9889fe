package service

import (
	"fmt"
	"time"

	"github.com/okian/fplboard/internal/domain/view"
)

// Query carries the table controls shared by every board.
type Query struct {
	Search    string
	Sort      string
	Direction string
	Top       int
	Bottom    int
	// Teams and Positions restrict player boards; empty means no filter.
	Teams     []string
	Positions []string
}

// Board is one filtered, sorted table.
type Board[T any] struct {
	Dataset   string    `json:"dataset,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
	// Total is the row count before filtering.
	Total int      `json:"total"`
	Sort  string   `json:"sort,omitempty"`
	Dir   string   `json:"dir"`
	Keys  []string `json:"sortable"`
	Rows  []T      `json:"rows"`
}

// table binds the accessors a board needs to run a Query.
type table[T any] struct {
	catalog  view.Catalog[T]
	name     func(T) string
	search   []func(T) string
	defSort  string
	defDir   view.Direction
	members  func(Query) []view.Membership[T]
	maxLimit int
}

func (t table[T]) options(q Query) (view.Options[T], string, error) {
	var opts view.Options[T]

	if q.Top < 0 || q.Bottom < 0 {
		return opts, "", fmt.Errorf("%w: top and bottom must not be negative", ErrBadRequest)
	}
	if q.Top > 0 && q.Bottom > 0 {
		return opts, "", fmt.Errorf("%w: top and bottom are exclusive", ErrBadRequest)
	}
	if t.maxLimit > 0 && (q.Top > t.maxLimit || q.Bottom > t.maxLimit) {
		return opts, "", fmt.Errorf("%w: limit above %d", ErrBadRequest, t.maxLimit)
	}

	sortName := q.Sort
	if sortName == "" {
		sortName = t.defSort
	}
	key, err := t.catalog.Lookup(sortName)
	if err != nil {
		return opts, "", fmt.Errorf("%w: sort %v", ErrBadRequest, err)
	}
	def := t.defDir
	if q.Sort != "" {
		def = view.Ascending
	}
	dir, err := view.ParseDirection(q.Direction, def)
	if err != nil {
		return opts, "", fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	opts = view.Options[T]{
		Name:      t.name,
		Sort:      key,
		Direction: dir,
		Search:    q.Search,
		SearchIn:  t.search,
		Limit:     view.All(),
	}
	if t.members != nil {
		opts.Members = t.members(q)
	}
	switch {
	case q.Top > 0:
		opts.Limit = view.Top(q.Top)
	case q.Bottom > 0:
		opts.Limit = view.Bottom(q.Bottom)
	}
	return opts, key.Name(), nil
}

// board runs q over rows.
func (t table[T]) board(rows []T, q Query) (Board[T], error) {
	opts, sortName, err := t.options(q)
	if err != nil {
		return Board[T]{}, err
	}
	out := view.Apply(rows, opts)
	return Board[T]{
		Total: len(rows),
		Sort:  sortName,
		Dir:   opts.Direction.String(),
		Keys:  t.catalog.Names(),
		Rows:  out,
	}, nil
}
