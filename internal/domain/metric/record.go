// Package metric turns loosely-typed upstream analytics objects into
// immutable records with finite numeric fields.
package metric

import (
	"encoding/json"
	"sort"
)

// Raw is one decoded upstream object. Nested objects stay as map[string]any.
type Raw map[string]any

// Record is a normalized subject (team or player). It is immutable; With
// returns a modified copy.
type Record struct {
	ID       string
	Name     string
	Code     string
	Category string

	values map[string]float64
}

// NewRecord builds a record from already-finite values. Non-finite values are
// coerced to zero.
func NewRecord(id, name, code, category string, values map[string]float64) Record {
	r := Record{ID: id, Name: name, Code: code, Category: category, values: make(map[string]float64, len(values))}
	for k, v := range values {
		r.values[k] = finite(v)
	}
	return r
}

// Value returns the named field, or 0 when the record has no such field.
func (r Record) Value(field string) float64 {
	return r.values[field]
}

// Has reports whether the field was populated during normalization.
func (r Record) Has(field string) bool {
	_, ok := r.values[field]
	return ok
}

// With returns a copy of r with field set to v.
func (r Record) With(field string, v float64) Record {
	out := r
	out.values = make(map[string]float64, len(r.values)+1)
	for k, val := range r.values {
		out.values[k] = val
	}
	out.values[field] = finite(v)
	return out
}

// Fields lists the populated field names in lexical order.
func (r Record) Fields() []string {
	names := make([]string, 0, len(r.values))
	for k := range r.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Values returns a copy of the numeric fields.
func (r Record) Values() map[string]float64 {
	out := make(map[string]float64, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

type recordJSON struct {
	ID       string             `json:"id,omitempty"`
	Name     string             `json:"name"`
	Code     string             `json:"code,omitempty"`
	Category string             `json:"category,omitempty"`
	Values   map[string]float64 `json:"values"`
}

// MarshalJSON implements json.Marshaler.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{
		ID:       r.ID,
		Name:     r.Name,
		Code:     r.Code,
		Category: r.Category,
		Values:   r.Values(),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Record) UnmarshalJSON(data []byte) error {
	var in recordJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*r = NewRecord(in.ID, in.Name, in.Code, in.Category, in.Values)
	return nil
}
