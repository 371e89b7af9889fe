package view

import "github.com/okian/fplboard/internal/domain/metric"

// Text columns available on every record catalog.
const (
	ColumnName     = "name"
	ColumnCode     = "code"
	ColumnCategory = "category"
)

// RecordName is the display-name accessor for metric records.
func RecordName(r metric.Record) string { return r.Name }

// RecordCode is the short-code accessor for metric records.
func RecordCode(r metric.Record) string { return r.Code }

// RecordCategory is the category accessor for metric records.
func RecordCategory(r metric.Record) string { return r.Category }

// RecordField returns a numeric accessor for a record field.
func RecordField(field string) func(metric.Record) float64 {
	return func(r metric.Record) float64 { return r.Value(field) }
}

// RecordCatalog builds a catalog over the identity columns plus the given
// numeric fields.
func RecordCatalog(fields ...string) Catalog[metric.Record] {
	keys := []Key[metric.Record]{
		TextKey(ColumnName, RecordName),
		TextKey(ColumnCode, RecordCode),
		TextKey(ColumnCategory, RecordCategory),
	}
	for _, f := range fields {
		keys = append(keys, NumberKey(f, RecordField(f)))
	}
	return NewCatalog(keys...)
}

// RecordSearch searches name, code and category.
var RecordSearch = []func(metric.Record) string{RecordName, RecordCode, RecordCategory}
