package service

import (
	"context"

	"github.com/okian/fplboard/internal/adapters/upstream"
	"github.com/okian/fplboard/internal/domain/metric"
	"github.com/okian/fplboard/internal/domain/swing"
	"github.com/okian/fplboard/internal/domain/view"
	"github.com/okian/fplboard/pkg/metrics"
)

// Swing sort columns.
const (
	SortDelta     = "delta"
	SortMagnitude = "magnitude"
)

var swingNormalizer = metric.NewNormalizer(
	[]string{metric.FieldNearTermRating, metric.FieldMediumTermRating},
	metric.WithAlias(metric.FieldNearTermRating, "short_term_rating"),
	metric.WithAlias(metric.FieldMediumTermRating, "long_term_rating"),
)

func swingTable(maxLimit int) table[swing.Record] {
	name := func(r swing.Record) string { return r.Name }
	return table[swing.Record]{
		catalog: view.NewCatalog(
			view.TextKey(view.ColumnName, name),
			view.TextKey(view.ColumnCode, func(r swing.Record) string { return r.Code }),
			view.NumberKey("near_term", func(r swing.Record) float64 { return r.NearTerm }),
			view.NumberKey("medium_term", func(r swing.Record) float64 { return r.MediumTerm }),
			view.NumberKey(SortDelta, func(r swing.Record) float64 { return r.Delta }),
			view.NumberKey(SortMagnitude, swing.Record.Magnitude),
		),
		name: name,
		search: []func(swing.Record) string{
			name,
			func(r swing.Record) string { return r.Code },
			func(r swing.Record) string { return string(r.Direction) },
		},
		defSort:  SortDelta,
		defDir:   view.Descending,
		maxLimit: maxLimit,
	}
}

// Swings computes each team's fixture swing from the team fixture summary.
func (s *Service) Swings(ctx context.Context, q Query) (Board[swing.Record], error) {
	snap, err := s.snapshot(ctx, upstream.TeamFixtures)
	if err != nil {
		return Board[swing.Record]{}, err
	}
	records := swingNormalizer.NormalizeAll(snap.Records)
	swings := s.swings.Records(records, metric.FieldNearTermRating, metric.FieldMediumTermRating)
	for _, r := range swings {
		metrics.RecordClassification(string(swing.RuleSetID), r.Label)
	}

	board, err := swingTable(s.maxListLimit).board(swings, q)
	if err != nil {
		return Board[swing.Record]{}, err
	}
	board.Dataset = upstream.TeamFixtures
	board.FetchedAt = snap.FetchedAt
	metrics.RecordView("swings", len(board.Rows))
	return board, nil
}
