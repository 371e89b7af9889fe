package service

import (
	"context"
	"fmt"

	"github.com/okian/fplboard/internal/adapters/repository"
	"github.com/okian/fplboard/internal/adapters/upstream"
	"github.com/okian/fplboard/internal/domain/fixture"
	"github.com/okian/fplboard/internal/domain/view"
	"github.com/okian/fplboard/pkg/metrics"
)

// RunQuery selects a difficulty run window.
type RunQuery struct {
	Kind    string
	From    int
	Horizon int
	Query
}

func runTable(maxLimit int) table[fixture.Run] {
	team := func(r fixture.Run) string { return r.Team }
	return table[fixture.Run]{
		catalog: view.NewCatalog(
			view.TextKey("team", team),
			view.NumberKey("average", func(r fixture.Run) float64 { return r.Average }),
		),
		name:     team,
		search:   []func(fixture.Run) string{team},
		defSort:  "average",
		defDir:   view.Ascending,
		maxLimit: maxLimit,
	}
}

func (s *Service) fixtures(ctx context.Context) ([]fixture.Fixture, repository.Snapshot, error) {
	snap, err := s.snapshot(ctx, upstream.FixtureList)
	if err != nil {
		return nil, snap, err
	}
	return fixture.Parse(snap.Records), snap, nil
}

// FixtureRuns returns each team's upcoming difficulty run.
func (s *Service) FixtureRuns(ctx context.Context, rq RunQuery) (Board[fixture.Run], error) {
	kind, err := fixture.ParseKind(rq.Kind)
	if err != nil {
		return Board[fixture.Run]{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if rq.From < 0 || rq.Horizon < 0 {
		return Board[fixture.Run]{}, fmt.Errorf("%w: from and horizon must not be negative", ErrBadRequest)
	}

	fixtures, snap, err := s.fixtures(ctx)
	if err != nil {
		return Board[fixture.Run]{}, err
	}
	runs := fixture.Runs(fixtures, fixture.Options{Kind: kind, From: rq.From, Horizon: rq.Horizon})

	board, err := runTable(s.maxListLimit).board(runs, rq.Query)
	if err != nil {
		return Board[fixture.Run]{}, err
	}
	board.Dataset = snap.Dataset
	board.FetchedAt = snap.FetchedAt
	metrics.RecordView("fdr_"+string(kind), len(board.Rows))
	return board, nil
}

// Fixtures returns the matchups of one gameweek.
func (s *Service) Fixtures(ctx context.Context, gameweek int) ([]fixture.Matchup, error) {
	if gameweek <= 0 {
		return nil, fmt.Errorf("%w: gameweek must be positive", ErrBadRequest)
	}
	fixtures, _, err := s.fixtures(ctx)
	if err != nil {
		return nil, err
	}
	out := fixture.ForGameweek(fixtures, gameweek)
	metrics.RecordView("fixtures", len(out))
	return out, nil
}

// Gameweeks lists gameweeks with their fixture counts, newest first.
func (s *Service) Gameweeks(ctx context.Context) ([]fixture.GameweekCount, error) {
	fixtures, _, err := s.fixtures(ctx)
	if err != nil {
		return nil, err
	}
	return fixture.Gameweeks(fixtures), nil
}
