package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/okian/fplboard/internal/adapters/upstream"
	"github.com/okian/fplboard/internal/domain/classify"
	"github.com/okian/fplboard/internal/domain/metric"
	"github.com/okian/fplboard/internal/domain/ranking"
	"github.com/okian/fplboard/internal/domain/view"
	"github.com/okian/fplboard/pkg/metrics"
)

// Ranking views.
const (
	ViewCombined = "combined"
	ViewAttack   = "attack"
	ViewDefense  = "defense"
	ViewOverall  = "overall"
)

var rankingDims = map[string][]string{
	ViewCombined: {metric.FieldAttackRank, metric.FieldDefenseRank},
	ViewAttack:   {metric.FieldAttackRank},
	ViewDefense:  {metric.FieldDefenseRank},
	ViewOverall:  {metric.FieldRank},
}

var teamFields = []string{
	metric.FieldRank,
	metric.FieldAttackRank,
	metric.FieldDefenseRank,
	metric.FieldAttackStrength,
	metric.FieldDefenseStrength,
	metric.FieldGoals,
	metric.FieldCleanSheets,
}

// TeamRow is one team on the ranking board.
type TeamRow struct {
	ranking.Ranked
	Tier   classify.Result    `json:"tier"`
	Values map[string]float64 `json:"values"`
}

func teamTable(maxLimit int) table[TeamRow] {
	keys := []view.Key[TeamRow]{
		view.NumberKey(ViewOverall, func(r TeamRow) float64 { return float64(r.Overall) }),
		view.NumberKey("combined", func(r TeamRow) float64 { return r.Combined }),
		view.TextKey(view.ColumnName, func(r TeamRow) string { return r.Name }),
		view.TextKey(view.ColumnCode, func(r TeamRow) string { return r.Code }),
	}
	for _, f := range append(append([]string{}, teamFields...), metric.FieldAttackShare, metric.FieldDefenseShare) {
		f := f
		keys = append(keys, view.NumberKey(f, func(r TeamRow) float64 { return r.Record.Value(f) }))
	}
	return table[TeamRow]{
		catalog: view.NewCatalog(keys...),
		name:    func(r TeamRow) string { return r.Name },
		search: []func(TeamRow) string{
			func(r TeamRow) string { return r.Name },
			func(r TeamRow) string { return r.Code },
		},
		defSort:  ViewOverall,
		defDir:   view.Ascending,
		maxLimit: maxLimit,
	}
}

// TeamRankings merges the team ranking datasets and ranks them by viewName.
func (s *Service) TeamRankings(ctx context.Context, viewName string, q Query) (Board[TeamRow], error) {
	if viewName == "" {
		viewName = ViewCombined
	}
	dims, ok := rankingDims[strings.ToLower(viewName)]
	if !ok {
		return Board[TeamRow]{}, fmt.Errorf("%w: unknown view %q", ErrBadRequest, viewName)
	}

	overall, err := s.snapshot(ctx, upstream.OverallRankings)
	if err != nil {
		return Board[TeamRow]{}, err
	}
	norm := metric.NewNormalizer(teamFields)
	teams := norm.NormalizeAll(overall.Records)

	attack, err := s.optionalRecords(ctx, upstream.AttackRankings, norm)
	if err != nil {
		return Board[TeamRow]{}, err
	}
	defense, err := s.optionalRecords(ctx, upstream.DefenseRankings, norm)
	if err != nil {
		return Board[TeamRow]{}, err
	}
	teams = mergeTeams(teams, attack, defense)
	teams = metric.ScaleToMax(teams, metric.FieldAttackStrength, metric.FieldAttackShare)
	teams = metric.ScaleToMax(teams, metric.FieldDefenseStrength, metric.FieldDefenseShare)

	ranked, err := ranking.Aggregate(teams, dims...)
	if err != nil {
		return Board[TeamRow]{}, fmt.Errorf("team rankings: %w", err)
	}
	rows := make([]TeamRow, len(ranked))
	for i, r := range ranked {
		rows[i] = TeamRow{
			Ranked: r,
			Tier:   s.classify(classify.RankTier, classify.Number(float64(r.Overall))),
			Values: r.Record.Values(),
		}
	}

	board, err := teamTable(s.maxListLimit).board(rows, q)
	if err != nil {
		return Board[TeamRow]{}, err
	}
	board.Dataset = upstream.OverallRankings
	board.FetchedAt = overall.FetchedAt
	metrics.RecordView("rankings_"+strings.ToLower(viewName), len(board.Rows))
	return board, nil
}

// optionalRecords normalizes a dataset, treating a missing snapshot as empty.
func (s *Service) optionalRecords(ctx context.Context, dataset string, norm *metric.Normalizer) (map[string]metric.Record, error) {
	snap, err := s.snapshot(ctx, dataset)
	if errors.Is(err, ErrNoSnapshot) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	out := make(map[string]metric.Record, len(snap.Records))
	for _, r := range norm.NormalizeAll(snap.Records) {
		out[teamKey(r.Name)] = r
	}
	return out, nil
}

// mergeTeams takes attack and defense ranks from their own datasets when
// present. Strengths missing from the overall board are filled in too.
func mergeTeams(teams []metric.Record, attack, defense map[string]metric.Record) []metric.Record {
	out := make([]metric.Record, len(teams))
	for i, t := range teams {
		key := teamKey(t.Name)
		if a, ok := attack[key]; ok {
			t = t.With(metric.FieldAttackRank, a.Value(metric.FieldRank))
			if t.Value(metric.FieldAttackStrength) == 0 {
				t = t.With(metric.FieldAttackStrength, a.Value(metric.FieldAttackStrength))
			}
			if t.Value(metric.FieldGoals) == 0 {
				t = t.With(metric.FieldGoals, a.Value(metric.FieldGoals))
			}
		}
		if d, ok := defense[key]; ok {
			t = t.With(metric.FieldDefenseRank, d.Value(metric.FieldRank))
			if t.Value(metric.FieldDefenseStrength) == 0 {
				t = t.With(metric.FieldDefenseStrength, d.Value(metric.FieldDefenseStrength))
			}
			if t.Value(metric.FieldCleanSheets) == 0 {
				t = t.With(metric.FieldCleanSheets, d.Value(metric.FieldCleanSheets))
			}
		}
		out[i] = t
	}
	return out
}

func teamKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
