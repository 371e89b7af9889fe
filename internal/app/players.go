package service

import (
	"context"
	"fmt"

	"github.com/okian/fplboard/internal/adapters/upstream"
	"github.com/okian/fplboard/internal/domain/classify"
	"github.com/okian/fplboard/internal/domain/metric"
	"github.com/okian/fplboard/internal/domain/view"
	"github.com/okian/fplboard/pkg/metrics"
)

var playerFields = []string{
	metric.FieldTotalPoints,
	metric.FieldPointsPerGame,
	metric.FieldForm,
	metric.FieldOwnership,
	metric.FieldPrice,
	metric.FieldGoals,
	metric.FieldCleanSheets,
	metric.FieldCleanSheetRate,
	metric.FieldAttackerScore,
	metric.FieldDefenderScore,
	metric.FieldOpportunityScore,
}

// Player rows carry the team short name as Code and the position as
// Category; the team name is never used as the player's name.
var playerIdentity = metric.Identity{
	ID:       []string{metric.KeyPlayerID, metric.KeyID},
	Name:     []string{metric.KeyWebName, metric.KeyPlayerName, metric.KeyName},
	Code:     []string{metric.KeyTeamShort, metric.KeyTeamCode, metric.KeyTeam, metric.KeyTeamName},
	Category: []string{metric.KeyPosition, metric.KeyPositionName},
}

var playerNormalizer = metric.NewNormalizer(playerFields,
	metric.WithIdentity(playerIdentity),
	metric.WithAlias(metric.FieldPointsPerGame, "ppg"),
	metric.WithAlias(metric.FieldOwnership, "ownership"),
	metric.WithAlias(metric.FieldPrice, "price"),
	metric.WithAlias(metric.FieldCleanSheetRate, "clean_sheet_rate"),
)

var defensiveSets = map[string]bool{
	upstream.TopDefensive:     true,
	upstream.DefensiveLeaders: true,
}

// PlayerRow is one player with the badges derived from its metrics.
type PlayerRow struct {
	ID       string                     `json:"id,omitempty"`
	Name     string                     `json:"name"`
	Team     string                     `json:"team"`
	Position string                     `json:"position"`
	Values   map[string]float64         `json:"values"`
	Badges   map[string]classify.Result `json:"badges"`
}

func playerTable(maxLimit int) table[metric.Record] {
	return table[metric.Record]{
		catalog:  view.RecordCatalog(playerFields...),
		name:     view.RecordName,
		search:   view.RecordSearch,
		defDir:   view.Descending,
		maxLimit: maxLimit,
		members: func(q Query) []view.Membership[metric.Record] {
			return []view.Membership[metric.Record]{
				{Of: view.RecordCode, Allow: q.Teams},
				{Of: view.RecordCategory, Allow: q.Positions},
			}
		},
	}
}

// Players returns a classified player board for a player dataset.
func (s *Service) Players(ctx context.Context, dataset string, q Query) (Board[PlayerRow], error) {
	ds, err := upstream.Lookup(dataset)
	if err != nil {
		return Board[PlayerRow]{}, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if ds.Kind != upstream.Players {
		return Board[PlayerRow]{}, fmt.Errorf("%w: %q is not a player dataset", ErrNotFound, dataset)
	}

	snap, err := s.snapshot(ctx, ds.Name)
	if err != nil {
		return Board[PlayerRow]{}, err
	}
	records := playerNormalizer.NormalizeAll(snap.Records)

	filtered, err := playerTable(s.maxListLimit).board(records, q)
	if err != nil {
		return Board[PlayerRow]{}, err
	}

	rows := make([]PlayerRow, len(filtered.Rows))
	for i, r := range filtered.Rows {
		rows[i] = s.playerRow(r, defensiveSets[ds.Name])
	}
	metrics.RecordView("players_"+ds.Name, len(rows))
	return Board[PlayerRow]{
		Dataset:   ds.Name,
		FetchedAt: snap.FetchedAt,
		Total:     filtered.Total,
		Sort:      filtered.Sort,
		Dir:       filtered.Dir,
		Keys:      filtered.Keys,
		Rows:      rows,
	}, nil
}

func (s *Service) playerRow(r metric.Record, defensive bool) PlayerRow {
	badges := map[string]classify.Result{
		string(classify.FormBadge):     s.classify(classify.FormBadge, classify.Number(r.Value(metric.FieldForm))),
		string(classify.OwnershipBand): s.classify(classify.OwnershipBand, classify.Number(r.Value(metric.FieldOwnership))),
		string(classify.QuickPick):     s.classify(classify.QuickPick, classify.ForRecord(r)),
		string(classify.SquadPick):     s.classify(classify.SquadPick, classify.ForRecord(r)),
	}
	if defensive {
		badges[string(classify.DefensivePick)] = s.classify(classify.DefensivePick, classify.ForRecord(r))
	}
	return PlayerRow{
		ID:       r.ID,
		Name:     r.Name,
		Team:     r.Code,
		Position: r.Category,
		Values:   r.Values(),
		Badges:   badges,
	}
}
