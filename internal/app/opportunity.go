package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/fplboard/internal/adapters/upstream"
	"github.com/okian/fplboard/internal/domain/classify"
	"github.com/okian/fplboard/internal/domain/metric"
	"github.com/okian/fplboard/internal/domain/view"
	"github.com/okian/fplboard/pkg/metrics"
)

// OpportunityQuery selects one side of the fixture opportunity board.
type OpportunityQuery struct {
	// Side is "attack" or "defense"; empty means attack.
	Side string
	// Gameweek restricts rows to one gameweek; zero keeps every gameweek.
	Gameweek int
	Query
}

// OpportunityRow is one team's fixture rated for attacking or defensive
// returns.
type OpportunityRow struct {
	Gameweek      int                        `json:"gameweek"`
	Team          string                     `json:"team"`
	Opponent      string                     `json:"opponent"`
	Venue         string                     `json:"venue,omitempty"`
	Rating        float64                    `json:"rating"`
	AttackRating  float64                    `json:"attack_rating"`
	DefenseRating float64                    `json:"defense_rating"`
	CombinedScore float64                    `json:"combined_score"`
	Level         string                     `json:"level,omitempty"`
	Badges        map[string]classify.Result `json:"badges"`
}

func opportunityTable(maxLimit int) table[OpportunityRow] {
	team := func(r OpportunityRow) string { return r.Team }
	opponent := func(r OpportunityRow) string { return r.Opponent }
	return table[OpportunityRow]{
		catalog: view.NewCatalog(
			view.NumberKey("rating", func(r OpportunityRow) float64 { return r.Rating }),
			view.NumberKey("attack_rating", func(r OpportunityRow) float64 { return r.AttackRating }),
			view.NumberKey("defense_rating", func(r OpportunityRow) float64 { return r.DefenseRating }),
			view.NumberKey("combined_score", func(r OpportunityRow) float64 { return r.CombinedScore }),
			view.NumberKey("gameweek", func(r OpportunityRow) float64 { return float64(r.Gameweek) }),
			view.TextKey("team", team),
		),
		name:     team,
		search:   []func(OpportunityRow) string{team, opponent},
		defSort:  "rating",
		defDir:   view.Descending,
		maxLimit: maxLimit,
		members: func(q Query) []view.Membership[OpportunityRow] {
			return []view.Membership[OpportunityRow]{{Of: team, Allow: q.Teams}}
		},
	}
}

func parseSide(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", upstream.SectionAttack:
		return upstream.SectionAttack, nil
	case upstream.SectionDefense, "defence":
		return upstream.SectionDefense, nil
	default:
		return "", fmt.Errorf("unknown side %q", s)
	}
}

func opportunityRow(raw metric.Raw, side string) OpportunityRow {
	num := func(keys ...string) float64 {
		for _, k := range keys {
			if v, ok := metric.Lookup(raw, k); ok {
				return metric.Number(v)
			}
		}
		return 0
	}
	text := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := metric.Lookup(raw, k); ok {
				if s := metric.Text(v); s != "" {
					return s
				}
			}
		}
		return ""
	}
	r := OpportunityRow{
		Gameweek:      int(num("gameweek", "gw")),
		Team:          text(metric.KeyTeam, metric.KeyTeamName),
		Opponent:      text("opponent"),
		Venue:         strings.ToUpper(text("venue")),
		AttackRating:  num("attacking_fixture_rating"),
		DefenseRating: num("defensive_fixture_rating"),
		CombinedScore: num("combined_score", "score"),
		Level:         strings.ToUpper(text("difficulty_level", "level")),
	}
	r.Rating = r.AttackRating
	if side == upstream.SectionDefense {
		r.Rating = r.DefenseRating
	}
	return r
}

// Opportunities returns the fixture opportunity board for one side, rated
// against the fixture rating bands.
func (s *Service) Opportunities(ctx context.Context, oq OpportunityQuery) (Board[OpportunityRow], error) {
	side, err := parseSide(oq.Side)
	if err != nil {
		return Board[OpportunityRow]{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if oq.Gameweek < 0 {
		return Board[OpportunityRow]{}, fmt.Errorf("%w: gameweek must not be negative", ErrBadRequest)
	}

	snap, err := s.snapshot(ctx, upstream.FixturesOpportunity)
	if err != nil {
		return Board[OpportunityRow]{}, err
	}
	rows := make([]OpportunityRow, 0, len(snap.Records))
	for _, raw := range snap.Records {
		if metric.Text(raw[upstream.SectionKey]) != side {
			continue
		}
		r := opportunityRow(raw, side)
		if oq.Gameweek > 0 && r.Gameweek != oq.Gameweek {
			continue
		}
		rows = append(rows, r)
	}

	board, err := opportunityTable(s.maxListLimit).board(rows, oq.Query)
	if err != nil {
		return Board[OpportunityRow]{}, err
	}
	for i := range board.Rows {
		board.Rows[i].Badges = s.opportunityBadges(board.Rows[i])
	}
	board.Dataset = snap.Dataset
	board.FetchedAt = snap.FetchedAt
	metrics.RecordView("opportunity_"+side, len(board.Rows))
	return board, nil
}

func (s *Service) opportunityBadges(r OpportunityRow) map[string]classify.Result {
	badges := map[string]classify.Result{
		string(classify.FixtureRating):    s.classify(classify.FixtureRating, classify.Number(r.Rating)),
		string(classify.OpportunityScore): s.classify(classify.OpportunityScore, classify.Number(r.CombinedScore)),
	}
	if r.Level != "" {
		badges[string(classify.DifficultyLevel)] = s.classify(classify.DifficultyLevel, classify.Category(r.Level))
	}
	return badges
}
