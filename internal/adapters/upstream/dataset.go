// Package upstream fetches datasets from the analytics service.
package upstream

import (
	"fmt"
	"sort"

	"github.com/okian/fplboard/internal/domain/metric"
)

// Kind groups datasets by the shape of their records.
type Kind string

const (
	Teams         Kind = "teams"
	Players       Kind = "players"
	Fixtures      Kind = "fixtures"
	TeamSummaries Kind = "team_summaries"
	Opportunities Kind = "opportunities"
)

// Dataset describes one analytics endpoint.
type Dataset struct {
	Name string `json:"name"`
	// Path is appended to the client's base URL.
	Path string `json:"path"`
	// Envelope is the gjson path of the record array when the payload is an
	// object rather than a bare array.
	Envelope string `json:"envelope,omitempty"`
	// Sections names the arrays of a payload that splits its records across
	// several keys. Each record is tagged with its section under SectionKey.
	Sections []string `json:"sections,omitempty"`
	Kind     Kind     `json:"kind"`
}

// Decode extracts the dataset's records from a payload.
func (d Dataset) Decode(body []byte) ([]metric.Raw, error) {
	if len(d.Sections) > 0 {
		return DecodeSections(body, d.Sections)
	}
	return Decode(body, d.Envelope)
}

// Dataset names.
const (
	OverallRankings     = "overall_rankings"
	AttackRankings      = "attack_rankings"
	DefenseRankings     = "defense_rankings"
	FixtureList         = "fixtures"
	FixturesOpportunity = "fixtures_opportunity"
	TeamFixtures        = "team_fixtures"
	TopAttacking        = "top_attacking"
	TopDefensive        = "top_defensive"
	AssistProviders     = "assist_providers"
	DefensiveLeaders    = "defensive_leaders"
	GoalScorerPicks     = "goal_scorer_picks"
	HiddenGems          = "hidden_gems"
	Overperformers      = "overperformers"
	SeasonPerformers    = "season_performers"
	SustainableScorers  = "sustainable_scorers"
	Underperformers     = "underperformers"
	ValuePlayers        = "value_players"
	PlayerTrends        = "player_trends"
)

// Sections of the fixture opportunity payload.
const (
	SectionAttack  = "attack"
	SectionDefense = "defense"
)

var catalog = func() map[string]Dataset {
	sets := []Dataset{
		{Name: OverallRankings, Path: "/overall_rankings", Kind: Teams},
		{Name: AttackRankings, Path: "/attack_rankings", Kind: Teams},
		{Name: DefenseRankings, Path: "/defense_rankings", Kind: Teams},
		{Name: FixtureList, Path: "/fixtures", Envelope: "fixtures", Kind: Fixtures},
		{Name: FixturesOpportunity, Path: "/fixtures_opportunity", Sections: []string{SectionAttack, SectionDefense}, Kind: Opportunities},
		{Name: TeamFixtures, Path: "/team_fixtures", Envelope: "teams", Kind: TeamSummaries},
		{Name: TopAttacking, Path: "/top-attacking_qp", Envelope: "players", Kind: Players},
		{Name: TopDefensive, Path: "/top-defensive_qp", Envelope: "players", Kind: Players},
		{Name: AssistProviders, Path: "/assist-gems", Kind: Players},
		{Name: DefensiveLeaders, Path: "/def_lead", Kind: Players},
		{Name: GoalScorerPicks, Path: "/goal_scorer-picks", Kind: Players},
		{Name: HiddenGems, Path: "/hidden-gems", Kind: Players},
		{Name: Overperformers, Path: "/overperformers", Kind: Players},
		{Name: SeasonPerformers, Path: "/season-performers", Kind: Players},
		{Name: SustainableScorers, Path: "/sustainable-scorers", Kind: Players},
		{Name: Underperformers, Path: "/underperformers", Kind: Players},
		{Name: ValuePlayers, Path: "/value-players", Kind: Players},
		{Name: PlayerTrends, Path: "/player-search", Envelope: "players", Kind: Players},
	}
	out := make(map[string]Dataset, len(sets))
	for _, d := range sets {
		out[d.Name] = d
	}
	return out
}()

// Lookup returns the dataset with the given name.
func Lookup(name string) (Dataset, error) {
	d, ok := catalog[name]
	if !ok {
		return Dataset{}, fmt.Errorf("%q: %w", name, ErrUnknownDataset)
	}
	return d, nil
}

// All returns every dataset ordered by name.
func All() []Dataset {
	out := make([]Dataset, 0, len(catalog))
	for _, d := range catalog {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// OfKind returns the datasets of one kind ordered by name.
func OfKind(k Kind) []Dataset {
	var out []Dataset
	for _, d := range All() {
		if d.Kind == k {
			out = append(out, d)
		}
	}
	return out
}
