package fixture

import "github.com/okian/fplboard/internal/domain/classify"

// Matchup is a fixture annotated with the favourite.
type Matchup struct {
	Fixture
	// Favourite is the team name of the favoured side, empty when neither
	// side is clearly stronger.
	Favourite string          `json:"favourite,omitempty"`
	Verdict   classify.Result `json:"verdict"`
}

// ForGameweek returns the matchups of gameweek gw in input order. The
// favourite is the side with the clearly lower combined attack and defense
// rank; the verdict is from the home side's perspective.
func ForGameweek(fixtures []Fixture, gw int) []Matchup {
	reg := classify.Builtin()
	out := make([]Matchup, 0)
	for _, f := range fixtures {
		if f.Gameweek != gw {
			continue
		}
		verdict := reg.Classify(classify.Favourability,
			classify.Versus(-f.Home.CombinedRank(), -f.Away.CombinedRank()))
		m := Matchup{Fixture: f, Verdict: verdict}
		switch verdict.Label {
		case classify.LabelFavoured:
			m.Favourite = f.Home.Team
		case classify.LabelUnderdog:
			m.Favourite = f.Away.Team
		}
		out = append(out, m)
	}
	return out
}
