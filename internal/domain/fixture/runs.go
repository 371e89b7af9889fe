package fixture

import (
	"sort"

	"github.com/okian/fplboard/internal/domain/classify"
)

// Cell is one fixture in a team's run.
type Cell struct {
	Gameweek   int             `json:"gameweek"`
	Opponent   string          `json:"opponent"`
	Home       bool            `json:"home"`
	Difficulty float64         `json:"difficulty"`
	Tier       classify.Result `json:"tier"`
}

// Run is a team's upcoming fixtures and their mean difficulty.
type Run struct {
	Team    string          `json:"team"`
	Cells   []Cell          `json:"fixtures"`
	Average float64         `json:"average"`
	Tier    classify.Result `json:"tier"`
}

// Options selects the run window.
type Options struct {
	Kind Kind
	// From is the first gameweek included; non-positive means the earliest.
	From int
	// Horizon caps fixtures per team; non-positive means DefaultHorizon.
	Horizon int
}

// Runs builds one run per team appearing in fixtures, ordered by team name.
// A team with no fixtures in the window averages MaxDifficulty.
func Runs(fixtures []Fixture, opts Options) []Run {
	if opts.Kind == "" {
		opts.Kind = Overall
	}
	if opts.Horizon <= 0 {
		opts.Horizon = DefaultHorizon
	}
	ordered := make([]Fixture, len(fixtures))
	copy(ordered, fixtures)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Gameweek < ordered[j].Gameweek })

	reg := classify.Builtin()
	cells := make(map[string][]Cell)
	for _, f := range ordered {
		// every team gets a run, even with no fixture in the window
		cells[f.Home.Team] = cells[f.Home.Team]
		cells[f.Away.Team] = cells[f.Away.Team]
		if opts.From > 0 && f.Gameweek < opts.From {
			continue
		}
		for _, c := range []struct {
			team string
			own  Side
			opp  Side
			home bool
		}{
			{f.Home.Team, f.Home, f.Away, true},
			{f.Away.Team, f.Away, f.Home, false},
		} {
			if len(cells[c.team]) >= opts.Horizon {
				continue
			}
			d := Clamp(c.own.Difficulty[opts.Kind])
			cells[c.team] = append(cells[c.team], Cell{
				Gameweek:   f.Gameweek,
				Opponent:   c.opp.Team,
				Home:       c.home,
				Difficulty: d,
				Tier:       reg.Classify(classify.FixtureDifficulty, classify.Number(d)),
			})
		}
	}

	out := make([]Run, 0, len(cells))
	for team, cs := range cells {
		avg := float64(MaxDifficulty)
		if len(cs) > 0 {
			var sum float64
			for _, c := range cs {
				sum += c.Difficulty
			}
			avg = sum / float64(len(cs))
		}
		if cs == nil {
			cs = []Cell{}
		}
		out = append(out, Run{
			Team:    team,
			Cells:   cs,
			Average: avg,
			Tier:    reg.Classify(classify.FixtureDifficulty, classify.Number(avg)),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Team < out[j].Team })
	return out
}

// Clamp maps a raw difficulty into [MinDifficulty, MaxDifficulty]. Non-positive
// values are unknown and become NeutralDifficulty.
func Clamp(d float64) float64 {
	switch {
	case d <= 0:
		return NeutralDifficulty
	case d < MinDifficulty:
		return MinDifficulty
	case d > MaxDifficulty:
		return MaxDifficulty
	default:
		return d
	}
}
