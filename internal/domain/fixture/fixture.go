// Package fixture derives fixture-difficulty runs and gameweek matchups from
// the analytics service's fixture objects.
package fixture

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/okian/fplboard/internal/domain/metric"
)

// Difficulty limits. Unknown difficulties are treated as neutral.
const (
	MinDifficulty     = 1
	MaxDifficulty     = 10
	NeutralDifficulty = 5
	DefaultHorizon    = 8
)

// ErrInvalidKind is returned by ParseKind.
var ErrInvalidKind = errors.New("invalid difficulty kind")

// Kind selects which difficulty rating a run uses.
type Kind string

const (
	Attack  Kind = "attack"
	Defense Kind = "defense"
	Overall Kind = "overall"
)

// Kinds lists every kind.
var Kinds = []Kind{Attack, Defense, Overall}

// ParseKind parses a kind name; empty means Overall.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return Overall, nil
	case Attack, Defense, Overall:
		return k, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrInvalidKind)
	}
}

// Side is one team's view of a fixture.
type Side struct {
	Team        string           `json:"team"`
	Code        string           `json:"code,omitempty"`
	Difficulty  map[Kind]float64 `json:"difficulty"`
	AttackRank  float64          `json:"attack_rank"`
	DefenseRank float64          `json:"defense_rank"`
}

// CombinedRank is the sum of the side's attack and defense ranks.
func (s Side) CombinedRank() float64 { return s.AttackRank + s.DefenseRank }

// Fixture is one match.
type Fixture struct {
	Gameweek int  `json:"gameweek"`
	Home     Side `json:"home"`
	Away     Side `json:"away"`
}

var fields = func() []string {
	f := []string{"gw"}
	for _, side := range []string{"home", "away"} {
		for _, k := range Kinds {
			f = append(f, path(side, "fdr", string(k)))
		}
		f = append(f, path(side, "rank", "attack"), path(side, "rank", "defense"))
	}
	return f
}()

var normalizer = metric.NewNormalizer(fields,
	metric.WithIdentity(metric.Identity{}),
	metric.WithAlias("gw", "gameweek"),
	metric.WithAlias("gw", "event"),
)

func path(parts ...string) string {
	return "teams." + strings.Join(parts, ".")
}

// Parse converts raw fixture objects. Objects without both team names are
// skipped.
func Parse(raws []metric.Raw) []Fixture {
	out := make([]Fixture, 0, len(raws))
	for _, raw := range raws {
		home, away := teamText(raw, "home", "team"), teamText(raw, "away", "team")
		if home == "" || away == "" {
			continue
		}
		rec := normalizer.Normalize(raw)
		out = append(out, Fixture{
			Gameweek: int(rec.Value("gw")),
			Home:     side(raw, rec, "home", home),
			Away:     side(raw, rec, "away", away),
		})
	}
	return out
}

func side(raw metric.Raw, rec metric.Record, name, team string) Side {
	s := Side{
		Team:        team,
		Code:        teamText(raw, name, "short_name"),
		Difficulty:  make(map[Kind]float64, len(Kinds)),
		AttackRank:  rec.Value(path(name, "rank", "attack")),
		DefenseRank: rec.Value(path(name, "rank", "defense")),
	}
	for _, k := range Kinds {
		s.Difficulty[k] = rec.Value(path(name, "fdr", string(k)))
	}
	return s
}

func teamText(raw metric.Raw, parts ...string) string {
	v, _ := metric.Lookup(raw, path(parts...))
	return metric.Text(v)
}

// GameweekCount is the number of fixtures in a gameweek.
type GameweekCount struct {
	Gameweek int `json:"gameweek"`
	Fixtures int `json:"fixtures"`
}

// Gameweeks counts fixtures per gameweek, newest first.
func Gameweeks(fixtures []Fixture) []GameweekCount {
	counts := make(map[int]int)
	for _, f := range fixtures {
		counts[f.Gameweek]++
	}
	out := make([]GameweekCount, 0, len(counts))
	for gw, n := range counts {
		out = append(out, GameweekCount{Gameweek: gw, Fixtures: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Gameweek > out[j].Gameweek })
	return out
}
