package fixture_test

import (
	"errors"
	"testing"

	"github.com/okian/fplboard/internal/domain/fixture"
	"github.com/okian/fplboard/internal/domain/metric"
	. "github.com/smartystreets/goconvey/convey"
)

func raw(gw float64, home, away string, homeFDR, awayFDR float64, homeRanks, awayRanks [2]float64) metric.Raw {
	return metric.Raw{
		"gw": gw,
		"teams": map[string]any{
			"home": map[string]any{
				"team": home,
				"fdr":  map[string]any{"attack": homeFDR, "defense": homeFDR, "overall": homeFDR},
				"rank": map[string]any{"attack": homeRanks[0], "defense": homeRanks[1]},
			},
			"away": map[string]any{
				"team": away,
				"fdr":  map[string]any{"attack": awayFDR, "defense": awayFDR, "overall": awayFDR},
				"rank": map[string]any{"attack": awayRanks[0], "defense": awayRanks[1]},
			},
		},
	}
}

func sample() []fixture.Fixture {
	return fixture.Parse([]metric.Raw{
		raw(1, "Arsenal", "Burnley", 2, 9, [2]float64{1, 2}, [2]float64{18, 19}),
		raw(2, "Chelsea", "Arsenal", 6, 7, [2]float64{5, 6}, [2]float64{1, 2}),
		raw(2, "Burnley", "Everton", 0, 12, [2]float64{18, 19}, [2]float64{16, 18}),
		raw(3, "Arsenal", "Everton", 3, 8, [2]float64{1, 2}, [2]float64{16, 18}),
		{"gw": float64(3), "teams": map[string]any{"home": map[string]any{"team": "Ghost"}}},
	})
}

func TestParse(t *testing.T) {
	Convey("Given raw fixture objects", t, func() {
		fs := sample()

		Convey("Then objects missing a side are skipped", func() {
			So(fs, ShouldHaveLength, 4)
		})

		Convey("Then nested ratings and ranks are read", func() {
			So(fs[0].Gameweek, ShouldEqual, 1)
			So(fs[0].Home.Team, ShouldEqual, "Arsenal")
			So(fs[0].Home.Difficulty[fixture.Attack], ShouldEqual, 2)
			So(fs[0].Away.CombinedRank(), ShouldEqual, 37)
		})
	})
}

func TestRuns(t *testing.T) {
	Convey("Given fixtures over three gameweeks", t, func() {
		fs := sample()

		Convey("When building overall runs from gameweek 1", func() {
			runs := fixture.Runs(fs, fixture.Options{Kind: fixture.Overall})

			Convey("Then one run per team is returned in name order", func() {
				teams := make([]string, len(runs))
				for i, r := range runs {
					teams[i] = r.Team
				}
				So(teams, ShouldResemble, []string{"Arsenal", "Burnley", "Chelsea", "Everton"})
			})

			Convey("Then averages use clamped difficulties", func() {
				arsenal := runs[0]
				So(arsenal.Cells, ShouldHaveLength, 3)
				So(arsenal.Average, ShouldAlmostEqual, (2.0+7.0+3.0)/3, 1e-9)
				So(arsenal.Cells[1].Home, ShouldBeFalse)
				So(arsenal.Cells[1].Opponent, ShouldEqual, "Chelsea")

				burnley := runs[1]
				So(burnley.Cells[1].Difficulty, ShouldEqual, fixture.NeutralDifficulty)

				everton := runs[3]
				So(everton.Cells[0].Difficulty, ShouldEqual, fixture.MaxDifficulty)
			})

			Convey("Then each cell is classified", func() {
				So(runs[0].Cells[0].Tier.Label, ShouldEqual, "Very Easy")
			})
		})

		Convey("When the window starts after a team's last fixture", func() {
			runs := fixture.Runs(fs, fixture.Options{From: 3})

			Convey("Then that team averages the maximum difficulty", func() {
				chelsea := runs[2]
				So(chelsea.Team, ShouldEqual, "Chelsea")
				So(chelsea.Cells, ShouldHaveLength, 0)
				So(chelsea.Average, ShouldEqual, fixture.MaxDifficulty)
			})
		})

		Convey("When the horizon is one fixture", func() {
			runs := fixture.Runs(fs, fixture.Options{Horizon: 1})

			Convey("Then runs are truncated", func() {
				So(runs[0].Cells, ShouldHaveLength, 1)
				So(runs[0].Cells[0].Gameweek, ShouldEqual, 1)
			})
		})
	})
}

func TestClamp(t *testing.T) {
	Convey("Clamp bounds difficulties", t, func() {
		So(fixture.Clamp(0), ShouldEqual, fixture.NeutralDifficulty)
		So(fixture.Clamp(-3), ShouldEqual, fixture.NeutralDifficulty)
		So(fixture.Clamp(0.5), ShouldEqual, fixture.MinDifficulty)
		So(fixture.Clamp(11), ShouldEqual, fixture.MaxDifficulty)
		So(fixture.Clamp(4.2), ShouldEqual, 4.2)
	})
}

func TestForGameweek(t *testing.T) {
	Convey("Given gameweek 2 fixtures", t, func() {
		ms := fixture.ForGameweek(sample(), 2)

		Convey("Then only that gameweek is returned", func() {
			So(ms, ShouldHaveLength, 2)
		})

		Convey("Then the clearly stronger side is favoured", func() {
			So(ms[0].Favourite, ShouldEqual, "Arsenal")
			So(ms[0].Verdict.Label, ShouldEqual, "Underdog")
		})

		Convey("Then close matchups have no favourite", func() {
			So(ms[1].Favourite, ShouldBeEmpty)
			So(ms[1].Verdict.Label, ShouldEqual, "Neutral")
		})
	})
}

func TestGameweeks(t *testing.T) {
	Convey("Given parsed fixtures", t, func() {
		gws := fixture.Gameweeks(sample())

		Convey("Then counts are newest first", func() {
			So(gws, ShouldResemble, []fixture.GameweekCount{{Gameweek: 3, Fixtures: 1}, {Gameweek: 2, Fixtures: 2}, {Gameweek: 1, Fixtures: 1}})
		})
	})
}

func TestParseKind(t *testing.T) {
	Convey("Given kind names", t, func() {
		k, err := fixture.ParseKind("")
		So(err, ShouldBeNil)
		So(k, ShouldEqual, fixture.Overall)
		k, err = fixture.ParseKind("Attack")
		So(err, ShouldBeNil)
		So(k, ShouldEqual, fixture.Attack)
		_, err = fixture.ParseKind("midfield")
		So(errors.Is(err, fixture.ErrInvalidKind), ShouldBeTrue)
	})
}
