package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const teams = `[
  {"team": "Arsenal", "short_name": "ARS", "attack_rank": 1, "defense_rank": 5, "form": 7.5},
  {"team": "Brighton", "short_name": "BHA", "attack_rank": 2, "defense_rank": 2, "form": 4},
  {"team": "Chelsea", "short_name": "CHE", "attack_rank": 3, "defense_rank": 4}
]`

func run(stdin string, args ...string) (string, error) {
	var out bytes.Buffer
	cmd := NewRootCommand(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

type row struct {
	Name     string             `json:"name"`
	Code     string             `json:"code"`
	Values   map[string]float64 `json:"values"`
	Combined float64            `json:"combined"`
	Overall  int                `json:"overall"`
}

func decodeRows(s string) []row {
	var rows []row
	So(json.Unmarshal([]byte(s), &rows), ShouldBeNil)
	return rows
}

func TestRuleSetsAndClassify(t *testing.T) {
	Convey("Given fplctl", t, func() {
		Convey("rulesets lists every table with its labels", func() {
			out, err := run("", "rulesets")
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, `"id": "fixture_difficulty"`)
			So(out, ShouldContainSubstring, `"id": "swing_direction"`)
			So(out, ShouldContainSubstring, `"label": "Very Easy"`)
		})

		Convey("classify bands a numeric value", func() {
			out, err := run("", "classify", "fixture_difficulty", "4.2")
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, `"label": "Easy"`)
			So(out, ShouldContainSubstring, `"ruleset": "fixture_difficulty"`)
		})

		Convey("classify matches categories case-insensitively", func() {
			out, err := run("", "classify", "difficulty_level", "--text", " very easy ")
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, `"label": "Very Easy"`)
		})

		Convey("classify falls back when nothing matches", func() {
			out, err := run("", "classify", "pick_difficulty", "--text", "brutal")
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, `"label": "Unrated"`)
		})

		Convey("classify reads record fields", func() {
			_, err := run("", "classify", "form_badge", "--field", "form=8")
			So(err, ShouldBeNil)
		})

		Convey("bad input is reported", func() {
			_, err := run("", "classify", "nope", "1")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "unknown rule set")

			_, err = run("", "classify", "fixture_difficulty", "abc")
			So(err, ShouldNotBeNil)

			_, err = run("", "classify", "quick_pick", "--field", "form")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestRank(t *testing.T) {
	Convey("Given a file of teams", t, func() {
		path := filepath.Join(t.TempDir(), "teams.json")
		So(os.WriteFile(path, []byte(teams), 0o600), ShouldBeNil)

		Convey("rank orders by the summed ranks", func() {
			out, err := run("", "rank", "--file", path)
			So(err, ShouldBeNil)

			rows := decodeRows(out)
			So(rows, ShouldHaveLength, 3)
			So(rows[0].Name, ShouldEqual, "Brighton")
			So(rows[0].Combined, ShouldEqual, 4)
			So(rows[0].Overall, ShouldEqual, 1)
			So(rows[1].Name, ShouldEqual, "Arsenal")
			So(rows[2].Name, ShouldEqual, "Chelsea")
		})

		Convey("a single dimension ranks by that field", func() {
			out, err := run("", "rank", "--file", path, "--dims", "attack_rank")
			So(err, ShouldBeNil)
			So(decodeRows(out)[0].Name, ShouldEqual, "Arsenal")
		})

		Convey("records can come from stdin inside an envelope", func() {
			out, err := run(`{"teams": `+teams+`}`, "rank", "--envelope", "teams")
			So(err, ShouldBeNil)
			So(decodeRows(out), ShouldHaveLength, 3)
		})

		Convey("a missing file is an error", func() {
			_, err := run("", "rank", "--file", filepath.Join(t.TempDir(), "missing.json"))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestView(t *testing.T) {
	Convey("Given teams on stdin", t, func() {
		Convey("sort and top slice the table", func() {
			out, err := run(teams, "view", "--sort", "form", "--dir", "desc", "--top", "2")
			So(err, ShouldBeNil)

			rows := decodeRows(out)
			So(rows, ShouldHaveLength, 2)
			So(rows[0].Name, ShouldEqual, "Arsenal")
			So(rows[1].Name, ShouldEqual, "Brighton")
		})

		Convey("missing values normalize to zero", func() {
			out, err := run(teams, "view", "--sort", "form", "--bottom", "1", "--dir", "desc")
			So(err, ShouldBeNil)

			rows := decodeRows(out)
			So(rows, ShouldHaveLength, 1)
			So(rows[0].Name, ShouldEqual, "Chelsea")
			So(rows[0].Values["form"], ShouldEqual, 0)
		})

		Convey("search and membership filter rows", func() {
			out, err := run(teams, "view", "--members", "ars,che", "--q", "a")
			So(err, ShouldBeNil)

			rows := decodeRows(out)
			So(rows, ShouldHaveLength, 2)
			So(rows[0].Code, ShouldEqual, "ARS")
			So(rows[1].Code, ShouldEqual, "CHE")
		})

		Convey("invalid controls are rejected", func() {
			_, err := run(teams, "view", "--sort", "nope")
			So(err, ShouldNotBeNil)

			_, err = run(teams, "view", "--dir", "sideways")
			So(err, ShouldNotBeNil)

			_, err = run(teams, "view", "--top", "1", "--bottom", "1")
			So(err, ShouldNotBeNil)

			_, err = run(teams, "view", "--members", "ARS", "--member-field", "colour")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestSwing(t *testing.T) {
	Convey("Given two ratings", t, func() {
		Convey("a drop beyond the dead zone is declining", func() {
			out, err := run("", "swing", "62", "48")
			So(err, ShouldBeNil)

			var rec map[string]any
			So(json.Unmarshal([]byte(out), &rec), ShouldBeNil)
			So(rec["delta"], ShouldEqual, float64(-14))
			So(rec["direction"], ShouldEqual, "declining")
		})

		Convey("a change inside the dead zone is steady", func() {
			out, err := run("", "swing", "10", "11", "--dead-zone", "1.5")
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, `"direction": "steady"`)
		})

		Convey("bad arguments are rejected", func() {
			_, err := run("", "swing", "x", "1")
			So(err, ShouldNotBeNil)

			_, err = run("", "swing", "1")
			So(err, ShouldNotBeNil)

			_, err = run("", "swing", "1", "2", "--dead-zone", "-1")
			So(err, ShouldNotBeNil)
		})
	})
}
