package classify_test

import (
	"math"
	"testing"

	"github.com/okian/fplboard/internal/domain/classify"
	"github.com/okian/fplboard/internal/domain/metric"
	. "github.com/smartystreets/goconvey/convey"
)

func strengthBands() classify.RuleSet {
	return classify.AtLeast("strength", []classify.Band{
		{Bound: 6, Label: "best", Style: "purple"},
		{Bound: 4, Label: "good", Style: "blue"},
		{Bound: -2, Label: "average", Style: "slate"},
		{Bound: -5, Label: "poor", Style: "gray"},
	}, classify.Result{Label: "worst", Style: "dark"})
}

func rankBands() classify.RuleSet {
	return classify.AtMost("rank", []classify.Band{
		{Bound: 3, Label: "top3", Style: "purple"},
		{Bound: 6, Label: "top6", Style: "blue"},
		{Bound: 10, Label: "top10", Style: "indigo"},
		{Bound: 15, Label: "top15", Style: "slate"},
	}, classify.Result{Label: "rest", Style: "gray"})
}

func TestAtLeast(t *testing.T) {
	Convey("Given lower-bound bands with minimums 6, 4, -2, -5", t, func() {
		rs := strengthBands()

		Convey("When classifying 6.2", func() {
			res := rs.Apply(classify.Number(6.2))

			Convey("Then the highest band wins", func() {
				So(res.Label, ShouldEqual, "best")
				So(res.Style, ShouldEqual, "purple")
			})
		})

		Convey("When classifying values on and between boundaries", func() {
			cases := map[float64]string{
				6: "best", 5.99: "good", 4: "good", 0: "average",
				-2: "average", -2.01: "poor", -5: "poor", -5.01: "worst", -100: "worst",
			}
			for v, want := range cases {
				So(rs.Apply(classify.Number(v)).Label, ShouldEqual, want)
			}
		})

		Convey("When classifying NaN", func() {
			res := rs.Apply(classify.Number(math.NaN()))

			Convey("Then the fallback matches", func() {
				So(res.Label, ShouldEqual, "worst")
			})
		})

		Convey("When classifying the same value twice", func() {
			So(rs.Apply(classify.Number(4.5)), ShouldResemble, rs.Apply(classify.Number(4.5)))
		})
	})
}

func TestAtMost(t *testing.T) {
	Convey("Given upper-bound bands with maximums 3, 6, 10, 15", t, func() {
		rs := rankBands()

		Convey("When classifying rank 7", func() {
			res := rs.Apply(classify.Number(7))

			Convey("Then the max 10 band matches", func() {
				So(res.Label, ShouldEqual, "top10")
				So(res.Style, ShouldEqual, "indigo")
			})
		})

		Convey("When classifying boundaries", func() {
			So(rs.Apply(classify.Number(3)).Label, ShouldEqual, "top3")
			So(rs.Apply(classify.Number(6)).Label, ShouldEqual, "top6")
			So(rs.Apply(classify.Number(15)).Label, ShouldEqual, "top15")
			So(rs.Apply(classify.Number(16)).Label, ShouldEqual, "rest")
		})
	})
}

func TestBelow(t *testing.T) {
	Convey("Given exclusive ownership bands", t, func() {
		reg := classify.Builtin()

		Convey("Then the bound itself belongs to the next band", func() {
			So(reg.Classify(classify.OwnershipBand, classify.Number(9.9)).Label, ShouldEqual, "Differential")
			So(reg.Classify(classify.OwnershipBand, classify.Number(10)).Label, ShouldEqual, "Low Owned")
			So(reg.Classify(classify.OwnershipBand, classify.Number(30)).Label, ShouldEqual, "Template")
		})

		Convey("And the squad table uses its own cut points", func() {
			So(reg.Classify(classify.SquadOwnershipBand, classify.Number(25)).Label, ShouldEqual, "Low Owned")
			So(reg.Classify(classify.SquadOwnershipBand, classify.Number(59)).Label, ShouldEqual, "Moderate")
			So(reg.Classify(classify.SquadOwnershipBand, classify.Number(79)).Label, ShouldEqual, "Popular")
			So(reg.Classify(classify.SquadOwnershipBand, classify.Number(80)).Label, ShouldEqual, "Template")
		})
	})
}

func TestExact(t *testing.T) {
	Convey("Given the difficulty level table", t, func() {
		reg := classify.Builtin()

		Convey("When keys differ in case and spacing", func() {
			res := reg.Classify(classify.DifficultyLevel, classify.Category("  very easy "))

			Convey("Then they still match", func() {
				So(res.Label, ShouldEqual, "Very Easy")
			})
		})

		Convey("When the key is unknown", func() {
			res := reg.Classify(classify.DifficultyLevel, classify.Category("BRUTAL"))

			Convey("Then the default applies", func() {
				So(res.Label, ShouldEqual, classify.LabelUnrated)
			})
		})
	})
}

func TestPairwise(t *testing.T) {
	Convey("Given the favourability rule set", t, func() {
		reg := classify.Builtin()

		Convey("Then only a gap larger than the margin is decisive", func() {
			So(reg.Classify(classify.Favourability, classify.Versus(10, 6)).Label, ShouldEqual, "Favoured")
			So(reg.Classify(classify.Favourability, classify.Versus(6, 10)).Label, ShouldEqual, "Underdog")
			So(reg.Classify(classify.Favourability, classify.Versus(9, 6)).Label, ShouldEqual, "Neutral")
			So(reg.Classify(classify.Favourability, classify.Versus(6, 6)).Label, ShouldEqual, "Neutral")
		})
	})
}

func player(category string, values map[string]float64) metric.Record {
	return metric.NewRecord("", "p", "", category, values)
}

func TestComposite(t *testing.T) {
	Convey("Given the quick pick table", t, func() {
		reg := classify.Builtin()
		pick := func(ppg, form float64) string {
			return reg.Classify(classify.QuickPick, classify.ForRecord(player("Forward", map[string]float64{
				metric.FieldPointsPerGame: ppg, metric.FieldForm: form,
			}))).Label
		}

		Convey("Then each conjunction is checked in priority order", func() {
			So(pick(5.5, 6.5), ShouldEqual, classify.LabelTopPick)
			So(pick(4, 5), ShouldEqual, classify.LabelSolidChoice)
			So(pick(3, 4), ShouldEqual, classify.LabelDifferential)
			So(pick(1, 2), ShouldEqual, classify.LabelRisky)
			So(pick(5.5, 2), ShouldEqual, classify.LabelMonitor)
		})
	})

	Convey("Given the squad pick table", t, func() {
		reg := classify.Builtin()
		pick := func(category string, values map[string]float64) string {
			return reg.Classify(classify.SquadPick, classify.ForRecord(player(category, values))).Label
		}

		Convey("When the player is an attacker", func() {
			So(pick("Midfielder", map[string]float64{metric.FieldAttackerScore: 2.3}), ShouldEqual, classify.LabelTopPick)
			So(pick("Forward", map[string]float64{metric.FieldAttackerScore: 1.7, metric.FieldOwnership: 5}), ShouldEqual, classify.LabelDifferential)
			So(pick("Forward", map[string]float64{metric.FieldAttackerScore: 1.7, metric.FieldOwnership: 40}), ShouldEqual, classify.LabelSolidChoice)
			So(pick("Forward", map[string]float64{metric.FieldAttackerScore: 1.2, metric.FieldOwnership: 40}), ShouldEqual, classify.LabelMonitor)
			So(pick("Forward", map[string]float64{metric.FieldAttackerScore: 0.5, metric.FieldOwnership: 40}), ShouldEqual, classify.LabelRisky)
		})

		Convey("When the player is a defender", func() {
			So(pick("Defender", map[string]float64{metric.FieldDefenderScore: 3.1}), ShouldEqual, classify.LabelTopPick)
			So(pick("Defender", map[string]float64{metric.FieldAttackerScore: 3, metric.FieldDefenderScore: 2.1, metric.FieldOwnership: 40}), ShouldEqual, classify.LabelSolidChoice)
		})

		Convey("When points and form are high regardless of role score", func() {
			So(pick("Goalkeeper", map[string]float64{metric.FieldPointsPerGame: 6, metric.FieldForm: 5}), ShouldEqual, classify.LabelTopPick)
		})
	})
}

func TestNew_Validation(t *testing.T) {
	Convey("Given malformed rule tables", t, func() {
		Convey("When the last rule is not a fallback", func() {
			So(func() {
				classify.New("x", classify.When(func(classify.Subject) bool { return true }, "a", ""))
			}, ShouldPanic)
		})

		Convey("When a fallback is not last", func() {
			So(func() {
				classify.New("x", classify.Otherwise("a", ""), classify.Otherwise("b", ""))
			}, ShouldPanic)
		})

		Convey("When lower bounds are not descending", func() {
			So(func() {
				classify.AtLeast("x", []classify.Band{{Bound: 1}, {Bound: 2}}, classify.Result{})
			}, ShouldPanic)
		})

		Convey("When upper bounds are not ascending", func() {
			So(func() {
				classify.AtMost("x", []classify.Band{{Bound: 5}, {Bound: 5}}, classify.Result{})
			}, ShouldPanic)
		})

		Convey("When the set is empty", func() {
			So(func() { classify.New("x") }, ShouldPanic)
		})
	})
}

func TestRegistry(t *testing.T) {
	Convey("Given a registry", t, func() {
		reg := classify.NewRegistry(strengthBands(), rankBands())

		Convey("When classifying through a known id", func() {
			So(reg.Classify("rank", classify.Number(7)).Label, ShouldEqual, "top10")
		})

		Convey("When the id is unknown", func() {
			So(func() { reg.Classify("missing", classify.Number(1)) }, ShouldPanic)
			So(reg.Has("missing"), ShouldBeFalse)
		})

		Convey("When registering a duplicate", func() {
			So(func() { classify.NewRegistry(rankBands(), rankBands()) }, ShouldPanic)
		})

		Convey("When extending with With", func() {
			ext := reg.With(classify.New("extra", classify.Otherwise("x", "")))

			Convey("Then the original is untouched", func() {
				So(ext.Has("extra"), ShouldBeTrue)
				So(reg.Has("extra"), ShouldBeFalse)
				So(ext.IDs(), ShouldResemble, []classify.ID{"extra", "rank", "strength"})
			})
		})
	})

	Convey("Given the built-in registry", t, func() {
		reg := classify.Builtin()

		Convey("Then every built-in table is registered", func() {
			for _, id := range []classify.ID{
				classify.FixtureDifficulty, classify.RankTier, classify.OpportunityScore,
				classify.SummaryScore, classify.FixtureRating, classify.DifficultyLevel,
				classify.PickDifficulty, classify.OwnershipBand, classify.SquadOwnershipBand,
				classify.FormBadge, classify.Favourability, classify.QuickPick,
				classify.SquadPick, classify.DefensivePick,
			} {
				So(reg.Has(id), ShouldBeTrue)
			}
		})

		Convey("Then fixture difficulty follows its table", func() {
			So(reg.Classify(classify.FixtureDifficulty, classify.Number(3.5)).Label, ShouldEqual, "Very Easy")
			So(reg.Classify(classify.FixtureDifficulty, classify.Number(5.3)).Label, ShouldEqual, "Moderate-Easy")
			So(reg.Classify(classify.FixtureDifficulty, classify.Number(7.01)).Label, ShouldEqual, "Very Hard")
		})

		Convey("Then the same instance is shared", func() {
			So(classify.Builtin(), ShouldPointTo, reg)
		})
	})
}
