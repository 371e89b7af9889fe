package swing_test

import (
	"math"
	"testing"

	"github.com/okian/fplboard/internal/domain/metric"
	"github.com/okian/fplboard/internal/domain/swing"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCalculator_Compute(t *testing.T) {
	Convey("Given a calculator with the default dead zone", t, func() {
		calc := swing.New()

		Convey("When the outlook rises from 40 to 55", func() {
			res := calc.Compute(40, 55)

			Convey("Then the swing is +15 and improving", func() {
				So(res.Delta, ShouldEqual, 15)
				So(res.Direction, ShouldEqual, swing.Improving)
				So(res.Label, ShouldEqual, "Improving")
				So(res.Indicator, ShouldEqual, swing.IndicatorUp)
			})
		})

		Convey("When the outlook falls from 55 to 40", func() {
			res := calc.Compute(55, 40)

			Convey("Then the swing is -15 and declining", func() {
				So(res.Delta, ShouldEqual, -15)
				So(res.Direction, ShouldEqual, swing.Declining)
				So(res.Indicator, ShouldEqual, swing.IndicatorDown)
			})
		})

		Convey("When the change is inside the dead zone", func() {
			res := calc.Compute(50, 50.5)

			Convey("Then it is steady with no indicator", func() {
				So(res.Direction, ShouldEqual, swing.Steady)
				So(res.Indicator, ShouldBeEmpty)
			})
		})

		Convey("When the change equals the dead zone", func() {
			So(calc.Compute(50, 50+swing.DefaultDeadZone).Direction, ShouldEqual, swing.Steady)
		})

		Convey("Then swapping periods negates the delta", func() {
			pairs := [][2]float64{{40, 55}, {1.3, 7.9}, {-2, 3}, {0.1, 0.2}}
			for _, p := range pairs {
				So(calc.Compute(p[0], p[1]).Delta, ShouldEqual, -calc.Compute(p[1], p[0]).Delta)
			}
		})

		Convey("When given NaN", func() {
			res := calc.Compute(math.NaN(), 5)

			Convey("Then the result is steady", func() {
				So(res.Direction, ShouldEqual, swing.Steady)
			})
		})
	})

	Convey("Given a calculator with a wide dead zone", t, func() {
		calc := swing.New(swing.WithDeadZone(20))

		Convey("Then a 15 point rise is steady", func() {
			So(calc.DeadZone(), ShouldEqual, 20)
			So(calc.Compute(40, 55).Direction, ShouldEqual, swing.Steady)
		})
	})

	Convey("Given an invalid dead zone option", t, func() {
		calc := swing.New(swing.WithDeadZone(-1))

		Convey("Then the default is kept", func() {
			So(calc.DeadZone(), ShouldEqual, swing.DefaultDeadZone)
		})
	})
}

func TestCalculator_Records(t *testing.T) {
	Convey("Given team fixture summaries", t, func() {
		recs := []metric.Record{
			metric.NewRecord("", "Arsenal", "ARS", "", map[string]float64{
				metric.FieldNearTermRating: 40, metric.FieldMediumTermRating: 55,
			}),
			metric.NewRecord("", "Everton", "EVE", "", map[string]float64{
				metric.FieldNearTermRating: 60, metric.FieldMediumTermRating: 42,
			}),
		}

		Convey("When computing swings", func() {
			out := swing.New().Records(recs, metric.FieldNearTermRating, metric.FieldMediumTermRating)

			Convey("Then every record carries its delta and the order is kept", func() {
				So(out, ShouldHaveLength, 2)
				So(out[0].Name, ShouldEqual, "Arsenal")
				So(out[0].Delta, ShouldEqual, out[0].MediumTerm-out[0].NearTerm)
				So(out[1].Delta, ShouldEqual, -18)
				So(out[1].Magnitude(), ShouldEqual, 18)
				So(out[1].Direction, ShouldEqual, swing.Declining)
			})
		})
	})

	Convey("Given the calculator's rule set", t, func() {
		rs := swing.New().RuleSet()

		Convey("Then it is identified for registration", func() {
			So(rs.ID(), ShouldEqual, swing.RuleSetID)
		})
	})
}
