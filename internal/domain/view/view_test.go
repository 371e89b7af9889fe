package view_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/fplboard/internal/domain/metric"
	"github.com/okian/fplboard/internal/domain/view"
	. "github.com/smartystreets/goconvey/convey"
)

func rec(name, code, pos string, form, goals float64) metric.Record {
	return metric.NewRecord("", name, code, pos, map[string]float64{
		metric.FieldForm:  form,
		metric.FieldGoals: goals,
	})
}

func names(rs []metric.Record) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Name
	}
	return out
}

func fixtures() []metric.Record {
	return []metric.Record{
		rec("Saka", "ARS", "Midfielder", 6.1, 8),
		rec("Haaland", "MCI", "Forward", 7.4, 15),
		rec("Salah", "LIV", "Midfielder", 7.4, 12),
		rec("Palmer", "CHE", "Midfielder", 5.0, 10),
		rec("Gabriel", "ARS", "Defender", 4.2, 3),
	}
}

func TestApply_Membership(t *testing.T) {
	Convey("Given five players from four teams", t, func() {
		in := fixtures()

		Convey("When filtering to LIV and ARS", func() {
			out := view.Apply(in, view.Options[metric.Record]{
				Members: []view.Membership[metric.Record]{{Of: view.RecordCode, Allow: []string{"LIV", "ARS"}}},
			})

			Convey("Then exactly the matching rows are returned in original order", func() {
				So(names(out), ShouldResemble, []string{"Saka", "Salah", "Gabriel"})
			})
		})

		Convey("When the allow-set is empty", func() {
			out := view.Apply(in, view.Options[metric.Record]{
				Members: []view.Membership[metric.Record]{{Of: view.RecordCode}},
			})

			Convey("Then nothing is filtered", func() {
				So(out, ShouldHaveLength, len(in))
			})
		})

		Convey("When two memberships are combined", func() {
			out := view.Apply(in, view.Options[metric.Record]{
				Members: []view.Membership[metric.Record]{
					{Of: view.RecordCode, Allow: []string{"ars", "liv"}},
					{Of: view.RecordCategory, Allow: []string{"Midfielder"}},
				},
			})

			Convey("Then both must match", func() {
				So(names(out), ShouldResemble, []string{"Saka", "Salah"})
			})
		})
	})
}

func TestApply_MembershipScenario(t *testing.T) {
	Convey("Given records from LIV, ARS, MCI, CHE and TOT", t, func() {
		in := []metric.Record{
			rec("Alisson", "LIV", "", 0, 0),
			rec("Foden", "MCI", "", 0, 0),
			rec("Raya", "ARS", "", 0, 0),
			rec("Sanchez", "CHE", "", 0, 0),
			rec("Vicario", "TOT", "", 0, 0),
		}

		Convey("When the allow-set is LIV and ARS", func() {
			out := view.Apply(in, view.Options[metric.Record]{
				Members: []view.Membership[metric.Record]{{Of: view.RecordCode, Allow: []string{"LIV", "ARS"}}},
			})

			Convey("Then two records come back in original order", func() {
				So(names(out), ShouldResemble, []string{"Alisson", "Raya"})
			})
		})
	})
}

func TestApply_Sort(t *testing.T) {
	Convey("Given players and a form key", t, func() {
		in := fixtures()
		key := view.NumberKey(metric.FieldForm, view.RecordField(metric.FieldForm))

		Convey("When sorting by form descending", func() {
			out := view.Apply(in, view.Options[metric.Record]{Name: view.RecordName, Sort: key, Direction: view.Descending})

			Convey("Then ties fall back to name ascending", func() {
				So(names(out), ShouldResemble, []string{"Haaland", "Salah", "Saka", "Palmer", "Gabriel"})
			})
		})

		Convey("When sorting by form ascending", func() {
			out := view.Apply(in, view.Options[metric.Record]{Name: view.RecordName, Sort: key, Direction: view.Ascending})

			Convey("Then ties still fall back to name ascending", func() {
				So(names(out), ShouldResemble, []string{"Gabriel", "Palmer", "Saka", "Haaland", "Salah"})
			})
		})

		Convey("When toggling direction on a key without duplicates", func() {
			goals := view.NumberKey(metric.FieldGoals, view.RecordField(metric.FieldGoals))
			dir := view.Ascending
			asc := view.Apply(in, view.Options[metric.Record]{Name: view.RecordName, Sort: goals, Direction: dir})
			desc := view.Apply(in, view.Options[metric.Record]{Name: view.RecordName, Sort: goals, Direction: dir.Toggle()})

			Convey("Then the order reverses exactly", func() {
				for i := range asc {
					So(asc[i].Name, ShouldEqual, desc[len(desc)-1-i].Name)
				}
			})
		})

		Convey("When sorting by a text key", func() {
			out := view.Apply(in, view.Options[metric.Record]{Name: view.RecordName, Sort: view.TextKey(view.ColumnName, view.RecordName)})

			Convey("Then rows are alphabetical", func() {
				So(names(out), ShouldResemble, []string{"Gabriel", "Haaland", "Palmer", "Saka", "Salah"})
			})
		})

		Convey("When no key is given", func() {
			out := view.Apply(in, view.Options[metric.Record]{Name: view.RecordName})

			Convey("Then input order is kept", func() {
				So(names(out), ShouldResemble, names(in))
			})
		})

		Convey("Then the input slice is never reordered", func() {
			before := names(in)
			_ = view.Apply(in, view.Options[metric.Record]{Name: view.RecordName, Sort: key, Direction: view.Descending})
			So(names(in), ShouldResemble, before)
		})
	})

	Convey("Given NaN values in a generic row type", t, func() {
		type row struct {
			name string
			v    float64
		}
		in := []row{{"b", 2}, {"a", math.NaN()}, {"c", 1}}
		out := view.Apply(in, view.Options[row]{
			Name: func(r row) string { return r.name },
			Sort: view.NumberKey("v", func(r row) float64 { return r.v }),
		})

		Convey("Then NaN sorts first ascending", func() {
			So(out[0].name, ShouldEqual, "a")
			So(out[1].name, ShouldEqual, "c")
			So(out[2].name, ShouldEqual, "b")
		})
	})
}

func TestApply_Search(t *testing.T) {
	Convey("Given players", t, func() {
		in := fixtures()

		Convey("When searching case-insensitively across name and code", func() {
			out := view.Apply(in, view.Options[metric.Record]{Search: "  sa ", SearchIn: view.RecordSearch})

			Convey("Then substring matches in any field are kept", func() {
				So(names(out), ShouldResemble, []string{"Saka", "Salah"})
			})
		})

		Convey("When the term matches a code only", func() {
			out := view.Apply(in, view.Options[metric.Record]{Search: "mci", SearchIn: view.RecordSearch})

			Convey("Then that player is found", func() {
				So(names(out), ShouldResemble, []string{"Haaland"})
			})
		})

		Convey("When the term is empty", func() {
			out := view.Apply(in, view.Options[metric.Record]{Search: "", SearchIn: view.RecordSearch})

			Convey("Then everything passes", func() {
				So(out, ShouldHaveLength, len(in))
			})
		})
	})
}

func TestApply_Limit(t *testing.T) {
	Convey("Given sorted players", t, func() {
		in := fixtures()
		key := view.NumberKey(metric.FieldGoals, view.RecordField(metric.FieldGoals))
		opts := view.Options[metric.Record]{Name: view.RecordName, Sort: key, Direction: view.Descending}

		Convey("When taking the top two", func() {
			opts.Limit = view.Top(2)
			out := view.Apply(in, opts)

			Convey("Then the first two sorted rows come back", func() {
				So(names(out), ShouldResemble, []string{"Haaland", "Salah"})
			})
		})

		Convey("When taking the bottom two", func() {
			opts.Limit = view.Bottom(2)
			out := view.Apply(in, opts)

			Convey("Then the last two rows come back in sorted order", func() {
				So(names(out), ShouldResemble, []string{"Saka", "Gabriel"})
			})
		})

		Convey("When n exceeds the row count or is not positive", func() {
			opts.Limit = view.Top(50)
			So(view.Apply(in, opts), ShouldHaveLength, len(in))
			opts.Limit = view.Bottom(0)
			So(view.Apply(in, opts), ShouldHaveLength, len(in))
		})

		Convey("When slicing after a filter", func() {
			opts.Limit = view.Top(1)
			opts.Members = []view.Membership[metric.Record]{{Of: view.RecordCode, Allow: []string{"ARS"}}}
			out := view.Apply(in, opts)

			Convey("Then the slice applies to the filtered output", func() {
				So(names(out), ShouldResemble, []string{"Saka"})
			})
		})
	})

	Convey("Given an empty input", t, func() {
		out := view.Apply([]metric.Record{}, view.Options[metric.Record]{Limit: view.Top(3)})

		Convey("Then the output is empty", func() {
			So(out, ShouldNotBeNil)
			So(out, ShouldHaveLength, 0)
		})
	})
}

func TestCatalog(t *testing.T) {
	Convey("Given a record catalog", t, func() {
		cat := view.RecordCatalog(metric.FieldForm, metric.FieldGoals)

		Convey("When looking up known keys", func() {
			k, err := cat.Lookup("FORM")
			So(err, ShouldBeNil)
			So(k.Name(), ShouldEqual, metric.FieldForm)
		})

		Convey("When looking up an empty key", func() {
			k, err := cat.Lookup("")
			So(err, ShouldBeNil)
			So(k.IsZero(), ShouldBeTrue)
		})

		Convey("When looking up an unknown key", func() {
			_, err := cat.Lookup("xg")
			So(errors.Is(err, view.ErrUnknownKey), ShouldBeTrue)
		})

		Convey("Then names are listed", func() {
			So(cat.Names(), ShouldResemble, []string{"category", "code", metric.FieldForm, metric.FieldGoals, "name"})
		})
	})
}

func TestParseDirection(t *testing.T) {
	Convey("Given direction strings", t, func() {
		d, err := view.ParseDirection("DESC", view.Ascending)
		So(err, ShouldBeNil)
		So(d, ShouldEqual, view.Descending)

		d, err = view.ParseDirection("", view.Descending)
		So(err, ShouldBeNil)
		So(d, ShouldEqual, view.Descending)

		_, err = view.ParseDirection("sideways", view.Ascending)
		So(errors.Is(err, view.ErrInvalidDirection), ShouldBeTrue)

		So(view.Ascending.String(), ShouldEqual, "asc")
		So(view.Descending.Toggle(), ShouldEqual, view.Ascending)
	})
}
