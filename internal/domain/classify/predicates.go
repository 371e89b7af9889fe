package classify

import (
	"math"

	"github.com/okian/fplboard/internal/domain/metric"
)

var inf = math.Inf(1)

// FieldIn matches when lo <= record[field] < hi.
func FieldIn(field string, lo, hi float64) Predicate {
	return func(s Subject) bool {
		v := s.Record.Value(field)
		return v >= lo && v < hi
	}
}

// FieldAtLeast matches when record[field] >= lo.
func FieldAtLeast(field string, lo float64) Predicate {
	return func(s Subject) bool { return s.Record.Value(field) >= lo }
}

// All matches when every predicate matches.
func All(ps ...Predicate) Predicate {
	return func(s Subject) bool {
		for _, p := range ps {
			if !p(s) {
				return false
			}
		}
		return true
	}
}

// Any matches when at least one predicate matches.
func Any(ps ...Predicate) Predicate {
	return func(s Subject) bool {
		for _, p := range ps {
			if p(s) {
				return true
			}
		}
		return false
	}
}

func both(a, b Predicate) Predicate   { return All(a, b) }
func either(a, b Predicate) Predicate { return Any(a, b) }

func ppgIn(lo, hi float64) Predicate  { return FieldIn(metric.FieldPointsPerGame, lo, hi) }
func formIn(lo, hi float64) Predicate { return FieldIn(metric.FieldForm, lo, hi) }

func ownershipBelow(v float64) Predicate {
	return func(s Subject) bool { return s.Record.Value(metric.FieldOwnership) < v }
}

// roleScoreAtLeast reads attacker_score for midfielders and forwards and
// defender_score for everyone else.
func roleScoreAtLeast(attacker, defender float64) Predicate {
	return func(s Subject) bool {
		if metric.IsAttacker(s.Record.Category) {
			return s.Record.Value(metric.FieldAttackerScore) >= attacker
		}
		return s.Record.Value(metric.FieldDefenderScore) >= defender
	}
}
