// Package swing measures how a subject's outlook changes between a near and a
// medium horizon.
package swing

import (
	"math"

	"github.com/okian/fplboard/internal/domain/classify"
	"github.com/okian/fplboard/internal/domain/metric"
)

// DefaultDeadZone is the change, in rating points, below which a swing is
// reported as steady.
const DefaultDeadZone = 1.0

// RuleSetID identifies the direction rule set built by a Calculator.
const RuleSetID classify.ID = "swing_direction"

// Direction of a swing.
type Direction string

const (
	Improving Direction = "improving"
	Declining Direction = "declining"
	Steady    Direction = "steady"
)

// Indicator glyphs per direction.
const (
	IndicatorUp   = "up"
	IndicatorDown = "down"
)

// Result is a single swing computation.
type Result struct {
	Delta     float64   `json:"delta"`
	Direction Direction `json:"direction"`
	Label     string    `json:"label"`
	Style     string    `json:"style"`
	Indicator string    `json:"indicator,omitempty"`
}

// Record is a subject's swing between two periods.
type Record struct {
	ID         string  `json:"id,omitempty"`
	Name       string  `json:"name"`
	Code       string  `json:"code,omitempty"`
	NearTerm   float64 `json:"near_term"`
	MediumTerm float64 `json:"medium_term"`
	Result
}

// Magnitude is the absolute delta.
func (r Record) Magnitude() float64 { return math.Abs(r.Delta) }

// Option configures a Calculator.
type Option func(*Calculator)

// WithDeadZone sets the steady band half-width. Negative values are ignored.
func WithDeadZone(d float64) Option {
	return func(c *Calculator) {
		if d >= 0 && !math.IsNaN(d) && !math.IsInf(d, 0) {
			c.deadZone = d
		}
	}
}

// Calculator computes swings. It is immutable and safe for concurrent use.
type Calculator struct {
	deadZone float64
	rules    classify.RuleSet
}

// New returns a Calculator.
func New(opts ...Option) *Calculator {
	c := &Calculator{deadZone: DefaultDeadZone}
	for _, opt := range opts {
		opt(c)
	}
	dz := c.deadZone
	c.rules = classify.Composite(RuleSetID,
		classify.When(func(s classify.Subject) bool { return s.Value > dz }, "Improving", "green"),
		classify.When(func(s classify.Subject) bool { return s.Value < -dz }, "Declining", "red"),
		classify.Otherwise("Steady", "gray"),
	)
	return c
}

// DeadZone returns the configured dead zone.
func (c *Calculator) DeadZone() float64 { return c.deadZone }

// RuleSet exposes the direction table so it can be registered alongside the
// built-in rule sets.
func (c *Calculator) RuleSet() classify.RuleSet { return c.rules }

// Compute returns the swing from near to medium. Delta is medium - near.
func (c *Calculator) Compute(near, medium float64) Result {
	delta := medium - near
	res := c.rules.Apply(classify.Number(delta))
	out := Result{Delta: delta, Label: res.Label, Style: res.Style, Direction: Steady}
	switch {
	case delta > c.deadZone:
		out.Direction = Improving
		out.Indicator = IndicatorUp
	case delta < -c.deadZone:
		out.Direction = Declining
		out.Indicator = IndicatorDown
	}
	return out
}

// Records computes swings for every record from two of its fields, keeping
// input order.
func (c *Calculator) Records(records []metric.Record, nearField, mediumField string) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		near, medium := r.Value(nearField), r.Value(mediumField)
		out[i] = Record{
			ID:         r.ID,
			Name:       r.Name,
			Code:       r.Code,
			NearTerm:   near,
			MediumTerm: medium,
			Result:     c.Compute(near, medium),
		}
	}
	return out
}
