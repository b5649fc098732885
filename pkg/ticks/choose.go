package ticks

import (
	"math"

	"github.com/matzehuels/timestack/pkg/calendar"
	apperrors "github.com/matzehuels/timestack/pkg/errors"
	"github.com/matzehuels/timestack/pkg/measure"
)

// Constraints bound generator selection.
type Constraints struct {
	// Want is the target label density.
	Want float64

	// MaxDensity rejects generators whose estimated density exceeds it.
	MaxDensity float64

	// MaxTicks rejects generators estimated to produce more ticks. Zero or
	// less means unlimited.
	MaxTicks int
}

// Selection is the outcome of Choose.
type Selection struct {
	Generator Generator
	Index     int // position in the candidate list
	Estimate  Estimate
	Density   float64
	Count     float64
}

// Choose returns the generator whose estimated density for a range of
// rangeMillis on an axis of width pixels is closest to c.Want, among those
// within c.MaxDensity and c.MaxTicks. Earlier generators win ties.
//
// ok is false when no generator satisfies the constraints; that is not an
// error. Errors come from invalid input or from width estimation.
func Choose(gens []Generator, rangeMillis, width float64, c Constraints, est *measure.Estimator, m measure.Measurer, cal *calendar.Calendar) (sel Selection, ok bool, err error) {
	if err := apperrors.ValidateWidth(width); err != nil {
		return Selection{}, false, err
	}
	if math.IsNaN(rangeMillis) || rangeMillis <= 0 {
		return Selection{}, false, apperrors.New(apperrors.ErrCodeInvalidRange, "range must be positive, got %v", rangeMillis)
	}

	bestDiff := math.Inf(1)
	for i, g := range gens {
		e, err := g.Estimate(rangeMillis, est, m, cal, true)
		if err != nil {
			return Selection{}, false, err
		}
		density, count := e.Density(width), e.Count()
		if density > c.MaxDensity {
			continue
		}
		if c.MaxTicks > 0 && count > float64(c.MaxTicks) {
			continue
		}
		if diff := math.Abs(density - c.Want); diff < bestDiff {
			bestDiff = diff
			sel = Selection{Generator: g, Index: i, Estimate: e, Density: density, Count: count}
			ok = true
		}
	}
	return sel, ok, nil
}
