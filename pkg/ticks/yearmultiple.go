package ticks

import (
	"fmt"
	"time"

	"github.com/matzehuels/timestack/pkg/calendar"
	apperrors "github.com/matzehuels/timestack/pkg/errors"
)

// year is the nominal length of a year for estimation.
const year = float64(365 * 24 * time.Hour / time.Millisecond)

// YearMultiple ticks at the start of every year that is a multiple of By.
// It has no major ticks and no bottom row.
type YearMultiple struct {
	rows
	by int
}

// NewYearMultiple creates a generator ticking every by years.
func NewYearMultiple(by int, top TopSpec) (*YearMultiple, error) {
	if by <= 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidGenerator, "year step must be positive, got %d", by)
	}
	g := &YearMultiple{rows: newRows(top, float64(by)*year), by: by}
	if err := validateRows(g.rows); err != nil {
		return nil, err
	}
	return g, nil
}

// By returns the year step.
func (g *YearMultiple) By() int { return g.by }

// Seq implements Generator. The first tick is the start of the latest
// multiple of By at or before from's year.
func (g *YearMultiple) Seq(from calendar.DateTime) Cursor {
	y := from.Year()
	start := y - ((y%g.by)+g.by)%g.by
	return &yearCursor{
		at:   from.StartOf(calendar.Year).WithYear(start),
		step: calendar.Every(g.by, calendar.Year),
	}
}

// Create implements Generator.
func (g *YearMultiple) Create(from, to calendar.DateTime, preferLong func(calendar.DateTime) bool) []Tick {
	return g.create(g.Seq(from), from, to, preferLong)
}

// WithFormats implements Generator.
func (g *YearMultiple) WithFormats(patch calendar.Format) Generator {
	out := *g
	out.rows = g.patched(patch)
	return &out
}

func (g *YearMultiple) String() string {
	if g.by == 1 {
		return "every year"
	}
	return fmt.Sprintf("every %d years", g.by)
}

type yearCursor struct {
	at   calendar.DateTime
	step calendar.Step
}

func (c *yearCursor) Next() SeqTick {
	st := SeqTick{At: c.at}
	c.at = c.at.Plus(c.step)
	return st
}
