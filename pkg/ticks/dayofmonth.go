package ticks

import (
	"fmt"
	"slices"
	"time"

	"github.com/matzehuels/timestack/pkg/calendar"
	apperrors "github.com/matzehuels/timestack/pkg/errors"
)

// bottomMonth is the nominal distance between a DayOfMonth's bottom labels.
const bottomMonth = float64(30 * 24 * time.Hour / time.Millisecond)

// DayOfMonth ticks on fixed days of every month, such as the 1st, 10th and
// 20th. Days a month does not have (the 30th in February) are skipped.
type DayOfMonth struct {
	rows
	days       []int
	majorDays  []int
	bottomDays []int
}

// DayOption configures a DayOfMonth generator.
type DayOption func(*DayOfMonth)

// MajorDays replaces the days flagged major. The default is the 1st.
func MajorDays(days ...int) DayOption {
	return func(g *DayOfMonth) { g.majorDays = slices.Clone(days) }
}

// BottomDays adds a bottom row shown on the given days, the 1st if none
// are given.
func BottomDays(spec BottomSpec, days ...int) DayOption {
	return func(g *DayOfMonth) {
		g.bottom = &Bottom{BottomSpec: spec, Size: bottomMonth}
		if len(days) == 0 {
			days = []int{1}
		}
		g.bottomDays = slices.Clone(days)
	}
}

// NewDayOfMonth creates a generator ticking on days, which must be strictly
// increasing days of the month. stepDays is the nominal distance between
// ticks used for estimation.
func NewDayOfMonth(days []int, stepDays int, top TopSpec, opts ...DayOption) (*DayOfMonth, error) {
	if len(days) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidGenerator, "day-of-month generator needs at least one day")
	}
	for i, d := range days {
		if d < 1 || d > 31 {
			return nil, apperrors.New(apperrors.ErrCodeInvalidGenerator, "day %d out of range 1..31", d)
		}
		if i > 0 && d <= days[i-1] {
			return nil, apperrors.New(apperrors.ErrCodeInvalidGenerator, "days must be strictly increasing, got %v", days)
		}
	}
	if stepDays <= 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidGenerator, "step must be positive, got %d days", stepDays)
	}
	g := &DayOfMonth{
		rows:      newRows(top, float64(stepDays)*millis(24*time.Hour)),
		days:      slices.Clone(days),
		majorDays: []int{1},
	}
	for _, opt := range opts {
		opt(g)
	}
	if err := validateRows(g.rows); err != nil {
		return nil, err
	}
	return g, nil
}

// Days returns the configured days of the month.
func (g *DayOfMonth) Days() []int { return slices.Clone(g.days) }

// Seq implements Generator.
func (g *DayOfMonth) Seq(from calendar.DateTime) Cursor {
	return &dayCursor{g: g, month: from.StartOf(calendar.Month)}
}

// Create implements Generator.
func (g *DayOfMonth) Create(from, to calendar.DateTime, preferLong func(calendar.DateTime) bool) []Tick {
	return g.create(g.Seq(from), from, to, preferLong)
}

// WithFormats implements Generator.
func (g *DayOfMonth) WithFormats(patch calendar.Format) Generator {
	out := *g
	out.rows = g.patched(patch)
	return &out
}

func (g *DayOfMonth) String() string {
	return fmt.Sprintf("days %v of each month", g.days)
}

type dayCursor struct {
	g     *DayOfMonth
	month calendar.DateTime
	i     int
}

func (c *dayCursor) Next() SeqTick {
	for {
		if c.i == len(c.g.days) {
			c.month = c.month.Plus(calendar.Every(1, calendar.Month))
			c.i = 0
		}
		d := c.g.days[c.i]
		c.i++
		at, ok := c.month.WithDay(d)
		if !ok {
			continue
		}
		return SeqTick{
			At:         at,
			Major:      slices.Contains(c.g.majorDays, d),
			WithBottom: c.g.bottom != nil && slices.Contains(c.g.bottomDays, d),
		}
	}
}
