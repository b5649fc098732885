package ticks

import (
	"fmt"

	"github.com/matzehuels/timestack/pkg/calendar"
	apperrors "github.com/matzehuels/timestack/pkg/errors"
)

// Periodic ticks every Step from a start snapped down to Align.
//
// A tick is major when it sits exactly on a boundary of the major unit and
// carries a bottom label when it sits exactly on a boundary of the bottom
// unit.
type Periodic struct {
	rows
	step       calendar.Step
	align      calendar.Unit
	major      calendar.Unit
	hasMajor   bool
	bottomUnit calendar.Unit
}

// PeriodicOption configures a Periodic generator.
type PeriodicOption func(*Periodic)

// MajorUnit flags ticks on u boundaries as major.
func MajorUnit(u calendar.Unit) PeriodicOption {
	return func(p *Periodic) {
		p.major = u
		p.hasMajor = true
	}
}

// BottomUnit adds a bottom row shown on ticks that sit on u boundaries. The
// bottom row's nominal size is one u.
func BottomUnit(u calendar.Unit, spec BottomSpec) PeriodicOption {
	return func(p *Periodic) {
		p.bottomUnit = u
		p.bottom = &Bottom{BottomSpec: spec, Size: millis(u.Approx())}
	}
}

// NewPeriodic creates a generator stepping by step from starts aligned to
// align.
func NewPeriodic(step calendar.Step, align calendar.Unit, top TopSpec, opts ...PeriodicOption) (*Periodic, error) {
	if step.N <= 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidGenerator, "step must be positive, got %d", step.N)
	}
	if step.Unit < calendar.Second || step.Unit > calendar.Year {
		return nil, apperrors.New(apperrors.ErrCodeInvalidGenerator, "invalid step unit %v", step.Unit)
	}
	if align < calendar.Second || align > calendar.Year {
		return nil, apperrors.New(apperrors.ErrCodeInvalidGenerator, "invalid align unit %v", align)
	}
	p := &Periodic{
		rows:  newRows(top, float64(step.N)*millis(step.Unit.Approx())),
		step:  step,
		align: align,
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := validateRows(p.rows); err != nil {
		return nil, err
	}
	return p, nil
}

// Step returns the calendar step between ticks.
func (p *Periodic) Step() calendar.Step { return p.step }

// Align returns the unit starts are snapped to.
func (p *Periodic) Align() calendar.Unit { return p.align }

// Seq implements Generator.
func (p *Periodic) Seq(from calendar.DateTime) Cursor {
	return &periodicCursor{p: p, at: from.StartOf(p.align)}
}

// Create implements Generator.
func (p *Periodic) Create(from, to calendar.DateTime, preferLong func(calendar.DateTime) bool) []Tick {
	return p.create(p.Seq(from), from, to, preferLong)
}

// WithFormats implements Generator.
func (p *Periodic) WithFormats(patch calendar.Format) Generator {
	out := *p
	out.rows = p.patched(patch)
	return &out
}

func (p *Periodic) String() string {
	return fmt.Sprintf("%s aligned to %s", p.step, p.align)
}

type periodicCursor struct {
	p  *Periodic
	at calendar.DateTime
}

func (c *periodicCursor) Next() SeqTick {
	st := SeqTick{
		At:         c.at,
		Major:      c.p.hasMajor && c.at.OnBoundary(c.p.major),
		WithBottom: c.p.bottom != nil && c.at.OnBoundary(c.p.bottomUnit),
	}
	c.at = c.at.Plus(c.p.step)
	return st
}

func validateRows(r rows) error {
	if err := r.top.Fmt.Validate(); err != nil {
		return err
	}
	if r.top.MajFmt != nil {
		if err := r.top.MajFmt.Validate(); err != nil {
			return err
		}
	}
	if r.bottom != nil {
		if err := r.bottom.ShortFmt.Validate(); err != nil {
			return err
		}
		if r.bottom.LongFmt != nil {
			if err := r.bottom.LongFmt.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}
