package ticks

import (
	"time"

	"github.com/matzehuels/timestack/pkg/calendar"
	"github.com/matzehuels/timestack/pkg/measure"
)

// Generator is one tick cadence policy. Implementations are immutable and
// safe for concurrent use.
type Generator interface {
	// Top returns the main row's formats and nominal tick distance.
	Top() Spec

	// Bottom returns the context row, or nil if the generator has none.
	Bottom() *Bottom

	// Estimate returns the approximate tick count and widest label width of
	// each row for a range of rangeMillis. allowLong includes the long
	// bottom format in the bottom row's width.
	Estimate(rangeMillis float64, est *measure.Estimator, m measure.Measurer, cal *calendar.Calendar, allowLong bool) (Estimate, error)

	// Seq returns a cursor starting at or before from.
	Seq(from calendar.DateTime) Cursor

	// Format renders the label of a tick at at.
	Format(at calendar.DateTime, major, withBottom, preferLong bool) Label

	// Create returns the ticks in [from, to) in increasing order.
	Create(from, to calendar.DateTime, preferLong func(calendar.DateTime) bool) []Tick

	// CreateFloating returns an edge tick at at with an empty top label and
	// an ellipsis on the given side of the bottom label.
	CreateFloating(at calendar.DateTime, side Side, preferLong func(calendar.DateTime) bool) Tick

	// WithFormats returns a copy of the generator with patch applied to all
	// of its formats (see calendar.Format.Patch).
	WithFormats(patch calendar.Format) Generator

	// String describes the cadence, e.g. "5 minutes aligned to hour".
	String() string
}

// rows holds the label formats shared by all variants and implements the
// format-level half of Generator.
type rows struct {
	top    Spec
	bottom *Bottom
}

func newRows(top TopSpec, size float64) rows {
	return rows{top: Spec{TopSpec: top, Size: size}}
}

func (r rows) Top() Spec { return r.top }

func (r rows) Bottom() *Bottom {
	if r.bottom == nil {
		return nil
	}
	b := *r.bottom
	return &b
}

func (r rows) Estimate(rangeMillis float64, est *measure.Estimator, m measure.Measurer, cal *calendar.Calendar, allowLong bool) (Estimate, error) {
	if est == nil {
		est = measure.Default()
	}

	normal, err := est.MaxWidth(r.top.Fmt, m, cal)
	if err != nil {
		return Estimate{}, err
	}
	var major float64
	if r.top.MajFmt != nil {
		if major, err = est.MaxWidth(*r.top.MajFmt, m, cal); err != nil {
			return Estimate{}, err
		}
	}
	e := Estimate{Top: RowEstimate{
		Ticks:      rangeMillis / r.top.Size,
		LabelWidth: max(normal, major),
	}}

	if r.bottom != nil {
		short, err := est.MaxWidth(r.bottom.ShortFmt, m, cal)
		if err != nil {
			return Estimate{}, err
		}
		var long float64
		if allowLong && r.bottom.LongFmt != nil {
			if long, err = est.MaxWidth(*r.bottom.LongFmt, m, cal); err != nil {
				return Estimate{}, err
			}
		}
		e.Bottom = &RowEstimate{
			Ticks:      rangeMillis / r.bottom.Size,
			LabelWidth: max(short, long),
		}
	}
	return e, nil
}

func (r rows) Format(at calendar.DateTime, major, withBottom, preferLong bool) Label {
	f := r.top.Fmt
	if major && r.top.MajFmt != nil {
		f = *r.top.MajFmt
	}
	l := Label{Top: at.Format(f)}
	if withBottom && r.bottom != nil {
		l.Bottom = at.Format(r.bottomFormat(preferLong))
		l.HasBottom = true
	}
	return l
}

func (r rows) bottomFormat(preferLong bool) calendar.Format {
	if preferLong && r.bottom.LongFmt != nil {
		return *r.bottom.LongFmt
	}
	return r.bottom.ShortFmt
}

func (r rows) CreateFloating(at calendar.DateTime, side Side, preferLong func(calendar.DateTime) bool) Tick {
	var text string
	if r.bottom != nil {
		text = at.Format(r.bottomFormat(preferLong != nil && preferLong(at)))
	}
	if side == Left {
		text = Ellipsis + text
	} else {
		text += Ellipsis
	}
	return Tick{Value: at.Millis(), Label: Label{Bottom: text, HasBottom: true}}
}

func (r rows) patched(p calendar.Format) rows {
	out := rows{top: Spec{TopSpec: r.top.patched(p), Size: r.top.Size}}
	if r.bottom != nil {
		out.bottom = &Bottom{BottomSpec: r.bottom.patched(p), Size: r.bottom.Size}
	}
	return out
}

// create drains c over [from, to).
func (r rows) create(c Cursor, from, to calendar.DateTime, preferLong func(calendar.DateTime) bool) []Tick {
	var out []Tick
	for {
		st := c.Next()
		if st.At.Before(from) {
			continue
		}
		if !st.At.Before(to) {
			return out
		}
		long := preferLong != nil && preferLong(st.At)
		out = append(out, Tick{
			Value: st.At.Millis(),
			Major: st.Major,
			Label: r.Format(st.At, st.Major, st.WithBottom, long),
		})
	}
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
