package ticks

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/timestack/pkg/calendar"
)

// Ellipsis marks the open side of a floating tick's label.
const Ellipsis = "…"

// TopSpec holds the formats of the main label row. MajFmt, when set,
// replaces Fmt for major ticks.
type TopSpec struct {
	Fmt    calendar.Format  `json:"fmt" toml:"fmt" yaml:"fmt"`
	MajFmt *calendar.Format `json:"maj_fmt,omitempty" toml:"maj_fmt,omitempty" yaml:"maj_fmt,omitempty"`
}

// BottomSpec holds the formats of the context row. LongFmt, when set, is
// used instead of ShortFmt for ticks that prefer a long bottom label.
type BottomSpec struct {
	ShortFmt calendar.Format  `json:"short_fmt" toml:"short_fmt" yaml:"short_fmt"`
	LongFmt  *calendar.Format `json:"long_fmt,omitempty" toml:"long_fmt,omitempty" yaml:"long_fmt,omitempty"`
}

// Spec is a TopSpec with the nominal distance between ticks in
// milliseconds. Size only drives estimation; the real cadence is
// calendar-irregular.
type Spec struct {
	TopSpec
	Size float64
}

// Bottom is a BottomSpec with the nominal distance between bottom labels in
// milliseconds.
type Bottom struct {
	BottomSpec
	Size float64
}

func (s TopSpec) patched(p calendar.Format) TopSpec {
	out := TopSpec{Fmt: s.Fmt.Patch(p)}
	if s.MajFmt != nil {
		f := s.MajFmt.Patch(p)
		out.MajFmt = &f
	}
	return out
}

func (s BottomSpec) patched(p calendar.Format) BottomSpec {
	out := BottomSpec{ShortFmt: s.ShortFmt.Patch(p)}
	if s.LongFmt != nil {
		f := s.LongFmt.Patch(p)
		out.LongFmt = &f
	}
	return out
}

// Label is a tick label: a top text and, if HasBottom, a bottom text.
type Label struct {
	Top       string
	Bottom    string
	HasBottom bool
}

// String joins both rows with " / ".
func (l Label) String() string {
	if !l.HasBottom {
		return l.Top
	}
	return l.Top + " / " + l.Bottom
}

// MarshalJSON encodes a single-row label as a string and a two-row label as
// a [top, bottom] array.
func (l Label) MarshalJSON() ([]byte, error) {
	if l.HasBottom {
		return json.Marshal([2]string{l.Top, l.Bottom})
	}
	return json.Marshal(l.Top)
}

// UnmarshalJSON accepts both encodings produced by MarshalJSON.
func (l *Label) UnmarshalJSON(b []byte) error {
	var top string
	if err := json.Unmarshal(b, &top); err == nil {
		*l = Label{Top: top}
		return nil
	}
	var pair []string
	if err := json.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("tick label: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("tick label: want 2 rows, got %d", len(pair))
	}
	*l = Label{Top: pair[0], Bottom: pair[1], HasBottom: true}
	return nil
}

// Tick is one labeled axis position.
type Tick struct {
	Value int64 `json:"value"` // epoch milliseconds
	Major bool  `json:"major"`
	Label Label `json:"label"`
}

// HasBottom reports whether t carries a bottom label.
func HasBottom(t Tick) bool { return t.Label.HasBottom }

// SeqTick is a candidate tick position produced by a Cursor.
type SeqTick struct {
	At         calendar.DateTime
	Major      bool
	WithBottom bool
}

// Cursor enumerates tick candidates in increasing time order. The sequence
// is infinite; callers stop pulling when they pass the end of their range.
// The first candidates may lie before the instant the cursor was created
// from.
type Cursor interface {
	Next() SeqTick
}

// Side selects the edge of the axis a floating tick is placed on.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// RowEstimate is the estimated footprint of one label row.
type RowEstimate struct {
	Ticks      float64 `json:"ticks"`
	LabelWidth float64 `json:"label_width"`
}

// Density returns the share of width the row's labels take.
func (r RowEstimate) Density(width float64) float64 {
	return r.Ticks * r.LabelWidth / width
}

// Estimate is a generator's estimated footprint for a range. Bottom is nil
// when the generator has no bottom row.
type Estimate struct {
	Top    RowEstimate  `json:"top"`
	Bottom *RowEstimate `json:"bottom,omitempty"`
}

// Density returns the denser row's density for an axis of width pixels.
func (e Estimate) Density(width float64) float64 {
	d := e.Top.Density(width)
	if e.Bottom != nil {
		d = max(d, e.Bottom.Density(width))
	}
	return d
}

// Count returns the larger of both rows' estimated tick counts.
func (e Estimate) Count() float64 {
	n := e.Top.Ticks
	if e.Bottom != nil {
		n = max(n, e.Bottom.Ticks)
	}
	return n
}
