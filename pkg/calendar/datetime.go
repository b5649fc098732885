package calendar

import (
	"time"
)

// DateTime is an instant bound to a Calendar. The zero value is invalid; use
// the Calendar constructors.
type DateTime struct {
	t   time.Time
	cal *Calendar
}

// IsValid reports whether dt was produced by a Calendar.
func (dt DateTime) IsValid() bool { return dt.cal != nil }

// Calendar returns the calendar dt belongs to.
func (dt DateTime) Calendar() *Calendar { return dt.cal }

// Time returns dt as a time.Time in the calendar's zone.
func (dt DateTime) Time() time.Time { return dt.t }

// Millis returns dt in epoch milliseconds.
func (dt DateTime) Millis() int64 { return dt.t.UnixMilli() }

func (dt DateTime) Year() int         { return dt.t.Year() }
func (dt DateTime) Month() time.Month { return dt.t.Month() }
func (dt DateTime) Day() int          { return dt.t.Day() }

// Fields returns the calendar fields of dt.
func (dt DateTime) Fields() Fields {
	y, m, d := dt.t.Date()
	h, mi, s := dt.t.Clock()
	return Fields{Year: y, Month: int(m), Day: d, Hour: h, Minute: mi, Second: s}
}

// StartOf snaps dt down to the start of the unit containing it. Weeks start
// on Monday.
func (dt DateTime) StartOf(u Unit) DateTime {
	y, m, d := dt.t.Date()
	h, mi, s := dt.t.Clock()
	loc := dt.t.Location()

	var t time.Time
	switch u {
	case Second:
		t = time.Date(y, m, d, h, mi, s, 0, loc)
	case Minute:
		t = time.Date(y, m, d, h, mi, 0, 0, loc)
	case Hour:
		t = time.Date(y, m, d, h, 0, 0, 0, loc)
	case Day:
		t = time.Date(y, m, d, 0, 0, 0, 0, loc)
	case Week:
		back := (int(dt.t.Weekday()) + 6) % 7
		t = time.Date(y, m, d-back, 0, 0, 0, 0, loc)
	case Month:
		t = time.Date(y, m, 1, 0, 0, 0, 0, loc)
	case Year:
		t = time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	default:
		t = dt.t
	}
	return DateTime{t: t, cal: dt.cal}
}

// EndOf returns the last millisecond of the unit containing dt.
func (dt DateTime) EndOf(u Unit) DateTime {
	next := dt.StartOf(u).Plus(Every(1, u))
	return DateTime{t: next.t.Add(-time.Millisecond), cal: dt.cal}
}

// Plus advances dt by a calendar step. Seconds, minutes and hours are exact
// durations; days and weeks keep the wall clock; months and years keep the
// wall clock and clamp the day to the target month's length.
func (dt DateTime) Plus(s Step) DateTime {
	switch s.Unit {
	case Second, Minute, Hour:
		return DateTime{t: dt.t.Add(s.Approx()), cal: dt.cal}
	case Day:
		return DateTime{t: dt.t.AddDate(0, 0, s.N), cal: dt.cal}
	case Week:
		return DateTime{t: dt.t.AddDate(0, 0, 7*s.N), cal: dt.cal}
	case Month:
		return dt.addMonths(s.N)
	case Year:
		return dt.addMonths(12 * s.N)
	}
	return dt
}

func (dt DateTime) addMonths(n int) DateTime {
	y, m, d := dt.t.Date()
	h, mi, s := dt.t.Clock()
	total := int(m) - 1 + n
	ty := y + floorDiv(total, 12)
	tm := time.Month(total - 12*floorDiv(total, 12) + 1)
	if last := DaysIn(ty, tm); d > last {
		d = last
	}
	t := time.Date(ty, tm, d, h, mi, s, dt.t.Nanosecond(), dt.t.Location())
	return DateTime{t: t, cal: dt.cal}
}

// WithYear returns dt moved to year y, keeping the other fields. Feb 29 is
// clamped to Feb 28 in non-leap years.
func (dt DateTime) WithYear(y int) DateTime {
	return dt.addMonths(12 * (y - dt.t.Year()))
}

// WithMonth returns dt moved to month m of the same year, clamping the day.
func (dt DateTime) WithMonth(m time.Month) DateTime {
	return dt.addMonths(int(m) - int(dt.t.Month()))
}

// WithDay returns dt moved to day d of the same month. ok is false when the
// month has no such day.
func (dt DateTime) WithDay(d int) (DateTime, bool) {
	y, m, _ := dt.t.Date()
	if d < 1 || d > DaysIn(y, m) {
		return dt, false
	}
	h, mi, s := dt.t.Clock()
	t := time.Date(y, m, d, h, mi, s, dt.t.Nanosecond(), dt.t.Location())
	return DateTime{t: t, cal: dt.cal}, true
}

// Equal reports whether dt and o are the same instant.
func (dt DateTime) Equal(o DateTime) bool { return dt.t.Equal(o.t) }

// Before reports whether dt is before o.
func (dt DateTime) Before(o DateTime) bool { return dt.t.Before(o.t) }

// After reports whether dt is after o.
func (dt DateTime) After(o DateTime) bool { return dt.t.After(o.t) }

// Compare returns -1, 0 or +1 ordering dt against o.
func (dt DateTime) Compare(o DateTime) int { return dt.t.Compare(o.t) }

// Same reports whether dt and o fall in the same unit, evaluated in dt's zone.
func (dt DateTime) Same(o DateTime, u Unit) bool {
	o = DateTime{t: o.t.In(dt.t.Location()), cal: dt.cal}
	return dt.StartOf(u).Equal(o.StartOf(u))
}

// OnBoundary reports whether dt sits exactly on the start of unit u.
func (dt DateTime) OnBoundary(u Unit) bool {
	return dt.StartOf(u).Equal(dt)
}

// String returns an RFC 3339 representation with milliseconds.
func (dt DateTime) String() string {
	return dt.t.Format("2006-01-02T15:04:05.000Z07:00")
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
