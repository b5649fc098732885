// Package calendar provides the zone and locale aware date-time values the
// tick engine steps through and labels.
//
// A Calendar binds a time zone and a locale. DateTime values created from it
// support the operations tick generation needs: snapping to the start of a
// unit, calendar stepping, same-unit comparison and localized formatting with
// Intl-style field options.
//
// # Usage
//
//	cal, err := calendar.New(calendar.Options{Locale: "de-DE", Zone: "Europe/Berlin"})
//	if err != nil {
//	    return err
//	}
//	dt := cal.FromMillis(ms).StartOf(calendar.Hour)
//	label := dt.Format(calendar.Format{Hour: calendar.Numeric, Minute: calendar.Numeric})
//
// Month and weekday names come from github.com/goodsign/monday; locale tags
// are parsed and matched with golang.org/x/text/language.
package calendar

import (
	"strconv"
	"strings"
	"time"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"

	apperrors "github.com/matzehuels/timestack/pkg/errors"
)

// Options selects the locale and time zone of a Calendar.
type Options struct {
	// Locale is a BCP 47 tag such as "en-US" or "de". Empty means en-US.
	Locale string `json:"locale,omitempty" toml:"locale,omitempty" yaml:"locale,omitempty"`

	// Zone is an IANA zone name, "Local" or "UTC". Empty means UTC.
	Zone string `json:"zone,omitempty" toml:"zone,omitempty" yaml:"zone,omitempty"`
}

// Calendar is a resolved locale and zone. It is immutable and safe for
// concurrent use.
type Calendar struct {
	loc   *time.Location
	tag   language.Tag
	names monday.Locale
	style localeStyle
	key   string
}

// New resolves opts into a Calendar.
func New(opts Options) (*Calendar, error) {
	if err := apperrors.ValidateIdentifier(apperrors.ErrCodeInvalidLocale, opts.Locale); err != nil {
		return nil, err
	}
	if err := apperrors.ValidateIdentifier(apperrors.ErrCodeInvalidZone, opts.Zone); err != nil {
		return nil, err
	}

	zone := opts.Zone
	if zone == "" {
		zone = "UTC"
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidZone, err, "unknown time zone %q", opts.Zone)
	}

	tag := language.AmericanEnglish
	if opts.Locale != "" {
		tag, err = language.Parse(opts.Locale)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidLocale, err, "invalid locale %q", opts.Locale)
		}
	}

	names, style := resolveLocale(tag)
	return &Calendar{
		loc:   loc,
		tag:   tag,
		names: names,
		style: style,
		key:   tag.String() + "/" + loc.String(),
	}, nil
}

// MustNew is like New but panics on error. Intended for tests and package
// level defaults.
func MustNew(opts Options) *Calendar {
	c, err := New(opts)
	if err != nil {
		panic(err)
	}
	return c
}

// UTC returns an en-US calendar in UTC.
func UTC() *Calendar { return MustNew(Options{}) }

// Key identifies the locale and zone; it is part of every estimator cache key.
func (c *Calendar) Key() string { return c.key }

// Location returns the calendar's time zone.
func (c *Calendar) Location() *time.Location { return c.loc }

// Locale returns the resolved locale tag.
func (c *Calendar) Locale() language.Tag { return c.tag }

// FromMillis returns the instant ms (epoch milliseconds) in this calendar.
func (c *Calendar) FromMillis(ms int64) DateTime {
	return DateTime{t: time.UnixMilli(ms).In(c.loc), cal: c}
}

// FromTime converts t into this calendar's zone.
func (c *Calendar) FromTime(t time.Time) DateTime {
	return DateTime{t: t.In(c.loc), cal: c}
}

// localLayouts are the wall-clock layouts ParseInstant reads in the
// calendar's zone.
var localLayouts = []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"}

// ParseInstant reads epoch milliseconds, an RFC 3339 timestamp, or a wall
// clock time such as "2024-03-05" or "2024-03-05T10:30" in the calendar's
// zone.
func (c *Calendar) ParseInstant(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ms, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UnixMilli(), nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, c.loc); err == nil {
			return t.UnixMilli(), nil
		}
	}
	return 0, apperrors.New(apperrors.ErrCodeInvalidInput,
		"invalid instant %q (want epoch milliseconds, RFC 3339 or 2006-01-02[T15:04[:05]])", s)
}

// Fields is a calendar field set. Month and Day are 1-based.
type Fields struct {
	Year, Month, Day, Hour, Minute, Second int
}

// FromFields builds a DateTime from a field set. Out-of-range fields are
// rejected with ErrCodeInvalidCalendar rather than normalized.
func (c *Calendar) FromFields(f Fields) (DateTime, error) {
	if err := f.validate(); err != nil {
		return DateTime{}, err
	}
	t := time.Date(f.Year, time.Month(f.Month), f.Day, f.Hour, f.Minute, f.Second, 0, c.loc)
	return DateTime{t: t, cal: c}, nil
}

func (f Fields) validate() error {
	invalid := func(field string, v int) error {
		return apperrors.New(apperrors.ErrCodeInvalidCalendar, "invalid %s %d in %04d-%02d-%02d %02d:%02d:%02d",
			field, v, f.Year, f.Month, f.Day, f.Hour, f.Minute, f.Second)
	}
	switch {
	case f.Month < 1 || f.Month > 12:
		return invalid("month", f.Month)
	case f.Day < 1 || f.Day > DaysIn(f.Year, time.Month(f.Month)):
		return invalid("day", f.Day)
	case f.Hour < 0 || f.Hour > 23:
		return invalid("hour", f.Hour)
	case f.Minute < 0 || f.Minute > 59:
		return invalid("minute", f.Minute)
	case f.Second < 0 || f.Second > 59:
		return invalid("second", f.Second)
	}
	return nil
}

// DaysIn returns the number of days of month m in year y.
func DaysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
