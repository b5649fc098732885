package calendar

import (
	"encoding/json"
	"slices"

	apperrors "github.com/matzehuels/timestack/pkg/errors"
)

// Field styles accepted by Format.
const (
	Numeric  = "numeric"
	TwoDigit = "2-digit"
	Short    = "short"
	Long     = "long"
	Narrow   = "narrow"
)

// Format selects which date and time fields a label shows and how. An empty
// field is not displayed. The zero Format renders a numeric date.
type Format struct {
	Year    string `json:"year,omitempty" toml:"year,omitempty" yaml:"year,omitempty"`
	Month   string `json:"month,omitempty" toml:"month,omitempty" yaml:"month,omitempty"`
	Day     string `json:"day,omitempty" toml:"day,omitempty" yaml:"day,omitempty"`
	Weekday string `json:"weekday,omitempty" toml:"weekday,omitempty" yaml:"weekday,omitempty"`
	Hour    string `json:"hour,omitempty" toml:"hour,omitempty" yaml:"hour,omitempty"`
	Minute  string `json:"minute,omitempty" toml:"minute,omitempty" yaml:"minute,omitempty"`
	Second  string `json:"second,omitempty" toml:"second,omitempty" yaml:"second,omitempty"`
	Hour12  *bool  `json:"hour12,omitempty" toml:"hour12,omitempty" yaml:"hour12,omitempty"`
}

var (
	numericStyles = []string{"", Numeric, TwoDigit}
	monthStyles   = []string{"", Numeric, TwoDigit, Short, Long, Narrow}
	weekdayStyles = []string{"", Short, Long, Narrow}
)

// Validate checks that every field carries a known style.
func (f Format) Validate() error {
	check := func(name, v string, allowed []string) error {
		if !slices.Contains(allowed, v) {
			return apperrors.New(apperrors.ErrCodeInvalidFormat, "invalid %s style %q", name, v)
		}
		return nil
	}
	for _, c := range []struct {
		name, v string
		allowed []string
	}{
		{"year", f.Year, numericStyles},
		{"month", f.Month, monthStyles},
		{"day", f.Day, numericStyles},
		{"weekday", f.Weekday, weekdayStyles},
		{"hour", f.Hour, numericStyles},
		{"minute", f.Minute, numericStyles},
		{"second", f.Second, numericStyles},
	} {
		if err := check(c.name, c.v, c.allowed); err != nil {
			return err
		}
	}
	return nil
}

// IsZero reports whether no field is displayed.
func (f Format) IsZero() bool {
	return f.withoutHour12() == Format{}
}

func (f Format) withoutHour12() Format {
	f.Hour12 = nil
	return f
}

// Key serializes the format for use in cache keys. Two formats with the same
// fields produce the same key.
func (f Format) Key() string {
	b, _ := json.Marshal(f)
	return string(b)
}

// HasDate reports whether any date field is displayed.
func (f Format) HasDate() bool {
	return f.Year != "" || f.Month != "" || f.Day != "" || f.Weekday != ""
}

// HasTime reports whether any time-of-day field is displayed.
func (f Format) HasTime() bool {
	return f.Hour != "" || f.Minute != "" || f.Second != ""
}

// Patch overrides the fields of f that are already displayed with the
// corresponding non-empty fields of p. Fields f does not display stay
// hidden. Hour12 only applies when f shows the hour.
func (f Format) Patch(p Format) Format {
	set := func(dst *string, v string) {
		if v != "" && *dst != "" {
			*dst = v
		}
	}
	set(&f.Year, p.Year)
	set(&f.Month, p.Month)
	set(&f.Day, p.Day)
	set(&f.Weekday, p.Weekday)
	set(&f.Hour, p.Hour)
	set(&f.Minute, p.Minute)
	set(&f.Second, p.Second)
	if p.Hour12 != nil && f.Hour != "" {
		v := *p.Hour12
		f.Hour12 = &v
	}
	return f
}

// Bool returns a pointer to v, for Format.Hour12 literals.
func Bool(v bool) *bool { return &v }
