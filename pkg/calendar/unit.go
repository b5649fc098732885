package calendar

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/matzehuels/timestack/pkg/errors"
)

// Unit is a calendar unit used for alignment and stepping.
type Unit int

const (
	Second Unit = iota
	Minute
	Hour
	Day
	Week
	Month
	Year
)

var unitNames = [...]string{"second", "minute", "hour", "day", "week", "month", "year"}

func (u Unit) String() string {
	if u < Second || u > Year {
		return fmt.Sprintf("Unit(%d)", int(u))
	}
	return unitNames[u]
}

// ParseUnit parses a unit name. Plural forms ("minutes") are accepted.
func ParseUnit(s string) (Unit, error) {
	name := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s")
	for i, n := range unitNames {
		if n == name {
			return Unit(i), nil
		}
	}
	return 0, apperrors.New(apperrors.ErrCodeInvalidGenerator, "unknown calendar unit %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (u Unit) MarshalText() ([]byte, error) { return []byte(u.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *Unit) UnmarshalText(b []byte) error {
	v, err := ParseUnit(string(b))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// Approx returns the nominal length of one unit. Months count as 30 days and
// years as 365 days; the value is meant for density estimation only.
func (u Unit) Approx() time.Duration {
	switch u {
	case Second:
		return time.Second
	case Minute:
		return time.Minute
	case Hour:
		return time.Hour
	case Day:
		return 24 * time.Hour
	case Week:
		return 7 * 24 * time.Hour
	case Month:
		return 30 * 24 * time.Hour
	case Year:
		return 365 * 24 * time.Hour
	}
	return 0
}

// Step is a calendar step such as "5 minutes" or "3 months".
type Step struct {
	N    int  `json:"n" toml:"n" yaml:"n"`
	Unit Unit `json:"unit" toml:"unit" yaml:"unit"`
}

// Every returns a step of n units.
func Every(n int, u Unit) Step { return Step{N: n, Unit: u} }

// Approx returns the nominal duration of the step.
func (s Step) Approx() time.Duration { return time.Duration(s.N) * s.Unit.Approx() }

func (s Step) String() string {
	if s.N == 1 {
		return s.Unit.String()
	}
	return fmt.Sprintf("%d %ss", s.N, s.Unit)
}
