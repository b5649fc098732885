package config

import (
	"github.com/matzehuels/timestack/pkg/calendar"
	apperrors "github.com/matzehuels/timestack/pkg/errors"
	"github.com/matzehuels/timestack/pkg/ticks"
)

// Generator kinds.
const (
	KindPeriodic = "periodic"
	KindDays     = "days"
	KindYears    = "years"

	// KindDefaults expands to ticks.DefaultGenerators at its position.
	KindDefaults = "defaults"
)

// GeneratorDef describes one generator in a configuration file.
//
// Every means the step count for periodic generators, the nominal step in
// days for day-of-month generators and the year multiple for year
// generators.
type GeneratorDef struct {
	Kind  string `toml:"kind" yaml:"kind"`
	Every int    `toml:"every,omitempty" yaml:"every,omitempty"`

	// Periodic
	Unit  string `toml:"unit,omitempty" yaml:"unit,omitempty"`
	Align string `toml:"align,omitempty" yaml:"align,omitempty"` // defaults to Unit
	Major string `toml:"major,omitempty" yaml:"major,omitempty"`

	// Day of month
	Days      []int `toml:"days,omitempty" yaml:"days,omitempty"`
	MajorDays []int `toml:"major_days,omitempty" yaml:"major_days,omitempty"`

	Top    ticks.TopSpec `toml:"top,omitempty" yaml:"top,omitempty"`
	Bottom *BottomDef    `toml:"bottom,omitempty" yaml:"bottom,omitempty"`
}

// BottomDef describes a generator's bottom row. Unit applies to periodic
// generators, Days to day-of-month generators.
type BottomDef struct {
	Unit     string           `toml:"unit,omitempty" yaml:"unit,omitempty"`
	Days     []int            `toml:"days,omitempty" yaml:"days,omitempty"`
	ShortFmt calendar.Format  `toml:"short_fmt" yaml:"short_fmt"`
	LongFmt  *calendar.Format `toml:"long_fmt,omitempty" yaml:"long_fmt,omitempty"`
}

func (b BottomDef) spec() ticks.BottomSpec {
	return ticks.BottomSpec{ShortFmt: b.ShortFmt, LongFmt: b.LongFmt}
}

// BuildGenerators builds defs in order. Errors name the offending entry.
func BuildGenerators(defs []GeneratorDef) ([]ticks.Generator, error) {
	var out []ticks.Generator
	for i, d := range defs {
		if d.Kind == KindDefaults {
			out = append(out, ticks.DefaultGenerators()...)
			continue
		}
		g, err := d.Build()
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "generators[%d]", i)
		}
		out = append(out, g)
	}
	return out, nil
}

// Build constructs the generator d describes.
func (d GeneratorDef) Build() (ticks.Generator, error) {
	switch d.Kind {
	case KindPeriodic:
		return d.periodic()
	case KindDays:
		return d.days()
	case KindYears:
		if d.Bottom != nil {
			return nil, apperrors.New(apperrors.ErrCodeInvalidGenerator, "year generators have no bottom row")
		}
		return ticks.NewYearMultiple(d.Every, d.Top)
	case KindDefaults:
		return nil, apperrors.New(apperrors.ErrCodeInvalidGenerator, "%q expands to a generator set, not one generator", KindDefaults)
	}
	return nil, apperrors.New(apperrors.ErrCodeInvalidGenerator, "unknown generator kind %q", d.Kind)
}

func (d GeneratorDef) periodic() (ticks.Generator, error) {
	unit, err := calendar.ParseUnit(d.Unit)
	if err != nil {
		return nil, err
	}
	align := unit
	if d.Align != "" {
		if align, err = calendar.ParseUnit(d.Align); err != nil {
			return nil, err
		}
	}

	var opts []ticks.PeriodicOption
	if d.Major != "" {
		major, err := calendar.ParseUnit(d.Major)
		if err != nil {
			return nil, err
		}
		opts = append(opts, ticks.MajorUnit(major))
	}
	if d.Bottom != nil {
		bu, err := calendar.ParseUnit(d.Bottom.Unit)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidGenerator, err, "bottom")
		}
		opts = append(opts, ticks.BottomUnit(bu, d.Bottom.spec()))
	}
	return ticks.NewPeriodic(calendar.Every(d.Every, unit), align, d.Top, opts...)
}

func (d GeneratorDef) days() (ticks.Generator, error) {
	var opts []ticks.DayOption
	if len(d.MajorDays) > 0 {
		opts = append(opts, ticks.MajorDays(d.MajorDays...))
	}
	if d.Bottom != nil {
		opts = append(opts, ticks.BottomDays(d.Bottom.spec(), d.Bottom.Days...))
	}
	return ticks.NewDayOfMonth(d.Days, d.Every, d.Top, opts...)
}
