package ticks

import (
	"encoding/json"
	"strings"

	"github.com/matzehuels/timestack/pkg/calendar"
	apperrors "github.com/matzehuels/timestack/pkg/errors"
)

// Label format presets used by the default generators.
var (
	HMS  = calendar.Format{Hour: calendar.Numeric, Minute: calendar.Numeric, Second: calendar.Numeric}
	HM   = calendar.Format{Hour: calendar.Numeric, Minute: calendar.Numeric}
	MDAY = calendar.Format{Day: calendar.Numeric}
	MON  = calendar.Format{Month: calendar.Short}
	YEAR = calendar.Format{Year: calendar.Numeric}
	YMD  = calendar.Format{Year: calendar.Numeric, Month: calendar.Short, Day: calendar.Numeric}
	YM   = calendar.Format{Year: calendar.Numeric, Month: calendar.Short}
	MD   = calendar.Format{Month: calendar.Short, Day: calendar.Numeric}
)

var presets = map[string]calendar.Format{
	"HMS":  HMS,
	"HM":   HM,
	"MDAY": MDAY,
	"MON":  MON,
	"YEAR": YEAR,
	"YMD":  YMD,
	"YM":   YM,
	"MD":   MD,
}

// ParseFormat reads a preset name such as "HM" (case-insensitive) or a JSON
// format object such as {"month":"long","day":"numeric"}.
func ParseFormat(s string) (calendar.Format, error) {
	s = strings.TrimSpace(s)
	if f, ok := presets[strings.ToUpper(s)]; ok {
		return f, nil
	}
	if !strings.HasPrefix(s, "{") {
		return calendar.Format{}, apperrors.New(apperrors.ErrCodeInvalidFormat, "unknown format preset %q", s)
	}
	var f calendar.Format
	dec := json.NewDecoder(strings.NewReader(s))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return calendar.Format{}, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "invalid format")
	}
	if err := f.Validate(); err != nil {
		return calendar.Format{}, err
	}
	return f, nil
}

func ptr(f calendar.Format) *calendar.Format { return &f }

func must[G Generator](g G, err error) Generator {
	if err != nil {
		panic(err)
	}
	return g
}

// DefaultGenerators returns the built-in generator set, ordered from one
// second to a thousand years. Every call returns fresh generators.
func DefaultGenerators() []Generator {
	const (
		sec   = calendar.Second
		mins  = calendar.Minute
		hour  = calendar.Hour
		day   = calendar.Day
		month = calendar.Month
		yr    = calendar.Year
	)
	dayBottom := BottomUnit(day, BottomSpec{ShortFmt: MD, LongFmt: ptr(YMD)})
	monthBottom := BottomSpec{ShortFmt: MON, LongFmt: ptr(YM)}
	yearBottom := BottomUnit(yr, BottomSpec{ShortFmt: YEAR})

	secs := TopSpec{Fmt: HMS, MajFmt: ptr(HM)}
	clock := TopSpec{Fmt: HM}
	mday := TopSpec{Fmt: MDAY}
	mon := TopSpec{Fmt: MON}

	gens := []Generator{
		// seconds
		must(NewPeriodic(calendar.Every(1, sec), sec, secs, MajorUnit(mins), dayBottom)),
		must(NewPeriodic(calendar.Every(5, sec), mins, secs, MajorUnit(mins), dayBottom)),
		must(NewPeriodic(calendar.Every(10, sec), mins, secs, MajorUnit(mins), dayBottom)),
		must(NewPeriodic(calendar.Every(30, sec), mins, secs, MajorUnit(mins), dayBottom)),
		// minutes
		must(NewPeriodic(calendar.Every(1, mins), mins, clock, MajorUnit(hour), dayBottom)),
		must(NewPeriodic(calendar.Every(5, mins), hour, clock, MajorUnit(hour), dayBottom)),
		must(NewPeriodic(calendar.Every(10, mins), hour, clock, MajorUnit(hour), dayBottom)),
		must(NewPeriodic(calendar.Every(15, mins), hour, clock, MajorUnit(hour), dayBottom)),
		must(NewPeriodic(calendar.Every(30, mins), hour, clock, MajorUnit(hour), dayBottom)),
		// hours
		must(NewPeriodic(calendar.Every(1, hour), hour, clock, MajorUnit(day), dayBottom)),
		must(NewPeriodic(calendar.Every(3, hour), day, clock, MajorUnit(day), dayBottom)),
		must(NewPeriodic(calendar.Every(6, hour), day, clock, MajorUnit(day), dayBottom)),
		must(NewPeriodic(calendar.Every(12, hour), day, clock, MajorUnit(day), dayBottom)),
		// days
		must(NewPeriodic(calendar.Every(1, day), day, mday, MajorUnit(month), BottomUnit(month, monthBottom))),
		must(NewDayOfMonth([]int{1, 5, 10, 15, 20, 25}, 5, mday, BottomDays(monthBottom))),
		must(NewDayOfMonth([]int{1, 10, 20}, 10, mday, BottomDays(monthBottom))),
		must(NewDayOfMonth([]int{1, 15}, 15, mday, BottomDays(monthBottom))),
		// months; a month counts as 30 days for estimation
		must(NewPeriodic(calendar.Every(1, month), month, mon, MajorUnit(yr), yearBottom)),
		must(NewPeriodic(calendar.Every(3, month), yr, mon, MajorUnit(yr), yearBottom)),
		must(NewPeriodic(calendar.Every(6, month), yr, mon, MajorUnit(yr), yearBottom)),
	}
	// years; a year counts as 365 days
	for _, by := range []int{1, 5, 10, 25, 50, 100, 1000} {
		gens = append(gens, must(NewYearMultiple(by, TopSpec{Fmt: YEAR})))
	}
	return gens
}

// WithFormats applies patch to every generator in gens and returns the
// patched copies.
func WithFormats(gens []Generator, patch calendar.Format) []Generator {
	out := make([]Generator, len(gens))
	for i, g := range gens {
		out[i] = g.WithFormats(patch)
	}
	return out
}
