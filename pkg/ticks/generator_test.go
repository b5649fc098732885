package ticks

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/timestack/pkg/calendar"
	apperrors "github.com/matzehuels/timestack/pkg/errors"
	"github.com/matzehuels/timestack/pkg/measure"
)

func at(t *testing.T, y, m, d, h, mi, s int) calendar.DateTime {
	t.Helper()
	dt, err := calendar.UTC().FromFields(calendar.Fields{Year: y, Month: m, Day: d, Hour: h, Minute: mi, Second: s})
	require.NoError(t, err)
	return dt
}

func values(ts []Tick) []string {
	out := make([]string, len(ts))
	for i, tk := range ts {
		out[i] = calendar.UTC().FromMillis(tk.Value).String()
	}
	return out
}

func never(calendar.DateTime) bool  { return false }
func always(calendar.DateTime) bool { return true }

func TestCreateIsHalfOpenAndIncreasing(t *testing.T) {
	from := at(t, 2024, 2, 27, 13, 47, 31)

	for i, g := range DefaultGenerators() {
		t.Run(g.String(), func(t *testing.T) {
			to := calendar.UTC().FromMillis(from.Millis() + int64(40*g.Top().Size))

			got := g.Create(from, to, never)
			require.NotEmpty(t, got, "generator %d produced no ticks", i)
			for j, tk := range got {
				assert.GreaterOrEqual(t, tk.Value, from.Millis())
				assert.Less(t, tk.Value, to.Millis())
				if j > 0 {
					assert.Greater(t, tk.Value, got[j-1].Value, "tick %d not increasing", j)
				}
			}
		})
	}
}

func TestCreateExcludesUpperBound(t *testing.T) {
	g := must(NewPeriodic(calendar.Every(15, calendar.Minute), calendar.Hour, TopSpec{Fmt: HM}))
	from := at(t, 2024, 3, 5, 10, 0, 0)
	to := at(t, 2024, 3, 5, 11, 0, 0)

	got := g.Create(from, to, never)
	assert.Equal(t, []string{
		"2024-03-05T10:00:00.000Z",
		"2024-03-05T10:15:00.000Z",
		"2024-03-05T10:30:00.000Z",
		"2024-03-05T10:45:00.000Z",
	}, values(got))
}

func TestPeriodicMajorOnBoundaries(t *testing.T) {
	from := at(t, 2023, 12, 30, 22, 13, 7)

	for _, g := range DefaultGenerators() {
		p, ok := g.(*Periodic)
		if !ok || !p.hasMajor {
			continue
		}
		t.Run(p.String(), func(t *testing.T) {
			to := calendar.UTC().FromMillis(from.Millis() + int64(200*p.Top().Size))
			for _, tk := range p.Create(from, to, never) {
				dt := calendar.UTC().FromMillis(tk.Value)
				assert.Equal(t, dt.OnBoundary(p.major), tk.Major, "tick %s", dt)
			}
		})
	}
}

func TestPeriodicSeqAligns(t *testing.T) {
	g := must(NewPeriodic(calendar.Every(5, calendar.Minute), calendar.Hour, TopSpec{Fmt: HM}, MajorUnit(calendar.Hour)))
	c := g.Seq(at(t, 2024, 3, 5, 10, 17, 42))

	first := c.Next()
	assert.Equal(t, "2024-03-05T10:00:00.000Z", first.At.String())
	assert.True(t, first.Major)
	assert.False(t, first.WithBottom, "no bottom unit configured")

	second := c.Next()
	assert.Equal(t, "2024-03-05T10:05:00.000Z", second.At.String())
	assert.False(t, second.Major)
}

func TestPeriodicMonthStepsFollowCalendar(t *testing.T) {
	g := DefaultGenerators()[18] // 3 months aligned to year
	p := g.(*Periodic)
	require.Equal(t, calendar.Every(3, calendar.Month), p.Step())

	got := g.Create(at(t, 2024, 2, 10, 0, 0, 0), at(t, 2025, 2, 1, 0, 0, 0), never)
	assert.Equal(t, []string{
		"2024-04-01T00:00:00.000Z",
		"2024-07-01T00:00:00.000Z",
		"2024-10-01T00:00:00.000Z",
		"2025-01-01T00:00:00.000Z",
	}, values(got))
	assert.True(t, got[3].Major)
	assert.Equal(t, Label{Top: "Jan", Bottom: "2025", HasBottom: true}, got[3].Label)
	assert.False(t, got[0].Label.HasBottom)
}

func TestDayOfMonthSequence(t *testing.T) {
	g := must(NewDayOfMonth([]int{1, 10, 20}, 10, TopSpec{Fmt: MDAY}))

	c := g.Seq(at(t, 2024, 1, 15, 12, 0, 0))
	var days []string
	for range 7 {
		days = append(days, c.Next().At.Time().Format("01-02"))
	}
	assert.Equal(t, []string{"01-01", "01-10", "01-20", "02-01", "02-10", "02-20", "03-01"}, days)

	got := g.Create(at(t, 2024, 1, 15, 12, 0, 0), at(t, 2024, 3, 15, 0, 0, 0), never)
	assert.Equal(t, []string{
		"2024-01-20T00:00:00.000Z",
		"2024-02-01T00:00:00.000Z",
		"2024-02-10T00:00:00.000Z",
		"2024-02-20T00:00:00.000Z",
		"2024-03-01T00:00:00.000Z",
		"2024-03-10T00:00:00.000Z",
	}, values(got))
	assert.True(t, got[1].Major, "the 1st is major by default")
	assert.False(t, got[2].Major)
}

func TestDayOfMonthSkipsMissingDays(t *testing.T) {
	g := must(NewDayOfMonth([]int{1, 30}, 15, TopSpec{Fmt: MDAY}))
	got := g.Create(at(t, 2023, 1, 2, 0, 0, 0), at(t, 2023, 3, 31, 0, 0, 0), never)
	assert.Equal(t, []string{
		"2023-01-30T00:00:00.000Z",
		"2023-02-01T00:00:00.000Z",
		"2023-03-01T00:00:00.000Z",
		"2023-03-30T00:00:00.000Z",
	}, values(got))
}

func TestDayOfMonthBottomDays(t *testing.T) {
	g := must(NewDayOfMonth([]int{1, 15}, 15, TopSpec{Fmt: MDAY},
		MajorDays(15),
		BottomDays(BottomSpec{ShortFmt: MON, LongFmt: ptr(YM)}),
	))
	got := g.Create(at(t, 2024, 5, 1, 0, 0, 0), at(t, 2024, 6, 1, 0, 0, 0), always)
	require.Len(t, got, 2)

	assert.False(t, got[0].Major)
	assert.Equal(t, Label{Top: "1", Bottom: "May 2024", HasBottom: true}, got[0].Label)
	assert.True(t, got[1].Major)
	assert.Equal(t, Label{Top: "15"}, got[1].Label)

	b := g.Bottom()
	require.NotNil(t, b)
	assert.Equal(t, float64(30*24*time.Hour/time.Millisecond), b.Size)
}

func TestYearMultipleAnchorsAtMultiples(t *testing.T) {
	g := must(NewYearMultiple(10, TopSpec{Fmt: YEAR}))

	c := g.Seq(at(t, 2024, 6, 1, 0, 0, 0))
	var years []int
	for range 3 {
		st := c.Next()
		assert.False(t, st.Major)
		assert.False(t, st.WithBottom)
		years = append(years, st.At.Year())
	}
	assert.Equal(t, []int{2020, 2030, 2040}, years)

	got := g.Create(at(t, 2024, 6, 1, 0, 0, 0), at(t, 2045, 1, 1, 0, 0, 0), never)
	assert.Equal(t, []string{"2030-01-01T00:00:00.000Z", "2040-01-01T00:00:00.000Z"}, values(got))
	assert.Equal(t, "2030", got[0].Label.Top)
	assert.Equal(t, 10*float64(365*24*time.Hour/time.Millisecond), g.Top().Size)
	assert.Nil(t, g.Bottom())
}

func TestYearMultipleIncludesExactMultiple(t *testing.T) {
	g := must(NewYearMultiple(5, TopSpec{Fmt: YEAR}))
	got := g.Create(at(t, 2025, 1, 1, 0, 0, 0), at(t, 2036, 1, 1, 0, 0, 0), never)
	assert.Equal(t, []string{
		"2025-01-01T00:00:00.000Z",
		"2030-01-01T00:00:00.000Z",
		"2035-01-01T00:00:00.000Z",
	}, values(got))
}

func TestFormat(t *testing.T) {
	gens := DefaultGenerators()
	seconds, fiveMin := gens[0], gens[5]

	tests := []struct {
		name       string
		g          Generator
		at         calendar.DateTime
		major      bool
		withBottom bool
		preferLong bool
		want       Label
	}{
		{"plain", seconds, at(t, 2024, 3, 5, 10, 5, 1), false, false, false, Label{Top: "10:05:01 AM"}},
		{"major uses major format", seconds, at(t, 2024, 3, 5, 10, 5, 0), true, false, false, Label{Top: "10:05 AM"}},
		{"short bottom", fiveMin, at(t, 2024, 3, 5, 0, 0, 0), true, true, false, Label{Top: "12:00 AM", Bottom: "Mar 5", HasBottom: true}},
		{"long bottom", fiveMin, at(t, 2024, 3, 5, 0, 0, 0), true, true, true, Label{Top: "12:00 AM", Bottom: "Mar 5, 2024", HasBottom: true}},
		{"no bottom row", gens[20], at(t, 2024, 1, 1, 0, 0, 0), false, true, true, Label{Top: "2024"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.g.Format(tt.at, tt.major, tt.withBottom, tt.preferLong))
		})
	}
}

func TestCreateFloating(t *testing.T) {
	gens := DefaultGenerators()
	dt := at(t, 2024, 3, 5, 10, 17, 0)

	left := gens[5].CreateFloating(dt, Left, never)
	assert.Equal(t, dt.Millis(), left.Value)
	assert.False(t, left.Major)
	assert.Equal(t, Label{Bottom: "…Mar 5", HasBottom: true}, left.Label)
	assert.True(t, HasBottom(left))

	right := gens[5].CreateFloating(dt, Right, always)
	assert.Equal(t, Label{Bottom: "Mar 5, 2024…", HasBottom: true}, right.Label)

	bare := gens[20].CreateFloating(dt, Left, always)
	assert.Equal(t, Label{Bottom: "…", HasBottom: true}, bare.Label)
}

func TestWithFormatsIsImmutable(t *testing.T) {
	base := DefaultGenerators()[5]
	patched := base.WithFormats(calendar.Format{Hour: calendar.TwoDigit, Hour12: calendar.Bool(false)})
	dt := at(t, 2024, 3, 5, 9, 5, 0)

	assert.Equal(t, "09:05", patched.Format(dt, false, false, false).Top)
	assert.Equal(t, "9:05 AM", base.Format(dt, false, false, false).Top, "original must be untouched")

	// The bottom formats show no hour, so neither field applies there.
	b := patched.Bottom()
	require.NotNil(t, b)
	assert.Equal(t, MD, b.ShortFmt)
	assert.Equal(t, YMD, *b.LongFmt)
	assert.Equal(t, base.String(), patched.String())
}

func TestWithFormatsPatchesEveryRow(t *testing.T) {
	gens := WithFormats(DefaultGenerators(), calendar.Format{Month: calendar.Long})
	require.Len(t, gens, 27)

	dt := at(t, 2024, 3, 1, 0, 0, 0)
	months := gens[17]
	assert.Equal(t, Label{Top: "March"}, months.Format(dt, false, false, false))

	days := gens[13]
	assert.Equal(t, Label{Top: "1", Bottom: "March 2024", HasBottom: true}, days.Format(dt, true, true, true))
}

func TestEstimate(t *testing.T) {
	g := DefaultGenerators()[5]
	est := measure.NewEstimator(0)
	m := measure.CellMeasurer{CellWidth: 1}
	rangeMillis := float64(90 * time.Minute / time.Millisecond)

	e, err := g.Estimate(rangeMillis, est, m, calendar.UTC(), true)
	require.NoError(t, err)
	assert.InDelta(t, 18, e.Top.Ticks, 1e-9)
	assert.Equal(t, float64(len("11:59 PM")), e.Top.LabelWidth)
	require.NotNil(t, e.Bottom)
	assert.InDelta(t, 0.0625, e.Bottom.Ticks, 1e-9)
	assert.Equal(t, float64(len("Jan 22, 2024")), e.Bottom.LabelWidth)

	short, err := g.Estimate(rangeMillis, est, m, calendar.UTC(), false)
	require.NoError(t, err)
	assert.Equal(t, float64(len("Jan 22")), short.Bottom.LabelWidth)

	assert.InDelta(t, 18*8/600.0, e.Density(600), 1e-9)
	assert.InDelta(t, 18, e.Count(), 1e-9)
}

func TestConstructorsRejectInvalid(t *testing.T) {
	top := TopSpec{Fmt: HM}
	tests := []struct {
		name string
		err  error
	}{
		{"zero step", second(NewPeriodic(calendar.Every(0, calendar.Minute), calendar.Hour, top))},
		{"bad align", second(NewPeriodic(calendar.Every(1, calendar.Minute), calendar.Unit(42), top))},
		{"bad format", second(NewPeriodic(calendar.Every(1, calendar.Minute), calendar.Hour, TopSpec{Fmt: calendar.Format{Hour: "wide"}}))},
		{"no days", second(NewDayOfMonth(nil, 5, top))},
		{"unsorted days", second(NewDayOfMonth([]int{10, 1}, 5, top))},
		{"day 32", second(NewDayOfMonth([]int{1, 32}, 5, top))},
		{"zero day step", second(NewDayOfMonth([]int{1}, 0, top))},
		{"zero years", second(NewYearMultiple(0, top))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.err)
			code := apperrors.GetCode(tt.err)
			assert.Contains(t, []apperrors.Code{apperrors.ErrCodeInvalidGenerator, apperrors.ErrCodeInvalidFormat}, code)
		})
	}
}

func second[T any](_ T, err error) error { return err }

func TestLabelJSON(t *testing.T) {
	b, err := json.Marshal([]Tick{
		{Value: 1, Major: true, Label: Label{Top: "10:00"}},
		{Value: 2, Label: Label{Top: "", Bottom: "…Mar 5", HasBottom: true}},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"value": 1, "major": true, "label": "10:00"},
		{"value": 2, "major": false, "label": ["", "…Mar 5"]}
	]`, string(b))

	var back []Tick
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, "…Mar 5", back[1].Label.Bottom)
	assert.True(t, back[1].Label.HasBottom)

	var bad Label
	assert.Error(t, json.Unmarshal([]byte(`["a","b","c"]`), &bad))
}
