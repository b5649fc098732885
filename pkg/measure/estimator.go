// Package measure estimates the widest rendered width of date labels.
//
// Localized month and weekday names vary a lot in width ("May" against
// "September", full-width scripts), so the widest label for a format cannot
// be guessed from the format alone. Rendering every real date on every frame
// is too slow. The Estimator exploits the fact that only the month-name and
// weekday-name styles drive width variance: it finds, once per locale and
// font, the calendar dates with the widest short/long month and the widest
// short/long/narrow weekday, and renders each queried format against the
// matching sample date.
//
// # Caching
//
// Two bounded LRU caches back the Estimator:
//
//   - sample tables keyed by (locale+zone, font)
//   - label widths keyed by (locale+zone, font, format)
//
// The font is identified by Measurer.Font. Callers that change the active
// font in place (same Font string, different metrics) must call Invalidate
// or InvalidateFont.
//
// # Usage
//
//	m, _ := measure.NewGoFont(12)
//	w, err := measure.Default().MaxWidth(calendar.Format{Month: calendar.Long}, m, cal)
package measure

import (
	"strings"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/matzehuels/timestack/pkg/calendar"
)

// DefaultCacheSize bounds each of the Estimator's caches.
const DefaultCacheSize = 4096

// Measurer renders text with an active font and reports its pixel width.
type Measurer interface {
	// Font identifies the active font, e.g. "12px Go". It is part of every
	// cache key.
	Font() string

	// Width returns the rendered width of text.
	Width(text string) float64
}

type labelKey struct {
	scope  string
	format string
}

// styleKey selects a sample date by month-name and weekday-name style.
type styleKey struct {
	month   string
	weekday string
}

type sampleTable map[styleKey]calendar.Fields

// Stats reports cache activity.
type Stats struct {
	LabelHits    int64
	LabelMisses  int64
	TableBuilds  int64
	Measurements int64
}

// Estimator finds the widest possible label per format. It is safe for
// concurrent use.
type Estimator struct {
	labels  *lru.Cache[labelKey, float64]
	samples *lru.Cache[string, sampleTable]

	hits         atomic.Int64
	misses       atomic.Int64
	tableBuilds  atomic.Int64
	measurements atomic.Int64
}

// NewEstimator creates an Estimator whose caches hold up to size entries
// each. size <= 0 selects DefaultCacheSize.
func NewEstimator(size int) *Estimator {
	if size <= 0 {
		size = DefaultCacheSize
	}
	labels, err := lru.New[labelKey, float64](size)
	if err != nil {
		panic(err)
	}
	samples, err := lru.New[string, sampleTable](size)
	if err != nil {
		panic(err)
	}
	return &Estimator{labels: labels, samples: samples}
}

var (
	defaultEstimator     *Estimator
	defaultEstimatorOnce sync.Once
)

// Default returns the process-wide Estimator.
func Default() *Estimator {
	defaultEstimatorOnce.Do(func() {
		defaultEstimator = NewEstimator(DefaultCacheSize)
	})
	return defaultEstimator
}

func scopeKey(cal *calendar.Calendar, m Measurer) string {
	return cal.Key() + "/" + m.Font()
}

// MaxWidth returns the widest width any label rendered with f can take in
// cal's locale and zone with m's font.
//
// An invalid sample date is a broken calendar setup, reported as an
// ErrCodeInvalidCalendar error; no fallback width is returned.
func (e *Estimator) MaxWidth(f calendar.Format, m Measurer, cal *calendar.Calendar) (float64, error) {
	scope := scopeKey(cal, m)
	key := labelKey{scope: scope, format: f.Key()}
	if w, ok := e.labels.Get(key); ok {
		e.hits.Add(1)
		return w, nil
	}
	e.misses.Add(1)

	fields, err := e.widestDate(scope, f, m, cal)
	if err != nil {
		return 0, err
	}
	dt, err := cal.FromFields(fields)
	if err != nil {
		return 0, err
	}

	w := e.measure(m, dt.Format(f))
	e.labels.Add(key, w)
	return w, nil
}

// widestDate returns the sample date for f's month and weekday styles,
// building the locale's sample table on first use.
func (e *Estimator) widestDate(scope string, f calendar.Format, m Measurer, cal *calendar.Calendar) (calendar.Fields, error) {
	table, ok := e.samples.Get(scope)
	if !ok {
		var err error
		if table, err = e.buildTable(m, cal); err != nil {
			return calendar.Fields{}, err
		}
		e.samples.Add(scope, table)
	}

	month := f.Month
	if month == calendar.Narrow {
		month = calendar.Short
	}
	return table[styleKey{month: month, weekday: f.Weekday}], nil
}

// referenceDate has two-digit time fields without narrow 1 glyphs; it also
// sits in the 22..28 window used for weekday sampling.
var referenceDate = calendar.Fields{Year: 2024, Month: 12, Day: 22, Hour: 23, Minute: 59, Second: 59}

func (e *Estimator) buildTable(m Measurer, cal *calendar.Calendar) (sampleTable, error) {
	e.tableBuilds.Add(1)

	num := referenceDate
	if _, err := cal.FromFields(num); err != nil {
		return nil, err
	}

	sm, err := e.widest(m, cal, monthCandidates(num), calendar.Format{Month: calendar.Short})
	if err != nil {
		return nil, err
	}
	lm, err := e.widest(m, cal, monthCandidates(num), calendar.Format{Month: calendar.Long})
	if err != nil {
		return nil, err
	}

	weekday := func(base calendar.Fields, style string) (calendar.Fields, error) {
		return e.widest(m, cal, weekdayCandidates(base), calendar.Format{Weekday: style})
	}
	var smSW, smLW, smNW, lmSW, lmLW, lmNW calendar.Fields
	for _, s := range []struct {
		dst   *calendar.Fields
		base  calendar.Fields
		style string
	}{
		{&smSW, sm, calendar.Short},
		{&smLW, sm, calendar.Long},
		{&smNW, sm, calendar.Narrow},
		{&lmSW, lm, calendar.Short},
		{&lmLW, lm, calendar.Long},
		{&lmNW, lm, calendar.Narrow},
	} {
		if *s.dst, err = weekday(s.base, s.style); err != nil {
			return nil, err
		}
	}

	table := sampleTable{}
	for _, month := range []string{"", calendar.Numeric, calendar.TwoDigit} {
		table[styleKey{month, ""}] = num
		table[styleKey{month, calendar.Short}] = smSW
		table[styleKey{month, calendar.Long}] = smLW
		table[styleKey{month, calendar.Narrow}] = smNW
	}
	table[styleKey{calendar.Short, ""}] = sm
	table[styleKey{calendar.Short, calendar.Short}] = smSW
	table[styleKey{calendar.Short, calendar.Long}] = smLW
	table[styleKey{calendar.Short, calendar.Narrow}] = smNW
	table[styleKey{calendar.Long, ""}] = lm
	table[styleKey{calendar.Long, calendar.Short}] = lmSW
	table[styleKey{calendar.Long, calendar.Long}] = lmLW
	table[styleKey{calendar.Long, calendar.Narrow}] = lmNW
	return table, nil
}

// widest renders every candidate with f and returns the widest one. The
// first candidate wins ties.
func (e *Estimator) widest(m Measurer, cal *calendar.Calendar, candidates []calendar.Fields, f calendar.Format) (calendar.Fields, error) {
	var best calendar.Fields
	bestWidth := -1.0
	for _, c := range candidates {
		dt, err := cal.FromFields(c)
		if err != nil {
			return calendar.Fields{}, err
		}
		if w := e.measure(m, dt.Format(f)); w > bestWidth {
			best, bestWidth = c, w
		}
	}
	return best, nil
}

func (e *Estimator) measure(m Measurer, text string) float64 {
	e.measurements.Add(1)
	return m.Width(text)
}

func monthCandidates(base calendar.Fields) []calendar.Fields {
	out := make([]calendar.Fields, 0, 12)
	for i := 1; i <= 12; i++ {
		f := base
		f.Month = i
		out = append(out, f)
	}
	return out
}

// weekdayCandidates covers every weekday once: days 22..28 exist in every
// month.
func weekdayCandidates(base calendar.Fields) []calendar.Fields {
	out := make([]calendar.Fields, 0, 7)
	for d := 22; d < 29; d++ {
		f := base
		f.Day = d
		out = append(out, f)
	}
	return out
}

// Stats returns a snapshot of cache activity.
func (e *Estimator) Stats() Stats {
	return Stats{
		LabelHits:    e.hits.Load(),
		LabelMisses:  e.misses.Load(),
		TableBuilds:  e.tableBuilds.Load(),
		Measurements: e.measurements.Load(),
	}
}

// Invalidate drops every cached width and sample table.
func (e *Estimator) Invalidate() {
	e.labels.Purge()
	e.samples.Purge()
}

// InvalidateFont drops cached entries measured with font.
func (e *Estimator) InvalidateFont(font string) {
	e.invalidate(func(scope string) bool { return strings.HasSuffix(scope, "/"+font) })
}

// InvalidateCalendar drops cached entries for the calendar key (locale and
// zone), as returned by calendar.Calendar.Key.
func (e *Estimator) InvalidateCalendar(key string) {
	e.invalidate(func(scope string) bool { return strings.HasPrefix(scope, key+"/") })
}

func (e *Estimator) invalidate(match func(scope string) bool) {
	for _, k := range e.labels.Keys() {
		if match(k.scope) {
			e.labels.Remove(k)
		}
	}
	for _, k := range e.samples.Keys() {
		if match(k) {
			e.samples.Remove(k)
		}
	}
}
