// Package axis builds the tick list of a time axis.
//
// An [Axis] ties a generator set, a calendar (locale and zone) and density
// settings together. For each visible range and pixel width it picks a
// generator with [ticks.Choose], creates the ticks in [min, max) and adds
// floating edge ticks where the nearest bottom label is too far from the
// edge to give context:
//
//	a, err := axis.New(axis.Options{Locale: "de-DE", Zone: "Europe/Berlin"})
//	res, err := a.Build(ctx, min, max, 600, m)
//	for _, t := range res.Ticks {
//	    fmt.Println(t.Value, t.Label)
//	}
//
// When no generator satisfies the density constraints, Build returns an
// empty tick list with a nil Result.Generator and logs a warning; the axis
// is drawn unlabeled rather than failing.
package axis

import (
	"context"
	"math"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/timestack/pkg/calendar"
	apperrors "github.com/matzehuels/timestack/pkg/errors"
	"github.com/matzehuels/timestack/pkg/measure"
	"github.com/matzehuels/timestack/pkg/observability"
	"github.com/matzehuels/timestack/pkg/ticks"
)

// Axis builds ticks for one chart axis. It is immutable after New and safe
// for concurrent use.
type Axis struct {
	opts    Options
	cal     *calendar.Calendar
	gens    []ticks.Generator
	tooltip calendar.Format
	logger  *log.Logger
}

// New validates opts, resolves the calendar and applies FormatStyle to the
// generator set.
func New(opts Options) (*Axis, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	cal, err := calendar.New(calendar.Options{Locale: opts.Locale, Zone: opts.Zone})
	if err != nil {
		return nil, err
	}

	gens := slices.Clone(opts.Generators)
	if opts.FormatStyle != nil {
		gens = ticks.WithFormats(gens, *opts.FormatStyle)
	}
	return &Axis{
		opts:    opts,
		cal:     cal,
		gens:    gens,
		tooltip: *opts.TooltipFormat,
		logger:  opts.Logger,
	}, nil
}

// Options returns the resolved options.
func (a *Axis) Options() Options { return a.opts }

// Calendar returns the axis calendar.
func (a *Axis) Calendar() *calendar.Calendar { return a.cal }

// Generators returns the generator set with FormatStyle applied.
func (a *Axis) Generators() []ticks.Generator { return slices.Clone(a.gens) }

// =============================================================================
// Building
// =============================================================================

// Result is the outcome of Build.
type Result struct {
	Ticks []ticks.Tick

	// Generator is nil when no generator satisfied the constraints.
	Generator ticks.Generator
	Index     int
	Density   float64
	Count     float64

	// Min, Max and Width describe the built range for pixel mapping.
	Min   int64
	Max   int64
	Width float64
}

// BuildTicks returns the ticks for [min, max) on an axis width pixels wide.
func (a *Axis) BuildTicks(min, max int64, width float64, m measure.Measurer) ([]ticks.Tick, error) {
	res, err := a.Build(context.Background(), min, max, width, m)
	return res.Ticks, err
}

// Build chooses a generator for [min, max) and width, creates its ticks and
// adds floating edge ticks. m measures labels in the axis font.
//
// Errors report invalid input or a broken calendar setup. A range no
// generator fits is not an error: the result has no ticks and a nil
// Generator.
func (a *Axis) Build(ctx context.Context, min, max int64, width float64, m measure.Measurer) (res Result, err error) {
	if err := apperrors.ValidateRange(float64(min), float64(max)); err != nil {
		return Result{}, err
	}
	if err := apperrors.ValidateWidth(width); err != nil {
		return Result{}, err
	}

	hooks := observability.Build()
	start := time.Now()
	hooks.OnBuildStart(ctx, max-min, width)
	defer func() {
		var name string
		if res.Generator != nil {
			name = res.Generator.String()
		}
		hooks.OnBuildComplete(ctx, name, len(res.Ticks), time.Since(start), err)
	}()

	res = Result{Min: min, Max: max, Width: width, Index: -1}
	sel, ok, err := ticks.Choose(a.gens, float64(max-min), width, ticks.Constraints{
		Want:       a.opts.Density,
		MaxDensity: a.opts.MaxDensity,
		MaxTicks:   a.opts.MaxTicks,
	}, a.opts.Estimator, m, a.cal)
	if err != nil {
		return res, err
	}
	if !ok {
		a.logger.Warn("no tick generator fits", "range", time.Duration(max-min)*time.Millisecond, "width", width)
		return res, nil
	}
	res.Generator, res.Index, res.Density, res.Count = sel.Generator, sel.Index, sel.Density, sel.Count

	gen := sel.Generator
	minDT, maxDT := a.cal.FromMillis(min), a.cal.FromMillis(max)
	now := a.cal.FromTime(a.opts.Now())
	preferLong := func(dt calendar.DateTime) bool { return !dt.Same(now, calendar.Year) }

	list := gen.Create(minDT, maxDT, preferLong)
	res.Ticks = list
	if gen.Bottom() == nil {
		a.logBuilt(res)
		return res, nil
	}

	var bottoms []ticks.Tick
	for _, t := range list {
		if ticks.HasBottom(t) {
			bottoms = append(bottoms, t)
		}
	}
	span := float64(max - min)

	if th := *a.opts.LeftThreshold; th >= 0 {
		var gap float64
		need := len(bottoms) == 0
		if !need {
			gap = float64(bottoms[0].Value - min)
			need = gap/span > th
		}
		if need {
			t := gen.CreateFloating(minDT, ticks.Left, preferLong)
			if a.fits(t, bottoms, gap*width/span, m) {
				res.Ticks = append([]ticks.Tick{t}, res.Ticks...)
				hooks.OnFloatingTick(ctx, ticks.Left.String(), true)
			} else {
				hooks.OnFloatingTick(ctx, ticks.Left.String(), false)
			}
		}
	}

	if th := *a.opts.RightThreshold; th >= 0 {
		var gap float64
		need := len(bottoms) == 0
		if !need {
			gap = float64(max - bottoms[len(bottoms)-1].Value)
			need = gap/span > th
		}
		if need {
			t := gen.CreateFloating(maxDT, ticks.Right, preferLong)
			if a.fits(t, bottoms, gap*width/span, m) {
				res.Ticks = append(res.Ticks, t)
				hooks.OnFloatingTick(ctx, ticks.Right.String(), true)
			} else {
				hooks.OnFloatingTick(ctx, ticks.Right.String(), false)
			}
		}
	}

	a.logBuilt(res)
	return res, nil
}

// fits reports whether a floating tick leaves room before its nearest bottom
// label. Margins are unknown at this stage, so the label needs twice its
// width.
func (a *Axis) fits(t ticks.Tick, bottoms []ticks.Tick, space float64, m measure.Measurer) bool {
	if len(bottoms) == 0 {
		return true
	}
	return 2*m.Width(t.Label.Bottom) <= space
}

func (a *Axis) logBuilt(res Result) {
	a.logger.Debug("built ticks",
		"generator", res.Generator.String(),
		"ticks", len(res.Ticks),
		"density", math.Round(res.Density*1000)/1000,
	)
}

// =============================================================================
// Data limits and pixel mapping
// =============================================================================

// DataLimits normalizes raw data bounds into a usable range. Non-finite
// bounds fall back to the start and end of today in the axis zone, and the
// result always spans at least one millisecond.
func (a *Axis) DataLimits(min, max float64) (int64, int64) {
	today := a.cal.FromTime(a.opts.Now())
	if math.IsNaN(min) || math.IsInf(min, 0) {
		min = float64(today.StartOf(calendar.Day).Millis())
	}
	if math.IsNaN(max) || math.IsInf(max, 0) {
		max = float64(today.EndOf(calendar.Day).Millis() + 1)
	}
	lo := math.Min(min, max-1)
	hi := math.Max(min+1, max)
	return int64(math.Floor(lo)), int64(math.Ceil(hi))
}

// LabelForValue renders a tooltip label for an epoch-millisecond value.
func (a *Axis) LabelForValue(v int64) string {
	return a.cal.FromMillis(v).Format(a.tooltip)
}

// PixelForValue maps an epoch-millisecond value to a pixel offset from the
// left edge of the built range.
func (r Result) PixelForValue(v float64) float64 {
	return (v - float64(r.Min)) / float64(r.Max-r.Min) * r.Width
}

// ValueForPixel is the inverse of PixelForValue.
func (r Result) ValueForPixel(px float64) float64 {
	return float64(r.Min) + px/r.Width*float64(r.Max-r.Min)
}
