// Package ticks generates and selects calendar-aware ticks for a time axis.
//
// # Overview
//
// A [Generator] describes one tick cadence, such as "every 5 minutes aligned
// to the hour, with the full hour promoted to a major tick and the date shown
// under the first tick of each day". Each generator can estimate its label
// footprint for a time range, enumerate tick positions lazily with a
// [Cursor], and materialize the labeled [Tick] list for a half-open interval.
//
// Three variants cover every cadence the default set needs:
//
//   - [Periodic]: a fixed calendar step (seconds up to months) from an
//     aligned start
//   - [DayOfMonth]: explicit days of each month, such as 1, 10 and 20
//   - [YearMultiple]: every N years, anchored at multiples of N
//
// # Selection
//
// [Choose] picks the generator whose estimated label density is closest to a
// target while staying under a hard density and tick-count ceiling. Density
// is the estimated total label width divided by the axis width; widths come
// from the [measure.Estimator], so no real dates are rendered during
// selection.
//
//	gens := ticks.DefaultGenerators()
//	sel, ok, err := ticks.Choose(gens, 90*60*1000, 600, ticks.Constraints{
//	    Want:       0.5,
//	    MaxDensity: 0.75,
//	}, measure.Default(), m, cal)
//
// # Labels
//
// Ticks carry a top label and, when the generator has a bottom row and the
// tick sits on the bottom unit, a bottom label giving broader context (the
// date under a time of day). Floating ticks, created with
// [Generator.CreateFloating], have an empty top label and an ellipsis-marked
// bottom label; they mark context beyond the visible edge.
//
// # Immutability
//
// Generators are immutable after construction. [Generator.WithFormats]
// returns a new generator with patched formats, so one generator set can be
// shared by many axes and goroutines.
package ticks
