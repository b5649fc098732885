// Package pkg provides the core libraries of timestack, an adaptive time-axis
// tick engine.
//
// # Overview
//
// Given a visible time range and an axis width, timestack picks the tick
// cadence whose labels fill the axis at the wanted density, creates the ticks
// on calendar boundaries of a locale and time zone, and adds a second label
// row with date context. The pkg directory is organized as:
//
//  1. [calendar] - Zone and locale aware date-times and label formatting
//  2. [measure] - Label width measurement and widest-label estimation
//  3. [ticks] - Tick generators and generator selection
//  4. [axis] - Axis building with floating edge ticks
//  5. [render] - Text and SVG axis strips
//  6. [config], [cache], [errors], [observability], [buildinfo] - Infrastructure
//
// # Architecture
//
// The typical data flow of one axis build:
//
//	range + width
//	      ↓
//	[ticks.Choose] (estimate each generator with [measure.Estimator])
//	      ↓
//	[ticks.Generator].Create (step the [calendar] between min and max)
//	      ↓
//	[axis.Axis].Build (floating edge ticks, hooks, logging)
//	      ↓
//	[render] or JSON (CLI and HTTP service)
//
// # Quick Start
//
//	a, err := axis.New(axis.Options{Locale: "de-DE", Zone: "Europe/Berlin"})
//	if err != nil {
//	    return err
//	}
//	m, _ := measure.NewGoFont(12)
//	res, err := a.Build(ctx, min, max, 600, m)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(render.RenderText(res, render.WithColumns(80)))
//
// # Infrastructure
//
// [config] loads TOML and YAML configuration files, [cache] stores rendered
// responses in files or Redis, [errors] defines the coded errors shared by the
// CLI and the HTTP service, and [observability] exposes hooks for metrics and
// tracing.
package pkg
