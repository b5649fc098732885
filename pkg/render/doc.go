// Package render draws built axes for previews.
//
// # Overview
//
// Two sinks take an [axis.Result] and lay its ticks out with
// Result.PixelForValue:
//
//   - [RenderSVG] writes a standalone SVG strip with tick marks, a top label
//     row and a bottom context row
//   - [RenderText] writes the same strip as terminal text, one cell per
//     pixel column
//
// Floating edge ticks have no mark; their bottom label hangs inward from
// the edge they belong to.
//
//	res, err := a.Build(ctx, min, max, 600, m)
//	svg := render.RenderSVG(res, render.WithFontSize(12), render.WithEmbeddedFont())
//
// The SVG sink measures nothing itself: labels are placed at their tick
// positions and the browser's font decides the final width. Embedding the Go
// font keeps the preview consistent with the "go:<size>" measurer.
//
// [axis.Result]: github.com/matzehuels/timestack/pkg/axis.Result
package render
