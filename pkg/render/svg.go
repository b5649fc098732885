package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/timestack/pkg/axis"
	"github.com/matzehuels/timestack/pkg/ticks"
)

const axisCSS = `
    text { font-family: %s; font-size: %.1fpx; fill: %s; }
    .major { font-weight: bold; }
    .bottom { fill: %s; }
    .floating { font-style: italic; }
    line { stroke: %s; stroke-width: 1; }`

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	fontSize  float64
	padding   float64
	color     string
	muted     string
	title     string
	embedFont bool
}

func WithFontSize(px float64) SVGOption { return func(r *svgRenderer) { r.fontSize = px } }
func WithPadding(px float64) SVGOption  { return func(r *svgRenderer) { r.padding = px } }
func WithTitle(t string) SVGOption      { return func(r *svgRenderer) { r.title = t } }
func WithEmbeddedFont() SVGOption       { return func(r *svgRenderer) { r.embedFont = true } }

// WithColors sets the label and mark color and the bottom row color.
func WithColors(color, muted string) SVGOption {
	return func(r *svgRenderer) { r.color, r.muted = color, muted }
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{fontSize: 12, padding: 8, color: "#333", muted: "#777"}
	for _, opt := range opts {
		opt(&r)
	}
	if r.fontSize <= 0 {
		r.fontSize = 12
	}
	if r.padding < 0 {
		r.padding = 0
	}
	return r
}

// geometry holds the vertical layout of the strip.
type geometry struct {
	minorMark, majorMark float64
	topY, bottomY        float64
	height               float64
}

func (r svgRenderer) geometry() geometry {
	g := geometry{minorMark: 5, majorMark: 9}
	g.topY = g.majorMark + 3 + r.fontSize
	g.bottomY = g.topY + r.fontSize*1.35
	g.height = g.bottomY + r.fontSize*0.5
	return g
}

// RenderSVG draws res as an SVG axis strip.
func RenderSVG(res axis.Result, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	g := r.geometry()
	width := res.Width + 2*r.padding

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, g.height, width, g.height)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(r.title))
	}
	r.renderStyle(&buf)

	fmt.Fprintf(&buf, `  <line class="axis" x1="%.1f" y1="0.5" x2="%.1f" y2="0.5"/>`+"\n", r.padding, r.padding+res.Width)
	for _, t := range res.Ticks {
		r.renderTick(&buf, res, g, t)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r svgRenderer) renderStyle(buf *bytes.Buffer) {
	family := FallbackFontFamily
	buf.WriteString("  <style>")
	if r.embedFont {
		fmt.Fprintf(buf, "\n    @font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s) format('truetype'); }",
			FontFamily, goFontBase64())
		family = "'" + FontFamily + "'"
	}
	fmt.Fprintf(buf, axisCSS, family, r.fontSize, r.color, r.muted, r.color)
	buf.WriteString("\n  </style>\n")
}

func (r svgRenderer) renderTick(buf *bytes.Buffer, res axis.Result, g geometry, t ticks.Tick) {
	x := r.padding + res.PixelForValue(float64(t.Value))

	switch side, ok := floatingSide(t); {
	case ok && side == ticks.Left:
		fmt.Fprintf(buf, `  <text class="bottom floating" x="%.1f" y="%.1f" text-anchor="start">%s</text>`+"\n",
			x, g.bottomY, escapeXML(t.Label.Bottom))
		return
	case ok:
		fmt.Fprintf(buf, `  <text class="bottom floating" x="%.1f" y="%.1f" text-anchor="end">%s</text>`+"\n",
			x, g.bottomY, escapeXML(t.Label.Bottom))
		return
	}

	mark, class := g.minorMark, "minor"
	if t.Major {
		mark, class = g.majorMark, "major"
	}
	fmt.Fprintf(buf, `  <line x1="%.1f" y1="0" x2="%.1f" y2="%.1f"/>`+"\n", x, x, mark)
	fmt.Fprintf(buf, `  <text class="%s" x="%.1f" y="%.1f" text-anchor="middle">%s</text>`+"\n",
		class, x, g.topY, escapeXML(t.Label.Top))
	if t.Label.HasBottom {
		fmt.Fprintf(buf, `  <text class="bottom" x="%.1f" y="%.1f" text-anchor="middle">%s</text>`+"\n",
			x, g.bottomY, escapeXML(t.Label.Bottom))
	}
}

// floatingSide reports whether t is a floating edge tick and on which side.
func floatingSide(t ticks.Tick) (ticks.Side, bool) {
	if t.Label.Top != "" || !t.Label.HasBottom {
		return 0, false
	}
	switch {
	case strings.HasPrefix(t.Label.Bottom, ticks.Ellipsis):
		return ticks.Left, true
	case strings.HasSuffix(t.Label.Bottom, ticks.Ellipsis):
		return ticks.Right, true
	}
	return 0, false
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
