package render

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/timestack/pkg/axis"
	"github.com/matzehuels/timestack/pkg/ticks"
)

// Ruler glyphs.
const (
	rulerLine  = '─'
	rulerMinor = '┬'
	rulerMajor = '┳'
)

type TextOption func(*textRenderer)

type textRenderer struct {
	cols int
}

// WithColumns sets the strip width in cells. The default is the result's
// pixel width, one cell per pixel.
func WithColumns(n int) TextOption { return func(r *textRenderer) { r.cols = n } }

// RenderText draws res as three lines: a ruler, the top labels and the
// bottom labels. Labels that would overlap an earlier label on their row are
// dropped.
func RenderText(res axis.Result, opts ...TextOption) string {
	r := textRenderer{cols: int(math.Round(res.Width))}
	for _, opt := range opts {
		opt(&r)
	}
	if r.cols <= 0 {
		return ""
	}

	ruler := []rune(strings.Repeat(string(rulerLine), r.cols))
	top, bottom := newRow(r.cols), newRow(r.cols)

	for _, t := range res.Ticks {
		col := r.column(res, t.Value)

		if side, ok := floatingSide(t); ok {
			if side == ticks.Left {
				bottom.put(col, t.Label.Bottom)
			} else {
				bottom.put(col-runewidth.StringWidth(t.Label.Bottom), t.Label.Bottom)
			}
			continue
		}

		if col >= 0 && col < r.cols {
			if t.Major {
				ruler[col] = rulerMajor
			} else {
				ruler[col] = rulerMinor
			}
		}
		top.put(col-runewidth.StringWidth(t.Label.Top)/2, t.Label.Top)
		if t.Label.HasBottom {
			bottom.put(col, t.Label.Bottom)
		}
	}

	return string(ruler) + "\n" + top.String() + "\n" + bottom.String()
}

func (r textRenderer) column(res axis.Result, v int64) int {
	if res.Width <= 0 {
		return 0
	}
	px := res.PixelForValue(float64(v))
	return int(math.Round(px * float64(r.cols) / res.Width))
}

// row is a line of terminal cells. A wide rune fills its cell and marks the
// next one as taken with an empty string.
type row struct {
	cells []string
	used  []bool
}

func newRow(n int) *row {
	r := &row{cells: make([]string, n), used: make([]bool, n)}
	for i := range r.cells {
		r.cells[i] = " "
	}
	return r
}

// put writes s starting at col, shifted inside the row if it would stick
// out. It reports false and writes nothing when s overlaps an earlier label
// or its one-cell gap.
func (r *row) put(col int, s string) bool {
	w := runewidth.StringWidth(s)
	n := len(r.cells)
	if w == 0 || w > n {
		return false
	}
	col = max(0, min(col, n-w))
	for i := max(0, col-1); i < min(n, col+w+1); i++ {
		if r.used[i] {
			return false
		}
	}

	i := col
	for _, ch := range s {
		cw := runewidth.RuneWidth(ch)
		if cw == 0 {
			continue
		}
		r.cells[i] = string(ch)
		r.used[i] = true
		for k := 1; k < cw; k++ {
			r.cells[i+k] = ""
			r.used[i+k] = true
		}
		i += cw
	}
	return true
}

func (r *row) String() string {
	return strings.TrimRight(strings.Join(r.cells, ""), " ")
}
