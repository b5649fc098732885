package render

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/timestack/pkg/axis"
	"github.com/matzehuels/timestack/pkg/measure"
	"github.com/matzehuels/timestack/pkg/ticks"
)

func sampleResult() axis.Result {
	return axis.Result{
		Min:   0,
		Max:   100,
		Width: 40,
		Ticks: []ticks.Tick{
			{Value: 0, Label: ticks.Label{Bottom: "…Mar 4", HasBottom: true}},
			{Value: 25, Label: ticks.Label{Top: "10PM"}},
			{Value: 50, Major: true, Label: ticks.Label{Top: "0AM", Bottom: "Mar 5", HasBottom: true}},
			{Value: 75, Label: ticks.Label{Top: "2AM"}},
		},
	}
}

func TestRenderText(t *testing.T) {
	got := RenderText(sampleResult())
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), got)
	}

	ruler := []rune(lines[0])
	if len(ruler) != 40 {
		t.Fatalf("ruler has %d cells, want 40", len(ruler))
	}
	for col, want := range map[int]rune{0: rulerLine, 10: rulerMinor, 20: rulerMajor, 30: rulerMinor} {
		if ruler[col] != want {
			t.Errorf("ruler[%d] = %q, want %q", col, ruler[col], want)
		}
	}

	wantTop := strings.Repeat(" ", 8) + "10PM" + strings.Repeat(" ", 7) + "0AM" + strings.Repeat(" ", 7) + "2AM"
	if lines[1] != wantTop {
		t.Errorf("top row:\n got %q\nwant %q", lines[1], wantTop)
	}
	wantBottom := "…Mar 4" + strings.Repeat(" ", 14) + "Mar 5"
	if lines[2] != wantBottom {
		t.Errorf("bottom row:\n got %q\nwant %q", lines[2], wantBottom)
	}
}

func TestRenderTextDropsOverlaps(t *testing.T) {
	res := axis.Result{Min: 0, Max: 100, Width: 20, Ticks: []ticks.Tick{
		{Value: 10, Label: ticks.Label{Top: "first"}},
		{Value: 20, Label: ticks.Label{Top: "second"}},
		{Value: 90, Label: ticks.Label{Top: "last"}},
	}}
	top := strings.Split(RenderText(res), "\n")[1]
	if strings.Contains(top, "second") {
		t.Errorf("overlapping label kept: %q", top)
	}
	if !strings.HasPrefix(top, "first") || !strings.HasSuffix(top, "last") {
		t.Errorf("edge labels should be shifted inside the row: %q", top)
	}
}

func TestRenderTextFloatingRight(t *testing.T) {
	res := axis.Result{Min: 0, Max: 100, Width: 20, Ticks: []ticks.Tick{
		{Value: 100, Label: ticks.Label{Bottom: "Mar 5…", HasBottom: true}},
	}}
	bottom := strings.Split(RenderText(res), "\n")[2]
	if bottom != strings.Repeat(" ", 14)+"Mar 5…" {
		t.Errorf("right floating label should end at the edge: %q", bottom)
	}
}

func TestRenderTextWideRunes(t *testing.T) {
	res := axis.Result{Min: 0, Max: 100, Width: 10, Ticks: []ticks.Tick{
		{Value: 0, Label: ticks.Label{Top: "3月", Bottom: "2024年", HasBottom: true}},
	}}
	lines := strings.Split(RenderText(res), "\n")
	if lines[1] != "3月" || lines[2] != "2024年" {
		t.Errorf("wide labels = %q / %q", lines[1], lines[2])
	}
}

func TestRenderTextColumns(t *testing.T) {
	lines := strings.Split(RenderText(sampleResult(), WithColumns(80)), "\n")
	if n := len([]rune(lines[0])); n != 80 {
		t.Errorf("ruler has %d cells, want 80", n)
	}
	if RenderText(sampleResult(), WithColumns(0)) != "" {
		t.Error("zero columns should render nothing")
	}
}

func TestRenderSVG(t *testing.T) {
	res := sampleResult()
	res.Ticks = append(res.Ticks, ticks.Tick{Value: 100, Label: ticks.Label{Bottom: "<b>…", HasBottom: true}})
	svg := string(RenderSVG(res, WithTitle("Mar 4 & 5"), WithPadding(8)))

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg"`,
		`width="56"`,
		`<title>Mar 4 &amp; 5</title>`,
		`text-anchor="start">…Mar 4</text>`,
		`text-anchor="end">&lt;b&gt;…</text>`,
		`class="major" x="28.0"`,
		`>Mar 5</text>`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	// Axis line plus three tick marks; floating ticks have none.
	if n := strings.Count(svg, "<line"); n != 4 {
		t.Errorf("got %d lines, want 4", n)
	}
	if strings.Contains(svg, "@font-face") {
		t.Error("font embedded without WithEmbeddedFont")
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("SVG not closed")
	}
}

func TestRenderSVGEmbeddedFont(t *testing.T) {
	svg := string(RenderSVG(sampleResult(), WithEmbeddedFont(), WithFontSize(14)))
	if !strings.Contains(svg, "@font-face { font-family: 'Go'") {
		t.Error("missing @font-face")
	}
	if !strings.Contains(svg, "base64,AAEAAA") {
		t.Error("embedded font is not a TrueType file")
	}
	if !strings.Contains(svg, "font-size: 14.0px") {
		t.Error("font size not applied")
	}
}

func TestRenderBuiltAxis(t *testing.T) {
	a, err := axis.New(axis.Options{Now: func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }})
	if err != nil {
		t.Fatal(err)
	}
	min := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC).UnixMilli()
	res, err := a.Build(context.Background(), min, min+90*60*1000, 600, measure.CellMeasurer{CellWidth: 2.5})
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(RenderText(res, WithColumns(240)), "\n")
	if !strings.HasPrefix(lines[1], "10:00 AM") {
		t.Errorf("top row = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "…Mar 5") {
		t.Errorf("bottom row = %q", lines[2])
	}
}
