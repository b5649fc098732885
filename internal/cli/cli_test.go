package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/timestack/pkg/axis"
	"github.com/matzehuels/timestack/pkg/measure"
	"github.com/matzehuels/timestack/pkg/ticks"
)

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestTicksJSON(t *testing.T) {
	out, err := execute(t, "ticks",
		"--min", "2024-03-05T10:00:00Z", "--max", "2024-03-05T11:30:00Z",
		"--width", "600", "--font", "cells:2.5", "-f", "json")
	if err != nil {
		t.Fatalf("ticks: %v", err)
	}

	var got []ticks.Tick
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(got) != 19 {
		t.Fatalf("got %d ticks, want 19", len(got))
	}
	if want := (ticks.Label{Bottom: "…Mar 5", HasBottom: true}); got[0].Label != want {
		t.Errorf("first label = %+v, want %+v", got[0].Label, want)
	}
	if got[1].Label.Top != "10:00 AM" || !got[1].Major {
		t.Errorf("second tick = %+v", got[1])
	}
}

func TestTicksWallClockInZone(t *testing.T) {
	out, err := execute(t, "ticks",
		"--min", "2024-03-05T11:00", "--max", "2024-03-05T12:30", "--zone", "Europe/Berlin",
		"--width", "600", "--font", "cells:2.5", "-f", "json")
	if err != nil {
		t.Fatalf("ticks: %v", err)
	}
	var got []ticks.Tick
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC).UnixMilli()
	if len(got) == 0 || got[0].Value != want {
		t.Fatalf("first tick = %+v, want value %d", got, want)
	}
	if got[1].Label.Top != "11:00 AM" {
		t.Errorf("second label = %q, want local time", got[1].Label.Top)
	}
}

func TestTicksText(t *testing.T) {
	out, err := execute(t, "ticks",
		"--min", "2024-03-05T10:00:00Z", "--max", "2024-03-05T11:30:00Z",
		"-f", "text", "--columns", "60")
	if err != nil {
		t.Fatalf("ticks: %v", err)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out)
	}
	if n := len([]rune(lines[0])); n != 60 {
		t.Errorf("ruler is %d cells, want 60", n)
	}
	if !strings.Contains(lines[2], "…Mar 5") {
		t.Errorf("bottom row %q lacks the floating date", lines[2])
	}
}

func TestTicksSVGToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "axis.svg")
	_, err := execute(t, "ticks",
		"--min", "2024-03-05T10:00:00Z", "--max", "2024-03-05T11:30:00Z",
		"--font", "go:14", "-f", "svg", "-o", path, "--title", "Load")
	if err != nil {
		t.Fatalf("ticks: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"<svg", "<title>Load</title>", "font-size: 14.0px", "10:00 AM"} {
		if !bytes.Contains(data, []byte(want)) {
			t.Errorf("svg lacks %q", want)
		}
	}
}

func TestTicksErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing range", []string{"ticks"}},
		{"bad format", []string{"ticks", "--min", "0", "--max", "1000", "-f", "png"}},
		{"bad instant", []string{"ticks", "--min", "soon", "--max", "1000"}},
		{"empty range", []string{"ticks", "--min", "1000", "--max", "1000"}},
		{"bad threshold", []string{"ticks", "--min", "0", "--max", "1000", "--left-threshold", "half"}},
		{"missing config", []string{"ticks", "--min", "0", "--max", "1000", "-c", "/nonexistent/timestack.toml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestGeneratorsCommand(t *testing.T) {
	out, err := execute(t, "generators")
	if err != nil {
		t.Fatalf("generators: %v", err)
	}
	for _, want := range []string{"5 minutes aligned to hour", "every year", "5m"} {
		if !strings.Contains(out, want) {
			t.Errorf("generator table lacks %q", want)
		}
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	for _, name := range []string{"timestack.toml", "timestack.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			if _, err := execute(t, "config", "init", path); err != nil {
				t.Fatalf("init: %v", err)
			}
			if _, err := execute(t, "config", "validate", path); err != nil {
				t.Fatalf("validate: %v", err)
			}
			if _, err := execute(t, "config", "init", path); err == nil {
				t.Error("init should refuse to overwrite")
			}
			if _, err := execute(t, "config", "init", "--force", path); err != nil {
				t.Errorf("init --force: %v", err)
			}

			out, err := execute(t, "ticks", "-c", path,
				"--min", "2024-03-05T10:00:00Z", "--max", "2024-03-05T11:30:00Z", "-f", "json")
			if err != nil {
				t.Fatalf("ticks with config: %v", err)
			}
			if !strings.Contains(out, `"value"`) {
				t.Errorf("ticks output %q", out)
			}
		})
	}

	if _, err := execute(t, "config", "init", filepath.Join(t.TempDir(), "c.ini")); err == nil {
		t.Error("init should reject unknown extensions")
	}
}

func TestCachePathCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out); got != filepath.Join("/tmp/xdg-cache", appName) {
		t.Errorf("cache path = %q", got)
	}
}

func TestCacheClearFile(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	if _, err := execute(t, "cache", "clear"); err != nil {
		t.Errorf("clear of a missing cache: %v", err)
	}

	dir, err := cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	entry := filepath.Join(dir, "ab", "cdef.json")
	if err := os.MkdirAll(filepath.Dir(entry), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(entry, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "cache", "clear"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := os.Stat(entry); !os.IsNotExist(err) {
		t.Errorf("entry still exists: %v", err)
	}
}

func TestSVGFontSize(t *testing.T) {
	tests := []struct {
		m    measure.Measurer
		want float64
	}{
		{measure.NewBasic(), 13},
		{measure.CellMeasurer{CellWidth: 7}, 12},
	}
	for _, tt := range tests {
		if got := svgFontSize(tt.m); got != tt.want {
			t.Errorf("svgFontSize(%s) = %v, want %v", tt.m.Font(), got, tt.want)
		}
	}
	gf, err := measure.NewGoFont(14)
	if err != nil {
		t.Fatal(err)
	}
	if got := svgFontSize(gf); got != 14 {
		t.Errorf("svgFontSize(go 14) = %v", got)
	}
}

func TestApprox(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{5 * time.Minute, "5m"},
		{3 * time.Hour, "3h"},
		{365 * 24 * time.Hour, "365d"},
		{10 * time.Second, "10s"},
	}
	for _, tt := range tests {
		if got := approx(float64(tt.d / time.Millisecond)); got != tt.want {
			t.Errorf("approx(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

// =============================================================================
// Explore
// =============================================================================

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newExplore(t *testing.T) ExploreModel {
	t.Helper()
	a, err := axis.New(axis.Options{Estimator: measure.NewEstimator(0)})
	if err != nil {
		t.Fatal(err)
	}
	min := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC).UnixMilli()
	return NewExploreModel(a, min, min+(90*time.Minute).Milliseconds(), 200)
}

func TestExplorePanAndZoom(t *testing.T) {
	m := newExplore(t)
	min, max := m.Min, m.Max
	span := max - min
	if m.result.Generator == nil {
		t.Fatal("initial range should pick a generator")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(ExploreModel)
	if m.Min != min+span/4 || m.Max != max+span/4 {
		t.Errorf("pan right: [%d, %d)", m.Min, m.Max)
	}

	next, _ = m.Update(keys("+"))
	m = next.(ExploreModel)
	if got := m.Max - m.Min; got != span/2 {
		t.Errorf("zoom in span = %d, want %d", got, span/2)
	}

	next, _ = m.Update(keys("0"))
	m = next.(ExploreModel)
	if m.Min != min || m.Max != max {
		t.Errorf("reset: [%d, %d)", m.Min, m.Max)
	}

	for range 20 {
		next, _ = m.Update(keys("+"))
		m = next.(ExploreModel)
	}
	if got := m.Max - m.Min; got != minSpan {
		t.Errorf("zoom in is capped at %d, got %d", minSpan, got)
	}
}

func TestExploreResizeAndView(t *testing.T) {
	m := newExplore(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 104, Height: 20})
	m = next.(ExploreModel)
	if m.Columns != 100 {
		t.Errorf("columns = %d, want 100", m.Columns)
	}

	view := m.View()
	for _, want := range []string{"Explore", "March 5, 2024", m.result.Generator.String(), "q quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}

	_, cmd := m.Update(keys("q"))
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestExploreKeys(t *testing.T) {
	base := newExplore(t)
	span := base.Max - base.Min
	tests := []struct {
		name     string
		msgs     []tea.KeyMsg
		min, max int64
		quit     bool
	}{
		{"pan left", []tea.KeyMsg{{Type: tea.KeyLeft}}, base.Min - span/4, base.Max - span/4, false},
		{"pan right vim", []tea.KeyMsg{keys("l")}, base.Min + span/4, base.Max + span/4, false},
		{"zoom in", []tea.KeyMsg{{Type: tea.KeyUp}}, base.Min + span/4, base.Min + span/4 + span/2, false},
		{"zoom out", []tea.KeyMsg{keys("-")}, base.Min - span/2, base.Min - span/2 + span*2, false},
		{"reset", []tea.KeyMsg{keys("h"), keys("k"), keys("r")}, base.Min, base.Max, false},
		{"unknown key", []tea.KeyMsg{keys("x")}, base.Min, base.Max, false},
		{"quit", []tea.KeyMsg{keys("q")}, base.Min, base.Max, true},
		{"escape", []tea.KeyMsg{{Type: tea.KeyEsc}}, base.Min, base.Max, true},
		{"ctrl+c", []tea.KeyMsg{{Type: tea.KeyCtrlC}}, base.Min, base.Max, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := base
			var cmd tea.Cmd
			for _, msg := range tt.msgs {
				var next tea.Model
				next, cmd = m.Update(msg)
				m = next.(ExploreModel)
			}
			if m.Min != tt.min || m.Max != tt.max {
				t.Errorf("range = [%d, %d), want [%d, %d)", m.Min, m.Max, tt.min, tt.max)
			}
			if (cmd != nil) != tt.quit {
				t.Errorf("quit = %v, want %v", cmd != nil, tt.quit)
			}
		})
	}
}
