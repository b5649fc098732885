package measure

import (
	"testing"

	apperrors "github.com/matzehuels/timestack/pkg/errors"
)

func TestBasicFaceWidth(t *testing.T) {
	m := NewBasic()
	if got := m.Width("abc"); got != 21 {
		t.Errorf("Width(abc) = %v, want 21", got)
	}
	if m.Font() != "13px basic" {
		t.Errorf("Font() = %q", m.Font())
	}
}

func TestGoFontWidth(t *testing.T) {
	small, err := NewGoFont(10)
	if err != nil {
		t.Fatalf("NewGoFont: %v", err)
	}
	large, err := NewGoFont(20)
	if err != nil {
		t.Fatalf("NewGoFont: %v", err)
	}

	ws, wl := small.Width("September"), large.Width("September")
	if ws <= 0 {
		t.Fatalf("Width = %v, want positive", ws)
	}
	if wl <= ws {
		t.Errorf("20px width %v should exceed 10px width %v", wl, ws)
	}
	if small.Width("May") >= ws {
		t.Error("May should be narrower than September")
	}
	if small.Font() == large.Font() {
		t.Error("different sizes must have different font keys")
	}
}

func TestCellMeasurer(t *testing.T) {
	tests := []struct {
		name string
		m    CellMeasurer
		text string
		want float64
	}{
		{"ascii", CellMeasurer{}, "12:30", 5},
		{"scaled", CellMeasurer{CellWidth: 8}, "12:30", 40},
		{"wide runes", CellMeasurer{}, "12月", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.Width(tt.text); got != tt.want {
				t.Errorf("Width(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestForName(t *testing.T) {
	tests := []struct {
		spec     string
		wantFont string
		wantErr  bool
	}{
		{"go:12", "12px Go", false},
		{"", "12px Go", false},
		{"basic", "13px basic", false},
		{"cells", "cells:1", false},
		{"cells:7.5", "cells:7.5", false},

		{"go:abc", "", true},
		{"go:0", "", true},
		{"cells:-1", "", true},
		{"comic-sans", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			m, err := ForName(tt.spec)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ForName(%q) error = %v, wantErr %v", tt.spec, err, tt.wantErr)
			}
			if err != nil {
				if !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
					t.Errorf("error code = %s, want INVALID_INPUT", apperrors.GetCode(err))
				}
				return
			}
			if m.Font() != tt.wantFont {
				t.Errorf("Font() = %q, want %q", m.Font(), tt.wantFont)
			}
		})
	}
}
