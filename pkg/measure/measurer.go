package measure

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	apperrors "github.com/matzehuels/timestack/pkg/errors"
)

// FaceMeasurer measures text with a golang.org/x/image font face.
type FaceMeasurer struct {
	name string

	mu   sync.Mutex // font.Face implementations are not safe for concurrent use
	face font.Face
}

// NewFaceMeasurer wraps face. name identifies the font in cache keys and
// must change whenever the face's metrics do.
func NewFaceMeasurer(name string, face font.Face) *FaceMeasurer {
	return &FaceMeasurer{name: name, face: face}
}

// NewGoFont returns a measurer for the Go Regular font at size pixels.
func NewGoFont(size float64) (*FaceMeasurer, error) {
	if size <= 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "font size must be positive, got %v", size)
	}
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse go font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create go font face: %w", err)
	}
	return NewFaceMeasurer(fmt.Sprintf("%gpx Go", size), face), nil
}

// NewBasic returns a measurer for the fixed 7x13 bitmap face.
func NewBasic() *FaceMeasurer {
	return NewFaceMeasurer("13px basic", basicfont.Face7x13)
}

// Font implements Measurer.
func (m *FaceMeasurer) Font() string { return m.name }

// Width implements Measurer.
func (m *FaceMeasurer) Width(text string) float64 {
	m.mu.Lock()
	adv := font.MeasureString(m.face, text)
	m.mu.Unlock()
	return float64(adv) / 64
}

// CellMeasurer measures text in terminal cells scaled by CellWidth. East
// Asian wide runes count as two cells.
type CellMeasurer struct {
	CellWidth float64
}

// Font implements Measurer.
func (m CellMeasurer) Font() string {
	return fmt.Sprintf("cells:%g", m.cellWidth())
}

// Width implements Measurer.
func (m CellMeasurer) Width(text string) float64 {
	return float64(runewidth.StringWidth(text)) * m.cellWidth()
}

func (m CellMeasurer) cellWidth() float64 {
	if m.CellWidth <= 0 {
		return 1
	}
	return m.CellWidth
}

// ForName resolves a measurer spec:
//
//	go:<size>      Go Regular at size pixels (e.g. "go:12")
//	basic          7x13 bitmap font
//	cells[:<w>]    terminal cells, each w pixels wide (default 1)
func ForName(spec string) (Measurer, error) {
	kind, arg, hasArg := strings.Cut(strings.TrimSpace(spec), ":")
	switch strings.ToLower(kind) {
	case "", "go":
		size := 12.0
		if hasArg {
			v, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid font size %q", arg)
			}
			size = v
		}
		return NewGoFont(size)
	case "basic":
		return NewBasic(), nil
	case "cells":
		w := 1.0
		if hasArg {
			v, err := strconv.ParseFloat(arg, 64)
			if err != nil || v <= 0 {
				return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid cell width %q", arg)
			}
			w = v
		}
		return CellMeasurer{CellWidth: w}, nil
	}
	return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "unknown font %q (want go:<size>, basic or cells[:<w>])", spec)
}
