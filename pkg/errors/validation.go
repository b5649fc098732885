package errors

import (
	"math"
	"unicode"
)

// MaxAxisWidth bounds the pixel width accepted by ValidateWidth. Anything
// wider is almost certainly a unit mix-up (device pixels times DPR, or
// millis passed as width).
const MaxAxisWidth = 1 << 16

// ValidateRange validates a visible time range in epoch milliseconds.
//
// Validation rules:
//   - Both bounds must be finite
//   - min must be strictly less than max
func ValidateRange(min, max float64) error {
	if math.IsNaN(min) || math.IsInf(min, 0) || math.IsNaN(max) || math.IsInf(max, 0) {
		return New(ErrCodeInvalidRange, "range bounds must be finite")
	}
	if min >= max {
		return New(ErrCodeInvalidRange, "range min (%v) must be less than max (%v)", min, max)
	}
	return nil
}

// ValidateWidth validates an axis pixel width.
func ValidateWidth(width float64) error {
	if math.IsNaN(width) || width <= 0 {
		return New(ErrCodeInvalidInput, "width must be positive, got %v", width)
	}
	if width > MaxAxisWidth {
		return New(ErrCodeInvalidInput, "width too large (max %d pixels)", MaxAxisWidth)
	}
	return nil
}

// ValidateDensity validates a desired and a maximum label density.
// Densities are ratios of total label width to axis width.
func ValidateDensity(want, max float64) error {
	if math.IsNaN(want) || want <= 0 {
		return New(ErrCodeInvalidInput, "density must be positive, got %v", want)
	}
	if math.IsNaN(max) || max <= 0 {
		return New(ErrCodeInvalidInput, "max density must be positive, got %v", max)
	}
	if want > max {
		return New(ErrCodeInvalidInput, "density (%v) cannot exceed max density (%v)", want, max)
	}
	return nil
}

// ValidateThreshold validates a floating tick threshold, a fraction of the
// axis width in [0, 1].
func ValidateThreshold(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return New(ErrCodeInvalidInput, "%s must be within [0, 1], got %v", name, v)
	}
	return nil
}

// ValidateIdentifier validates a short identifier such as a locale or zone
// name before it is handed to a parser.
//
// Validation rules:
//   - Maximum length of 64 characters
//   - No control characters or spaces
func ValidateIdentifier(kind Code, s string) error {
	if len(s) > 64 {
		return New(kind, "identifier too long (max 64 characters)")
	}
	for _, r := range s {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(kind, "identifier contains invalid characters: %q", s)
		}
	}
	return nil
}
