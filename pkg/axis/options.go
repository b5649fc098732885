package axis

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/timestack/pkg/calendar"
	apperrors "github.com/matzehuels/timestack/pkg/errors"
	"github.com/matzehuels/timestack/pkg/measure"
	"github.com/matzehuels/timestack/pkg/ticks"
)

// =============================================================================
// Defaults
// =============================================================================

const (
	DefaultDensity       = 0.5
	DefaultMaxDensity    = 0.75
	DefaultLeftThreshold = 0.33

	// Off disables a floating edge tick when used as a threshold.
	Off = -1.0
)

// DefaultTooltipFormat renders a full date and time, e.g.
// "December 22, 2024, 11:59:59 PM".
var DefaultTooltipFormat = calendar.Format{
	Year:   calendar.Numeric,
	Month:  calendar.Long,
	Day:    calendar.Numeric,
	Hour:   calendar.Numeric,
	Minute: calendar.Numeric,
	Second: calendar.Numeric,
}

// Threshold returns a pointer to v for the threshold options.
func Threshold(v float64) *float64 { return &v }

// ParseThreshold reads a threshold flag or query value: a fraction such as
// "0.33" or "off". An empty string returns nil.
func ParseThreshold(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return nil, nil
	case "off":
		return Threshold(Off), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid threshold %q (want a fraction or off)", s)
	}
	return Threshold(v), nil
}

// =============================================================================
// Options - Axis Configuration
// =============================================================================

// Options configures an Axis. The zero value is usable: every unset field
// takes its default in SetDefaults.
type Options struct {
	// Density is the wanted share of the axis width taken by labels.
	Density float64 `json:"density,omitempty" toml:"density,omitempty" yaml:"density,omitempty"`

	// MaxDensity rejects cadences whose labels would take more.
	MaxDensity float64 `json:"max_density,omitempty" toml:"max_density,omitempty" yaml:"max_density,omitempty"`

	// LeftThreshold adds a floating tick at the left edge when the first
	// bottom label sits farther than this share of the width from it. nil
	// selects DefaultLeftThreshold; a negative value (Off) disables it.
	LeftThreshold *float64 `json:"left_threshold,omitempty" toml:"left_threshold,omitempty" yaml:"left_threshold,omitempty"`

	// RightThreshold mirrors LeftThreshold for the right edge. nil disables it.
	RightThreshold *float64 `json:"right_threshold,omitempty" toml:"right_threshold,omitempty" yaml:"right_threshold,omitempty"`

	// MaxTicks caps the estimated tick count. Zero means unlimited.
	MaxTicks int `json:"max_ticks,omitempty" toml:"max_ticks,omitempty" yaml:"max_ticks,omitempty"`

	// Locale and Zone select the calendar; empty means en-US and UTC.
	Locale string `json:"locale,omitempty" toml:"locale,omitempty" yaml:"locale,omitempty"`
	Zone   string `json:"zone,omitempty" toml:"zone,omitempty" yaml:"zone,omitempty"`

	// TooltipFormat renders LabelForValue. nil selects DefaultTooltipFormat.
	TooltipFormat *calendar.Format `json:"tooltip_format,omitempty" toml:"tooltip_format,omitempty" yaml:"tooltip_format,omitempty"`

	// FormatStyle is patched into every generator's formats, e.g.
	// {hour12: false} to force 24-hour clocks.
	FormatStyle *calendar.Format `json:"format_style,omitempty" toml:"format_style,omitempty" yaml:"format_style,omitempty"`

	// Runtime options (not serialized)
	Generators []ticks.Generator  `json:"-" toml:"-" yaml:"-"` // nil selects ticks.DefaultGenerators
	Estimator  *measure.Estimator `json:"-" toml:"-" yaml:"-"` // nil selects measure.Default
	Logger     *log.Logger        `json:"-" toml:"-" yaml:"-"`
	Now        func() time.Time   `json:"-" toml:"-" yaml:"-"`
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills unset fields with their defaults.
func (o *Options) SetDefaults() {
	if o.Density == 0 {
		o.Density = DefaultDensity
	}
	if o.MaxDensity == 0 {
		o.MaxDensity = DefaultMaxDensity
	}
	if o.LeftThreshold == nil {
		o.LeftThreshold = Threshold(DefaultLeftThreshold)
	}
	if o.RightThreshold == nil {
		o.RightThreshold = Threshold(Off)
	}
	if o.TooltipFormat == nil {
		f := DefaultTooltipFormat
		o.TooltipFormat = &f
	}
	if o.Generators == nil {
		o.Generators = ticks.DefaultGenerators()
	}
	if o.Estimator == nil {
		o.Estimator = measure.Default()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Validate checks option values. It does not resolve the locale or zone;
// New does.
func (o *Options) Validate() error {
	if err := apperrors.ValidateDensity(o.Density, o.MaxDensity); err != nil {
		return err
	}
	for _, th := range []struct {
		name string
		v    *float64
	}{
		{"left_threshold", o.LeftThreshold},
		{"right_threshold", o.RightThreshold},
	} {
		if th.v == nil || *th.v < 0 {
			continue
		}
		if err := apperrors.ValidateThreshold(th.name, *th.v); err != nil {
			return err
		}
	}
	if o.MaxTicks < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "max_ticks must not be negative, got %d", o.MaxTicks)
	}
	if o.TooltipFormat != nil {
		if err := o.TooltipFormat.Validate(); err != nil {
			return err
		}
	}
	if o.FormatStyle != nil {
		if err := o.FormatStyle.Validate(); err != nil {
			return err
		}
	}
	for i, g := range o.Generators {
		if g == nil {
			return apperrors.New(apperrors.ErrCodeInvalidGenerator, "generator %d is nil", i)
		}
	}
	return nil
}

// ValidateAndSetDefaults applies defaults and validates the result.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	return o.Validate()
}
