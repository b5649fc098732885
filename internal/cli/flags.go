package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/timestack/pkg/axis"
	"github.com/matzehuels/timestack/pkg/config"
	"github.com/matzehuels/timestack/pkg/measure"
)

// axisFlags are the flags shared by every command that builds an axis.
// Set flags override the configuration file.
type axisFlags struct {
	config     string  // config file path (.toml, .yaml)
	locale     string  // BCP 47 locale
	zone       string  // IANA time zone
	font       string  // measurer spec, see measure.ForName
	density    float64 // wanted label density
	maxDensity float64 // density cap
	maxTicks   int     // tick count cap
	left       string  // left floating threshold or "off"
	right      string  // right floating threshold or "off"
}

func (f *axisFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.config, "config", "c", "", "config file (.toml, .yaml)")
	fl.StringVar(&f.locale, "locale", "", "label locale, e.g. de-DE (default en-US)")
	fl.StringVar(&f.zone, "zone", "", "time zone, e.g. Europe/Berlin (default UTC)")
	fl.StringVar(&f.font, "font", "", "label font: go:<size>, basic or cells[:<w>]")
	fl.Float64Var(&f.density, "density", 0, "share of the axis taken by labels")
	fl.Float64Var(&f.maxDensity, "max-density", 0, "reject cadences denser than this")
	fl.IntVar(&f.maxTicks, "max-ticks", 0, "maximum tick count (0 = unlimited)")
	fl.StringVar(&f.left, "left-threshold", "", "left floating tick threshold, or off")
	fl.StringVar(&f.right, "right-threshold", "", "right floating tick threshold, or off")
}

// resolve loads the configuration and applies the flags on top of it.
func (f *axisFlags) resolve() (config.Config, axis.Options, measure.Measurer, error) {
	cfg, err := loadConfig(f.config)
	if err != nil {
		return config.Config{}, axis.Options{}, nil, err
	}
	if f.font != "" {
		cfg.Font = f.font
	}
	opts, err := cfg.AxisOptions()
	if err != nil {
		return config.Config{}, axis.Options{}, nil, err
	}
	if f.locale != "" {
		opts.Locale = f.locale
	}
	if f.zone != "" {
		opts.Zone = f.zone
	}
	if f.density > 0 {
		opts.Density = f.density
	}
	if f.maxDensity > 0 {
		opts.MaxDensity = f.maxDensity
	}
	if f.maxTicks > 0 {
		opts.MaxTicks = f.maxTicks
	}
	if opts.LeftThreshold, err = thresholdOr(f.left, opts.LeftThreshold); err != nil {
		return config.Config{}, axis.Options{}, nil, err
	}
	if opts.RightThreshold, err = thresholdOr(f.right, opts.RightThreshold); err != nil {
		return config.Config{}, axis.Options{}, nil, err
	}
	m, err := cfg.Measurer()
	if err != nil {
		return config.Config{}, axis.Options{}, nil, err
	}
	return cfg, opts, m, nil
}

func thresholdOr(flag string, def *float64) (*float64, error) {
	v, err := axis.ParseThreshold(flag)
	if err != nil || v == nil {
		return def, err
	}
	return v, nil
}
