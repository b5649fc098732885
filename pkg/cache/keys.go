package cache

// TicksKeyOpts holds every input that changes a tick response.
type TicksKeyOpts struct {
	Min        int64   `json:"min"`
	Max        int64   `json:"max"`
	Width      float64 `json:"width"`
	Locale     string  `json:"locale"`
	Zone       string  `json:"zone"`
	Font       string  `json:"font"`
	Density    float64 `json:"density"`
	MaxDensity float64 `json:"max_density"`
	MaxTicks   int     `json:"max_ticks"`

	// Axis identifies the rest of the axis setup (thresholds, generator
	// set, format style) and the current year, which decides long bottom
	// labels.
	Axis string `json:"axis"`
}

// MeasureKeyOpts holds every input that changes a measure response.
type MeasureKeyOpts struct {
	Format string `json:"format"`
	Locale string `json:"locale"`
	Zone   string `json:"zone"`
	Font   string `json:"font"`
}

// Keyer derives cache keys from normalized requests.
type Keyer interface {
	TicksKey(opts TicksKeyOpts) string
	MeasureKey(opts MeasureKeyOpts) string
}

// DefaultKeyer hashes the request options under a per-kind prefix.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) TicksKey(opts TicksKeyOpts) string     { return hashKey("ticks", opts) }
func (DefaultKeyer) MeasureKey(opts MeasureKeyOpts) string { return hashKey("measure", opts) }

// ScopedKeyer prefixes another keyer's keys, e.g. with a deployment name so
// that several services can share one Redis database.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer returns a keyer that prepends prefix to inner's keys. A
// nil inner selects the default keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) TicksKey(opts TicksKeyOpts) string {
	return k.prefix + k.inner.TicksKey(opts)
}

func (k *ScopedKeyer) MeasureKey(opts MeasureKeyOpts) string {
	return k.prefix + k.inner.MeasureKey(opts)
}
