// Package config loads timestack configuration files.
//
// A configuration file holds axis options, an optional custom generator set,
// the label font and the tick service settings. TOML and YAML are supported;
// the format follows the file extension:
//
//	[axis]
//	density = 0.4
//	locale = "de-DE"
//	zone = "Europe/Berlin"
//
//	[[generators]]
//	kind = "periodic"
//	every = 15
//	unit = "minute"
//	align = "hour"
//	major = "hour"
//	top = { fmt = { hour = "numeric", minute = "numeric" } }
//	bottom = { unit = "day", short_fmt = { month = "short", day = "numeric" } }
//
//	[[generators]]
//	kind = "defaults"
//
// Unknown keys are rejected with INVALID_CONFIG.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/timestack/pkg/axis"
	"github.com/matzehuels/timestack/pkg/cache"
	"github.com/matzehuels/timestack/pkg/calendar"
	apperrors "github.com/matzehuels/timestack/pkg/errors"
	"github.com/matzehuels/timestack/pkg/measure"
	"github.com/matzehuels/timestack/pkg/ticks"
)

// Format is a configuration file syntax.
type Format string

const (
	TOML Format = "toml"
	YAML Format = "yaml"
)

// FormatFor returns the syntax implied by a file name's extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return "", apperrors.New(apperrors.ErrCodeInvalidConfig, "unsupported config file %q (want .toml, .yaml or .yml)", path)
}

// =============================================================================
// Config
// =============================================================================

// Config is the content of a configuration file.
type Config struct {
	Axis       axis.Options   `toml:"axis" yaml:"axis"`
	Generators []GeneratorDef `toml:"generators,omitempty" yaml:"generators,omitempty"`

	// Font names the label measurer, see measure.ForName.
	Font string `toml:"font,omitempty" yaml:"font,omitempty"`

	Cache  CacheConfig  `toml:"cache" yaml:"cache"`
	Server ServerConfig `toml:"server" yaml:"server"`
}

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// CacheConfig selects the tick service's response cache.
type CacheConfig struct {
	Backend  string `toml:"backend,omitempty" yaml:"backend,omitempty"`
	Dir      string `toml:"dir,omitempty" yaml:"dir,omitempty"`
	RedisURL string `toml:"redis_url,omitempty" yaml:"redis_url,omitempty"`
	TTL      string `toml:"ttl,omitempty" yaml:"ttl,omitempty"`
}

// ServerConfig configures the tick service.
type ServerConfig struct {
	Addr string `toml:"addr,omitempty" yaml:"addr,omitempty"`
}

const (
	DefaultAddr     = ":8080"
	DefaultCacheTTL = 24 * time.Hour
)

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Cache:  CacheConfig{Backend: CacheNone},
		Server: ServerConfig{Addr: DefaultAddr},
	}
}

// TTLDuration parses the cache TTL. An empty TTL selects DefaultCacheTTL.
func (c CacheConfig) TTLDuration() (time.Duration, error) {
	if c.TTL == "" {
		return DefaultCacheTTL, nil
	}
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "invalid cache ttl %q", c.TTL)
	}
	if d <= 0 {
		return 0, apperrors.New(apperrors.ErrCodeInvalidConfig, "cache ttl must be positive, got %s", d)
	}
	return d, nil
}

// Validate checks the whole configuration, including the axis options and
// every generator definition.
func (c Config) Validate() error {
	opts, err := c.AxisOptions()
	if err != nil {
		return err
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "invalid axis options")
	}
	if _, err := calendar.New(calendar.Options{Locale: opts.Locale, Zone: opts.Zone}); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "invalid axis calendar")
	}
	if _, err := c.Measurer(); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "invalid font")
	}
	switch c.Cache.Backend {
	case "", CacheNone, CacheFile:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return apperrors.New(apperrors.ErrCodeInvalidConfig, "redis cache needs redis_url")
		}
	default:
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if _, err := c.Cache.TTLDuration(); err != nil {
		return err
	}
	return nil
}

// AxisOptions returns the axis options with the configured generator set.
// Runtime fields (logger, estimator, clock) are left for the caller.
func (c Config) AxisOptions() (axis.Options, error) {
	opts := c.Axis
	if len(c.Generators) > 0 {
		gens, err := BuildGenerators(c.Generators)
		if err != nil {
			return axis.Options{}, err
		}
		opts.Generators = gens
	}
	return opts, nil
}

// Measurer returns the configured label measurer.
func (c Config) Measurer() (measure.Measurer, error) {
	return measure.ForName(c.Font)
}

// Fingerprint identifies the axis setup of c, its options and generator
// definitions, for use in cache keys. The font and service settings are not
// part of it.
func Fingerprint(c Config) string {
	data, err := json.Marshal(struct {
		Axis       axis.Options
		Generators []GeneratorDef
	}{c.Axis, c.Generators})
	if err != nil {
		return "default"
	}
	return cache.Hash(data)[:16]
}

// =============================================================================
// Loading
// =============================================================================

// Load reads and validates the configuration file at path.
func Load(path string) (Config, error) {
	format, err := FormatFor(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "config file %s not found", path)
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	c, err := Parse(data, format)
	if err != nil {
		return Config{}, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "%s", path)
	}
	return c, nil
}

// Parse decodes and validates a configuration. Fields the document does not
// set keep the values of Default.
func Parse(data []byte, format Format) (Config, error) {
	c := Default()
	switch format {
	case TOML:
		md, err := toml.Decode(string(data), &c)
		if err != nil {
			return Config{}, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parse toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown key %q", undecoded[0].String())
		}
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil && err != io.EOF {
			return Config{}, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parse yaml")
		}
	default:
		return Config{}, apperrors.New(apperrors.ErrCodeInvalidConfig, "unsupported config format %q", format)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Encode writes c in the given syntax.
func Encode(w io.Writer, c Config, format Format) error {
	switch format {
	case TOML:
		return toml.NewEncoder(w).Encode(c)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return err
		}
		return enc.Close()
	}
	return apperrors.New(apperrors.ErrCodeInvalidConfig, "unsupported config format %q", format)
}

// Sample returns a starter configuration that spells out the built-in
// defaults.
func Sample() Config {
	c := Default()
	c.Axis = axis.Options{
		Density:        axis.DefaultDensity,
		MaxDensity:     axis.DefaultMaxDensity,
		LeftThreshold:  axis.Threshold(axis.DefaultLeftThreshold),
		RightThreshold: axis.Threshold(axis.Off),
		Locale:         "en-US",
		Zone:           "UTC",
	}
	c.Font = "go:13"
	c.Cache.TTL = DefaultCacheTTL.String()
	c.Generators = []GeneratorDef{{Kind: KindDefaults}}
	return c
}

// GeneratorsOrDefault returns the generators of opts, or the default set.
func GeneratorsOrDefault(opts axis.Options) []ticks.Generator {
	if opts.Generators != nil {
		return opts.Generators
	}
	return ticks.DefaultGenerators()
}
