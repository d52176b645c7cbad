// Package config loads the TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/ephem"
	"github.com/litescript/ls-natal/internal/layer"
	"github.com/litescript/ls-natal/internal/logging"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Duration is a time.Duration that decodes from TOML strings like "10s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Birth is the chart subject.
type Birth struct {
	Name        string    `toml:"name"`
	Time        time.Time `toml:"time"`
	Latitude    float64   `toml:"latitude"`
	Longitude   float64   `toml:"longitude"`
	Place       string    `toml:"place"`
	HouseSystem string    `toml:"house_system"`
}

// Provider selects where charts come from.
type Provider struct {
	Mode    string   `toml:"mode"`
	URL     string   `toml:"url"`
	Timeout Duration `toml:"timeout"`
}

// Layers overrides catalog defaults.
type Layers struct {
	Show    []string           `toml:"show"`
	Hide    []string           `toml:"hide"`
	Opacity map[string]float64 `toml:"opacity"`
}

// View controls the terminal UI.
type View struct {
	Refresh  Duration `toml:"refresh"` // >0 enables live mode
	LogLevel string   `toml:"log_level"`
	LogFile  string   `toml:"log_file"`
}

// Config is the whole configuration file.
type Config struct {
	Birth    Birth    `toml:"birth"`
	Provider Provider `toml:"provider"`
	Layers   Layers   `toml:"layers"`
	View     View     `toml:"view"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Birth: Birth{
			Name:        "Now",
			HouseSystem: string(chart.HouseEqual),
		},
		Provider: Provider{
			Mode:    ephem.ModeLocal.String(),
			URL:     ephem.DefaultChartURL,
			Timeout: Duration{ephem.DefaultTimeout},
		},
		View: View{
			LogLevel: "info",
		},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("%w: unknown key %q", ErrInvalid, undecoded[0].String())
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges and names.
func (c Config) Validate() error {
	if c.Birth.Latitude < -90 || c.Birth.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalid, c.Birth.Latitude)
	}
	if c.Birth.Longitude < -180 || c.Birth.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrInvalid, c.Birth.Longitude)
	}
	switch c.Birth.HouseSystem {
	case "", string(chart.HouseEqual), string(chart.HouseWholeSign), string(chart.HousePorphyry):
	default:
		return fmt.Errorf("%w: unknown house system %q", ErrInvalid, c.Birth.HouseSystem)
	}
	switch c.Provider.Mode {
	case "", "local", "remote", "auto":
	default:
		return fmt.Errorf("%w: unknown provider mode %q", ErrInvalid, c.Provider.Mode)
	}
	if _, ok := logging.LookupLevel(c.View.LogLevel); !ok && c.View.LogLevel != "" {
		return fmt.Errorf("%w: unknown log level %q", ErrInvalid, c.View.LogLevel)
	}
	if c.View.Refresh.Duration < 0 {
		return fmt.Errorf("%w: negative refresh interval", ErrInvalid)
	}

	for _, names := range [][]string{c.Layers.Show, c.Layers.Hide} {
		for _, name := range names {
			if _, ok := layer.ParseID(name); !ok {
				return fmt.Errorf("%w: unknown layer %q", ErrInvalid, name)
			}
		}
	}
	for name, v := range c.Layers.Opacity {
		if _, ok := layer.ParseID(name); !ok {
			return fmt.Errorf("%w: unknown layer %q", ErrInvalid, name)
		}
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: opacity %v for %s out of range", ErrInvalid, v, name)
		}
	}
	return nil
}

// Request builds the chart request for the configured birth data. A zero
// birth time means now.
func (c Config) Request(now time.Time) ephem.Request {
	t := c.Birth.Time
	if t.IsZero() {
		t = now
	}
	return ephem.Request{
		Name: c.Birth.Name,
		Time: t.UTC(),
		Location: chart.Location{
			Name:   c.Birth.Place,
			LatDeg: c.Birth.Latitude,
			LonDeg: c.Birth.Longitude,
		},
		HouseSystem: chart.ParseHouseSystem(c.Birth.HouseSystem),
	}
}

// ProviderOptions converts the provider section to HTTP options.
func (c Config) ProviderOptions() []ephem.HTTPOption {
	var opts []ephem.HTTPOption
	if c.Provider.URL != "" {
		opts = append(opts, ephem.WithURL(c.Provider.URL))
	}
	if c.Provider.Timeout.Duration > 0 {
		opts = append(opts, ephem.WithTimeout(c.Provider.Timeout.Duration))
	}
	return opts
}
