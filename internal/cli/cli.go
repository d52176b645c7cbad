// Package cli implements the ls-natal command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-natal/internal/config"
	"github.com/litescript/ls-natal/internal/ephem"
	"github.com/litescript/ls-natal/internal/layer"
	"github.com/litescript/ls-natal/internal/logging"
	"github.com/litescript/ls-natal/internal/version"
	"github.com/litescript/ls-natal/internal/wheel"
)

const appName = "ls-natal"

// CLI holds state shared by all commands. It is filled in by the root
// command's PersistentPreRunE before any command runs.
type CLI struct {
	stderr io.Writer

	// Persistent flags
	configPath  string
	logLevel    string
	provider    string
	birthTime   string
	latitude    float64
	longitude   float64
	name        string
	houseSystem string

	cfg    config.Config
	logger *logging.Logger
}

// New creates a CLI whose diagnostics go to stderr.
func New(stderr io.Writer) *CLI {
	return &CLI{
		stderr: stderr,
		cfg:    config.Default(),
		logger: logging.NewWithWriter(stderr, logging.LevelInfo),
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
// Without a subcommand it starts the terminal UI.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "ls-natal draws astrological chart wheels in the terminal",
		Long:         `ls-natal casts a birth or transit chart and draws it as a layered wheel: zodiac, houses, planets, aspects and optional extras that can be toggled on and off.`,
		Version:      version.Version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI(cmd)
		},
	}

	f := root.PersistentFlags()
	f.StringVarP(&c.configPath, "config", "c", "", "path to a TOML config file")
	f.StringVar(&c.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	f.StringVar(&c.provider, "provider", "", "chart source (local, remote, auto)")
	f.StringVar(&c.birthTime, "time", "", `chart time, RFC 3339 or "now"`)
	f.Float64Var(&c.latitude, "lat", 0, "latitude in degrees, north positive")
	f.Float64Var(&c.longitude, "lon", 0, "longitude in degrees, east positive")
	f.StringVar(&c.name, "name", "", "chart name")
	f.StringVar(&c.houseSystem, "house-system", "", "house system (equal, whole-sign, porphyry)")

	root.AddCommand(c.newRenderCmd())
	root.AddCommand(c.newLayersCmd())
	root.AddCommand(c.newSummaryCmd())
	root.AddCommand(c.newServeCmd())
	return root
}

// setup loads the config file, applies flag overrides and builds the logger.
func (c *CLI) setup(cmd *cobra.Command) error {
	cfg := config.Default()
	if c.configPath != "" {
		var err error
		if cfg, err = config.Load(c.configPath); err != nil {
			return err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.View.LogLevel = c.logLevel
	}
	if flags.Changed("provider") {
		cfg.Provider.Mode = c.provider
	}
	if flags.Changed("time") {
		t, err := parseTime(c.birthTime)
		if err != nil {
			return err
		}
		cfg.Birth.Time = t
	}
	if flags.Changed("lat") {
		cfg.Birth.Latitude = c.latitude
	}
	if flags.Changed("lon") {
		cfg.Birth.Longitude = c.longitude
	}
	if flags.Changed("name") {
		cfg.Birth.Name = c.name
	}
	if flags.Changed("house-system") {
		cfg.Birth.HouseSystem = c.houseSystem
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.cfg = cfg
	c.logger.SetLevel(logging.ParseLevel(cfg.View.LogLevel))
	c.logger.Debug("config loaded: provider=%s house_system=%s", cfg.Provider.Mode, cfg.Birth.HouseSystem)
	return nil
}

// parseTime accepts RFC 3339, a bare date-time in UTC, or "now" (zero).
func parseTime(s string) (time.Time, error) {
	if s == "" || strings.EqualFold(s, "now") {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: cannot parse time %q", config.ErrInvalid, s)
}

// newProvider builds the configured chart source.
func (c *CLI) newProvider(logger *logging.Logger) ephem.Provider {
	return ephem.New(ephem.ParseMode(c.cfg.Provider.Mode), logger, c.cfg.ProviderOptions()...)
}

// newLayers builds a manager with draw functions and the config overrides.
// Rejected overrides are returned.
func (c *CLI) newLayers(logger *logging.Logger) (*layer.Manager, []*layer.MissingDependenciesError) {
	m := layer.NewManager(layer.DefaultCatalog(), layer.WithLogger(logger))
	wheel.NewPainter().Register(m)
	return m, c.cfg.ApplyLayers(m)
}

// applyFlagLayers applies --hide then --show through the dependency guard.
func applyFlagLayers(m *layer.Manager, show, hide []string) ([]*layer.MissingDependenciesError, error) {
	for _, name := range slices.Concat(hide, show) {
		if _, ok := layer.ParseID(name); !ok {
			return nil, fmt.Errorf("%w: unknown layer %q", config.ErrInvalid, name)
		}
	}
	return config.Layers{Show: show, Hide: hide}.Apply(m), nil
}

// warnRejected reports rejected layer requests on stderr.
func (c *CLI) warnRejected(rejected []*layer.MissingDependenciesError) {
	for _, e := range rejected {
		fmt.Fprintf(c.stderr, "warning: %v\n", e)
	}
}

func joinIDs(ids []layer.ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ",")
}

// openLogFile returns a logger for the TUI, which owns the terminal.
func openLogFile(path string, level logging.Level) (*logging.Logger, func(), error) {
	if path == "" {
		return logging.Discard(), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return logging.NewWithWriter(f, level), func() { f.Close() }, nil
}

// IsUsageError reports errors caused by bad flags or config rather than by
// a failed operation.
func IsUsageError(err error) bool {
	return errors.Is(err, config.ErrInvalid)
}
