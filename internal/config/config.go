package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/OCharnyshevich/fakeentity/internal/metadata"
)

// Config holds the simulator configuration.
type Config struct {
	ViewRadius           float64 `yaml:"view_radius"`           // blocks, negative = unbounded
	Protocol             string  `yaml:"protocol"`              // default viewer protocol, e.g. "1.8"
	RerenderInterval     int     `yaml:"rerender_interval"`     // ticks between visibility sweeps
	ResyncInterval       int     `yaml:"resync_interval"`       // ticks between absolute teleports
	TickRate             int     `yaml:"tick_rate"`             // ticks per second
	CompressionThreshold int     `yaml:"compression_threshold"` // bytes, negative = no compression
	ObserverAddr         string  `yaml:"observer_addr"`         // empty disables the observer
	KindsFile            string  `yaml:"kinds_file"`            // extra kind tables, file or directory
	Scenario             string  `yaml:"scenario"`
	LogLevel             string  `yaml:"log_level"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ViewRadius:           64,
		Protocol:             "1.8",
		RerenderInterval:     20,
		ResyncInterval:       400,
		TickRate:             20,
		CompressionThreshold: 256,
		LogLevel:             "info",
	}
}

// Load reads a YAML config file over the defaults. A missing file is not
// an error and yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Merge applies file-loaded config values into cfg, but only for fields
// that were NOT explicitly set via CLI flags. explicitFlags contains the
// flag names that were explicitly provided on the command line.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	if !explicitFlags["view-radius"] {
		cfg.ViewRadius = fromFile.ViewRadius
	}
	if !explicitFlags["protocol"] {
		cfg.Protocol = fromFile.Protocol
	}
	if !explicitFlags["rerender-interval"] {
		cfg.RerenderInterval = fromFile.RerenderInterval
	}
	if !explicitFlags["resync-interval"] {
		cfg.ResyncInterval = fromFile.ResyncInterval
	}
	if !explicitFlags["tick-rate"] {
		cfg.TickRate = fromFile.TickRate
	}
	if !explicitFlags["compression-threshold"] {
		cfg.CompressionThreshold = fromFile.CompressionThreshold
	}
	if !explicitFlags["observer"] {
		cfg.ObserverAddr = fromFile.ObserverAddr
	}
	if !explicitFlags["kinds"] {
		cfg.KindsFile = fromFile.KindsFile
	}
	if !explicitFlags["scenario"] {
		cfg.Scenario = fromFile.Scenario
	}
	if !explicitFlags["log-level"] {
		cfg.LogLevel = fromFile.LogLevel
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := c.Version(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	switch {
	case c.TickRate <= 0:
		return fmt.Errorf("tick_rate must be positive, got %d", c.TickRate)
	case c.RerenderInterval <= 0:
		return fmt.Errorf("rerender_interval must be positive, got %d", c.RerenderInterval)
	case c.ResyncInterval < 0:
		return fmt.Errorf("resync_interval must not be negative, got %d", c.ResyncInterval)
	case c.Scenario == "":
		return errors.New("no scenario given")
	}
	return nil
}

// Version resolves the configured protocol name.
func (c *Config) Version() (metadata.Version, error) {
	return metadata.ParseVersion(c.Protocol)
}

// Level resolves the configured log level.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}
