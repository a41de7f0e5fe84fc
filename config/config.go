// Package config loads the run configuration and assembles the simulation
// platform from it.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/meshguard/localizer"
)

// NoFile marks an absent weights or operators file. Without either file the
// localizer is not built.
const NoFile = "none"

// MeshConfig is the size of the mesh.
type MeshConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// TriggerConfig selects the routers that raise suspicions on their own and
// when they start doing so.
type TriggerConfig struct {
	StartCycle uint64 `yaml:"start_cycle"`
	Nodes      []int  `yaml:"nodes"`
}

// Config holds the parameters of a run.
type Config struct {
	Mesh MeshConfig `yaml:"mesh"`

	// VirtualChannels is the number of virtual channels per port in the
	// telemetry. VirtualChannel is the one features are read from.
	VirtualChannels int `yaml:"virtual_channels"`
	VirtualChannel  int `yaml:"virtual_channel"`

	WeightsFile   string `yaml:"weights_file"`
	OperatorsFile string `yaml:"operators_file"`

	// Timeout is the rate-limit window of self-raised suspicions, in cycles.
	Timeout int           `yaml:"timeout"`
	Trigger TriggerConfig `yaml:"trigger"`

	MaxCycles   uint64  `yaml:"max_cycles"`
	ResetCycles uint64  `yaml:"reset_cycles"`
	FreqGHz     float64 `yaml:"freq_ghz"`

	// TelemetryTrace is an optional CSV file replayed into the telemetry
	// store.
	TelemetryTrace string `yaml:"telemetry_trace"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration of an 8x8 mesh. No router raises
// suspicions until trigger nodes are configured.
func Default() *Config {
	return &Config{
		Mesh:            MeshConfig{Width: 8, Height: 8},
		VirtualChannels: 4,
		VirtualChannel:  0,
		WeightsFile:     NoFile,
		OperatorsFile:   NoFile,
		Timeout:         localizer.DefaultTimeout,
		Trigger: TriggerConfig{
			StartCycle: 5500,
		},
		MaxCycles:   10000,
		ResetCycles: 1000,
		FreqGHz:     1,
		LogLevel:    "info",
	}
}

// Load reads a YAML configuration on top of the defaults. Relative file paths
// are resolved against the directory of the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	dir := filepath.Dir(path)
	c.WeightsFile = resolve(dir, c.WeightsFile)
	c.OperatorsFile = resolve(dir, c.OperatorsFile)
	c.TelemetryTrace = resolve(dir, c.TelemetryTrace)

	return c, nil
}

func resolve(dir, path string) string {
	if isNoFile(path) || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(dir, path)
}

func isNoFile(path string) bool {
	return path == "" || path == NoFile
}

// Enabled checks if both the weights and the operators are given.
func (c *Config) Enabled() bool {
	return !isNoFile(c.WeightsFile) && !isNoFile(c.OperatorsFile)
}

// HasTelemetryTrace checks if a telemetry trace is given.
func (c *Config) HasTelemetryTrace() bool {
	return !isNoFile(c.TelemetryTrace)
}

// Validate checks that the configuration describes a runnable platform.
func (c *Config) Validate() error {
	if c.Mesh.Width <= 0 || c.Mesh.Height <= 0 {
		return fmt.Errorf("invalid mesh size %dx%d", c.Mesh.Width, c.Mesh.Height)
	}

	if c.VirtualChannels <= 0 {
		return fmt.Errorf("virtual_channels must be > 0")
	}

	if c.VirtualChannel < 0 || c.VirtualChannel >= c.VirtualChannels {
		return fmt.Errorf("virtual_channel %d out of %d channels",
			c.VirtualChannel, c.VirtualChannels)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0")
	}

	if c.MaxCycles == 0 {
		return fmt.Errorf("max_cycles must be > 0")
	}

	if c.FreqGHz <= 0 {
		return fmt.Errorf("freq_ghz must be > 0")
	}

	n := c.Mesh.Width * c.Mesh.Height
	for _, id := range c.Trigger.Nodes {
		if id < 0 || id >= n {
			return fmt.Errorf("trigger node %d outside %dx%d mesh",
				id, c.Mesh.Width, c.Mesh.Height)
		}
	}

	if _, err := c.Level(); err != nil {
		return err
	}

	return nil
}

// Level returns the log level. Besides the slog levels, "trace" selects the
// protocol events of the localizer.
func (c *Config) Level() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "trace":
		return localizer.LevelTrace, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
}
