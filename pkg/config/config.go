package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Sumatoshi-tech/gitbloat/pkg/blobclass"
	"github.com/Sumatoshi-tech/gitbloat/pkg/report"
)

// Sentinel validation errors.
var (
	ErrInvalidShow     = errors.New("scan.show must be positive")
	ErrInvalidDetector = errors.New("invalid scan.detector")
	ErrInvalidFormat   = errors.New("invalid output.format")
	ErrInvalidLevel    = errors.New("invalid logging.level")
	ErrEmptyMarker     = errors.New("locator.marker must not be empty")
	ErrInvalidMarker   = errors.New("locator.marker must be a single path element")
)

var logLevels = []string{"debug", "info", "warn", "error"}

// Config is the full gitbloat configuration.
type Config struct {
	Scan      ScanConfig      `mapstructure:"scan"`
	Locator   LocatorConfig   `mapstructure:"locator"`
	Output    OutputConfig    `mapstructure:"output"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// ScanConfig controls the ranking pass.
type ScanConfig struct {
	Detector string `mapstructure:"detector"`
	Show     int    `mapstructure:"show"`
	// LimitRanking bounds the ranking to Show entries instead of retaining
	// every blob.
	LimitRanking bool `mapstructure:"limit_ranking"`
}

// LocatorConfig controls repository root discovery.
type LocatorConfig struct {
	Marker    string `mapstructure:"marker"`
	StrictDir bool   `mapstructure:"strict_dir"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// LoggingConfig controls the slog logger.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// MetricsConfig controls Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// TelemetryConfig controls OTLP export.
type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool   `mapstructure:"otlp_insecure"`
}

// RankingLimit returns the ranking capacity the engine should use: Show when
// the ranking is bounded, 0 (unbounded) otherwise.
func (c *Config) RankingLimit() int {
	if c.Scan.LimitRanking {
		return c.Scan.Show
	}

	return 0
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if c.Scan.Show <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidShow, c.Scan.Show)
	}

	if !slices.Contains(blobclass.Names(), c.Scan.Detector) {
		return fmt.Errorf("%w: %q (available: %v)", ErrInvalidDetector, c.Scan.Detector, blobclass.Names())
	}

	if !slices.Contains(report.Formats(), c.Output.Format) {
		return fmt.Errorf("%w: %q (available: %v)", ErrInvalidFormat, c.Output.Format, report.Formats())
	}

	if !slices.Contains(logLevels, strings.ToLower(c.Logging.Level)) {
		return fmt.Errorf("%w: %q (available: %v)", ErrInvalidLevel, c.Logging.Level, logLevels)
	}

	if c.Locator.Marker == "" {
		return ErrEmptyMarker
	}

	if strings.ContainsRune(c.Locator.Marker, '/') {
		return fmt.Errorf("%w: %q", ErrInvalidMarker, c.Locator.Marker)
	}

	return nil
}
