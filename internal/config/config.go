// Package config loads ntbreak settings from defaults, an optional YAML
// file and NTBREAK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Sumatoshi-tech/ntbreak/internal/report"
)

// Config is the top-level configuration struct for ntbreak.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Break     BreakConfig     `mapstructure:"break"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// BreakConfig holds settings of the break command.
type BreakConfig struct {
	MaxTriples    int    `mapstructure:"max_triples"`
	Pattern       string `mapstructure:"pattern"`
	Workers       int    `mapstructure:"workers"`
	Compress      bool   `mapstructure:"compress"`
	SummaryFormat string `mapstructure:"summary_format"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// TelemetryConfig holds tracing and metrics export settings.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	Environment  string  `mapstructure:"environment"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	MetricsAddr  string  `mapstructure:"metrics_addr"`
}

// MinMaxTriples is the smallest accepted chunk size for batch runs.
const MinMaxTriples = 100

// Sentinel errors for configuration validation.
var (
	// ErrMaxTriplesTooSmall indicates break.max_triples is below [MinMaxTriples].
	ErrMaxTriplesTooSmall = errors.New("break.max_triples must be at least 100")
	// ErrInvalidWorkers indicates break.workers is negative.
	ErrInvalidWorkers = errors.New("break.workers must be non-negative")
	// ErrInvalidSummaryFormat indicates an unsupported break.summary_format.
	ErrInvalidSummaryFormat = errors.New("break.summary_format is not supported")
	// ErrInvalidLogLevel indicates an unknown logging.level.
	ErrInvalidLogLevel = errors.New("logging.level must be debug, info, warn or error")
	// ErrInvalidSampleRatio indicates telemetry.sample_ratio is outside [0, 1].
	ErrInvalidSampleRatio = errors.New("telemetry.sample_ratio must be between 0 and 1")
)

// Validate checks all configuration values.
func (c *Config) Validate() error {
	if c.Break.MaxTriples < MinMaxTriples {
		return fmt.Errorf("%w: %d", ErrMaxTriplesTooSmall, c.Break.MaxTriples)
	}

	if c.Break.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Break.Workers)
	}

	if report.ValidateFormat(c.Break.SummaryFormat) != nil {
		return fmt.Errorf("%w: %q", ErrInvalidSummaryFormat, c.Break.SummaryFormat)
	}

	_, err := ParseLevel(c.Logging.Level)
	if err != nil {
		return err
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRatio, c.Telemetry.SampleRatio)
	}

	return nil
}

// ParseLevel converts a level name to a [slog.Level].
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, name)
	}
}
