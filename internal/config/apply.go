package config

// positive constrains types eligible for skip-on-zero overrides.
type positive interface {
	~int | ~float64
}

// applyPositive sets *dst = value when value is positive.
// Zero values are skipped, keeping the loaded setting.
func applyPositive[T positive](dst *T, value T) {
	if value > 0 {
		*dst = value
	}
}

// applyNonEmpty sets *dst = value when value is non-empty.
func applyNonEmpty(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// applyBool sets *dst = *value when value is non-nil.
// Nil means the flag was not given; false is a meaningful override.
func applyBool(dst *bool, value *bool) {
	if value != nil {
		*dst = *value
	}
}

// Overrides carries command-line values that take precedence over the
// loaded configuration. Zero values leave the loaded setting untouched.
type Overrides struct {
	MaxTriples    int
	Pattern       string
	Workers       int
	Compress      *bool
	SummaryFormat string
	LogLevel      string
	LogJSON       *bool
	OTLPEndpoint  string
	MetricsAddr   string
}

// Apply merges the overrides into cfg and revalidates the result.
func (o Overrides) Apply(cfg *Config) error {
	applyPositive(&cfg.Break.MaxTriples, o.MaxTriples)
	applyNonEmpty(&cfg.Break.Pattern, o.Pattern)
	applyPositive(&cfg.Break.Workers, o.Workers)
	applyBool(&cfg.Break.Compress, o.Compress)
	applyNonEmpty(&cfg.Break.SummaryFormat, o.SummaryFormat)

	applyNonEmpty(&cfg.Logging.Level, o.LogLevel)
	applyBool(&cfg.Logging.JSON, o.LogJSON)

	applyNonEmpty(&cfg.Telemetry.OTLPEndpoint, o.OTLPEndpoint)
	applyNonEmpty(&cfg.Telemetry.MetricsAddr, o.MetricsAddr)

	return cfg.Validate()
}
