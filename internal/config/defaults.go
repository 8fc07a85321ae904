package config

import "github.com/Sumatoshi-tech/ntbreak/internal/report"

// Break command defaults.
const (
	DefaultMaxTriples    = 100_000
	DefaultPattern       = "**/*.nt"
	DefaultWorkers       = 1
	DefaultCompress      = false
	DefaultSummaryFormat = report.FormatText
)

// Logging defaults.
const (
	DefaultLogLevel = "info"
	DefaultLogJSON  = false
)

// Telemetry defaults.
const (
	DefaultOTLPInsecure = false
	DefaultSampleRatio  = 0.0
)
