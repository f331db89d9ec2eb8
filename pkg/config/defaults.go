// Package config loads gitbloat settings from .gitbloat.yaml, GITBLOAT_*
// environment variables and built-in defaults.
package config

// Scan defaults.
const (
	DefaultScanShow         = 100
	DefaultScanLimitRanking = true
	DefaultScanDetector     = "enry"
)

// Locator defaults.
const (
	DefaultLocatorMarker    = ".git"
	DefaultLocatorStrictDir = false
)

// Output defaults.
const (
	DefaultOutputFormat = "text"
	DefaultOutputColor  = true
)

// Logging defaults.
const (
	DefaultLoggingLevel = "warn"
	DefaultLoggingJSON  = false
)

// Telemetry defaults.
const (
	DefaultMetricsTextfile       = ""
	DefaultTelemetryOTLPEndpoint = ""
	DefaultTelemetryOTLPInsecure = false
)
