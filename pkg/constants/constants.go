// Package constants provides shared constants for the finance-flags application.
package constants

// Evaluation thresholds
const (
	// MinRevenue is the net revenue at or above which the revenue flag is GREEN (5 crore).
	MinRevenue = 50_000_000

	// MaxBorrowingRatio is the borrowing to revenue ratio at or below which the
	// borrowing flag is GREEN.
	MaxBorrowingRatio = 0.25

	// MinISCR is the interest service coverage ratio at or above which the ISCR
	// flag is GREEN.
	MinISCR = 2

	// MissingValueSentinel is the value reported for a metric whose inputs are
	// absent from the document.
	MissingValueSentinel = 4

	// DefaultReportingPeriod is the index used when no STANDALONE entry exists.
	DefaultReportingPeriod = 0
)

// Missing data policies
const (
	// MissingDataSentinel substitutes MissingValueSentinel for absent metrics.
	MissingDataSentinel = "sentinel"

	// MissingDataFlag propagates absent metrics and classifies them as WHITE.
	MissingDataFlag = "flag"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// EnvPrefix prefixes environment overrides, e.g. FINFLAGS_SERVER_ADDRESS.
	EnvPrefix = "FINFLAGS"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for financial documents (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultMaxUploadSize is DefaultMaxUploadSizeBytes in configuration notation.
	DefaultMaxUploadSize = "256K"

	// DefaultReadTimeout bounds reading a full request, upload included.
	DefaultReadTimeout = "10s"

	// DefaultWriteTimeout bounds writing the response.
	DefaultWriteTimeout = "15s"

	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = "10s"
)
