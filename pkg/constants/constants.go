// Package constants provides shared constants for the HELOC calculator.
package constants

// DateTimeLayout is the ISO date format used for schedule rows, exports, and
// config files.
const DateTimeLayout = "2006-01-02"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DefaultPaymentsPerYear is the payment frequency assumed when none is given
	DefaultPaymentsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// MaxAnnualRatePct is the exclusive upper bound for APR inputs
	MaxAnnualRatePct = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the structured record output format
	OutputFormatJSON = "json"

	// OutputFormatReport is the short text summary output format
	OutputFormatReport = "report"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodyBytes is the default maximum request body size (256 KB)
	DefaultMaxBodyBytes int64 = 256 * 1024
)

// Cache configuration defaults
const (
	// DefaultCacheEntries is the default bound for the in-memory schedule cache
	DefaultCacheEntries = 128
)
