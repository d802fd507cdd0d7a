// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/Oldmanrunning/HELOC/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Schedule rows are rounded per period with this function.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// IsZero checks if a value is effectively zero (within currency tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// IsPositive checks if a value is positive (greater than tolerance)
func IsPositive(val float64) bool {
	return val > constants.CurrencyTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// ApplyPercentage applies a percentage to a value
func ApplyPercentage(value, percentage float64) float64 {
	return value * (percentage / constants.PercentageMultiplier)
}
