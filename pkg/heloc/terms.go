// Package heloc implements the HELOC amortization engine: payment
// calculation, period-by-period schedule generation with mid-term draws and
// interest-only phases, and KPI summarization of generated schedules.
package heloc

import (
	"fmt"
	"math"
	"time"

	"github.com/Oldmanrunning/HELOC/pkg/constants"
)

// LoanTerms holds the immutable inputs of one calculation.
type LoanTerms struct {
	// Principal is the borrowed amount in USD. Must be positive.
	Principal float64
	// AnnualRatePct is the APR as a percentage in [0, 100).
	AnnualRatePct float64
	// TermYears is the repayment term. Must be positive.
	TermYears float64
	// PaymentsPerYear defaults to 12 when zero.
	PaymentsPerYear int
	// InterestOnly selects interest-only payments with a final balloon.
	InterestOnly bool
	// StartDate anchors the schedule dates. The zero value means "as of the
	// invocation", resolved by the caller-supplied reference time; the engine
	// never reads the system clock itself.
	StartDate time.Time
}

// DrawEvent is an additional amount borrowed against the line mid-term.
// PeriodIndex is the 0-based month offset from the start of the schedule;
// multiple events targeting the same period are summed.
type DrawEvent struct {
	PeriodIndex int
	Amount      float64
}

func (t LoanTerms) paymentsPerYear() int {
	if t.PaymentsPerYear == 0 {
		return constants.DefaultPaymentsPerYear
	}
	return t.PaymentsPerYear
}

// Periods returns the integer number of payment periods in the term.
func (t LoanTerms) Periods() int {
	return int(math.Round(t.TermYears * float64(t.paymentsPerYear())))
}

// PeriodicRate returns the per-period interest rate.
func (t LoanTerms) PeriodicRate() float64 {
	return t.AnnualRatePct / constants.PercentageMultiplier / float64(t.paymentsPerYear())
}

// Validate checks the strict-path constraints and returns an
// InvalidInputError naming the offending field.
func (t LoanTerms) Validate() error {
	if t.Principal <= 0 {
		return invalidInput("principal", "must be positive")
	}
	if t.AnnualRatePct < 0 || t.AnnualRatePct >= constants.MaxAnnualRatePct {
		return invalidInput("annualRatePct", fmt.Sprintf("must be in [0, %v)", constants.MaxAnnualRatePct))
	}
	if t.TermYears <= 0 {
		return invalidInput("termYears", "must be positive")
	}
	if t.PaymentsPerYear < 0 {
		return invalidInput("paymentsPerYear", "must be at least 1")
	}
	if t.Periods() <= 0 {
		return invalidInput("termYears", "term resolves to zero payment periods")
	}
	return nil
}

// validateDraws rejects non-positive draw amounts and draws landing outside
// the schedule. Silent fallback to "no draws" on bad input hides user errors,
// so the strict path refuses instead.
func validateDraws(draws []DrawEvent, periods int) error {
	for _, d := range draws {
		if d.Amount <= 0 {
			return invalidInput("draws", fmt.Sprintf("draw amount %.2f at month %d must be positive", d.Amount, d.PeriodIndex))
		}
		if d.PeriodIndex < 0 || d.PeriodIndex >= periods {
			return invalidInput("draws", fmt.Sprintf("draw month %d is outside the %d-period term", d.PeriodIndex, periods))
		}
	}
	return nil
}

// drawTotals aggregates draw amounts per period index. Order of the input
// slice is irrelevant.
func drawTotals(draws []DrawEvent) map[int]float64 {
	if len(draws) == 0 {
		return nil
	}
	totals := make(map[int]float64, len(draws))
	for _, d := range draws {
		totals[d.PeriodIndex] += d.Amount
	}
	return totals
}
