package heloc

import (
	"time"

	"github.com/Oldmanrunning/HELOC/pkg/mathutil"
)

// KPISummary reduces a schedule to its headline numbers.
type KPISummary struct {
	// MonthlyPayment is the payment of period 1.
	MonthlyPayment float64
	// TotalInterest is the sum of the interest column.
	TotalInterest float64
	// TotalPaid is the sum of the payment and draw columns.
	TotalPaid float64
	// TotalPrincipal is the sum of the principal column.
	TotalPrincipal float64
	// TotalDrawn is the sum of the draw column.
	TotalDrawn float64
	// RemainingBalance is the balance of the last period.
	RemainingBalance float64
	// Periods is the schedule length.
	Periods int
	// NextPaymentDue is the date of the first period carrying a positive
	// balance, nil when the schedule is empty or fully paid down immediately.
	NextPaymentDue *time.Time
}

// Summarize reduces a schedule to a KPISummary in one pass. An empty schedule
// yields zeroed metrics with no due date.
func Summarize(schedule Schedule) KPISummary {
	var summary KPISummary
	if len(schedule) == 0 {
		return summary
	}

	summary.MonthlyPayment = schedule[0].Payment
	for _, p := range schedule {
		summary.TotalInterest += p.Interest
		summary.TotalPaid += p.Payment + p.Draw
		summary.TotalPrincipal += p.Principal
		summary.TotalDrawn += p.Draw
		if summary.NextPaymentDue == nil && p.Balance > 0 {
			due := p.Date
			summary.NextPaymentDue = &due
		}
	}

	summary.TotalInterest = mathutil.Round(summary.TotalInterest)
	summary.TotalPaid = mathutil.Round(summary.TotalPaid)
	summary.TotalPrincipal = mathutil.Round(summary.TotalPrincipal)
	summary.TotalDrawn = mathutil.Round(summary.TotalDrawn)
	summary.RemainingBalance = schedule[len(schedule)-1].Balance
	summary.Periods = len(schedule)
	return summary
}
