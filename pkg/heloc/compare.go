package heloc

import (
	"time"

	"github.com/Oldmanrunning/HELOC/pkg/mathutil"
)

// Comparison contrasts a loan against the same loan at an alternative APR.
// Deltas are alternative minus base.
type Comparison struct {
	Base                KPISummary
	Alternative         KPISummary
	MonthlyPaymentDelta float64
	TotalInterestDelta  float64
}

// Compare generates and summarizes schedules for the given terms and for the
// same terms at altRatePct, using the current time for an unset start date.
func (g *ScheduleGenerator) Compare(terms LoanTerms, altRatePct float64, draws []DrawEvent) (Comparison, error) {
	return g.CompareAsOf(terms, altRatePct, draws, time.Now())
}

// CompareAsOf is the deterministic form of Compare.
func (g *ScheduleGenerator) CompareAsOf(terms LoanTerms, altRatePct float64, draws []DrawEvent, asOf time.Time) (Comparison, error) {
	base, err := g.GenerateAsOf(terms, draws, asOf)
	if err != nil {
		return Comparison{}, err
	}

	altTerms := terms
	altTerms.AnnualRatePct = altRatePct
	alt, err := g.GenerateAsOf(altTerms, draws, asOf)
	if err != nil {
		return Comparison{}, err
	}

	comparison := Comparison{
		Base:        Summarize(base),
		Alternative: Summarize(alt),
	}
	comparison.MonthlyPaymentDelta = mathutil.Round(comparison.Alternative.MonthlyPayment - comparison.Base.MonthlyPayment)
	comparison.TotalInterestDelta = mathutil.Round(comparison.Alternative.TotalInterest - comparison.Base.TotalInterest)
	return comparison, nil
}
