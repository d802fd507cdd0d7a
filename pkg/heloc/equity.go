package heloc

// FeeSchedule carries the upfront and recurring fees quoted alongside a
// HELOC. Fees are display values only and never enter the amortization math.
type FeeSchedule struct {
	Application float64
	Appraisal   float64
	Origination float64
	Annual      float64
	Closing     float64
}

// Total returns the sum of all quoted fees.
func (f FeeSchedule) Total() float64 {
	return f.Application + f.Appraisal + f.Origination + f.Annual + f.Closing
}

// LoanToValue computes (borrowed + existing) / homeValue. A zero or negative
// home value yields 0 rather than dividing by zero.
func LoanToValue(borrowed, existingLoan, homeValue float64) float64 {
	if homeValue <= 0 {
		return 0
	}
	return (borrowed + existingLoan) / homeValue
}
