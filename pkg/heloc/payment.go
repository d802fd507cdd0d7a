package heloc

import "math"

// ComputePayment calculates the fixed per-period payment for the given terms
// using the standard amortization formula. For interest-only terms the
// payment covers interest on the initial principal; the balloon is handled by
// the schedule generator. Returns an InvalidInputError for out-of-range
// terms.
func ComputePayment(terms LoanTerms) (float64, error) {
	if err := terms.Validate(); err != nil {
		return 0, err
	}

	n := terms.Periods()
	periodicRate := terms.PeriodicRate()

	if terms.InterestOnly {
		return terms.Principal * periodicRate, nil
	}

	if terms.AnnualRatePct == 0 {
		return terms.Principal / float64(n), nil
	}

	power := math.Pow(1.00+periodicRate, float64(n))
	discountFactor := (power - 1.00) / power
	if discountFactor <= 0 {
		// (1+i)^n - 1 underflowed for a vanishingly small rate; the annuity
		// formula degenerates to the straight-line split.
		return terms.Principal / float64(n), nil
	}
	return terms.Principal * periodicRate / discountFactor, nil
}
