package heloc

import (
	"math"
	"testing"
	"time"

	"github.com/Oldmanrunning/HELOC/pkg/mathutil"
)

var testStart = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

func mustGenerate(t *testing.T, terms LoanTerms, draws []DrawEvent) Schedule {
	t.Helper()
	schedule, err := Generate(terms, draws)
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	return schedule
}

func TestGenerateStandardLoan(t *testing.T) {
	terms := LoanTerms{Principal: 50000, AnnualRatePct: 8.5, TermYears: 10, StartDate: testStart}
	schedule := mustGenerate(t, terms, nil)

	if len(schedule) != 120 {
		t.Fatalf("schedule length = %d, expected 120", len(schedule))
	}
	first := schedule[0]
	if first.Payment < 619.90 || first.Payment > 619.95 {
		t.Errorf("first payment = %.2f, expected around 619.93", first.Payment)
	}
	if !first.Date.Equal(testStart) {
		t.Errorf("first period date = %v, expected %v", first.Date, testStart)
	}
	last := schedule[len(schedule)-1]
	if last.Balance != 0 {
		t.Errorf("final balance = %.2f, expected 0", last.Balance)
	}
	if !last.Date.Equal(testStart.AddDate(0, 119, 0)) {
		t.Errorf("final period date = %v, expected %v", last.Date, testStart.AddDate(0, 119, 0))
	}

	totalInterest := 0.0
	totalPrincipal := 0.0
	for _, p := range schedule {
		totalInterest += p.Interest
		totalPrincipal += p.Principal
	}
	if totalInterest < 24380 || totalInterest > 24400 {
		t.Errorf("total interest = %.2f, expected around 24391", totalInterest)
	}
	// Amortization sum law: principal column sums to the loan amount within
	// accumulated rounding.
	if !mathutil.WithinTolerance(totalPrincipal, 50000, 120*0.01) {
		t.Errorf("total principal = %.2f, expected 50000 within rounding drift", totalPrincipal)
	}
}

func TestGenerateZeroRateLoan(t *testing.T) {
	terms := LoanTerms{Principal: 10000, AnnualRatePct: 0, TermYears: 2, StartDate: testStart}
	schedule := mustGenerate(t, terms, nil)

	if len(schedule) != 24 {
		t.Fatalf("schedule length = %d, expected 24", len(schedule))
	}
	if schedule[0].Payment != 416.67 {
		t.Errorf("monthly payment = %.2f, expected 416.67", schedule[0].Payment)
	}
	for _, p := range schedule {
		if p.Interest != 0 {
			t.Errorf("period %d interest = %.2f, expected 0", p.Period, p.Interest)
		}
	}
	if schedule[len(schedule)-1].Balance != 0 {
		t.Errorf("final balance = %.2f, expected 0", schedule[len(schedule)-1].Balance)
	}
}

func TestGenerateInterestOnly(t *testing.T) {
	terms := LoanTerms{Principal: 50000, AnnualRatePct: 5, TermYears: 10, InterestOnly: true, StartDate: testStart}
	schedule := mustGenerate(t, terms, nil)

	if len(schedule) != 120 {
		t.Fatalf("schedule length = %d, expected 120", len(schedule))
	}
	for _, p := range schedule[:119] {
		if p.Principal != 0 {
			t.Errorf("period %d principal = %.2f, expected 0 before the balloon", p.Period, p.Principal)
		}
		if p.Payment != 208.33 {
			t.Errorf("period %d payment = %.2f, expected 208.33", p.Period, p.Payment)
		}
		if p.Payment != p.Interest {
			t.Errorf("period %d payment %.2f != interest %.2f", p.Period, p.Payment, p.Interest)
		}
	}
	balloon := schedule[119]
	if balloon.Principal != 50000 {
		t.Errorf("balloon principal = %.2f, expected 50000.00", balloon.Principal)
	}
	if balloon.Payment != 50208.33 {
		t.Errorf("balloon payment = %.2f, expected 50208.33", balloon.Payment)
	}
	if balloon.Balance != 0 {
		t.Errorf("balloon balance = %.2f, expected 0", balloon.Balance)
	}
}

func TestGenerateWithDraws(t *testing.T) {
	terms := LoanTerms{Principal: 50000, AnnualRatePct: 8.5, TermYears: 10, StartDate: testStart}
	baseline := mustGenerate(t, terms, nil)
	withDraw := mustGenerate(t, terms, []DrawEvent{{PeriodIndex: 12, Amount: 5000}})

	if withDraw[12].Draw != 5000 {
		t.Fatalf("period 13 draw = %.2f, expected 5000", withDraw[12].Draw)
	}
	// The draw widens the interest base in the period it lands.
	if withDraw[12].Interest <= baseline[12].Interest {
		t.Errorf("period 13 interest %.2f not above baseline %.2f", withDraw[12].Interest, baseline[12].Interest)
	}
	// Subsequent balances stay above baseline until the payoff.
	for i := 12; i < len(baseline)-1; i++ {
		if withDraw[i].Balance <= baseline[i].Balance {
			t.Errorf("period %d balance %.2f not above baseline %.2f", i+1, withDraw[i].Balance, baseline[i].Balance)
		}
	}

	totalInterest := func(s Schedule) float64 {
		sum := 0.0
		for _, p := range s {
			sum += p.Interest
		}
		return sum
	}
	if totalInterest(withDraw) <= totalInterest(baseline) {
		t.Errorf("draw did not increase total interest: %.2f vs %.2f", totalInterest(withDraw), totalInterest(baseline))
	}
}

func TestGenerateSumsDrawsInSamePeriod(t *testing.T) {
	terms := LoanTerms{Principal: 20000, AnnualRatePct: 6, TermYears: 5, StartDate: testStart}
	split := mustGenerate(t, terms, []DrawEvent{{PeriodIndex: 6, Amount: 1000}, {PeriodIndex: 6, Amount: 2000}})
	merged := mustGenerate(t, terms, []DrawEvent{{PeriodIndex: 6, Amount: 3000}})

	if split[6].Draw != 3000 {
		t.Errorf("period 7 draw = %.2f, expected summed 3000", split[6].Draw)
	}
	for i := range merged {
		if split[i] != merged[i] {
			t.Fatalf("period %d differs between split and merged draws: %+v vs %+v", i+1, split[i], merged[i])
		}
	}
}

func TestGenerateEarlyTermination(t *testing.T) {
	// Per-period rounding pushes each principal payment up a fraction of a
	// cent, so the balance hits zero one period before the nominal term.
	terms := LoanTerms{Principal: 49.9, AnnualRatePct: 0, TermYears: 10, StartDate: testStart}
	schedule := mustGenerate(t, terms, nil)

	if len(schedule) >= 120 {
		t.Fatalf("schedule length = %d, expected early termination before 120", len(schedule))
	}
	if schedule[len(schedule)-1].Balance != 0 {
		t.Errorf("final balance = %.2f, expected 0", schedule[len(schedule)-1].Balance)
	}
}

func TestGenerateInvalidDraws(t *testing.T) {
	terms := LoanTerms{Principal: 10000, AnnualRatePct: 5, TermYears: 2, StartDate: testStart}
	tests := []struct {
		name  string
		draws []DrawEvent
	}{
		{"Negative amount", []DrawEvent{{PeriodIndex: 3, Amount: -100}}},
		{"Zero amount", []DrawEvent{{PeriodIndex: 3, Amount: 0}}},
		{"Negative period", []DrawEvent{{PeriodIndex: -1, Amount: 100}}},
		{"Period beyond term", []DrawEvent{{PeriodIndex: 24, Amount: 100}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(terms, tt.draws)
			if err == nil {
				t.Fatalf("Generate() expected error but got none")
			}
			if !IsInvalidInput(err) {
				t.Errorf("Generate() error = %v, expected InvalidInputError", err)
			}
		})
	}
}

func TestGenerateIdempotent(t *testing.T) {
	terms := LoanTerms{Principal: 30000, AnnualRatePct: 7.5, TermYears: 8, StartDate: testStart}
	draws := []DrawEvent{{PeriodIndex: 10, Amount: 2500}}

	first := mustGenerate(t, terms, draws)
	second := mustGenerate(t, terms, draws)

	if len(first) != len(second) {
		t.Fatalf("schedule lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("period %d differs between identical runs: %+v vs %+v", i+1, first[i], second[i])
		}
	}
}

func TestGenerateAsOfAnchorsOnlyDates(t *testing.T) {
	terms := LoanTerms{Principal: 30000, AnnualRatePct: 7.5, TermYears: 8}
	gen := NewScheduleGenerator(nil)

	a, err := gen.GenerateAsOf(terms, nil, time.Date(2026, time.March, 15, 10, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("GenerateAsOf() unexpected error: %v", err)
	}
	b, err := gen.GenerateAsOf(terms, nil, time.Date(2027, time.July, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("GenerateAsOf() unexpected error: %v", err)
	}

	if !a[0].Date.Equal(time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first schedule anchor = %v, expected truncated as-of date", a[0].Date)
	}
	for i := range a {
		numericA := [5]float64{a[i].Draw, a[i].Payment, a[i].Principal, a[i].Interest, a[i].Balance}
		numericB := [5]float64{b[i].Draw, b[i].Payment, b[i].Principal, b[i].Interest, b[i].Balance}
		if numericA != numericB {
			t.Errorf("period %d numeric columns differ across as-of anchors: %v vs %v", i+1, numericA, numericB)
		}
	}
}

func TestPreviewSubstitutesEmptySchedule(t *testing.T) {
	tests := []struct {
		name  string
		terms LoanTerms
		draws []DrawEvent
	}{
		{"Zero principal", LoanTerms{Principal: 0, AnnualRatePct: 5, TermYears: 10}, nil},
		{"Zero-period term", LoanTerms{Principal: 1000, AnnualRatePct: 5, TermYears: 0.01}, nil},
		{"Out-of-range rate", LoanTerms{Principal: 1000, AnnualRatePct: 120, TermYears: 10}, nil},
		{"Bad draw", LoanTerms{Principal: 1000, AnnualRatePct: 5, TermYears: 10}, []DrawEvent{{PeriodIndex: 500, Amount: 10}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule := Preview(tt.terms, tt.draws)
			if len(schedule) != 0 {
				t.Errorf("Preview() returned %d periods, expected empty schedule", len(schedule))
			}
		})
	}
}

func TestPreviewMatchesGenerateOnValidInput(t *testing.T) {
	terms := LoanTerms{Principal: 10000, AnnualRatePct: 0, TermYears: 2, StartDate: testStart}
	strict := mustGenerate(t, terms, nil)
	lenient := Preview(terms, nil)

	if len(strict) != len(lenient) {
		t.Fatalf("strict and lenient lengths differ: %d vs %d", len(strict), len(lenient))
	}
	for i := range strict {
		if strict[i] != lenient[i] {
			t.Errorf("period %d differs between strict and lenient paths", i+1)
		}
	}
}

func TestGenerateBalanceInvariant(t *testing.T) {
	terms := LoanTerms{Principal: 25000, AnnualRatePct: 9.25, TermYears: 6, StartDate: testStart}
	draws := []DrawEvent{{PeriodIndex: 5, Amount: 3000}, {PeriodIndex: 20, Amount: 1500}}
	schedule := mustGenerate(t, terms, draws)

	balance := terms.Principal
	for _, p := range schedule {
		expected := mathutil.Round(math.Max(0, balance+p.Draw-p.Principal))
		if !mathutil.WithinTolerance(p.Balance, expected, 0.011) {
			t.Errorf("period %d balance = %.2f, expected %.2f from invariant", p.Period, p.Balance, expected)
		}
		balance = p.Balance
	}
}
