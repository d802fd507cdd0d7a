package cache

import (
	"context"
	"testing"
	"time"

	"github.com/Oldmanrunning/HELOC/pkg/heloc"
	"github.com/Oldmanrunning/HELOC/pkg/mathutil"
)

func testTerms() heloc.LoanTerms {
	return heloc.LoanTerms{
		Principal:     50000,
		AnnualRatePct: 8.5,
		TermYears:     10,
		StartDate:     time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

func assertSchedulesEqual(t *testing.T, a, b heloc.Schedule) {
	t.Helper()
	if len(a) != len(b) {
		t.Fatalf("schedule lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Period != b[i].Period || !a[i].Date.Equal(b[i].Date) {
			t.Fatalf("period %d identity differs: %+v vs %+v", i+1, a[i], b[i])
		}
		numericA := [5]float64{a[i].Draw, a[i].Payment, a[i].Principal, a[i].Interest, a[i].Balance}
		numericB := [5]float64{b[i].Draw, b[i].Payment, b[i].Principal, b[i].Interest, b[i].Balance}
		if numericA != numericB {
			t.Fatalf("period %d numeric columns differ: %v vs %v", i+1, numericA, numericB)
		}
	}
}

func TestMemoizerHitMatchesRecomputation(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory(8)
	m := NewMemoizer(mem, nil, nil)
	terms := testTerms()

	first, err := m.Generate(ctx, terms, nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if mem.Len() != 1 {
		t.Fatalf("cache holds %d entries after first call, expected 1", mem.Len())
	}

	second, err := m.Generate(ctx, terms, nil)
	if err != nil {
		t.Fatalf("Generate() on warm cache error = %v", err)
	}
	if mem.Len() != 1 {
		t.Errorf("cache holds %d entries after hit, expected still 1", mem.Len())
	}
	assertSchedulesEqual(t, first, second)

	direct, err := heloc.Generate(terms, nil)
	if err != nil {
		t.Fatalf("direct Generate() error = %v", err)
	}
	if !mathutil.WithinTolerance(second[0].Payment, direct[0].Payment, 0.001) {
		t.Errorf("cached payment %.2f differs from direct computation %.2f", second[0].Payment, direct[0].Payment)
	}
}

func TestMemoizerDrawOrderSharesKey(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory(8)
	m := NewMemoizer(mem, nil, nil)
	terms := testTerms()

	drawsA := []heloc.DrawEvent{{PeriodIndex: 6, Amount: 1000}, {PeriodIndex: 3, Amount: 500}}
	drawsB := []heloc.DrawEvent{{PeriodIndex: 3, Amount: 500}, {PeriodIndex: 6, Amount: 1000}}

	if _, err := m.Generate(ctx, terms, drawsA); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if _, err := m.Generate(ctx, terms, drawsB); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if mem.Len() != 1 {
		t.Errorf("cache holds %d entries, expected reordered draws to share one key", mem.Len())
	}
}

func TestMemoizerDistinctInputsDistinctKeys(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory(8)
	m := NewMemoizer(mem, nil, nil)

	termsA := testTerms()
	termsB := testTerms()
	termsB.AnnualRatePct = 9.0

	if _, err := m.Generate(ctx, termsA, nil); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if _, err := m.Generate(ctx, termsB, nil); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if mem.Len() != 2 {
		t.Errorf("cache holds %d entries, expected distinct rates to key separately", mem.Len())
	}
}

func TestMemoizerResolvesUnsetStartDate(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory(8)
	m := NewMemoizer(mem, nil, nil)

	terms := testTerms()
	terms.StartDate = time.Time{}
	asOf := time.Date(2026, time.March, 15, 10, 30, 0, 0, time.UTC)

	schedule, err := m.GenerateAsOf(ctx, terms, nil, asOf)
	if err != nil {
		t.Fatalf("GenerateAsOf() error = %v", err)
	}
	expected := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	if !schedule[0].Date.Equal(expected) {
		t.Errorf("first period date = %v, expected resolved as-of date %v", schedule[0].Date, expected)
	}
}

func TestMemoizerPropagatesInvalidInput(t *testing.T) {
	ctx := context.Background()
	m := NewMemoizer(NewMemory(8), nil, nil)

	terms := testTerms()
	terms.Principal = -1
	if _, err := m.Generate(ctx, terms, nil); err == nil || !heloc.IsInvalidInput(err) {
		t.Errorf("Generate() error = %v, expected InvalidInputError to propagate", err)
	}
}
