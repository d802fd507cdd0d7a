package cache

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/Oldmanrunning/HELOC/pkg/datetime"
	"github.com/Oldmanrunning/HELOC/pkg/heloc"
	"go.uber.org/zap"
)

const keyPrefix = "heloc:schedule:"

// Memoizer wraps a ScheduleGenerator with a cache keyed on the exact input
// tuple. Generation is referentially transparent, so a hit is
// indistinguishable from recomputation; caching is purely an optimization
// and any cache failure falls back to computing.
type Memoizer struct {
	cache     Cache
	generator *heloc.ScheduleGenerator
	logger    *zap.Logger
}

// NewMemoizer creates a Memoizer. A nil logger is replaced with a no-op
// logger.
func NewMemoizer(c Cache, generator *heloc.ScheduleGenerator, logger *zap.Logger) *Memoizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if generator == nil {
		generator = heloc.NewScheduleGenerator(logger)
	}
	return &Memoizer{cache: c, generator: generator, logger: logger}
}

// scheduleKey is the canonical serialized form of one calculation request.
// Draws are sorted before serialization so event order never splits the key
// space.
type scheduleKey struct {
	Principal       float64           `json:"principal"`
	AnnualRatePct   float64           `json:"annualRatePct"`
	TermYears       float64           `json:"termYears"`
	PaymentsPerYear int               `json:"paymentsPerYear"`
	InterestOnly    bool              `json:"interestOnly"`
	StartDate       string            `json:"startDate"`
	Draws           []heloc.DrawEvent `json:"draws,omitempty"`
}

// Generate returns the schedule for the given terms, consulting the cache
// first. An unset start date is resolved against the current time before
// keying so cached entries stay date-stable.
func (m *Memoizer) Generate(ctx context.Context, terms heloc.LoanTerms, draws []heloc.DrawEvent) (heloc.Schedule, error) {
	return m.GenerateAsOf(ctx, terms, draws, time.Now())
}

// GenerateAsOf is the deterministic form of Generate.
func (m *Memoizer) GenerateAsOf(ctx context.Context, terms heloc.LoanTerms, draws []heloc.DrawEvent, asOf time.Time) (heloc.Schedule, error) {
	if terms.StartDate.IsZero() {
		terms.StartDate = datetime.Truncate(asOf)
	}

	sorted := append([]heloc.DrawEvent(nil), draws...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].PeriodIndex != sorted[j].PeriodIndex {
			return sorted[i].PeriodIndex < sorted[j].PeriodIndex
		}
		return sorted[i].Amount < sorted[j].Amount
	})

	key, err := m.key(terms, sorted)
	if err != nil {
		return m.generator.GenerateAsOf(terms, sorted, asOf)
	}

	if raw, ok := m.cache.Get(ctx, key); ok {
		var schedule heloc.Schedule
		if err := json.Unmarshal([]byte(raw), &schedule); err == nil {
			m.logger.Debug("schedule cache hit",
				zap.String("op", "cache.GenerateAsOf"),
				zap.Int("periods", len(schedule)),
			)
			return schedule, nil
		}
		m.logger.Warn("discarding undecodable cache entry",
			zap.String("op", "cache.GenerateAsOf"),
			zap.String("key", key),
		)
	}

	schedule, err := m.generator.GenerateAsOf(terms, sorted, asOf)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(schedule); err == nil {
		if err := m.cache.Set(ctx, key, string(encoded)); err != nil {
			m.logger.Warn("failed to store schedule in cache",
				zap.String("op", "cache.GenerateAsOf"),
				zap.Error(err),
			)
		}
	}
	return schedule, nil
}

func (m *Memoizer) key(terms heloc.LoanTerms, sortedDraws []heloc.DrawEvent) (string, error) {
	encoded, err := json.Marshal(scheduleKey{
		Principal:       terms.Principal,
		AnnualRatePct:   terms.AnnualRatePct,
		TermYears:       terms.TermYears,
		PaymentsPerYear: terms.PaymentsPerYear,
		InterestOnly:    terms.InterestOnly,
		StartDate:       datetime.FormatDate(terms.StartDate),
		Draws:           sortedDraws,
	})
	if err != nil {
		return "", err
	}
	return keyPrefix + string(encoded), nil
}
