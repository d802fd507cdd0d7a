package heloc

import (
	"fmt"
	"math"
	"time"

	"github.com/Oldmanrunning/HELOC/pkg/datetime"
	"github.com/Oldmanrunning/HELOC/pkg/mathutil"
	"go.uber.org/zap"
)

// Period is one row of an amortization schedule. All currency fields are
// rounded to two decimals; Balance is the post-payment balance carried into
// the next period.
type Period struct {
	Period    int
	Date      time.Time
	Draw      float64
	Payment   float64
	Principal float64
	Interest  float64
	Balance   float64
}

// Schedule is the ordered sequence of periods for one loan. It is purely
// derived from its inputs and immutable after generation.
type Schedule []Period

// ScheduleGenerator produces amortization schedules. The zero value is not
// usable; construct with NewScheduleGenerator.
type ScheduleGenerator struct {
	logger *zap.Logger
}

// NewScheduleGenerator creates a generator. A nil logger is replaced with a
// no-op logger.
func NewScheduleGenerator(logger *zap.Logger) *ScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleGenerator{logger: logger}
}

// Generate produces the full schedule for the given terms and draws, using
// the current time to anchor an unset start date. Strict contract: invalid
// terms or draws yield an InvalidInputError.
func (g *ScheduleGenerator) Generate(terms LoanTerms, draws []DrawEvent) (Schedule, error) {
	return g.GenerateAsOf(terms, draws, time.Now())
}

// GenerateAsOf is the pure core of the engine: identical arguments always
// produce identical schedules. asOf is only consulted when terms.StartDate is
// unset.
func (g *ScheduleGenerator) GenerateAsOf(terms LoanTerms, draws []DrawEvent, asOf time.Time) (Schedule, error) {
	if err := terms.Validate(); err != nil {
		return nil, err
	}
	n := terms.Periods()
	if err := validateDraws(draws, n); err != nil {
		return nil, err
	}

	start := terms.StartDate
	if start.IsZero() {
		start = datetime.Truncate(asOf)
	}

	payment, err := ComputePayment(terms)
	if err != nil {
		return nil, err
	}

	periodicRate := terms.PeriodicRate()
	byPeriod := drawTotals(draws)

	schedule := make(Schedule, 0, n)
	balance := terms.Principal
	for period := 1; period <= n; period++ {
		// Draws land before interest accrues, so they widen the interest base
		// starting in the period they arrive.
		draw := byPeriod[period-1]
		if draw > 0 {
			g.logger.Debug(fmt.Sprintf("applying draw of %.2f in period %d", draw, period),
				zap.String("op", "heloc.GenerateAsOf"),
			)
		}
		balance += draw
		interest := mathutil.Round(balance * periodicRate)

		var principalPaid, paid float64
		switch {
		case terms.InterestOnly && period == n:
			// Balloon: the final payment retires the whole remaining balance.
			principalPaid = balance
			paid = interest + principalPaid
		case terms.InterestOnly:
			paid = interest
		default:
			principalPaid = payment - interest
			paid = payment
			if period == n || principalPaid >= balance {
				// Final period, or the computed principal would overshoot the
				// remaining balance; pay it off exactly.
				principalPaid = balance
				paid = interest + principalPaid
			}
		}

		principalPaid = mathutil.Round(principalPaid)
		paid = mathutil.Round(paid)
		balance = mathutil.Round(math.Max(0, balance-principalPaid))

		schedule = append(schedule, Period{
			Period:    period,
			Date:      datetime.OffsetMonths(start, period-1),
			Draw:      mathutil.Round(draw),
			Payment:   paid,
			Principal: principalPaid,
			Interest:  interest,
			Balance:   balance,
		})

		if balance <= 0 {
			if period < n {
				g.logger.Debug(fmt.Sprintf("balance reached zero in period %d of %d, stopping", period, n),
					zap.String("op", "heloc.GenerateAsOf"),
				)
			}
			break
		}
	}

	return schedule, nil
}

// Preview is the lenient entry point backing always-visible previews: any
// invalid input yields an empty schedule instead of an error.
func (g *ScheduleGenerator) Preview(terms LoanTerms, draws []DrawEvent) Schedule {
	return g.PreviewAsOf(terms, draws, time.Now())
}

// PreviewAsOf is the deterministic form of Preview.
func (g *ScheduleGenerator) PreviewAsOf(terms LoanTerms, draws []DrawEvent, asOf time.Time) Schedule {
	schedule, err := g.GenerateAsOf(terms, draws, asOf)
	if err != nil {
		g.logger.Debug("preview substituting empty schedule",
			zap.String("op", "heloc.PreviewAsOf"),
			zap.Error(err),
		)
		return Schedule{}
	}
	return schedule
}

// Generate produces a schedule with a no-op logger. See
// ScheduleGenerator.Generate.
func Generate(terms LoanTerms, draws []DrawEvent) (Schedule, error) {
	return NewScheduleGenerator(nil).Generate(terms, draws)
}

// Preview produces a best-effort schedule with a no-op logger. See
// ScheduleGenerator.Preview.
func Preview(terms LoanTerms, draws []DrawEvent) Schedule {
	return NewScheduleGenerator(nil).Preview(terms, draws)
}
