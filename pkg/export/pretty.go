package export

import (
	"fmt"
	"io"
	"time"

	"github.com/Oldmanrunning/HELOC/pkg/datetime"
	"github.com/Oldmanrunning/HELOC/pkg/heloc"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usdPrinter = message.NewPrinter(language.English)

// USD formats a currency amount with thousands grouping.
func USD(v float64) string {
	return usdPrinter.Sprintf("$%.2f", v)
}

// Pretty writes a human-readable summary and schedule table.
func Pretty(w io.Writer, terms heloc.LoanTerms, summary heloc.KPISummary, schedule heloc.Schedule, asOf time.Time) {
	fmt.Fprintf(w, "--- HELOC schedule as of %s ---\n", datetime.FormatDate(asOf))
	fmt.Fprintf(w, "Monthly payment: %s | Total interest: %s | Total paid: %s\n",
		USD(summary.MonthlyPayment), USD(summary.TotalInterest), USD(summary.TotalPaid))
	if summary.NextPaymentDue != nil {
		fmt.Fprintf(w, "Next payment due: %s\n", datetime.FormatDate(*summary.NextPaymentDue))
	}
	fmt.Fprintf(w, "Period | Date       | Draw          | Payment       | Principal     | Interest      | Balance\n")
	fmt.Fprintf(w, "______ | ____       | ____          | _______       | _________     | ________      | _______\n")
	for _, p := range schedule {
		fmt.Fprintf(w, "%6d | %s | %13s | %13s | %13s | %13s | %s\n",
			p.Period, datetime.FormatDate(p.Date), USD(p.Draw), USD(p.Payment),
			USD(p.Principal), USD(p.Interest), USD(p.Balance))
	}
}
