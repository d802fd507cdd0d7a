package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/Oldmanrunning/HELOC/pkg/datetime"
	"github.com/Oldmanrunning/HELOC/pkg/heloc"
	"github.com/jung-kurt/gofpdf"
)

// ShortReport renders the downloadable text summary: as-of date, principal,
// APR, monthly payment, total interest.
func ShortReport(terms heloc.LoanTerms, summary heloc.KPISummary, asOf time.Time) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "HELOC Summary as of %s\n", datetime.FormatDate(asOf))
	fmt.Fprintf(&buf, "- Borrowed: %s\n", USD(terms.Principal))
	fmt.Fprintf(&buf, "- APR: %.2f%%\n", terms.AnnualRatePct)
	fmt.Fprintf(&buf, "- Monthly payment: %s\n", USD(summary.MonthlyPayment))
	fmt.Fprintf(&buf, "- Total interest: %s\n", USD(summary.TotalInterest))
	return buf.String()
}

// PDF renders a one-page summary report with the leading schedule rows.
func PDF(terms heloc.LoanTerms, summary heloc.KPISummary, schedule heloc.Schedule, asOf time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "HELOC Summary")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("As of: %s", datetime.FormatDate(asOf)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Borrowed: %s", USD(terms.Principal)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("APR: %.2f%%", terms.AnnualRatePct))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Term: %.4g years", terms.TermYears))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Monthly payment: %s", USD(summary.MonthlyPayment)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total interest: %s", USD(summary.TotalInterest)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total paid: %s", USD(summary.TotalPaid)))
	pdf.Ln(8)

	// Schedule table, capped to the first page worth of rows.
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(18, 6, "Period", "1", 0, "C", false, 0, "")
	pdf.CellFormat(26, 6, "Date", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Payment", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Principal", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Interest", "1", 0, "C", false, 0, "")
	pdf.CellFormat(32, 6, "Balance", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	const maxRows = 24
	for i, p := range schedule {
		if i >= maxRows {
			break
		}
		pdf.CellFormat(18, 6, fmt.Sprintf("%d", p.Period), "1", 0, "C", false, 0, "")
		pdf.CellFormat(26, 6, datetime.FormatDate(p.Date), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, formatAmount(p.Payment), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, formatAmount(p.Principal), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, formatAmount(p.Interest), "1", 0, "R", false, 0, "")
		pdf.CellFormat(32, 6, formatAmount(p.Balance), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
