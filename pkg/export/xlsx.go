package export

import (
	"bytes"
	"fmt"

	"github.com/Oldmanrunning/HELOC/pkg/datetime"
	"github.com/Oldmanrunning/HELOC/pkg/heloc"
	"github.com/xuri/excelize/v2"
)

// XLSX renders the summary and full schedule as a two-sheet workbook.
func XLSX(terms heloc.LoanTerms, summary heloc.KPISummary, schedule heloc.Schedule) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	scheduleSheet := "schedule"
	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(scheduleSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", "HELOC Summary")
	_ = f.SetCellValue(summarySheet, "A3", "Borrowed")
	_ = f.SetCellValue(summarySheet, "B3", terms.Principal)
	_ = f.SetCellValue(summarySheet, "A4", "APR (%)")
	_ = f.SetCellValue(summarySheet, "B4", terms.AnnualRatePct)
	_ = f.SetCellValue(summarySheet, "A5", "Term (years)")
	_ = f.SetCellValue(summarySheet, "B5", terms.TermYears)
	_ = f.SetCellValue(summarySheet, "A6", "Monthly payment")
	_ = f.SetCellValue(summarySheet, "B6", summary.MonthlyPayment)
	_ = f.SetCellValue(summarySheet, "A7", "Total interest")
	_ = f.SetCellValue(summarySheet, "B7", summary.TotalInterest)
	_ = f.SetCellValue(summarySheet, "A8", "Total paid")
	_ = f.SetCellValue(summarySheet, "B8", summary.TotalPaid)
	_ = f.SetCellValue(summarySheet, "A9", "Remaining balance")
	_ = f.SetCellValue(summarySheet, "B9", summary.RemainingBalance)

	for col, name := range Header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(scheduleSheet, cell, name)
	}
	for i, p := range schedule {
		row := i + 2
		_ = f.SetCellValue(scheduleSheet, fmt.Sprintf("A%d", row), p.Period)
		_ = f.SetCellValue(scheduleSheet, fmt.Sprintf("B%d", row), datetime.FormatDate(p.Date))
		_ = f.SetCellValue(scheduleSheet, fmt.Sprintf("C%d", row), p.Draw)
		_ = f.SetCellValue(scheduleSheet, fmt.Sprintf("D%d", row), p.Payment)
		_ = f.SetCellValue(scheduleSheet, fmt.Sprintf("E%d", row), p.Principal)
		_ = f.SetCellValue(scheduleSheet, fmt.Sprintf("F%d", row), p.Interest)
		_ = f.SetCellValue(scheduleSheet, fmt.Sprintf("G%d", row), p.Balance)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
