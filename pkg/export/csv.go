// Package export serializes schedules and summaries into the formats the
// presentation layer offers for download: CSV, JSON records, XLSX, PDF, a
// short text report, and a pretty console table.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/Oldmanrunning/HELOC/pkg/datetime"
	"github.com/Oldmanrunning/HELOC/pkg/heloc"
)

// Header is the column order of the row-oriented schedule table.
var Header = []string{"period", "date", "draw", "payment", "principal", "interest", "balance"}

// CSV renders the schedule as comma-separated text with a header row, ISO
// dates, and two-decimal numbers.
func CSV(schedule heloc.Schedule) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Header); err != nil {
		return nil, err
	}
	for _, p := range schedule {
		row := []string{
			strconv.Itoa(p.Period),
			datetime.FormatDate(p.Date),
			formatAmount(p.Draw),
			formatAmount(p.Payment),
			formatAmount(p.Principal),
			formatAmount(p.Interest),
			formatAmount(p.Balance),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
