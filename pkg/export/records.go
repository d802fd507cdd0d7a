package export

import (
	"encoding/json"

	"github.com/Oldmanrunning/HELOC/pkg/datetime"
	"github.com/Oldmanrunning/HELOC/pkg/heloc"
)

// Record is the structured form of one schedule row: ISO date string,
// two-decimal rounded numeric fields.
type Record struct {
	Period    int     `json:"period"`
	Date      string  `json:"date"`
	Draw      float64 `json:"draw"`
	Payment   float64 `json:"payment"`
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Balance   float64 `json:"balance"`
}

// Records converts a schedule into its structured record form.
func Records(schedule heloc.Schedule) []Record {
	records := make([]Record, 0, len(schedule))
	for _, p := range schedule {
		records = append(records, Record{
			Period:    p.Period,
			Date:      datetime.FormatDate(p.Date),
			Draw:      p.Draw,
			Payment:   p.Payment,
			Principal: p.Principal,
			Interest:  p.Interest,
			Balance:   p.Balance,
		})
	}
	return records
}

// RecordsJSON renders the schedule as a JSON array of record objects.
func RecordsJSON(schedule heloc.Schedule) ([]byte, error) {
	return json.Marshal(Records(schedule))
}
