package attendance

import (
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
)

type summaryKey struct {
	employee   string
	department string
}

// Summarize groups records by (employee, department) and sums every
// category of the rule table. Groups keep first-appearance order; only keys
// present in records produce a row.
func Summarize(records []attendance.Record, rules RuleTable) []attendance.SummaryRow {
	categories := rules.Categories()
	index := make(map[summaryKey]int)
	rows := make([]attendance.SummaryRow, 0)

	for _, r := range records {
		key := summaryKey{employee: r.EmployeeName, department: r.Department}
		i, ok := index[key]
		if !ok {
			counts := make(map[attendance.Category]float64, len(categories))
			for _, c := range categories {
				counts[c] = 0
			}
			rows = append(rows, attendance.SummaryRow{
				EmployeeName: r.EmployeeName,
				Department:   r.Department,
				Counts:       counts,
			})
			i = len(rows) - 1
			index[key] = i
		}

		for _, c := range categories {
			rows[i].Counts[c] += r.Count(c)
		}
		rows[i].LeaveDays += r.LeaveDays
	}
	return rows
}
