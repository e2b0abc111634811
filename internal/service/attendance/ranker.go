package attendance

import (
	"sort"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
)

// ChartLimit is the number of ranked rows fed to charts when no employee
// is selected.
const ChartLimit = 20

// Rank sorts rows by the category in descending order, keeping input order
// on ties, drops zero values and numbers the rest from 1 without gaps.
func Rank(rows []attendance.SummaryRow, category attendance.Category) []attendance.RankedRow {
	sorted := make([]attendance.SummaryRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value(category) > sorted[j].Value(category)
	})

	ranked := make([]attendance.RankedRow, 0, len(sorted))
	for _, row := range sorted {
		v := row.Value(category)
		if v == 0 {
			continue
		}
		ranked = append(ranked, attendance.RankedRow{
			Rank:         len(ranked) + 1,
			EmployeeName: row.EmployeeName,
			Department:   row.Department,
			Category:     category,
			Value:        v,
			Display:      FormatCount(v),
		})
	}
	return ranked
}

// Top returns at most n ranked rows; n <= 0 returns all of them.
func Top(ranked []attendance.RankedRow, n int) []attendance.RankedRow {
	if n <= 0 || len(ranked) <= n {
		return ranked
	}
	return ranked[:n]
}
