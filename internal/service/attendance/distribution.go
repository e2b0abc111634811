package attendance

import (
	"math"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
)

// Distribution sums each category over all rows and reports its share of
// the grand total. Zero-total categories are left out; a zero grand total
// yields an empty distribution.
func Distribution(rows []attendance.SummaryRow, rules RuleTable) []attendance.DistributionEntry {
	categories := rules.Categories()
	totals := make(map[attendance.Category]float64, len(categories))
	var grand float64
	for _, row := range rows {
		for _, c := range categories {
			v := row.Value(c)
			totals[c] += v
			grand += v
		}
	}

	entries := make([]attendance.DistributionEntry, 0, len(categories))
	if grand == 0 {
		return entries
	}
	for _, c := range categories {
		total := totals[c]
		if total == 0 {
			continue
		}
		entries = append(entries, attendance.DistributionEntry{
			Category:   c,
			Total:      total,
			Percentage: roundTo(total/grand*100, 1),
		})
	}
	return entries
}

// GrandTotal sums the totals of a distribution.
func GrandTotal(entries []attendance.DistributionEntry) float64 {
	var sum float64
	for _, e := range entries {
		sum += e.Total
	}
	return sum
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
