package attendance

import (
	"fmt"
	"sort"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
)

// Detail lists an employee's records matching a category, newest first.
// Records without a date sort last.
func Detail(records []attendance.Record, employee string, category attendance.Category, rules RuleTable) (attendance.DetailResult, error) {
	rule, ok := rules.Rule(category)
	if !ok {
		return attendance.DetailResult{}, fmt.Errorf("%w: %q", attendance.ErrUnknownCategory, category)
	}

	matched := make([]attendance.Record, 0)
	for _, r := range records {
		if r.EmployeeName == employee && rules.Matches(rule, r.Exception) {
			matched = append(matched, r)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i].Date, matched[j].Date
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})

	result := attendance.DetailResult{
		EmployeeName: employee,
		Category:     category,
		Unit:         rule.Unit,
		Rows:         make([]attendance.DetailRow, 0, len(matched)),
	}
	for _, r := range matched {
		row := attendance.DetailRow{
			Date:          r.Date,
			CheckIn:       r.CheckIn.HHMM(),
			CheckOut:      r.CheckOut.HHMM(),
			TimeDefaulted: r.CheckIn.Defaulted || r.CheckOut.Defaulted,
			Exception:     r.Exception,
			Count:         r.Count(category),
		}
		if r.Date != nil {
			row.DateLabel = FormatThaiDate(*r.Date)
		}
		result.Rows = append(result.Rows, row)
		result.Total += row.Count
	}
	result.TotalDisplay = FormatCount(result.Total)
	return result, nil
}
