package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
)

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func row(name, dept, date, exception string) attendance.RawRow {
	return attendance.RawRow{
		EmployeeName: strPtr(name),
		Department:   strPtr(dept),
		Date:         strPtr(date),
		CheckIn:      strPtr("08:30:00"),
		CheckOut:     strPtr("17:30"),
		Exception:    strPtr(exception),
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func summary(name, dept string, counts map[attendance.Category]float64) attendance.SummaryRow {
	return attendance.SummaryRow{EmployeeName: name, Department: dept, Counts: counts}
}
