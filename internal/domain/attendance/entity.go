package attendance

import (
	"fmt"
	"time"
)

// UnspecifiedDepartment replaces an empty or missing department value.
const UnspecifiedDepartment = "ไม่ระบุ"

// BuddhistEraOffset is added to the Gregorian year for display.
const BuddhistEraOffset = 543

// Category is a headline exception column, e.g. "ลาป่วย/ลากิจ".
type Category string

// Unit is the display unit of a category total.
type Unit string

const (
	UnitDays  Unit = "วัน"
	UnitTimes Unit = "ครั้ง"
)

// TimeOfDay is a clock time without a date.
// Defaulted is set when the source value was absent or unparseable and the
// time fell back to 00:00.
type TimeOfDay struct {
	Hour      int  `json:"hour"`
	Minute    int  `json:"minute"`
	Second    int  `json:"second"`
	Defaulted bool `json:"defaulted"`
}

// Midnight is the fallback check-in/check-out time.
func Midnight() TimeOfDay {
	return TimeOfDay{Defaulted: true}
}

// HHMM formats the time as "15:04".
func (t TimeOfDay) HHMM() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Period is a calendar month in the Gregorian calendar.
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// ParsePeriod parses "YYYY-MM".
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	return PeriodOf(t), nil
}

// String returns the period as "YYYY-MM".
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Before reports whether p is earlier than q.
func (p Period) Before(q Period) bool {
	if p.Year != q.Year {
		return p.Year < q.Year
	}
	return p.Month < q.Month
}

// RawRow is one row as delivered by a SourceLoader. A nil field means the
// value (or the whole column) was absent.
type RawRow struct {
	EmployeeName *string
	Department   *string
	Date         *string
	DateValue    *time.Time
	CheckIn      *string
	CheckOut     *string
	Exception    *string
}

// Record is a normalized attendance exception row. Records are immutable
// once produced by the normalizer.
type Record struct {
	EmployeeName string
	Department   string
	Date         *time.Time
	CheckIn      TimeOfDay
	CheckOut     TimeOfDay
	Exception    string

	// Derived
	Year      *int // Buddhist era
	Period    *Period
	Counts    map[Category]float64
	LeaveDays float64
}

// Count returns the record's contribution to a category.
func (r Record) Count(c Category) float64 {
	return r.Counts[c]
}

// SummaryRow holds per-category sums for one employee in one department.
type SummaryRow struct {
	EmployeeName string
	Department   string
	Counts       map[Category]float64
	LeaveDays    float64
}

// Value returns the row's total for a category.
func (s SummaryRow) Value(c Category) float64 {
	return s.Counts[c]
}

// RankedRow is one line of a category ranking.
type RankedRow struct {
	Rank         int      `json:"rank"`
	EmployeeName string   `json:"employee_name"`
	Department   string   `json:"department"`
	Category     Category `json:"category"`
	Value        float64  `json:"value"`
	Display      string   `json:"display"`
}

// DistributionEntry is one slice of the whole-period distribution.
type DistributionEntry struct {
	Category   Category `json:"category"`
	Total      float64  `json:"total"`
	Percentage float64  `json:"percentage"`
}

// DetailRow is one drill-down line for an employee and category.
type DetailRow struct {
	Date      *time.Time `json:"date"`
	DateLabel string     `json:"date_label"`
	CheckIn   string     `json:"check_in"`
	CheckOut  string     `json:"check_out"`
	// TimeDefaulted is true when either time is the 00:00 fallback.
	TimeDefaulted bool    `json:"time_defaulted"`
	Exception     string  `json:"exception"`
	Count         float64 `json:"count"`
}

// DetailResult is the drill-down for an employee and category.
type DetailResult struct {
	EmployeeName string      `json:"employee_name"`
	Category     Category    `json:"category"`
	Unit         Unit        `json:"unit"`
	Rows         []DetailRow `json:"rows"`
	Total        float64     `json:"total"`
	TotalDisplay string      `json:"total_display"`
}

// Dataset is one load cycle of normalized records.
type Dataset struct {
	Version  string
	LoadedAt time.Time
	Records  []Record
}
