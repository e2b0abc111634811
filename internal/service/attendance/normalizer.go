package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
	"golang.org/x/text/unicode/norm"
)

// Date layouts tried in order for text dates.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"2/1/2006",
	"01-02-06",
}

const buddhistYearThreshold = 2400

var timeLayouts = []string{
	"15:04:05",
	"15:04",
}

// Normalize turns raw source rows into records. Malformed fields degrade to
// defaults; no row is dropped and input order is kept.
func Normalize(rows []attendance.RawRow, rules RuleTable) []attendance.Record {
	records := make([]attendance.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, normalizeRow(row, rules))
	}
	return records
}

func normalizeRow(row attendance.RawRow, rules RuleTable) attendance.Record {
	rec := attendance.Record{
		EmployeeName: CleanText(row.EmployeeName),
		Department:   normalizeDepartment(row.Department),
		Date:         normalizeDate(row.DateValue, row.Date),
		CheckIn:      ParseTimeOfDay(row.CheckIn),
		CheckOut:     ParseTimeOfDay(row.CheckOut),
		Exception:    normalizeException(row.Exception),
	}

	if rec.Date != nil {
		year := rec.Date.Year() + attendance.BuddhistEraOffset
		period := attendance.PeriodOf(*rec.Date)
		rec.Year = &year
		rec.Period = &period
	}

	c := rules.Classify(rec.Exception)
	rec.LeaveDays = c.LeaveDays
	rec.Counts = make(map[attendance.Category]float64, len(rules.Rules))
	for _, category := range rules.Categories() {
		rec.Counts[category] = 0
	}
	if c.Category != "" {
		rec.Counts[c.Category] = c.Value
	}
	return rec
}

// CleanText NFC-normalizes s, trims it and collapses internal whitespace
// runs to single spaces. A nil pointer yields "".
func CleanText(s *string) string {
	if s == nil {
		return ""
	}
	return strings.Join(strings.Fields(norm.NFC.String(*s)), " ")
}

// isMissing reports spreadsheet placeholders for empty cells.
func isMissing(s string) bool {
	switch strings.ToLower(s) {
	case "", "nan", "none", "null", "nat":
		return true
	}
	return false
}

func normalizeDepartment(s *string) string {
	dept := CleanText(s)
	if isMissing(dept) {
		return attendance.UnspecifiedDepartment
	}
	return dept
}

func normalizeException(s *string) string {
	label := CleanText(s)
	if isMissing(label) {
		return ""
	}
	return label
}

func normalizeDate(native *time.Time, text *string) *time.Time {
	if native != nil && !native.IsZero() {
		d := time.Date(gregorianYear(native.Year()), native.Month(), native.Day(), 0, 0, 0, 0, time.UTC)
		return &d
	}
	raw := CleanText(text)
	if isMissing(raw) {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			d := time.Date(gregorianYear(t.Year()), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}
	return nil
}

// gregorianYear folds dates entered in the Buddhist era back to Gregorian.
func gregorianYear(year int) int {
	if year >= buddhistYearThreshold {
		return year - attendance.BuddhistEraOffset
	}
	return year
}

// ParseTimeOfDay parses "15:04:05" or "15:04"; anything else falls back to
// midnight with Defaulted set.
func ParseTimeOfDay(s *string) attendance.TimeOfDay {
	raw := CleanText(s)
	if isMissing(raw) {
		return attendance.Midnight()
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return attendance.TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
		}
	}
	return attendance.Midnight()
}
