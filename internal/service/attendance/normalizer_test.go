package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_KeepsEveryRow(t *testing.T) {
	rows := []attendance.RawRow{
		row("  สมชาย   ใจดี ", " บัญชี ", "2024-01-15", " ลาป่วย "),
		{},
		row("สมหญิง", "nan", "not a date", "ขาด"),
	}

	records := Normalize(rows, DefaultRules)
	require.Len(t, records, 3)

	first := records[0]
	assert.Equal(t, "สมชาย ใจดี", first.EmployeeName)
	assert.Equal(t, "บัญชี", first.Department)
	assert.Equal(t, LabelSick, first.Exception)
	require.NotNil(t, first.Date)
	assert.Equal(t, day(2024, time.January, 15), *first.Date)
	require.NotNil(t, first.Year)
	assert.Equal(t, 2567, *first.Year)
	assert.Equal(t, attendance.Period{Year: 2024, Month: time.January}, *first.Period)
	assert.Equal(t, 1.0, first.Count(CategorySickPersonal))
	assert.Equal(t, 0.0, first.Count(CategoryAbsence))
	assert.Len(t, first.Counts, 4)

	empty := records[1]
	assert.Equal(t, "", empty.EmployeeName)
	assert.Equal(t, attendance.UnspecifiedDepartment, empty.Department)
	assert.Nil(t, empty.Date)
	assert.Nil(t, empty.Year)
	assert.Nil(t, empty.Period)
	assert.True(t, empty.CheckIn.Defaulted)
	assert.Equal(t, "", empty.Exception)
	assert.Equal(t, 0.0, empty.LeaveDays)

	bad := records[2]
	assert.Equal(t, attendance.UnspecifiedDepartment, bad.Department)
	assert.Nil(t, bad.Date)
	assert.Equal(t, 1.0, bad.Count(CategoryAbsence), "undated rows still count")
}

func TestNormalize_Dates(t *testing.T) {
	native := time.Date(2024, time.March, 5, 13, 45, 0, 0, time.FixedZone("ICT", 7*3600))
	nativeBuddhist := time.Date(2567, time.March, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		raw  attendance.RawRow
		want *time.Time
	}{
		{"iso", attendance.RawRow{Date: strPtr("2024-03-05")}, ptrTime(day(2024, time.March, 5))},
		{"datetime", attendance.RawRow{Date: strPtr("2024-03-05 08:00:00")}, ptrTime(day(2024, time.March, 5))},
		{"day first", attendance.RawRow{Date: strPtr("5/3/2024")}, ptrTime(day(2024, time.March, 5))},
		{"buddhist year", attendance.RawRow{Date: strPtr("05/03/2567")}, ptrTime(day(2024, time.March, 5))},
		{"native wins", attendance.RawRow{Date: strPtr("garbage"), DateValue: &native}, ptrTime(day(2024, time.March, 5))},
		{"native buddhist year", attendance.RawRow{DateValue: &nativeBuddhist}, ptrTime(day(2024, time.March, 5))},
		{"nat", attendance.RawRow{Date: strPtr("NaT")}, nil},
		{"unparseable", attendance.RawRow{Date: strPtr("yesterday")}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Normalize([]attendance.RawRow{tt.raw}, DefaultRules)[0]
			if tt.want == nil {
				assert.Nil(t, rec.Date)
				return
			}
			require.NotNil(t, rec.Date)
			assert.Equal(t, *tt.want, *rec.Date)
		})
	}
}

func ptrTime(t time.Time) *time.Time { return &t }

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in        *string
		want      string
		defaulted bool
	}{
		{strPtr("08:30:15"), "08:30", false},
		{strPtr("17:05"), "17:05", false},
		{strPtr(" 9:00 "), "09:00", false},
		{strPtr("late"), "00:00", true},
		{strPtr("nan"), "00:00", true},
		{nil, "00:00", true},
	}

	for _, tt := range tests {
		got := ParseTimeOfDay(tt.in)
		assert.Equal(t, tt.want, got.HHMM())
		assert.Equal(t, tt.defaulted, got.Defaulted)
	}
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "", CleanText(nil))
	assert.Equal(t, "a b c", CleanText(strPtr("  a \t b\n\nc ")))

	// NFC: decomposed e + combining acute becomes one code point
	assert.Equal(t, "\u00e9", CleanText(strPtr("e\u0301")))
}

func TestNormalize_NativeBuddhistDateYear(t *testing.T) {
	native := time.Date(2568, time.January, 10, 0, 0, 0, 0, time.UTC)
	rec := Normalize([]attendance.RawRow{{DateValue: &native}}, DefaultRules)[0]

	require.NotNil(t, rec.Year)
	assert.Equal(t, 2568, *rec.Year)
	require.NotNil(t, rec.Period)
	assert.Equal(t, attendance.Period{Year: 2025, Month: time.January}, *rec.Period)
}
