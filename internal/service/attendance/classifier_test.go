package attendance

import (
	"testing"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleTable_Count(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  float64
	}{
		{"sick", LabelSick, 1},
		{"personal", LabelPersonal, 1},
		{"absent", LabelAbsent, 1},
		{"late", LabelLate, 1},
		{"vacation", LabelVacation, 1},
		{"maternity", LabelMaternity, 1},
		{"sick half day", LabelSick + HalfDayMarker, 0.5},
		{"absent half day spaced", LabelAbsent + " " + HalfDayMarker, 0.5},
		{"half day of anything", "อบรม" + HalfDayMarker, 0.5},
		{"unknown", "อบรม", 0},
		{"empty", "", 0},
		{"partial match", "ลาป่วยยาว", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultRules.Count(tt.label))
		})
	}
}

func TestRuleTable_Classify_Default(t *testing.T) {
	tests := []struct {
		label     string
		category  attendance.Category
		value     float64
		leaveDays float64
	}{
		{LabelSick, CategorySickPersonal, 1, 1},
		{LabelPersonal, CategorySickPersonal, 1, 1},
		{LabelPersonal + HalfDayMarker, CategorySickPersonal, 0.5, 0.5},
		{LabelAbsent, CategoryAbsence, 1, 1},
		{LabelAbsent + HalfDayMarker, CategoryAbsence, 0.5, 0.5},
		{LabelLate, CategoryTardiness, 1, 1},
		{LabelLate + HalfDayMarker, "", 0, 0.5},
		{LabelVacation, CategoryVacation, 1, 1},
		{LabelVacation + HalfDayMarker, "", 0, 0.5},
		{LabelMaternity, "", 0, 1},
		{"", "", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			c := DefaultRules.Classify(tt.label)
			assert.Equal(t, tt.category, c.Category)
			assert.Equal(t, tt.value, c.Value)
			assert.Equal(t, tt.leaveDays, c.LeaveDays)
		})
	}
}

func TestRuleTable_Classify_Legacy(t *testing.T) {
	c := LegacyRules.Classify(LabelAbsent + HalfDayMarker)
	assert.Equal(t, CategoryAbsence, c.Category)
	assert.Equal(t, 1.0, c.Value, "legacy absence always counts one")
	assert.Equal(t, 0.5, c.LeaveDays)

	c = LegacyRules.Classify(LabelVacation)
	assert.Empty(t, c.Category)
	assert.Len(t, LegacyRules.Categories(), 3)
}

func TestRuleTable_Classify_English(t *testing.T) {
	c := EnglishRules.Classify("sick leave (half-day)")
	assert.Equal(t, attendance.Category("sick/personal"), c.Category)
	assert.Equal(t, 0.5, c.Value)

	c = EnglishRules.Classify("tardiness")
	assert.Equal(t, attendance.Category("tardiness"), c.Category)
	assert.Equal(t, 1.0, c.Value)
}

func TestRuleTable_HeadlineExclusive(t *testing.T) {
	labels := []string{
		LabelSick, LabelPersonal, LabelAbsent, LabelLate, LabelVacation, LabelMaternity,
		LabelSick + HalfDayMarker, LabelAbsent + HalfDayMarker, LabelLate + HalfDayMarker, "อื่นๆ",
	}
	for _, label := range labels {
		matches := 0
		for _, rule := range DefaultRules.Rules {
			if DefaultRules.Matches(rule, label) {
				matches++
			}
		}
		assert.LessOrEqual(t, matches, 1, label)
	}
}

func TestRulesByName(t *testing.T) {
	for _, name := range []string{"", "default", " Default "} {
		rules, err := RulesByName(name)
		require.NoError(t, err)
		assert.Equal(t, "default", rules.Name)
	}

	rules, err := RulesByName("legacy")
	require.NoError(t, err)
	assert.Equal(t, "legacy", rules.Name)

	_, err = RulesByName("custom")
	assert.ErrorIs(t, err, attendance.ErrUnknownRuleTable)
}

func TestRuleTable_ParseCategory(t *testing.T) {
	c, err := DefaultRules.ParseCategory("Absence")
	require.NoError(t, err)
	assert.Equal(t, CategoryAbsence, c)

	c, err = DefaultRules.ParseCategory(string(CategorySickPersonal))
	require.NoError(t, err)
	assert.Equal(t, CategorySickPersonal, c)

	_, err = LegacyRules.ParseCategory("vacation")
	assert.ErrorIs(t, err, attendance.ErrUnknownCategory)

	rule, ok := DefaultRules.Rule(CategoryTardiness)
	require.True(t, ok)
	assert.Equal(t, attendance.UnitTimes, rule.Unit)
}
