package attendance

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
)

// Headline categories of the Thai rule tables.
const (
	CategorySickPersonal attendance.Category = "ลาป่วย/ลากิจ"
	CategoryAbsence      attendance.Category = "ขาด"
	CategoryTardiness    attendance.Category = "สาย"
	CategoryVacation     attendance.Category = "ลาพักผ่อน"
)

// Thai exception labels.
const (
	LabelSick      = "ลาป่วย"
	LabelPersonal  = "ลากิจ"
	LabelAbsent    = "ขาด"
	LabelLate      = "สาย"
	LabelVacation  = "ลาพักผ่อน"
	LabelMaternity = "ลาคลอด"

	HalfDayMarker = "ครึ่งวัน"
)

// CategoryRule maps exception labels to one headline category.
type CategoryRule struct {
	Category attendance.Category
	// Slug is the ASCII alias accepted in URLs.
	Slug   string
	Labels []string
	// AcceptHalfDay also matches "<label><marker>" variants.
	AcceptHalfDay bool
	// Fractional contributes the classifier count (0.5 for half-day);
	// otherwise every match contributes 1.
	Fractional bool
	Unit       attendance.Unit
}

// RuleTable is the complete classification configuration.
type RuleTable struct {
	Name          string
	HalfDayMarker string
	// CountedLabels are the full-day/full-occurrence labels counting 1.
	CountedLabels []string
	Rules         []CategoryRule
}

// Classification is the outcome of classifying one exception label.
type Classification struct {
	// LeaveDays is the raw classifier count, independent of category.
	LeaveDays float64
	// Category is empty when no rule matched.
	Category attendance.Category
	Value    float64
}

// DefaultRules counts four categories with half-day aware absence.
var DefaultRules = RuleTable{
	Name:          "default",
	HalfDayMarker: HalfDayMarker,
	CountedLabels: []string{LabelSick, LabelPersonal, LabelAbsent, LabelLate, LabelVacation, LabelMaternity},
	Rules: []CategoryRule{
		{Category: CategorySickPersonal, Slug: "sick-personal", Labels: []string{LabelSick, LabelPersonal}, AcceptHalfDay: true, Fractional: true, Unit: attendance.UnitDays},
		{Category: CategoryAbsence, Slug: "absence", Labels: []string{LabelAbsent}, AcceptHalfDay: true, Fractional: true, Unit: attendance.UnitDays},
		{Category: CategoryTardiness, Slug: "tardiness", Labels: []string{LabelLate}, Unit: attendance.UnitTimes},
		{Category: CategoryVacation, Slug: "vacation", Labels: []string{LabelVacation}, Unit: attendance.UnitDays},
	},
}

// LegacyRules reproduces the older three-category dashboard, where any
// absence counts 1 regardless of the half-day marker.
var LegacyRules = RuleTable{
	Name:          "legacy",
	HalfDayMarker: HalfDayMarker,
	CountedLabels: []string{LabelSick, LabelPersonal, LabelAbsent, LabelLate, LabelVacation, LabelMaternity},
	Rules: []CategoryRule{
		{Category: CategorySickPersonal, Slug: "sick-personal", Labels: []string{LabelSick, LabelPersonal}, AcceptHalfDay: true, Fractional: true, Unit: attendance.UnitDays},
		{Category: CategoryAbsence, Slug: "absence", Labels: []string{LabelAbsent}, AcceptHalfDay: true, Unit: attendance.UnitDays},
		{Category: CategoryTardiness, Slug: "tardiness", Labels: []string{LabelLate}, Unit: attendance.UnitTimes},
	},
}

// EnglishRules mirrors DefaultRules for sources exported with English labels.
var EnglishRules = RuleTable{
	Name:          "english",
	HalfDayMarker: "(half-day)",
	CountedLabels: []string{
		"sick leave", "personal leave", "absent", "absence", "late", "tardiness",
		"annual leave", "vacation", "maternity leave",
	},
	Rules: []CategoryRule{
		{Category: "sick/personal", Slug: "sick-personal", Labels: []string{"sick leave", "personal leave"}, AcceptHalfDay: true, Fractional: true, Unit: "days"},
		{Category: "absence", Slug: "absence", Labels: []string{"absent", "absence"}, AcceptHalfDay: true, Fractional: true, Unit: "days"},
		{Category: "tardiness", Slug: "tardiness", Labels: []string{"late", "tardiness"}, Unit: "times"},
		{Category: "vacation", Slug: "vacation", Labels: []string{"annual leave", "vacation"}, Unit: "days"},
	},
}

// RulesByName returns a built-in rule table.
func RulesByName(name string) (RuleTable, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default":
		return DefaultRules, nil
	case "legacy":
		return LegacyRules, nil
	case "english":
		return EnglishRules, nil
	}
	return RuleTable{}, fmt.Errorf("%w: %q", attendance.ErrUnknownRuleTable, name)
}

// Count returns the fractional count of a label: 0.5 when it carries the
// half-day marker, 1 for a counted label, 0 otherwise.
func (t RuleTable) Count(label string) float64 {
	if label == "" {
		return 0
	}
	if t.HalfDayMarker != "" && strings.Contains(label, t.HalfDayMarker) {
		return 0.5
	}
	for _, l := range t.CountedLabels {
		if label == l {
			return 1
		}
	}
	return 0
}

// Matches reports whether the label belongs to the rule's category.
func (t RuleTable) Matches(rule CategoryRule, label string) bool {
	if label == "" {
		return false
	}
	for _, l := range rule.Labels {
		if label == l {
			return true
		}
	}
	if !rule.AcceptHalfDay || t.HalfDayMarker == "" || !strings.Contains(label, t.HalfDayMarker) {
		return false
	}
	base := strings.TrimSpace(strings.Replace(label, t.HalfDayMarker, "", 1))
	for _, l := range rule.Labels {
		if base == l {
			return true
		}
	}
	return false
}

// Classify resolves a label to its headline category and contribution.
// The first matching rule wins.
func (t RuleTable) Classify(label string) Classification {
	c := Classification{LeaveDays: t.Count(label)}
	for _, rule := range t.Rules {
		if !t.Matches(rule, label) {
			continue
		}
		c.Category = rule.Category
		if rule.Fractional {
			c.Value = c.LeaveDays
		} else {
			c.Value = 1
		}
		return c
	}
	return c
}

// Categories lists the headline categories in table order.
func (t RuleTable) Categories() []attendance.Category {
	out := make([]attendance.Category, 0, len(t.Rules))
	for _, rule := range t.Rules {
		out = append(out, rule.Category)
	}
	return out
}

// Rule returns the rule of a category.
func (t RuleTable) Rule(c attendance.Category) (CategoryRule, bool) {
	for _, rule := range t.Rules {
		if rule.Category == c {
			return rule, true
		}
	}
	return CategoryRule{}, false
}

// ParseCategory resolves a category name or slug.
func (t RuleTable) ParseCategory(name string) (attendance.Category, error) {
	name = strings.TrimSpace(name)
	for _, rule := range t.Rules {
		if string(rule.Category) == name || strings.EqualFold(rule.Slug, name) {
			return rule.Category, nil
		}
	}
	return "", fmt.Errorf("%w: %q", attendance.ErrUnknownCategory, name)
}
