package validator

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Numeric validation
var numericRegex = regexp.MustCompile(`^[0-9]+$`)

func IsNumeric(s string) bool {
	return numericRegex.MatchString(s)
}

// IsValidPeriod checks a "YYYY-MM" month selector.
func IsValidPeriod(period string) (time.Time, bool) {
	t, err := time.Parse("2006-01", period)
	return t, err == nil
}

// Buddhist era years accepted by filters (Gregorian 1900..2400).
const (
	MinBuddhistYear = 2443
	MaxBuddhistYear = 2943
)

// ParseBuddhistYear parses a year selector in the Buddhist era.
func ParseBuddhistYear(s string) (int, bool) {
	if !IsNumeric(s) {
		return 0, false
	}
	year, err := strconv.Atoi(s)
	if err != nil || year < MinBuddhistYear || year > MaxBuddhistYear {
		return 0, false
	}
	return year, true
}
