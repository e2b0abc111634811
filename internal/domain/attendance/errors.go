package attendance

import "errors"

// Attendance analytics domain errors
var (
	// Source errors
	ErrSourceUnavailable = errors.New("attendance source is unavailable")
	ErrSourceReadOnly    = errors.New("attendance source does not accept uploads")
	ErrInvalidWorkbook   = errors.New("uploaded file is not a valid xlsx workbook")

	// Query errors
	ErrUnknownCategory  = errors.New("unknown exception category")
	ErrUnknownRuleTable = errors.New("unknown classification rule table")
	ErrInvalidPeriod    = errors.New("period must be in YYYY-MM format")
)
