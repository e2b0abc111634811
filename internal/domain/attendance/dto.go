package attendance

import (
	"strings"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/pkg/validator"
)

// ========================================
// FILTERS
// ========================================

// Filter selects records. A nil field means "show all".
type Filter struct {
	Year       *int // Buddhist era
	Month      *Period
	Department *string
	Employee   *string
}

// FilterRequest carries raw filter query parameters.
type FilterRequest struct {
	Year       string `json:"year"`
	Month      string `json:"month"` // YYYY-MM
	Department string `json:"department"`
	Employee   string `json:"employee"`
}

func (r *FilterRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsEmpty(r.Year) {
		if _, ok := validator.ParseBuddhistYear(strings.TrimSpace(r.Year)); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "year",
				Message: "year must be a Buddhist era year, e.g. 2568",
			})
		}
	}

	if !validator.IsEmpty(r.Month) {
		if _, ok := validator.IsValidPeriod(strings.TrimSpace(r.Month)); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "month",
				Message: "month must be in YYYY-MM format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToFilter converts a validated request into a Filter.
func (r *FilterRequest) ToFilter() (Filter, error) {
	if err := r.Validate(); err != nil {
		return Filter{}, err
	}

	var f Filter
	if year, ok := validator.ParseBuddhistYear(strings.TrimSpace(r.Year)); ok {
		f.Year = &year
	}
	if !validator.IsEmpty(r.Month) {
		p, err := ParsePeriod(strings.TrimSpace(r.Month))
		if err != nil {
			return Filter{}, err
		}
		f.Month = &p
	}
	if dept := strings.TrimSpace(r.Department); dept != "" {
		f.Department = &dept
	}
	if name := strings.TrimSpace(r.Employee); name != "" {
		f.Employee = &name
	}
	return f, nil
}

// DetailRequest selects a drill-down.
type DetailRequest struct {
	FilterRequest
	Category string `json:"category"`
}

func (r *DetailRequest) Validate() error {
	var errs validator.ValidationErrors

	if err := r.FilterRequest.Validate(); err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}

	if validator.IsEmpty(r.Employee) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee",
			Message: "employee is required",
		})
	}

	if validator.IsEmpty(r.Category) {
		errs = append(errs, validator.ValidationError{
			Field:   "category",
			Message: "category is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========================================
// RESPONSES
// ========================================

type YearOption struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

type MonthOption struct {
	Value string `json:"value"` // YYYY-MM
	Label string `json:"label"` // Thai month name and Buddhist year
}

// FilterOptions lists the selectable values for each filter level.
type FilterOptions struct {
	Years       []YearOption  `json:"years"`
	Months      []MonthOption `json:"months"`
	Departments []string      `json:"departments"`
	Employees   []string      `json:"employees"`
}

type CategoryInfo struct {
	Name Category `json:"name"`
	Unit Unit     `json:"unit"`
}

type DatasetInfo struct {
	Version     string `json:"version"`
	LoadedAt    string `json:"loaded_at"`
	RecordCount int    `json:"record_count"`
}

type FilterOptionsResponse struct {
	Dataset    DatasetInfo    `json:"dataset"`
	Categories []CategoryInfo `json:"categories"`
	Options    FilterOptions  `json:"options"`
}

// SummaryItem is a SummaryRow with display strings.
type SummaryItem struct {
	EmployeeName string               `json:"employee_name"`
	Department   string               `json:"department"`
	Counts       map[Category]float64 `json:"counts"`
	Display      map[Category]string  `json:"display"`
	LeaveDays    float64              `json:"leave_days"`
}

type SummaryResponse struct {
	Dataset DatasetInfo   `json:"dataset"`
	Rows    []SummaryItem `json:"rows"`
}

type RankingResponse struct {
	Category   Category    `json:"category"`
	Unit       Unit        `json:"unit"`
	Rows       []RankedRow `json:"rows"`
	TotalCount int         `json:"total_count"` // before limit
}

type DistributionItem struct {
	DistributionEntry
	Display string `json:"display"`
}

type DistributionResponse struct {
	GrandTotal float64            `json:"grand_total"`
	Entries    []DistributionItem `json:"entries"`
}

// DashboardResponse combines everything a dashboard page needs.
type DashboardResponse struct {
	Dataset      DatasetInfo          `json:"dataset"`
	Categories   []CategoryInfo       `json:"categories"`
	Options      FilterOptions        `json:"options"`
	Summary      []SummaryItem        `json:"summary"`
	Rankings     []RankingResponse    `json:"rankings"`
	Distribution DistributionResponse `json:"distribution"`
	GeneratedAt  string               `json:"generated_at"`
}
