package attendance

import (
	"sort"
	"strconv"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
)

// Predicate selects records.
type Predicate func(attendance.Record) bool

// ByYear matches records whose Buddhist era year equals year.
// Records without a date never match.
func ByYear(year int) Predicate {
	return func(r attendance.Record) bool {
		return r.Year != nil && *r.Year == year
	}
}

// ByMonth matches records in the given period.
func ByMonth(p attendance.Period) Predicate {
	return func(r attendance.Record) bool {
		return r.Period != nil && *r.Period == p
	}
}

func ByDepartment(dept string) Predicate {
	return func(r attendance.Record) bool {
		return r.Department == dept
	}
}

func ByEmployee(name string) Predicate {
	return func(r attendance.Record) bool {
		return r.EmployeeName == name
	}
}

// Where returns the records matching every predicate, in input order.
// The input slice is never modified.
func Where(records []attendance.Record, preds ...Predicate) []attendance.Record {
	out := make([]attendance.Record, 0, len(records))
next:
	for _, r := range records {
		for _, p := range preds {
			if !p(r) {
				continue next
			}
		}
		out = append(out, r)
	}
	return out
}

// Apply runs the filter levels in order: year, month, department, employee.
// Unknown selector values select nothing.
func Apply(records []attendance.Record, f attendance.Filter) []attendance.Record {
	return Where(records, predicates(f, levelEmployee)...)
}

type level int

const (
	levelYear level = iota
	levelMonth
	levelDepartment
	levelEmployee
)

// predicates returns the active predicates up to and including upTo.
func predicates(f attendance.Filter, upTo level) []Predicate {
	var preds []Predicate
	if f.Year != nil && upTo >= levelYear {
		preds = append(preds, ByYear(*f.Year))
	}
	if f.Month != nil && upTo >= levelMonth {
		preds = append(preds, ByMonth(*f.Month))
	}
	if f.Department != nil && upTo >= levelDepartment {
		preds = append(preds, ByDepartment(*f.Department))
	}
	if f.Employee != nil && upTo >= levelEmployee {
		preds = append(preds, ByEmployee(*f.Employee))
	}
	return preds
}

// Options lists the selectable values of each filter level. Every level's
// options come from the records left by the levels above it, so month
// options always reflect the selected year.
func Options(records []attendance.Record, f attendance.Filter) attendance.FilterOptions {
	opts := attendance.FilterOptions{
		Years:       []attendance.YearOption{},
		Months:      []attendance.MonthOption{},
		Departments: []string{},
		Employees:   []string{},
	}

	seenYears := map[int]bool{}
	for _, r := range records {
		if r.Year != nil && !seenYears[*r.Year] {
			seenYears[*r.Year] = true
			opts.Years = append(opts.Years, attendance.YearOption{Value: *r.Year, Label: strconv.Itoa(*r.Year)})
		}
	}
	sort.Slice(opts.Years, func(i, j int) bool { return opts.Years[i].Value > opts.Years[j].Value })

	byYear := Where(records, predicates(f, levelYear)...)
	var periods []attendance.Period
	seenPeriods := map[attendance.Period]bool{}
	for _, r := range byYear {
		if r.Period != nil && !seenPeriods[*r.Period] {
			seenPeriods[*r.Period] = true
			periods = append(periods, *r.Period)
		}
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Before(periods[j]) })
	for _, p := range periods {
		opts.Months = append(opts.Months, attendance.MonthOption{Value: p.String(), Label: ThaiMonthLabel(p)})
	}

	byMonth := Where(byYear, predicates(f, levelMonth)...)
	opts.Departments = distinctSorted(byMonth, func(r attendance.Record) string { return r.Department })

	byDept := Where(byMonth, predicates(f, levelDepartment)...)
	opts.Employees = distinctSorted(byDept, func(r attendance.Record) string { return r.EmployeeName })

	return opts
}

func distinctSorted(records []attendance.Record, key func(attendance.Record) string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, r := range records {
		k := key(r)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
