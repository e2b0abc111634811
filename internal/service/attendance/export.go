package attendance

import (
	"fmt"
	"io"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
	"github.com/xuri/excelize/v2"
)

const summarySheet = "Summary"

// WriteWorkbook writes a summary sheet plus one ranking sheet per category.
func WriteWorkbook(w io.Writer, rows []attendance.SummaryRow, rules RuleTable) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#FFC300"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	categories := rules.Categories()

	header := []interface{}{"ชื่อ-สกุล", "แผนก"}
	for _, c := range categories {
		header = append(header, string(c))
	}
	if err := writeRow(f, summarySheet, 1, header); err != nil {
		return err
	}
	if err := styleHeader(f, summarySheet, len(header), headerStyle); err != nil {
		return err
	}
	for i, row := range rows {
		values := []interface{}{row.EmployeeName, row.Department}
		for _, c := range categories {
			values = append(values, row.Value(c))
		}
		if err := writeRow(f, summarySheet, i+2, values); err != nil {
			return err
		}
	}

	for _, rule := range rules.Rules {
		sheet := "rank-" + rule.Slug
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}
		header := []interface{}{"อันดับ", "ชื่อ-สกุล", "แผนก", string(rule.Category)}
		if err := writeRow(f, sheet, 1, header); err != nil {
			return err
		}
		if err := styleHeader(f, sheet, len(header), headerStyle); err != nil {
			return err
		}
		for i, r := range Rank(rows, rule.Category) {
			if err := writeRow(f, sheet, i+2, []interface{}{r.Rank, r.EmployeeName, r.Department, r.Value}); err != nil {
				return err
			}
		}
	}

	f.SetActiveSheet(0)
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func styleHeader(f *excelize.File, sheet string, columns, style int) error {
	last, err := excelize.CoordinatesToCellName(columns, 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}
