package xlsx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/pkg/storage"
	"github.com/xuri/excelize/v2"
)

// MaxWorkbookSize bounds uploaded workbooks.
const MaxWorkbookSize = 20 << 20

type column int

const (
	colEmployee column = iota
	colDepartment
	colDate
	colCheckIn
	colCheckOut
	colException
)

// headerAliases maps normalized header text to columns.
var headerAliases = map[string]column{
	"ชื่อ-สกุล":       colEmployee,
	"ชื่อ":            colEmployee,
	"employee_name":   colEmployee,
	"employee name":   colEmployee,
	"employee":        colEmployee,
	"name":            colEmployee,
	"แผนก":            colDepartment,
	"department":      colDepartment,
	"dept":            colDepartment,
	"วันที่":          colDate,
	"date":            colDate,
	"เข้างาน":         colCheckIn,
	"check_in":        colCheckIn,
	"check in":        colCheckIn,
	"clock_in":        colCheckIn,
	"ออกงาน":          colCheckOut,
	"check_out":       colCheckOut,
	"check out":       colCheckOut,
	"clock_out":       colCheckOut,
	"ข้อยกเว้น":       colException,
	"exception":       colException,
	"exception_label": colException,
	"remark":          colException,
}

// AttendanceWorkbook loads attendance rows from an xlsx file kept in
// FileStorage. The first row of the sheet is the header.
type AttendanceWorkbook struct {
	storage storage.FileStorage
	path    string
	sheet   string
}

// NewAttendanceWorkbook reads path from fs. An empty sheet selects the
// first sheet of the workbook.
func NewAttendanceWorkbook(fs storage.FileStorage, path, sheet string) *AttendanceWorkbook {
	return &AttendanceWorkbook{
		storage: fs,
		path:    path,
		sheet:   sheet,
	}
}

func (w *AttendanceWorkbook) Name() string {
	return "xlsx"
}

// Exists reports whether a workbook has been stored yet.
func (w *AttendanceWorkbook) Exists(ctx context.Context) (bool, error) {
	return w.storage.Exists(ctx, w.path)
}

func (w *AttendanceWorkbook) Load(ctx context.Context) ([]attendance.RawRow, error) {
	rc, err := w.storage.Download(ctx, w.path)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: workbook %s not found", attendance.ErrSourceUnavailable, w.path)
		}
		return nil, fmt.Errorf("%w: %w", attendance.ErrSourceUnavailable, err)
	}
	defer rc.Close()

	f, err := excelize.OpenReader(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open workbook: %w", attendance.ErrSourceUnavailable, err)
	}
	defer f.Close()

	sheet := w.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return []attendance.RawRow{}, nil
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %q: %w", attendance.ErrSourceUnavailable, sheet, err)
	}
	return ParseRows(rows), nil
}

// ParseRows converts sheet rows (header first) into raw rows. Columns are
// matched by header name; a missing column leaves its field nil in every
// row. Completely blank rows are skipped.
func ParseRows(rows [][]string) []attendance.RawRow {
	out := make([]attendance.RawRow, 0)
	if len(rows) == 0 {
		return out
	}

	index := make(map[column]int)
	for i, h := range rows[0] {
		key := strings.ToLower(strings.Join(strings.Fields(h), " "))
		if col, ok := headerAliases[key]; ok {
			if _, seen := index[col]; !seen {
				index[col] = i
			}
		}
	}

	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		raw := attendance.RawRow{
			EmployeeName: cell(row, index, colEmployee),
			Department:   cell(row, index, colDepartment),
			CheckIn:      timeCell(cell(row, index, colCheckIn)),
			CheckOut:     timeCell(cell(row, index, colCheckOut)),
			Exception:    cell(row, index, colException),
		}
		raw.Date, raw.DateValue = dateCell(cell(row, index, colDate))
		out = append(out, raw)
	}
	return out
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func cell(row []string, index map[column]int, col column) *string {
	i, ok := index[col]
	if !ok || i >= len(row) || strings.TrimSpace(row[i]) == "" {
		return nil
	}
	v := row[i]
	return &v
}

// dateCell converts Excel serial dates into native values and passes text
// through untouched.
func dateCell(v *string) (*string, *time.Time) {
	if v == nil {
		return nil, nil
	}
	serial, err := strconv.ParseFloat(strings.TrimSpace(*v), 64)
	if err != nil {
		return v, nil
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return v, nil
	}
	return nil, &t
}

// timeCell converts an Excel day fraction into "15:04:05". A value below 1
// is a pure time; a larger one must carry a time part. Whole numbers of 1 or
// more are left as typed so they fall back to the defaulted midnight.
func timeCell(v *string) *string {
	if v == nil {
		return nil
	}
	serial, err := strconv.ParseFloat(strings.TrimSpace(*v), 64)
	if err != nil || serial < 0 {
		return v
	}
	whole, frac := math.Modf(serial)
	if whole >= 1 && frac == 0 {
		return v
	}
	secs := int(math.Round(frac * 24 * 60 * 60))
	if secs >= 24*60*60 {
		secs = 0
	}
	s := fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs/60%60, secs%60)
	return &s
}

// Replace validates an uploaded workbook and stores it as the new source.
func (w *AttendanceWorkbook) Replace(ctx context.Context, file io.Reader, filename string) error {
	if ext := strings.ToLower(filepath.Ext(filename)); ext != ".xlsx" {
		return fmt.Errorf("%w: unsupported extension %q", attendance.ErrInvalidWorkbook, ext)
	}

	data, err := io.ReadAll(io.LimitReader(file, MaxWorkbookSize+1))
	if err != nil {
		return fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) > MaxWorkbookSize {
		return fmt.Errorf("%w: file exceeds %d bytes", attendance.ErrInvalidWorkbook, MaxWorkbookSize)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %w", attendance.ErrInvalidWorkbook, err)
	}
	f.Close()

	if err := w.storage.Upload(ctx, bytes.NewReader(data), w.path); err != nil {
		return fmt.Errorf("failed to store workbook: %w", err)
	}
	return nil
}
