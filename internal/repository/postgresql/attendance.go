package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/pkg/database"
)

// loadStatementTimeout bounds the source query on the server side.
const loadStatementTimeout = 30 * time.Second

type attendanceSource struct {
	db *database.DB
}

// NewAttendanceSource reads attendance exceptions from the
// attendance_exceptions table:
//
//	employee_name TEXT, department TEXT, date DATE,
//	check_in TIME, check_out TIME, exception TEXT
//
// Every column is nullable.
func NewAttendanceSource(db *database.DB) attendance.SourceLoader {
	return &attendanceSource{db: db}
}

func (a *attendanceSource) Name() string {
	return "postgres"
}

// Load implements attendance.SourceLoader. The read runs in its own
// transaction so the statement timeout stays local to it.
func (a *attendanceSource) Load(ctx context.Context) ([]attendance.RawRow, error) {
	var result []attendance.RawRow
	err := WithTransaction(ctx, a.db, func(ctx context.Context) error {
		rows, err := a.load(ctx)
		result = rows
		return err
	})
	if err != nil {
		if !errors.Is(err, attendance.ErrSourceUnavailable) {
			err = fmt.Errorf("%w: %w", attendance.ErrSourceUnavailable, err)
		}
		return nil, err
	}
	return result, nil
}

func (a *attendanceSource) load(ctx context.Context) ([]attendance.RawRow, error) {
	q := GetQuerier(ctx, a.db)

	if _, err := q.Exec(ctx, fmt.Sprintf("SET LOCAL statement_timeout = %d", loadStatementTimeout.Milliseconds())); err != nil {
		return nil, fmt.Errorf("%w: failed to set statement timeout: %w", attendance.ErrSourceUnavailable, err)
	}

	query := `
		SELECT employee_name, department, date,
			   to_char(check_in, 'HH24:MI:SS'), to_char(check_out, 'HH24:MI:SS'),
			   exception
		FROM attendance_exceptions
		ORDER BY id
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query attendance exceptions: %w", attendance.ErrSourceUnavailable, err)
	}
	defer rows.Close()

	result := make([]attendance.RawRow, 0)
	for rows.Next() {
		var (
			raw  attendance.RawRow
			date *time.Time
		)
		err := rows.Scan(
			&raw.EmployeeName, &raw.Department, &date,
			&raw.CheckIn, &raw.CheckOut,
			&raw.Exception,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan attendance exception: %w", attendance.ErrSourceUnavailable, err)
		}
		raw.DateValue = date
		result = append(result, raw)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating attendance exceptions: %w", attendance.ErrSourceUnavailable, err)
	}

	return result, nil
}
