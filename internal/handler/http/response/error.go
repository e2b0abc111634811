package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrUnknownCategory):
		NotFound(w, err.Error())
	case errors.Is(err, attendance.ErrInvalidPeriod):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrInvalidWorkbook):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrSourceReadOnly):
		Conflict(w, "Attendance source cannot be replaced")
	case errors.Is(err, attendance.ErrSourceUnavailable):
		slog.Warn("Attendance data unavailable", "error", err)
		NoData(w, "No attendance data available")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
