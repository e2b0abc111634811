package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AttendanceHandler interface {
	GetFilters(w http.ResponseWriter, r *http.Request)
	GetSummary(w http.ResponseWriter, r *http.Request)
	GetRanking(w http.ResponseWriter, r *http.Request)
	GetDistribution(w http.ResponseWriter, r *http.Request)
	GetDetail(w http.ResponseWriter, r *http.Request)
	GetDashboard(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
	Refresh(w http.ResponseWriter, r *http.Request)
	ReplaceSource(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	analyticsService attendance.AnalyticsService
}

func NewAttendanceHandler(analyticsService attendance.AnalyticsService) AttendanceHandler {
	return &attendanceHandlerImpl{
		analyticsService: analyticsService,
	}
}

// filterRequest reads the shared filter query parameters.
func filterRequest(r *http.Request) attendance.FilterRequest {
	q := r.URL.Query()
	return attendance.FilterRequest{
		Year:       q.Get("year"),
		Month:      q.Get("month"),
		Department: q.Get("department"),
		Employee:   q.Get("employee"),
	}
}

// GetFilters handles GET /attendance/filters
func (h *attendanceHandlerImpl) GetFilters(w http.ResponseWriter, r *http.Request) {
	result, err := h.analyticsService.GetFilterOptions(r.Context(), filterRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetSummary handles GET /attendance/summary
func (h *attendanceHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	result, err := h.analyticsService.GetSummary(r.Context(), filterRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{
		TotalItems: int64(len(result.Rows)),
		Version:    result.Dataset.Version,
	})
}

// GetRanking handles GET /attendance/rankings/{category}
func (h *attendanceHandlerImpl) GetRanking(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	if unescaped, err := url.PathUnescape(category); err == nil {
		category = unescaped
	}

	// 0 = chart default, -1 = every ranked row
	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if l == "all" {
			limit = -1
		} else if limitNum, err := strconv.Atoi(l); err == nil && limitNum > 0 {
			limit = limitNum
		}
	}

	result, err := h.analyticsService.GetRanking(r.Context(), filterRequest(r), category, limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{
		Limit:      len(result.Rows),
		TotalItems: int64(result.TotalCount),
	})
}

// GetDistribution handles GET /attendance/distribution
func (h *attendanceHandlerImpl) GetDistribution(w http.ResponseWriter, r *http.Request) {
	result, err := h.analyticsService.GetDistribution(r.Context(), filterRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetDetail handles GET /attendance/details
func (h *attendanceHandlerImpl) GetDetail(w http.ResponseWriter, r *http.Request) {
	req := attendance.DetailRequest{
		FilterRequest: filterRequest(r),
		Category:      r.URL.Query().Get("category"),
	}

	result, err := h.analyticsService.GetDetail(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetDashboard handles GET /attendance/dashboard
func (h *attendanceHandlerImpl) GetDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.analyticsService.GetDashboard(r.Context(), filterRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Export handles GET /attendance/export
func (h *attendanceHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	// Buffer so a failure can still produce a JSON error
	var buf bytes.Buffer
	if err := h.analyticsService.ExportWorkbook(r.Context(), filterRequest(r), &buf); err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("attendance-%s.xlsx", time.Now().Format("20060102-150405"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write export", "error", err)
	}
}

// Refresh handles POST /attendance/refresh
func (h *attendanceHandlerImpl) Refresh(w http.ResponseWriter, r *http.Request) {
	result, err := h.analyticsService.Refresh(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance data reloaded", result)
}

// ReplaceSource handles PUT /attendance/source
func (h *attendanceHandlerImpl) ReplaceSource(w http.ResponseWriter, r *http.Request) {
	// Parse multipart form (max 20MB)
	if err := r.ParseMultipartForm(20 << 20); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		if err == http.ErrMissingFile {
			response.BadRequest(w, "Workbook file is required", nil)
			return
		}
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	defer file.Close()

	result, err := h.analyticsService.ReplaceSource(r.Context(), file, fileHeader.Filename)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance source replaced", result)
}
