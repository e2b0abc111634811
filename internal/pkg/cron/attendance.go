package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
)

type AttendanceJobs struct {
	analyticsService attendance.AnalyticsService
	interval         time.Duration
}

// NewAttendanceJobs reloads the attendance source every interval so that
// dashboard requests rarely pay for a cold load.
func NewAttendanceJobs(analyticsService attendance.AnalyticsService, interval time.Duration) *AttendanceJobs {
	return &AttendanceJobs{
		analyticsService: analyticsService,
		interval:         interval,
	}
}

// RegisterJobs adds the refresh job. Nothing is registered for a
// non-positive interval.
func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	if j.interval <= 0 {
		return
	}
	scheduler.AddJob(Job{
		Name:     "refresh_attendance_dataset",
		Interval: j.interval,
		Fn:       j.RefreshDataset,
	})
}

func (j *AttendanceJobs) RefreshDataset(ctx context.Context) error {
	info, err := j.analyticsService.Refresh(ctx)
	if err != nil {
		return err
	}

	slog.Info("Cron: attendance dataset refreshed",
		"version", info.Version,
		"records", info.RecordCount,
	)
	return nil
}
