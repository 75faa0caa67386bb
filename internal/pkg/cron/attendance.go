package cron

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
)

const MarkAbsentEmployeesJob = "mark_absent_employees"

type AttendanceJobs struct {
	attendanceService attendance.AttendanceService
	sweepSchedule     string
}

func NewAttendanceJobs(attendanceService attendance.AttendanceService, sweepSchedule string) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceService: attendanceService,
		sweepSchedule:     sweepSchedule,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) error {
	return scheduler.AddJob(MarkAbsentEmployeesJob, j.sweepSchedule, j.MarkAbsentEmployees)
}

// MarkAbsentEmployees fills today's missing entries once the punch-in window has closed.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	today := j.attendanceService.Today()
	slog.Info("Cron: Starting mark absent employees job", "date", today.Format(attendance.DateLayout))

	result, err := j.attendanceService.RunDailySweep(ctx, today)
	if err != nil {
		return fmt.Errorf("failed to run daily sweep: %w", err)
	}

	slog.Info("Cron: Marked absent employees", "count", result.MarkedCount, "status", result.Status)
	return nil
}
