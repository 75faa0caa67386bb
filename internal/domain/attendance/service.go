package attendance

import (
	"context"
	"time"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// PunchIn opens today's entry for the employee inside the punch-in window
	PunchIn(ctx context.Context, req PunchRequest) (AttendanceResponse, error)

	// PunchOut closes today's open entry
	PunchOut(ctx context.Context, req PunchRequest) (AttendanceResponse, error)

	// MarkManual creates or overwrites an entry, bypassing time gating (admin/HR)
	MarkManual(ctx context.Context, req ManualAttendanceRequest) (AttendanceResponse, error)

	// ListToday returns every employee's derived status for today
	ListToday(ctx context.Context) ([]TodayStatusResponse, error)

	// ListSheet returns the date x employee attendance matrix
	ListSheet(ctx context.Context) (SheetResponse, error)

	// RunDailySweep fills in missing entries for date
	RunDailySweep(ctx context.Context, date time.Time) (SweepResult, error)

	// Today returns the current civil date in the organization's zone
	Today() time.Time
}
