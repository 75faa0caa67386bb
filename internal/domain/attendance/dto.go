package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type PunchRequest struct {
	EmployeeID string `json:"employee_id"`
}

func (r *PunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ManualAttendanceRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Status     Status `json:"status"`
}

func (r *ManualAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	// Display-only statuses are rejected with ErrInvalidManualStatus.
	if !r.Status.IsPersistable() && !r.Status.IsDisplayOnly() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of Present, Absent, Half Day, Short Leave, Sick Leave, Paid Leave",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AttendanceResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	Status     Status `json:"status"`
}

// TodayStatusResponse is one row of the daily status board
type TodayStatusResponse struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Date         string `json:"date"`
	CheckIn      string `json:"check_in"`
	CheckOut     string `json:"check_out"`
	Status       Status `json:"status"`
}

type SheetRow struct {
	EmployeeID   string            `json:"employee_id"`
	EmployeeName string            `json:"employee_name"`
	Statuses     map[string]Status `json:"statuses"`
}

// SheetResponse is the date x employee attendance matrix
type SheetResponse struct {
	Dates     []string   `json:"dates"`
	Employees []SheetRow `json:"employees"`
}

type SweepResult struct {
	Date        string   `json:"date"`
	Status      Status   `json:"status"`
	MarkedCount int      `json:"marked_count"`
	EmployeeIDs []string `json:"employee_ids"`
}

// FormatClock renders t as local HH:MM, or NoTime when unset.
func FormatClock(t *time.Time, loc *time.Location) string {
	if t == nil {
		return NoTime
	}
	return t.In(loc).Format("15:04")
}

func ToResponse(a Attendance, loc *time.Location) AttendanceResponse {
	return AttendanceResponse{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		Date:       a.Date.Format(DateLayout),
		CheckIn:    FormatClock(a.CheckIn, loc),
		CheckOut:   FormatClock(a.CheckOut, loc),
		Status:     a.Status,
	}
}
