package attendance

import (
	"time"
)

// Status is the attendance state of one employee-day.
type Status string

const (
	StatusPresent    Status = "Present"
	StatusAbsent     Status = "Absent"
	StatusHalfDay    Status = "Half Day"
	StatusShortLeave Status = "Short Leave"
	StatusSickLeave  Status = "Sick Leave"
	StatusPaidLeave  Status = "Paid Leave"

	// Display-only values, never persisted.
	StatusPunchedIn    Status = "Punched In"
	StatusNotPunchedIn Status = "Not Punched In"
)

// DateLayout is the ISO calendar date format used on the wire.
const DateLayout = "2006-01-02"

// NoTime is rendered in place of an unset check-in or check-out.
const NoTime = "--"

// IsDisplayOnly reports whether s is a projection that never appears on a stored entry.
func (s Status) IsDisplayOnly() bool {
	return s == StatusPunchedIn || s == StatusNotPunchedIn
}

// IsPersistable reports whether s may be stored on an entry.
func (s Status) IsPersistable() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusHalfDay, StatusShortLeave, StatusSickLeave, StatusPaidLeave:
		return true
	}
	return false
}

type Attendance struct {
	ID         string
	EmployeeID string
	// Date is the civil date in the organization's zone, held at midnight UTC.
	Date      time.Time
	CheckIn   *time.Time
	CheckOut  *time.Time
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOpen reports whether the entry has a real check-in and no check-out yet.
func (a Attendance) IsOpen() bool {
	return a.CheckIn != nil && a.CheckOut == nil
}

// DerivedStatus projects the stored status for display without mutating the entry.
// A nil entry means the employee has no record for the day.
func DerivedStatus(a *Attendance) Status {
	if a == nil {
		return StatusNotPunchedIn
	}
	if a.Status == StatusPresent && a.IsOpen() {
		return StatusPunchedIn
	}
	return a.Status
}

// CivilDate truncates t to its calendar date in loc and returns it at midnight UTC,
// which is how DATE columns come back from the driver.
func CivilDate(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an ISO date into the same representation as CivilDate.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// SweepStatus is the status given to a missing entry: Sundays are a paid weekly off.
func SweepStatus(date time.Time) Status {
	if date.Weekday() == time.Sunday {
		return StatusPresent
	}
	return StatusAbsent
}
