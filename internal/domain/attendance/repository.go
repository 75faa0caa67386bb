package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// Entries are keyed by (employeeID, date); at most one exists per key.
type AttendanceRepository interface {
	// WithEmployeeLock runs fn while holding the employee's attendance lock.
	// Returns employee.ErrEmployeeNotFound if the employee does not exist.
	WithEmployeeLock(ctx context.Context, employeeID string, fn func(ctx context.Context) error) error

	// GetByEmployeeAndDate returns nil, nil when no entry exists
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// Append creates a new entry, ErrAlreadyPunchedIn if one exists for the date
	Append(ctx context.Context, attendance Attendance) (Attendance, error)

	// Update updates check-in, check-out and status of an existing entry
	Update(ctx context.Context, attendance Attendance) error

	// Upsert creates or overwrites the entry for (employee, date)
	Upsert(ctx context.Context, attendance Attendance) (Attendance, error)

	// ListByDate returns every entry on the given date
	ListByDate(ctx context.Context, date time.Time) ([]Attendance, error)

	// ListAll returns every entry, newest date first
	ListAll(ctx context.Context) ([]Attendance, error)

	// ListByEmployee returns one employee's entries, oldest date first
	ListByEmployee(ctx context.Context, employeeID string) ([]Attendance, error)

	// BulkCreateAbsences creates an entry with the given status and no times for every
	// employee that has none on date, returning the affected employee IDs.
	BulkCreateAbsences(ctx context.Context, date time.Time, status Status) ([]string, error)
}
