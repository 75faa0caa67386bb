package employee

import (
	"time"
)

// Employee is the slice of the employee directory this service reads.
type Employee struct {
	ID         string
	FullName   string
	Role       Role
	BaseSalary *float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Role string

const (
	RoleEmployee Role = "Employee"
	RoleAdmin    Role = "Admin"
	RoleHR       Role = "HR"
)

// CanManageAttendance reports whether the role may override attendance and run payroll.
func (r Role) CanManageAttendance() bool {
	return r == RoleAdmin || r == RoleHR
}

// HasBaseSalary reports whether a positive monthly salary is configured.
func (e Employee) HasBaseSalary() bool {
	return e.BaseSalary != nil && *e.BaseSalary > 0
}
