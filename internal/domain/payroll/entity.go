package payroll

import (
	"time"
)

// SalaryStatus enum
type SalaryStatus string

const (
	SalaryStatusPaid SalaryStatus = "Paid"
)

// MonthLayout is the "Month Year" label format, e.g. "September 2025".
const MonthLayout = "January 2006"

// SalaryRecord is an immutable monthly payroll result. Corrections are new records.
type SalaryRecord struct {
	ID          string
	EmployeeID  string
	Month       string
	PeriodYear  int
	PeriodMonth time.Month
	Amount      float64
	GrossSalary float64
	Deductions  float64
	WorkedDays  float64
	UnpaidDays  float64
	Status      SalaryStatus
	Date        time.Time
	SlipPath    string
	CreatedAt   time.Time
}

// Breakdown is the per-employee result of converting a month of attendance into pay.
type Breakdown struct {
	BaseSalary      float64
	DaysInMonth     int
	PerDaySalary    float64
	PayableDays     float64
	UnpaidLeaveDays float64
	GrossEarnings   float64
	LeaveDeductions float64
	NetSalary       float64
}

// Slip is the data handed to the document renderer.
type Slip struct {
	EmployeeID   string
	EmployeeName string
	Month        string
	GeneratedOn  time.Time
	Breakdown    Breakdown
}
