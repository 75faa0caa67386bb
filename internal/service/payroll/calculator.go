package payroll

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/payroll"
)

// dayWeights is how much of a day's pay each stored status earns.
var dayWeights = map[attendance.Status]float64{
	attendance.StatusPresent:    1,
	attendance.StatusPaidLeave:  1,
	attendance.StatusHalfDay:    0.5,
	attendance.StatusShortLeave: 0.75,
}

// unpaidStatuses count toward deductions.
var unpaidStatuses = map[attendance.Status]bool{
	attendance.StatusAbsent:    true,
	attendance.StatusSickLeave: true,
}

type SalaryCalculator struct {
}

func NewSalaryCalculator() *SalaryCalculator {
	return &SalaryCalculator{}
}

// DaysInMonth returns the number of calendar days in the month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Calculate converts one month of attendance entries into pay. Entries outside
// the period are ignored.
func (c *SalaryCalculator) Calculate(baseSalary float64, year int, month time.Month, entries []attendance.Attendance) payroll.Breakdown {
	days := DaysInMonth(year, month)
	perDay := baseSalary / float64(days)

	var payable, unpaid float64
	for _, e := range entries {
		if e.Date.Year() != year || e.Date.Month() != month {
			continue
		}
		if w, ok := dayWeights[e.Status]; ok {
			payable += w
		} else if unpaidStatuses[e.Status] {
			unpaid++
		}
	}

	gross := perDay * payable
	return payroll.Breakdown{
		BaseSalary:      baseSalary,
		DaysInMonth:     days,
		PerDaySalary:    perDay,
		PayableDays:     payable,
		UnpaidLeaveDays: unpaid,
		GrossEarnings:   gross,
		LeaveDeductions: perDay * unpaid,
		// Deductions are reported but not subtracted; payable days already exclude them.
		NetSalary: gross,
	}
}
