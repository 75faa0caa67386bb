package payroll

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
)

func entriesFor(year int, month time.Month, statuses ...attendance.Status) []attendance.Attendance {
	out := make([]attendance.Attendance, 0, len(statuses))
	for i, s := range statuses {
		out = append(out, attendance.Attendance{
			EmployeeID: "emp-1",
			Date:       time.Date(year, month, i+1, 0, 0, 0, 0, time.UTC),
			Status:     s,
		})
	}
	return out
}

func repeat(s attendance.Status, n int) []attendance.Status {
	out := make([]attendance.Status, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 30, DaysInMonth(2025, time.September))
	assert.Equal(t, 31, DaysInMonth(2025, time.December))
	assert.Equal(t, 28, DaysInMonth(2025, time.February))
	assert.Equal(t, 29, DaysInMonth(2024, time.February))
}

func TestCalculate_ThirtyDayMonth(t *testing.T) {
	statuses := append(repeat(attendance.StatusPresent, 20), attendance.StatusPaidLeave)
	statuses = append(statuses, repeat(attendance.StatusAbsent, 3)...)
	statuses = append(statuses, attendance.StatusSickLeave)

	got := NewSalaryCalculator().Calculate(30000, 2025, time.September, entriesFor(2025, time.September, statuses...))

	assert.Equal(t, 30, got.DaysInMonth)
	assert.InDelta(t, 1000, got.PerDaySalary, 1e-9)
	assert.InDelta(t, 21, got.PayableDays, 1e-9)
	assert.InDelta(t, 4, got.UnpaidLeaveDays, 1e-9)
	assert.InDelta(t, 21000, got.GrossEarnings, 1e-9)
	assert.InDelta(t, 4000, got.LeaveDeductions, 1e-9)
	// Net equals gross: deductions are informational only.
	assert.InDelta(t, 21000, got.NetSalary, 1e-9)
}

func TestCalculate_HalfDaysAndAbsences(t *testing.T) {
	statuses := append(repeat(attendance.StatusPresent, 20), repeat(attendance.StatusHalfDay, 2)...)
	statuses = append(statuses, repeat(attendance.StatusAbsent, 4)...)

	got := NewSalaryCalculator().Calculate(30000, 2025, time.September, entriesFor(2025, time.September, statuses...))

	assert.InDelta(t, 21, got.PayableDays, 1e-9)
	assert.InDelta(t, 4, got.UnpaidLeaveDays, 1e-9)
	assert.InDelta(t, 21000, got.GrossEarnings, 1e-9)
	assert.InDelta(t, 4000, got.LeaveDeductions, 1e-9)
	assert.InDelta(t, 21000, got.NetSalary, 1e-9)
}

func TestCalculate_PartialDays(t *testing.T) {
	got := NewSalaryCalculator().Calculate(31000, 2025, time.October, entriesFor(2025, time.October,
		attendance.StatusHalfDay, attendance.StatusShortLeave, attendance.StatusShortLeave, attendance.StatusPresent))

	assert.InDelta(t, 3.0, got.PayableDays, 1e-9)
	assert.InDelta(t, 0, got.UnpaidLeaveDays, 1e-9)
	assert.InDelta(t, 3000, got.GrossEarnings, 1e-9)
}

func TestCalculate_IgnoresOtherPeriods(t *testing.T) {
	entries := entriesFor(2025, time.September, attendance.StatusPresent, attendance.StatusAbsent)
	entries = append(entries, entriesFor(2025, time.August, repeat(attendance.StatusPresent, 5)...)...)
	entries = append(entries, entriesFor(2024, time.September, repeat(attendance.StatusPresent, 5)...)...)

	got := NewSalaryCalculator().Calculate(30000, 2025, time.September, entries)

	assert.InDelta(t, 1, got.PayableDays, 1e-9)
	assert.InDelta(t, 1, got.UnpaidLeaveDays, 1e-9)
}

func TestCalculate_NoEntries(t *testing.T) {
	got := NewSalaryCalculator().Calculate(28000, 2025, time.February, nil)

	assert.Equal(t, 28, got.DaysInMonth)
	assert.Zero(t, got.GrossEarnings)
	assert.Zero(t, got.NetSalary)
}
