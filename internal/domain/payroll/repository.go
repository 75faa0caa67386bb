package payroll

import "context"

// SalaryRepository stores salary history. Records are append-only.
type SalaryRepository interface {
	Append(ctx context.Context, record SalaryRecord) (SalaryRecord, error)

	// ListByEmployee returns records newest first
	ListByEmployee(ctx context.Context, employeeID string) ([]SalaryRecord, error)
}
