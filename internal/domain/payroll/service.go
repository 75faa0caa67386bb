package payroll

import "context"

type PayrollService interface {
	// GeneratePayroll computes and records one month of salary for each employee.
	// Per-employee skips and failures are reported in the response, not as an error.
	GeneratePayroll(ctx context.Context, req GeneratePayrollRequest) (GeneratePayrollResponse, error)

	ListSalaryHistory(ctx context.Context, employeeID string) ([]SalaryRecordResponse, error)
}

// SlipRenderer produces a stored salary slip and returns its reference path.
type SlipRenderer interface {
	RenderSalarySlip(ctx context.Context, slip Slip) (string, error)

	// DeleteSalarySlip removes a slip that no record points to
	DeleteSalarySlip(ctx context.Context, path string) error

	SalarySlipURL(ctx context.Context, path string) (string, error)
}
