package payroll

import "errors"

var (
	ErrMissingBaseSalary = errors.New("employee has no base salary configured")
	ErrInvalidMonth      = errors.New("month must look like \"September 2025\"")
)
