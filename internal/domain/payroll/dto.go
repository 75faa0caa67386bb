package payroll

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// ========== PAYROLL RUN DTOs ==========

type GeneratePayrollRequest struct {
	Month       string   `json:"month"`                  // "September 2025"
	EmployeeIDs []string `json:"employee_ids,omitempty"` // Empty = all employees
}

func (r *GeneratePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidMonth(r.Month); !ok {
		errs = append(errs, validator.ValidationError{Field: "month", Message: ErrInvalidMonth.Error()})
	}
	for _, id := range r.EmployeeIDs {
		if validator.IsEmpty(id) {
			errs = append(errs, validator.ValidationError{Field: "employee_ids", Message: "must not contain empty ids"})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Period returns the year and month named by the label.
func (r *GeneratePayrollRequest) Period() (int, time.Month, error) {
	t, ok := validator.IsValidMonth(r.Month)
	if !ok {
		return 0, 0, ErrInvalidMonth
	}
	return t.Year(), t.Month(), nil
}

// ========== RESPONSE DTOs ==========

type SalaryRecordResponse struct {
	ID          string  `json:"id"`
	EmployeeID  string  `json:"employee_id"`
	Month       string  `json:"month"`
	Amount      float64 `json:"amount"`
	GrossSalary float64 `json:"gross_salary"`
	Deductions  float64 `json:"deductions"`
	WorkedDays  float64 `json:"worked_days"`
	UnpaidDays  float64 `json:"unpaid_days"`
	Status      string  `json:"status"`
	Date        string  `json:"date"`
	SlipPath    string  `json:"slip_path"`
	SlipURL     string  `json:"slip_url,omitempty"`
}

// EmployeeOutcome explains why an employee got no salary record in a run.
type EmployeeOutcome struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

type GeneratePayrollResponse struct {
	Month     string                 `json:"month"`
	Generated []SalaryRecordResponse `json:"generated"`
	Skipped   []EmployeeOutcome      `json:"skipped"`
	Failed    []EmployeeOutcome      `json:"failed"`
}

func ToRecordResponse(r SalaryRecord) SalaryRecordResponse {
	return SalaryRecordResponse{
		ID:          r.ID,
		EmployeeID:  r.EmployeeID,
		Month:       r.Month,
		Amount:      r.Amount,
		GrossSalary: r.GrossSalary,
		Deductions:  r.Deductions,
		WorkedDays:  r.WorkedDays,
		UnpaidDays:  r.UnpaidDays,
		Status:      string(r.Status),
		Date:        r.Date.Format("2006-01-02"),
		SlipPath:    r.SlipPath,
	}
}
