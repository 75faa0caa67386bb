package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
)

type salaryRepository struct {
	db *database.DB
}

func NewSalaryRepository(db *database.DB) payroll.SalaryRepository {
	return &salaryRepository{db: db}
}

// Append implements payroll.SalaryRepository.
func (r *salaryRepository) Append(ctx context.Context, record payroll.SalaryRecord) (payroll.SalaryRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salary_records (
			id, employee_id, month, period_year, period_month,
			amount, gross_salary, deductions, worked_days, unpaid_days,
			status, generated_on, slip_path
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		record.ID, record.EmployeeID, record.Month, record.PeriodYear, int(record.PeriodMonth),
		record.Amount, record.GrossSalary, record.Deductions, record.WorkedDays, record.UnpaidDays,
		string(record.Status), record.Date, record.SlipPath,
	).Scan(&record.CreatedAt)
	if err != nil {
		return payroll.SalaryRecord{}, fmt.Errorf("failed to create salary record: %w", err)
	}

	return record, nil
}

// ListByEmployee implements payroll.SalaryRepository.
func (r *salaryRepository) ListByEmployee(ctx context.Context, employeeID string) ([]payroll.SalaryRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, month, period_year, period_month,
			   amount, gross_salary, deductions, worked_days, unpaid_days,
			   status, generated_on, slip_path, created_at
		FROM salary_records
		WHERE employee_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary records: %w", err)
	}
	defer rows.Close()

	records := make([]payroll.SalaryRecord, 0)
	for rows.Next() {
		var (
			rec         payroll.SalaryRecord
			periodMonth int
			status      string
			generatedOn time.Time
		)
		err := rows.Scan(
			&rec.ID, &rec.EmployeeID, &rec.Month, &rec.PeriodYear, &periodMonth,
			&rec.Amount, &rec.GrossSalary, &rec.Deductions, &rec.WorkedDays, &rec.UnpaidDays,
			&status, &generatedOn, &rec.SlipPath, &rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary record: %w", err)
		}
		rec.PeriodMonth = time.Month(periodMonth)
		rec.Status = payroll.SalaryStatus(status)
		rec.Date = generatedOn
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating salary records: %w", err)
	}

	return records, nil
}
