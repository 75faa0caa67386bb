package postgresql

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/payroll"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var employeeCols = []string{"id", "full_name", "role", "base_salary", "created_at", "updated_at"}

func TestEmployeeRepository_GetByID_NotFound(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewEmployeeRepository(db)

	mock.ExpectQuery(`FROM employees`).WithArgs("ghost").WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_List(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewEmployeeRepository(db)
	now := time.Now().UTC()

	rows := pgxmock.NewRows(employeeCols).
		AddRow("emp-1", "Ayu Lestari", "Employee", 30000.0, now, now).
		AddRow("emp-2", "Budi Santoso", "HR", nil, now, now)
	mock.ExpectQuery(`FROM employees`).WillReturnRows(rows)

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.NotNil(t, got[0].BaseSalary)
	assert.Equal(t, 30000.0, *got[0].BaseSalary)
	assert.True(t, got[0].HasBaseSalary())
	assert.Nil(t, got[1].BaseSalary)
	assert.Equal(t, employee.RoleHR, got[1].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSalaryRepository_ListByEmployee(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewSalaryRepository(db)
	generated := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	created := time.Date(2025, 10, 1, 4, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows([]string{
		"id", "employee_id", "month", "period_year", "period_month",
		"amount", "gross_salary", "deductions", "worked_days", "unpaid_days",
		"status", "generated_on", "slip_path", "created_at",
	}).AddRow("sal-1", "emp-1", "September 2025", 2025, 9,
		21000.0, 21000.0, 4000.0, 21.0, 4.0,
		"Paid", generated, "salary_slips/emp-1.pdf", created)
	mock.ExpectQuery(`FROM salary_records`).WithArgs("emp-1").WillReturnRows(rows)

	got, err := repo.ListByEmployee(context.Background(), "emp-1")
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, time.September, got[0].PeriodMonth)
	assert.Equal(t, payroll.SalaryStatusPaid, got[0].Status)
	assert.Equal(t, generated, got[0].Date)
	assert.Equal(t, 21000.0, got[0].Amount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
