package postgresql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (pgxmock.PgxPoolIface, *database.DB) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, database.New(mock)
}

var attendanceCols = []string{"id", "employee_id", "date", "check_in", "check_out", "status", "created_at", "updated_at"}

func TestAttendanceRepository_WithEmployeeLock(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewAttendanceRepository(db)
	date := time.Date(2025, 9, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs("emp-1").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("emp-1"))
	mock.ExpectQuery(`FROM attendances`).
		WithArgs("emp-1", date).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectCommit()

	called := false
	err := repo.WithEmployeeLock(context.Background(), "emp-1", func(ctx context.Context) error {
		called = true
		existing, err := repo.GetByEmployeeAndDate(ctx, "emp-1", date)
		require.NoError(t, err)
		assert.Nil(t, existing)
		return nil
	})

	require.NoError(t, err)
	assert.True(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepository_WithEmployeeLock_UnknownEmployee(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewAttendanceRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	err := repo.WithEmployeeLock(context.Background(), "ghost", func(ctx context.Context) error {
		t.Fatal("fn must not run for an unknown employee")
		return nil
	})

	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepository_WithEmployeeLock_RollsBackOnError(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewAttendanceRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs("emp-1").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("emp-1"))
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := repo.WithEmployeeLock(context.Background(), "emp-1", func(ctx context.Context) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepository_Append_DuplicateDay(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewAttendanceRepository(db)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO attendances`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation})

	_, err := repo.Append(context.Background(), attendance.Attendance{
		EmployeeID: "emp-1",
		Date:       attendance.CivilDate(now, time.UTC),
		CheckIn:    &now,
		Status:     attendance.StatusPresent,
	})

	assert.ErrorIs(t, err, attendance.ErrAlreadyPunchedIn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepository_ListByDate(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewAttendanceRepository(db)
	date := time.Date(2025, 9, 2, 0, 0, 0, 0, time.UTC)
	in := time.Date(2025, 9, 2, 2, 5, 0, 0, time.UTC)
	created := time.Date(2025, 9, 2, 2, 5, 0, 0, time.UTC)

	rows := pgxmock.NewRows(attendanceCols).
		AddRow("att-1", "emp-1", date, in, nil, "Present", created, created).
		AddRow("att-2", "emp-2", date, nil, nil, "Absent", created, created)
	mock.ExpectQuery(`FROM attendances`).WithArgs(date).WillReturnRows(rows)

	got, err := repo.ListByDate(context.Background(), date)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.True(t, got[0].IsOpen())
	assert.Equal(t, attendance.StatusPresent, got[0].Status)
	assert.Nil(t, got[1].CheckIn)
	assert.Nil(t, got[1].CheckOut)
	assert.Equal(t, attendance.StatusAbsent, got[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepository_BulkCreateAbsences(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewAttendanceRepository(db)
	date := time.Date(2025, 9, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`RETURNING employee_id`).
		WithArgs(date, "Absent").
		WillReturnRows(pgxmock.NewRows([]string{"employee_id"}).AddRow("emp-2").AddRow("emp-3"))

	ids, err := repo.BulkCreateAbsences(context.Background(), date, attendance.StatusAbsent)
	require.NoError(t, err)
	assert.Equal(t, []string{"emp-2", "emp-3"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepository_Update_Missing(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewAttendanceRepository(db)

	mock.ExpectExec(`UPDATE attendances`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), attendance.Attendance{EmployeeID: "emp-1", Status: attendance.StatusPresent})
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepository_Upsert(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewAttendanceRepository(db)
	date := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	stamp := time.Date(2025, 9, 2, 3, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`ON CONFLICT \(employee_id, date\)`).
		WithArgs("emp-1", date, pgxmock.AnyArg(), pgxmock.AnyArg(), "Sick Leave").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("att-1", stamp, stamp))

	got, err := repo.Upsert(context.Background(), attendance.Attendance{
		EmployeeID: "emp-1",
		Date:       date,
		Status:     attendance.StatusSickLeave,
	})
	require.NoError(t, err)
	assert.Equal(t, "att-1", got.ID)
	assert.Nil(t, got.CheckIn)
	assert.Equal(t, attendance.StatusSickLeave, got.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
