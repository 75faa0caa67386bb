// Package memory provides in-process repository implementations for
// development and tests. Selected with STORE_DRIVER=memory.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/payroll"
	"github.com/google/uuid"
)

// =============================================================================
// STORE - shared state behind the three repositories
// =============================================================================

type Store struct {
	mu          sync.RWMutex
	employees   map[string]employee.Employee
	attendances map[key]attendance.Attendance
	salaries    map[string][]payroll.SalaryRecord

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	now func() time.Time
}

type key struct {
	EmployeeID string
	Date       string
}

func keyOf(employeeID string, date time.Time) key {
	return key{EmployeeID: employeeID, Date: date.Format(attendance.DateLayout)}
}

func NewStore() *Store {
	return &Store{
		employees:   make(map[string]employee.Employee),
		attendances: make(map[key]attendance.Attendance),
		salaries:    make(map[string][]payroll.SalaryRecord),
		locks:       make(map[string]*sync.Mutex),
		now:         time.Now,
	}
}

// PutEmployee adds or replaces an employee in the directory.
func (s *Store) PutEmployee(e employee.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now().UTC()
	}
	e.UpdatedAt = s.now().UTC()
	s.employees[e.ID] = e
}

func (s *Store) Employees() employee.EmployeeRepository { return &employeeRepository{s} }

func (s *Store) Attendances() attendance.AttendanceRepository { return &attendanceRepository{s} }

func (s *Store) Salaries() payroll.SalaryRepository { return &salaryRepository{s} }

func (s *Store) employeeLock(employeeID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[employeeID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[employeeID] = l
	}
	return l
}

// =============================================================================
// EMPLOYEES
// =============================================================================

type employeeRepository struct{ s *Store }

func (r *employeeRepository) GetByID(_ context.Context, id string) (employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *employeeRepository) List(_ context.Context) ([]employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := make([]employee.Employee, 0, len(r.s.employees))
	for _, e := range r.s.employees {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].FullName != result[j].FullName {
			return result[i].FullName < result[j].FullName
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// =============================================================================
// ATTENDANCE
// =============================================================================

type attendanceRepository struct{ s *Store }

// WithEmployeeLock serializes fn per employee. Data access inside fn takes the
// store lock on its own, so fn may call back into the repositories.
func (r *attendanceRepository) WithEmployeeLock(ctx context.Context, employeeID string, fn func(ctx context.Context) error) error {
	r.s.mu.RLock()
	_, ok := r.s.employees[employeeID]
	r.s.mu.RUnlock()
	if !ok {
		return employee.ErrEmployeeNotFound
	}

	l := r.s.employeeLock(employeeID)
	l.Lock()
	defer l.Unlock()
	return fn(ctx)
}

func (r *attendanceRepository) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.attendances[keyOf(employeeID, date)]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *attendanceRepository) Append(_ context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := keyOf(a.EmployeeID, a.Date)
	if _, exists := r.s.attendances[k]; exists {
		return attendance.Attendance{}, attendance.ErrAlreadyPunchedIn
	}
	return r.s.insertLocked(a), nil
}

func (r *attendanceRepository) Update(_ context.Context, a attendance.Attendance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := keyOf(a.EmployeeID, a.Date)
	existing, ok := r.s.attendances[k]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	existing.CheckIn = a.CheckIn
	existing.CheckOut = a.CheckOut
	existing.Status = a.Status
	existing.UpdatedAt = r.s.now().UTC()
	r.s.attendances[k] = existing
	return nil
}

func (r *attendanceRepository) Upsert(_ context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := keyOf(a.EmployeeID, a.Date)
	existing, ok := r.s.attendances[k]
	if !ok {
		return r.s.insertLocked(a), nil
	}
	existing.CheckIn = a.CheckIn
	existing.CheckOut = a.CheckOut
	existing.Status = a.Status
	existing.UpdatedAt = r.s.now().UTC()
	r.s.attendances[k] = existing
	return existing, nil
}

func (s *Store) insertLocked(a attendance.Attendance) attendance.Attendance {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	now := s.now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	s.attendances[keyOf(a.EmployeeID, a.Date)] = a
	return a
}

func (r *attendanceRepository) ListByDate(_ context.Context, date time.Time) ([]attendance.Attendance, error) {
	return r.s.filterSorted(func(a attendance.Attendance) bool { return a.Date.Equal(date) }, func(a, b attendance.Attendance) bool {
		return a.EmployeeID < b.EmployeeID
	}), nil
}

func (r *attendanceRepository) ListAll(_ context.Context) ([]attendance.Attendance, error) {
	return r.s.filterSorted(func(attendance.Attendance) bool { return true }, func(a, b attendance.Attendance) bool {
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.EmployeeID < b.EmployeeID
	}), nil
}

func (r *attendanceRepository) ListByEmployee(_ context.Context, employeeID string) ([]attendance.Attendance, error) {
	return r.s.filterSorted(func(a attendance.Attendance) bool { return a.EmployeeID == employeeID }, func(a, b attendance.Attendance) bool {
		return a.Date.Before(b.Date)
	}), nil
}

func (s *Store) filterSorted(keep func(attendance.Attendance) bool, less func(a, b attendance.Attendance) bool) []attendance.Attendance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]attendance.Attendance, 0)
	for _, a := range s.attendances {
		if keep(a) {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return less(result[i], result[j]) })
	return result
}

// BulkCreateAbsences fills every gap for date in one critical section.
func (r *attendanceRepository) BulkCreateAbsences(_ context.Context, date time.Time, status attendance.Status) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	marked := make([]string, 0)
	for id := range r.s.employees {
		if _, exists := r.s.attendances[keyOf(id, date)]; exists {
			continue
		}
		r.s.insertLocked(attendance.Attendance{EmployeeID: id, Date: date, Status: status})
		marked = append(marked, id)
	}
	sort.Strings(marked)
	return marked, nil
}

// =============================================================================
// SALARIES
// =============================================================================

type salaryRepository struct{ s *Store }

func (r *salaryRepository) Append(_ context.Context, rec payroll.SalaryRecord) (payroll.SalaryRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	rec.CreatedAt = r.s.now().UTC()
	r.s.salaries[rec.EmployeeID] = append(r.s.salaries[rec.EmployeeID], rec)
	return rec, nil
}

// ListByEmployee returns records newest first.
func (r *salaryRepository) ListByEmployee(_ context.Context, employeeID string) ([]payroll.SalaryRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	records := r.s.salaries[employeeID]
	result := make([]payroll.SalaryRecord, len(records))
	for i, rec := range records {
		result[len(records)-1-i] = rec
	}
	return result, nil
}
