package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/notification"
)

// Config controls punch-in gating and the organization's calendar.
type Config struct {
	Location         *time.Location
	PunchInStartHour int // inclusive, default 9
	PunchInEndHour   int // exclusive, default 11

	// Now overrides the wall clock, used by tests.
	Now func() time.Time
}

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	publisher notification.Publisher

	loc       *time.Location
	startHour int
	endHour   int
	now       func() time.Time
}

var _ attendance.AttendanceService = (*AttendanceServiceImpl)(nil)

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	publisher notification.Publisher,
	cfg Config,
) *AttendanceServiceImpl {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.PunchInStartHour == 0 && cfg.PunchInEndHour == 0 {
		cfg.PunchInStartHour, cfg.PunchInEndHour = 9, 11
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		publisher:            publisher,
		loc:                  cfg.Location,
		startHour:            cfg.PunchInStartHour,
		endHour:              cfg.PunchInEndHour,
		now:                  cfg.Now,
	}
}

// Today implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Today() time.Time {
	return attendance.CivilDate(a.now(), a.loc)
}

func (a *AttendanceServiceImpl) inPunchInWindow(t time.Time) bool {
	hour := t.In(a.loc).Hour()
	return hour >= a.startHour && hour < a.endHour
}

// PunchIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) PunchIn(ctx context.Context, req attendance.PunchRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := a.now().UTC()
	if !a.inPunchInWindow(now) {
		return attendance.AttendanceResponse{}, attendance.ErrOutOfWindow
	}
	today := attendance.CivilDate(now, a.loc)

	var created attendance.Attendance
	err := a.AttendanceRepository.WithEmployeeLock(ctx, req.EmployeeID, func(ctx context.Context) error {
		existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, req.EmployeeID, today)
		if err != nil {
			return fmt.Errorf("failed to check today's attendance: %w", err)
		}
		if existing != nil {
			return attendance.ErrAlreadyPunchedIn
		}

		created, err = a.AttendanceRepository.Append(ctx, attendance.Attendance{
			EmployeeID: req.EmployeeID,
			Date:       today,
			CheckIn:    &now,
			Status:     attendance.StatusPresent,
		})
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Employee punched in", "employee_id", req.EmployeeID, "date", today.Format(attendance.DateLayout))
	a.publishChanged(ctx, created)

	return attendance.ToResponse(created, a.loc), nil
}

// PunchOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) PunchOut(ctx context.Context, req attendance.PunchRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := a.now().UTC()
	today := attendance.CivilDate(now, a.loc)

	var closed attendance.Attendance
	err := a.AttendanceRepository.WithEmployeeLock(ctx, req.EmployeeID, func(ctx context.Context) error {
		existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, req.EmployeeID, today)
		if err != nil {
			return fmt.Errorf("failed to get today's attendance: %w", err)
		}
		if existing == nil || !existing.IsOpen() {
			return attendance.ErrNoOpenPunchIn
		}

		existing.CheckOut = &now
		if err := a.AttendanceRepository.Update(ctx, *existing); err != nil {
			return fmt.Errorf("failed to close attendance: %w", err)
		}
		closed = *existing
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Employee punched out", "employee_id", req.EmployeeID, "date", today.Format(attendance.DateLayout))
	a.publishChanged(ctx, closed)

	return attendance.ToResponse(closed, a.loc), nil
}

// MarkManual implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) MarkManual(ctx context.Context, req attendance.ManualAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if req.Status.IsDisplayOnly() {
		return attendance.AttendanceResponse{}, attendance.ErrInvalidManualStatus
	}

	date, err := attendance.ParseDate(req.Date)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to parse date: %w", err)
	}

	var saved attendance.Attendance
	err = a.AttendanceRepository.WithEmployeeLock(ctx, req.EmployeeID, func(ctx context.Context) error {
		var upsertErr error
		saved, upsertErr = a.AttendanceRepository.Upsert(ctx, attendance.Attendance{
			EmployeeID: req.EmployeeID,
			Date:       date,
			Status:     req.Status,
		})
		return upsertErr
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Attendance marked manually", "employee_id", req.EmployeeID, "date", req.Date, "status", req.Status)
	a.publishChanged(ctx, saved)

	return attendance.ToResponse(saved, a.loc), nil
}

func (a *AttendanceServiceImpl) publishChanged(ctx context.Context, att attendance.Attendance) {
	resp := attendance.ToResponse(att, a.loc)
	err := a.publisher.Publish(ctx, notification.EventAttendanceChanged, map[string]interface{}{
		"employee_id": resp.EmployeeID,
		"date":        resp.Date,
		"status":      resp.Status,
		"check_in":    resp.CheckIn,
		"check_out":   resp.CheckOut,
	})
	if err != nil {
		slog.Error("Failed to publish attendance change", "employee_id", att.EmployeeID, "error", err)
	}
}

// ListToday implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListToday(ctx context.Context) ([]attendance.TodayStatusResponse, error) {
	today := a.Today()

	employees, err := a.EmployeeRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	entries, err := a.AttendanceRepository.ListByDate(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("failed to list today's attendance: %w", err)
	}

	byEmployee := make(map[string]attendance.Attendance, len(entries))
	for _, e := range entries {
		byEmployee[e.EmployeeID] = e
	}

	rows := make([]attendance.TodayStatusResponse, 0, len(employees))
	for _, emp := range employees {
		row := attendance.TodayStatusResponse{
			EmployeeID:   emp.ID,
			EmployeeName: emp.FullName,
			Date:         today.Format(attendance.DateLayout),
			CheckIn:      attendance.NoTime,
			CheckOut:     attendance.NoTime,
			Status:       attendance.DerivedStatus(nil),
		}
		if entry, ok := byEmployee[emp.ID]; ok {
			row.CheckIn = attendance.FormatClock(entry.CheckIn, a.loc)
			row.CheckOut = attendance.FormatClock(entry.CheckOut, a.loc)
			row.Status = attendance.DerivedStatus(&entry)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// ListSheet implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListSheet(ctx context.Context) (attendance.SheetResponse, error) {
	employees, err := a.EmployeeRepository.List(ctx)
	if err != nil {
		return attendance.SheetResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}
	entries, err := a.AttendanceRepository.ListAll(ctx)
	if err != nil {
		return attendance.SheetResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	seen := make(map[string]struct{})
	dates := make([]string, 0)
	statuses := make(map[string]map[string]attendance.Status)
	for _, e := range entries {
		d := e.Date.Format(attendance.DateLayout)
		if _, ok := seen[d]; !ok {
			seen[d] = struct{}{}
			dates = append(dates, d)
		}
		if statuses[e.EmployeeID] == nil {
			statuses[e.EmployeeID] = make(map[string]attendance.Status)
		}
		statuses[e.EmployeeID][d] = e.Status
	}
	// ISO dates sort lexically
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	sheet := attendance.SheetResponse{
		Dates:     dates,
		Employees: make([]attendance.SheetRow, 0, len(employees)),
	}
	for _, emp := range employees {
		row := statuses[emp.ID]
		if row == nil {
			row = make(map[string]attendance.Status)
		}
		sheet.Employees = append(sheet.Employees, attendance.SheetRow{
			EmployeeID:   emp.ID,
			EmployeeName: emp.FullName,
			Statuses:     row,
		})
	}

	return sheet, nil
}

// RunDailySweep implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) RunDailySweep(ctx context.Context, date time.Time) (attendance.SweepResult, error) {
	status := attendance.SweepStatus(date)

	marked, err := a.AttendanceRepository.BulkCreateAbsences(ctx, date, status)
	if err != nil {
		return attendance.SweepResult{}, fmt.Errorf("failed to mark missing attendance: %w", err)
	}

	result := attendance.SweepResult{
		Date:        date.Format(attendance.DateLayout),
		Status:      status,
		MarkedCount: len(marked),
		EmployeeIDs: marked,
	}

	if len(marked) == 0 {
		slog.Info("Daily sweep found nothing to mark", "date", result.Date)
		return result, nil
	}

	slog.Info("Daily sweep marked employees", "date", result.Date, "status", status, "count", len(marked))
	err = a.publisher.Publish(ctx, notification.EventAbsenteesMarked, map[string]interface{}{
		"date":         result.Date,
		"status":       status,
		"employee_ids": marked,
		"count":        len(marked),
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Failed to publish sweep result", "date", result.Date, "error", err)
	}

	return result, nil
}
