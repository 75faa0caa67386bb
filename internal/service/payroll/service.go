package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/payroll"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	Concurrency int
	Location    *time.Location
	Now         func() time.Time
}

type PayrollServiceImpl struct {
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	salaryRepo     payroll.SalaryRepository
	renderer       payroll.SlipRenderer
	publisher      notification.Publisher
	calculator     *SalaryCalculator

	concurrency int
	loc         *time.Location
	now         func() time.Time
}

var _ payroll.PayrollService = (*PayrollServiceImpl)(nil)

func NewPayrollService(
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	salaryRepo payroll.SalaryRepository,
	renderer payroll.SlipRenderer,
	publisher notification.Publisher,
	cfg Config,
) *PayrollServiceImpl {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &PayrollServiceImpl{
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		salaryRepo:     salaryRepo,
		renderer:       renderer,
		publisher:      publisher,
		calculator:     NewSalaryCalculator(),
		concurrency:    cfg.Concurrency,
		loc:            cfg.Location,
		now:            cfg.Now,
	}
}

// outcome is the result for one employee of a payroll run.
type outcome struct {
	record  *payroll.SalaryRecord
	skipped string
	failed  string
}

// GeneratePayroll implements payroll.PayrollService.
func (s *PayrollServiceImpl) GeneratePayroll(ctx context.Context, req payroll.GeneratePayrollRequest) (payroll.GeneratePayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.GeneratePayrollResponse{}, err
	}
	year, month, err := req.Period()
	if err != nil {
		return payroll.GeneratePayrollResponse{}, err
	}

	employeeIDs := req.EmployeeIDs
	if len(employeeIDs) == 0 {
		employees, err := s.employeeRepo.List(ctx)
		if err != nil {
			return payroll.GeneratePayrollResponse{}, fmt.Errorf("failed to get employees: %w", err)
		}
		for _, emp := range employees {
			employeeIDs = append(employeeIDs, emp.ID)
		}
	}

	label := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format(payroll.MonthLayout)
	generatedOn := attendance.CivilDate(s.now(), s.loc)

	outcomes := make([]outcome, len(employeeIDs))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, id := range employeeIDs {
		g.Go(func() error {
			outcomes[i] = s.generateForEmployee(ctx, id, label, year, month, generatedOn)
			return nil
		})
	}
	_ = g.Wait()

	resp := payroll.GeneratePayrollResponse{
		Month:     label,
		Generated: make([]payroll.SalaryRecordResponse, 0),
		Skipped:   make([]payroll.EmployeeOutcome, 0),
		Failed:    make([]payroll.EmployeeOutcome, 0),
	}
	for i, o := range outcomes {
		switch {
		case o.record != nil:
			resp.Generated = append(resp.Generated, s.toResponse(ctx, *o.record))
		case o.skipped != "":
			resp.Skipped = append(resp.Skipped, payroll.EmployeeOutcome{EmployeeID: employeeIDs[i], Reason: o.skipped})
		default:
			resp.Failed = append(resp.Failed, payroll.EmployeeOutcome{EmployeeID: employeeIDs[i], Reason: o.failed})
		}
	}

	slog.Info("Payroll run finished",
		"month", label,
		"generated", len(resp.Generated),
		"skipped", len(resp.Skipped),
		"failed", len(resp.Failed),
	)

	return resp, nil
}

func (s *PayrollServiceImpl) generateForEmployee(ctx context.Context, employeeID, label string, year int, month time.Month, generatedOn time.Time) outcome {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return outcome{failed: employee.ErrEmployeeNotFound.Error()}
		}
		slog.Error("Failed to load employee for payroll", "employee_id", employeeID, "error", err)
		return outcome{failed: err.Error()}
	}

	if !emp.HasBaseSalary() {
		slog.Warn("Skipping payroll, no base salary", "employee_id", emp.ID, "month", label)
		return outcome{skipped: payroll.ErrMissingBaseSalary.Error()}
	}

	entries, err := s.attendanceRepo.ListByEmployee(ctx, emp.ID)
	if err != nil {
		slog.Error("Failed to load attendance for payroll", "employee_id", emp.ID, "error", err)
		return outcome{failed: fmt.Sprintf("failed to load attendance: %v", err)}
	}

	breakdown := s.calculator.Calculate(*emp.BaseSalary, year, month, entries)

	slipPath, err := s.renderer.RenderSalarySlip(ctx, payroll.Slip{
		EmployeeID:   emp.ID,
		EmployeeName: emp.FullName,
		Month:        label,
		GeneratedOn:  generatedOn,
		Breakdown:    breakdown,
	})
	if err != nil {
		slog.Error("Failed to render salary slip", "employee_id", emp.ID, "error", err)
		return outcome{failed: fmt.Sprintf("failed to render salary slip: %v", err)}
	}

	record, err := s.salaryRepo.Append(ctx, payroll.SalaryRecord{
		ID:          uuid.New().String(),
		EmployeeID:  emp.ID,
		Month:       label,
		PeriodYear:  year,
		PeriodMonth: month,
		Amount:      breakdown.NetSalary,
		GrossSalary: breakdown.GrossEarnings,
		Deductions:  breakdown.LeaveDeductions,
		WorkedDays:  breakdown.PayableDays,
		UnpaidDays:  breakdown.UnpaidLeaveDays,
		Status:      payroll.SalaryStatusPaid,
		Date:        generatedOn,
		SlipPath:    slipPath,
	})
	if err != nil {
		slog.Error("Failed to save salary record", "employee_id", emp.ID, "error", err)
		if delErr := s.renderer.DeleteSalarySlip(ctx, slipPath); delErr != nil {
			slog.Error("Failed to remove orphaned salary slip", "employee_id", emp.ID, "slip_path", slipPath, "error", delErr)
		}
		return outcome{failed: fmt.Sprintf("failed to save salary record: %v", err)}
	}

	err = s.publisher.Publish(ctx, notification.EventSalaryGenerated, map[string]interface{}{
		"employee_id": record.EmployeeID,
		"month":       record.Month,
		"amount":      record.Amount,
		"slip_path":   record.SlipPath,
	})
	if err != nil {
		slog.Error("Failed to publish salary record", "employee_id", emp.ID, "error", err)
	}

	return outcome{record: &record}
}

// ListSalaryHistory implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListSalaryHistory(ctx context.Context, employeeID string) ([]payroll.SalaryRecordResponse, error) {
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}

	records, err := s.salaryRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary records: %w", err)
	}

	resp := make([]payroll.SalaryRecordResponse, 0, len(records))
	for _, r := range records {
		resp = append(resp, s.toResponse(ctx, r))
	}
	return resp, nil
}

// toResponse attaches the slip URL; a missing slip leaves it empty.
func (s *PayrollServiceImpl) toResponse(ctx context.Context, r payroll.SalaryRecord) payroll.SalaryRecordResponse {
	resp := payroll.ToRecordResponse(r)
	if r.SlipPath == "" {
		return resp
	}
	url, err := s.renderer.SalarySlipURL(ctx, r.SlipPath)
	if err != nil {
		slog.Warn("Salary slip unavailable", "salary_id", r.ID, "slip_path", r.SlipPath, "error", err)
		return resp
	}
	resp.SlipURL = url
	return resp
}
