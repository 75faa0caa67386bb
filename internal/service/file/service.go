package file

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/storage"
	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

const slipURLExpiry = 24 * time.Hour

type FileService interface {
	// UploadSalarySlip stores a rendered slip and returns its storage path
	UploadSalarySlip(ctx context.Context, employeeID, month string, file io.Reader) (string, error)

	// RenderSalarySlip builds the PDF for a slip and uploads it
	RenderSalarySlip(ctx context.Context, slip payroll.Slip) (string, error)
	DeleteSalarySlip(ctx context.Context, path string) error
	SalarySlipURL(ctx context.Context, path string) (string, error)

	// Generic operations
	DeleteFile(ctx context.Context, path string) error
	GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// UploadSalarySlip implements FileService.
func (s *fileServiceImpl) UploadSalarySlip(ctx context.Context, employeeID, month string, file io.Reader) (string, error) {
	// Generate unique filename
	uniqueID := uuid.New().String()
	monthSlug := strings.ToLower(strings.ReplaceAll(month, " ", "-"))
	newFilename := fmt.Sprintf("%s-%s.pdf", monthSlug, uniqueID)
	path := filepath.Join("salary_slips", employeeID, newFilename)

	uploadedPath, err := s.storage.Upload(ctx, file, path, "application/pdf")
	if err != nil {
		return "", fmt.Errorf("failed to upload salary slip: %w", err)
	}

	return uploadedPath, nil
}

// RenderSalarySlip implements payroll.SlipRenderer.
func (s *fileServiceImpl) RenderSalarySlip(ctx context.Context, slip payroll.Slip) (string, error) {
	var buf bytes.Buffer
	if err := writeSalarySlip(&buf, slip); err != nil {
		return "", fmt.Errorf("failed to render salary slip: %w", err)
	}
	return s.UploadSalarySlip(ctx, slip.EmployeeID, slip.Month, &buf)
}

// DeleteSalarySlip implements payroll.SlipRenderer.
func (s *fileServiceImpl) DeleteSalarySlip(ctx context.Context, path string) error {
	if err := s.DeleteFile(ctx, path); err != nil {
		return fmt.Errorf("failed to delete salary slip: %w", err)
	}
	return nil
}

// SalarySlipURL implements payroll.SlipRenderer.
func (s *fileServiceImpl) SalarySlipURL(ctx context.Context, path string) (string, error) {
	exists, err := s.storage.Exists(ctx, path)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("%w: %s", storage.ErrFileNotFound, path)
	}
	return s.GetFileURL(ctx, path, slipURLExpiry)
}

// DeleteFile implements FileService.
func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

// GetFileURL implements FileService.
func (s *fileServiceImpl) GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	return s.storage.GetURL(ctx, path, expiry)
}

// money renders an amount rounded to two decimals.
func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func days(v float64) string {
	return decimal.NewFromFloat(v).String()
}

func writeSalarySlip(w io.Writer, slip payroll.Slip) error {
	b := slip.Breakdown

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Salary Slip %s", slip.Month), false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Salary Slip")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(40, 8, fmt.Sprintf("Employee: %s", slip.EmployeeName))
	pdf.Ln(8)
	pdf.Cell(40, 8, fmt.Sprintf("Employee ID: %s", slip.EmployeeID))
	pdf.Ln(8)
	pdf.Cell(40, 8, fmt.Sprintf("Month: %s", slip.Month))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(90, 10, "Item", "1", 0, "L", false, 0, "")
	pdf.CellFormat(90, 10, "Amount", "1", 1, "R", false, 0, "")

	rows := []struct {
		label string
		value string
	}{
		{"Base salary", money(b.BaseSalary)},
		{"Days in month", fmt.Sprintf("%d", b.DaysInMonth)},
		{"Per-day salary", money(b.PerDaySalary)},
		{"Payable days", days(b.PayableDays)},
		{"Unpaid leave days", days(b.UnpaidLeaveDays)},
		{"Gross earnings", money(b.GrossEarnings)},
		{"Leave deductions", money(b.LeaveDeductions)},
		{"Net salary", money(b.NetSalary)},
	}

	pdf.SetFont("Arial", "", 11)
	for _, r := range rows {
		pdf.CellFormat(90, 8, r.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(90, 8, r.value, "1", 1, "R", false, 0, "")
	}

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 9)
	pdf.Cell(0, 10, fmt.Sprintf("Generated on %s", slip.GeneratedOn.Format("02 January 2006")))

	return pdf.Output(w)
}
