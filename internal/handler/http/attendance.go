package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/spreadsheet"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AttendanceHandler interface {
	PunchIn(w http.ResponseWriter, r *http.Request)
	PunchOut(w http.ResponseWriter, r *http.Request)
	MarkManual(w http.ResponseWriter, r *http.Request)
	ListToday(w http.ResponseWriter, r *http.Request)
	ListSheet(w http.ResponseWriter, r *http.Request)
	ExportSheet(w http.ResponseWriter, r *http.Request)
	RunSweep(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// getEmployeeIDFromContext extracts employee_id from JWT context
func getEmployeeIDFromContext(r *http.Request) string {
	_, claims, _ := jwtauth.FromContext(r.Context())
	if employeeID, ok := claims["employee_id"].(string); ok {
		return employeeID
	}
	return ""
}

// PunchIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) PunchIn(w http.ResponseWriter, r *http.Request) {
	req := attendance.PunchRequest{EmployeeID: getEmployeeIDFromContext(r)}

	result, err := h.attendanceService.PunchIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Punch in successful", result)
}

// PunchOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) PunchOut(w http.ResponseWriter, r *http.Request) {
	req := attendance.PunchRequest{EmployeeID: getEmployeeIDFromContext(r)}

	result, err := h.attendanceService.PunchOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Punch out successful", result)
}

// MarkManual implements AttendanceHandler.
func (h *attendanceHandlerImpl) MarkManual(w http.ResponseWriter, r *http.Request) {
	var req attendance.ManualAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.attendanceService.MarkManual(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance updated", result)
}

// ListToday implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListToday(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.ListToday(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListSheet implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListSheet(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.ListSheet(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportSheet writes the attendance sheet as an XLSX workbook.
func (h *attendanceHandlerImpl) ExportSheet(w http.ResponseWriter, r *http.Request) {
	sheet, err := h.attendanceService.ListSheet(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	matrix := spreadsheet.Matrix{
		Title:   "Attendance Sheet",
		Columns: sheet.Dates,
		Rows:    make([]spreadsheet.MatrixRow, 0, len(sheet.Employees)),
	}
	for _, emp := range sheet.Employees {
		values := make(map[string]string, len(emp.Statuses))
		for date, status := range emp.Statuses {
			values[date] = string(status)
		}
		matrix.Rows = append(matrix.Rows, spreadsheet.MatrixRow{
			Key:    emp.EmployeeID,
			Label:  emp.EmployeeName,
			Values: values,
		})
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="attendance-sheet.xlsx"`)
	if err := spreadsheet.WriteMatrix(w, matrix); err != nil {
		// Headers may already be on the wire.
		slog.Error("Failed to write attendance sheet", "error", err)
	}
}

// RunSweep runs the daily sweep for ?date=YYYY-MM-DD, defaulting to today.
func (h *attendanceHandlerImpl) RunSweep(w http.ResponseWriter, r *http.Request) {
	date := h.attendanceService.Today()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := attendance.ParseDate(raw)
		if err != nil {
			response.HandleError(w, validator.ValidationErrors{{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			}})
			return
		}
		date = parsed
	}

	result, err := h.attendanceService.RunDailySweep(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Daily sweep completed", result)
}
