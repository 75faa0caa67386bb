package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrOutOfWindow):
		BadRequest(w, attendance.ErrOutOfWindow.Error(), nil)
	case errors.Is(err, attendance.ErrAlreadyPunchedIn):
		Conflict(w, attendance.ErrAlreadyPunchedIn.Error())
	case errors.Is(err, attendance.ErrNoOpenPunchIn):
		Conflict(w, attendance.ErrNoOpenPunchIn.Error())
	case errors.Is(err, attendance.ErrInvalidManualStatus):
		BadRequest(w, attendance.ErrInvalidManualStatus.Error(), nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrInvalidMonth):
		ValidationError(w, map[string]string{"month": payroll.ErrInvalidMonth.Error()})

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
