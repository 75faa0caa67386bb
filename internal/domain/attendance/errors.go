package attendance

import "errors"

// Attendance domain errors
var (
	// Punch clock errors
	ErrOutOfWindow      = errors.New("punch-in is only allowed between the configured start and end hours")
	ErrAlreadyPunchedIn = errors.New("you have already punched in today")
	ErrNoOpenPunchIn    = errors.New("you have not punched in today or have already punched out")

	// General errors
	ErrAttendanceNotFound  = errors.New("attendance record not found")
	ErrInvalidManualStatus = errors.New("status cannot be set manually")
)
