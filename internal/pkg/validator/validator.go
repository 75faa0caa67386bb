package validator

import (
	"regexp"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

var monthLabelRegex = regexp.MustCompile(`^[A-Z][a-z]+ \d{4}$`)

// IsValidMonth parses a "Month Year" label such as "September 2025".
func IsValidMonth(label string) (time.Time, bool) {
	label = strings.TrimSpace(label)
	if !monthLabelRegex.MatchString(label) {
		return time.Time{}, false
	}
	t, err := time.Parse("January 2006", label)
	return t, err == nil
}
