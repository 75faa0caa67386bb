package notification

import (
	"time"
)

// EventName identifies a relayed event
type EventName string

const (
	EventAttendanceChanged EventName = "attendance-changed"
	EventAbsenteesMarked   EventName = "absentees-marked"
	EventSalaryGenerated   EventName = "salary-generated"
)

// Event is a named payload handed to the relay
type Event struct {
	ID         string
	Name       EventName
	Payload    map[string]interface{}
	OccurredAt time.Time
}
