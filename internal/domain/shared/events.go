package shared

import "time"

// EventType represents the type of domain event.
type EventType string

const (
	EventEnrollmentCreated EventType = "enrollment.created"
	EventGradeAssigned     EventType = "enrollment.grade_assigned"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
	Version     int       `json:"version"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event stamped at occurredAt.
func NewBaseEvent(eventType EventType, aggregateID string, occurredAt time.Time) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   occurredAt,
		AggregateId: aggregateID,
		Version:     1,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Enrollment Events
// ═══════════════════════════════════════════════════════════════════════════

// EnrollmentCreatedEvent is emitted when a student enrolls in a course.
type EnrollmentCreatedEvent struct {
	BaseEvent
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
	CourseID    string `json:"course_id"`
	CourseTitle string `json:"course_title"`
}

// Payload implements Event interface.
func (e EnrollmentCreatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id":   e.StudentID,
		"student_name": e.StudentName,
		"course_id":    e.CourseID,
		"course_title": e.CourseTitle,
	}
}

// NewEnrollmentCreatedEvent creates a new EnrollmentCreatedEvent.
func NewEnrollmentCreatedEvent(enrollmentID, studentID, studentName, courseID, courseTitle string, enrolledAt time.Time) EnrollmentCreatedEvent {
	return EnrollmentCreatedEvent{
		BaseEvent:   NewBaseEvent(EventEnrollmentCreated, enrollmentID, enrolledAt),
		StudentID:   studentID,
		StudentName: studentName,
		CourseID:    courseID,
		CourseTitle: courseTitle,
	}
}

// GradeAssignedEvent is emitted when a grade is recorded or overwritten.
type GradeAssignedEvent struct {
	BaseEvent
	StudentID     string  `json:"student_id"`
	Grade         float64 `json:"grade"`
	PreviousGrade float64 `json:"previous_grade,omitempty"`
	Overwritten   bool    `json:"overwritten"`
}

// Payload implements Event interface.
func (e GradeAssignedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id":     e.StudentID,
		"grade":          e.Grade,
		"previous_grade": e.PreviousGrade,
		"overwritten":    e.Overwritten,
	}
}

// NewGradeAssignedEvent creates a new GradeAssignedEvent.
func NewGradeAssignedEvent(enrollmentID, studentID string, grade, previous float64, overwritten bool) GradeAssignedEvent {
	return GradeAssignedEvent{
		BaseEvent:     NewBaseEvent(EventGradeAssigned, enrollmentID, time.Now()),
		StudentID:     studentID,
		Grade:         grade,
		PreviousGrade: previous,
		Overwritten:   overwritten,
	}
}

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}
