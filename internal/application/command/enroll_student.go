// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alem-hub/enrollment-ledger/internal/domain/enrollment"
	"github.com/alem-hub/enrollment-ledger/internal/domain/shared"
	"github.com/alem-hub/enrollment-ledger/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENROLL STUDENT COMMAND
// Enrolls a student in a course, then mirrors the new enrollment to the archive,
// drops the cached per-day counts and publishes enrollment.created.
// ══════════════════════════════════════════════════════════════════════════════

// EnrollStudentCommand contains the data to enroll a student.
type EnrollStudentCommand struct {
	StudentID enrollment.StudentID
	CourseID  enrollment.CourseID
}

// Validate validates the command.
func (c EnrollStudentCommand) Validate() error {
	if c.StudentID == "" {
		return errors.New("enroll_student: student_id is required")
	}
	if c.CourseID == "" {
		return errors.New("enroll_student: course_id is required")
	}
	return nil
}

// EnrollStudentResult contains the result of an enrollment.
type EnrollStudentResult struct {
	EnrollmentID enrollment.EnrollmentID
	StudentID    enrollment.StudentID
	CourseID     enrollment.CourseID
	EnrolledAt   time.Time

	// CourseCount is the student's enrollment count after this command.
	CourseCount int

	// Archived reports whether the archive accepted the record.
	Archived bool

	Events []shared.Event
}

// EnrollStudentHandler handles the EnrollStudentCommand.
type EnrollStudentHandler struct {
	students       enrollment.StudentDirectory
	courses        enrollment.CourseDirectory
	archive        enrollment.Archive
	dailyCache     enrollment.DailyCountCache
	eventPublisher shared.EventPublisher
	log            *logger.Logger
}

// EnrollStudentDeps groups the optional collaborators of the handler.
// Nil Archive, DailyCache or EventPublisher are skipped.
type EnrollStudentDeps struct {
	Archive        enrollment.Archive
	DailyCache     enrollment.DailyCountCache
	EventPublisher shared.EventPublisher
	Logger         *logger.Logger
}

// NewEnrollStudentHandler creates a new EnrollStudentHandler.
func NewEnrollStudentHandler(
	students enrollment.StudentDirectory,
	courses enrollment.CourseDirectory,
	deps EnrollStudentDeps,
) *EnrollStudentHandler {
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	return &EnrollStudentHandler{
		students:       students,
		courses:        courses,
		archive:        deps.Archive,
		dailyCache:     deps.DailyCache,
		eventPublisher: deps.EventPublisher,
		log:            deps.Logger.With(logger.Component("enroll_student")),
	}
}

// Handle executes the enroll student command.
// Archive and cache failures are logged; the in-memory model is authoritative.
func (h *EnrollStudentHandler) Handle(ctx context.Context, cmd EnrollStudentCommand) (*EnrollStudentResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("enroll_student: validation failed: %w", errors.Join(shared.ErrValidation, err))
	}

	student, err := h.students.GetStudent(ctx, cmd.StudentID)
	if err != nil {
		return nil, fmt.Errorf("enroll_student: failed to get student: %w", err)
	}
	course, err := h.courses.GetCourse(ctx, cmd.CourseID)
	if err != nil {
		return nil, fmt.Errorf("enroll_student: failed to get course: %w", err)
	}

	e, err := student.Enroll(course)
	if err != nil {
		return nil, fmt.Errorf("enroll_student: %w", err)
	}

	result := &EnrollStudentResult{
		EnrollmentID: e.ID(),
		StudentID:    student.ID(),
		CourseID:     course.ID(),
		EnrolledAt:   e.EnrollmentDate(),
		CourseCount:  student.CourseCount(),
	}

	log := h.log.With(
		logger.EnrollmentID(e.ID().String()),
		logger.StudentID(student.ID().String()),
		logger.CourseID(course.ID().String()),
	)

	if h.archive != nil {
		if err := h.archive.SaveEnrollment(ctx, e.Record()); err != nil {
			log.Warn("failed to archive enrollment", logger.Err(err))
		} else {
			result.Archived = true
		}
	}

	if h.dailyCache != nil {
		if err := h.dailyCache.Invalidate(ctx, student.Registry().ID()); err != nil {
			log.Warn("failed to invalidate daily counts", logger.Err(err))
		}
	}

	event := shared.NewEnrollmentCreatedEvent(
		e.ID().String(),
		student.ID().String(), student.Name(),
		course.ID().String(), course.Title(),
		e.EnrollmentDate(),
	)
	result.Events = append(result.Events, event)

	if h.eventPublisher != nil {
		if err := h.eventPublisher.Publish(event); err != nil {
			log.Warn("failed to publish event", logger.Err(err))
		}
	}

	log.Info("student enrolled", logger.Int("course_count", result.CourseCount))
	return result, nil
}
