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
// ASSIGN GRADE COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// AssignGradeCommand records a grade for one of a student's enrollments.
type AssignGradeCommand struct {
	StudentID    enrollment.StudentID
	EnrollmentID enrollment.EnrollmentID
	Grade        enrollment.Grade
}

// Validate validates the command.
func (c AssignGradeCommand) Validate() error {
	if c.StudentID == "" {
		return errors.New("assign_grade: student_id is required")
	}
	if c.EnrollmentID == "" {
		return errors.New("assign_grade: enrollment_id is required")
	}
	return nil
}

// AssignGradeResult contains the result of assigning a grade.
type AssignGradeResult struct {
	StudentID    enrollment.StudentID
	EnrollmentID enrollment.EnrollmentID
	Grade        enrollment.Grade

	// PreviousGrade is set when Overwritten is true.
	PreviousGrade enrollment.Grade
	Overwritten   bool

	// AverageGrade is the student's mean after this command.
	AverageGrade float64

	RecordedAt time.Time
	Events     []shared.Event
}

// AssignGradeHandler handles the AssignGradeCommand.
type AssignGradeHandler struct {
	students       enrollment.StudentDirectory
	archive        enrollment.Archive
	eventPublisher shared.EventPublisher
	log            *logger.Logger
	now            func() time.Time
}

// NewAssignGradeHandler creates a new AssignGradeHandler.
// archive and eventPublisher may be nil.
func NewAssignGradeHandler(
	students enrollment.StudentDirectory,
	archive enrollment.Archive,
	eventPublisher shared.EventPublisher,
	log *logger.Logger,
) *AssignGradeHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AssignGradeHandler{
		students:       students,
		archive:        archive,
		eventPublisher: eventPublisher,
		log:            log.With(logger.Component("assign_grade")),
		now:            time.Now,
	}
}

// Handle executes the assign grade command.
func (h *AssignGradeHandler) Handle(ctx context.Context, cmd AssignGradeCommand) (*AssignGradeResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("assign_grade: validation failed: %w", errors.Join(shared.ErrValidation, err))
	}

	student, err := h.students.GetStudent(ctx, cmd.StudentID)
	if err != nil {
		return nil, fmt.Errorf("assign_grade: failed to get student: %w", err)
	}

	previous, overwritten := student.Grade(cmd.EnrollmentID)
	if err := student.AssignGrade(cmd.EnrollmentID, cmd.Grade); err != nil {
		return nil, fmt.Errorf("assign_grade: %w", err)
	}

	result := &AssignGradeResult{
		StudentID:     student.ID(),
		EnrollmentID:  cmd.EnrollmentID,
		Grade:         cmd.Grade,
		PreviousGrade: previous,
		Overwritten:   overwritten,
		AverageGrade:  student.AverageGrade(),
		RecordedAt:    h.now(),
	}

	log := h.log.With(
		logger.StudentID(student.ID().String()),
		logger.EnrollmentID(cmd.EnrollmentID.String()),
	)

	if h.archive != nil {
		err := h.archive.SaveGrade(ctx, enrollment.GradeRecord{
			EnrollmentID: cmd.EnrollmentID,
			StudentID:    student.ID(),
			Grade:        cmd.Grade,
			RecordedAt:   result.RecordedAt,
		})
		if err != nil {
			log.Warn("failed to archive grade", logger.Err(err))
		}
	}

	event := shared.NewGradeAssignedEvent(
		cmd.EnrollmentID.String(),
		student.ID().String(),
		float64(cmd.Grade),
		float64(previous),
		overwritten,
	)
	result.Events = append(result.Events, event)

	if h.eventPublisher != nil {
		if err := h.eventPublisher.Publish(event); err != nil {
			log.Warn("failed to publish event", logger.Err(err))
		}
	}

	log.Info("grade assigned",
		logger.Grade(float64(cmd.Grade)),
		logger.Bool("overwritten", overwritten),
		logger.Float64("average_grade", result.AverageGrade),
	)
	return result, nil
}
