// Package eventhandler содержит обработчики доменных событий.
// Обработчики подписываются на шину и выполняют побочные эффекты,
// не влияя на результат команды, которая опубликовала событие.
package eventhandler

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/alem-hub/enrollment-ledger/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// AUDIT HANDLER
// Пишет каждое событие записи и оценки в структурированный журнал и ведёт
// счётчики: сколько записей создано и сколько оценок перезаписано.
// ═══════════════════════════════════════════════════════════════════════════

// AuditStats - накопленные счётчики аудита.
type AuditStats struct {
	Enrollments      int
	GradesAssigned   int
	GradesOverwrites int
}

// AuditHandler журналирует доменные события.
type AuditHandler struct {
	logger *slog.Logger

	mu    sync.Mutex
	stats AuditStats
}

// NewAuditHandler создаёт обработчик аудита.
func NewAuditHandler(logger *slog.Logger) *AuditHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditHandler{logger: logger.With("component", "audit")}
}

// Register подписывает обработчик на события записи и оценки.
func (h *AuditHandler) Register(sub shared.EventSubscriber) error {
	if err := sub.Subscribe(shared.EventEnrollmentCreated, h.Handle); err != nil {
		return fmt.Errorf("audit: subscribe %s: %w", shared.EventEnrollmentCreated, err)
	}
	if err := sub.Subscribe(shared.EventGradeAssigned, h.Handle); err != nil {
		return fmt.Errorf("audit: subscribe %s: %w", shared.EventGradeAssigned, err)
	}
	return nil
}

// Handle обрабатывает одно событие. Неизвестные типы игнорируются.
func (h *AuditHandler) Handle(event shared.Event) error {
	switch e := event.(type) {
	case shared.EnrollmentCreatedEvent:
		h.mu.Lock()
		h.stats.Enrollments++
		h.mu.Unlock()

		h.logger.Info("enrollment created",
			slog.String("enrollment_id", e.AggregateID()),
			slog.String("student_id", e.StudentID),
			slog.String("student_name", e.StudentName),
			slog.String("course_id", e.CourseID),
			slog.String("course_title", e.CourseTitle),
			slog.Time("enrolled_at", e.OccurredAt()),
		)

	case shared.GradeAssignedEvent:
		h.mu.Lock()
		h.stats.GradesAssigned++
		if e.Overwritten {
			h.stats.GradesOverwrites++
		}
		h.mu.Unlock()

		attrs := []any{
			slog.String("enrollment_id", e.AggregateID()),
			slog.String("student_id", e.StudentID),
			slog.Float64("grade", e.Grade),
		}
		if e.Overwritten {
			// Перезапись оценки - заметное событие.
			attrs = append(attrs, slog.Float64("previous_grade", e.PreviousGrade))
			h.logger.Warn("grade overwritten", attrs...)
			return nil
		}
		h.logger.Info("grade assigned", attrs...)
	}
	return nil
}

// Stats возвращает копию счётчиков.
func (h *AuditHandler) Stats() AuditStats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stats
}
