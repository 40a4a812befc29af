package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alem-hub/enrollment-ledger/internal/domain/enrollment"
	"github.com/alem-hub/enrollment-ledger/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET ARCHIVED HISTORY QUERY
// Те же агрегаты, что и у живых запросов, но по архиву: записи по дням
// и средние баллы за все запуски процесса, писавшие в архив.
// ══════════════════════════════════════════════════════════════════════════════

// GetArchivedHistoryQuery содержит параметры запроса.
type GetArchivedHistoryQuery struct {
	// StudentIDs - для кого посчитать средний балл. Пусто - только записи по дням.
	StudentIDs []enrollment.StudentID
}

// ArchivedAverageDTO - средний балл студента по архиву.
type ArchivedAverageDTO struct {
	StudentID    string  `json:"student_id"`
	AverageGrade float64 `json:"average_grade"`
}

// ArchivedHistoryDTO - результат запроса.
type ArchivedHistoryDTO struct {
	PerDay   *EnrollmentsPerDayDTO `json:"per_day"`
	Averages []ArchivedAverageDTO  `json:"averages"`
}

// GetArchivedHistoryHandler обрабатывает запрос.
type GetArchivedHistoryHandler struct {
	history enrollment.ArchiveHistory
	loc     *time.Location
}

// NewGetArchivedHistoryHandler создаёт обработчик. Дни считаются в loc,
// тем же поясом, что и у реестра.
func NewGetArchivedHistoryHandler(history enrollment.ArchiveHistory, loc *time.Location) *GetArchivedHistoryHandler {
	if loc == nil {
		loc = time.Local
	}
	return &GetArchivedHistoryHandler{history: history, loc: loc}
}

// Handle выполняет запрос. Ошибки архива возвращаются как есть: у истории
// нет другого источника.
func (h *GetArchivedHistoryHandler) Handle(ctx context.Context, q GetArchivedHistoryQuery) (*ArchivedHistoryDTO, error) {
	for _, id := range q.StudentIDs {
		if id == "" {
			return nil, fmt.Errorf("archived_history: %w", errors.Join(shared.ErrValidation, errors.New("student_id is required")))
		}
	}

	counts, err := h.history.EnrollmentsPerDay(ctx, h.loc)
	if err != nil {
		return nil, fmt.Errorf("archived_history: %w", err)
	}

	dto := &ArchivedHistoryDTO{
		PerDay:   buildPerDayDTO(counts, false),
		Averages: make([]ArchivedAverageDTO, 0, len(q.StudentIDs)),
	}
	for _, id := range q.StudentIDs {
		avg, err := h.history.AverageGrade(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("archived_history: %w", err)
		}
		dto.Averages = append(dto.Averages, ArchivedAverageDTO{StudentID: id.String(), AverageGrade: avg})
	}
	return dto, nil
}
