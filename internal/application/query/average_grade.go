// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/alem-hub/enrollment-ledger/internal/domain/enrollment"
	"github.com/alem-hub/enrollment-ledger/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET AVERAGE GRADE QUERY
// Возвращает средний балл студента по всем выставленным оценкам.
// Курсы без оценки в среднем не участвуют.
// ══════════════════════════════════════════════════════════════════════════════

// GetAverageGradeQuery содержит параметры запроса среднего балла.
type GetAverageGradeQuery struct {
	StudentID enrollment.StudentID
}

// Validate проверяет корректность параметров запроса.
func (q GetAverageGradeQuery) Validate() error {
	if q.StudentID == "" {
		return errors.New("student_id is required")
	}
	return nil
}

// AverageGradeDTO - средний балл студента.
type AverageGradeDTO struct {
	StudentID string `json:"student_id"`
	Name      string `json:"name"`

	// CourseCount - количество записей на курсы.
	CourseCount int `json:"course_count"`

	// GradedCount - сколько из них уже оценено.
	GradedCount int `json:"graded_count"`

	// AverageGrade - 0, если оценок ещё нет.
	AverageGrade float64 `json:"average_grade"`
}

// GetAverageGradeHandler обрабатывает запрос среднего балла.
type GetAverageGradeHandler struct {
	students enrollment.StudentDirectory
}

// NewGetAverageGradeHandler создаёт новый обработчик.
func NewGetAverageGradeHandler(students enrollment.StudentDirectory) *GetAverageGradeHandler {
	return &GetAverageGradeHandler{students: students}
}

// Handle выполняет запрос.
func (h *GetAverageGradeHandler) Handle(ctx context.Context, q GetAverageGradeQuery) (*AverageGradeDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("average_grade: %w", errors.Join(shared.ErrValidation, err))
	}

	student, err := h.students.GetStudent(ctx, q.StudentID)
	if err != nil {
		return nil, fmt.Errorf("average_grade: %w", err)
	}

	return &AverageGradeDTO{
		StudentID:    student.ID().String(),
		Name:         student.Name(),
		CourseCount:  student.CourseCount(),
		GradedCount:  len(student.Grades()),
		AverageGrade: student.AverageGrade(),
	}, nil
}
