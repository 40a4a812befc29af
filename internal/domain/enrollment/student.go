package enrollment

import (
	"slices"
	"sync"

	"github.com/alem-hub/enrollment-ledger/internal/domain/shared"
)

// Student owns its enrollments and the grades recorded against them.
// Every key of grades is the ID of an element of enrollments.
type Student struct {
	id       StudentID
	name     string
	registry *Registry

	mu          sync.RWMutex
	enrollments []*Enrollment
	grades      map[EnrollmentID]Grade
}

// StudentOption configures a Student.
type StudentOption func(*Student)

// WithRegistry binds the student to reg instead of the DefaultRegistry.
func WithRegistry(reg *Registry) StudentOption {
	return func(s *Student) {
		if reg != nil {
			s.registry = reg
		}
	}
}

// WithStudentID sets a caller-chosen identifier.
func WithStudentID(id StudentID) StudentOption {
	return func(s *Student) {
		if id != "" {
			s.id = id
		}
	}
}

// NewStudent creates a student with no enrollments. Names need not be unique.
func NewStudent(name string, opts ...StudentOption) *Student {
	s := &Student{
		id:          newStudentID(),
		name:        name,
		registry:    DefaultRegistry(),
		enrollments: make([]*Enrollment, 0),
		grades:      make(map[EnrollmentID]Grade),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the student identifier.
func (s *Student) ID() StudentID { return s.id }

// Name returns the student's display name.
func (s *Student) Name() string { return s.name }

// Registry returns the registry the student's enrollments are recorded in.
func (s *Student) Registry() *Registry { return s.registry }

// Enroll creates an enrollment in course and records it with the student,
// the course and the registry. A nil course changes nothing.
func (s *Student) Enroll(course *Course) (*Enrollment, error) {
	if course == nil {
		return nil, shared.ErrInvalidArgument
	}

	e, err := s.registry.newEnrollment(s, course)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.enrollments = append(s.enrollments, e)
	s.mu.Unlock()

	if err := course.AddEnrollment(e); err != nil {
		return nil, err
	}
	return e, nil
}

// Enrollments returns a copy of the student's enrollments in enrollment order.
func (s *Student) Enrollments() []*Enrollment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Enrollment, len(s.enrollments))
	copy(out, s.enrollments)
	return out
}

// CourseCount returns the number of enrollments.
func (s *Student) CourseCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.enrollments)
}

// AssignGrade records grade for one of the student's own enrollments,
// overwriting any previous grade. Unknown enrollments yield ErrEnrollmentNotFound.
func (s *Student) AssignGrade(id EnrollmentID, grade Grade) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	owned := slices.ContainsFunc(s.enrollments, func(e *Enrollment) bool {
		return e.id == id
	})
	if !owned {
		return shared.ErrEnrollmentNotFound
	}

	s.grades[id] = grade
	return nil
}

// Grade returns the grade recorded for id, if any.
func (s *Student) Grade(id EnrollmentID) (Grade, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.grades[id]
	return g, ok
}

// Grades returns a copy of all recorded grades.
func (s *Student) Grades() map[EnrollmentID]Grade {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[EnrollmentID]Grade, len(s.grades))
	for id, g := range s.grades {
		out[id] = g
	}
	return out
}

// AverageGrade returns the arithmetic mean of recorded grades, or 0 when
// nothing has been graded yet.
func (s *Student) AverageGrade() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.grades) == 0 {
		return 0
	}

	var total float64
	for _, g := range s.grades {
		total += float64(g)
	}
	return total / float64(len(s.grades))
}
