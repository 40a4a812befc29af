// Package memory implements in-process lookup of students and courses by ID.
package memory

import (
	"context"
	"sync"

	"github.com/alem-hub/enrollment-ledger/internal/domain/enrollment"
	"github.com/alem-hub/enrollment-ledger/internal/domain/shared"
)

// Directory implements enrollment.StudentDirectory and enrollment.CourseDirectory.
type Directory struct {
	mu       sync.RWMutex
	students map[enrollment.StudentID]*enrollment.Student
	courses  map[enrollment.CourseID]*enrollment.Course
}

var (
	_ enrollment.StudentDirectory = (*Directory)(nil)
	_ enrollment.CourseDirectory  = (*Directory)(nil)
)

// NewDirectory creates an empty Directory.
func NewDirectory() *Directory {
	return &Directory{
		students: make(map[enrollment.StudentID]*enrollment.Student),
		courses:  make(map[enrollment.CourseID]*enrollment.Course),
	}
}

// AddStudent registers s under its ID.
func (d *Directory) AddStudent(_ context.Context, s *enrollment.Student) error {
	if s == nil {
		return shared.ErrInvalidArgument
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.students[s.ID()]; ok {
		return shared.ErrStudentExists
	}
	d.students[s.ID()] = s
	return nil
}

// GetStudent returns the student registered under id.
func (d *Directory) GetStudent(_ context.Context, id enrollment.StudentID) (*enrollment.Student, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	s, ok := d.students[id]
	if !ok {
		return nil, shared.ErrStudentNotFound
	}
	return s, nil
}

// AddCourse registers c under its ID.
func (d *Directory) AddCourse(_ context.Context, c *enrollment.Course) error {
	if c == nil {
		return shared.ErrInvalidArgument
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.courses[c.ID()]; ok {
		return shared.ErrCourseExists
	}
	d.courses[c.ID()] = c
	return nil
}

// GetCourse returns the course registered under id.
func (d *Directory) GetCourse(_ context.Context, id enrollment.CourseID) (*enrollment.Course, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	c, ok := d.courses[id]
	if !ok {
		return nil, shared.ErrCourseNotFound
	}
	return c, nil
}

// Students returns the number of registered students.
func (d *Directory) Students() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.students)
}

// Courses returns the number of registered courses.
func (d *Directory) Courses() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.courses)
}
