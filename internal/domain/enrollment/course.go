package enrollment

import (
	"sync"

	"github.com/alem-hub/enrollment-ledger/internal/domain/shared"
)

// Course keeps the enrollments it has received. It never creates them.
type Course struct {
	id    CourseID
	title string

	mu          sync.RWMutex
	enrollments []*Enrollment
}

// NewCourse creates a course with a generated ID.
func NewCourse(title string) *Course {
	return NewCourseWithID(newCourseID(), title)
}

// NewCourseWithID creates a course with a caller-chosen ID.
func NewCourseWithID(id CourseID, title string) *Course {
	if id == "" {
		id = newCourseID()
	}
	return &Course{
		id:          id,
		title:       title,
		enrollments: make([]*Enrollment, 0),
	}
}

// ID returns the course identifier.
func (c *Course) ID() CourseID { return c.id }

// Title returns the course title.
func (c *Course) Title() string { return c.title }

// AddEnrollment appends e to the course. It is called by Student.Enroll.
func (c *Course) AddEnrollment(e *Enrollment) error {
	if e == nil {
		return shared.ErrInvalidArgument
	}

	c.mu.Lock()
	c.enrollments = append(c.enrollments, e)
	c.mu.Unlock()
	return nil
}

// Enrollments returns a copy of the course's enrollments.
func (c *Course) Enrollments() []*Enrollment {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Enrollment, len(c.enrollments))
	copy(out, c.enrollments)
	return out
}

// EnrollmentCount returns the number of enrollments received.
func (c *Course) EnrollmentCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.enrollments)
}
