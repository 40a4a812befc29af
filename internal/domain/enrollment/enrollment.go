package enrollment

import (
	"time"

	"github.com/google/uuid"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// StudentID is the opaque identifier of a student.
type StudentID string

// CourseID is the opaque identifier of a course.
type CourseID string

// EnrollmentID is the opaque identifier of an enrollment.
// Grades are keyed by it rather than by object identity.
type EnrollmentID string

func newStudentID() StudentID       { return StudentID(uuid.NewString()) }
func newCourseID() CourseID         { return CourseID(uuid.NewString()) }
func newEnrollmentID() EnrollmentID { return EnrollmentID(uuid.NewString()) }

// IsValid reports whether the ID parses as a UUID.
func (id EnrollmentID) IsValid() bool {
	_, err := uuid.Parse(string(id))
	return err == nil
}

func (id StudentID) String() string    { return string(id) }
func (id CourseID) String() string     { return string(id) }
func (id EnrollmentID) String() string { return string(id) }

// Grade is a numeric grade recorded against one enrollment.
type Grade float64

// ══════════════════════════════════════════════════════════════════════════════
// ENTITY: ENROLLMENT
// ══════════════════════════════════════════════════════════════════════════════

// Enrollment links exactly one Student with one Course.
// All fields are set at construction and never change.
type Enrollment struct {
	id         EnrollmentID
	student    *Student
	course     *Course
	enrolledAt time.Time
}

// ID returns the enrollment identifier.
func (e *Enrollment) ID() EnrollmentID { return e.id }

// Student returns the enrolled student.
func (e *Enrollment) Student() *Student { return e.student }

// Course returns the course enrolled in.
func (e *Enrollment) Course() *Course { return e.course }

// EnrollmentDate returns the timestamp captured when the enrollment was created.
func (e *Enrollment) EnrollmentDate() time.Time { return e.enrolledAt }

// Record is a flat, serializable snapshot of an enrollment.
type Record struct {
	ID          EnrollmentID `json:"id"`
	StudentID   StudentID    `json:"student_id"`
	StudentName string       `json:"student_name"`
	CourseID    CourseID     `json:"course_id"`
	CourseTitle string       `json:"course_title"`
	EnrolledAt  time.Time    `json:"enrolled_at"`
}

// Record returns a snapshot of the enrollment.
func (e *Enrollment) Record() Record {
	return Record{
		ID:          e.id,
		StudentID:   e.student.ID(),
		StudentName: e.student.Name(),
		CourseID:    e.course.ID(),
		CourseTitle: e.course.Title(),
		EnrolledAt:  e.enrolledAt,
	}
}
