package enrollment

import (
	"context"
	"time"

	"github.com/alem-hub/enrollment-ledger/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// PORTS
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// StudentDirectory resolves students by ID.
type StudentDirectory interface {
	// AddStudent registers s. Returns ErrStudentExists on duplicate IDs.
	AddStudent(ctx context.Context, s *Student) error

	// GetStudent returns ErrStudentNotFound when id is unknown.
	GetStudent(ctx context.Context, id StudentID) (*Student, error)
}

// CourseDirectory resolves courses by ID.
type CourseDirectory interface {
	// AddCourse registers c. Returns ErrCourseExists on duplicate IDs.
	AddCourse(ctx context.Context, c *Course) error

	// GetCourse returns ErrCourseNotFound when id is unknown.
	GetCourse(ctx context.Context, id CourseID) (*Course, error)
}

// GradeRecord is a flat snapshot of one recorded grade.
type GradeRecord struct {
	EnrollmentID EnrollmentID `json:"enrollment_id"`
	StudentID    StudentID    `json:"student_id"`
	Grade        Grade        `json:"grade"`
	RecordedAt   time.Time    `json:"recorded_at"`
}

// Archive exports enrollments and grades for reporting.
// It is write-only from the model's point of view: nothing is loaded back.
type Archive interface {
	SaveEnrollment(ctx context.Context, rec Record) error
	SaveGrade(ctx context.Context, rec GradeRecord) error
}

// ArchiveHistory reads aggregates back from the archive. Unlike the registry it
// spans every process run that wrote to the archive.
type ArchiveHistory interface {
	EnrollmentsPerDay(ctx context.Context, loc *time.Location) (map[timeutil.Date]int, error)
	// AverageGrade returns 0 when the student has no archived grades.
	AverageGrade(ctx context.Context, studentID StudentID) (float64, error)
}

// DailyCountCache caches Registry.DailyCounts snapshots, one entry per registry ID.
// Callers compare the snapshot Version with Registry.Len before trusting it.
type DailyCountCache interface {
	// Get returns found=false on a cache miss.
	Get(ctx context.Context, registryID string) (snap DailyCounts, found bool, err error)
	Set(ctx context.Context, registryID string, snap DailyCounts, ttl time.Duration) error
	Invalidate(ctx context.Context, registryID string) error
}
