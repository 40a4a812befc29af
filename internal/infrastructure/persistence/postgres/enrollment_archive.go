package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/alem-hub/enrollment-ledger/internal/domain/enrollment"
	"github.com/alem-hub/enrollment-ledger/pkg/timeutil"
)

// EnrollmentArchive implements enrollment.Archive using PostgreSQL.
type EnrollmentArchive struct {
	db Querier
}

var (
	_ enrollment.Archive        = (*EnrollmentArchive)(nil)
	_ enrollment.ArchiveHistory = (*EnrollmentArchive)(nil)
)

// NewEnrollmentArchive creates an archive over db (a *Connection or a pgx.Tx).
func NewEnrollmentArchive(db Querier) *EnrollmentArchive {
	return &EnrollmentArchive{db: db}
}

const insertEnrollmentSQL = `
	INSERT INTO enrollments (id, student_id, student_name, course_id, course_title, enrolled_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id) DO NOTHING
`

// SaveEnrollment archives rec. Saving the same enrollment twice is a no-op.
func (a *EnrollmentArchive) SaveEnrollment(ctx context.Context, rec enrollment.Record) error {
	_, err := a.db.Exec(ctx, insertEnrollmentSQL,
		string(rec.ID),
		string(rec.StudentID),
		rec.StudentName,
		string(rec.CourseID),
		rec.CourseTitle,
		rec.EnrolledAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("postgres: save enrollment %s: %w", rec.ID, err)
	}
	return nil
}

const upsertGradeSQL = `
	INSERT INTO enrollment_grades (enrollment_id, student_id, grade, recorded_at)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (enrollment_id) DO UPDATE
	SET grade = EXCLUDED.grade, recorded_at = EXCLUDED.recorded_at
`

// SaveGrade archives rec, overwriting any earlier grade for the enrollment.
func (a *EnrollmentArchive) SaveGrade(ctx context.Context, rec enrollment.GradeRecord) error {
	_, err := a.db.Exec(ctx, upsertGradeSQL,
		string(rec.EnrollmentID),
		string(rec.StudentID),
		float64(rec.Grade),
		rec.RecordedAt.UTC(),
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("postgres: grade for unarchived enrollment %s: %w", rec.EnrollmentID, err)
		}
		return fmt.Errorf("postgres: save grade %s: %w", rec.EnrollmentID, err)
	}
	return nil
}

const selectEnrolledAtSQL = `SELECT enrolled_at FROM enrollments`

// EnrollmentsPerDay reports archived enrollments per calendar day in loc,
// across every process run that wrote to the archive. Days are bucketed in
// Go with the same rule as Registry.EnrollmentsPerDay, so time.Local and
// fixed zones agree with the live count. A nil loc means UTC.
func (a *EnrollmentArchive) EnrollmentsPerDay(ctx context.Context, loc *time.Location) (map[timeutil.Date]int, error) {
	if loc == nil {
		loc = time.UTC
	}

	rows, err := a.db.Query(ctx, selectEnrolledAtSQL)
	if err != nil {
		return nil, fmt.Errorf("postgres: count enrollments per day: %w", err)
	}
	stamps, err := pgx.CollectRows(rows, pgx.RowTo[time.Time])
	if err != nil {
		return nil, fmt.Errorf("postgres: scan enrolled_at: %w", err)
	}

	counts := make(map[timeutil.Date]int)
	for _, ts := range stamps {
		counts[timeutil.DateOf(ts, loc)]++
	}
	return counts, nil
}

// AverageGrade returns the archived mean grade of a student, or 0 without grades.
func (a *EnrollmentArchive) AverageGrade(ctx context.Context, studentID enrollment.StudentID) (float64, error) {
	var avg *float64
	err := a.db.QueryRow(ctx,
		`SELECT AVG(grade) FROM enrollment_grades WHERE student_id = $1`,
		string(studentID),
	).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("postgres: average grade for %s: %w", studentID, err)
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}
