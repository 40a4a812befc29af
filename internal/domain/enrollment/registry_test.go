package enrollment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/enrollment-ledger/internal/domain/shared"
	"github.com/alem-hub/enrollment-ledger/pkg/timeutil"
)

func TestRegistry_EnrollmentConstructionValidates(t *testing.T) {
	reg := newTestRegistry()
	s := NewStudent("Alice", WithRegistry(reg))
	c := NewCourse("Math")

	_, err := reg.newEnrollment(nil, c)
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)
	_, err = reg.newEnrollment(s, nil)
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)
	assert.Equal(t, 0, reg.Len())

	e, err := reg.newEnrollment(s, c)
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Len())
	// Direct construction registers globally only.
	assert.Equal(t, 0, s.CourseCount())
	assert.Equal(t, 0, c.EnrollmentCount())
	assert.Equal(t, fixedNow, e.EnrollmentDate())
}

func TestRegistry_EnrollmentsPerDay_BucketsByCalendarDay(t *testing.T) {
	stamps := []time.Time{
		time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 1, 23, 59, 0, 0, time.UTC),
		time.Date(2026, time.March, 2, 0, 1, 0, 0, time.UTC),
	}
	i := 0
	reg := NewRegistry(
		WithClock(func() time.Time { t := stamps[i]; i++; return t }),
		WithLocation(time.UTC),
	)
	s := NewStudent("Alice", WithRegistry(reg))
	for range stamps {
		_, err := s.Enroll(NewCourse("c"))
		require.NoError(t, err)
	}

	got := reg.EnrollmentsPerDay()

	assert.Equal(t, map[timeutil.Date]int{
		{Year: 2026, Month: time.March, Day: 1}: 2,
		{Year: 2026, Month: time.March, Day: 2}: 1,
	}, got)
}

func TestRegistry_EnrollmentsPerDay_RespectsLocation(t *testing.T) {
	almaty := time.FixedZone("Asia/Almaty", 5*60*60)
	reg := NewRegistry(
		WithClock(func() time.Time { return time.Date(2026, time.March, 1, 20, 0, 0, 0, time.UTC) }),
		WithLocation(almaty),
	)
	_, err := NewStudent("Alice", WithRegistry(reg)).Enroll(NewCourse("Math"))
	require.NoError(t, err)

	assert.Equal(t, map[timeutil.Date]int{{Year: 2026, Month: time.March, Day: 2}: 1}, reg.EnrollmentsPerDay())
	assert.Equal(t, almaty, reg.Location())
}

func TestRegistry_IDIsUnique(t *testing.T) {
	a, b := NewRegistry(), NewRegistry()
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, a.ID(), a.ID())
}

func TestRegistry_DailyCountsGoesStaleOnEnroll(t *testing.T) {
	reg := newTestRegistry()
	s := NewStudent("Alice", WithRegistry(reg))
	_, err := s.Enroll(NewCourse("Math"))
	require.NoError(t, err)

	snap := reg.DailyCounts()
	assert.Equal(t, 1, snap.Version)
	assert.Equal(t, reg.EnrollmentsPerDay(), snap.Counts)
	assert.True(t, reg.Current(snap))

	_, err = s.Enroll(NewCourse("Physics"))
	require.NoError(t, err)
	assert.False(t, reg.Current(snap))
	assert.True(t, reg.Current(reg.DailyCounts()))
}

func TestRegistry_EmptyAndCopy(t *testing.T) {
	reg := NewRegistry()
	assert.Empty(t, reg.EnrollmentsPerDay())
	assert.Empty(t, reg.All())

	_, err := NewStudent("Alice", WithRegistry(reg)).Enroll(NewCourse("Math"))
	require.NoError(t, err)

	all := reg.All()
	all[0] = nil
	assert.NotNil(t, reg.All()[0])
}

func TestRegistry_RealClockCountsToday(t *testing.T) {
	reg := NewRegistry(WithLocation(time.UTC))
	_, err := NewStudent("Alice", WithRegistry(reg)).Enroll(NewCourse("Math"))
	require.NoError(t, err)

	counts := reg.EnrollmentsPerDay()
	require.Len(t, counts, 1)
	for day, n := range counts {
		assert.Equal(t, 1, n)
		assert.False(t, timeutil.Today(time.UTC).Before(day), "enrollment cannot be dated in the future")
	}
}

func TestEnrollment_Record(t *testing.T) {
	reg := newTestRegistry()
	s := NewStudent("Alice", WithRegistry(reg), WithStudentID("s-1"))
	c := NewCourseWithID("c-1", "Math")

	e, err := s.Enroll(c)
	require.NoError(t, err)

	rec := e.Record()
	assert.Equal(t, e.ID(), rec.ID)
	assert.Equal(t, StudentID("s-1"), rec.StudentID)
	assert.Equal(t, "Alice", rec.StudentName)
	assert.Equal(t, CourseID("c-1"), rec.CourseID)
	assert.Equal(t, "Math", rec.CourseTitle)
	assert.Equal(t, fixedNow, rec.EnrolledAt)
}

func TestCourse_AddEnrollment(t *testing.T) {
	c := NewCourseWithID("", "Math")
	assert.NotEmpty(t, c.ID())

	assert.ErrorIs(t, c.AddEnrollment(nil), shared.ErrInvalidArgument)
	assert.Equal(t, 0, c.EnrollmentCount())

	got := c.Enrollments()
	got = append(got, &Enrollment{})
	assert.Empty(t, c.Enrollments())
}
