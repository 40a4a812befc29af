package enrollment

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/enrollment-ledger/internal/domain/shared"
	"github.com/alem-hub/enrollment-ledger/pkg/timeutil"
)

var fixedNow = time.Date(2026, time.September, 1, 9, 30, 0, 0, time.UTC)

func newTestRegistry() *Registry {
	return NewRegistry(
		WithClock(func() time.Time { return fixedNow }),
		WithLocation(time.UTC),
	)
}

func TestStudent_Enroll_RegistersEverywhere(t *testing.T) {
	reg := newTestRegistry()
	alice := NewStudent("Alice", WithRegistry(reg))
	math := NewCourse("Math")

	before := alice.CourseCount()
	e, err := alice.Enroll(math)
	require.NoError(t, err)

	assert.Equal(t, before+1, alice.CourseCount())
	assert.Same(t, alice, e.Student())
	assert.Same(t, math, e.Course())
	assert.Equal(t, fixedNow, e.EnrollmentDate())
	assert.True(t, e.ID().IsValid())

	courseEnrollments := math.Enrollments()
	count := 0
	for _, ce := range courseEnrollments {
		if ce == e {
			count++
		}
	}
	assert.Equal(t, 1, count, "course must contain the new enrollment exactly once")
	assert.Equal(t, []*Enrollment{e}, reg.All())
}

func TestStudent_Enroll_NilCourse_NoSideEffects(t *testing.T) {
	reg := newTestRegistry()
	alice := NewStudent("Alice", WithRegistry(reg))
	math := NewCourse("Math")
	_, err := alice.Enroll(math)
	require.NoError(t, err)

	_, err = alice.Enroll(nil)

	assert.ErrorIs(t, err, shared.ErrInvalidArgument)
	assert.Equal(t, 1, alice.CourseCount())
	assert.Equal(t, 1, math.EnrollmentCount())
	assert.Equal(t, 1, reg.Len())
}

func TestStudent_Enrollments_ReturnsCopy(t *testing.T) {
	alice := NewStudent("Alice", WithRegistry(newTestRegistry()))
	_, err := alice.Enroll(NewCourse("Math"))
	require.NoError(t, err)

	got := alice.Enrollments()
	got[0] = nil
	got = append(got, &Enrollment{})

	again := alice.Enrollments()
	require.Len(t, again, 1)
	assert.NotNil(t, again[0])
}

func TestStudent_AssignGrade(t *testing.T) {
	reg := newTestRegistry()
	alice := NewStudent("Alice", WithRegistry(reg))
	bob := NewStudent("Bob", WithRegistry(reg))
	math := NewCourse("Math")

	aliceMath, err := alice.Enroll(math)
	require.NoError(t, err)
	bobMath, err := bob.Enroll(math)
	require.NoError(t, err)

	t.Run("own enrollment", func(t *testing.T) {
		require.NoError(t, alice.AssignGrade(aliceMath.ID(), 70))
		g, ok := alice.Grade(aliceMath.ID())
		assert.True(t, ok)
		assert.Equal(t, Grade(70), g)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, alice.AssignGrade(aliceMath.ID(), 95))
		g, _ := alice.Grade(aliceMath.ID())
		assert.Equal(t, Grade(95), g)
		assert.Len(t, alice.Grades(), 1)
	})

	t.Run("foreign enrollment", func(t *testing.T) {
		before := alice.Grades()
		err := alice.AssignGrade(bobMath.ID(), 10)
		assert.ErrorIs(t, err, shared.ErrEnrollmentNotFound)
		assert.True(t, shared.IsNotFound(err))
		assert.Equal(t, before, alice.Grades())
	})

	t.Run("unknown id", func(t *testing.T) {
		err := alice.AssignGrade(EnrollmentID("missing"), 10)
		assert.ErrorIs(t, err, shared.ErrEnrollmentNotFound)
	})
}

func TestStudent_AverageGrade(t *testing.T) {
	reg := newTestRegistry()
	alice := NewStudent("Alice", WithRegistry(reg))

	assert.Equal(t, 0.0, alice.AverageGrade())

	e1, err := alice.Enroll(NewCourse("Math"))
	require.NoError(t, err)
	e2, err := alice.Enroll(NewCourse("Science"))
	require.NoError(t, err)

	require.NoError(t, alice.AssignGrade(e1.ID(), 90))
	assert.Equal(t, 90.0, alice.AverageGrade())

	require.NoError(t, alice.AssignGrade(e2.ID(), 80))
	assert.Equal(t, 85.0, alice.AverageGrade())
}

func TestStudent_Grades_ReturnsCopy(t *testing.T) {
	alice := NewStudent("Alice", WithRegistry(newTestRegistry()))
	e, err := alice.Enroll(NewCourse("Math"))
	require.NoError(t, err)
	require.NoError(t, alice.AssignGrade(e.ID(), 60))

	grades := alice.Grades()
	grades[e.ID()] = 0
	delete(grades, e.ID())

	assert.Equal(t, 60.0, alice.AverageGrade())
}

func TestStudent_DefaultRegistryAndOptions(t *testing.T) {
	s := NewStudent("Carol", WithStudentID("student-carol"), WithRegistry(nil))

	assert.Equal(t, StudentID("student-carol"), s.ID())
	assert.Equal(t, "Carol", s.Name())
	assert.Same(t, DefaultRegistry(), s.Registry())
}

// Alice takes Math and Science, Bob takes Math.
func TestEndToEnd_AliceAndBob(t *testing.T) {
	reg := newTestRegistry()
	alice := NewStudent("Alice", WithRegistry(reg))
	bob := NewStudent("Bob", WithRegistry(reg))
	math := NewCourse("Math")
	science := NewCourse("Science")

	_, err := alice.Enroll(math)
	require.NoError(t, err)
	_, err = alice.Enroll(science)
	require.NoError(t, err)
	_, err = bob.Enroll(math)
	require.NoError(t, err)

	for _, e := range alice.Enrollments() {
		require.NoError(t, alice.AssignGrade(e.ID(), 90))
	}
	for _, e := range bob.Enrollments() {
		require.NoError(t, bob.AssignGrade(e.ID(), 85))
	}

	assert.Equal(t, 2, alice.CourseCount())
	assert.Equal(t, 1, bob.CourseCount())
	assert.Equal(t, 90.0, alice.AverageGrade())
	assert.Equal(t, 85.0, bob.AverageGrade())
	assert.Equal(t, 2, math.EnrollmentCount())
	assert.Equal(t, 1, science.EnrollmentCount())
	assert.Equal(t, map[timeutil.Date]int{timeutil.DateOf(fixedNow, time.UTC): 3}, reg.EnrollmentsPerDay())
}

func TestStudent_ConcurrentEnroll(t *testing.T) {
	reg := NewRegistry()
	course := NewCourse("Algorithms")
	students := make([]*Student, 50)
	for i := range students {
		students[i] = NewStudent("student", WithRegistry(reg))
	}

	var wg sync.WaitGroup
	for _, s := range students {
		wg.Add(1)
		go func(s *Student) {
			defer wg.Done()
			for j := 0; j < 4; j++ {
				_, err := s.Enroll(course)
				assert.NoError(t, err)
			}
		}(s)
	}
	wg.Wait()

	assert.Equal(t, 200, reg.Len())
	assert.Equal(t, 200, course.EnrollmentCount())
	for _, s := range students {
		assert.Equal(t, 4, s.CourseCount())
	}
}
