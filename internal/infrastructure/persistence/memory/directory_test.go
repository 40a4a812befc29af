package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/enrollment-ledger/internal/domain/enrollment"
	"github.com/alem-hub/enrollment-ledger/internal/domain/shared"
)

func TestDirectory_Students(t *testing.T) {
	ctx := context.Background()
	dir := NewDirectory()
	alice := enrollment.NewStudent("Alice", enrollment.WithRegistry(enrollment.NewRegistry()))

	require.NoError(t, dir.AddStudent(ctx, alice))
	assert.ErrorIs(t, dir.AddStudent(ctx, alice), shared.ErrStudentExists)
	assert.ErrorIs(t, dir.AddStudent(ctx, nil), shared.ErrInvalidArgument)

	got, err := dir.GetStudent(ctx, alice.ID())
	require.NoError(t, err)
	assert.Same(t, alice, got)

	_, err = dir.GetStudent(ctx, "missing")
	assert.ErrorIs(t, err, shared.ErrStudentNotFound)
	assert.True(t, shared.IsNotFound(err))
	assert.Equal(t, 1, dir.Students())
}

func TestDirectory_Courses(t *testing.T) {
	ctx := context.Background()
	dir := NewDirectory()
	math := enrollment.NewCourseWithID("math", "Math")

	require.NoError(t, dir.AddCourse(ctx, math))
	assert.ErrorIs(t, dir.AddCourse(ctx, enrollment.NewCourseWithID("math", "Other")), shared.ErrCourseExists)

	got, err := dir.GetCourse(ctx, "math")
	require.NoError(t, err)
	assert.Same(t, math, got)

	_, err = dir.GetCourse(ctx, "physics")
	assert.ErrorIs(t, err, shared.ErrCourseNotFound)
	assert.Equal(t, 1, dir.Courses())
}
