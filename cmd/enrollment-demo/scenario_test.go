package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/enrollment-ledger/internal/domain/enrollment"
	"github.com/alem-hub/enrollment-ledger/internal/infrastructure/messaging"
	"github.com/alem-hub/enrollment-ledger/internal/infrastructure/persistence/memory"
	"github.com/alem-hub/enrollment-ledger/pkg/logger"
)

func TestRunScenario(t *testing.T) {
	now := time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC)
	reg := enrollment.NewRegistry(
		enrollment.WithLocation(time.UTC),
		enrollment.WithClock(func() time.Time { return now }),
	)
	bus := messaging.NewInMemoryEventBus(messaging.DefaultInMemoryEventBusConfig())
	defer bus.Close()

	report, err := runScenario(context.Background(), scenarioDeps{
		registry:  reg,
		directory: memory.NewDirectory(),
		publisher: bus,
		log:       logger.Nop(),
	})
	require.NoError(t, err)

	require.Len(t, report.Students, 2)
	assert.Equal(t, "Alice", report.Students[0].Name)
	assert.Equal(t, 2, report.Students[0].CourseCount)
	assert.Equal(t, 90.0, report.Students[0].AverageGrade)
	assert.Equal(t, "Bob", report.Students[1].Name)
	assert.Equal(t, 1, report.Students[1].CourseCount)
	assert.Equal(t, 85.0, report.Students[1].AverageGrade)

	require.Len(t, report.PerDay.Days, 1)
	assert.Equal(t, "2026-09-01", report.PerDay.Days[0].Date.String())
	assert.Equal(t, 3, report.PerDay.Days[0].Count)

	assert.Equal(t, int64(3), bus.Metrics().Published("enrollment.created"))
	assert.Equal(t, int64(3), bus.Metrics().Published("enrollment.grade_assigned"))
}
