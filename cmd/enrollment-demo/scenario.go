package main

import (
	"context"
	"fmt"
	"time"

	"github.com/alem-hub/enrollment-ledger/internal/application/command"
	"github.com/alem-hub/enrollment-ledger/internal/application/query"
	"github.com/alem-hub/enrollment-ledger/internal/domain/enrollment"
	"github.com/alem-hub/enrollment-ledger/internal/domain/shared"
	"github.com/alem-hub/enrollment-ledger/internal/infrastructure/persistence/memory"
	"github.com/alem-hub/enrollment-ledger/pkg/logger"
)

type scenarioDeps struct {
	registry   *enrollment.Registry
	directory  *memory.Directory
	archive    enrollment.Archive
	dailyCache enrollment.DailyCountCache
	publisher  shared.EventPublisher
	log        *logger.Logger
	cacheTTL   time.Duration
}

type scenarioReport struct {
	Students []*query.AverageGradeDTO
	PerDay   *query.EnrollmentsPerDayDTO
}

type gradePlan struct {
	student enrollment.StudentID
	course  enrollment.CourseID
	grade   enrollment.Grade
}

// runScenario enrolls Alice in Math and Science and Bob in Math, grades
// every enrollment, then reports averages and per-day counts.
func runScenario(ctx context.Context, d scenarioDeps) (*scenarioReport, error) {
	alice := enrollment.NewStudent("Alice", enrollment.WithRegistry(d.registry))
	bob := enrollment.NewStudent("Bob", enrollment.WithRegistry(d.registry))
	math := enrollment.NewCourse("Math")
	science := enrollment.NewCourse("Science")

	for _, s := range []*enrollment.Student{alice, bob} {
		if err := d.directory.AddStudent(ctx, s); err != nil {
			return nil, err
		}
	}
	for _, c := range []*enrollment.Course{math, science} {
		if err := d.directory.AddCourse(ctx, c); err != nil {
			return nil, err
		}
	}

	enroll := command.NewEnrollStudentHandler(d.directory, d.directory, command.EnrollStudentDeps{
		Archive:        d.archive,
		DailyCache:     d.dailyCache,
		EventPublisher: d.publisher,
		Logger:         d.log,
	})
	assign := command.NewAssignGradeHandler(d.directory, d.archive, d.publisher, d.log)

	plan := []gradePlan{
		{alice.ID(), math.ID(), 90},
		{alice.ID(), science.ID(), 90},
		{bob.ID(), math.ID(), 85},
	}

	for _, p := range plan {
		res, err := enroll.Handle(ctx, command.EnrollStudentCommand{StudentID: p.student, CourseID: p.course})
		if err != nil {
			return nil, fmt.Errorf("scenario: enroll: %w", err)
		}
		_, err = assign.Handle(ctx, command.AssignGradeCommand{
			StudentID:    p.student,
			EnrollmentID: res.EnrollmentID,
			Grade:        p.grade,
		})
		if err != nil {
			return nil, fmt.Errorf("scenario: assign grade: %w", err)
		}
	}

	averages := query.NewGetAverageGradeHandler(d.directory)
	report := &scenarioReport{}
	for _, s := range []*enrollment.Student{alice, bob} {
		dto, err := averages.Handle(ctx, query.GetAverageGradeQuery{StudentID: s.ID()})
		if err != nil {
			return nil, fmt.Errorf("scenario: average grade: %w", err)
		}
		report.Students = append(report.Students, dto)
	}

	perDay, err := query.NewGetEnrollmentsPerDayHandler(d.registry, d.dailyCache, d.cacheTTL, d.log).
		Handle(ctx, query.GetEnrollmentsPerDayQuery{})
	if err != nil {
		return nil, fmt.Errorf("scenario: enrollments per day: %w", err)
	}
	report.PerDay = perDay

	return report, nil
}
