package enrollment

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alem-hub/enrollment-ledger/internal/domain/shared"
	"github.com/alem-hub/enrollment-ledger/pkg/timeutil"
)

// Registry is the append-only journal of every enrollment created in the process.
// It is safe for concurrent use.
type Registry struct {
	id          string
	mu          sync.RWMutex
	enrollments []*Enrollment
	now         func() time.Time
	loc         *time.Location
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithClock overrides the clock used to stamp enrollment dates.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLocation sets the location used to derive calendar days.
func WithLocation(loc *time.Location) RegistryOption {
	return func(r *Registry) {
		if loc != nil {
			r.loc = loc
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		id:          uuid.NewString(),
		enrollments: make([]*Enrollment, 0),
		now:         time.Now,
		loc:         time.Local,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// defaultRegistry is created empty at package initialization and lives for the
// whole process. Students built without WithRegistry append here.
var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// ID identifies the registry. Two registries never share an ID, even across processes.
func (r *Registry) ID() string { return r.id }

// newEnrollment constructs an enrollment for student in course and appends it
// to the registry. Student.Enroll records it in the student's and course's lists.
func (r *Registry) newEnrollment(student *Student, course *Course) (*Enrollment, error) {
	if student == nil || course == nil {
		return nil, shared.ErrInvalidArgument
	}

	e := &Enrollment{
		id:         newEnrollmentID(),
		student:    student,
		course:     course,
		enrolledAt: r.now(),
	}

	r.mu.Lock()
	r.enrollments = append(r.enrollments, e)
	r.mu.Unlock()

	return e, nil
}

// All returns a copy of every registered enrollment in creation order.
func (r *Registry) All() []*Enrollment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Enrollment, len(r.enrollments))
	copy(out, r.enrollments)
	return out
}

// Len returns the number of registered enrollments.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.enrollments)
}

// Location returns the location used for calendar-day bucketing.
func (r *Registry) Location() *time.Location {
	return r.loc
}

// EnrollmentsPerDay counts registered enrollments by the calendar day of their
// enrollment date. Key order is unspecified.
func (r *Registry) EnrollmentsPerDay() map[timeutil.Date]int {
	return r.DailyCounts().Counts
}

// DailyCounts is a per-day count snapshot tagged with the registry length it
// was taken at. The registry only grows, so a snapshot is current exactly
// while Version equals Registry.Len.
type DailyCounts struct {
	Version int                   `json:"version"`
	Counts  map[timeutil.Date]int `json:"counts"`
}

// DailyCounts returns the per-day counts and the registry length under one lock.
func (r *Registry) DailyCounts() DailyCounts {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[timeutil.Date]int)
	for _, e := range r.enrollments {
		counts[timeutil.DateOf(e.enrolledAt, r.loc)]++
	}
	return DailyCounts{Version: len(r.enrollments), Counts: counts}
}

// Current reports whether snap still describes r.
func (r *Registry) Current(snap DailyCounts) bool {
	return snap.Version == r.Len()
}
