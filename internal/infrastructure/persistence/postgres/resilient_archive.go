package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/alem-hub/enrollment-ledger/internal/domain/enrollment"
	"github.com/alem-hub/enrollment-ledger/pkg/circuitbreaker"
	"github.com/alem-hub/enrollment-ledger/pkg/logger"
	"github.com/alem-hub/enrollment-ledger/pkg/retry"
)

// ResilientArchive decorates an enrollment.Archive with retries for transient
// errors and a circuit breaker that stops writing while the database is down.
type ResilientArchive struct {
	next    enrollment.Archive
	breaker *circuitbreaker.CircuitBreaker
	retry   retry.Config
	log     *logger.Logger
}

var _ enrollment.Archive = (*ResilientArchive)(nil)

// NewResilientArchive wraps next. A nil breaker uses circuitbreaker.ArchiveBreaker.
func NewResilientArchive(next enrollment.Archive, breaker *circuitbreaker.CircuitBreaker, cfg retry.Config, log *logger.Logger) *ResilientArchive {
	if log == nil {
		log = logger.Nop()
	}
	log = log.With(logger.Component("archive"))
	if breaker == nil {
		breaker = circuitbreaker.ArchiveBreaker(
			func(name string, from, to circuitbreaker.State) {
				log.Warn("circuit state changed",
					logger.String("breaker", name),
					logger.String("from", from.String()),
					logger.String("to", to.String()),
				)
			},
			circuitbreaker.WithIsFailure(func(err error) bool { return !isConstraintViolation(err) }),
		)
	}
	cfg.OnRetry = func(err error, delay time.Duration) {
		log.Debug("retrying archive write", logger.Err(err), logger.Duration("delay", delay))
	}
	return &ResilientArchive{next: next, breaker: breaker, retry: cfg, log: log}
}

// SaveEnrollment implements enrollment.Archive.
func (a *ResilientArchive) SaveEnrollment(ctx context.Context, rec enrollment.Record) error {
	return a.do(ctx, func(ctx context.Context) error {
		return a.next.SaveEnrollment(ctx, rec)
	})
}

// SaveGrade implements enrollment.Archive.
func (a *ResilientArchive) SaveGrade(ctx context.Context, rec enrollment.GradeRecord) error {
	return a.do(ctx, func(ctx context.Context) error {
		return a.next.SaveGrade(ctx, rec)
	})
}

// Breaker exposes the breaker state for health reporting.
func (a *ResilientArchive) Breaker() *circuitbreaker.CircuitBreaker {
	return a.breaker
}

func (a *ResilientArchive) do(ctx context.Context, op func(context.Context) error) error {
	return a.breaker.Execute(ctx, func(ctx context.Context) error {
		return retry.Do(ctx, a.retry, func(ctx context.Context) error {
			err := op(ctx)
			if err != nil && isConstraintViolation(err) {
				return retry.Permanent(err)
			}
			return err
		})
	})
}

// isConstraintViolation matches SQLSTATE class 23 (integrity constraint violation).
func isConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "23")
	}
	return false
}
