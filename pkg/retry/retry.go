// Package retry runs operations with exponential backoff and jitter.
// Used for archive writes that may hit transient database errors.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Permanent marks err as not worth retrying. Do returns the unwrapped error.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return backoff.Permanent(err)
}

// IsPermanent checks if an error was marked with Permanent.
func IsPermanent(err error) bool {
	var permanentErr *backoff.PermanentError
	return errors.As(err, &permanentErr)
}

// Config holds retry configuration.
type Config struct {
	// MaxAttempts is the maximum number of attempts including the first one.
	MaxAttempts uint

	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64

	// JitterFactor randomizes each delay by +/- this fraction.
	JitterFactor float64

	// OnRetry is called before each retry attempt.
	OnRetry func(err error, delay time.Duration)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.1,
	}
}

// ArchiveConfig is tuned for short archive writes on the enrollment path.
func ArchiveConfig() Config {
	cfg := DefaultConfig()
	cfg.InitialDelay = 50 * time.Millisecond
	cfg.MaxDelay = time.Second
	return cfg
}

func (c Config) backOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.InitialDelay
	b.MaxInterval = c.MaxDelay
	b.Multiplier = c.Multiplier
	b.RandomizationFactor = c.JitterFactor
	return b
}

// Do executes operation until it succeeds, returns a Permanent error,
// exhausts MaxAttempts or ctx is done.
func Do(ctx context.Context, cfg Config, operation func(ctx context.Context) error) error {
	_, err := DoWithData(ctx, cfg, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, operation(ctx)
	})
	return err
}

// DoWithData is Do for operations that return data.
func DoWithData[T any](ctx context.Context, cfg Config, operation func(ctx context.Context) (T, error)) (T, error) {
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 1
	}

	opts := []backoff.RetryOption{
		backoff.WithBackOff(cfg.backOff()),
		backoff.WithMaxTries(cfg.MaxAttempts),
		backoff.WithMaxElapsedTime(0),
	}
	if cfg.OnRetry != nil {
		opts = append(opts, backoff.WithNotify(cfg.OnRetry))
	}

	return backoff.Retry(ctx, func() (T, error) {
		return operation(ctx)
	}, opts...)
}
