// Package poll provides a bounded retry-with-interval primitive shared by the
// server readiness check, the install wait, and the resident health monitor.
package poll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// ErrDeadline is returned when no attempt succeeded before the overall deadline.
var ErrDeadline = errors.New("deadline exceeded")

// Config parameterizes a poll: one attempt per Interval, each attempt bounded
// by PerAttempt (zero means unbounded), the whole loop bounded by Deadline.
type Config struct {
	Interval   time.Duration
	PerAttempt time.Duration
	Deadline   time.Duration
}

// defaultInterval backs a zero-value Config; time.NewTicker rejects
// non-positive periods.
const defaultInterval = 500 * time.Millisecond

// Until calls fn every Interval until it succeeds, the Deadline elapses, or ctx
// is cancelled. The first success wins regardless of how many attempts failed
// before it. Deadline expiry returns ErrDeadline wrapped with the last attempt
// error; context cancellation returns the context error. A non-positive
// Interval falls back to half a second.
func Until(ctx context.Context, name string, cfg Config, fn func(context.Context) error, log zerolog.Logger) error {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	deadline := time.Now().Add(cfg.Deadline)
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	var lastErr error
	attempt := 0

	for {
		attempt++
		err := attemptOnce(ctx, cfg.PerAttempt, fn)
		if err == nil {
			log.Debug().Str("operation", name).Int("attempts", attempt).Msg("poll succeeded")
			return nil
		}
		lastErr = err
		log.Trace().Err(err).Str("operation", name).Int("attempt", attempt).Msg("poll attempt failed")

		if time.Now().After(deadline) {
			log.Debug().Err(lastErr).Str("operation", name).Int("attempts", attempt).
				Dur("deadline", cfg.Deadline).Msg("poll gave up")
			return fmt.Errorf("%s: %w (last error: %v)", name, ErrDeadline, lastErr)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func attemptOnce(ctx context.Context, perAttempt time.Duration, fn func(context.Context) error) error {
	if perAttempt <= 0 {
		return fn(ctx)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, perAttempt)
	defer cancel()
	return fn(attemptCtx)
}
