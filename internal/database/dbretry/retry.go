// Package dbretry wraps record-store operations with exponential backoff.
// Only transient Postgres and network failures are retried; everything else
// surfaces immediately so callers never mask real errors behind retries.
package dbretry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/productPach/tutorio-backend-sub000/internal/setup/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Policy defaults mirror the shipped [retry] section; Configure replaces
// them with the loaded configuration during startup.
var (
	maxElapsedTime  = 30 * time.Second
	initialInterval = 100 * time.Millisecond
	maxInterval     = 2 * time.Second
	maxRetries      = uint64(5)
)

// Configure sets the retry policy from configuration. Call once before any
// store operation runs.
func Configure(cfg *config.Retry) {
	maxRetries = cfg.MaxRetries
	initialInterval = time.Duration(cfg.Delay) * time.Millisecond
	maxInterval = time.Duration(cfg.MaxDelay) * time.Millisecond
}

// retryablePgCodes are the Postgres error classes worth retrying: connection
// failures (08), serialization/deadlock (40), resource exhaustion (53), lock
// contention (55), operator intervention and shutdown states (57).
var retryablePgCodes = map[string]struct{}{
	"08000": {}, "08001": {}, "08003": {}, "08004": {}, "08006": {}, "08007": {}, "08P01": {},
	"40001": {}, "40P01": {},
	"53000": {}, "53100": {}, "53200": {}, "53300": {}, "53400": {},
	"55006": {}, "55P03": {},
	"57000": {}, "57P01": {}, "57P02": {}, "57P03": {}, "57P04": {},
}

// IsRetryableError reports whether the error is a transient store failure.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var pgerr *pgdriver.Error
	if errors.As(err, &pgerr) {
		if _, ok := retryablePgCodes[pgerr.Field('C')]; ok {
			return true
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}

	msg := err.Error()

	return strings.Contains(msg, "connection reset by peer") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no connection") ||
		strings.Contains(msg, "i/o timeout") ||
		strings.Contains(msg, "EOF")
}

// Operation runs a store operation returning a value, retrying transient
// failures with exponential backoff.
func Operation[T any](ctx context.Context, operation func(context.Context) (T, error)) (T, error) {
	var (
		result  T
		lastErr error
	)

	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithMaxElapsedTime(maxElapsedTime),
		backoff.WithInitialInterval(initialInterval),
		backoff.WithMaxInterval(maxInterval),
	), maxRetries)

	err := backoff.Retry(func() error {
		var err error

		result, err = operation(ctx)
		if err != nil {
			if !IsRetryableError(err) {
				return backoff.Permanent(err)
			}

			lastErr = err

			return err
		}

		return nil
	}, backoff.WithContext(b, ctx))
	if err != nil {
		if lastErr != nil {
			return result, fmt.Errorf("store operation failed after retries: %w", lastErr)
		}

		return result, fmt.Errorf("store operation failed: %w", err)
	}

	return result, nil
}

// NoResult runs a store operation without a return value under the same
// retry policy as Operation.
func NoResult(ctx context.Context, operation func(context.Context) error) error {
	_, err := Operation(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, operation(ctx)
	})

	return err
}

// Transaction runs fn inside a transaction under the retry policy.
func Transaction(ctx context.Context, db *bun.DB, fn func(context.Context, bun.Tx) error) error {
	return NoResult(ctx, func(ctx context.Context) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			return fn(ctx, tx)
		})
	})
}
