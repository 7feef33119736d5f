package util

import (
	"context"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"picfolio/internal/logger"
)

const (
	lockMaxRetries = 3
	lockBaseDelay  = 100 * time.Millisecond
)

// IsLockError reports whether err is SQLite's busy/locked condition.
func IsLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "database table is locked")
}

// RetryOnLock retries the given function if it fails with a database lock error
func RetryOnLock(ctx context.Context, operation func() error) error {
	_, err := RetryOnLockWithResult(ctx, func() (struct{}, error) {
		return struct{}{}, operation()
	})
	return err
}

// RetryOnLockWithResult retries the given function if it fails with a database lock error
// and returns the result along with any error
func RetryOnLockWithResult[T any](ctx context.Context, operation func() (T, error)) (T, error) {
	// Exponential backoff: 100ms, 200ms, 400ms
	backoff := retry.WithMaxRetries(lockMaxRetries, retry.NewExponential(lockBaseDelay))

	var result T
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var opErr error
		result, opErr = operation()
		if IsLockError(opErr) {
			logger.Debug("database locked, retrying", zap.Error(opErr))
			return retry.RetryableError(opErr)
		}
		return opErr
	})
	return result, err
}
