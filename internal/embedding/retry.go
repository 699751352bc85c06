package embedding

import (
	"context"
	"fmt"
	"time"
)

// RetryWithBackoff retries an operation with exponential backoff, doubling
// the delay after each failed attempt. Returns the last error when all
// attempts fail, or the context error when cancelled.
func RetryWithBackoff(ctx context.Context, operation func() error, maxAttempts int, baseDelay time.Duration) error {
	if maxAttempts <= 0 {
		return fmt.Errorf("maxAttempts must be positive, got %d", maxAttempts)
	}

	var lastErr error
	delay := baseDelay
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = operation()
		if lastErr == nil {
			return nil
		}

		if attempt == maxAttempts {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
	return lastErr
}
