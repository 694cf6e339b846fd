package moderation

import "time"

// MaxRetries caps per-item retry attempts within one batch job.
const MaxRetries = 3

// RetryPolicy decides whether a failed item is retried and how long to
// wait first. Implementations must be pure; the processor owns all state.
type RetryPolicy interface {
	ShouldRetry(attempt int) bool
	BackoffDelay(attempt int) time.Duration
}

// ExponentialBackoff waits unit << attempt before each retry:
// 1s, 2s, 4s with the default unit. No jitter.
type ExponentialBackoff struct {
	MaxRetries int
	Unit       time.Duration
}

func NewBackoff() ExponentialBackoff {
	return ExponentialBackoff{MaxRetries: MaxRetries, Unit: time.Second}
}

func (b ExponentialBackoff) ShouldRetry(attempt int) bool {
	return attempt < b.MaxRetries
}

func (b ExponentialBackoff) BackoffDelay(attempt int) time.Duration {
	return b.Unit << attempt
}
