package moderation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffDelayDoublesPerAttempt(t *testing.T) {
	backoff := NewBackoff()

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, backoff.BackoffDelay(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestShouldRetryStopsAtMaxRetries(t *testing.T) {
	backoff := NewBackoff()

	assert.True(t, backoff.ShouldRetry(0))
	assert.True(t, backoff.ShouldRetry(1))
	assert.True(t, backoff.ShouldRetry(2))
	assert.False(t, backoff.ShouldRetry(MaxRetries))
	assert.False(t, backoff.ShouldRetry(MaxRetries+1))
}

func TestBackoffCustomUnit(t *testing.T) {
	backoff := ExponentialBackoff{MaxRetries: 2, Unit: 10 * time.Millisecond}

	assert.Equal(t, 10*time.Millisecond, backoff.BackoffDelay(0))
	assert.Equal(t, 20*time.Millisecond, backoff.BackoffDelay(1))
	assert.True(t, backoff.ShouldRetry(1))
	assert.False(t, backoff.ShouldRetry(2))
}
