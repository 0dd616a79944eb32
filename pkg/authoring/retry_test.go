package authoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRetryPolicy(t *testing.T) {
	p := DefaultRetryPolicy()
	assert.Equal(t, 3, p.MaxAttempts)
	assert.Equal(t, 2*time.Second, p.Backoff(2))

	assert.True(t, p.Retryable(&Error{Kind: KindTimeout, Op: "x"}))
	assert.True(t, p.Retryable(&Error{Kind: KindTransport, Op: "x"}))
	assert.False(t, p.Retryable(&Error{Kind: KindBackend, Op: "x"}))
	assert.False(t, p.Retryable(&Error{Kind: KindValidation, Op: "x"}))
	assert.False(t, p.Retryable(errors.New("plain")))
}

func TestRetryDoStopsOnTerminalError(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 5, Backoff: FixedBackoff(0), Retryable: TransientOnly}
	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return &Error{Kind: KindBackend, Op: "op", Message: "rejected"}
	}, nil)

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryDoExhaustsAttempts(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 3, Backoff: FixedBackoff(0), Retryable: TransientOnly}
	calls := 0
	retries := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return &Error{Kind: KindTransport, Op: "op"}
	}, func(attempt int, delay time.Duration) { retries++ })

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, retries)
}

func TestRetryDoRecovers(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 3, Backoff: FixedBackoff(0), Retryable: TransientOnly}
	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return &Error{Kind: KindTimeout, Op: "op"}
		}
		return nil
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryDoHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := RetryPolicy{MaxAttempts: 3, Backoff: FixedBackoff(time.Hour), Retryable: TransientOnly}
	err := p.Do(ctx, func() error {
		return &Error{Kind: KindTransport, Op: "op"}
	}, nil)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestExponentialBackoff(t *testing.T) {
	b := ExponentialBackoff(time.Second, 10*time.Second, 2)
	assert.Equal(t, time.Second, b(2))
	assert.Equal(t, 2*time.Second, b(3))
	assert.Equal(t, 4*time.Second, b(4))
	assert.Equal(t, 10*time.Second, b(10))
}
