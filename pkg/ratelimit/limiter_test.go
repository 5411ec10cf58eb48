package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headersFor(limit, remaining int, resetAt time.Time) http.Header {
	h := http.Header{}
	h.Set(HeaderLimit, fmt.Sprintf("%d", limit))
	h.Set(HeaderRemaining, fmt.Sprintf("%d", remaining))
	h.Set(HeaderReset, fmt.Sprintf("%d", resetAt.Unix()))
	return h
}

func TestAcquireDecrementsOptimistically(t *testing.T) {
	b := NewBucket(5, time.Minute)

	for i := 0; i < 5; i++ {
		require.NoError(t, b.Acquire(context.Background()))
	}

	s := b.Snapshot()
	assert.Equal(t, 0, s.Remaining)
	assert.Equal(t, 5, s.Limit)
}

func TestAcquireBlocksUntilReset(t *testing.T) {
	b := NewBucket(0, time.Minute)
	b.Update(headersFor(3, 0, time.Now().Add(500*time.Millisecond)))

	start := time.Now()
	require.NoError(t, b.Acquire(context.Background()))
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 400*time.Millisecond, "acquire returned before the window reset")

	// The wake-up path restores the full budget without consuming
	s := b.Snapshot()
	assert.Equal(t, 3, s.Remaining)
}

func TestAcquireHonorsContextCancellation(t *testing.T) {
	b := NewBucket(0, time.Minute)
	b.Update(headersFor(1, 0, time.Now().Add(10*time.Second)))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := b.Acquire(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAcquireUnprimedPassesThrough(t *testing.T) {
	b := NewBucket(0, time.Minute)

	// Reactive-only mode: no headers seen, no floor configured
	for i := 0; i < 200; i++ {
		require.NoError(t, b.Acquire(context.Background()))
	}
	assert.False(t, b.Snapshot().Primed)
}

func TestAcquireExpiredWindowResets(t *testing.T) {
	b := NewBucket(0, time.Minute)
	b.Update(headersFor(2, 0, time.Now().Add(-time.Second)))

	start := time.Now()
	require.NoError(t, b.Acquire(context.Background()))
	assert.Less(t, time.Since(start), 100*time.Millisecond, "expired window should not block")
}

func TestUpdateNoHeadersLeavesStateUnchanged(t *testing.T) {
	b := NewBucket(10, time.Minute)
	before := b.Snapshot()

	b.Update(http.Header{})
	b.Update(http.Header{"Content-Type": []string{"application/json"}})

	after := b.Snapshot()
	assert.Equal(t, before, after)
}

func TestUpdateNewWindowWinsWholesale(t *testing.T) {
	b := NewBucket(0, time.Minute)
	reset := time.Now().Add(time.Minute)

	b.Update(headersFor(60, 59, reset))

	s := b.Snapshot()
	assert.True(t, s.Primed)
	assert.Equal(t, 60, s.Limit)
	assert.Equal(t, 59, s.Remaining)
	assert.Equal(t, reset.Unix(), s.ResetAt.Unix())
}

func TestUpdateSameWindowTakesSmallerRemaining(t *testing.T) {
	b := NewBucket(0, time.Minute)
	reset := time.Now().Add(time.Minute)

	b.Update(headersFor(60, 40, reset))
	// A slow response from earlier in the same window reports more budget
	b.Update(headersFor(60, 55, reset))

	assert.Equal(t, 40, b.Snapshot().Remaining)
}

func TestUpdateNeverMovesResetBackward(t *testing.T) {
	b := NewBucket(0, time.Minute)
	newer := time.Now().Add(time.Minute)
	older := time.Now().Add(-time.Minute)

	b.Update(headersFor(60, 30, newer))
	b.Update(headersFor(60, 59, older))

	s := b.Snapshot()
	assert.Equal(t, newer.Unix(), s.ResetAt.Unix())
	assert.Equal(t, 30, s.Remaining)
}

func TestUpdateAuthoritativeOverLocalDecrement(t *testing.T) {
	b := NewBucket(60, time.Minute)

	for i := 0; i < 10; i++ {
		require.NoError(t, b.Acquire(context.Background()))
	}
	// Server says more budget is gone than we counted (another process
	// shares the key); a fresher window overwrites wholesale
	b.Update(headersFor(60, 5, time.Now().Add(2*time.Minute)))

	assert.Equal(t, 5, b.Snapshot().Remaining)
}

func TestRetryAfterSeconds(t *testing.T) {
	h := http.Header{}
	h.Set(HeaderRetryAfter, "3")

	d, ok := RetryAfter(h)
	require.True(t, ok)
	assert.Equal(t, 3*time.Second, d)
}

func TestRetryAfterHTTPDate(t *testing.T) {
	h := http.Header{}
	h.Set(HeaderRetryAfter, time.Now().Add(5*time.Second).UTC().Format(http.TimeFormat))

	d, ok := RetryAfter(h)
	require.True(t, ok)
	assert.Greater(t, d, 3*time.Second)
	assert.LessOrEqual(t, d, 5*time.Second)
}

func TestRetryAfterAbsentOrMalformed(t *testing.T) {
	_, ok := RetryAfter(http.Header{})
	assert.False(t, ok)

	h := http.Header{}
	h.Set(HeaderRetryAfter, "soon")
	_, ok = RetryAfter(h)
	assert.False(t, ok)
}

func TestConcurrentAcquireNeverGoesNegative(t *testing.T) {
	b := NewBucket(0, time.Minute)
	b.Update(headersFor(50, 50, time.Now().Add(time.Minute)))

	done := make(chan struct{})
	for i := 0; i < 50; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			_ = b.Acquire(context.Background())
		}()
	}
	for i := 0; i < 50; i++ {
		<-done
	}

	s := b.Snapshot()
	assert.GreaterOrEqual(t, s.Remaining, 0)
}
