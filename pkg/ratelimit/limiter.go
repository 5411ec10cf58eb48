package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Vendor rate limit headers. Tatsu advertises the shared per-key bucket
// on every response; Retry-After accompanies 429s only.
const (
	HeaderLimit      = "X-RateLimit-Limit"
	HeaderRemaining  = "X-RateLimit-Remaining"
	HeaderReset      = "X-RateLimit-Reset"
	HeaderRetryAfter = "Retry-After"
)

// State is a read-only snapshot of the limiter for logging and tests
type State struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
	Primed    bool
}

// Limiter defines the interface for the client-side rate limit mirror
type Limiter interface {
	// Acquire blocks until sending one request would not exceed the
	// budget, honoring context cancellation
	Acquire(ctx context.Context) error
	// Update ingests rate limit headers from a response
	Update(headers http.Header)
	// Snapshot returns the current state
	Snapshot() State
}

// Bucket mirrors the vendor's fixed-window bucket. The local count is
// optimistic: response headers are authoritative and always win over the
// local decrement. Until the first headers arrive (or a floor is
// configured) the bucket passes every Acquire through unchanged, so a
// vendor that stops sending headers degrades to reactive-only limiting.
type Bucket struct {
	mu        sync.Mutex
	limit     int
	remaining int
	resetAt   time.Time
	window    time.Duration
	primed    bool
}

// NewBucket creates a bucket. A positive limit primes it proactively;
// limit 0 leaves it reactive-only until headers arrive.
func NewBucket(limit int, window time.Duration) *Bucket {
	if window <= 0 {
		window = time.Minute
	}
	b := &Bucket{
		limit:     limit,
		remaining: limit,
		window:    window,
	}
	if limit > 0 {
		b.primed = true
		b.resetAt = time.Now().Add(window)
	}
	return b
}

// Acquire implements Limiter. When the budget is exhausted it sleeps
// until the window resets; the wake-up path restores the full budget
// without consuming a permit and lets the next Update reconcile.
func (b *Bucket) Acquire(ctx context.Context) error {
	for {
		b.mu.Lock()
		if !b.primed {
			b.mu.Unlock()
			return nil
		}

		now := time.Now()
		if !now.Before(b.resetAt) {
			// Window expired locally; start a fresh one
			b.remaining = b.limit
			b.resetAt = now.Add(b.window)
			b.mu.Unlock()
			return nil
		}
		if b.remaining > 0 {
			b.remaining--
			b.mu.Unlock()
			return nil
		}

		wait := b.resetAt.Sub(now)
		b.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			// Re-check under the lock; another caller may have
			// consumed the refreshed budget already
		}
	}
}

// Update implements Limiter. Responses with no rate limit headers leave
// the state untouched. A newer reset time replaces the state wholesale
// and never moves backward; within the same window the smaller remaining
// wins so a stale in-flight response cannot inflate the budget.
func (b *Bucket) Update(headers http.Header) {
	limit, okLimit := headerInt(headers, HeaderLimit)
	remaining, okRemaining := headerInt(headers, HeaderRemaining)
	resetAt, okReset := headerUnixTime(headers, HeaderReset)
	if !okLimit && !okRemaining && !okReset {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if okReset && resetAt.After(b.resetAt) {
		// New window: headers win wholesale
		b.resetAt = resetAt
		if okLimit && limit > 0 {
			b.limit = limit
		}
		if okRemaining {
			b.remaining = remaining
		} else if b.limit > 0 {
			b.remaining = b.limit
		}
		b.primed = b.limit > 0
		return
	}
	if okReset && resetAt.Before(b.resetAt) {
		// Out-of-order response from a previous window
		return
	}

	// Same window (or no reset header): take the tighter view
	if okLimit && limit > 0 {
		b.limit = limit
		b.primed = true
	}
	if okRemaining && (remaining < b.remaining || !b.primed) {
		b.remaining = remaining
		b.primed = b.limit > 0
	}
}

// Snapshot implements Limiter
func (b *Bucket) Snapshot() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return State{
		Limit:     b.limit,
		Remaining: b.remaining,
		ResetAt:   b.resetAt,
		Primed:    b.primed,
	}
}

// RetryAfter parses a Retry-After header as delta-seconds or an HTTP
// date. The second return is false when the header is absent or
// malformed.
func RetryAfter(headers http.Header) (time.Duration, bool) {
	raw := headers.Get(HeaderRetryAfter)
	if raw == "" {
		return 0, false
	}
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		if secs < 0 {
			return 0, false
		}
		return time.Duration(secs * float64(time.Second)), true
	}
	if at, err := http.ParseTime(raw); err == nil {
		d := time.Until(at)
		if d < 0 {
			d = 0
		}
		return d, true
	}
	return 0, false
}

// headerInt parses a non-negative integer header value
func headerInt(headers http.Header, key string) (int, bool) {
	raw := headers.Get(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// headerUnixTime parses a Unix-seconds header value. The vendor sends
// whole seconds but fractional values are accepted.
func headerUnixTime(headers http.Header, key string) (time.Time, bool) {
	raw := headers.Get(key)
	if raw == "" {
		return time.Time{}, false
	}
	secs, err := strconv.ParseFloat(raw, 64)
	if err != nil || secs <= 0 {
		return time.Time{}, false
	}
	sec := int64(secs)
	nsec := int64((secs - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec), true
}
