// Package ratelimit mirrors the Tatsu API's fixed-window rate limit on
// the client side.
//
// The vendor exposes a single bucket per API key (60 requests per
// minute) and advertises it on every response through the
// X-RateLimit-Limit, X-RateLimit-Remaining and X-RateLimit-Reset
// headers. The Bucket tracks that state locally: Acquire decrements an
// optimistic budget and sleeps until the window resets once the budget
// is spent; Update overwrites the local view with the authoritative
// header values after every response.
//
// The local count is advisory between responses (concurrent senders
// can race past a stale remaining), so the request executor also treats
// a real 429 as final authority and honors its Retry-After.
//
// A bucket that has never seen headers (and was given no configured
// floor) passes every Acquire through: limiting degrades to
// reactive-only rather than guessing at a budget the vendor no longer
// advertises.
//
// Usage:
//
//	bucket := ratelimit.NewBucket(60, time.Minute)
//
//	if err := bucket.Acquire(ctx); err != nil {
//	    return err // context cancelled mid-wait
//	}
//	resp, err := client.Do(req)
//	if err == nil {
//	    bucket.Update(resp.Header)
//	}
package ratelimit
