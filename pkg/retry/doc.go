// Package retry provides the backoff strategies the request executor
// uses between transient-failure attempts.
//
// Features:
//   - Exponential and constant backoff strategies
//   - Jitter to avoid thundering herd problems
//   - Context-aware Wait for cancellable sleeps
//
// The retry loop itself lives in the request executor, interleaved with
// rate limiter acquire/update and status classification; this package
// only answers "how long until the next attempt".
//
// Basic usage:
//
//	backoff := retry.DefaultExponentialBackoff()
//
//	for attempt := 1; attempt <= maxAttempts; attempt++ {
//		err := send()
//		if err == nil {
//			return nil
//		}
//		if attempt < maxAttempts {
//			if werr := retry.Wait(ctx, backoff.NextDelay(attempt)); werr != nil {
//				return werr // cancelled mid-backoff
//			}
//		}
//	}
package retry
