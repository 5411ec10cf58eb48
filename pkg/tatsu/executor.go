package tatsu

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	apierrors "tatsugo/pkg/errors"
	"tatsugo/pkg/logger"
	"tatsugo/pkg/ratelimit"
	"tatsugo/pkg/retry"
)

// executor is the single choke point every API call funnels through.
// It owns the HTTP session, paces sends through the rate limiter,
// retries transient failures, and maps status codes onto the error
// taxonomy. Safe for concurrent use.
type executor struct {
	httpClient *http.Client
	ownsClient bool
	baseURL    string
	key        string
	userAgent  string
	limiter    ratelimit.Limiter
	backoff    retry.BackoffStrategy
	maxRetries int
	log        logger.Logger

	mu       sync.RWMutex
	closed   bool
	closedCh chan struct{}
	inflight sync.WaitGroup
}

func newExecutor(httpClient *http.Client, ownsClient bool, baseURL, key, userAgent string,
	limiter ratelimit.Limiter, backoff retry.BackoffStrategy, maxRetries int, log logger.Logger) *executor {
	return &executor{
		httpClient: httpClient,
		ownsClient: ownsClient,
		baseURL:    baseURL,
		key:        key,
		userAgent:  userAgent,
		limiter:    limiter,
		backoff:    backoff,
		maxRetries: maxRetries,
		log:        log,
		closedCh:   make(chan struct{}),
	}
}

// begin registers a call as in-flight, failing closed
func (e *executor) begin(rt Route) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return apierrors.NewClosedSession(rt.Method, rt.Path)
	}
	e.inflight.Add(1)
	return nil
}

// close cancels in-flight calls, waits for them to settle, and releases
// the owned transport. Idempotent.
func (e *executor) close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	close(e.closedCh)
	e.mu.Unlock()

	e.inflight.Wait()
	if e.ownsClient {
		e.httpClient.CloseIdleConnections()
	}
}

// vendorError is the error body the API sends alongside non-2xx
// statuses
type vendorError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// vendorMessage leniently parses the vendor's error body. A body that
// is not the documented shape yields zero values, never an error.
func vendorMessage(body []byte) (int, string) {
	var ve vendorError
	if err := json.Unmarshal(body, &ve); err != nil {
		return 0, ""
	}
	return ve.Code, ve.Message
}

// abortErr maps a context failure mid-call onto the taxonomy: a close
// of the owning client surfaces as a closed-session error, a caller
// cancellation as a transport error wrapping the context cause.
func (e *executor) abortErr(rt Route, cause error) error {
	select {
	case <-e.closedCh:
		return apierrors.NewClosedSession(rt.Method, rt.Path)
	default:
		return apierrors.NewTransport(rt.Method, rt.Path, cause)
	}
}

func (e *executor) newRequest(ctx context.Context, rt Route) (*http.Request, error) {
	var body io.Reader
	if rt.Body != nil {
		body = bytes.NewReader(rt.Body)
	}
	req, err := http.NewRequestWithContext(ctx, rt.Method, e.baseURL+rt.Endpoint(), body)
	if err != nil {
		return nil, err
	}
	// The raw key goes on the wire and nowhere else
	req.Header.Set("Authorization", e.key)
	req.Header.Set("User-Agent", e.userAgent)
	if rt.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// execute runs one API call to completion: acquire, send, update,
// classify, retry within policy. It returns the raw 2xx body for the
// caller to decode.
//
// Retry policy: network failures, timeouts and 5xx share a transient
// budget of maxRetries extra attempts with exponential backoff. A 429
// gets exactly one extra attempt after honoring the server's
// Retry-After; that attempt does not consume the transient budget.
func (e *executor) execute(ctx context.Context, rt Route) ([]byte, error) {
	if err := e.begin(rt); err != nil {
		return nil, err
	}
	defer e.inflight.Done()

	// Tie the request context to the client's lifetime so Close cancels
	// in-flight calls
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-e.closedCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	attempt := 0
	transientRetries := 0
	rateLimitRetried := false

	for {
		if err := e.limiter.Acquire(ctx); err != nil {
			return nil, e.abortErr(rt, err)
		}

		req, err := e.newRequest(ctx, rt)
		if err != nil {
			return nil, apierrors.NewTransport(rt.Method, rt.Path, err)
		}

		attempt++
		start := time.Now()
		resp, err := e.httpClient.Do(req)
		duration := time.Since(start)

		if err != nil {
			if ctx.Err() != nil {
				return nil, e.abortErr(rt, ctx.Err())
			}
			if transientRetries < e.maxRetries {
				transientRetries++
				delay := e.backoff.NextDelay(transientRetries)
				logger.LogRetry(e.log, rt.Method, rt.Path, attempt, delay, err)
				if werr := retry.Wait(ctx, delay); werr != nil {
					return nil, e.abortErr(rt, werr)
				}
				continue
			}
			return nil, apierrors.NewTransport(rt.Method, rt.Path, err)
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		// Headers are authoritative for the shared bucket on every
		// response, success or failure
		e.limiter.Update(resp.Header)

		logger.LogRequest(e.log, rt.Method, rt.Path, resp.StatusCode, attempt, duration)

		if readErr != nil {
			if transientRetries < e.maxRetries {
				transientRetries++
				if werr := retry.Wait(ctx, e.backoff.NextDelay(transientRetries)); werr != nil {
					return nil, e.abortErr(rt, werr)
				}
				continue
			}
			return nil, apierrors.NewTransport(rt.Method, rt.Path, readErr)
		}

		status := resp.StatusCode
		switch {
		case status >= 200 && status < 300:
			return body, nil

		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			code, msg := vendorMessage(body)
			return nil, apierrors.NewAuthentication(rt.Method, rt.Path, status, code, msg)

		case status == http.StatusNotFound:
			code, msg := vendorMessage(body)
			return nil, apierrors.NewNotFound(rt.Method, rt.Path, code, msg)

		case status == http.StatusTooManyRequests:
			wait, ok := ratelimit.RetryAfter(resp.Header)
			if !ok {
				// No Retry-After: fall back to the local window
				snap := e.limiter.Snapshot()
				wait = time.Until(snap.ResetAt)
				if wait < time.Second {
					wait = time.Second
				}
			}
			if rateLimitRetried {
				return nil, apierrors.NewRateLimitExceeded(rt.Method, rt.Path, wait)
			}
			rateLimitRetried = true
			logger.LogRateLimited(e.log, rt.Method, rt.Path, wait)
			if werr := retry.Wait(ctx, wait); werr != nil {
				return nil, e.abortErr(rt, werr)
			}
			// The retry re-enters Acquire above, so the send waits at
			// least Retry-After and at least the local window reset
			continue

		case status >= 500:
			if transientRetries < e.maxRetries {
				transientRetries++
				delay := e.backoff.NextDelay(transientRetries)
				logger.LogServerRetry(e.log, rt.Method, rt.Path, status, attempt, delay)
				if werr := retry.Wait(ctx, delay); werr != nil {
					return nil, e.abortErr(rt, werr)
				}
				continue
			}
			_, msg := vendorMessage(body)
			return nil, apierrors.NewServer(rt.Method, rt.Path, status, msg)

		default:
			code, msg := vendorMessage(body)
			return nil, apierrors.NewAPIRequest(rt.Method, rt.Path, status, code, msg)
		}
	}
}
