// Package fetch downloads filings from the regulatory archive. The
// archive enforces a hard request rate and rejects anonymous clients, so
// every request is throttled and carries a contact identity.
package fetch

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// ArchiveRate is the proactive throttle rate. The archive allows ten
	// requests per second; staying under it avoids temporary bans.
	ArchiveRate = 8.0

	// HeaderRetryAfter is the retry-after header (seconds).
	HeaderRetryAfter = "Retry-After"
)

// RateLimiter throttles archive requests proactively and backs off when
// the archive signals overload.
type RateLimiter struct {
	mu      sync.Mutex
	retryAt time.Time     // From Retry-After header
	bucket  *rate.Limiter // Proactive throttling
}

// NewRateLimiter creates a new rate limiter with proactive throttling.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		bucket: rate.NewLimiter(rate.Limit(ArchiveRate), 1),
	}
}

// Wait blocks until it's safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	// 1. Check token bucket (proactive throttling)
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	// 2. Honour a pending Retry-After (reactive)
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if time.Now().Before(retryAt) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(retryAt)):
		}
	}

	return nil
}

// UpdateFromResponse records backoff state from response headers.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}

	if resp.StatusCode != http.StatusTooManyRequests &&
		resp.StatusCode != http.StatusForbidden {
		return
	}

	retryAfter := resp.Header.Get(HeaderRetryAfter)
	seconds, err := strconv.Atoi(retryAfter)
	if err != nil || seconds <= 0 {
		seconds = 10
	}

	r.mu.Lock()
	r.retryAt = time.Now().Add(time.Duration(seconds) * time.Second)
	r.mu.Unlock()
}

// RetryAt returns the time before which no request should be sent.
func (r *RateLimiter) RetryAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.retryAt
}
