package ratelimit

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/studa/studa/internal/utils"
)

// LimitExceededError is returned when a key has used up its quota for the
// current window.
type LimitExceededError struct {
	RetryAfterSeconds int
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %d seconds", e.RetryAfterSeconds)
}

// Limiter implements fixed-window rate limiting over an injected Store.
// Windows reset at a fixed boundary, so a burst spanning two windows can see
// up to 2×limit requests. That is accepted in exchange for O(1) bookkeeping.
type Limiter struct {
	mu    sync.Mutex
	store Store
	clock utils.Clock
}

func NewLimiter(store Store, clock utils.Clock) *Limiter {
	return &Limiter{store: store, clock: clock}
}

// CheckAndConsume consumes one request slot for key, allowing at most limit
// requests per window. On rejection it returns a *LimitExceededError carrying
// the seconds until the window resets.
func (l *Limiter) CheckAndConsume(key string, limit int, window time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	bucket, ok := l.store.Get(key)
	if !ok || !bucket.ResetAt.After(now) {
		l.store.Set(key, Bucket{Count: 1, ResetAt: now.Add(window)})
		return nil
	}

	if bucket.Count >= limit {
		retryAfter := int(math.Ceil(bucket.ResetAt.Sub(now).Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}
		return &LimitExceededError{RetryAfterSeconds: retryAfter}
	}

	bucket.Count++
	l.store.Set(key, bucket)
	return nil
}
