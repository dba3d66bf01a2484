package idempotency

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/studa/studa/internal/utils"
)

// ErrConflict is returned when a client reuses an idempotency key with a
// different request body. A key may only ever be bound to one fingerprint.
var ErrConflict = errors.New("idempotency key already used with a different request body")

// Fingerprint returns a stable content hash of a request body. JSON bodies are
// canonicalized first (decode and re-encode, which sorts object keys) so that
// key order does not change the hash. Non-JSON bodies are hashed as-is.
func Fingerprint(body []byte) string {
	canonical := body
	var decoded any
	if err := json.Unmarshal(body, &decoded); err == nil {
		if reencoded, err := json.Marshal(decoded); err == nil {
			canonical = reencoded
		}
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}

// Checker implements replay detection over an injected Store. Expired records
// are evicted lazily on the next lookup of their key.
type Checker struct {
	mu    sync.Mutex
	store Store
	clock utils.Clock
}

func NewChecker(store Store, clock utils.Clock) *Checker {
	return &Checker{store: store, clock: clock}
}

// CheckReplay looks up an unexpired record for scope+clientKey. It returns the
// cached record on a safe replay (same fingerprint), nil when the request is
// novel, and ErrConflict when the key was bound to a different fingerprint.
func (c *Checker) CheckReplay(scope, clientKey, fingerprint string) (*Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := scope + clientKey
	record, ok := c.store.Get(key)
	if !ok {
		return nil, nil
	}
	if !record.ExpiresAt.After(c.clock.Now()) {
		c.store.Delete(key)
		return nil, nil
	}
	if record.Fingerprint != fingerprint {
		return nil, ErrConflict
	}
	return &record, nil
}

// StoreResult caches the outcome of a completed request for later replays.
func (c *Checker) StoreResult(scope, clientKey, fingerprint string, status int, body []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store.Set(scope+clientKey, Record{
		Fingerprint: fingerprint,
		Status:      status,
		Body:        body,
		ExpiresAt:   c.clock.Now().Add(ttl),
	})
}
