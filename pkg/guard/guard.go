package guard

import (
	"bytes"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/studa/studa/internal/metrics"
	"github.com/studa/studa/internal/rest"
	"github.com/studa/studa/pkg/idempotency"
	"github.com/studa/studa/pkg/ratelimit"
)

// IdempotencyKeyHeader is the client-supplied replay token. Requests without
// it are always treated as novel.
const IdempotencyKeyHeader = "Idempotency-Key"

// Guard wraps mutating handlers with rate limiting and idempotent-replay
// protection. The order is fixed: quota is consumed first, then the replay
// cache is consulted, then the handler runs, then its result is cached. A
// rejected or replayed request therefore never performs the write twice.
type Guard struct {
	limiter *ratelimit.Limiter
	checker *idempotency.Checker

	limit  int
	window time.Duration
	ttl    time.Duration
}

func NewGuard(limiter *ratelimit.Limiter, checker *idempotency.Checker, limit int, window, ttl time.Duration) *Guard {
	return &Guard{
		limiter: limiter,
		checker: checker,
		limit:   limit,
		window:  window,
		ttl:     ttl,
	}
}

// Protect wraps next for the named mutating operation.
func (g *Guard) Protect(operation string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := operation + ":" + identity(r) + ":" + remoteAddr(r)
		if err := g.limiter.CheckAndConsume(key, g.limit, g.window); err != nil {
			var limited *ratelimit.LimitExceededError
			if errors.As(err, &limited) {
				metrics.RateLimitRejections.WithLabelValues(operation).Inc()
				log.Debugf("rate limited %s: retry after %ds", key, limited.RetryAfterSeconds)
				rest.WriteError(w, rest.RateLimited(limited.RetryAfterSeconds))
				return
			}
			log.Errorf("rate limiter failed for %s: %v", key, err)
			rest.WriteError(w, rest.Internal())
			return
		}

		clientKey := r.Header.Get(IdempotencyKeyHeader)
		if clientKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			rest.WriteError(w, rest.Validation("unreadable_body", "unable to read request body"))
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		scope := operation + ":" + identity(r) + ":"
		fingerprint := idempotency.Fingerprint(body)
		cached, err := g.checker.CheckReplay(scope, clientKey, fingerprint)
		if err != nil {
			if errors.Is(err, idempotency.ErrConflict) {
				rest.WriteError(w, rest.Conflict("idempotency key was already used with a different request body"))
				return
			}
			log.Errorf("replay check failed for %s%s: %v", scope, clientKey, err)
			rest.WriteError(w, rest.Internal())
			return
		}
		if cached != nil {
			metrics.IdempotentReplays.WithLabelValues(operation).Inc()
			w.Header().Set("Idempotent-Replayed", "true")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(cached.Status)
			if _, err := w.Write(cached.Body); err != nil {
				log.Errorf("failed to write replayed response: %v", err)
			}
			return
		}

		recorder := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		g.checker.StoreResult(scope, clientKey, fingerprint, recorder.status, recorder.body.Bytes(), g.ttl)
	})
}

// identity keys quota and replay scope per caller: the user id when known,
// otherwise anonymous. Combined with the remote address so distinct callers
// never share a bucket.
func identity(r *http.Request) string {
	if userID, ok := rest.UserIDFromContext(r.Context()); ok {
		return userID
	}
	return "anon"
}

func remoteAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// responseRecorder tees the response so its status and body can be cached.
type responseRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
