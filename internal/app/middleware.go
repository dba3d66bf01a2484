package app

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/studa/studa/internal/config"
	"github.com/studa/studa/internal/metrics"
	"github.com/studa/studa/internal/rest"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Assign a correlation id to every request and echo it back
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			requestID := req.Header.Get("X-Request-Id")
			if requestID == "" {
				requestID = uuid.New().String()
			}
			w.Header().Set("X-Request-Id", requestID)
			ctx := rest.WithRequestID(req.Context(), requestID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})

	// Recover from handler panics without taking the server down
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			defer func() {
				if rec := recover(); rec != nil {
					log.Errorf("panic handling %s %s (requestId=%s, elapsed=%s): %v",
						req.Method, req.URL.Path, rest.RequestIDFromContext(req.Context()), time.Since(start), rec)
					rest.WriteError(w, rest.Internal())
				}
			}()
			next.ServeHTTP(w, req)
		})
	})

	// Propagate the Google bearer token and X-User-Id header into context
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := req.Context()

			authHeader := req.Header.Get("Authorization")
			if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok && token != "" {
				ctx = rest.WithCredential(ctx, token)
			}

			if userID := req.Header.Get("X-User-Id"); userID != "" {
				ctx = rest.WithUserID(ctx, userID)
			}

			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})

	// Count requests per route and status
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, req)

			route := req.URL.Path
			if current := mux.CurrentRoute(req); current != nil {
				if template, err := current.GetPathTemplate(); err == nil {
					route = template
				}
			}
			metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		})
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
