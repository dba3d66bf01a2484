package app

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/studa/studa/internal/config"
	"github.com/studa/studa/internal/metrics"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Stats
	r.HandleFunc("/api/stats/today", deps.StatsHandler.GetTodayProgress).Methods("GET")
	r.HandleFunc("/api/stats/daily", deps.StatsHandler.GetDailyStudyTime).Methods("GET")
	r.HandleFunc("/api/stats/subjects", deps.StatsHandler.GetSubjectDistribution).Methods("GET")

	// Preferences; writes go through the rate limit and idempotency guard
	r.HandleFunc("/api/preferences", deps.PrefsHandler.GetPreferences).Methods("GET")
	r.Handle("/api/preferences",
		deps.Guard.Protect("prefs.update", http.HandlerFunc(deps.PrefsHandler.UpdatePreferences)),
	).Methods("PUT")

	// Google integration
	r.HandleFunc("/api/integrations/google/auth/login", deps.GoogleAuth.OAuthLogin).Methods("GET")
	r.HandleFunc("/api/integrations/google/auth/callback", deps.GoogleAuth.OAuthCallback).Methods("GET")
	r.HandleFunc("/api/integrations/google/calendars", deps.GoogleHandler.ListCalendars).Methods("GET")

	// Prometheus metrics
	r.Handle("/metrics", metrics.Handler()).Methods("GET")
}
