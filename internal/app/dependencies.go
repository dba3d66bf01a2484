package app

import (
	"database/sql"
	"time"

	"github.com/studa/studa/internal/config"
	"github.com/studa/studa/internal/utils"
	"github.com/studa/studa/pkg/google"
	"github.com/studa/studa/pkg/guard"
	"github.com/studa/studa/pkg/idempotency"
	"github.com/studa/studa/pkg/prefs"
	"github.com/studa/studa/pkg/ratelimit"
	"github.com/studa/studa/pkg/stats"
	"github.com/studa/studa/pkg/subject"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	GoogleAuth    *google.GoogleAuth
	GoogleService google.Service
	GoogleHandler *google.Handler

	StatsService *stats.StatsServiceImpl
	StatsHandler *stats.StatsHandler

	Limiter            *ratelimit.Limiter
	IdempotencyChecker *idempotency.Checker
	Guard              *guard.Guard

	PrefsRepo    prefs.Repository
	PrefsService prefs.Service
	PrefsHandler *prefs.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}

	deps.GoogleAuth = google.NewGoogleAuth(cfg)
	deps.GoogleService = google.NewService(cfg.Fetch)
	deps.GoogleHandler = google.NewHandler(deps.GoogleService)

	deps.StatsService = stats.NewStatsServiceImpl(
		deps.GoogleService,
		subjectConfig(cfg.Study.Subjects),
		cfg.Study.BoundaryHour,
		cfg.Fetch.Concurrency,
		deps.Clock,
	)
	deps.StatsHandler = stats.NewStatsHandler(deps.StatsService, subjectConfig(cfg.Study.Subjects), cfg.Study.DefaultCalendars)

	deps.Limiter = ratelimit.NewLimiter(ratelimit.NewMemoryStore(), deps.Clock)
	deps.IdempotencyChecker = idempotency.NewChecker(idempotency.NewMemoryStore(), deps.Clock)
	deps.Guard = guard.NewGuard(
		deps.Limiter,
		deps.IdempotencyChecker,
		cfg.RateLimit.WriteLimit,
		time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
		time.Duration(cfg.Idempotency.TTLMinutes)*time.Minute,
	)

	deps.PrefsRepo = prefs.NewRepository(db)
	deps.PrefsService = prefs.NewService(deps.PrefsRepo)
	deps.PrefsHandler = prefs.NewHandler(deps.PrefsService)

	return deps
}

func subjectConfig(subjects []config.Subject) subject.Config {
	cfg := make(subject.Config, 0, len(subjects))
	for _, s := range subjects {
		cfg = append(cfg, subject.Subject{Name: s.Name, Keywords: s.Keywords})
	}
	return cfg
}
