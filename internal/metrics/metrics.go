package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "studa",
		Name:      "requests_total",
		Help:      "Number of API requests by route and status",
	}, []string{"route", "status"})

	RateLimitRejections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "studa",
		Name:      "rate_limit_rejections_total",
		Help:      "Number of requests rejected by the rate limiter",
	}, []string{"operation"})

	IdempotentReplays = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "studa",
		Name:      "idempotent_replays_total",
		Help:      "Number of responses served from the idempotency cache",
	}, []string{"operation"})

	FetchPages = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "studa",
		Name:      "calendar_pages_fetched_total",
		Help:      "Number of event pages fetched from upstream calendars",
	})

	FetchErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "studa",
		Name:      "calendar_fetch_errors_total",
		Help:      "Number of failed upstream calendar fetches by kind",
	}, []string{"kind"})
)

func init() {
	prometheus.MustRegister(RequestsTotal, RateLimitRejections, IdempotentReplays, FetchPages, FetchErrors)
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
