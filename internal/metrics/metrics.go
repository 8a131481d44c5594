package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"action"},
	)

	// Domain Metrics
	RecipesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipes_created_total",
			Help: "Total number of recipes created",
		},
	)

	Interactions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_interactions_total",
			Help: "Favorite and shopping cart changes",
		},
		[]string{"kind", "action"}, // kind: favorite|cart, action: add|remove
	)

	CartDownloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopping_cart_downloads_total",
			Help: "Shopping list exports by format",
		},
		[]string{"format"},
	)

	Subscriptions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_subscriptions_total",
			Help: "Follow and unfollow actions",
		},
		[]string{"action"},
	)
)

func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

func RecordRateLimitHit(action string) {
	APIRateLimitHits.WithLabelValues(action).Inc()
}

func RecordRecipeCreated() {
	RecipesCreated.Inc()
}

func RecordInteraction(kind, action string) {
	Interactions.WithLabelValues(kind, action).Inc()
}

func RecordCartDownload(format string) {
	CartDownloads.WithLabelValues(format).Inc()
}

func RecordSubscription(action string) {
	Subscriptions.WithLabelValues(action).Inc()
}
