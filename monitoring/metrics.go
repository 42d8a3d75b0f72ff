package monitoring

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var (
	dashboardRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_requests_total",
			Help: "Staff dashboard requests by response status",
		},
		[]string{"status"},
	)

	aggregationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dashboard_aggregation_duration_seconds",
			Help:    "Duration of the registration aggregation pipeline",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)

	registrationsScanned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dashboard_registrations_scanned_total",
			Help: "Registration records read by the full-collection scan",
		},
	)

	dashboardCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_cache_total",
			Help: "Dashboard cache lookups by result",
		},
		[]string{"result"},
	)

	registrationsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "registrations_created_total",
			Help: "Registrations accepted since start",
		},
	)

	cachedDashboards = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dashboard_cache_entries",
			Help: "Dashboard responses currently cached in Redis",
		},
	)
)

type Monitor struct {
	redis *redis.Client
}

func NewMonitor(redisClient *redis.Client) *Monitor {
	return &Monitor{redis: redisClient}
}

// Run refreshes Redis-derived gauges until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.collectCacheMetrics(ctx)
		}
	}
}

func (m *Monitor) collectCacheMetrics(ctx context.Context) {
	keys, err := m.redis.Keys(ctx, "dashboard:staff:*").Result()
	if err != nil {
		return
	}
	cachedDashboards.Set(float64(len(keys)))
}

// TrackDashboardRequest counts one dashboard response by HTTP status.
func TrackDashboardRequest(status string) {
	dashboardRequests.WithLabelValues(status).Inc()
}

// TrackAggregation records one aggregation pass.
func TrackAggregation(duration time.Duration, scanned int) {
	aggregationDuration.Observe(duration.Seconds())
	registrationsScanned.Add(float64(scanned))
}

// TrackCache counts a dashboard cache lookup ("hit" or "miss").
func TrackCache(result string) {
	dashboardCache.WithLabelValues(result).Inc()
}

// TrackRegistrationCreated counts an accepted registration.
func TrackRegistrationCreated() {
	registrationsCreated.Inc()
}
