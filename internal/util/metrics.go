package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EntityWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warehouse_entity_writes_total",
		Help: "Total number of successful entity writes",
	}, []string{"entity", "action"})

	ConstraintViolationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warehouse_constraint_violations_total",
		Help: "Total number of writes rejected by storage constraints",
	}, []string{"kind"})

	IdempotentReplaysTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "warehouse_idempotent_replays_total",
		Help: "Total number of order creates answered from an earlier request",
	})

	DashboardCountFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warehouse_dashboard_count_failures_total",
		Help: "Total number of dashboard counts that degraded to zero",
	}, []string{"count"})

	DashboardStat = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "warehouse_dashboard_stat",
		Help: "Latest dashboard figures",
	}, []string{"stat"})

	StatsRefreshTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "warehouse_stats_refresh_total",
		Help: "Total number of dashboard recomputations",
	})

	EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warehouse_events_published_total",
		Help: "Total number of entity events written to the broker",
	}, []string{"entity"})

	EventsPublishFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warehouse_events_publish_failed_total",
		Help: "Total number of entity events the broker rejected",
	}, []string{"entity"})

	EventsConsumedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warehouse_events_consumed_total",
		Help: "Total number of entity events handled by the stats worker",
	}, []string{"entity"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
