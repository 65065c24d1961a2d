package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulse_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// PostsCreated counts posts created since process start.
	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pulse_posts_created_total",
		Help: "Total number of posts created",
	})

	// LikesRecorded counts likes actually stored (duplicates excluded).
	LikesRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pulse_likes_recorded_total",
		Help: "Total number of likes stored",
	})

	// NotificationsEmitted counts notification log appends by verb.
	NotificationsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulse_notifications_emitted_total",
		Help: "Total number of notifications appended by verb",
	}, []string{"verb"})

	// FeedRequests counts feed assemblies.
	FeedRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pulse_feed_requests_total",
		Help: "Total number of feed requests served",
	})

	// ActiveWebSockets is the gauge of open notification stream connections.
	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pulse_websocket_connections",
		Help: "Number of active WebSocket connections",
	})

	// WebSocketDrops counts messages dropped due to backpressure by hub and reason.
	WebSocketDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulse_websocket_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})
)

// InitMetrics creates the Prometheus HTTP middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}
