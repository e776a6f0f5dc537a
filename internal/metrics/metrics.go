package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application collectors plus Go/process collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "travel",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "travel",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "travel",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	chatMessages = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "travel",
			Subsystem: "chat",
			Name:      "messages_sent_total",
			Help:      "Total number of chat messages persisted.",
		},
	)

	chatBroadcasts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "travel",
			Subsystem: "chat",
			Name:      "broadcasts_total",
			Help:      "Socket broadcasts by event and whether the room existed.",
		},
		[]string{"event", "delivered"},
	)

	tripRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "travel",
			Subsystem: "trips",
			Name:      "requests_total",
			Help:      "Join requests by lifecycle outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpInFlight,
		httpRequests,
		httpDuration,
		chatMessages,
		chatBroadcasts,
		tripRequests,
	)
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func IncInFlight() { httpInFlight.Inc() }
func DecInFlight() { httpInFlight.Dec() }

// ObserveHTTP records one finished request. route is the router pattern,
// not the raw path, to keep label cardinality bounded.
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func RecordMessageSent() {
	chatMessages.Inc()
}

func RecordBroadcast(event string, delivered bool) {
	chatBroadcasts.WithLabelValues(event, strconv.FormatBool(delivered)).Inc()
}

// RecordTripRequest counts a request lifecycle step: created, accepted,
// rejected or conflict.
func RecordTripRequest(outcome string) {
	tripRequests.WithLabelValues(outcome).Inc()
}
