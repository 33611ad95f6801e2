package obs

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "herald"

var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_in_flight_requests",
		Help:      "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latencies in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	webhookDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_deliveries_total",
			Help:      "Webhook deliveries by source, event type and result.",
		},
		[]string{"source", "event", "result"},
	)

	pushesRelayed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pushes_relayed_total",
			Help:      "Push events posted to Discord.",
		},
		[]string{"source"},
	)

	commitsRelayed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commits_relayed_total",
			Help:      "Commits posted to Discord, split by masking.",
		},
		[]string{"source", "masked"},
	)

	reactionOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reaction_outcomes_total",
			Help:      "Reaction handler outcomes.",
		},
		[]string{"handler", "outcome"},
	)

	announcementsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "announcements_published_total",
			Help:      "Announcement embeds posted, by kind.",
		},
		[]string{"kind"},
	)

	initOnce sync.Once
)

// Init registers the collectors with the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			httpInFlight,
			httpRequestsTotal,
			httpRequestDuration,
			webhookDeliveries,
			pushesRelayed,
			commitsRelayed,
			reactionOutcomes,
			announcementsPublished,
		)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func HTTPStarted() {
	httpInFlight.Inc()
}

func HTTPFinished(method, route string, status int, elapsed time.Duration) {
	code := strconv.Itoa(status)
	httpRequestDuration.WithLabelValues(method, route, code).Observe(elapsed.Seconds())
	httpRequestsTotal.WithLabelValues(method, route, code).Inc()
	httpInFlight.Dec()
}

func WebhookDelivery(source, event, result string) {
	webhookDeliveries.WithLabelValues(source, event, result).Inc()
}

func PushRelayed(source string, visible, masked int) {
	pushesRelayed.WithLabelValues(source).Inc()
	commitsRelayed.WithLabelValues(source, "false").Add(float64(visible))
	commitsRelayed.WithLabelValues(source, "true").Add(float64(masked))
}

func ReactionOutcome(handler, outcome string) {
	reactionOutcomes.WithLabelValues(handler, outcome).Inc()
}

func AnnouncementPublished(kind string) {
	announcementsPublished.WithLabelValues(kind).Inc()
}
