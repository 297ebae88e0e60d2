package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var (
	// LoginAttemptsTotal counts decoy login submissions by endpoint
	LoginAttemptsTotal = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "decoyra_login_attempts_total",
			Help: "Login attempts received by the decoy endpoints",
		},
		[]string{"endpoint"},
	)

	BruteForceAlertsTotal = promauto.With(registry).NewCounter(
		prometheus.CounterOpts{
			Name: "decoyra_brute_force_alerts_total",
			Help: "Brute force alerts written to the event log",
		},
	)

	// ScamMessagesTotal counts intake messages by the reply rule they matched
	ScamMessagesTotal = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "decoyra_scam_messages_total",
			Help: "Scam messages received, by matched reply rule",
		},
		[]string{"rule"},
	)

	EventLogErrorsTotal = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "decoyra_event_log_errors_total",
			Help: "Event log read/append failures",
		},
		[]string{"operation"},
	)

	AlertNotificationsTotal = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "decoyra_alert_notifications_total",
			Help: "Brute force alert notifications, by result",
		},
		[]string{"result"},
	)

	// Gauges below are refreshed by the stats reporter from a full log replay
	LoggedLoginAttempts = promauto.With(registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "decoyra_logged_login_attempts",
			Help: "Login attempts present in the event log at last replay",
		},
	)

	LoggedBruteForceAlerts = promauto.With(registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "decoyra_logged_brute_force_alerts",
			Help: "Brute force alerts present in the event log at last replay",
		},
	)

	DistinctAttackerIPs = promauto.With(registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "decoyra_distinct_attacker_ips",
			Help: "Distinct client IPs with login attempts at last replay",
		},
	)
)

var initOnce sync.Once

// Initialize registers the process and runtime collectors. Safe to call more than once.
func Initialize() {
	initOnce.Do(func() {
		registry.MustRegister(
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewGoCollector(),
		)
	})
}

// Handler serves the registry in the Prometheus text format
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry for tests
func Gatherer() prometheus.Gatherer {
	return registry
}
