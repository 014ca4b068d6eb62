// Package metrics exposes the gateway and provider's Prometheus surface:
// request counters, an in-flight gauge, the SSE subscriber gauge, and
// notification counters, served at GET /metrics. This is ambient
// observability, not excluded by any spec Non-goal.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// HTTPRequestsTotal counts every gateway REST request by route and
	// outcome.
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "someip_gateway",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests handled by the gateway, by route and status class.",
	}, []string{"route", "status"})

	// InFlightRequests gauges outstanding SOME/IP requests awaiting a
	// response, per service.
	InFlightRequests = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "someip_gateway",
		Name:      "inflight_requests",
		Help:      "Outstanding SOME/IP requests awaiting a response.",
	}, []string{"service"})

	// SSESubscribers gauges the current number of open SSE connections.
	SSESubscribers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "someip_gateway",
		Name:      "sse_subscribers",
		Help:      "Current number of open SSE connections.",
	})

	// NotificationsTotal counts SOME/IP notifications emitted by the
	// provider, by service and event.
	NotificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "someip_gateway",
		Name:      "notifications_total",
		Help:      "Total SOME/IP notifications emitted, by service and event.",
	}, []string{"service", "event"})
)

// MustRegister registers every collector in this package against reg. Call
// once at startup in each binary's main.
func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(HTTPRequestsTotal, InFlightRequests, SSESubscribers, NotificationsTotal)
}
