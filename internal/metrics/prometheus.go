package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the daemon's metrics. A nil *Registry is valid and
// records nothing, so components can take one unconditionally.
type Registry struct {
	reg *prometheus.Registry

	// Requests counts RTNL requests by kind (create, delete, address).
	Requests *prometheus.CounterVec
	// RequestErrors counts requests the kernel rejected, by kind.
	RequestErrors *prometheus.CounterVec
	// Notifications counts link notifications by event and outcome.
	Notifications *prometheus.CounterVec
	// LinkState is the lifecycle state of each managed link.
	LinkState *prometheus.GaugeVec
}

// New creates a Registry with its own prometheus registry, so several
// instances (tests, multiple links) never collide.
func New() *Registry {
	r := &Registry{reg: prometheus.NewRegistry()}

	r.Requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wpand_rtnl_requests_total",
		Help: "RTNL requests sent, by kind",
	}, []string{"kind"})

	r.RequestErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wpand_rtnl_request_errors_total",
		Help: "RTNL requests rejected by the kernel, by kind",
	}, []string{"kind"})

	r.Notifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wpand_link_notifications_total",
		Help: "Link notifications received, by event and outcome",
	}, []string{"event", "result"})

	r.LinkState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "wpand_link_state",
		Help: "Lifecycle state of the managed link (0 absent, 1 create requested, 2 enabled, 3 delete requested, 4 gone)",
	}, []string{"name"})

	r.reg.MustRegister(
		r.Requests,
		r.RequestErrors,
		r.Notifications,
		r.LinkState,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// RecordRequest counts a request of the given kind and, if err is non-nil,
// a rejection.
func (r *Registry) RecordRequest(kind string, err error) {
	if r == nil {
		return
	}
	r.Requests.WithLabelValues(kind).Inc()
	if err != nil {
		r.RequestErrors.WithLabelValues(kind).Inc()
	}
}

// RecordNotification counts a link notification.
func (r *Registry) RecordNotification(event, result string) {
	if r == nil {
		return
	}
	r.Notifications.WithLabelValues(event, result).Inc()
}

// SetLinkState records the lifecycle state of a link.
func (r *Registry) SetLinkState(name string, state int) {
	if r == nil {
		return
	}
	r.LinkState.WithLabelValues(name).Set(float64(state))
}
