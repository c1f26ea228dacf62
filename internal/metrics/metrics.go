package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Forward outcome labels
const (
	OutcomeSuccess       = "success"
	OutcomeFailure       = "failure"
	OutcomeNoDestination = "no_destination"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	ForwardRequests         *prometheus.CounterVec
	Dispatches              *prometheus.CounterVec
	ResolutionFailures      prometheus.Counter
	ForwardDuration         prometheus.Histogram
	AuditLogSize            prometheus.Gauge
	PendingApplications     *prometheus.GaugeVec
	SettingsRefreshFailures prometheus.Counter
	WhatsAppSimulated       prometheus.Gauge
}

// NewMetrics creates metrics registered on the default registry
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates metrics registered on reg
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ForwardRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bansos_dispatch_forward_requests_total",
			Help: "Total number of complaint forwards by outcome",
		}, []string{"outcome"}),
		Dispatches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bansos_dispatch_channel_dispatches_total",
			Help: "Total number of channel send attempts by channel and result",
		}, []string{"channel", "result"}),
		ResolutionFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "bansos_dispatch_resolution_failures_total",
			Help: "Total number of complaints with no destination department",
		}),
		ForwardDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "bansos_dispatch_forward_duration_seconds",
			Help:    "Time spent forwarding a complaint",
			Buckets: prometheus.DefBuckets,
		}),
		AuditLogSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bansos_dispatch_audit_log_entries",
			Help: "Number of entries held in the forwarding audit log",
		}),
		PendingApplications: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bansos_dispatch_pending_applications",
			Help: "Pending aid applications by priority tier at the last triage sweep",
		}, []string{"priority"}),
		SettingsRefreshFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "bansos_dispatch_settings_refresh_failures_total",
			Help: "Total number of failed forwarding settings refreshes",
		}),
		WhatsAppSimulated: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bansos_dispatch_whatsapp_simulated",
			Help: "1 when the WhatsApp channel only simulates delivery",
		}),
	}
}

// ObserveForward records one forward outcome
func (m *Metrics) ObserveForward(outcome string, seconds float64) {
	m.ForwardRequests.WithLabelValues(outcome).Inc()
	m.ForwardDuration.Observe(seconds)
	if outcome == OutcomeNoDestination {
		m.ResolutionFailures.Inc()
	}
}

// ObserveDispatch records one channel send
func (m *Metrics) ObserveDispatch(channel string, ok bool) {
	result := OutcomeSuccess
	if !ok {
		result = OutcomeFailure
	}
	m.Dispatches.WithLabelValues(channel, result).Inc()
}
