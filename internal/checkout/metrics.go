package checkout

import "github.com/prometheus/client_golang/prometheus"

const (
	resultOK                = "ok"
	resultInvalid           = "invalid"
	resultNotConfigured     = "not_configured"
	resultProcessorError    = "processor_error"
	resultInvalidSignature  = "invalid_signature"
	resultIgnored           = "ignored"
	resultDecodeError       = "decode_error"
	resultFulfillmentFailed = "fulfillment_failed"
)

// Metrics counts checkout outcomes. A nil *Metrics records nothing.
type Metrics struct {
	Sessions *prometheus.CounterVec
	Webhooks *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Sessions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkout_sessions_total",
				Help: "Checkout session requests by outcome",
			},
			[]string{"result"},
		),
		Webhooks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webhook_events_total",
				Help: "Payment webhook deliveries by event type and outcome",
			},
			[]string{"type", "result"},
		),
	}

	reg.MustRegister(m.Sessions, m.Webhooks)
	return m
}

func (m *Metrics) session(result string) {
	if m != nil {
		m.Sessions.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) webhook(eventType, result string) {
	if m == nil {
		return
	}
	if eventType == "" {
		eventType = "unknown"
	}
	m.Webhooks.WithLabelValues(eventType, result).Inc()
}
