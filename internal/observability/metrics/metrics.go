package metrics

import "github.com/prometheus/client_golang/prometheus"

// BotMetrics exposes counters/histograms for the conversational flow.
type BotMetrics struct {
	turnsTotal      *prometheus.CounterVec
	ticketsTotal    *prometheus.CounterVec
	complaintsTotal prometheus.Counter
	webhookLatency  *prometheus.HistogramVec
}

func NewBotMetrics(reg prometheus.Registerer) *BotMetrics {
	m := &BotMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "supportbot",
			Subsystem: "dialogue",
			Name:      "turns_total",
			Help:      "Total processed customer turns",
		}, []string{"step", "status"}),
		ticketsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "supportbot",
			Subsystem: "routing",
			Name:      "tickets_total",
			Help:      "Ticket lifecycle transitions",
		}, []string{"category", "status"}),
		complaintsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "supportbot",
			Subsystem: "routing",
			Name:      "complaints_total",
			Help:      "Complaint records filed through the guided form",
		}),
		webhookLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "supportbot",
			Subsystem: "whatsapp",
			Name:      "webhook_latency_seconds",
			Help:      "Latency of WhatsApp webhook processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"event_type"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.ticketsTotal, m.complaintsTotal, m.webhookLatency)
	return m
}

func (m *BotMetrics) ObserveTurn(step, status string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(step, status).Inc()
}

func (m *BotMetrics) ObserveTicket(category, status string) {
	if m == nil {
		return
	}
	m.ticketsTotal.WithLabelValues(category, status).Inc()
}

func (m *BotMetrics) ObserveComplaint() {
	if m == nil {
		return
	}
	m.complaintsTotal.Inc()
}

func (m *BotMetrics) ObserveWebhookLatency(eventType string, seconds float64) {
	if m == nil {
		return
	}
	m.webhookLatency.WithLabelValues(eventType).Observe(seconds)
}
