package obs

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricPrefix = "boilerfunnel_"

	resultSuccess = "success"
	resultError   = "error"
)

// Funnel steps counted by FunnelStep.
const (
	StepSubmitted       = "submitted"
	StepProductSelected = "product_selected"
	StepInstallBooked   = "install_booked"
	StepQuoted          = "quoted"
	StepPaymentStarted  = "payment_started"
	StepPaymentDone     = "payment_completed"
)

// Metrics owns a private registry so tests can build as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpLatency   *prometheus.HistogramVec
	messages      *prometheus.CounterVec
	messageTiming *prometheus.HistogramVec
	funnelSteps   *prometheus.CounterVec
	published     *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		httpLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		messages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "bus_messages_total",
				Help: "Total commands and queries by key and result",
			},
			[]string{"kind", "key", "result"},
		),
		messageTiming: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "bus_message_duration_seconds",
				Help:    "Command and query handling latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind", "key"},
		),
		funnelSteps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "funnel_steps_total",
				Help: "Completed funnel steps",
			},
			[]string{"step"},
		),
		published: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "outbox_published_total",
				Help: "Events relayed from the outbox by name",
			},
			[]string{"event"},
		),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpLatency,
		m.messages,
		m.messageTiming,
		m.funnelSteps,
		m.published,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveMessage records a bus dispatch outcome.
func (m *Metrics) ObserveMessage(kind, key string, elapsed time.Duration, err error) {
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	m.messages.WithLabelValues(kind, key, result).Inc()
	m.messageTiming.WithLabelValues(kind, key).Observe(elapsed.Seconds())
}

func (m *Metrics) FunnelStep(step string) {
	m.funnelSteps.WithLabelValues(step).Inc()
}

func (m *Metrics) EventPublished(name string) {
	m.published.WithLabelValues(name).Inc()
}

func (m *Metrics) HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpLatency.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}
