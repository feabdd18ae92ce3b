package metrics

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics holds the prometheus collectors scraped from /metrics.
type HTTPMetrics struct {
	requestDuration *prometheus.HistogramVec
	chatIntents     *prometheus.CounterVec
	activeStreams   prometheus.Gauge
}

var (
	httpMetricsOnce sync.Once
	httpMetrics     *HTTPMetrics
)

// NewHTTPMetrics returns the process-wide collectors registered on the
// default registerer.
func NewHTTPMetrics(cfg Config) *HTTPMetrics {
	httpMetricsOnce.Do(func() {
		httpMetrics = newHTTPMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return httpMetrics
}

func newHTTPMetrics(registerer prometheus.Registerer, cfg Config) *HTTPMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "tariffdesk"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "tariffdesk_http_request_duration_seconds",
		Help:        "HTTP request latency by route and status.",
		Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		ConstLabels: constLabels,
	}, []string{"method", "route", "status_code"})
	chatIntents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "tariffdesk_chat_intents_total",
		Help:        "Chat messages by resolved intent.",
		ConstLabels: constLabels,
	}, []string{"intent"})
	activeStreams := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "tariffdesk_chat_active_streams",
		Help:        "Completion streams currently open.",
		ConstLabels: constLabels,
	})

	registerer.MustRegister(requestDuration, chatIntents, activeStreams)

	return &HTTPMetrics{
		requestDuration: requestDuration,
		chatIntents:     chatIntents,
		activeStreams:   activeStreams,
	}
}

// GinMiddleware observes request latency. Streamed chat responses are
// measured until the stream closes.
func (m *HTTPMetrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		m.requestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func (m *HTTPMetrics) RecordChatIntent(intent string) {
	if m == nil {
		return
	}
	m.chatIntents.WithLabelValues(strings.TrimSpace(intent)).Inc()
}

func (m *HTTPMetrics) StreamOpened() {
	if m == nil {
		return
	}
	m.activeStreams.Inc()
}

func (m *HTTPMetrics) StreamClosed() {
	if m == nil {
		return
	}
	m.activeStreams.Dec()
}
