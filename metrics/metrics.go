// Package metrics exposes whisperd's Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "whisperd"

// Transcription outcome labels.
const (
	StatusSuccess  = "success"
	StatusError    = "error"
	StatusRejected = "rejected"
	StatusCanceled = "canceled"
)

// Metrics holds the service's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	TranscriptionsTotal   *prometheus.CounterVec
	TranscriptionDuration *prometheus.HistogramVec
	UploadBytes           prometheus.Histogram
	InferenceWait         prometheus.Histogram
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
}

// New creates the collectors along with Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		// Labels: backend, status (success/error/rejected)
		TranscriptionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transcriptions_total",
				Help:      "Total number of transcription requests by backend and outcome",
			},
			[]string{"backend", "status"},
		),
		TranscriptionDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "transcription_duration_seconds",
				Help:      "Backend inference duration in seconds",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"backend"},
		),
		UploadBytes: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upload_size_bytes",
			Help:      "Size of staged audio uploads",
			Buckets:   prometheus.ExponentialBuckets(16<<10, 4, 8),
		}),
		InferenceWait: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "inference_wait_seconds",
			Help:      "Time requests spent queued for an inference slot",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 15, 60, 300},
		}),
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route, method and status code",
			},
			[]string{"route", "method", "code"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds by route",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordTranscription records one transcription request outcome. duration
// is only observed for completed backend calls.
func (m *Metrics) RecordTranscription(backend, status string, duration time.Duration) {
	m.TranscriptionsTotal.WithLabelValues(backend, status).Inc()
	if status != StatusRejected && status != StatusCanceled && duration > 0 {
		m.TranscriptionDuration.WithLabelValues(backend).Observe(duration.Seconds())
	}
}

// RecordUpload records the size of a staged upload.
func (m *Metrics) RecordUpload(bytes int64) {
	m.UploadBytes.Observe(float64(bytes))
}

// RecordInferenceWait records how long a request queued for a slot.
func (m *Metrics) RecordInferenceWait(waited time.Duration) {
	m.InferenceWait.Observe(waited.Seconds())
}

// RegisterGaugeFunc exposes a value sampled at scrape time, e.g. the number
// of busy inference slots.
func (m *Metrics) RegisterGaugeFunc(name, help string, fn func() float64) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, fn))
}

// GinMiddleware records request counts and latency per matched route.
// Unmatched paths share the "unmatched" route label.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}
