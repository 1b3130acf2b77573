package provider

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records per-provider transcription outcomes for the /metrics
// endpoint. All collectors are registered on the given registerer once.
type Metrics struct {
	requests     *prometheus.CounterVec
	failures     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	audioSeconds *prometheus.CounterVec
}

// NewMetrics creates provider metrics registered on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scribe",
			Subsystem: "provider",
			Name:      "requests_total",
			Help:      "Transcription requests per provider.",
		}, []string{"provider"}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scribe",
			Subsystem: "provider",
			Name:      "failures_total",
			Help:      "Failed transcription requests per provider and error code.",
		}, []string{"provider", "code"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "scribe",
			Subsystem: "provider",
			Name:      "request_duration_seconds",
			Help:      "Vendor call latency per provider.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
		}, []string{"provider"}),
		audioSeconds: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scribe",
			Subsystem: "provider",
			Name:      "audio_seconds_total",
			Help:      "Seconds of audio processed per provider.",
		}, []string{"provider"}),
	}
}

// RecordSuccess records a successful transcription.
func (m *Metrics) RecordSuccess(provider string, latencySec, audioLengthSec float64) {
	m.requests.WithLabelValues(provider).Inc()
	m.latency.WithLabelValues(provider).Observe(latencySec)
	if audioLengthSec > 0 {
		m.audioSeconds.WithLabelValues(provider).Add(audioLengthSec)
	}
}

// RecordFailure records a failed transcription with its error code.
func (m *Metrics) RecordFailure(provider, code string, latencySec float64) {
	m.requests.WithLabelValues(provider).Inc()
	m.failures.WithLabelValues(provider, code).Inc()
	m.latency.WithLabelValues(provider).Observe(latencySec)
}
