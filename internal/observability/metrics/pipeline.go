package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PipelineMetrics covers the classification pipeline: routing outcomes,
// durations, in-flight candidates, and the review queue backlog. All
// series carry the service label so watcher and worker can share a
// scrape config.
type PipelineMetrics struct {
	registry *prometheus.Registry
	service  string

	decisionsTotal   *prometheus.CounterVec
	processDuration  *prometheus.HistogramVec
	processInFlight  prometheus.Gauge
	reviewQueueDepth prometheus.Gauge
	intakeRejects    *prometheus.CounterVec
	duplicateSkips   prometheus.Counter
}

func NewPipelineMetrics(service string) *PipelineMetrics {
	registry := prometheus.NewRegistry()
	serviceLabel := prometheus.Labels{"service": service}

	decisionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   "autofiler",
			Subsystem:   "pipeline",
			Name:        "decisions_total",
			Help:        "Routing decisions by outcome (auto_file, review, error).",
			ConstLabels: serviceLabel,
		},
		[]string{"outcome"},
	)
	processDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   "autofiler",
			Subsystem:   "pipeline",
			Name:        "process_duration_seconds",
			Help:        "Per-candidate pipeline duration by outcome.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: serviceLabel,
		},
		[]string{"outcome"},
	)
	processInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   "autofiler",
			Subsystem:   "pipeline",
			Name:        "process_in_flight",
			Help:        "Candidates currently being classified.",
			ConstLabels: serviceLabel,
		},
	)
	reviewQueueDepth := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   "autofiler",
			Subsystem:   "review",
			Name:        "queue_depth",
			Help:        "Pending review items.",
			ConstLabels: serviceLabel,
		},
	)
	intakeRejects := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   "autofiler",
			Subsystem:   "intake",
			Name:        "guard_rejects_total",
			Help:        "Files rejected by intake guards, by reason.",
			ConstLabels: serviceLabel,
		},
		[]string{"reason"},
	)
	duplicateSkips := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace:   "autofiler",
			Subsystem:   "pipeline",
			Name:        "duplicate_skips_total",
			Help:        "Notifications skipped because the path was already decided.",
			ConstLabels: serviceLabel,
		},
	)

	registry.MustRegister(decisionsTotal, processDuration, processInFlight,
		reviewQueueDepth, intakeRejects, duplicateSkips)

	return &PipelineMetrics{
		registry:         registry,
		service:          service,
		decisionsTotal:   decisionsTotal,
		processDuration:  processDuration,
		processInFlight:  processInFlight,
		reviewQueueDepth: reviewQueueDepth,
		intakeRejects:    intakeRejects,
		duplicateSkips:   duplicateSkips,
	}
}

func (m *PipelineMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *PipelineMetrics) StartCandidate() {
	m.processInFlight.Inc()
}

func (m *PipelineMetrics) FinishCandidate(outcome string, duration time.Duration) {
	m.processInFlight.Dec()
	m.decisionsTotal.WithLabelValues(outcome).Inc()
	m.processDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

func (m *PipelineMetrics) SetReviewQueueDepth(depth int) {
	m.reviewQueueDepth.Set(float64(depth))
}

func (m *PipelineMetrics) GuardReject(reason string) {
	m.intakeRejects.WithLabelValues(reason).Inc()
}

func (m *PipelineMetrics) DuplicateSkip() {
	m.duplicateSkips.Inc()
}
