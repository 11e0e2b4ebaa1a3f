package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// PushJobName is the Pushgateway job label for gsctl metrics.
const PushJobName = "gsctl"

// PrometheusSink implements Sink using the Prometheus client library.
// A CLI run is too short-lived to be scraped, so Flush pushes the registry
// to a Pushgateway when one is configured.
// Registration errors are logged but never propagated.
type PrometheusSink struct {
	registry *prometheus.Registry
	pusher   *push.Pusher // nil = Flush is a no-op
	logger   *slog.Logger

	// Input collection metrics
	collectionDuration    prometheus.Histogram
	collectionErrorsTotal prometheus.Counter

	// Submission metrics
	submissionsTotal    *prometheus.CounterVec
	submissionDuration  prometheus.Histogram
	submissionOutcomes  *prometheus.CounterVec
	lastSubmissionEpoch prometheus.Gauge
}

// NewPrometheusSink creates a sink backed by its own registry.
// When pushgatewayURL is empty, metrics are recorded but never exported.
func NewPrometheusSink(pushgatewayURL string, logger *slog.Logger) *PrometheusSink {
	reg := prometheus.NewRegistry()
	s := &PrometheusSink{registry: reg, logger: logger}
	s.initCollectionMetrics(reg)
	s.initSubmissionMetrics(reg)

	if pushgatewayURL != "" {
		s.pusher = push.New(pushgatewayURL, PushJobName).Gatherer(reg)
	}
	return s
}

// Registry exposes the underlying registry, mainly for tests.
func (s *PrometheusSink) Registry() *prometheus.Registry {
	return s.registry
}

func (s *PrometheusSink) initCollectionMetrics(reg prometheus.Registerer) {
	s.collectionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "gsctl_input_collection_duration_seconds",
		Help:    "Time the operator spent answering the job prompts.",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})
	s.collectionErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gsctl_input_collection_errors_total",
		Help: "Total number of aborted or invalid input collections.",
	})

	s.register(reg, s.collectionDuration, "gsctl_input_collection_duration_seconds")
	s.register(reg, s.collectionErrorsTotal, "gsctl_input_collection_errors_total")
}

func (s *PrometheusSink) initSubmissionMetrics(reg prometheus.Registerer) {
	s.submissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gsctl_job_submissions_total",
		Help: "Total number of job submissions by response status class.",
	}, []string{"status_class"})

	s.submissionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "gsctl_job_submission_duration_seconds",
		Help:    "Latency of the job submission request in seconds.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})

	s.submissionOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gsctl_job_submission_outcomes_total",
		Help: "Total number of final submission outcomes.",
	}, []string{"outcome"})

	s.lastSubmissionEpoch = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "gsctl_last_submission_timestamp_seconds",
		Help: "Unix time of the last completed submission attempt.",
	})

	s.register(reg, s.submissionsTotal, "gsctl_job_submissions_total")
	s.register(reg, s.submissionDuration, "gsctl_job_submission_duration_seconds")
	s.register(reg, s.submissionOutcomes, "gsctl_job_submission_outcomes_total")
	s.register(reg, s.lastSubmissionEpoch, "gsctl_last_submission_timestamp_seconds")
}

// register attempts to register a collector, logging any errors without propagating them.
func (s *PrometheusSink) register(reg prometheus.Registerer, c prometheus.Collector, name string) {
	if err := reg.Register(c); err != nil && s.logger != nil {
		s.logger.Warn("metrics: failed to register collector", "name", name, "error", err)
	}
}

func (s *PrometheusSink) CollectionCompleted(duration time.Duration, err error) {
	s.collectionDuration.Observe(duration.Seconds())
	if err != nil {
		s.collectionErrorsTotal.Inc()
	}
}

func (s *PrometheusSink) SubmissionCompleted(statusClass string, duration time.Duration) {
	s.submissionsTotal.WithLabelValues(statusClass).Inc()
	s.submissionDuration.Observe(duration.Seconds())
	s.lastSubmissionEpoch.SetToCurrentTime()
}

func (s *PrometheusSink) SubmissionOutcome(outcome string) {
	s.submissionOutcomes.WithLabelValues(outcome).Inc()
}

// Flush pushes all metrics to the Pushgateway, replacing the previous push
// for the gsctl job.
func (s *PrometheusSink) Flush(ctx context.Context) error {
	if s.pusher == nil {
		return nil
	}
	if err := s.pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
