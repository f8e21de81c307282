package metrics

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hr_breaker"

const (
	OutcomePassed   = "passed"
	OutcomeFailed   = "failed"
	OutcomeFailOpen = "fail_open"

	ResolutionResolved = "resolved"
	ResolutionFailed   = "failed"
)

// Recorder holds the collectors of a single invocation in a private registry.
type Recorder struct {
	registry    *prometheus.Registry
	evaluations *prometheus.CounterVec
	scores      *prometheus.HistogramVec
	resolutions *prometheus.CounterVec
}

func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_evaluations_total",
			Help:      "Filter evaluations by outcome.",
		}, []string{"filter", "outcome"}),
		scores: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "filter_score",
			Help:      "Scores produced by filters.",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		}, []string{"filter"}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_resolutions_total",
			Help:      "Upload resolutions by result.",
		}, []string{"result"}),
	}

	r.registry.MustRegister(r.evaluations, r.scores, r.resolutions)

	return r
}

// ObserveEvaluation records a filter verdict. Fail-open verdicts do not record a score.
func (r *Recorder) ObserveEvaluation(filter string, passed, failOpen bool, score float64) {
	if r == nil {
		return
	}

	outcome := OutcomeFailed
	switch {
	case failOpen:
		outcome = OutcomeFailOpen
	case passed:
		outcome = OutcomePassed
	}

	r.evaluations.WithLabelValues(filter, outcome).Inc()
	if !failOpen {
		r.scores.WithLabelValues(filter).Observe(score)
	}
}

func (r *Recorder) ObserveResolution(err error) {
	if r == nil {
		return
	}

	result := ResolutionResolved
	if err != nil {
		result = ResolutionFailed
	}
	r.resolutions.WithLabelValues(result).Inc()
}

// WriteTextfile writes all metrics in the node exporter textfile format.
// An empty path is a no-op.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || strings.TrimSpace(path) == "" {
		return nil
	}

	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}

	return nil
}
