package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/afkham/recurring-meeting-optimizer/internal/core/domain"
)

// RunMetrics instruments one sweep. The job is one-shot, so the metrics
// live on a private registry and are pushed to a Pushgateway at the end
// of the run when one is configured.
type RunMetrics struct {
	registry *prometheus.Registry

	eventsTotal        *prometheus.CounterVec
	cancellationsTotal prometheus.Counter
	wouldCancelTotal   prometheus.Counter
	errorsTotal        prometheus.Counter
	docFetchTotal      *prometheus.CounterVec
	runDuration        prometheus.Gauge
}

func NewRunMetrics() *RunMetrics {
	registry := prometheus.NewRegistry()

	eventsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rmo",
			Subsystem: "sweep",
			Name:      "events_total",
			Help:      "Events evaluated, by event-level reason.",
		},
		[]string{"reason"},
	)
	cancellationsTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "rmo",
			Subsystem: "sweep",
			Name:      "cancellations_total",
			Help:      "Occurrences cancelled this run.",
		},
	)
	wouldCancelTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "rmo",
			Subsystem: "sweep",
			Name:      "would_cancel_total",
			Help:      "Occurrences that would have been cancelled (dry run).",
		},
	)
	errorsTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "rmo",
			Subsystem: "sweep",
			Name:      "event_errors_total",
			Help:      "Events whose processing failed.",
		},
	)
	docFetchTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rmo",
			Subsystem: "sweep",
			Name:      "document_fetch_total",
			Help:      "Agenda document fetches, by status.",
		},
		[]string{"status"},
	)
	runDuration := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "rmo",
			Subsystem: "sweep",
			Name:      "run_duration_seconds",
			Help:      "Wall time of the whole run.",
		},
	)

	registry.MustRegister(eventsTotal, cancellationsTotal, wouldCancelTotal, errorsTotal, docFetchTotal, runDuration)

	return &RunMetrics{
		registry:           registry,
		eventsTotal:        eventsTotal,
		cancellationsTotal: cancellationsTotal,
		wouldCancelTotal:   wouldCancelTotal,
		errorsTotal:        errorsTotal,
		docFetchTotal:      docFetchTotal,
		runDuration:        runDuration,
	}
}

func (m *RunMetrics) EventEvaluated(reason domain.Reason) {
	m.eventsTotal.WithLabelValues(string(reason)).Inc()
}

func (m *RunMetrics) EventCancelled() { m.cancellationsTotal.Inc() }

func (m *RunMetrics) EventWouldCancel() { m.wouldCancelTotal.Inc() }

func (m *RunMetrics) EventError() { m.errorsTotal.Inc() }

func (m *RunMetrics) DocumentFetched(ok bool) {
	status := "ok"
	if !ok {
		status = "error"
	}
	m.docFetchTotal.WithLabelValues(status).Inc()
}

func (m *RunMetrics) SetRunDuration(d time.Duration) {
	m.runDuration.Set(d.Seconds())
}

// Push sends the run's metrics to a Pushgateway. A failed push is a
// reporting problem, never a run failure; the caller logs it and moves on.
func (m *RunMetrics) Push(gatewayURL, job string) error {
	return push.New(gatewayURL, job).Gatherer(m.registry).Push()
}
