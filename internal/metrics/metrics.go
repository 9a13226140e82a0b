// Package metrics counts what a sync run did, in Prometheus form.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kurakura967/flightsync"
)

const namespace = "flightsync"

const (
	MetricFlightsFetched   = "flights_fetched_total"
	MetricFlightsIndexed   = "flights_indexed_total"
	MetricFlightsSkipped   = "flights_skipped_total"
	MetricIndexFailures    = "index_failures_total"
	MetricLastRunTimestamp = "last_run_timestamp_seconds"
)

// Metrics holds the counters of one process. Runs are short-lived, so the
// values are meant to be written out with WriteTextfile rather than scraped.
type Metrics struct {
	registry *prometheus.Registry

	fetched  prometheus.Counter
	indexed  *prometheus.CounterVec
	skipped  prometheus.Counter
	failures *prometheus.CounterVec
	lastRun  prometheus.Gauge
}

// New returns Metrics registered on their own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		fetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      MetricFlightsFetched,
			Help:      "State vectors returned by the OpenSky API.",
		}),
		indexed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      MetricFlightsIndexed,
			Help:      "Flight documents written, by Elasticsearch result.",
		}, []string{"result"}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      MetricFlightsSkipped,
			Help:      "Flights skipped because they had no icao24.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      MetricIndexFailures,
			Help:      "Flights that could not be indexed, by failure kind.",
		}, []string{"kind"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      MetricLastRunTimestamp,
			Help:      "Unix time of the last successful fetch.",
		}),
	}

	m.registry.MustRegister(m.fetched, m.indexed, m.skipped, m.failures, m.lastRun)
	return m
}

// ObserveFetch records a successful fetch of n flights.
func (m *Metrics) ObserveFetch(n int) {
	m.fetched.Add(float64(n))
	m.lastRun.SetToCurrentTime()
}

// ObserveIndex records the outcome of one Index call.
func (m *Metrics) ObserveIndex(res flightsync.Result, err error) {
	if err != nil {
		m.failures.WithLabelValues(flightsync.KindOf(err).String()).Inc()
		return
	}

	switch res.Outcome {
	case flightsync.OutcomeSkipped:
		m.skipped.Inc()
	case flightsync.OutcomeIndexed:
		m.indexed.WithLabelValues(res.Result).Inc()
	}
}

// Gatherer exposes the registry.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes all metrics to path in the text exposition format,
// for the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return errors.New("metrics: empty textfile path")
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
