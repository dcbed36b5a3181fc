// Package observability holds the Prometheus metrics exported by ls-lunar.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "lunar"

// Metrics holds the Prometheus counters, histograms, and gauges for catalog
// loads and the refresh loop.
type Metrics struct {
	// Catalog metrics.
	CatalogLoads        *prometheus.CounterVec // labels: club, outcome={success,error}
	CatalogLoadDuration prometheus.Histogram
	FeaturesEvaluated   *prometheus.CounterVec // labels: club
	FeaturesVisible     *prometheus.GaugeVec   // labels: club

	// Refresh loop metrics.
	Refreshes     prometheus.Counter
	RefreshErrors prometheus.Counter

	// Current lunar circumstances.
	Colongitude  prometheus.Gauge
	Illumination prometheus.Gauge
	Altitude     prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics that are not registered anywhere, to
// avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		CatalogLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_loads_total",
			Help:      "Feature container loads by club and outcome.",
		}, []string{"club", "outcome"}),
		CatalogLoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_load_duration_seconds",
			Help:      "Duration of a feature container load, including visibility checks.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		FeaturesEvaluated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "features_evaluated_total",
			Help:      "Catalog rows checked for visibility.",
		}, []string{"club"}),
		FeaturesVisible: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "features_visible",
			Help:      "Features retained by the most recent load.",
		}, []string{"club"}),
		Refreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refreshes_total",
			Help:      "Completed observation refreshes.",
		}),
		RefreshErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_errors_total",
			Help:      "Observation refreshes that failed.",
		}),
		Colongitude: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "colongitude_degrees",
			Help:      "Selenographic colongitude of the Sun at the last refresh.",
		}),
		Illumination: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "illuminated_fraction",
			Help:      "Illuminated fraction of the lunar disk at the last refresh.",
		}),
		Altitude: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "altitude_degrees",
			Help:      "Topocentric altitude of the Moon at the last refresh.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.CatalogLoads,
		m.CatalogLoadDuration,
		m.FeaturesEvaluated,
		m.FeaturesVisible,
		m.Refreshes,
		m.RefreshErrors,
		m.Colongitude,
		m.Illumination,
		m.Altitude,
	}
}

// Register adds the metrics to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
