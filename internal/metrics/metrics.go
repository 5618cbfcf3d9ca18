package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	CardsGenerated   *prometheus.CounterVec
	Validations      *prometheus.CounterVec
	GenerateDuration prometheus.Histogram
	Exports          *prometheus.CounterVec
}

// New registers the collectors on reg. Each App owns its registry so
// several can live in one process (tests).
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		CardsGenerated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cardforge_cards_generated_total",
			Help: "Total number of generated cards by brand",
		}, []string{"brand"}),
		Validations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cardforge_validations_total",
			Help: "Total number of validations by outcome (valid, checksum, length)",
		}, []string{"outcome"}),
		GenerateDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "cardforge_generate_duration_seconds",
			Help:    "Duration of generate requests",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		Exports: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cardforge_exports_total",
			Help: "Total number of batch exports by format",
		}, []string{"format"}),
	}
}

func (m *Metrics) IncrementGenerated(brand string) {
	if brand == "" {
		brand = "unknown"
	}
	m.CardsGenerated.WithLabelValues(brand).Inc()
}

func (m *Metrics) IncrementValidation(outcome string) {
	m.Validations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementExport(format string) {
	m.Exports.WithLabelValues(format).Inc()
}

func (m *Metrics) ObserveGenerate(start time.Time) {
	m.GenerateDuration.Observe(time.Since(start).Seconds())
}
