package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	Quotes          *prometheus.CounterVec
	MissingPrices   prometheus.Counter
	TotalMismatches prometheus.Counter
	PanicsRecovered prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency of storefront API requests.",
			Buckets: []float64{0.001, 0.01, 0.1, 0.3, 0.6, 1, 3, 6, 9, 20, 30, 60, 90, 120},
		}, []string{"handler", "code", "method"}),
		Quotes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "villa_quotes_total",
			Help: "Stay quotes computed, by outcome.",
		}, []string{"outcome"}),
		MissingPrices: f.NewCounter(prometheus.CounterOpts{
			Name: "villa_missing_weekday_prices_total",
			Help: "Nights priced with the villa base price because the weekday price was missing or malformed.",
		}),
		TotalMismatches: f.NewCounter(prometheus.CounterOpts{
			Name: "villa_checkout_total_mismatches_total",
			Help: "Checkouts rejected because the submitted total differed from the computed one.",
		}),
		PanicsRecovered: f.NewCounter(prometheus.CounterOpts{
			Name: "http_req_panics_recovered_total",
			Help: "Total number of HTTP requests recovered from internal panic.",
		}),
	}
}

func (m *Metrics) quoteOutcome(outcome string) {
	m.Quotes.WithLabelValues(outcome).Inc()
}
