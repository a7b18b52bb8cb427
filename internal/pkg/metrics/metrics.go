package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the application's prometheus collectors.
type Metrics struct {
	// HTTP request count by method, path and status code.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP request latency by method and path.
	HTTPRequestDuration *prometheus.HistogramVec

	// Hold creation attempts by outcome: created, replayed, overlap,
	// no_tariff, rejected, error.
	HoldsTotal *prometheus.CounterVec

	// Tariff resolution cache lookups by result: hit, miss, error.
	TariffCacheLookups *prometheus.CounterVec

	// Court lock operations by operation (acquire, release) and status.
	CourtLockDuration *prometheus.HistogramVec

	// Reservations currently blocking a slot, by status.
	ActiveReservations *prometheus.GaugeVec

	// Holds moved to expired by the sweeper.
	ExpiredHoldsTotal prometheus.Counter
}

// New registers the collectors on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the collectors on the given registry.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HoldsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reservation_holds_total",
				Help: "Total number of hold creation attempts",
			},
			[]string{"outcome"},
		),
		TariffCacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tariff_cache_lookups_total",
				Help: "Tariff resolution cache lookups",
			},
			[]string{"result"},
		),
		CourtLockDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "court_lock_duration_seconds",
				Help:    "Time spent on per-court lock operations",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation", "status"},
		),
		ActiveReservations: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "active_reservations",
				Help: "Current number of slot-blocking reservations",
			},
			[]string{"status"},
		),
		ExpiredHoldsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "expired_holds_total",
				Help: "Holds transitioned to expired by the sweeper",
			},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HoldsTotal,
		m.TariffCacheLookups,
		m.CourtLockDuration,
		m.ActiveReservations,
		m.ExpiredHoldsTotal,
	)

	return m
}

var defaultMetrics *Metrics

// Init creates and stores the default metrics instance.
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get returns the default metrics instance; nil until Init.
func Get() *Metrics {
	return defaultMetrics
}
