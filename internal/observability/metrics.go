package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	adminRequestsTotal    *prometheus.CounterVec
	adminLatencySeconds   *prometheus.HistogramVec
	adminErrorsTotal      *prometheus.CounterVec
	catalogRequestsTotal  *prometheus.CounterVec
	catalogLatencySeconds prometheus.Histogram
	revertsTotal          *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		adminRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_requests_total",
			Help: "Total number of admin API requests served.",
		}, []string{"method", "route", "status"})

		adminLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "admin_latency_seconds",
			Help:    "Latency distribution for admin API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		adminErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_errors_total",
			Help: "Total number of error responses returned by admin endpoints.",
		}, []string{"method", "route", "status"})

		catalogRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_requests_total",
			Help: "Storefront catalogue listing requests by cache outcome.",
		}, []string{"outcome"})

		catalogLatencySeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "catalog_latency_seconds",
			Help:    "Latency distribution for storefront catalogue listings.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		})

		revertsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "activity_reverts_total",
			Help: "Revert attempts by outcome.",
		}, []string{"outcome"})

		prometheus.MustRegister(adminRequestsTotal, adminLatencySeconds, adminErrorsTotal, catalogRequestsTotal, catalogLatencySeconds, revertsTotal)
	})
}

// AdminRequests exposes the counter for admin requests.
func AdminRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return adminRequestsTotal
}

// AdminLatency exposes the latency histogram for admin requests.
func AdminLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return adminLatencySeconds
}

// AdminErrors exposes the counter for admin error responses.
func AdminErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return adminErrorsTotal
}

// CatalogRequests exposes the storefront catalogue request counter.
func CatalogRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return catalogRequestsTotal
}

// CatalogLatency exposes the storefront catalogue latency histogram.
func CatalogLatency() prometheus.Histogram {
	RegisterMetrics()
	return catalogLatencySeconds
}

// Reverts exposes the revert outcome counter.
func Reverts() *prometheus.CounterVec {
	RegisterMetrics()
	return revertsTotal
}
