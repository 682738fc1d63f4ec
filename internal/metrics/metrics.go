// Package metrics holds the Prometheus registry and collectors for the
// packing service.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, path, and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Calculations counts packing calculations by container type and outcome.
	Calculations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "packing_calculations_total", Help: "Packing calculations by container type and outcome."},
		[]string{"container_type", "outcome"},
	)
	// VolumeUtilization tracks achieved volume utilization percentages.
	VolumeUtilization = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "packing_volume_utilization_percent",
			Help:    "Volume utilization percentage of completed calculations.",
			Buckets: []float64{10, 25, 50, 75, 90, 95, 100},
		},
	)
)

var regOnce sync.Once

// RegisterDefault registers all collectors on the service registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(Calculations)
		Registry.MustRegister(VolumeUtilization)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
