package grpc

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc/codes"
)

// rpcMetrics holds the per-server request collectors. Labels are the full
// method name and the gRPC status code, both bounded sets.
type rpcMetrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	inflight prometheus.Gauge
}

func newRPCMetrics() *rpcMetrics {
	m := &rpcMetrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "campuswall_rpc_requests_total",
				Help: "Total number of gRPC requests.",
			},
			[]string{"method", "code"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "campuswall_rpc_duration_seconds",
				Help:    "Duration of gRPC requests in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		inflight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "campuswall_rpc_inflight",
				Help: "Current number of in-flight gRPC requests.",
			},
		),
	}
	m.registry.MustRegister(m.requests, m.latency, m.inflight)
	return m
}

func (m *rpcMetrics) observe(method string, code codes.Code, d time.Duration) {
	m.requests.WithLabelValues(method, code.String()).Inc()
	m.latency.WithLabelValues(method).Observe(d.Seconds())
}

// MetricsHandler serves the server's collectors in the Prometheus text format.
func (s *GRPCServer) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})
}
