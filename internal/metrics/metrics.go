package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "docsync",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests received",
	}, []string{"method", "path", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "docsync",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	httpInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "docsync",
		Name:      "http_in_flight_requests",
		Help:      "Current number of in-flight HTTP requests",
	})

	connectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "docsync",
		Name:      "connected_clients",
		Help:      "Current number of open WebSocket connections",
	})

	activeDocuments = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "docsync",
		Name:      "active_documents",
		Help:      "Number of documents tracked by the store",
	})

	inboundEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "docsync",
		Name:      "inbound_events_total",
		Help:      "Client events received, by frame type",
	}, []string{"type"})

	broadcastFrames = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "docsync",
		Name:      "broadcast_frames_total",
		Help:      "Frames broadcast to document rooms, by frame type",
	}, []string{"type"})
)

func ClientConnected()    { connectedClients.Inc() }
func ClientDisconnected() { connectedClients.Dec() }

func SetActiveDocuments(n int) { activeDocuments.Set(float64(n)) }

func RecordInboundEvent(frameType string) { inboundEvents.WithLabelValues(frameType).Inc() }

func RecordBroadcast(frameType string) { broadcastFrames.WithLabelValues(frameType).Inc() }

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack is required so the WebSocket upgrade still works through the
// middleware.
func (r *responseRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := r.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, fmt.Errorf("metrics: underlying ResponseWriter does not support hijacking")
}

// Middleware records request metrics with Prometheus labels.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			httpInFlight.Inc()
			defer httpInFlight.Dec()

			next.ServeHTTP(rec, r)

			labels := prometheus.Labels{
				"method": r.Method,
				"path":   r.URL.Path,
				"status": strconv.Itoa(rec.status),
			}
			httpRequests.With(labels).Inc()
			httpLatency.With(labels).Observe(time.Since(start).Seconds())
		})
	}
}

// Handler exposes the default Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
