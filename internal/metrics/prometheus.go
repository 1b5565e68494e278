package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PromRecorder is the Prometheus-backed Recorder used by the server binary.
type PromRecorder struct {
	registry *prometheus.Registry

	storeMutations *prometheus.CounterVec
	saveFailures   prometheus.Counter
	httpDuration   *prometheus.HistogramVec
	chatStreams    *prometheus.CounterVec
}

func NewPromRecorder() *PromRecorder {
	reg := prometheus.NewRegistry()

	r := &PromRecorder{
		registry: reg,
		storeMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "priority_matrix_store_mutations_total",
			Help: "Mutating store operations by name.",
		}, []string{"op"}),
		saveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "priority_matrix_snapshot_save_failures_total",
			Help: "Failed writes of the persisted state snapshot.",
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "priority_matrix_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		chatStreams: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "priority_matrix_chat_streams_total",
			Help: "Chat streams by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(r.storeMutations, r.saveFailures, r.httpDuration, r.chatStreams)
	return r
}

func (r *PromRecorder) StoreMutation(op string) {
	r.storeMutations.WithLabelValues(op).Inc()
}

func (r *PromRecorder) SnapshotSaveFailure() {
	r.saveFailures.Inc()
}

func (r *PromRecorder) HTTPRequest(method, path string, status int, dur time.Duration) {
	r.httpDuration.WithLabelValues(method, path, strconv.Itoa(status)).Observe(dur.Seconds())
}

func (r *PromRecorder) ChatStream(outcome string) {
	r.chatStreams.WithLabelValues(outcome).Inc()
}

// Handler serves the registry for the /metrics endpoint.
func (r *PromRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

var _ Recorder = (*PromRecorder)(nil)
