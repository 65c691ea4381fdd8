package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var countJobsInQueue = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "count_jobs_in_queue",
	Help: "Number of jobs in queue",
})

var dispatcherSignalCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "dispatcher_signal_count",
	Help: "How often the dispatcher has signaled to start worker",
})

var activeWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_worker_count",
	Help: "Number of active workers",
})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func IncrementJobsInQueue() {
	countJobsInQueue.Inc()
}

func DecrementJobsInQueue() {
	countJobsInQueue.Dec()
}

func StartDispatcherSignalCount() {
	dispatcherSignalCount.Inc()
}

func IncrementActiveWorkerCount() {
	activeWorkerCount.Inc()
}
func DecrementActiveWorkerCount() {
	activeWorkerCount.Dec()
}

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "process_request_duration_seconds",
	Help:    "Total time spent in ProcessRequest.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30},
}, []string{"status"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	//dependencyLatency.WithLabelValues(label).Observe(time.Since(timeElapsed).Seconds())
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureJobMetrics(label string, timeElapsed time.Duration) {
	requestDuration.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

var persistedRows = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "studypadi_persisted_rows_total",
	Help: "Rows committed by the persistence fan-out, labelled by table",
}, []string{"table"})

var persistFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "studypadi_persist_failures_total",
	Help: "Insert calls that failed, labelled by table",
}, []string{"table"})

var ingestionOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "studypadi_ingestions_total",
	Help: "Finished ingestions labelled by outcome kind and the phase it ended in",
}, []string{"outcome", "phase"})

var phaseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "studypadi_ingestion_phase_seconds",
	Help:    "Time spent in each ingestion phase.",
	Buckets: []float64{.05, .25, 1, 5, 15, 30, 60, 90},
}, []string{"phase"})

func CountPersistedRows(table string, rows int) {
	persistedRows.WithLabelValues(table).Add(float64(rows))
}

func CountPersistFailure(table string) {
	persistFailures.WithLabelValues(table).Inc()
}

func CountIngestion(outcome string, phase string) {
	ingestionOutcomes.WithLabelValues(outcome, phase).Inc()
}

func CapturePhaseMetrics(phase string, timeElapsed time.Duration) {
	phaseDuration.WithLabelValues(phase).Observe(timeElapsed.Seconds())
}
