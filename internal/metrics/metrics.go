package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "jsonset"

var (
	RecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Total records dispatched by result.",
		},
		[]string{"service", "result"},
	)
	BatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Total batches dispatched per service.",
		},
		[]string{"service"},
	)
	BatchBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_bytes",
			Help:      "Cumulative payload size of dispatched batches.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 10),
		},
		[]string{"service"},
	)
	DispatchLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_latency_ms",
			Help:      "Per-batch send latency in milliseconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service"},
	)
	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Total errors by stage.",
		},
		[]string{"stage"},
	)
)

func init() {
	prometheus.MustRegister(
		RecordsTotal,
		BatchesTotal,
		BatchBytes,
		DispatchLatency,
		ErrorsTotal,
	)
}
