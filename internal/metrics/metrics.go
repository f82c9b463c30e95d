package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SourceFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faixaclima_source_fetches_total",
			Help: "Total remote dataset fetches",
		},
		[]string{"scheme", "status"},
	)

	SourceFetchLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "faixaclima_source_fetch_latency_seconds",
			Help:    "Remote dataset fetch latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"scheme"},
	)

	DatasetRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "faixaclima_dataset_rows",
			Help: "Rows in the loaded dataset before and after incomplete rows are dropped",
		},
		[]string{"stage"},
	)
)

var (
	TrainingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faixaclima_training_runs_total",
			Help: "Total pipeline fits",
		},
		[]string{"feature_set", "status"},
	)

	TrainingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "faixaclima_training_duration_seconds",
			Help:    "Time to split, scale, fit and evaluate one pipeline",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"feature_set"},
	)

	ModelAccuracy = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "faixaclima_model_accuracy",
			Help: "Held-out accuracy of the fitted pipeline",
		},
		[]string{"feature_set"},
	)

	TrainingCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "faixaclima_training_cache_hits_total",
			Help: "Fits served from the in-process cache",
		},
	)
)

var (
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faixaclima_predictions_total",
			Help: "Total predictions by predicted label",
		},
		[]string{"label"},
	)

	PredictionsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "faixaclima_predictions_rejected_total",
			Help: "Prediction requests rejected for out-of-range inputs",
		},
	)

	ChartRenders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faixaclima_chart_renders_total",
			Help: "PNG charts rendered, excluding cache hits",
		},
		[]string{"chart"},
	)
)
