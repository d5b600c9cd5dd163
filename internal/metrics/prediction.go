package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prediction Prometheus metrics.
var (
	PredictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "healthrisk",
			Name:      "predictions_total",
			Help:      "Total number of prediction requests by outcome",
		},
		[]string{"condition", "outcome"}, // high / low / rejected / unavailable / error
	)

	PredictionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "healthrisk",
			Name:      "prediction_duration_seconds",
			Help:      "Prediction latency in seconds",
			Buckets:   []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05},
		},
		[]string{"condition"},
	)

	PredictionCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "healthrisk",
			Name:      "prediction_cache_total",
			Help:      "Prediction cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	ModelAvailable = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "healthrisk",
			Name:      "model_available",
			Help:      "1 when the condition's classifier is loaded, 0 otherwise",
		},
		[]string{"condition"},
	)
)

var predictionMetricsRegistered bool

// RegisterPredictionMetrics registers prediction and model metrics. Must be called once from main.
func RegisterPredictionMetrics() {
	if predictionMetricsRegistered {
		return
	}
	prometheus.MustRegister(PredictionsTotal)
	prometheus.MustRegister(PredictionDuration)
	prometheus.MustRegister(PredictionCacheTotal)
	prometheus.MustRegister(ModelAvailable)
	predictionMetricsRegistered = true
}
