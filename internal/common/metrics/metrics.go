// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_messages_processed_total",
			Help: "Total number of conversation messages processed",
		},
		[]string{"product"},
	)

	ValidationRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_validation_rejections_total",
			Help: "Total number of field values rejected by validation",
		},
		[]string{"product", "category"},
	)

	ExtractionFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_extraction_fallbacks_total",
			Help: "Total number of turns answered by the deterministic extractor",
		},
		[]string{"product"},
	)

	PredictionsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_predictions_completed_total",
			Help: "Total number of predictions produced",
		},
		[]string{"product", "status"},
	)

	PredictionsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_predictions_failed_total",
			Help: "Total number of prediction attempts that failed",
		},
		[]string{"product", "error_code"},
	)

	PredictionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "intake_prediction_duration_seconds",
			Help: "Duration of feature building plus model inference in seconds",
		},
		[]string{"product"},
	)

	SessionsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "intake_sessions_active",
			Help: "Number of sessions currently being processed",
		},
		[]string{"product"},
	)
)
