package registry

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Pawan-142/healthrisk/internal/domain/condition"
)

// Reporter receives exactly one outcome per condition during Load.
type Reporter interface {
	Loaded(kind condition.Kind, ref string, modelType string)
	Failed(kind condition.Kind, ref string, err error)
}

type nopReporter struct{}

func (nopReporter) Loaded(condition.Kind, string, string) {}
func (nopReporter) Failed(condition.Kind, string, error)  {}

// LogReporter logs load outcomes and sets the availability gauge.
// available is a gauge vec with label "condition", passed explicitly; it may be nil.
type LogReporter struct {
	logger    *zap.Logger
	available *prometheus.GaugeVec
}

// NewLogReporter creates a LogReporter.
func NewLogReporter(logger *zap.Logger, available *prometheus.GaugeVec) *LogReporter {
	return &LogReporter{logger: logger, available: available}
}

// Loaded implements Reporter.
func (r *LogReporter) Loaded(kind condition.Kind, ref, modelType string) {
	r.logger.Info("Model loaded",
		zap.String("condition", kind.String()),
		zap.String("artifact", ref),
		zap.String("model_type", modelType),
	)
	r.set(kind, 1)
}

// Failed implements Reporter.
func (r *LogReporter) Failed(kind condition.Kind, ref string, err error) {
	r.logger.Error("Model unavailable",
		zap.String("condition", kind.String()),
		zap.String("artifact", ref),
		zap.Error(err),
	)
	r.set(kind, 0)
}

func (r *LogReporter) set(kind condition.Kind, v float64) {
	if r.available != nil {
		r.available.WithLabelValues(kind.String()).Set(v)
	}
}
