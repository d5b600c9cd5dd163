package prediction

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/Pawan-142/healthrisk/internal/domain"
	"github.com/Pawan-142/healthrisk/internal/domain/condition"
	"github.com/Pawan-142/healthrisk/internal/domain/feature"
	"github.com/Pawan-142/healthrisk/internal/domain/risk"
	logpkg "github.com/Pawan-142/healthrisk/internal/logger"
	"github.com/Pawan-142/healthrisk/internal/metrics"
)

const tracerName = "github.com/Pawan-142/healthrisk/internal/usecase/prediction"

// Outcome is the result of one prediction request.
type Outcome struct {
	Condition   condition.Kind
	Verdict     risk.Verdict
	Adjustments []feature.Adjustment
}

// Service builds feature vectors, runs the condition's classifier and interprets the result.
type Service struct {
	registry ClassifierRegistry
	builder  VectorBuilder
	cache    *lru.Cache[string, risk.Result]
	logger   *zap.Logger
}

// New creates a prediction service without a result cache.
func New(registry ClassifierRegistry, builder VectorBuilder, logger *zap.Logger) *Service {
	return &Service{registry: registry, builder: builder, logger: logger}
}

// WithCache enables an in-memory LRU of size entries keyed by condition and vector.
// size <= 0 leaves caching disabled.
func (s *Service) WithCache(size int) *Service {
	if size <= 0 {
		return s
	}
	c, err := lru.New[string, risk.Result](size)
	if err != nil {
		s.logger.Warn("Prediction cache disabled", zap.Int("size", size), zap.Error(err))
		return s
	}
	s.cache = c
	return s
}

// Predict runs one prediction. Request errors (missing, out-of-range or invalid
// values) are returned before the registry is consulted.
func (s *Service) Predict(ctx context.Context, kind condition.Kind, values map[string]float64) (Outcome, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "prediction.Predict")
	defer span.End()
	label := conditionLabel(kind)
	span.SetAttributes(attribute.String("condition", label))

	start := time.Now()
	out, err := s.predict(ctx, kind, values)
	metrics.PredictionDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())

	outcome := outcomeLabel(out, err)
	metrics.PredictionsTotal.WithLabelValues(label, outcome).Inc()
	span.SetAttributes(attribute.String("outcome", outcome))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		return Outcome{}, err
	}
	return out, nil
}

func (s *Service) predict(ctx context.Context, kind condition.Kind, values map[string]float64) (Outcome, error) {
	vec, err := s.builder.Build(kind, values)
	if err != nil {
		return Outcome{}, fmt.Errorf("build features: %w", err)
	}

	key := cacheKey(vec)
	res, ok := s.cached(key)
	if !ok {
		c, err := s.registry.Get(kind)
		if err != nil {
			return Outcome{}, fmt.Errorf("get classifier: %w", err)
		}

		res, err = Invoke(c, vec)
		if err != nil {
			var sme *domain.ShapeMismatchError
			if errors.As(err, &sme) {
				logpkg.FromContextOr(ctx, s.logger).Error("Feature vector does not fit classifier",
					zap.String("condition", kind.String()),
					zap.Int("vector_len", sme.Got),
					zap.Int("input_size", sme.Want),
				)
			}
			return Outcome{}, err
		}
		s.store(key, res)
	}

	return Outcome{
		Condition:   kind,
		Verdict:     risk.Interpret(res),
		Adjustments: vec.Adjustments,
	}, nil
}

func (s *Service) cached(key string) (risk.Result, bool) {
	if s.cache == nil {
		return risk.Result{}, false
	}
	res, ok := s.cache.Get(key)
	if ok {
		metrics.PredictionCacheTotal.WithLabelValues("hit").Inc()
	} else {
		metrics.PredictionCacheTotal.WithLabelValues("miss").Inc()
	}
	return res, ok
}

func (s *Service) store(key string, res risk.Result) {
	if s.cache != nil {
		s.cache.Add(key, res)
	}
}

// cacheKey encodes the condition and the exact float bits of the vector.
func cacheKey(v feature.Vector) string {
	buf := make([]byte, 0, len(v.Kind)+1+len(v.Values)*8)
	buf = append(buf, v.Kind...)
	buf = append(buf, ':')
	for _, f := range v.Values {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(f))
	}
	return string(buf)
}

// conditionLabel keeps metric cardinality bounded to the closed condition set.
func conditionLabel(kind condition.Kind) string {
	if kind.IsValid() {
		return kind.String()
	}
	return "unknown"
}

func outcomeLabel(out Outcome, err error) string {
	switch {
	case err == nil:
		return string(out.Verdict.Level)
	case errors.Is(err, domain.ErrUnknownCondition),
		errors.Is(err, domain.ErrMissingField),
		errors.Is(err, domain.ErrOutOfRange),
		errors.Is(err, domain.ErrInvalidValue):
		return "rejected"
	case errors.Is(err, domain.ErrModelUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}
