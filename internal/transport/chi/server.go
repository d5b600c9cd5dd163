package chi

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/Pawan-142/healthrisk/internal/domain/condition"
	"github.com/Pawan-142/healthrisk/internal/domain/schema"
	logpkg "github.com/Pawan-142/healthrisk/internal/logger"
	"github.com/Pawan-142/healthrisk/internal/registry"
	healthuc "github.com/Pawan-142/healthrisk/internal/usecase/health"
	predictionuc "github.com/Pawan-142/healthrisk/internal/usecase/prediction"
)

const maxBodyBytes = 64 << 10

// Server serves the prediction HTTP API.
type Server struct {
	predictions   *predictionuc.Service
	registry      *registry.Registry
	health        *healthuc.Service
	logger        *zap.Logger
	validate      *validator.Validate
	errorHandlers []errorHandler
	newID         func() string
}

// NewServer creates an HTTP API server.
func NewServer(
	predictions *predictionuc.Service,
	reg *registry.Registry,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &Server{
		predictions:   predictions,
		registry:      reg,
		health:        health,
		logger:        logger,
		validate:      v,
		errorHandlers: defaultErrorHandlers(),
		newID:         uuid.NewString,
	}
}

// Routes registers the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/v1/conditions", func(r chi.Router) {
		r.Get("/", s.ListConditions)
		r.Get("/{condition}/schema", s.GetSchema)
		r.Post("/{condition}/predictions", s.CreatePrediction)
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// ListConditions handles GET /v1/conditions.
func (s *Server) ListConditions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, lo.Map(s.registry.Status(), func(st registry.Status, _ int) conditionResponse {
		return conditionToResponse(st)
	}))
}

// GetSchema handles GET /v1/conditions/{condition}/schema.
func (s *Server) GetSchema(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.conditionParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, schemaToResponse(schema.For(kind)))
}

// CreatePrediction handles POST /v1/conditions/{condition}/predictions.
func (s *Server) CreatePrediction(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.conditionParam(w, r)
	if !ok {
		return
	}

	var req predictionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, validationMessage(err))
		return
	}

	out, err := s.predictions.Predict(r.Context(), kind, req.values())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	id := s.newID()
	logpkg.FromContext(r.Context()).Info("prediction",
		zap.String("prediction_id", id),
		zap.String("condition", kind.String()),
		zap.String("level", string(out.Verdict.Level)),
		zap.Int("adjustments", len(out.Adjustments)),
	)

	writeJSON(w, http.StatusCreated, outcomeToResponse(id, out))
}

// conditionParam binds and parses the {condition} path parameter, writing the error response itself.
func (s *Server) conditionParam(w http.ResponseWriter, r *http.Request) (condition.Kind, bool) {
	var raw string
	err := runtime.BindStyledParameterWithOptions("simple", "condition", chi.URLParam(r, "condition"), &raw,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid format for parameter condition")
		return "", false
	}

	kind, err := condition.Parse(raw)
	if err != nil {
		s.handleDomainError(w, err)
		return "", false
	}
	return kind, true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			s.logger.Warn("domain error", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
