package chi

import (
	"github.com/Pawan-142/healthrisk/internal/domain/schema"
	"github.com/Pawan-142/healthrisk/internal/registry"
	predictionuc "github.com/Pawan-142/healthrisk/internal/usecase/prediction"
)

// errorCode is the machine-readable error identifier returned to clients.
type errorCode string

// Error codes.
const (
	codeBadRequest          errorCode = "bad_request"
	codeUnauthorized        errorCode = "unauthorized"
	codeUnknownCondition    errorCode = "unknown_condition"
	codeMissingField        errorCode = "missing_field"
	codeOutOfRange          errorCode = "out_of_range"
	codeInvalidValue        errorCode = "invalid_value"
	codeModelUnavailable    errorCode = "model_unavailable"
	codeModelSchemaMismatch errorCode = "model_schema_mismatch"
	codeInternalError       errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
	Fields  []string  `json:"fields,omitempty"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type conditionResponse struct {
	Condition     string `json:"condition"`
	Name          string `json:"name"`
	SchemaVersion string `json:"schema_version"`
	FieldCount    int    `json:"field_count"`
	Available     bool   `json:"available"`
	ModelType     string `json:"model_type,omitempty"`
}

type fieldResponse struct {
	Name    string  `json:"name"`
	Label   string  `json:"label"`
	Unit    string  `json:"unit,omitempty"`
	Type    string  `json:"type"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Default float64 `json:"default"`
}

type schemaResponse struct {
	Condition string          `json:"condition"`
	Name      string          `json:"name"`
	Version   string          `json:"version"`
	Fields    []fieldResponse `json:"fields"`
}

// predictionRequest carries named feature values. Null values are rejected.
type predictionRequest struct {
	Features map[string]*float64 `json:"features" validate:"required,min=1,dive,required"`
}

type adjustmentResponse struct {
	Field string  `json:"field"`
	Given float64 `json:"given"`
	Used  float64 `json:"used"`
}

type predictionResponse struct {
	PredictionID string               `json:"prediction_id"`
	Condition    string               `json:"condition"`
	Level        string               `json:"level"`
	Probability  float64              `json:"probability"`
	Adjustments  []adjustmentResponse `json:"adjustments,omitempty"`
}

func (r predictionRequest) values() map[string]float64 {
	out := make(map[string]float64, len(r.Features))
	for k, v := range r.Features {
		if v != nil {
			out[k] = *v
		}
	}
	return out
}

func conditionToResponse(st registry.Status) conditionResponse {
	sch := schema.For(st.Condition)
	return conditionResponse{
		Condition:     st.Condition.String(),
		Name:          st.Condition.DisplayName(),
		SchemaVersion: sch.Version,
		FieldCount:    sch.Len(),
		Available:     st.Available(),
		ModelType:     st.ModelType,
	}
}

func schemaToResponse(sch schema.Schema) schemaResponse {
	fields := make([]fieldResponse, len(sch.Fields))
	for i, f := range sch.Fields {
		fields[i] = fieldResponse{
			Name:    f.Name,
			Label:   f.Label,
			Unit:    f.Unit,
			Type:    string(f.Kind),
			Min:     f.Min,
			Max:     f.Max,
			Default: f.Default,
		}
	}
	return schemaResponse{
		Condition: sch.Kind.String(),
		Name:      sch.Kind.DisplayName(),
		Version:   sch.Version,
		Fields:    fields,
	}
}

func outcomeToResponse(id string, out predictionuc.Outcome) predictionResponse {
	resp := predictionResponse{
		PredictionID: id,
		Condition:    out.Condition.String(),
		Level:        string(out.Verdict.Level),
		Probability:  out.Verdict.Probability,
	}
	for _, a := range out.Adjustments {
		resp.Adjustments = append(resp.Adjustments, adjustmentResponse(a))
	}
	return resp
}
