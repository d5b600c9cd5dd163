package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Pawan-142/healthrisk/internal/domain"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		sentinelHandler(domain.ErrUnknownCondition, http.StatusNotFound, codeUnknownCondition),
		missingFieldHandler,
		outOfRangeHandler,
		invalidValueHandler,
		sentinelHandler(domain.ErrModelUnavailable, http.StatusServiceUnavailable, codeModelUnavailable),
		sentinelHandler(domain.ErrShapeMismatch, http.StatusInternalServerError, codeModelSchemaMismatch),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
// The client sees the sentinel text only, never the wrapped cause.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, sentinel.Error())
		return true
	}
}

func missingFieldHandler(w http.ResponseWriter, err error) bool {
	var e *domain.MissingFieldError
	if !errors.As(err, &e) {
		return false
	}
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Code:    codeMissingField,
		Message: "missing features: " + strings.Join(e.Fields, ", "),
		Field:   e.Fields[0],
		Fields:  e.Fields,
	})
	return true
}

func outOfRangeHandler(w http.ResponseWriter, err error) bool {
	var e *domain.OutOfRangeError
	if !errors.As(err, &e) {
		return false
	}
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Code:    codeOutOfRange,
		Message: fmt.Sprintf("%s must be between %g and %g, got %g", e.Field, e.Min, e.Max, e.Value),
		Field:   e.Field,
	})
	return true
}

func invalidValueHandler(w http.ResponseWriter, err error) bool {
	var e *domain.InvalidValueError
	if !errors.As(err, &e) {
		return false
	}
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Code:    codeInvalidValue,
		Message: e.Field + " " + e.Reason,
		Field:   e.Field,
	})
	return true
}

// validationMessage flattens validator errors into one client-facing line.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request"
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fe.Field()+" is required")
		case "min":
			parts = append(parts, fe.Field()+" must not be empty")
		default:
			parts = append(parts, fe.Field()+" failed "+fe.Tag())
		}
	}
	return strings.Join(parts, "; ")
}
