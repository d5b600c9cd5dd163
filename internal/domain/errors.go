package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Pawan-142/healthrisk/internal/domain/condition"
)

var (
	// ErrUnknownCondition signals a condition key outside the closed set.
	ErrUnknownCondition = condition.ErrUnknown
	// ErrModelLoad signals that a model artifact could not be loaded.
	ErrModelLoad = errors.New("model load failed")
	// ErrModelUnavailable signals that no classifier is loaded for a condition.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrMissingField signals a schema field absent from the request.
	ErrMissingField = errors.New("missing field")
	// ErrOutOfRange signals a value outside the field's declared bounds.
	ErrOutOfRange = errors.New("value out of range")
	// ErrInvalidValue signals a value that is not a usable number for the field.
	ErrInvalidValue = errors.New("invalid value")
	// ErrShapeMismatch signals a vector whose length differs from the classifier input size.
	ErrShapeMismatch = errors.New("feature vector shape mismatch")
	// ErrInvalidModelOutput signals a classifier label or probability outside its contract.
	ErrInvalidModelOutput = errors.New("invalid model output")
)

// ModelLoadError records why a condition's artifact could not be loaded.
type ModelLoadError struct {
	Condition condition.Kind
	Path      string
	Err       error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("%s: %s (%s): %v", ErrModelLoad.Error(), e.Condition, e.Path, e.Err)
}

// Is matches ErrModelLoad in addition to the wrapped cause.
func (e *ModelLoadError) Is(target error) bool { return target == ErrModelLoad }

func (e *ModelLoadError) Unwrap() error { return e.Err }

// MissingFieldError lists schema fields absent from a request, in schema order.
type MissingFieldError struct {
	Condition condition.Kind
	Fields    []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s for %s: %s", ErrMissingField.Error(), e.Condition, strings.Join(e.Fields, ", "))
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// OutOfRangeError reports the first field whose value falls outside its bounds.
type OutOfRangeError struct {
	Condition condition.Kind
	Field     string
	Value     float64
	Min       float64
	Max       float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s: %s.%s = %g, allowed [%g, %g]",
		ErrOutOfRange.Error(), e.Condition, e.Field, e.Value, e.Min, e.Max)
}

func (e *OutOfRangeError) Unwrap() error { return ErrOutOfRange }

// InvalidValueError reports a non-finite value or a fractional value for an integer field.
type InvalidValueError struct {
	Condition condition.Kind
	Field     string
	Reason    string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s: %s.%s %s", ErrInvalidValue.Error(), e.Condition, e.Field, e.Reason)
}

func (e *InvalidValueError) Unwrap() error { return ErrInvalidValue }

// ShapeMismatchError means the schema and the loaded artifact disagree on input size.
type ShapeMismatchError struct {
	Condition condition.Kind
	Got       int
	Want      int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("%s: %s vector has %d values, classifier expects %d",
		ErrShapeMismatch.Error(), e.Condition, e.Got, e.Want)
}

func (e *ShapeMismatchError) Unwrap() error { return ErrShapeMismatch }
