package feature

import (
	"fmt"
	"math"

	"github.com/Pawan-142/healthrisk/internal/domain"
	"github.com/Pawan-142/healthrisk/internal/domain/condition"
	"github.com/Pawan-142/healthrisk/internal/domain/schema"
)

// RangePolicy decides what happens to a value outside its field bounds.
type RangePolicy string

// Range policies.
const (
	// Reject fails the request with an OutOfRangeError.
	Reject RangePolicy = "reject"
	// Clamp moves the value to the nearest bound and records an Adjustment.
	Clamp RangePolicy = "clamp"
)

// IsValid checks if the policy is one of the supported values.
func (p RangePolicy) IsValid() bool {
	return p == Reject || p == Clamp
}

// Adjustment records a value moved to its bound under the Clamp policy.
type Adjustment struct {
	Field string
	Given float64
	Used  float64
}

// Vector is a request's inputs in schema order, ready for inference.
type Vector struct {
	Kind        condition.Kind
	Values      []float64
	Adjustments []Adjustment
}

// Len returns the number of values.
func (v Vector) Len() int { return len(v.Values) }

// Builder assembles vectors from named values.
type Builder struct {
	policy RangePolicy
}

// NewBuilder creates a Builder. An empty or unknown policy falls back to Reject.
func NewBuilder(policy RangePolicy) *Builder {
	if !policy.IsValid() {
		policy = Reject
	}
	return &Builder{policy: policy}
}

// Policy returns the active range policy.
func (b *Builder) Policy() RangePolicy { return b.policy }

// Build maps values onto the schema of kind. The output order always follows the schema.
// Keys not in the schema are ignored. On error no vector is returned.
func (b *Builder) Build(kind condition.Kind, values map[string]float64) (Vector, error) {
	if !kind.IsValid() {
		return Vector{}, fmt.Errorf("%w: %q", domain.ErrUnknownCondition, kind)
	}
	s := schema.For(kind)

	var missing []string
	for _, f := range s.Fields {
		if _, ok := values[f.Name]; !ok {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return Vector{}, &domain.MissingFieldError{Condition: kind, Fields: missing}
	}

	vec := Vector{Kind: kind, Values: make([]float64, s.Len())}
	for i, f := range s.Fields {
		v := values[f.Name]
		if err := checkValue(kind, f, v); err != nil {
			return Vector{}, err
		}
		if !f.Contains(v) {
			if b.policy == Reject {
				return Vector{}, &domain.OutOfRangeError{
					Condition: kind, Field: f.Name, Value: v, Min: f.Min, Max: f.Max,
				}
			}
			used := f.Clamp(v)
			vec.Adjustments = append(vec.Adjustments, Adjustment{Field: f.Name, Given: v, Used: used})
			v = used
		}
		vec.Values[i] = v
	}
	return vec, nil
}

func checkValue(kind condition.Kind, f schema.Field, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &domain.InvalidValueError{Condition: kind, Field: f.Name, Reason: "must be a finite number"}
	}
	if f.Kind == schema.Integer && v != math.Trunc(v) {
		return &domain.InvalidValueError{Condition: kind, Field: f.Name, Reason: "must be a whole number"}
	}
	return nil
}
