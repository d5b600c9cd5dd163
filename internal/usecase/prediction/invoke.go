package prediction

import (
	"fmt"
	"math"

	"github.com/Pawan-142/healthrisk/internal/domain"
	"github.com/Pawan-142/healthrisk/internal/domain/feature"
	"github.com/Pawan-142/healthrisk/internal/domain/risk"
)

// Invoke runs c on v and normalizes its output. The vector length must equal the
// classifier input size; label and probability come from the same vector.
func Invoke(c domain.Classifier, v feature.Vector) (risk.Result, error) {
	if v.Len() != c.InputSize() {
		return risk.Result{}, &domain.ShapeMismatchError{Condition: v.Kind, Got: v.Len(), Want: c.InputSize()}
	}

	label, err := c.Infer(v.Values)
	if err != nil {
		return risk.Result{}, fmt.Errorf("infer label: %w", err)
	}
	p, err := c.InferProbability(v.Values)
	if err != nil {
		return risk.Result{}, fmt.Errorf("infer probability: %w", err)
	}

	if label != 0 && label != 1 {
		return risk.Result{}, fmt.Errorf("%w: label %d", domain.ErrInvalidModelOutput, label)
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		return risk.Result{}, fmt.Errorf("%w: probability %g", domain.ErrInvalidModelOutput, p)
	}

	return risk.Result{Label: label == 1, Probability: p}, nil
}
