package classifier

import (
	"fmt"
	"math"
)

// Logistic is a binary logistic regression with an optional standard scaler.
type Logistic struct {
	coef      []float64
	intercept float64
	mean      []float64
	scale     []float64
}

func newLogistic(spec ModelSpec) (*Logistic, error) {
	n := spec.NFeatures
	if len(spec.Coefficients) != n {
		return nil, fmt.Errorf("%w: %d coefficients for n_features=%d", ErrInvalidArtifact, len(spec.Coefficients), n)
	}
	m := &Logistic{
		coef:      append([]float64(nil), spec.Coefficients...),
		intercept: spec.Intercept,
	}
	if spec.Scaler != nil {
		if len(spec.Scaler.Mean) != n || len(spec.Scaler.Scale) != n {
			return nil, fmt.Errorf("%w: scaler size does not match n_features=%d", ErrInvalidArtifact, n)
		}
		for i, s := range spec.Scaler.Scale {
			if s == 0 {
				return nil, fmt.Errorf("%w: scaler scale[%d] is zero", ErrInvalidArtifact, i)
			}
		}
		m.mean = append([]float64(nil), spec.Scaler.Mean...)
		m.scale = append([]float64(nil), spec.Scaler.Scale...)
	}
	return m, nil
}

// InputSize implements domain.Classifier.
func (m *Logistic) InputSize() int { return len(m.coef) }

// Infer returns 1 when the decision function is positive.
func (m *Logistic) Infer(vec []float64) (int, error) {
	z, err := m.decision(vec)
	if err != nil {
		return 0, err
	}
	if z > 0 {
		return 1, nil
	}
	return 0, nil
}

// InferProbability returns the sigmoid of the decision function.
func (m *Logistic) InferProbability(vec []float64) (float64, error) {
	z, err := m.decision(vec)
	if err != nil {
		return 0, err
	}
	return sigmoid(z), nil
}

func (m *Logistic) decision(vec []float64) (float64, error) {
	if err := checkInput(vec, len(m.coef)); err != nil {
		return 0, err
	}
	z := m.intercept
	for i, w := range m.coef {
		x := vec[i]
		if m.scale != nil {
			x = (x - m.mean[i]) / m.scale[i]
		}
		z += w * x
	}
	return z, nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
