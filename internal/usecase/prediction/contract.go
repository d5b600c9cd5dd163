package prediction

import (
	"github.com/Pawan-142/healthrisk/internal/domain"
	"github.com/Pawan-142/healthrisk/internal/domain/condition"
	"github.com/Pawan-142/healthrisk/internal/domain/feature"
)

// ClassifierRegistry resolves the loaded classifier for a condition.
type ClassifierRegistry interface {
	Get(kind condition.Kind) (domain.Classifier, error)
}

// VectorBuilder turns named inputs into a schema-ordered vector.
type VectorBuilder interface {
	Build(kind condition.Kind, values map[string]float64) (feature.Vector, error)
}
