// Package classifier decodes portable model artifacts into domain.Classifier
// implementations. Artifacts are JSON documents validated against an embedded
// JSON Schema before any model is constructed.
package classifier

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Pawan-142/healthrisk/internal/domain"
)

// FormatVersion is the only artifact format version this package reads.
const FormatVersion = 1

// Model family identifiers used in artifacts.
const (
	TypeLogisticRegression = "logistic_regression"
	TypeDecisionTree       = "decision_tree"
	TypeRandomForest       = "random_forest"
)

// ErrInvalidArtifact signals a corrupt or structurally inconsistent artifact.
var ErrInvalidArtifact = errors.New("invalid artifact")

// Artifact is the on-disk representation of a trained classifier.
type Artifact struct {
	FormatVersion int       `json:"format_version"`
	Condition     string    `json:"condition,omitempty"`
	SchemaVersion string    `json:"schema_version,omitempty"`
	Features      []string  `json:"features,omitempty"`
	Model         ModelSpec `json:"model"`
}

// ModelSpec holds the parameters of one model family.
type ModelSpec struct {
	Type         string     `json:"type"`
	NFeatures    int        `json:"n_features"`
	Scaler       *Scaler    `json:"scaler,omitempty"`
	Coefficients []float64  `json:"coefficients,omitempty"`
	Intercept    float64    `json:"intercept,omitempty"`
	Tree         *TreeSpec  `json:"tree,omitempty"`
	Trees        []TreeSpec `json:"trees,omitempty"`
}

// Scaler standardizes inputs as (x - mean) / scale.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// TreeSpec is a flattened binary tree. Node 0 is the root.
type TreeSpec struct {
	Nodes []Node `json:"nodes"`
}

// Node is a split (Feature >= 0) or a leaf (Feature == -1).
// Value holds the class 0 and class 1 weights reaching the node.
type Node struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value"`
}

// Model is a decoded artifact: declared metadata plus a ready classifier.
type Model struct {
	Condition     string
	SchemaVersion string
	Features      []string
	Type          string
	Classifier    domain.Classifier
}

// Decode validates data and builds the classifier it describes.
func Decode(data []byte) (*Model, error) {
	if err := validateDocument(data); err != nil {
		return nil, err
	}

	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArtifact, err)
	}

	c, err := build(a.Model)
	if err != nil {
		return nil, err
	}
	if len(a.Features) > 0 && len(a.Features) != a.Model.NFeatures {
		return nil, fmt.Errorf("%w: %d feature names for n_features=%d",
			ErrInvalidArtifact, len(a.Features), a.Model.NFeatures)
	}

	return &Model{
		Condition:     a.Condition,
		SchemaVersion: a.SchemaVersion,
		Features:      a.Features,
		Type:          a.Model.Type,
		Classifier:    c,
	}, nil
}

func build(spec ModelSpec) (domain.Classifier, error) {
	switch spec.Type {
	case TypeLogisticRegression:
		return newLogistic(spec)
	case TypeDecisionTree:
		return newTree(*spec.Tree, spec.NFeatures)
	case TypeRandomForest:
		return newForest(spec.Trees, spec.NFeatures)
	default:
		return nil, fmt.Errorf("%w: unsupported model type %q", ErrInvalidArtifact, spec.Type)
	}
}

func checkInput(vec []float64, n int) error {
	if len(vec) != n {
		return fmt.Errorf("%w: got %d values, want %d", domain.ErrShapeMismatch, len(vec), n)
	}
	return nil
}
