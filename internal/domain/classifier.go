package domain

// Classifier is the inference contract shared between the registry and the prediction layer.
// Implementations are immutable after construction and safe for concurrent use.
type Classifier interface {
	// InputSize is the number of features the classifier was trained on.
	InputSize() int
	// Infer returns the predicted class label (0 or 1).
	Infer(vec []float64) (int, error)
	// InferProbability returns the probability of the positive class.
	InferProbability(vec []float64) (float64, error)
}
