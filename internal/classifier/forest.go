package classifier

import "fmt"

// Forest averages the leaf probabilities of its trees.
type Forest struct {
	trees     []*Tree
	nFeatures int
}

func newForest(specs []TreeSpec, nFeatures int) (*Forest, error) {
	trees := make([]*Tree, len(specs))
	for i, s := range specs {
		t, err := newTree(s, nFeatures)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		trees[i] = t
	}
	return &Forest{trees: trees, nFeatures: nFeatures}, nil
}

// InputSize implements domain.Classifier.
func (f *Forest) InputSize() int { return f.nFeatures }

// Infer returns 1 when the mean class 1 probability exceeds one half.
func (f *Forest) Infer(vec []float64) (int, error) {
	p, err := f.InferProbability(vec)
	if err != nil {
		return 0, err
	}
	return labelFor(p), nil
}

// InferProbability returns the mean class 1 probability across trees.
func (f *Forest) InferProbability(vec []float64) (float64, error) {
	if err := checkInput(vec, f.nFeatures); err != nil {
		return 0, err
	}
	var sum float64
	for _, t := range f.trees {
		sum += t.leafProbability(vec)
	}
	return sum / float64(len(f.trees)), nil
}
