package classifier

import "fmt"

// Tree is a binary decision tree over flattened nodes.
type Tree struct {
	nodes     []Node
	nFeatures int
}

func newTree(spec TreeSpec, nFeatures int) (*Tree, error) {
	nodes := make([]Node, len(spec.Nodes))
	for i, n := range spec.Nodes {
		if err := checkNode(i, n, len(spec.Nodes), nFeatures); err != nil {
			return nil, err
		}
		n.Value = append([]float64(nil), n.Value...)
		nodes[i] = n
	}
	return &Tree{nodes: nodes, nFeatures: nFeatures}, nil
}

// checkNode rejects trees that could index out of range or loop.
// Children must come after their parent, as in every flattened tree export.
func checkNode(i int, n Node, count, nFeatures int) error {
	if n.Feature == -1 {
		if n.Value[0]+n.Value[1] <= 0 {
			return fmt.Errorf("%w: leaf %d has no class weight", ErrInvalidArtifact, i)
		}
		return nil
	}
	if n.Feature < 0 || n.Feature >= nFeatures {
		return fmt.Errorf("%w: node %d splits on feature %d of %d", ErrInvalidArtifact, i, n.Feature, nFeatures)
	}
	for _, child := range []int{n.Left, n.Right} {
		if child <= i || child >= count {
			return fmt.Errorf("%w: node %d has invalid child %d", ErrInvalidArtifact, i, child)
		}
	}
	return nil
}

// InputSize implements domain.Classifier.
func (t *Tree) InputSize() int { return t.nFeatures }

// Infer returns the majority class of the reached leaf; ties go to class 0.
func (t *Tree) Infer(vec []float64) (int, error) {
	p, err := t.InferProbability(vec)
	if err != nil {
		return 0, err
	}
	return labelFor(p), nil
}

// InferProbability returns the class 1 share of the reached leaf.
func (t *Tree) InferProbability(vec []float64) (float64, error) {
	if err := checkInput(vec, t.nFeatures); err != nil {
		return 0, err
	}
	return t.leafProbability(vec), nil
}

func (t *Tree) leafProbability(vec []float64) float64 {
	idx := 0
	for {
		n := t.nodes[idx]
		if n.Feature == -1 {
			return n.Value[1] / (n.Value[0] + n.Value[1])
		}
		if vec[n.Feature] <= n.Threshold {
			idx = n.Left
		} else {
			idx = n.Right
		}
	}
}

func labelFor(p float64) int {
	if p > 0.5 {
		return 1
	}
	return 0
}
