package ml

import (
	"errors"
	"fmt"
)

// RandomForest averages the class probabilities of its trees.
type RandomForest struct {
	trees []*DecisionTree
}

func NewRandomForest(trees [][]TreeNode) (*RandomForest, error) {
	if len(trees) == 0 {
		return nil, fmt.Errorf("%w: forest has no trees", ErrMalformedArtifact)
	}
	forest := &RandomForest{trees: make([]*DecisionTree, 0, len(trees))}
	for i, nodes := range trees {
		tree, err := NewDecisionTree(nodes)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		forest.trees = append(forest.trees, tree)
	}
	return forest, nil
}

func (rf *RandomForest) PredictProba(x Vector) ([2]float64, error) {
	if len(rf.trees) == 0 {
		return [2]float64{}, errors.New("model not loaded")
	}
	var sum [2]float64
	for _, tree := range rf.trees {
		p, err := tree.PredictProba(x)
		if err != nil {
			return [2]float64{}, err
		}
		sum[0] += p[0]
		sum[1] += p[1]
	}
	n := float64(len(rf.trees))
	return [2]float64{sum[0] / n, sum[1] / n}, nil
}

func (rf *RandomForest) Size() int {
	return len(rf.trees)
}
