package ml

import (
	"errors"
	"fmt"
)

type DecisionTree struct {
	nodes []TreeNode
}

// TreeNode is one entry of a flattened tree. Value holds per-class weights at a
// leaf (class 0 first) and is normalized at prediction time.
type TreeNode struct {
	FeatureIdx int       `json:"feature_idx"`
	Threshold  float64   `json:"threshold"`
	LeftChild  int       `json:"left_child"`
	RightChild int       `json:"right_child"`
	Value      []float64 `json:"value,omitempty"`
	IsLeaf     bool      `json:"is_leaf"`
}

func NewDecisionTree(nodes []TreeNode) (*DecisionTree, error) {
	if err := validateNodes(nodes); err != nil {
		return nil, err
	}
	return &DecisionTree{nodes: nodes}, nil
}

func (dt *DecisionTree) PredictProba(x Vector) ([2]float64, error) {
	if len(dt.nodes) == 0 {
		return [2]float64{}, errors.New("model not loaded")
	}
	idx := 0
	// A valid tree reaches a leaf in at most len(nodes) steps.
	for steps := 0; steps <= len(dt.nodes); steps++ {
		node := dt.nodes[idx]
		if node.IsLeaf {
			return leafProba(node.Value), nil
		}
		if x[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
	}
	return [2]float64{}, errors.New("invalid tree state")
}

// Depth is the longest root-to-leaf path, counted in edges.
func (dt *DecisionTree) Depth() int {
	if len(dt.nodes) == 0 {
		return 0
	}
	return dt.depth(0)
}

func (dt *DecisionTree) depth(idx int) int {
	node := dt.nodes[idx]
	if node.IsLeaf {
		return 0
	}
	left := dt.depth(node.LeftChild)
	right := dt.depth(node.RightChild)
	if left > right {
		return left + 1
	}
	return right + 1
}

func leafProba(value []float64) [2]float64 {
	var neg, pos float64
	if len(value) > 0 {
		neg = value[0]
	}
	if len(value) > 1 {
		pos = value[1]
	}
	total := neg + pos
	if total <= 0 {
		return [2]float64{0.5, 0.5}
	}
	return [2]float64{neg / total, pos / total}
}

func validateNodes(nodes []TreeNode) error {
	if len(nodes) == 0 {
		return fmt.Errorf("%w: empty tree", ErrMalformedArtifact)
	}
	for i, node := range nodes {
		if node.IsLeaf {
			if len(node.Value) != 2 {
				return fmt.Errorf("%w: leaf %d has %d class values, want 2", ErrMalformedArtifact, i, len(node.Value))
			}
			for _, v := range node.Value {
				if v < 0 {
					return fmt.Errorf("%w: leaf %d has negative class value", ErrMalformedArtifact, i)
				}
			}
			continue
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= NumFeatures {
			return fmt.Errorf("%w: node %d feature index %d out of range", ErrMalformedArtifact, i, node.FeatureIdx)
		}
		// Children always follow their parent in the flattened layout, which rules out cycles.
		if node.LeftChild <= i || node.LeftChild >= len(nodes) {
			return fmt.Errorf("%w: node %d left child %d out of range", ErrMalformedArtifact, i, node.LeftChild)
		}
		if node.RightChild <= i || node.RightChild >= len(nodes) {
			return fmt.Errorf("%w: node %d right child %d out of range", ErrMalformedArtifact, i, node.RightChild)
		}
	}
	return nil
}
