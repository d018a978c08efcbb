package ml

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Artifact is the on-disk model format. FeatureNames must match the
// training schema column for column.
type Artifact struct {
	ModelType    string       `json:"model_type"`
	FeatureNames []string     `json:"feature_names"`
	Tree         []TreeNode   `json:"tree,omitempty"`
	Trees        [][]TreeNode `json:"trees,omitempty"`
	Coefficients []float64    `json:"coefficients,omitempty"`
	Intercept    float64      `json:"intercept,omitempty"`
}

func LoadModel(path string) (Classifier, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	model, err := DecodeModel(file)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return model, nil
}

func DecodeModel(r io.Reader) (Classifier, error) {
	var artifact Artifact
	if err := json.NewDecoder(r).Decode(&artifact); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedArtifact, err)
	}
	return artifact.Build()
}

func (a Artifact) Build() (Classifier, error) {
	if err := checkSchema(a.FeatureNames); err != nil {
		return nil, err
	}
	switch a.ModelType {
	case ModelDecisionTree:
		tree, err := NewDecisionTree(a.Tree)
		if err != nil {
			return nil, err
		}
		return tree, nil
	case ModelRandomForest:
		forest, err := NewRandomForest(a.Trees)
		if err != nil {
			return nil, err
		}
		return forest, nil
	case ModelLogisticRegression:
		lr, err := NewLogisticRegression(a.Coefficients, a.Intercept)
		if err != nil {
			return nil, err
		}
		return lr, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedModel, a.ModelType)
	}
}

func checkSchema(names []string) error {
	if len(names) != NumFeatures {
		return fmt.Errorf("%w: artifact has %d features, want %d", ErrMalformedArtifact, len(names), NumFeatures)
	}
	for i, name := range names {
		if name != FeatureNames[i] {
			return fmt.Errorf("%w: column %d is %q, want %q", ErrMalformedArtifact, i, name, FeatureNames[i])
		}
	}
	return nil
}
