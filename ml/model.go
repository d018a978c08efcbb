package ml

import "errors"

// Classifier is a loaded binary model. Implementations are immutable after
// loading and safe for concurrent use.
type Classifier interface {
	// PredictProba returns [p_negative, p_positive].
	PredictProba(x Vector) ([2]float64, error)
}

var (
	ErrMalformedArtifact = errors.New("malformed model artifact")
	ErrUnsupportedModel  = errors.New("unsupported model type")
)

const (
	ModelDecisionTree       = "decision_tree"
	ModelRandomForest       = "random_forest"
	ModelLogisticRegression = "logistic_regression"
)
