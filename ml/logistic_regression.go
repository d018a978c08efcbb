package ml

import (
	"fmt"
	"math"
)

type LogisticRegression struct {
	coef      Vector
	intercept float64
}

func NewLogisticRegression(coef []float64, intercept float64) (*LogisticRegression, error) {
	if len(coef) != NumFeatures {
		return nil, fmt.Errorf("%w: %d coefficients, want %d", ErrMalformedArtifact, len(coef), NumFeatures)
	}
	for i, c := range coef {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("%w: coefficient %d is not finite", ErrMalformedArtifact, i)
		}
	}
	if math.IsNaN(intercept) || math.IsInf(intercept, 0) {
		return nil, fmt.Errorf("%w: intercept is not finite", ErrMalformedArtifact)
	}
	lr := &LogisticRegression{intercept: intercept}
	copy(lr.coef[:], coef)
	return lr, nil
}

func (lr *LogisticRegression) PredictProba(x Vector) ([2]float64, error) {
	z := lr.intercept
	for i := range x {
		z += lr.coef[i] * x[i]
	}
	p := sigmoid(z)
	return [2]float64{1 - p, p}, nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
