package ml

import (
	"errors"
	"testing"
)

type countingModel struct {
	proba [2]float64
	err   error
	calls int
}

func (m *countingModel) PredictProba(x Vector) ([2]float64, error) {
	m.calls++
	return m.proba, m.err
}

func TestClassifyBoundary(t *testing.T) {
	if p := Classify(0.5); !p.Positive || p.Label != LabelPositive {
		t.Fatalf("expected 0.5 to be positive, got %+v", p)
	}
	if p := Classify(0.4999999); p.Positive || p.Label != LabelNegative {
		t.Fatalf("expected 0.4999999 to be negative, got %+v", p)
	}
}

func TestPredictionFormatting(t *testing.T) {
	p := Classify(0.732149)
	if p.Percent() != 73.21 {
		t.Fatalf("expected 73.21, got %v", p.Percent())
	}
	want := "Prediction: Diabetic (Probability of Diabetic: 73.21%)"
	if p.Summary() != want {
		t.Fatalf("unexpected summary: %s", p.Summary())
	}
	if got := Classify(0.1).Summary(); got != "Prediction: Not Diabetic (Probability of Diabetic: 10.00%)" {
		t.Fatalf("unexpected summary: %s", got)
	}
}

func TestPredictorDeterministicAndCached(t *testing.T) {
	model := &countingModel{proba: [2]float64{0.3, 0.7}}
	predictor, err := NewPredictor(model, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	features, err := Encode(validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := predictor.Predict(features.Vector())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		next, err := predictor.Predict(features.Vector())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if next != first {
			t.Fatalf("prediction changed: %+v vs %+v", next, first)
		}
	}
	if model.calls != 1 {
		t.Fatalf("expected one model call, got %d", model.calls)
	}
	if predictor.CacheLen() != 1 {
		t.Fatalf("expected one cached vector, got %d", predictor.CacheLen())
	}
}

func TestPredictorWithoutCache(t *testing.T) {
	model := &countingModel{proba: [2]float64{0.5, 0.5}}
	predictor, err := NewPredictor(model, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 3; i++ {
		p, err := predictor.Predict(Vector{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !p.Positive {
			t.Fatalf("expected positive at boundary")
		}
	}
	if model.calls != 3 {
		t.Fatalf("expected 3 model calls, got %d", model.calls)
	}
}

func TestPredictorErrors(t *testing.T) {
	if _, err := NewPredictor(nil, 1); err == nil {
		t.Fatal("expected error for nil model")
	}

	boom := errors.New("boom")
	predictor, _ := NewPredictor(&countingModel{err: boom}, 4)
	if _, err := predictor.Predict(Vector{}); !errors.Is(err, boom) {
		t.Fatalf("expected model error, got %v", err)
	}

	predictor, _ = NewPredictor(&countingModel{proba: [2]float64{0, 1.5}}, 4)
	if _, err := predictor.Predict(Vector{}); err == nil {
		t.Fatal("expected error for out-of-range probability")
	}
}
