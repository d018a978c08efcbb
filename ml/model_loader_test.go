package ml

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeArtifact(t *testing.T, artifact Artifact) string {
	t.Helper()
	payload, err := json.Marshal(artifact)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadModelTypes(t *testing.T) {
	coef := make([]float64, NumFeatures)
	artifacts := []Artifact{
		{ModelType: ModelDecisionTree, FeatureNames: FeatureNames[:], Tree: glucoseTree()},
		{ModelType: ModelRandomForest, FeatureNames: FeatureNames[:], Trees: [][]TreeNode{glucoseTree(), glucoseTree()}},
		{ModelType: ModelLogisticRegression, FeatureNames: FeatureNames[:], Coefficients: coef, Intercept: 1},
	}
	for _, artifact := range artifacts {
		model, err := LoadModel(writeArtifact(t, artifact))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", artifact.ModelType, err)
		}
		if _, err := model.PredictProba(Vector{}); err != nil {
			t.Fatalf("%s: unexpected predict error: %v", artifact.ModelType, err)
		}
	}
}

func TestLoadModelMissingFile(t *testing.T) {
	_, err := LoadModel(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestDecodeModelRejectsMalformed(t *testing.T) {
	if _, err := DecodeModel(strings.NewReader("not json")); !errors.Is(err, ErrMalformedArtifact) {
		t.Fatalf("expected ErrMalformedArtifact, got %v", err)
	}

	reordered := FeatureNames
	reordered[0], reordered[1] = reordered[1], reordered[0]
	cases := []Artifact{
		{ModelType: ModelDecisionTree, FeatureNames: FeatureNames[:3], Tree: glucoseTree()},
		{ModelType: ModelDecisionTree, FeatureNames: reordered[:], Tree: glucoseTree()},
		{ModelType: ModelDecisionTree, FeatureNames: FeatureNames[:]},
	}
	for i, artifact := range cases {
		payload, _ := json.Marshal(artifact)
		if _, err := DecodeModel(strings.NewReader(string(payload))); !errors.Is(err, ErrMalformedArtifact) {
			t.Fatalf("case %d: expected ErrMalformedArtifact, got %v", i, err)
		}
	}

	payload, _ := json.Marshal(Artifact{ModelType: "xgboost", FeatureNames: FeatureNames[:]})
	if _, err := DecodeModel(strings.NewReader(string(payload))); !errors.Is(err, ErrUnsupportedModel) {
		t.Fatalf("expected ErrUnsupportedModel, got %v", err)
	}
}

func TestBundledModelLoads(t *testing.T) {
	model, err := LoadModel(filepath.Join("..", "model", "diabetes_model.json"))
	if err != nil {
		t.Fatalf("bundled model failed to load: %v", err)
	}

	healthy, err := Encode(validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, err := model.PredictProba(healthy.Vector())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Classify(p[1]).Positive {
		t.Fatalf("expected negative prediction for healthy input, got %v", p)
	}

	in := validInput()
	in.HbA1c = "9"
	in.Glucose = "260"
	sick, err := Encode(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, err = model.PredictProba(sick.Vector())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !Classify(p[1]).Positive {
		t.Fatalf("expected positive prediction for high HbA1c and glucose, got %v", p)
	}
}
