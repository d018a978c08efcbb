package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"diabetespredictor/ml"
)

func TestRun(t *testing.T) {
	model, err := ml.LoadModel(filepath.Join("..", "..", "model", "diabetes_model.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	in := ml.RawInput{
		Gender: "Male", Age: "60", BMI: "33", HbA1c: "9", Glucose: "250",
		HeartDisease: "Yes", Hypertension: "Yes", SmokingHistory: "former",
	}

	var out bytes.Buffer
	if err := run(&out, model, in, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "Prediction: Diabetic") {
		t.Fatalf("unexpected output: %s", out.String())
	}
	if !strings.Contains(out.String(), "blood_glucose_level") {
		t.Fatalf("expected encoded vector in output")
	}

	in.SmokingHistory = "sometimes"
	if err := run(&out, model, in, true); err == nil {
		t.Fatal("expected strict mode to reject unknown category")
	}
	out.Reset()
	if err := run(&out, model, in, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "warning: smoking_history") {
		t.Fatalf("expected warning: %s", out.String())
	}
}
