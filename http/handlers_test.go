package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"diabetespredictor/ml"
)

func TestHealthHandler(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/health", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(handleHealth)

	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}

	expected := `{"status":"ok"}`
	if rr.Body.String() != expected+"\n" && rr.Body.String() != expected {
		t.Errorf("handler returned unexpected body: got %v want %v", rr.Body.String(), expected)
	}
}

func TestSchemaHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	handleSchema(rr, httptest.NewRequest(http.MethodGet, "/api/schema", nil))

	var payload struct {
		Features []string `json:"features"`
		Count    int      `json:"count"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if payload.Count != ml.NumFeatures || len(payload.Features) != ml.NumFeatures {
		t.Fatalf("unexpected schema: %+v", payload)
	}
	for i, name := range payload.Features {
		if name != ml.FeatureNames[i] {
			t.Fatalf("column %d: got %s want %s", i, name, ml.FeatureNames[i])
		}
	}
}
