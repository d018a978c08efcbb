package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"diabetespredictor/ml"
)

// flexString 接受 JSON 字符串或数字
type flexString struct {
	value string
	set   bool
}

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	f.set = true
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &f.value)
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.New("expected string or number")
	}
	f.value = n.String()
	return nil
}

type predictRequest struct {
	Gender         flexString `json:"gender"`
	Age            flexString `json:"age"`
	BMI            flexString `json:"bmi"`
	HbA1c          flexString `json:"hba1c"`
	Glucose        flexString `json:"glucose"`
	HeartDisease   flexString `json:"heart_disease"`
	Hypertension   flexString `json:"hypertension"`
	SmokingHistory flexString `json:"smoking_history"`
}

func (p predictRequest) raw() (ml.RawInput, []string) {
	var in ml.RawInput
	var missing []string
	assign := func(name string, f flexString, dst *string) {
		if !f.set {
			missing = append(missing, name)
			return
		}
		*dst = f.value
	}
	assign("gender", p.Gender, &in.Gender)
	assign("age", p.Age, &in.Age)
	assign("bmi", p.BMI, &in.BMI)
	assign("hba1c", p.HbA1c, &in.HbA1c)
	assign("glucose", p.Glucose, &in.Glucose)
	assign("heart_disease", p.HeartDisease, &in.HeartDisease)
	assign("hypertension", p.Hypertension, &in.Hypertension)
	assign("smoking_history", p.SmokingHistory, &in.SmokingHistory)
	return in, missing
}

type predictResponse struct {
	Label       string             `json:"label"`
	Positive    bool               `json:"positive"`
	Probability float64            `json:"probability"`
	Percent     float64            `json:"percent"`
	Summary     string             `json:"summary"`
	Features    map[string]float64 `json:"features"`
}

func (h *handler) handlePredictAPI(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	in, missing := req.raw()
	if len(missing) > 0 {
		writeError(w, http.StatusBadRequest, "missing fields: "+strings.Join(missing, ", "))
		return
	}

	vector, result, status, err := h.predict(r, in)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, predictResponse{
		Label:       result.Label,
		Positive:    result.Positive,
		Probability: result.Probability,
		Percent:     result.Percent(),
		Summary:     result.Summary(),
		Features:    vector.Map(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
