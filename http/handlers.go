package http

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"diabetespredictor/ml"
	"diabetespredictor/monitoring"
	"go.uber.org/zap"
)

//go:embed templates/*.html static/*
var assets embed.FS

// Predictor 预测接口, 由 ml.Predictor 实现
type Predictor interface {
	Predict(x ml.Vector) (ml.Prediction, error)
}

// 表单字段, 顺序即页面回显顺序
var formFields = []string{"gender", "age", "bmi", "hba1c", "glucose", "heart_disease", "hypertension", "smoking_history"}

type handler struct {
	predictor Predictor
	log       *zap.Logger
	strict    bool
	pages     *template.Template
	static    http.Handler
	metrics   *monitoring.MetricsCollector
}

type pageData struct {
	Prediction     string
	DiabeticProb   float64
	HasResult      bool
	Error          string
	Form           ml.RawInput
	GenderOptions  []string
	SmokingOptions []string
	FlagOptions    []string
}

func newHandler(predictor Predictor, log *zap.Logger, strict bool) (*handler, error) {
	if predictor == nil {
		return nil, errors.New("predictor is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	pages, err := template.ParseFS(assets, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	static, err := fs.Sub(assets, "static")
	if err != nil {
		return nil, err
	}
	return &handler{
		predictor: predictor,
		log:       log,
		strict:    strict,
		pages:     pages,
		static:    http.StripPrefix("/static/", http.FileServer(http.FS(static))),
		metrics:   monitoring.NewMetricsCollector(),
	}, nil
}

func RegisterHandlers(mux *http.ServeMux, h *handler) {
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("POST /predict/{$}", h.handlePredictForm)
	mux.HandleFunc("POST /predict", h.handlePredictForm)
	mux.Handle("GET /static/", h.static)

	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("GET /api/schema", handleSchema)
	mux.HandleFunc("POST /api/predict", h.handlePredictAPI)
	mux.HandleFunc("GET /api/metrics", h.handleMetrics)
	mux.HandleFunc("GET /metrics", h.handlePrometheus)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"features": ml.FeatureNames,
		"count":    ml.NumFeatures,
	})
}

func (h *handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.metrics.GetSnapshot())
}

func (h *handler) handlePrometheus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprint(w, h.metrics.ExportPrometheus())
}

func (h *handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, h.newPage(ml.RawInput{}))
}

func (h *handler) handlePredictForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		page := h.newPage(ml.RawInput{})
		page.Error = "could not read form: " + err.Error()
		h.render(w, r, http.StatusBadRequest, page)
		return
	}

	in := ml.RawInput{
		Gender:         r.PostForm.Get("gender"),
		Age:            r.PostForm.Get("age"),
		BMI:            r.PostForm.Get("bmi"),
		HbA1c:          r.PostForm.Get("hba1c"),
		Glucose:        r.PostForm.Get("glucose"),
		HeartDisease:   r.PostForm.Get("heart_disease"),
		Hypertension:   r.PostForm.Get("hypertension"),
		SmokingHistory: r.PostForm.Get("smoking_history"),
	}
	page := h.newPage(in)

	var missing []string
	for _, field := range formFields {
		if !r.PostForm.Has(field) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		page.Error = "missing fields: " + strings.Join(missing, ", ")
		h.render(w, r, http.StatusBadRequest, page)
		return
	}

	_, result, status, err := h.predict(r, in)
	if err != nil {
		page.Error = err.Error()
		h.render(w, r, status, page)
		return
	}

	page.HasResult = true
	page.Prediction = result.Summary()
	page.DiabeticProb = result.Percent()
	h.render(w, r, http.StatusOK, page)
}

// predict 编码并预测, 返回错误时附带应答状态码
func (h *handler) predict(r *http.Request, in ml.RawInput) (ml.Vector, ml.Prediction, int, error) {
	requestID := GetRequestID(r.Context())

	if fields := ml.UnrecognizedCategories(in); len(fields) > 0 {
		h.metrics.RecordUnrecognized(fields)
		h.log.Warn("unrecognized category encoded as all zeros",
			zap.String("request_id", requestID),
			zap.Strings("fields", fields),
			zap.String("gender", in.Gender),
			zap.String("smoking_history", in.SmokingHistory),
		)
		if h.strict {
			h.metrics.RecordOutcome(monitoring.OutcomeUnrecognizedRejected, 0)
			return ml.Vector{}, ml.Prediction{}, http.StatusBadRequest, fmt.Errorf("unrecognized value for %s", strings.Join(fields, ", "))
		}
	}

	features, err := ml.Encode(in)
	if err != nil {
		h.metrics.RecordOutcome(monitoring.OutcomeConversionError, 0)
		var convErr *ml.ConversionError
		if errors.As(err, &convErr) {
			return ml.Vector{}, ml.Prediction{}, http.StatusBadRequest, fmt.Errorf("%s must be a number", convErr.Field)
		}
		return ml.Vector{}, ml.Prediction{}, http.StatusBadRequest, err
	}

	vector := features.Vector()
	start := time.Now()
	result, err := h.predictor.Predict(vector)
	if err != nil {
		h.metrics.RecordOutcome(monitoring.OutcomeModelError, 0)
		h.log.Error("prediction failed", zap.String("request_id", requestID), zap.Error(err))
		return ml.Vector{}, ml.Prediction{}, http.StatusInternalServerError, errors.New("prediction failed")
	}

	outcome := monitoring.OutcomeNegative
	if result.Positive {
		outcome = monitoring.OutcomePositive
	}
	h.metrics.RecordOutcome(outcome, time.Since(start))

	h.log.Debug("prediction",
		zap.String("request_id", requestID),
		zap.String("label", result.Label),
		zap.Float64("probability", result.Probability),
	)
	return vector, result, http.StatusOK, nil
}

func (h *handler) newPage(in ml.RawInput) pageData {
	return pageData{
		Form:           in,
		GenderOptions:  ml.GenderCategories,
		SmokingOptions: ml.SmokingCategories,
		FlagOptions:    []string{"No", "Yes"},
	}
}

func (h *handler) render(w http.ResponseWriter, r *http.Request, status int, page pageData) {
	var buf strings.Builder
	if err := h.pages.ExecuteTemplate(&buf, "index.html", page); err != nil {
		h.log.Error("render template", zap.String("request_id", GetRequestID(r.Context())), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprint(w, buf.String())
}
