package ml

import (
	"errors"
	"fmt"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	LabelPositive = "Diabetic"
	LabelNegative = "Not Diabetic"

	// DecisionThreshold is inclusive: a positive-class probability equal to it
	// classifies as positive.
	DecisionThreshold = 0.5
)

type Prediction struct {
	Label       string  `json:"label"`
	Positive    bool    `json:"positive"`
	Probability float64 `json:"probability"`
}

func Classify(p float64) Prediction {
	if p >= DecisionThreshold {
		return Prediction{Label: LabelPositive, Positive: true, Probability: p}
	}
	return Prediction{Label: LabelNegative, Positive: false, Probability: p}
}

// Percent is the positive-class probability as a percentage rounded to two decimals.
func (p Prediction) Percent() float64 {
	return math.Round(p.Probability*10000) / 100
}

func (p Prediction) Summary() string {
	return fmt.Sprintf("Prediction: %s (Probability of %s: %.2f%%)", p.Label, LabelPositive, p.Percent())
}

// Predictor serves predictions from a single shared model. Results are cached
// by vector since the model never changes after load.
type Predictor struct {
	model Classifier
	cache *lru.Cache[Vector, Prediction]
}

// NewPredictor wraps model. cacheSize <= 0 disables caching.
func NewPredictor(model Classifier, cacheSize int) (*Predictor, error) {
	if model == nil {
		return nil, errors.New("model is required")
	}
	p := &Predictor{model: model}
	if cacheSize > 0 {
		cache, err := lru.New[Vector, Prediction](cacheSize)
		if err != nil {
			return nil, err
		}
		p.cache = cache
	}
	return p, nil
}

func (p *Predictor) Predict(x Vector) (Prediction, error) {
	if p.cache != nil {
		if cached, ok := p.cache.Get(x); ok {
			return cached, nil
		}
	}
	proba, err := p.model.PredictProba(x)
	if err != nil {
		return Prediction{}, err
	}
	if math.IsNaN(proba[1]) || proba[1] < 0 || proba[1] > 1 {
		return Prediction{}, fmt.Errorf("model returned invalid probability %v", proba[1])
	}
	result := Classify(proba[1])
	if p.cache != nil {
		p.cache.Add(x, result)
	}
	return result, nil
}

// CacheLen reports how many vectors are cached.
func (p *Predictor) CacheLen() int {
	if p.cache == nil {
		return 0
	}
	return p.cache.Len()
}
