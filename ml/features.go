package ml

// NumFeatures is the width of the vector the classifier was trained on.
const NumFeatures = 15

// Column indices into Vector. The order is the training schema and must not change.
const (
	ColAge = iota
	ColHypertension
	ColHeartDisease
	ColBMI
	ColHbA1c
	ColGlucose
	ColGenderFemale
	ColGenderMale
	ColGenderOther
	ColSmokingNoInfo
	ColSmokingCurrent
	ColSmokingEver
	ColSmokingFormer
	ColSmokingNever
	ColSmokingNotCurrent
)

// Vector is one encoded request in training column order.
type Vector [NumFeatures]float64

// FeatureNames are the column names of Vector, index for index.
var FeatureNames = [NumFeatures]string{
	"age",
	"hypertension",
	"heart_disease",
	"bmi",
	"HbA1c_level",
	"blood_glucose_level",
	"gender_Female",
	"gender_Male",
	"gender_Other",
	"smoking_history_No Info",
	"smoking_history_current",
	"smoking_history_ever",
	"smoking_history_former",
	"smoking_history_never",
	"smoking_history_not current",
}

// Features is the named form of Vector.
type Features struct {
	Age          int
	Hypertension int
	HeartDisease int
	BMI          int
	HbA1c        int
	Glucose      int

	GenderFemale int
	GenderMale   int
	GenderOther  int

	SmokingNoInfo     int
	SmokingCurrent    int
	SmokingEver       int
	SmokingFormer     int
	SmokingNever      int
	SmokingNotCurrent int
}

// Vector lays the features out in training column order.
func (f Features) Vector() Vector {
	var v Vector
	v[ColAge] = float64(f.Age)
	v[ColHypertension] = float64(f.Hypertension)
	v[ColHeartDisease] = float64(f.HeartDisease)
	v[ColBMI] = float64(f.BMI)
	v[ColHbA1c] = float64(f.HbA1c)
	v[ColGlucose] = float64(f.Glucose)
	v[ColGenderFemale] = float64(f.GenderFemale)
	v[ColGenderMale] = float64(f.GenderMale)
	v[ColGenderOther] = float64(f.GenderOther)
	v[ColSmokingNoInfo] = float64(f.SmokingNoInfo)
	v[ColSmokingCurrent] = float64(f.SmokingCurrent)
	v[ColSmokingEver] = float64(f.SmokingEver)
	v[ColSmokingFormer] = float64(f.SmokingFormer)
	v[ColSmokingNever] = float64(f.SmokingNever)
	v[ColSmokingNotCurrent] = float64(f.SmokingNotCurrent)
	return v
}

// Map returns the vector keyed by column name, for JSON responses.
func (v Vector) Map() map[string]float64 {
	out := make(map[string]float64, NumFeatures)
	for i, name := range FeatureNames {
		out[name] = v[i]
	}
	return out
}

// Slice returns a copy of the vector as a slice.
func (v Vector) Slice() []float64 {
	out := make([]float64, NumFeatures)
	copy(out, v[:])
	return out
}
