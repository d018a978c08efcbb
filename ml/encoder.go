package ml

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Recognized category labels. Matching is exact and case-sensitive.
var (
	GenderCategories  = []string{"Female", "Male", "Other"}
	SmokingCategories = []string{"No Info", "current", "ever", "former", "never", "not current"}
)

const flagYes = "Yes"

// RawInput is the form payload as submitted.
type RawInput struct {
	Gender         string `json:"gender"`
	Age            string `json:"age"`
	BMI            string `json:"bmi"`
	HbA1c          string `json:"hba1c"`
	Glucose        string `json:"glucose"`
	HeartDisease   string `json:"heart_disease"`
	Hypertension   string `json:"hypertension"`
	SmokingHistory string `json:"smoking_history"`
}

// ConversionError reports a numeric field that could not be coerced to an integer.
type ConversionError struct {
	Field string
	Value string
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("invalid value %q for %s: %v", e.Value, e.Field, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Encode maps a raw submission onto the training schema. Unrecognized gender or
// smoking labels encode as all-zero indicators rather than failing; use
// UnrecognizedCategories to detect them.
func Encode(in RawInput) (Features, error) {
	var f Features
	var err error

	if f.Age, err = coerceInt("age", in.Age); err != nil {
		return Features{}, err
	}
	if f.BMI, err = coerceInt("bmi", in.BMI); err != nil {
		return Features{}, err
	}
	if f.HbA1c, err = coerceInt("hba1c", in.HbA1c); err != nil {
		return Features{}, err
	}
	if f.Glucose, err = coerceInt("glucose", in.Glucose); err != nil {
		return Features{}, err
	}

	f.Hypertension = flag(in.Hypertension)
	f.HeartDisease = flag(in.HeartDisease)

	f.GenderFemale = indicator(in.Gender, "Female")
	f.GenderMale = indicator(in.Gender, "Male")
	f.GenderOther = indicator(in.Gender, "Other")

	f.SmokingNoInfo = indicator(in.SmokingHistory, "No Info")
	f.SmokingCurrent = indicator(in.SmokingHistory, "current")
	f.SmokingEver = indicator(in.SmokingHistory, "ever")
	f.SmokingFormer = indicator(in.SmokingHistory, "former")
	f.SmokingNever = indicator(in.SmokingHistory, "never")
	f.SmokingNotCurrent = indicator(in.SmokingHistory, "not current")

	return f, nil
}

// UnrecognizedCategories names the categorical fields whose value matched no
// known label.
func UnrecognizedCategories(in RawInput) []string {
	var fields []string
	if !contains(GenderCategories, in.Gender) {
		fields = append(fields, "gender")
	}
	if !contains(SmokingCategories, in.SmokingHistory) {
		fields = append(fields, "smoking_history")
	}
	return fields
}

// coerceInt parses a number and truncates it toward zero.
func coerceInt(field, value string) (int, error) {
	s := strings.TrimSpace(value)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ConversionError{Field: field, Value: value, Err: err}
	}
	if math.IsNaN(x) || math.IsInf(x, 0) || math.Abs(x) > math.MaxInt32 {
		return 0, &ConversionError{Field: field, Value: value, Err: strconv.ErrRange}
	}
	return int(math.Trunc(x)), nil
}

func flag(value string) int {
	return indicator(value, flagYes)
}

func indicator(value, category string) int {
	if value == category {
		return 1
	}
	return 0
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
