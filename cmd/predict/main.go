// Command predict scores a single record against a local model artifact.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"diabetespredictor/ml"
)

func main() {
	modelPath := flag.String("model", "model/diabetes_model.json", "model artifact path")
	strict := flag.Bool("strict", false, "reject unrecognized gender or smoking history")
	in := ml.RawInput{}
	flag.StringVar(&in.Gender, "gender", "Female", "Female, Male or Other")
	flag.StringVar(&in.Age, "age", "", "age in years")
	flag.StringVar(&in.BMI, "bmi", "", "body mass index")
	flag.StringVar(&in.HbA1c, "hba1c", "", "HbA1c level")
	flag.StringVar(&in.Glucose, "glucose", "", "blood glucose level")
	flag.StringVar(&in.HeartDisease, "heart_disease", "No", "Yes or No")
	flag.StringVar(&in.Hypertension, "hypertension", "No", "Yes or No")
	flag.StringVar(&in.SmokingHistory, "smoking_history", "No Info", strings.Join(ml.SmokingCategories, ", "))
	flag.Parse()

	model, err := ml.LoadModel(*modelPath)
	if err != nil {
		log.Fatalf("failed to load model: %v", err)
	}
	if err := run(os.Stdout, model, in, *strict); err != nil {
		log.Fatal(err)
	}
}

func run(w io.Writer, model ml.Classifier, in ml.RawInput, strict bool) error {
	if fields := ml.UnrecognizedCategories(in); len(fields) > 0 {
		if strict {
			return fmt.Errorf("unrecognized value for %s", strings.Join(fields, ", "))
		}
		fmt.Fprintf(w, "warning: %s encoded as all zeros\n", strings.Join(fields, ", "))
	}

	features, err := ml.Encode(in)
	if err != nil {
		return err
	}
	predictor, err := ml.NewPredictor(model, 0)
	if err != nil {
		return err
	}
	vector := features.Vector()
	result, err := predictor.Predict(vector)
	if err != nil {
		return err
	}

	for i, name := range ml.FeatureNames {
		fmt.Fprintf(w, "%-28s %g\n", name, vector[i])
	}
	fmt.Fprintln(w, result.Summary())
	return nil
}
