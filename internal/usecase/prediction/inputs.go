package prediction

import (
	"context"

	"github.com/Pawan-142/healthrisk/internal/domain/condition"
	"github.com/Pawan-142/healthrisk/internal/domain/risk"
)

// DiabetesInput holds the diabetes screening measurements.
type DiabetesInput struct {
	Pregnancies   float64
	Glucose       float64
	BloodPressure float64
	SkinThickness float64
	Insulin       float64
	BMI           float64
	DPF           float64
	Age           float64
}

// Values returns the input keyed by schema field name.
func (in DiabetesInput) Values() map[string]float64 {
	return map[string]float64{
		"pregnancies":    in.Pregnancies,
		"glucose":        in.Glucose,
		"blood_pressure": in.BloodPressure,
		"skin_thickness": in.SkinThickness,
		"insulin":        in.Insulin,
		"bmi":            in.BMI,
		"dpf":            in.DPF,
		"age":            in.Age,
	}
}

// HeartDiseaseInput holds the cardiac screening measurements.
type HeartDiseaseInput struct {
	Age      float64
	Sex      float64
	CP       float64
	Trestbps float64
	Chol     float64
	FBS      float64
	Restecg  float64
	Thalach  float64
	Exang    float64
	Oldpeak  float64
	Slope    float64
	CA       float64
	Thal     float64
}

// Values returns the input keyed by schema field name.
func (in HeartDiseaseInput) Values() map[string]float64 {
	return map[string]float64{
		"age":      in.Age,
		"sex":      in.Sex,
		"cp":       in.CP,
		"trestbps": in.Trestbps,
		"chol":     in.Chol,
		"fbs":      in.FBS,
		"restecg":  in.Restecg,
		"thalach":  in.Thalach,
		"exang":    in.Exang,
		"oldpeak":  in.Oldpeak,
		"slope":    in.Slope,
		"ca":       in.CA,
		"thal":     in.Thal,
	}
}

// LiverDiseaseInput holds the liver function panel.
type LiverDiseaseInput struct {
	Age                 float64
	Gender              float64
	TotalBilirubin      float64
	DirectBilirubin     float64
	AlkalinePhosphatase float64
	SGPT                float64
	SGOT                float64
	TotalProteins       float64
	Albumin             float64
	AGRatio             float64
}

// Values returns the input keyed by schema field name.
func (in LiverDiseaseInput) Values() map[string]float64 {
	return map[string]float64{
		"age":                  in.Age,
		"gender":               in.Gender,
		"total_bilirubin":      in.TotalBilirubin,
		"direct_bilirubin":     in.DirectBilirubin,
		"alkaline_phosphatase": in.AlkalinePhosphatase,
		"sgpt":                 in.SGPT,
		"sgot":                 in.SGOT,
		"total_proteins":       in.TotalProteins,
		"albumin":              in.Albumin,
		"ag_ratio":             in.AGRatio,
	}
}

// KidneyDiseaseInput holds the renal panel. SG is the encoded specific gravity (0..4).
type KidneyDiseaseInput struct {
	Age     float64
	BP      float64
	SG      float64
	Albumin float64
	Sugar   float64
	RBC     float64
	PC      float64
	PCC     float64
	BU      float64
	SC      float64
	Sod     float64
}

// Values returns the input keyed by schema field name.
func (in KidneyDiseaseInput) Values() map[string]float64 {
	return map[string]float64{
		"age":     in.Age,
		"bp":      in.BP,
		"sg":      in.SG,
		"albumin": in.Albumin,
		"sugar":   in.Sugar,
		"rbc":     in.RBC,
		"pc":      in.PC,
		"pcc":     in.PCC,
		"bu":      in.BU,
		"sc":      in.SC,
		"sod":     in.Sod,
	}
}

// ParkinsonsInput holds the voice measurements.
type ParkinsonsInput struct {
	Fo            float64
	Fhi           float64
	Flo           float64
	JitterPercent float64
	JitterAbs     float64
	RAP           float64
	PPQ           float64
	DDP           float64
	Shimmer       float64
	ShimmerDB     float64
	APQ3          float64
	APQ5          float64
	APQ           float64
	DDA           float64
	NHR           float64
	HNR           float64
	RPDE          float64
	DFA           float64
	Spread1       float64
	Spread2       float64
	D2            float64
	PPE           float64
}

// Values returns the input keyed by schema field name.
func (in ParkinsonsInput) Values() map[string]float64 {
	return map[string]float64{
		"fo":             in.Fo,
		"fhi":            in.Fhi,
		"flo":            in.Flo,
		"jitter_percent": in.JitterPercent,
		"jitter_abs":     in.JitterAbs,
		"rap":            in.RAP,
		"ppq":            in.PPQ,
		"ddp":            in.DDP,
		"shimmer":        in.Shimmer,
		"shimmer_db":     in.ShimmerDB,
		"apq3":           in.APQ3,
		"apq5":           in.APQ5,
		"apq":            in.APQ,
		"dda":            in.DDA,
		"nhr":            in.NHR,
		"hnr":            in.HNR,
		"rpde":           in.RPDE,
		"dfa":            in.DFA,
		"spread1":        in.Spread1,
		"spread2":        in.Spread2,
		"d2":             in.D2,
		"ppe":            in.PPE,
	}
}

// PredictDiabetes returns the diabetes label and class 1 probability.
func (s *Service) PredictDiabetes(ctx context.Context, in DiabetesInput) (bool, float64, error) {
	return s.predictTyped(ctx, condition.Diabetes, in.Values())
}

// PredictHeartDisease returns the heart disease label and class 1 probability.
func (s *Service) PredictHeartDisease(ctx context.Context, in HeartDiseaseInput) (bool, float64, error) {
	return s.predictTyped(ctx, condition.HeartDisease, in.Values())
}

// PredictLiverDisease returns the liver disease label and class 1 probability.
func (s *Service) PredictLiverDisease(ctx context.Context, in LiverDiseaseInput) (bool, float64, error) {
	return s.predictTyped(ctx, condition.LiverDisease, in.Values())
}

// PredictKidneyDisease returns the kidney disease label and class 1 probability.
func (s *Service) PredictKidneyDisease(ctx context.Context, in KidneyDiseaseInput) (bool, float64, error) {
	return s.predictTyped(ctx, condition.KidneyDisease, in.Values())
}

// PredictParkinsons returns the Parkinson's label and class 1 probability.
func (s *Service) PredictParkinsons(ctx context.Context, in ParkinsonsInput) (bool, float64, error) {
	return s.predictTyped(ctx, condition.ParkinsonsDisease, in.Values())
}

func (s *Service) predictTyped(ctx context.Context, kind condition.Kind, values map[string]float64) (bool, float64, error) {
	out, err := s.Predict(ctx, kind, values)
	if err != nil {
		return false, 0, err
	}
	return out.Verdict.Level == risk.High, out.Verdict.Probability, nil
}
