package schema

import "github.com/Pawan-142/healthrisk/internal/domain/condition"

func intField(name, label, unit string, low, high, def float64) Field {
	return Field{Name: name, Label: label, Unit: unit, Kind: Integer, Min: low, Max: high, Default: def}
}

func realField(name, label, unit string, low, high, def float64) Field {
	return Field{Name: name, Label: label, Unit: unit, Kind: Real, Min: low, Max: high, Default: def}
}

var catalog = map[condition.Kind]Schema{
	condition.Diabetes: {
		Kind:    condition.Diabetes,
		Version: "diabetes/v1",
		Fields: []Field{
			intField("pregnancies", "Number of Pregnancies", "", 0, 20, 0),
			intField("glucose", "Glucose Level", "mg/dL", 0, 300, 120),
			intField("blood_pressure", "Blood Pressure", "mm Hg", 0, 200, 70),
			intField("skin_thickness", "Skin Thickness", "mm", 0, 100, 20),
			intField("insulin", "Insulin Level", "mu U/ml", 0, 900, 80),
			realField("bmi", "BMI", "kg/m2", 0, 70, 25),
			realField("dpf", "Diabetes Pedigree Function", "", 0, 3, 0.5),
			intField("age", "Age", "years", 0, 120, 33),
		},
	},
	condition.HeartDisease: {
		Kind:    condition.HeartDisease,
		Version: "heart_disease/v1",
		Fields: []Field{
			intField("age", "Age", "years", 1, 120, 45),
			intField("sex", "Sex (1 = male, 0 = female)", "", 0, 1, 1),
			intField("cp", "Chest Pain Type", "", 0, 3, 0),
			intField("trestbps", "Resting Blood Pressure", "mm Hg", 50, 300, 120),
			intField("chol", "Cholesterol", "mg/dl", 50, 600, 200),
			intField("fbs", "Fasting Blood Sugar > 120 mg/dl", "", 0, 1, 0),
			intField("restecg", "Resting ECG Results", "", 0, 2, 0),
			intField("thalach", "Max Heart Rate Achieved", "bpm", 50, 250, 150),
			intField("exang", "Exercise Induced Angina", "", 0, 1, 0),
			realField("oldpeak", "ST Depression Induced by Exercise", "", 0, 10, 1),
			intField("slope", "Slope of Peak Exercise ST Segment", "", 0, 2, 0),
			intField("ca", "Number of Major Vessels Colored by Fluoroscopy", "", 0, 4, 0),
			intField("thal", "Thalassemia", "", 0, 2, 0),
		},
	},
	condition.LiverDisease: {
		Kind:    condition.LiverDisease,
		Version: "liver_disease/v1",
		Fields: []Field{
			intField("age", "Age", "years", 1, 120, 45),
			intField("gender", "Gender (1 = male, 0 = female)", "", 0, 1, 1),
			realField("total_bilirubin", "Total Bilirubin", "mg/dL", 0, 30, 1),
			realField("direct_bilirubin", "Direct Bilirubin", "mg/dL", 0, 20, 0.3),
			intField("alkaline_phosphatase", "Alkaline Phosphatase", "IU/L", 20, 2000, 290),
			intField("sgpt", "SGPT", "IU/L", 1, 2000, 40),
			intField("sgot", "SGOT", "IU/L", 1, 2000, 40),
			realField("total_proteins", "Total Proteins", "g/dL", 1, 15, 6.8),
			realField("albumin", "Albumin", "g/dL", 0.5, 10, 3.5),
			realField("ag_ratio", "A/G Ratio", "", 0.1, 5, 1),
		},
	},
	condition.KidneyDisease: {
		Kind:    condition.KidneyDisease,
		Version: "kidney_disease/v1",
		Fields: []Field{
			intField("age", "Age", "years", 1, 120, 45),
			intField("bp", "Blood Pressure", "mm Hg", 50, 200, 80),
			// 0..4 encodes specific gravity 1.005, 1.010, 1.015, 1.020, 1.025.
			intField("sg", "Specific Gravity", "", 0, 4, 2),
			intField("albumin", "Albumin", "", 0, 5, 0),
			intField("sugar", "Sugar", "", 0, 5, 0),
			intField("rbc", "Red Blood Cells (1 = abnormal)", "", 0, 1, 0),
			intField("pc", "Pus Cell (1 = abnormal)", "", 0, 1, 0),
			intField("pcc", "Pus Cell Clumps (1 = present)", "", 0, 1, 0),
			realField("bu", "Blood Urea", "mg/dL", 1, 200, 44),
			realField("sc", "Serum Creatinine", "mg/dL", 0.1, 15, 1.3),
			intField("sod", "Sodium", "mEq/L", 100, 200, 135),
		},
	},
	condition.ParkinsonsDisease: {
		Kind:    condition.ParkinsonsDisease,
		Version: "parkinsons_disease/v1",
		Fields: []Field{
			realField("fo", "MDVP:Fo (average vocal fundamental frequency)", "Hz", 50, 300, 120),
			realField("fhi", "MDVP:Fhi (maximum vocal fundamental frequency)", "Hz", 50, 600, 150),
			realField("flo", "MDVP:Flo (minimum vocal fundamental frequency)", "Hz", 50, 300, 100),
			realField("jitter_percent", "MDVP:Jitter(%)", "%", 0, 1, 0.005),
			realField("jitter_abs", "MDVP:Jitter(Abs)", "s", 0, 0.01, 0.00004),
			realField("rap", "MDVP:RAP", "", 0, 1, 0.003),
			realField("ppq", "MDVP:PPQ", "", 0, 1, 0.004),
			realField("ddp", "Jitter:DDP", "", 0, 1, 0.009),
			realField("shimmer", "MDVP:Shimmer", "", 0, 1, 0.03),
			realField("shimmer_db", "MDVP:Shimmer(dB)", "dB", 0, 5, 0.03),
			realField("apq3", "Shimmer:APQ3", "", 0, 1, 0.01),
			realField("apq5", "Shimmer:APQ5", "", 0, 1, 0.02),
			realField("apq", "MDVP:APQ", "", 0, 1, 0.02),
			realField("dda", "Shimmer:DDA", "", 0, 1, 0.01),
			realField("nhr", "NHR", "", 0, 1, 0.01),
			realField("hnr", "HNR", "dB", 0, 50, 20),
			realField("rpde", "RPDE", "", 0, 1, 0.5),
			realField("dfa", "DFA", "", 0, 1, 0.6),
			realField("spread1", "Spread1", "", -10, 0, -5),
			realField("spread2", "Spread2", "", 0, 1, 0.1),
			realField("d2", "D2", "", 0, 5, 2),
			realField("ppe", "PPE", "", 0, 1, 0.1),
		},
	},
}
