package prediction

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Pawan-142/healthrisk/internal/domain"
	"github.com/Pawan-142/healthrisk/internal/domain/condition"
	"github.com/Pawan-142/healthrisk/internal/domain/feature"
	"github.com/Pawan-142/healthrisk/internal/domain/risk"
	"github.com/Pawan-142/healthrisk/internal/domain/schema"
	"github.com/Pawan-142/healthrisk/internal/metrics"
)

// --- Mocks ---

type stubClassifier struct {
	size   int
	label  int
	prob   float64
	err    error
	calls  int
	inputs [][]float64
}

func (c *stubClassifier) InputSize() int { return c.size }

func (c *stubClassifier) Infer(vec []float64) (int, error) {
	c.calls++
	c.inputs = append(c.inputs, append([]float64(nil), vec...))
	return c.label, c.err
}

func (c *stubClassifier) InferProbability(_ []float64) (float64, error) {
	return c.prob, c.err
}

type mockRegistry struct {
	classifiers map[condition.Kind]domain.Classifier
	calls       int
}

func (r *mockRegistry) Get(kind condition.Kind) (domain.Classifier, error) {
	r.calls++
	c, ok := r.classifiers[kind]
	if !ok {
		return nil, &domain.ModelLoadError{Condition: kind, Path: "x.json", Err: errors.New("missing")}
	}
	return c, nil
}

func registryWith(kind condition.Kind, c domain.Classifier) *mockRegistry {
	return &mockRegistry{classifiers: map[condition.Kind]domain.Classifier{kind: c}}
}

// truncatingBuilder drops the last value to simulate a schema/artifact drift.
type truncatingBuilder struct{}

func (truncatingBuilder) Build(kind condition.Kind, values map[string]float64) (feature.Vector, error) {
	v, err := feature.NewBuilder(feature.Reject).Build(kind, values)
	if err != nil {
		return feature.Vector{}, err
	}
	v.Values = v.Values[:len(v.Values)-1]
	return v, nil
}

// --- Helpers ---

func diabetesValues() map[string]float64 {
	return map[string]float64{
		"pregnancies": 2, "glucose": 120, "blood_pressure": 70, "skin_thickness": 20,
		"insulin": 79, "bmi": 25.0, "dpf": 0.5, "age": 33,
	}
}

func heartValues() map[string]float64 {
	return map[string]float64{
		"age": 63, "sex": 1, "cp": 3, "trestbps": 145, "chol": 233, "fbs": 1, "restecg": 0,
		"thalach": 150, "exang": 0, "oldpeak": 2.3, "slope": 0, "ca": 0, "thal": 1,
	}
}

func newService(reg ClassifierRegistry) *Service {
	return New(reg, feature.NewBuilder(feature.Reject), zap.NewNop())
}

// --- Tests ---

func TestPredict_DiabetesLow(t *testing.T) {
	clf := &stubClassifier{size: 8, label: 0, prob: 0.10}
	svc := newService(registryWith(condition.Diabetes, clf))

	out, err := svc.Predict(context.Background(), condition.Diabetes, diabetesValues())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Verdict.Level != risk.Low {
		t.Errorf("expected level %q, got %q", risk.Low, out.Verdict.Level)
	}
	if out.Verdict.Probability != 0.10 {
		t.Errorf("expected probability 0.10, got %v", out.Verdict.Probability)
	}
	if out.Condition != condition.Diabetes {
		t.Errorf("expected condition diabetes, got %s", out.Condition)
	}

	want := []float64{2, 120, 70, 20, 79, 25.0, 0.5, 33}
	got := clf.inputs[0]
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("vector = %v, want %v", got, want)
		}
	}
}

func TestPredict_DiabetesZeroPregnancies(t *testing.T) {
	clf := &stubClassifier{size: 8, label: 0, prob: 0.10}
	svc := newService(registryWith(condition.Diabetes, clf))

	out, err := svc.Predict(context.Background(), condition.Diabetes, map[string]float64{
		"pregnancies": 0, "glucose": 120, "blood_pressure": 70, "skin_thickness": 20,
		"insulin": 80, "bmi": 25.0, "dpf": 0.5, "age": 33,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Verdict.Level != risk.Low || out.Verdict.Probability != 0.10 {
		t.Errorf("expected Low/0.10, got %s/%v", out.Verdict.Level, out.Verdict.Probability)
	}

	want := []float64{0, 120, 70, 20, 80, 25.0, 0.5, 33}
	got := clf.inputs[0]
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("vector = %v, want %v", got, want)
		}
	}
}

func TestPredict_HeartHigh(t *testing.T) {
	clf := &stubClassifier{size: 13, label: 1, prob: 0.87}
	svc := newService(registryWith(condition.HeartDisease, clf))

	out, err := svc.Predict(context.Background(), condition.HeartDisease, heartValues())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Verdict.Level != risk.High || out.Verdict.Probability != 0.87 {
		t.Errorf("unexpected verdict: %+v", out.Verdict)
	}
}

func TestPredict_LabelWinsOverProbability(t *testing.T) {
	// Label 1 with a low probability still reads as high.
	clf := &stubClassifier{size: 8, label: 1, prob: 0.2}
	svc := newService(registryWith(condition.Diabetes, clf))

	out, err := svc.Predict(context.Background(), condition.Diabetes, diabetesValues())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Verdict.Level != risk.High {
		t.Errorf("expected high, got %q", out.Verdict.Level)
	}
}

func TestPredict_MissingFieldBeforeRegistry(t *testing.T) {
	reg := registryWith(condition.KidneyDisease, &stubClassifier{size: 11})
	svc := newService(reg)

	values := map[string]float64{
		"bp": 80, "sg": 2, "albumin": 1, "sugar": 0, "rbc": 0, "pc": 0, "pcc": 0,
		"bu": 36, "sc": 1.2, "sod": 137,
	}
	_, err := svc.Predict(context.Background(), condition.KidneyDisease, values)

	var mfe *domain.MissingFieldError
	if !errors.As(err, &mfe) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
	if len(mfe.Fields) != 1 || mfe.Fields[0] != "age" {
		t.Errorf("expected missing [age], got %v", mfe.Fields)
	}
	if reg.calls != 0 {
		t.Errorf("registry consulted %d times for an invalid request", reg.calls)
	}
}

func TestPredict_OutOfRange(t *testing.T) {
	svc := newService(registryWith(condition.Diabetes, &stubClassifier{size: 8}))

	values := diabetesValues()
	values["glucose"] = 900
	_, err := svc.Predict(context.Background(), condition.Diabetes, values)
	if !errors.Is(err, domain.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestPredict_ClampRecordsAdjustments(t *testing.T) {
	clf := &stubClassifier{size: 8, prob: 0.3}
	svc := New(registryWith(condition.Diabetes, clf), feature.NewBuilder(feature.Clamp), zap.NewNop())

	values := diabetesValues()
	values["glucose"] = 900
	out, err := svc.Predict(context.Background(), condition.Diabetes, values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Adjustments) != 1 || out.Adjustments[0].Used != 300 {
		t.Errorf("unexpected adjustments: %+v", out.Adjustments)
	}
	if clf.inputs[0][1] != 300 {
		t.Errorf("classifier saw glucose %v, want 300", clf.inputs[0][1])
	}
}

func TestPredict_ModelUnavailable(t *testing.T) {
	svc := newService(&mockRegistry{})

	_, err := svc.Predict(context.Background(), condition.LiverDisease, map[string]float64{
		"age": 45, "gender": 1, "total_bilirubin": 1, "direct_bilirubin": 0.3,
		"alkaline_phosphatase": 290, "sgpt": 40, "sgot": 40, "total_proteins": 6.8,
		"albumin": 3.5, "ag_ratio": 1,
	})
	if !errors.Is(err, domain.ErrModelLoad) {
		t.Fatalf("expected model load error, got %v", err)
	}
}

func TestPredict_ShapeMismatchLogged(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	clf := &stubClassifier{size: 13, label: 1, prob: 0.9}
	svc := New(registryWith(condition.HeartDisease, clf), truncatingBuilder{}, zap.New(core))

	_, err := svc.Predict(context.Background(), condition.HeartDisease, heartValues())

	var sme *domain.ShapeMismatchError
	if !errors.As(err, &sme) {
		t.Fatalf("expected ShapeMismatchError, got %v", err)
	}
	if sme.Got != 12 || sme.Want != 13 {
		t.Errorf("unexpected mismatch: got=%d want=%d", sme.Got, sme.Want)
	}
	if clf.calls != 0 {
		t.Error("classifier must not be invoked on a mismatched vector")
	}
	if logs.Len() != 1 {
		t.Fatalf("expected 1 error log, got %d", logs.Len())
	}
	fields := logs.All()[0].ContextMap()
	if fields["vector_len"] != int64(12) || fields["input_size"] != int64(13) {
		t.Errorf("unexpected log fields: %v", fields)
	}
}

func TestPredict_ShapeMismatchCarriesTrace(t *testing.T) {
	prev := otel.GetTracerProvider()
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	core, logs := observer.New(zapcore.ErrorLevel)
	clf := &stubClassifier{size: 13, label: 1, prob: 0.9}
	svc := New(registryWith(condition.HeartDisease, clf), truncatingBuilder{}, zap.New(core))

	if _, err := svc.Predict(context.Background(), condition.HeartDisease, heartValues()); err == nil {
		t.Fatal("expected shape mismatch error")
	}
	if logs.Len() != 1 {
		t.Fatalf("expected 1 error log, got %d", logs.Len())
	}
	fields := logs.All()[0].ContextMap()
	if id, _ := fields["trace_id"].(string); len(id) != 32 {
		t.Errorf("expected trace_id on log entry, got %v", fields)
	}
	if _, ok := fields["span_id"]; !ok {
		t.Errorf("expected span_id on log entry, got %v", fields)
	}
}

func TestPredict_Deterministic(t *testing.T) {
	clf := &stubClassifier{size: 8, label: 1, prob: 0.61}
	svc := newService(registryWith(condition.Diabetes, clf))

	first, err := svc.Predict(context.Background(), condition.Diabetes, diabetesValues())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Predict(context.Background(), condition.Diabetes, diabetesValues())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Verdict != second.Verdict {
		t.Errorf("verdicts differ: %+v vs %+v", first.Verdict, second.Verdict)
	}
	if clf.calls != 2 {
		t.Errorf("expected 2 classifier calls without cache, got %d", clf.calls)
	}
}

func TestPredict_CacheHit(t *testing.T) {
	clf := &stubClassifier{size: 8, label: 0, prob: 0.25}
	svc := newService(registryWith(condition.Diabetes, clf)).WithCache(16)

	hits := testutil.ToFloat64(metrics.PredictionCacheTotal.WithLabelValues("hit"))

	for range 3 {
		out, err := svc.Predict(context.Background(), condition.Diabetes, diabetesValues())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Verdict.Probability != 0.25 {
			t.Fatalf("unexpected probability %v", out.Verdict.Probability)
		}
	}

	if clf.calls != 1 {
		t.Errorf("expected 1 classifier call, got %d", clf.calls)
	}
	if got := testutil.ToFloat64(metrics.PredictionCacheTotal.WithLabelValues("hit")) - hits; got != 2 {
		t.Errorf("expected 2 cache hits, got %v", got)
	}

	values := diabetesValues()
	values["age"] = 34
	if _, err := svc.Predict(context.Background(), condition.Diabetes, values); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if clf.calls != 2 {
		t.Errorf("different vector must miss the cache, calls = %d", clf.calls)
	}
}

func TestPredict_OutcomeMetric(t *testing.T) {
	svc := newService(registryWith(condition.Diabetes, &stubClassifier{size: 8, prob: 0.1}))

	before := testutil.ToFloat64(metrics.PredictionsTotal.WithLabelValues("diabetes", "low"))
	if _, err := svc.Predict(context.Background(), condition.Diabetes, diabetesValues()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := testutil.ToFloat64(metrics.PredictionsTotal.WithLabelValues("diabetes", "low")) - before; got != 1 {
		t.Errorf("expected low outcome counted once, got %v", got)
	}

	before = testutil.ToFloat64(metrics.PredictionsTotal.WithLabelValues("unknown", "rejected"))
	if _, err := svc.Predict(context.Background(), condition.Kind("asthma"), nil); !errors.Is(err, domain.ErrUnknownCondition) {
		t.Fatalf("expected ErrUnknownCondition, got %v", err)
	}
	if got := testutil.ToFloat64(metrics.PredictionsTotal.WithLabelValues("unknown", "rejected")) - before; got != 1 {
		t.Errorf("expected rejected outcome counted once, got %v", got)
	}
}

func TestTypedEntryPoints(t *testing.T) {
	reg := &mockRegistry{classifiers: map[condition.Kind]domain.Classifier{}}
	for _, k := range condition.All() {
		reg.classifiers[k] = &stubClassifier{size: schema.For(k).Len(), label: 1, prob: 0.7}
	}
	svc := newService(reg)
	ctx := context.Background()

	defaults := func(k condition.Kind) map[string]float64 { return schema.For(k).Defaults() }
	d := defaults(condition.Diabetes)
	h := defaults(condition.HeartDisease)
	l := defaults(condition.LiverDisease)
	k := defaults(condition.KidneyDisease)
	p := defaults(condition.ParkinsonsDisease)

	calls := map[string]func() (bool, float64, error){
		"diabetes": func() (bool, float64, error) {
			return svc.PredictDiabetes(ctx, DiabetesInput{
				Pregnancies: d["pregnancies"], Glucose: d["glucose"], BloodPressure: d["blood_pressure"],
				SkinThickness: d["skin_thickness"], Insulin: d["insulin"], BMI: d["bmi"], DPF: d["dpf"], Age: d["age"],
			})
		},
		"heart": func() (bool, float64, error) {
			return svc.PredictHeartDisease(ctx, HeartDiseaseInput{
				Age: h["age"], Sex: h["sex"], CP: h["cp"], Trestbps: h["trestbps"], Chol: h["chol"],
				FBS: h["fbs"], Restecg: h["restecg"], Thalach: h["thalach"], Exang: h["exang"],
				Oldpeak: h["oldpeak"], Slope: h["slope"], CA: h["ca"], Thal: h["thal"],
			})
		},
		"liver": func() (bool, float64, error) {
			return svc.PredictLiverDisease(ctx, LiverDiseaseInput{
				Age: l["age"], Gender: l["gender"], TotalBilirubin: l["total_bilirubin"],
				DirectBilirubin: l["direct_bilirubin"], AlkalinePhosphatase: l["alkaline_phosphatase"],
				SGPT: l["sgpt"], SGOT: l["sgot"], TotalProteins: l["total_proteins"],
				Albumin: l["albumin"], AGRatio: l["ag_ratio"],
			})
		},
		"kidney": func() (bool, float64, error) {
			return svc.PredictKidneyDisease(ctx, KidneyDiseaseInput{
				Age: k["age"], BP: k["bp"], SG: k["sg"], Albumin: k["albumin"], Sugar: k["sugar"],
				RBC: k["rbc"], PC: k["pc"], PCC: k["pcc"], BU: k["bu"], SC: k["sc"], Sod: k["sod"],
			})
		},
		"parkinsons": func() (bool, float64, error) {
			return svc.PredictParkinsons(ctx, ParkinsonsInput{
				Fo: p["fo"], Fhi: p["fhi"], Flo: p["flo"], JitterPercent: p["jitter_percent"],
				JitterAbs: p["jitter_abs"], RAP: p["rap"], PPQ: p["ppq"], DDP: p["ddp"],
				Shimmer: p["shimmer"], ShimmerDB: p["shimmer_db"], APQ3: p["apq3"], APQ5: p["apq5"],
				APQ: p["apq"], DDA: p["dda"], NHR: p["nhr"], HNR: p["hnr"], RPDE: p["rpde"],
				DFA: p["dfa"], Spread1: p["spread1"], Spread2: p["spread2"], D2: p["d2"], PPE: p["ppe"],
			})
		},
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			label, prob, err := call()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !label || prob != 0.7 {
				t.Errorf("got (%v, %v), want (true, 0.7)", label, prob)
			}
		})
	}
}

func TestTypedInputs_CoverSchema(t *testing.T) {
	inputs := map[condition.Kind]map[string]float64{
		condition.Diabetes:          DiabetesInput{}.Values(),
		condition.HeartDisease:      HeartDiseaseInput{}.Values(),
		condition.LiverDisease:      LiverDiseaseInput{}.Values(),
		condition.KidneyDisease:     KidneyDiseaseInput{}.Values(),
		condition.ParkinsonsDisease: ParkinsonsInput{}.Values(),
	}
	for kind, values := range inputs {
		names := schema.Names(kind)
		if len(values) != len(names) {
			t.Errorf("%s: %d input keys, schema has %d fields", kind, len(values), len(names))
		}
		for _, n := range names {
			if _, ok := values[n]; !ok {
				t.Errorf("%s: input has no key %q", kind, n)
			}
		}
	}
}

func TestInvoke_OutputContract(t *testing.T) {
	vec := feature.Vector{Kind: condition.Diabetes, Values: make([]float64, 8)}

	tests := []struct {
		name    string
		clf     *stubClassifier
		wantErr error
	}{
		{"label out of set", &stubClassifier{size: 8, label: 2, prob: 0.5}, domain.ErrInvalidModelOutput},
		{"probability above one", &stubClassifier{size: 8, label: 1, prob: 1.5}, domain.ErrInvalidModelOutput},
		{"negative probability", &stubClassifier{size: 8, label: 0, prob: -0.1}, domain.ErrInvalidModelOutput},
		{"nan probability", &stubClassifier{size: 8, label: 0, prob: math.NaN()}, domain.ErrInvalidModelOutput},
		{"classifier error", &stubClassifier{size: 8, err: domain.ErrShapeMismatch}, domain.ErrShapeMismatch},
		{"size mismatch", &stubClassifier{size: 9}, domain.ErrShapeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Invoke(tt.clf, vec)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestInvoke_Boundaries(t *testing.T) {
	vec := feature.Vector{Kind: condition.Diabetes, Values: []float64{1, 2, 3, 4, 5, 6, 7, 8}}

	for _, p := range []float64{0, 1} {
		res, err := Invoke(&stubClassifier{size: 8, label: int(p), prob: p}, vec)
		if err != nil {
			t.Fatalf("p=%v: unexpected error: %v", p, err)
		}
		if res.Probability != p || res.Label != (p == 1) {
			t.Errorf("p=%v: unexpected result %+v", p, res)
		}
	}
	if vec.Values[0] != 1 || vec.Values[7] != 8 {
		t.Error("Invoke must not modify the vector")
	}
}

func TestCacheKey_DistinguishesConditionAndBits(t *testing.T) {
	a := feature.Vector{Kind: condition.Diabetes, Values: []float64{0.1, 2}}
	b := feature.Vector{Kind: condition.HeartDisease, Values: []float64{0.1, 2}}
	c := feature.Vector{Kind: condition.Diabetes, Values: []float64{math.Nextafter(0.1, 1), 2}}

	if cacheKey(a) == cacheKey(b) {
		t.Error("keys must differ by condition")
	}
	if cacheKey(a) == cacheKey(c) {
		t.Error("keys must differ by value bits")
	}
	if cacheKey(a) != cacheKey(feature.Vector{Kind: condition.Diabetes, Values: []float64{0.1, 2}}) {
		t.Error("equal vectors must share a key")
	}
}
