package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gookit/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Pawan-142/healthrisk/internal/classifier"
	"github.com/Pawan-142/healthrisk/internal/config"
	"github.com/Pawan-142/healthrisk/internal/domain/condition"
	"github.com/Pawan-142/healthrisk/internal/domain/feature"
	"github.com/Pawan-142/healthrisk/internal/domain/risk"
	"github.com/Pawan-142/healthrisk/internal/domain/schema"
	"github.com/Pawan-142/healthrisk/internal/registry"
	predictionuc "github.com/Pawan-142/healthrisk/internal/usecase/prediction"
)

func TestParseSet(t *testing.T) {
	tests := []struct {
		in      string
		name    string
		value   float64
		wantErr bool
	}{
		{in: "glucose=148", name: "glucose", value: 148},
		{in: " bmi = 33.6 ", name: "bmi", value: 33.6},
		{in: "spread1=-4.8", name: "spread1", value: -4.8},
		{in: "glucose", wantErr: true},
		{in: "=5", wantErr: true},
		{in: "glucose=high", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			name, v, err := parseSet(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if name != tc.name || v != tc.value {
				t.Errorf("got %s=%v, want %s=%v", name, v, tc.name, tc.value)
			}
		})
	}
}

func TestCollectValues_Precedence(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "patient.json")
	if err := os.WriteFile(input, []byte(`{"features": {"glucose": 150, "age": 50}}`), 0o600); err != nil {
		t.Fatal(err)
	}

	values, err := collectValues(condition.Diabetes, true, input, []string{"age=61"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(values) != schema.For(condition.Diabetes).Len() {
		t.Errorf("expected every default, got %d values", len(values))
	}
	if values["glucose"] != 150 {
		t.Errorf("input file should override defaults, got glucose=%v", values["glucose"])
	}
	if values["age"] != 61 {
		t.Errorf("--set should override input file, got age=%v", values["age"])
	}
	if values["bmi"] != 25 {
		t.Errorf("expected default bmi, got %v", values["bmi"])
	}
}

func TestReadInputFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
		return p
	}

	flat, err := readInputFile(write("flat.json", `{"glucose": 120, "bmi": 30.1}`))
	if err != nil || flat["bmi"] != 30.1 {
		t.Errorf("flat: got %v, %v", flat, err)
	}

	wrapped, err := readInputFile(write("wrapped.json", `{"features": {"glucose": 99}}`))
	if err != nil || wrapped["glucose"] != 99 || len(wrapped) != 1 {
		t.Errorf("wrapped: got %v, %v", wrapped, err)
	}

	if _, err := readInputFile(write("text.json", `{"glucose": "high"}`)); err == nil {
		t.Error("expected error for non-numeric value")
	}
	if _, err := readInputFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPrintOutcome(t *testing.T) {
	color.Disable()

	high := predictionuc.Outcome{
		Condition: condition.Diabetes,
		Verdict:   risk.Verdict{Level: risk.High, Probability: 0.823},
		Adjustments: []feature.Adjustment{
			{Field: "glucose", Given: 350, Used: 300},
		},
	}
	var buf bytes.Buffer
	printOutcome(&buf, high)
	out := buf.String()
	for _, want := range []string{
		"High Risk of Diabetes Detected",
		"82.3% probability of Diabetes",
		"glucose=350 was clamped to 300",
		"consult with a healthcare professional",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	low := predictionuc.Outcome{
		Condition: condition.ParkinsonsDisease,
		Verdict:   risk.Verdict{Level: risk.Low, Probability: 0.05},
	}
	if got := verdictHeadline(low); got != "Low Risk of Parkinson's Disease Detected" {
		t.Errorf("headline: got %q", got)
	}
}

func TestWriteOutcomeJSON(t *testing.T) {
	var buf bytes.Buffer
	err := writeOutcomeJSON(&buf, predictionuc.Outcome{
		Condition: condition.KidneyDisease,
		Verdict:   risk.Verdict{Level: risk.High, Probability: 0.9},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc["condition"] != "kidney_disease" || doc["level"] != "high" {
		t.Errorf("unexpected document: %v", doc)
	}
	if _, ok := doc["adjustments"]; ok {
		t.Error("adjustments should be omitted when empty")
	}
}

func TestRenderSchema(t *testing.T) {
	color.Disable()

	var buf bytes.Buffer
	renderSchema(&buf, schema.For(condition.LiverDisease))
	out := buf.String()
	if !strings.Contains(out, "Liver Disease (liver_disease/v1)") {
		t.Errorf("missing title:\n%s", out)
	}
	if !strings.Contains(out, "ag_ratio") || !strings.Contains(out, "0.1..5") {
		t.Errorf("missing field row:\n%s", out)
	}
}

type memSource map[string][]byte

func (m memSource) Read(_ context.Context, ref string) ([]byte, error) {
	if data, ok := m[ref]; ok {
		return data, nil
	}
	return nil, os.ErrNotExist
}

type memKV struct {
	data   map[string][]byte
	setErr error
}

func (m *memKV) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

func (m *memKV) Set(_ context.Context, key string, value []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func zeroArtifact(t *testing.T, kind condition.Kind) []byte {
	t.Helper()
	sch := schema.For(kind)
	data, err := json.Marshal(classifier.Artifact{
		FormatVersion: classifier.FormatVersion,
		Condition:     kind.String(),
		SchemaVersion: sch.Version,
		Model: classifier.ModelSpec{
			Type:         classifier.TypeLogisticRegression,
			NFeatures:    sch.Len(),
			Coefficients: make([]float64, sch.Len()),
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestPushArtifacts(t *testing.T) {
	src := memSource{
		"diabetes.json": zeroArtifact(t, condition.Diabetes),
		"heart.json":    zeroArtifact(t, condition.HeartDisease),
		"liver.json":    []byte(`{"format_version": 1}`),
	}
	refs := map[condition.Kind]string{
		condition.Diabetes:     "diabetes.json",
		condition.HeartDisease: "heart.json",
		condition.LiverDisease: "liver.json",
	}
	kv := &memKV{data: map[string][]byte{
		registry.KVKey(condition.HeartDisease): []byte("old"),
	}}

	results, err := pushArtifacts(context.Background(), kv, src, refs, false)
	if err == nil {
		t.Fatal("expected joined error for the invalid liver artifact")
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	actions := map[condition.Kind]string{}
	for _, r := range results {
		actions[r.Condition] = r.Action
	}
	if actions[condition.Diabetes] != "pushed" || actions[condition.HeartDisease] != "skipped" ||
		actions[condition.LiverDisease] != "invalid" {
		t.Errorf("unexpected actions: %v", actions)
	}
	if string(kv.data[registry.KVKey(condition.HeartDisease)]) != "old" {
		t.Error("existing artifact overwritten without force")
	}
	if !bytes.Equal(kv.data[registry.KVKey(condition.Diabetes)], src["diabetes.json"]) {
		t.Error("diabetes artifact not stored verbatim")
	}

	delete(src, "liver.json")
	delete(refs, condition.LiverDisease)
	if _, err := pushArtifacts(context.Background(), kv, src, refs, true); err != nil {
		t.Fatalf("forced push: %v", err)
	}
	if string(kv.data[registry.KVKey(condition.HeartDisease)]) == "old" {
		t.Error("force did not overwrite")
	}
}

func TestPushArtifacts_SetError(t *testing.T) {
	src := memSource{"diabetes.json": zeroArtifact(t, condition.Diabetes)}
	refs := map[condition.Kind]string{condition.Diabetes: "diabetes.json"}
	kv := &memKV{data: map[string][]byte{}, setErr: errors.New("READONLY")}

	results, err := pushArtifacts(context.Background(), kv, src, refs, false)
	if err == nil || !strings.Contains(err.Error(), "READONLY") {
		t.Fatalf("expected set error, got %v", err)
	}
	if results[0].Action != "failed" {
		t.Errorf("action: got %q, want failed", results[0].Action)
	}
}

func TestSelectRefs(t *testing.T) {
	refs := map[condition.Kind]string{
		condition.Diabetes:     "d.json",
		condition.HeartDisease: "h.json",
	}

	got, err := selectRefs(refs, []string{"heart"})
	if err != nil || len(got) != 1 || got[condition.HeartDisease] != "h.json" {
		t.Errorf("got %v, %v", got, err)
	}
	if _, err := selectRefs(refs, []string{"kidney"}); err == nil {
		t.Error("expected error for unconfigured condition")
	}
	if _, err := selectRefs(refs, []string{"asthma"}); !errors.Is(err, condition.ErrUnknown) {
		t.Errorf("expected ErrUnknown, got %v", err)
	}
	if all, _ := selectRefs(refs, nil); len(all) != 2 {
		t.Error("no args should keep every ref")
	}
}

func TestJSONRecoverer(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	h := jsonRecoverer(zap.New(core))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/v1/conditions", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("got %d, want 500", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"internal_error"`) {
		t.Errorf("unexpected body: %s", rr.Body.String())
	}
	if logs.FilterMessage("panic recovered").Len() != 1 {
		t.Error("panic not logged")
	}
}

func TestWideEventMiddleware(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := chiMiddleware.RequestID(wideEventMiddleware(zap.New(core))(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}),
	))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("POST", "/v1/conditions/diabetes/predictions", http.NoBody))

	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
	entries := logs.FilterMessage("http_request").All()
	if len(entries) != 1 {
		t.Fatalf("expected one canonical log line, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusCreated) {
		t.Errorf("status field: got %v", fields["status"])
	}
	if fields["request_id"] == "" {
		t.Error("request_id missing from log line")
	}
}

func TestShippedModelsLoad(t *testing.T) {
	reg := registry.Load(context.Background(), config.DefaultArtifactFiles,
		registry.WithSource(registry.FileSource{Dir: filepath.Join("..", "..", "models")}))

	for _, st := range reg.Status() {
		if !st.Available() {
			t.Errorf("%s: %v", st.Condition, st.Err)
		}
	}

	svc := predictionuc.New(reg, feature.NewBuilder(feature.Reject), zap.NewNop())
	for _, k := range condition.All() {
		out, err := svc.Predict(context.Background(), k, schema.For(k).Defaults())
		if err != nil {
			t.Errorf("%s defaults: %v", k, err)
			continue
		}
		if out.Verdict.Probability < 0 || out.Verdict.Probability > 1 {
			t.Errorf("%s probability out of range: %v", k, out.Verdict.Probability)
		}
	}
}

func TestRenderStrayKeys(t *testing.T) {
	color.Disable()

	var buf bytes.Buffer
	renderStrayKeys(&buf, []string{registry.KeyPrefix + "diabetes_v0"})
	if got, want := buf.String(), "warning: healthrisk:model:diabetes_v0 matches no condition\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	buf.Reset()
	renderStrayKeys(&buf, nil)
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}
