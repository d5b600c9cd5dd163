package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/Pawan-142/healthrisk/internal/domain/condition"
	"github.com/Pawan-142/healthrisk/internal/domain/risk"
	"github.com/Pawan-142/healthrisk/internal/domain/schema"
	"github.com/Pawan-142/healthrisk/internal/registry"
	predictionuc "github.com/Pawan-142/healthrisk/internal/usecase/prediction"
)

var predictCmd = &cobra.Command{
	Use:   "predict <condition>",
	Short: "Run one prediction from the command line",
	Example: "  healthrisk predict diabetes --defaults --set glucose=180 --set bmi=33.6\n" +
		"  healthrisk predict heart --input patient.json",
	Args: cobra.ExactArgs(1),
	RunE: runPredict,
}

func init() {
	predictCmd.Flags().StringArray("set", nil, "Feature value as name=value (repeatable)")
	predictCmd.Flags().String("input", "", "JSON file with feature values")
	predictCmd.Flags().Bool("defaults", false, "Start from the schema's default values")
	predictCmd.Flags().Bool("json", false, "Print the outcome as JSON")
}

func runPredict(cmd *cobra.Command, args []string) error {
	kind, err := condition.Parse(args[0])
	if err != nil {
		return err
	}

	useDefaults, _ := cmd.Flags().GetBool("defaults")
	input, _ := cmd.Flags().GetString("input")
	sets, _ := cmd.Flags().GetStringArray("set")
	values, err := collectValues(kind, useDefaults, input, sets)
	if err != nil {
		return err
	}

	cfg, env, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := cliLogger(cmd, env, cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	reg, err := loadRegistry(ctx, cfg, store, registry.NewLogReporter(logger, nil))
	if err != nil {
		return err
	}

	out, err := newPredictionService(cfg, reg, logger).Predict(ctx, kind, values)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeOutcomeJSON(cmd.OutOrStdout(), out)
	}
	printOutcome(cmd.OutOrStdout(), out)
	return nil
}

// collectValues merges schema defaults, the input file and --set pairs, in that order.
func collectValues(kind condition.Kind, useDefaults bool, input string, sets []string) (map[string]float64, error) {
	values := make(map[string]float64)
	if useDefaults {
		for k, v := range schema.For(kind).Defaults() {
			values[k] = v
		}
	}

	if input != "" {
		fromFile, err := readInputFile(input)
		if err != nil {
			return nil, err
		}
		for k, v := range fromFile {
			values[k] = v
		}
	}

	for _, s := range sets {
		name, v, err := parseSet(s)
		if err != nil {
			return nil, err
		}
		values[name] = v
	}
	return values, nil
}

// readInputFile accepts either a flat {"name": number} object or the HTTP
// request shape {"features": {...}}.
func readInputFile(path string) (map[string]float64, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse input %s: %w", path, err)
	}
	if raw, ok := doc["features"]; ok && len(doc) == 1 {
		data = raw
	}

	var values map[string]float64
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse input %s: feature values must be numbers: %w", path, err)
	}
	return values, nil
}

func parseSet(s string) (string, float64, error) {
	name, raw, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", 0, fmt.Errorf("invalid --set %q: want name=value", s)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid --set %q: %w", s, err)
	}
	return name, v, nil
}

func verdictHeadline(out predictionuc.Outcome) string {
	level := "Low"
	if out.Verdict.Level == risk.High {
		level = "High"
	}
	return fmt.Sprintf("%s Risk of %s Detected", level, out.Condition.DisplayName())
}

func probabilityLine(out predictionuc.Outcome) string {
	return fmt.Sprintf("The model predicts a %.1f%% probability of %s.",
		out.Verdict.Probability*100, out.Condition.DisplayName())
}

func printOutcome(w io.Writer, out predictionuc.Outcome) {
	headline := verdictHeadline(out)
	advice := "Always maintain a healthy lifestyle for continued wellbeing."
	if out.Verdict.Level == risk.High {
		headline = color.New(color.FgRed, color.OpBold).Sprint(headline)
		advice = "Please consult with a healthcare professional for a proper diagnosis."
	} else {
		headline = color.New(color.FgGreen, color.OpBold).Sprint(headline)
	}

	_, _ = fmt.Fprintln(w, headline)
	_, _ = fmt.Fprintln(w, probabilityLine(out))
	for _, a := range out.Adjustments {
		_, _ = fmt.Fprintln(w, color.Yellow.Sprintf("note: %s=%g was clamped to %g", a.Field, a.Given, a.Used))
	}
	_, _ = fmt.Fprintln(w, advice)
}

type outcomeJSON struct {
	Condition   string       `json:"condition"`
	Level       string       `json:"level"`
	Probability float64      `json:"probability"`
	Adjustments []adjustJSON `json:"adjustments,omitempty"`
}

type adjustJSON struct {
	Field string  `json:"field"`
	Given float64 `json:"given"`
	Used  float64 `json:"used"`
}

func writeOutcomeJSON(w io.Writer, out predictionuc.Outcome) error {
	doc := outcomeJSON{
		Condition:   out.Condition.String(),
		Level:       string(out.Verdict.Level),
		Probability: out.Verdict.Probability,
	}
	for _, a := range out.Adjustments {
		doc.Adjustments = append(doc.Adjustments, adjustJSON(a))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
