package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/Pawan-142/healthrisk/internal/config"
	"github.com/Pawan-142/healthrisk/internal/domain/condition"
	"github.com/Pawan-142/healthrisk/internal/domain/schema"
	"github.com/Pawan-142/healthrisk/internal/registry"
)

var errNoModels = errors.New("no condition has a usable model")

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Load the model registry and print per-condition status",
	Args:  cobra.NoArgs,
	RunE:  runModels,
}

var modelsPushCmd = &cobra.Command{
	Use:   "push [condition...]",
	Short: "Validate artifact files and upload them into the key-value store",
	RunE:  runModelsPush,
}

func init() {
	modelsPushCmd.Flags().Bool("force", false, "Overwrite artifacts already in the store")
	modelsCmd.AddCommand(modelsPushCmd)
}

func runModels(cmd *cobra.Command, _ []string) error {
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

	renderStatusTable(cmd.OutOrStdout(), reg.Status())
	if cfg.Models.Source == config.SourceKV && store != nil {
		stray, err := registry.StrayKVKeys(ctx, store)
		if err != nil {
			return err
		}
		renderStrayKeys(cmd.OutOrStdout(), stray)
	}
	if reg.Available() == 0 {
		return errNoModels
	}
	return nil
}

func renderStatusTable(w io.Writer, statuses []registry.Status) {
	table := newTable(w)
	table.SetHeader([]string{"Condition", "Schema", "Model", "Artifact", "Status"})
	for _, st := range statuses {
		status := "loaded"
		if !st.Available() {
			status = "unavailable: " + st.Err.Error()
		}
		table.Append([]string{
			st.Condition.String(),
			schema.For(st.Condition).Version,
			orDash(st.ModelType),
			orDash(st.Ref),
			status,
		})
	}
	table.Render()
}

// renderStrayKeys warns about stored artifacts that no condition reads.
func renderStrayKeys(w io.Writer, keys []string) {
	for _, k := range keys {
		_, _ = fmt.Fprintln(w, color.Yellow.Sprintf("warning: %s matches no condition", k))
	}
}

// kvWriter is the consumer interface for publishing artifacts (ISP).
type kvWriter interface {
	Exists(ctx context.Context, key string) (bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

type pushResult struct {
	Condition condition.Kind
	Key       string
	Action    string // pushed, skipped or invalid
	Err       error
}

func runModelsPush(cmd *cobra.Command, args []string) error {
	cfg, env, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := cliLogger(cmd, env, cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	refs, err := cfg.ArtifactPaths()
	if err != nil {
		return fmt.Errorf("artifact paths: %w", err)
	}
	refs, err = selectRefs(refs, args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("models push needs store.addrs")
	}
	defer store.Close()

	force, _ := cmd.Flags().GetBool("force")
	results, err := pushArtifacts(ctx, store, registry.FileSource{Dir: cfg.Models.Dir}, refs, force)
	renderPushTable(cmd.OutOrStdout(), results)
	return err
}

// selectRefs narrows refs to the conditions named in args. No args keeps all.
func selectRefs(refs map[condition.Kind]string, args []string) (map[condition.Kind]string, error) {
	if len(args) == 0 {
		return refs, nil
	}
	out := make(map[condition.Kind]string, len(args))
	for _, a := range args {
		k, err := condition.Parse(a)
		if err != nil {
			return nil, err
		}
		ref, ok := refs[k]
		if !ok {
			return nil, fmt.Errorf("no artifact path configured for %s", k)
		}
		out[k] = ref
	}
	return out, nil
}

// pushArtifacts validates each artifact the same way serving does and uploads
// the valid ones. Existing keys are kept unless force is set.
func pushArtifacts(
	ctx context.Context,
	kv kvWriter,
	src registry.ArtifactSource,
	refs map[condition.Kind]string,
	force bool,
) ([]pushResult, error) {
	reg := registry.Load(ctx, refs, registry.WithSource(src))

	var results []pushResult
	var errs []error
	for _, st := range reg.Status() {
		if _, ok := refs[st.Condition]; !ok {
			continue
		}
		res := pushResult{Condition: st.Condition, Key: registry.KVKey(st.Condition)}
		res.Action, res.Err = pushOne(ctx, kv, src, st, res.Key, force)
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", st.Condition, res.Err))
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}

func pushOne(
	ctx context.Context,
	kv kvWriter,
	src registry.ArtifactSource,
	st registry.Status,
	key string,
	force bool,
) (string, error) {
	if !st.Available() {
		return "invalid", st.Err
	}
	if !force {
		exists, err := kv.Exists(ctx, key)
		if err != nil {
			return "failed", fmt.Errorf("check %s: %w", key, err)
		}
		if exists {
			return "skipped", nil
		}
	}
	data, err := src.Read(ctx, st.Ref)
	if err != nil {
		return "failed", fmt.Errorf("read %s: %w", st.Ref, err)
	}
	if err := kv.Set(ctx, key, data); err != nil {
		return "failed", fmt.Errorf("set %s: %w", key, err)
	}
	return "pushed", nil
}

func renderPushTable(w io.Writer, results []pushResult) {
	table := newTable(w)
	table.SetHeader([]string{"Condition", "Key", "Result"})
	for _, r := range results {
		result := r.Action
		if r.Err != nil {
			result += ": " + r.Err.Error()
		}
		table.Append([]string{r.Condition.String(), r.Key, result})
	}
	table.Render()
}

func newTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

