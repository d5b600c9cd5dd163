package main

import (
	"fmt"
	"io"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/Pawan-142/healthrisk/internal/domain/condition"
	"github.com/Pawan-142/healthrisk/internal/domain/schema"
)

var schemaCmd = &cobra.Command{
	Use:   "schema [condition]",
	Short: "Print the feature schema of one or all conditions",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kinds := condition.All()
		if len(args) == 1 {
			k, err := condition.Parse(args[0])
			if err != nil {
				return err
			}
			kinds = []condition.Kind{k}
		}
		for i, k := range kinds {
			if i > 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
			}
			renderSchema(cmd.OutOrStdout(), schema.For(k))
		}
		return nil
	},
}

func renderSchema(w io.Writer, sch schema.Schema) {
	_, _ = fmt.Fprintln(w, color.Bold.Sprintf("%s (%s)", sch.Kind.DisplayName(), sch.Version))

	table := newTable(w)
	table.SetHeader([]string{"#", "Field", "Label", "Unit", "Type", "Range", "Default"})
	for i, f := range sch.Fields {
		table.Append([]string{
			fmt.Sprint(i + 1),
			f.Name,
			f.Label,
			orDash(f.Unit),
			string(f.Kind),
			fmt.Sprintf("%g..%g", f.Min, f.Max),
			fmt.Sprintf("%g", f.Default),
		})
	}
	table.Render()
}
