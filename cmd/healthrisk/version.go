package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Pawan-142/healthrisk/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "healthrisk", version.String())
	},
}
