package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Pawan-142/healthrisk/internal/config"
	logpkg "github.com/Pawan-142/healthrisk/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:          "healthrisk",
	Short:        "Health risk prediction service",
	Long:         "healthrisk serves pretrained classifiers for diabetes, heart, liver, kidney and Parkinson's disease risk.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides the ENV lookup)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log model loading to stderr")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves configuration from --config when given, otherwise from
// config/<ENV>.yaml.
func loadConfig(cmd *cobra.Command) (config.Config, string, error) {
	env := config.GetEnv()
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		cfg, err := config.LoadFile(p)
		return cfg, env, err
	}
	cfg, err := config.Load(env)
	return cfg, env, err
}

// cliLogger keeps one-shot commands quiet unless --verbose is set.
func cliLogger(cmd *cobra.Command, env string, cfg config.Config) (*zap.Logger, error) {
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		return logpkg.NewLogger(env, cfg.Logging.Level)
	}
	return logpkg.NewLogger(env, "error")
}
