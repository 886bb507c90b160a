package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "copywatch",
	Short: "Content-policy guard for ad copy and video scripts",
	Long:  "Checks generated text against a store of forbidden-word and forbidden-pairing rules, with an optional AI second pass for paraphrased violations. Deterministic findings first, judgment second.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to config YAML (default ~/.copywatch/config.yaml)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
