package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "cartonex",
	Short: "Cartonex gateway - LLM edge proxy for packaging cost estimation",
	Long: `Cartonex gateway sits between the packaging cost estimation chat
client and the upstream LLM provider.

It provides:
  - Request validation and shared-secret authentication
  - Per-IP fixed-window rate limiting
  - Task classification and two-tier model routing
  - Content-addressed response caching for deterministic tasks
  - Monthly token and cost accounting`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
