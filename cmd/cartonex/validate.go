package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cartonex/gateway/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Load and validate the configuration file without starting the
gateway. Environment overrides are applied before validation, matching
what run would see.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		fmt.Println("✓ Configuration valid")
		if verbose {
			fmt.Printf("  listen address: %s\n", cfg.Server.ListenAddress)
			fmt.Printf("  store backend:  %s\n", cfg.Store.Backend)
			fmt.Printf("  upstream:       %s\n", cfg.Upstream.Name)
			fmt.Printf("  fast model:     %s\n", cfg.Upstream.FastModel)
			fmt.Printf("  capable model:  %s\n", cfg.Upstream.CapableModel)
			fmt.Printf("  rate limit:     %d per %s\n", cfg.RateLimit.Limit, cfg.RateLimit.Window)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
