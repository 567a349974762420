package main

import (
	"github.com/spf13/cobra"
)

// newConfigCmd prints the configuration `serve` would run with, after the
// file and environment overrides are applied. Handy for checking what a
// GHLOOKUP_* variable actually changed. The session secret is redacted.
func newConfigCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			return cfg.Encode(cmd.OutOrStdout())
		},
	}
}
