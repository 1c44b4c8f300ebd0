package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the ferry command tree.
func NewRootCmd() *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:          "ferry",
		Short:        "Ferry deck lane allocator",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file (defaults apply when missing)")
	root.AddCommand(newLoadCmd(&cfgPath), newClassifyCmd(), newStrategiesCmd())
	return root
}

// Execute runs the CLI.
func Execute() error { return NewRootCmd().Execute() }
