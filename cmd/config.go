package cmd

import (
	"github.com/spf13/cobra"
)

// newConfigCmd builds the config command group
func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage Prompt Architect configuration",
		Long: `Provides commands to show, locate, and manage Prompt Architect configuration files.
This command itself does not perform any action but serves as a parent for subcommands.`,
	}
	configCmd.AddCommand(newConfigInitCmd())
	configCmd.AddCommand(newConfigLocateCmd())
	configCmd.AddCommand(newConfigShowCmd())
	configCmd.AddCommand(newConfigSetKeyCmd())
	return configCmd
}
