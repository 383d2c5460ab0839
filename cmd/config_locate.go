package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/karolswdev/promptarchitect/internal/config"
)

// configLocateRunE contains the core logic for the config locate command.
// It uses dependency injection for testability.
func configLocateRunE(cfgProvider ConfigProvider, out io.Writer) error {
	configDir, err := cfgProvider.EnsureConfigDir()
	if err != nil {
		return fmt.Errorf("error ensuring config directory: %w", err)
	}

	fmt.Fprintf(out, "Configuration directory: %s\n", configDir)
	fmt.Fprintln(out, "Expected configuration files:")
	fmt.Fprintf(out, "- %s\n", filepath.Join(configDir, config.DefaultConfigFileName))

	return nil
}

// newConfigLocateCmd builds the locate command
func newConfigLocateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locate",
		Short: "Locate Prompt Architect configuration files",
		Long: `Displays the paths to the configuration files being used by Prompt Architect.
The directory can be moved with the ` + config.ConfigDirEnvVar + ` environment variable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return configLocateRunE(&DefaultConfigProvider{}, cmd.OutOrStdout())
		},
	}
}
