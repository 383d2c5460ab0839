package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/karolswdev/promptarchitect/internal/config"
)

// newConfigShowCmd builds the show command
func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current Prompt Architect configuration",
		Long: `Displays the currently loaded configuration values
from config files and environment variables. The API key itself is never printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("output")
			return configShowRunE(&DefaultConfigProvider{}, &defaultKeyringClient{}, cmd.OutOrStdout(), format)
		},
	}
}

// shownConfig is the machine-readable form of 'config show'.
type shownConfig struct {
	Config    *config.AppConfig `json:"config" yaml:"config"`
	APIKeySet bool              `json:"api_key_set" yaml:"api_key_set"`
}

// configShowRunE contains the core logic for the 'config show' command.
func configShowRunE(cfgProvider ConfigProvider, keyringClient KeyringClient, writer io.Writer, format string) error {
	cfg, err := cfgProvider.LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	_, keyErr := keyringClient.GetAPIKey(config.KeyringServiceName, config.KeyringUserName)

	switch format {
	case "json":
		data, err := json.MarshalIndent(shownConfig{Config: cfg, APIKeySet: keyErr == nil}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format configuration as JSON: %w", err)
		}
		fmt.Fprintln(writer, string(data))
		return nil
	case "yaml":
		data, err := yaml.Marshal(shownConfig{Config: cfg, APIKeySet: keyErr == nil})
		if err != nil {
			return fmt.Errorf("failed to format configuration as YAML: %w", err)
		}
		fmt.Fprint(writer, string(data))
		return nil
	}

	fmt.Fprintln(writer, "Current Prompt Architect Configuration:")
	fmt.Fprintf(writer, "  LLM Model:      %s\n", cfg.LLM.ModelName)
	fmt.Fprintf(writer, "  LLM Base URL:   %s\n", cfg.LLM.BaseURL)
	fmt.Fprintf(writer, "  Server Addr:    %s\n", cfg.Server.Addr)
	fmt.Fprintf(writer, "  Session TTL:    %s\n", cfg.Server.SessionTTL)
	fmt.Fprintf(writer, "  Copy Reset:     %s\n", cfg.CopyReset)

	apiKeyStatus := "Set (use 'parch config set-key' to change)"
	if keyErr != nil {
		if errors.Is(keyErr, config.ErrAPIKeyNotFound) {
			apiKeyStatus = "Not Set (use 'parch config set-key' to set)"
		} else {
			apiKeyStatus = fmt.Sprintf("Status Unknown (error checking keychain/env: %v)", keyErr)
		}
	}
	fmt.Fprintf(writer, "  LLM API Key:    %s\n", apiKeyStatus)

	return nil
}
