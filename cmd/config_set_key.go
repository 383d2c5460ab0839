package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/karolswdev/promptarchitect/internal/config"
)

// newConfigSetKeyCmd builds the set-key command
func newConfigSetKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-key [api-key]",
		Short: "Stores the LLM API key securely in the OS keychain",
		Long: `Stores the LLM API key securely in the operating system's keychain or keyring.
This is the recommended way to configure the API key for Prompt Architect.
The key will be associated with the service '` + config.KeyringServiceName + `' and user '` + config.KeyringUserName + `'.
Alternatively set ` + config.EnvAPIKeyName + ` or ` + config.EnvAPIKeyFallback + `.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return configSetKeyRun(&defaultKeyringClient{}, cmd.OutOrStdout(), args[0])
		},
	}
}

// configSetKeyRun contains the core logic for the set-key command.
// It accepts dependencies (keyring client, writer) for testability.
func configSetKeyRun(kc KeyringClient, writer io.Writer, apiKey string) error {
	if apiKey == "" {
		return errors.New("API key cannot be empty")
	}

	log.Info().Msgf("Attempting to store API key in keychain for service '%s'...", config.KeyringServiceName)

	err := kc.Set(config.KeyringServiceName, config.KeyringUserName, apiKey)
	if err != nil {
		log.Error().Err(err).Msgf("Failed to store API key in keychain")
		return fmt.Errorf("failed to store API key in keychain: %w", err)
	}

	log.Info().Msg("API key stored successfully in keychain.")
	fmt.Fprintln(writer, "API key stored successfully.")
	return nil
}
