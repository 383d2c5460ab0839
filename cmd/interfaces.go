package cmd

import (
	"github.com/karolswdev/promptarchitect/internal/config"
)

// ConfigProvider defines an interface for components that load the Prompt
// Architect configuration and API key, and manage the configuration directory
// and default files. This abstraction allows for easier testing by mocking
// configuration loading behavior.
type ConfigProvider interface {
	LoadConfig() (*config.AppConfig, error)
	GetAPIKey() (string, error)
	CreateDefaultConfigFiles(configDir string) error
	EnsureConfigDir() (string, error)
}

// KeyringClient defines an interface for components that interact with the
// operating system's secure credential store (keychain/keyring). It abstracts
// the operations of setting and retrieving secrets, specifically the LLM API key.
type KeyringClient interface {
	Set(service, user, password string) error
	GetAPIKey(service, user string) (string, error)
}

// The enhancer and clipboard seams are form.Enhancer and form.Clipboard.
