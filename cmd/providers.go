package cmd

import (
	"errors"
	"fmt"

	keyring "github.com/zalando/go-keyring"

	"github.com/karolswdev/promptarchitect/internal/config"
	"github.com/karolswdev/promptarchitect/internal/form"
	"github.com/karolswdev/promptarchitect/internal/llm"
)

// --- Concrete Implementations of Shared Interfaces ---

// DefaultConfigProvider implements the ConfigProvider interface using the actual config package functions.
// Exported for use in integration tests.
type DefaultConfigProvider struct{}

func (p *DefaultConfigProvider) LoadConfig() (*config.AppConfig, error) {
	return config.LoadConfig("")
}

func (p *DefaultConfigProvider) GetAPIKey() (string, error) {
	return config.GetAPIKey()
}

// CreateDefaultConfigFiles calls the underlying config function to create default files.
// It ignores the configDir parameter as the underlying function determines the path.
func (p *DefaultConfigProvider) CreateDefaultConfigFiles(configDir string) error {
	return config.CreateDefaultConfigFiles("")
}

// EnsureConfigDir calls the underlying config function to ensure the config directory exists.
func (p *DefaultConfigProvider) EnsureConfigDir() (string, error) {
	return config.EnsureConfigDir("")
}

// --- Keyring Client Implementation ---

// defaultKeyringClient implements the KeyringClient interface using the actual keyring package.
type defaultKeyringClient struct{}

// Set calls the underlying keyring package's Set function.
func (k *defaultKeyringClient) Set(service, user, password string) error {
	return keyring.Set(service, user, password)
}

// GetAPIKey resolves the key the same way the enhancer does (keychain, then env).
// service and user are fixed by the config package and only kept for the interface.
func (k *defaultKeyringClient) GetAPIKey(service, user string) (string, error) {
	return config.GetAPIKey()
}

// --- Central Provider ---

// Provider serves as a central dependency injection container, aggregating the
// configuration, keyring and enhancer required by the application's commands.
// This structure simplifies passing dependencies down the call stack and
// facilitates mocking during testing.
type Provider struct {
	Config    ConfigProvider
	Keyring   KeyringClient
	AppConfig *config.AppConfig
	Enhancer  form.Enhancer
}

// GetProvider loads the configuration and builds the shared enhancer. The API
// key is resolved exactly once here. A missing key is not an error: the
// enhancer then fails every call with llm.ErrMissingCredential, which the
// surfaces show to the user.
func GetProvider() (*Provider, error) {
	return newProvider(&DefaultConfigProvider{}, &defaultKeyringClient{})
}

func newProvider(cfgProvider ConfigProvider, keyringClient KeyringClient) (*Provider, error) {
	appCfg, err := cfgProvider.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load application config: %w", err)
	}

	var client llm.Client
	apiKey, keyErr := cfgProvider.GetAPIKey()
	switch {
	case keyErr == nil:
		Log.Debug().Str("model", appCfg.LLM.ModelName).Str("base_url", appCfg.LLM.BaseURL).Msg("Initializing LLM client")
		c, err := llm.NewOpenAIClientFromKey(apiKey, appCfg.LLM.BaseURL, appCfg.LLM.ModelName)
		if err != nil {
			Log.Warn().Err(err).Msg("Failed to initialize LLM client. Enhancement will fail.")
		} else {
			client = c
		}
	case errors.Is(keyErr, config.ErrAPIKeyNotFound):
		Log.Warn().Msg("No API key configured. Enhancement will fail until one is set.")
	default:
		Log.Warn().Err(keyErr).Msg("Failed to read API key. Enhancement will fail.")
	}

	provider := &Provider{
		Config:    cfgProvider,
		Keyring:   keyringClient,
		AppConfig: appCfg,
		Enhancer:  llm.NewEnhancer(client),
	}

	Log.Debug().Bool("credential", client != nil).Msg("Service Provider initialized successfully.")
	return provider, nil
}
