package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zalando/go-keyring"

	"github.com/spf13/viper"

	"github.com/karolswdev/promptarchitect/internal/llm"
)

const (
	// DefaultConfigFileName is the standard name for the main configuration file.
	DefaultConfigFileName = "config.yaml"
	// DefaultConfigDirName is the standard name for the configuration directory within the user's home directory.
	DefaultConfigDirName = ".promptarchitect"
	// ConfigDirEnvVar is the environment variable used to override the default configuration directory path.
	ConfigDirEnvVar = "PARCH_CONFIG_DIR"
	// EnvPrefix is the prefix for environment overrides of config keys (llm.model_name -> PARCH_LLM_MODEL_NAME).
	EnvPrefix = "PARCH"
)

// Defaults applied when neither the config file nor the environment set a key.
const (
	DefaultModelName  = llm.DefaultModel
	DefaultBaseURL    = llm.DefaultBaseURL
	DefaultServerAddr = "127.0.0.1:8080"
	DefaultSessionTTL = time.Hour
	DefaultCopyReset  = 2 * time.Second
)

// EnsureConfigDir checks if the configuration directory exists, creating it if necessary.
// It prioritizes baseDir if provided. If baseDir is empty, it checks the PARCH_CONFIG_DIR
// environment variable, then falls back to ~/.promptarchitect.
// The directory is created with 0700 permissions.
func EnsureConfigDir(baseDir string) (string, error) {
	var configDirPath string

	if baseDir != "" {
		configDirPath = baseDir
		log.Debug().Str("path", configDirPath).Msg("Using provided base directory path")
	} else if envDir := os.Getenv(ConfigDirEnvVar); envDir != "" {
		configDirPath = envDir
		log.Debug().Str("path", configDirPath).Str("env_var", ConfigDirEnvVar).Msg("Using config directory path from environment variable")
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		configDirPath = filepath.Join(homeDir, DefaultConfigDirName)
		log.Debug().Str("path", configDirPath).Msg("Using default config directory path")
	}

	info, err := os.Stat(configDirPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info().Str("path", configDirPath).Msg("Config directory does not exist, attempting to create")
			if mkdirErr := os.MkdirAll(configDirPath, 0700); mkdirErr != nil {
				log.Error().Err(mkdirErr).Str("path", configDirPath).Msg("Failed to create config directory")
				return "", fmt.Errorf("%w: %w", ErrConfigDirCreate, mkdirErr)
			}
			log.Info().Str("path", configDirPath).Msg("Successfully created config directory")
			return configDirPath, nil
		}
		log.Error().Err(err).Str("path", configDirPath).Msg("Failed to stat config directory path")
		return "", fmt.Errorf("%w: %w", ErrConfigDirStat, err)
	}

	if !info.IsDir() {
		log.Error().Str("path", configDirPath).Msg("Config path exists but is not a directory")
		return "", ErrConfigDirNotDir
	}

	log.Debug().Str("path", configDirPath).Msg("Config directory exists and is a directory")
	return configDirPath, nil
}

// LLMConfig holds settings for the OpenAI-compatible text-generation endpoint.
// The API key is handled separately via keyring/env var (GetAPIKey).
type LLMConfig struct {
	ModelName string `mapstructure:"model_name" json:"model_name" yaml:"model_name"`
	BaseURL   string `mapstructure:"base_url" json:"base_url" yaml:"base_url"`
}

// ServerConfig holds settings for 'parch serve'.
type ServerConfig struct {
	Addr       string        `mapstructure:"addr" json:"addr" yaml:"addr"`
	SessionTTL time.Duration `mapstructure:"session_ttl" json:"session_ttl" yaml:"session_ttl"`
}

// AppConfig holds the overall application configuration.
type AppConfig struct {
	LLM       LLMConfig     `mapstructure:"llm" json:"llm" yaml:"llm"`
	Server    ServerConfig  `mapstructure:"server" json:"server" yaml:"server"`
	CopyReset time.Duration `mapstructure:"copy_reset" json:"copy_reset" yaml:"copy_reset"`
}

// LoadConfig loads the application configuration from config.yaml in the config directory,
// environment variables (PARCH_*), and defaults.
// If baseDir is empty, the directory is resolved by EnsureConfigDir.
func LoadConfig(baseDir string) (*AppConfig, error) {
	configDir, err := EnsureConfigDir(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure config directory: %w", err)
	}

	v := viper.New()

	v.SetDefault("llm.model_name", DefaultModelName)
	v.SetDefault("llm.base_url", DefaultBaseURL)
	v.SetDefault("server.addr", DefaultServerAddr)
	v.SetDefault("server.session_ttl", DefaultSessionTTL)
	v.SetDefault("copy_reset", DefaultCopyReset)

	configPath := filepath.Join(configDir, DefaultConfigFileName)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	log.Debug().Str("path", configPath).Msg("Attempting to load config file")

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	err = v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Warn().Str("path", configPath).Msg("Config file not found. Using defaults and environment variables.")
		} else {
			log.Error().Err(err).Str("path", configPath).Msg("Failed to read config file")
			return nil, fmt.Errorf("%w: %w", ErrConfigRead, err)
		}
	} else {
		log.Debug().Str("path", configPath).Msg("Read config file successfully")
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		log.Error().Err(err).Str("path", configPath).Msg("Failed to unmarshal config file")
		return nil, fmt.Errorf("%w: %w", ErrConfigParse, err)
	}
	log.Debug().Str("path", configPath).Interface("config", cfg).Msg("Unmarshalled config successfully")

	return &cfg, nil
}

// --- Default File Creation ---

const defaultConfigYAML = `# User-specific configuration for Prompt Architect (parch)
# Located at ~/.promptarchitect/config.yaml
# Every key can be overridden with a PARCH_ environment variable,
# e.g. PARCH_LLM_MODEL_NAME or PARCH_SERVER_ADDR.

# OpenAI-compatible text-generation endpoint.
llm:
  # Model identifier sent with every request.
  model_name: "gemini-2.5-flash"
  # Base URL of the chat completions API. The default is Gemini's
  # OpenAI-compatible endpoint; point it at any compatible proxy if needed.
  base_url: "https://generativelanguage.googleapis.com/v1beta/openai"
  # The API key is NOT stored here. Use 'parch config set-key <key>'
  # or set PARCH_API_KEY / API_KEY.

# Settings for 'parch serve'.
server:
  addr: "127.0.0.1:8080"
  # Browser sessions idle for longer than this are discarded.
  session_ttl: "1h"

# How long the "Copied" confirmation stays visible.
copy_reset: "2s"
`

// writeFileIfNotExists checks if a file exists. If not, it writes the provided content.
func writeFileIfNotExists(filePath string, content string, perm os.FileMode) error {
	_, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info().Str("path", filePath).Msg("File does not exist, attempting to write default content")
			if errWrite := os.WriteFile(filePath, []byte(content), perm); errWrite != nil {
				log.Error().Err(errWrite).Str("path", filePath).Msg("Failed to write default file content")
				return fmt.Errorf("%w: %w", ErrDefaultFileWrite, errWrite)
			}
			log.Info().Str("path", filePath).Msg("Successfully wrote default file content")
			return nil
		}
		log.Error().Err(err).Str("path", filePath).Msg("Failed to stat file path")
		return fmt.Errorf("%w: %w", ErrDefaultFileStat, err)
	}
	log.Debug().Str("path", filePath).Msg("File already exists, no action needed")
	return nil
}

// CreateDefaultConfigFiles ensures the configuration directory exists and writes
// a commented config.yaml into it unless one is already present.
func CreateDefaultConfigFiles(baseDir string) error {
	configDir, err := EnsureConfigDir(baseDir)
	if err != nil {
		return fmt.Errorf("failed to ensure config directory: %w", err)
	}
	return writeFileIfNotExists(filepath.Join(configDir, DefaultConfigFileName), defaultConfigYAML, 0600)
}

// --- API Key Handling ---

const (
	// KeyringServiceName and KeyringUserName identify the API key in the OS keychain.
	KeyringServiceName = "promptarchitect"
	KeyringUserName    = "llm_api_key"
	// EnvAPIKeyName is checked when the keychain has no key.
	EnvAPIKeyName = "PARCH_API_KEY"
	// EnvAPIKeyFallback is the plain variable name checked last.
	EnvAPIKeyFallback = "API_KEY"
)

// keyringGet is swapped in tests.
var keyringGet = keyring.Get

// GetAPIKey retrieves the LLM API key.
// It first tries the OS keychain, then the PARCH_API_KEY and API_KEY environment variables.
// If none holds a key, it returns ErrAPIKeyNotFound.
func GetAPIKey() (string, error) {
	log.Debug().Str("service", KeyringServiceName).Str("user", KeyringUserName).Msg("Attempting to get API key from keychain")
	key, err := keyringGet(KeyringServiceName, KeyringUserName)
	if err == nil && key != "" {
		log.Debug().Msg("API key retrieved successfully (from keychain)")
		return key, nil
	}

	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		// Headless machines often have no secret service; fall through to the
		// environment but keep the failure if that is empty too.
		log.Warn().Err(err).Str("service", KeyringServiceName).Msg("Error reading key from keychain, checking environment")
	}

	for _, name := range []string{EnvAPIKeyName, EnvAPIKeyFallback} {
		if key := os.Getenv(name); key != "" {
			log.Debug().Str("env_var", name).Msg("API key retrieved successfully (from env var)")
			return key, nil
		}
	}

	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("%w: %w", ErrKeyringGet, err)
	}
	log.Warn().Str("env_var", EnvAPIKeyName).Msg("API key not found in keychain or environment")
	return "", ErrAPIKeyNotFound
}

// SetAPIKey stores the LLM API key securely in the OS keychain/keyring.
func SetAPIKey(apiKey string) error {
	log.Debug().Str("service", KeyringServiceName).Str("user", KeyringUserName).Msg("Attempting to set API key in keychain")
	if err := keyring.Set(KeyringServiceName, KeyringUserName, apiKey); err != nil {
		log.Error().Err(err).Str("service", KeyringServiceName).Msg("Failed to set API key in keychain")
		return fmt.Errorf("%w: %w", ErrKeyringSet, err)
	}
	log.Info().Str("service", KeyringServiceName).Msg("API key stored successfully in keychain")
	return nil
}
