package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fitchat/provider"
)

type OllamaConfig struct {
	Host string `toml:"host"`
}

type AzureConfig struct {
	Endpoint   string `toml:"endpoint"`
	Deployment string `toml:"deployment"`
	APIVersion string `toml:"api_version"`
}

type SamplingConfig struct {
	Temperature float64 `toml:"temperature"`
	MaxTokens   int64   `toml:"max_tokens"`
}

type SecurityConfig struct {
	Method     SecurityMethod `toml:"method"`
	SSHKeyPath string         `toml:"ssh_key_path,omitempty"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file,omitempty"`
}

// UserConfig mirrors config.toml.
type UserConfig struct {
	Provider     string         `toml:"provider"`
	Model        string         `toml:"model,omitempty"`
	HistoryLimit int            `toml:"history_limit"`
	Ollama       OllamaConfig   `toml:"ollama"`
	Azure        AzureConfig    `toml:"azure"`
	Sampling     SamplingConfig `toml:"sampling"`
	Security     SecurityConfig `toml:"security"`
	Logging      LoggingConfig  `toml:"logging"`
}

// Config is the resolved configuration: file values with defaults filled in
// and environment overrides applied.
type Config struct {
	UserConfig

	DataDirectory string
	Path          string
}

// Environment variables that override config.toml.
const (
	EnvProvider        = "FITCHAT_PROVIDER"
	EnvModel           = "FITCHAT_MODEL"
	EnvAPIKey          = "FITCHAT_API_KEY"
	EnvOllamaHost      = "FITCHAT_OLLAMA_HOST"
	EnvAzureEndpoint   = "FITCHAT_AZURE_ENDPOINT"
	EnvAzureDeployment = "FITCHAT_AZURE_DEPLOYMENT"
	EnvAzureAPIVersion = "FITCHAT_AZURE_API_VERSION"
	EnvDataDir         = "FITCHAT_DATA_DIR"
	EnvLogLevel        = "FITCHAT_LOG_LEVEL"
	EnvDebug           = "FITCHAT_DEBUG"
	EnvSSHPassphrase   = "FITCHAT_SSH_PASSPHRASE"
)

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

// ProviderConfig builds the provider configuration for apiKey.
func (c *Config) ProviderConfig(apiKey string) provider.Config {
	opts := map[string]string{}
	if c.Ollama.Host != "" {
		opts[provider.OptionLocalEndpoint] = c.Ollama.Host
	}
	if c.Azure.Endpoint != "" {
		opts[provider.OptionAzureEndpoint] = c.Azure.Endpoint
	}
	if c.Azure.Deployment != "" {
		opts[provider.OptionAzureDeployment] = c.Azure.Deployment
	}
	if c.Azure.APIVersion != "" {
		opts[provider.OptionAzureAPIVersion] = c.Azure.APIVersion
	}

	return provider.Config{
		Provider: provider.ProviderID(strings.ToLower(strings.TrimSpace(c.Provider))),
		APIKey:   apiKey,
		Model:    c.Model,
		Options:  opts,
	}
}

// SamplingParams returns the generation limits, falling back to the defaults
// for invalid values.
func (c *Config) SamplingParams() provider.Sampling {
	s := provider.DefaultSampling()
	if c.Sampling.Temperature >= 0 {
		s.Temperature = c.Sampling.Temperature
	}
	if c.Sampling.MaxTokens > 0 {
		s.MaxTokens = c.Sampling.MaxTokens
	}
	return s
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvProvider); v != "" {
		c.Provider = v
	}
	if v := os.Getenv(EnvModel); v != "" {
		c.Model = v
	}
	if v := os.Getenv(EnvOllamaHost); v != "" {
		c.Ollama.Host = v
	}
	if v := os.Getenv(EnvAzureEndpoint); v != "" {
		c.Azure.Endpoint = v
	}
	if v := os.Getenv(EnvAzureDeployment); v != "" {
		c.Azure.Deployment = v
	}
	if v := os.Getenv(EnvAzureAPIVersion); v != "" {
		c.Azure.APIVersion = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
}

// ResolveDataDir returns the data directory: FITCHAT_DATA_DIR when set,
// otherwise the platform default.
func ResolveDataDir() string {
	if v := os.Getenv(EnvDataDir); v != "" {
		return ExpandPath(v)
	}
	return GetDefaultDataDir()
}

// Load reads the configuration file at path. An empty path selects
// config.toml in the data directory, which is created with the commented
// template when missing.
func Load(path string) (*Config, error) {
	cfg := &Config{
		UserConfig:    *DefaultUserConfig(),
		DataDirectory: ResolveDataDir(),
	}

	if path == "" {
		dataDir := cfg.DataDir()
		if err := EnsureDataDirPermissions(dataDir); err != nil {
			return nil, fmt.Errorf("failed to prepare data directory: %w", err)
		}
		if err := CreateDefaultUserConfig(dataDir); err != nil {
			return nil, err
		}
		path = filepath.Join(dataDir, "config.toml")
	}
	cfg.Path = ExpandPath(path)

	userCfg, err := LoadUserConfig(cfg.Path)
	if err != nil {
		return nil, err
	}
	cfg.UserConfig = *userCfg

	cfg.applyEnvOverrides()

	return cfg, nil
}
