package config

import "fitchat/provider"

func DefaultUserConfig() *UserConfig {
	s := provider.DefaultSampling()
	return &UserConfig{
		Provider: string(provider.Ollama),
		Ollama: OllamaConfig{
			Host: provider.DefaultLocalEndpoint,
		},
		Azure: AzureConfig{
			APIVersion: provider.DefaultAzureAPIVersion,
		},
		Sampling: SamplingConfig{
			Temperature: s.Temperature,
			MaxTokens:   s.MaxTokens,
		},
		Security: SecurityConfig{
			Method: SecurityPlainText,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func GenerateUserConfigTemplate() string {
	return `# fitchat configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

# Provider to chat with: xai, openai, azure, gemini, anthropic or ollama
provider = "ollama"

# Model id (leave empty for the provider's default; for Azure this may be the deployment)
# model = "gpt-4o"

# Number of question/answer pairs kept in memory (0 keeps the whole conversation)
history_limit = 0

[ollama]
# Local Ollama server
host = "http://localhost:11434"

[azure]
# Required when provider = "azure"
endpoint = ""
deployment = ""
api_version = "2024-02-15-preview"

[sampling]
temperature = 0.7
max_tokens = 2048

[security]
# How API keys are stored: "plaintext" (credentials.toml, 0600)
# or "ssh_key" (credentials.enc, encrypted with a key derived from an SSH key)
method = "plaintext"
# ssh_key_path = "~/.ssh/id_ed25519"

[logging]
# debug, info, warn or error
level = "info"
# Optional log file, rotated automatically
# file = "~/.local/share/fitchat/fitchat.log"
`
}
