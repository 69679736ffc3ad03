package config

import (
	"fmt"
	"strconv"
	"strings"

	"fitchat/provider"
)

// SettableKeys lists the keys accepted by UpdateField.
var SettableKeys = []string{
	"provider", "model", "history_limit",
	"ollama.host",
	"azure.endpoint", "azure.deployment", "azure.api_version",
	"sampling.temperature", "sampling.max_tokens",
	"security.method", "security.ssh_key_path",
	"logging.level", "logging.file",
}

// UpdateField sets one key in the config file at path and saves it.
// Provider ids are checked against the registry.
func UpdateField(path, key, value string) error {
	cfg, err := LoadUserConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := setField(cfg, key, strings.TrimSpace(value)); err != nil {
		return err
	}

	if err := SaveUserConfig(cfg, path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

func setField(cfg *UserConfig, key, value string) error {
	switch key {
	case "provider":
		id := provider.ProviderID(strings.ToLower(value))
		if _, err := provider.Describe(id); err != nil {
			return err
		}
		cfg.Provider = string(id)
	case "model":
		cfg.Model = value
	case "history_limit":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("history_limit must be a non-negative integer, got %q", value)
		}
		cfg.HistoryLimit = n
	case "ollama.host":
		cfg.Ollama.Host = value
	case "azure.endpoint":
		cfg.Azure.Endpoint = value
	case "azure.deployment":
		cfg.Azure.Deployment = value
	case "azure.api_version":
		cfg.Azure.APIVersion = value
	case "sampling.temperature":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 || f > 2 {
			return fmt.Errorf("sampling.temperature must be between 0 and 2, got %q", value)
		}
		cfg.Sampling.Temperature = f
	case "sampling.max_tokens":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n <= 0 {
			return fmt.Errorf("sampling.max_tokens must be a positive integer, got %q", value)
		}
		cfg.Sampling.MaxTokens = n
	case "security.method":
		switch m := SecurityMethod(value); m {
		case SecurityPlainText, SecuritySSHKey:
			cfg.Security.Method = m
		default:
			return fmt.Errorf("unknown security method: %s", value)
		}
	case "security.ssh_key_path":
		cfg.Security.SSHKeyPath = value
	case "logging.level":
		cfg.Logging.Level = value
	case "logging.file":
		cfg.Logging.File = value
	default:
		return fmt.Errorf("unknown config key %q (settable: %s)", key, strings.Join(SettableKeys, ", "))
	}

	return nil
}
