package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"fitchat/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configPathCmd, configShowCmd, configSetCmd)
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "overwrite an existing config file")
}

var forceInit bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the commented default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if config.FileExists(cfg.Path) && !forceInit {
			fmt.Fprintf(cmd.OutOrStdout(), "%s already exists (use --force to overwrite)\n", cfg.Path)
			return nil
		}
		if err := os.WriteFile(cfg.Path, []byte(config.GenerateUserConfigTemplate()), 0600); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", cfg.Path)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file and data directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "config: %s\ndata:   %s\n", cfg.Path, cfg.DataDir())
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "provider:         %s\n", cfg.Provider)
		fmt.Fprintf(out, "model:            %s\n", orDefault(cfg.Model))
		fmt.Fprintf(out, "history_limit:    %d\n", cfg.HistoryLimit)
		fmt.Fprintf(out, "ollama.host:      %s\n", cfg.Ollama.Host)
		fmt.Fprintf(out, "azure.endpoint:   %s\n", orDefault(cfg.Azure.Endpoint))
		fmt.Fprintf(out, "azure.deployment: %s\n", orDefault(cfg.Azure.Deployment))
		fmt.Fprintf(out, "sampling:         temperature=%.2f max_tokens=%d\n", cfg.Sampling.Temperature, cfg.Sampling.MaxTokens)
		fmt.Fprintf(out, "security.method:  %s\n", cfg.Security.Method)
		fmt.Fprintf(out, "logging.level:    %s\n", cfg.Logging.Level)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value (" + strings.Join(config.SettableKeys, ", ") + ")",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.UpdateField(cfg.Path, args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
		return nil
	},
}

func orDefault(s string) string {
	if s == "" {
		return "(default)"
	}
	return s
}
