package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"fitchat/config"
)

const (
	Version = "v0.1.0"
	License = "Apache-2.0"
)

var (
	configPath   string
	providerFlag string
	modelFlag    string
	apiKeyFlag   string

	cfg        *config.Config
	closeLogFn = func() {}
)

var rootCmd = &cobra.Command{
	Use:           "fitchat",
	Short:         "Chat with an LLM about your fitness data",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is normal.
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}

		c, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if providerFlag != "" {
			c.Provider = providerFlag
		}
		if modelFlag != "" {
			c.Model = modelFlag
		}
		cfg = c

		logger, closeLog := config.NewLogger(cfg.Logging, os.Stderr)
		slog.SetDefault(logger)
		closeLogFn = closeLog

		slog.Debug("configuration loaded",
			"path", cfg.Path,
			"data_dir", cfg.DataDir(),
			"provider", cfg.Provider,
			"model", cfg.Model,
		)
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default <data dir>/config.toml)")
	pf.StringVarP(&providerFlag, "provider", "p", "", "provider id: xai, openai, azure, gemini, anthropic or ollama")
	pf.StringVarP(&modelFlag, "model", "m", "", "model id (default: the provider's default model)")
	pf.StringVar(&apiKeyFlag, "api-key", "", "API key (default: $"+config.EnvAPIKey+" or the credential store)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	closeLogFn()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
