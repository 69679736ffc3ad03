package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fitchat/chat"
	"fitchat/ollama"
	"fitchat/ui"
)

func init() {
	rootCmd.AddCommand(ollamaCmd)
	ollamaCmd.AddCommand(ollamaProbeCmd, ollamaModelsCmd)
}

var ollamaCmd = &cobra.Command{
	Use:   "ollama",
	Short: "Inspect local Ollama servers",
}

var ollamaProbeCmd = &cobra.Command{
	Use:   "probe [endpoint...]",
	Short: "Check that Ollama servers are reachable and list their models",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoints := args
		if len(endpoints) == 0 {
			endpoints = []string{cfg.Ollama.Host}
		}

		for _, r := range ollama.ProbeAll(cmd.Context(), endpoints) {
			fmt.Fprint(cmd.OutOrStdout(), ui.FormatProbe(r))
		}
		return nil
	},
}

var ollamaModelsCmd = &cobra.Command{
	Use:   "models [endpoint]",
	Short: "Print the models pulled on an Ollama server, one per line",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := cfg.Ollama.Host
		if len(args) == 1 {
			endpoint = args[0]
		}

		r := chat.ProbeLocalServer(cmd.Context(), endpoint)
		if !r.Reachable {
			return fmt.Errorf("%s: %s", r.Endpoint, r.Message)
		}
		for _, m := range r.Models {
			fmt.Fprintln(cmd.OutOrStdout(), m)
		}
		return nil
	},
}
