package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fitchat/chat"
	"fitchat/ui"
)

func init() {
	rootCmd.AddCommand(providersCmd)
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the supported providers and their models",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprint(cmd.OutOrStdout(), ui.ProvidersTable(chat.ListProviders(), termWidth()))
		return nil
	},
}
