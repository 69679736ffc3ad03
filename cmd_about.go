package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fitchat/ui"
)

func init() {
	rootCmd.AddCommand(aboutCmd)
}

var aboutCmd = &cobra.Command{
	Use:   "about",
	Short: "Show version and license",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprint(cmd.OutOrStdout(), ui.RenderAbout(Version, License))
		return nil
	},
}
