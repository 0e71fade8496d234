// Package cmd defines the littui command line interface.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/litware/littui/internal/app"
)

var rootCmd = &cobra.Command{
	Use:   "littui",
	Short: "A terminal chat client for local Ollama models",
	Long: `littui is a terminal chat client for local Ollama models with
optional MCP tool servers. Sessions are saved as JSON under ~/.littui.

Run without arguments to open the chat UI.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.NewApplication()
		if err != nil {
			return err
		}
		defer application.Stop()
		return application.Start()
	},
}

func Execute() error {
	return rootCmd.Execute()
}
