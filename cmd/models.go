package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/litware/littui/internal/config"
	"github.com/litware/littui/internal/ollama"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models installed on the Ollama server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		client := ollama.NewClient(&ollama.ClientConfig{
			BaseURL: cfg.Ollama.BaseURL,
			Timeout: cfg.OllamaTimeout(),
		})

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		models, err := client.ListModels(ctx)
		if err != nil {
			if ollama.IsNotRunning(err) {
				return fmt.Errorf("cannot reach Ollama at %s, is the server running?", cfg.Ollama.BaseURL)
			}
			return err
		}

		if len(models) == 0 {
			fmt.Println("No models installed. Pull one with `ollama pull llama3.2`.")
			return nil
		}

		for _, m := range models {
			fmt.Printf("%-40s %10s  %s\n", m.Name, formatSize(m.Size), m.ModifiedAt.Format("2006-01-02"))
		}
		return nil
	},
}

func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
