package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/litware/littui/internal/config"
	"github.com/litware/littui/internal/storage"
	"github.com/litware/littui/internal/utils"
)

var sessionsLimit int

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List saved chat sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		store, err := storage.NewSessionStore(cfg.SessionsDir())
		if err != nil {
			return err
		}

		metas, err := store.List(sessionsLimit)
		if err != nil {
			return err
		}

		if len(metas) == 0 {
			fmt.Println("No saved sessions.")
			return nil
		}

		for _, m := range metas {
			fmt.Printf("%s  %-40s %3d messages  %s\n",
				m.ID, utils.Truncate(m.Title, 40), m.MessageCount, m.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func init() {
	sessionsCmd.Flags().IntVarP(&sessionsLimit, "limit", "n", 20, "maximum number of sessions to list")
	rootCmd.AddCommand(sessionsCmd)
}
