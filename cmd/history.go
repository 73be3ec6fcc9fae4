package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ykarpov/tolmach/internal/api"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent grading rounds",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.Practice.InitData == "" {
			return fmt.Errorf("no identity configured: set TOLMACH_INIT_DATA or practice.init_data")
		}

		limit, _ := cmd.Flags().GetInt("limit")
		client := api.NewClient(cfg.Server.BaseURL, cfg.Server.Timeout)

		items, err := client.History(cmd.Context(), cfg.Practice.InitData, limit)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("No submissions yet.")
			return nil
		}

		for _, item := range items {
			fmt.Printf("#%d\n", item.ID)
			fmt.Println("  original:   ", flatten(item.OriginalText))
			fmt.Println("  translation:", flatten(item.UserTranslation))
			if item.Result != "" {
				fmt.Println("  result:     ", flatten(item.Result))
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of rounds to show")
}

func flatten(text string) string {
	return strings.Join(strings.Split(text, "\n"), " | ")
}
