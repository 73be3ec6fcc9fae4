package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ykarpov/tolmach/internal/api"
)

var roomCmd = &cobra.Command{
	Use:   "room",
	Short: "Fetch a voice-room join token",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.Practice.InitData == "" {
			return fmt.Errorf("no identity configured: set TOLMACH_INIT_DATA or practice.init_data")
		}

		client := api.NewClient(cfg.Server.BaseURL, cfg.Server.Timeout)

		res, err := client.Bootstrap(cmd.Context(), cfg.Practice.InitData)
		if err != nil {
			return fmt.Errorf("sign in: %w", err)
		}

		name := res.User.Username
		if name == "" {
			name = res.User.FirstName
		}
		token, err := client.RoomToken(cmd.Context(), res.User.ID, name)
		if err != nil {
			return err
		}

		fmt.Println("Server:", cfg.Room.URL)
		fmt.Println("Token: ", token)
		return nil
	},
}
