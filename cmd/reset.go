package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ykarpov/tolmach/internal/drafts"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the local draft cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		dbPath, err := resolveDBPath(cfg.Drafts.Path)
		if err != nil {
			return fmt.Errorf("resolve draft cache path: %w", err)
		}

		store, err := drafts.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open draft cache: %w", err)
		}
		defer store.Close()

		if err := store.Purge(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Draft cache cleared:", dbPath)
		return nil
	},
}
