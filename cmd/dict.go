package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ykarpov/tolmach/internal/api"
	"github.com/ykarpov/tolmach/internal/dict"
)

var dictCmd = &cobra.Command{
	Use:   "dict <word>",
	Short: "Look up a Russian word in the dictionary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.Practice.InitData == "" {
			return fmt.Errorf("no identity configured: set TOLMACH_INIT_DATA or practice.init_data")
		}

		client := api.NewClient(cfg.Server.BaseURL, cfg.Server.Timeout)
		svc := dict.NewService(client, cfg.Practice.InitData)

		entry, err := svc.Lookup(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		headline := entry.TranslationDE
		if entry.Article != "" {
			headline = entry.Article + " " + headline
		}
		fmt.Printf("%s — %s (%s)\n", entry.WordRU, headline, entry.PartOfSpeech)
		if entry.Forms != "" {
			fmt.Println("Forms:", entry.Forms)
		}
		if len(entry.Prefixes) > 0 {
			fmt.Println("Prefixes:", strings.Join(entry.Prefixes, ", "))
		}
		for _, ex := range entry.UsageExamples {
			fmt.Println("  •", ex)
		}

		if save, _ := cmd.Flags().GetBool("save"); save {
			if err := svc.Save(cmd.Context()); err != nil {
				return fmt.Errorf("save word: %w", err)
			}
			fmt.Printf("Saved %q to your vocabulary.\n", entry.WordRU)
		}
		return nil
	},
}

func init() {
	dictCmd.Flags().Bool("save", false, "Save the word to your vocabulary after lookup")
}
