package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ykarpov/tolmach/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "tolmach",
	Short: "Terminal client for RU→DE translation practice",
	Long:  "Tolmach — terminal client for the translation tutor: practice pending sentences, get graded, look up words, join the voice room.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().String("db", "", "Path to the draft cache file (overrides TOLMACH_DB)")

	rootCmd.AddCommand(dictCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(roomCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and environment, then applies flag
// overrides (highest priority).
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.Drafts.Path = p
	}
	return cfg, nil
}
