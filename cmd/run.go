package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ykarpov/tolmach/internal/api"
	"github.com/ykarpov/tolmach/internal/app"
	"github.com/ykarpov/tolmach/internal/dict"
	"github.com/ykarpov/tolmach/internal/drafts"
	"github.com/ykarpov/tolmach/internal/logging"
	"github.com/ykarpov/tolmach/internal/session"
)

// runApp wires config, client, draft cache and controller, then launches
// the TUI.
func runApp(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Practice.InitData == "" {
		return fmt.Errorf("no identity configured: set TOLMACH_INIT_DATA or practice.init_data")
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

	// The terminal belongs to the TUI, so diagnostics go to a file.
	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(filepath.Dir(dbPath), "tolmach.log")
	}
	log := logging.New(cfg.Log)

	client := api.NewClient(cfg.Server.BaseURL, cfg.Server.Timeout)
	ctrl := session.NewController(client, store, log, cfg.Practice.InitData, cfg.Practice.BatchLimit)
	dictSvc := dict.NewService(client, cfg.Practice.InitData)

	return app.Run(app.Options{
		Controller:  ctrl,
		DictService: dictSvc,
		RoomURL:     cfg.Room.URL,
	})
}

// resolveDBPath returns the configured cache path or the XDG default.
func resolveDBPath(configured string) (string, error) {
	if configured != "" {
		return configured, drafts.EnsureDir(configured)
	}
	return drafts.DefaultDBPath()
}
