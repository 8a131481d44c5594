package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
)

// app carries what the commands share. Tests swap openDB for an in-memory
// database.
type app struct {
	loadConfig func() (*config.Config, error)
	openDB     func(cfg *config.Config) (*gorm.DB, error)
	out        io.Writer
}

func defaultApp() *app {
	return &app{
		loadConfig: config.LoadConfig,
		openDB: func(cfg *config.Config) (*gorm.DB, error) {
			return database.New(cfg.Database)
		},
		out: os.Stdout,
	}
}

func (a *app) setup() (*config.Config, *gorm.DB, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Format = cfg.Logging.Format
	logCfg.Caller = cfg.Logging.Caller
	logging.Init(logCfg)

	db, err := a.openDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "manage",
		Short: "Foodgram management commands",
		Long: `Administrative tasks for the Foodgram backend.

Configuration is read the same way as the API server: config.yaml,
environment variables and Docker secrets.`,
		SilenceUsage: true,
	}
	root.SetOut(a.out)

	root.AddCommand(newMigrateCmd(a))
	root.AddCommand(newLoadIngredientsCmd(a))
	root.AddCommand(newLoadTagsCmd(a))
	root.AddCommand(newCreateAdminCmd(a))
	return root
}
