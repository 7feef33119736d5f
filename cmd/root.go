package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"picfolio/db"
	"picfolio/internal/config"
	"picfolio/internal/logger"
)

// Flags shared by every subcommand. Non-empty values override the environment.
type rootOptions struct {
	port      string
	uploadDir string
	dbPath    string
}

// NewRootCmd creates the root command for the picfolio CLI.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "picfolio",
		Short: "Picfolio - a personal photo album",
		Long: `Picfolio serves a small photo album with thumbnail generation,
user accounts and a couple of casual games.

Configuration is read from the environment and an optional .env file.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.port, "port", "", "listen port (overrides PORT)")
	cmd.PersistentFlags().StringVar(&opts.uploadDir, "upload-dir", "", "album root directory (overrides UPLOAD_DIR)")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite database path (overrides SQLITE_PATH)")

	cmd.AddCommand(NewServeCmd(opts))
	cmd.AddCommand(NewAddUserCmd(opts))

	return cmd
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if o.port != "" {
		cfg.Port = o.port
	}
	if o.uploadDir != "" {
		cfg.UploadDir = o.uploadDir
	}
	if o.dbPath != "" {
		cfg.SQLitePath = o.dbPath
	}

	if err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, nil
}

// openDatabase connects and makes sure the schema exists.
func openDatabase(cfg *config.Config) (*sql.DB, *db.RepositoryFactory, error) {
	sqliteDB, err := db.ConnectToSQLite(cfg.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	if err := db.InitializeSchema(sqliteDB); err != nil {
		sqliteDB.Close()
		return nil, nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}
	return sqliteDB, db.NewRepositoryFactory(sqliteDB, cfg.DatabaseName), nil
}
