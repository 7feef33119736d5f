package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"picfolio/db"
	"picfolio/internal/album"
	"picfolio/internal/auth"
	"picfolio/internal/config"
	"picfolio/internal/eventlog"
	"picfolio/internal/logger"
	"picfolio/internal/metrics"
	"picfolio/internal/session"
	"picfolio/internal/thumbnail"
	"picfolio/internal/web"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	sqliteDB, repoFactory, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer sqliteDB.Close()

	// SQLite takes one writer at a time.
	dbManager := db.NewDBManager()
	defer dbManager.Stop()

	authService := auth.NewAuthService(repoFactory.NewUserRepository(), dbManager)
	eventLogService := eventlog.NewEventLogService(repoFactory.NewEventLogRepository(), dbManager)

	albums, err := album.NewFilesystemStore(cfg, thumbnail.NewGenerator(cfg.ThumbnailSize))
	if err != nil {
		return err
	}
	sessions, err := session.NewManager(cfg)
	if err != nil {
		return err
	}

	webHandler, err := web.NewWebHandler(authService, albums, eventLogService, sessions, metrics.New(), cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize web handler: %w", err)
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           webHandler.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", server.Addr), zap.String("upload_dir", cfg.UploadDir))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
