package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/SAP-F-2025/adaptive-assessment/internal/handlers"
	"github.com/SAP-F-2025/adaptive-assessment/internal/repositories/postgres"
	"github.com/SAP-F-2025/adaptive-assessment/internal/services"
	"github.com/SAP-F-2025/adaptive-assessment/internal/utils"
	"github.com/SAP-F-2025/adaptive-assessment/internal/validator"
	"github.com/SAP-F-2025/adaptive-assessment/pkg"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the question bank and results HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if port, _ := cmd.Flags().GetString("port"); port != "" {
			cfg.Port = port
		}

		logger, _, err := newLogger(cfg, os.Stderr, "")
		if err != nil {
			return err
		}
		if cfg.IsProduction() {
			gin.SetMode(gin.ReleaseMode)
		}

		db, err := pkg.InitDatabase(cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := pkg.CloseDatabase(db); err != nil {
				logger.Warn("Failed to close database", "error", err)
			}
		}()
		if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
			if err := postgres.AutoMigrate(db); err != nil {
				return err
			}
		}

		questionCache, closeCache, err := pkg.NewQuestionCache(cfg, logger)
		if err != nil {
			return err
		}
		defer closeCache()

		repo := postgres.NewRepository(db, questionCache, cfg.QuestionCacheTTL)
		v := validator.New()
		serviceManager := services.NewServiceManager(repo, logger, v)

		handlerLogger := utils.NewSlogLogger(logger)
		router := handlers.NewRouter(handlers.NewHandlerManager(serviceManager, v, handlerLogger), handlerLogger)

		srv := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("Starting HTTP server", "port", cfg.Port, "environment", cfg.Environment)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().String("port", "", "Listen port (overrides PORT)")
	serveCmd.Flags().Bool("migrate", true, "Create or update tables on start")
}
