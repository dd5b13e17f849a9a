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

	"github.com/clintmariano/careerlog/config"
	"github.com/clintmariano/careerlog/internal/api/handlers"
	"github.com/clintmariano/careerlog/internal/api/middleware"
	"github.com/clintmariano/careerlog/internal/api/routes"
	"github.com/clintmariano/careerlog/internal/logger"
	pgrepo "github.com/clintmariano/careerlog/internal/repositories/postgres"
	"github.com/clintmariano/careerlog/internal/services"
	"github.com/clintmariano/careerlog/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.JWTSecret == "" {
		return errors.New("AUTH_JWT_SECRET environment variable is not set")
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.InitPostgres(cfg.PostgresURI, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("postgres init: %w", err)
	}
	log.Info("PostgreSQL connected")

	if cfg.DBAutoMigrate {
		if err := pgrepo.Migrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Info("schema migrated")
	}

	// Uploads are optional; without a bucket the endpoint answers 503.
	var uploader storage.Uploader
	if cfg.GCSBucket != "" {
		gcs, err := storage.NewGCSUploader(ctx, cfg.GCSBucket, cfg.GCSCredentialsFile)
		if err != nil {
			return fmt.Errorf("gcs init: %w", err)
		}
		defer gcs.Close()
		uploader = gcs
		log.WithField("bucket", cfg.GCSBucket).Info("GCS uploads enabled")
	}

	store := pgrepo.NewStore(db)
	opts := []services.Option{services.WithLogger(log)}

	appSvc := services.NewApplicationService(store.Applications, store, opts...)
	actSvc := services.NewActivityService(store.Applications, store.Activities, store, opts...)
	attSvc := services.NewAttachmentService(store.Applications, store.Attachments, store, uploader, opts...)
	dashSvc := services.NewDashboardService(appSvc, actSvc, attSvc, opts...)

	if logger.ParseLevel(cfg.LogLevel) < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log), middleware.CORS(cfg.FrontendURL))

	routes.RegisterRoutes(r, routes.Deps{
		Auth: middleware.JWTAuth(middleware.JWTConfig{
			Secret:   cfg.JWTSecret,
			Issuer:   cfg.JWTIssuer,
			Audience: cfg.JWTAudience,
		}),
		Applications: handlers.NewApplicationHandler(appSvc),
		Activities:   handlers.NewActivityHandler(actSvc),
		Attachments:  handlers.NewAttachmentHandler(attSvc, cfg.MaxUploadBytes),
		Dashboard:    handlers.NewDashboardHandler(dashSvc),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}
