package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weave/config"
	"weave/controllers"
	"weave/middleware"
	"weave/router"
	"weave/services/auth"
	"weave/services/objects"
	"weave/services/presign"
	"weave/services/storage"
	"weave/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if portOverride != "" {
		cfg.Port = portOverride
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := utils.SetupLogging(cfg.LogFormat, cfg.LogLevel)
	logger.Info("Weave server starting up", "version", Version)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := newServer(ctx, cfg, logger)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "addr", srv.Addr, "cors_origin", cfg.CorsOrigin)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// newServer wires storage, signing, services and routes into an http.Server
func newServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*http.Server, error) {
	logger.Info("Connecting to storage backend", "backend", cfg.Storage.Backend, "endpoint", cfg.Storage.Endpoint)
	objectStorage, err := storage.New(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	if objectStorage.GetBucketName() == "" {
		logger.Warn("No storage bucket configured, object requests will fail")
	}

	var signer presign.UploadSigner
	if cfg.Presign.Endpoint != "" {
		signer = presign.NewRemoteSigner(cfg.Presign.Endpoint, cfg.Presign.Timeout)
	} else {
		logger.Warn("No presign endpoint configured, signing uploads locally")
		signer = presign.NewStorageSigner(objectStorage, cfg.Storage.WriteURLTTL)
	}

	service := objects.NewService(objectStorage, signer, presign.NewUploader(cfg.WriteTimeout),
		objects.Options{
			ReadURLTTL:      cfg.Storage.ReadURLTTL,
			SignConcurrency: cfg.Storage.SignConcurrency,
		}, logger)

	resolver := auth.NewSessionResolver(cfg.Auth.JWTSecret, cfg.Auth.SessionCookie)

	gin.SetMode(gin.ReleaseMode)

	// No default logger, only /api requests are logged
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.APILogger(logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.CorsOrigin}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	engine.Use(cors.New(corsConfig))

	router.RegisterRoutes(engine,
		controllers.NewHealthController(Version, objectStorage),
		controllers.NewAuthController(resolver),
		controllers.NewObjectsController(service, cfg.MaxUploadBytes(), logger),
		router.Options{
			Resolver:   resolver,
			UploadRate: cfg.UploadRate,
			StaticDir:  cfg.StaticDir,
			Logger:     logger,
		})

	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
	}, nil
}
