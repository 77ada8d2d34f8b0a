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

	"github.com/Trinhvhao/event-management/internal/config"
	"github.com/Trinhvhao/event-management/internal/email"
	"github.com/Trinhvhao/event-management/internal/handlers"
	"github.com/Trinhvhao/event-management/internal/metrics"
	"github.com/Trinhvhao/event-management/internal/repository"
	"github.com/Trinhvhao/event-management/internal/routes"
	"github.com/Trinhvhao/event-management/internal/service"
	"github.com/Trinhvhao/event-management/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var serverPort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server and begin accepting API requests.

Configuration is read from environment variables. The server shuts down
gracefully on SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serverPort, "port", "", "server port (default: $PORT or 8080)")
}

func runServer() error {
	cfg, logger, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer closeDB(db, logger)

	if serverPort != "" {
		cfg.Port = serverPort
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics.Init()

	tokens, err := service.NewTokenService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}

	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db)
	referenceRepo := repository.NewReferenceRepository(db)

	authService := service.NewAuthService(
		userRepo,
		tokens,
		service.NewPasswordHasher(cfg.BcryptCost),
		newMailer(cfg, logger),
		service.AuthOptions{
			ResetTokenExpiry:  cfg.ResetTokenExpiry,
			VerifyTokenExpiry: cfg.VerifyTokenExpiry,
		},
		logger,
	)
	eventService := service.NewEventService(eventRepo, referenceRepo, logger)

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access connection pool: %w", err)
	}

	validator := validation.New()
	router := gin.New()
	routes.Setup(router, routes.Handlers{
		Auth:   handlers.NewAuthHandler(authService, validator),
		Events: handlers.NewEventHandler(eventService, validator),
		Health: handlers.NewHealthHandler(sqlDB),
	}, tokens, cfg, logger)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Str("environment", cfg.Environment).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	return gracefulShutdown(server, serverErr, logger)
}

func newMailer(cfg *config.Config, logger zerolog.Logger) *email.Mailer {
	var sender email.Sender = email.NewLogSender(logger)
	if cfg.Email.Enabled {
		sender = email.NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.From, logger)
	}
	return email.NewMailer(sender, cfg.FrontendURL, logger)
}

func gracefulShutdown(server *http.Server, serverErr <-chan error, logger zerolog.Logger) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-serverErr:
		return fmt.Errorf("http server error: %w", err)
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
