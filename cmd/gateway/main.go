package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/roadtodev/rolegate/config"
	"github.com/roadtodev/rolegate/internal/observability"
	"github.com/roadtodev/rolegate/middleware"
	"github.com/roadtodev/rolegate/routes"
	"github.com/roadtodev/rolegate/token"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Observability.LogLevel, cfg.Observability.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Development deployments accept tokens on trust after time-claim
	// checks; production plugs in a signature-verifying validator here.
	if cfg.IsProduction() {
		logger.Fatal("no production token validator configured; refusing to serve with the insecure validator")
	}
	validator := token.NewInsecureValidator(logger, cfg.Keycloak.TokenLeeway)

	guard := middleware.NewGuard(validator, logger)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      routes.SetupRoutes(guard),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("gateway listening",
			zap.String("addr", srv.Addr),
			zap.String("realm", cfg.Keycloak.Realm))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
