// Package main initializes and starts the bench API server, setting up
// configuration, logging, the database connection, repositories, services,
// and handlers.
package main

import (
	"cmp"
	"context"
	"fmt"

	nethttp "net/http"

	"github.com/benchmarked/api/internal/config"
	"github.com/benchmarked/api/internal/db"
	"github.com/benchmarked/api/internal/logger"
	"github.com/benchmarked/api/internal/repository"
	"github.com/benchmarked/api/internal/server/handler/http"
	"github.com/benchmarked/api/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Refuse to start without a signing secret; tokens would be forgeable.
	if options.JWTSecret == "" {
		zapLogger.Fatal("JWT_SECRET is required")
	}

	// Initialize the PostgreSQL pool and apply migrations.
	postgresDB, err := db.InitPostgres(context.Background(), options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Initialize repositories for users and bench records.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	benchRepo := repository.NewPostgresBenchRepository(postgresDB)

	// Initialize business-logic services.
	jwtService := service.NewJWTService(options.JWTSecret, options.TokenTTL)
	authService := service.NewAuthService(userRepo, jwtService)
	benchService := service.NewBenchService(benchRepo)

	// Create HTTP handlers for auth and record endpoints.
	authHandler := &http.AuthHandler{AuthService: authService}
	benchHandler := &http.BenchHandler{BenchService: benchService}
	healthHandler := &http.HealthHandler{DB: postgresDB}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, benchHandler, healthHandler, jwtService, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Address,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Address))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
