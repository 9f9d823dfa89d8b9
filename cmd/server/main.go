package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iudanet/syncbox/internal/server/handlers"
	"github.com/iudanet/syncbox/internal/server/middleware"
	"github.com/iudanet/syncbox/internal/server/resolver"
	"github.com/iudanet/syncbox/internal/server/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	addr := flag.String("addr", ":8080", "Listen address")
	dbPath := flag.String("db", "syncbox.db", "Path to SQLite database")
	tokenTTL := flag.Duration("token-ttl", time.Hour, "Access token lifetime")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	jwtSecret := os.Getenv("SYNCBOX_JWT_SECRET")
	if jwtSecret == "" {
		logger.Error("SYNCBOX_JWT_SECRET environment variable is required")
		os.Exit(1)
	}

	if err := run(logger, *addr, *dbPath, jwtSecret, *tokenTTL); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, addr, dbPath, jwtSecret string, tokenTTL time.Duration) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}()

	jwtConfig := handlers.JWTConfig{
		Secret:         []byte(jwtSecret),
		AccessTokenTTL: tokenTTL,
	}

	res := resolver.New(store, store, store, resolver.ArrivalOrderLWW{}, logger)

	authHandler := handlers.NewAuthHandler(logger, store, jwtConfig)
	syncHandler := handlers.NewSyncHandler(logger, res, store, store)
	healthHandler := handlers.NewHealthHandler(logger, Version)

	authRequired := middleware.AuthMiddleware(logger, jwtConfig)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.Handle("POST /api/v1/sync/push", authRequired(http.HandlerFunc(syncHandler.Push)))
	mux.Handle("GET /api/v1/sync/pull", authRequired(http.HandlerFunc(syncHandler.Pull)))
	mux.Handle("GET /api/v1/sync/conflicts", authRequired(http.HandlerFunc(syncHandler.Conflicts)))
	mux.HandleFunc("GET /api/v1/health", healthHandler.Health)

	handler := middleware.RecoveryMiddleware(logger)(
		middleware.LoggingWithSkip(logger, []string{"/api/v1/health"})(mux))

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr, "version", Version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}

func printVersion() {
	fmt.Printf("Syncbox Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
