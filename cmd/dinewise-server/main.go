// Package main provides the DineWise HTTP server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dinewise/dinewise/internal/api"
	"github.com/dinewise/dinewise/internal/auth"
	"github.com/dinewise/dinewise/internal/config"
	"github.com/dinewise/dinewise/internal/db"
	"github.com/dinewise/dinewise/internal/llm"
	"github.com/dinewise/dinewise/internal/mail"
	"github.com/dinewise/dinewise/internal/metrics"
	"github.com/dinewise/dinewise/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: load config: %v\n", err)
		os.Exit(1)
	}

	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	slog.SetDefault(logger)
	defer func() {
		if err := cleanup(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: close log file: %v\n", err)
		}
	}()

	slog.Info("starting dinewise-server", "port", cfg.Port)

	// Connect to the database and apply the schema.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	dbClient, err := db.NewClient(ctx, db.Config{
		URL:       cfg.SurrealDBURL,
		Namespace: cfg.SurrealDBNamespace,
		Database:  cfg.SurrealDBDatabase,
		Username:  cfg.SurrealDBUser,
		Password:  cfg.SurrealDBPass,
		AuthLevel: cfg.SurrealDBAuthLevel,
	}, logger)
	if err != nil {
		cancel()
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := dbClient.InitSchema(ctx); err != nil {
		cancel()
		slog.Error("failed to initialize schema", "error", err)
		os.Exit(1)
	}
	cancel()
	defer func() {
		if err := dbClient.Close(context.Background()); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	collector := metrics.NewCollector()

	// Model and embedding backends.
	model, err := llm.NewModel(cfg)
	if err != nil {
		slog.Error("failed to initialize model", "error", err)
		os.Exit(1)
	}
	model.SetMetrics(collector)
	embedder, err := llm.NewEmbedder(cfg)
	if err != nil {
		slog.Error("failed to initialize embedder", "error", err)
		os.Exit(1)
	}

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenExpiryMinutes)
	mailer := mail.NewMailer(cfg, logger)

	users := service.NewUserService(dbClient, tokens, mailer, logger)
	restaurants := service.NewRestaurantService(dbClient, logger)
	retriever := service.NewReviewRetriever(dbClient, embedder, collector, logger)
	chat := service.NewChatService(model, retriever, restaurants, restaurants, collector, logger)

	e := echo.New()
	e.HideBanner = true
	handler := api.NewHandler(users, restaurants, chat, tokens, collector, logger)
	handler.RegisterRoutes(e)

	e.Server.ReadTimeout = 5 * time.Second
	e.Server.WriteTimeout = 120 * time.Second // long for LLM turns
	e.Server.IdleTimeout = 120 * time.Second

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
