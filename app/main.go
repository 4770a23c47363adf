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

	"github.com/joho/godotenv"

	"github.com/komat21/newstagger/app/api"
	"github.com/komat21/newstagger/app/categories"
	"github.com/komat21/newstagger/app/cfg"
	"github.com/komat21/newstagger/app/feed"
	"github.com/komat21/newstagger/app/tags"
)

func main() {
	// Optional .env file, useful during development
	if err := godotenv.Load(); err == nil {
		slog.Debug("Environment loaded from .env file")
	}

	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	if appCfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	slog.Info("Starting News Tagger server", "version", appCfg.Version)

	catalog := categories.NewCatalog(appCfg.CategoriesFile)
	if err := catalog.Run(); err != nil {
		slog.Error("Failed to load categories", "file", appCfg.CategoriesFile, "error", err)
		os.Exit(1)
	}
	slog.Info("Categories loaded", "file", appCfg.CategoriesFile, "count", catalog.Count())

	// No tags survive a restart
	tagCache := tags.NewCache()
	tagCache.Clear()
	slog.Info("Tag cache cleared")

	var client tags.ClientInterface
	if key := appCfg.APIKey(); key != "" {
		client = tags.NewClient(key, appCfg.GeminiModel)
		slog.Info("Tag generation enabled", "model", appCfg.GeminiModel)
	} else {
		slog.Warn("No API key configured, serving news without tags")
	}

	fetcher := feed.NewFetcher(appCfg.UserAgent)
	generator := tags.NewGenerator(tagCache, client)

	handler := api.NewHandler(catalog, fetcher, generator, tagCache)
	server := api.NewServer(handler)

	httpServer := &http.Server{
		Addr:    ":" + appCfg.Port,
		Handler: server,
		// Write timeout covers the 10s feed fetch plus the 30s
		// generation call
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Server shutdown complete")
}
