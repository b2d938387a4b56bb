package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"glpassist/internal/api"
	"glpassist/internal/config"
	"glpassist/internal/pipeline"
	"glpassist/internal/pplx"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using environment")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize clients.
	client := pplx.NewClient(cfg.PPLXBaseURL, cfg.PPLXAPIKey, cfg.PPLXModel, cfg.RequestTimeout)

	// Initialize pipeline.
	history := pipeline.NewHistory(cfg.HistorySize, cfg.HistoryTTL)
	pipe := pipeline.New(client, history, log, pipeline.Options{
		Temperature:         cfg.Temperature,
		MaxTokens:           cfg.MaxTokens,
		FollowupTemperature: cfg.FollowupTemperature,
		FollowupMaxTokens:   cfg.FollowupMaxTokens,
	})

	// Evict expired history entries in the background.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				history.Cleanup()
			}
		}
	}()

	// Initialize HTTP server.
	srv := api.NewServer(pipe, history, client, log, cfg)

	httpServer := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     srv,
		ReadTimeout: 30 * time.Second,
		// Long enough for a full SSE response to stream out.
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		client.Close()
	}()

	log.Info("starting glpassist", "port", cfg.Port, "model", cfg.PPLXModel)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
