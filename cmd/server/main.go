package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jaehyuk-choi/papertrans/internal/api"
	"github.com/jaehyuk-choi/papertrans/internal/cache"
	"github.com/jaehyuk-choi/papertrans/internal/config"
	"github.com/jaehyuk-choi/papertrans/internal/fetch"
	"github.com/jaehyuk-choi/papertrans/internal/pipeline"
	"github.com/jaehyuk-choi/papertrans/internal/translate"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize clients. Ollama always backs summarization; translation
	// goes through whichever engine is configured.
	stats := translate.NewLLMStats(time.Hour)
	ollama := translate.NewOllamaClient(cfg.OllamaURL, cfg.OllamaModel, cfg.TargetLangName, stats)

	var translator translate.Translator = ollama
	var deepl *translate.DeepLClient
	if cfg.Engine == "deepl" {
		deepl = translate.NewDeepLClient(cfg.DeepLAPIURL, cfg.DeepLAPIKey, cfg.TargetLang, stats)
		translator = deepl
	}

	healthCtx, healthCancel := context.WithTimeout(ctx, 5*time.Second)
	if err := ollama.CheckHealth(healthCtx); err != nil {
		log.Warn("ollama not reachable at startup", "url", cfg.OllamaURL, "error", err)
	}
	healthCancel()

	fetcher := fetch.NewClient(cfg.FetchTimeout, cfg.MaxUploadBytes)
	results := cache.New(cfg.CachePath)

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, fetcher, translator, ollama, results, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, stats, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		ollama.Close()
		if deepl != nil {
			deepl.Close()
		}
	}()

	log.Info("starting papertrans", "port", cfg.Port, "engine", cfg.Engine)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
