package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mhashir/textrack/internal/config"
	"github.com/mhashir/textrack/internal/insight"
	"github.com/mhashir/textrack/internal/ledger"
	"github.com/mhashir/textrack/internal/report"
	"github.com/mhashir/textrack/internal/scheduler"
	"github.com/mhashir/textrack/internal/server/handlers"
	"github.com/mhashir/textrack/internal/server/router"
	"github.com/mhashir/textrack/internal/storage"
	"github.com/mhashir/textrack/pkg/clients/gemini"
	"github.com/mhashir/textrack/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	kv, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path, baseLogger.Named("storage"))
	if err != nil {
		baseLogger.Fatal("failed to open local storage", zap.Error(err))
	}
	defer func() {
		if err := kv.Close(); err != nil {
			baseLogger.Error("failed to close local storage", zap.Error(err))
		}
	}()

	identity, err := ledger.Identity(context.Background(), kv)
	if err != nil {
		baseLogger.Fatal("failed to establish session identity", zap.Error(err))
	}
	baseLogger.Info("session identity ready", zap.String("session_id", identity))

	store, err := ledger.NewStore(context.Background(), kv, identity, baseLogger.Named("ledger"))
	if err != nil {
		baseLogger.Fatal("failed to load record store", zap.Error(err))
	}

	// Initialize AI client
	var aiClient gemini.Client
	if cfg.AI.GeminiKey != "" {
		aiClient = gemini.NewClient(cfg.AI.GeminiKey, cfg.AI.Model)
		baseLogger.Info("gemini ai client enabled", zap.String("model", cfg.AI.Model))
	} else {
		baseLogger.Warn("gemini api key missing, ai insight disabled")
	}

	insightSvc := insight.NewService(aiClient, baseLogger.Named("svc.insight"))
	exporter := report.NewExporter()

	ledgerHandler := handlers.NewLedgerHandler(store, insightSvc, exporter, baseLogger.Named("handlers.ledger"))
	engine := router.New(ledgerHandler, baseLogger.Named("router"))

	if cfg.Reporting.Enabled {
		sched := scheduler.NewScheduler(cfg.Reporting, store, exporter, baseLogger.Named("scheduler"))
		sched.Start()
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
