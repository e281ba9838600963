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

	"go.uber.org/zap"

	"github.com/kailas-cloud/resumerank/internal/bootstrap"
	"github.com/kailas-cloud/resumerank/internal/config"
	dbRedis "github.com/kailas-cloud/resumerank/internal/db/redis"
	"github.com/kailas-cloud/resumerank/internal/export/sheets"
	logpkg "github.com/kailas-cloud/resumerank/internal/logger"
	"github.com/kailas-cloud/resumerank/internal/metrics"
	runrepo "github.com/kailas-cloud/resumerank/internal/repository/run"
	chiTransport "github.com/kailas-cloud/resumerank/internal/transport/chi"
	healthuc "github.com/kailas-cloud/resumerank/internal/usecase/health"
	usageuc "github.com/kailas-cloud/resumerank/internal/usecase/usage"
	"github.com/kailas-cloud/resumerank/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting resumerank API server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	// Valkey and Redis share the RESP store.
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	if err := metrics.Register(); err != nil {
		logger.Fatal("Failed to register metrics", zap.Error(err))
	}

	emb, err := bootstrap.NewEmbedding(ctx, &cfg, store, logger)
	if err != nil {
		logger.Fatal("Failed to build embedder", zap.Error(err))
	}
	logger.Info("Embedders created",
		zap.String("provider", emb.Provider),
		zap.String("model", emb.Vectorizer.Model),
		zap.Int("dimensions", emb.Vectorizer.Dimensions),
	)

	runs := runrepo.New(store, time.Duration(cfg.Ranking.RunTTLHours)*time.Hour)
	rankingSvc := bootstrap.NewRanking(&cfg, emb.Scorer(), logger).WithRunStore(runs)
	composer := bootstrap.NewComposer(&cfg)
	exportSvc := bootstrap.NewExports(&cfg, runs, composer)

	if sc := cfg.Export.Sheets; sc.SpreadsheetID != "" {
		appender, err := sheets.New(ctx, sheets.Config{
			SpreadsheetID:   sc.SpreadsheetID,
			Range:           sc.Range,
			CredentialsFile: sc.CredentialsFile,
		})
		if err != nil {
			logger.Fatal("Failed to create Google Sheets client", zap.Error(err))
		}
		exportSvc = exportSvc.WithSheets(appender)
		logger.Info("Google Sheets export enabled", zap.String("range", sc.Range))
	}

	// Usage service reads from the shared BudgetTracker.
	// Pass nil interface (not typed nil pointer) if budget is not configured.
	var budgetReader usageuc.BudgetReader
	if emb.Budget != nil {
		budgetReader = emb.Budget
	}
	usageSvc := usageuc.New(budgetReader)

	healthSvc := healthuc.New(store, emb).WithCircuit(emb.Guard)

	server := chiTransport.NewServer(rankingSvc, exportSvc, composer, usageSvc, healthSvc, logger).
		WithMaxDocuments(cfg.Ranking.MaxDocuments).
		WithMaxUploadBytes(cfg.HTTP.MaxUploadBytes)
	r := chiTransport.NewRouter(server, cfg.Auth.APIKeys, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
