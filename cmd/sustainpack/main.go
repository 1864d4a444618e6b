package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ecozero/sustainpack/internal/api"
	"github.com/ecozero/sustainpack/internal/config"
	"github.com/ecozero/sustainpack/internal/emission"
	"github.com/ecozero/sustainpack/internal/estimate"
	"github.com/ecozero/sustainpack/internal/packaging"
	"github.com/ecozero/sustainpack/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	bootLogger := config.NewLogger(config.DefaultLogLevel)

	cfg, err := config.Load(bootLogger)
	if err != nil {
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger := config.NewLogger(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	table := emission.NewFactorTable(cfg.EmissionFactors)
	resolver := emission.NewResolver(table, logger)

	var remote emission.RemoteEstimator
	if cfg.EstimationURL != "" {
		remote = estimate.NewClient(cfg.EstimationURL, cfg.EstimationTimeout)
		logger.Info().Str("url", cfg.EstimationURL).Msg("remote estimation service enabled")
	}
	calculator := emission.NewCalculator(resolver, remote, logger)

	var generator packaging.Generator
	if cfg.GeminiAPIKey != "" {
		advisor, err := packaging.NewAdvisor(ctx, cfg.GeminiAPIKey, cfg.GeminiModels, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("generative advisor unavailable, using deterministic engine only")
		} else {
			generator = advisor
			logger.Info().Msg("generative recommendation delegation enabled")
		}
	}
	recommender := packaging.NewRecommender(generator, logger)

	var st api.Store
	if cfg.DatabaseDSN != "" {
		pg, err := store.Open(ctx, cfg.DatabaseDSN, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to open database")
		}
		defer pg.Close()
		st = pg
		logger.Info().Msg("persistence enabled")
	}

	handler := api.NewHandler(calculator, recommender, st, logger, cfg.HealthEndpoint)
	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info().Msg("received shutdown signal")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("server shutdown failed")
		}
		cancel()
	}()

	logger.Info().Str("addr", cfg.ListenAddr).Msg("starting server")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server error")
	}
	logger.Info().Msg("server stopped")
}
