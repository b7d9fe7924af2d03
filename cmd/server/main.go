package main

import (
	"context"
	"time"

	"contactiq/internal/aggregator"
	"contactiq/internal/config"
	"contactiq/internal/server"
	"contactiq/internal/storage"
)

func main() {
	cfg := config.Load()
	logger := cfg.SetupLogger()

	store, err := storage.New(cfg.DatabasePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open contact database")
	}
	defer store.Close()

	// Seed the in-memory contact map from storage so the API serves the
	// results of previous extraction passes.
	agg := aggregator.New(logger)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	contacts, err := store.LoadAll(ctx)
	cancel()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load contacts")
	}
	for _, contact := range contacts {
		agg.Put(contact)
	}
	logger.Info().Int("contacts", len(contacts)).Msg("contact map loaded")

	srv := server.New(cfg, store, agg, logger)
	srv.Initialize()

	if err := srv.Start(); err != nil {
		logger.Fatal().Err(err).Msg("server failed to start")
	}
}
