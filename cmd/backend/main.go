package main

import (
	"net/http"
	"os"

	"openhouse-aggregator/config"
	"openhouse-aggregator/server"
	"openhouse-aggregator/storage"
	"openhouse-aggregator/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	var store storage.ListingStore
	if cfg.HasPostgres() {
		pg, err := storage.NewPostgresStore(cfg.DSN(), logger)
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
			os.Exit(1)
		}
		store = pg
		logger.Info("Using PostgreSQL store (%s:%s/%s)",
			cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresDB)
	} else {
		store = storage.NewMemoryStore()
		logger.Info("No POSTGRES_HOST configured — using in-memory store")
	}
	defer store.Close()

	srv := server.New(store, logger)

	logger.Info("=== Open House Finder API listening on %s ===", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, srv.Handler()); err != nil {
		logger.Error("Server stopped: %v", err)
		os.Exit(1)
	}
}
