package main

import (
	"fmt"
	"log"

	"student-success-api/config"
	"student-success-api/handlers"
	"student-success-api/services"
	"student-success-api/store"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database and prepare the record store
	db, err := store.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	recordStore, err := store.NewRecordStore(db)
	if err != nil {
		log.Fatalf("Failed to initialize record store: %v", err)
	}

	// Redis cache is optional; the API runs without it
	cache := services.NewCacheService(cfg.Redis)
	defer cache.Close()

	// Model service reloads persisted artifacts when present
	model := services.NewModelService(cfg.Model.ArtifactDir)

	router := handlers.NewRouter(recordStore, model, cache, cfg.CORS)

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Starting server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
