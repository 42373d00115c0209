package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"github.com/kenijima/chainmark/internal/config"
	"github.com/kenijima/chainmark/internal/crypto"
	"github.com/kenijima/chainmark/internal/repository"
	"github.com/kenijima/chainmark/internal/server"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err) // Should not happen in development
	}
	defer func() {
		_ = logger.Sync() // Flushes buffer, if any
	}()

	// Load configuration
	cfgPath := "configs/config.yml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Database connection
	db, err := repository.NewPostgresDB(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	repository.MigrateDB(db, logger)

	// Initialize KeyManager for private key encryption at rest
	keyManager, err := crypto.NewKeyManager()
	if err != nil {
		logger.Fatal("Failed to initialize KeyManager", zap.Error(err))
	}
	logger.Info("KeyManager initialized successfully")

	log := logrus.New()

	// Initialize and run the server
	srv := server.NewServer(db, cfg, keyManager, log, logger)
	srv.Run(cfg.Server.Port)
}
