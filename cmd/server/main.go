package main

import (
	"log"

	"murmur/internal/config"
	"murmur/internal/db"
	"murmur/internal/logging"
	"murmur/internal/middleware"
	"murmur/internal/router"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env file; fall back to the process environment.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading env vars from system")
	}

	cfg, err := config.Load(config.NewViper())
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	if _, err := db.Init(cfg.DatabaseURL, cfg.DatabasePath, logger); err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}

	r := gin.Default()

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions(cfg.SessionCookie, store))
	r.Use(middleware.LoadUser())

	router.RegisterRoutes(r, cfg, logger)

	logger.Info("murmur server starting", zap.String("address", cfg.HTTPAddress))
	if err := r.Run(cfg.HTTPAddress); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
