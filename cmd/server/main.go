package main

import (
	"log"

	"github.com/inkwell-cms/inkwell/internal/bootstrap"
	"github.com/inkwell-cms/inkwell/internal/config"
	"github.com/inkwell-cms/inkwell/internal/server"
	"github.com/inkwell-cms/inkwell/pkg/database"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedDev(db); err != nil {
			log.Fatalf("failed to seed dev data: %v", err)
		}
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opt)
	} else {
		log.Println("REDIS_URL not set, rate limiting disabled")
	}

	srv := server.NewServer(db, redisClient)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}
