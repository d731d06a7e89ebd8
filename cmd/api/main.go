package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/pageza/alchemorsel-mealplanner/backend/config"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/database"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/logger"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLog.Sync()

	if err := run(cfg, appLog); err != nil {
		appLog.Fatal("server exited with error", "error", err)
	}
}

func run(cfg *config.Config, appLog *logger.Logger) error {
	ctx := context.Background()

	db, err := database.Open(ctx, cfg, appLog)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db, cfg.MigrationsDir, appLog); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	var rdb *redis.Client
	if cfg.RedisEnabled() {
		rdb, err = database.NewRedisClient(ctx, cfg, appLog)
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
	} else {
		appLog.Warn("redis not configured, rate limiting disabled")
	}

	srv := server.New(cfg, db, rdb, appLog)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		appLog.Info("received signal", "signal", sig.String())
	}

	appLog.Info("shutting down server")
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	appLog.Info("server stopped")
	return nil
}
