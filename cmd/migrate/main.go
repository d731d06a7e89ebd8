package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"os"

	_ "github.com/lib/pq"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/database"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/logger"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	dir := flag.String("dir", "migrations", "Directory holding the migration files")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	appLog, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer appLog.Sync()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		appLog.Fatal("failed to connect to database", "error", err)
	}
	defer db.Close()

	ctx := context.Background()
	migrator := database.NewMigrator(db, *dir, appLog)

	if *rollback {
		name, err := migrator.Rollback(ctx)
		if errors.Is(err, database.ErrNoMigrations) {
			appLog.Info("no migrations to rollback")
			return
		}
		if err != nil {
			appLog.Fatal("rollback failed", "error", err)
		}
		appLog.Info("successfully rolled back migration", "file", name)
		return
	}

	applied, err := migrator.Up(ctx)
	if err != nil {
		appLog.Fatal("migration failed", "error", err)
	}
	appLog.Info("all migrations applied", "applied", len(applied))
}
