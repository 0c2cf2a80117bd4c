package main

// Run database migrations:
//   go run ./cmd/migrate            # apply pending migrations
//   go run ./cmd/migrate -cmd down  # roll back the latest one
//   go run ./cmd/migrate -cmd status

import (
	"context"
	"flag"
	"log"
	"os"

	"resume-roaster/internal/shared/config"
	"resume-roaster/internal/shared/storage/db"
	"resume-roaster/internal/shared/telemetry"
)

func main() {
	command := flag.String("cmd", "up", "Migration command: up, down or status")
	flag.Parse()

	cfg := config.Load()
	telemetry.Init(cfg.LogLevel)
	defer telemetry.Sync()
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		log.Printf("failed to connect database: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	switch *command {
	case "up":
		err = db.RunMigrations(ctx, sqlDB)
	case "down":
		err = db.RollbackMigration(ctx, sqlDB)
	case "status":
		err = db.MigrationStatus(ctx, sqlDB)
	default:
		log.Printf("unknown migration command %q", *command)
		os.Exit(2)
	}
	if err != nil {
		log.Printf("migration %s failed: %v", *command, err)
		os.Exit(1)
	}
}
