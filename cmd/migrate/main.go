package main

// Run sandbox database migrations:
//   SANDBOX_STORE=postgres DATABASE_URL=... go run ./cmd/migrate

import (
	"context"
	"log"
	"os"

	"usermanager/internal/shared/config"
	"usermanager/internal/shared/storage/db"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	driver, dsn, opts := db.DriverSQLite, db.SQLiteDSN(cfg.SQLitePath), db.SQLiteOptions()
	if cfg.SandboxStore == "postgres" {
		driver, dsn, opts = db.DriverPostgres, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions())
	}

	sqlDB, err := db.Connect(ctx, driver, dsn, opts)
	if err != nil {
		log.Printf("failed to connect database: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB, driver); err != nil {
		log.Printf("failed to run migrations: %v", err)
		os.Exit(1)
	}
	log.Printf("migrations applied (%s)", driver)
}
