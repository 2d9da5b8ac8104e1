package main

// Run database migrations:
//   go run ./cmd/migrate

import (
	"context"
	"os"

	"go.uber.org/zap"

	"docsum-backend/internal/shared/config"
	"docsum-backend/internal/shared/storage/db"
	"docsum-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	logger, err := telemetry.Init(cfg.Env, cfg.LogLevel)
	if err != nil {
		os.Stderr.WriteString("init logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer telemetry.Sync()
	ctx := context.Background()

	if cfg.DocumentStore != config.StorePostgres {
		logger.Info("migrate.skipped", zap.String("store", cfg.DocumentStore))
		return
	}

	opts := db.OptionsFromEnv(db.Defaults(db.ProfileMigrate))
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		logger.Error("migrate.connect_failed", zap.Error(err))
		telemetry.Sync()
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		logger.Error("migrate.failed", zap.Error(err))
		_ = sqlDB.Close()
		telemetry.Sync()
		os.Exit(1)
	}
}
