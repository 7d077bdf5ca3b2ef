package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"roombooking/pkg/config"
	"roombooking/pkg/db"
	"roombooking/pkg/logging"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg)
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "file://migrations"
	}

	// This uses DIRECT_URL if set (recommended for hosted Postgres behind a pooler).
	if err := db.Migrate(cfg.MigrationsPath, cfg); err != nil {
		logrus.WithError(err).Fatal("migrate failed")
	}

	// Sanity check that the runtime connection (DATABASE_URL) opens too.
	// DSNs are never logged.
	pool, err := db.Open(context.Background(), cfg)
	if err != nil {
		logrus.WithError(err).Fatal("runtime db open failed")
	}
	pool.Close()

	logrus.Info("migrations applied")
}
