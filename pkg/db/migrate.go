package db

import (
	"errors"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"

	"roombooking/pkg/config"
)

// Migrate applies every pending up migration from migrationsPath
// (e.g. "file://migrations").
func Migrate(migrationsPath string, cfg config.Config) error {
	m, err := migrate.New(migrationsPath, migrationConnString(cfg))
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logrus.Debug("migrations: no change")
			return nil
		}
		return err
	}

	if v, dirty, err := m.Version(); err == nil {
		logrus.WithFields(logrus.Fields{"version": v, "dirty": dirty}).Info("migrations applied")
	}
	return nil
}
