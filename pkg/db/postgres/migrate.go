package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"campushub/pkg/logger"
)

// Константы для сообщений миграций.
const (
	LogSchemaCurrent = "database schema is already up to date"

	ErrOpenMigrations  = "failed to open migrations source"
	ErrApplyMigrations = "failed to apply migrations"
)

// MigrateDSN приводит схему базы к актуальной версии перед стартом сервиса.
// Отсутствие непримененных миграций не считается ошибкой.
func MigrateDSN(ctx context.Context, dsn string, sourceURL string) error {
	log := logger.Log(ctx)

	m, err := migrate.New(sourceURL, dsn)
	if err != nil {
		log.Error(ctx, ErrOpenMigrations, zap.Error(err), zap.String("source", sourceURL))
		return fmt.Errorf("%s: %w", ErrOpenMigrations, err)
	}
	defer m.Close()

	switch err := m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		log.Info(ctx, LogSchemaCurrent)
	case err != nil:
		log.Error(ctx, ErrApplyMigrations, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrApplyMigrations, err)
	default:
		log.Info(ctx, LogMigrationsApplied)
	}

	return nil
}
