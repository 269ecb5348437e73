// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"fmt"
	"log/slog"

	"gatehouse/config"
	"gatehouse/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// New opens the GORM connection to the user store.
// TranslateError is enabled so that constraint violations surface as
// gorm.ErrDuplicatedKey and friends instead of driver-specific errors.
func New(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	if cfg.Postgres == nil {
		return nil, errors.New("postgres configuration must be provided")
	}

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.UserName,
		cfg.Postgres.Password,
		cfg.Postgres.DBName,
		cfg.Postgres.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         newGormSlogLogger(logger, cfg),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open postgres connection")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to access underlying sql.DB")
	}

	if cfg.Postgres.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	}
	if cfg.Postgres.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	}
	if cfg.Postgres.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime)
	}

	if err := db.AutoMigrate(&model.UserModel{}); err != nil {
		return nil, errors.Wrap(err, "failed to migrate users table")
	}

	return db, nil
}
