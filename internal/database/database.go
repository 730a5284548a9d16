package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/sijms/go-ora/v2" // Oracle driver
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // SQLite driver

	"quiz-ai/internal/config"
	"quiz-ai/internal/logger"
)

func init() {
	// go-ora takes positional :name placeholders.
	sqlx.BindDriver(config.DriverOracle, sqlx.NAMED)
}

// Connect opens and pings the database selected by cfg.Driver.
func Connect(ctx context.Context, cfg config.DBConfig) (*sqlx.DB, error) {
	switch cfg.Driver {
	case config.DriverSQLite, config.DriverOracle:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database DSN is empty")
	}

	db, err := sqlx.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	if cfg.Driver == config.DriverSQLite {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", cfg.Driver, err)
	}

	logger.Get().Info("Connected to database", zap.String("driver", cfg.Driver))
	return db, nil
}
