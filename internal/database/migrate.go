package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"quiz-ai/internal/config"
	"quiz-ai/internal/logger"
)

//go:embed migrations
var migrationsFS embed.FS

// RunMigrations brings the schema of db up to date.
func RunMigrations(ctx context.Context, db *sqlx.DB) error {
	switch db.DriverName() {
	case config.DriverSQLite:
		return migrateSQLite(db)
	case config.DriverOracle:
		return migrateOracle(ctx, db)
	default:
		return fmt.Errorf("no migrations for driver %q", db.DriverName())
	}
}

func migrateSQLite(db *sqlx.DB) error {
	src, err := iofs.New(migrationsFS, "migrations/sqlite")
	if err != nil {
		return fmt.Errorf("could not open sqlite migrations: %w", err)
	}
	driver, err := migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create sqlite migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("could not create migrator: %w", err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Get().Info("Database schema is up to date")
			return nil
		}
		return fmt.Errorf("could not apply migrations: %w", err)
	}

	version, _, _ := m.Version()
	logger.Get().Info("Migrations completed successfully", zap.Uint("version", version))
	return nil
}

// golang-migrate has no go-ora driver, so Oracle migrations are applied
// statement by statement and recorded in schema_migrations.
func migrateOracle(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE schema_migrations (version VARCHAR2(255) PRIMARY KEY)`); err != nil &&
		!strings.Contains(err.Error(), "ORA-00955") {
		return fmt.Errorf("could not create schema_migrations: %w", err)
	}

	var applied []string
	if err := db.SelectContext(ctx, &applied, `SELECT version FROM schema_migrations`); err != nil {
		return fmt.Errorf("could not read applied migrations: %w", err)
	}
	done := make(map[string]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}

	files, err := fs.Glob(migrationsFS, "migrations/oracle/*.up.sql")
	if err != nil {
		return fmt.Errorf("could not list oracle migrations: %w", err)
	}
	sort.Strings(files)

	for _, file := range files {
		version := strings.TrimSuffix(file[strings.LastIndex(file, "/")+1:], ".up.sql")
		if done[version] {
			continue
		}

		content, err := migrationsFS.ReadFile(file)
		if err != nil {
			return fmt.Errorf("could not read migration file %s: %w", file, err)
		}
		for _, stmt := range splitStatements(string(content)) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("could not execute migration %s: %w", file, err)
			}
		}
		if _, err := db.ExecContext(ctx, db.Rebind(`INSERT INTO schema_migrations (version) VALUES (?)`), version); err != nil {
			return fmt.Errorf("could not record migration %s: %w", file, err)
		}

		logger.Get().Info("Executed migration", zap.String("file", file))
	}

	logger.Get().Info("Migrations completed successfully")
	return nil
}

// splitStatements splits a script on semicolons that end a line. Oracle
// rejects the trailing semicolon inside a single statement.
func splitStatements(script string) []string {
	var stmts []string
	var current strings.Builder
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		if strings.HasSuffix(trimmed, ";") {
			current.WriteString(strings.TrimSuffix(trimmed, ";"))
			stmts = append(stmts, current.String())
			current.Reset()
			continue
		}
		current.WriteString(trimmed)
		current.WriteString("\n")
	}
	if rest := strings.TrimSpace(current.String()); rest != "" {
		stmts = append(stmts, rest)
	}
	return stmts
}
