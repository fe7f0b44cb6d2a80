package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Migration is one versioned schema step. Steps run in version order and
// each applied version is recorded in schema_migrations within the same
// transaction as its DDL, so a partial failure never leaves a version
// half-applied or falsely marked done.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Migrations is the ordered schema history. Append-only: never edit an
// entry that has shipped.
var Migrations = []Migration{
	{
		Version: 1,
		Name:    "core tables",
		SQL: `
			CREATE TABLE IF NOT EXISTS ingredients (
				id UUID PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				normalized_name VARCHAR(255) NOT NULL,
				quantity DOUBLE PRECISION NOT NULL CHECK (quantity >= 0),
				unit VARCHAR(50) NOT NULL DEFAULT '',
				min_threshold DOUBLE PRECISION NOT NULL DEFAULT 1 CHECK (min_threshold >= 0),
				last_updated TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_ingredients_normalized_name
				ON ingredients (normalized_name);

			CREATE TABLE IF NOT EXISTS expenses (
				id UUID PRIMARY KEY,
				item VARCHAR(255) NOT NULL,
				quantity DOUBLE PRECISION NOT NULL,
				unit VARCHAR(50) NOT NULL DEFAULT '',
				unit_weight VARCHAR(50),
				cost DECIMAL(12, 2) NOT NULL,
				supplier VARCHAR(255),
				date TIMESTAMPTZ NOT NULL,
				notes TEXT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses (date);

			CREATE TABLE IF NOT EXISTS orders (
				id UUID PRIMARY KEY,
				table_number INTEGER NOT NULL,
				status VARCHAR(20) NOT NULL DEFAULT 'pending',
				subtotal DECIMAL(12, 2) NOT NULL DEFAULT 0,
				tax DECIMAL(12, 2) NOT NULL DEFAULT 0,
				total DECIMAL(12, 2) NOT NULL DEFAULT 0,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_orders_status ON orders (status);

			CREATE TABLE IF NOT EXISTS order_items (
				id UUID PRIMARY KEY,
				order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
				name VARCHAR(255) NOT NULL,
				price DECIMAL(12, 2) NOT NULL,
				quantity INTEGER NOT NULL CHECK (quantity > 0)
			);
			CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items (order_id);

			CREATE TABLE IF NOT EXISTS order_payments (
				id UUID PRIMARY KEY,
				order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
				amount DECIMAL(12, 2) NOT NULL,
				method VARCHAR(50) NOT NULL,
				paid_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_order_payments_order_id ON order_payments (order_id);

			CREATE TABLE IF NOT EXISTS menu_items (
				id UUID PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				category VARCHAR(100) NOT NULL DEFAULT '',
				price DECIMAL(12, 2) NOT NULL,
				available BOOLEAN NOT NULL DEFAULT TRUE,
				image BYTEA,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
			);

			CREATE TABLE IF NOT EXISTS employees (
				id UUID PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				role VARCHAR(100) NOT NULL DEFAULT '',
				phone VARCHAR(50),
				hired_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				active BOOLEAN NOT NULL DEFAULT TRUE
			);
		`,
	},
	{
		Version: 2,
		Name:    "legacy import log",
		SQL: `
			CREATE TABLE IF NOT EXISTS import_log (
				collection VARCHAR(100) PRIMARY KEY,
				record_count INTEGER NOT NULL,
				imported_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
		`,
	},
}

// Migrate brings the schema up to date. Safe to run on every startup and
// after a partial failure: already-applied versions are skipped.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	logger = logger.With().Str("component", "migrate").Logger()

	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	for _, m := range Migrations {
		applied, err := isApplied(ctx, pool, m.Version)
		if err != nil {
			return err
		}
		if applied {
			logger.Debug().Int("version", m.Version).Msg("migration already applied")
			continue
		}

		if err := apply(ctx, pool, m); err != nil {
			return err
		}

		logger.Info().
			Int("version", m.Version).
			Str("name", m.Name).
			Msg("migration applied")
	}

	return nil
}

func isApplied(ctx context.Context, pool *pgxpool.Pool, version int) (bool, error) {
	var count int
	err := pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM schema_migrations WHERE version = $1`, version,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check migration version %d: %w", version, err)
	}
	return count > 0, nil
}

func apply(ctx context.Context, pool *pgxpool.Pool, m Migration) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin migration transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, m.SQL); err != nil {
		return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`,
		m.Version, m.Name,
	); err != nil {
		return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
	}

	return nil
}
