package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// schema creates the denylist and history tables. Every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS blocked_numbers (
		number     TEXT PRIMARY KEY,
		reason     TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS blocked_domains (
		domain     TEXT PRIMARY KEY,
		reason     TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS blocked_messages (
		id         BIGSERIAL PRIMARY KEY,
		pattern    TEXT NOT NULL UNIQUE,
		reason     TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS scan_history (
		id         UUID PRIMARY KEY,
		content    TEXT NOT NULL,
		scan_type  TEXT NOT NULL,
		risk_score INTEGER NOT NULL,
		label      TEXT NOT NULL,
		guidance   TEXT NOT NULL,
		triggers   TEXT[] NOT NULL DEFAULT '{}',
		scanned_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_scan_history_scanned_at ON scan_history (scanned_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_scan_history_label ON scan_history (label)`,
}

// EnsureSchema creates any missing tables and indexes in a single transaction
func (db *PostgresDB) EnsureSchema(ctx context.Context) error {
	err := db.WithTx(ctx, func(tx pgx.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	db.logger.Debug().Int("statements", len(schema)).Msg("schema up to date")
	return nil
}
