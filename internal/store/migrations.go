package store

import (
	"context"
	"database/sql"
)

// schema contains the DDL for all local tables.
// Each statement uses IF NOT EXISTS for idempotency.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS session (
		id         INTEGER PRIMARY KEY CHECK (id = 1),
		token      TEXT NOT NULL,
		user_id    TEXT NOT NULL,
		role       TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS cached_reports (
		id             INTEGER PRIMARY KEY,
		user_id        INTEGER NOT NULL DEFAULT 0,
		image_url      TEXT NOT NULL DEFAULT '',
		description    TEXT NOT NULL DEFAULT '',
		latitude       REAL NOT NULL DEFAULT 0,
		longitude      REAL NOT NULL DEFAULT 0,
		severity_level TEXT NOT NULL DEFAULT '',
		status         TEXT NOT NULL DEFAULT '',
		created_at     TEXT NOT NULL DEFAULT '',
		position       INTEGER NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS cached_alerts (
		alert_id        INTEGER PRIMARY KEY,
		report_id       INTEGER NOT NULL DEFAULT 0,
		alert_status    TEXT NOT NULL DEFAULT '',
		alert_timestamp TEXT NOT NULL DEFAULT '',
		image_url       TEXT NOT NULL DEFAULT '',
		description     TEXT NOT NULL DEFAULT '',
		latitude        REAL NOT NULL DEFAULT 0,
		longitude       REAL NOT NULL DEFAULT 0,
		severity_level  TEXT NOT NULL DEFAULT '',
		report_status   TEXT NOT NULL DEFAULT '',
		position        INTEGER NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_cached_reports_position ON cached_reports(position)`,
	`CREATE INDEX IF NOT EXISTS idx_cached_alerts_position ON cached_alerts(position)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
