package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/me/roadwatch/pkg/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and returns a
// Store. Use ":memory:" for an in-memory database (useful in tests).
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger.With("component", "store"),
	}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate creates all required tables and indexes.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	s.logger.Debug("sql", "op", "migrate")
	return migrate(ctx, s.db)
}

// --- Session ---

func (s *SQLiteStore) SaveSession(ctx context.Context, sess model.Session) error {
	s.logger.Debug("sql", "op", "upsert", "table", "session")

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session (id, token, user_id, role, updated_at)
		 VALUES (1, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			token = excluded.token,
			user_id = excluded.user_id,
			role = excluded.role,
			updated_at = excluded.updated_at`,
		sess.Token, sess.UserID, string(sess.Role), time.Now().UTC().Format(time.RFC3339Nano),
	)
	return err
}

func (s *SQLiteStore) GetSession(ctx context.Context) (model.Session, bool, error) {
	s.logger.Debug("sql", "op", "select", "table", "session")

	var sess model.Session
	var role string
	err := s.db.QueryRowContext(ctx,
		`SELECT token, user_id, role FROM session WHERE id = 1`,
	).Scan(&sess.Token, &sess.UserID, &role)
	if err == sql.ErrNoRows {
		return model.Session{}, false, nil
	}
	if err != nil {
		return model.Session{}, false, err
	}
	sess.Role = model.Role(role)
	return sess, true, nil
}

func (s *SQLiteStore) DeleteSession(ctx context.Context) error {
	s.logger.Debug("sql", "op", "delete", "table", "session")
	_, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE id = 1`)
	return err
}

// --- Report cache ---

func (s *SQLiteStore) ReplaceReports(ctx context.Context, reports []model.Report) error {
	s.logger.Debug("sql", "op", "replace", "table", "cached_reports", "count", len(reports))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cached_reports`); err != nil {
		return err
	}
	for i, r := range reports {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO cached_reports
				(id, user_id, image_url, description, latitude, longitude, severity_level, status, created_at, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.UserID, r.ImageURL, r.Description, r.Latitude, r.Longitude,
			r.SeverityLevel, r.Status, r.CreatedAt.UTC().Format(time.RFC3339Nano), i,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) ListReports(ctx context.Context) ([]model.Report, error) {
	s.logger.Debug("sql", "op", "select", "table", "cached_reports")

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, image_url, description, latitude, longitude, severity_level, status, created_at
		 FROM cached_reports ORDER BY position`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []model.Report
	for rows.Next() {
		var r model.Report
		var createdAt string
		if err := rows.Scan(&r.ID, &r.UserID, &r.ImageURL, &r.Description,
			&r.Latitude, &r.Longitude, &r.SeverityLevel, &r.Status, &createdAt); err != nil {
			return nil, err
		}
		if createdAt != "" {
			if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
				r.CreatedAt = t
			}
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// --- Alert cache ---

func (s *SQLiteStore) ReplaceAlerts(ctx context.Context, alerts []model.Alert) error {
	s.logger.Debug("sql", "op", "replace", "table", "cached_alerts", "count", len(alerts))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cached_alerts`); err != nil {
		return err
	}
	for i, a := range alerts {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO cached_alerts
				(alert_id, report_id, alert_status, alert_timestamp, image_url, description,
				 latitude, longitude, severity_level, report_status, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.AlertID, a.ReportID, a.AlertStatus, a.AlertTime, a.ImageURL, a.Description,
			a.Latitude, a.Longitude, a.SeverityLevel, a.ReportStatus, i,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) ListAlerts(ctx context.Context) ([]model.Alert, error) {
	s.logger.Debug("sql", "op", "select", "table", "cached_alerts")

	rows, err := s.db.QueryContext(ctx,
		`SELECT alert_id, report_id, alert_status, alert_timestamp, image_url, description,
			latitude, longitude, severity_level, report_status
		 FROM cached_alerts ORDER BY position`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []model.Alert
	for rows.Next() {
		var a model.Alert
		if err := rows.Scan(&a.AlertID, &a.ReportID, &a.AlertStatus, &a.AlertTime,
			&a.ImageURL, &a.Description, &a.Latitude, &a.Longitude,
			&a.SeverityLevel, &a.ReportStatus); err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}
