// Package store persists local client state: the current session and cached
// copies of the most recently fetched reports and alerts, so listings can
// show stale-but-present data while the backend is unreachable.
package store

import (
	"context"

	"github.com/me/roadwatch/pkg/model"
)

// Store defines the local persistence layer.
type Store interface {
	// Session persistence (at most one row).
	SaveSession(ctx context.Context, sess model.Session) error
	GetSession(ctx context.Context) (model.Session, bool, error)
	DeleteSession(ctx context.Context) error

	// Report cache: each replace swaps the whole collection.
	ReplaceReports(ctx context.Context, reports []model.Report) error
	ListReports(ctx context.Context) ([]model.Report, error)

	// Alert cache: each replace swaps the whole collection.
	ReplaceAlerts(ctx context.Context, alerts []model.Alert) error
	ListAlerts(ctx context.Context) ([]model.Alert, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
