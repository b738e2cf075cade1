package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/me/roadwatch/internal/store"
	"github.com/me/roadwatch/pkg/model"
)

// Store persists at most one session across process restarts.
type Store interface {
	// Load returns the persisted session and whether one was found.
	Load(ctx context.Context) (model.Session, bool, error)
	Save(ctx context.Context, sess model.Session) error
	Delete(ctx context.Context) error
}

const sessionFileName = "session.json"

// FileStore keeps the session as a JSON file in the data directory.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed session store under dataDir.
func NewFileStore(dataDir string) *FileStore {
	return &FileStore{path: filepath.Join(dataDir, sessionFileName)}
}

func (f *FileStore) Load(_ context.Context) (model.Session, bool, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return model.Session{}, false, nil
	}
	if err != nil {
		return model.Session{}, false, fmt.Errorf("read session file: %w", err)
	}

	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return model.Session{}, false, fmt.Errorf("parse session file: %w", err)
	}
	return sess, true, nil
}

func (f *FileStore) Save(_ context.Context, sess model.Session) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func (f *FileStore) Delete(_ context.Context) error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// DBStore adapts the local SQLite store to the session Store interface.
type DBStore struct {
	db store.Store
}

// NewDBStore creates a session store backed by the local database.
func NewDBStore(db store.Store) *DBStore {
	return &DBStore{db: db}
}

func (d *DBStore) Load(ctx context.Context) (model.Session, bool, error) {
	return d.db.GetSession(ctx)
}

func (d *DBStore) Save(ctx context.Context, sess model.Session) error {
	return d.db.SaveSession(ctx, sess)
}

func (d *DBStore) Delete(ctx context.Context) error {
	return d.db.DeleteSession(ctx)
}
