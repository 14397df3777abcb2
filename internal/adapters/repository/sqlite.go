package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/spencer-hanson/SaccadePopulationAnalysis/pkg/logger"
)

const schema = `
CREATE TABLE IF NOT EXISTS results (
	id         TEXT NOT NULL,
	session    TEXT NOT NULL,
	kind       TEXT NOT NULL,
	name       TEXT NOT NULL,
	data       BLOB NOT NULL,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (session, kind, name)
);`

// SQLiteStore persists cached results in a single SQLite table.
type SQLiteStore struct {
	db     *sql.DB
	logger logger.Logger
}

// OpenSQLite opens or creates the cache database at path.
func OpenSQLite(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}
	// SQLite allows one writer; a single connection also keeps ":memory:" shared.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}
	s := &SQLiteStore{db: db, logger: logger.Get().Named("cache")}
	for _, opt := range opts {
		opt(s)
	}
	s.logger.Debug(ctx, "cache opened", logger.String("path", path))
	return s, nil
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, key Key) ([]byte, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM results WHERE session = ? AND kind = ? AND name = ?`,
		key.Session, key.Kind, key.Name,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Put implements Store.
func (s *SQLiteStore) Put(ctx context.Context, key Key, data []byte) error {
	if err := key.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO results (id, session, kind, name, data) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (session, kind, name) DO UPDATE SET
			id = excluded.id,
			data = excluded.data,
			updated_at = CURRENT_TIMESTAMP`,
		uuid.NewString(), key.Session, key.Kind, key.Name, data,
	)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(ctx context.Context, key Key) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM results WHERE session = ? AND kind = ? AND name = ?`,
		key.Session, key.Kind, key.Name,
	)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
