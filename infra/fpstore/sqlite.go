package fpstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kilianp07/svitlo/core/fingerprint"
)

// SQLiteStore persists fingerprints in a single table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." && !isDSN(path) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS fingerprints (
        key TEXT PRIMARY KEY,
        value TEXT NOT NULL,
        updated_at INTEGER NOT NULL
    );`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func isDSN(path string) bool {
	return len(path) > 5 && path[:5] == "file:"
}

func (s *SQLiteStore) Load(ctx context.Context, key string) (fingerprint.Fingerprint, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM fingerprints WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fingerprint.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return fingerprint.Fingerprint(v), nil
}

func (s *SQLiteStore) Save(ctx context.Context, key string, fp fingerprint.Fingerprint) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO fingerprints (key, value, updated_at) VALUES (?, ?, ?)
         ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(fp), time.Now().Unix())
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
