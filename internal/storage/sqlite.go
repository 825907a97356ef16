// Package storage implements the local persisted-state capability as a
// sqlite-backed key-value blob store. Settings, the notifications-enabled
// flag, and the background check timestamp all live here as named blobs,
// mirroring the flat key-value storage the client relies on.
package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"skycast/internal/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS blobs (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Store is a sqlite-backed types.BlobStore.
type Store struct {
	db *sql.DB
}

// Compile-time assertion that Store implements types.BlobStore.
var _ types.BlobStore = (*Store)(nil)

// Open opens (creating if necessary) the blob store at path. Use ":memory:"
// for an ephemeral store in tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening blob store: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging blob store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing blob store schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Get returns the blob stored under key, or found=false when absent.
func (s *Store) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM blobs WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, types.NewAppError(types.ErrCodeInternalStorage,
			fmt.Sprintf("reading blob %q", key), err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous blob.
func (s *Store) Set(key string, value []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO blobs (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalStorage,
			fmt.Sprintf("writing blob %q", key), err)
	}
	return nil
}

// Delete removes the blob under key. Missing keys are not an error.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM blobs WHERE key = ?`, key); err != nil {
		return types.NewAppError(types.ErrCodeInternalStorage,
			fmt.Sprintf("deleting blob %q", key), err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
