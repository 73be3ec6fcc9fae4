package drafts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS draft_records (
	cache_key  TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);`

// SQLiteStore is the durable Store backed by a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// Open creates a SQLiteStore at dsn, applying recommended pragmas and
// creating the table if needed.
func Open(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Load(ctx context.Context, key Key) (map[int64]string, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM draft_records WHERE cache_key = ?`, key.String(),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return map[int64]string{}, nil
	}
	if err != nil {
		return nil, &StoreError{Op: "load", Key: key, Err: err}
	}

	var m map[int64]string
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		return nil, &StoreError{Op: "load", Key: key, Err: fmt.Errorf("malformed payload: %w", err)}
	}
	if m == nil {
		m = map[int64]string{}
	}
	return m, nil
}

func (s *SQLiteStore) Save(ctx context.Context, key Key, m map[int64]string) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return &StoreError{Op: "save", Key: key, Err: err}
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO draft_records (cache_key, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (cache_key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		key.String(), string(payload), time.Now().UTC(),
	)
	if err != nil {
		return &StoreError{Op: "save", Key: key, Err: err}
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key Key) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM draft_records WHERE cache_key = ?`, key.String(),
	); err != nil {
		return &StoreError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// Purge removes every cached draft record.
func (s *SQLiteStore) Purge(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM draft_records`); err != nil {
		return &StoreError{Op: "purge", Err: err}
	}
	return nil
}

// applyPragmas configures SQLite for single-user client use.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the cache file path in priority order:
// 1. TOLMACH_DB environment variable
// 2. $XDG_DATA_HOME/tolmach/drafts.db
// 3. ~/.local/share/tolmach/drafts.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("TOLMACH_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "tolmach", "drafts.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it does not exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
