package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// sweepInterval controls how often expired rows are removed in bulk.
// Reads already treat expired rows as absent, so the sweep only
// reclaims space.
const sweepInterval = 10 * time.Minute

// SQLite implements KV on a single-table SQLite database.
type SQLite struct {
	db   *sql.DB
	done chan struct{}
}

// NewSQLite opens (creating if needed) the database at path.
func NewSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	// WAL keeps concurrent update handlers from tripping over each
	// other. The _pragma form applies to every pooled connection.
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping store: %w", err)
	}

	s := &SQLite{db: db, done: make(chan struct{})}
	if err := s.initSchema(); err != nil {
		return nil, err
	}

	go s.sweepLoop()
	return s, nil
}

func (s *SQLite) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		expires_at INTEGER
	);
	CREATE INDEX IF NOT EXISTS idx_kv_expires ON kv(expires_at) WHERE expires_at IS NOT NULL;
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Get returns the stored value, treating expired rows as absent.
func (s *SQLite) Get(ctx context.Context, key string) ([]byte, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT value, expires_at FROM kv WHERE key = ?`, key)

	var value []byte
	var expiresAt sql.NullInt64
	if err := row.Scan(&value, &expiresAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan kv row: %w", err)
	}

	if expiresAt.Valid && expiresAt.Int64 <= time.Now().Unix() {
		// Lazy expiry: delete on read, report absent.
		if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
			log.Printf("[store] failed to delete expired key %s: %v", key, err)
		}
		return nil, ErrNotFound
	}

	return value, nil
}

// Put upserts value under key, resetting any TTL.
func (s *SQLite) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt interface{}
	if ttl != 0 {
		expiresAt = time.Now().Add(ttl).Unix()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at`,
		key, value, expiresAt)
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *SQLite) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Close stops the sweep loop and closes the database.
func (s *SQLite) Close() error {
	close(s.done)
	return s.db.Close()
}

func (s *SQLite) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			res, err := s.db.Exec(
				`DELETE FROM kv WHERE expires_at IS NOT NULL AND expires_at <= ?`,
				time.Now().Unix())
			if err != nil {
				log.Printf("[store] sweep failed: %v", err)
				continue
			}
			if n, err := res.RowsAffected(); err == nil && n > 0 {
				log.Printf("[store] swept %d expired entries", n)
			}
		}
	}
}
